package service

import (
	"context"
	"log"
	"time"

	"parkwise/internal/repository"

	apperrors "parkwise/internal/errors"
)

// JobService runs the scheduled maintenance pass: slots bound to approved
// requests whose end window has passed are released back to AVAILABLE.
// The requests themselves stay APPROVED as closed records.
type JobService struct {
	repo repository.Store
}

func NewJobService(repo repository.Store) *JobService {
	return &JobService{repo: repo}
}

func (s *JobService) ReleaseExpired(ctx context.Context) error {
	bindings, err := s.repo.ListExpiredBindings(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	if len(bindings) == 0 {
		return nil
	}
	log.Printf("Cron Job: releasing %d expired slot bindings", len(bindings))

	for _, b := range bindings {
		err := s.repo.ReleaseSlot(ctx, b.SlotID)
		if err != nil {
			// Someone released it first; nothing to do for this one.
			if apperrors.KindOf(err) == apperrors.KindInvalidSlotState {
				continue
			}
			log.Printf("Cron Job: releasing slot %s for request %s failed: %v", b.SlotID, b.RequestID, err)
			continue
		}
		appendAudit(ctx, s.repo, "system", ActionSlotReleased, b.RequestID, "slot "+b.SlotID+" window expired")
	}
	return nil
}
