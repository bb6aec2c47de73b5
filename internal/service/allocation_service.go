package service

import (
	"context"
	"strings"

	"parkwise/internal/auth"
	"parkwise/internal/db"
	apperrors "parkwise/internal/errors"
	"parkwise/internal/repository"
	"parkwise/internal/utils"
)

// AllocationService owns the request state machine. PENDING requests move
// to APPROVED or REJECTED, both terminal; the bind step is the only place
// a slot transitions AVAILABLE -> OCCUPIED.
type AllocationService struct {
	repo     repository.Store
	notifier Notifier
}

func NewAllocationService(repo repository.Store, notifier Notifier) *AllocationService {
	return &AllocationService{repo: repo, notifier: notifier}
}

// Approve decides a pending request. With an explicit slot id the slot
// must be AVAILABLE and compatible; without one the engine picks the first
// compatible AVAILABLE slot, preferred-location matches first, lowest slot
// number breaking ties. Losing the bind race to a concurrent approval is
// retried once through a fresh search before reporting NoAvailableSlot.
func (s *AllocationService) Approve(ctx context.Context, actor auth.Identity, requestID, slotID string) (*db.SlotRequest, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.New(apperrors.KindForbidden, "administrator role required")
	}
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != db.RequestPending {
		return nil, apperrors.New(apperrors.KindInvalidState, "request is "+string(req.Status))
	}
	vehicle, err := s.repo.GetVehicle(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	size, vehicleType := vehicle.CompatibleAttributes()

	var bound *db.ParkingSlot
	if slotID != "" {
		bound, err = s.bindExplicit(ctx, req, vehicleType, size, slotID)
	} else {
		bound, err = s.searchAndBind(ctx, req, vehicleType, size)
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkApproved(ctx, req.ID, bound.ID); err != nil {
		// Another admin decided the request first; give the slot back.
		if releaseErr := s.repo.ReleaseSlot(ctx, bound.ID); releaseErr != nil {
			logAuditFailure(ActionRequestApproved, req.ID, releaseErr)
		}
		return nil, err
	}

	approved, err := s.repo.GetRequest(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	appendAudit(ctx, s.repo, actor.UserID, ActionRequestApproved, req.ID, "slot "+bound.SlotNumber)
	if user, err := s.repo.GetUser(ctx, approved.UserID); err == nil {
		s.notifier.RequestApproved(user, approved, bound)
	}
	return approved, nil
}

func (s *AllocationService) bindExplicit(ctx context.Context, req *db.SlotRequest, vehicleType db.VehicleType, size db.SizeClass, slotID string) (*db.ParkingSlot, error) {
	slot, err := s.repo.GetSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.Status != db.SlotAvailable ||
		!utils.Compatible(slot, vehicleType, size, req.PreferredLocation) {
		return nil, apperrors.New(apperrors.KindIncompatibleSlot, "slot "+slot.SlotNumber+" cannot take this vehicle")
	}
	if err := s.repo.BindSlot(ctx, slot.ID); err != nil {
		if apperrors.KindOf(err) == apperrors.KindInvalidSlotState {
			// Raced to non-AVAILABLE; fall back to one search pass.
			return s.searchAndBind(ctx, req, vehicleType, size)
		}
		return nil, err
	}
	return slot, nil
}

func (s *AllocationService) searchAndBind(ctx context.Context, req *db.SlotRequest, vehicleType db.VehicleType, size db.SizeClass) (*db.ParkingSlot, error) {
	// Two passes: the second covers a bind lost to a concurrent approval.
	for attempt := 0; attempt < 2; attempt++ {
		candidates, err := s.repo.FindCompatible(ctx, vehicleType, size, req.PreferredLocation, 1)
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			return nil, apperrors.New(apperrors.KindNoAvailableSlot, "no compatible slot available")
		}
		slot := candidates[0]
		err = s.repo.BindSlot(ctx, slot.ID)
		if err == nil {
			return &slot, nil
		}
		if apperrors.KindOf(err) != apperrors.KindInvalidSlotState {
			return nil, err
		}
	}
	return nil, apperrors.New(apperrors.KindNoAvailableSlot, "no compatible slot available")
}

// Reject closes a pending request with a mandatory reason. Slot state is
// untouched.
func (s *AllocationService) Reject(ctx context.Context, actor auth.Identity, requestID, reason string) (*db.SlotRequest, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.New(apperrors.KindForbidden, "administrator role required")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.New(apperrors.KindReasonRequired, "a rejection reason is required")
	}
	if err := s.repo.MarkRejected(ctx, requestID, reason); err != nil {
		return nil, err
	}
	rejected, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	appendAudit(ctx, s.repo, actor.UserID, ActionRequestRejected, requestID, reason)
	if user, err := s.repo.GetUser(ctx, rejected.UserID); err == nil {
		s.notifier.RequestRejected(user, rejected, reason)
	}
	return rejected, nil
}

// Release frees the slot bound to an approved request, e.g. when the
// vehicle has departed. The request stays APPROVED as a closed record.
func (s *AllocationService) Release(ctx context.Context, actor auth.Identity, requestID string) error {
	if !actor.IsAdmin() {
		return apperrors.New(apperrors.KindForbidden, "administrator role required")
	}
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req.Status != db.RequestApproved || req.SlotID == "" {
		return apperrors.New(apperrors.KindInvalidState, "request has no bound slot")
	}
	if err := s.repo.ReleaseSlot(ctx, req.SlotID); err != nil {
		return err
	}
	appendAudit(ctx, s.repo, actor.UserID, ActionSlotReleased, requestID, "slot "+req.SlotID)
	return nil
}
