package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"parkwise/internal/db"
	"parkwise/internal/repository"
)

// appendAudit records a status-change entry. Best effort: the operation it
// describes has already committed, so failures are only logged.
func appendAudit(ctx context.Context, repo repository.LogStore, userID, action, requestID, detail string) {
	err := repo.AppendLog(ctx, &db.Log{
		ID:        uuid.NewString(),
		UserID:    userID,
		Action:    action,
		RequestID: requestID,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		logAuditFailure(action, requestID, err)
	}
}

func logAuditFailure(action, requestID string, err error) {
	log.Printf("audit entry %s for request %s failed: %v", action, requestID, err)
}
