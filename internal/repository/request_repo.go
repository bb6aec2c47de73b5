package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"parkwise/internal/db"
	apperrors "parkwise/internal/errors"
)

const requestColumns = `id, user_id, vehicle_id, preferred_location, start_time, end_time, notes, status, slot_id, rejection_reason, created_at, updated_at`

func (r *PostgresStore) CreateRequest(ctx context.Context, req *db.SlotRequest) error {
	query := `
		INSERT INTO slot_requests
		(id, user_id, vehicle_id, preferred_location, start_time, end_time, notes, status, slot_id, rejection_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, $11, $12)`
	_, err := r.DB.ExecContext(ctx, query,
		req.ID, req.UserID, req.VehicleID, string(req.PreferredLocation),
		nullTime(req.StartTime), nullTime(req.EndTime), req.Notes,
		req.Status, req.SlotID, req.RejectionReason, req.CreatedAt, req.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "slot_requests_active_vehicle_key") {
			return apperrors.New(apperrors.KindVehicleAlreadyRequesting, "vehicle already has an active request")
		}
		return fmt.Errorf("error inserting request: %w", err)
	}
	return nil
}

func (r *PostgresStore) GetRequest(ctx context.Context, id string) (*db.SlotRequest, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM slot_requests WHERE id = $1`, id)
	req, err := scanRequest(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("request")
		}
		return nil, fmt.Errorf("error scanning request: %w", err)
	}
	return req, nil
}

func (r *PostgresStore) DeleteRequest(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM slot_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting request: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("request")
	}
	return nil
}

func (r *PostgresStore) ListRequests(ctx context.Context, f RequestFilter, page Page) ([]db.SlotRequest, int, error) {
	page = page.Norm()
	where := `($1 = '' OR status = $1) AND ($2 = '' OR user_id = $2)`
	args := []any{string(f.Status), f.UserID}

	var total int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM slot_requests WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting requests: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+requestColumns+` FROM slot_requests
		WHERE `+where+`
		ORDER BY created_at DESC
		OFFSET $3 LIMIT $4`, append(args, page.Offset(), page.Limit)...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying requests: %w", err)
	}
	defer rows.Close()

	var requests []db.SlotRequest
	for rows.Next() {
		req, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning request row: %w", err)
		}
		requests = append(requests, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error after iterating request rows: %w", err)
	}
	return requests, total, nil
}

func (r *PostgresStore) HasActiveRequest(ctx context.Context, vehicleID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM slot_requests
			WHERE vehicle_id = $1 AND status IN ($2, $3)
		)`, vehicleID, db.RequestPending, db.RequestApproved).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking active request: %w", err)
	}
	return exists, nil
}

func (r *PostgresStore) MarkApproved(ctx context.Context, id, slotID string) error {
	return r.decideRequest(ctx, id, `
		UPDATE slot_requests SET status = $2, slot_id = $3, updated_at = NOW()
		WHERE id = $1 AND status = $4`,
		db.RequestApproved, slotID, db.RequestPending)
}

func (r *PostgresStore) MarkRejected(ctx context.Context, id, reason string) error {
	return r.decideRequest(ctx, id, `
		UPDATE slot_requests SET status = $2, rejection_reason = $3, updated_at = NOW()
		WHERE id = $1 AND status = $4`,
		db.RequestRejected, reason, db.RequestPending)
}

// decideRequest applies a terminal transition conditionally on the request
// still being PENDING.
func (r *PostgresStore) decideRequest(ctx context.Context, id, query string, args ...any) error {
	result, err := r.DB.ExecContext(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return fmt.Errorf("error updating request status: %w", err)
	}
	if n, _ := result.RowsAffected(); n > 0 {
		return nil
	}
	req, err := r.GetRequest(ctx, id)
	if err != nil {
		return err
	}
	return apperrors.New(apperrors.KindInvalidState, "request is "+string(req.Status))
}

func (r *PostgresStore) ListExpiredBindings(ctx context.Context, now time.Time) ([]ExpiredBinding, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT r.id, r.slot_id
		FROM slot_requests r
		JOIN parking_slots s ON s.id = r.slot_id
		WHERE r.status = $1 AND r.end_time IS NOT NULL AND r.end_time < $2 AND s.status = $3`,
		db.RequestApproved, now, db.SlotOccupied)
	if err != nil {
		return nil, fmt.Errorf("error querying expired bindings: %w", err)
	}
	defer rows.Close()

	var out []ExpiredBinding
	for rows.Next() {
		var b ExpiredBinding
		if err := rows.Scan(&b.RequestID, &b.SlotID); err != nil {
			return nil, fmt.Errorf("error scanning expired binding: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating expired bindings: %w", err)
	}
	return out, nil
}

func scanRequest(scan func(dest ...any) error) (*db.SlotRequest, error) {
	var (
		req       db.SlotRequest
		preferred string
		start     sql.NullTime
		end       sql.NullTime
		slotID    sql.NullString
	)
	err := scan(&req.ID, &req.UserID, &req.VehicleID, &preferred, &start, &end,
		&req.Notes, &req.Status, &slotID, &req.RejectionReason, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	req.PreferredLocation = db.Location(preferred)
	if start.Valid {
		t := start.Time
		req.StartTime = &t
	}
	if end.Valid {
		t := end.Time
		req.EndTime = &t
	}
	req.SlotID = slotID.String
	return &req, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
