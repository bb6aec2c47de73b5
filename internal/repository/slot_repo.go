package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"parkwise/internal/db"
	apperrors "parkwise/internal/errors"
	"parkwise/internal/utils"
)

const slotColumns = `id, slot_number, size, vehicle_type, location, status, created_at, updated_at`

func (r *PostgresStore) CreateSlot(ctx context.Context, s *db.ParkingSlot) error {
	query := `
		INSERT INTO parking_slots (id, slot_number, size, vehicle_type, location, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(ctx, query,
		s.ID, s.SlotNumber, s.Size, s.VehicleType, s.Location, s.Status, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "parking_slots_slot_number_key") {
			return apperrors.New(apperrors.KindDuplicateSlotNumber, "slot number already exists")
		}
		return fmt.Errorf("error inserting slot: %w", err)
	}
	return nil
}

func (r *PostgresStore) CreateSlots(ctx context.Context, slots []*db.ParkingSlot) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning bulk create tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO parking_slots (id, slot_number, size, vehicle_type, location, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, s := range slots {
		_, err := tx.ExecContext(ctx, query,
			s.ID, s.SlotNumber, s.Size, s.VehicleType, s.Location, s.Status, s.CreatedAt, s.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err, "parking_slots_slot_number_key") {
				return apperrors.New(apperrors.KindBulkCreateConflict, "slot number "+s.SlotNumber+" already exists")
			}
			return fmt.Errorf("error inserting slot %s: %w", s.SlotNumber, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing bulk create tx: %w", err)
	}
	return nil
}

func (r *PostgresStore) GetSlot(ctx context.Context, id string) (*db.ParkingSlot, error) {
	var s db.ParkingSlot
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+slotColumns+` FROM parking_slots WHERE id = $1`, id).
		Scan(&s.ID, &s.SlotNumber, &s.Size, &s.VehicleType, &s.Location, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("slot")
		}
		return nil, fmt.Errorf("error scanning slot: %w", err)
	}
	return &s, nil
}

func (r *PostgresStore) UpdateSlot(ctx context.Context, s *db.ParkingSlot) error {
	query := `
		UPDATE parking_slots
		SET slot_number = $2, size = $3, vehicle_type = $4, location = $5, updated_at = NOW()
		WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, s.ID, s.SlotNumber, s.Size, s.VehicleType, s.Location)
	if err != nil {
		if isUniqueViolation(err, "parking_slots_slot_number_key") {
			return apperrors.New(apperrors.KindDuplicateSlotNumber, "slot number already exists")
		}
		return fmt.Errorf("error updating slot: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("slot")
	}
	return nil
}

func (r *PostgresStore) DeleteSlot(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM parking_slots WHERE id = $1 AND status = $2`, id, db.SlotAvailable)
	if err != nil {
		return fmt.Errorf("error deleting slot: %w", err)
	}
	if n, _ := result.RowsAffected(); n > 0 {
		return nil
	}
	if _, err := r.GetSlot(ctx, id); err != nil {
		return err
	}
	return apperrors.New(apperrors.KindSlotInUse, "slot is not available")
}

func (r *PostgresStore) ListSlots(ctx context.Context, f SlotFilter, page Page) ([]db.ParkingSlot, int, error) {
	page = page.Norm()
	search := "%" + page.Search + "%"
	where := `
		($1 = '' OR size = $1) AND ($2 = '' OR vehicle_type = $2)
		AND ($3 = '' OR location = $3) AND ($4 = '' OR status = $4)
		AND slot_number ILIKE $5`
	args := []any{string(f.Size), string(f.VehicleType), string(f.Location), string(f.Status), search}

	var total int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM parking_slots WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting slots: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+slotColumns+` FROM parking_slots
		WHERE `+where+`
		ORDER BY slot_number ASC
		OFFSET $6 LIMIT $7`, append(args, page.Offset(), page.Limit)...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying slots: %w", err)
	}
	defer rows.Close()

	return scanSlotRows(rows, total)
}

func (r *PostgresStore) FindCompatible(ctx context.Context, vehicleType db.VehicleType, size db.SizeClass, preferred db.Location, limit int) ([]db.ParkingSlot, error) {
	if limit <= 0 {
		limit = 1
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+slotColumns+` FROM parking_slots
		WHERE status = $1 AND vehicle_type = $2
		AND (CASE size WHEN 'SMALL' THEN 0 WHEN 'MEDIUM' THEN 1 ELSE 2 END) >= $3
		ORDER BY (location = $4) DESC, slot_number ASC
		LIMIT $5`,
		db.SlotAvailable, vehicleType, utils.SizeRank(size), string(preferred), limit)
	if err != nil {
		return nil, fmt.Errorf("error querying compatible slots: %w", err)
	}
	defer rows.Close()

	slots, _, err := scanSlotRows(rows, 0)
	return slots, err
}

func (r *PostgresStore) BindSlot(ctx context.Context, id string) error {
	return r.transitionSlot(ctx, id, []db.SlotStatus{db.SlotAvailable}, db.SlotOccupied)
}

func (r *PostgresStore) ReleaseSlot(ctx context.Context, id string) error {
	return r.transitionSlot(ctx, id, []db.SlotStatus{db.SlotOccupied, db.SlotReserved}, db.SlotAvailable)
}

func (r *PostgresStore) SetSlotStatus(ctx context.Context, id string, from, to db.SlotStatus) error {
	return r.transitionSlot(ctx, id, []db.SlotStatus{from}, to)
}

// transitionSlot is the atomic check-and-set at the heart of slot binding:
// the UPDATE only applies while the slot still holds one of the expected
// statuses, so concurrent approvals cannot both take the same slot.
func (r *PostgresStore) transitionSlot(ctx context.Context, id string, from []db.SlotStatus, to db.SlotStatus) error {
	fromStrs := make([]string, len(from))
	for i, f := range from {
		fromStrs[i] = string(f)
	}
	result, err := r.DB.ExecContext(ctx, `
		UPDATE parking_slots SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = ANY($3)`,
		id, to, pq.Array(fromStrs))
	if err != nil {
		return fmt.Errorf("error transitioning slot: %w", err)
	}
	if n, _ := result.RowsAffected(); n > 0 {
		return nil
	}
	slot, err := r.GetSlot(ctx, id)
	if err != nil {
		return err
	}
	return apperrors.New(apperrors.KindInvalidSlotState, "slot is "+string(slot.Status))
}

func scanSlotRows(rows *sql.Rows, total int) ([]db.ParkingSlot, int, error) {
	var slots []db.ParkingSlot
	for rows.Next() {
		var s db.ParkingSlot
		if err := rows.Scan(&s.ID, &s.SlotNumber, &s.Size, &s.VehicleType, &s.Location, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("error scanning slot row: %w", err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error after iterating slot rows: %w", err)
	}
	return slots, total, nil
}
