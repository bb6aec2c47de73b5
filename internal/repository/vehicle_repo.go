package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"parkwise/internal/db"
	apperrors "parkwise/internal/errors"
)

func (r *PostgresStore) CreateVehicle(ctx context.Context, v *db.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, user_id, plate_number, vehicle_type, size, color, model, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.ExecContext(ctx, query,
		v.ID, v.UserID, v.PlateNumber, v.VehicleType, v.Size, v.Color, v.Model, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "vehicles_user_plate_key") {
			return apperrors.New(apperrors.KindDuplicatePlate, "plate number already registered")
		}
		return fmt.Errorf("error inserting vehicle: %w", err)
	}
	return nil
}

func (r *PostgresStore) GetVehicle(ctx context.Context, id string) (*db.Vehicle, error) {
	var v db.Vehicle
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, plate_number, vehicle_type, size, color, model, created_at, updated_at
		FROM vehicles WHERE id = $1`, id).
		Scan(&v.ID, &v.UserID, &v.PlateNumber, &v.VehicleType, &v.Size, &v.Color, &v.Model, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("vehicle")
		}
		return nil, fmt.Errorf("error scanning vehicle: %w", err)
	}
	return &v, nil
}

func (r *PostgresStore) UpdateVehicle(ctx context.Context, v *db.Vehicle) error {
	query := `
		UPDATE vehicles
		SET plate_number = $2, vehicle_type = $3, size = $4, color = $5, model = $6, updated_at = NOW()
		WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, v.ID, v.PlateNumber, v.VehicleType, v.Size, v.Color, v.Model)
	if err != nil {
		if isUniqueViolation(err, "vehicles_user_plate_key") {
			return apperrors.New(apperrors.KindDuplicatePlate, "plate number already registered")
		}
		return fmt.Errorf("error updating vehicle: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("vehicle")
	}
	return nil
}

func (r *PostgresStore) DeleteVehicle(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting vehicle: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("vehicle")
	}
	return nil
}

func (r *PostgresStore) ListVehicles(ctx context.Context, f VehicleFilter, page Page) ([]db.Vehicle, int, error) {
	page = page.Norm()
	search := "%" + page.Search + "%"
	userID := f.UserID

	var total int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM vehicles
		WHERE ($1 = '' OR user_id = $1) AND (plate_number ILIKE $2 OR model ILIKE $2)`,
		userID, search).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting vehicles: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, plate_number, vehicle_type, size, color, model, created_at, updated_at
		FROM vehicles
		WHERE ($1 = '' OR user_id = $1) AND (plate_number ILIKE $2 OR model ILIKE $2)
		ORDER BY created_at DESC
		OFFSET $3 LIMIT $4`, userID, search, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []db.Vehicle
	for rows.Next() {
		var v db.Vehicle
		if err := rows.Scan(&v.ID, &v.UserID, &v.PlateNumber, &v.VehicleType, &v.Size, &v.Color, &v.Model, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("error scanning vehicle row: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error after iterating vehicle rows: %w", err)
	}
	return vehicles, total, nil
}
