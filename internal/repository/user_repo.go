package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"parkwise/internal/db"
	apperrors "parkwise/internal/errors"
)

func (r *PostgresStore) CreateUser(ctx context.Context, u *db.User) error {
	query := `
		INSERT INTO users (id, name, email, phone, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(ctx, query, u.ID, u.Name, u.Email, u.Phone, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return apperrors.New(apperrors.KindDuplicateEmail, "email already registered")
		}
		return fmt.Errorf("error inserting user: %w", err)
	}
	return nil
}

func (r *PostgresStore) GetUser(ctx context.Context, id string) (*db.User, error) {
	return r.scanUser(r.DB.QueryRowContext(ctx,
		`SELECT id, name, email, phone, password_hash, role, created_at, updated_at FROM users WHERE id = $1`, id))
}

func (r *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*db.User, error) {
	return r.scanUser(r.DB.QueryRowContext(ctx,
		`SELECT id, name, email, phone, password_hash, role, created_at, updated_at FROM users WHERE LOWER(email) = LOWER($1)`, email))
}

func (r *PostgresStore) scanUser(row *sql.Row) (*db.User, error) {
	var u db.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("user")
		}
		return nil, fmt.Errorf("error scanning user: %w", err)
	}
	return &u, nil
}

func (r *PostgresStore) UpdateUser(ctx context.Context, u *db.User) error {
	query := `
		UPDATE users SET name = $2, email = $3, phone = $4, password_hash = $5, role = $6, updated_at = NOW()
		WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, u.ID, u.Name, u.Email, u.Phone, u.PasswordHash, u.Role)
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return apperrors.New(apperrors.KindDuplicateEmail, "email already registered")
		}
		return fmt.Errorf("error updating user: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("user")
	}
	return nil
}

func (r *PostgresStore) ListUsers(ctx context.Context, page Page) ([]db.User, int, error) {
	page = page.Norm()
	search := "%" + page.Search + "%"

	var total int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE name ILIKE $1 OR email ILIKE $1`, search).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting users: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, email, phone, password_hash, role, created_at, updated_at
		FROM users
		WHERE name ILIKE $1 OR email ILIKE $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3`, search, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying users: %w", err)
	}
	defer rows.Close()

	var users []db.User
	for rows.Next() {
		var u db.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error after iterating user rows: %w", err)
	}
	return users, total, nil
}
