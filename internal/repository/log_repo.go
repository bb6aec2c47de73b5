package repository

import (
	"context"
	"fmt"

	"parkwise/internal/db"
)

func (r *PostgresStore) AppendLog(ctx context.Context, l *db.Log) error {
	query := `
		INSERT INTO logs (id, user_id, action, request_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query, l.ID, l.UserID, l.Action, l.RequestID, l.Detail, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting log: %w", err)
	}
	return nil
}

func (r *PostgresStore) ListLogs(ctx context.Context, page Page) ([]db.Log, int, error) {
	page = page.Norm()

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM logs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting logs: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, action, request_id, detail, created_at
		FROM logs
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2`, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying logs: %w", err)
	}
	defer rows.Close()

	var logs []db.Log
	for rows.Next() {
		var l db.Log
		if err := rows.Scan(&l.ID, &l.UserID, &l.Action, &l.RequestID, &l.Detail, &l.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("error scanning log row: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error after iterating log rows: %w", err)
	}
	return logs, total, nil
}
