package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/todovault/todovault/internal/common"
	"github.com/todovault/todovault/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Create(ctx context.Context, task *Task) (*Task, error) {

	query :=
		`INSERT INTO tasks (user_id, text, completed, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		task.UserID, task.Text, task.Completed, task.CreatedAt).Scan(&task.ID)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*Task, error) {
	query :=
		`SELECT id, user_id, text, completed, created_at FROM tasks
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// SearchByUser filters by a LIKE pattern bound as a parameter value. The
// pattern is built by the service; nothing from the client is ever
// concatenated into the query text.
func (r *PostgresRepository) SearchByUser(ctx context.Context, userID string, pattern string) ([]*Task, error) {
	query :=
		`SELECT id, user_id, text, completed, created_at FROM tasks
		 WHERE user_id = $1 AND text ILIKE $2 ESCAPE '\'
		 ORDER BY created_at DESC, id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, pattern)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// SetCompleted updates the flag in a single statement qualified by both the
// row id and the owner, so a row owned by someone else is indistinguishable
// from a missing one.
func (r *PostgresRepository) SetCompleted(ctx context.Context, userID, id string, completed bool) (*Task, error) {
	query :=
		`UPDATE tasks SET completed = $1
		 WHERE id = $2 AND user_id = $3
		 RETURNING id, user_id, text, completed, created_at
		 `

	task := &Task{}
	err := r.db.QueryRowContext(ctx, query, completed, id, userID).
		Scan(&task.ID, &task.UserID, &task.Text, &task.Completed, &task.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query :=
		`DELETE FROM tasks
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func scanTasks(rows *sql.Rows) ([]*Task, error) {
	result := make([]*Task, 0)
	for rows.Next() {
		task := &Task{}
		if err := rows.Scan(&task.ID, &task.UserID, &task.Text, &task.Completed, &task.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		result = append(result, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, nil
}
