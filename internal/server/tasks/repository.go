package tasks

import (
	"context"
)

// Repository persists tasks. Every method that touches an existing row
// takes the owner's user id and must treat a row owned by someone else
// exactly like a missing row.
type Repository interface {
	Create(ctx context.Context, task *Task) (*Task, error)
	ListByUser(ctx context.Context, userID string) ([]*Task, error)
	SearchByUser(ctx context.Context, userID string, pattern string) ([]*Task, error)
	SetCompleted(ctx context.Context, userID, id string, completed bool) (*Task, error)
	Delete(ctx context.Context, userID, id string) error
}
