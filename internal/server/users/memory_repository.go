package users

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/todovault/todovault/internal/common"
)

// MemoryRepository is an in-memory Repository with the same uniqueness
// semantics as the users table. Used by tests and local development.
type MemoryRepository struct {
	mu      sync.Mutex
	byEmail map[string]*User
	byID    map[string]*User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byEmail: make(map[string]*User),
		byID:    make(map[string]*User),
	}
}

func (r *MemoryRepository) Create(_ context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}

	user.ID = uuid.NewString()
	stored := *user
	r.byEmail[user.Email] = &stored
	r.byID[user.ID] = &stored

	return user, nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}

	user := *stored
	return &user, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}

	user := *stored
	return &user, nil
}
