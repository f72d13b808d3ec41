package db

import (
	"github.com/todovault/todovault/internal/server/tasks"
	"github.com/todovault/todovault/internal/server/users"
)

// InMemoryRepositoryManager backs the repositories with in-process maps.
// Useful for tests and for running the server without Postgres.
type InMemoryRepositoryManager struct {
	users users.Repository
	tasks tasks.Repository
}

func (m *InMemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Tasks() tasks.Repository {
	return m.tasks
}

func (m *InMemoryRepositoryManager) Close() error {
	return nil
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return &InMemoryRepositoryManager{
		users: users.NewMemoryRepository(),
		tasks: tasks.NewMemoryRepository(),
	}
}
