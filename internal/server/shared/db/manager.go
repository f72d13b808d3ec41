// Package db wires database connections to repositories and applies
// migrations at startup.
package db

import (
	"github.com/todovault/todovault/internal/server/tasks"
	"github.com/todovault/todovault/internal/server/users"
)

// RepositoryManager hands out the repositories backed by a single
// connection pool.
type RepositoryManager interface {
	Users() users.Repository
	Tasks() tasks.Repository
	Close() error
}
