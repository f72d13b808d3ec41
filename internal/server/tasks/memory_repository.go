package tasks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/todovault/todovault/internal/common"
)

// MemoryRepository is an in-memory Repository mirroring the ownership and
// search semantics of the tasks table. Used by tests and local development.
type MemoryRepository struct {
	mu    sync.Mutex
	tasks map[string]*Task
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tasks: make(map[string]*Task)}
}

func (r *MemoryRepository) Create(_ context.Context, task *Task) (*Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task.ID = uuid.NewString()
	stored := *task
	r.tasks[task.ID] = &stored

	return task, nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID string) ([]*Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.listLocked(userID), nil
}

func (r *MemoryRepository) listLocked(userID string) []*Task {
	result := make([]*Task, 0)
	for _, stored := range r.tasks {
		if stored.UserID == userID {
			task := *stored
			result = append(result, &task)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result
}

// likeUnescaper reverses the escaping applied by the service so the
// in-memory match treats LIKE metacharacters literally, the same way the
// parameterized ILIKE does.
var likeUnescaper = strings.NewReplacer(`\\`, `\`, `\%`, `%`, `\_`, `_`)

func (r *MemoryRepository) SearchByUser(_ context.Context, userID string, pattern string) ([]*Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	needle := strings.TrimSuffix(strings.TrimPrefix(pattern, "%"), "%")
	needle = strings.ToLower(likeUnescaper.Replace(needle))

	result := make([]*Task, 0)
	for _, task := range r.listLocked(userID) {
		if strings.Contains(strings.ToLower(task.Text), needle) {
			result = append(result, task)
		}
	}
	return result, nil
}

func (r *MemoryRepository) SetCompleted(_ context.Context, userID, id string, completed bool) (*Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tasks[id]
	if !ok || stored.UserID != userID {
		return nil, common.ErrorNotFound
	}

	stored.Completed = completed
	task := *stored
	return &task, nil
}

func (r *MemoryRepository) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tasks[id]
	if !ok || stored.UserID != userID {
		return common.ErrorNotFound
	}

	delete(r.tasks, id)
	return nil
}
