package tasks

import "time"

// Task is a single to-do item. UserID is the owning identity and is
// immutable after creation; every repository operation is qualified by it.
type Task struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}
