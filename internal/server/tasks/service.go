// Package tasks implements validation and ownership-scoped CRUD for to-do
// items. All persistence goes through bound parameters; client input is
// never part of the query text.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/todovault/todovault/internal/common"
	"github.com/todovault/todovault/internal/server/config"
)

type Service struct {
	repo          Repository
	maxTextLength int
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:          repo,
		maxTextLength: cfg.MaxTaskTextLength,
	}
}

func (s *Service) validateText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", common.ErrorValidation
	}
	if len(trimmed) > s.maxTextLength {
		return "", common.ErrorValidation
	}
	return trimmed, nil
}

// validateID rejects anything that is not a UUID before it reaches the
// store, so malformed ids surface as a 404 rather than a driver error.
func validateID(id string) error {
	if uuid.Validate(id) != nil {
		return common.ErrorNotFound
	}
	return nil
}

// Create stores a new task for the owner. Text is trimmed; empty or
// oversized text is rejected.
func (s *Service) Create(ctx context.Context, userID, text string) (*Task, error) {
	trimmed, err := s.validateText(text)
	if err != nil {
		return nil, err
	}

	task := &Task{
		UserID:    userID,
		Text:      trimmed,
		Completed: false,
		CreatedAt: time.Now().UTC(),
	}

	task, err = s.repo.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}

	return task, nil
}

// List returns the owner's tasks, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]*Task, error) {
	result, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	return result, nil
}

// likeEscaper neutralizes LIKE metacharacters so the search query matches
// them literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search returns the owner's tasks whose text contains the query,
// case-insensitively. The pattern is passed to the store as a bound
// parameter; an empty query behaves like List.
func (s *Service) Search(ctx context.Context, userID, query string) ([]*Task, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return s.List(ctx, userID)
	}
	if len(trimmed) > s.maxTextLength {
		return nil, common.ErrorValidation
	}

	pattern := "%" + likeEscaper.Replace(trimmed) + "%"

	result, err := s.repo.SearchByUser(ctx, userID, pattern)
	if err != nil {
		return nil, fmt.Errorf("error searching tasks: %w", err)
	}
	return result, nil
}

// SetCompleted toggles the completion flag of a task owned by userID.
// A task owned by anyone else yields common.ErrorNotFound.
func (s *Service) SetCompleted(ctx context.Context, userID, id string, completed bool) (*Task, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	task, err := s.repo.SetCompleted(ctx, userID, id, completed)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error updating task: %w", err)
	}

	return task, nil
}

// Delete removes a task owned by userID; same ownership semantics as
// SetCompleted.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error deleting task: %w", err)
	}

	return nil
}
