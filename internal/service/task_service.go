package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"taskmanager/internal/model"

	"github.com/google/uuid"
)

const (
	TitleMinLength       = 3
	TitleMaxLength       = 100
	DescriptionMaxLength = 500
)

// TaskStore is the storage the service needs. repository.TaskRepository
// satisfies it.
type TaskStore interface {
	Put(ctx context.Context, task model.Task)
	Get(ctx context.Context, id string) (model.Task, error)
	All(ctx context.Context) []model.Task
	Update(ctx context.Context, id string, fn func(task *model.Task) error) (model.Task, error)
	DeleteIf(ctx context.Context, id string, check func(task model.Task) error) error
}

// CreateTaskInput holds a new task. Nil Status and Priority fall back to
// pending and medium; an empty value is rejected like any other unknown one.
type CreateTaskInput struct {
	Title       string
	Description *string
	Status      *model.Status
	Priority    *model.Priority
	DueDate     *model.Date
}

// UpdateTaskInput is a sparse patch: nil pointers and unset Nullable fields
// leave the stored value untouched. Description and DueDate can be cleared
// with an explicit null.
type UpdateTaskInput struct {
	Title       *string
	Description model.Nullable[string]
	Status      *model.Status
	Priority    *model.Priority
	DueDate     model.Nullable[model.Date]
}

// TaskFilter selects tasks by exact match; nil fields match everything.
type TaskFilter struct {
	Status    *model.Status
	Priority  *model.Priority
	IsOverdue *bool
}

type Option func(*TaskService)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) { s.now = now }
}

// WithLocation sets the location used to decide what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(s *TaskService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

type TaskService struct {
	store TaskStore
	now   func() time.Time
	loc   *time.Location
}

func NewTaskService(store TaskStore, opts ...Option) *TaskService {
	s := &TaskService{
		store: store,
		now:   time.Now,
		loc:   time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TaskService) today() model.Date {
	return model.DateOf(s.now().In(s.loc))
}

// Create validates the input, fills in defaults and stores a new task.
func (s *TaskService) Create(ctx context.Context, in CreateTaskInput) (model.Task, error) {
	status := model.StatusPending
	if in.Status != nil {
		status = *in.Status
	}
	priority := model.PriorityMedium
	if in.Priority != nil {
		priority = *in.Priority
	}

	if err := validateTitle(in.Title); err != nil {
		return model.Task{}, err
	}
	if err := validateDescription(in.Description); err != nil {
		return model.Task{}, err
	}
	if err := validateEnums(status, priority); err != nil {
		return model.Task{}, err
	}
	if err := s.validateDueDate(in.DueDate); err != nil {
		return model.Task{}, err
	}

	now := s.now().UTC()
	task := model.Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.store.Put(ctx, task)

	return task.WithOverdue(s.today()), nil
}

// List returns the tasks matching every field set in filter.
func (s *TaskService) List(ctx context.Context, filter TaskFilter) []model.Task {
	today := s.today()

	result := make([]model.Task, 0)
	for _, task := range s.store.All(ctx) {
		task = task.WithOverdue(today)

		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && task.Priority != *filter.Priority {
			continue
		}
		if filter.IsOverdue != nil && task.IsOverdue != *filter.IsOverdue {
			continue
		}
		result = append(result, task)
	}
	return result
}

// Get returns a task with IsOverdue computed for today. The stored record is
// not modified.
func (s *TaskService) Get(ctx context.Context, id string) (model.Task, error) {
	task, err := s.store.Get(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	return task.WithOverdue(s.today()), nil
}

// Update applies the fields present in the patch atomically.
func (s *TaskService) Update(ctx context.Context, id string, in UpdateTaskInput) (model.Task, error) {
	return s.store.Update(ctx, id, func(task *model.Task) error {
		// Время берём под блокировкой хранилища
		now := s.now()
		today := model.DateOf(now.In(s.loc))
		now = now.UTC()

		if in.DueDate.Valid && !in.DueDate.Value.After(today) {
			return ErrDueDateNotInFuture
		}
		if in.Title != nil {
			if err := validateTitle(*in.Title); err != nil {
				return err
			}
		}
		if in.Description.Set {
			if err := validateDescription(in.Description.Ptr()); err != nil {
				return err
			}
		}
		if in.Status != nil && !in.Status.IsValid() {
			return fmt.Errorf("%w: status must be one of pending, in_progress, completed", ErrValidation)
		}
		if in.Priority != nil && !in.Priority.IsValid() {
			return fmt.Errorf("%w: priority must be one of low, medium, high", ErrValidation)
		}

		prevStatus := task.Status

		if in.Title != nil {
			task.Title = *in.Title
		}
		if in.Description.Set {
			task.Description = in.Description.Ptr()
		}
		if in.Status != nil {
			task.Status = *in.Status
		}
		if in.Priority != nil {
			task.Priority = *in.Priority
		}
		if in.DueDate.Set {
			task.DueDate = in.DueDate.Ptr()
		}

		if task.Status == model.StatusCompleted && prevStatus != model.StatusCompleted && task.CompletedAt == nil {
			completedAt := now
			task.CompletedAt = &completedAt
		}
		task.UpdatedAt = now
		task.IsOverdue = task.Overdue(today)
		return nil
	})
}

// Delete removes a task unless it is in progress.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteIf(ctx, id, func(task model.Task) error {
		if task.Status == model.StatusInProgress {
			return ErrTaskInProgress
		}
		return nil
	})
}

func (s *TaskService) validateDueDate(due *model.Date) error {
	if due != nil && !due.After(s.today()) {
		return ErrDueDateNotInFuture
	}
	return nil
}

func validateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < TitleMinLength || n > TitleMaxLength {
		return fmt.Errorf("%w: title must be between %d and %d characters", ErrValidation, TitleMinLength, TitleMaxLength)
	}
	return nil
}

func validateDescription(desc *string) error {
	if desc != nil && utf8.RuneCountInString(*desc) > DescriptionMaxLength {
		return fmt.Errorf("%w: description must be at most %d characters", ErrValidation, DescriptionMaxLength)
	}
	return nil
}

func validateEnums(status model.Status, priority model.Priority) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: status must be one of pending, in_progress, completed", ErrValidation)
	}
	if !priority.IsValid() {
		return fmt.Errorf("%w: priority must be one of low, medium, high", ErrValidation)
	}
	return nil
}
