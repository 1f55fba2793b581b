package repository

import (
	"context"
	"sync"

	"taskmanager/internal/model"
)

// TaskRepository keeps tasks in memory for the lifetime of the process.
// Tasks are stored and returned by value, so callers never share state
// with the repository.
type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]model.Task
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{tasks: make(map[string]model.Task)}
}

// Put inserts a task or overwrites the one with the same id
func (r *TaskRepository) Put(_ context.Context, task model.Task) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[task.ID] = task
}

// Get retrieves a task by its ID
func (r *TaskRepository) Get(_ context.Context, id string) (model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return model.Task{}, ErrTaskNotFound
	}
	return task, nil
}

// Delete removes a task by its ID
func (r *TaskRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

// All returns every stored task in no particular order
func (r *TaskRepository) All(_ context.Context) []model.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]model.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		tasks = append(tasks, task)
	}
	return tasks
}

// Update runs fn on a copy of the stored task while holding the write lock.
// The copy replaces the stored task only when fn returns nil.
func (r *TaskRepository) Update(_ context.Context, id string, fn func(task *model.Task) error) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return model.Task{}, ErrTaskNotFound
	}
	if err := fn(&task); err != nil {
		return model.Task{}, err
	}
	r.tasks[id] = task
	return task, nil
}

// DeleteIf removes the task only when check returns nil for it.
func (r *TaskRepository) DeleteIf(_ context.Context, id string, check func(task model.Task) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return ErrTaskNotFound
	}
	if err := check(task); err != nil {
		return err
	}
	delete(r.tasks, id)
	return nil
}
