package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"taskmanager/internal/model"
	"taskmanager/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRepository_PutGet(t *testing.T) {
	// Arrange
	repo := repository.NewTaskRepository()
	ctx := context.Background()
	task := model.Task{ID: "t1", Title: "Buy milk", Status: model.StatusPending}

	// Act
	repo.Put(ctx, task)
	got, err := repo.Get(ctx, "t1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, task, got)
}

func TestTaskRepository_Get_NotFound(t *testing.T) {
	repo := repository.NewTaskRepository()

	_, err := repo.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
}

func TestTaskRepository_Delete(t *testing.T) {
	repo := repository.NewTaskRepository()
	ctx := context.Background()
	repo.Put(ctx, model.Task{ID: "t1"})

	assert.NoError(t, repo.Delete(ctx, "t1"))
	assert.ErrorIs(t, repo.Delete(ctx, "t1"), repository.ErrTaskNotFound)

	_, err := repo.Get(ctx, "t1")
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
}

func TestTaskRepository_All(t *testing.T) {
	repo := repository.NewTaskRepository()
	ctx := context.Background()
	assert.Empty(t, repo.All(ctx))

	repo.Put(ctx, model.Task{ID: "a"})
	repo.Put(ctx, model.Task{ID: "b"})
	repo.Put(ctx, model.Task{ID: "a", Title: "overwritten"})

	tasks := repo.All(ctx)
	assert.Len(t, tasks, 2)
}

func TestTaskRepository_Update_DiscardsOnError(t *testing.T) {
	repo := repository.NewTaskRepository()
	ctx := context.Background()
	repo.Put(ctx, model.Task{ID: "t1", Title: "original"})

	_, err := repo.Update(ctx, "t1", func(task *model.Task) error {
		task.Title = "changed"
		return assert.AnError
	})

	assert.ErrorIs(t, err, assert.AnError)
	got, _ := repo.Get(ctx, "t1")
	assert.Equal(t, "original", got.Title)
}

func TestTaskRepository_Update_NotFound(t *testing.T) {
	repo := repository.NewTaskRepository()

	_, err := repo.Update(context.Background(), "missing", func(*model.Task) error { return nil })

	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
}

func TestTaskRepository_ReturnedTaskIsACopy(t *testing.T) {
	repo := repository.NewTaskRepository()
	ctx := context.Background()
	repo.Put(ctx, model.Task{ID: "t1", Title: "original"})

	got, _ := repo.Get(ctx, "t1")
	got.Title = "mutated by caller"

	stored, _ := repo.Get(ctx, "t1")
	assert.Equal(t, "original", stored.Title)
}

func TestTaskRepository_DeleteIf(t *testing.T) {
	repo := repository.NewTaskRepository()
	ctx := context.Background()
	repo.Put(ctx, model.Task{ID: "t1", Status: model.StatusInProgress})

	errBlocked := errors.New("blocked")
	check := func(task model.Task) error {
		if task.Status == model.StatusInProgress {
			return errBlocked
		}
		return nil
	}

	assert.ErrorIs(t, repo.DeleteIf(ctx, "t1", check), errBlocked)
	_, err := repo.Get(ctx, "t1")
	assert.NoError(t, err)

	repo.Put(ctx, model.Task{ID: "t1", Status: model.StatusPending})
	assert.NoError(t, repo.DeleteIf(ctx, "t1", check))
	assert.ErrorIs(t, repo.DeleteIf(ctx, "t1", check), repository.ErrTaskNotFound)
}

func TestTaskRepository_ConcurrentUpdatesAreNotLost(t *testing.T) {
	repo := repository.NewTaskRepository()
	ctx := context.Background()
	repo.Put(ctx, model.Task{ID: "counter"})

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, _ = repo.Update(ctx, "counter", func(task *model.Task) error {
				task.Title += "x"
				return nil
			})
		}()
	}
	wg.Wait()

	got, err := repo.Get(ctx, "counter")
	require.NoError(t, err)
	assert.Len(t, got.Title, workers)
}
