package repositories

import (
	"aed-dispatch-service/internal/domain"
	"context"
	"fmt"
	"sync"
)

// In-memory implementation of the TaskRepository port. Tasks live for the
// lifetime of the process and are never removed.
type MemoryTaskRepository struct {
	mu    sync.RWMutex
	tasks []domain.DispatchTask // most recent first
}

func NewMemoryTaskRepository(seed ...domain.DispatchTask) *MemoryTaskRepository {
	return &MemoryTaskRepository{tasks: append([]domain.DispatchTask(nil), seed...)}
}

func (r *MemoryTaskRepository) Add(ctx context.Context, task domain.DispatchTask) error {
	if task.ID == "" {
		return fmt.Errorf("add task: empty id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tasks {
		if t.ID == task.ID {
			return fmt.Errorf("add task %q: duplicate id", task.ID)
		}
	}
	r.tasks = append([]domain.DispatchTask{task}, r.tasks...)
	return nil
}

func (r *MemoryTaskRepository) Update(ctx context.Context, id string, fn func(*domain.DispatchTask)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tasks {
		if r.tasks[i].ID == id {
			fn(&r.tasks[i])
			r.tasks[i].ID = id
			return nil
		}
	}
	return fmt.Errorf("update task %q: %w", id, domain.ErrTaskNotFound)
}

func (r *MemoryTaskRepository) ListTasks(ctx context.Context) ([]domain.DispatchTask, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.DispatchTask(nil), r.tasks...), nil
}

// Get returns one task by ID.
func (r *MemoryTaskRepository) Get(ctx context.Context, id string) (domain.DispatchTask, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.DispatchTask{}, fmt.Errorf("get task %q: %w", id, domain.ErrTaskNotFound)
}
