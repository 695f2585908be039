package ports

import (
	"aed-dispatch-service/internal/domain"
	"context"
)

// Port: the dispatcher task board.
type TaskRepository interface {
	// Add a task at the head of the board (most-recent-first).
	Add(ctx context.Context, task domain.DispatchTask) error
	// Mutate a task in place. Returns domain.ErrTaskNotFound for unknown IDs.
	Update(ctx context.Context, id string, fn func(*domain.DispatchTask)) error
	// Return a copy of every task, most-recent-first.
	ListTasks(ctx context.Context) ([]domain.DispatchTask, error)
}
