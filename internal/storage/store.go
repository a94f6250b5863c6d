package storage

import (
	"context"
	"errors"
)

// ErrTodoNotFound is returned when no todo has the requested id
var ErrTodoNotFound = errors.New("todo not found")

// TodoStore persists todo items
type TodoStore interface {
	// List returns all todos, oldest first
	List(ctx context.Context) ([]*Todo, error)

	// Get returns the todo with the given id
	Get(ctx context.Context, id string) (*Todo, error)

	// Create stores a new todo
	Create(ctx context.Context, todo *Todo) error

	// Update overwrites an existing todo
	Update(ctx context.Context, todo *Todo) error

	// Delete removes a todo
	Delete(ctx context.Context, id string) error
}
