package outbound

import (
	"context"
	"errors"

	"github.com/tasknest/tasknest/domain/entity"
)

var ErrTodoNotFound = errors.New("todo not found")

// TodoFilter narrows a listing by exact field matches. Nil fields are ignored.
type TodoFilter struct {
	Title      *string
	Text       *string
	IsComplete *bool
}

type TodoRepository interface {
	Create(ctx context.Context, todo *entity.Todo) error
	FindByID(ctx context.Context, id string) (*entity.Todo, error)
	// List returns one page of the user's todos and the total number of
	// matching rows. A limit of 0 returns every matching row.
	List(ctx context.Context, userID string, filter TodoFilter, offset, limit int) ([]*entity.Todo, int, error)
	Update(ctx context.Context, todo *entity.Todo) error
	Delete(ctx context.Context, id string) error
}
