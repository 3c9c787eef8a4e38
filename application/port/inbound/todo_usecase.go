package inbound

import (
	"context"

	"github.com/tasknest/tasknest/domain/entity"
)

type CreateTodoRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type UpdateTodoRequest struct {
	Title      string `json:"title"`
	Text       string `json:"text"`
	IsComplete bool   `json:"isComplete"`
}

// ListTodosRequest carries raw query values; the use case owns their parsing.
type ListTodosRequest struct {
	Page       string
	Limit      string
	Title      string
	Text       string
	IsComplete string
}

type ListTodosResponse struct {
	Todos       []*entity.Todo `json:"todo"`
	TotalPage   int            `json:"totalPage"`
	CurrentPage int            `json:"currentPage"`
}

// TodoUseCase operates on the caller's todos. Every method takes the
// authenticated user id and rejects access to todos owned by anyone else.
type TodoUseCase interface {
	Create(ctx context.Context, userID string, req CreateTodoRequest) (*entity.Todo, error)
	List(ctx context.Context, userID string, req ListTodosRequest) (*ListTodosResponse, error)
	Get(ctx context.Context, userID, todoID string) (*entity.Todo, error)
	Update(ctx context.Context, userID, todoID string, req UpdateTodoRequest) (*entity.Todo, error)
	Delete(ctx context.Context, userID, todoID string) error
}
