package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tasknest/tasknest/application/port/inbound"
	"github.com/tasknest/tasknest/application/port/outbound"
	"github.com/tasknest/tasknest/domain/entity"
	apperr "github.com/tasknest/tasknest/domain/error"
	"github.com/tasknest/tasknest/infrastructure/service/logger"
)

type TodoUseCase struct {
	todoRepository outbound.TodoRepository
	logger         logger.Logger
	newID          func() string
}

func NewTodoUseCase(todoRepo outbound.TodoRepository, log logger.Logger) *TodoUseCase {
	return &TodoUseCase{
		todoRepository: todoRepo,
		logger:         log,
		newID:          uuid.NewString,
	}
}

var _ inbound.TodoUseCase = (*TodoUseCase)(nil)

func (uc *TodoUseCase) Create(ctx context.Context, userID string, req inbound.CreateTodoRequest) (*entity.Todo, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, titleRequired()
	}

	todo := entity.NewTodo(uc.newID(), userID, title, req.Text)
	if err := uc.todoRepository.Create(ctx, todo); err != nil {
		return nil, uc.internal(ctx, "failed to create todo", err)
	}
	return todo, nil
}

func (uc *TodoUseCase) List(ctx context.Context, userID string, req inbound.ListTodosRequest) (*inbound.ListTodosResponse, error) {
	page, limit, filter, err := parseListQuery(req)
	if err != nil {
		return nil, err
	}

	offset := 0
	if limit > 0 {
		offset = (page - 1) * limit
	}

	todos, total, err := uc.todoRepository.List(ctx, userID, filter, offset, limit)
	if err != nil {
		return nil, uc.internal(ctx, "failed to list todos", err)
	}
	// Without a limit everything lives on page one.
	if limit == 0 && page > 1 {
		todos = nil
	}
	if todos == nil {
		todos = []*entity.Todo{}
	}

	return &inbound.ListTodosResponse{
		Todos:       todos,
		TotalPage:   totalPages(total, limit),
		CurrentPage: page,
	}, nil
}

func (uc *TodoUseCase) Get(ctx context.Context, userID, todoID string) (*entity.Todo, error) {
	return uc.load(ctx, userID, todoID)
}

// Update replaces every mutable field of the todo.
func (uc *TodoUseCase) Update(ctx context.Context, userID, todoID string, req inbound.UpdateTodoRequest) (*entity.Todo, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, titleRequired()
	}

	todo, err := uc.load(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}

	updated := *todo
	updated.Title = title
	updated.Text = req.Text
	updated.IsComplete = req.IsComplete
	updated.UpdatedAt = time.Now().UTC()

	if err := uc.todoRepository.Update(ctx, &updated); err != nil {
		if errors.Is(err, outbound.ErrTodoNotFound) {
			return nil, apperr.ErrNotFound("todo")
		}
		return nil, uc.internal(ctx, "failed to update todo", err)
	}
	return &updated, nil
}

func (uc *TodoUseCase) Delete(ctx context.Context, userID, todoID string) error {
	if _, err := uc.load(ctx, userID, todoID); err != nil {
		return err
	}
	if err := uc.todoRepository.Delete(ctx, todoID); err != nil {
		if errors.Is(err, outbound.ErrTodoNotFound) {
			return apperr.ErrNotFound("todo")
		}
		return uc.internal(ctx, "failed to delete todo", err)
	}
	return nil
}

// load fetches a todo and applies the ownership check.
func (uc *TodoUseCase) load(ctx context.Context, userID, todoID string) (*entity.Todo, error) {
	// Ids that cannot exist are reported like missing rows.
	if _, err := uuid.Parse(todoID); err != nil {
		return nil, apperr.ErrNotFound("todo")
	}

	todo, err := uc.todoRepository.FindByID(ctx, todoID)
	if err != nil {
		if errors.Is(err, outbound.ErrTodoNotFound) {
			return nil, apperr.ErrNotFound("todo")
		}
		return nil, uc.internal(ctx, "failed to load todo", err)
	}
	if err := validateUser(userID, todo); err != nil {
		logger.LogSecurityEvent(ctx, uc.logger, "foreign_todo_access", "LOW", map[string]interface{}{
			"user_id": userID,
			"todo_id": todoID,
		})
		return nil, err
	}
	return todo, nil
}

func (uc *TodoUseCase) internal(ctx context.Context, message string, err error) error {
	uc.logger.Error(ctx, message, err, nil)
	return apperr.ErrInternal(err)
}

// validateUser rejects callers that do not own the todo.
func validateUser(userID string, todo *entity.Todo) error {
	if !todo.OwnedBy(userID) {
		return apperr.ErrAccessDenied()
	}
	return nil
}

func titleRequired() error {
	return apperr.ErrValidation("validation failed", apperr.FieldError{Field: "title", Message: "title is required"})
}

func parseListQuery(req inbound.ListTodosRequest) (page, limit int, filter outbound.TodoFilter, err error) {
	var details []apperr.FieldError

	page = 1
	if req.Page != "" {
		n, convErr := strconv.Atoi(req.Page)
		if convErr != nil || n < 1 {
			details = append(details, apperr.FieldError{Field: "page", Message: "page must be a positive integer"})
		} else {
			page = n
		}
	}

	if req.Limit != "" {
		n, convErr := strconv.Atoi(req.Limit)
		if convErr != nil || n < 0 {
			details = append(details, apperr.FieldError{Field: "limit", Message: "limit must be a non-negative integer"})
		} else {
			limit = n
		}
	}

	if req.Title != "" {
		title := req.Title
		filter.Title = &title
	}
	if req.Text != "" {
		text := req.Text
		filter.Text = &text
	}
	if req.IsComplete != "" {
		b, convErr := strconv.ParseBool(req.IsComplete)
		if convErr != nil {
			details = append(details, apperr.FieldError{Field: "isComplete", Message: "isComplete must be true or false"})
		} else {
			filter.IsComplete = &b
		}
	}

	if len(details) > 0 {
		return 0, 0, outbound.TodoFilter{}, apperr.ErrValidation("invalid query", details...)
	}
	return page, limit, filter, nil
}

func totalPages(total, limit int) int {
	if total == 0 {
		return 0
	}
	if limit == 0 {
		return 1
	}
	return (total + limit - 1) / limit
}
