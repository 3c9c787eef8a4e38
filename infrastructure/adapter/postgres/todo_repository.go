package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tasknest/tasknest/application/port/outbound"
	"github.com/tasknest/tasknest/domain/entity"
)

const todoColumns = "id, user_id, title, text, is_complete, created_at, updated_at"

type TodoRepositoryAdapter struct {
	db *sql.DB
}

func NewTodoRepositoryAdapter(db *sql.DB) *TodoRepositoryAdapter {
	return &TodoRepositoryAdapter{db: db}
}

var _ outbound.TodoRepository = (*TodoRepositoryAdapter)(nil)

func (r *TodoRepositoryAdapter) Create(ctx context.Context, todo *entity.Todo) error {
	query := `
		INSERT INTO todos (id, user_id, title, text, is_complete, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		todo.ID,
		todo.UserID,
		todo.Title,
		todo.Text,
		todo.IsComplete,
		todo.CreatedAt,
		todo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

func (r *TodoRepositoryAdapter) FindByID(ctx context.Context, id string) (*entity.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`

	todo, err := scanTodo(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}
	return todo, nil
}

func (r *TodoRepositoryAdapter) List(ctx context.Context, userID string, filter outbound.TodoFilter, offset, limit int) ([]*entity.Todo, int, error) {
	where, args := todoWhere(userID, filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM todos WHERE ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count todos: %w", err)
	}

	query := `SELECT ` + todoColumns + ` FROM todos WHERE ` + where + ` ORDER BY created_at, id`
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := make([]*entity.Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, total, nil
}

func (r *TodoRepositoryAdapter) Update(ctx context.Context, todo *entity.Todo) error {
	query := `
		UPDATE todos
		SET title = $2, text = $3, is_complete = $4, updated_at = $5
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, todo.ID, todo.Title, todo.Text, todo.IsComplete, todo.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}
	return expectOneRow(res, outbound.ErrTodoNotFound)
}

func (r *TodoRepositoryAdapter) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return expectOneRow(res, outbound.ErrTodoNotFound)
}

// todoWhere builds the filter clause from a fixed set of columns; user input
// only ever travels as bind arguments.
func todoWhere(userID string, filter outbound.TodoFilter) (string, []interface{}) {
	conds := []string{"user_id = $1"}
	args := []interface{}{userID}

	if filter.Title != nil {
		args = append(args, *filter.Title)
		conds = append(conds, fmt.Sprintf("title = $%d", len(args)))
	}
	if filter.Text != nil {
		args = append(args, *filter.Text)
		conds = append(conds, fmt.Sprintf("text = $%d", len(args)))
	}
	if filter.IsComplete != nil {
		args = append(args, *filter.IsComplete)
		conds = append(conds, fmt.Sprintf("is_complete = $%d", len(args)))
	}
	return strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTodo(row rowScanner) (*entity.Todo, error) {
	var todo entity.Todo
	if err := row.Scan(
		&todo.ID,
		&todo.UserID,
		&todo.Title,
		&todo.Text,
		&todo.IsComplete,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &todo, nil
}

func expectOneRow(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
