package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tasknest/tasknest/application/port/outbound"
	"github.com/tasknest/tasknest/domain/entity"
)

type FileRepositoryAdapter struct {
	db *sql.DB
}

func NewFileRepositoryAdapter(db *sql.DB) *FileRepositoryAdapter {
	return &FileRepositoryAdapter{db: db}
}

var _ outbound.FileRepository = (*FileRepositoryAdapter)(nil)

func (r *FileRepositoryAdapter) Create(ctx context.Context, file *entity.File) error {
	query := `
		INSERT INTO files (id, user_id, name, path, type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query, file.ID, file.UserID, file.Name, file.Path, file.Type, file.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	return nil
}
