package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"gitstack/internal/domain"
)

type BranchRepository struct {
	db *sqlx.DB
}

func NewBranchRepository(db *sqlx.DB) *BranchRepository {
	return &BranchRepository{db: db}
}

// EnsureMain лениво создает ветку main, указывающую на последний снапшот
// проекта (или null, если снапшотов нет). Повторные и конкурентные вызовы
// безопасны: ON CONFLICT DO NOTHING не вставит дубликат.
func (r *BranchRepository) EnsureMain(ctx context.Context, projectID uuid.UUID) error {
	query := `
        INSERT INTO branches (id, project_id, name, head_snapshot_id)
        VALUES ($1, $2, $3, (
            SELECT id FROM snapshots
            WHERE project_id = $2
            ORDER BY created_at DESC
            LIMIT 1
        ))
        ON CONFLICT (project_id, name) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query, uuid.New(), projectID, domain.DefaultBranch)
	if err != nil {
		return fmt.Errorf("failed to ensure main branch: %w", err)
	}

	return nil
}

func (r *BranchRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Branch, error) {
	branches := []domain.Branch{}
	query := `SELECT * FROM branches WHERE project_id = $1 ORDER BY name`

	err := r.db.SelectContext(ctx, &branches, query, projectID)
	if err != nil {
		return nil, err
	}

	return branches, nil
}

// GetHead возвращает указатель ветки. nil без ошибки означает, что ветки
// с таким именем нет либо ее head пуст.
func (r *BranchRepository) GetHead(ctx context.Context, projectID uuid.UUID, name string) (*uuid.UUID, error) {
	var head *uuid.UUID
	query := `SELECT head_snapshot_id FROM branches WHERE project_id = $1 AND name = $2`

	err := r.db.GetContext(ctx, &head, query, projectID, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return head, nil
}
