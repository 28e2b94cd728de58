package repository

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"gitstack/internal/domain"
)

type ReadmeRepository struct {
	db *sqlx.DB
}

func NewReadmeRepository(db *sqlx.DB) *ReadmeRepository {
	return &ReadmeRepository{db: db}
}

func (r *ReadmeRepository) Get(ctx context.Context, projectID uuid.UUID, branch string) (*domain.ProjectReadme, error) {
	var readme domain.ProjectReadme
	query := `SELECT * FROM project_readmes WHERE project_id = $1 AND branch = $2`

	err := r.db.GetContext(ctx, &readme, query, projectID, branch)
	if err != nil {
		return nil, err
	}

	return &readme, nil
}

// Upsert пишет readme для пары (проект, ветка); одна строка на пару
func (r *ReadmeRepository) Upsert(ctx context.Context, readme *domain.ProjectReadme) error {
	query := `
        INSERT INTO project_readmes (project_id, branch, content, updated_by)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (project_id, branch)
        DO UPDATE SET content = EXCLUDED.content,
                      updated_by = EXCLUDED.updated_by,
                      updated_at = CURRENT_TIMESTAMP
        RETURNING updated_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		readme.ProjectID,
		readme.Branch,
		readme.Content,
		readme.UpdatedBy,
	).Scan(&readme.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert readme: %w", err)
	}

	return nil
}
