package repository

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"gitstack/internal/domain"
)

type TagRepository struct {
	db *sqlx.DB
}

func NewTagRepository(db *sqlx.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Tag, error) {
	tags := []domain.Tag{}
	query := `SELECT * FROM tags WHERE project_id = $1 ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &tags, query, projectID)
	if err != nil {
		return nil, err
	}

	return tags, nil
}

func (r *TagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	query := `
        INSERT INTO tags (id, project_id, name, snapshot_id)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		tag.ID,
		tag.ProjectID,
		tag.Name,
		tag.SnapshotID,
	).Scan(&tag.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tag: %w", err)
	}

	return nil
}
