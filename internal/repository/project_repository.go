package repository

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"gitstack/internal/domain"
)

type ProjectRepository struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	query := `
        INSERT INTO projects (id, name, description, visibility, owner_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		project.ID,
		project.Name,
		project.Description,
		project.Visibility,
		project.OwnerID,
	).Scan(&project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var project domain.Project
	query := `
        SELECT p.*,
               (SELECT COUNT(*) FROM snapshots s WHERE s.project_id = p.id) AS snapshots_count
        FROM projects p
        WHERE p.id = $1`

	err := r.db.GetContext(ctx, &project, query, id)
	if err != nil {
		return nil, err
	}

	return &project, nil
}

func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error) {
	projects := []domain.Project{}
	query := `
        SELECT p.*,
               (SELECT COUNT(*) FROM snapshots s WHERE s.project_id = p.id) AS snapshots_count
        FROM projects p
        WHERE p.owner_id = $1
        ORDER BY p.updated_at DESC`

	err := r.db.SelectContext(ctx, &projects, query, ownerID)
	if err != nil {
		return nil, err
	}

	return projects, nil
}

// Delete удаляет проект. Ветки, теги, снапшоты и readme уходят каскадом
// по внешним ключам.
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("project %s not found", id)
	}

	return nil
}
