package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"gitstack/internal/domain"
)

type SnapshotRepository struct {
	db *sqlx.DB
}

func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// GetLatestID возвращает последний по времени создания снапшот проекта.
// nil без ошибки означает, что снапшотов у проекта нет.
func (r *SnapshotRepository) GetLatestID(ctx context.Context, projectID uuid.UUID) (*uuid.UUID, error) {
	var id uuid.UUID
	query := `
        SELECT id FROM snapshots
        WHERE project_id = $1
        ORDER BY created_at DESC
        LIMIT 1`

	err := r.db.GetContext(ctx, &id, query, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &id, nil
}

func (r *SnapshotRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Snapshot, error) {
	snapshots := []domain.Snapshot{}
	query := `SELECT * FROM snapshots WHERE project_id = $1 ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &snapshots, query, projectID)
	if err != nil {
		return nil, err
	}

	return snapshots, nil
}

// ListFiles возвращает файловые строки снапшота, пути которых начинаются
// с prefix, в лексикографическом порядке. limit ограничивает скан на
// патологически больших снапшотах.
func (r *SnapshotRepository) ListFiles(ctx context.Context, snapshotID uuid.UUID, prefix string, limit int) ([]domain.SnapshotFile, error) {
	files := []domain.SnapshotFile{}
	query := `
        SELECT * FROM snapshot_files
        WHERE snapshot_id = $1 AND path LIKE $2 ESCAPE '\'
        ORDER BY path ASC
        LIMIT $3`

	err := r.db.SelectContext(ctx, &files, query, snapshotID, escapeLike(prefix)+"%", limit)
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (r *SnapshotRepository) GetFile(ctx context.Context, snapshotID uuid.UUID, path string) (*domain.SnapshotFile, error) {
	var file domain.SnapshotFile
	query := `SELECT * FROM snapshot_files WHERE snapshot_id = $1 AND path = $2`

	err := r.db.GetContext(ctx, &file, query, snapshotID, path)
	if err != nil {
		return nil, err
	}

	return &file, nil
}

// CreateWithFiles вставляет снапшот вместе с файловыми строками и переводит
// head указанной ветки на него. Все в одной транзакции: наполовину
// записанный снапшот не должен быть виден читателям.
func (r *SnapshotRepository) CreateWithFiles(ctx context.Context, snapshot *domain.Snapshot, files []domain.SnapshotFile, branch string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
        INSERT INTO snapshots (id, project_id, author_id, title, description, external_id, files_count)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at`

	err = tx.QueryRowContext(
		ctx,
		query,
		snapshot.ID,
		snapshot.ProjectID,
		snapshot.AuthorID,
		snapshot.Title,
		snapshot.Description,
		snapshot.ExternalID,
		snapshot.FilesCount,
	).Scan(&snapshot.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	for _, f := range files {
		_, err = tx.ExecContext(ctx, `
            INSERT INTO snapshot_files (snapshot_id, path, hash, size_bytes, mode)
            VALUES ($1, $2, $3, $4, $5)`,
			snapshot.ID, f.Path, f.Hash, f.SizeBytes, f.Mode,
		)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot file %s: %w", f.Path, err)
		}
	}

	// Создаем ветку, если ее еще нет, и двигаем head на новый снапшот
	_, err = tx.ExecContext(ctx, `
        INSERT INTO branches (id, project_id, name, head_snapshot_id)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (project_id, name)
        DO UPDATE SET head_snapshot_id = EXCLUDED.head_snapshot_id, updated_at = CURRENT_TIMESTAMP`,
		uuid.New(), snapshot.ProjectID, branch, snapshot.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to advance branch %s: %w", branch, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE projects SET updated_at = CURRENT_TIMESTAMP WHERE id = $1`,
		snapshot.ProjectID,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// escapeLike экранирует метасимволы LIKE в пользовательском префиксе,
// чтобы "%" и "_" в путях матчились буквально.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
