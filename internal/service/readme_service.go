package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"gitstack/internal/domain"
	"gitstack/internal/repository"
)

type ReadmeService struct {
	readmeRepo *repository.ReadmeRepository
}

func NewReadmeService(readmeRepo *repository.ReadmeRepository) *ReadmeService {
	return &ReadmeService{readmeRepo: readmeRepo}
}

// GetReadme возвращает readme для пары (проект, ветка). Отсутствие строки
// не ошибка: отдаем пустой документ, чтобы UI показал пустой редактор.
func (s *ReadmeService) GetReadme(ctx context.Context, projectID uuid.UUID, branch string) (*domain.ProjectReadme, error) {
	if branch == "" {
		branch = domain.DefaultBranch
	}

	readme, err := s.readmeRepo.Get(ctx, projectID, branch)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.ProjectReadme{
				ProjectID: projectID,
				Branch:    branch,
				Content:   "",
			}, nil
		}
		return nil, err
	}

	return readme, nil
}

func (s *ReadmeService) UpsertReadme(ctx context.Context, projectID uuid.UUID, branch, content, userID string) (*domain.ProjectReadme, error) {
	if branch == "" {
		branch = domain.DefaultBranch
	}

	readme := &domain.ProjectReadme{
		ProjectID: projectID,
		Branch:    branch,
		Content:   content,
		UpdatedBy: userID,
	}

	if err := s.readmeRepo.Upsert(ctx, readme); err != nil {
		return nil, err
	}

	return readme, nil
}
