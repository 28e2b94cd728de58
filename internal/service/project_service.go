package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gitstack/internal/domain"
	"gitstack/internal/repository"
)

type ProjectService struct {
	projectRepo *repository.ProjectRepository
}

func NewProjectService(projectRepo *repository.ProjectRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo}
}

func (s *ProjectService) CreateProject(ctx context.Context, req domain.ProjectCreate, ownerID string) (*domain.Project, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("project name is required")
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = domain.VisibilityPrivate
	}
	if visibility != domain.VisibilityPublic && visibility != domain.VisibilityPrivate {
		return nil, fmt.Errorf("invalid visibility: %s", visibility)
	}

	project := &domain.Project{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Visibility:  visibility,
		OwnerID:     ownerID,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	return s.projectRepo.GetByID(ctx, id)
}

func (s *ProjectService) ListProjects(ctx context.Context, ownerID string) ([]domain.Project, error) {
	return s.projectRepo.ListByOwner(ctx, ownerID)
}

// DeleteProject удаляет проект после проверки владельца
func (s *ProjectService) DeleteProject(ctx context.Context, id uuid.UUID, userID string) error {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if project.OwnerID != userID {
		return fmt.Errorf("access denied")
	}

	return s.projectRepo.Delete(ctx, id)
}
