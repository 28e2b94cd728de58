package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gitstack/internal/domain"
	"gitstack/internal/repository"
)

type TagService struct {
	tagRepo *repository.TagRepository
}

func NewTagService(tagRepo *repository.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

func (s *TagService) GetTags(ctx context.Context, projectID uuid.UUID) ([]domain.Tag, error) {
	return s.tagRepo.ListByProject(ctx, projectID)
}

func (s *TagService) CreateTag(ctx context.Context, projectID uuid.UUID, req domain.TagCreate) (*domain.Tag, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("tag name is required")
	}
	if req.SnapshotID == uuid.Nil {
		return nil, fmt.Errorf("snapshot id is required")
	}

	tag := &domain.Tag{
		ID:         uuid.New(),
		ProjectID:  projectID,
		Name:       req.Name,
		SnapshotID: req.SnapshotID,
	}

	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, err
	}

	return tag, nil
}
