package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gitstack/internal/domain"
	"gitstack/internal/repository"
)

type BranchService struct {
	branchRepo *repository.BranchRepository
}

func NewBranchService(branchRepo *repository.BranchRepository) *BranchService {
	return &BranchService{branchRepo: branchRepo}
}

// GetBranches возвращает ветки проекта, предварительно гарантируя, что
// ветка main существует. Повторные вызовы без промежуточных записей дают
// один и тот же набор веток.
func (s *BranchService) GetBranches(ctx context.Context, projectID uuid.UUID) ([]domain.Branch, error) {
	if err := s.branchRepo.EnsureMain(ctx, projectID); err != nil {
		return nil, err
	}

	branches, err := s.branchRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}

	return branches, nil
}
