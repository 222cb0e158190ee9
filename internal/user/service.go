package user

import (
	"context"
	"fmt"
)

type Repository interface {
	GetByID(ctx context.Context, tenantID, userID int64) (*User, error)
	ListByTenant(ctx context.Context, tenantID int64) ([]*User, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(ctx context.Context, tenantID, userID int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, tenantID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return u, nil
}

func (s *Service) ListByTenant(ctx context.Context, tenantID int64) ([]*User, error) {
	users, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
