package service

import (
	"context"

	"freshcart/internal/apperror"
	"freshcart/internal/domain"
	"freshcart/internal/repository"

	"github.com/google/uuid"
)

// StoreService defines the business logic for physical stores
type StoreService interface {
	List(ctx context.Context) ([]*domain.Store, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Store, error)
}

type storeService struct {
	storeRepo repository.StoreRepository
}

// NewStoreService creates a new instance of StoreService
func NewStoreService(storeRepo repository.StoreRepository) StoreService {
	return &storeService{storeRepo: storeRepo}
}

// List returns all live stores
func (s *storeService) List(ctx context.Context) ([]*domain.Store, error) {
	stores, err := s.storeRepo.List(ctx, nil)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return stores, nil
}

// Get returns one live store
func (s *storeService) Get(ctx context.Context, id uuid.UUID) (*domain.Store, error) {
	store, err := s.storeRepo.FindByID(ctx, nil, id)
	if err != nil {
		if err == repository.ErrStoreNotFound {
			return nil, apperror.NotFound("store not found")
		}
		return nil, apperror.Internal(err)
	}
	return store, nil
}
