package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"freshcart/internal/apperror"
	"freshcart/internal/domain"
	"freshcart/internal/repository"

	"github.com/google/uuid"
)

// CategoryUpdate carries the optional fields of a category update; nil
// fields keep their current value
type CategoryUpdate struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// CategoryService defines the business logic for product categories
type CategoryService interface {
	List(ctx context.Context) ([]*domain.ProductCategory, error)
	ListForAdmin(ctx context.Context) ([]*domain.ProductCategory, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.ProductCategory, error)
	Create(ctx context.Context, name, description string) (*domain.ProductCategory, error)
	Update(ctx context.Context, id uuid.UUID, update CategoryUpdate) (*domain.ProductCategory, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ToggleStatus(ctx context.Context, id uuid.UUID) (*domain.ProductCategory, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

// List returns all live, active categories with their active product counts
func (s *categoryService) List(ctx context.Context) ([]*domain.ProductCategory, error) {
	categories, err := s.categoryRepo.List(ctx, nil, true)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return categories, nil
}

// ListForAdmin returns all live categories, inactive included
func (s *categoryService) ListForAdmin(ctx context.Context) ([]*domain.ProductCategory, error) {
	categories, err := s.categoryRepo.List(ctx, nil, false)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return categories, nil
}

// Get returns one live category
func (s *categoryService) Get(ctx context.Context, id uuid.UUID) (*domain.ProductCategory, error) {
	category, err := s.categoryRepo.FindByID(ctx, nil, id)
	if err != nil {
		if err == repository.ErrCategoryNotFound {
			return nil, apperror.NotFound("category not found")
		}
		return nil, apperror.Internal(err)
	}
	return category, nil
}

// Create adds a category; names are unique case-insensitively
func (s *categoryService) Create(ctx context.Context, name, description string) (*domain.ProductCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.Invalid("category name is required")
	}

	exists, err := s.categoryRepo.NameExists(ctx, nil, name, nil)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Invalid("category with this name already exists")
	}

	now := time.Now()
	category := &domain.ProductCategory{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(description),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.categoryRepo.Create(ctx, nil, category); err != nil {
		return nil, apperror.Internal(err)
	}
	return category, nil
}

// Update changes name, description, or status of a live category
func (s *categoryService) Update(ctx context.Context, id uuid.UUID, update CategoryUpdate) (*domain.ProductCategory, error) {
	category, err := s.categoryRepo.FindByID(ctx, nil, id)
	if err != nil {
		if err == repository.ErrCategoryNotFound {
			return nil, apperror.NotFound("category not found")
		}
		return nil, apperror.Internal(err)
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperror.Invalid("category name is required")
		}
		exists, err := s.categoryRepo.NameExists(ctx, nil, name, &id)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if exists {
			return nil, apperror.Invalid("category with this name already exists")
		}
		category.Name = name
	}
	if update.Description != nil {
		category.Description = strings.TrimSpace(*update.Description)
	}
	if update.IsActive != nil {
		category.IsActive = *update.IsActive
	}

	if err := s.categoryRepo.Update(ctx, nil, category); err != nil {
		if err == repository.ErrCategoryNotFound {
			return nil, apperror.NotFound("category not found")
		}
		return nil, apperror.Internal(err)
	}
	return category, nil
}

// Delete soft-deletes a category that no live product references
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, nil, id); err != nil {
		if err == repository.ErrCategoryNotFound {
			return apperror.NotFound("category not found")
		}
		return apperror.Internal(err)
	}

	count, err := s.categoryRepo.CountProducts(ctx, nil, id)
	if err != nil {
		return apperror.Internal(err)
	}
	if count > 0 {
		return apperror.Invalid(fmt.Sprintf("cannot delete category: it has %d product(s) associated with it", count))
	}

	if err := s.categoryRepo.SoftDelete(ctx, nil, id); err != nil {
		if err == repository.ErrCategoryNotFound {
			return apperror.NotFound("category not found")
		}
		return apperror.Internal(err)
	}
	return nil
}

// ToggleStatus flips the active flag of a live category
func (s *categoryService) ToggleStatus(ctx context.Context, id uuid.UUID) (*domain.ProductCategory, error) {
	category, err := s.categoryRepo.FindByID(ctx, nil, id)
	if err != nil {
		if err == repository.ErrCategoryNotFound {
			return nil, apperror.NotFound("category not found")
		}
		return nil, apperror.Internal(err)
	}

	category.IsActive = !category.IsActive
	if err := s.categoryRepo.Update(ctx, nil, category); err != nil {
		return nil, apperror.Internal(err)
	}
	return category, nil
}
