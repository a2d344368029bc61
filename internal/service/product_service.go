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

// ProductCreate carries the fields of a new product
type ProductCreate struct {
	Name        string
	Description string
	CategoryID  uuid.UUID
	Price       float64
	Weight      *float64
	Picture1    string
	Picture2    *string
	Picture3    *string
	Picture4    *string
}

// ProductUpdate carries the optional fields of a product update; nil fields
// keep their current value
type ProductUpdate struct {
	Name        *string
	Description *string
	CategoryID  *uuid.UUID
	Price       *float64
	Weight      *float64
	Picture1    *string
	Picture2    *string
	Picture3    *string
	Picture4    *string
	IsActive    *bool
}

// ProductPage is one page of a product listing
type ProductPage struct {
	Products   []*domain.Product `json:"products"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	Total      int               `json:"total"`
	TotalPages int               `json:"total_pages"`
}

// ProductService defines the business logic for the product catalog and
// per-store stock records
type ProductService interface {
	List(ctx context.Context, filters repository.ProductFilters, page, limit int) (*ProductPage, error)
	ListForAdmin(ctx context.Context, filters repository.ProductFilters, page, limit int) (*ProductPage, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Create(ctx context.Context, input ProductCreate) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, update ProductUpdate) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ToggleStatus(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	UpdateStock(ctx context.Context, adminID, storeID, productID uuid.UUID, stock int) (*domain.StoreProduct, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	stockRepo    repository.StockRepository
	storeRepo    repository.StoreRepository
	adminRepo    repository.AdminRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	stockRepo repository.StockRepository,
	storeRepo repository.StoreRepository,
	adminRepo repository.AdminRepository,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		stockRepo:    stockRepo,
		storeRepo:    storeRepo,
		adminRepo:    adminRepo,
	}
}

// slugify lowercases a name, strips everything but letters, digits, spaces
// and hyphens, and collapses runs of whitespace and hyphens into single
// hyphens
func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ', r == '-':
			b.WriteRune(r)
		}
	}

	slug := strings.Join(strings.Fields(b.String()), "-")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return strings.Trim(slug, "-")
}

// uniqueSlug appends an incrementing numeric suffix to the base slug until
// no other live product carries it
func (s *productService) uniqueSlug(ctx context.Context, base string, excludeID *uuid.UUID) (string, error) {
	slug := base
	for counter := 1; ; counter++ {
		exists, err := s.productRepo.SlugExists(ctx, nil, slug, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}

// List returns one page of live products matching the filters. The public
// listing only shows active products unless the caller filters explicitly.
func (s *productService) List(ctx context.Context, filters repository.ProductFilters, page, limit int) (*ProductPage, error) {
	if filters.IsActive == nil {
		active := true
		filters.IsActive = &active
	}
	return s.page(ctx, filters, page, limit)
}

// ListForAdmin returns one page of live products including inactive ones, so
// store admins can review their catalog before activation
func (s *productService) ListForAdmin(ctx context.Context, filters repository.ProductFilters, page, limit int) (*ProductPage, error) {
	return s.page(ctx, filters, page, limit)
}

func (s *productService) page(ctx context.Context, filters repository.ProductFilters, page, limit int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	products, total, err := s.productRepo.List(ctx, nil, filters, page, limit)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	totalPages := (total + limit - 1) / limit
	return &ProductPage{
		Products:   products,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// Get returns one live product with its per-store stock and total
func (s *productService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, nil, id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, apperror.NotFound("product not found")
		}
		return nil, apperror.Internal(err)
	}

	if err := s.attachStock(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetBySlug returns one live, active product by slug
func (s *productService) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	product, err := s.productRepo.FindBySlug(ctx, nil, slug)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, apperror.NotFound("product not found")
		}
		return nil, apperror.Internal(err)
	}

	if err := s.attachStock(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) attachStock(ctx context.Context, product *domain.Product) error {
	stocks, err := s.stockRepo.ListByProduct(ctx, nil, product.ID)
	if err != nil {
		return apperror.Internal(err)
	}
	product.StoreStock = stocks
	for _, sp := range stocks {
		product.TotalStock += sp.Stock
	}
	return nil
}

// Create adds a product under an active category, deriving a unique slug
// from its name
func (s *productService) Create(ctx context.Context, input ProductCreate) (*domain.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.Invalid("product name is required")
	}

	if _, err := s.categoryRepo.FindActiveByID(ctx, nil, input.CategoryID); err != nil {
		if err == repository.ErrCategoryNotFound {
			return nil, apperror.Invalid("category not found or inactive")
		}
		return nil, apperror.Internal(err)
	}

	exists, err := s.productRepo.NameExists(ctx, nil, name, nil)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Invalid("product with this name already exists")
	}

	slug, err := s.uniqueSlug(ctx, slugify(name), nil)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	now := time.Now()
	product := &domain.Product{
		ID:          uuid.New(),
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		CategoryID:  input.CategoryID,
		Price:       input.Price,
		Weight:      input.Weight,
		Picture1:    input.Picture1,
		Picture2:    input.Picture2,
		Picture3:    input.Picture3,
		Picture4:    input.Picture4,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.Create(ctx, nil, product); err != nil {
		return nil, apperror.Internal(err)
	}
	return product, nil
}

// Update changes the mutable fields of a live product, re-deriving the slug
// when the name changes
func (s *productService) Update(ctx context.Context, id uuid.UUID, update ProductUpdate) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, nil, id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, apperror.NotFound("product not found")
		}
		return nil, apperror.Internal(err)
	}

	if update.CategoryID != nil {
		if _, err := s.categoryRepo.FindActiveByID(ctx, nil, *update.CategoryID); err != nil {
			if err == repository.ErrCategoryNotFound {
				return nil, apperror.Invalid("category not found or inactive")
			}
			return nil, apperror.Internal(err)
		}
		product.CategoryID = *update.CategoryID
	}

	if update.Name != nil && !strings.EqualFold(*update.Name, product.Name) {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperror.Invalid("product name is required")
		}
		exists, err := s.productRepo.NameExists(ctx, nil, name, &id)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if exists {
			return nil, apperror.Invalid("product with this name already exists")
		}
		slug, err := s.uniqueSlug(ctx, slugify(name), &id)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		product.Name = name
		product.Slug = slug
	}

	if update.Description != nil {
		product.Description = strings.TrimSpace(*update.Description)
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if update.Weight != nil {
		product.Weight = update.Weight
	}
	if update.Picture1 != nil {
		product.Picture1 = *update.Picture1
	}
	if update.Picture2 != nil {
		product.Picture2 = update.Picture2
	}
	if update.Picture3 != nil {
		product.Picture3 = update.Picture3
	}
	if update.Picture4 != nil {
		product.Picture4 = update.Picture4
	}
	if update.IsActive != nil {
		product.IsActive = *update.IsActive
	}

	if err := s.productRepo.Update(ctx, nil, product); err != nil {
		if err == repository.ErrProductNotFound {
			return nil, apperror.NotFound("product not found")
		}
		return nil, apperror.Internal(err)
	}
	return product, nil
}

// Delete soft-deletes a product and its stock records in one transaction.
// Products sitting in live carts cannot be deleted.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, nil, id); err != nil {
		if err == repository.ErrProductNotFound {
			return apperror.NotFound("product not found")
		}
		return apperror.Internal(err)
	}

	count, err := s.productRepo.CountInLiveCarts(ctx, nil, id)
	if err != nil {
		return apperror.Internal(err)
	}
	if count > 0 {
		return apperror.Invalid("cannot delete product: it is currently in customer carts")
	}

	err = s.productRepo.WithTx(ctx, func(q repository.DBTX) error {
		if err := s.productRepo.SoftDelete(ctx, q, id); err != nil {
			return err
		}
		return s.stockRepo.SoftDeleteByProduct(ctx, q, id)
	})
	if err != nil {
		if err == repository.ErrProductNotFound {
			return apperror.NotFound("product not found")
		}
		return apperror.Internal(err)
	}
	return nil
}

// ToggleStatus flips the active flag of a live product
func (s *productService) ToggleStatus(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, nil, id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, apperror.NotFound("product not found")
		}
		return nil, apperror.Internal(err)
	}

	product.IsActive = !product.IsActive
	if err := s.productRepo.Update(ctx, nil, product); err != nil {
		return nil, apperror.Internal(err)
	}
	return product, nil
}

// UpdateStock sets the stock figure for a (store, product) pair, creating
// the record on first use. Non-super admins may only touch their own store.
func (s *productService) UpdateStock(ctx context.Context, adminID, storeID, productID uuid.UUID, stock int) (*domain.StoreProduct, error) {
	if stock < 0 {
		return nil, apperror.Invalid("stock must be zero or greater")
	}

	admin, err := s.adminRepo.FindByID(ctx, nil, adminID)
	if err != nil {
		if err == repository.ErrAdminNotFound {
			return nil, apperror.NotFound("admin not found")
		}
		return nil, apperror.Internal(err)
	}
	if !admin.IsSuper {
		if admin.StoreID == nil || *admin.StoreID != storeID {
			return nil, apperror.Forbidden("admin is not assigned to this store")
		}
	}

	product, err := s.productRepo.FindByID(ctx, nil, productID)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, apperror.NotFound("product not found or inactive")
		}
		return nil, apperror.Internal(err)
	}
	if !product.IsActive {
		return nil, apperror.NotFound("product not found or inactive")
	}

	if _, err := s.storeRepo.FindByID(ctx, nil, storeID); err != nil {
		if err == repository.ErrStoreNotFound {
			return nil, apperror.NotFound("store not found")
		}
		return nil, apperror.Internal(err)
	}

	now := time.Now()
	record := &domain.StoreProduct{
		ID:        uuid.New(),
		StoreID:   storeID,
		ProductID: productID,
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}

	updated, err := s.stockRepo.Upsert(ctx, nil, record)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return updated, nil
}
