package service

import (
	"context"
	"strings"
	"time"

	"freshcart/internal/apperror"
	"freshcart/internal/domain"
	"freshcart/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// StoreAdminCreate carries the fields of a new store admin
type StoreAdminCreate struct {
	Name     string
	Email    string
	Password string
	StoreID  uuid.UUID
}

// StoreAdminUpdate carries the optional fields of a store admin update; nil
// fields keep their current value
type StoreAdminUpdate struct {
	Name     *string
	Email    *string
	Password *string
	StoreID  *uuid.UUID
}

// AdminService defines the business logic for administrator accounts.
// Everything past Login and Profile is reserved for super admins.
type AdminService interface {
	Login(ctx context.Context, email, password string) (token string, admin *domain.Admin, err error)
	Profile(ctx context.Context, adminID uuid.UUID) (*domain.Admin, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	ListStoreAdmins(ctx context.Context) ([]*domain.Admin, error)
	CreateStoreAdmin(ctx context.Context, input StoreAdminCreate) (*domain.Admin, error)
	UpdateStoreAdmin(ctx context.Context, id uuid.UUID, update StoreAdminUpdate) (*domain.Admin, error)
	DeleteStoreAdmin(ctx context.Context, id uuid.UUID) error
}

type adminService struct {
	adminRepo repository.AdminRepository
	userRepo  repository.UserRepository
	storeRepo repository.StoreRepository
	tokens    *TokenManager
}

// NewAdminService creates a new instance of AdminService
func NewAdminService(
	adminRepo repository.AdminRepository,
	userRepo repository.UserRepository,
	storeRepo repository.StoreRepository,
	tokens *TokenManager,
) AdminService {
	return &adminService{
		adminRepo: adminRepo,
		userRepo:  userRepo,
		storeRepo: storeRepo,
		tokens:    tokens,
	}
}

// Login authenticates an admin and returns a session token carrying the
// admin's scope
func (s *adminService) Login(ctx context.Context, email, password string) (string, *domain.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	admin, err := s.adminRepo.FindByEmail(ctx, nil, email)
	if err != nil {
		if err == repository.ErrAdminNotFound {
			return "", nil, apperror.Unauthorized(ErrInvalidCredentials.Error())
		}
		return "", nil, apperror.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperror.Unauthorized(ErrInvalidCredentials.Error())
	}

	token, err := s.tokens.Generate(admin.ID, "admin", admin.IsSuper, admin.StoreID)
	if err != nil {
		return "", nil, apperror.Internal(err)
	}
	return token, admin, nil
}

// Profile returns the admin behind a session with their store summary
func (s *adminService) Profile(ctx context.Context, adminID uuid.UUID) (*domain.Admin, error) {
	admin, err := s.adminRepo.FindByID(ctx, nil, adminID)
	if err != nil {
		if err == repository.ErrAdminNotFound {
			return nil, apperror.NotFound("admin not found")
		}
		return nil, apperror.Internal(err)
	}
	return admin, nil
}

// ListUsers returns every live customer with their addresses
func (s *adminService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepo.ListWithAddresses(ctx, nil)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return users, nil
}

// ListStoreAdmins returns every live store admin with their store summary
func (s *adminService) ListStoreAdmins(ctx context.Context) ([]*domain.Admin, error) {
	admins, err := s.adminRepo.ListStoreAdmins(ctx, nil)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return admins, nil
}

// CreateStoreAdmin adds a non-super admin bound to an existing store
func (s *adminService) CreateStoreAdmin(ctx context.Context, input StoreAdminCreate) (*domain.Admin, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	exists, err := s.adminRepo.EmailExists(ctx, nil, email, nil)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Invalid("admin with this email already exists")
	}

	store, err := s.storeRepo.FindByID(ctx, nil, input.StoreID)
	if err != nil {
		if err == repository.ErrStoreNotFound {
			return nil, apperror.Invalid("store not found")
		}
		return nil, apperror.Internal(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), BcryptCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	now := time.Now()
	storeID := input.StoreID
	admin := &domain.Admin{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: string(hashed),
		IsSuper:      false,
		StoreID:      &storeID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.adminRepo.Create(ctx, nil, admin); err != nil {
		return nil, apperror.Internal(err)
	}

	admin.Store = &domain.StoreSummary{
		ID:       store.ID,
		Name:     store.Name,
		City:     store.City,
		Province: store.Province,
	}
	return admin, nil
}

// UpdateStoreAdmin changes name, email, password, or store of a live store
// admin. Super admin accounts cannot be edited through this path.
func (s *adminService) UpdateStoreAdmin(ctx context.Context, id uuid.UUID, update StoreAdminUpdate) (*domain.Admin, error) {
	admin, err := s.adminRepo.FindByID(ctx, nil, id)
	if err != nil {
		if err == repository.ErrAdminNotFound {
			return nil, apperror.NotFound("admin not found")
		}
		return nil, apperror.Internal(err)
	}
	if admin.IsSuper {
		return nil, apperror.Forbidden("super admin accounts cannot be modified")
	}

	if update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		exists, err := s.adminRepo.EmailExists(ctx, nil, email, &id)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if exists {
			return nil, apperror.Invalid("admin with this email already exists")
		}
		admin.Email = email
	}
	if update.Name != nil {
		admin.Name = strings.TrimSpace(*update.Name)
	}
	if update.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*update.Password), BcryptCost)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		admin.PasswordHash = string(hashed)
	}
	if update.StoreID != nil {
		store, err := s.storeRepo.FindByID(ctx, nil, *update.StoreID)
		if err != nil {
			if err == repository.ErrStoreNotFound {
				return nil, apperror.Invalid("store not found")
			}
			return nil, apperror.Internal(err)
		}
		storeID := *update.StoreID
		admin.StoreID = &storeID
		admin.Store = &domain.StoreSummary{
			ID:       store.ID,
			Name:     store.Name,
			City:     store.City,
			Province: store.Province,
		}
	}

	if err := s.adminRepo.Update(ctx, nil, admin); err != nil {
		if err == repository.ErrAdminNotFound {
			return nil, apperror.NotFound("admin not found")
		}
		return nil, apperror.Internal(err)
	}
	return admin, nil
}

// DeleteStoreAdmin soft-deletes a live store admin
func (s *adminService) DeleteStoreAdmin(ctx context.Context, id uuid.UUID) error {
	admin, err := s.adminRepo.FindByID(ctx, nil, id)
	if err != nil {
		if err == repository.ErrAdminNotFound {
			return apperror.NotFound("admin not found")
		}
		return apperror.Internal(err)
	}
	if admin.IsSuper {
		return apperror.Forbidden("super admin accounts cannot be deleted")
	}

	if err := s.adminRepo.SoftDelete(ctx, nil, id); err != nil {
		if err == repository.ErrAdminNotFound {
			return apperror.NotFound("admin not found")
		}
		return apperror.Internal(err)
	}
	return nil
}
