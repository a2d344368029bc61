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

// UserService defines the business logic for customer accounts
type UserService interface {
	Register(ctx context.Context, name, email, phoneNumber, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	Profile(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	cartRepo repository.CartRepository
	tokens   *TokenManager
}

// NewUserService creates a new instance of UserService
func NewUserService(userRepo repository.UserRepository, cartRepo repository.CartRepository, tokens *TokenManager) UserService {
	return &userService{
		userRepo: userRepo,
		cartRepo: cartRepo,
		tokens:   tokens,
	}
}

// Register creates a customer account and their cart in one transaction, so
// no account ever exists without a cart to add products to.
func (s *userService) Register(ctx context.Context, name, email, phoneNumber, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PhoneNumber:  strings.TrimSpace(phoneNumber),
		PasswordHash: string(hashed),
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.userRepo.WithTx(ctx, func(q repository.DBTX) error {
		existing, err := s.userRepo.FindByEmail(ctx, q, email)
		if err != nil && err != repository.ErrUserNotFound {
			return apperror.Internal(err)
		}
		if existing != nil {
			return apperror.Invalid("user with this email already exists")
		}

		if err := s.userRepo.Create(ctx, q, user); err != nil {
			return apperror.Internal(err)
		}

		cart := &domain.Cart{
			ID:        uuid.New(),
			UserID:    user.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.cartRepo.CreateCart(ctx, q, cart); err != nil {
			return apperror.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates a customer and returns a session token
func (s *userService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(ctx, nil, email)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return "", nil, apperror.Unauthorized(ErrInvalidCredentials.Error())
		}
		return "", nil, apperror.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperror.Unauthorized(ErrInvalidCredentials.Error())
	}

	token, err := s.tokens.Generate(user.ID, "user", false, nil)
	if err != nil {
		return "", nil, apperror.Internal(err)
	}
	return token, user, nil
}

// Profile returns the account behind a session
func (s *userService) Profile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, nil, userID)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return nil, apperror.NotFound("user not found")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}
