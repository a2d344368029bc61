package service

import (
	"context"
	"testing"
	"time"

	"freshcart/internal/apperror"
	"freshcart/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func seedAdmin(repo *mockAdminRepository, email, password string, isSuper bool, storeID *uuid.UUID) *domain.Admin {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	admin := &domain.Admin{
		ID:           uuid.New(),
		Name:         "Seeded Admin",
		Email:        email,
		PasswordHash: string(hashed),
		IsSuper:      isSuper,
		StoreID:      storeID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	repo.admins[admin.ID] = admin
	return admin
}

func TestAdminService_Login_TokenClaims(t *testing.T) {
	ctx := context.Background()
	adminRepo := newMockAdminRepository()
	storeRepo := newMockStoreRepository()
	tokens := NewTokenManager("test-secret", 24)
	svc := NewAdminService(adminRepo, newMockUserRepository(), storeRepo, tokens)

	storeID := uuid.New()
	storeAdmin := seedAdmin(adminRepo, "store@example.com", "password123", false, &storeID)
	superAdmin := seedAdmin(adminRepo, "super@example.com", "password123", true, nil)

	t.Run("store admin token carries the store scope", func(t *testing.T) {
		token, _, err := svc.Login(ctx, "store@example.com", "password123")
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}

		claims, err := tokens.Validate(token)
		if err != nil {
			t.Fatalf("token validation failed: %v", err)
		}
		if claims.AccountID != storeAdmin.ID {
			t.Fatalf("account ID mismatch")
		}
		if claims.Role != "admin" {
			t.Fatalf("expected role admin, got %q", claims.Role)
		}
		if claims.IsSuper {
			t.Fatal("store admin must not be super")
		}
		if claims.StoreID == nil || *claims.StoreID != storeID {
			t.Fatalf("expected store scope %s, got %v", storeID, claims.StoreID)
		}
	})

	t.Run("super admin token carries no store scope", func(t *testing.T) {
		token, _, err := svc.Login(ctx, "super@example.com", "password123")
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}

		claims, err := tokens.Validate(token)
		if err != nil {
			t.Fatalf("token validation failed: %v", err)
		}
		if claims.AccountID != superAdmin.ID {
			t.Fatalf("account ID mismatch")
		}
		if !claims.IsSuper {
			t.Fatal("super admin claim missing")
		}
		if claims.StoreID != nil {
			t.Fatalf("super admin must not carry a store scope, got %v", claims.StoreID)
		}
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "store@example.com", "wrong")
		if apperror.KindOf(err) != apperror.KindUnauthorized {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	})
}

func TestAdminService_StoreAdminLifecycle(t *testing.T) {
	ctx := context.Background()
	adminRepo := newMockAdminRepository()
	storeRepo := newMockStoreRepository()
	svc := NewAdminService(adminRepo, newMockUserRepository(), storeRepo, NewTokenManager("test-secret", 24))

	storeID := uuid.New()
	storeRepo.stores[storeID] = &domain.Store{ID: storeID, Name: "Downtown", City: "Springfield", Province: "Central"}

	admin, err := svc.CreateStoreAdmin(ctx, StoreAdminCreate{
		Name:     "New Admin",
		Email:    "new@example.com",
		Password: "password123",
		StoreID:  storeID,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if admin.IsSuper {
		t.Fatal("created store admins are never super")
	}
	if admin.StoreID == nil || *admin.StoreID != storeID {
		t.Fatal("store binding missing")
	}
	if admin.PasswordHash == "password123" {
		t.Fatal("password stored as plaintext")
	}

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := svc.CreateStoreAdmin(ctx, StoreAdminCreate{
			Name:     "Copycat",
			Email:    "new@example.com",
			Password: "password456",
			StoreID:  storeID,
		})
		if apperror.KindOf(err) != apperror.KindInvalidRequest {
			t.Fatalf("expected invalid request, got %v", err)
		}
	})

	t.Run("unknown store rejected", func(t *testing.T) {
		_, err := svc.CreateStoreAdmin(ctx, StoreAdminCreate{
			Name:     "Nowhere Admin",
			Email:    "nowhere@example.com",
			Password: "password123",
			StoreID:  uuid.New(),
		})
		if apperror.KindOf(err) != apperror.KindInvalidRequest {
			t.Fatalf("expected invalid request, got %v", err)
		}
	})

	t.Run("update rebinds the store", func(t *testing.T) {
		otherStore := uuid.New()
		storeRepo.stores[otherStore] = &domain.Store{ID: otherStore, Name: "Uptown"}

		updated, err := svc.UpdateStoreAdmin(ctx, admin.ID, StoreAdminUpdate{StoreID: &otherStore})
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if updated.StoreID == nil || *updated.StoreID != otherStore {
			t.Fatal("store rebinding missing")
		}
	})

	t.Run("super admins are shielded", func(t *testing.T) {
		superAdmin := seedAdmin(adminRepo, "super@example.com", "password123", true, nil)

		if _, err := svc.UpdateStoreAdmin(ctx, superAdmin.ID, StoreAdminUpdate{}); apperror.KindOf(err) != apperror.KindForbidden {
			t.Fatalf("expected forbidden on update, got %v", err)
		}
		if err := svc.DeleteStoreAdmin(ctx, superAdmin.ID); apperror.KindOf(err) != apperror.KindForbidden {
			t.Fatalf("expected forbidden on delete, got %v", err)
		}
	})

	t.Run("delete removes the admin", func(t *testing.T) {
		if err := svc.DeleteStoreAdmin(ctx, admin.ID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, err := svc.Profile(ctx, admin.ID); apperror.KindOf(err) != apperror.KindNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}
