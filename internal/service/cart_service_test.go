package service

import (
	"context"
	"testing"

	"freshcart/internal/apperror"
	"freshcart/internal/domain"
	"freshcart/internal/repository"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Mock repositories for testing
type mockCartRepository struct {
	carts map[uuid.UUID]*domain.Cart
	lines map[uuid.UUID]*domain.CartLine
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{
		carts: make(map[uuid.UUID]*domain.Cart),
		lines: make(map[uuid.UUID]*domain.CartLine),
	}
}

func (m *mockCartRepository) WithTx(ctx context.Context, fn func(q repository.DBTX) error) error {
	return fn(nil)
}

func (m *mockCartRepository) CreateCart(ctx context.Context, q repository.DBTX, cart *domain.Cart) error {
	m.carts[cart.UserID] = cart
	return nil
}

func (m *mockCartRepository) FindCartByUserID(ctx context.Context, q repository.DBTX, userID uuid.UUID) (*domain.Cart, error) {
	cart, exists := m.carts[userID]
	if !exists {
		return nil, repository.ErrCartNotFound
	}
	return cart, nil
}

func (m *mockCartRepository) CountLines(ctx context.Context, q repository.DBTX, cartID uuid.UUID) (int, error) {
	count := 0
	for _, line := range m.lines {
		if line.CartID == cartID && line.DeletedAt == nil {
			count++
		}
	}
	return count, nil
}

func (m *mockCartRepository) ListLines(ctx context.Context, q repository.DBTX, cartID uuid.UUID) ([]*domain.CartLine, error) {
	lines := []*domain.CartLine{}
	for _, line := range m.lines {
		if line.CartID == cartID && line.DeletedAt == nil {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (m *mockCartRepository) FindLine(ctx context.Context, q repository.DBTX, cartID, productID, storeID uuid.UUID) (*domain.CartLine, error) {
	for _, line := range m.lines {
		if line.CartID == cartID && line.ProductID == productID && line.StoreID == storeID && line.DeletedAt == nil {
			copied := *line
			return &copied, nil
		}
	}
	return nil, repository.ErrCartLineNotFound
}

func (m *mockCartRepository) InsertLine(ctx context.Context, q repository.DBTX, line *domain.CartLine) error {
	copied := *line
	m.lines[line.ID] = &copied
	return nil
}

func (m *mockCartRepository) UpdateLineQuantity(ctx context.Context, q repository.DBTX, lineID uuid.UUID, quantity int) error {
	line, exists := m.lines[lineID]
	if !exists || line.DeletedAt != nil {
		return repository.ErrCartLineNotFound
	}
	line.Quantity = quantity
	return nil
}

func (m *mockCartRepository) SoftDeleteLine(ctx context.Context, q repository.DBTX, cartID, productID, storeID uuid.UUID) (*domain.CartLine, error) {
	for _, line := range m.lines {
		if line.CartID == cartID && line.ProductID == productID && line.StoreID == storeID && line.DeletedAt == nil {
			now := line.UpdatedAt
			line.DeletedAt = &now
			copied := *line
			return &copied, nil
		}
	}
	return nil, repository.ErrCartLineNotFound
}

type mockStockRepository struct {
	stocks map[string]*domain.StoreProduct
}

func newMockStockRepository() *mockStockRepository {
	return &mockStockRepository{
		stocks: make(map[string]*domain.StoreProduct),
	}
}

func stockKey(storeID, productID uuid.UUID) string {
	return storeID.String() + "/" + productID.String()
}

func (m *mockStockRepository) set(storeID, productID uuid.UUID, stock int) {
	m.stocks[stockKey(storeID, productID)] = &domain.StoreProduct{
		ID:        uuid.New(),
		StoreID:   storeID,
		ProductID: productID,
		Stock:     stock,
	}
}

func (m *mockStockRepository) FindByStoreAndProduct(ctx context.Context, q repository.DBTX, storeID, productID uuid.UUID) (*domain.StoreProduct, error) {
	stock, exists := m.stocks[stockKey(storeID, productID)]
	if !exists {
		return nil, repository.ErrStockNotFound
	}
	return stock, nil
}

func (m *mockStockRepository) ListByProduct(ctx context.Context, q repository.DBTX, productID uuid.UUID) ([]*domain.StoreProduct, error) {
	stocks := []*domain.StoreProduct{}
	for _, stock := range m.stocks {
		if stock.ProductID == productID {
			stocks = append(stocks, stock)
		}
	}
	return stocks, nil
}

func (m *mockStockRepository) Upsert(ctx context.Context, q repository.DBTX, stock *domain.StoreProduct) (*domain.StoreProduct, error) {
	m.stocks[stockKey(stock.StoreID, stock.ProductID)] = stock
	return stock, nil
}

func (m *mockStockRepository) SoftDeleteByProduct(ctx context.Context, q repository.DBTX, productID uuid.UUID) error {
	for key, stock := range m.stocks {
		if stock.ProductID == productID {
			delete(m.stocks, key)
		}
	}
	return nil
}

func newCartFixture(stock int) (CartService, *mockCartRepository, *mockStockRepository, uuid.UUID, uuid.UUID, uuid.UUID) {
	cartRepo := newMockCartRepository()
	stockRepo := newMockStockRepository()
	svc := NewCartService(cartRepo, stockRepo)

	userID := uuid.New()
	storeID := uuid.New()
	productID := uuid.New()

	cartRepo.carts[userID] = &domain.Cart{ID: uuid.New(), UserID: userID}
	stockRepo.set(storeID, productID, stock)

	return svc, cartRepo, stockRepo, userID, storeID, productID
}

func TestProperty_CartQuantityNeverExceedsStock(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("repeated adds cap the line quantity at the stock figure", prop.ForAll(
		func(stock int, attempts int) bool {
			svc, cartRepo, _, userID, storeID, productID := newCartFixture(stock)
			ctx := context.Background()

			succeeded := 0
			for i := 0; i < attempts; i++ {
				_, err := svc.AddProduct(ctx, userID, storeID, productID)
				if err == nil {
					succeeded++
					continue
				}
				if apperror.KindOf(err) != apperror.KindInvalidRequest {
					t.Logf("FAIL: unexpected error kind: %v", err)
					return false
				}
			}

			expected := attempts
			if expected > stock {
				expected = stock
			}
			if succeeded != expected {
				t.Logf("FAIL: expected %d successful adds, got %d", expected, succeeded)
				return false
			}

			cart := cartRepo.carts[userID]
			line, err := cartRepo.FindLine(ctx, nil, cart.ID, productID, storeID)
			if expected == 0 {
				return err == repository.ErrCartLineNotFound
			}
			if err != nil {
				t.Logf("FAIL: expected a cart line: %v", err)
				return false
			}
			if line.Quantity != expected {
				t.Logf("FAIL: expected quantity %d, got %d", expected, line.Quantity)
				return false
			}
			return line.Quantity <= stock
		},
		gen.IntRange(0, 20),
		gen.IntRange(1, 30),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_UpdateQuantityRespectsStock(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("updates within stock succeed, beyond stock are rejected", prop.ForAll(
		func(stock int, quantity int) bool {
			svc, cartRepo, _, userID, storeID, productID := newCartFixture(stock)
			ctx := context.Background()

			if _, err := svc.AddProduct(ctx, userID, storeID, productID); err != nil {
				// Stock is at least 1 so the first add must pass
				t.Logf("FAIL: initial add failed: %v", err)
				return false
			}

			line, err := svc.UpdateQuantity(ctx, userID, storeID, productID, quantity)
			if quantity <= stock {
				if err != nil {
					t.Logf("FAIL: update to %d with stock %d rejected: %v", quantity, stock, err)
					return false
				}
				return line.Quantity == quantity
			}

			if err == nil {
				t.Logf("FAIL: update to %d with stock %d accepted", quantity, stock)
				return false
			}
			if apperror.KindOf(err) != apperror.KindInvalidRequest {
				t.Logf("FAIL: unexpected error kind: %v", err)
				return false
			}

			// A rejected update must leave the stored quantity untouched
			cart := cartRepo.carts[userID]
			stored, err := cartRepo.FindLine(ctx, nil, cart.ID, productID, storeID)
			if err != nil {
				t.Logf("FAIL: line missing after rejected update: %v", err)
				return false
			}
			if stored.Quantity != 1 {
				t.Logf("FAIL: rejected update changed quantity to %d", stored.Quantity)
				return false
			}
			return true
		},
		gen.IntRange(1, 20),
		gen.IntRange(1, 40),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ZeroQuantityRemovesLine(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("setting quantity to zero removes the line and empties the count", prop.ForAll(
		func(stock int) bool {
			svc, _, _, userID, storeID, productID := newCartFixture(stock)
			ctx := context.Background()

			if _, err := svc.AddProduct(ctx, userID, storeID, productID); err != nil {
				t.Logf("FAIL: initial add failed: %v", err)
				return false
			}

			if _, err := svc.UpdateQuantity(ctx, userID, storeID, productID, 0); err != nil {
				t.Logf("FAIL: removal failed: %v", err)
				return false
			}

			count, err := svc.GetCartCount(ctx, userID)
			if err != nil {
				t.Logf("FAIL: count after removal failed: %v", err)
				return false
			}
			if count != 0 {
				t.Logf("FAIL: expected empty cart, count %d", count)
				return false
			}

			// A second removal has nothing to delete
			_, err = svc.UpdateQuantity(ctx, userID, storeID, productID, 0)
			return apperror.KindOf(err) == apperror.KindNotFound
		},
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_CartCountMatchesDistinctProducts(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("count equals the number of distinct (product, store) lines", prop.ForAll(
		func(productCount int) bool {
			svc, _, stockRepo, userID, storeID, _ := newCartFixture(5)
			ctx := context.Background()

			for i := 0; i < productCount; i++ {
				productID := uuid.New()
				stockRepo.set(storeID, productID, 5)
				if _, err := svc.AddProduct(ctx, userID, storeID, productID); err != nil {
					t.Logf("FAIL: add failed: %v", err)
					return false
				}
				// Incrementing an existing line must not change the count
				if i == 0 {
					if _, err := svc.AddProduct(ctx, userID, storeID, productID); err != nil {
						t.Logf("FAIL: increment failed: %v", err)
						return false
					}
				}
			}

			count, err := svc.GetCartCount(ctx, userID)
			if err != nil {
				t.Logf("FAIL: count failed: %v", err)
				return false
			}
			return count == productCount
		},
		gen.IntRange(0, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCartService_AddProduct_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("user without cart", func(t *testing.T) {
		svc := NewCartService(newMockCartRepository(), newMockStockRepository())

		_, err := svc.AddProduct(ctx, uuid.New(), uuid.New(), uuid.New())
		if apperror.KindOf(err) != apperror.KindNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("unknown stock record", func(t *testing.T) {
		svc, _, _, userID, _, _ := newCartFixture(5)

		_, err := svc.AddProduct(ctx, userID, uuid.New(), uuid.New())
		if apperror.KindOf(err) != apperror.KindInvalidRequest {
			t.Fatalf("expected invalid request, got %v", err)
		}
		if err.Error() != "product not found" {
			t.Fatalf("unexpected message: %q", err.Error())
		}
	})

	t.Run("zero stock", func(t *testing.T) {
		svc, _, _, userID, storeID, productID := newCartFixture(0)

		_, err := svc.AddProduct(ctx, userID, storeID, productID)
		if apperror.KindOf(err) != apperror.KindInvalidRequest {
			t.Fatalf("expected invalid request, got %v", err)
		}
		if err.Error() != "product is out of stock" {
			t.Fatalf("unexpected message: %q", err.Error())
		}
	})

	t.Run("negative quantity update", func(t *testing.T) {
		svc, _, _, userID, storeID, productID := newCartFixture(5)

		_, err := svc.UpdateQuantity(ctx, userID, storeID, productID, -1)
		if apperror.KindOf(err) != apperror.KindInvalidRequest {
			t.Fatalf("expected invalid request, got %v", err)
		}
	})
}

func TestCartService_NoCart(t *testing.T) {
	ctx := context.Background()
	svc := NewCartService(newMockCartRepository(), newMockStockRepository())
	userID := uuid.New()

	if _, err := svc.GetCartCount(ctx, userID); apperror.KindOf(err) != apperror.KindNotFound {
		t.Fatalf("count: expected not found, got %v", err)
	}
	if _, err := svc.GetUserCart(ctx, userID); apperror.KindOf(err) != apperror.KindNotFound {
		t.Fatalf("get cart: expected not found, got %v", err)
	}

	_, err := svc.UpdateQuantity(ctx, userID, uuid.New(), uuid.New(), 1)
	if apperror.KindOf(err) != apperror.KindNotFound {
		t.Fatalf("update: expected not found, got %v", err)
	}
	if err.Error() != "user has no cart" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestCartService_StockCeilingLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _, _, userID, storeID, productID := newCartFixture(5)

	line, err := svc.AddProduct(ctx, userID, storeID, productID)
	if err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if line.Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", line.Quantity)
	}

	line, err = svc.AddProduct(ctx, userID, storeID, productID)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if line.Quantity != 2 {
		t.Fatalf("expected quantity 2 after repeat add, got %d", line.Quantity)
	}

	line, err = svc.UpdateQuantity(ctx, userID, storeID, productID, 4)
	if err != nil {
		t.Fatalf("update to 4 failed: %v", err)
	}
	if line.Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", line.Quantity)
	}

	_, err = svc.UpdateQuantity(ctx, userID, storeID, productID, 6)
	if apperror.KindOf(err) != apperror.KindInvalidRequest {
		t.Fatalf("expected invalid request for 6 over stock 5, got %v", err)
	}
	if err.Error() != "not enough stock" {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	cart, err := svc.GetUserCart(ctx, userID)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 4 {
		t.Fatal("rejected update must leave the line at quantity 4")
	}

	if _, err := svc.UpdateQuantity(ctx, userID, storeID, productID, 0); err != nil {
		t.Fatalf("removal failed: %v", err)
	}

	count, err := svc.GetCartCount(ctx, userID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty cart, count %d", count)
	}
}

func TestCartService_GetUserCart(t *testing.T) {
	ctx := context.Background()
	svc, _, stockRepo, userID, storeID, productID := newCartFixture(5)

	otherProduct := uuid.New()
	stockRepo.set(storeID, otherProduct, 3)

	if _, err := svc.AddProduct(ctx, userID, storeID, productID); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := svc.AddProduct(ctx, userID, storeID, otherProduct); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	cart, err := svc.GetUserCart(ctx, userID)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(cart.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(cart.Lines))
	}
	for _, line := range cart.Lines {
		if line.Quantity != 1 {
			t.Fatalf("expected quantity 1, got %d", line.Quantity)
		}
	}
}
