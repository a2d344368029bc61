package repository

import (
	"context"
	"database/sql"
	"log"
	"testing"
	"time"

	"freshcart/internal/domain"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var testDB *sql.DB

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, err
	}

	connStr := "postgres://" + dbUser + ":" + dbPwd + "@" + dbHost + ":" + dbPort.Port() + "/" + dbName + "?sslmode=disable"
	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	_, err = testDB.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			name VARCHAR(200) NOT NULL,
			slug VARCHAR(220) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category_id UUID NOT NULL,
			price NUMERIC(12,2) NOT NULL,
			weight DOUBLE PRECISION,
			picture1 VARCHAR(500) NOT NULL,
			picture2 VARCHAR(500),
			picture3 VARCHAR(500),
			picture4 VARCHAR(500),
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			deleted_at TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS carts (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			deleted_at TIMESTAMPTZ
		);
		CREATE UNIQUE INDEX IF NOT EXISTS uq_carts_user
			ON carts (user_id) WHERE deleted_at IS NULL;

		CREATE TABLE IF NOT EXISTS cart_products (
			id UUID PRIMARY KEY,
			cart_id UUID NOT NULL,
			product_id UUID NOT NULL,
			store_id UUID NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			deleted_at TIMESTAMPTZ
		);
		CREATE UNIQUE INDEX IF NOT EXISTS uq_cart_products_cart_product_store
			ON cart_products (cart_id, product_id, store_id) WHERE deleted_at IS NULL;

		CREATE TABLE IF NOT EXISTS store_products (
			id UUID PRIMARY KEY,
			store_id UUID NOT NULL,
			product_id UUID NOT NULL,
			stock INTEGER NOT NULL CHECK (stock >= 0),
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			deleted_at TIMESTAMPTZ
		);
		CREATE UNIQUE INDEX IF NOT EXISTS uq_store_products_store_product
			ON store_products (store_id, product_id) WHERE deleted_at IS NULL;
	`)
	if err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}
}

func seedProduct(t *testing.T) uuid.UUID {
	t.Helper()

	id := uuid.New()
	now := time.Now()
	_, err := testDB.Exec(`
		INSERT INTO products (id, name, slug, description, category_id, price, picture1, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, '', $4, 9.99, 'https://img.example.com/p.jpg', TRUE, $5, $5)
	`, id, "Product "+id.String()[:8], "product-"+id.String()[:8], uuid.New(), now)
	if err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return id
}

func seedCart(t *testing.T, repo CartRepository) *domain.Cart {
	t.Helper()

	now := time.Now()
	cart := &domain.Cart{ID: uuid.New(), UserID: uuid.New(), CreatedAt: now, UpdatedAt: now}
	if err := repo.CreateCart(context.Background(), nil, cart); err != nil {
		t.Fatalf("failed to create cart: %v", err)
	}
	return cart
}

func TestCartRepository_FindCartByUserID(t *testing.T) {
	repo := NewCartRepository(testDB)
	ctx := context.Background()

	cart := seedCart(t, repo)

	found, err := repo.FindCartByUserID(ctx, nil, cart.UserID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found.ID != cart.ID {
		t.Fatalf("expected cart %s, got %s", cart.ID, found.ID)
	}

	if _, err := repo.FindCartByUserID(ctx, nil, uuid.New()); err != ErrCartNotFound {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
}

func TestCartRepository_OneLiveCartPerUser(t *testing.T) {
	repo := NewCartRepository(testDB)
	ctx := context.Background()

	cart := seedCart(t, repo)

	now := time.Now()
	dup := &domain.Cart{ID: uuid.New(), UserID: cart.UserID, CreatedAt: now, UpdatedAt: now}
	if err := repo.CreateCart(ctx, nil, dup); err == nil {
		t.Fatal("expected unique index violation for a second live cart")
	}
}

func TestCartRepository_LineLifecycle(t *testing.T) {
	repo := NewCartRepository(testDB)
	ctx := context.Background()

	cart := seedCart(t, repo)
	productID := seedProduct(t)
	storeID := uuid.New()

	now := time.Now()
	line := &domain.CartLine{
		ID:        uuid.New(),
		CartID:    cart.ID,
		ProductID: productID,
		StoreID:   storeID,
		Quantity:  1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.InsertLine(ctx, nil, line); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	found, err := repo.FindLine(ctx, nil, cart.ID, productID, storeID)
	if err != nil {
		t.Fatalf("find line failed: %v", err)
	}
	if found.Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", found.Quantity)
	}

	if err := repo.UpdateLineQuantity(ctx, nil, line.ID, 4); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	count, err := repo.CountLines(ctx, nil, cart.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 line, got %d", count)
	}

	lines, err := repo.ListLines(ctx, nil, cart.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", lines[0].Quantity)
	}
	if lines[0].Product == nil || lines[0].Product.ID != productID {
		t.Fatal("expected joined product on the line")
	}

	deleted, err := repo.SoftDeleteLine(ctx, nil, cart.ID, productID, storeID)
	if err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}
	if deleted.DeletedAt == nil {
		t.Fatal("expected deleted_at set on the returned line")
	}

	if _, err := repo.FindLine(ctx, nil, cart.ID, productID, storeID); err != ErrCartLineNotFound {
		t.Fatalf("expected ErrCartLineNotFound after delete, got %v", err)
	}
	if err := repo.UpdateLineQuantity(ctx, nil, line.ID, 2); err != ErrCartLineNotFound {
		t.Fatalf("expected ErrCartLineNotFound on deleted line, got %v", err)
	}

	count, err = repo.CountLines(ctx, nil, cart.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 lines after delete, got %d", count)
	}
}

func TestCartRepository_ReAddAfterSoftDelete(t *testing.T) {
	repo := NewCartRepository(testDB)
	ctx := context.Background()

	cart := seedCart(t, repo)
	productID := seedProduct(t)
	storeID := uuid.New()

	now := time.Now()
	first := &domain.CartLine{
		ID: uuid.New(), CartID: cart.ID, ProductID: productID, StoreID: storeID,
		Quantity: 2, CreatedAt: now, UpdatedAt: now,
	}
	if err := repo.InsertLine(ctx, nil, first); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if _, err := repo.SoftDeleteLine(ctx, nil, cart.ID, productID, storeID); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}

	// The partial unique index only covers live rows, so the same
	// (cart, product, store) can come back as a fresh line
	second := &domain.CartLine{
		ID: uuid.New(), CartID: cart.ID, ProductID: productID, StoreID: storeID,
		Quantity: 1, CreatedAt: now, UpdatedAt: now,
	}
	if err := repo.InsertLine(ctx, nil, second); err != nil {
		t.Fatalf("re-insert after soft delete failed: %v", err)
	}

	found, err := repo.FindLine(ctx, nil, cart.ID, productID, storeID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found.ID != second.ID {
		t.Fatal("expected the fresh line, not the deleted one")
	}
}

func TestStockRepository_Upsert(t *testing.T) {
	repo := NewStockRepository(testDB)
	ctx := context.Background()

	productID := seedProduct(t)
	storeID := uuid.New()

	now := time.Now()
	record := &domain.StoreProduct{
		ID: uuid.New(), StoreID: storeID, ProductID: productID,
		Stock: 5, CreatedAt: now, UpdatedAt: now,
	}

	created, err := repo.Upsert(ctx, nil, record)
	if err != nil {
		t.Fatalf("upsert insert failed: %v", err)
	}
	if created.Stock != 5 {
		t.Fatalf("expected stock 5, got %d", created.Stock)
	}

	record.Stock = 11
	updated, err := repo.Upsert(ctx, nil, record)
	if err != nil {
		t.Fatalf("upsert update failed: %v", err)
	}
	if updated.Stock != 11 {
		t.Fatalf("expected stock 11, got %d", updated.Stock)
	}
	if updated.ID != created.ID {
		t.Fatal("upsert must keep the existing record")
	}

	found, err := repo.FindByStoreAndProduct(ctx, nil, storeID, productID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found.Stock != 11 {
		t.Fatalf("expected stock 11, got %d", found.Stock)
	}
}
