package service

import (
	"context"
	"time"

	"freshcart/internal/apperror"
	"freshcart/internal/domain"
	"freshcart/internal/repository"

	"github.com/google/uuid"
)

// CartService maintains the invariant that a cart line's quantity never
// exceeds the originating store's available stock for that product. Stock is
// a ceiling, not a reservation: the service reads store_products and never
// decrements it.
type CartService interface {
	GetCartCount(ctx context.Context, userID uuid.UUID) (int, error)
	GetUserCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	AddProduct(ctx context.Context, userID, storeID, productID uuid.UUID) (*domain.CartLine, error)
	UpdateQuantity(ctx context.Context, userID, storeID, productID uuid.UUID, quantity int) (*domain.CartLine, error)
}

type cartService struct {
	cartRepo  repository.CartRepository
	stockRepo repository.StockRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(cartRepo repository.CartRepository, stockRepo repository.StockRepository) CartService {
	return &cartService{
		cartRepo:  cartRepo,
		stockRepo: stockRepo,
	}
}

// GetCartCount returns the number of live lines in the user's cart. The
// lookup and the count share one transaction so a concurrent cart deletion
// cannot slip between them.
func (s *cartService) GetCartCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := s.cartRepo.WithTx(ctx, func(q repository.DBTX) error {
		cart, err := s.cartRepo.FindCartByUserID(ctx, q, userID)
		if err != nil {
			if err == repository.ErrCartNotFound {
				return apperror.NotFound("user has no cart")
			}
			return apperror.Internal(err)
		}

		count, err = s.cartRepo.CountLines(ctx, q, cart.ID)
		if err != nil {
			return apperror.Internal(err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GetUserCart returns the user's cart with every live line and its product.
// A cart without lines is returned as-is, not an error.
func (s *cartService) GetUserCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.cartRepo.FindCartByUserID(ctx, nil, userID)
	if err != nil {
		if err == repository.ErrCartNotFound {
			return nil, apperror.NotFound("user has no cart")
		}
		return nil, apperror.Internal(err)
	}

	lines, err := s.cartRepo.ListLines(ctx, nil, cart.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	cart.Lines = lines
	return cart, nil
}

// AddProduct puts one unit of a (product, store) pair into the user's cart,
// incrementing the existing line if there is one. The stock check and the
// write share a single transaction so two concurrent adds cannot both pass
// the check against the same stock figure and push the line past the
// ceiling.
func (s *cartService) AddProduct(ctx context.Context, userID, storeID, productID uuid.UUID) (*domain.CartLine, error) {
	var result *domain.CartLine
	err := s.cartRepo.WithTx(ctx, func(q repository.DBTX) error {
		cart, err := s.cartRepo.FindCartByUserID(ctx, q, userID)
		if err != nil {
			if err == repository.ErrCartNotFound {
				return apperror.NotFound("user has no cart")
			}
			return apperror.Internal(err)
		}

		stock, err := s.stockRepo.FindByStoreAndProduct(ctx, q, storeID, productID)
		if err != nil {
			if err == repository.ErrStockNotFound {
				return apperror.Invalid("product not found")
			}
			return apperror.Internal(err)
		}
		if stock.Stock <= 0 {
			return apperror.Invalid("product is out of stock")
		}

		line, err := s.cartRepo.FindLine(ctx, q, cart.ID, productID, storeID)
		if err != nil && err != repository.ErrCartLineNotFound {
			return apperror.Internal(err)
		}

		if line != nil {
			if line.Quantity+1 > stock.Stock {
				return apperror.Invalid("not enough stock")
			}
			if err := s.cartRepo.UpdateLineQuantity(ctx, q, line.ID, line.Quantity+1); err != nil {
				return apperror.Internal(err)
			}
			line.Quantity++
			result = line
			return nil
		}

		now := time.Now()
		line = &domain.CartLine{
			ID:        uuid.New(),
			CartID:    cart.ID,
			ProductID: productID,
			StoreID:   storeID,
			Quantity:  1,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.cartRepo.InsertLine(ctx, q, line); err != nil {
			return apperror.Internal(err)
		}
		result = line
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateQuantity sets the quantity of the line identified by
// (cart, product, store). Zero deletes the line; a positive quantity is
// re-checked against the current stock figure inside the same transaction
// that writes it.
func (s *cartService) UpdateQuantity(ctx context.Context, userID, storeID, productID uuid.UUID, quantity int) (*domain.CartLine, error) {
	if quantity < 0 {
		return nil, apperror.Invalid("quantity must be zero or greater")
	}

	cart, err := s.cartRepo.FindCartByUserID(ctx, nil, userID)
	if err != nil {
		if err == repository.ErrCartNotFound {
			return nil, apperror.NotFound("user has no cart")
		}
		return nil, apperror.Internal(err)
	}

	if quantity == 0 {
		line, err := s.cartRepo.SoftDeleteLine(ctx, nil, cart.ID, productID, storeID)
		if err != nil {
			if err == repository.ErrCartLineNotFound {
				return nil, apperror.NotFound("cart item not found")
			}
			return nil, apperror.Internal(err)
		}
		return line, nil
	}

	var result *domain.CartLine
	err = s.cartRepo.WithTx(ctx, func(q repository.DBTX) error {
		stock, err := s.stockRepo.FindByStoreAndProduct(ctx, q, storeID, productID)
		if err != nil {
			if err == repository.ErrStockNotFound {
				return apperror.Invalid("product not found")
			}
			return apperror.Internal(err)
		}
		if stock.Stock < quantity {
			return apperror.Invalid("not enough stock")
		}

		line, err := s.cartRepo.FindLine(ctx, q, cart.ID, productID, storeID)
		if err != nil {
			if err == repository.ErrCartLineNotFound {
				return apperror.NotFound("cart item not found")
			}
			return apperror.Internal(err)
		}

		if err := s.cartRepo.UpdateLineQuantity(ctx, q, line.ID, quantity); err != nil {
			if err == repository.ErrCartLineNotFound {
				return apperror.NotFound("cart item not found")
			}
			return apperror.Internal(err)
		}
		line.Quantity = quantity
		result = line
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
