package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/levelup-gaming/levelup-backend/internal/pricing"
	"github.com/levelup-gaming/levelup-backend/pkg/db/models"
	"github.com/levelup-gaming/levelup-backend/pkg/enums"
	pkgerrors "github.com/levelup-gaming/levelup-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productsRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// View is a cart plus its always-recomputed totals.
type View struct {
	Cart   models.CartRecord  `json:"cart"`
	Totals pricing.CartTotals `json:"totals"`
}

// AddItemInput captures an add-to-cart request.
type AddItemInput struct {
	ProductID      uuid.UUID
	Quantity       int
	PurchaseMethod enums.PurchaseMethod
}

// Service exposes cart operations. Totals are derived on every read;
// the cart rows never store them.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*View, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*View, error)
	UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*View, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*View, error)
	ClearCart(ctx context.Context, userID uuid.UUID) (*View, error)
	ExpireStaleCarts(ctx context.Context, olderThan time.Duration, limit int) (int, error)
}

type service struct {
	repo     Repository
	products productsRepository
	tx       txRunner
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, products productsRepository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, products: products, tx: tx}, nil
}

// GetCart returns the user's active cart, creating an empty one on
// first access.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*View, error) {
	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return buildView(cart), nil
}

// AddItem adds a product to the cart, merging with an existing line for
// the same product and purchase method. Stock is checked against the
// merged quantity.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*View, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	method := input.PurchaseMethod
	if method == "" {
		method = enums.PurchaseMethodMoney
	}
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid purchase method")
	}

	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if method == enums.PurchaseMethodPoints {
		if !product.Redeemable || product.PointsCost == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not redeemable with points")
		}
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindItem(ctx, cart.ID, product.ID, method)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		merged := input.Quantity
		if existing != nil {
			merged += existing.Quantity
		}
		if merged > product.Stock {
			return pkgerrors.New(pkgerrors.CodeStockExceeded, "requested quantity exceeds available stock").
				WithDetails(map[string]any{"available": product.Stock})
		}

		if existing != nil {
			existing.Quantity = merged
			applyLinePricing(existing, product, method)
			if err := repo.SaveItem(ctx, existing); err != nil {
				return err
			}
		} else {
			item := &models.CartItem{
				CartID:         cart.ID,
				ProductID:      product.ID,
				ProductName:    product.Name,
				Quantity:       merged,
				PurchaseMethod: method,
			}
			applyLinePricing(item, product, method)
			if err := repo.CreateItem(ctx, item); err != nil {
				return err
			}
		}
		return repo.Touch(ctx, cart.ID)
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add cart item")
	}

	return s.reload(ctx, cart.ID)
}

// UpdateItemQuantity sets a line's quantity. Zero or negative removes
// the line.
func (s *service) UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*View, error) {
	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, itemID)
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.FindItemByID(ctx, cart.ID, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
			}
			return err
		}

		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return err
		}
		if quantity > product.Stock {
			return pkgerrors.New(pkgerrors.CodeStockExceeded, "requested quantity exceeds available stock").
				WithDetails(map[string]any{"available": product.Stock})
		}

		item.Quantity = quantity
		applyLinePricing(item, product, item.PurchaseMethod)
		if err := repo.SaveItem(ctx, item); err != nil {
			return err
		}
		return repo.Touch(ctx, cart.ID)
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
	}

	return s.reload(ctx, cart.ID)
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*View, error) {
	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteItem(ctx, cart.ID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart item")
	}
	return s.reload(ctx, cart.ID)
}

func (s *service) ClearCart(ctx context.Context, userID uuid.UUID) (*View, error) {
	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteItems(ctx, cart.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return s.reload(ctx, cart.ID)
}

// ExpireStaleCarts flips active carts untouched for olderThan to
// expired. Returns how many carts were expired.
func (s *service) ExpireStaleCarts(ctx context.Context, olderThan time.Duration, limit int) (int, error) {
	if olderThan <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "ttl must be positive")
	}
	if limit <= 0 {
		limit = 100
	}

	cutoff := time.Now().UTC().Add(-olderThan)
	stale, err := s.repo.ListStale(ctx, cutoff, limit)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list stale carts")
	}

	expired := 0
	for _, cart := range stale {
		if err := s.repo.UpdateStatus(ctx, cart.ID, enums.CartStatusExpired); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return expired, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "expire cart")
		}
		expired++
	}
	return expired, nil
}

func (s *service) loadOrCreate(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	cart, err := s.repo.GetActiveByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	cart = &models.CartRecord{
		UserID: userID,
		Status: enums.CartStatusActive,
	}
	if err := s.repo.Create(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart")
	}
	return cart, nil
}

func (s *service) reload(ctx context.Context, cartID uuid.UUID) (*View, error) {
	cart, err := s.repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload cart")
	}
	return buildView(cart), nil
}

func buildView(cart *models.CartRecord) *View {
	return &View{
		Cart:   *cart,
		Totals: pricing.RecomputeTotals(Lines(cart.Items)),
	}
}

// Lines converts cart rows into pricing engine line items.
func Lines(items []models.CartItem) []pricing.LineItem {
	lines := make([]pricing.LineItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, pricing.LineItem{
			UnitPrice:      item.UnitPrice,
			Quantity:       item.Quantity,
			TotalPrice:     item.TotalPrice,
			PurchaseMethod: item.PurchaseMethod,
		})
	}
	return lines
}

// applyLinePricing re-derives the line's money and points figures from
// the product. Points lines never contribute money amounts.
func applyLinePricing(item *models.CartItem, product *models.Product, method enums.PurchaseMethod) {
	switch method {
	case enums.PurchaseMethodPoints:
		item.UnitPrice = 0
		item.TotalPrice = 0
		item.PointsPerUnit = 0
		item.PointsRequired = product.PointsCost
	default:
		item.UnitPrice = product.Price
		item.TotalPrice = product.Price * item.Quantity
		item.PointsPerUnit = product.Points
		item.PointsRequired = nil
	}
}
