package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/levelup-gaming/levelup-backend/internal/cart"
	"github.com/levelup-gaming/levelup-backend/internal/loyalty"
	"github.com/levelup-gaming/levelup-backend/internal/pricing"
	"github.com/levelup-gaming/levelup-backend/internal/products"
	"github.com/levelup-gaming/levelup-backend/internal/users"
	"github.com/levelup-gaming/levelup-backend/pkg/db/models"
	"github.com/levelup-gaming/levelup-backend/pkg/enums"
	pkgerrors "github.com/levelup-gaming/levelup-backend/pkg/errors"
	"github.com/levelup-gaming/levelup-backend/pkg/pagination"
	"github.com/levelup-gaming/levelup-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes checkout and order lifecycle operations.
type Service interface {
	Quote(ctx context.Context, userID uuid.UUID, redeemPoints int) (*QuoteResult, error)
	Checkout(ctx context.Context, input CheckoutInput) (*models.Order, error)
	GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error)
	GetOrderByNumber(ctx context.Context, actor Actor, number string) (*models.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, string, error)
	ListAllOrders(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Order, string, error)
	Transition(ctx context.Context, input TransitionInput) (*models.Order, error)
}

// Actor identifies who is asking. Admins can read and move any order;
// customers only their own.
type Actor struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// QuoteResult is the checkout preview: the priced breakdown plus the
// points the cart's rewards lines will consume on top of redemption.
type QuoteResult struct {
	pricing.Result
	RewardsPointsCost int `json:"rewards_points_cost"`
}

// CheckoutInput captures an order creation request.
type CheckoutInput struct {
	UserID          uuid.UUID
	RedeemPoints    int
	PaymentMethod   enums.PaymentMethod
	ShippingAddress types.ShippingAddress
	Notes           *string
	CreatedByAdmin  *uuid.UUID
}

// TransitionInput captures a lifecycle move request.
type TransitionInput struct {
	OrderID uuid.UUID
	Target  enums.OrderStatus
	Actor   Actor
}

type service struct {
	repo     Repository
	users    *users.Repository
	carts    cart.Repository
	products *products.Repository
	ledger   loyalty.Service
	tx       txRunner
}

// NewService builds an orders service backed by the provided stack.
func NewService(repo Repository, userRepo *users.Repository, cartRepo cart.Repository, productRepo *products.Repository, ledger loyalty.Service, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("loyalty service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:     repo,
		users:    userRepo,
		carts:    cartRepo,
		products: productRepo,
		ledger:   ledger,
		tx:       tx,
	}, nil
}

// Quote prices the active cart without touching stock or balances.
func (s *service) Quote(ctx context.Context, userID uuid.UUID, redeemPoints int) (*QuoteResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	record, err := s.carts.GetActiveByUser(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	var items []models.CartItem
	if record != nil {
		items = record.Items
	}
	return buildQuote(items, user, redeemPoints), nil
}

// Checkout converts the active cart into a pending order. Stock and
// points are deducted atomically; the cart flips to converted so a
// replay starts from an empty cart instead of double-charging.
func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*models.Order, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if err := input.ShippingAddress.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping address")
	}
	if input.RedeemPoints < 0 {
		input.RedeemPoints = 0
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.users.WithTx(tx)
		cartRepo := s.carts.WithTx(tx)
		productRepo := s.products.WithTx(tx)
		ledger := s.ledger.WithTx(tx)

		user, err := userRepo.FindByIDForUpdate(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return err
		}

		record, err := cartRepo.GetActiveByUser(ctx, user.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
			}
			return err
		}
		if len(record.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		rewardsCost := rewardsPointsCost(record.Items)
		if rewardsCost > user.Points {
			return pkgerrors.New(pkgerrors.CodeValidation, "insufficient points for rewards items").
				WithDetails(map[string]any{"required": rewardsCost, "balance": user.Points})
		}

		// Deduct stock line by line; the row guard refuses to go
		// negative, which surfaces as zero rows affected.
		for _, item := range record.Items {
			affected, err := productRepo.AdjustStock(ctx, item.ProductID, -item.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				available := 0
				if product, perr := productRepo.FindByID(ctx, item.ProductID); perr == nil {
					available = product.Stock
				}
				return pkgerrors.New(pkgerrors.CodeStockExceeded, "requested quantity exceeds available stock").
					WithDetails(map[string]any{
						"product_id": item.ProductID,
						"available":  available,
					})
			}
		}

		quote := pricing.Quote(
			cart.Lines(record.Items),
			pricing.Buyer{Email: user.Email, Points: user.Points - rewardsCost},
			input.RedeemPoints,
		)
		pointsSpent := quote.PointsDiscount + rewardsCost
		newBalance := user.Points - pointsSpent

		number, err := s.nextOrderNumber(ctx, tx)
		if err != nil {
			return err
		}

		order = &models.Order{
			OrderNumber:     number,
			UserID:          user.ID,
			Subtotal:        quote.Subtotal,
			DuocDiscount:    quote.DuocDiscount,
			PointsDiscount:  quote.PointsDiscount,
			ShippingCost:    quote.ShippingCost,
			Total:           quote.Total,
			PointsUsed:      pointsSpent,
			PointsEarned:    quote.PointsEarned,
			Status:          enums.OrderStatusPending,
			ShippingAddress: input.ShippingAddress,
			PaymentMethod:   input.PaymentMethod,
			Notes:           input.Notes,
			CreatedByAdmin:  input.CreatedByAdmin,
			Items:           copyCartItems(record.Items),
		}
		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}

		if pointsSpent > 0 {
			metadata, err := json.Marshal(map[string]string{"order_number": number})
			if err != nil {
				return err
			}
			if _, err := ledger.RecordEntry(ctx, loyalty.RecordEntryInput{
				UserID:       user.ID,
				OrderID:      &order.ID,
				Type:         enums.LedgerEntryTypePointsRedeemed,
				Delta:        -pointsSpent,
				BalanceAfter: newBalance,
				Metadata:     metadata,
			}); err != nil {
				return err
			}
			if err := userRepo.UpdatePointsAndLevel(ctx, user.ID, newBalance, loyalty.LevelFor(newBalance)); err != nil {
				return err
			}
		}

		return cartRepo.UpdateStatus(ctx, record.ID, enums.CartStatusConverted)
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checkout")
	}
	return order, nil
}

func (s *service) GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if !actor.IsAdmin && order.UserID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) GetOrderByNumber(ctx context.Context, actor Actor, number string) (*models.Order, error) {
	if number == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	order, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if !actor.IsAdmin && order.UserID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) ListOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, string, error) {
	if userID == uuid.Nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListByUser(ctx, userID, limit+1, cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return paginate(rows, limit)
}

func (s *service) ListAllOrders(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Order, string, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.List(ctx, filter, limit+1, cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return paginate(rows, limit)
}

// Transition moves an order along its lifecycle. Entering cancelled or
// rejected releases stock and refunds the points the order consumed;
// entering delivered credits the earned points. A replay into the
// current status is rejected as a state conflict, and the ledger's
// (order, type) uniqueness guards the side effects regardless.
func (s *service) Transition(ctx context.Context, input TransitionInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !input.Target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if !input.Actor.IsAdmin && input.Target != enums.OrderStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "customers may only cancel orders")
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByIDForUpdate(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return err
		}
		if !input.Actor.IsAdmin && order.UserID != input.Actor.UserID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}

		if !CanTransition(order.Status, input.Target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order status transition not allowed").
				WithDetails(map[string]any{
					"from":    order.Status,
					"to":      input.Target,
					"allowed": AllowedTransitions(order.Status),
				})
		}

		if err := repo.UpdateStatus(ctx, order.ID, input.Target); err != nil {
			return err
		}
		order.Status = input.Target

		switch {
		case releasesResources(input.Target):
			if err := s.releaseOrder(ctx, tx, order); err != nil {
				return err
			}
		case input.Target == enums.OrderStatusDelivered:
			if err := s.creditEarnedPoints(ctx, tx, order); err != nil {
				return err
			}
		}

		result = order
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "transition order")
	}
	return result, nil
}

// releaseOrder returns stock and refunds the points an order consumed.
func (s *service) releaseOrder(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	productRepo := s.products.WithTx(tx)
	for _, item := range order.Items {
		if _, err := productRepo.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}

	if order.PointsUsed == 0 {
		return nil
	}

	ledger := s.ledger.WithTx(tx)
	refunded, err := ledger.HasEntry(ctx, order.ID, enums.LedgerEntryTypePointsRefunded)
	if err != nil {
		return err
	}
	if refunded {
		return nil
	}

	userRepo := s.users.WithTx(tx)
	user, err := userRepo.FindByIDForUpdate(ctx, order.UserID)
	if err != nil {
		return err
	}
	newBalance := user.Points + order.PointsUsed

	metadata, err := json.Marshal(map[string]string{"order_number": order.OrderNumber})
	if err != nil {
		return err
	}
	if _, err := ledger.RecordEntry(ctx, loyalty.RecordEntryInput{
		UserID:       user.ID,
		OrderID:      &order.ID,
		Type:         enums.LedgerEntryTypePointsRefunded,
		Delta:        order.PointsUsed,
		BalanceAfter: newBalance,
		Metadata:     metadata,
	}); err != nil {
		return err
	}
	return userRepo.UpdatePointsAndLevel(ctx, user.ID, newBalance, loyalty.LevelFor(newBalance))
}

// creditEarnedPoints applies the accrual snapshot taken at checkout.
func (s *service) creditEarnedPoints(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	if order.PointsEarned == 0 {
		return nil
	}

	ledger := s.ledger.WithTx(tx)
	credited, err := ledger.HasEntry(ctx, order.ID, enums.LedgerEntryTypePointsEarned)
	if err != nil {
		return err
	}
	if credited {
		return nil
	}

	userRepo := s.users.WithTx(tx)
	user, err := userRepo.FindByIDForUpdate(ctx, order.UserID)
	if err != nil {
		return err
	}
	newBalance := user.Points + order.PointsEarned

	metadata, err := json.Marshal(map[string]string{"order_number": order.OrderNumber})
	if err != nil {
		return err
	}
	if _, err := ledger.RecordEntry(ctx, loyalty.RecordEntryInput{
		UserID:       user.ID,
		OrderID:      &order.ID,
		Type:         enums.LedgerEntryTypePointsEarned,
		Delta:        order.PointsEarned,
		BalanceAfter: newBalance,
		Metadata:     metadata,
	}); err != nil {
		return err
	}
	return userRepo.UpdatePointsAndLevel(ctx, user.ID, newBalance, loyalty.LevelFor(newBalance))
}

// nextOrderNumber produces LVL-YYYYMMDD-NNNNNN from a daily sequence.
func (s *service) nextOrderNumber(ctx context.Context, tx *gorm.DB) (string, error) {
	now := time.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	count, err := s.repo.WithTx(tx).CountCreatedSince(ctx, midnight)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("LVL-%s-%06d", now.Format("20060102"), count+1), nil
}

func rewardsPointsCost(items []models.CartItem) int {
	total := 0
	for _, item := range items {
		if item.PurchaseMethod == enums.PurchaseMethodPoints && item.PointsRequired != nil {
			total += *item.PointsRequired * item.Quantity
		}
	}
	return total
}

func buildQuote(items []models.CartItem, user *models.User, redeemPoints int) *QuoteResult {
	rewardsCost := rewardsPointsCost(items)
	available := user.Points - rewardsCost
	if available < 0 {
		available = 0
	}
	result := pricing.Quote(
		cart.Lines(items),
		pricing.Buyer{Email: user.Email, Points: available},
		redeemPoints,
	)
	return &QuoteResult{Result: result, RewardsPointsCost: rewardsCost}
}

func copyCartItems(items []models.CartItem) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, models.OrderItem{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			UnitPrice:      item.UnitPrice,
			Quantity:       item.Quantity,
			TotalPrice:     item.TotalPrice,
			PointsPerUnit:  item.PointsPerUnit,
			PurchaseMethod: item.PurchaseMethod,
			PointsRequired: item.PointsRequired,
		})
	}
	return out
}

func paginate(rows []models.Order, limit int) ([]models.Order, string, error) {
	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}
