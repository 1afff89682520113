package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/levelup-gaming/levelup-backend/pkg/enums"
	pkgerrors "github.com/levelup-gaming/levelup-backend/pkg/errors"
)

// Stock at or below this level flags a product for restocking.
const lowStockThreshold = 5

type orderStats interface {
	CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	SumTotalsSince(ctx context.Context, since time.Time) (int64, error)
}

type userStats interface {
	Count(ctx context.Context) (total, active int64, err error)
}

type productStats interface {
	Count(ctx context.Context, lowStockThreshold int) (total, lowStock int64, err error)
}

// Summary is the admin dashboard read model. Money amounts are CLP.
type Summary struct {
	OrdersByStatus   map[enums.OrderStatus]int64 `json:"orders_by_status"`
	OrdersLast24h    int64                       `json:"orders_last_24h"`
	RevenueLast30d   int64                       `json:"revenue_last_30d"`
	TotalUsers       int64                       `json:"total_users"`
	ActiveUsers      int64                       `json:"active_users"`
	ActiveProducts   int64                       `json:"active_products"`
	LowStockProducts int64                       `json:"low_stock_products"`
}

// Service aggregates the storefront metrics the admin dashboard shows.
type Service interface {
	Summary(ctx context.Context) (*Summary, error)
}

type service struct {
	orders   orderStats
	users    userStats
	products productStats
	now      func() time.Time
}

// NewService composes the dashboard over the order, user, and product stores.
func NewService(orders orderStats, users userStats, products productStats) (Service, error) {
	if orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{orders: orders, users: users, products: products, now: time.Now}, nil
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	now := s.now()

	byStatus, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders by status")
	}

	recent, err := s.orders.CountCreatedSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count recent orders")
	}

	revenue, err := s.orders.SumTotalsSince(ctx, now.Add(-30*24*time.Hour))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum recent revenue")
	}

	totalUsers, activeUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count users")
	}

	totalProducts, lowStock, err := s.products.Count(ctx, lowStockThreshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}

	return &Summary{
		OrdersByStatus:   byStatus,
		OrdersLast24h:    recent,
		RevenueLast30d:   revenue,
		TotalUsers:       totalUsers,
		ActiveUsers:      activeUsers,
		ActiveProducts:   totalProducts,
		LowStockProducts: lowStock,
	}, nil
}
