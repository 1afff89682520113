package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/levelup-gaming/levelup-backend/pkg/enums"
)

// Business constants for the storefront. All amounts are integer
// Chilean pesos; CLP has no fractional unit in practice.
const (
	// DuocEmailDomain unlocks the partner university discount.
	DuocEmailDomain = "@duocuc.cl"
	// FreeShippingThreshold is compared against the raw subtotal,
	// before any discount is applied.
	FreeShippingThreshold = 50000
	// FlatShippingCost applies below the free-shipping threshold.
	FlatShippingCost = 3990
)

var (
	duocDiscountRate  = decimal.NewFromFloat(0.20)
	pointsAccrualRate = decimal.NewFromFloat(0.05)
)

// LineItem is the slice of a cart line the engine needs. Lines paid in
// points carry TotalPrice 0 by construction and therefore contribute
// nothing to the subtotal.
type LineItem struct {
	UnitPrice      int
	Quantity       int
	TotalPrice     int
	PurchaseMethod enums.PurchaseMethod
}

// Buyer is the slice of the user record the engine needs.
type Buyer struct {
	Email  string
	Points int
}

// Result is the full priced breakdown for a cart.
// Invariant: Total == Subtotal - DuocDiscount - PointsDiscount + ShippingCost,
// and Total >= 0.
type Result struct {
	Subtotal       int  `json:"subtotal"`
	DuocDiscount   int  `json:"duoc_discount"`
	PointsDiscount int  `json:"points_discount"`
	ShippingCost   int  `json:"shipping_cost"`
	Total          int  `json:"total"`
	PointsEarned   int  `json:"points_earned"`
	IsDuocStudent  bool `json:"is_duoc_student"`
}

// IsDuocEmail reports whether the email belongs to the partner
// university domain. Comparison is case-insensitive.
func IsDuocEmail(email string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(email)), DuocEmailDomain)
}

// Quote prices a cart for a buyer. It is a pure function: no I/O, no
// errors. Out-of-range input (negative redemption, redemption above
// balance or above the payable amount) is clamped silently; the
// checkout forgives rather than rejects.
//
// Steps run in a fixed order because each discount is computed against
// the running, not-yet-discounted base:
//  1. subtotal over line totals
//  2. DUOC student detection from the email domain
//  3. 20% DUOC discount on the subtotal
//  4. points redemption clamped to min(requested, balance, subtotal-duoc)
//  5. shipping: free at or above the threshold and for all-points carts
//  6. total, floored at zero before shipping is added
//  7. 5% points accrual on the final payable total, shipping included
func Quote(items []LineItem, buyer Buyer, redeemPoints int) Result {
	subtotal := 0
	for _, item := range items {
		subtotal += item.TotalPrice
	}

	isDuoc := IsDuocEmail(buyer.Email)

	duocDiscount := 0
	if isDuoc {
		duocDiscount = roundPercent(subtotal, duocDiscountRate)
	}

	balance := buyer.Points
	if balance < 0 {
		balance = 0
	}
	if redeemPoints < 0 {
		redeemPoints = 0
	}
	payable := subtotal - duocDiscount
	if payable < 0 {
		payable = 0
	}
	pointsDiscount := min3(redeemPoints, balance, payable)

	shipping := shippingFor(subtotal)

	total := subtotal - duocDiscount - pointsDiscount
	if total < 0 {
		total = 0
	}
	total += shipping

	// Accrual intentionally includes the shipping fee; the storefront
	// has always computed it this way. Flagged for product review, do
	// not change unilaterally.
	earned := roundPercent(total, pointsAccrualRate)

	return Result{
		Subtotal:       subtotal,
		DuocDiscount:   duocDiscount,
		PointsDiscount: pointsDiscount,
		ShippingCost:   shipping,
		Total:          total,
		PointsEarned:   earned,
		IsDuocStudent:  isDuoc,
	}
}

func shippingFor(subtotal int) int {
	if subtotal >= FreeShippingThreshold || subtotal <= 0 {
		return 0
	}
	return FlatShippingCost
}

// roundPercent computes amount*rate rounded half away from zero using
// decimal arithmetic. Floats would drift on large peso amounts.
func roundPercent(amount int, rate decimal.Decimal) int {
	return int(decimal.NewFromInt(int64(amount)).Mul(rate).Round(0).IntPart())
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
