package pricing

// CartTotals is the derived view of a cart. It is never persisted:
// callers recompute it from the line items on every load and mutation
// so it can never go stale against the item list.
type CartTotals struct {
	Subtotal     int `json:"subtotal"`
	ShippingCost int `json:"shipping_cost"`
	ItemCount    int `json:"item_count"`
	Total        int `json:"total"`
}

// RecomputeTotals derives cart totals from the line items. Points-paid
// lines count toward ItemCount but contribute zero to Subtotal.
func RecomputeTotals(items []LineItem) CartTotals {
	totals := CartTotals{}
	for _, item := range items {
		totals.Subtotal += item.TotalPrice
		totals.ItemCount += item.Quantity
	}
	totals.ShippingCost = shippingFor(totals.Subtotal)
	totals.Total = totals.Subtotal + totals.ShippingCost
	return totals
}
