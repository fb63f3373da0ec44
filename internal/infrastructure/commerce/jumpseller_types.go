package commerce

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/opsdash/backend/internal/domain/reconciliation"
)

// ---------------------------------------------------------------------------
// JumpSeller API Wire Types
// ---------------------------------------------------------------------------

// jumpSellerOrderEnvelope wraps a single order, the shape JumpSeller uses
// both for list elements and for single-order responses.
type jumpSellerOrderEnvelope struct {
	Order *jumpSellerOrder `json:"order"`
}

// jumpSellerOrder is an order as returned by the JumpSeller API.
type jumpSellerOrder struct {
	ID                  int64                `json:"id"`
	OrderNumber         looseString          `json:"order_number"`
	Reference           looseString          `json:"reference,omitempty"`
	Status              string               `json:"status"`
	CreatedAt           string               `json:"created_at"`
	UpdatedAt           string               `json:"updated_at,omitempty"`
	Currency            string               `json:"currency,omitempty"`
	Total               looseString          `json:"total"`
	CustomerNote        string               `json:"customer_note,omitempty"`
	InternalNote        string               `json:"internal_note,omitempty"`
	ShippingMethod      looseString          `json:"shipping_method,omitempty"`
	ShippingMethodTitle string               `json:"shipping_method_title,omitempty"`
	Customer            *jumpSellerCustomer  `json:"customer,omitempty"`
	LineItems           []jumpSellerLineItem `json:"line_items,omitempty"`
}

// jumpSellerCustomer is the nested customer object.
type jumpSellerCustomer struct {
	ID    int64  `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"fullname,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// jumpSellerLineItem is an order line item.
type jumpSellerLineItem struct {
	Name     string      `json:"name"`
	SKU      string      `json:"sku,omitempty"`
	Quantity int64       `json:"qty"`
	Price    looseString `json:"price"`
}

// jumpSellerUpdateBody is the PUT /orders/{id} request body.
type jumpSellerUpdateBody struct {
	Order map[string]any `json:"order"`
}

// toOrder converts a JumpSeller wire order to the common order shape.
// Timestamp and total stay raw; interpretation belongs to the normalizer.
func (o *jumpSellerOrder) toOrder(raw json.RawMessage) reconciliation.Order {
	order := reconciliation.Order{
		PlatformID:    formatInt(o.ID),
		OrderNumber:   o.OrderNumber.String(),
		Reference:     o.Reference.String(),
		Source:        reconciliation.SourceCodeJumpSeller,
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		Total:         o.Total.String(),
		Currency:      o.Currency,
		Items:         make([]reconciliation.OrderItem, 0, len(o.LineItems)),
		RawData:       string(raw),
	}
	if o.Customer != nil {
		order.CustomerEmail = o.Customer.Email
	}
	for _, item := range o.LineItems {
		order.Items = append(order.Items, reconciliation.OrderItem{
			Name:      item.Name,
			SKU:       item.SKU,
			Quantity:  decimal.NewFromInt(item.Quantity),
			UnitPrice: parseWireAmount(item.Price.String()),
		})
	}
	return order
}

// parseWireAmount parses a line-item amount, zero on failure. Line items are
// opaque to the matcher, so a lossy parse here is acceptable.
func parseWireAmount(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// decodeJumpSellerOrder decodes one raw element, unwrapping the
// {"order": {...}} envelope when present.
func decodeJumpSellerOrder(raw json.RawMessage) (*jumpSellerOrder, bool) {
	var envelope jumpSellerOrderEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Order != nil {
		return envelope.Order, true
	}
	var order jumpSellerOrder
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, false
	}
	if order.ID == 0 && order.OrderNumber == "" && order.Status == "" {
		return nil, false
	}
	return &order, true
}
