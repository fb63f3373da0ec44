package reconciliation

import (
	"context"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// SourceCode represents which order source a record came from
// ---------------------------------------------------------------------------

// SourceCode identifies an order source.
type SourceCode string

const (
	// SourceCodeWeareCloud is the scraped WeareCloud order feed (secondary,
	// non-authoritative source).
	SourceCodeWeareCloud SourceCode = "WEARECLOUD"
	// SourceCodeJumpSeller is the JumpSeller commerce platform (authoritative
	// counterpart and update target).
	SourceCodeJumpSeller SourceCode = "JUMPSELLER"
)

// IsValid returns true if the source code is valid.
func (c SourceCode) IsValid() bool {
	switch c {
	case SourceCodeWeareCloud, SourceCodeJumpSeller:
		return true
	default:
		return false
	}
}

// String returns the string representation of SourceCode.
func (c SourceCode) String() string {
	return string(c)
}

// ---------------------------------------------------------------------------
// Value Objects
// ---------------------------------------------------------------------------

// Order is the common order shape produced by all source adapters.
//
// Timestamp and amount fields are carried verbatim as returned by the
// platform; both feeds are loosely typed (currency symbols in totals,
// inconsistent date formats) and interpretation is deferred to Normalize so
// a malformed field never breaks a fetch.
type Order struct {
	// PlatformID is the record's own id on its platform, rendered as a string.
	PlatformID string
	// OrderNumber is the buyer-facing order number, when the platform has one.
	OrderNumber string
	// Reference is a secondary identifier (external reference, cart id, ...).
	Reference string
	// Source identifies which adapter produced this order.
	Source SourceCode
	// Status is the platform's own status string, unmapped.
	Status string
	// CustomerEmail is the buyer email as reported by the platform.
	CustomerEmail string
	// CreatedAt is the raw creation timestamp string.
	CreatedAt string
	// UpdatedAt is the raw last-modified timestamp string, when present.
	UpdatedAt string
	// Total is the raw order total; may include currency symbols or
	// thousands separators.
	Total string
	// Currency is the ISO currency code, when reported.
	Currency string
	// Items contains the order line items. Opaque to the matcher.
	Items []OrderItem
	// RawData is the original platform response for this order (JSON).
	RawData string
}

// OrderItem is a line item in an order.
type OrderItem struct {
	Name      string
	SKU       string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Identifier returns the preferred identifier for the order: the explicit
// order number, then the secondary reference, then the platform id. Empty
// when the record carries none of the three.
func (o *Order) Identifier() string {
	if o == nil {
		return ""
	}
	if o.OrderNumber != "" {
		return o.OrderNumber
	}
	if o.Reference != "" {
		return o.Reference
	}
	return o.PlatformID
}

// OrderUpdate is a partial, field-level update to a counterpart order.
// Nil fields are left untouched on the platform.
type OrderUpdate struct {
	Status              *string
	CustomerNote        *string
	InternalNote        *string
	ShippingMethod      *string
	ShippingMethodTitle *string
}

// IsEmpty returns true if no field is set.
func (u OrderUpdate) IsEmpty() bool {
	return u.Status == nil && u.CustomerNote == nil && u.InternalNote == nil &&
		u.ShippingMethod == nil && u.ShippingMethodTitle == nil
}

// Changes lists the set fields as field-level changes. Old values are not
// populated here; the update path does not mandate a pre-read.
func (u OrderUpdate) Changes() []FieldChange {
	var changes []FieldChange
	add := func(field string, v *string) {
		if v != nil {
			changes = append(changes, FieldChange{Field: field, NewValue: *v})
		}
	}
	add("status", u.Status)
	add("customer_note", u.CustomerNote)
	add("internal_note", u.InternalNote)
	add("shipping_method", u.ShippingMethod)
	add("shipping_method_title", u.ShippingMethodTitle)
	return changes
}

// ---------------------------------------------------------------------------
// Ports
// ---------------------------------------------------------------------------

// OrderSource is the port implemented by every order feed adapter.
type OrderSource interface {
	// Source returns the source code this adapter handles.
	Source() SourceCode

	// FetchOrders fetches up to pageSize recent orders. A failed or partial
	// response is returned as an error; degrading to an empty set is the
	// caller's policy, not the adapter's.
	FetchOrders(ctx context.Context, pageSize int) ([]Order, error)

	// FetchOrder fetches a single order by its platform id or order number.
	FetchOrder(ctx context.Context, id string) (*Order, error)
}

// CommercePlatform is the port for the authoritative commerce platform: it
// can additionally apply field-level updates to its orders.
type CommercePlatform interface {
	OrderSource

	// UpdateOrder applies a partial update and returns the updated order.
	UpdateOrder(ctx context.Context, id string, update OrderUpdate) (*Order, error)
}
