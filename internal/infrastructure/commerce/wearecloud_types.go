package commerce

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/opsdash/backend/internal/domain/reconciliation"
)

// ---------------------------------------------------------------------------
// WeareCloud Scraped Feed Wire Types
// ---------------------------------------------------------------------------

// weareCloudOrder is an order as relayed by the scraping microservice. The
// feed is scraped from an admin panel, so field presence and formats vary
// from run to run; everything stays loose here and the normalizer decides
// what is usable.
type weareCloudOrder struct {
	ID         looseString        `json:"id"`
	Numero     looseString        `json:"numero,omitempty"`
	Referencia looseString        `json:"referencia,omitempty"`
	Estado     string             `json:"estado,omitempty"`
	Fecha      string             `json:"fecha,omitempty"`
	Total      looseString        `json:"total,omitempty"`
	Moneda     string             `json:"moneda,omitempty"`
	Cliente    *weareCloudCliente `json:"cliente,omitempty"`
	Email      string             `json:"email,omitempty"`
	Productos  []weareCloudLinea  `json:"productos,omitempty"`
}

// weareCloudCliente is the nested customer object, when the scraper manages
// to capture it.
type weareCloudCliente struct {
	Nombre string `json:"nombre,omitempty"`
	Email  string `json:"email,omitempty"`
}

// weareCloudLinea is a scraped order line.
type weareCloudLinea struct {
	Nombre   string      `json:"nombre"`
	SKU      string      `json:"sku,omitempty"`
	Cantidad looseString `json:"cantidad,omitempty"`
	Precio   looseString `json:"precio,omitempty"`
}

// toOrder converts a scraped order to the common order shape. Timestamps and
// totals stay raw; interpretation belongs to the normalizer.
func (o *weareCloudOrder) toOrder(raw json.RawMessage) reconciliation.Order {
	order := reconciliation.Order{
		PlatformID:  o.ID.String(),
		OrderNumber: o.Numero.String(),
		Reference:   o.Referencia.String(),
		Source:      reconciliation.SourceCodeWeareCloud,
		Status:      o.Estado,
		CreatedAt:   o.Fecha,
		Total:       o.Total.String(),
		Currency:    o.Moneda,
		Items:       make([]reconciliation.OrderItem, 0, len(o.Productos)),
		RawData:     string(raw),
	}
	order.CustomerEmail = o.Email
	if order.CustomerEmail == "" && o.Cliente != nil {
		order.CustomerEmail = o.Cliente.Email
	}
	for _, linea := range o.Productos {
		order.Items = append(order.Items, reconciliation.OrderItem{
			Name:      linea.Nombre,
			SKU:       linea.SKU,
			Quantity:  parseWireQuantity(linea.Cantidad.String()),
			UnitPrice: parseWireAmount(linea.Precio.String()),
		})
	}
	return order
}

// parseWireQuantity parses a scraped quantity, defaulting to one. The scraper
// sometimes drops the column entirely for single-item orders.
func parseWireQuantity(s string) decimal.Decimal {
	if s == "" {
		return decimal.NewFromInt(1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NewFromInt(1)
	}
	return d
}

// decodeWeareCloudOrder decodes one raw feed element. Elements with no
// identity at all are dropped; a row the scraper failed to capture anything
// from carries no matching signal.
func decodeWeareCloudOrder(raw json.RawMessage) (*weareCloudOrder, bool) {
	var order weareCloudOrder
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, false
	}
	if order.ID == "" && order.Numero == "" && order.Referencia == "" {
		return nil, false
	}
	return &order, true
}
