package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/opsdash/backend/internal/domain/reconciliation"
)

// JumpSellerAdapter implements the CommercePlatform port for the JumpSeller
// commerce API. JumpSeller is the authoritative side of reconciliation and
// the only update target.
type JumpSellerAdapter struct {
	config     *JumpSellerConfig
	httpClient *http.Client
}

// JumpSellerListOptions are the supported filters for listing orders.
// Zero values are omitted from the query.
type JumpSellerListOptions struct {
	Page         int
	PerPage      int
	Status       string
	CustomerID   string
	CreatedAtMin time.Time
	CreatedAtMax time.Time
	UpdatedAtMin time.Time
	UpdatedAtMax time.Time
}

// NewJumpSellerAdapter creates a new JumpSeller adapter with the given
// configuration.
func NewJumpSellerAdapter(config *JumpSellerConfig) (*JumpSellerAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &JumpSellerAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// Source returns the source code this adapter handles.
func (a *JumpSellerAdapter) Source() reconciliation.SourceCode {
	return reconciliation.SourceCodeJumpSeller
}

// FetchOrders fetches up to pageSize recent orders.
func (a *JumpSellerAdapter) FetchOrders(ctx context.Context, pageSize int) ([]reconciliation.Order, error) {
	return a.FetchOrdersWithOptions(ctx, JumpSellerListOptions{PerPage: pageSize})
}

// FetchOrdersWithOptions fetches orders with the full set of list filters.
func (a *JumpSellerAdapter) FetchOrdersWithOptions(ctx context.Context, opts JumpSellerListOptions) ([]reconciliation.Order, error) {
	query := url.Values{}
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(opts.PerPage))
	}
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}
	if opts.CustomerID != "" {
		query.Set("customer_id", opts.CustomerID)
	}
	setTimeFilter := func(key string, t time.Time) {
		if !t.IsZero() {
			query.Set(key, t.UTC().Format(time.RFC3339))
		}
	}
	setTimeFilter("created_at_min", opts.CreatedAtMin)
	setTimeFilter("created_at_max", opts.CreatedAtMax)
	setTimeFilter("updated_at_min", opts.UpdatedAtMin)
	setTimeFilter("updated_at_max", opts.UpdatedAtMax)

	body, err := a.doRequest(ctx, http.MethodGet, "/orders", query, nil)
	if err != nil {
		return nil, err
	}

	elements, shape := splitOrderPayload(body, "orders")
	if shape == payloadShapeUnrecognized {
		return nil, fmt.Errorf("%w: unrecognized order list shape", reconciliation.ErrInvalidResponse)
	}

	orders := make([]reconciliation.Order, 0, len(elements))
	for _, raw := range elements {
		if wire, ok := decodeJumpSellerOrder(raw); ok {
			orders = append(orders, wire.toOrder(raw))
		}
	}
	return orders, nil
}

// FetchOrder fetches a single order by its platform id.
func (a *JumpSellerAdapter) FetchOrder(ctx context.Context, id string) (*reconciliation.Order, error) {
	if id == "" {
		return nil, reconciliation.ErrOrderNotFound
	}

	body, err := a.doRequest(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}

	wire, ok := decodeJumpSellerOrder(body)
	if !ok {
		return nil, fmt.Errorf("%w: failed to parse order %s", reconciliation.ErrInvalidResponse, id)
	}
	order := wire.toOrder(body)
	return &order, nil
}

// UpdateOrder applies a partial field-level update and returns the updated
// order as reported by the platform.
func (a *JumpSellerAdapter) UpdateOrder(ctx context.Context, id string, update reconciliation.OrderUpdate) (*reconciliation.Order, error) {
	if id == "" {
		return nil, reconciliation.ErrOrderNotFound
	}

	fields := make(map[string]any)
	put := func(key string, v *string) {
		if v != nil {
			fields[key] = *v
		}
	}
	put("status", update.Status)
	put("customer_note", update.CustomerNote)
	put("internal_note", update.InternalNote)
	put("shipping_method", update.ShippingMethod)
	put("shipping_method_title", update.ShippingMethodTitle)

	payload, err := json.Marshal(jumpSellerUpdateBody{Order: fields})
	if err != nil {
		return nil, fmt.Errorf("jumpseller: failed to encode update: %w", err)
	}

	body, err := a.doRequest(ctx, http.MethodPut, "/orders/"+url.PathEscape(id), nil, payload)
	if err != nil {
		return nil, err
	}

	wire, ok := decodeJumpSellerOrder(body)
	if !ok {
		return nil, fmt.Errorf("%w: failed to parse updated order %s", reconciliation.ErrInvalidResponse, id)
	}
	order := wire.toOrder(body)
	return &order, nil
}

// doRequest performs an HTTP request against the JumpSeller API with basic
// auth, and classifies failures into the domain error taxonomy so callers
// can tell timeouts from validation rejections from outages.
func (a *JumpSellerAdapter) doRequest(ctx context.Context, method, path string, query url.Values, payload []byte) ([]byte, error) {
	endpoint := a.config.APIBaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("jumpseller: failed to create request: %w", err)
	}
	req.SetBasicAuth(a.config.Login, a.config.AuthToken)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", reconciliation.ErrUpdateTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", reconciliation.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("jumpseller: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: HTTP 404", reconciliation.ErrOrderNotFound)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: HTTP %d", reconciliation.ErrSourceRequestFailed, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: HTTP %d: %s", reconciliation.ErrUpdateRejected, resp.StatusCode, truncateBody(body))
	}

	return body, nil
}

// truncateBody shortens an error body for messages.
func truncateBody(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}

// Ensure JumpSellerAdapter implements the CommercePlatform port
var _ reconciliation.CommercePlatform = (*JumpSellerAdapter)(nil)
