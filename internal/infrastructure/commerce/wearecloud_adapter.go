package commerce

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/opsdash/backend/internal/domain/reconciliation"
)

// WeareCloudAdapter implements the OrderSource port for the WeareCloud feed.
// WeareCloud exposes no API of its own; a separate scraping microservice
// extracts orders from its admin panel and relays them as JSON. The feed is
// read-only.
type WeareCloudAdapter struct {
	config     *WeareCloudConfig
	httpClient *http.Client
}

// NewWeareCloudAdapter creates a new WeareCloud adapter with the given
// configuration.
func NewWeareCloudAdapter(config *WeareCloudConfig) (*WeareCloudAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &WeareCloudAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// Source returns the source code this adapter handles.
func (a *WeareCloudAdapter) Source() reconciliation.SourceCode {
	return reconciliation.SourceCodeWeareCloud
}

// FetchOrders fetches up to pageSize recent orders from the scraped feed.
func (a *WeareCloudAdapter) FetchOrders(ctx context.Context, pageSize int) ([]reconciliation.Order, error) {
	query := url.Values{}
	if pageSize > 0 {
		query.Set("limit", strconv.Itoa(pageSize))
	}

	body, err := a.doRequest(ctx, "/pedidos", query)
	if err != nil {
		return nil, err
	}

	elements, shape := splitOrderPayload(body, "pedidos")
	if shape == payloadShapeUnrecognized {
		return nil, fmt.Errorf("%w: unrecognized feed shape", reconciliation.ErrInvalidResponse)
	}

	orders := make([]reconciliation.Order, 0, len(elements))
	for _, raw := range elements {
		if wire, ok := decodeWeareCloudOrder(raw); ok {
			orders = append(orders, wire.toOrder(raw))
		}
	}
	return orders, nil
}

// FetchOrder fetches a single order by its feed id.
func (a *WeareCloudAdapter) FetchOrder(ctx context.Context, id string) (*reconciliation.Order, error) {
	if id == "" {
		return nil, reconciliation.ErrOrderNotFound
	}

	body, err := a.doRequest(ctx, "/pedidos/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	// Single-order responses reuse the list tolerance: the scraper has been
	// seen returning both a bare object and a one-element wrapped list.
	elements, shape := splitOrderPayload(body, "pedidos")
	if shape == payloadShapeUnrecognized || len(elements) == 0 {
		return nil, fmt.Errorf("%w: failed to parse order %s", reconciliation.ErrInvalidResponse, id)
	}
	wire, ok := decodeWeareCloudOrder(elements[0])
	if !ok {
		return nil, fmt.Errorf("%w: failed to parse order %s", reconciliation.ErrInvalidResponse, id)
	}
	order := wire.toOrder(elements[0])
	return &order, nil
}

// doRequest performs a GET against the scraping microservice and classifies
// failures into the domain error taxonomy.
func (a *WeareCloudAdapter) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := a.config.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("wearecloud: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if a.config.APIKey != "" {
		req.Header.Set("X-API-Key", a.config.APIKey)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		// The feed is read-only; a timeout here is an availability problem,
		// not an update failure.
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: request timed out: %v", reconciliation.ErrSourceUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %v", reconciliation.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("wearecloud: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: HTTP 404", reconciliation.ErrOrderNotFound)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: HTTP %d", reconciliation.ErrSourceRequestFailed, resp.StatusCode)
	}

	return body, nil
}

// Ensure WeareCloudAdapter implements the OrderSource port
var _ reconciliation.OrderSource = (*WeareCloudAdapter)(nil)
