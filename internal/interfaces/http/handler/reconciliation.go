package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	application "github.com/opsdash/backend/internal/application/reconciliation"
	domain "github.com/opsdash/backend/internal/domain/reconciliation"
	"github.com/opsdash/backend/internal/interfaces/http/dto"
	"github.com/opsdash/backend/internal/interfaces/http/middleware"
)

// ReconciliationService is the application-layer contract this handler needs.
type ReconciliationService interface {
	GetSynchronizedOrders(ctx context.Context) (*application.ReconcileReport, error)
	SyncOrder(ctx context.Context, req application.SyncOrderRequest) (*domain.SyncResult, error)
	UpdateCounterpartOrder(ctx context.Context, id string, update domain.OrderUpdate) (*domain.SyncResult, error)
}

// ReconciliationHandler exposes the reconciliation operations over HTTP.
type ReconciliationHandler struct {
	BaseHandler
	service ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(service ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{service: service}
}

// RegisterRoutes registers the reconciliation routes.
func (h *ReconciliationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/reconciliation")
	{
		group.GET("/orders", h.GetSynchronizedOrders)
		group.POST("/orders/sync", h.SyncOrder)
		group.PUT("/orders/:id", h.UpdateOrder)
	}
}

// ----------------------------------------------------------------------------
// Request / Response DTOs
// ----------------------------------------------------------------------------

// SyncOrderRequest targets one order for on-demand pairing.
type SyncOrderRequest struct {
	SourceID      string `json:"source_id"`
	CounterpartID string `json:"counterpart_id"`
	Force         bool   `json:"force"`
}

// UpdateOrderRequest carries a partial order update. Absent fields are left
// untouched on the platform.
type UpdateOrderRequest struct {
	Status              *string `json:"status"`
	CustomerNote        *string `json:"customer_note"`
	InternalNote        *string `json:"internal_note"`
	ShippingMethod      *string `json:"shipping_method"`
	ShippingMethodTitle *string `json:"shipping_method_title"`
}

func (r UpdateOrderRequest) toUpdate() domain.OrderUpdate {
	return domain.OrderUpdate{
		Status:              r.Status,
		CustomerNote:        r.CustomerNote,
		InternalNote:        r.InternalNote,
		ShippingMethod:      r.ShippingMethod,
		ShippingMethodTitle: r.ShippingMethodTitle,
	}
}

// OrderResponse is the API shape of one platform order.
type OrderResponse struct {
	PlatformID    string `json:"platform_id"`
	OrderNumber   string `json:"order_number,omitempty"`
	Reference     string `json:"reference,omitempty"`
	Source        string `json:"source"`
	Status        string `json:"status,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
	Total         string `json:"total,omitempty"`
	Currency      string `json:"currency,omitempty"`
}

// SynchronizedOrderResponse is the API shape of one unified order.
type SynchronizedOrderResponse struct {
	ID               string         `json:"id"`
	SourceOrder      *OrderResponse `json:"source_order,omitempty"`
	CounterpartOrder *OrderResponse `json:"counterpart_order,omitempty"`
	MatchConfidence  string         `json:"match_confidence"`
	MatchReason      string         `json:"match_reason"`
	SyncStatus       string         `json:"sync_status"`
	LastSyncedAt     time.Time      `json:"last_synced_at"`
}

// SourceStatusResponse reports one side's fetch outcome within a run.
type SourceStatusResponse struct {
	Source   string `json:"source"`
	Count    int    `json:"count"`
	Degraded bool   `json:"degraded"`
	Error    string `json:"error,omitempty"`
}

// ReconcileReportResponse is the API shape of a full reconciliation run.
type ReconcileReportResponse struct {
	RunID       string                      `json:"run_id"`
	Orders      []SynchronizedOrderResponse `json:"orders"`
	Sources     []SourceStatusResponse      `json:"sources"`
	StartedAt   time.Time                   `json:"started_at"`
	CompletedAt time.Time                   `json:"completed_at"`
}

// SyncResultResponse is the API shape of a single-order operation outcome.
type SyncResultResponse struct {
	Success  bool                       `json:"success"`
	Order    *SynchronizedOrderResponse `json:"order,omitempty"`
	Changes  []domain.FieldChange       `json:"changes,omitempty"`
	SyncedAt time.Time                  `json:"synced_at"`
}

func toOrderResponse(o *domain.Order) *OrderResponse {
	if o == nil {
		return nil
	}
	return &OrderResponse{
		PlatformID:    o.PlatformID,
		OrderNumber:   o.OrderNumber,
		Reference:     o.Reference,
		Source:        o.Source.String(),
		Status:        o.Status,
		CustomerEmail: o.CustomerEmail,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		Total:         o.Total,
		Currency:      o.Currency,
	}
}

func toSynchronizedOrderResponse(o *domain.SynchronizedOrder) *SynchronizedOrderResponse {
	if o == nil {
		return nil
	}
	return &SynchronizedOrderResponse{
		ID:               o.ID,
		SourceOrder:      toOrderResponse(o.SourceOrder),
		CounterpartOrder: toOrderResponse(o.CounterpartOrder),
		MatchConfidence:  o.MatchConfidence.String(),
		MatchReason:      o.MatchReason,
		SyncStatus:       o.SyncStatus.String(),
		LastSyncedAt:     o.LastSyncedAt,
	}
}

func toSyncResultResponse(r *domain.SyncResult) SyncResultResponse {
	return SyncResultResponse{
		Success:  r.Success,
		Order:    toSynchronizedOrderResponse(r.Order),
		Changes:  r.Changes,
		SyncedAt: r.SyncedAt,
	}
}

// ----------------------------------------------------------------------------
// Handlers
// ----------------------------------------------------------------------------

// GetSynchronizedOrders runs a full reconciliation and returns the unified
// order view with per-side fetch status.
func (h *ReconciliationHandler) GetSynchronizedOrders(c *gin.Context) {
	report, err := h.service.GetSynchronizedOrders(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	orders := make([]SynchronizedOrderResponse, 0, len(report.Orders))
	for i := range report.Orders {
		orders = append(orders, *toSynchronizedOrderResponse(&report.Orders[i]))
	}
	sources := make([]SourceStatusResponse, 0, len(report.Sources))
	for _, s := range report.Sources {
		sources = append(sources, SourceStatusResponse{
			Source:   s.Source.String(),
			Count:    s.Count,
			Degraded: s.Degraded,
			Error:    s.Error,
		})
	}

	resp := ReconcileReportResponse{
		RunID:       report.RunID,
		Orders:      orders,
		Sources:     sources,
		StartedAt:   report.StartedAt,
		CompletedAt: report.CompletedAt,
	}
	h.SuccessWithMeta(c, resp, len(report.Orders), report.Synced, report.Pending)
}

// SyncOrder pairs one explicitly targeted order with its best counterpart.
func (h *ReconciliationHandler) SyncOrder(c *gin.Context) {
	var req SyncOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if req.SourceID == "" && req.CounterpartID == "" {
		h.BadRequest(c, "source_id or counterpart_id is required")
		return
	}

	result, err := h.service.SyncOrder(c.Request.Context(), application.SyncOrderRequest{
		SourceID:      req.SourceID,
		CounterpartID: req.CounterpartID,
		Force:         req.Force,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSyncResultResponse(result))
}

// UpdateOrder propagates a field-level update to the commerce platform order.
func (h *ReconciliationHandler) UpdateOrder(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		h.BadRequest(c, "order id is required")
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	update := req.toUpdate()
	if update.IsEmpty() {
		h.BadRequest(c, "update contains no fields")
		return
	}

	result, err := h.service.UpdateCounterpartOrder(c.Request.Context(), id, update)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(toSyncResultResponse(result)))
}
