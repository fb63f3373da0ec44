// Package reconciliation implements the application service orchestrating
// order reconciliation: fetching both sides, pairing records, and
// propagating updates to the authoritative platform.
package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/opsdash/backend/internal/domain/reconciliation"
)

// Errors for sync requests
var (
	// ErrNoTarget indicates a sync request that names neither side.
	ErrNoTarget = errors.New("reconciliation: request must name a source or counterpart order")
	// ErrEmptyUpdate indicates an update request with no fields set.
	ErrEmptyUpdate = errors.New("reconciliation: update contains no fields")
)

const (
	defaultPageSize      = 50
	defaultUpdateTimeout = 30 * time.Second
)

// SyncService pairs orders from the scraped feed with their counterparts on
// the commerce platform. It holds no state between runs; every run refetches
// both sides.
type SyncService struct {
	source        domain.OrderSource
	counterpart   domain.CommercePlatform
	logger        *zap.Logger
	pageSize      int
	updateTimeout time.Duration
}

// SyncServiceOption customizes a SyncService.
type SyncServiceOption func(*SyncService)

// WithPageSize sets how many orders each side is asked for per run.
func WithPageSize(n int) SyncServiceOption {
	return func(s *SyncService) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithUpdateTimeout bounds counterpart update propagation.
func WithUpdateTimeout(d time.Duration) SyncServiceOption {
	return func(s *SyncService) {
		if d > 0 {
			s.updateTimeout = d
		}
	}
}

// NewSyncService creates a new SyncService.
func NewSyncService(source domain.OrderSource, counterpart domain.CommercePlatform, logger *zap.Logger, opts ...SyncServiceOption) *SyncService {
	s := &SyncService{
		source:        source,
		counterpart:   counterpart,
		logger:        logger,
		pageSize:      defaultPageSize,
		updateTimeout: defaultUpdateTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ---------------------------------------------------------------------------
// Reconciliation Runs
// ---------------------------------------------------------------------------

// GetSynchronizedOrders runs a full reconciliation: both sides are fetched
// concurrently, a failed side degrades to an empty set (logged, never
// fatal), and the two lists are paired into the unified view.
func (s *SyncService) GetSynchronizedOrders(ctx context.Context) (*ReconcileReport, error) {
	runID := uuid.NewString()
	startedAt := time.Now()

	var (
		wg                sync.WaitGroup
		sourceOrders      []domain.Order
		counterpartOrders []domain.Order
		sourceErr         error
		counterpartErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		sourceOrders, sourceErr = s.source.FetchOrders(ctx, s.pageSize)
	}()
	go func() {
		defer wg.Done()
		counterpartOrders, counterpartErr = s.counterpart.FetchOrders(ctx, s.pageSize)
	}()
	wg.Wait()

	report := &ReconcileReport{
		RunID:     runID,
		StartedAt: startedAt,
		Sources: []SourceFetchStatus{
			s.fetchStatus(runID, s.source.Source(), sourceOrders, sourceErr),
			s.fetchStatus(runID, s.counterpart.Source(), counterpartOrders, counterpartErr),
		},
	}
	if sourceErr != nil {
		sourceOrders = nil
	}
	if counterpartErr != nil {
		counterpartOrders = nil
	}

	report.Orders = s.reconcile(sourceOrders, counterpartOrders)
	for i := range report.Orders {
		if report.Orders[i].SyncStatus == domain.SyncStatusSynced {
			report.Synced++
		} else {
			report.Pending++
		}
	}
	report.CompletedAt = time.Now()

	s.logger.Info("reconciliation run completed",
		zap.String("run_id", runID),
		zap.Int("source_orders", len(sourceOrders)),
		zap.Int("counterpart_orders", len(counterpartOrders)),
		zap.Int("synced", report.Synced),
		zap.Int("pending", report.Pending),
		zap.Duration("elapsed", report.CompletedAt.Sub(startedAt)),
	)
	return report, nil
}

// fetchStatus records one side's outcome, logging degradations.
func (s *SyncService) fetchStatus(runID string, source domain.SourceCode, orders []domain.Order, err error) SourceFetchStatus {
	if err != nil {
		s.logger.Warn("source fetch failed, continuing with empty set",
			zap.String("run_id", runID),
			zap.String("source", source.String()),
			zap.Error(err),
		)
		return SourceFetchStatus{Source: source, Degraded: true, Error: err.Error()}
	}
	return SourceFetchStatus{Source: source, Count: len(orders)}
}

// reconcile pairs the two order lists. Assignment is greedy in two passes,
// high-confidence pairs first, then medium; each counterpart is consumed by
// at most one source order. Low-confidence candidates never pair here.
func (s *SyncService) reconcile(sources, counterparts []domain.Order) []domain.SynchronizedOrder {
	normSources := make([]domain.NormalizedOrder, len(sources))
	for i := range sources {
		normSources[i] = domain.Normalize(sources[i])
	}
	normCounterparts := make([]domain.NormalizedOrder, len(counterparts))
	for i := range counterparts {
		normCounterparts[i] = domain.Normalize(counterparts[i])
	}

	// Counterparts are consumed by identifier so the same platform order
	// cannot pair twice; an index key covers records with no identity.
	counterpartKey := func(j int) string {
		if id := counterparts[j].Identifier(); id != "" {
			return id
		}
		return fmt.Sprintf("#%d", j)
	}
	consumed := make(map[string]bool)

	assigned := make([]int, len(sources))
	results := make([]domain.MatchResult, len(sources))
	for i := range assigned {
		assigned[i] = -1
	}

	for _, minRank := range []int{domain.MatchConfidenceHigh.Rank(), domain.MatchConfidenceMedium.Rank()} {
		for i := range sources {
			if assigned[i] >= 0 {
				continue
			}
			bestIdx, bestRank := -1, 0
			var best domain.MatchResult
			for j := range counterparts {
				if consumed[counterpartKey(j)] {
					continue
				}
				result := domain.Score(normSources[i], normCounterparts[j])
				// Strict comparison keeps the first candidate on ties.
				if rank := result.Confidence.Rank(); rank >= minRank && rank > bestRank {
					bestIdx, bestRank, best = j, rank, result
				}
			}
			if bestIdx >= 0 {
				assigned[i] = bestIdx
				results[i] = best
				consumed[counterpartKey(bestIdx)] = true
			}
		}
	}

	orders := make([]domain.SynchronizedOrder, 0, len(sources)+len(counterparts))
	for i := range sources {
		if j := assigned[i]; j >= 0 {
			match := results[i]
			orders = append(orders, domain.NewSynchronizedOrder(&sources[i], &counterparts[j], &match))
		} else {
			orders = append(orders, domain.NewSynchronizedOrder(&sources[i], nil, nil))
		}
	}
	for j := range counterparts {
		if !consumed[counterpartKey(j)] {
			orders = append(orders, domain.NewSynchronizedOrder(nil, &counterparts[j], nil))
		}
	}
	return orders
}

// ---------------------------------------------------------------------------
// Single-Order Operations
// ---------------------------------------------------------------------------

// SyncOrder pairs one explicitly targeted order. With both ids set the pair
// is scored directly; with one id set the best candidate is searched on the
// other side and accepted at medium confidence or better, or at any
// confidence when Force is set.
func (s *SyncService) SyncOrder(ctx context.Context, req SyncOrderRequest) (*domain.SyncResult, error) {
	if req.SourceID == "" && req.CounterpartID == "" {
		return nil, ErrNoTarget
	}

	var (
		sourceOrder      *domain.Order
		counterpartOrder *domain.Order
		err              error
	)
	if req.SourceID != "" {
		sourceOrder, err = s.source.FetchOrder(ctx, req.SourceID)
		if err != nil {
			return nil, err
		}
	}
	if req.CounterpartID != "" {
		counterpartOrder, err = s.counterpart.FetchOrder(ctx, req.CounterpartID)
		if err != nil {
			return nil, err
		}
	}

	switch {
	case sourceOrder != nil && counterpartOrder != nil:
		match := domain.ScoreOrders(*sourceOrder, *counterpartOrder)
		return s.syncResult(domain.NewSynchronizedOrder(sourceOrder, counterpartOrder, &match)), nil
	case sourceOrder != nil:
		counterpartOrder, match := s.bestCounterpart(ctx, *sourceOrder, req.Force)
		return s.syncResult(domain.NewSynchronizedOrder(sourceOrder, counterpartOrder, match)), nil
	default:
		sourceOrder, match := s.bestSource(ctx, *counterpartOrder, req.Force)
		return s.syncResult(domain.NewSynchronizedOrder(sourceOrder, counterpartOrder, match)), nil
	}
}

// bestCounterpart searches the counterpart side for the best candidate for
// one source order. A failed listing degrades to no candidate.
func (s *SyncService) bestCounterpart(ctx context.Context, order domain.Order, force bool) (*domain.Order, *domain.MatchResult) {
	candidates, err := s.counterpart.FetchOrders(ctx, s.pageSize)
	if err != nil {
		s.logger.Warn("candidate fetch failed",
			zap.String("source", s.counterpart.Source().String()),
			zap.Error(err),
		)
		return nil, nil
	}
	return pickBest(order, candidates, force)
}

// bestSource is the mirror search on the scraped-feed side.
func (s *SyncService) bestSource(ctx context.Context, order domain.Order, force bool) (*domain.Order, *domain.MatchResult) {
	candidates, err := s.source.FetchOrders(ctx, s.pageSize)
	if err != nil {
		s.logger.Warn("candidate fetch failed",
			zap.String("source", s.source.Source().String()),
			zap.Error(err),
		)
		return nil, nil
	}
	return pickBest(order, candidates, force)
}

// pickBest scores the order against every candidate and keeps the best.
// Below-medium winners are accepted only under force.
func pickBest(order domain.Order, candidates []domain.Order, force bool) (*domain.Order, *domain.MatchResult) {
	norm := domain.Normalize(order)
	bestIdx, bestRank := -1, 0
	var best domain.MatchResult
	for i := range candidates {
		result := domain.Score(norm, domain.Normalize(candidates[i]))
		if rank := result.Confidence.Rank(); rank > bestRank {
			bestIdx, bestRank, best = i, rank, result
		}
	}
	if bestIdx < 0 {
		return nil, nil
	}
	if bestRank < domain.MatchConfidenceMedium.Rank() && !force {
		return nil, nil
	}
	return &candidates[bestIdx], &best
}

// syncResult wraps a synchronized order in an operation result.
func (s *SyncService) syncResult(order domain.SynchronizedOrder) *domain.SyncResult {
	return &domain.SyncResult{
		Success:  true,
		Order:    &order,
		SyncedAt: time.Now(),
	}
}

// UpdateCounterpartOrder propagates a field-level update to the commerce
// platform under the configured timeout. Errors come back classified so the
// transport layer can distinguish timeouts from rejections from outages.
func (s *SyncService) UpdateCounterpartOrder(ctx context.Context, id string, update domain.OrderUpdate) (*domain.SyncResult, error) {
	if update.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	ctx, cancel := context.WithTimeout(ctx, s.updateTimeout)
	defer cancel()

	updated, err := s.counterpart.UpdateOrder(ctx, id, update)
	if err != nil {
		s.logger.Error("counterpart update failed",
			zap.String("order_id", id),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("counterpart update applied",
		zap.String("order_id", id),
		zap.Int("fields", len(update.Changes())),
	)
	synced := domain.NewSynchronizedOrder(nil, updated, nil)
	return &domain.SyncResult{
		Success:  true,
		Order:    &synced,
		Changes:  update.Changes(),
		SyncedAt: time.Now(),
	}, nil
}
