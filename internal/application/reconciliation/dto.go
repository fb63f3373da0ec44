package reconciliation

import (
	"time"

	domain "github.com/opsdash/backend/internal/domain/reconciliation"
)

// SyncOrderRequest targets a single order for on-demand pairing. At least
// one of SourceID and CounterpartID must be set.
type SyncOrderRequest struct {
	// SourceID is the WeareCloud-side order id.
	SourceID string
	// CounterpartID is the JumpSeller-side order id.
	CounterpartID string
	// Force pairs the best available candidate even when its confidence is
	// below medium. Without it, low-confidence candidates stay unpaired.
	Force bool
}

// SourceFetchStatus reports the outcome of one side's fetch within a run.
type SourceFetchStatus struct {
	// Source identifies the side.
	Source domain.SourceCode
	// Count is the number of orders obtained.
	Count int
	// Degraded is true when the fetch failed and the run continued with an
	// empty set for this side.
	Degraded bool
	// Error is the failure message when Degraded is true.
	Error string
}

// ReconcileReport is the full outcome of one reconciliation run.
type ReconcileReport struct {
	// RunID correlates the run's log lines and its report.
	RunID string
	// Orders is the unified view, pairs first in source order, then
	// unmatched counterparts.
	Orders []domain.SynchronizedOrder
	// Sources reports each side's fetch outcome.
	Sources []SourceFetchStatus
	// Synced counts orders with both sides present.
	Synced int
	// Pending counts one-sided orders.
	Pending int
	// StartedAt and CompletedAt bound the run.
	StartedAt   time.Time
	CompletedAt time.Time
}
