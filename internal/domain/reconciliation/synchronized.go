package reconciliation

import (
	"fmt"
	"time"
)

// ---------------------------------------------------------------------------
// SyncStatus represents the synchronization status of a unified order
// ---------------------------------------------------------------------------

// SyncStatus represents the synchronization status.
type SyncStatus string

const (
	// SyncStatusSynced indicates both sides are present. The status is
	// intentionally not gated on the confidence tier; low-confidence pairs
	// stay synced and are surfaced for human review via MatchConfidence.
	SyncStatusSynced SyncStatus = "synced"
	// SyncStatusPending indicates only one side is present.
	SyncStatusPending SyncStatus = "pending"
	// SyncStatusConflict indicates the two sides disagree on a tracked field.
	SyncStatusConflict SyncStatus = "conflict"
	// SyncStatusError indicates a propagation failure is recorded for the order.
	SyncStatusError SyncStatus = "error"
)

// IsValid returns true if the status is valid.
func (s SyncStatus) IsValid() bool {
	switch s {
	case SyncStatusSynced, SyncStatusPending, SyncStatusConflict, SyncStatusError:
		return true
	default:
		return false
	}
}

// String returns the string representation of SyncStatus.
func (s SyncStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// SynchronizedOrder
// ---------------------------------------------------------------------------

// SyncError records one propagation failure associated with an order.
type SyncError struct {
	Timestamp time.Time
	Message   string
	Source    SourceCode
}

// SynchronizedOrder is the unified view pairing zero or one source order
// with zero or one counterpart order plus match metadata. At least one side
// is always present.
type SynchronizedOrder struct {
	// ID keys the record within one reconciliation run. Derived from the
	// counterpart's platform id, then the source identifier, then a
	// generated temporary id. Never empty. Not stable across runs.
	ID string
	// SourceOrder is the WeareCloud side, nil when unmatched.
	SourceOrder *Order
	// CounterpartOrder is the JumpSeller side, nil when unmatched.
	CounterpartOrder *Order
	// MatchConfidence is the tier of the match that produced this record.
	MatchConfidence MatchConfidence
	// MatchReason is the display string of the contributing signals.
	MatchReason string
	// SyncStatus is synced when both sides are present, pending otherwise.
	SyncStatus SyncStatus
	// LastSyncedAt is the construction time; not persisted anywhere.
	LastSyncedAt time.Time
	// SyncErrors is the append-only list of propagation failures.
	SyncErrors []SyncError
}

// RecordError appends a propagation failure to the order and flips its
// status to error.
func (o *SynchronizedOrder) RecordError(source SourceCode, message string) {
	o.SyncErrors = append(o.SyncErrors, SyncError{
		Timestamp: time.Now(),
		Message:   message,
		Source:    source,
	})
	o.SyncStatus = SyncStatusError
}

// NewSynchronizedOrder assembles the unified record from optional sides and
// match metadata. At least one side must be supplied; constructing with
// neither is a programming error and panics with ErrNoOrderIdentity.
func NewSynchronizedOrder(source, counterpart *Order, match *MatchResult) SynchronizedOrder {
	if source == nil && counterpart == nil {
		panic(ErrNoOrderIdentity)
	}
	o := SynchronizedOrder{
		ID:               deriveID(source, counterpart),
		SourceOrder:      source,
		CounterpartOrder: counterpart,
		MatchConfidence:  MatchConfidenceLow,
		MatchReason:      unmatchedReason(source, counterpart),
		SyncStatus:       SyncStatusPending,
		LastSyncedAt:     time.Now(),
		SyncErrors:       make([]SyncError, 0),
	}
	if match != nil {
		o.MatchConfidence = match.Confidence
		o.MatchReason = match.Reason()
	}
	if source != nil && counterpart != nil {
		o.SyncStatus = SyncStatusSynced
	}
	return o
}

// unmatchedReason picks the default reason for a record built without match
// metadata, naming the side that came up empty.
func unmatchedReason(source, counterpart *Order) string {
	switch {
	case counterpart == nil:
		return NoMatchOnCounterpart
	case source == nil:
		return NoMatchOnSource
	default:
		return NoSignificantMatch
	}
}

// deriveID prefers the authoritative counterpart's platform id, falls back
// to the origin source's identifier, and finally generates a temporary
// timestamp-based id so the result is never empty.
func deriveID(source, counterpart *Order) string {
	if counterpart != nil && counterpart.PlatformID != "" {
		return counterpart.PlatformID
	}
	if id := counterpart.Identifier(); id != "" {
		return id
	}
	if id := source.Identifier(); id != "" {
		return id
	}
	return fmt.Sprintf("tmp-%d", time.Now().UnixNano())
}

// ---------------------------------------------------------------------------
// SyncResult
// ---------------------------------------------------------------------------

// FieldChange describes one field-level change applied by an update.
// OldValue is nil when the prior value was not fetched as part of the call.
type FieldChange struct {
	Field    string `json:"field"`
	OldValue any    `json:"old_value,omitempty"`
	NewValue any    `json:"new_value,omitempty"`
}

// SyncResult is the outcome of a single-order sync or update operation.
type SyncResult struct {
	// Success indicates the operation completed.
	Success bool
	// Order is the resolved synchronized order, when the operation produced one.
	Order *SynchronizedOrder
	// Changes lists the field-level changes applied, for update operations.
	Changes []FieldChange
	// Error carries the failure message when Success is false.
	Error string
	// SyncedAt is when the operation completed.
	SyncedAt time.Time
}
