// Package events carries engine status transitions to the presenter.
//
// Status is modeled as explicit transitions pushed through one channel with
// a single consumer, so ordering is the publish order and there is no
// implicit listener fan-out.
package events

import "time"

// Type identifies event categories
type Type string

const (
	TypeStatusChanged    Type = "status_changed"
	TypeCommitCreated    Type = "commit_created"
	TypeCycleSkipped     Type = "cycle_skipped"
	TypeSyncFailed       Type = "sync_failed"
	TypeProviderFallback Type = "provider_fallback"
)

// Status is the repository-level engine status surfaced to the UI.
type Status string

const (
	StatusDisabled Status = "disabled"
	StatusEnabled  Status = "enabled"
	StatusSyncing  Status = "syncing"
	StatusError    Status = "error"
)

// Event is the base event structure
type Event struct {
	Type      Type
	Timestamp time.Time
	Data      map[string]any
}

// Eventer interface for typed events
type Eventer interface {
	ToEvent() Event
}

// StatusChangedEvent when the engine status transitions
type StatusChangedEvent struct {
	From      Status
	To        Status
	Reason    string
	Timestamp time.Time
}

func (e StatusChangedEvent) ToEvent() Event {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	return Event{
		Type:      TypeStatusChanged,
		Timestamp: e.Timestamp,
		Data: map[string]any{
			"from":   string(e.From),
			"to":     string(e.To),
			"reason": e.Reason,
		},
	}
}

// CommitCreatedEvent when a commit cycle produces a commit
type CommitCreatedEvent struct {
	Hash      string
	Message   string
	Files     int
	Timestamp time.Time
}

func (e CommitCreatedEvent) ToEvent() Event {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	return Event{
		Type:      TypeCommitCreated,
		Timestamp: e.Timestamp,
		Data: map[string]any{
			"hash":    e.Hash,
			"message": e.Message,
			"files":   e.Files,
		},
	}
}

// CycleSkippedEvent when a commit cycle ends without a commit
type CycleSkippedEvent struct {
	Reason    string
	Timestamp time.Time
}

func (e CycleSkippedEvent) ToEvent() Event {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	return Event{
		Type:      TypeCycleSkipped,
		Timestamp: e.Timestamp,
		Data: map[string]any{
			"reason": e.Reason,
		},
	}
}

// SyncFailedEvent when a push or pull fails
type SyncFailedEvent struct {
	Operation string // push, pull
	Error     error
	Timestamp time.Time
}

func (e SyncFailedEvent) ToEvent() Event {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	errMsg := ""
	if e.Error != nil {
		errMsg = e.Error.Error()
	}
	return Event{
		Type:      TypeSyncFailed,
		Timestamp: e.Timestamp,
		Data: map[string]any{
			"operation": e.Operation,
			"error":     errMsg,
		},
	}
}

// ProviderFallbackEvent when the configured provider is silently substituted
type ProviderFallbackEvent struct {
	Configured string
	Used       string
	Timestamp  time.Time
}

func (e ProviderFallbackEvent) ToEvent() Event {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	return Event{
		Type:      TypeProviderFallback,
		Timestamp: e.Timestamp,
		Data: map[string]any{
			"configured": e.Configured,
			"used":       e.Used,
		},
	}
}
