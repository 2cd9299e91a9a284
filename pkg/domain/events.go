package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart       EventType = "run_start"
	EventRunEnd         EventType = "run_end"
	EventDirectiveStart EventType = "directive_start"
	EventDirectiveEnd   EventType = "directive_end"
	EventMutation       EventType = "mutation"
)

// Effect is the kind of change a mutation applied to the ABox.
type Effect string

const (
	EffectClassAdded     Effect = "class_added"
	EffectClassRemoved   Effect = "class_removed"
	EffectObjectAsserted Effect = "object_asserted"
	EffectDataSet        Effect = "data_set"
	EffectReified        Effect = "reified"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp  time.Time `json:"timestamp"`
	Type       EventType `json:"type"`
	OntologyID string    `json:"ontology_id"`
}

// RunEvent marks the start or end of one ontology pass.
type RunEvent struct {
	EventBase
	Status  RunStatus `json:"status,omitempty"`
	Changes int       `json:"changes,omitempty"`
	Err     error     `json:"-"`
}

// DirectiveEvent marks the start or end of one directive.
type DirectiveEvent struct {
	EventBase
	Directive  string        `json:"directive"`
	Kind       Kind          `json:"kind"`
	Candidates int           `json:"candidates,omitempty"`
	Changes    int           `json:"changes,omitempty"`
	Duration   time.Duration `json:"duration,omitempty"`
	Err        error         `json:"-"`
}

// MutationEvent describes one applied change.
type MutationEvent struct {
	EventBase
	Directive string       `json:"directive"`
	Kind      Kind         `json:"kind"`
	Effect    Effect       `json:"effect"`
	Tuple     Tuple        `json:"tuple"`
	Created   IndividualID `json:"created,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnRunStart       func(context.Context, *RunEvent)
	OnRunEnd         func(context.Context, *RunEvent)
	OnDirectiveStart func(context.Context, *DirectiveEvent)
	OnDirectiveEnd   func(context.Context, *DirectiveEvent)
	OnMutation       func(context.Context, *MutationEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRunStart:       chain(h.OnRunStart, other.OnRunStart),
		OnRunEnd:         chain(h.OnRunEnd, other.OnRunEnd),
		OnDirectiveStart: chain(h.OnDirectiveStart, other.OnDirectiveStart),
		OnDirectiveEnd:   chain(h.OnDirectiveEnd, other.OnDirectiveEnd),
		OnMutation:       chain(h.OnMutation, other.OnMutation),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
