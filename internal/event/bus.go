package event

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/caesium-cloud/relay/internal/metrics"
	"github.com/google/uuid"
)

type Type string

const (
	TypePipelineCreated Type = "pipeline_created"
	TypeTriggerCreated  Type = "trigger_created"
	TypeTriggerUpdated  Type = "trigger_updated"
	TypeTriggerDeleted  Type = "trigger_deleted"
)

var types = []Type{
	TypePipelineCreated,
	TypeTriggerCreated,
	TypeTriggerUpdated,
	TypeTriggerDeleted,
}

// ParseType reports whether name is a known event type.
func ParseType(name string) (Type, bool) {
	t := Type(name)
	return t, slices.Contains(types, t)
}

// Event is a change to a project's pipelines or triggers. Trigger
// tokens never appear in Payload.
type Event struct {
	Type       Type            `json:"type"`
	ProjectID  uuid.UUID       `json:"project_id"`
	PipelineID uuid.UUID       `json:"pipeline_id,omitempty"`
	TriggerID  uuid.UUID       `json:"trigger_id,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// Filter selects events for a subscriber. Zero fields match
// everything.
type Filter struct {
	ProjectID uuid.UUID
	Types     []Type
}

func (f Filter) matches(e Event) bool {
	if f.ProjectID != uuid.Nil && f.ProjectID != e.ProjectID {
		return false
	}
	return len(f.Types) == 0 || slices.Contains(f.Types, e.Type)
}

// Bus fans events out to in-process subscribers.
type Bus interface {
	Publish(e Event)
	Subscribe(ctx context.Context, filter Filter) (<-chan Event, error)
}

const subscriberBuffer = 64

type subscription struct {
	filter Filter
	events chan Event
}

type bus struct {
	mu   sync.RWMutex
	next uint64
	subs map[uint64]*subscription
}

func New() Bus {
	return &bus{subs: map[uint64]*subscription{}}
}

// Publish never blocks. A subscriber whose buffer is full misses
// the event.
func (b *bus) Publish(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		if !sub.filter.matches(e) {
			continue
		}
		select {
		case sub.events <- e:
		default:
		}
	}
}

// Subscribe registers a subscription that lives until ctx is done,
// at which point the returned channel is closed.
func (b *bus) Subscribe(ctx context.Context, filter Filter) (<-chan Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sub := &subscription{filter: filter, events: make(chan Event, subscriberBuffer)}

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = sub
	b.mu.Unlock()

	metrics.EventSubscribers.Inc()

	go func() {
		<-ctx.Done()

		b.mu.Lock()
		delete(b.subs, id)
		close(sub.events)
		b.mu.Unlock()

		metrics.EventSubscribers.Dec()
	}()

	return sub.events, nil
}

// Payload encodes v for Event.Payload. Unencodable values yield nil.
func Payload(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
