package eventbus

import (
	"context"
	"sync"

	"pkt.systems/pslog"
	"pkt.systems/tabsession/schema"
)

// EventType identifies the event payload.
type EventType string

const (
	// EventState carries a dispatched state transition.
	EventState EventType = "state"
	// EventPersist carries a persistence gateway outcome.
	EventPersist EventType = "persist"
)

// Event represents an engine event delivered to subscribers.
type Event struct {
	Type    EventType
	State   schema.StateEvent
	Persist schema.PersistEvent
}

// Bus fans events out to per-type subscribers.
type Bus struct {
	mu    sync.Mutex
	subs  map[EventType]map[chan Event]struct{}
	log   pslog.Logger
	depth int
}

// New constructs a Bus.
func New(logger pslog.Logger) *Bus {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Bus{
		subs:  make(map[EventType]map[chan Event]struct{}),
		log:   logger,
		depth: 256,
	}
}

// Subscribe registers a subscriber for the given event types, or for every
// type when none are given, and returns a channel + cancel.
func (b *Bus) Subscribe(types ...EventType) (<-chan Event, func()) {
	if b == nil {
		return nil, func() {}
	}
	if len(types) == 0 {
		types = []EventType{EventState, EventPersist}
	}
	ch := make(chan Event, b.depth)
	b.mu.Lock()
	for _, typ := range types {
		typeSubs := b.subs[typ]
		if typeSubs == nil {
			typeSubs = make(map[chan Event]struct{})
			b.subs[typ] = typeSubs
		}
		typeSubs[ch] = struct{}{}
	}
	b.mu.Unlock()
	if b.log != nil {
		b.log.Debug("eventbus subscribe", "types", len(types))
	}
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			for _, typ := range types {
				if subs := b.subs[typ]; subs != nil {
					delete(subs, ch)
					if len(subs) == 0 {
						delete(b.subs, typ)
					}
				}
			}
			close(ch)
			b.mu.Unlock()
			if b.log != nil {
				b.log.Debug("eventbus unsubscribe")
			}
		})
	}
}

// OnStateEvent publishes a state event.
func (b *Bus) OnStateEvent(event schema.StateEvent) {
	b.publish(Event{Type: EventState, State: event})
}

// OnPersistEvent publishes a persistence event.
func (b *Bus) OnPersistEvent(event schema.PersistEvent) {
	b.publish(Event{Type: EventPersist, Persist: event})
}

func (b *Bus) publish(event Event) {
	if b == nil {
		return
	}
	dropped := 0
	b.mu.Lock()
	for sub := range b.subs[event.Type] {
		select {
		case sub <- event:
		default:
			dropped++
		}
	}
	b.mu.Unlock()
	if dropped > 0 && b.log != nil {
		b.log.Trace("eventbus dropped", "type", event.Type, "count", dropped)
	}
}
