package core

import "pkt.systems/tabsession/schema"

// EventSink receives state and persistence events from the engine.
type EventSink interface {
	OnStateEvent(event schema.StateEvent)
	OnPersistEvent(event schema.PersistEvent)
}
