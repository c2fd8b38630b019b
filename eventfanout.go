package tabsession

import (
	"pkt.systems/tabsession/core"
	"pkt.systems/tabsession/schema"
)

type eventFanout struct {
	sinks []core.EventSink
}

func (f eventFanout) OnStateEvent(event schema.StateEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnStateEvent(event)
	}
}

func (f eventFanout) OnPersistEvent(event schema.PersistEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnPersistEvent(event)
	}
}

func combineSinks(sinks ...core.EventSink) core.EventSink {
	out := make([]core.EventSink, 0, len(sinks))
	for _, sink := range sinks {
		if sink != nil {
			out = append(out, sink)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	default:
		return eventFanout{sinks: out}
	}
}
