package core

import (
	"pkt.systems/pslog"
	"pkt.systems/tabsession/internal/persist"
)

// EngineDeps captures optional dependencies for the engine.
type EngineDeps struct {
	Gateway   persist.Gateway
	Tabs      *TabFactory
	Clock     Clock
	EventSink EventSink
	Logger    pslog.Logger
}
