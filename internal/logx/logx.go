package logx

import (
	"context"

	"pkt.systems/pslog"
	"pkt.systems/tabsession/schema"
)

type contextKey int

const (
	tabKey contextKey = iota
	groupKey
)

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithTab annotates the logger with the tab id if present.
func WithTab(ctx context.Context, tabID schema.TabID) pslog.Logger {
	log := pslog.Ctx(ctx)
	if tabID != "" {
		if current, ok := ctx.Value(tabKey).(schema.TabID); ok && current == tabID {
			return log
		}
		log = log.With("tab", tabID)
	}
	return log
}

// WithTabGroup annotates the logger with tab and group identifiers.
func WithTabGroup(ctx context.Context, tabID schema.TabID, groupID schema.GroupID) pslog.Logger {
	log := WithTab(ctx, tabID)
	if groupID != "" {
		if current, ok := ctx.Value(groupKey).(schema.GroupID); ok && current == groupID {
			return log
		}
		log = log.With("group", groupID)
	}
	return log
}

// WithAction annotates the logger with a dispatched action kind.
func WithAction(log pslog.Logger, kind schema.StateEventKind) pslog.Logger {
	if kind != "" {
		log = log.With("action", kind)
	}
	return log
}

// WithBackend annotates the logger with the store backend name.
func WithBackend(log pslog.Logger, backend string) pslog.Logger {
	if backend != "" {
		log = log.With("backend", backend)
	}
	return log
}

// ContextWithTab stores the tab marker on the context for log de-duplication.
func ContextWithTab(ctx context.Context, tabID schema.TabID) context.Context {
	if ctx == nil || tabID == "" {
		return ctx
	}
	return context.WithValue(ctx, tabKey, tabID)
}

// ContextWithGroup stores the group marker on the context for log de-duplication.
func ContextWithGroup(ctx context.Context, groupID schema.GroupID) context.Context {
	if ctx == nil || groupID == "" {
		return ctx
	}
	return context.WithValue(ctx, groupKey, groupID)
}

// ContextWithTabLogger attaches the logger and tab marker to the context.
func ContextWithTabLogger(ctx context.Context, log pslog.Logger, tabID schema.TabID) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	return ContextWithTab(ctx, tabID)
}
