package core

import (
	"strings"

	"pkt.systems/tabsession/schema"
)

// normalizeTab fills fields a stored tab may lack and enforces history bounds.
// Active is cleared; the caller decides which tab is active.
func normalizeTab(tab schema.Tab, now int64) schema.Tab {
	out := tab.Clone()
	status, ok := schema.NormalizeTabStatus(string(out.Status))
	if !ok {
		status = schema.TabStatusNormal
	}
	out.Status = status
	if out.URL == "" {
		out.URL = schema.BlankURL
	}
	if out.Title == "" {
		out.Title = defaultTitle(out.URL)
	}
	if out.CreatedAt <= 0 {
		out.CreatedAt = now
	}
	if out.LastActiveAt <= 0 {
		out.LastActiveAt = out.CreatedAt
	}
	if out.ChatHistory == nil {
		out.ChatHistory = []schema.ChatMessage{}
	}
	if len(out.History) == 0 {
		out.History = []schema.HistoryEntry{newHistoryEntry(out.ID, 0, out.URL, out.Title, out.CreatedAt)}
		out.HistoryIndex = 0
	}
	out.HistoryIndex = clampHistoryIndex(out.HistoryIndex, len(out.History))
	out.PageText = schema.TruncatePageText(out.PageText)
	out.Active = false
	return out
}

// newSessionState returns the default state around a single active tab.
func newSessionState(tab schema.Tab, now int64) *schema.SessionState {
	tab = normalizeTab(tab, now)
	tab.Active = true
	return &schema.SessionState{
		Tabs:              []schema.Tab{tab},
		ActiveTabID:       tab.ID,
		TabGroups:         map[schema.GroupID]schema.TabGroup{},
		RecentlyClosed:    []*schema.RecentlyClosedEntry{},
		SuggestionHistory: []string{},
		Settings:          schema.DefaultSessionSettings(),
		Version:           schema.SchemaVersion,
	}
}

func reduceRehydrate(a rehydrate, now int64, lim limits) *schema.SessionState {
	snap := a.snapshot
	groups := make(map[schema.GroupID]schema.TabGroup, len(snap.TabGroups))
	for id, group := range snap.TabGroups {
		if id == "" {
			continue
		}
		group.ID = id
		groups[id] = group
	}

	seen := make(map[schema.TabID]bool, len(snap.Tabs))
	tabs := make([]schema.Tab, 0, len(snap.Tabs))
	flagged := schema.TabID("")
	for _, raw := range snap.Tabs {
		if raw.ID == "" || seen[raw.ID] {
			continue
		}
		seen[raw.ID] = true
		if raw.Active && flagged == "" {
			flagged = raw.ID
		}
		tab := normalizeTab(raw, now)
		if _, ok := groups[tab.GroupID]; !ok {
			tab.GroupID = ""
		}
		tabs = append(tabs, tab)
	}
	if len(tabs) == 0 {
		tab := normalizeTab(a.fallback, now)
		tab.GroupID = ""
		tabs = append(tabs, tab)
	}

	active := tabs[0].ID
	switch {
	case snap.ActiveTabID != "" && seen[snap.ActiveTabID]:
		active = snap.ActiveTabID
	case flagged != "":
		active = flagged
	}
	for i := range tabs {
		tabs[i].Active = tabs[i].ID == active
	}
	tabs = partitionPinned(tabs)

	closed := make([]*schema.RecentlyClosedEntry, 0, len(snap.RecentlyClosed))
	for _, entry := range snap.RecentlyClosed {
		if len(closed) == lim.recentlyClosedMax {
			break
		}
		if entry == nil || entry.Tab.ID == "" {
			continue
		}
		closed = append(closed, &schema.RecentlyClosedEntry{
			Tab:      normalizeTab(entry.Tab, now),
			ClosedAt: entry.ClosedAt,
			Reason:   schema.NormalizeCloseReason(string(entry.Reason)),
		})
	}

	return &schema.SessionState{
		Tabs:              tabs,
		ActiveTabID:       active,
		TabGroups:         groups,
		RecentlyClosed:    closed,
		SuggestionHistory: normalizeSuggestions(snap.SuggestionHistory, lim.suggestionHistoryMax),
		Settings:          schema.DefaultSessionSettings().Apply(snap.Settings),
		Version:           schema.SchemaVersion,
		Hydrated:          true,
	}
}

func normalizeSuggestions(values []string, max int) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if len(out) == max {
			break
		}
		value = schema.NormalizeSuggestion(value)
		if value == "" || containsFold(out, value) {
			continue
		}
		out = append(out, value)
	}
	return out
}

func containsFold(values []string, value string) bool {
	for _, existing := range values {
		if strings.EqualFold(existing, value) {
			return true
		}
	}
	return false
}

// Snapshot builds the persisted form of state.
func Snapshot(state *schema.SessionState, clock Clock) schema.SessionSnapshot {
	snap := schema.SessionSnapshot{
		Version: schema.SchemaVersion,
		SavedAt: clock.millis(),
	}
	if state == nil {
		return snap
	}
	groups := state.TabGroups
	if groups == nil {
		groups = map[schema.GroupID]schema.TabGroup{}
	}
	closed := state.RecentlyClosed
	if closed == nil {
		closed = []*schema.RecentlyClosedEntry{}
	}
	suggestions := state.SuggestionHistory
	if suggestions == nil {
		suggestions = []string{}
	}
	snap.State = schema.SnapshotState{
		Tabs:              state.Tabs,
		ActiveTabID:       state.ActiveTabID,
		TabGroups:         groups,
		RecentlyClosed:    closed,
		SuggestionHistory: suggestions,
		Settings:          state.Settings.Patch(),
		Version:           schema.SchemaVersion,
	}
	return snap
}
