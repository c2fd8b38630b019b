package schema

// SchemaVersion is the current persisted snapshot schema.
const SchemaVersion = 1

const (
	// RecentlyClosedMax bounds the recently-closed ring buffer.
	RecentlyClosedMax = 15
	// SuggestionHistoryMax bounds the address-bar suggestion history.
	SuggestionHistoryMax = 24
)

// TabGroup is a named collection of tabs.
type TabGroup struct {
	ID        GroupID `json:"id"`
	Title     string  `json:"title"`
	Color     string  `json:"color,omitempty"`
	Collapsed bool    `json:"collapsed"`
}

// RecentlyClosedEntry is a closed tab kept for reopening. Entries are compared
// by pointer identity.
type RecentlyClosedEntry struct {
	Tab      Tab         `json:"tab"`
	ClosedAt int64       `json:"closedAt"`
	Reason   CloseReason `json:"reason"`
}

// SessionState is the complete in-memory session. Values reachable from a
// SessionState are shared between successive states and must not be mutated.
type SessionState struct {
	Tabs              []Tab                  `json:"tabs"`
	ActiveTabID       TabID                  `json:"activeTabId"`
	TabGroups         map[GroupID]TabGroup   `json:"tabGroups"`
	RecentlyClosed    []*RecentlyClosedEntry `json:"recentlyClosed"`
	SuggestionHistory []string               `json:"suggestionHistory"`
	Settings          SessionSettings        `json:"settings"`
	Version           int                    `json:"version"`
	Hydrated          bool                   `json:"-"`
}

// TabIndex returns the position of the tab with id, or -1.
func (s *SessionState) TabIndex(id TabID) int {
	if s == nil || id == "" {
		return -1
	}
	for i := range s.Tabs {
		if s.Tabs[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of s.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}
	out := *s
	out.Tabs = make([]Tab, len(s.Tabs))
	for i, tab := range s.Tabs {
		out.Tabs[i] = tab.Clone()
	}
	out.TabGroups = make(map[GroupID]TabGroup, len(s.TabGroups))
	for id, group := range s.TabGroups {
		out.TabGroups[id] = group
	}
	out.RecentlyClosed = make([]*RecentlyClosedEntry, 0, len(s.RecentlyClosed))
	for _, entry := range s.RecentlyClosed {
		if entry == nil {
			continue
		}
		copied := *entry
		copied.Tab = entry.Tab.Clone()
		out.RecentlyClosed = append(out.RecentlyClosed, &copied)
	}
	out.SuggestionHistory = append([]string(nil), s.SuggestionHistory...)
	return &out
}
