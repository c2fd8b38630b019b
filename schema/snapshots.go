package schema

// SessionSnapshot is the versioned unit written to durable storage.
type SessionSnapshot struct {
	Version int           `json:"version"`
	SavedAt int64         `json:"savedAt"`
	State   SnapshotState `json:"state"`
}

// SnapshotState is the serializable part of SessionState.
type SnapshotState struct {
	Tabs              []Tab                  `json:"tabs"`
	ActiveTabID       TabID                  `json:"activeTabId"`
	TabGroups         map[GroupID]TabGroup   `json:"tabGroups"`
	RecentlyClosed    []*RecentlyClosedEntry `json:"recentlyClosed"`
	SuggestionHistory []string               `json:"suggestionHistory"`
	Settings          SettingsPatch          `json:"settings"`
	Version           int                    `json:"version"`
}

// TabSummary is a compact read-only view of a tab for listings.
type TabSummary struct {
	Index     int
	ID        TabID
	Title     string
	URL       string
	Status    TabStatus
	GroupID   GroupID
	Active    bool
	Incognito bool
}

// Summarize returns a TabSummary for the tab at index.
func (t Tab) Summarize(index int) TabSummary {
	return TabSummary{
		Index:     index,
		ID:        t.ID,
		Title:     t.Title,
		URL:       t.URL,
		Status:    t.Status,
		GroupID:   t.GroupID,
		Active:    t.Active,
		Incognito: t.Incognito,
	}
}
