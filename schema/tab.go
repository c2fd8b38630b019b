package schema

import (
	"encoding/json"
	"unicode/utf8"
)

// BlankURL marks a tab showing the home page.
const BlankURL = "about:blank"

// NewTabTitle is the title given to home tabs.
const NewTabTitle = "New Tab"

// MaxPageTextRunes bounds the extracted page text cached on a tab.
const MaxPageTextRunes = 20000

// ChatMessage is one assistant conversation message attached to a tab.
type ChatMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// HistoryEntry is one navigation history entry of a tab.
type HistoryEntry struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	Timestamp int64  `json:"timestamp"`
}

// Tab is one browsing context.
type Tab struct {
	ID            TabID          `json:"id"`
	Title         string         `json:"title"`
	URL           string         `json:"url"`
	AddressValue  string         `json:"addressValue"`
	AddressInput  string         `json:"addressInput"`
	PageTitle     string         `json:"pageTitle"`
	PageText      string         `json:"pageText"`
	ChatHistory   []ChatMessage  `json:"chatHistory"`
	AssistantOpen bool           `json:"assistantOpen"`
	Active        bool           `json:"active"`
	Status        TabStatus      `json:"status"`
	Incognito     bool           `json:"incognito"`
	GroupID       GroupID        `json:"groupId"`
	History       []HistoryEntry `json:"history"`
	HistoryIndex  int            `json:"historyIndex"`
	CreatedAt     int64          `json:"createdAt"`
	LastActiveAt  int64          `json:"lastActiveAt"`
}

// InvalidHistoryIndex is decoded for a historyIndex that is not an integer.
const InvalidHistoryIndex = -1

// UnmarshalJSON decodes a tab written by this or an older snapshot. Fields with
// the wrong shape decode as empty instead of failing the whole snapshot:
// chatHistory and history fall back to nil, historyIndex to InvalidHistoryIndex.
func (t *Tab) UnmarshalJSON(data []byte) error {
	type plain Tab
	aux := struct {
		*plain
		ChatHistory  json.RawMessage `json:"chatHistory"`
		History      json.RawMessage `json:"history"`
		HistoryIndex json.RawMessage `json:"historyIndex"`
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t.ChatHistory = nil
	if len(aux.ChatHistory) > 0 {
		var chat []ChatMessage
		if err := json.Unmarshal(aux.ChatHistory, &chat); err == nil {
			t.ChatHistory = chat
		}
	}
	t.History = nil
	if len(aux.History) > 0 {
		var history []HistoryEntry
		if err := json.Unmarshal(aux.History, &history); err == nil {
			t.History = history
		}
	}
	t.HistoryIndex = InvalidHistoryIndex
	if len(aux.HistoryIndex) > 0 {
		var index int
		if err := json.Unmarshal(aux.HistoryIndex, &index); err == nil {
			t.HistoryIndex = index
		}
	}
	return nil
}

// IsHome reports whether the tab shows the home page.
func (t Tab) IsHome() bool {
	return t.URL == BlankURL
}

// Pinned reports whether the tab is pinned.
func (t Tab) Pinned() bool {
	return t.Status == TabStatusPinned
}

// CanGoBack reports whether there is an earlier history entry.
func (t Tab) CanGoBack() bool {
	return t.HistoryIndex > 0
}

// CanGoForward reports whether there is a later history entry.
func (t Tab) CanGoForward() bool {
	return t.HistoryIndex < len(t.History)-1
}

// Clone returns a copy that shares no slices with t.
func (t Tab) Clone() Tab {
	out := t
	if t.ChatHistory != nil {
		out.ChatHistory = make([]ChatMessage, len(t.ChatHistory))
		copy(out.ChatHistory, t.ChatHistory)
	}
	if t.History != nil {
		out.History = make([]HistoryEntry, len(t.History))
		copy(out.History, t.History)
	}
	return out
}

// TabPatch carries a partial tab update; nil fields are left unchanged.
type TabPatch struct {
	Title        *string
	URL          *string
	AddressValue *string
	AddressInput *string
	PageTitle    *string
	PageText     *string
	Incognito    *bool
}

// TruncatePageText bounds text to MaxPageTextRunes runes.
func TruncatePageText(text string) string {
	if utf8.RuneCountInString(text) <= MaxPageTextRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:MaxPageTextRunes])
}
