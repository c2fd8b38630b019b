package schema

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTabUnmarshalLenientFields(t *testing.T) {
	raw := `{"id":"tab-1-1","title":"Example","url":"https://example.com","chatHistory":"oops","history":{"bad":true},"historyIndex":"2","groupId":null,"status":"pinned"}`
	var tab Tab
	if err := json.Unmarshal([]byte(raw), &tab); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tab.ID != "tab-1-1" || tab.Title != "Example" || tab.URL != "https://example.com" {
		t.Fatalf("unexpected plain fields: %+v", tab)
	}
	if tab.ChatHistory != nil {
		t.Fatalf("expected nil chat history, got %v", tab.ChatHistory)
	}
	if tab.History != nil {
		t.Fatalf("expected nil history, got %v", tab.History)
	}
	if tab.HistoryIndex != InvalidHistoryIndex {
		t.Fatalf("expected invalid history index, got %d", tab.HistoryIndex)
	}
	if tab.GroupID != "" {
		t.Fatalf("expected empty group id, got %q", tab.GroupID)
	}
	if tab.Status != TabStatusPinned {
		t.Fatalf("expected pinned, got %q", tab.Status)
	}
}

func TestTabUnmarshalWellFormed(t *testing.T) {
	raw := `{"id":"tab-1-1","history":[{"id":"tab-1-1","url":"a","title":"A","timestamp":1},{"id":"tab-1-1","url":"b","title":"B","timestamp":2}],"historyIndex":1,"chatHistory":[{"role":"user","content":"hi","timestamp":3}]}`
	var tab Tab
	if err := json.Unmarshal([]byte(raw), &tab); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(tab.History) != 2 || tab.HistoryIndex != 1 {
		t.Fatalf("unexpected history: %+v idx=%d", tab.History, tab.HistoryIndex)
	}
	if len(tab.ChatHistory) != 1 || tab.ChatHistory[0].Content != "hi" {
		t.Fatalf("unexpected chat: %+v", tab.ChatHistory)
	}
	if !tab.CanGoBack() || tab.CanGoForward() {
		t.Fatalf("unexpected navigation flags")
	}
}

func TestTabIDEncodesEmptyAsNull(t *testing.T) {
	data, err := json.Marshal(struct {
		Active TabID   `json:"activeTabId"`
		Group  GroupID `json:"groupId"`
	}{Active: "", Group: "g-1"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got := string(data); got != `{"activeTabId":null,"groupId":"g-1"}` {
		t.Fatalf("unexpected encoding: %s", got)
	}
}

func TestTruncatePageText(t *testing.T) {
	short := "héllo"
	if got := TruncatePageText(short); got != short {
		t.Fatalf("expected short text unchanged")
	}
	long := strings.Repeat("é", MaxPageTextRunes+10)
	got := TruncatePageText(long)
	if n := len([]rune(got)); n != MaxPageTextRunes {
		t.Fatalf("expected %d runes, got %d", MaxPageTextRunes, n)
	}
}

func TestTabCloneIsolatesSlices(t *testing.T) {
	tab := Tab{History: []HistoryEntry{{URL: "a"}}, ChatHistory: []ChatMessage{{Content: "x"}}}
	clone := tab.Clone()
	clone.History[0].URL = "b"
	clone.ChatHistory[0].Content = "y"
	if tab.History[0].URL != "a" || tab.ChatHistory[0].Content != "x" {
		t.Fatalf("clone shares slices with original")
	}
}

func TestTabCloneKeepsEmptySlicesNonNil(t *testing.T) {
	tab := Tab{History: []HistoryEntry{}, ChatHistory: []ChatMessage{}}
	clone := tab.Clone()
	if clone.ChatHistory == nil || clone.History == nil {
		t.Fatalf("expected empty slices to stay non-nil, got chat=%v history=%v", clone.ChatHistory, clone.History)
	}
	data, err := json.Marshal(clone)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"chatHistory":[]`) {
		t.Fatalf("expected empty chat history array, got %s", data)
	}
}
