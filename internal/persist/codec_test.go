package persist

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pkt.systems/tabsession/schema"
)

func TestCodecRoundTrip(t *testing.T) {
	camera := schema.PermissionBlock
	snapshot := schema.SessionSnapshot{
		Version: schema.SchemaVersion,
		SavedAt: 1700000000000,
		State: schema.SnapshotState{
			Tabs: []schema.Tab{{
				ID:           "tab-1-1",
				Title:        "Example",
				URL:          "https://example.com",
				Status:       schema.TabStatusPinned,
				ChatHistory:  []schema.ChatMessage{},
				History:      []schema.HistoryEntry{{ID: "h1", URL: "https://example.com", Title: "Example", Timestamp: 1}},
				HistoryIndex: 0,
				Active:       true,
			}},
			ActiveTabID:       "tab-1-1",
			TabGroups:         map[schema.GroupID]schema.TabGroup{"g1": {ID: "g1", Title: "Work"}},
			RecentlyClosed:    []*schema.RecentlyClosedEntry{},
			SuggestionHistory: []string{"example"},
			Settings:          schema.SettingsPatch{PermissionPolicy: &schema.PermissionPatch{Camera: &camera}},
			Version:           schema.SchemaVersion,
		},
	}
	data, err := Encode(snapshot)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(snapshot, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRejectsOtherVersions(t *testing.T) {
	for _, data := range []string{`{"version":2,"state":{}}`, `{"version":0}`, `{"state":{}}`} {
		if _, err := Decode(data); !errors.Is(err, schema.ErrSnapshotVersion) {
			t.Fatalf("decode %s: expected version error, got %v", data, err)
		}
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode("   "); !errors.Is(err, schema.ErrSnapshotEmpty) {
		t.Fatalf("expected empty error, got %v", err)
	}
	if _, err := Decode("{not-json"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestDecodeNullActiveTab(t *testing.T) {
	snap, err := Decode(`{"version":1,"savedAt":5,"state":{"tabs":[],"activeTabId":null,"version":1}}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.State.ActiveTabID != "" {
		t.Fatalf("expected empty active tab, got %q", snap.State.ActiveTabID)
	}
}
