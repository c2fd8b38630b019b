package format

import (
	"errors"
	"strings"
	"testing"
	"time"

	"pkt.systems/tabsession/internal/eventbus"
	"pkt.systems/tabsession/schema"
)

func TestFormatEventState(t *testing.T) {
	lines := NewPlainRenderer().FormatEvent(eventbus.Event{
		Type:  eventbus.EventState,
		State: schema.StateEvent{Kind: schema.StateCloseTab, TabID: "tab-1-1", Changed: true, TabCount: 2},
	})
	if len(lines) != 1 || lines[0] != "event: close_tab changed=true tabs=2 tab=tab-1-1" {
		t.Fatalf("unexpected lines %q", lines)
	}
}

func TestFormatEventFailuresOnly(t *testing.T) {
	p := &PlainRenderer{FailuresOnly: true}
	if lines := p.FormatEvent(eventbus.Event{Type: eventbus.EventState}); lines != nil {
		t.Fatalf("expected state events dropped, got %q", lines)
	}
	ok := eventbus.Event{Type: eventbus.EventPersist, Persist: schema.PersistEvent{Op: schema.PersistSave, Bytes: 10}}
	if lines := p.FormatEvent(ok); lines != nil {
		t.Fatalf("expected successful save dropped, got %q", lines)
	}
	failed := eventbus.Event{Type: eventbus.EventPersist, Persist: schema.PersistEvent{Op: schema.PersistSave, Err: errors.New("disk full")}}
	lines := p.FormatEvent(failed)
	if len(lines) != 1 || !strings.HasSuffix(lines[0], "err=disk full") {
		t.Fatalf("expected failure line, got %q", lines)
	}
}

func TestFormatPersistLoadShowsFound(t *testing.T) {
	line := formatPersistEvent(schema.PersistEvent{Op: schema.PersistLoad, Found: true, Bytes: 42, Duration: 1500 * time.Microsecond})
	if line != "event: persist load bytes=42 took=1.5ms found=true" {
		t.Fatalf("unexpected line %q", line)
	}
}

func TestSummaryFlags(t *testing.T) {
	groups := map[schema.GroupID]schema.TabGroup{"g1": {ID: "g1", Title: "Work"}}
	line := Summary(schema.TabSummary{
		Index:     0,
		Title:     "Docs",
		URL:       "https://go.dev",
		Status:    schema.TabStatusPinned,
		GroupID:   "g1",
		Active:    true,
		Incognito: true,
	}, groups)
	if line != "* 1  Docs  https://go.dev  (pinned, incognito, group:Work)" {
		t.Fatalf("unexpected summary %q", line)
	}
	untitled := Summary(schema.TabSummary{Index: 1, Title: "https://go.dev", URL: "https://go.dev", Status: schema.TabStatusNormal}, nil)
	if untitled != "  2  https://go.dev" {
		t.Fatalf("expected url once for untitled tab, got %q", untitled)
	}
	plain := Summary(schema.TabSummary{Index: 9, Title: "x", URL: "y", Status: schema.TabStatusNormal}, nil)
	if plain != " 10  x  y" {
		t.Fatalf("unexpected plain summary %q", plain)
	}
}

func TestClosedEntryAge(t *testing.T) {
	now := time.UnixMilli(10 * 60 * 1000)
	entry := &schema.RecentlyClosedEntry{
		Tab:      schema.Tab{ID: "tab-1-1", URL: "https://a.example"},
		ClosedAt: 0,
		Reason:   schema.CloseReasonCrash,
	}
	line := ClosedEntry(1, entry, now)
	if line != ` 1  "https://a.example" [tab-1-1]  (crash, 10m ago)` {
		t.Fatalf("unexpected entry %q", line)
	}
}

func TestAge(t *testing.T) {
	cases := map[time.Duration]string{
		-time.Second:     "0s",
		42 * time.Second: "42s",
		3 * time.Hour:    "3h",
		50 * time.Hour:   "2d",
	}
	for d, want := range cases {
		if got := Age(d); got != want {
			t.Fatalf("Age(%s) = %q, want %q", d, got, want)
		}
	}
}
