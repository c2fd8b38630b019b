package core

import (
	"testing"

	"pkt.systems/tabsession/schema"
)

func TestScenarioAddTabActivates(t *testing.T) {
	state, factory, clock := newTestState()
	t1 := state.Tabs[0].ID
	t2 := factory.Create(TabOptions{})

	next := reduce(state, addTab{tab: t2, makeActive: true}, clock)

	if !equalIDs(tabIDs(next), []schema.TabID{t1, t2.ID}) {
		t.Fatalf("unexpected tabs: %v", tabIDs(next))
	}
	if next.ActiveTabID != t2.ID {
		t.Fatalf("expected active %q, got %q", t2.ID, next.ActiveTabID)
	}
	if next.Tabs[0].Active || !next.Tabs[1].Active {
		t.Fatalf("unexpected active flags: %v %v", next.Tabs[0].Active, next.Tabs[1].Active)
	}
	if !state.Tabs[0].Active || len(state.Tabs) != 1 {
		t.Fatalf("prior state was modified")
	}
}

func TestScenarioCloseActiveFallsBack(t *testing.T) {
	state, factory, clock := newTestState()
	t1 := state.Tabs[0].ID
	t2 := factory.Create(TabOptions{})
	state = reduce(state, addTab{tab: t2, makeActive: true}, clock)

	next := reduce(state, closeTab{id: t2.ID}, clock)

	if !equalIDs(tabIDs(next), []schema.TabID{t1}) {
		t.Fatalf("unexpected tabs: %v", tabIDs(next))
	}
	if next.ActiveTabID != t1 || !next.Tabs[0].Active {
		t.Fatalf("expected %q active, got %q", t1, next.ActiveTabID)
	}
	if len(next.RecentlyClosed) != 1 || next.RecentlyClosed[0].Tab.ID != t2.ID {
		t.Fatalf("unexpected recently closed: %+v", next.RecentlyClosed)
	}
	entry := next.RecentlyClosed[0]
	if entry.Tab.Active || entry.Reason != schema.CloseReasonUser || entry.ClosedAt != 1000 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestScenarioCloseLastTabRefused(t *testing.T) {
	state, _, clock := newTestState()
	if next := reduce(state, closeTab{id: state.Tabs[0].ID}, clock); next != state {
		t.Fatalf("expected identical state when closing the last tab")
	}
}

func TestScenarioHistoryTruncation(t *testing.T) {
	state, _, clock := newTestState()
	id := state.Tabs[0].ID

	state = reduce(state, patchTab{id: id, patch: schema.TabPatch{URL: strPtr("https://a")}}, clock)
	state = reduce(state, patchTab{id: id, patch: schema.TabPatch{URL: strPtr("https://b")}}, clock)
	tab := state.Tabs[0]
	if got := historyURLs(tab); len(got) != 3 || got[0] != schema.BlankURL || got[1] != "https://a" || got[2] != "https://b" {
		t.Fatalf("unexpected history: %v", got)
	}
	if tab.HistoryIndex != 2 {
		t.Fatalf("expected index 2, got %d", tab.HistoryIndex)
	}

	rewound := *state
	rewound.Tabs = copyTabs(state.Tabs)
	rewound.Tabs[0].HistoryIndex = 1
	next := reduce(&rewound, patchTab{id: id, patch: schema.TabPatch{URL: strPtr("https://c")}}, clock)

	tab = next.Tabs[0]
	if got := historyURLs(tab); len(got) != 3 || got[1] != "https://a" || got[2] != "https://c" {
		t.Fatalf("expected forward history discarded, got %v", got)
	}
	if tab.HistoryIndex != 2 {
		t.Fatalf("expected index 2, got %d", tab.HistoryIndex)
	}
	if got := historyURLs(state.Tabs[0]); got[2] != "https://b" {
		t.Fatalf("prior history was modified: %v", got)
	}
}

func TestScenarioRecentlyClosedCap(t *testing.T) {
	state, factory, clock := newTestState()
	var closed []schema.TabID
	for i := 0; i < 16; i++ {
		tab := factory.Create(TabOptions{})
		state = reduce(state, addTab{tab: tab}, clock)
		closed = append(closed, tab.ID)
	}
	for _, id := range closed {
		state = reduce(state, closeTab{id: id}, clock)
	}
	if len(state.RecentlyClosed) != schema.RecentlyClosedMax {
		t.Fatalf("expected %d entries, got %d", schema.RecentlyClosedMax, len(state.RecentlyClosed))
	}
	if state.RecentlyClosed[0].Tab.ID != closed[15] {
		t.Fatalf("expected most recent first")
	}
	for _, entry := range state.RecentlyClosed {
		if entry.Tab.ID == closed[0] {
			t.Fatalf("expected oldest entry dropped")
		}
	}
	if state.RecentlyClosed[14].Tab.ID != closed[1] {
		t.Fatalf("expected second-oldest at the tail, got %q", state.RecentlyClosed[14].Tab.ID)
	}
}

func TestScenarioPermissionMergeOneLevel(t *testing.T) {
	state, _, clock := newTestState()
	allow := schema.PermissionAllow
	next := reduce(state, settingsUpdate{patch: schema.SettingsPatch{
		PermissionPolicy: &schema.PermissionPatch{Camera: &allow},
	}}, clock)
	policy := next.Settings.PermissionPolicy
	if policy.Camera != schema.PermissionAllow {
		t.Fatalf("expected camera allow, got %q", policy.Camera)
	}
	if policy.Microphone != schema.PermissionAsk || policy.Screen != schema.PermissionAsk || policy.Clipboard != schema.PermissionAsk {
		t.Fatalf("expected other permissions untouched: %+v", policy)
	}
	if again := reduce(next, settingsUpdate{patch: schema.SettingsPatch{
		PermissionPolicy: &schema.PermissionPatch{Camera: &allow},
	}}, clock); again != next {
		t.Fatalf("expected identical state for unchanged settings")
	}
}

func TestSetActiveTabIdempotent(t *testing.T) {
	state, factory, clock := newTestState()
	tab := factory.Create(TabOptions{})
	state = reduce(state, addTab{tab: tab}, clock)

	first := reduce(state, setActiveTab{id: tab.ID}, clock)
	if first == state {
		t.Fatalf("expected a new state on first activation")
	}
	if second := reduce(first, setActiveTab{id: tab.ID}, clock); second != first {
		t.Fatalf("expected identical state on repeated activation")
	}
}
