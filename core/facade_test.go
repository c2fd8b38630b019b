package core

import (
	"errors"
	"testing"

	"pkt.systems/tabsession/schema"
)

func TestFacadeNavigateAndHistory(t *testing.T) {
	engine := newTestEngine(t, nil, nil)
	id := engine.State().ActiveTabID

	if !engine.Navigate(id, " https://a ") {
		t.Fatalf("expected navigate to change state")
	}
	engine.Navigate(id, "https://b")
	if engine.Navigate(id, "   ") {
		t.Fatalf("expected empty navigate to be ignored")
	}
	tab, _ := ActiveTab(engine.State())
	if tab.URL != "https://b" || tab.AddressValue != "https://b" || tab.HistoryIndex != 2 {
		t.Fatalf("unexpected tab: %+v", tab)
	}
	if got := engine.State().SuggestionHistory; len(got) != 2 || got[0] != "https://b" {
		t.Fatalf("unexpected suggestions: %v", got)
	}

	if !engine.GoBack(id) || !engine.GoBack(id) || engine.GoBack(id) {
		t.Fatalf("unexpected back results")
	}
	tab, _ = ActiveTab(engine.State())
	if !tab.IsHome() || !tab.CanGoForward() {
		t.Fatalf("expected home tab with forward history: %+v", tab)
	}
	if !engine.GoForward(id) {
		t.Fatalf("expected forward")
	}
	tab, _ = ActiveTab(engine.State())
	if tab.URL != "https://a" {
		t.Fatalf("expected https://a, got %q", tab.URL)
	}
}

func TestFacadeGroupsAndReopen(t *testing.T) {
	engine := newTestEngine(t, nil, nil)
	first := engine.State().ActiveTabID
	a := engine.OpenTab(TabOptions{URL: "https://a"}, false)
	b := engine.OpenTab(TabOptions{URL: "https://b"}, false)

	group := engine.CreateGroup("Work", "red")
	if !engine.AssignGroup(a, group) || engine.AssignGroup(b, "ghost") {
		t.Fatalf("unexpected group assignment results")
	}
	if got := TabsInGroup(engine.State(), group); len(got) != 1 || got[0].ID != a {
		t.Fatalf("unexpected group members: %v", got)
	}
	if !engine.ToggleGroupCollapsed(group) || !engine.State().TabGroups[group].Collapsed {
		t.Fatalf("expected collapsed group")
	}

	engine.CloseTab(a, "")
	engine.CloseTab(b, schema.CloseReasonSystem)
	if !engine.ReopenClosedAt(1) {
		t.Fatalf("expected reopen of older entry")
	}
	state := engine.State()
	if state.ActiveTabID != a || state.Tabs[len(state.Tabs)-1].GroupID != group {
		t.Fatalf("unexpected reopened tab: active=%q", state.ActiveTabID)
	}
	if engine.ReopenClosedAt(5) {
		t.Fatalf("expected out-of-range reopen to be ignored")
	}

	engine.DeleteGroup(group)
	if got := TabsInGroup(engine.State(), group); len(got) != 0 {
		t.Fatalf("expected group cleared from tabs")
	}
	if !engine.ReopenClosed() || engine.State().ActiveTabID != b {
		t.Fatalf("expected most recent reopen")
	}

	fresh := engine.CloseAllTabs()
	state = engine.State()
	if len(state.Tabs) != 1 || state.ActiveTabID != fresh || fresh == first {
		t.Fatalf("unexpected close all: %v", tabIDs(state))
	}
}

func TestFacadeStateIsACopy(t *testing.T) {
	engine := newTestEngine(t, nil, nil)
	state := engine.State()
	state.Tabs[0].Title = "mutated"
	if engine.State().Tabs[0].Title == "mutated" {
		t.Fatalf("expected State to return a copy")
	}
}

func TestSelectors(t *testing.T) {
	engine := newTestEngine(t, nil, nil)
	first := engine.State().ActiveTabID
	pinned := engine.OpenTab(TabOptions{URL: "https://pin", Status: schema.TabStatusPinned}, false)
	engine.AddSuggestion("Golang docs")
	engine.AddSuggestion("rust book")
	state := engine.State()

	if got := PinnedTabs(state); len(got) != 1 || got[0].ID != pinned {
		t.Fatalf("unexpected pinned tabs: %v", got)
	}
	if got := RegularTabs(state); len(got) != 1 || got[0].ID != first {
		t.Fatalf("unexpected regular tabs: %v", got)
	}
	if got := Suggestions(state, "GO"); len(got) != 1 || got[0] != "Golang docs" {
		t.Fatalf("unexpected suggestions: %v", got)
	}
	if tab, err := ResolveTab(state, "1"); err != nil || tab.ID != pinned {
		t.Fatalf("resolve by position: %v %v", tab.ID, err)
	}
	if tab, err := ResolveTab(state, string(first)); err != nil || tab.ID != first {
		t.Fatalf("resolve by id: %v %v", tab.ID, err)
	}
	if _, err := ResolveTab(state, "tab-"); !errors.Is(err, schema.ErrTabNotFound) {
		t.Fatalf("expected ambiguous prefix to fail, got %v", err)
	}
	if _, err := ResolveTab(state, "9"); !errors.Is(err, schema.ErrTabNotFound) {
		t.Fatalf("expected out-of-range position to fail, got %v", err)
	}
	summaries := Summaries(state)
	if len(summaries) != 2 || summaries[0].Index != 0 || summaries[1].Active != true {
		t.Fatalf("unexpected summaries: %+v", summaries)
	}
	engine.CreateGroup("b", "")
	engine.CreateGroup("a", "")
	if groups := Groups(engine.State()); len(groups) != 2 || groups[0].Title != "a" {
		t.Fatalf("unexpected group order: %+v", groups)
	}
}

func TestResolveGroup(t *testing.T) {
	engine := newTestEngine(t, nil, nil)
	work := engine.CreateGroup("Work", "blue")
	engine.CreateGroup("Play", "")
	state := engine.State()

	if group, err := ResolveGroup(state, "work"); err != nil || group.ID != work {
		t.Fatalf("resolve by title: %v %v", group.ID, err)
	}
	if group, err := ResolveGroup(state, string(work)); err != nil || group.ID != work {
		t.Fatalf("resolve by id: %v %v", group.ID, err)
	}
	if _, err := ResolveGroup(state, "group-"); !errors.Is(err, schema.ErrGroupNotFound) {
		t.Fatalf("expected ambiguous prefix to fail, got %v", err)
	}
	if _, err := ResolveGroup(state, "missing"); !errors.Is(err, schema.ErrGroupNotFound) {
		t.Fatalf("expected unknown group to fail, got %v", err)
	}
}
