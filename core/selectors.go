package core

import (
	"sort"
	"strconv"
	"strings"

	"pkt.systems/tabsession/schema"
)

// ActiveTab returns the active tab.
func ActiveTab(state *schema.SessionState) (schema.Tab, bool) {
	if state == nil {
		return schema.Tab{}, false
	}
	return TabByID(state, state.ActiveTabID)
}

// TabByID returns the tab with id.
func TabByID(state *schema.SessionState, id schema.TabID) (schema.Tab, bool) {
	idx := state.TabIndex(id)
	if idx < 0 {
		return schema.Tab{}, false
	}
	return state.Tabs[idx], true
}

// TabAt returns the tab at a zero-based position.
func TabAt(state *schema.SessionState, index int) (schema.Tab, bool) {
	if state == nil || index < 0 || index >= len(state.Tabs) {
		return schema.Tab{}, false
	}
	return state.Tabs[index], true
}

// PinnedTabs returns the pinned tabs in order.
func PinnedTabs(state *schema.SessionState) []schema.Tab {
	return filterTabs(state, func(tab schema.Tab) bool { return tab.Pinned() })
}

// RegularTabs returns the non-pinned tabs in order.
func RegularTabs(state *schema.SessionState) []schema.Tab {
	return filterTabs(state, func(tab schema.Tab) bool { return !tab.Pinned() })
}

// TabsInGroup returns the tabs assigned to group in order.
func TabsInGroup(state *schema.SessionState, group schema.GroupID) []schema.Tab {
	return filterTabs(state, func(tab schema.Tab) bool { return tab.GroupID == group })
}

func filterTabs(state *schema.SessionState, keep func(schema.Tab) bool) []schema.Tab {
	if state == nil {
		return nil
	}
	var out []schema.Tab
	for _, tab := range state.Tabs {
		if keep(tab) {
			out = append(out, tab)
		}
	}
	return out
}

// Groups returns the tab groups sorted by title, then id.
func Groups(state *schema.SessionState) []schema.TabGroup {
	if state == nil {
		return nil
	}
	out := make([]schema.TabGroup, 0, len(state.TabGroups))
	for _, group := range state.TabGroups {
		out = append(out, group)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Summaries returns listing views of every tab.
func Summaries(state *schema.SessionState) []schema.TabSummary {
	if state == nil {
		return nil
	}
	out := make([]schema.TabSummary, 0, len(state.Tabs))
	for i, tab := range state.Tabs {
		out = append(out, tab.Summarize(i))
	}
	return out
}

// Suggestions returns suggestion history entries containing prefix,
// case-insensitively, most recent first.
func Suggestions(state *schema.SessionState, prefix string) []string {
	if state == nil {
		return nil
	}
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	var out []string
	for _, value := range state.SuggestionHistory {
		if prefix == "" || strings.Contains(strings.ToLower(value), prefix) {
			out = append(out, value)
		}
	}
	return out
}

// ResolveTab finds a tab by id, by one-based position, or by unique id prefix.
func ResolveTab(state *schema.SessionState, ref string) (schema.Tab, error) {
	ref = strings.TrimSpace(ref)
	if state == nil || ref == "" {
		return schema.Tab{}, schema.ErrTabNotFound
	}
	if tab, ok := TabByID(state, schema.TabID(ref)); ok {
		return tab, nil
	}
	if n, ok := parsePosition(ref); ok {
		if tab, ok := TabAt(state, n-1); ok {
			return tab, nil
		}
		return schema.Tab{}, schema.ErrTabNotFound
	}
	var match schema.Tab
	matches := 0
	for _, tab := range state.Tabs {
		if strings.HasPrefix(string(tab.ID), ref) {
			match = tab
			matches++
		}
	}
	if matches != 1 {
		return schema.Tab{}, schema.ErrTabNotFound
	}
	return match, nil
}

func parsePosition(ref string) (int, bool) {
	n, err := strconv.Atoi(ref)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ResolveGroup finds a group by id, by case-insensitive title, or by unique
// id prefix.
func ResolveGroup(state *schema.SessionState, ref string) (schema.TabGroup, error) {
	ref = strings.TrimSpace(ref)
	if state == nil || ref == "" {
		return schema.TabGroup{}, schema.ErrGroupNotFound
	}
	if group, ok := state.TabGroups[schema.GroupID(ref)]; ok {
		return group, nil
	}
	var byTitle, byPrefix []schema.TabGroup
	for _, group := range Groups(state) {
		if strings.EqualFold(group.Title, ref) {
			byTitle = append(byTitle, group)
		}
		if strings.HasPrefix(string(group.ID), ref) {
			byPrefix = append(byPrefix, group)
		}
	}
	switch {
	case len(byTitle) == 1:
		return byTitle[0], nil
	case len(byTitle) == 0 && len(byPrefix) == 1:
		return byPrefix[0], nil
	}
	return schema.TabGroup{}, schema.ErrGroupNotFound
}
