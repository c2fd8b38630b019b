package core

import "pkt.systems/tabsession/schema"

type limits struct {
	recentlyClosedMax    int
	suggestionHistoryMax int
}

func defaultLimits() limits {
	return limits{
		recentlyClosedMax:    schema.RecentlyClosedMax,
		suggestionHistoryMax: schema.SuggestionHistoryMax,
	}
}

func limitsFromConfig(cfg schema.EngineConfig) limits {
	out := defaultLimits()
	if cfg.RecentlyClosedMax > 0 {
		out.recentlyClosedMax = cfg.RecentlyClosedMax
	}
	if cfg.SuggestionHistoryMax > 0 {
		out.suggestionHistoryMax = cfg.SuggestionHistoryMax
	}
	return out
}

// reduce applies act to state using the default limits. It returns state
// itself when act has no effect.
func reduce(state *schema.SessionState, act action, clock Clock) *schema.SessionState {
	return reduceWithLimits(state, act, clock, defaultLimits())
}

func reduceWithLimits(state *schema.SessionState, act action, clock Clock, lim limits) *schema.SessionState {
	if state == nil || act == nil {
		return state
	}
	now := clock.millis()
	switch a := act.(type) {
	case addTab:
		return reduceAddTab(state, a, now)
	case setActiveTab:
		return reduceSetActiveTab(state, a, now)
	case patchTab:
		return reducePatchTab(state, a, now)
	case setAssistantOpen:
		return updateTab(state, a.id, func(tab *schema.Tab) bool {
			if tab.AssistantOpen == a.open {
				return false
			}
			tab.AssistantOpen = a.open
			return true
		})
	case setStatus:
		return reduceSetStatus(state, a)
	case assignGroup:
		return reduceAssignGroup(state, a)
	case appendChatMessage:
		return reduceAppendChat(state, a, now)
	case closeTab:
		return reduceCloseTab(state, a, now, lim)
	case tabReorder:
		return reduceTabReorder(state, a)
	case reopenRecentlyClosed:
		return reduceReopen(state, a, now)
	case suggestionAdd:
		entries, changed := pushSuggestion(state.SuggestionHistory, a.value, lim.suggestionHistoryMax)
		if !changed {
			return state
		}
		next := *state
		next.SuggestionHistory = entries
		return &next
	case rehydrate:
		return reduceRehydrate(a, now, lim)
	case sessionReady:
		if state.Hydrated {
			return state
		}
		next := *state
		next.Hydrated = true
		return &next
	case settingsUpdate:
		settings := state.Settings.Apply(a.patch)
		if settings == state.Settings {
			return state
		}
		next := *state
		next.Settings = settings
		return &next
	case groupUpsert:
		return reduceGroupUpsert(state, a)
	case groupDelete:
		return reduceGroupDelete(state, a)
	case groupToggleCollapse:
		group, ok := state.TabGroups[a.id]
		if !ok {
			return state
		}
		group.Collapsed = !group.Collapsed
		next := *state
		next.TabGroups = copyGroups(state.TabGroups)
		next.TabGroups[a.id] = group
		return &next
	case closeAllTabs:
		return reduceCloseAll(state, a, now)
	case navigateHistory:
		return reduceNavigateHistory(state, a)
	default:
		return state
	}
}

func withTabs(state *schema.SessionState, tabs []schema.Tab, active schema.TabID) *schema.SessionState {
	next := *state
	next.Tabs = tabs
	next.ActiveTabID = active
	return &next
}

func copyTabs(tabs []schema.Tab) []schema.Tab {
	out := make([]schema.Tab, len(tabs), len(tabs)+1)
	copy(out, tabs)
	return out
}

func copyGroups(groups map[schema.GroupID]schema.TabGroup) map[schema.GroupID]schema.TabGroup {
	out := make(map[schema.GroupID]schema.TabGroup, len(groups)+1)
	for id, group := range groups {
		out[id] = group
	}
	return out
}

func deactivateAll(tabs []schema.Tab) {
	for i := range tabs {
		tabs[i].Active = false
	}
}

// updateTab applies fn to a copy of the tab with id. fn reports whether it
// changed anything and must replace, not modify, the tab's slices.
func updateTab(state *schema.SessionState, id schema.TabID, fn func(tab *schema.Tab) bool) *schema.SessionState {
	idx := state.TabIndex(id)
	if idx < 0 {
		return state
	}
	tab := state.Tabs[idx]
	if !fn(&tab) {
		return state
	}
	tabs := copyTabs(state.Tabs)
	tabs[idx] = tab
	return withTabs(state, tabs, state.ActiveTabID)
}

// partitionPinned moves pinned tabs ahead of the rest, keeping relative order.
func partitionPinned(tabs []schema.Tab) []schema.Tab {
	seenRegular := false
	ordered := true
	for _, tab := range tabs {
		if !tab.Pinned() {
			seenRegular = true
			continue
		}
		if seenRegular {
			ordered = false
			break
		}
	}
	if ordered {
		return tabs
	}
	out := make([]schema.Tab, 0, len(tabs))
	for _, tab := range tabs {
		if tab.Pinned() {
			out = append(out, tab)
		}
	}
	for _, tab := range tabs {
		if !tab.Pinned() {
			out = append(out, tab)
		}
	}
	return out
}

func knownGroup(state *schema.SessionState, id schema.GroupID) schema.GroupID {
	if id == "" {
		return ""
	}
	if _, ok := state.TabGroups[id]; !ok {
		return ""
	}
	return id
}

func reduceAddTab(state *schema.SessionState, a addTab, now int64) *schema.SessionState {
	if a.tab.ID == "" || state.TabIndex(a.tab.ID) >= 0 {
		return state
	}
	tab := normalizeTab(a.tab, now)
	tab.GroupID = knownGroup(state, tab.GroupID)
	tabs := copyTabs(state.Tabs)
	active := state.ActiveTabID
	if a.makeActive {
		deactivateAll(tabs)
		tab.Active = true
		tab.LastActiveAt = now
		active = tab.ID
	}
	tabs = append(tabs, tab)
	return withTabs(state, partitionPinned(tabs), active)
}

func reduceSetActiveTab(state *schema.SessionState, a setActiveTab, now int64) *schema.SessionState {
	idx := state.TabIndex(a.id)
	if idx < 0 {
		return state
	}
	if state.ActiveTabID == a.id && state.Tabs[idx].Active {
		return state
	}
	tabs := copyTabs(state.Tabs)
	deactivateAll(tabs)
	tabs[idx].Active = true
	tabs[idx].LastActiveAt = now
	return withTabs(state, tabs, a.id)
}

func reducePatchTab(state *schema.SessionState, a patchTab, now int64) *schema.SessionState {
	p := a.patch
	return updateTab(state, a.id, func(tab *schema.Tab) bool {
		changed := false
		titleChanged := false
		if p.Title != nil && *p.Title != tab.Title {
			tab.Title = *p.Title
			changed = true
			titleChanged = true
		}
		if p.AddressValue != nil && *p.AddressValue != tab.AddressValue {
			tab.AddressValue = *p.AddressValue
			changed = true
		}
		if p.AddressInput != nil && *p.AddressInput != tab.AddressInput {
			tab.AddressInput = *p.AddressInput
			changed = true
		}
		if p.PageTitle != nil && *p.PageTitle != tab.PageTitle {
			tab.PageTitle = *p.PageTitle
			changed = true
		}
		if p.PageText != nil {
			text := schema.TruncatePageText(*p.PageText)
			if text != tab.PageText {
				tab.PageText = text
				changed = true
			}
		}
		if p.Incognito != nil && *p.Incognito != tab.Incognito {
			tab.Incognito = *p.Incognito
			changed = true
		}
		if p.URL != nil && *p.URL != tab.URL {
			tab.URL = *p.URL
			entry := newHistoryEntry(tab.ID, tab.HistoryIndex+1, tab.URL, tab.Title, now)
			tab.History, tab.HistoryIndex = pushHistory(tab.History, tab.HistoryIndex, entry)
			return true
		}
		if titleChanged {
			tab.History = retitleHistory(tab.History, tab.HistoryIndex, tab.Title)
		}
		return changed
	})
}

func reduceSetStatus(state *schema.SessionState, a setStatus) *schema.SessionState {
	status, ok := schema.NormalizeTabStatus(string(a.status))
	if !ok {
		return state
	}
	next := updateTab(state, a.id, func(tab *schema.Tab) bool {
		if tab.Status == status {
			return false
		}
		tab.Status = status
		return true
	})
	if next == state {
		return state
	}
	next.Tabs = partitionPinned(next.Tabs)
	return next
}

func reduceAssignGroup(state *schema.SessionState, a assignGroup) *schema.SessionState {
	if a.group != "" && knownGroup(state, a.group) == "" {
		return state
	}
	return updateTab(state, a.id, func(tab *schema.Tab) bool {
		if tab.GroupID == a.group {
			return false
		}
		tab.GroupID = a.group
		return true
	})
}

func reduceAppendChat(state *schema.SessionState, a appendChatMessage, now int64) *schema.SessionState {
	message := a.message
	if message.Timestamp == 0 {
		message.Timestamp = now
	}
	return updateTab(state, a.id, func(tab *schema.Tab) bool {
		chat := make([]schema.ChatMessage, len(tab.ChatHistory), len(tab.ChatHistory)+1)
		copy(chat, tab.ChatHistory)
		tab.ChatHistory = append(chat, message)
		return true
	})
}

func reduceCloseTab(state *schema.SessionState, a closeTab, now int64, lim limits) *schema.SessionState {
	if len(state.Tabs) <= 1 {
		return state
	}
	idx := state.TabIndex(a.id)
	if idx < 0 {
		return state
	}
	closed := state.Tabs[idx]
	wasActive := closed.Active || state.ActiveTabID == closed.ID
	tabs := make([]schema.Tab, 0, len(state.Tabs)-1)
	tabs = append(tabs, state.Tabs[:idx]...)
	tabs = append(tabs, state.Tabs[idx+1:]...)
	active := state.ActiveTabID
	if wasActive {
		fallback := idx
		if fallback >= len(tabs) {
			fallback = 0
		}
		deactivateAll(tabs)
		tabs[fallback].Active = true
		tabs[fallback].LastActiveAt = now
		active = tabs[fallback].ID
	}
	closed.Active = false
	entry := &schema.RecentlyClosedEntry{
		Tab:      closed,
		ClosedAt: now,
		Reason:   schema.NormalizeCloseReason(string(a.reason)),
	}
	next := withTabs(state, tabs, active)
	next.RecentlyClosed = pushRecentlyClosed(state.RecentlyClosed, entry, lim.recentlyClosedMax)
	return next
}

func reduceTabReorder(state *schema.SessionState, a tabReorder) *schema.SessionState {
	positions := make(map[schema.TabID]int, len(state.Tabs))
	for i, tab := range state.Tabs {
		positions[tab.ID] = i
	}
	placed := make(map[schema.TabID]bool, len(state.Tabs))
	tabs := make([]schema.Tab, 0, len(state.Tabs))
	statusChanged := false
	place := func(ids []schema.TabID, status schema.TabStatus) {
		for _, id := range ids {
			idx, ok := positions[id]
			if !ok || placed[id] {
				continue
			}
			placed[id] = true
			tab := state.Tabs[idx]
			if tab.Status != status {
				tab.Status = status
				statusChanged = true
			}
			tabs = append(tabs, tab)
		}
	}
	place(a.pinned, schema.TabStatusPinned)
	place(a.regular, schema.TabStatusNormal)
	for _, tab := range state.Tabs {
		if !placed[tab.ID] {
			tabs = append(tabs, tab)
		}
	}
	// Unlisted pinned tabs move ahead of the regular list so pinned tabs stay first.
	tabs = partitionPinned(tabs)
	if !statusChanged && sameOrder(state.Tabs, tabs) {
		return state
	}
	return withTabs(state, tabs, state.ActiveTabID)
}

func sameOrder(a, b []schema.Tab) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

func reduceReopen(state *schema.SessionState, a reopenRecentlyClosed, now int64) *schema.SessionState {
	if len(state.RecentlyClosed) == 0 {
		return state
	}
	entry := a.entry
	if entry == nil {
		entry = state.RecentlyClosed[0]
	}
	pos := indexOfEntry(state.RecentlyClosed, entry)
	if pos < 0 || entry.Tab.ID == "" {
		return state
	}
	tabs := copyTabs(state.Tabs)
	deactivateAll(tabs)
	var active schema.TabID
	if idx := state.TabIndex(entry.Tab.ID); idx >= 0 {
		tabs[idx].Active = true
		tabs[idx].LastActiveAt = now
		active = tabs[idx].ID
	} else {
		tab := normalizeTab(entry.Tab, now)
		tab.GroupID = knownGroup(state, tab.GroupID)
		tab.Active = true
		tab.LastActiveAt = now
		tabs = append(tabs, tab)
		active = tab.ID
	}
	next := withTabs(state, partitionPinned(tabs), active)
	next.RecentlyClosed = removeEntryAt(state.RecentlyClosed, pos)
	return next
}

func reduceGroupUpsert(state *schema.SessionState, a groupUpsert) *schema.SessionState {
	group := a.group
	if group.ID == "" {
		return state
	}
	if existing, ok := state.TabGroups[group.ID]; ok && existing == group {
		return state
	}
	next := *state
	next.TabGroups = copyGroups(state.TabGroups)
	next.TabGroups[group.ID] = group
	return &next
}

func reduceGroupDelete(state *schema.SessionState, a groupDelete) *schema.SessionState {
	if _, ok := state.TabGroups[a.id]; !ok {
		return state
	}
	next := *state
	next.TabGroups = copyGroups(state.TabGroups)
	delete(next.TabGroups, a.id)
	var tabs []schema.Tab
	for i, tab := range state.Tabs {
		if tab.GroupID != a.id {
			continue
		}
		if tabs == nil {
			tabs = copyTabs(state.Tabs)
		}
		tabs[i].GroupID = ""
	}
	if tabs != nil {
		next.Tabs = tabs
	}
	return &next
}

func reduceCloseAll(state *schema.SessionState, a closeAllTabs, now int64) *schema.SessionState {
	if a.tab.ID == "" {
		return state
	}
	tab := normalizeTab(a.tab, now)
	tab.GroupID = knownGroup(state, tab.GroupID)
	tab.Active = true
	tab.LastActiveAt = now
	return withTabs(state, []schema.Tab{tab}, tab.ID)
}

func reduceNavigateHistory(state *schema.SessionState, a navigateHistory) *schema.SessionState {
	if a.delta == 0 {
		return state
	}
	return updateTab(state, a.id, func(tab *schema.Tab) bool {
		target := tab.HistoryIndex + a.delta
		if target < 0 || target >= len(tab.History) {
			return false
		}
		entry := tab.History[target]
		tab.HistoryIndex = target
		tab.URL = entry.URL
		tab.Title = entry.Title
		if tab.Title == "" {
			tab.Title = defaultTitle(entry.URL)
		}
		address := entry.URL
		if entry.URL == schema.BlankURL {
			address = ""
		}
		tab.AddressValue = address
		tab.AddressInput = address
		return true
	})
}
