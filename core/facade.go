package core

import (
	"strings"

	"pkt.systems/tabsession/schema"
)

// OpenTab creates a tab from opts and appends it. It returns the new tab id.
func (e *Engine) OpenTab(opts TabOptions, makeActive bool) schema.TabID {
	tab := e.tabs.Create(opts)
	e.dispatch(addTab{tab: tab, makeActive: makeActive})
	return tab.ID
}

// AddTab appends a prebuilt tab. It reports false for a duplicate id.
func (e *Engine) AddTab(tab schema.Tab, makeActive bool) bool {
	return e.dispatch(addTab{tab: tab, makeActive: makeActive})
}

// ActivateTab makes id the active tab.
func (e *Engine) ActivateTab(id schema.TabID) bool {
	return e.dispatch(setActiveTab{id: id})
}

// PatchTab merges patch into the tab.
func (e *Engine) PatchTab(id schema.TabID, patch schema.TabPatch) bool {
	return e.dispatch(patchTab{id: id, patch: patch})
}

// Navigate commits url as the tab's new location and records it in the
// tab's history and in the suggestion history.
func (e *Engine) Navigate(id schema.TabID, url string) bool {
	url = strings.TrimSpace(url)
	if url == "" {
		return false
	}
	title := defaultTitle(url)
	address := url
	if url == schema.BlankURL {
		address = ""
	}
	changed := e.dispatch(patchTab{id: id, patch: schema.TabPatch{
		URL:          &url,
		Title:        &title,
		AddressValue: &address,
		AddressInput: &address,
	}})
	if changed && address != "" {
		e.dispatch(suggestionAdd{value: url})
	}
	return changed
}

// GoBack moves the tab one entry back in its history.
func (e *Engine) GoBack(id schema.TabID) bool {
	return e.dispatch(navigateHistory{id: id, delta: -1})
}

// GoForward moves the tab one entry forward in its history.
func (e *Engine) GoForward(id schema.TabID) bool {
	return e.dispatch(navigateHistory{id: id, delta: 1})
}

// SetAssistantOpen toggles the assistant panel of the tab.
func (e *Engine) SetAssistantOpen(id schema.TabID, open bool) bool {
	return e.dispatch(setAssistantOpen{id: id, open: open})
}

// SetStatus changes the tab status. Unknown statuses are ignored.
func (e *Engine) SetStatus(id schema.TabID, status schema.TabStatus) bool {
	return e.dispatch(setStatus{id: id, status: status})
}

// PinTab pins or unpins the tab.
func (e *Engine) PinTab(id schema.TabID, pinned bool) bool {
	status := schema.TabStatusNormal
	if pinned {
		status = schema.TabStatusPinned
	}
	return e.dispatch(setStatus{id: id, status: status})
}

// AssignGroup moves the tab into group, or out of any group when group is empty.
func (e *Engine) AssignGroup(id schema.TabID, group schema.GroupID) bool {
	return e.dispatch(assignGroup{id: id, group: group})
}

// AppendChatMessage appends message to the tab's assistant conversation.
func (e *Engine) AppendChatMessage(id schema.TabID, message schema.ChatMessage) bool {
	return e.dispatch(appendChatMessage{id: id, message: message})
}

// CloseTab closes the tab. Closing the last tab is refused.
func (e *Engine) CloseTab(id schema.TabID, reason schema.CloseReason) bool {
	return e.dispatch(closeTab{id: id, reason: reason})
}

// ReorderTabs rebuilds the tab order from the pinned and regular id lists.
func (e *Engine) ReorderTabs(pinned, regular []schema.TabID) bool {
	return e.dispatch(tabReorder{
		pinned:  append([]schema.TabID(nil), pinned...),
		regular: append([]schema.TabID(nil), regular...),
	})
}

// ReopenClosed reopens the most recently closed tab.
func (e *Engine) ReopenClosed() bool {
	return e.dispatch(reopenRecentlyClosed{})
}

// ReopenClosedAt reopens the recently closed entry at index, zero being the
// most recent.
func (e *Engine) ReopenClosedAt(index int) bool {
	return e.dispatchWith(func(state *schema.SessionState) action {
		if index < 0 || index >= len(state.RecentlyClosed) {
			return nil
		}
		return reopenRecentlyClosed{entry: state.RecentlyClosed[index]}
	})
}

// AddSuggestion records an address-bar value.
func (e *Engine) AddSuggestion(value string) bool {
	return e.dispatch(suggestionAdd{value: value})
}

// UpdateSettings merges patch into the session settings.
func (e *Engine) UpdateSettings(patch schema.SettingsPatch) bool {
	return e.dispatch(settingsUpdate{patch: patch})
}

// CreateGroup adds a new group and returns its id.
func (e *Engine) CreateGroup(title, color string) schema.GroupID {
	id := e.tabs.NewGroupID()
	e.dispatch(groupUpsert{group: schema.TabGroup{ID: id, Title: title, Color: color}})
	return id
}

// UpsertGroup inserts or replaces group.
func (e *Engine) UpsertGroup(group schema.TabGroup) bool {
	return e.dispatch(groupUpsert{group: group})
}

// DeleteGroup removes the group and clears it from member tabs.
func (e *Engine) DeleteGroup(id schema.GroupID) bool {
	return e.dispatch(groupDelete{id: id})
}

// ToggleGroupCollapsed flips the collapsed flag of the group.
func (e *Engine) ToggleGroupCollapsed(id schema.GroupID) bool {
	return e.dispatch(groupToggleCollapse{id: id})
}

// CloseAllTabs replaces every tab with one fresh home tab and returns its id.
func (e *Engine) CloseAllTabs() schema.TabID {
	tab := e.tabs.Create(TabOptions{})
	e.dispatch(closeAllTabs{tab: tab})
	return tab.ID
}
