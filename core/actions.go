package core

import "pkt.systems/tabsession/schema"

// action is a state transition request handled by reduce.
type action interface {
	kind() schema.StateEventKind
}

type addTab struct {
	tab        schema.Tab
	makeActive bool
}

type setActiveTab struct {
	id schema.TabID
}

type patchTab struct {
	id    schema.TabID
	patch schema.TabPatch
}

type setAssistantOpen struct {
	id   schema.TabID
	open bool
}

type setStatus struct {
	id     schema.TabID
	status schema.TabStatus
}

type assignGroup struct {
	id    schema.TabID
	group schema.GroupID
}

type appendChatMessage struct {
	id      schema.TabID
	message schema.ChatMessage
}

type closeTab struct {
	id     schema.TabID
	reason schema.CloseReason
}

type tabReorder struct {
	pinned  []schema.TabID
	regular []schema.TabID
}

// reopenRecentlyClosed reopens entry, or the most recent entry when nil.
type reopenRecentlyClosed struct {
	entry *schema.RecentlyClosedEntry
}

type suggestionAdd struct {
	value string
}

type rehydrate struct {
	snapshot schema.SnapshotState
	fallback schema.Tab
}

type sessionReady struct{}

type settingsUpdate struct {
	patch schema.SettingsPatch
}

type groupUpsert struct {
	group schema.TabGroup
}

type groupDelete struct {
	id schema.GroupID
}

type groupToggleCollapse struct {
	id schema.GroupID
}

type closeAllTabs struct {
	tab schema.Tab
}

type navigateHistory struct {
	id    schema.TabID
	delta int
}

func (addTab) kind() schema.StateEventKind               { return schema.StateAddTab }
func (setActiveTab) kind() schema.StateEventKind         { return schema.StateSetActiveTab }
func (patchTab) kind() schema.StateEventKind             { return schema.StatePatchTab }
func (setAssistantOpen) kind() schema.StateEventKind     { return schema.StateSetAssistant }
func (setStatus) kind() schema.StateEventKind            { return schema.StateSetStatus }
func (assignGroup) kind() schema.StateEventKind          { return schema.StateAssignGroup }
func (appendChatMessage) kind() schema.StateEventKind    { return schema.StateAppendChat }
func (closeTab) kind() schema.StateEventKind             { return schema.StateCloseTab }
func (tabReorder) kind() schema.StateEventKind           { return schema.StateTabReorder }
func (reopenRecentlyClosed) kind() schema.StateEventKind { return schema.StateReopenClosed }
func (suggestionAdd) kind() schema.StateEventKind        { return schema.StateSuggestionAdd }
func (rehydrate) kind() schema.StateEventKind            { return schema.StateRehydrate }
func (sessionReady) kind() schema.StateEventKind         { return schema.StateSessionReady }
func (settingsUpdate) kind() schema.StateEventKind       { return schema.StateSettingsUpdate }
func (groupUpsert) kind() schema.StateEventKind          { return schema.StateGroupUpsert }
func (groupDelete) kind() schema.StateEventKind          { return schema.StateGroupDelete }
func (groupToggleCollapse) kind() schema.StateEventKind  { return schema.StateGroupToggle }
func (closeAllTabs) kind() schema.StateEventKind         { return schema.StateCloseAllTabs }
func (navigateHistory) kind() schema.StateEventKind      { return schema.StateNavigateHistory }

// actionTabID returns the tab an action targets, if any.
func actionTabID(act action) schema.TabID {
	switch a := act.(type) {
	case addTab:
		return a.tab.ID
	case setActiveTab:
		return a.id
	case patchTab:
		return a.id
	case setAssistantOpen:
		return a.id
	case setStatus:
		return a.id
	case assignGroup:
		return a.id
	case appendChatMessage:
		return a.id
	case closeTab:
		return a.id
	case navigateHistory:
		return a.id
	case closeAllTabs:
		return a.tab.ID
	case reopenRecentlyClosed:
		if a.entry != nil {
			return a.entry.Tab.ID
		}
	}
	return ""
}
