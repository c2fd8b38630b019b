package schema

import "time"

// StateEventKind identifies the action that produced a state transition.
type StateEventKind string

const (
	StateAddTab          StateEventKind = "add_tab"
	StateSetActiveTab    StateEventKind = "set_active_tab"
	StatePatchTab        StateEventKind = "patch_tab"
	StateSetAssistant    StateEventKind = "set_assistant_open"
	StateSetStatus       StateEventKind = "set_status"
	StateAssignGroup     StateEventKind = "assign_group"
	StateAppendChat      StateEventKind = "append_chat_message"
	StateCloseTab        StateEventKind = "close_tab"
	StateTabReorder      StateEventKind = "tab_reorder"
	StateReopenClosed    StateEventKind = "reopen_recently_closed"
	StateSuggestionAdd   StateEventKind = "suggestion_add"
	StateRehydrate       StateEventKind = "rehydrate"
	StateSessionReady    StateEventKind = "session_ready"
	StateSettingsUpdate  StateEventKind = "settings_update"
	StateGroupUpsert     StateEventKind = "group_upsert"
	StateGroupDelete     StateEventKind = "group_delete"
	StateGroupToggle     StateEventKind = "group_toggle_collapse"
	StateCloseAllTabs    StateEventKind = "close_all_tabs"
	StateNavigateHistory StateEventKind = "navigate_history"
)

// StateEvent describes one dispatched action and whether it changed state.
type StateEvent struct {
	Kind        StateEventKind
	TabID       TabID
	Changed     bool
	TabCount    int
	ActiveTabID TabID
	At          time.Time
}

// PersistOp identifies a persistence gateway operation.
type PersistOp string

const (
	// PersistLoad is the startup load.
	PersistLoad PersistOp = "load"
	// PersistSave is a snapshot write.
	PersistSave PersistOp = "save"
	// PersistClear removes the stored snapshot.
	PersistClear PersistOp = "clear"
)

// PersistEvent reports the outcome of a gateway call. Err is nil on success.
type PersistEvent struct {
	Op       PersistOp
	Bytes    int
	Found    bool
	Err      error
	Duration time.Duration
	At       time.Time
}
