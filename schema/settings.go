package schema

// DefaultSearchEngine is the search provider used for non-URL address input.
const DefaultSearchEngine = "duckduckgo"

// PermissionSettings is the default policy for capability prompts.
type PermissionSettings struct {
	Camera     Permission `json:"camera"`
	Microphone Permission `json:"microphone"`
	Screen     Permission `json:"screen"`
	Clipboard  Permission `json:"clipboard"`
}

// SessionSettings holds global privacy and behavior toggles.
type SessionSettings struct {
	BlockTrackers    bool               `json:"blockTrackers"`
	HTTPSOnly        bool               `json:"httpsOnly"`
	DoNotTrack       bool               `json:"doNotTrack"`
	ClearOnExit      bool               `json:"clearOnExit"`
	AssistantEnabled bool               `json:"assistantEnabled"`
	RestoreSession   bool               `json:"restoreSession"`
	SearchEngine     string             `json:"searchEngine"`
	PermissionPolicy PermissionSettings `json:"permissionPolicy"`
}

// DefaultSessionSettings returns the settings of a fresh session.
func DefaultSessionSettings() SessionSettings {
	return SessionSettings{
		BlockTrackers:    true,
		HTTPSOnly:        false,
		DoNotTrack:       true,
		ClearOnExit:      false,
		AssistantEnabled: true,
		RestoreSession:   true,
		SearchEngine:     DefaultSearchEngine,
		PermissionPolicy: PermissionSettings{
			Camera:     PermissionAsk,
			Microphone: PermissionAsk,
			Screen:     PermissionAsk,
			Clipboard:  PermissionAsk,
		},
	}
}

// PermissionPatch is a partial permission policy update.
type PermissionPatch struct {
	Camera     *Permission `json:"camera,omitempty"`
	Microphone *Permission `json:"microphone,omitempty"`
	Screen     *Permission `json:"screen,omitempty"`
	Clipboard  *Permission `json:"clipboard,omitempty"`
}

// SettingsPatch is a partial settings update. It doubles as the persisted form
// of settings so that keys missing from an older snapshot keep their defaults.
type SettingsPatch struct {
	BlockTrackers    *bool            `json:"blockTrackers,omitempty"`
	HTTPSOnly        *bool            `json:"httpsOnly,omitempty"`
	DoNotTrack       *bool            `json:"doNotTrack,omitempty"`
	ClearOnExit      *bool            `json:"clearOnExit,omitempty"`
	AssistantEnabled *bool            `json:"assistantEnabled,omitempty"`
	RestoreSession   *bool            `json:"restoreSession,omitempty"`
	SearchEngine     *string          `json:"searchEngine,omitempty"`
	PermissionPolicy *PermissionPatch `json:"permissionPolicy,omitempty"`
}

// Apply merges patch over s. Top-level fields replace; the permission policy
// merges one level deep. Invalid permission values are ignored.
func (s SessionSettings) Apply(patch SettingsPatch) SessionSettings {
	out := s
	setBool(&out.BlockTrackers, patch.BlockTrackers)
	setBool(&out.HTTPSOnly, patch.HTTPSOnly)
	setBool(&out.DoNotTrack, patch.DoNotTrack)
	setBool(&out.ClearOnExit, patch.ClearOnExit)
	setBool(&out.AssistantEnabled, patch.AssistantEnabled)
	setBool(&out.RestoreSession, patch.RestoreSession)
	if patch.SearchEngine != nil && *patch.SearchEngine != "" {
		out.SearchEngine = *patch.SearchEngine
	}
	if p := patch.PermissionPolicy; p != nil {
		setPermission(&out.PermissionPolicy.Camera, p.Camera)
		setPermission(&out.PermissionPolicy.Microphone, p.Microphone)
		setPermission(&out.PermissionPolicy.Screen, p.Screen)
		setPermission(&out.PermissionPolicy.Clipboard, p.Clipboard)
	}
	return out
}

// Patch returns a patch with every field of s set.
func (s SessionSettings) Patch() SettingsPatch {
	policy := s.PermissionPolicy
	return SettingsPatch{
		BlockTrackers:    boolPtr(s.BlockTrackers),
		HTTPSOnly:        boolPtr(s.HTTPSOnly),
		DoNotTrack:       boolPtr(s.DoNotTrack),
		ClearOnExit:      boolPtr(s.ClearOnExit),
		AssistantEnabled: boolPtr(s.AssistantEnabled),
		RestoreSession:   boolPtr(s.RestoreSession),
		SearchEngine:     stringPtr(s.SearchEngine),
		PermissionPolicy: &PermissionPatch{
			Camera:     permissionPtr(policy.Camera),
			Microphone: permissionPtr(policy.Microphone),
			Screen:     permissionPtr(policy.Screen),
			Clipboard:  permissionPtr(policy.Clipboard),
		},
	}
}

func setBool(dst *bool, value *bool) {
	if value != nil {
		*dst = *value
	}
}

func setPermission(dst *Permission, value *Permission) {
	if value == nil {
		return
	}
	if normalized, ok := NormalizePermission(string(*value)); ok {
		*dst = normalized
	}
}

func boolPtr(v bool) *bool { return &v }

func stringPtr(v string) *string { return &v }

func permissionPtr(v Permission) *Permission { return &v }
