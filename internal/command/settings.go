package command

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"pkt.systems/tabsession/schema"
)

// SettingKeys lists the keys accepted by SettingPatch.
func SettingKeys() []string {
	keys := make([]string, 0, len(boolSettings)+len(permissionSettings)+1)
	for key := range boolSettings {
		keys = append(keys, key)
	}
	for key := range permissionSettings {
		keys = append(keys, key)
	}
	keys = append(keys, "search_engine")
	sort.Strings(keys)
	return keys
}

var boolSettings = map[string]func(*schema.SettingsPatch, *bool){
	"block_trackers":    func(p *schema.SettingsPatch, v *bool) { p.BlockTrackers = v },
	"https_only":        func(p *schema.SettingsPatch, v *bool) { p.HTTPSOnly = v },
	"do_not_track":      func(p *schema.SettingsPatch, v *bool) { p.DoNotTrack = v },
	"clear_on_exit":     func(p *schema.SettingsPatch, v *bool) { p.ClearOnExit = v },
	"assistant_enabled": func(p *schema.SettingsPatch, v *bool) { p.AssistantEnabled = v },
	"restore_session":   func(p *schema.SettingsPatch, v *bool) { p.RestoreSession = v },
}

var permissionSettings = map[string]func(*schema.PermissionPatch, *schema.Permission){
	"camera":     func(p *schema.PermissionPatch, v *schema.Permission) { p.Camera = v },
	"microphone": func(p *schema.PermissionPatch, v *schema.Permission) { p.Microphone = v },
	"screen":     func(p *schema.PermissionPatch, v *schema.Permission) { p.Screen = v },
	"clipboard":  func(p *schema.PermissionPatch, v *schema.Permission) { p.Clipboard = v },
}

// SettingPatch builds a single-field settings patch from a key and a textual
// value. Dashes in key are accepted in place of underscores.
func SettingPatch(key, value string) (schema.SettingsPatch, error) {
	key = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
	value = strings.TrimSpace(value)
	var patch schema.SettingsPatch
	if set, ok := boolSettings[key]; ok {
		parsed, err := parseToggle(value)
		if err != nil {
			return schema.SettingsPatch{}, fmt.Errorf("%s: %w", key, err)
		}
		set(&patch, &parsed)
		return patch, nil
	}
	if set, ok := permissionSettings[key]; ok {
		permission, ok := schema.NormalizePermission(value)
		if !ok {
			return schema.SettingsPatch{}, fmt.Errorf("%s: %w %q", key, schema.ErrInvalidPermission, value)
		}
		policy := &schema.PermissionPatch{}
		set(policy, &permission)
		patch.PermissionPolicy = policy
		return patch, nil
	}
	if key == "search_engine" {
		if value == "" {
			return schema.SettingsPatch{}, fmt.Errorf("search_engine: value required")
		}
		patch.SearchEngine = &value
		return patch, nil
	}
	return schema.SettingsPatch{}, fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(SettingKeys(), ", "))
}

func parseToggle(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("expected on/off, got %q", value)
	}
	return parsed, nil
}

// FormatSettings renders settings as aligned key/value lines.
func FormatSettings(s schema.SessionSettings) []string {
	rows := [][2]string{
		{"block_trackers", strconv.FormatBool(s.BlockTrackers)},
		{"https_only", strconv.FormatBool(s.HTTPSOnly)},
		{"do_not_track", strconv.FormatBool(s.DoNotTrack)},
		{"clear_on_exit", strconv.FormatBool(s.ClearOnExit)},
		{"assistant_enabled", strconv.FormatBool(s.AssistantEnabled)},
		{"restore_session", strconv.FormatBool(s.RestoreSession)},
		{"search_engine", s.SearchEngine},
		{"camera", string(s.PermissionPolicy.Camera)},
		{"microphone", string(s.PermissionPolicy.Microphone)},
		{"screen", string(s.PermissionPolicy.Screen)},
		{"clipboard", string(s.PermissionPolicy.Clipboard)},
	}
	width := 0
	for _, row := range rows {
		if len(row[0]) > width {
			width = len(row[0])
		}
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%-*s  %s", width, row[0], row[1]))
	}
	return lines
}
