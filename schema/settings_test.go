package schema

import (
	"encoding/json"
	"testing"
)

func TestSettingsApplyMergesPermissionsOneLevel(t *testing.T) {
	base := DefaultSessionSettings()
	block := PermissionBlock
	httpsOnly := true
	next := base.Apply(SettingsPatch{
		HTTPSOnly:        &httpsOnly,
		PermissionPolicy: &PermissionPatch{Camera: &block},
	})
	if !next.HTTPSOnly {
		t.Fatalf("expected httpsOnly set")
	}
	if next.PermissionPolicy.Camera != PermissionBlock {
		t.Fatalf("expected camera blocked, got %q", next.PermissionPolicy.Camera)
	}
	if next.PermissionPolicy.Microphone != PermissionAsk {
		t.Fatalf("expected microphone untouched, got %q", next.PermissionPolicy.Microphone)
	}
	if base.HTTPSOnly || base.PermissionPolicy.Camera != PermissionAsk {
		t.Fatalf("apply mutated receiver")
	}
}

func TestSettingsApplyIgnoresInvalidPermission(t *testing.T) {
	bogus := Permission("maybe")
	next := DefaultSessionSettings().Apply(SettingsPatch{PermissionPolicy: &PermissionPatch{Screen: &bogus}})
	if next.PermissionPolicy.Screen != PermissionAsk {
		t.Fatalf("expected screen unchanged, got %q", next.PermissionPolicy.Screen)
	}
}

func TestSettingsPatchFromPartialJSON(t *testing.T) {
	var patch SettingsPatch
	if err := json.Unmarshal([]byte(`{"clearOnExit":true,"permissionPolicy":{"clipboard":"allow"}}`), &patch); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := DefaultSessionSettings().Apply(patch)
	want := DefaultSessionSettings()
	want.ClearOnExit = true
	want.PermissionPolicy.Clipboard = PermissionAllow
	if got != want {
		t.Fatalf("unexpected settings:\n got %+v\nwant %+v", got, want)
	}
}

func TestSettingsPatchRoundTrip(t *testing.T) {
	settings := DefaultSessionSettings()
	settings.SearchEngine = "kagi"
	settings.PermissionPolicy.Microphone = PermissionBlock
	if got := DefaultSessionSettings().Apply(settings.Patch()); got != settings {
		t.Fatalf("patch round trip mismatch: %+v", got)
	}
}
