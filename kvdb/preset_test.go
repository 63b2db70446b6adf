package kvdb

import "testing"

// TestDefaultPreset_hasReasonableDefaults acts as a regression guard: if the
// baseline values change, we want to know immediately.
func TestDefaultPreset_hasReasonableDefaults(t *testing.T) {
	preset := DefaultPreset()

	if preset.Name != "default" {
		t.Fatalf("Name = %q, want 'default'", preset.Name)
	}
	if preset.CacheMB <= 0 || preset.CacheMB > 10000 {
		t.Fatalf("CacheMB = %d, want value between 1 and 10000", preset.CacheMB)
	}
	if preset.Handles <= 0 {
		t.Fatalf("Handles = %d, want positive", preset.Handles)
	}
	validGCModes := map[string]bool{"light": true, "full": true, "archive": true}
	if !validGCModes[preset.GCMode] {
		t.Fatalf("GCMode = %q, want one of: light, full, archive", preset.GCMode)
	}
}

// TestPresets_haveDistinctValues verifies the presets are actually useful:
// unique names and cache sizes ordered lite < full < archive.
func TestPresets_haveDistinctValues(t *testing.T) {
	lite := LitePreset()
	full := FullPreset()
	archive := ArchivePreset()

	names := map[string]bool{lite.Name: true, full.Name: true, archive.Name: true}
	if len(names) != 3 {
		t.Fatalf("presets should have unique names, got: %v", names)
	}

	if lite.CacheMB >= full.CacheMB {
		t.Fatalf("lite cache (%d) should be smaller than full (%d)", lite.CacheMB, full.CacheMB)
	}
	if full.CacheMB >= archive.CacheMB {
		t.Fatalf("full cache (%d) should be smaller than archive (%d)", full.CacheMB, archive.CacheMB)
	}

	if lite.GCMode != "archive" || archive.GCMode != "archive" {
		t.Fatal("lite and archive presets should use archive GC mode")
	}
	if full.GCMode != "full" {
		t.Fatal("full preset should use full GC mode")
	}
}

func TestGetPresetByName_validPresets(t *testing.T) {
	tests := []struct {
		name     string
		wantName string
	}{
		{"lite", "lite"},
		{"full", "full"},
		{"archive", "archive"},
		{"default", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preset, err := GetPresetByName(tt.name)
			if err != nil {
				t.Fatalf("GetPresetByName(%q) returned error: %v", tt.name, err)
			}
			if preset.Name != tt.wantName {
				t.Fatalf("preset name = %q, want %q", preset.Name, tt.wantName)
			}
			if preset.CacheMB <= 0 {
				t.Fatalf("preset %q has invalid CacheMB: %d", tt.name, preset.CacheMB)
			}
		})
	}
}

func TestGetPresetByName_invalidPreset(t *testing.T) {
	invalidNames := []string{"unknown", "", "LITE", "Full"}

	for _, name := range invalidNames {
		t.Run(name, func(t *testing.T) {
			if _, err := GetPresetByName(name); err == nil {
				t.Fatalf("GetPresetByName(%q) should return an error", name)
			}
		})
	}
}

// TestApplyPreset_partialOverride verifies that zero-valued fields in a
// partial preset leave the target untouched.
func TestApplyPreset_partialOverride(t *testing.T) {
	target := DefaultPreset()
	originalName := target.Name
	originalGC := target.GCMode

	partial := Preset{CacheMB: 2048}
	ApplyPreset(&target, partial)

	if target.CacheMB != 2048 {
		t.Fatalf("CacheMB should be overridden to 2048, got %d", target.CacheMB)
	}
	if target.Name != originalName {
		t.Fatalf("Name should remain %q, got %q", originalName, target.Name)
	}
	if target.GCMode != originalGC {
		t.Fatalf("GCMode should remain %q, got %q", originalGC, target.GCMode)
	}
}

// TestPresets_areIdempotent verifies preset functions have no hidden state.
func TestPresets_areIdempotent(t *testing.T) {
	if LitePreset() != LitePreset() {
		t.Fatal("LitePreset() should return identical results on multiple calls")
	}
	if FullPreset() != FullPreset() {
		t.Fatal("FullPreset() should return identical results on multiple calls")
	}
	if ArchivePreset() != ArchivePreset() {
		t.Fatal("ArchivePreset() should return identical results on multiple calls")
	}
}
