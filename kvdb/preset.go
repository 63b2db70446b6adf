package kvdb

import "fmt"

// Presets bundle the database tuning knobs (cache sizes, file handles, GC
// strategy) into named profiles so operators can pick a workload shape with
// one flag instead of tweaking each knob.
//
// Usage:
//
//	preset := kvdb.LitePreset()    // for development
//	preset := kvdb.FullPreset()    // for production nodes
//	preset := kvdb.ArchivePreset() // for read-heavy explorers

// Preset captures the tunable database parameters that vary across profiles.
type Preset struct {
	Name    string // human-readable identifier (e.g., "lite", "full")
	CacheMB int    // memory allocated to block cache and write buffers
	Handles int    // file handles the database may keep open
	GCMode  string // state retention strategy: "light", "full", "archive"
}

func DefaultPreset() Preset {
	return Preset{
		Name:    "default",
		CacheMB: 1024, // enough for moderate workloads
		Handles: 512,
		GCMode:  "full",
	}
}

// LitePreset returns a lightweight profile for development, CI and other
// low-resource environments. Smaller caches slow down sync on large chains.
func LitePreset() Preset {
	preset := DefaultPreset()
	preset.Name = "lite"
	preset.CacheMB = 256
	preset.Handles = 128
	preset.GCMode = "archive"
	return preset
}

// FullPreset returns the production profile: larger caches, full pruning.
func FullPreset() Preset {
	preset := DefaultPreset()
	preset.Name = "full"
	preset.CacheMB = 2048
	preset.Handles = 1024
	preset.GCMode = "full"
	return preset
}

// ArchivePreset returns the profile for archival nodes serving historical
// queries: the largest caches and no state pruning.
func ArchivePreset() Preset {
	preset := DefaultPreset()
	preset.Name = "archive"
	preset.CacheMB = 4096
	preset.Handles = 2048
	preset.GCMode = "archive"
	return preset
}

// GetPresetByName resolves a preset by its flag value. Names are
// case-sensitive; unknown names are an error listing the valid options.
func GetPresetByName(name string) (Preset, error) {
	switch name {
	case "default":
		return DefaultPreset(), nil
	case "lite":
		return LitePreset(), nil
	case "full":
		return FullPreset(), nil
	case "archive":
		return ArchivePreset(), nil
	default:
		return Preset{}, fmt.Errorf("unknown db preset %q (valid: default, lite, full, archive)", name)
	}
}

// ApplyPreset merges the non-zero fields of preset into target, so partial
// presets can override just the knobs they set.
func ApplyPreset(target *Preset, preset Preset) {
	if preset.Name != "" {
		target.Name = preset.Name
	}
	if preset.CacheMB != 0 {
		target.CacheMB = preset.CacheMB
	}
	if preset.Handles != 0 {
		target.Handles = preset.Handles
	}
	if preset.GCMode != "" {
		target.GCMode = preset.GCMode
	}
}
