package installer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"pis-utils/internal/logger"
)

// MergeSettings merges the given key-value settings into the JSON document
// at path. Existing keys not present in settings are preserved; overlapping
// keys take the new value. The merge is shallow (one level only).
//
// An existing document that fails to parse is discarded with a warning
// rather than failing the merge; a missing file starts from an empty
// document. Parent directories are created as needed and the result is
// written as a plain overwrite.
func MergeSettings(path string, settings map[string]any) error {
	existing := map[string]any{}
	if raw, err := os.ReadFile(path); err == nil {
		if jerr := json.Unmarshal(raw, &existing); jerr != nil {
			logger.Warn("[WARN] Existing settings.json is invalid - overwriting.\n")
			existing = map[string]any{}
		}
	}

	for k, v := range settings {
		existing[k] = v
	}

	// json.Marshal sorts map keys, so the output is deterministic.
	out, err := json.MarshalIndent(existing, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("failed to write settings file %s: %w", path, err)
	}

	logger.Debug("[DEBUG] Wrote merged settings to %s\n", path)
	return nil
}
