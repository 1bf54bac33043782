package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.toml
var builtinConfig []byte

// Config holds the built-in defaults shipped with the tool: where to fetch
// the two products from and which extensions/settings to apply to the
// editor.
type Config struct {
	MiniforgeRepo   string `toml:"miniforge_github_repo"`
	MiniforgeDevTag string `toml:"miniforge_dev_tag"`

	VSCodeBaseURL string `toml:"vscode_download_base_url"`
	VSCodeChannel string `toml:"vscode_stable_channel"`

	VSCodeExtensions []string       `toml:"vscode_extensions"`
	VSCodeSettings   map[string]any `toml:"vscode_settings"`
}

// Default returns the configuration parsed from the embedded config.toml.
// The embedded document is part of the binary, so a parse failure is a
// build defect and panics.
func Default() Config {
	var cfg Config
	if err := toml.Unmarshal(builtinConfig, &cfg); err != nil {
		panic("Failed to parse built-in config.toml: " + err.Error())
	}
	return cfg
}

// VSCodeInstall is the editor installation payload: the extension IDs to
// install and the settings to merge into the user's settings.json.
type VSCodeInstall struct {
	Extensions []string
	Settings   map[string]any
}

// VSCodeDefaults extracts the editor payload from the built-in config.
func VSCodeDefaults(cfg Config) VSCodeInstall {
	return VSCodeInstall{
		Extensions: cfg.VSCodeExtensions,
		Settings:   cfg.VSCodeSettings,
	}
}

// LoadVSCodeInstall reads a user-supplied override TOML. Two shapes are
// accepted:
//
//	[vscode.install.extensions]        [extensions]
//	list = [...]                  or   list = [...]
//	[vscode.install.settings]          [settings]
//	...                                ...
//
// A missing file, invalid TOML, or a document matching neither shape is an
// error.
func LoadVSCodeInstall(path string) (VSCodeInstall, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return VSCodeInstall{}, fmt.Errorf("config file not found: %s", path)
	}

	var doc map[string]any
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return VSCodeInstall{}, fmt.Errorf("invalid TOML in %s: %w", path, err)
	}

	// Nested format: [vscode.install.extensions] / [vscode.install.settings]
	if install, ok := tableAt(doc, "vscode", "install"); ok {
		return installFromTable(install)
	}

	// Flat format: [extensions] / [settings] at the top level
	if _, ok := doc["extensions"]; ok {
		return installFromTable(doc)
	}

	return VSCodeInstall{}, fmt.Errorf(
		"config must contain either [vscode.install.extensions]/[vscode.install.settings] or [extensions]/[settings] sections")
}

// installFromTable pulls the extension list and settings table out of a
// table holding "extensions" and "settings" keys.
func installFromTable(table map[string]any) (VSCodeInstall, error) {
	exts, ok := tableAt(table, "extensions")
	if !ok {
		return VSCodeInstall{}, fmt.Errorf("config must contain an [extensions] section with a 'list' key")
	}
	rawList, ok := exts["list"].([]any)
	if !ok {
		return VSCodeInstall{}, fmt.Errorf("config must contain an [extensions] section with a 'list' key")
	}

	list := make([]string, 0, len(rawList))
	for _, v := range rawList {
		s, ok := v.(string)
		if !ok {
			return VSCodeInstall{}, fmt.Errorf("extension list entries must be strings, got %T", v)
		}
		list = append(list, s)
	}

	settings, ok := tableAt(table, "settings")
	if !ok {
		return VSCodeInstall{}, fmt.Errorf("config must contain a [settings] section")
	}

	return VSCodeInstall{Extensions: list, Settings: settings}, nil
}

// tableAt walks nested TOML tables by key and returns the table at the end
// of the path, or false if any step is missing or not a table.
func tableAt(doc map[string]any, path ...string) (map[string]any, bool) {
	cur := doc
	for _, key := range path {
		next, ok := cur[key].(map[string]any)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}
