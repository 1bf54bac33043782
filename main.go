package main

import (
	"pis-utils/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// This design cleanly separates the CLI interface (cmd package) from main,
// allowing easier testing, extension, and reuse of the CLI commands.
//
// The pis-utils project is a cross-platform installation support tool that:
//   - Installs and uninstalls Miniforge3 (the conda/mamba Python distribution manager)
//     and Visual Studio Code on Windows, macOS, and Linux
//   - Detects the operating system and CPU architecture once per invocation and uses
//     the pair to select download URLs and installation steps
//   - Downloads official release installers over HTTPS with a streaming copy loop
//     and a progress bar (determinate when the server reports a total size)
//   - Runs the OS-native installer binaries silently, or extracts archives and
//     places the application in the conventional per-OS location
//   - Installs a configured list of editor extensions through the editor's own CLI
//     and merges configured editor settings into the user's settings.json
//   - Ships a built-in TOML configuration with the default extension list and
//     settings, which users can override with their own config file
//
// Error handling strategy:
//   - Platform detection, downloads, and installer invocations are fatal on failure:
//     the command logs the error and the process exits with a non-zero status
//   - A missing editor CLI is reported per-step but does not block settings
//     application, so as much of the configuration as possible is applied
//   - An interrupt (Ctrl-C) cancels the running command and exits non-zero
//
// Integration points:
//   - Fetches installers from fixed, templated release URLs (GitHub releases for
//     Miniforge, the official update endpoint for VS Code); no authentication
//   - Shells out to the OS-native installers, to `conda` for uninstall bookkeeping,
//     and to the `code` CLI for extension installation, treating exit codes as the
//     only success/failure signal
func main() {
	cmd.Execute()
}
