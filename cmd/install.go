package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pis-utils/internal/config"
	"pis-utils/internal/installer"
	"pis-utils/internal/logger"
)

// devBuild selects the pinned dev release of Miniforge3 instead of the
// latest release. Set via `install conda --dev`.
var devBuild bool

// vscodeConfigPath holds the path to a user-supplied override config.
// It's passed via the `--config` or `-c` flag; empty means built-in config.
var vscodeConfigPath string

// installCmd is the parent for the per-tool install subcommands.
var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install various tools and applications",
}

// installCondaCmd installs Miniforge3 (conda/mamba).
var installCondaCmd = &cobra.Command{
	Use:   "conda",
	Short: "Install Miniforge3 (conda/mamba) with customizations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return installer.InstallConda(cmd.Context(), config.Default(), devBuild)
	},
}

// installVSCodeCmd installs VS Code plus the configured extensions and
// settings, from the built-in config or a user override.
var installVSCodeCmd = &cobra.Command{
	Use:   "vscode",
	Short: "Install VS Code with extensions and settings from config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()

		payload := config.VSCodeDefaults(cfg)
		if vscodeConfigPath != "" {
			p, err := config.LoadVSCodeInstall(vscodeConfigPath)
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			payload = p
			logger.Info("[INFO] Using config: %s\n", vscodeConfigPath)
		} else {
			logger.Debug("[DEBUG] Using built-in config\n")
		}

		return installer.InstallVSCode(cmd.Context(), cfg, payload)
	},
}

// init sets up CLI flags and adds the install subcommands to the root command.
func init() {
	installCondaCmd.Flags().BoolVar(&devBuild, "dev", false, "Install development build from dev branch")
	installVSCodeCmd.Flags().StringVarP(&vscodeConfigPath, "config", "c", "", "Path to custom config file (default: built-in config.toml)")

	installCmd.AddCommand(installCondaCmd)
	installCmd.AddCommand(installVSCodeCmd)
	rootCmd.AddCommand(installCmd)
}
