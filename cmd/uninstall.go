package cmd

import (
	"github.com/spf13/cobra"

	"pis-utils/internal/installer"
)

// uninstallCmd is the parent for the per-tool uninstall subcommands.
var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall tools and applications",
}

// uninstallCondaCmd removes the Miniforge3/conda installation and user data.
var uninstallCondaCmd = &cobra.Command{
	Use:   "conda",
	Short: "Uninstall Miniforge3/conda and remove all user data",
	RunE: func(cmd *cobra.Command, args []string) error {
		return installer.UninstallConda()
	},
}

// uninstallVSCodeCmd removes the VS Code installation and user data.
var uninstallVSCodeCmd = &cobra.Command{
	Use:   "vscode",
	Short: "Uninstall VS Code and remove all user data (clean uninstall)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return installer.UninstallVSCode()
	},
}

// init adds the uninstall subcommands to the root command.
func init() {
	uninstallCmd.AddCommand(uninstallCondaCmd)
	uninstallCmd.AddCommand(uninstallVSCodeCmd)
	rootCmd.AddCommand(uninstallCmd)
}
