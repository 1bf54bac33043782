package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"pis-utils/internal/logger"
)

// version is the tool version reported by --version/-v.
const version = "1.0.0"

// debug flag indicates whether debug logging should be enabled.
// It can be toggled via the `--debug` command-line flag.
var debug bool

// rootCmd is the base command for the CLI tool `pis-utils`.
// It sets up the root-level CLI structure and provides global flags.
var rootCmd = &cobra.Command{
	Use:     "pis-utils",                                      // The name of the CLI tool
	Short:   "Cross-platform Python installation support tool", // Short description shown in help output
	Version: version,

	// Command errors are reported once by Execute below, not by cobra itself.
	SilenceUsage:  true,
	SilenceErrors: true,

	// PersistentPreRun is a hook that runs before any subcommand.
	// Here, we initialize the logger based on the debug flag.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(debug) // Set up logging (verbose if --debug is true)
	},
}

// Execute initializes flags, wires up interrupt handling, and starts the
// command execution. It's the entry point for the CLI when invoked by the
// user; any command failure exits the process with a non-zero status.
func Execute() {
	// Register the global flags before any command is executed.
	// The version flag is predeclared so cobra's built-in handling picks up
	// the -v shorthand.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")
	rootCmd.SetVersionTemplate("pis-utils version {{.Version}}\n")

	// An interrupt (Ctrl-C) cancels the context carried by the running
	// command; downloads and spawned installers stop with it.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			logger.Warn("\nAborted.\n")
		} else {
			logger.Error("\nError: %v\n", err)
		}
		os.Exit(1)
	}
}
