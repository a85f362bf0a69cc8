package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/catalogview/internal/config"
	"github.com/rshade/catalogview/internal/logging"
)

// annotationInteractive marks commands that take over the terminal.
const annotationInteractive = "catalogview/interactive"

// runsInteractive reports whether cmd will start the full-screen browser.
func runsInteractive(cmd *cobra.Command) bool {
	if cmd.Annotations[annotationInteractive] == "true" {
		return true
	}
	return !cmd.HasParent() && stdoutIsTerminal()
}

// setupLogging configures logging based on config file, environment, and CLI flags.
// The browser always logs to a file; anything written to stderr would corrupt the screen.
func setupLogging(cmd *cobra.Command) logging.LogPathResult {
	loggingCfg := config.GetLoggingConfig()
	interactive := runsInteractive(cmd)

	debug, _ := cmd.Flags().GetBool(flagDebug)
	if debug {
		loggingCfg.Level = "debug"
		if !interactive {
			loggingCfg.Format = "console"
			loggingCfg.File = ""
		}
	}
	if interactive && loggingCfg.File == "" {
		loggingCfg.File = config.New().Logging.File
	}

	// Ensure log directory exists after all overrides have been applied.
	if loggingCfg.File != "" {
		if err := config.EnsureLogDir(); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create log directory: %v\n", err)
		}
	}

	result := logging.NewLoggerWithPath(loggingCfg.ToLoggingConfig())
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Info().Ctx(ctx).Str("command", cmd.Name()).Str("trace_id", traceID).Msg("command started")

	return result
}

// cleanupLogging closes the log file handle.
func cleanupLogging(_ *cobra.Command, logResult *logging.LogPathResult) error {
	if logResult != nil {
		return logResult.Close()
	}
	return nil
}
