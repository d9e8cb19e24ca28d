// Command unitconv converts values between units and number bases.
//
// Examples:
//
//	unitconv 100 F --C
//	unitconv 10 km --m --mi
//	unitconv 255 dec --hex
//
// Diagnostic logs go to stderr; pass --verbose for debug output.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/naadamki/unitconv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CLI exit codes for standardized error reporting.
const (
	// ExitSuccess indicates every conversion succeeded.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitInvalidArgs indicates invalid command line arguments.
	ExitInvalidArgs = 2

	// ExitUnknownUnit indicates the source unit is not registered.
	ExitUnknownUnit = 3

	// ExitInvalidValue indicates the input value could not be parsed.
	ExitInvalidValue = 4

	// ExitConversionFailed indicates one or more targets could not be converted.
	ExitConversionFailed = 5

	// ExitInvalidRoster indicates the unit roster failed validation.
	ExitInvalidRoster = 6
)

func main() {
	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	logger, err := newLogger(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		os.Exit(ExitGeneralError)
	}

	cmd := newRootCommand(level, logger)
	err = cmd.Execute()
	_ = logger.Sync()
	os.Exit(exitCodeFromError(err))
}

// newRootCommand wires the conversion command tree to a zap logger whose level
// is raised to debug by --verbose.
func newRootCommand(level zap.AtomicLevel, logger *zap.Logger) *cobra.Command {
	cmd := unitconv.NewCommand(unitconv.Config{}, unitconv.WithLogger(zapLogger{logger.Sugar()}))

	var verbose bool
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	preRun := cmd.PersistentPreRunE
	cmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		if verbose {
			level.SetLevel(zapcore.DebugLevel)
		}
		if preRun != nil {
			return preRun(c, args)
		}
		return nil
	}
	return cmd
}

// newLogger builds a production zap logger writing to stderr.
func newLogger(level zap.AtomicLevel) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = level
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = true
	return config.Build()
}

// zapLogger adapts a SugaredLogger to the unitconv.Logger interface.
type zapLogger struct {
	s *zap.SugaredLogger
}

func (l zapLogger) Debug(msg string, keysAndValues ...any) { l.s.Debugw(msg, keysAndValues...) }
func (l zapLogger) Info(msg string, keysAndValues ...any)  { l.s.Infow(msg, keysAndValues...) }
func (l zapLogger) Warn(msg string, keysAndValues ...any)  { l.s.Warnw(msg, keysAndValues...) }
func (l zapLogger) Error(msg string, keysAndValues ...any) { l.s.Errorw(msg, keysAndValues...) }

// exitCodeFromError maps error types to exit codes.
func exitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, unitconv.ErrUsage):
		return ExitInvalidArgs
	case errors.Is(err, unitconv.ErrNoTargets):
		return ExitInvalidArgs
	case errors.Is(err, unitconv.ErrUnknownUnit):
		return ExitUnknownUnit
	case errors.Is(err, unitconv.ErrInvalidValue):
		return ExitInvalidValue
	case errors.Is(err, unitconv.ErrConversionFailed):
		return ExitConversionFailed
	case errors.Is(err, unitconv.ErrCategoryMismatch):
		return ExitConversionFailed
	case errors.Is(err, unitconv.ErrInvalidRoster):
		return ExitInvalidRoster
	default:
		return ExitGeneralError
	}
}
