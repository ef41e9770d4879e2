// Package logging builds the zap logger shared by the CLI commands.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configure the diagnostic logger
type Options struct {
	// Level is a zap level name: debug, info, warn, error
	Level string
	// Verbose forces debug level
	Verbose bool
	// Quiet raises the level to error unless Verbose is set
	Quiet bool
	// Color enables ANSI level colors
	Color bool
	// Writer defaults to stderr
	Writer io.Writer
}

// New creates a console logger. Diagnostics never go to stdout, which is
// reserved for reports.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	switch {
	case opts.Verbose:
		level = zapcore.DebugLevel
	case opts.Quiet && level < zapcore.ErrorLevel:
		level = zapcore.ErrorLevel
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if opts.Color {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), zap.NewAtomicLevelAt(level))
	return zap.New(core).Named("logscan"), nil
}
