package cli

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/vburojevic/logscan/internal/config"
	"github.com/vburojevic/logscan/internal/logging"
	"github.com/vburojevic/logscan/internal/output"
)

// CLI is the root command structure for logscan
type CLI struct {
	// Global flags
	Format   string     `short:"f" default:"${config_format}" enum:"ndjson,text" help:"Output format"`
	LogLevel string     `name:"log-level" default:"${config_log_level}" enum:"debug,info,warn,error" help:"Diagnostic log level (stderr)"`
	Quiet    bool       `short:"q" help:"Suppress informational output and warnings"`
	Verbose  bool       `short:"v" help:"Show debug diagnostics (discovery, decoding, workers)"`
	Version  VersionCmd `cmd:"" help:"Show version information"`

	// Commands
	Analyze AnalyzeCmd `cmd:"" default:"withargs" help:"Classify a log, detect repeated lines and write a summary report"`
	View    ViewCmd    `cmd:"" help:"Browse a log's classified lines interactively"`
	Preview PreviewCmd `cmd:"" help:"Show the first lines of any file with encoding fallback"`
	Grep    GrepCmd    `cmd:"" help:"Search files under directories for a keyword"`
	Config  ConfigCmd  `cmd:"" help:"Show or manage configuration"`
}

// Globals holds shared state for all commands
type Globals struct {
	Format   string
	LogLevel string
	Quiet    bool
	Verbose  bool
	Stdout   io.Writer
	Stderr   io.Writer
	Config   *config.Config
	Logger   *zap.Logger
}

// NewGlobals creates a new Globals instance from CLI flags
func NewGlobals(cli *CLI) *Globals {
	return NewGlobalsWithConfig(cli, config.Default())
}

// NewGlobalsWithConfig creates a new Globals instance with config fallbacks
func NewGlobalsWithConfig(cli *CLI, cfg *config.Config) *Globals {
	g := &Globals{
		Format:   cli.Format,
		LogLevel: cli.LogLevel,
		Quiet:    cli.Quiet,
		Verbose:  cli.Verbose,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Config:   cfg,
	}

	// Apply config values if CLI flags weren't explicitly set
	if cfg != nil {
		if !cli.Quiet && cfg.Quiet {
			g.Quiet = cfg.Quiet
		}
		if !cli.Verbose && cfg.Verbose {
			g.Verbose = cfg.Verbose
		}
	}

	logger, err := logging.New(logging.Options{
		Level:   g.LogLevel,
		Verbose: g.Verbose,
		Quiet:   g.Quiet,
		Color:   isTerminal(g.Stderr),
		Writer:  g.Stderr,
	})
	if err != nil {
		logger = zap.NewNop()
	}
	g.Logger = logger

	return g
}

// Log returns the diagnostic logger, never nil
func (g *Globals) Log() *zap.Logger {
	if g == nil || g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}

// Debug logs a debug message
func (g *Globals) Debug(format string, args ...interface{}) {
	g.Log().Sugar().Debugf(format, args...)
}

// cfg returns the loaded configuration or the defaults
func (g *Globals) cfg() *config.Config {
	if g.Config == nil {
		return config.Default()
	}
	return g.Config
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// maybeNoStyle drops colors when stdout is not a terminal
func maybeNoStyle(globals *Globals) {
	if globals == nil || globals.Stdout == nil {
		return
	}
	if !isTerminal(globals.Stdout) {
		output.DisableColor()
	}
}

// VersionCmd shows version information
type VersionCmd struct{}

// Run executes the version command
func (v *VersionCmd) Run(globals *Globals) error {
	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteRaw(map[string]interface{}{
			"type":          "version",
			"schemaVersion": output.SchemaVersion,
			"version":       Version,
			"commit":        Commit,
		})
	}
	_, err := io.WriteString(globals.Stdout, "logscan version "+Version+" ("+Commit+")\n")
	return err
}

// Version information (set at build time)
var (
	Version = "dev"
	Commit  = "none"
)
