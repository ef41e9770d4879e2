package cli

import (
	"fmt"
	"io"
	"strings"

	embedfiles "github.com/vburojevic/logscan"
	"github.com/vburojevic/logscan/internal/config"
	"github.com/vburojevic/logscan/internal/output"
)

// ConfigCmd shows or manages configuration
type ConfigCmd struct {
	Show     ConfigShowCmd     `cmd:"" default:"withargs" help:"Show current configuration"`
	Path     ConfigPathCmd     `cmd:"" help:"Show configuration file path"`
	Generate ConfigGenerateCmd `cmd:"" help:"Generate sample configuration file"`
}

// ConfigShowCmd shows current configuration
type ConfigShowCmd struct{}

// Run executes the config show command
func (c *ConfigShowCmd) Run(globals *Globals) error {
	cfg := globals.cfg()

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteRaw(map[string]interface{}{
			"type":          "config",
			"schemaVersion": output.SchemaVersion,
			"format":        cfg.Format,
			"log_level":     cfg.LogLevel,
			"quiet":         cfg.Quiet,
			"verbose":       cfg.Verbose,
			"rules":         cfg.Rules,
			"repetition":    cfg.Repetition,
			"report":        cfg.Report,
			"source":        cfg.Source,
			"preview":       cfg.Preview,
			"search":        cfg.Search,
			"config_file":   config.ConfigFile(),
		})
	}

	w := globals.Stdout
	fmt.Fprintln(w, "Current Configuration:")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "  format:    %s\n", cfg.Format)
	fmt.Fprintf(w, "  log_level: %s\n", cfg.LogLevel)
	fmt.Fprintf(w, "  quiet:     %v\n", cfg.Quiet)
	fmt.Fprintf(w, "  verbose:   %v\n", cfg.Verbose)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Rules:")
	fmt.Fprintf(w, "  subsystem_marker:  %q\n", cfg.Rules.SubsystemMarker)
	fmt.Fprintf(w, "  subsystem_warning: %q\n", cfg.Rules.SubsystemWarning)
	fmt.Fprintf(w, "  job_warning:       %q\n", cfg.Rules.JobWarning)
	fmt.Fprintf(w, "  path_follower:     %q\n", cfg.Rules.PathFollower)
	fmt.Fprintf(w, "  job_error:         %q\n", cfg.Rules.JobError)
	fmt.Fprintf(w, "  recursion:         %q\n", cfg.Rules.Recursion)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Repetition:")
	fmt.Fprintf(w, "  threshold:      %d\n", cfg.Repetition.Threshold)
	fmt.Fprintf(w, "  flush_trailing: %v\n", cfg.Repetition.FlushTrailing)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Report:")
	fmt.Fprintf(w, "  path:     %s\n", orDefault(cfg.Report.Path, "<log dir>/<log name>_analysis_report.txt"))
	fmt.Fprintf(w, "  top:      %d\n", cfg.Report.Top)
	fmt.Fprintf(w, "  samples:  %d\n", cfg.Report.Samples)
	fmt.Fprintf(w, "  truncate: %d\n", cfg.Report.Truncate)
	fmt.Fprintf(w, "  skip:     %v\n", cfg.Report.Skip)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Source:")
	writeList(w, "search_paths", cfg.Source.SearchPaths, "conventional Player.log locations, ./dump.log")
	fmt.Fprintf(w, "  max_line_bytes: %d\n", cfg.Source.MaxLineBytes)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Preview:")
	fmt.Fprintf(w, "  lines: %d\n", cfg.Preview.Lines)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Search:")
	writeList(w, "roots", cfg.Search.Roots, "none")
	writeList(w, "extensions", cfg.Search.Extensions, "all files")
	fmt.Fprintf(w, "  context: %d\n", cfg.Search.Context)
	fmt.Fprintf(w, "  workers: %s\n", orDefault(itoaPositive(cfg.Search.Workers), "number of CPUs"))

	if path := config.ConfigFile(); path != "" {
		fmt.Fprintln(w, "")
		fmt.Fprintf(w, "Loaded from: %s\n", path)
	}

	return nil
}

func writeList(w io.Writer, name string, items []string, fallback string) {
	if len(items) == 0 {
		fmt.Fprintf(w, "  %s: (%s)\n", name, fallback)
		return
	}
	fmt.Fprintf(w, "  %s: %s\n", name, strings.Join(items, ", "))
}

func orDefault(v, fallback string) string {
	if v == "" {
		return "(" + fallback + ")"
	}
	return v
}

func itoaPositive(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprint(n)
}

// ConfigPathCmd shows config file path
type ConfigPathCmd struct{}

// Run executes the config path command
func (c *ConfigPathCmd) Run(globals *Globals) error {
	path := config.ConfigFile()

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteRaw(map[string]interface{}{
			"type":          "config_path",
			"schemaVersion": output.SchemaVersion,
			"path":          path,
		})
	}

	if path == "" {
		fmt.Fprintln(globals.Stdout, "No configuration file found")
		fmt.Fprintln(globals.Stdout, "")
		fmt.Fprintln(globals.Stdout, "Create one at:")
		fmt.Fprintln(globals.Stdout, "  ./.logscan.yaml")
		fmt.Fprintln(globals.Stdout, "  ~/.logscan.yaml")
		fmt.Fprintln(globals.Stdout, "  ~/.config/logscan/config.yaml")
	} else {
		fmt.Fprintf(globals.Stdout, "Config file: %s\n", path)
	}

	return nil
}

// ConfigGenerateCmd generates a sample configuration file
type ConfigGenerateCmd struct{}

// Run executes the config generate command
func (c *ConfigGenerateCmd) Run(globals *Globals) error {
	_, err := globals.Stdout.Write(embedfiles.SampleConfig)
	return err
}
