package cli

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/vburojevic/logscan/internal/analyzer"
	"github.com/vburojevic/logscan/internal/config"
	"github.com/vburojevic/logscan/internal/domain"
	"github.com/vburojevic/logscan/internal/output"
	"github.com/vburojevic/logscan/internal/source"
)

// AnalyzeCmd classifies a log and reports faults and repeated lines
type AnalyzeCmd struct {
	Path              string `arg:"" optional:"" help:"Log file to analyze (default: configured, then conventional Player.log/dump.log locations)"`
	Threshold         int    `short:"t" help:"Report runs of more than N identical lines (default from config, 5)"`
	FlushTrailingRun  bool   `name:"flush-trailing-run" help:"Also report a run that is still open at end of input"`
	Report            string `short:"o" help:"Summary file path (default: <log dir>/<log name>_analysis_report.txt)"`
	NoReport          bool   `help:"Do not write the summary file"`
	Top               int    `help:"Ranked sub-types listed in the summary file (default from config, 10)"`
	PersistSignatures bool   `help:"Record error/warning sub-types across runs and mark them NEW or KNOWN"`
	SignatureFile     string `help:"Signature store path (default: ~/.logscan/signatures.json)"`
}

// Run executes the analyze command
func (c *AnalyzeCmd) Run(globals *Globals) error {
	cfg := globals.cfg()
	maybeNoStyle(globals)
	emitter := output.NewEmitter(globals.Format, globals.Stdout, reportOptions(cfg))
	log := globals.Log()

	path, err := locateLog(cfg, c.Path)
	if err != nil {
		return outputErrorCommon(globals, sourceErrorCode(err), err.Error(), hintForSource(err))
	}
	log.Debug("analyzing log", zap.String("path", path))

	r, err := source.Open(path, sourceOptions(globals))
	if err != nil {
		return outputErrorCommon(globals, sourceErrorCode(err), err.Error(), hintForSource(err))
	}
	defer func() {
		if err := r.Close(); err != nil {
			globals.Debug("close %s: %v", path, err)
		}
	}()
	emitInfo(globals, emitter, "Analyzing", path)

	opts := engineOptions(cfg, c.Threshold, c.FlushTrailingRun)
	opts = append(opts,
		analyzer.WithSource(path),
		analyzer.WithRepetitionHandler(func(ev domain.RepetitionEvent) {
			if err := emitter.Repetition(ev); err != nil {
				log.Debug("write repetition", zap.Error(err))
			}
		}),
	)
	engine := analyzer.NewEngine(opts...)

	analysis, readErr := engine.Run(r)
	log.Debug("analysis finished",
		zap.Int("lines", analysis.Lines),
		zap.String("encoding", r.Encoding()),
		zap.Duration("duration", analysis.Duration),
	)

	if n := r.Replaced(); n > 0 {
		emitWarning(globals, emitter, source.ReplacedNote(n, r.Encoding()))
	}

	var sigs []output.SignatureMatch
	if readErr == nil {
		var sigErr error
		sigs, sigErr = c.recordSignatures(globals, analysis)
		if sigErr != nil {
			emitWarning(globals, emitter, sigErr.Error())
		}
	}

	if err := emitter.Analysis(analysis, sigs); err != nil {
		return err
	}

	if readErr != nil {
		// partial analyses are rendered but not persisted
		return outputErrorCommon(globals, CodeReadError, readErr.Error(), hintForSource(readErr))
	}

	if c.NoReport || cfg.Report.Skip {
		return nil
	}
	reportPath := c.reportPath(cfg, path)
	top := c.Top
	if top <= 0 {
		top = cfg.Report.Top
	}
	if err := output.SaveSummary(reportPath, analysis, top); err != nil {
		return outputErrorCommon(globals, CodeReportError, err.Error())
	}
	if !globals.Quiet {
		if err := emitter.ReportSaved(reportPath); err != nil {
			return err
		}
	}
	return nil
}

func (c *AnalyzeCmd) reportPath(cfg *config.Config, logPath string) string {
	switch {
	case c.Report != "":
		return source.ExpandPath(c.Report)
	case cfg.Report.Path != "":
		return source.ExpandPath(cfg.Report.Path)
	default:
		return source.ReportPath(logPath)
	}
}

func (c *AnalyzeCmd) recordSignatures(globals *Globals, a *domain.Analysis) ([]output.SignatureMatch, error) {
	if !c.PersistSignatures {
		return nil, nil
	}
	store, err := output.NewSignatureStore(source.ExpandPath(c.SignatureFile), nil)
	if err != nil {
		return nil, err
	}
	sigs := store.RecordSnapshot(a.Snapshot)
	if err := store.Save(); err != nil {
		return sigs, fmt.Errorf("save signatures to %s: %w", store.Path(), err)
	}
	globals.Debug("recorded %d signatures in %s", len(sigs), store.Path())
	return sigs, nil
}

// locateLog resolves the explicit path or walks the configured and
// conventional candidates
func locateLog(cfg *config.Config, explicit string) (string, error) {
	candidates := cfg.Source.SearchPaths
	if len(candidates) == 0 {
		candidates = source.DefaultSearchPaths()
	}
	return source.Locate(explicit, candidates)
}

func sourceOptions(globals *Globals) source.Options {
	return source.Options{
		MaxLineBytes: globals.cfg().Source.MaxLineBytes,
		Logger:       globals.Log(),
	}
}

// markers converts the rules section into classifier markers
func markers(r config.RulesConfig) analyzer.Markers {
	return analyzer.Markers{
		Subsystem:        r.SubsystemMarker,
		SubsystemWarning: r.SubsystemWarning,
		JobWarning:       r.JobWarning,
		PathFollower:     r.PathFollower,
		JobError:         r.JobError,
		Recursion:        r.Recursion,
	}
}

// engineOptions builds engine options from config, letting non-zero flag
// values win
func engineOptions(cfg *config.Config, threshold int, flushTrailing bool) []analyzer.Option {
	if threshold <= 0 {
		threshold = cfg.Repetition.Threshold
	}
	return []analyzer.Option{
		analyzer.WithRules(analyzer.DefaultRules(markers(cfg.Rules))),
		analyzer.WithThreshold(threshold),
		analyzer.WithFlushTrailing(flushTrailing || cfg.Repetition.FlushTrailing),
	}
}

func reportOptions(cfg *config.Config) output.ReportOptions {
	opts := output.ReportOptions{
		Samples:       cfg.Report.Samples,
		Truncate:      cfg.Report.Truncate,
		RecursionCall: cfg.Rules.Recursion,
	}
	if p := lastSegment(cfg.Rules.JobError); p != "" {
		opts.JobPatterns = []string{p}
	}
	return opts
}

// lastSegment returns the method name of a dotted call site
func lastSegment(s string) string {
	if i := strings.LastIndex(s, "."); i >= 0 {
		return s[i+1:]
	}
	return s
}
