// Package search finds a keyword across the files of one or more directory trees.
package search

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/vburojevic/logscan/internal/source"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoRoots means none of the search roots exist
	ErrNoRoots = errors.New("no search roots")
	// ErrEmptyKeyword means there is nothing to look for
	ErrEmptyKeyword = errors.New("empty keyword")
)

// DefaultContext is the number of lines shown around a match
const DefaultContext = 4

// Options tune a search
type Options struct {
	// Extensions restricts which files are read (case-insensitive, with dot).
	// Empty means every file.
	Extensions []string
	// Context lines on each side of a match; 0 means DefaultContext and a
	// negative value means none
	Context int
	Workers int
	Logger  *zap.Logger
}

// ContextLine is one line printed around a match
type ContextLine struct {
	Line int    `json:"line"`
	Text string `json:"text"`
}

// Match is a single keyword hit
type Match struct {
	Path    string        `json:"path"`
	Size    int64         `json:"size"`
	Line    int           `json:"line"`
	Context []ContextLine `json:"context"`
}

// Skipped is a file that could not be read
type Skipped struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Result collects everything a search found
type Result struct {
	Matches      []Match   `json:"matches"`
	Skipped      []Skipped `json:"skipped,omitempty"`
	MissingRoots []string  `json:"missing_roots,omitempty"`
	FilesScanned int       `json:"files_scanned"`
}

type fileResult struct {
	matches []Match
	skipped *Skipped
}

// Search walks roots and scans matching files concurrently. Matching is a
// case-insensitive substring test per line. Results are ordered by walk
// order, then line.
func Search(ctx context.Context, roots []string, keyword string, opts Options) (*Result, error) {
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	switch {
	case opts.Context == 0:
		opts.Context = DefaultContext
	case opts.Context < 0:
		opts.Context = 0
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	res := &Result{}
	var files []string
	for _, root := range roots {
		root = source.ExpandPath(root)
		if _, err := os.Stat(root); err != nil {
			logger.Debug("search path does not exist", zap.String("root", root))
			res.MissingRoots = append(res.MissingRoots, root)
			continue
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Debug("skipping unreadable path", zap.String("path", path), zap.Error(err))
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if d.Type().IsRegular() && hasExtension(path, opts.Extensions) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	if len(res.MissingRoots) == len(roots) {
		return res, ErrNoRoots
	}

	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	needle := strings.ToLower(keyword)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = scanFile(path, needle, opts.Context)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res.FilesScanned = len(files)
	for _, fr := range results {
		res.Matches = append(res.Matches, fr.matches...)
		if fr.skipped != nil {
			logger.Debug("could not read file", zap.String("path", fr.skipped.Path), zap.String("reason", fr.skipped.Reason))
			res.Skipped = append(res.Skipped, *fr.skipped)
		}
	}
	return res, nil
}

func scanFile(path, needle string, around int) fileResult {
	r, err := source.Open(path, source.Options{})
	if err != nil {
		return fileResult{skipped: &Skipped{Path: path, Reason: err.Error()}}
	}
	defer r.Close()

	var lines []string
	for r.Scan() {
		lines = append(lines, r.Text())
	}
	if err := r.Err(); err != nil {
		return fileResult{skipped: &Skipped{Path: path, Reason: err.Error()}}
	}

	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}

	var out fileResult
	for i, line := range lines {
		if !strings.Contains(strings.ToLower(line), needle) {
			continue
		}
		start := max(0, i-around)
		end := min(len(lines), i+around+1)
		m := Match{Path: path, Size: size, Line: i + 1}
		for j := start; j < end; j++ {
			m.Context = append(m.Context, ContextLine{Line: j + 1, Text: lines[j]})
		}
		out.matches = append(out.matches, m)
	}
	return out
}

func hasExtension(path string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if ext == e {
			return true
		}
	}
	return false
}
