package source

import (
	"fmt"
	"strings"
)

// DefaultPreviewLines is how many lines a preview shows
const DefaultPreviewLines = 160

// Preview is the head of a file
type Preview struct {
	Path      string   `json:"path"`
	Encoding  string   `json:"encoding"`
	Lines     []string `json:"lines"`
	Truncated bool     `json:"truncated"`
	Note      string   `json:"note,omitempty"`
}

// ReadHead reads at most maxLines lines of path using the same decoding as Open
func ReadHead(path string, maxLines int, opts Options) (*Preview, error) {
	if maxLines <= 0 {
		maxLines = DefaultPreviewLines
	}

	r, err := Open(path, opts)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	p := &Preview{Path: path, Encoding: r.Encoding()}
	for r.Scan() {
		if len(p.Lines) == maxLines {
			p.Truncated = true
			break
		}
		p.Lines = append(p.Lines, strings.TrimRight(r.Text(), "\r"))
	}
	if err := r.Err(); err != nil {
		return p, fmt.Errorf("read %s: %w", path, err)
	}

	switch {
	case r.Encoding() == EncodingWindows1252:
		p.Note = "not valid UTF-8, decoded as " + EncodingWindows1252
	case r.Replaced() > 0:
		p.Note = ReplacedNote(r.Replaced(), r.Encoding())
	}
	return p, nil
}

// ReplacedNote describes lines whose invalid bytes were shown as U+FFFD
func ReplacedNote(lines int, encoding string) string {
	return fmt.Sprintf("%d line(s) held bytes invalid in %s, shown as U+FFFD", lines, encoding)
}
