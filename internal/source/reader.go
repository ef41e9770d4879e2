// Package source opens logs and turns them into decoded lines.
package source

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrSourceUnavailable means the log could not be opened or decoded
	ErrSourceUnavailable = errors.New("log source unavailable")
	// ErrNotFound means no candidate log path exists
	ErrNotFound = errors.New("log file not found")
)

const (
	// DefaultMaxLineBytes bounds a single line; longer lines fail the scan
	DefaultMaxLineBytes = 1024 * 1024
	sniffBytes          = 64 * 1024
)

// Encoding names reported for a decoded source
const (
	EncodingUTF8        = "utf-8"
	EncodingUTF8BOM     = "utf-8-bom"
	EncodingUTF16LE     = "utf-16le"
	EncodingUTF16BE     = "utf-16be"
	EncodingWindows1252 = "windows-1252"
)

// Options control how a source is opened
type Options struct {
	MaxLineBytes int
	Logger       *zap.Logger
}

// Reader yields decoded lines from a log file. It satisfies the analyzer's
// LineSource interface.
type Reader struct {
	f        *os.File
	scanner  *bufio.Scanner
	path     string
	encoding string
	replaced int
}

// Open opens path and sniffs its encoding. BOMs select UTF-8 or UTF-16;
// otherwise valid UTF-8 is assumed and Windows-1252 is the fallback.
func Open(path string, opts Options) (*Reader, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxLine := opts.MaxLineBytes
	if maxLine <= 0 {
		maxLine = DefaultMaxLineBytes
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrSourceUnavailable, path)
	}

	r, name, err := decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	// the scanner honours the larger of max and the initial capacity
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(64*1024, maxLine)), maxLine)

	logger.Debug("opened log source",
		zap.String("path", path),
		zap.Int64("bytes", info.Size()),
		zap.String("encoding", name),
	)

	return &Reader{f: f, scanner: scanner, path: path, encoding: name}, nil
}

// Scan advances to the next line
func (r *Reader) Scan() bool {
	if !r.scanner.Scan() {
		return false
	}
	if bytes.ContainsRune(r.scanner.Bytes(), utf8.RuneError) {
		r.replaced++
	}
	return true
}

// Text returns the current line without its terminator
func (r *Reader) Text() string { return r.scanner.Text() }

// Err returns the first non-EOF error hit while scanning
func (r *Reader) Err() error { return r.scanner.Err() }

// Path returns the file the reader was opened on
func (r *Reader) Path() string { return r.path }

// Encoding returns the detected encoding name
func (r *Reader) Encoding() string { return r.encoding }

// Replaced counts the lines scanned so far that carry U+FFFD, which is what
// bytes invalid in the detected encoding decode to
func (r *Reader) Replaced() int { return r.replaced }

// Close releases the underlying file
func (r *Reader) Close() error { return r.f.Close() }

// decode wraps r in a transformer chosen from the first bytes of the stream
func decode(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, sniffBytes)
	head, err := br.Peek(sniffBytes)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, "", err
	}

	name, fallback := sniff(head, err == nil)
	return transform.NewReader(br, unicode.BOMOverride(fallback.NewDecoder())), name, nil
}

func sniff(head []byte, windowFull bool) (string, encoding.Encoding) {
	switch {
	case len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF:
		return EncodingUTF8BOM, unicode.UTF8
	case len(head) >= 2 && head[0] == 0xFF && head[1] == 0xFE:
		return EncodingUTF16LE, unicode.UTF8
	case len(head) >= 2 && head[0] == 0xFE && head[1] == 0xFF:
		return EncodingUTF16BE, unicode.UTF8
	case validUTF8Prefix(head, windowFull):
		return EncodingUTF8, unicode.UTF8
	default:
		return EncodingWindows1252, charmap.Windows1252
	}
}

// validUTF8Prefix reports whether b is valid UTF-8. When b fills the sniff
// window and the file goes on, a rune cut in half at its end is ignored.
func validUTF8Prefix(b []byte, windowFull bool) bool {
	if windowFull {
		b = trimPartialRune(b)
	}
	return utf8.Valid(b)
}

// trimPartialRune drops an incomplete rune from the end of b
func trimPartialRune(b []byte) []byte {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(b[i]) {
			continue
		}
		if !utf8.FullRune(b[i:]) {
			return b[:i]
		}
		return b
	}
	return b
}
