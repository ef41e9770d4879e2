package source

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func readAll(t *testing.T, r *Reader) []string {
	t.Helper()
	var lines []string
	for r.Scan() {
		lines = append(lines, r.Text())
	}
	require.NoError(t, r.Err())
	return lines
}

func TestOpen_Encodings(t *testing.T) {
	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte("Error: café\nWarning\n"))
	require.NoError(t, err)
	utf16be, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().Bytes([]byte("Error: café\nWarning\n"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		data     []byte
		encoding string
	}{
		{"plain utf-8", []byte("Error: café\nWarning\n"), EncodingUTF8},
		{"utf-8 with BOM", append([]byte{0xEF, 0xBB, 0xBF}, []byte("Error: café\nWarning\n")...), EncodingUTF8BOM},
		{"utf-16 little endian", utf16le, EncodingUTF16LE},
		{"utf-16 big endian", utf16be, EncodingUTF16BE},
		{"windows-1252 fallback", []byte("Error: caf\xe9\nWarning\n"), EncodingWindows1252},
		{"crlf line endings", []byte("Error: café\r\nWarning\r\n"), EncodingUTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Open(writeFile(t, "Player.log", tt.data), Options{})
			require.NoError(t, err)
			defer r.Close()

			assert.Equal(t, tt.encoding, r.Encoding())
			assert.Equal(t, []string{"Error: café", "Warning"}, readAll(t, r))
		})
	}
}

func TestOpen_Unavailable(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Open(filepath.Join(t.TempDir(), "nope.log"), Options{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSourceUnavailable)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := Open(t.TempDir(), Options{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSourceUnavailable)
	})
}

func TestOpen_LineLimit(t *testing.T) {
	data := "short\n" + strings.Repeat("x", 200) + "\nafter\n"
	r, err := Open(writeFile(t, "long.log", []byte(data)), Options{MaxLineBytes: 64})
	require.NoError(t, err)
	defer r.Close()

	require.True(t, r.Scan())
	assert.Equal(t, "short", r.Text())
	assert.False(t, r.Scan())
	assert.ErrorIs(t, r.Err(), bufio.ErrTooLong)
}

func TestOpen_Empty(t *testing.T) {
	r, err := Open(writeFile(t, "empty.log", nil), Options{})
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, EncodingUTF8, r.Encoding())
	assert.Empty(t, readAll(t, r))
}

func TestOpen_Windows1252Detection(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		encoding string
		last     string
	}{
		{"invalid byte in the final line", []byte("Error: caf\xe9\n"), EncodingWindows1252, "Error: café"},
		{"invalid byte is the last byte", []byte("caf\xe9"), EncodingWindows1252, "café"},
		{"invalid byte early", []byte("caf\xe9 ok\n"), EncodingWindows1252, "café ok"},
		{"utf-8 rune at end of file", []byte("Error: caf\xc3\xa9"), EncodingUTF8, "Error: café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Open(writeFile(t, "Player.log", tt.data), Options{})
			require.NoError(t, err)
			defer r.Close()

			assert.Equal(t, tt.encoding, r.Encoding())
			lines := readAll(t, r)
			require.NotEmpty(t, lines)
			assert.Equal(t, tt.last, lines[len(lines)-1])
			assert.Zero(t, r.Replaced())
		})
	}
}

func TestOpen_CountsReplacedLinesPastSniffWindow(t *testing.T) {
	data := []byte(strings.Repeat("ascii only line\n", 70*1024/16) + "caf\xe9 ok\nplain\n")
	r, err := Open(writeFile(t, "Player.log", data), Options{})
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, EncodingUTF8, r.Encoding())
	lines := readAll(t, r)
	assert.Equal(t, "caf\uFFFD ok", lines[len(lines)-2])
	assert.Equal(t, 1, r.Replaced())
}

func TestValidUTF8Prefix(t *testing.T) {
	assert.True(t, validUTF8Prefix([]byte("plain"), false))
	assert.True(t, validUTF8Prefix(nil, true))

	// "é" cut after its first byte at the end of a full sniff window
	assert.True(t, validUTF8Prefix([]byte("caf\xc3"), true))
	assert.False(t, validUTF8Prefix([]byte("caf\xc3"), false))

	// a complete but invalid trailing byte is never forgiven
	assert.False(t, validUTF8Prefix([]byte("ok\x80"), true))
	assert.False(t, validUTF8Prefix([]byte("caf\xe9"), false))
	assert.False(t, validUTF8Prefix([]byte("caf\xe9 and more text"), true))
}

func TestTrimPartialRune(t *testing.T) {
	assert.Equal(t, []byte("caf"), trimPartialRune([]byte("caf\xc3")))
	assert.Equal(t, []byte("a"), trimPartialRune([]byte("a\xe2\x82")))
	assert.Equal(t, []byte("a\xe2\x82\xac"), trimPartialRune([]byte("a\xe2\x82\xac")))
	assert.Equal(t, []byte("ok\x80"), trimPartialRune([]byte("ok\x80")))
	assert.Empty(t, trimPartialRune(nil))
}
