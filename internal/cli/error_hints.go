package cli

import (
	"bufio"
	"errors"
	"os"

	"github.com/vburojevic/logscan/internal/search"
	"github.com/vburojevic/logscan/internal/source"
)

func hintForSource(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, source.ErrNotFound):
		return "Pass the log path explicitly (`logscan analyze <path>`) or add it to source.search_paths; see `logscan config generate`"
	case errors.Is(err, os.ErrPermission):
		return "The log is not readable by the current user; copy it somewhere readable or fix its permissions"
	case errors.Is(err, bufio.ErrTooLong):
		return "A line exceeds source.max_line_bytes; raise it in the config file"
	case errors.Is(err, source.ErrSourceUnavailable):
		return "Check that the path is a regular file and is not locked by another process"
	}
	return ""
}

func hintForSearch(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, search.ErrNoRoots):
		return "Pass directories with --root or set search.roots in the config file"
	case errors.Is(err, search.ErrEmptyKeyword):
		return "Pass a non-empty keyword, quoting it if it contains spaces"
	}
	return ""
}
