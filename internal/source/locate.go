package source

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const rimworldDir = "Ludeon Studios/RimWorld by Ludeon Studios"

// DefaultSearchPaths lists the conventional Player.log locations for the
// current OS, followed by a dump.log in the working directory
func DefaultSearchPaths() []string {
	var paths []string
	switch runtime.GOOS {
	case "windows":
		paths = append(paths, "~/AppData/LocalLow/"+rimworldDir+"/Player.log")
	case "darwin":
		paths = append(paths, "~/Library/Logs/"+rimworldDir+"/Player.log")
	default:
		paths = append(paths, "~/.config/unity3d/"+rimworldDir+"/Player.log")
	}
	return append(paths, "dump.log")
}

// Locate picks the log to analyze. An explicit path must exist; otherwise
// the first existing candidate wins.
func Locate(explicit string, candidates []string) (string, error) {
	if explicit != "" {
		p := ExpandPath(explicit)
		if isFile(p) {
			return p, nil
		}
		return "", fmt.Errorf("%w: %s", ErrNotFound, p)
	}

	tried := make([]string, 0, len(candidates))
	for _, c := range candidates {
		p := ExpandPath(c)
		if p == "" {
			continue
		}
		if isFile(p) {
			return p, nil
		}
		tried = append(tried, p)
	}
	return "", fmt.Errorf("%w (tried %s)", ErrNotFound, strings.Join(tried, ", "))
}

// ExpandPath resolves a leading ~ and environment variables
func ExpandPath(p string) string {
	p = os.ExpandEnv(strings.TrimSpace(p))
	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		p = filepath.Join(home, p[1:])
	}
	return filepath.FromSlash(p)
}

// ReportPath derives the summary file path for a log: dump.log maps to
// dump_analysis_report.txt, anything else to <name>_analysis_report.txt
func ReportPath(logPath string) string {
	dir := filepath.Dir(logPath)
	base := filepath.Base(logPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, name+"_analysis_report.txt")
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}
