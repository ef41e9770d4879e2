package output

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vburojevic/logscan/internal/domain"
)

// StyleSet holds all lipgloss styles for text output
type StyleSet struct {
	// Category styles
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Subsystem lipgloss.Style
	JobError  lipgloss.Style
	Recursion lipgloss.Style
	Loop      lipgloss.Style

	// Component styles
	LineNumber lipgloss.Style
	Path       lipgloss.Style
	Match      lipgloss.Style
	Muted      lipgloss.Style

	// Summary styles
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Success lipgloss.Style
	Caution lipgloss.Style
	Danger  lipgloss.Style

	// TUI styles
	Title     lipgloss.Style
	StatusBar lipgloss.Style
	Help      lipgloss.Style
}

// Styles is the active style set. Call DisableColor when output is not a terminal.
var Styles = defaultStyles()

func defaultStyles() StyleSet {
	return StyleSet{
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // Red bold
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),            // Orange
		Subsystem: lipgloss.NewStyle().Foreground(lipgloss.Color("142")),            // Yellow-green
		JobError:  lipgloss.NewStyle().Foreground(lipgloss.Color("201")).Bold(true), // Magenta bold
		Recursion: lipgloss.NewStyle().Foreground(lipgloss.Color("201")),            // Magenta
		Loop:      lipgloss.NewStyle().Foreground(lipgloss.Color("45")).Bold(true),  // Cyan bold

		LineNumber: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Path:       lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		Match:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		Muted:      lipgloss.NewStyle().Foreground(lipgloss.Color("243")),

		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(lipgloss.Color("239")),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Value:   lipgloss.NewStyle().Bold(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		Caution: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),

		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1),
		StatusBar: lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("252")).Padding(0, 1),
		Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
}

// DisableColor replaces every style with an unstyled one
func DisableColor() {
	plain := lipgloss.NewStyle()
	Styles = StyleSet{
		Error: plain, Warning: plain, Subsystem: plain, JobError: plain, Recursion: plain, Loop: plain,
		LineNumber: plain, Path: plain, Match: plain, Muted: plain,
		Header: plain, Label: plain, Value: plain, Success: plain, Caution: plain, Danger: plain,
		Title: plain, StatusBar: plain, Help: plain,
	}
}

// ResetStyles restores the default colored styles
func ResetStyles() {
	Styles = defaultStyles()
}

// CategoryStyle returns the style used for a tag category
func CategoryStyle(c domain.Category) lipgloss.Style {
	switch c {
	case domain.CategoryError:
		return Styles.Error
	case domain.CategoryWarning:
		return Styles.Warning
	case domain.CategorySubsystem:
		return Styles.Subsystem
	case domain.CategoryJobError:
		return Styles.JobError
	case domain.CategoryRecursion:
		return Styles.Recursion
	default:
		return Styles.Value
	}
}

// StatusText returns styled status text for a finished analysis
func StatusText(a *domain.Analysis) string {
	switch {
	case a.HasFaults():
		return Styles.Danger.Render("FAULTS DETECTED")
	case a.Snapshot.TotalWarnings > 0:
		return Styles.Caution.Render("WARNINGS ONLY")
	default:
		return Styles.Success.Render("OK")
	}
}
