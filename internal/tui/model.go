package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vburojevic/logscan/internal/domain"
	"github.com/vburojevic/logscan/internal/filter"
	"github.com/vburojevic/logscan/internal/output"
)

// MaxEntries bounds how many lines the viewer keeps in memory
const MaxEntries = 10000

var (
	highlightStyle = lipgloss.NewStyle().Background(lipgloss.Color("57")).Foreground(lipgloss.Color("230")).Bold(true)
)

// Entry is one classified log line
type Entry struct {
	Line       int
	Text       string
	Tags       []domain.Tag
	Repetition *domain.RepetitionEvent
}

// Result is sent once the whole log has been processed
type Result struct {
	Analysis *domain.Analysis
	Err      error
}

// Model represents the TUI state
type Model struct {
	entries     *entryRing
	lineFilter  filter.Filter
	content     string
	viewport    viewport.Model
	textinput   textinput.Model
	entryChan   <-chan Entry
	doneChan    <-chan Result
	width       int
	height      int
	ready       bool
	searching   bool
	searchQuery string
	category    domain.Category
	showAll     bool
	follow      bool
	truncate    int
	stats       Stats
	source      string
	done        *Result
}

// Stats counts tags per category as lines arrive
type Stats struct {
	Lines       int
	Errors      int
	Warnings    int
	Subsystem   int
	JobErrors   int
	Recursion   int
	Repetitions int
}

// EntryMsg is a message containing a classified line
type EntryMsg Entry

// DoneMsg signals the end of the input
type DoneMsg Result

// TickMsg triggers periodic updates
type TickMsg time.Time

// New creates a new TUI model fed by entryChan. doneChan receives exactly one Result.
func New(source string, truncate int, entryChan <-chan Entry, doneChan <-chan Result) Model {
	ti := textinput.New()
	ti.Placeholder = "Filter lines..."
	ti.CharLimit = 100
	ti.Width = 40

	return Model{
		entries:   newEntryRing(MaxEntries),
		textinput: ti,
		entryChan: entryChan,
		doneChan:  doneChan,
		follow:    true,
		truncate:  truncate,
		source:    source,
	}
}

// WithLineFilter returns a copy of the model that only shows lines passing f
func (m Model) WithLineFilter(f filter.Filter) Model {
	m.lineFilter = f
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForEntry(m.entryChan),
		waitForDone(m.doneChan),
		tickCmd(),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			switch msg.String() {
			case "esc":
				m.searching = false
				m.textinput.Blur()
				m.searchQuery = ""
				m.updateFilter()
			case "enter":
				m.searching = false
				m.textinput.Blur()
				m.searchQuery = m.textinput.Value()
				m.updateFilter()
			default:
				m.textinput, cmd = m.textinput.Update(msg)
				cmds = append(cmds, cmd)
			}
		} else {
			switch msg.String() {
			case "q", "ctrl+c":
				return m, tea.Quit
			case "/":
				m.searching = true
				m.textinput.Focus()
				return m, textinput.Blink
			case "esc":
				if m.searchQuery != "" {
					m.searchQuery = ""
					m.textinput.SetValue("")
					m.updateFilter()
				}
			case "a":
				m.showAll = !m.showAll
				m.updateFilter()
			case "f":
				m.follow = !m.follow
				if m.follow {
					m.viewport.GotoBottom()
				}
			case "0":
				m.setCategory("")
			case "1":
				m.setCategory(domain.CategoryError)
			case "2":
				m.setCategory(domain.CategoryWarning)
			case "3":
				m.setCategory(domain.CategorySubsystem)
			case "4":
				m.setCategory(domain.CategoryJobError)
			case "5":
				m.setCategory(domain.CategoryRecursion)
			case "g", "home":
				m.viewport.GotoTop()
			case "G", "end":
				m.viewport.GotoBottom()
			case "j", "down":
				m.viewport.LineDown(1)
			case "k", "up":
				m.viewport.LineUp(1)
			case "ctrl+d", "pgdown":
				m.viewport.HalfViewDown()
			case "ctrl+u", "pgup":
				m.viewport.HalfViewUp()
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		footerHeight := 2
		viewportHeight := m.height - headerHeight - footerHeight

		if !m.ready {
			m.viewport = viewport.New(m.width, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = viewportHeight
		}
		m.updateFilter()

	case EntryMsg:
		m.addEntry(Entry(msg))
		cmds = append(cmds, waitForEntry(m.entryChan))

	case DoneMsg:
		res := Result(msg)
		m.done = &res

	case TickMsg:
		cmds = append(cmds, tickCmd())
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) setCategory(c domain.Category) {
	m.category = c
	m.updateFilter()
}

func (m *Model) addEntry(e Entry) {
	m.stats.Lines = e.Line
	for _, t := range e.Tags {
		switch t.Category {
		case domain.CategoryError:
			m.stats.Errors++
		case domain.CategoryWarning:
			m.stats.Warnings++
		case domain.CategorySubsystem:
			m.stats.Subsystem++
		case domain.CategoryJobError:
			m.stats.JobErrors++
		case domain.CategoryRecursion:
			m.stats.Recursion++
		}
	}
	if e.Repetition != nil {
		m.stats.Repetitions++
	}

	match := m.activeFilter()
	if old, evicted := m.entries.Push(e); evicted && matches(match, old) {
		if i := strings.IndexByte(m.content, '\n'); i >= 0 {
			m.content = m.content[i+1:]
		} else {
			m.content = ""
		}
	}

	if matches(match, e) {
		line := m.formatEntry(e)
		if m.content == "" {
			m.content = line
		} else {
			m.content += "\n" + line
		}
		m.updateViewport()
	}
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return fmt.Sprintf("%s\n%s\n%s", m.renderHeader(), m.viewport.View(), m.renderFooter())
}

func (m *Model) renderHeader() string {
	titleStyle := output.Styles.Title.
		Background(lipgloss.Color("236")).
		Width(m.width)

	title := "logscan: " + m.source
	switch {
	case m.done == nil:
		title += " [SCANNING]"
	case m.done.Err != nil:
		title += " [READ ERROR]"
	default:
		title += " [DONE]"
	}
	if !m.follow {
		title += " [NO-FOLLOW]"
	}

	info := fmt.Sprintf("Lines: %d | %s | %s | Subsystem: %d | %s | %s | %s",
		m.stats.Lines,
		output.Styles.Error.Render(fmt.Sprintf("Errors: %d", m.stats.Errors)),
		output.Styles.Warning.Render(fmt.Sprintf("Warnings: %d", m.stats.Warnings)),
		m.stats.Subsystem,
		output.Styles.JobError.Render(fmt.Sprintf("Job: %d", m.stats.JobErrors)),
		output.Styles.Recursion.Render(fmt.Sprintf("Recursion: %d", m.stats.Recursion)),
		output.Styles.Loop.Render(fmt.Sprintf("Loops: %d", m.stats.Repetitions)),
	)
	if m.category != "" {
		info += " | Only: " + m.category.Label()
	}
	if m.searchQuery != "" {
		info += fmt.Sprintf(" | Filter: %q", m.searchQuery)
	}

	infoStyle := output.Styles.Help.Width(m.width)
	return titleStyle.Render(title) + "\n" + infoStyle.Render(info)
}

func (m *Model) renderFooter() string {
	if m.searching {
		return m.textinput.View()
	}
	help := "q:quit /:filter 0-5:category a:all lines f:follow g/G:top/bottom j/k:scroll"
	return output.Styles.Help.Width(m.width).Render(help)
}

func (m *Model) updateFilter() {
	match := m.activeFilter()
	var b strings.Builder

	for _, e := range m.entries.All() {
		if !matches(match, e) {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.formatEntry(e))
	}

	m.content = b.String()
	m.updateViewport()
}

func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	m.viewport.SetContent(m.content)
	if m.follow {
		m.viewport.GotoBottom()
	}
}

// activeFilter combines the line filter with the tagged-only, category and
// text filters selected in the viewer
func (m *Model) activeFilter() filter.Filter {
	chain := filter.NewChain(m.lineFilter)
	if !m.showAll {
		chain.Add(filter.TaggedFilter{})
	}
	if m.category != "" {
		chain.Add(filter.NewCategoryFilter(m.category))
	}
	if m.searchQuery != "" {
		chain.Add(filter.NewTextFilter(m.searchQuery))
	}
	return chain
}

func matches(f filter.Filter, e Entry) bool {
	return f.Match(&filter.Line{Text: e.Text, Tags: e.Tags, Repeated: e.Repetition != nil})
}

func (m *Model) formatEntry(e Entry) string {
	var b strings.Builder
	b.WriteString(output.Styles.LineNumber.Render(fmt.Sprintf("%7d", e.Line)))
	b.WriteByte(' ')

	if e.Repetition != nil {
		b.WriteString(output.Styles.Loop.Render(fmt.Sprintf("[loop %d-%d x%d] ", e.Repetition.Start, e.Repetition.End(), e.Repetition.Length)))
	}
	for _, t := range e.Tags {
		label := string(t.Category)
		if t.SubType != "" {
			label += ":" + t.SubType
		}
		b.WriteString(output.CategoryStyle(t.Category).Render("["+label+"]") + " ")
	}

	limit := m.truncate
	if m.width > 0 {
		if w := m.width - 20; w > 20 && (limit <= 0 || w < limit) {
			limit = w
		}
	}
	text := output.Truncate(e.Text, limit)
	if m.searchQuery != "" {
		text = highlight(text, m.searchQuery)
	}
	b.WriteString(text)
	return b.String()
}

func highlight(s, query string) string {
	if query == "" || s == "" {
		return s
	}
	qs := strings.ToLower(query)
	ls := strings.ToLower(s)
	if len(ls) != len(s) {
		// byte offsets differ after folding
		return s
	}
	var b strings.Builder
	for {
		idx := strings.Index(ls, qs)
		if idx < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:idx])
		b.WriteString(highlightStyle.Render(s[idx : idx+len(qs)]))
		s = s[idx+len(qs):]
		ls = ls[idx+len(qs):]
	}
	return b.String()
}

// waitForEntry creates a command that waits for the next line
func waitForEntry(ch <-chan Entry) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return EntryMsg(e)
	}
}

// waitForDone creates a command that waits for the final result
func waitForDone(ch <-chan Result) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-ch
		if !ok {
			return nil
		}
		return DoneMsg(res)
	}
}

// tickCmd creates a periodic tick command
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
