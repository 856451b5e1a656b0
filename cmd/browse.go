package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"romhack-catalog/catalog"
	"romhack-catalog/db"
	"romhack-catalog/logger"
	"romhack-catalog/ui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalog interactively",
	Long:  `Launch an interactive TUI to search the catalog and inspect entries and their last link checks.`,
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runBrowse()
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

// detailHeight is the number of lines the detail pane and chrome take up.
const detailHeight = 14

// BrowseModel represents the state of the browse TUI.
type BrowseModel struct {
	entries       []catalog.Entry
	filtered      []catalog.Entry
	selectedIndex int
	offset        int
	search        textinput.Model
	searching     bool
	width         int
	height        int

	loadChecks func(slug string) ([]db.LinkCheck, error)
	checks     map[string][]db.LinkCheck
	error      string
}

func newBrowseModel(entries []catalog.Entry, loadChecks func(string) ([]db.LinkCheck, error)) BrowseModel {
	ti := textinput.New()
	ti.Placeholder = "title, platform, version or tag"
	ti.Prompt = "/ "
	ti.CharLimit = 64

	return BrowseModel{
		entries:    entries,
		filtered:   entries,
		search:     ti,
		width:      80,
		height:     24,
		loadChecks: loadChecks,
		checks:     make(map[string][]db.LinkCheck),
	}
}

// Message types
type checksLoadedMsg struct {
	slug   string
	checks []db.LinkCheck
}

type browseErrorMsg string

func (m BrowseModel) Init() tea.Cmd {
	return m.fetchChecks()
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scrollToSelection()
	case checksLoadedMsg:
		m.checks[msg.slug] = msg.checks
	case browseErrorMsg:
		m.error = string(msg)
	}
	return m, nil
}

func (m BrowseModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case "down", "j":
		if m.selectedIndex < len(m.filtered)-1 {
			m.selectedIndex++
		}
	case "home", "g":
		m.selectedIndex = 0
	case "end", "G":
		if len(m.filtered) > 0 {
			m.selectedIndex = len(m.filtered) - 1
		}
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "esc":
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.applySearch()
		}
	default:
		return m, nil
	}
	m.scrollToSelection()
	return m, m.fetchChecks()
}

func (m BrowseModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, m.fetchChecks()
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.applySearch()
		return m, m.fetchChecks()
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applySearch()
	return m, tea.Batch(cmd, m.fetchChecks())
}

func (m *BrowseModel) applySearch() {
	m.filtered = catalog.Filter{Search: m.search.Value()}.Apply(m.entries)
	m.selectedIndex = 0
	m.offset = 0
}

// visibleRows is how many list rows fit next to the detail pane.
func (m BrowseModel) visibleRows() int {
	if n := m.height - detailHeight; n > 3 {
		return n
	}
	return 3
}

func (m *BrowseModel) scrollToSelection() {
	rows := m.visibleRows()
	if m.selectedIndex < m.offset {
		m.offset = m.selectedIndex
	}
	if m.selectedIndex >= m.offset+rows {
		m.offset = m.selectedIndex - rows + 1
	}
}

func (m BrowseModel) selected() (catalog.Entry, bool) {
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.filtered) {
		return catalog.Entry{}, false
	}
	return m.filtered[m.selectedIndex], true
}

func (m BrowseModel) fetchChecks() tea.Cmd {
	e, ok := m.selected()
	if !ok || m.loadChecks == nil {
		return nil
	}
	if _, cached := m.checks[e.ID]; cached {
		return nil
	}
	load := m.loadChecks
	return func() tea.Msg {
		checks, err := load(e.ID)
		if err != nil {
			logger.Log.Errorw("Failed to load link checks", zap.String("slug", e.ID), zap.Error(err))
			return browseErrorMsg(fmt.Sprintf("Failed to load link checks: %v", err))
		}
		return checksLoadedMsg{slug: e.ID, checks: checks}
	}
}

func (m BrowseModel) View() string {
	if m.error != "" {
		return fmt.Sprintf("Error: %s\n", m.error)
	}

	var b strings.Builder
	b.WriteString(m.search.View())
	b.WriteString("\n")
	b.WriteString(renderBrowseHeader())
	b.WriteString("\n")

	if len(m.filtered) == 0 {
		b.WriteString("  No entries match.\n")
	}
	end := min(m.offset+m.visibleRows(), len(m.filtered))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(i, m.filtered[i]))
		b.WriteString("\n")
	}

	if e, ok := m.selected(); ok {
		b.WriteString("\n")
		b.WriteString(m.renderDetail(e))
	}

	b.WriteString("\n")
	b.WriteString(renderBrowseFooter(len(m.filtered), len(m.entries)))
	return b.String()
}

func renderBrowseHeader() string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Padding(0, 1)

	return headerStyle.Render(fmt.Sprintf("%-38s %-18s %-20s %s", "Title", "Platform", "Version", "Status"))
}

func renderBrowseFooter(shown, total int) string {
	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Italic(true)

	return footerStyle.Render(fmt.Sprintf("%d/%d  ↑/k: up  ↓/j: down  /: search  esc: clear  q: quit", shown, total))
}

func (m BrowseModel) renderRow(index int, e catalog.Entry) string {
	rowStyle := lipgloss.NewStyle().Padding(0, 1)
	if index == m.selectedIndex {
		rowStyle = rowStyle.
			Background(lipgloss.Color("8")).
			Bold(true)
	}

	// Pad before applying color to maintain column alignment
	platform := ui.Colorize(padRight(truncate(e.Platform, 18), 18), ui.PlatformColor(e.Platform))
	row := fmt.Sprintf("%s %s %s %s",
		padRight(truncate(e.Title, 38), 38),
		platform,
		padRight(truncate(e.VersionLabel, 20), 20),
		ui.Status(e.Status),
	)
	return rowStyle.Render(row)
}

func (m BrowseModel) renderDetail(e catalog.Entry) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	if m.width > 4 {
		box = box.Width(m.width - 4)
	}

	var b strings.Builder
	renderEntry(&b, e)

	checks, loaded := m.checks[e.ID]
	switch {
	case m.loadChecks == nil:
	case !loaded:
		b.WriteString("\nLink checks: loading...")
	case len(checks) == 0:
		b.WriteString("\nLink checks: never run 'romhacks verify'")
	default:
		b.WriteString("\nLink checks:")
		for _, c := range checks {
			mark := ui.Colorize("✓", ui.ColorPlayable)
			if !c.OK {
				mark = ui.Colorize("✗", 0xf85149)
			}
			fmt.Fprintf(&b, "\n  %s %-8s %s %s", mark, c.Kind, statusText(c.StatusCode), c.CheckedAt.Format("2006-01-02 15:04"))
		}
	}
	return box.Render(strings.TrimRight(b.String(), "\n"))
}

func runBrowse() error {
	_, _, err := bootstrapDB(flagConfigDir)
	if err != nil {
		return err
	}

	entries, err := db.ListEntries(db.DB)
	if err != nil {
		return fmt.Errorf("loading entries from database: %w", err)
	}

	m := newBrowseModel(entries, func(slug string) ([]db.LinkCheck, error) {
		return db.LatestLinkChecks(db.DB, slug)
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Log.Errorw("Failed to run browser", zap.Error(err))
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}
