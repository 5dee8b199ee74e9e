package cmd

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/fl-cli/internal/core/domain"
	"github.com/kamal-hamza/fl-cli/pkg/ui"
)

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse localized assets in a full-screen table",
	Long: `Open the mapping file in an interactive table.

Keyboard Shortcuts:
  ↑/k ↓/j     Move
  /           Filter by URL, path or category
  Esc         Clear filter
  c / Enter   Copy local path
  u           Copy remote URL
  o           Open the asset with the default application
  ?           Toggle help
  q           Quit`,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	if err := mappingRepo.Load(ctx); err != nil {
		return err
	}
	records, err := mappingRepo.List(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println(ui.FormatWarning("No mappings found."))
		fmt.Println(ui.FormatInfo("Run 'fl' to localize this site first"))
		return nil
	}

	p := tea.NewProgram(newBrowseModel(records), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running browser: %w", err)
	}
	return nil
}

// Key bindings
type browseKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Search  key.Binding
	Escape  key.Binding
	Copy    key.Binding
	CopyURL key.Binding
	Open    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Search, k.Copy, k.Help, k.Quit}
}

func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Search, k.Escape},
		{k.Copy, k.CopyURL, k.Open},
		{k.Help, k.Quit},
	}
}

var browseKeys = browseKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "move down"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear filter"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c", "enter"),
		key.WithHelp("c/enter", "copy path"),
	),
	CopyURL: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "copy url"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open file"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type browseStatusMsg struct {
	text  string
	isErr bool
}

type browseModel struct {
	records   []domain.AssetRecord
	filtered  []domain.AssetRecord
	table     table.Model
	search    textinput.Model
	help      help.Model
	keys      browseKeyMap
	searching bool
	status    string
	statusErr bool
	width     int
	height    int
}

func newBrowseModel(records []domain.AssetRecord) browseModel {
	ti := textinput.New()
	ti.Placeholder = "Filter assets..."
	ti.CharLimit = 100
	ti.Width = 50

	t := table.New(
		table.WithColumns(browseColumns(120)),
		table.WithFocused(true),
		table.WithHeight(20),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.Foreground(ui.ColorPrimary).Bold(true)
	s.Selected = s.Selected.Foreground(ui.ColorAccent).Bold(true)
	t.SetStyles(s)

	m := browseModel{
		records: records,
		table:   t,
		search:  ti,
		help:    help.New(),
		keys:    browseKeys,
		width:   120,
	}
	m.applyFilter()
	return m
}

// browseColumns splits the available width between the columns
func browseColumns(width int) []table.Column {
	flexible := width - 8 - 10 - 8
	if flexible < 40 {
		flexible = 40
	}
	return []table.Column{
		{Title: "Category", Width: 8},
		{Title: "Local path", Width: flexible * 2 / 5},
		{Title: "Size", Width: 10},
		{Title: "URL", Width: flexible * 3 / 5},
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetColumns(browseColumns(msg.Width))
		m.table.SetRows(browseRows(m.filtered, msg.Width))

		tableHeight := msg.Height - 6
		if tableHeight < 5 {
			tableHeight = 5
		}
		m.table.SetHeight(tableHeight)
		return m, nil

	case browseStatusMsg:
		m.status = msg.text
		m.statusErr = msg.isErr
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateTable(msg)
	}

	return m, nil
}

func (m browseModel) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Escape):
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.applyFilter()
		}
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if r := m.selected(); r != nil {
			return m, copyCmd(r.LocalPath)
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyURL):
		if r := m.selected(); r != nil {
			return m, copyCmd(r.URL)
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if r := m.selected(); r != nil {
			return m, openCmd(r.FilePath)
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m browseModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.applyFilter()
		return m, nil

	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil

	case tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applyFilter()
	return m, cmd
}

// applyFilter narrows the rows to the records matching the filter text
func (m *browseModel) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.search.Value()))

	if query == "" {
		m.filtered = m.records
	} else {
		m.filtered = nil
		for _, r := range m.records {
			if strings.Contains(strings.ToLower(r.URL), query) ||
				strings.Contains(strings.ToLower(r.LocalPath), query) ||
				strings.Contains(string(r.Category), query) {
				m.filtered = append(m.filtered, r)
			}
		}
	}

	m.table.SetRows(browseRows(m.filtered, m.width))
	m.table.SetCursor(0)
}

func browseRows(records []domain.AssetRecord, width int) []table.Row {
	cols := browseColumns(width)
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, table.Row{
			string(r.Category),
			ui.Truncate(r.LocalPath, cols[1].Width),
			assetSize(r),
			ui.Truncate(r.URL, cols[3].Width),
		})
	}
	return rows
}

func (m browseModel) selected() *domain.AssetRecord {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.filtered) {
		return nil
	}
	return &m.filtered[i]
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return browseStatusMsg{text: "Clipboard access failed", isErr: true}
		}
		return browseStatusMsg{text: "Copied " + text}
	}
}

func openCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if err := OpenFile(path, ""); err != nil {
			return browseStatusMsg{text: err.Error(), isErr: true}
		}
		return browseStatusMsg{text: "Opened " + relToRoot(path)}
	}
}

func (m browseModel) View() string {
	var b strings.Builder

	header := ui.StyleTitle.Render("FL Assets") + "  " +
		ui.StyleMuted.Render(fmt.Sprintf("%d of %d", len(m.filtered), len(m.records)))
	b.WriteString(header + "\n")

	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View() + "\n")
	} else {
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(ui.ColorMuted).Render(m.table.View()))
	b.WriteString("\n")

	if m.status != "" {
		if m.statusErr {
			b.WriteString(ui.FormatError(m.status))
		} else {
			b.WriteString(ui.FormatSuccess(m.status))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}
