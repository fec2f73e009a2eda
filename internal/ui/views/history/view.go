package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	historydto "pmdrill/internal/modules/history/dto"
	"pmdrill/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	List(ctx context.Context) ([]historydto.EntryOutput, error)
	Preview(ctx context.Context, id string) (string, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type EntriesLoadedMsg struct {
	Entries []historydto.EntryOutput
	Err     error
}

type PreviewLoadedMsg struct {
	ID       string
	Markdown string
	Err      error
}

// ─── list item ───────────────────────────────────────────────────────────────

type entryItem struct {
	entry historydto.EntryOutput
}

func (i entryItem) Title() string {
	return i.entry.StartTime.Local().Format("Mon 02 Jan 15:04")
}

func (i entryItem) Description() string {
	return fmt.Sprintf("%s · %d/%d answered · %s",
		humanize.Time(i.entry.StartTime), i.entry.Responses, i.entry.Questions, i.entry.Duration.Round(time.Second))
}

func (i entryItem) FilterValue() string {
	return strings.Join(i.entry.Categories, " ") + " " + i.entry.ID
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port      Port
	list      list.Model
	preview   viewport.Model
	spinner   spinner.Model
	renderer  *glamour.TermRenderer
	previewID string
	loading   bool
	width     int
	height    int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "History"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	r, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(0),
	)

	return Model{
		port:     port,
		list:     l,
		preview:  vp,
		spinner:  sp,
		renderer: r,
		loading:  true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload refetches the entry list, e.g. after a session completes.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.port.List(context.Background())
		return EntriesLoadedMsg{Entries: entries, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		if m.previewID != "" {
			cmds = append(cmds, m.loadPreviewCmd(m.previewID))
		}

	case EntriesLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "History: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "History"
		items := make([]list.Item, len(msg.Entries))
		for i, e := range msg.Entries {
			items[i] = entryItem{entry: e}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if len(msg.Entries) == 0 {
			m.previewID = ""
			m.preview.SetContent(theme.Muted.Render("Completed sessions show up here."))
		} else if id, ok := m.SelectedID(); ok {
			cmds = append(cmds, m.loadPreviewCmd(id))
		}

	case PreviewLoadedMsg:
		if msg.Err != nil {
			m.preview.SetContent(theme.Error.Render("Error: " + msg.Err.Error()))
			return m, nil
		}
		m.previewID = msg.ID
		m.preview.SetContent(m.render(msg.Markdown))
		m.preview.GotoTop()

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			if id, ok := m.SelectedID(); ok {
				cmds = append(cmds, m.loadPreviewCmd(id))
			}
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading history…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Width(max(detailW-2, 1)).
		Height(max(m.height-2, 1)).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// SelectedID returns the highlighted entry's session id, if any.
func (m Model) SelectedID() (string, bool) {
	if item, ok := m.list.SelectedItem().(entryItem); ok {
		return item.entry.ID, true
	}
	return "", false
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = max(detailW-4, 1)
	m.preview.Height = max(m.height-4, 1)
	if r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(m.preview.Width),
	); err == nil {
		m.renderer = r
	}
}

func (m Model) render(md string) string {
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(md); err == nil {
			return rendered
		}
	}
	return md
}

func (m Model) loadPreviewCmd(id string) tea.Cmd {
	return func() tea.Msg {
		md, err := m.port.Preview(context.Background(), id)
		return PreviewLoadedMsg{ID: id, Markdown: md, Err: err}
	}
}
