package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	catalogdto "pmdrill/internal/modules/catalog/dto"
	coachdto "pmdrill/internal/modules/coach/dto"
	historydto "pmdrill/internal/modules/history/dto"
	interviewdto "pmdrill/internal/modules/interview/dto"
	apperrors "pmdrill/internal/platform/errors"
	"pmdrill/internal/ui/components"
	"pmdrill/internal/ui/theme"
	historyview "pmdrill/internal/ui/views/history"
	practiceview "pmdrill/internal/ui/views/practice"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type interviewPort interface {
	practiceview.Port
	Start(ctx context.Context, input interviewdto.StartInput) (interviewdto.StartOutput, error)
	Jump(ctx context.Context, index int) (interviewdto.StatusOutput, error)
	Clear(ctx context.Context) error
}

type historyPort interface {
	historyview.Port
	Export(ctx context.Context, input historydto.ExportInput) (historydto.ExportOutput, error)
	Remove(ctx context.Context, id string) (bool, error)
}

type catalogPort interface {
	Reload(ctx context.Context) (catalogdto.ReloadOutput, error)
}

type coachPort interface {
	RequestQuestion(ctx context.Context, input coachdto.QuestionInput) (coachdto.QuestionOutput, error)
	AnalyzeResponse(ctx context.Context, input coachdto.AnalyzeInput) (coachdto.AnalysisOutput, error)
}

// Options carries the session defaults used by the start command.
type Options struct {
	QuestionCount int
	Randomize     bool
	MaxDuration   time.Duration
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabPractice tabID = iota
	tabHistory
	tabCount
)

var tabLabels = [tabCount]string{"Practice", "History"}

// ─── async messages ───────────────────────────────────────────────────────────

type noteMsg struct {
	note string
	err  error
}

type feedbackMsg struct {
	analysis coachdto.AnalysisOutput
	err      error
}

type historyChangedMsg struct{ note string }

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab      key.Binding
	Help     key.Binding
	Palette  key.Binding
	Quit     key.Binding
	Answer   key.Binding
	Save     key.Binding
	Navigate key.Binding
	Pause    key.Binding
	Complete key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:  key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit (saves draft)")),
		Answer:   key.NewBinding(key.WithKeys("enter", "i"), key.WithHelp("enter", "write answer")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save answer")),
		Navigate: key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "prev/next question")),
		Pause:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume")),
		Complete: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete session")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Answer, k.Save, k.Navigate},
		{k.Pause, k.Complete},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

// paletteCommands lists what executePalette understands.
var paletteCommands = []components.PaletteCommand{
	{Name: "start", Usage: "start [count] [category...]", Help: "new session from the catalog"},
	{Name: "pause", Usage: "pause"},
	{Name: "resume", Usage: "resume"},
	{Name: "complete", Usage: "complete", Help: "finish and record in history"},
	{Name: "clear", Usage: "clear", Help: "discard without recording"},
	{Name: "jump", Usage: "jump <n>", Help: "go to question n"},
	{Name: "coach:question", Usage: "coach:question [category] [topic]", Help: "one-question session from the coach"},
	{Name: "coach:analyze", Usage: "coach:analyze", Help: "score the current answer"},
	{Name: "export", Usage: "export [json|markdown] [file|clipboard]", Help: "selected history entry"},
	{Name: "remove", Usage: "remove", Help: "selected history entry"},
	{Name: "reload", Usage: "reload", Help: "re-read the question catalog"},
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the help overlay,
// and the command palette; session and history rendering live in sub-views.
type Model struct {
	interview interviewPort
	history   historyPort
	catalog   catalogPort
	coach     coachPort
	opts      Options

	practiceView practiceview.Model
	historyView  historyview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	lastState string
	status    string
	width     int
	height    int
}

func NewModel(interview interviewPort, history historyPort, catalog catalogPort, coach coachPort, opts Options) Model {
	if opts.QuestionCount < 1 {
		opts.QuestionCount = 5
	}
	return Model{
		interview:    interview,
		history:      history,
		catalog:      catalog,
		coach:        coach,
		opts:         opts,
		practiceView: practiceview.New(interview, opts.MaxDuration),
		historyView:  historyview.New(history),
		activeTab:    tabPractice,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(paletteCommands),
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.practiceView.Init(), m.historyView.Init())
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		if _, isKey := msg.(tea.KeyMsg); isKey {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case practiceview.StatusMsg:
		if msg.Note != "" {
			m.status = msg.Note
		}
		if msg.Err != nil && !errors.Is(msg.Err, apperrors.ErrNoActiveSession) {
			m.status = "session: " + msg.Err.Error()
		}
		state := msg.Status.Session.Status
		if msg.Err == nil && state == "completed" && m.lastState != "completed" {
			if msg.Status.Timer.AutoCompleted {
				m.status = "time is up: session completed"
			}
			cmds = append(cmds, m.historyView.Reload())
		}
		if msg.Err == nil {
			m.lastState = state
		} else if errors.Is(msg.Err, apperrors.ErrNoActiveSession) {
			m.lastState = ""
		}
		var cmd tea.Cmd
		m.practiceView, cmd = m.practiceView.Update(msg)
		return m, tea.Batch(append(cmds, cmd)...)

	case noteMsg:
		if msg.err != nil {
			m.status = msg.note + ": " + msg.err.Error()
		} else {
			m.status = msg.note
		}
		return m, nil

	case feedbackMsg:
		if msg.err != nil {
			m.status = "coach: " + msg.err.Error()
			return m, nil
		}
		m.practiceView.ShowFeedback(renderFeedback(msg.analysis))
		m.status = fmt.Sprintf("coach score %.1f/%d", msg.analysis.Score, msg.analysis.MaxScore)
		return m, nil

	case historyChangedMsg:
		m.status = msg.note
		return m, m.historyView.Reload()

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quitCmd()
		}
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		// Yield to the editor or a list filter while the user is typing.
		if m.typing() {
			return m, m.updateActive(msg)
		}
		switch msg.String() {
		case "q":
			return m, m.quitCmd()
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		}
		return m, m.updateActive(msg)
	}

	// Non-key messages reach both views so the timer keeps ticking on any tab.
	var pCmd, hCmd tea.Cmd
	m.practiceView, pCmd = m.practiceView.Update(msg)
	m.historyView, hCmd = m.historyView.Update(msg)
	cmds = append(cmds, pCmd, hCmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) updateActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.activeTab {
	case tabPractice:
		m.practiceView, cmd = m.practiceView.Update(msg)
	case tabHistory:
		m.historyView, cmd = m.historyView.Update(msg)
	}
	return cmd
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabHistory:
		content = m.historyView.View()
	default:
		content = m.practiceView.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "pmdrill  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.practiceView.HasSession() {
		s := m.practiceView.Status()
		left = theme.Hot.Render(fmt.Sprintf("● %s %s", s.Session.Status, practiceview.Clock(s.Timer.Remaining))) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	selected, _ := m.historyView.SelectedID()

	switch parts[0] {
	case "start":
		count := m.opts.QuestionCount
		categories := parts[1:]
		if len(categories) > 0 {
			if n, err := strconv.Atoi(categories[0]); err == nil {
				count = n
				categories = categories[1:]
			}
		}
		m.activeTab = tabPractice
		return m, m.startCmd(interviewdto.StartInput{
			QuestionCount: count,
			Randomize:     m.opts.Randomize,
			Filter:        catalogdto.FilterInput{Categories: categories},
		})

	case "pause":
		return m, m.sessionCmd(m.interview.Pause, "paused")
	case "resume":
		return m, m.sessionCmd(m.interview.Resume, "resumed")
	case "complete":
		return m, m.sequenceWithDraft(m.sessionCmd(m.interview.Complete, "session completed"))

	case "clear":
		return m, func() tea.Msg {
			if err := m.interview.Clear(context.Background()); err != nil {
				return noteMsg{note: "clear", err: err}
			}
			return practiceview.StatusMsg{Err: apperrors.ErrNoActiveSession, Note: "session cleared"}
		}

	case "jump":
		if len(parts) < 2 {
			m.status = "usage: jump <n>"
			return m, nil
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid question number"
			return m, nil
		}
		return m, m.sequenceWithDraft(m.sessionCmd(func(ctx context.Context) (interviewdto.StatusOutput, error) {
			return m.interview.Jump(ctx, n-1)
		}, ""))

	case "coach:question":
		if m.coach == nil {
			m.status = "coach is not configured"
			return m, nil
		}
		category, topic := "", ""
		if len(parts) >= 2 {
			category = parts[1]
		}
		if len(parts) >= 3 {
			topic = strings.Join(parts[2:], " ")
		}
		m.activeTab = tabPractice
		return m, m.coachQuestionCmd(category, topic)

	case "coach:analyze":
		if m.coach == nil {
			m.status = "coach is not configured"
			return m, nil
		}
		return m, m.analyzeCmd()

	case "export":
		if selected == "" {
			m.status = "no history entry selected"
			return m, nil
		}
		format, target := historydto.ExportMarkdown, historydto.TargetFile
		if len(parts) >= 2 {
			format = historydto.ExportFormat(parts[1])
		}
		if len(parts) >= 3 {
			target = historydto.ExportTarget(parts[2])
		}
		return m, func() tea.Msg {
			out, err := m.history.Export(context.Background(), historydto.ExportInput{ID: selected, Format: format, Target: target})
			if err != nil {
				return noteMsg{note: "export", err: err}
			}
			return noteMsg{note: fmt.Sprintf("exported %s to %s", out.Filename, out.Location)}
		}

	case "remove":
		if selected == "" {
			m.status = "no history entry selected"
			return m, nil
		}
		return m, func() tea.Msg {
			removed, err := m.history.Remove(context.Background(), selected)
			if err != nil {
				return noteMsg{note: "remove", err: err}
			}
			if !removed {
				return noteMsg{note: "entry already gone"}
			}
			return historyChangedMsg{note: "removed " + selected}
		}

	case "reload":
		if m.catalog == nil {
			m.status = "catalog reload is not available"
			return m, nil
		}
		return m, func() tea.Msg {
			out, err := m.catalog.Reload(context.Background())
			if err != nil {
				return noteMsg{note: "reload catalog", err: err}
			}
			return noteMsg{note: fmt.Sprintf("catalog reloaded: %d questions", out.Questions)}
		}

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) typing() bool {
	switch m.activeTab {
	case tabPractice:
		return m.practiceView.Editing()
	case tabHistory:
		return m.historyView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.practiceView, _ = m.practiceView.Update(sz)
	m.historyView, _ = m.historyView.Update(sz)
}

// quitCmd records any unsaved answer before exiting.
func (m Model) quitCmd() tea.Cmd {
	return m.sequenceWithDraft(tea.Quit)
}

func (m Model) sequenceWithDraft(next tea.Cmd) tea.Cmd {
	if draft := m.practiceView.SaveDraftCmd(); draft != nil {
		return tea.Sequence(draft, next)
	}
	return next
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) startCmd(input interviewdto.StartInput) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		out, err := m.interview.Start(ctx, input)
		if errors.Is(err, apperrors.ErrEmptySelection) {
			return noteMsg{note: "no questions match that filter"}
		}
		if err != nil {
			return noteMsg{note: "start", err: err}
		}
		note := fmt.Sprintf("started %d questions", out.Selected)
		if out.Shortfall {
			note = fmt.Sprintf("only %d of %d requested questions matched", out.Selected, out.Requested)
		}
		status, err := m.interview.Status(ctx)
		return practiceview.StatusMsg{Status: status, Err: err, Note: note}
	}
}

func (m Model) sessionCmd(op func(context.Context) (interviewdto.StatusOutput, error), note string) tea.Cmd {
	return func() tea.Msg {
		out, err := op(context.Background())
		return practiceview.StatusMsg{Status: out, Err: err, Note: note}
	}
}

func (m Model) coachQuestionCmd(category, topic string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		q, err := m.coach.RequestQuestion(ctx, coachdto.QuestionInput{Category: category, Topic: topic})
		if err != nil {
			return noteMsg{note: "coach", err: err}
		}
		if _, err := m.interview.Start(ctx, interviewdto.StartInput{
			QuestionCount: 1,
			Questions: []interviewdto.QuestionView{{
				ID:               q.ID,
				Prompt:           q.Prompt,
				Category:         q.Category,
				Difficulty:       q.Difficulty,
				Context:          q.Context,
				Framework:        q.Framework,
				EstimatedMinutes: q.EstimatedMinutes,
				Tags:             q.Tags,
				FollowUps:        q.FollowUps,
			}},
		}); err != nil {
			return noteMsg{note: "start", err: err}
		}
		status, err := m.interview.Status(ctx)
		return practiceview.StatusMsg{Status: status, Err: err, Note: "coach question ready"}
	}
}

func (m Model) analyzeCmd() tea.Cmd {
	status := m.practiceView.Status()
	answer, dirty := m.practiceView.Draft()
	if !dirty && status.CurrentResponse != nil {
		answer = status.CurrentResponse.Content
	}
	q := status.Current
	return func() tea.Msg {
		if strings.TrimSpace(answer) == "" {
			return noteMsg{note: "write an answer before asking the coach"}
		}
		out, err := m.coach.AnalyzeResponse(context.Background(), coachdto.AnalyzeInput{
			QuestionID: q.ID,
			Prompt:     q.Prompt,
			Category:   q.Category,
			Framework:  q.Framework,
			Answer:     answer,
		})
		return feedbackMsg{analysis: out, err: err}
	}
}

func renderFeedback(a coachdto.AnalysisOutput) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Coach: %.1f/%d", a.Score, a.MaxScore)))
	if a.Cached {
		b.WriteString(theme.Muted.Render(" (cached)"))
	}
	b.WriteString("\n")
	section := func(title string, items []string, style lipgloss.Style) {
		for _, item := range items {
			b.WriteString(style.Render(title) + " " + item + "\n")
		}
	}
	section("+", a.Strengths, lipgloss.NewStyle().Foreground(theme.Green))
	section("-", a.Weaknesses, theme.Error)
	section("→", a.Suggestions, theme.Muted)
	return strings.TrimRight(b.String(), "\n")
}
