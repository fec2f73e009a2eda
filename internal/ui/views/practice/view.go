package practice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pmdrill/internal/modules/interview/dto"
	apperrors "pmdrill/internal/platform/errors"
	"pmdrill/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Status(ctx context.Context) (dto.StatusOutput, error)
	Answer(ctx context.Context, input dto.AnswerInput) (dto.StatusOutput, error)
	Next(ctx context.Context) (dto.StatusOutput, error)
	Previous(ctx context.Context) (dto.StatusOutput, error)
	Pause(ctx context.Context) (dto.StatusOutput, error)
	Resume(ctx context.Context) (dto.StatusOutput, error)
	Complete(ctx context.Context) (dto.StatusOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// StatusMsg carries a fresh session snapshot. Note, when set, is shown in the
// app status bar.
type StatusMsg struct {
	Status dto.StatusOutput
	Err    error
	Note   string
}

type tickMsg time.Time

const tickInterval = time.Second

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port        Port
	editor      textarea.Model
	status      dto.StatusOutput
	hasSession  bool
	draftFor    string
	saved       string
	feedback    string
	maxDuration time.Duration
	width       int
	height      int
}

func New(port Port, maxDuration time.Duration) Model {
	ta := textarea.New()
	ta.Placeholder = "Type your answer… (ctrl+s save, esc leave editor)"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle().Background(theme.Surface0)
	return Model{port: port, editor: ta, maxDuration: maxDuration}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.statusCmd(""), tick())
}

// Editing reports whether the answer editor has focus; global key bindings
// must yield while it does.
func (m Model) Editing() bool { return m.editor.Focused() }

func (m Model) HasSession() bool { return m.hasSession }

func (m Model) Status() dto.StatusOutput { return m.status }

// Draft returns the editor text when it differs from the saved answer.
func (m Model) Draft() (string, bool) {
	if !m.hasSession || m.status.Session.Status == "completed" {
		return "", false
	}
	text := strings.TrimSpace(m.editor.Value())
	if text == "" || text == m.saved {
		return "", false
	}
	return text, true
}

// SaveDraftCmd records unsaved editor text for the question it was typed
// against. It returns nil when there is nothing to save.
func (m Model) SaveDraftCmd() tea.Cmd {
	text, ok := m.Draft()
	if !ok {
		return nil
	}
	questionID := m.draftFor
	return func() tea.Msg {
		out, err := m.port.Answer(context.Background(), dto.AnswerInput{QuestionID: questionID, Content: text})
		return StatusMsg{Status: out, Err: err, Note: "draft saved"}
	}
}

// ShowFeedback displays coach output under the editor.
func (m *Model) ShowFeedback(text string) { m.feedback = text }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.statusCmd(""), tick())

	case StatusMsg:
		if msg.Err != nil {
			if errors.Is(msg.Err, apperrors.ErrNoActiveSession) {
				m.hasSession = false
				m.status = dto.StatusOutput{}
				m.draftFor, m.saved = "", ""
				m.editor.Reset()
			}
			return m, nil
		}
		m.apply(msg.Status)
		return m, nil

	case tea.KeyMsg:
		if m.editor.Focused() {
			switch msg.String() {
			case "esc":
				m.editor.Blur()
				return m, nil
			case "ctrl+s":
				return m, m.SaveDraftCmd()
			}
			var cmd tea.Cmd
			m.editor, cmd = m.editor.Update(msg)
			return m, cmd
		}
		if !m.hasSession {
			return m, nil
		}
		switch msg.String() {
		case "enter", "i":
			if m.status.Session.Status == "completed" {
				return m, nil
			}
			cmd := m.editor.Focus()
			return m, cmd
		case "n", "right":
			return m, m.navigateCmd(m.port.Next)
		case "p", "left":
			return m, m.navigateCmd(m.port.Previous)
		case " ":
			if m.status.Session.Status == "paused" {
				return m, m.callCmd(m.port.Resume, "resumed")
			}
			return m, m.callCmd(m.port.Pause, "paused")
		case "c":
			return m, m.navigateCmd(m.port.Complete)
		}
	}
	return m, nil
}

// apply installs a snapshot, reloading the editor only when the current
// question changed so typing is never clobbered by a tick.
func (m *Model) apply(status dto.StatusOutput) {
	m.hasSession = true
	m.status = status
	if status.Session.Status == "completed" {
		m.editor.Blur()
	}
	current := status.Current.ID
	saved := ""
	if status.CurrentResponse != nil {
		saved = status.CurrentResponse.Content
	}
	if current != m.draftFor {
		m.draftFor = current
		m.editor.SetValue(saved)
		m.saved = saved
		m.feedback = ""
		return
	}
	if saved != m.saved {
		if !m.editor.Focused() {
			m.editor.SetValue(saved)
		}
		m.saved = saved
	}
}

func (m Model) View() string {
	if !m.hasSession {
		msg := theme.Title.Render("No active session") + "\n\n" +
			theme.Muted.Render("Open the palette with : and type start [count] [category…]")
		return lipgloss.Place(m.width, max(m.height, 1), lipgloss.Center, lipgloss.Center, msg)
	}
	s := m.status
	var b strings.Builder
	b.WriteString(m.renderHeader() + "\n")
	b.WriteString(m.renderGrid() + "\n\n")

	q := s.Current
	b.WriteString(theme.Muted.Render(fmt.Sprintf("%s · %s", q.Category, q.Difficulty)))
	if q.EstimatedMinutes != nil {
		b.WriteString(theme.Muted.Render(fmt.Sprintf(" · ~%d min", *q.EstimatedMinutes)))
	}
	b.WriteString("\n")
	wrap := lipgloss.NewStyle().Width(max(m.width-4, 20))
	b.WriteString(wrap.Render(theme.Hot.Render(q.Prompt)) + "\n")
	if q.Context != "" {
		b.WriteString(wrap.Render(theme.Muted.Render(q.Context)) + "\n")
	}
	if len(q.Framework) > 0 {
		b.WriteString(theme.Muted.Render("Framework: "+strings.Join(q.Framework, " → ")) + "\n")
	}
	b.WriteString("\n" + m.editor.View() + "\n")
	if m.feedback != "" {
		b.WriteString("\n" + wrap.Render(m.feedback) + "\n")
	}
	b.WriteString(theme.Muted.Render(m.footer()))
	return b.String()
}

func (m Model) renderHeader() string {
	s := m.status
	t := s.Timer
	left := theme.Title.Render(fmt.Sprintf("Question %d/%d", s.Session.CurrentIndex+1, len(s.Session.Questions)))
	state := theme.Muted.Render(fmt.Sprintf("  %s · %.0f%% answered", s.Session.Status, s.CompletionPercent))
	fraction := 1.0
	if m.maxDuration > 0 {
		fraction = float64(t.Remaining) / float64(m.maxDuration)
	}
	timer := fmt.Sprintf("elapsed %s  question %s  ", Clock(t.Elapsed), Clock(t.QuestionElapsed)) +
		theme.TimerStyle(fraction).Render("left "+Clock(t.Remaining))
	gap := m.width - lipgloss.Width(left+state) - lipgloss.Width(timer)
	return left + state + strings.Repeat(" ", max(gap, 2)) + timer
}

func (m Model) renderGrid() string {
	cells := make([]string, 0, len(m.status.QuestionStates))
	for i, state := range m.status.QuestionStates {
		label := fmt.Sprintf("%d", i+1)
		switch state {
		case "current":
			cells = append(cells, theme.Current.Render(label))
		case "answered":
			cells = append(cells, theme.Answered.Render(label))
		default:
			cells = append(cells, theme.Pending.Render(label))
		}
	}
	return strings.Join(cells, " ")
}

func (m Model) footer() string {
	if m.editor.Focused() {
		return "ctrl+s: save  esc: leave editor"
	}
	if m.status.Session.Status == "completed" {
		return "session completed · ←/→: review  (tab to History)"
	}
	return "enter: answer  ←/→: prev/next  space: pause/resume  c: complete"
}

func (m *Model) resize() {
	m.editor.SetWidth(max(m.width-4, 20))
	m.editor.SetHeight(max(m.height/3, 3))
}

func (m Model) statusCmd(note string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Status(context.Background())
		return StatusMsg{Status: out, Err: err, Note: note}
	}
}

// navigateCmd saves any draft for the current question before running op.
func (m Model) navigateCmd(op func(context.Context) (dto.StatusOutput, error)) tea.Cmd {
	text, dirty := m.Draft()
	questionID := m.draftFor
	return func() tea.Msg {
		ctx := context.Background()
		if dirty {
			if _, err := m.port.Answer(ctx, dto.AnswerInput{QuestionID: questionID, Content: text}); err != nil {
				return StatusMsg{Err: err, Note: "save failed: " + err.Error()}
			}
		}
		out, err := op(ctx)
		return StatusMsg{Status: out, Err: err}
	}
}

func (m Model) callCmd(op func(context.Context) (dto.StatusOutput, error), note string) tea.Cmd {
	return func() tea.Msg {
		out, err := op(context.Background())
		return StatusMsg{Status: out, Err: err, Note: note}
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Clock formats d as m:ss, or h:mm:ss past an hour.
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h, rem := total/3600, total%3600
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, rem/60, rem%60)
	}
	return fmt.Sprintf("%d:%02d", rem/60, rem%60)
}
