package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pmdrill/internal/ui/theme"
)

const maxSuggestions = 6

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

// PaletteCommand describes one entry offered by the palette.
type PaletteCommand struct {
	Name  string
	Usage string
	Help  string
}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	hintStyle     = lipgloss.NewStyle().Foreground(theme.Subtext0)
	selectedStyle = lipgloss.NewStyle().Foreground(theme.Peach).Bold(true)
)

// Palette is a command-palette overlay backed by bubbles/textinput. Up and
// down move through suggestions; tab completes the highlighted command name.
type Palette struct {
	input    textinput.Model
	commands []PaletteCommand
	cursor   int
	visible  bool
	width    int
}

func NewPalette(commands []PaletteCommand) Palette {
	ti := textinput.New()
	ti.Placeholder = "type a command…"
	ti.CharLimit = 256
	return Palette{input: ti, commands: commands}
}

func (p Palette) Visible() bool { return p.visible }

// Open shows the palette, clears the input, and returns the focus command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.cursor = 0
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

// Suggestions returns commands whose name contains the first word typed so
// far, prefix matches first.
func (p Palette) Suggestions() []PaletteCommand {
	fields := strings.Fields(strings.ToLower(p.input.Value()))
	if len(fields) == 0 {
		return p.commands
	}
	word := fields[0]
	var prefix, contains []PaletteCommand
	for _, c := range p.commands {
		switch {
		case strings.HasPrefix(c.Name, word):
			prefix = append(prefix, c)
		case strings.Contains(c.Name, word):
			contains = append(contains, c)
		}
	}
	return append(prefix, contains...)
}

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case "up":
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil
		case "down":
			if p.cursor < min(len(p.Suggestions()), maxSuggestions)-1 {
				p.cursor++
			}
			return p, nil
		case "tab":
			p.complete()
			return p, nil
		}
	}
	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.cursor = 0
	}
	return p, cmd
}

// complete replaces the typed command word with the highlighted suggestion
// and keeps any arguments already entered.
func (p *Palette) complete() {
	suggestions := p.Suggestions()
	if len(suggestions) == 0 {
		return
	}
	chosen := suggestions[min(p.cursor, len(suggestions)-1)]
	fields := strings.Fields(p.input.Value())
	args := ""
	if len(fields) > 1 {
		args = " " + strings.Join(fields[1:], " ")
	}
	p.input.SetValue(chosen.Name + args + " ")
	p.input.CursorEnd()
	p.cursor = 0
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	suggestions := p.Suggestions()
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command Palette") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if len(suggestions) > 0 {
		sb.WriteString("\n")
		for i, c := range suggestions {
			line := "  " + c.Usage
			if c.Help != "" {
				line += "  " + c.Help
			}
			if i == p.cursor {
				sb.WriteString(selectedStyle.Render("› "+strings.TrimPrefix(line, "  ")) + "\n")
				continue
			}
			sb.WriteString(hintStyle.Render(line) + "\n")
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}
