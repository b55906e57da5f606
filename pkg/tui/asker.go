package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/actkit/actkit/pkg/interact"
)

// Asker plays interaction specs as full-screen Bubble Tea prompts. Prompts
// are rendered as markdown; select lists support arrow keys and 1-9 quick
// select. One program runs per prompt, so the terminal is released between
// actions while their commands stream output.
type Asker struct{}

// NewAsker creates a Bubble Tea backed asker.
func NewAsker() *Asker {
	return &Asker{}
}

// Ask runs one prompt to completion. Ctrl+C (and Esc outside confirms)
// aborts the whole run; a confirm answered "n" or Esc declines just that
// action.
func (a *Asker) Ask(ctx context.Context, spec interact.Spec) (*interact.Answer, error) {
	m := newPromptModel(spec)
	p := tea.NewProgram(m, tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, tea.ErrProgramKilled) {
			return nil, interact.ErrAborted
		}
		return nil, fmt.Errorf("%w: %v", interact.ErrUnavailable, err)
	}

	pm, ok := final.(promptModel)
	if !ok || pm.aborted {
		return nil, interact.ErrAborted
	}
	if pm.declined {
		return &interact.Answer{Kind: spec.Kind, Declined: true}, nil
	}
	return &interact.Answer{Kind: spec.Kind, Text: pm.value()}, nil
}

// promptModel is the Bubble Tea model for a single prompt. Only the state
// for the spec's kind is initialized.
type promptModel struct {
	spec interact.Spec

	input  textinput.Model // KindInput
	editor textarea.Model  // KindEditor
	cursor int             // KindSelect

	width    int
	done     bool
	declined bool
	aborted  bool
}

func newPromptModel(spec interact.Spec) promptModel {
	m := promptModel{spec: spec, width: 80}

	switch spec.Kind {
	case interact.KindInput:
		ti := textinput.New()
		ti.Placeholder = spec.Default
		ti.CharLimit = 4096
		ti.Width = 60
		ti.Focus()
		m.input = ti
	case interact.KindEditor:
		ta := textarea.New()
		ta.Placeholder = spec.Default
		ta.SetWidth(72)
		ta.SetHeight(8)
		ta.Focus()
		m.editor = ta
	case interact.KindSelect:
		for i, opt := range spec.Options {
			if opt == spec.Default {
				m.cursor = i
				break
			}
		}
	}
	return m
}

func (m promptModel) Init() tea.Cmd {
	switch m.spec.Kind {
	case interact.KindInput:
		return textinput.Blink
	case interact.KindEditor:
		return textarea.Blink
	}
	return nil
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.aborted = true
			return m, tea.Quit
		}
		switch m.spec.Kind {
		case interact.KindConfirm:
			return m.updateConfirm(msg)
		case interact.KindSelect:
			return m.updateSelect(msg)
		case interact.KindEditor:
			return m.updateEditor(msg)
		default:
			return m.updateInput(msg)
		}
	}

	return m.forward(msg)
}

func (m promptModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.done = true
		return m, tea.Quit
	case "n", "N", "esc":
		m.declined = true
		return m, tea.Quit
	}
	return m, nil
}

func (m promptModel) updateSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	maxIdx := len(m.spec.Options) - 1
	switch key := msg.String(); key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < maxIdx {
			m.cursor++
		}
	case "enter":
		m.done = true
		return m, tea.Quit
	case "esc":
		m.aborted = true
		return m, tea.Quit
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(key[0] - '1')
		if idx <= maxIdx {
			m.cursor = idx
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m promptModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.done = true
		return m, tea.Quit
	case "esc":
		m.aborted = true
		return m, tea.Quit
	}
	return m.forward(msg)
}

func (m promptModel) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Enter inserts a newline in the textarea, so submission is Ctrl+D.
	switch msg.String() {
	case "ctrl+d":
		m.done = true
		return m, tea.Quit
	case "esc":
		m.aborted = true
		return m, tea.Quit
	}
	return m.forward(msg)
}

// forward routes messages to the focused text component.
func (m promptModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.spec.Kind {
	case interact.KindInput:
		m.input, cmd = m.input.Update(msg)
	case interact.KindEditor:
		m.editor, cmd = m.editor.Update(msg)
	}
	return m, cmd
}

// value extracts the submitted answer, falling back to the default for
// empty text answers.
func (m promptModel) value() string {
	switch m.spec.Kind {
	case interact.KindConfirm:
		return "true"
	case interact.KindSelect:
		if m.cursor < len(m.spec.Options) {
			return m.spec.Options[m.cursor]
		}
		return m.spec.Default
	case interact.KindEditor:
		if v := m.editor.Value(); v != "" {
			return v
		}
		return m.spec.Default
	default:
		if v := m.input.Value(); v != "" {
			return v
		}
		return m.spec.Default
	}
}

func (m promptModel) View() string {
	var b strings.Builder

	b.WriteString(promptTitleStyle.Render(RenderMarkdown(m.spec.Prompt)))
	b.WriteString("\n\n")

	switch m.spec.Kind {
	case interact.KindConfirm:
		b.WriteString(keyStyle.Render("y") + keyDescStyle.Render(":yes") + "  " +
			keyStyle.Render("n") + keyDescStyle.Render(":no"))
	case interact.KindSelect:
		for i, opt := range m.spec.Options {
			b.WriteString(m.renderOption(i, opt))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(keyStyle.Render("↑↓") + keyDescStyle.Render(":select") + "  " +
			keyStyle.Render("Enter") + keyDescStyle.Render(":choose") + "  " +
			keyStyle.Render("1-9") + keyDescStyle.Render(":quick select"))
	case interact.KindEditor:
		b.WriteString(m.editor.View())
		b.WriteString("\n")
		b.WriteString(keyStyle.Render("Ctrl+D") + keyDescStyle.Render(":submit"))
	default:
		b.WriteString(m.input.View())
	}

	boxW := m.width - 4
	if boxW < 50 {
		boxW = 50
	}
	return promptBorder.Width(boxW).Render(b.String()) + "\n"
}

func (m promptModel) renderOption(idx int, opt string) string {
	prefix := "  "
	if idx == m.cursor {
		prefix = optionCurrent.Render("> ")
	}

	label := truncateLabel(opt, m.width-12)
	line := fmt.Sprintf("%s%s %s", prefix, keyStyle.Render(fmt.Sprintf("%d.", idx+1)), label)
	if opt == m.spec.Default {
		line += " " + defaultMarkStyle.Render("(default)")
	}

	if idx == m.cursor {
		return optionCurrent.Render(line)
	}
	return optionNormal.Render(line)
}

// truncateLabel trims an option label to the given display width,
// accounting for wide runes.
func truncateLabel(s string, width int) string {
	if width < 8 {
		width = 8
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
