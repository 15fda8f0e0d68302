// Package tui implements the interactive composer for the ask loop: a small
// bubbletea form that gathers either labeled message blocks (direct
// strategy) or a content block plus task directive (guided strategy).
// Packaging itself stays in the compose package; the composer only collects
// strings.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	bubbletea "github.com/charmbracelet/bubbletea"

	"github.com/emberlab/ember/internal/compose"
)

// Strategy selects how the composed input will be packaged.
type Strategy string

// Composer strategies.
const (
	StrategyGuided Strategy = "guided"
	StrategyDirect Strategy = "direct"
)

// Composition is the composer's result, consumed by the ask loop.
type Composition struct {
	Strategy Strategy

	// Direct strategy: the message blocks, in order. AutoAck records that
	// the final block is the canned acknowledgement.
	Messages []string
	AutoAck  bool

	// Guided strategy fields.
	Content   string
	Directive string

	// Quit is set when the user left the loop instead of composing.
	Quit bool
}

type composerModel struct {
	strategy Strategy

	// Guided widgets.
	content   textarea.Model
	directive textinput.Model
	onContent bool // focus: content vs directive

	// Direct state: finished blocks plus the block being edited.
	messages []string
	current  textarea.Model

	err    string
	result Composition
	done   bool
}

func newComposer(strategy Strategy) composerModel {
	content := textarea.New()
	content.Placeholder = "Paste or type the content to analyze..."
	content.CharLimit = 0
	content.SetWidth(70)
	content.SetHeight(8)

	directive := textinput.New()
	directive.Placeholder = "e.g. Name the country."
	directive.CharLimit = 500
	directive.Width = 60

	current := textarea.New()
	current.Placeholder = "Message content..."
	current.CharLimit = 0
	current.SetWidth(70)
	current.SetHeight(8)

	m := composerModel{
		strategy:  strategy,
		content:   content,
		directive: directive,
		onContent: true,
		current:   current,
	}
	if strategy == StrategyGuided {
		m.content.Focus()
	} else {
		m.current.Focus()
	}
	return m
}

// Init implements bubbletea.Model.
func (m composerModel) Init() bubbletea.Cmd {
	return textarea.Blink
}

// Update implements bubbletea.Model.
func (m composerModel) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	if key, ok := msg.(bubbletea.KeyMsg); ok {
		switch key.String() {
		case "esc", "ctrl+c":
			m.result = Composition{Strategy: m.strategy, Quit: true}
			m.done = true
			return m, bubbletea.Quit
		}
		if m.strategy == StrategyGuided {
			return m.updateGuided(key)
		}
		return m.updateDirect(key)
	}

	return m.passthrough(msg)
}

func (m composerModel) updateGuided(key bubbletea.KeyMsg) (bubbletea.Model, bubbletea.Cmd) {
	switch key.String() {
	case "tab":
		m.onContent = !m.onContent
		if m.onContent {
			m.directive.Blur()
			return m, m.content.Focus()
		}
		m.content.Blur()
		return m, m.directive.Focus()
	case "ctrl+d":
		content := m.content.Value()
		directive := m.directive.Value()
		if strings.TrimSpace(content) == "" {
			m.err = "content is empty"
			return m, nil
		}
		if strings.TrimSpace(directive) == "" {
			m.err = "directive is empty"
			return m, nil
		}
		m.err = ""
		m.result = Composition{Strategy: StrategyGuided, Content: content, Directive: directive}
		m.done = true
		return m, bubbletea.Quit
	}
	return m.passthrough(key)
}

func (m composerModel) updateDirect(key bubbletea.KeyMsg) (bubbletea.Model, bubbletea.Cmd) {
	switch key.String() {
	case "ctrl+n":
		if len(m.messages)+1 >= compose.MaxMessages {
			m.err = fmt.Sprintf("at most %d messages", compose.MaxMessages)
			return m, nil
		}
		if strings.TrimSpace(m.current.Value()) == "" {
			m.err = "message is empty"
			return m, nil
		}
		m.err = ""
		m.messages = append(m.messages, m.current.Value())
		m.current.Reset()
		return m, nil
	case "ctrl+a":
		// Two-message form: auto-fill the acknowledgement as message 2.
		if len(m.messages) != 0 || strings.TrimSpace(m.current.Value()) == "" {
			m.err = "auto-fill needs exactly one composed message"
			return m, nil
		}
		m.err = ""
		m.result = Composition{
			Strategy: StrategyDirect,
			Messages: []string{m.current.Value(), compose.Acknowledgement},
			AutoAck:  true,
		}
		m.done = true
		return m, bubbletea.Quit
	case "ctrl+d":
		msgs := m.messages
		if strings.TrimSpace(m.current.Value()) != "" {
			msgs = append(msgs, m.current.Value())
		}
		if len(msgs) == 0 {
			m.err = "no messages composed"
			return m, nil
		}
		m.err = ""
		m.result = Composition{Strategy: StrategyDirect, Messages: msgs}
		m.done = true
		return m, bubbletea.Quit
	}
	return m.passthrough(key)
}

func (m composerModel) passthrough(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	var cmd bubbletea.Cmd
	switch {
	case m.strategy == StrategyDirect:
		m.current, cmd = m.current.Update(msg)
	case m.onContent:
		m.content, cmd = m.content.Update(msg)
	default:
		m.directive, cmd = m.directive.Update(msg)
	}
	return m, cmd
}

// View implements bubbletea.Model.
func (m composerModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	if m.strategy == StrategyGuided {
		b.WriteString(styleTitle.Render("  Compose: guided") + "\n\n")
		b.WriteString(styleLabel.Render("  Content") + "\n")
		b.WriteString(indent(m.content.View()) + "\n")
		b.WriteString(styleLabel.Render("  Directive") + " " + m.directive.View() + "\n")
	} else {
		b.WriteString(styleTitle.Render(fmt.Sprintf("  Compose: message %d", len(m.messages)+1)) + "\n\n")
		b.WriteString(indent(m.current.View()) + "\n")
	}
	if m.err != "" {
		b.WriteString("  " + styleError.Render(m.err) + "\n")
	}
	if m.strategy == StrategyGuided {
		b.WriteString(styleDim.Render("  ctrl+d: send   tab: switch field   esc: quit") + "\n")
	} else {
		b.WriteString(styleDim.Render("  ctrl+d: send   ctrl+n: next message   ctrl+a: send with auto-ack   esc: quit") + "\n")
	}
	return b.String()
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}

// RunComposer runs the interactive composer and returns what the user built.
func RunComposer(strategy Strategy) (Composition, error) {
	p := bubbletea.NewProgram(newComposer(strategy))
	final, err := p.Run()
	if err != nil {
		return Composition{}, fmt.Errorf("running composer: %w", err)
	}
	m, ok := final.(composerModel)
	if !ok {
		return Composition{}, fmt.Errorf("unexpected composer model %T", final)
	}
	return m.result, nil
}
