package plugins

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeeftor/tether/internal/styles"
)

const (
	fieldCount = iota
	fieldInterval
	fieldTotal
)

// ShooterView is the interactive form for the repeat shooter parameters.
// Values are written through to the config as soon as they parse.
type ShooterView struct {
	config *ShooterConfig
	inputs []textinput.Model
	focus  int
	err    error
}

var _ tea.Model = (*ShooterView)(nil)

// NewShooterView creates a form bound to config
func NewShooterView(config *ShooterConfig) *ShooterView {
	v := &ShooterView{config: config, inputs: make([]textinput.Model, fieldTotal)}

	count := textinput.New()
	count.Prompt = "Shot count:    "
	count.CharLimit = 5
	count.Placeholder = strconv.Itoa(DefaultShotCount)
	v.inputs[fieldCount] = count

	interval := textinput.New()
	interval.Prompt = "Shot interval: "
	interval.CharLimit = 4
	interval.Placeholder = "0"
	v.inputs[fieldInterval] = interval

	v.Reset()
	return v
}

// Reset reloads the fields from the config
func (v *ShooterView) Reset() {
	v.inputs[fieldCount].SetValue(strconv.Itoa(v.config.ShotCount()))
	v.inputs[fieldInterval].SetValue(strconv.Itoa(v.config.ShotInterval()))
	for i := range v.inputs {
		v.inputs[i].CursorEnd()
	}
	v.err = nil
}

// Focus gives keyboard focus to the form
func (v *ShooterView) Focus() tea.Cmd {
	return v.inputs[v.focus].Focus()
}

// Blur removes keyboard focus and discards unparsed edits
func (v *ShooterView) Blur() {
	for i := range v.inputs {
		v.inputs[i].Blur()
	}
	v.Reset()
}

// Err returns the last validation error, if any
func (v *ShooterView) Err() error {
	return v.err
}

func (v *ShooterView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *ShooterView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return v, v.move(1)
		case "shift+tab", "up":
			return v, v.move(-1)
		}
	}

	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	v.apply()
	return v, cmd
}

func (v *ShooterView) move(delta int) tea.Cmd {
	v.inputs[v.focus].Blur()
	v.focus = (v.focus + delta + fieldTotal) % fieldTotal
	return v.inputs[v.focus].Focus()
}

// apply writes the focused field through to the config
func (v *ShooterView) apply() {
	raw := strings.TrimSpace(v.inputs[v.focus].Value())
	if raw == "" {
		v.err = nil
		return
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		v.err = fmt.Errorf("%q is not a whole number", raw)
		return
	}

	switch v.focus {
	case fieldCount:
		v.err = v.config.SetShotCount(n)
	case fieldInterval:
		v.err = v.config.SetShotInterval(n)
	}
}

func (v *ShooterView) View() string {
	var b strings.Builder
	for i := range v.inputs {
		b.WriteString(v.inputs[i].View())
		if i == fieldInterval {
			b.WriteString(styles.MutedStyle.Render(" s"))
		}
		b.WriteString("\n")
	}
	if v.err != nil {
		b.WriteString(styles.ErrorStyle.Render(v.err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

// String is the non-interactive summary used by the CLI listing
func (v *ShooterView) String() string {
	return fmt.Sprintf("Shot count: %d, Shot interval: %ds", v.config.ShotCount(), v.config.ShotInterval())
}
