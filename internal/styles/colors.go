package styles

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Color constants using a consistent palette
const (
	// Primary colors
	Primary     = "#7D56F4"
	PrimaryText = "#FAFAFA"

	// Status colors
	Success = "#04B575"
	Warning = "#FFA500"
	Error   = "#FF6B6B"
	Info    = "#00CED1"

	// Text colors
	Text      = "#FAFAFA"
	TextMuted = "#626262"
	TextBold  = "#90EE90"

	Accent    = "#CCCCCC"
	Highlight = "#FFFF00"
)

// Predefined styles for common use cases
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(PrimaryText)).
			Background(lipgloss.Color(Primary)).
			Padding(0, 1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Success)).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Error)).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Warning)).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Info)).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(TextMuted)).
			Italic(true)

	// Box styles
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Primary)).
			Padding(0, 1).
			Margin(0, 1)

	FocusedBoxStyle = BoxStyle.
			BorderForeground(lipgloss.Color(Highlight))

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(TextBold)).
			Margin(1, 0, 0, 0)

	KeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Info)).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Text))

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Accent)).
			Bold(true)

	// List rows in the script picker
	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(PrimaryText)).
				Background(lipgloss.Color(Primary)).
				Bold(true).
				Padding(0, 1)

	RowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Text)).
			Padding(0, 1)
)

// PrintStyled prints text with a lipgloss style to the writer
func PrintStyled(w io.Writer, style lipgloss.Style, text string) {
	fmt.Fprint(w, style.Render(text))
}

// PrintStyledln prints text with a lipgloss style and adds a newline
func PrintStyledln(w io.Writer, style lipgloss.Style, text string) {
	fmt.Fprintln(w, style.Render(text))
}

// CreateCellStyle colours a half-block cell: fg paints the top, bg the bottom
func CreateCellStyle(fr, fg, fb, br, bg, bb uint8) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", fr, fg, fb))).
		Background(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", br, bg, bb)))
}
