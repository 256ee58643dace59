package styles

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintStyled(t *testing.T) {
	var buf bytes.Buffer

	PrintStyled(&buf, LabelStyle, "Default: ")
	PrintStyledln(&buf, ValueStyle, "Repeat shooter")

	assert.Equal(t, LabelStyle.Render("Default: ")+ValueStyle.Render("Repeat shooter")+"\n", buf.String())
	assert.Contains(t, buf.String(), "Default: ")
}
