package render

import (
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/jeeftor/tether/internal/styles"
)

// asciiRamp is used when colour output is off, darkest first
const asciiRamp = " .:-=+*#%@"

// RenderImage draws img scaled down to at most cols character cells wide.
// With useColor each cell is a half block carrying two pixel rows
// (foreground above, background below); without it an ASCII ramp is used.
func RenderImage(img image.Image, writer io.Writer, cols int, useColor bool) {
	b := img.Bounds()
	if b.Empty() || cols <= 0 {
		return
	}
	if cols > b.Dx() {
		cols = b.Dx()
	}

	step := float64(b.Dx()) / float64(cols)
	// Terminal cells are roughly twice as tall as wide
	rowStep := step * 2
	rows := int(float64(b.Dy()) / rowStep)
	if rows < 1 {
		rows = 1
	}

	for row := 0; row < rows; row++ {
		top := b.Min.Y + int(float64(row)*rowStep)
		bottom := b.Min.Y + int(float64(row)*rowStep+step)
		if bottom >= b.Max.Y {
			bottom = b.Max.Y - 1
		}
		for col := 0; col < cols; col++ {
			x := b.Min.X + int(float64(col)*step)
			if useColor {
				tr, tg, tb := rgb8(img, x, top)
				br, bg, bb := rgb8(img, x, bottom)
				fmt.Fprint(writer, styles.CreateCellStyle(tr, tg, tb, br, bg, bb).Render("▀"))
			} else {
				fmt.Fprint(writer, string(asciiRamp[luma(img, x, top)*(len(asciiRamp)-1)/255]))
			}
		}
		fmt.Fprintln(writer)
	}
}

// FormatImage returns RenderImage output as a string
func FormatImage(img image.Image, cols int, useColor bool) string {
	var sb strings.Builder
	RenderImage(img, &sb, cols, useColor)
	return sb.String()
}

func rgb8(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

func luma(img image.Image, x, y int) int {
	r, g, b := rgb8(img, x, y)
	return (299*int(r) + 587*int(g) + 114*int(b)) / 1000
}
