package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to half-block terminal cells and draws
// them on the screen. Each terminal row shows two framebuffer rows: ▀ with
// the top pixel as foreground and the bottom pixel as background.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col-area.Min.X < fb.Width; col++ {
			x := col - area.Min.X
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(x, topY)),
					Bg: rgbaToColor(fb.GetPixel(x, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// Display is a screen that can present what was drawn on it, such as
// *uv.Terminal.
type Display interface {
	uv.Screen
	Display() error
}

// TerminalRenderer blits framebuffers onto a terminal grid of cols x rows
// cells, one framebuffer column per cell and two rows per cell.
type TerminalRenderer struct {
	scr        Display
	cols, rows int
}

// NewTerminalRenderer creates a renderer for a cols x rows cell area.
func NewTerminalRenderer(scr Display, cols, rows int) *TerminalRenderer {
	return &TerminalRenderer{scr: scr, cols: max(cols, 1), rows: max(rows, 1)}
}

// FramebufferSize returns the framebuffer dimensions that fill the area.
func (t *TerminalRenderer) FramebufferSize() (width, height int) {
	return t.cols, t.rows * 2
}

// Render draws fb onto the screen buffer.
func (t *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Draw(t.scr, uv.Rect(0, 0, t.cols, t.rows))
}

// Flush presents the screen buffer.
func (t *TerminalRenderer) Flush() error {
	return t.scr.Display()
}
