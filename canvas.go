package main

import (
	"fmt"
	"image/color"
	"os"
	"strings"

	"boxmend/repair"

	"github.com/charmbracelet/lipgloss"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// Canvas is one document in the preview: its text, the analysis of that
// text, and the cells the last repair rewrote.
type Canvas struct {
	lines      []string
	analysis   repair.Report
	highlights map[point]int
}

var highlightStyles = [numColors]lipgloss.Style{
	colorRepair:  lipgloss.NewStyle().Background(lipgloss.Color("2")).Foreground(lipgloss.Color("0")),
	colorPending: lipgloss.NewStyle().Background(lipgloss.Color("3")).Foreground(lipgloss.Color("0")),
}

func NewCanvas() *Canvas {
	c := &Canvas{}
	c.SetText("")
	return c
}

// SetText replaces the document and drops all highlights.
func (c *Canvas) SetText(text string) {
	c.lines = strings.Split(text, "\n")
	c.analysis = repair.Analyze(text)
	c.highlights = make(map[point]int)
}

func (c *Canvas) Text() string {
	return strings.Join(c.lines, "\n")
}

func (c *Canvas) Lines() []string {
	return c.lines
}

// Analysis is what a repair of the current text would do.
func (c *Canvas) Analysis() repair.Report {
	return c.analysis
}

// Size returns the document extent in rune columns and rows.
func (c *Canvas) Size() (width, height int) {
	for _, line := range c.lines {
		if n := len([]rune(line)); n > width {
			width = n
		}
	}
	return width, len(c.lines)
}

// Repair rewrites the document with its repaired form and highlights the
// cells that changed.
func (c *Canvas) Repair() repair.Report {
	report := c.analysis
	c.ApplyRepair(report.Output)
	return report
}

// ApplyRepair replaces the document with text, highlighting every cell
// that differs from the current document.
func (c *Canvas) ApplyRepair(text string) {
	before := c.lines
	c.SetText(text)

	for y, line := range c.lines {
		var old []rune
		if y < len(before) {
			old = []rune(before[y])
		}
		for x, r := range []rune(line) {
			if x >= len(old) || old[x] != r {
				c.SetHighlight(x, y, colorRepair)
			}
		}
	}
}

func (c *Canvas) SetHighlight(x, y int, colorIndex int) {
	if colorIndex < 0 || colorIndex >= numColors {
		return
	}
	c.highlights[point{x, y}] = colorIndex
}

func (c *Canvas) GetHighlight(x, y int) int {
	if color, ok := c.highlights[point{x, y}]; ok {
		return color
	}
	return colorNone
}

func (c *Canvas) ClearHighlights() {
	c.highlights = make(map[point]int)
}

// HighlightCount is the number of highlighted cells.
func (c *Canvas) HighlightCount() int {
	return len(c.highlights)
}

// Render returns height screen rows of exactly width cells, starting at
// document cell (panX, panY). With showDiff, rows the next repair would
// rewrite are marked.
func (c *Canvas) Render(width, height, panX, panY int, showDiff bool) []string {
	return c.render(width, height, panX, panY, showDiff, true)
}

// RenderPlain is Render without styling or trailing blanks.
func (c *Canvas) RenderPlain(width, height, panX, panY int) []string {
	rows := c.render(width, height, panX, panY, false, false)
	for i, row := range rows {
		rows[i] = strings.TrimRight(row, " ")
	}
	return rows
}

func (c *Canvas) render(width, height, panX, panY int, showDiff, styled bool) []string {
	if height < 1 {
		height = 1
	}
	if width < 1 {
		width = 1
	}

	pending := make(map[int]bool)
	if showDiff {
		for _, row := range c.analysis.ChangedRows {
			pending[row] = true
		}
	}

	result := make([]string, height)
	for i := range result {
		y := i + panY
		var row []rune
		if y >= 0 && y < len(c.lines) {
			row = []rune(c.lines[y])
		}

		var line, segment strings.Builder
		current := colorNone
		flush := func() {
			if segment.Len() == 0 {
				return
			}
			if current == colorNone || !styled {
				line.WriteString(segment.String())
			} else {
				line.WriteString(highlightStyles[current].Render(segment.String()))
			}
			segment.Reset()
		}

		used := 0
		for x := panX; used < width; x++ {
			r := ' '
			if x >= 0 && x < len(row) {
				r = row[x]
			}
			w := runewidth.RuneWidth(r)
			if w == 0 {
				r, w = ' ', 1
			}
			if used+w > width {
				break
			}

			cellColor := c.GetHighlight(x, y)
			if cellColor == colorNone && pending[y] && x < len(row) {
				cellColor = colorPending
			}
			if cellColor != current {
				flush()
				current = cellColor
			}
			segment.WriteRune(r)
			used += w
		}
		flush()
		if used < width {
			line.WriteString(strings.Repeat(" ", width-used))
		}
		result[i] = line.String()
	}

	return result
}

func (c *Canvas) SaveToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := fmt.Fprint(file, c.Text()); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

func (c *Canvas) LoadFromFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	text, err := readInput(file)
	if err != nil {
		return err
	}
	c.SetText(text)
	return nil
}

// ExportToPNG draws the repaired layout of the document on a white image:
// detected boxes as rectangles, every other glyph as text in Go Mono. The
// box geometry only matches the repaired text, so that is what is drawn.
func (c *Canvas) ExportToPNG(filename string, opts ExportConfig) error {
	if strings.TrimSpace(c.Text()) == "" {
		return fmt.Errorf("nothing to export")
	}

	charWidth, charHeight := opts.CellWidth, opts.CellHeight
	if charWidth <= 0 {
		charWidth = 8
	}
	if charHeight <= 0 {
		charHeight = 16
	}
	fontSize := opts.FontSize
	if fontSize <= 0 {
		fontSize = 12
	}
	padding := opts.Padding
	if padding < 0 {
		padding = 0
	}

	lines := strings.Split(c.analysis.Output, "\n")
	cols, rows := 0, len(lines)
	for _, line := range lines {
		if n := len([]rune(line)); n > cols {
			cols = n
		}
	}
	imageWidth := int(float64(cols+2*padding) * charWidth)
	imageHeight := int(float64(rows+2*padding) * charHeight)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetColor(color.Black)

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)

	for _, box := range c.analysis.Boxes {
		c.drawBoxPNG(dc, box, padding, charWidth, charHeight)
	}

	for y, line := range lines {
		for x, r := range []rune(line) {
			if r == ' ' || c.isFrameCell(x, y, r) {
				continue
			}
			px := float64(x+padding) * charWidth
			py := float64(y+padding)*charHeight + charHeight*0.75
			dc.DrawString(string(r), px, py)
		}
	}

	return dc.SavePNG(filename)
}

// isFrameCell reports whether the glyph at (x, y) is a plain edge of a
// detected box, which the rectangle already covers. Tees stay as glyphs.
func (c *Canvas) isFrameCell(x, y int, r rune) bool {
	switch r {
	case repair.Horizontal, repair.Vertical, repair.TopLeft, repair.TopRight, repair.BottomLeft, repair.BottomRight:
	default:
		return false
	}
	for _, box := range c.analysis.Boxes {
		if onFrame(box, x, y) {
			return true
		}
	}
	return false
}

// onFrame reports whether (x, y) is drawn by the frame of box. Synthesized
// top and bottom rows have no frame of their own.
func onFrame(box repair.Box, x, y int) bool {
	if y < box.TopRow || y > box.BottomRow || x < box.LeftCol || x > box.RightCol {
		return false
	}
	if x == box.LeftCol || x == box.RightCol {
		return true
	}
	return (y == box.TopRow && box.HasTop) || (y == box.BottomRow && box.HasBottom)
}

func (c *Canvas) drawBoxPNG(dc *gg.Context, box repair.Box, padding int, charWidth, charHeight float64) {
	left := (float64(box.LeftCol+padding) + 0.5) * charWidth
	right := (float64(box.RightCol+padding) + 0.5) * charWidth
	top := (float64(box.TopRow+padding) + 0.5) * charHeight
	bottom := (float64(box.BottomRow+padding) + 0.5) * charHeight
	if !box.HasTop {
		top = float64(box.TopRow+padding) * charHeight
	}
	if !box.HasBottom {
		bottom = float64(box.BottomRow+padding+1) * charHeight
	}

	dc.SetLineWidth(1.0)
	dc.SetColor(color.Black)
	dc.DrawLine(left, top, left, bottom)
	dc.DrawLine(right, top, right, bottom)
	if box.HasTop {
		dc.DrawLine(left, top, right, top)
	}
	if box.HasBottom {
		dc.DrawLine(left, bottom, right, bottom)
	}
	dc.Stroke()
}
