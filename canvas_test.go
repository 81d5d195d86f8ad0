package main

import (
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"boxmend/repair"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	narrowBroken = "┌──────┐\n│ hello world │\n└──────┘"
	narrowFixed  = "┌─────────────┐\n│ hello world │\n└─────────────┘"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(rows []string) []string {
	plain := make([]string, len(rows))
	for i, row := range rows {
		plain[i] = ansiPattern.ReplaceAllString(row, "")
	}
	return plain
}

func TestCanvas_SetTextAnalyzes(t *testing.T) {
	c := NewCanvas()
	c.SetText(narrowBroken)

	assert.Equal(t, narrowBroken, c.Text())
	assert.Len(t, c.Lines(), 3)
	assert.Equal(t, narrowFixed, c.Analysis().Output)
	assert.Equal(t, []int{0, 2}, c.Analysis().ChangedRows)

	w, h := c.Size()
	assert.Equal(t, 15, w)
	assert.Equal(t, 3, h)
}

func TestCanvas_RepairHighlightsChangedCells(t *testing.T) {
	c := NewCanvas()
	c.SetText(narrowBroken)

	report := c.Repair()
	assert.True(t, report.Changed())
	assert.Equal(t, narrowFixed, c.Text())

	// Columns 7-14 of both borders are new.
	assert.Equal(t, 16, c.HighlightCount())
	assert.Equal(t, colorRepair, c.GetHighlight(7, 0))
	assert.Equal(t, colorRepair, c.GetHighlight(14, 2))
	assert.Equal(t, colorNone, c.GetHighlight(0, 0))
	assert.Equal(t, colorNone, c.GetHighlight(5, 1))

	assert.False(t, c.Analysis().Changed())

	c.ClearHighlights()
	assert.Zero(t, c.HighlightCount())
}

func TestCanvas_SetHighlightIgnoresUnknownColors(t *testing.T) {
	c := NewCanvas()
	c.SetHighlight(1, 1, numColors)
	c.SetHighlight(1, 1, colorNone)
	assert.Zero(t, c.HighlightCount())
}

func TestCanvas_Render(t *testing.T) {
	c := NewCanvas()
	c.SetText("abc\nde")

	assert.Equal(t, []string{"abc  ", "de   ", "     "}, stripANSI(c.Render(5, 3, 0, 0, false)))
	assert.Equal(t, []string{"bc   ", "e    ", "     "}, stripANSI(c.Render(5, 3, 1, 0, false)))
	assert.Equal(t, []string{"de "}, stripANSI(c.Render(3, 1, 0, 1, false)))
}

func TestCanvas_RenderWideRunes(t *testing.T) {
	c := NewCanvas()
	c.SetText("日本")
	assert.Equal(t, []string{"日 "}, stripANSI(c.Render(3, 1, 0, 0, false)))
}

func TestCanvas_RenderWithHighlights(t *testing.T) {
	c := NewCanvas()
	c.SetText(narrowBroken)
	c.Repair()

	rows := stripANSI(c.Render(16, 3, 0, 0, true))
	assert.Equal(t, []string{
		"┌─────────────┐ ",
		"│ hello world │ ",
		"└─────────────┘ ",
	}, rows)
}

func TestCanvas_RenderPlain(t *testing.T) {
	c := NewCanvas()
	c.SetText(narrowBroken)
	assert.Equal(t, []string{"┌──────┐", "│ hello wor", "└──────┘"}, c.RenderPlain(11, 3, 0, 0))
	assert.Equal(t, []string{"─────┐", "hello world", "─────┘"}, c.RenderPlain(11, 3, 2, 0))
}

func TestCanvas_RenderPlainClipsWideRunes(t *testing.T) {
	c := NewCanvas()
	c.SetText("日本語")
	// 語 would need columns 5 and 6
	assert.Equal(t, []string{"日本"}, c.RenderPlain(5, 1, 0, 0))
	assert.Equal(t, []string{"日本語"}, c.RenderPlain(6, 1, 0, 0))
}

func TestCanvas_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagram.txt")

	c := NewCanvas()
	c.SetText(narrowFixed)
	require.NoError(t, c.SaveToFile(path))

	loaded := NewCanvas()
	require.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, narrowFixed, loaded.Text())
}

func TestCanvas_LoadNormalizesLineEndings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crlf.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\r\nb\r\n"), 0644))

	c := NewCanvas()
	require.NoError(t, c.LoadFromFile(path))
	assert.Equal(t, "a\nb\n", c.Text())
}

func TestCanvas_LoadMissingFile(t *testing.T) {
	c := NewCanvas()
	assert.Error(t, c.LoadFromFile(filepath.Join(t.TempDir(), "missing.txt")))
}

func TestCanvas_ExportToPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagram.png")

	c := NewCanvas()
	c.SetText(narrowFixed)
	require.NoError(t, c.ExportToPNG(path, DefaultConfig().Export))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	img, err := png.DecodeConfig(file)
	require.NoError(t, err)
	// (15 columns + 2*2 padding) * 8, (3 rows + 2*2 padding) * 16
	assert.Equal(t, 152, img.Width)
	assert.Equal(t, 112, img.Height)
}

func TestCanvas_ExportToPNGDrawsRepairedLayout(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.png")
	fixed := filepath.Join(dir, "fixed.png")

	c := NewCanvas()
	c.SetText(narrowBroken)
	require.NoError(t, c.ExportToPNG(broken, DefaultConfig().Export))
	assert.Equal(t, narrowBroken, c.Text())

	c.SetText(narrowFixed)
	require.NoError(t, c.ExportToPNG(fixed, DefaultConfig().Export))

	brokenData, err := os.ReadFile(broken)
	require.NoError(t, err)
	fixedData, err := os.ReadFile(fixed)
	require.NoError(t, err)
	assert.Equal(t, fixedData, brokenData)
}

func TestOnFrame(t *testing.T) {
	b := repair.Box{TopRow: 2, BottomRow: 5, LeftCol: 3, RightCol: 9, HasTop: true, HasBottom: false}
	assert.True(t, onFrame(b, 5, 2))
	assert.True(t, onFrame(b, 3, 4))
	assert.True(t, onFrame(b, 9, 5))
	assert.False(t, onFrame(b, 5, 5))
	assert.False(t, onFrame(b, 5, 3))
	assert.False(t, onFrame(b, 10, 2))
}

func TestCanvas_ExportEmpty(t *testing.T) {
	c := NewCanvas()
	err := c.ExportToPNG(filepath.Join(t.TempDir(), "empty.png"), DefaultConfig().Export)
	assert.ErrorContains(t, err, "nothing to export")
}
