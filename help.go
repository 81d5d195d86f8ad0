package main

import (
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# boxmend

Repairs box diagrams damaged by editing: drifted right borders, missing
corners and border rows, duplicate bars, stray border glyphs and shifted
indentation.

## Repair

| key | action |
|-----|--------|
| r | repair the current buffer |
| d | toggle highlighting of rows a repair would change |
| u / U | undo / redo |

## Files

| key | action |
|-----|--------|
| s | save |
| o | open in the current buffer |
| O | open in a new buffer |
| e | export PNG of the repaired layout |
| E | export the visible screen as text |

## Clipboard

| key | action |
|-----|--------|
| y | copy the current buffer |
| p | paste into a new buffer |

## Buffers and scrolling

| key | action |
|-----|--------|
| { / } | previous / next buffer |
| x | close buffer |
| h j k l, arrows | scroll (shift scrolls faster) |
| g | back to the top left |

## General

| key | action |
|-----|--------|
| ? | toggle this help |
| q, ctrl+c | quit |
`

// renderHelp renders the help page for a terminal width. The raw Markdown
// is returned if rendering fails.
func renderHelp(width int) string {
	if width < 20 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width-2),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := renderer.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}
