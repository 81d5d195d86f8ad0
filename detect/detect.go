// Package detect decides whether a block of text looks like an ASCII or
// box-drawing diagram worth handing to the repairer.
package detect

import (
	"regexp"
	"strings"
)

const (
	boxDrawingFirst = 0x2500
	boxDrawingLast  = 0x257F
)

var (
	gridChars      = regexp.MustCompile(`[+\-|]`)
	gridJunction   = regexp.MustCompile(`\+-+|-+\+`)
	pipeBorderLine = regexp.MustCompile(`^\s*\|[-=]+\|\s*$`)
	pipeTextLine   = regexp.MustCompile(`^\s*\|[^|]+\|\s*$`)
)

// LooksLikeASCIIArt reports whether text resembles a diagram. Any one of
// the heuristics is enough; single-line text never qualifies.
func LooksLikeASCIIArt(text string) bool {
	if text == "" {
		return false
	}
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return false
	}
	return hasBoxDrawing(text) || hasPlusGrid(text, lines) || hasPipeBox(lines)
}

// hasBoxDrawing looks for at least two runes from the Unicode box-drawing block.
func hasBoxDrawing(text string) bool {
	n := 0
	for _, r := range text {
		if r >= boxDrawingFirst && r <= boxDrawingLast {
			n++
			if n >= 2 {
				return true
			}
		}
	}
	return false
}

// hasPlusGrid matches +--+ style grids.
func hasPlusGrid(text string, lines []string) bool {
	if !strings.Contains(text, "+") {
		return false
	}
	var grid []string
	for _, l := range lines {
		if gridChars.MatchString(l) {
			grid = append(grid, l)
		}
	}
	if len(grid) < 2 {
		return false
	}
	for _, l := range grid {
		if gridJunction.MatchString(l) {
			return true
		}
	}
	return false
}

// hasPipeBox matches |-----| boxes that have no + junctions. Rows with
// inner bars are Markdown tables and do not count.
func hasPipeBox(lines []string) bool {
	if len(lines) < 3 {
		return false
	}
	var border, content bool
	for _, l := range lines {
		border = border || pipeBorderLine.MatchString(l)
		content = content || pipeTextLine.MatchString(l)
	}
	return border && content
}
