package repair

import (
	"strings"
	"unicode"
)

// normalizeConnectorRows drops stray bars from rows that sit between boxes
// and hold nothing but bars, arrows and spaces. A bar survives only when the
// row above or below continues it. Rows are rewritten in place, top-down, so
// a cleaned row is what its lower neighbour sees.
func normalizeConnectorRows(lines [][]rune, covered map[int][]Box) {
	for i, line := range lines {
		if _, ok := covered[i]; ok {
			continue
		}
		if !isConnectorRow(line) {
			continue
		}

		var bars, kept []int
		for j, r := range line {
			if r != Vertical {
				continue
			}
			bars = append(bars, j)
			if continuesVertically(lines, i, j) {
				kept = append(kept, j)
			}
		}
		if len(bars) == 0 || len(kept) == len(bars) {
			continue
		}

		rebuilt := []rune(strings.Repeat(" ", len(line)))
		for _, j := range kept {
			rebuilt[j] = Vertical
		}
		for j, r := range line {
			if isArrow(r) {
				rebuilt[j] = r
			}
		}
		lines[i] = trimRight(rebuilt)
	}
}

func isConnectorRow(line []rune) bool {
	for _, r := range line {
		if r != ' ' && r != Vertical && !isArrow(r) {
			return false
		}
	}
	return true
}

func continuesVertically(lines [][]rune, row, col int) bool {
	for _, adj := range [2]int{row - 1, row + 1} {
		if adj < 0 || adj >= len(lines) || col >= len(lines[adj]) {
			continue
		}
		if isConnectorNeighbor(lines[adj][col]) {
			return true
		}
	}
	return false
}

// connectorsFromAdjacent returns the border offsets, relative to left, where
// a vertical line in row adj meets the border. Only the first column of each
// run of pipe glyphs counts.
func connectorsFromAdjacent(lines [][]rune, adj, left, width int) []int {
	if adj < 0 || adj >= len(lines) {
		return nil
	}

	line := lines[adj]
	var offsets []int
	prevWasPipe := false
	for col := left + 1; col < left+width-1; col++ {
		if col < len(line) && isPipe(line[col]) {
			if !prevWasPipe {
				offsets = append(offsets, col-left)
			}
			prevWasPipe = true
		} else {
			prevWasPipe = false
		}
	}
	return offsets
}

func trimRight(line []rune) []rune {
	end := len(line)
	for end > 0 && unicode.IsSpace(line[end-1]) {
		end--
	}
	return line[:end]
}
