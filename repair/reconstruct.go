package repair

import (
	"sort"
	"strings"
)

// reconstructLine redraws row from the geometry of the boxes crossing it.
// Cells outside every box keep their original rune. Leading whitespace is
// never trimmed, which is what lets a border drawn at the voted column
// replace a border that was indented wrongly.
func reconstructLine(lines [][]rune, boxes []Box, row int) []rune {
	original := lines[row]

	size := len(original)
	for _, b := range boxes {
		if b.RightCol+1 > size {
			size = b.RightCol + 1
		}
	}
	result := []rune(strings.Repeat(" ", size))

	sorted := make([]Box, len(boxes))
	copy(sorted, boxes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LeftCol < sorted[j].LeftCol
	})

	for _, b := range sorted {
		var region []rune
		switch {
		case row == b.TopRow && b.HasTop:
			region = buildBorder(b, TopLeft, TopRight, TeeUp, connectorsFromAdjacent(lines, row-1, b.LeftCol, b.Width()))
		case row == b.BottomRow && b.HasBottom:
			region = buildBorder(b, BottomLeft, BottomRight, TeeDown, connectorsFromAdjacent(lines, row+1, b.LeftCol, b.Width()))
		default:
			region = buildContent(b, original)
		}
		copy(result[b.LeftCol:], region)
	}

	return trimRight(result)
}

// buildBorder draws a horizontal border with tee glyphs where vertical lines
// from the neighbouring row meet it.
func buildBorder(b Box, leftCorner, rightCorner, tee rune, connectors []int) []rune {
	width := b.Width()
	border := make([]rune, width)
	border[0] = leftCorner
	for i := 1; i < width-1; i++ {
		border[i] = Horizontal
	}
	border[width-1] = rightCorner
	for _, off := range connectors {
		border[off] = tee
	}
	return border
}

// buildContent returns the bars and content of a row inside b, fitted to
// exactly the inner width of the box.
func buildContent(b Box, original []rune) []rune {
	inner := b.InnerWidth()

	leftPipe, ok := findCharNear(original, b.LeftCol, Vertical, defaultWindow)
	if !ok {
		return framed([]rune(strings.Repeat(" ", inner)))
	}

	start := skipRun(original, leftPipe+1, Vertical)

	var content []rune
	if rightPipe, ok := findCharNear(original, b.RightCol, Vertical, defaultWindow); ok && rightPipe > start {
		content = original[start:rightPipe]
	} else {
		content = trimRight(original[start:])
	}

	return framed(fit(content, inner))
}

// fit pads or truncates content to width columns. Trailing spaces are
// dropped before any real content is cut.
func fit(content []rune, width int) []rune {
	if len(content) > width {
		content = trimRight(content)
		if len(content) > width {
			return content[:width]
		}
	}
	out := make([]rune, width)
	n := copy(out, content)
	for i := n; i < width; i++ {
		out[i] = ' '
	}
	return out
}

func framed(content []rune) []rune {
	out := make([]rune, 0, len(content)+2)
	out = append(out, Vertical)
	out = append(out, content...)
	return append(out, Vertical)
}
