package repair

// cell addresses a rune within the split text.
type cell struct {
	row, col int
}

// coveredWindow is how close a └ may sit to an already traced box's bottom
// corner and still be considered part of that box.
const coveredWindow = 3

// findBoxes locates every box in lines. Boxes anchored by ┌ come first, then
// boxes that only kept their bottom border, each group in scan order.
func findBoxes(lines [][]rune) []Box {
	var boxes []Box
	claimed := make(map[cell]bool)

	for _, c := range cornerCells(lines, TopLeft) {
		if claimed[c] {
			continue
		}
		if box, ok := traceBoxFromTop(lines, c.row, c.col); ok {
			claimed[cell{c.row, box.LeftCol}] = true
			boxes = append(boxes, box)
		}
	}

	for _, c := range cornerCells(lines, BottomLeft) {
		if claimed[c] || coveredByBottom(boxes, c) {
			continue
		}
		if box, ok := traceBoxFromBottom(lines, c.row, c.col); ok {
			claimed[c] = true
			boxes = append(boxes, box)
		}
	}

	return boxes
}

// cornerCells snapshots the positions of ch in scan order.
func cornerCells(lines [][]rune, ch rune) []cell {
	var cells []cell
	for i, line := range lines {
		for j, r := range line {
			if r == ch {
				cells = append(cells, cell{i, j})
			}
		}
	}
	return cells
}

func coveredByBottom(boxes []Box, c cell) bool {
	for _, b := range boxes {
		if b.BottomRow == c.row && abs(b.LeftCol-c.col) <= coveredWindow {
			return true
		}
	}
	return false
}

// indexRows maps every row to the boxes spanning it, in detection order.
func indexRows(boxes []Box) map[int][]Box {
	rows := make(map[int][]Box)
	for _, b := range boxes {
		for row := b.TopRow; row <= b.BottomRow; row++ {
			rows[row] = append(rows[row], b)
		}
	}
	return rows
}
