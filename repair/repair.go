// Package repair fixes box-drawing diagrams that were damaged by reflow,
// hand edits or lossy copy and paste.
//
// Boxes are found from noisy corner and bar evidence, their edges are
// settled by voting, and every row a box touches is redrawn from that
// geometry. Text without diagrams passes through untouched.
package repair

import (
	"sort"
	"strings"
)

// Report describes one repair run.
type Report struct {
	Input  string
	Output string
	// Boxes holds the detected geometry in detection order.
	Boxes []Box
	// ChangedRows lists, ascending, the rows whose text differs.
	ChangedRows []int
}

// Changed reports whether the repair altered the text.
func (r Report) Changed() bool {
	return r.Input != r.Output
}

// Repair returns text with every detected diagram redrawn. Lines are split
// on "\n"; callers normalize other line endings first.
func Repair(text string) string {
	return Analyze(text).Output
}

// Analyze repairs text and reports what it found and changed.
func Analyze(text string) Report {
	report := Report{Input: text, Output: text}

	raw := strings.Split(text, "\n")
	lines := make([][]rune, len(raw))
	for i, l := range raw {
		lines[i] = []rune(l)
	}

	boxes := findBoxes(lines)
	if len(boxes) == 0 {
		return report
	}
	report.Boxes = boxes

	rowBoxes := indexRows(boxes)

	// Standalone connector rows are cleaned first so that the borders see
	// the final bar positions when placing ┬ and ┴.
	normalizeConnectorRows(lines, rowBoxes)

	rows := make([]int, 0, len(rowBoxes))
	for row := range rowBoxes {
		rows = append(rows, row)
	}
	sort.Ints(rows)
	for _, row := range rows {
		lines[row] = reconstructLine(lines, rowBoxes[row], row)
	}

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = string(l)
		if out[i] != raw[i] {
			report.ChangedRows = append(report.ChangedRows, i)
		}
	}
	report.Output = strings.Join(out, "\n")
	return report
}
