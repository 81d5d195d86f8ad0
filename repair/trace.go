package repair

// Weights for right-edge evidence. Content rows are trusted more than the
// borders because reflow usually mangles the horizontal runs first.
const (
	contentVoteWeight = 3
	borderVoteWeight  = 1
)

// noRow marks a border that is absent from the evidence.
const noRow = -1

// traceBoxFromTop follows the left edge down from the ┌ at (topRow, left).
func traceBoxFromTop(lines [][]rune, topRow, left int) (Box, bool) {
	var contentRows []int
	bottomRow := noRow

	for row := topRow + 1; row < len(lines); row++ {
		line := lines[row]
		if _, ok := findCharNear(line, left, BottomLeft, bottomCornerWindow); ok {
			bottomRow = row
			break
		}
		if _, ok := findCharNear(line, left, Vertical, defaultWindow); !ok {
			break
		}
		contentRows = append(contentRows, row)
	}

	if len(contentRows) == 0 {
		return Box{}, false
	}

	hasBottom := bottomRow != noRow
	if !hasBottom {
		bottomRow = contentRows[len(contentRows)-1]
	}

	leftVotes := newVotes()
	leftVotes.add(left, 1)
	if hasBottom {
		if col, ok := findCharNear(lines[bottomRow], left, BottomLeft, defaultWindow); ok {
			leftVotes.add(col, 1)
		}
	}
	voteContentBars(leftVotes, lines, contentRows, left)
	leftCol, _ := leftVotes.winner()

	borderBottom := noRow
	if hasBottom {
		borderBottom = bottomRow
	}
	rightCol, ok := determineRightCol(lines, contentRows, topRow, borderBottom, leftCol)
	if !ok {
		return Box{}, false
	}

	return Box{
		TopRow:    topRow,
		BottomRow: bottomRow,
		LeftCol:   leftCol,
		RightCol:  rightCol,
		HasTop:    true,
		HasBottom: hasBottom,
	}, true
}

// traceBoxFromBottom follows the left edge up from a └ whose box has lost
// its top border.
func traceBoxFromBottom(lines [][]rune, bottomRow, left int) (Box, bool) {
	var contentRows []int
	for row := bottomRow - 1; row >= 0; row-- {
		if _, ok := findCharNear(lines[row], left, Vertical, defaultWindow); !ok {
			break
		}
		contentRows = append(contentRows, row)
	}

	if len(contentRows) == 0 {
		return Box{}, false
	}

	// Collected bottom-up; votes are cast top-down.
	for i, j := 0, len(contentRows)-1; i < j; i, j = i+1, j-1 {
		contentRows[i], contentRows[j] = contentRows[j], contentRows[i]
	}

	leftVotes := newVotes()
	leftVotes.add(left, 1)
	voteContentBars(leftVotes, lines, contentRows, left)
	leftCol, _ := leftVotes.winner()

	rightCol, ok := determineRightCol(lines, contentRows, noRow, bottomRow, leftCol)
	if !ok {
		return Box{}, false
	}

	return Box{
		TopRow:    contentRows[0],
		BottomRow: bottomRow,
		LeftCol:   leftCol,
		RightCol:  rightCol,
		HasTop:    false,
		HasBottom: true,
	}, true
}

func voteContentBars(v *votes, lines [][]rune, rows []int, left int) {
	for _, r := range rows {
		if col, ok := findCharNear(lines[r], left, Vertical, defaultWindow); ok {
			v.add(col, 1)
		}
	}
}

// determineRightCol picks the right edge from a weighted vote of content
// bars and border corners. topRow or bottomRow may be noRow.
func determineRightCol(lines [][]rune, contentRows []int, topRow, bottomRow, leftCol int) (int, bool) {
	contentVotes := newVotes()
	for _, r := range contentRows {
		line := lines[r]
		leftPipe, ok := findCharNear(line, leftCol, Vertical, defaultWindow)
		if !ok {
			continue
		}

		// "││" at the left edge shifts everything after it; vote in the
		// coordinates the row would have without the extra bars.
		start := skipRun(line, leftPipe+1, Vertical)
		extra := start - leftPipe - 1
		if j := indexFrom(line, start, Vertical); j >= 0 {
			contentVotes.add(j-extra, 1)
		}
	}

	borderVotes := newVotes()
	if topRow != noRow {
		if j := indexFrom(lines[topRow], leftCol+1, TopRight); j >= 0 {
			borderVotes.add(j, 1)
		}
	}
	if bottomRow != noRow {
		line := lines[bottomRow]
		if bl, ok := findCharNear(line, leftCol, BottomLeft, defaultWindow); ok {
			if j := indexFrom(line, bl+1, BottomRight); j >= 0 {
				borderVotes.add(j, 1)
			}
		}
	}

	combined := newVotes()
	combined.merge(contentVotes, contentVoteWeight)
	combined.merge(borderVotes, borderVoteWeight)
	if combined.empty() {
		return 0, false
	}

	rightCol, _ := combined.winner()
	if rightCol <= leftCol {
		// A bar that drifted left of the voted edge cannot close the box.
		return 0, false
	}
	return rightCol, true
}
