package repair

// defaultWindow is how far a bar or corner may drift from where it is
// expected before it stops counting as the same edge.
const defaultWindow = 3

// bottomCornerWindow is wider because reflowed bottom borders drift more
// than the bars above them.
const bottomCornerWindow = 6

// findCharNear returns the column of ch closest to target within ±maxOffset.
// Offsets are scanned left to right and only a strictly closer hit replaces
// the current best, so on a tie the left candidate wins.
func findCharNear(line []rune, target int, ch rune, maxOffset int) (int, bool) {
	best, bestDist := -1, maxOffset+1
	for offset := -maxOffset; offset <= maxOffset; offset++ {
		col := target + offset
		if col < 0 || col >= len(line) || line[col] != ch {
			continue
		}
		if dist := abs(offset); dist < bestDist {
			best, bestDist = col, dist
		}
	}
	return best, best >= 0
}

// skipRun returns the first column at or after from that does not hold ch.
func skipRun(line []rune, from int, ch rune) int {
	for from < len(line) && line[from] == ch {
		from++
	}
	return from
}

// indexFrom returns the first column at or after from holding ch, or -1.
func indexFrom(line []rune, from int, ch rune) int {
	if from < 0 {
		from = 0
	}
	for j := from; j < len(line); j++ {
		if line[j] == ch {
			return j
		}
	}
	return -1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
