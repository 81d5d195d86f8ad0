package repair

// Box-drawing glyphs understood by the repairer. Anything else is content.
const (
	Vertical    = '│'
	Horizontal  = '─'
	TopLeft     = '┌'
	TopRight    = '┐'
	BottomLeft  = '└'
	BottomRight = '┘'

	TeeDown  = '┬'
	TeeUp    = '┴'
	TeeRight = '├'
	TeeLeft  = '┤'
	Cross    = '┼'

	ArrowUp   = '▲'
	ArrowDown = '▼'
)

// isPipe reports whether r continues a vertical line through a row.
func isPipe(r rune) bool {
	switch r {
	case Vertical, TeeDown, TeeUp, TeeRight, TeeLeft, Cross:
		return true
	}
	return false
}

func isArrow(r rune) bool {
	return r == ArrowUp || r == ArrowDown
}

// isConnectorNeighbor reports whether r, sitting above or below a bar on a
// standalone row, justifies keeping that bar.
func isConnectorNeighbor(r rune) bool {
	return isPipe(r) || isArrow(r)
}
