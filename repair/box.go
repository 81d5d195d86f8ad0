package repair

import "fmt"

// Box is a detected rectangular diagram region. Rows and columns are
// inclusive, columns count runes within a line.
type Box struct {
	TopRow    int
	BottomRow int
	LeftCol   int
	RightCol  int
	// HasTop and HasBottom are false when the box was traced from a
	// dangling edge and the border row has to be synthesized.
	HasTop    bool
	HasBottom bool
}

// Width is the number of columns from the left bar to the right bar.
func (b Box) Width() int {
	return b.RightCol - b.LeftCol + 1
}

// InnerWidth is the number of content columns between the bars.
func (b Box) InnerWidth() int {
	return b.RightCol - b.LeftCol - 1
}

func (b Box) String() string {
	return fmt.Sprintf("box[rows %d-%d, cols %d-%d]", b.TopRow, b.BottomRow, b.LeftCol, b.RightCol)
}
