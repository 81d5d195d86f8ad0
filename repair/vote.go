package repair

// votes is a column tally that remembers insertion order so the winner of
// a tie is the first column that reached the maximum weight.
type votes struct {
	order  []int
	counts map[int]int
}

func newVotes() *votes {
	return &votes{counts: make(map[int]int)}
}

func (v *votes) add(col, weight int) {
	if _, ok := v.counts[col]; !ok {
		v.order = append(v.order, col)
	}
	v.counts[col] += weight
}

// merge adds every tally of o, scaled by factor, in o's insertion order.
func (v *votes) merge(o *votes, factor int) {
	for _, col := range o.order {
		v.add(col, o.counts[col]*factor)
	}
}

func (v *votes) empty() bool {
	return len(v.order) == 0
}

// winner returns the column with the highest weight. ok is false when no
// votes were cast.
func (v *votes) winner() (col int, ok bool) {
	best := -1
	for _, c := range v.order {
		if n := v.counts[c]; n > best {
			col, best = c, n
		}
	}
	return col, best >= 0
}
