package codegen

import "strconv"

// LabelAllocator mints unique, monotonically increasing label suffixes for
// branches, loops, and short-circuit logical operators.
type LabelAllocator struct {
	counter int
}

// Next returns a fresh label with the given prefix ("if", "loop", "and", ...).
func (l *LabelAllocator) Next(prefix string) string {
	label := prefix + "_" + strconv.Itoa(l.counter)
	l.counter++
	return label
}
