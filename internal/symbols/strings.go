package symbols

import "fmt"

// StringTable interns string literal text to a synthetic "str_<N>" label,
// in first-sight order. The parser writes to it; the code generator only
// reads it back when emitting the data section.
type StringTable struct {
	labels  map[string]string
	order   []string
	counter int
}

// NewStringTable returns an empty intern table.
func NewStringTable() *StringTable {
	return &StringTable{labels: make(map[string]string)}
}

// Intern returns the label for text, minting a new one on first sight and
// reusing it on every later occurrence of the same literal text.
func (t *StringTable) Intern(text string) string {
	if label, ok := t.labels[text]; ok {
		return label
	}
	label := fmt.Sprintf("str_%d", t.counter)
	t.counter++
	t.labels[text] = label
	t.order = append(t.order, text)
	return label
}

// Entry pairs an interned literal's label with its text, in first-sight
// order, for the code generator's data-section walk.
type Entry struct {
	Label string
	Text  string
}

// Entries returns every interned literal in the order it was first seen.
func (t *StringTable) Entries() []Entry {
	entries := make([]Entry, len(t.order))
	for i, text := range t.order {
		entries[i] = Entry{Label: t.labels[text], Text: text}
	}
	return entries
}
