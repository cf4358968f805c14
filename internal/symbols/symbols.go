// Package symbols implements the lexically scoped symbol table: a rooted
// tree of Scope values built by the parser in "edit mode" and revisited by
// the code generator in "replay mode" so both passes walk the identical
// tree in the identical order.
package symbols

import "github.com/ion-lang/ionc/internal/diag"

// DataType classifies the type carried by a Metadata entry.
type DataType int

const (
	UNKNOWN DataType = iota
	INTEGER
	FLOAT
	BOOLEAN
	CHAR
	STRING
)

func (t DataType) String() string {
	switch t {
	case INTEGER:
		return "int"
	case FLOAT:
		return "float"
	case BOOLEAN:
		return "bool"
	case CHAR:
		return "char"
	case STRING:
		return "string"
	default:
		return "unknown"
	}
}

// Size returns the reserved byte width for values of type t, per the fixed
// size table: INT=4, FLOAT=4, BOOL=1, CHAR=1, STRING=8, UNKNOWN=8.
func (t DataType) Size() int {
	switch t {
	case INTEGER, FLOAT:
		return 4
	case BOOLEAN, CHAR:
		return 1
	default:
		return 8
	}
}

// Metadata is the per-name record stored inside a Scope.
type Metadata struct {
	Name            string
	Type            DataType
	IsFunction      bool
	Size            int
	Address         int
	RelativeAddress int
}

// newMetadata returns a Metadata with RelativeAddress unresolved (-1), as
// required by the invariant that first code-gen use resolves it in place.
func newMetadata(name string, t DataType, isFunction bool, size int) *Metadata {
	return &Metadata{Name: name, Type: t, IsFunction: isFunction, Size: size, RelativeAddress: -1}
}

// Scope is one node of the lexical scope tree. Parent is nil at the root.
// Children is built up in declaration order by the parser (edit mode);
// cursor is the code generator's replay-mode position within Children.
type Scope struct {
	Parent    *Scope
	Children  []*Scope
	variables map[string]*Metadata
	order     []string
	ScopeSize int
	cursor    int
}

// NewRoot creates an unparented root scope.
func NewRoot() *Scope {
	return &Scope{variables: make(map[string]*Metadata)}
}

// ScopeIn creates a new child scope, appends it to Children and returns it.
// Used by the parser while building the tree (edit mode).
func (s *Scope) ScopeIn() *Scope {
	child := &Scope{Parent: s, variables: make(map[string]*Metadata)}
	s.Children = append(s.Children, child)
	return child
}

// ScopeOut returns the parent scope. Scope-out past the root is a RUNTIME
// diagnostic, so callers that can reach the root check before calling.
func (s *Scope) ScopeOut() (*Scope, error) {
	if s.Parent == nil {
		return nil, diag.New(diag.Runtime, diag.NoLine, "scope-out past the root scope")
	}
	return s.Parent, nil
}

// AddSymbol inserts name with the given metadata fields, assigning its
// Address as the current ScopeSize (its byte offset within this scope) and
// growing ScopeSize by its Size. It fails if name is already declared
// directly in this scope; a name that merely shadows an ancestor's
// declaration of the same name is allowed, so a nested scope can redeclare
// a name its parent already holds.
func (s *Scope) AddSymbol(name string, t DataType, isFunction bool, line int) (*Metadata, error) {
	if _, ok := s.variables[name]; ok {
		return nil, diag.New(diag.Semantic, line, "redeclaration of %q", name)
	}
	m := newMetadata(name, t, isFunction, t.Size())
	m.Address = s.ScopeSize
	s.ScopeSize += m.Size
	s.variables[name] = m
	s.order = append(s.order, name)
	return m, nil
}

// lookupChain walks s and its ancestors looking for name.
func (s *Scope) lookupChain(name string) (*Metadata, bool) {
	for scope := s; scope != nil; scope = scope.Parent {
		if m, ok := scope.variables[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// Lookup resolves name starting at s and walking up through ancestors.
func (s *Scope) Lookup(name string) (*Metadata, bool) {
	return s.lookupChain(name)
}

// ChangeType mutates the first matching entry's Type and resizes it to
// match, used when an UNKNOWN-typed variable is resolved on first
// assignment.
func (s *Scope) ChangeType(name string, t DataType) {
	if m, ok := s.lookupChain(name); ok {
		m.Type = t
		m.Size = t.Size()
	}
}

// OrderedNames returns the names declared directly in s, in insertion
// order, matching the prefix-sum address assignment invariant.
func (s *Scope) OrderedNames() []string {
	return s.order
}

// TraverseIn advances s's child cursor by one (starting at the first
// child) and returns that child. Used by the code generator to revisit the
// scope the parser created at the same point in the traversal.
func (s *Scope) TraverseIn() (*Scope, error) {
	if s.cursor >= len(s.Children) {
		return nil, diag.New(diag.Runtime, diag.NoLine, "traverse past the last child scope")
	}
	child := s.Children[s.cursor]
	s.cursor++
	return child, nil
}

// TraverseOut resets s's own cursor (so a later re-entry into s starts
// over) and returns the parent.
func (s *Scope) TraverseOut() (*Scope, error) {
	if s.Parent == nil {
		return nil, diag.New(diag.Runtime, diag.NoLine, "traverse-out past the root scope")
	}
	s.cursor = 0
	return s.Parent, nil
}
