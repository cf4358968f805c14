package symbols

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddSymbol_AddressPacking(t *testing.T) {
	root := NewRoot()
	_, err := root.AddSymbol("a", BOOLEAN, false, 1) // size 1
	require.NoError(t, err)
	_, err = root.AddSymbol("b", INTEGER, false, 1) // size 4
	require.NoError(t, err)
	_, err = root.AddSymbol("c", STRING, false, 1) // size 8

	require.NoError(t, err)
	require.Equal(t, 1+4+8, root.ScopeSize)

	a, _ := root.Lookup("a")
	b, _ := root.Lookup("b")
	c, _ := root.Lookup("c")
	require.Equal(t, 0, a.Address)
	require.Equal(t, 1, b.Address)
	require.Equal(t, 5, c.Address)
}

func TestAddSymbol_RedeclarationSameScope(t *testing.T) {
	root := NewRoot()
	_, err := root.AddSymbol("x", INTEGER, false, 1)
	require.NoError(t, err)

	_, err = root.AddSymbol("x", INTEGER, false, 2)
	require.Error(t, err)
}

func TestAddSymbol_SameNameDifferentScopesOK(t *testing.T) {
	root := NewRoot()
	_, err := root.AddSymbol("a", INTEGER, false, 1)
	require.NoError(t, err)

	child := root.ScopeIn()
	_, err = child.AddSymbol("a", INTEGER, false, 2)
	require.NoError(t, err)

	outer, _ := root.Lookup("a")
	inner, _ := child.Lookup("a")
	require.NotSame(t, outer, inner)
	require.Equal(t, 0, inner.Address) // addresses are offsets within the owning scope
}

func TestLookup_WalksAncestors(t *testing.T) {
	root := NewRoot()
	_, err := root.AddSymbol("outer", INTEGER, false, 1)
	require.NoError(t, err)

	child := root.ScopeIn()
	grandchild := child.ScopeIn()

	meta, ok := grandchild.Lookup("outer")
	require.True(t, ok)
	require.Equal(t, INTEGER, meta.Type)
}

func TestTraverse_RevisitsScopesInOrder(t *testing.T) {
	root := NewRoot()
	first := root.ScopeIn()
	second := root.ScopeIn()

	visited, err := root.TraverseIn()
	require.NoError(t, err)
	require.Same(t, first, visited)

	visited, err = root.TraverseIn()
	require.NoError(t, err)
	require.Same(t, second, visited)

	_, err = root.TraverseIn()
	require.Error(t, err)
}

func TestTraverseOut_ResetsCursorForReentry(t *testing.T) {
	root := NewRoot()
	child := root.ScopeIn()
	grandchild := child.ScopeIn()

	visited, err := root.TraverseIn()
	require.NoError(t, err)
	require.Same(t, child, visited)

	inner, err := child.TraverseIn()
	require.NoError(t, err)
	require.Same(t, grandchild, inner)

	parent, err := child.TraverseOut()
	require.NoError(t, err)
	require.Same(t, root, parent)

	// re-entering child's subtree should restart at its first child
	again, err := child.TraverseIn()
	require.NoError(t, err)
	require.Same(t, grandchild, again)
}

func TestChangeType_ResolvesUnknown(t *testing.T) {
	root := NewRoot()
	_, err := root.AddSymbol("y", UNKNOWN, false, 1)
	require.NoError(t, err)

	root.ChangeType("y", CHAR)

	meta, _ := root.Lookup("y")
	require.Equal(t, CHAR, meta.Type)
	require.Equal(t, 1, meta.Size)
}

func TestStringTable_InternsOnce(t *testing.T) {
	st := NewStringTable()
	a := st.Intern("hi")
	b := st.Intern("hi")
	c := st.Intern("bye")

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Len(t, st.Entries(), 2)
}
