package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterManager_GetFreeDoesNotRepeat(t *testing.T) {
	r := NewRegisterManager()
	a := r.GetFree()
	b := r.GetFree()
	require.NotEqual(t, a, b)
}

func TestRegisterManager_ReleaseRoutesByPrefix(t *testing.T) {
	r := NewRegisterManager()
	gp := r.GetFree()
	xmm := r.GetFreeXMM()
	require.False(t, r.AtStart())

	r.Release(xmm)
	r.Release(gp)
	require.True(t, r.AtStart())
}

func TestRegisterManager_ReleaseEmptyIsNoop(t *testing.T) {
	r := NewRegisterManager()
	require.True(t, r.AtStart())
	r.Release("")
	require.True(t, r.AtStart())
}

func TestRegisterManager_ExcludesFramePointers(t *testing.T) {
	r := NewRegisterManager()
	seen := map[string]bool{}
	for i := 0; i < 12; i++ {
		seen[r.GetFree()] = true
	}
	require.False(t, seen["rbp"])
	require.False(t, seen["rsp"])
}

func TestRegisterManager_ExcludesDivisionRegisters(t *testing.T) {
	r := NewRegisterManager()
	seen := map[string]bool{}
	for i := 0; i < 12; i++ {
		seen[r.GetFree()] = true
	}
	require.False(t, seen["rax"])
	require.False(t, seen["rdx"])
}

func TestLabelAllocator_NextIsUniquePerPrefix(t *testing.T) {
	l := &LabelAllocator{}
	a := l.Next("loop_start")
	b := l.Next("loop_start")
	c := l.Next("cond")
	require.NotEqual(t, a, b)
	require.NotEqual(t, a, c)
}
