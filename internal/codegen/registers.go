package codegen

import (
	"strconv"
	"strings"
)

// RegisterManager holds two disjoint free sets, one for general-purpose
// registers and one for XMM registers. rbp and rsp are withheld from the
// general-purpose pool since the generator relies on them for
// frame/stack bookkeeping across every statement; rax and rdx are
// likewise withheld since genBinary's "/" and "%" cases hardcode them as
// the idiv dividend/quotient/remainder and would otherwise clobber
// whatever GenResult an outer expression already has allocated there.
// Every other GP register in the {rbx…r15} list is free-pool eligible.
type RegisterManager struct {
	gp  []string
	xmm []string
}

var gpRegisterOrder = []string{
	"rbx", "rcx", "rsi", "rdi",
	"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15",
}

var xmmRegisterOrder = func() []string {
	names := make([]string, 16)
	for i := range names {
		names[i] = xmmName(i)
	}
	return names
}()

func xmmName(i int) string {
	return "xmm" + strconv.Itoa(i)
}

// NewRegisterManager returns a manager whose free sets start as the full
// GP and XMM register lists.
func NewRegisterManager() *RegisterManager {
	gp := make([]string, len(gpRegisterOrder))
	copy(gp, gpRegisterOrder)
	xmm := make([]string, len(xmmRegisterOrder))
	copy(xmm, xmmRegisterOrder)
	return &RegisterManager{gp: gp, xmm: xmm}
}

// GetFree removes and returns any free general-purpose register.
func (r *RegisterManager) GetFree() string {
	reg := r.gp[0]
	r.gp = r.gp[1:]
	return reg
}

// GetFreeXMM removes and returns any free XMM register.
func (r *RegisterManager) GetFreeXMM() string {
	reg := r.xmm[0]
	r.xmm = r.xmm[1:]
	return reg
}

// Release returns name to whichever free set it belongs to, routing by
// "xmm" prefix. Releasing an empty name is a no-op, matching the
// idempotent-release invariant.
func (r *RegisterManager) Release(name string) {
	if name == "" {
		return
	}
	if strings.HasPrefix(name, "xmm") {
		r.xmm = append(r.xmm, name)
		return
	}
	r.gp = append(r.gp, name)
}

// AtStart reports whether both free sets are back to their full starting
// size — the register-balance invariant checked after every statement.
func (r *RegisterManager) AtStart() bool {
	return len(r.gp) == len(gpRegisterOrder) && len(r.xmm) == len(xmmRegisterOrder)
}
