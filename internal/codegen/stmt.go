package codegen

import (
	"github.com/ion-lang/ionc/internal/ast"
	"github.com/ion-lang/ionc/internal/diag"
)

// genStmt dispatches a single statement node. Every branch that produces a
// value releases its register immediately afterward — statements never
// leave a live result behind, preserving the register-balance invariant.
func (g *Generator) genStmt(stmt ast.Stmt) error {
	switch n := stmt.(type) {
	case *ast.Block:
		return g.genBlock(n)
	case *ast.Conditional:
		return g.genConditional(n)
	case *ast.Loop:
		return g.genLoop(n)
	case *ast.Return:
		return g.genReturn(n)
	case *ast.Function:
		// Function declarations parse and populate the symbol table but
		// are rejected here, matching the prototype's own emit-time
		// behavior (see DESIGN.md's Open Question resolution).
		return diag.New(diag.Function, n.Line(), "function code generation is not implemented")
	default:
		res, err := g.genExpr(stmt)
		if err != nil {
			return err
		}
		g.regs.Release(res.Register)
		return nil
	}
}

// genBlock replays the child scope the parser opened for this block
// (TraverseIn), allocates its 16-byte-aligned frame, emits the body, then
// deallocates and returns to the parent scope, keeping GLOBAL_ADDRESS in
// lock-step throughout.
func (g *Generator) genBlock(b *ast.Block) error {
	child, err := g.scope.TraverseIn()
	if err != nil {
		return err
	}
	g.scope = child

	frame := alignUp(child.ScopeSize, 16)
	if frame > 0 {
		g.emit("sub rsp, %d", frame)
	}
	g.global += frame

	for _, stmt := range b.Statements {
		if err := g.genStmt(stmt); err != nil {
			return err
		}
		if !g.regs.AtStart() {
			return diag.New(diag.Runtime, stmt.Line(), "register leak after statement")
		}
	}

	if frame > 0 {
		g.emit("add rsp, %d", frame)
	}
	g.global -= frame

	parent, err := g.scope.TraverseOut()
	if err != nil {
		return err
	}
	g.scope = parent
	return nil
}

// genConditional chains each branch through a shared end label: a false
// condition jumps to the next branch's check, a true branch's body jumps
// straight to the end after executing, and a trailing else (Condition ==
// nil) falls through unconditionally. This is the conventional shared-label
// chain rather than a literal per-branch "end" label for each arm; the
// observable control flow is equivalent.
func (g *Generator) genConditional(c *ast.Conditional) error {
	endLabel := g.labels.Next("end_if")

	for _, branch := range c.Branches {
		if branch.Condition == nil {
			if err := g.genBlock(branch.Body); err != nil {
				return err
			}
			continue
		}
		cond, err := g.genExpr(branch.Condition)
		if err != nil {
			return err
		}
		nextLabel := g.labels.Next("cond")
		g.emit("cmp %s, 0", sizedRegister(cond.Register, 1))
		g.regs.Release(cond.Register)
		g.emit("je %s", nextLabel)
		if err := g.genBlock(branch.Body); err != nil {
			return err
		}
		g.emit("jmp %s", endLabel)
		g.label(nextLabel)
	}

	g.label(endLabel)
	return nil
}

// genLoop emits the canonical loop_start/loop_end label shape.
func (g *Generator) genLoop(l *ast.Loop) error {
	start := g.labels.Next("loop_start")
	end := g.labels.Next("loop_end")

	g.label(start)
	cond, err := g.genExpr(l.Condition)
	if err != nil {
		return err
	}
	g.emit("cmp %s, 0", sizedRegister(cond.Register, 1))
	g.regs.Release(cond.Register)
	g.emit("je %s", end)

	if err := g.genBlock(l.Body); err != nil {
		return err
	}
	g.emit("jmp %s", start)
	g.label(end)
	return nil
}

// genReturn evaluates its operand for side effects and releases the
// result. ionc has no call/return machinery (a Function node is rejected
// before its body is generated), so a return reached here emits no
// control transfer.
func (g *Generator) genReturn(r *ast.Return) error {
	res, err := g.genExpr(r.Value)
	if err != nil {
		return err
	}
	g.regs.Release(res.Register)
	return nil
}
