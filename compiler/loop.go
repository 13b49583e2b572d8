package compiler

import (
	"github.com/thiremani/icc/asm"
	"github.com/thiremani/icc/ast"
)

type controlKind int

const (
	loopControl controlKind = iota
	funcControl
)

// control is one entry of the stack of enclosing loops and function bodies.
type control struct {
	kind controlKind
	brk  int // label past the loop
	cont int // label that re-enters the loop
}

// innermostLoop returns the nearest enclosing loop. Function bodies are
// barriers: a loop outside the current function does not count.
func (c *Compiler) innermostLoop() (control, bool) {
	for i := len(c.control) - 1; i >= 0; i-- {
		switch c.control[i].kind {
		case loopControl:
			return c.control[i], true
		case funcControl:
			return control{}, false
		}
	}
	return control{}, false
}

func (c *Compiler) compileLoopBody(body *ast.BlockStatement, brk, cont int) error {
	c.control = append(c.control, control{kind: loopControl, brk: brk, cont: cont})
	err := c.compileBlockStatement(body)
	c.control = c.control[:len(c.control)-1]
	return err
}

func (c *Compiler) compileWhileStatement(ws *ast.WhileStatement) error {
	top := c.newLabel()
	end := c.newLabel()
	c.place(top)

	mark := c.frame().next
	cond, err := c.compileExpression(ws.Condition)
	if err != nil {
		return err
	}
	c.emit(asm.Jz, cond, labelRef(end))
	c.frame().next = mark

	if err := c.compileLoopBody(ws.Body, end, top); err != nil {
		return err
	}
	c.jump(top)
	c.place(end)
	return nil
}

func (c *Compiler) compileLoopStatement(ls *ast.LoopStatement) error {
	top := c.newLabel()
	end := c.newLabel()
	c.place(top)

	if err := c.compileLoopBody(ls.Body, end, top); err != nil {
		return err
	}
	c.jump(top)
	c.place(end)
	return nil
}

func (c *Compiler) compileBreakStatement(bs *ast.BreakStatement) error {
	loop, ok := c.innermostLoop()
	if !ok {
		return newError(BreakOutsideLoop, bs.Token)
	}
	c.jump(loop.brk)
	return nil
}

func (c *Compiler) compileContinueStatement(cs *ast.ContinueStatement) error {
	loop, ok := c.innermostLoop()
	if !ok {
		return newError(ContinueOutsideLoop, cs.Token)
	}
	c.jump(loop.cont)
	return nil
}
