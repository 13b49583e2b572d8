package compiler

import (
	"github.com/thiremani/icc/asm"
	"github.com/thiremani/icc/ast"
)

// compileLogical short-circuits && and ||: the right operand only runs
// when the left one does not decide the result. The result is 0 or 1.
func (c *Compiler) compileLogical(ie *ast.InfixExpression) (operand, error) {
	l, err := c.compileExpression(ie.Left)
	if err != nil {
		return operand{}, err
	}
	if l.isImm() && !ast.HasEffects(ie.Right) {
		r, err := c.compileExpression(ie.Right)
		if err != nil {
			return operand{}, err
		}
		if r.isImm() {
			return imm(foldInfix(ie.Operator, l.value, r.value)), nil
		}
		return c.logicalTail(ie.Operator, l.value, r), nil
	}

	t := c.temp()
	end := c.newLabel()
	if ie.Operator == "&&" {
		c.move(imm(0), t)
		c.emit(asm.Jz, l, labelRef(end))
	} else {
		c.move(imm(1), t)
		c.emit(asm.Jnz, l, labelRef(end))
	}

	r, err := c.compileExpression(ie.Right)
	if err != nil {
		return operand{}, err
	}
	c.normalize(r, t)
	c.place(end)
	return t, nil
}

// logicalTail finishes a && or || whose left side is a known constant.
func (c *Compiler) logicalTail(op string, l int64, r operand) operand {
	if (op == "&&") == (l == 0) {
		return imm(b2i(l != 0))
	}
	t := c.temp()
	c.normalize(r, t)
	return t
}

// normalize stores 1 into dst when v is nonzero and 0 otherwise.
func (c *Compiler) normalize(v, dst operand) {
	c.emit(asm.Eq, v, imm(0), dst)
	c.emit(asm.Eq, dst, imm(0), dst)
}

func (c *Compiler) compileIfStatement(is *ast.IfStatement) error {
	mark := c.frame().next
	cond, err := c.compileExpression(is.Condition)
	if err != nil {
		return err
	}
	elseLabel := c.newLabel()
	c.emit(asm.Jz, cond, labelRef(elseLabel))
	c.frame().next = mark

	if err := c.compileBlockStatement(is.Consequence); err != nil {
		return err
	}
	if is.Alternative == nil {
		c.place(elseLabel)
		return nil
	}

	end := c.newLabel()
	c.jump(end)
	c.place(elseLabel)
	if err := c.compileStatement(is.Alternative); err != nil {
		return err
	}
	c.place(end)
	return nil
}
