package compiler

import (
	"fmt"

	"github.com/thiremani/icc/asm"
	"github.com/thiremani/icc/ast"
)

// compileExpression emits code computing e and returns where the result
// can be read. Constants and literals come back as immediates.
func (c *Compiler) compileExpression(e ast.Expression) (operand, error) {
	switch e := e.(type) {
	case *ast.IntegerLiteral:
		return imm(e.Value), nil
	case *ast.BooleanLiteral:
		return imm(b2i(e.Value)), nil
	case *ast.Identifier:
		return c.compileIdentifier(e)
	case *ast.PrefixExpression:
		return c.compilePrefix(e)
	case *ast.InfixExpression:
		switch e.Operator {
		case "&&", "||":
			return c.compileLogical(e)
		}
		return c.compileInfix(e)
	case *ast.CallExpression:
		return c.compileCall(e)
	case *ast.IndexExpression:
		return c.compileIndexLoad(e)
	case *ast.InputExpression:
		t := c.temp()
		c.emit(asm.In, t)
		return t, nil
	default:
		panic(fmt.Sprintf("unexpected expression %T", e))
	}
}

func (c *Compiler) compileIdentifier(id *ast.Identifier) (operand, error) {
	sym, err := c.lookup(id)
	if err != nil {
		return operand{}, err
	}
	if sym.Kind == Constant {
		return imm(sym.Value), nil
	}
	if !sym.Type().IsValue() {
		return operand{}, identError(NotAValue, id.Name, id.Token)
	}
	return c.storage(sym), nil
}

// compileOperands evaluates left then right. A left operand that reads
// memory is copied out first when right may run a call or read input.
func (c *Compiler) compileOperands(left, right ast.Expression) (l, r operand, err error) {
	l, err = c.compileExpression(left)
	if err != nil {
		return
	}
	if !l.isImm() && ast.HasEffects(right) {
		l = c.materialize(l)
	}
	r, err = c.compileExpression(right)
	return
}

func (c *Compiler) compilePrefix(pe *ast.PrefixExpression) (operand, error) {
	v, err := c.compileExpression(pe.Right)
	if err != nil {
		return operand{}, err
	}
	if v.isImm() {
		return imm(foldPrefix(pe.Operator, v.value)), nil
	}

	t := c.temp()
	switch pe.Operator {
	case "-":
		c.emit(asm.Mul, v, imm(-1), t)
	case "!":
		c.emit(asm.Eq, v, imm(0), t)
	default:
		panic("unknown prefix operator " + pe.Operator)
	}
	return t, nil
}

func (c *Compiler) compileInfix(ie *ast.InfixExpression) (operand, error) {
	l, r, err := c.compileOperands(ie.Left, ie.Right)
	if err != nil {
		return operand{}, err
	}
	if l.isImm() && r.isImm() {
		return imm(foldInfix(ie.Operator, l.value, r.value)), nil
	}

	t := c.temp()
	c.binary(ie.Operator, l, r, t)
	return t, nil
}

// binary stores l op r into dst, which may alias either operand.
func (c *Compiler) binary(op string, l, r, dst operand) {
	switch op {
	case "+":
		c.emit(asm.Add, l, r, dst)
	case "*":
		c.emit(asm.Mul, l, r, dst)
	case "-":
		if r.isImm() {
			c.emit(asm.Add, l, imm(-r.value), dst)
			return
		}
		neg := c.temp()
		c.emit(asm.Mul, r, imm(-1), neg)
		c.emit(asm.Add, l, neg, dst)
	case "<":
		c.emit(asm.Lt, l, r, dst)
	case ">":
		c.emit(asm.Lt, r, l, dst)
	case "<=":
		c.emit(asm.Lt, r, l, dst)
		c.emit(asm.Eq, dst, imm(0), dst)
	case ">=":
		c.emit(asm.Lt, l, r, dst)
		c.emit(asm.Eq, dst, imm(0), dst)
	case "==":
		c.emit(asm.Eq, l, r, dst)
	case "!=":
		c.emit(asm.Eq, l, r, dst)
		c.emit(asm.Eq, dst, imm(0), dst)
	default:
		panic("unknown infix operator " + op)
	}
}
