package compiler

import (
	"github.com/thiremani/icc/asm"
	"github.com/thiremani/icc/ast"
)

// Frame layout of a call: slot 0 holds the return address, slot 1 the
// return value, then the parameters, locals and temps.
const (
	retAddrSlot  = 0
	retValueSlot = 1
	firstParam   = 2
)

func (c *Compiler) compileFuncStatement(fs *ast.FuncStatement) error {
	if err := c.checkUnique(fs.Name); err != nil {
		return err
	}

	after := c.newLabel()
	c.jump(after)

	entry := c.newLabel()
	c.place(entry)
	c.symbols = append(c.symbols, funcSymbol{name: fs.Name.Name, entry: entry})

	// bound before the body so the function can call itself
	Put(c.scopes, fs.Name.Name, &Symbol{Kind: Function, Entry: entry, Arity: len(fs.Parameters)})

	c.pushFrame(firstParam)
	PushScope(&c.scopes, FuncScope, firstParam)
	c.control = append(c.control, control{kind: funcControl})

	for _, p := range fs.Parameters {
		slot := c.frame().reserve(1)
		if err := c.declare(p, &Symbol{Kind: Param, Offset: slot}); err != nil {
			return err
		}
	}
	if err := c.compileStatements(fs.Body.Statements); err != nil {
		return err
	}
	c.emitReturn(imm(0))

	c.control = c.control[:len(c.control)-1]
	PopScope(&c.scopes)
	c.popFrame()
	c.place(after)
	return nil
}

func (c *Compiler) emitReturn(v operand) {
	c.move(v, rel(retValueSlot))
	c.emit(asm.Jnz, imm(1), rel(retAddrSlot))
}

func (c *Compiler) compileReturnStatement(rs *ast.ReturnStatement) error {
	if !c.inFunction() {
		return newError(ReturnOutsideFunction, rs.Token)
	}
	v := imm(0)
	if rs.Value != nil {
		var err error
		if v, err = c.compileExpression(rs.Value); err != nil {
			return err
		}
	}
	c.emitReturn(v)
	return nil
}

// compileCall evaluates the arguments into the caller's frame, copies them
// into the callee frame that starts right past it, and jumps to the entry.
func (c *Compiler) compileCall(ce *ast.CallExpression) (operand, error) {
	sym, err := c.lookup(ce.Function)
	if err != nil {
		return operand{}, err
	}
	if !sym.Type().Callable() {
		return operand{}, identError(NotCallable, ce.Function.Name, ce.Function.Token)
	}
	if len(ce.Arguments) != sym.Arity {
		return operand{}, &CompileError{
			Kind:  ArityMismatch,
			Ident: ce.Function.Name,
			Token: ce.Token,
			Want:  sym.Arity,
			Got:   len(ce.Arguments),
		}
	}

	args := make([]operand, len(ce.Arguments))
	for i, a := range ce.Arguments {
		v, err := c.compileExpression(a)
		if err != nil {
			return operand{}, err
		}
		// a later argument may run a call that changes what v reads
		if !v.isImm() && anyEffects(ce.Arguments[i+1:]) {
			v = c.materialize(v)
		}
		args[i] = v
	}

	for i, v := range args {
		c.move(v, frameRef(asm.Relative, firstParam+int64(i), 1))
	}
	ret := c.newLabel()
	c.move(labelRef(ret), frameRef(asm.Relative, retAddrSlot, 1))
	c.emit(asm.Arb, frameRef(asm.Immediate, 0, 1))
	c.jump(sym.Entry)
	c.place(ret)
	c.emit(asm.Arb, frameRef(asm.Immediate, 0, -1))

	t := c.temp()
	c.move(frameRef(asm.Relative, retValueSlot, 1), t)
	return t, nil
}

func anyEffects(es []ast.Expression) bool {
	for _, e := range es {
		if ast.HasEffects(e) {
			return true
		}
	}
	return false
}
