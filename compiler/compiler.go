// Package compiler lowers a parsed program to intcode in a single pass:
// names are resolved, constants folded and control flow checked while the
// instructions are emitted.
package compiler

import (
	"fmt"
	"strings"

	"github.com/thiremani/icc/asm"
	"github.com/thiremani/icc/ast"
	"github.com/thiremani/icc/ident"
)

type funcSymbol struct {
	name  ident.Handle
	entry int
}

type Compiler struct {
	env     *ident.Env
	scopes  []Scope[*Symbol]
	frames  []*frame
	control []control

	instrs  []asm.Instr
	addr    int64 // address of the next instruction
	labels  []label
	fixups  []fixup // resolved once code and data sizes are final
	data    int64   // static cells allocated so far
	symbols []funcSymbol
}

func newCompiler(env *ident.Env) *Compiler {
	c := &Compiler{
		env:    env,
		scopes: []Scope[*Symbol]{NewScope[*Symbol](GlobalScope, 0)},
	}
	c.pushFrame(0)
	return c
}

// Generate compiles program into a linked intcode program. It stops at the
// first problem; the error is then always a *CompileError and no program
// is returned.
func Generate(program *ast.Program, env *ident.Env) (*asm.Program, error) {
	c := newCompiler(env)

	c.emit(asm.Arb, operand{mode: asm.Immediate, reloc: relocStack})
	if err := c.compileStatements(program.Statements); err != nil {
		return nil, err
	}
	c.emit(asm.Halt)
	c.popFrame()
	c.link()

	return &asm.Program{
		Instrs:   c.instrs,
		DataSize: c.data,
		Symbols:  c.symbolTable(),
	}, nil
}

func (c *Compiler) symbolTable() []asm.Symbol {
	syms := make([]asm.Symbol, 0, len(c.symbols))
	for _, s := range c.symbols {
		name := fmt.Sprintf("ident#%d", s.name)
		if c.env != nil {
			name = c.env.Name(s.name)
		}
		syms = append(syms, asm.Symbol{Name: name, Addr: c.labels[s.entry].addr})
	}
	return syms
}

func (c *Compiler) compileStatements(stmts []ast.Statement) error {
	for _, s := range stmts {
		if err := c.compileStatement(s); err != nil {
			return err
		}
	}
	return nil
}

// compileStatement frees the temps a statement used once it is done. A let
// keeps the slot it declares.
func (c *Compiler) compileStatement(s ast.Statement) error {
	mark := c.frame().next
	var err error

	switch s := s.(type) {
	case *ast.ConstStatement:
		err = c.compileConstStatement(s)
	case *ast.LetStatement:
		return c.compileLetStatement(s)
	case *ast.FuncStatement:
		err = c.compileFuncStatement(s)
	case *ast.BlockStatement:
		err = c.compileBlockStatement(s)
	case *ast.IfStatement:
		err = c.compileIfStatement(s)
	case *ast.WhileStatement:
		err = c.compileWhileStatement(s)
	case *ast.LoopStatement:
		err = c.compileLoopStatement(s)
	case *ast.BreakStatement:
		err = c.compileBreakStatement(s)
	case *ast.ContinueStatement:
		err = c.compileContinueStatement(s)
	case *ast.ReturnStatement:
		err = c.compileReturnStatement(s)
	case *ast.PrintStatement:
		err = c.compilePrintStatement(s)
	case *ast.AssignStatement:
		err = c.compileAssignStatement(s)
	case *ast.ExpressionStatement:
		_, err = c.compileExpression(s.Expression)
	default:
		panic(fmt.Sprintf("unexpected statement %T", s))
	}

	c.frame().next = mark
	return err
}

func (c *Compiler) compileBlockStatement(bs *ast.BlockStatement) error {
	PushScope(&c.scopes, BlockScope, c.frame().next)
	if err := c.compileStatements(bs.Statements); err != nil {
		return err
	}
	sc := PopScope(&c.scopes)
	c.frame().next = sc.Base
	return nil
}

func (c *Compiler) compileConstStatement(cs *ast.ConstStatement) error {
	if err := c.checkUnique(cs.Name); err != nil {
		return err
	}
	v, err := c.evalConst(cs.Value)
	if err != nil {
		return err
	}
	Put(c.scopes, cs.Name.Name, &Symbol{Kind: Constant, Value: v})
	return nil
}

// compileLetStatement reserves storage before compiling the initializer and
// binds the name after it, so `let x = x;` reads an outer x.
func (c *Compiler) compileLetStatement(ls *ast.LetStatement) error {
	if err := c.checkUnique(ls.Name); err != nil {
		return err
	}

	if ls.IsArray() {
		n, err := c.evalConst(ls.Size)
		if err != nil {
			return err
		}
		if n < 1 || !c.fits(n) {
			return identError(InvalidArraySize, ls.Name.Name, ls.Name.Token)
		}
		off, isStatic := c.allocate(n)
		Put(c.scopes, ls.Name.Name, &Symbol{Kind: Array, Static: isStatic, Offset: off, Size: n})
		return nil
	}

	off, isStatic := c.allocate(1)
	sym := &Symbol{Kind: Variable, Static: isStatic, Offset: off}
	keep := c.frame().next

	v := imm(0)
	if ls.Value != nil {
		var err error
		if v, err = c.compileExpression(ls.Value); err != nil {
			return err
		}
	}
	c.move(v, c.storage(sym))
	c.frame().next = keep

	Put(c.scopes, ls.Name.Name, sym)
	return nil
}

func (c *Compiler) compilePrintStatement(ps *ast.PrintStatement) error {
	for _, e := range ps.Expressions {
		v, err := c.compileExpression(e)
		if err != nil {
			return err
		}
		c.emit(asm.Out, v)
	}
	return nil
}

func (c *Compiler) compileAssignStatement(as *ast.AssignStatement) error {
	// "=" leaves no operator; "+=" leaves "+"
	op := strings.TrimSuffix(as.Token.Literal, "=")

	switch target := as.Target.(type) {
	case *ast.Identifier:
		sym, err := c.lookup(target)
		if err != nil {
			return err
		}
		if sym.Kind != Variable && sym.Kind != Param {
			return identError(NotAssignable, target.Name, target.Token)
		}
		dst := c.storage(sym)
		v, err := c.compileExpression(as.Value)
		if err != nil {
			return err
		}
		if op == "" {
			c.move(v, dst)
		} else {
			c.binary(op, dst, v, dst)
		}
		return nil

	case *ast.IndexExpression:
		sym, err := c.resolveArray(target)
		if err != nil {
			return err
		}
		idx, err := c.compileExpression(target.Index)
		if err != nil {
			return err
		}
		if !idx.isImm() && ast.HasEffects(as.Value) {
			idx = c.materialize(idx)
		}
		v, err := c.compileExpression(as.Value)
		if err != nil {
			return err
		}
		if op != "" {
			cur := c.temp()
			c.loadElement(sym, idx, cur)
			c.binary(op, cur, v, cur)
			v = cur
		}
		c.storeElement(sym, idx, v)
		return nil

	default:
		panic(fmt.Sprintf("unexpected assignment target %T", target))
	}
}
