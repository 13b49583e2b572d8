package compiler

import (
	"github.com/thiremani/icc/asm"
	"github.com/thiremani/icc/ast"
)

// Indexed access is self-modifying: the element address is computed into
// an operand cell of the instruction that follows, which then reads or
// writes through it. Static arrays are addressed absolutely, frame arrays
// relative to the base register. Indices are not bounds checked.

func (c *Compiler) resolveArray(ie *ast.IndexExpression) (*Symbol, error) {
	sym, err := c.lookup(ie.Array)
	if err != nil {
		return nil, err
	}
	if !sym.Type().Indexable() {
		return nil, identError(NotIndexable, ie.Array.Name, ie.Array.Token)
	}
	return sym, nil
}

// elementBase is the value added to an index to form the patched operand.
func elementBase(sym *Symbol) operand {
	if sym.Static {
		return operand{mode: asm.Immediate, value: sym.Offset, reloc: relocData}
	}
	return imm(sym.Offset)
}

func elementMode(sym *Symbol) asm.Mode {
	if sym.Static {
		return asm.Position
	}
	return asm.Relative
}

func (c *Compiler) compileIndexLoad(ie *ast.IndexExpression) (operand, error) {
	sym, err := c.resolveArray(ie)
	if err != nil {
		return operand{}, err
	}
	idx, err := c.compileExpression(ie.Index)
	if err != nil {
		return operand{}, err
	}
	t := c.temp()
	c.loadElement(sym, idx, t)
	return t, nil
}

// loadElement copies sym[idx] into dst.
func (c *Compiler) loadElement(sym *Symbol, idx, dst operand) {
	// the next instruction starts 4 cells on; its first operand is one more
	at := c.addr + 4 + 1
	c.emit(asm.Add, elementBase(sym), idx, operand{mode: asm.Position, value: at})
	c.emit(asm.Add, operand{mode: elementMode(sym)}, imm(0), dst)
}

// storeElement copies v into sym[idx].
func (c *Compiler) storeElement(sym *Symbol, idx, v operand) {
	at := c.addr + 4 + 3
	c.emit(asm.Add, elementBase(sym), idx, operand{mode: asm.Position, value: at})
	c.emit(asm.Add, v, imm(0), operand{mode: elementMode(sym)})
}
