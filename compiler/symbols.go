package compiler

import (
	"github.com/thiremani/icc/ast"
	"github.com/thiremani/icc/types"
)

type SymbolKind int

const (
	Variable SymbolKind = iota
	Constant
	Array
	Param
	Function
)

// Symbol describes what a name is bound to and where it lives.
type Symbol struct {
	Kind  SymbolKind
	Value int64 // folded value of a Constant

	// Static symbols sit at Offset cells past the end of the code.
	// Otherwise Offset is a slot in the declaring function's frame.
	Static bool
	Offset int64
	Size   int64 // element count of an Array

	Entry int // entry label of a Function
	Arity int
}

func (s *Symbol) Type() types.Kind {
	switch s.Kind {
	case Array:
		return types.Array
	case Function:
		return types.Func
	default:
		return types.Scalar
	}
}

// frameResident reports whether the symbol lives in a call frame and is
// therefore unreachable from functions nested inside its declaring one.
func (s *Symbol) frameResident() bool {
	switch s.Kind {
	case Variable, Array, Param:
		return !s.Static
	}
	return false
}

func visibleFromNested(s *Symbol) bool {
	return !s.frameResident()
}

// declare binds name in the innermost scope.
func (c *Compiler) declare(name *ast.Identifier, sym *Symbol) error {
	if Declared(c.scopes, name.Name) {
		return identError(DuplicateDeclaration, name.Name, name.Token)
	}
	Put(c.scopes, name.Name, sym)
	return nil
}

func (c *Compiler) checkUnique(name *ast.Identifier) error {
	if Declared(c.scopes, name.Name) {
		return identError(DuplicateDeclaration, name.Name, name.Token)
	}
	return nil
}

func (c *Compiler) lookup(name *ast.Identifier) (*Symbol, error) {
	sym, ok := Get(c.scopes, name.Name, visibleFromNested)
	if !ok {
		return nil, identError(UndefinedVariable, name.Name, name.Token)
	}
	return sym, nil
}

// storage returns the operand addressing a scalar symbol.
func (c *Compiler) storage(sym *Symbol) operand {
	if sym.Static {
		return static(sym.Offset)
	}
	return rel(sym.Offset)
}

func (c *Compiler) inFunction() bool {
	return len(c.frames) > 1
}

// maxStorage caps the cells one storage area (statics or a single frame)
// may hold, keeping every offset far from int64 overflow.
const maxStorage int64 = 1 << 32

// fits reports whether n more cells fit in the storage allocate would use.
func (c *Compiler) fits(n int64) bool {
	used := c.data
	if c.inFunction() {
		used = c.frame().next
	}
	return n < maxStorage-used
}

// allocate reserves n cells for a new variable or array: static cells at
// the top level, frame slots inside a function.
func (c *Compiler) allocate(n int64) (offset int64, isStatic bool) {
	if !c.inFunction() {
		offset = c.data
		c.data += n
		return offset, true
	}
	return c.frame().reserve(n), false
}
