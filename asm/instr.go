// Package asm models intcode instructions and their memory encoding.
package asm

import (
	"fmt"
	"strconv"
)

type Opcode int64

const (
	Add  Opcode = 1
	Mul  Opcode = 2
	In   Opcode = 3
	Out  Opcode = 4
	Jnz  Opcode = 5
	Jz   Opcode = 6
	Lt   Opcode = 7
	Eq   Opcode = 8
	Arb  Opcode = 9
	Halt Opcode = 99
)

type opInfo struct {
	name string
	// params is the operand count; write is the index of the operand the
	// instruction stores to, or -1.
	params int
	write  int
}

var opcodes = map[Opcode]opInfo{
	Add:  {"add", 3, 2},
	Mul:  {"mul", 3, 2},
	In:   {"in", 1, 0},
	Out:  {"out", 1, -1},
	Jnz:  {"jnz", 2, -1},
	Jz:   {"jz", 2, -1},
	Lt:   {"lt", 3, 2},
	Eq:   {"eq", 3, 2},
	Arb:  {"arb", 1, -1},
	Halt: {"halt", 0, -1},
}

func (op Opcode) String() string {
	if info, ok := opcodes[op]; ok {
		return info.name
	}
	return "op(" + strconv.FormatInt(int64(op), 10) + ")"
}

// Valid reports whether op is a known opcode.
func (op Opcode) Valid() bool {
	_, ok := opcodes[op]
	return ok
}

// Params is the number of operands op takes.
func (op Opcode) Params() int {
	return opcodes[op].params
}

// WriteParam is the index of the operand op stores to, or -1.
func (op Opcode) WriteParam() int {
	if info, ok := opcodes[op]; ok {
		return info.write
	}
	return -1
}

type Mode int64

const (
	Position  Mode = 0
	Immediate Mode = 1
	Relative  Mode = 2
)

type Param struct {
	Mode  Mode
	Value int64
}

func Pos(addr int64) Param { return Param{Mode: Position, Value: addr} }
func Imm(v int64) Param    { return Param{Mode: Immediate, Value: v} }
func Rel(off int64) Param  { return Param{Mode: Relative, Value: off} }

func (p Param) String() string {
	switch p.Mode {
	case Position:
		return "[" + strconv.FormatInt(p.Value, 10) + "]"
	case Immediate:
		return "#" + strconv.FormatInt(p.Value, 10)
	case Relative:
		if p.Value < 0 {
			return "[rb" + strconv.FormatInt(p.Value, 10) + "]"
		}
		return "[rb+" + strconv.FormatInt(p.Value, 10) + "]"
	default:
		return "?" + strconv.FormatInt(p.Value, 10)
	}
}

type Instr struct {
	Op   Opcode
	Args []Param
}

func New(op Opcode, args ...Param) Instr {
	return Instr{Op: op, Args: args}
}

// Size is the number of memory cells the instruction occupies.
func (in Instr) Size() int64 {
	return int64(1 + in.Op.Params())
}

// Validate checks the operand count and that the written operand is not
// immediate.
func (in Instr) Validate() error {
	if !in.Op.Valid() {
		return fmt.Errorf("unknown opcode %d", int64(in.Op))
	}
	if len(in.Args) != in.Op.Params() {
		return fmt.Errorf("%s takes %d operands, got %d", in.Op, in.Op.Params(), len(in.Args))
	}
	for i, a := range in.Args {
		if a.Mode != Position && a.Mode != Immediate && a.Mode != Relative {
			return fmt.Errorf("%s operand %d: unknown mode %d", in.Op, i, int64(a.Mode))
		}
	}
	if w := in.Op.WriteParam(); w >= 0 && in.Args[w].Mode == Immediate {
		return fmt.Errorf("%s operand %d: cannot write to an immediate", in.Op, w)
	}
	return nil
}

// Encode appends the instruction's memory cells to dst.
func (in Instr) Encode(dst []int64) []int64 {
	word := int64(in.Op)
	scale := int64(100)
	for _, a := range in.Args {
		word += int64(a.Mode) * scale
		scale *= 10
	}
	dst = append(dst, word)
	for _, a := range in.Args {
		dst = append(dst, a.Value)
	}
	return dst
}

func (in Instr) String() string {
	s := in.Op.String()
	for i, a := range in.Args {
		if i == 0 {
			s += " "
		} else {
			s += ", "
		}
		s += a.String()
	}
	return s
}
