package compiler

import (
	"fmt"

	"github.com/thiremani/icc/asm"
)

// reloc says how an operand's final value is derived once layout is known.
type reloc int

const (
	relocNone  reloc = iota
	relocData        // code size + value
	relocStack       // code size + data size
	relocFrame       // value + scale * current frame size
	relocLabel       // label address + value
)

type operand struct {
	mode  asm.Mode
	value int64
	reloc reloc
	scale int64
	label int
	temp  bool // a scratch slot owned by the expression that produced it
}

func imm(v int64) operand {
	return operand{mode: asm.Immediate, value: v}
}

func rel(off int64) operand {
	return operand{mode: asm.Relative, value: off}
}

func static(off int64) operand {
	return operand{mode: asm.Position, value: off, reloc: relocData}
}

func labelRef(l int) operand {
	return operand{mode: asm.Immediate, reloc: relocLabel, label: l}
}

// frameRef addresses value + scale*F, where F is the final size of the
// frame being emitted.
func frameRef(mode asm.Mode, value, scale int64) operand {
	return operand{mode: mode, value: value, reloc: relocFrame, scale: scale}
}

func (o operand) isImm() bool {
	return o.mode == asm.Immediate && o.reloc == relocNone
}

type fixup struct {
	instr  int
	arg    int
	reloc  reloc
	scale  int64
	addend int64
}

type label struct {
	addr    int64
	placed  bool
	pending []fixup
}

// frame tracks slot allocation for the top level or one function body.
type frame struct {
	next   int64
	high   int64
	fixups []fixup
}

func (f *frame) reserve(n int64) int64 {
	slot := f.next
	f.next += n
	f.high = max(f.high, f.next)
	return slot
}

func (c *Compiler) frame() *frame {
	return c.frames[len(c.frames)-1]
}

func (c *Compiler) pushFrame(first int64) {
	c.frames = append(c.frames, &frame{next: first, high: first})
}

// popFrame patches every frame-size reference emitted in the innermost
// frame and discards it.
func (c *Compiler) popFrame() {
	f := c.frame()
	for _, fx := range f.fixups {
		c.patch(fx, fx.addend+fx.scale*f.high)
	}
	c.frames = c.frames[:len(c.frames)-1]
}

func (c *Compiler) temp() operand {
	o := rel(c.frame().reserve(1))
	o.temp = true
	return o
}

func (c *Compiler) newLabel() int {
	c.labels = append(c.labels, label{})
	return len(c.labels) - 1
}

// place binds l to the current address and resolves its pending jumps.
func (c *Compiler) place(l int) {
	lb := &c.labels[l]
	if lb.placed {
		panic(fmt.Sprintf("label %d placed twice", l))
	}
	lb.addr = c.addr
	lb.placed = true
	for _, fx := range lb.pending {
		c.patch(fx, lb.addr+fx.addend)
	}
	lb.pending = nil
}

func (c *Compiler) patch(fx fixup, v int64) {
	c.instrs[fx.instr].Args[fx.arg].Value = v
}

// emit appends an instruction and records the fixups its operands need.
// It returns the address the instruction was placed at.
func (c *Compiler) emit(op asm.Opcode, args ...operand) int64 {
	idx := len(c.instrs)
	in := asm.Instr{Op: op}
	for i, a := range args {
		in.Args = append(in.Args, asm.Param{Mode: a.mode, Value: a.value})
		fx := fixup{instr: idx, arg: i, reloc: a.reloc, scale: a.scale, addend: a.value}
		switch a.reloc {
		case relocData, relocStack:
			c.fixups = append(c.fixups, fx)
		case relocFrame:
			c.frame().fixups = append(c.frame().fixups, fx)
		case relocLabel:
			lb := &c.labels[a.label]
			if lb.placed {
				in.Args[i].Value = lb.addr + a.value
			} else {
				lb.pending = append(lb.pending, fx)
			}
		}
	}

	addr := c.addr
	c.instrs = append(c.instrs, in)
	c.addr += in.Size()
	return addr
}

func (c *Compiler) move(src, dst operand) {
	c.emit(asm.Add, src, imm(0), dst)
}

func (c *Compiler) jump(l int) {
	c.emit(asm.Jnz, imm(1), labelRef(l))
}

// materialize copies o into a fresh temp unless it already is one.
func (c *Compiler) materialize(o operand) operand {
	if o.temp {
		return o
	}
	t := c.temp()
	c.move(o, t)
	return t
}

// link resolves layout-dependent operands once all code is emitted.
func (c *Compiler) link() {
	code := c.addr
	for _, fx := range c.fixups {
		switch fx.reloc {
		case relocData:
			c.patch(fx, code+fx.addend)
		case relocStack:
			c.patch(fx, code+c.data)
		}
	}
	for i, lb := range c.labels {
		if !lb.placed {
			panic(fmt.Sprintf("label %d never placed", i))
		}
	}
}
