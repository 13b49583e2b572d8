package asm

// Symbol names an address in a program, e.g. a function entry.
type Symbol struct {
	Name string
	Addr int64
}

// Program is a complete, linked instruction sequence. Code starts at
// address 0; DataSize zero-initialised static cells follow the code, and
// the stack starts right after them.
type Program struct {
	Instrs   []Instr
	DataSize int64
	Symbols  []Symbol
}

// CodeSize is the number of memory cells occupied by the instructions.
func (p *Program) CodeSize() int64 {
	var n int64
	for _, in := range p.Instrs {
		n += in.Size()
	}
	return n
}

// Image encodes the program's code into an intcode memory image. Static
// cells are not included; intcode memory reads as zero past the image.
func (p *Program) Image() []int64 {
	img := make([]int64, 0, p.CodeSize())
	for _, in := range p.Instrs {
		img = in.Encode(img)
	}
	return img
}

// Addrs returns the start address of every instruction.
func (p *Program) Addrs() []int64 {
	addrs := make([]int64, len(p.Instrs))
	var addr int64
	for i, in := range p.Instrs {
		addrs[i] = addr
		addr += in.Size()
	}
	return addrs
}
