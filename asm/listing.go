package asm

import (
	"bufio"
	"fmt"
	"io"
)

// WriteListing renders one instruction per line with its address, labelling
// symbol addresses, followed by a summary of the memory layout.
func WriteListing(w io.Writer, p *Program) error {
	bw := bufio.NewWriter(w)

	labels := make(map[int64][]string, len(p.Symbols))
	for _, s := range p.Symbols {
		labels[s.Addr] = append(labels[s.Addr], s.Name)
	}

	for i, addr := range p.Addrs() {
		for _, name := range labels[addr] {
			fmt.Fprintf(bw, "%s:\n", name)
		}
		fmt.Fprintf(bw, "%6d  %s\n", addr, p.Instrs[i])
	}

	code := p.CodeSize()
	fmt.Fprintf(bw, "; code %d cells, static %d cells at %d, stack at %d\n",
		code, p.DataSize, code, code+p.DataSize)
	return bw.Flush()
}

// Disassemble decodes a memory image back into instructions. Operand words
// that the program rewrites at run time decode as whatever the image holds.
func Disassemble(image []int64) ([]Instr, error) {
	var instrs []Instr
	for pc := 0; pc < len(image); {
		in, err := Decode(image[pc:])
		if err != nil {
			return nil, fmt.Errorf("address %d: %w", pc, err)
		}
		instrs = append(instrs, in)
		pc += int(in.Size())
	}
	return instrs, nil
}

// Decode reads a single instruction from the start of mem.
func Decode(mem []int64) (Instr, error) {
	if len(mem) == 0 {
		return Instr{}, fmt.Errorf("empty memory")
	}
	word := mem[0]
	if word < 0 {
		return Instr{}, fmt.Errorf("negative instruction word %d", word)
	}
	op := Opcode(word % 100)
	if !op.Valid() {
		return Instr{}, fmt.Errorf("unknown opcode %d", word%100)
	}
	n := op.Params()
	if len(mem) < 1+n {
		return Instr{}, fmt.Errorf("truncated %s: need %d operands, have %d", op, n, len(mem)-1)
	}
	in := Instr{Op: op}
	modes := word / 100
	for i := 0; i < n; i++ {
		in.Args = append(in.Args, Param{Mode: Mode(modes % 10), Value: mem[1+i]})
		modes /= 10
	}
	if err := in.Validate(); err != nil {
		return Instr{}, err
	}
	return in, nil
}
