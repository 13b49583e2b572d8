// Package vm executes intcode memory images.
package vm

import (
	"context"
	"errors"
	"fmt"

	"github.com/thiremani/icc/asm"
)

var (
	ErrNeedInput   = errors.New("input exhausted")
	ErrStepLimit   = errors.New("step limit exceeded")
	ErrBadOpcode   = errors.New("bad opcode")
	ErrBadAddress  = errors.New("bad address")
	ErrMemoryLimit = errors.New("memory limit exceeded")
	ErrHalted      = errors.New("machine halted")
)

// checkEvery is how many instructions run between context checks.
const checkEvery = 4096

type Options struct {
	MaxSteps  int64 // 0 means unlimited
	MaxMemory int64 // highest addressable cell count, 0 means unlimited
}

var DefaultOptions = Options{
	MaxSteps:  10_000_000,
	MaxMemory: 1 << 24,
}

type Machine struct {
	PC     int64
	RB     int64
	Steps  int64
	Halted bool

	mem    []int64
	opts   Options
	input  []int64
	output []int64
}

// New loads a copy of image into a fresh machine.
func New(image []int64, opts Options) *Machine {
	mem := make([]int64, len(image))
	copy(mem, image)
	return &Machine{mem: mem, opts: opts}
}

// Feed queues values for subsequent in instructions.
func (m *Machine) Feed(values ...int64) {
	m.input = append(m.input, values...)
}

// Output returns everything written so far.
func (m *Machine) Output() []int64 {
	return m.output
}

// Peek reads a memory cell; cells beyond the loaded image read as zero.
func (m *Machine) Peek(addr int64) (int64, error) {
	if addr < 0 {
		return 0, fmt.Errorf("%w: %d", ErrBadAddress, addr)
	}
	if addr >= int64(len(m.mem)) {
		return 0, nil
	}
	return m.mem[addr], nil
}

func (m *Machine) poke(addr, v int64) error {
	if addr < 0 {
		return fmt.Errorf("%w: %d", ErrBadAddress, addr)
	}
	if addr >= int64(len(m.mem)) {
		if m.opts.MaxMemory > 0 && addr >= m.opts.MaxMemory {
			return fmt.Errorf("%w: address %d", ErrMemoryLimit, addr)
		}
		grown := make([]int64, max(addr+1, int64(2*len(m.mem))))
		if m.opts.MaxMemory > 0 && int64(len(grown)) > m.opts.MaxMemory {
			grown = grown[:m.opts.MaxMemory]
		}
		copy(grown, m.mem)
		m.mem = grown
	}
	m.mem[addr] = v
	return nil
}

// operand resolves the address operand i of the instruction at PC refers
// to. Immediate operands resolve to the operand cell itself.
func (m *Machine) operand(mode asm.Mode, i int64) (int64, error) {
	cell := m.PC + 1 + i
	switch mode {
	case asm.Position:
		return m.Peek(cell)
	case asm.Immediate:
		return cell, nil
	case asm.Relative:
		off, err := m.Peek(cell)
		return m.RB + off, err
	default:
		return 0, fmt.Errorf("%w: mode %d", ErrBadOpcode, int64(mode))
	}
}

// Step executes one instruction.
func (m *Machine) Step() error {
	if m.Halted {
		return ErrHalted
	}
	if m.opts.MaxSteps > 0 && m.Steps >= m.opts.MaxSteps {
		return fmt.Errorf("pc %d: %w (%d)", m.PC, ErrStepLimit, m.opts.MaxSteps)
	}
	if err := m.step(); err != nil {
		return fmt.Errorf("pc %d: %w", m.PC, err)
	}
	m.Steps++
	return nil
}

func (m *Machine) step() error {
	word, err := m.Peek(m.PC)
	if err != nil {
		return err
	}
	if word < 0 {
		return fmt.Errorf("%w: %d", ErrBadOpcode, word)
	}
	op := asm.Opcode(word % 100)
	if !op.Valid() {
		return fmt.Errorf("%w: %d", ErrBadOpcode, word)
	}

	n := op.Params()
	addrs := make([]int64, n)
	modes := word / 100
	for i := 0; i < n; i++ {
		addrs[i], err = m.operand(asm.Mode(modes%10), int64(i))
		if err != nil {
			return err
		}
		modes /= 10
	}
	arg := func(i int) (int64, error) { return m.Peek(addrs[i]) }
	next := m.PC + int64(1+n)

	switch op {
	case asm.Add, asm.Mul, asm.Lt, asm.Eq:
		a, err := arg(0)
		if err != nil {
			return err
		}
		b, err := arg(1)
		if err != nil {
			return err
		}
		var v int64
		switch op {
		case asm.Add:
			v = a + b
		case asm.Mul:
			v = a * b
		case asm.Lt:
			v = b2i(a < b)
		case asm.Eq:
			v = b2i(a == b)
		}
		if err := m.poke(addrs[2], v); err != nil {
			return err
		}
	case asm.In:
		if len(m.input) == 0 {
			return ErrNeedInput
		}
		v := m.input[0]
		if err := m.poke(addrs[0], v); err != nil {
			return err
		}
		m.input = m.input[1:]
	case asm.Out:
		v, err := arg(0)
		if err != nil {
			return err
		}
		m.output = append(m.output, v)
	case asm.Jnz, asm.Jz:
		v, err := arg(0)
		if err != nil {
			return err
		}
		target, err := arg(1)
		if err != nil {
			return err
		}
		if (v != 0) == (op == asm.Jnz) {
			next = target
		}
	case asm.Arb:
		v, err := arg(0)
		if err != nil {
			return err
		}
		m.RB += v
	case asm.Halt:
		m.Halted = true
		next = m.PC
	}

	m.PC = next
	return nil
}

// Run feeds input and executes until the machine halts, an error occurs, or
// ctx is done. It returns all output produced by this machine so far.
func (m *Machine) Run(ctx context.Context, input []int64) ([]int64, error) {
	m.Feed(input...)
	for !m.Halted {
		if m.Steps%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return m.output, fmt.Errorf("pc %d: %w", m.PC, err)
			}
		}
		if err := m.Step(); err != nil {
			return m.output, err
		}
	}
	return m.output, nil
}

// Exec is a convenience that runs image to completion on a fresh machine.
func Exec(ctx context.Context, image []int64, input []int64, opts Options) ([]int64, error) {
	return New(image, opts).Run(ctx, input)
}

func b2i(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
