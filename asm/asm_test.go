package asm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		in   Instr
		want []int64
	}{
		{"add pos imm rel", New(Add, Pos(4), Imm(3), Rel(2)), []int64{21001, 4, 3, 2}},
		{"mul all position", New(Mul, Pos(1), Pos(2), Pos(3)), []int64{2, 1, 2, 3}},
		{"in relative", New(In, Rel(-1)), []int64{203, -1}},
		{"out immediate", New(Out, Imm(42)), []int64{104, 42}},
		{"jnz", New(Jnz, Imm(1), Imm(17)), []int64{1105, 1, 17}},
		{"jz rel target", New(Jz, Pos(9), Rel(0)), []int64{2006, 9, 0}},
		{"lt", New(Lt, Rel(1), Imm(0), Rel(1)), []int64{21207, 1, 0, 1}},
		{"eq", New(Eq, Imm(5), Imm(5), Pos(0)), []int64{1108, 5, 5, 0}},
		{"arb", New(Arb, Imm(-10)), []int64{109, -10}},
		{"halt", New(Halt), []int64{99}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.in.Validate())
			got := tt.in.Encode(nil)
			require.Equal(t, tt.want, got)
			require.Equal(t, int64(len(got)), tt.in.Size())

			back, err := Decode(got)
			require.NoError(t, err)
			require.Equal(t, tt.in, back)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.ErrorContains(t, New(Add, Imm(1), Imm(2), Imm(3)).Validate(), "cannot write to an immediate")
	assert.ErrorContains(t, New(In, Imm(1)).Validate(), "cannot write to an immediate")
	assert.ErrorContains(t, New(Out).Validate(), "takes 1 operands, got 0")
	assert.ErrorContains(t, New(Opcode(42)).Validate(), "unknown opcode 42")
	assert.ErrorContains(t, New(Out, Param{Mode: 7}).Validate(), "unknown mode 7")
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(nil)
	require.Error(t, err)
	_, err = Decode([]int64{42})
	require.ErrorContains(t, err, "unknown opcode 42")
	_, err = Decode([]int64{1, 2})
	require.ErrorContains(t, err, "truncated add")
	_, err = Decode([]int64{-1})
	require.ErrorContains(t, err, "negative instruction word")
	_, err = Decode([]int64{11101, 1, 2, 3})
	require.ErrorContains(t, err, "cannot write to an immediate")
}

func sampleProgram() *Program {
	return &Program{
		Instrs: []Instr{
			New(Arb, Imm(12)),
			New(Jnz, Imm(1), Imm(9)),
			New(Out, Rel(2)),
			New(Halt),
			New(Add, Imm(40), Imm(2), Pos(12)),
			New(Halt),
		},
		DataSize: 3,
		Symbols:  []Symbol{{Name: "main", Addr: 5}},
	}
}

func TestProgramLayout(t *testing.T) {
	p := sampleProgram()
	require.Equal(t, int64(13), p.CodeSize())
	require.Equal(t, []int64{0, 2, 5, 7, 8, 12}, p.Addrs())

	img := p.Image()
	require.Len(t, img, 13)
	require.Equal(t, []int64{109, 12, 1105, 1, 9}, img[:5])

	instrs, err := Disassemble(img)
	require.NoError(t, err)
	require.Equal(t, p.Instrs, instrs)
}

func TestWriteListing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteListing(&buf, sampleProgram()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Equal(t, []string{
		"     0  arb #12",
		"     2  jnz #1, #9",
		"main:",
		"     5  out [rb+2]",
		"     7  halt",
		"     8  add #40, #2, [12]",
		"    12  halt",
		"; code 13 cells, static 3 cells at 13, stack at 16",
	}, lines)
}

func TestParamString(t *testing.T) {
	require.Equal(t, "[rb-3]", Rel(-3).String())
	require.Equal(t, "#-3", Imm(-3).String())
	require.Equal(t, "[7]", Pos(7).String())
	require.Equal(t, "op(42)", Opcode(42).String())
}

func TestImageText(t *testing.T) {
	img := []int64{1002, 4, 3, 4, 33, -7}

	var buf bytes.Buffer
	require.NoError(t, WriteImage(&buf, img))
	require.Equal(t, "1002,4,3,4,33,-7\n", buf.String())

	back, err := ReadImage(strings.NewReader(" 1002, 4,3,4 ,33,-7 \n"))
	require.NoError(t, err)
	require.Equal(t, img, back)

	empty, err := ReadImage(strings.NewReader("\n"))
	require.NoError(t, err)
	require.Empty(t, empty)

	_, err = ReadImage(strings.NewReader("1,x,3"))
	require.ErrorContains(t, err, "cell 1")
}
