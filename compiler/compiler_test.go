package compiler

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thiremani/icc/asm"
	"github.com/thiremani/icc/ident"
	"github.com/thiremani/icc/parser"
	"github.com/thiremani/icc/vm"
)

func generate(t *testing.T, src string) (*asm.Program, *ident.Env, error) {
	t.Helper()
	program, env, err := parser.Parse("test.ic", src)
	require.NoError(t, err)
	prog, err := Generate(program, env)
	return prog, env, err
}

func mustGenerate(t *testing.T, src string) *asm.Program {
	t.Helper()
	prog, _, err := generate(t, src)
	require.NoError(t, err)
	for i, in := range prog.Instrs {
		require.NoError(t, in.Validate(), "instruction %d: %s", i, in)
	}
	return prog
}

func run(t *testing.T, src string, input ...int64) []int64 {
	t.Helper()
	prog := mustGenerate(t, src)
	out, err := vm.Exec(context.Background(), prog.Image(), input, vm.DefaultOptions)
	require.NoError(t, err)
	return out
}

func TestEmitsExactSequence(t *testing.T) {
	prog := mustGenerate(t, "let x = 2; print x + 1;")

	expected := []asm.Instr{
		asm.New(asm.Arb, asm.Imm(14)),
		asm.New(asm.Add, asm.Imm(2), asm.Imm(0), asm.Pos(13)),
		asm.New(asm.Add, asm.Pos(13), asm.Imm(1), asm.Rel(0)),
		asm.New(asm.Out, asm.Rel(0)),
		asm.New(asm.Halt),
	}
	require.Equal(t, expected, prog.Instrs)
	require.Equal(t, int64(13), prog.CodeSize())
	require.Equal(t, int64(1), prog.DataSize)
}

func TestConstantsAreFolded(t *testing.T) {
	prog := mustGenerate(t, "const N = 2 + 3; const M = N * N - 1; print M;")

	require.Equal(t, []asm.Instr{
		asm.New(asm.Arb, asm.Imm(5)),
		asm.New(asm.Out, asm.Imm(24)),
		asm.New(asm.Halt),
	}, prog.Instrs)
	require.Zero(t, prog.DataSize)
}

func TestConstantNeverLoadedInFunction(t *testing.T) {
	src := `fn f() { const N = 2 + 3; let arr[N]; arr[0] = 10; return arr[0]; } print f();`
	prog := mustGenerate(t, src)

	// no operand ever reads a cell holding 5; N only shows up as an immediate
	for _, in := range prog.Instrs {
		for _, a := range in.Args {
			if a.Value == 5 {
				require.Equal(t, asm.Immediate, a.Mode, "%s", in)
			}
		}
	}

	out, err := vm.Exec(context.Background(), prog.Image(), nil, vm.DefaultOptions)
	require.NoError(t, err)
	require.Equal(t, []int64{10}, out)
}

func TestRun(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		input []int64
		want  []int64
	}{
		{
			name: "arithmetic and comparisons",
			src: `let a = 3; let b = 4;
print a < b, b < a, a <= a, a <= b, b <= a, b >= a, a >= b;
print a == a, a != b, a > b, b > a, !a, !(a - a), -a, a - b, a * b, a + b;`,
			want: []int64{1, 0, 1, 1, 0, 1, 0, 1, 1, 0, 1, 0, 1, -3, -1, 12, 7},
		},
		{
			name: "constant left side of && and ||",
			src: `let x = input(); let z = input();
const T = true; const F = 0;
print T && x, F || x, F && x, T || x, T && z, F || z;`,
			input: []int64{5, 0},
			want:  []int64{1, 1, 0, 1, 0, 0},
		},
		{
			name:  "input",
			src:   "let a = input(); let b = input(); print a * b, a - b;",
			input: []int64{6, 7},
			want:  []int64{42, -1},
		},
		{
			name: "uninitialised scalars are zero",
			src:  "let y; print y; y = 3; print y;",
			want: []int64{0, 3},
		},
		{
			name: "block shadowing",
			src:  "let x = 1; { let x = 2; print x; } print x;",
			want: []int64{2, 1},
		},
		{
			name: "initializer reads the outer binding",
			src:  "let x = 4; { let x = x + 1; print x; } print x;",
			want: []int64{5, 4},
		},
		{
			name: "function local shadows static",
			src:  "let x = 5; fn f() { let x = 1; return x; } print f(), x;",
			want: []int64{1, 5},
		},
		{
			name: "nested function sees statics but not enclosing locals",
			src: `let a = 7;
fn outer() { let a = 1; fn inner() { return a; } return inner() + a; }
print outer();`,
			want: []int64{8},
		},
		{
			name: "compound assignment",
			src:  "let x = 10; x += 5; x -= 3; x *= 2; let y = 4; x -= y; print x;",
			want: []int64{20},
		},
		{
			name: "if else chain",
			src: `fn classify(n) {
  if n < 0 { return -1; } else if n == 0 { return 0; } else { return 1; }
}
print classify(-5), classify(0), classify(9);`,
			want: []int64{-1, 0, 1},
		},
		{
			name: "recursion",
			src: `fn fact(n) { if n < 2 { return 1; } return n * fact(n - 1); }
print fact(10);`,
			want: []int64{3628800},
		},
		{
			name: "mutual recursion through a static",
			src: `let depth = 0;
fn down(n) { depth += 1; if n == 0 { return 0; } return down(n - 1) + 2; }
print down(5), depth;`,
			want: []int64{10, 6},
		},
		{
			name: "nested calls as arguments",
			src:  "fn add(a, b) { return a + b; } print add(add(1, 2), add(3, 4));",
			want: []int64{10},
		},
		{
			name: "arguments evaluate left to right",
			src: `let g = 1;
fn set(v) { g = v; return 0; }
fn pair(a, b) { return a * 10 + b; }
print pair(g, set(7));
print g;`,
			want: []int64{10, 7},
		},
		{
			name: "bare return and falling off the end",
			src:  "fn f() { return; } fn g() { } fn h(x) { x = 3; } print f(), g(), h(1);",
			want: []int64{0, 0, 0},
		},
		{
			name: "short circuit",
			src: `let calls = 0;
fn bump() { calls += 1; return 1; }
if 0 && bump() { print 100; }
if 1 || bump() { print 200; }
if 1 && bump() { print 300; }
if 0 || bump() { print 400; }
print calls;
let z = 0;
print z && bump(), z || 5, calls;`,
			want: []int64{200, 300, 400, 2, 0, 1, 2},
		},
		{
			name: "nested loops with break and continue",
			src: `let i = 0;
let total = 0;
while i < 5 {
  i += 1;
  if i == 2 { continue; }
  let j = 0;
  loop {
    j += 1;
    if j > i { break; }
    total += j;
  }
}
print total;`,
			want: []int64{32},
		},
		{
			name: "static arrays",
			src: `let a[5];
let i = 0;
while i < 5 { a[i] = i * i; i += 1; }
a[2] += 100;
a[3] -= 1;
a[4] *= 2;
print a[0], a[1], a[2], a[3], a[4];`,
			want: []int64{0, 1, 104, 8, 32},
		},
		{
			name: "frame arrays",
			src: `fn sum(n) {
  let buf[4];
  let i = 0;
  while i < n { buf[i] = i + 1; i += 1; }
  let s = 0;
  i = 0;
  while i < n { s += buf[i]; i += 1; }
  return s;
}
print sum(4), sum(2);`,
			want: []int64{10, 3},
		},
		{
			name: "array sized by a constant expression",
			src: `const N = 2; let a[N * 3]; a[N * 3 - 1] = 9; print a[5];`,
			want: []int64{9},
		},
		{
			name:  "loop reading input until zero",
			src:   "let s = 0; loop { let v = input(); if !v { break; } s += v; } print s;",
			input: []int64{3, 4, 5, 0},
			want:  []int64{12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, run(t, tt.src, tt.input...))
		})
	}
}

func TestFunctionSymbols(t *testing.T) {
	prog := mustGenerate(t, "fn a() { } fn b(x) { return x; }")
	require.Len(t, prog.Symbols, 2)
	require.Equal(t, asm.Symbol{Name: "a", Addr: 5}, prog.Symbols[0])
	require.Equal(t, "b", prog.Symbols[1].Name)

	// a's body is the default return: two instructions, 7 cells
	require.Equal(t, int64(5+7+3), prog.Symbols[1].Addr)
}

func TestGenerateIsDeterministic(t *testing.T) {
	src := `const K = 3;
let a[K];
fn f(x, y) { let t = x * y; return t - K; }
let i = 0;
while i < K { a[i] = f(i, i + 1); i += 1; }
print a[0] + a[1] + a[2];`

	first := mustGenerate(t, src)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, mustGenerate(t, src))
	}
}

func TestConcurrentGenerate(t *testing.T) {
	sources := []string{
		"print 1;",
		"fn f(n) { if n < 1 { return 0; } return n + f(n - 1); } print f(4);",
		"let a[3]; a[1] = 2; print a[1];",
		"let x = 0; while x < 3 { x += 1; } print x;",
	}
	expected := make([]*asm.Program, len(sources))
	for i, src := range sources {
		expected[i] = mustGenerate(t, src)
	}

	var wg sync.WaitGroup
	results := make([]*asm.Program, len(sources))
	errs := make([]error, len(sources))
	for i, src := range sources {
		i := i
		program, env, err := parser.Parse("concurrent.ic", src)
		require.NoError(t, err)
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = Generate(program, env)
		}()
	}
	wg.Wait()

	for i := range sources {
		require.NoError(t, errs[i])
		require.Equal(t, expected[i], results[i])
	}
}
