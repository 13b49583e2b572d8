package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thiremani/icc/ast"
	"github.com/thiremani/icc/lexer"
)

func mustParse(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.New(t.Name(), input))
	program := p.ParseProgram()
	require.Empty(t, p.Errors())
	return program
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"-a * b;", "((-a) * b);"},
		{"!-a;", "(!(-a));"},
		{"a + b * c;", "(a + (b * c));"},
		{"a - b - c;", "((a - b) - c);"},
		{"a + b < c * d == true;", "(((a + b) < (c * d)) == true);"},
		{"a < b && c > d || e;", "(((a < b) && (c > d)) || e);"},
		{"a || b && c;", "(a || (b && c));"},
		{"(a + b) * c;", "((a + b) * c);"},
		{"f(a, b + 1) * arr[i - 1];", "(f(a, (b + 1)) * arr[(i - 1)]);"},
		{"a <= b != c >= d;", "((a <= b) != (c >= d));"},
		{"input() + 1;", "(input() + 1);"},
	}

	for _, tt := range tests {
		program := mustParse(t, tt.input)
		require.Len(t, program.Statements, 1)
		require.Equal(t, tt.expected, program.String(), tt.input)
	}
}

func TestParseDeclarations(t *testing.T) {
	program := mustParse(t, `
const N = 2 + 3;
let arr[N];
let x = 1;
let y;
fn add(a, b) { return a + b; }
fn noop() { return; }
`)
	require.Len(t, program.Statements, 6)

	c, ok := program.Statements[0].(*ast.ConstStatement)
	require.True(t, ok)
	require.Equal(t, "N", c.Name.String())
	require.Equal(t, "(2 + 3)", c.Value.String())

	arr, ok := program.Statements[1].(*ast.LetStatement)
	require.True(t, ok)
	require.True(t, arr.IsArray())
	require.Nil(t, arr.Value)
	require.Equal(t, c.Name.Name, arr.Size.(*ast.Identifier).Name)

	x := program.Statements[2].(*ast.LetStatement)
	require.False(t, x.IsArray())
	require.Equal(t, "1", x.Value.String())

	y := program.Statements[3].(*ast.LetStatement)
	require.Nil(t, y.Value)

	fn, ok := program.Statements[4].(*ast.FuncStatement)
	require.True(t, ok)
	require.Equal(t, "add", fn.Name.String())
	require.Len(t, fn.Parameters, 2)
	require.Len(t, fn.Body.Statements, 1)

	noop := program.Statements[5].(*ast.FuncStatement)
	require.Empty(t, noop.Parameters)
	ret := noop.Body.Statements[0].(*ast.ReturnStatement)
	require.Nil(t, ret.Value)
}

func TestParseControlFlow(t *testing.T) {
	program := mustParse(t, `
if a < 1 { print 1; } else if a < 2 { print 2; } else { print 3; }
while i < 10 { i += 1; if i == 5 { continue; } }
loop { break; }
{ let inner = 1; }
`)
	require.Len(t, program.Statements, 4)

	ifs := program.Statements[0].(*ast.IfStatement)
	elseIf, ok := ifs.Alternative.(*ast.IfStatement)
	require.True(t, ok)
	_, ok = elseIf.Alternative.(*ast.BlockStatement)
	require.True(t, ok)

	ws := program.Statements[1].(*ast.WhileStatement)
	require.Equal(t, "(i < 10)", ws.Condition.String())
	require.Len(t, ws.Body.Statements, 2)
	assign := ws.Body.Statements[0].(*ast.AssignStatement)
	require.Equal(t, "+=", assign.Token.Literal)

	ls := program.Statements[2].(*ast.LoopStatement)
	_, ok = ls.Body.Statements[0].(*ast.BreakStatement)
	require.True(t, ok)

	_, ok = program.Statements[3].(*ast.BlockStatement)
	require.True(t, ok)
}

func TestParseAssignments(t *testing.T) {
	program := mustParse(t, "x = 1; arr[i] -= 2; y *= x; f(1); print x, arr[0];")
	require.Len(t, program.Statements, 5)

	target := program.Statements[1].(*ast.AssignStatement).Target
	_, ok := target.(*ast.IndexExpression)
	require.True(t, ok)

	_, ok = program.Statements[3].(*ast.ExpressionStatement)
	require.True(t, ok)

	ps := program.Statements[4].(*ast.PrintStatement)
	require.Len(t, ps.Expressions, 2)
}

func TestIdentifiersShareHandles(t *testing.T) {
	p := New(lexer.New("handles", "let x = 1; x = x + 1;"))
	program := p.ParseProgram()
	require.Empty(t, p.Errors())

	decl := program.Statements[0].(*ast.LetStatement)
	assign := program.Statements[1].(*ast.AssignStatement)
	target := assign.Target.(*ast.Identifier)
	operand := assign.Value.(*ast.InfixExpression).Left.(*ast.Identifier)

	require.Equal(t, decl.Name.Name, target.Name)
	require.Equal(t, decl.Name.Name, operand.Name)
	require.Equal(t, "x", p.Env().Name(target.Name))
	require.Equal(t, 1, p.Env().Len())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		err   string
	}{
		{"let = 5;", "expected next token to be IDENT, got = instead"},
		{"let x = 5", "expected next token to be ;, got EOF instead"},
		{"let a[3] = 1;", "array a cannot have an initializer"},
		{"1 + 2 = 3;", "cannot assign to (1 + 2)"},
		{"f(1)(2);", "only named functions can be called"},
		{"x = 99999999999999999999;", "could not parse"},
		{"x = 1 / 2;", "illegal character \"/\""},
		{"fn f(a, 1) { }", "expected next token to be IDENT, got INT instead"},
		{"while x { x = 1;", "unterminated block"},
		{"const c;", "expected next token to be =, got ; instead"},
	}

	for _, tt := range tests {
		p := New(lexer.New("errors", tt.input))
		p.ParseProgram()
		require.NotEmpty(t, p.Errors(), tt.input)
		require.Contains(t, p.Errors()[0].Msg, tt.err, tt.input)
	}
}

func TestParseStripsComments(t *testing.T) {
	program, env, err := Parse("comments.ic", `
# leading comment
let x = 1; /* inline */ let y = 2; # trailing
`)
	require.NoError(t, err)
	require.Len(t, program.Statements, 2)
	require.Equal(t, 2, env.Len())
}

func TestParseReturnsErrorList(t *testing.T) {
	program, env, err := Parse("bad.ic", "let ;\nlet 5;")
	require.Nil(t, program)
	require.Nil(t, env)

	var list ErrorList
	require.ErrorAs(t, err, &list)
	require.NotEmpty(t, list)
	require.Contains(t, err.Error(), "bad.ic:1:5")
}

func TestErrorListIncomplete(t *testing.T) {
	tests := []struct {
		input      string
		incomplete bool
	}{
		{"fn f() {", true},
		{"while x < 3 { x += 1;", true},
		{"let x = ", true},
		{"let = 1;", false},
		{"x = 1 / 2;", false},
	}

	for _, tt := range tests {
		_, _, err := Parse("repl", tt.input)
		var list ErrorList
		require.ErrorAs(t, err, &list, tt.input)
		require.Equal(t, tt.incomplete, list.Incomplete(), "%s: %v", tt.input, err)
	}
}
