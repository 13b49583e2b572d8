package compiler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		kind  ErrorKind
		ident string // expected name behind the handle, if any
	}{
		{"duplicate let", "let x; let x;", DuplicateDeclaration, "x"},
		{"duplicate const and let", "const x = 1; let x = 2;", DuplicateDeclaration, "x"},
		{"duplicate function", "fn f() { } fn f() { }", DuplicateDeclaration, "f"},
		{"duplicate parameter", "fn f(a, a) { }", DuplicateDeclaration, "a"},
		{"parameter redeclared in body", "fn f(x) { let x; }", DuplicateDeclaration, "x"},
		{"duplicate in block", "{ let y = 1; let y = 2; }", DuplicateDeclaration, "y"},
		{"undefined", "print y;", UndefinedVariable, "y"},
		{"undefined after block", "{ let y = 1; } print y;", UndefinedVariable, "y"},
		{"no forward calls", "print g(); fn g() { return 1; }", UndefinedVariable, "g"},
		{"enclosing local invisible", "fn o() { let a = 1; fn i() { return a; } }", UndefinedVariable, "a"},
		{"break at top level", "break;", BreakOutsideLoop, ""},
		{"continue at top level", "if 1 { continue; }", ContinueOutsideLoop, ""},
		{"break crosses function", "while 1 { fn f() { break; } }", BreakOutsideLoop, ""},
		{"continue crosses function", "loop { fn f() { continue; } }", ContinueOutsideLoop, ""},
		{"return at top level", "return 1;", ReturnOutsideFunction, ""},
		{"return in top level loop", "loop { return; }", ReturnOutsideFunction, ""},
		{"call in const", "fn f() { return 1; } const c = f();", FunctionCallInConstant, ""},
		{"input in const", "const c = 1 + input();", FunctionCallInConstant, ""},
		{"index in const", "let a[2]; const c = a[0];", IndexInConstant, ""},
		{"variable in const", "let v = 1; const c = v + 1;", UndefinedOrNonConstInConstant, "v"},
		{"undefined in const", "const c = w;", UndefinedOrNonConstInConstant, "w"},
		{"variable as array size", "let n = 3; let a[n];", UndefinedOrNonConstInConstant, "n"},
		{"call as array size", "fn f() { return 1; } let a[f()];", FunctionCallInConstant, ""},
		{"not callable", "let x = 1; x(2);", NotCallable, "x"},
		{"not indexable", "let x = 1; print x[0];", NotIndexable, "x"},
		{"store to scalar index", "const c = 1; c[0] = 1;", NotIndexable, "c"},
		{"assign to const", "const c = 1; c = 2;", NotAssignable, "c"},
		{"assign to function", "fn f() { } f += 1;", NotAssignable, "f"},
		{"assign to array", "let a[2]; a = 1;", NotAssignable, "a"},
		{"array as value", "let a[2]; print a;", NotAValue, "a"},
		{"function as value", "fn f() { } let x = f;", NotAValue, "f"},
		{"too many arguments", "fn f(a) { return a; } print f(1, 2);", ArityMismatch, "f"},
		{"too few arguments", "fn f(a, b) { return a; } print f(1);", ArityMismatch, "f"},
		{"zero array size", "let a[0];", InvalidArraySize, "a"},
		{"negative array size", "const n = 2; let a[n - 3];", InvalidArraySize, "a"},
		{"array size past int64 storage", "let a[9223372036854775807]; let b;", InvalidArraySize, "a"},
		{"statics exhausted", "let a[4294967000]; let b[1000];", InvalidArraySize, "b"},
		{"frame array too large", "fn f() { let a[4294967296]; return 0; }", InvalidArraySize, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, env, err := generate(t, tt.src)
			require.Nil(t, prog)

			var ce *CompileError
			require.True(t, errors.As(err, &ce), "got %v", err)
			require.Equal(t, tt.kind, ce.Kind, ce.Error())
			require.Equal(t, tt.ident != "", ce.Kind.CarriesIdent())
			if tt.ident != "" {
				require.Equal(t, tt.ident, env.Name(ce.Ident))
			}
		})
	}
}

func TestShadowingIsNotDuplication(t *testing.T) {
	for _, src := range []string{
		"let x = 1; { let x = 2; }",
		"let x = 1; fn f() { let x = 2; }",
		"fn f(x) { { let x = 1; } }",
		"const c = 1; { const c = 2; } { let c; }",
		"fn f() { } { fn f() { } }",
		"let x; while x { let x; }",
	} {
		_, _, err := generate(t, src)
		require.NoError(t, err, src)
	}
}

func TestFirstErrorWins(t *testing.T) {
	_, env, err := generate(t, "print a; print b; break;")

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, UndefinedVariable, ce.Kind)
	require.Equal(t, "a", env.Name(ce.Ident))
}

func TestConstFoldingOrder(t *testing.T) {
	// left to right: the call is seen before the index
	_, _, err := generate(t, "let a[1]; fn f() { return 1; } const c = f() + a[0];")
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, FunctionCallInConstant, ce.Kind)
}

func TestCompileErrorString(t *testing.T) {
	_, _, err := generate(t, "let x;\nlet x;")
	require.EqualError(t, err, "test.ic:2:5: DuplicateDeclaration(ident#0)")

	_, _, err = generate(t, "fn f(a) { }\nf();")
	require.EqualError(t, err, "test.ic:2:2: ArityMismatch(ident#0): want 1 arguments, got 0")

	require.Equal(t, "BreakOutsideLoop", (&CompileError{Kind: BreakOutsideLoop}).Error())
	require.Equal(t, "ErrorKind(99)", ErrorKind(99).String())
}
