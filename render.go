package main

import (
	"errors"
	"fmt"

	"github.com/thiremani/icc/asm"
	"github.com/thiremani/icc/compiler"
	"github.com/thiremani/icc/ident"
	"github.com/thiremani/icc/parser"
)

// BuildError is a failed parse or compile, rendered for the user.
type BuildError struct {
	Stage string // "file parsing" or "compilation"
	Msg   string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("Error during %s:\n%s", e.Stage, e.Msg)
}

// compileSource parses and compiles one program.
func compileSource(name, src string) (*asm.Program, error) {
	program, env, err := parser.Parse(name, src)
	if err != nil {
		return nil, &BuildError{Stage: "file parsing", Msg: err.Error()}
	}
	prog, err := compiler.Generate(program, env)
	if err != nil {
		return nil, &BuildError{Stage: "compilation", Msg: describe(err, env)}
	}
	return prog, nil
}

// describe turns a code generation error into a message naming the
// offending identifier.
func describe(err error, env *ident.Env) string {
	var ce *compiler.CompileError
	if !errors.As(err, &ce) {
		return err.Error()
	}
	name := env.Name(ce.Ident)

	switch ce.Kind {
	case compiler.DuplicateDeclaration:
		return "Duplicate declaration of variable: " + name
	case compiler.UndefinedVariable:
		return "Undefined variable: " + name
	case compiler.BreakOutsideLoop:
		return "Break outside loop"
	case compiler.ContinueOutsideLoop:
		return "Continue outside loop"
	case compiler.ReturnOutsideFunction:
		return "Return outside function"
	case compiler.FunctionCallInConstant:
		return "Function call in const context"
	case compiler.IndexInConstant:
		return "Array indexing in const context"
	case compiler.UndefinedOrNonConstInConstant:
		return "Undefined or un-const variable in const context"
	case compiler.NotCallable:
		return "Not a function: " + name
	case compiler.NotIndexable:
		return "Not an array: " + name
	case compiler.NotAssignable:
		return "Cannot assign to: " + name
	case compiler.NotAValue:
		return "Not a value: " + name
	case compiler.ArityMismatch:
		return fmt.Sprintf("Wrong number of arguments to %s: want %d, got %d", name, ce.Want, ce.Got)
	case compiler.InvalidArraySize:
		return "Invalid array size: " + name
	default:
		return ce.Error()
	}
}
