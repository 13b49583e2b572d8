package parser

import (
	"strings"

	"github.com/thiremani/icc/ast"
	"github.com/thiremani/icc/ident"
	"github.com/thiremani/icc/lexer"
	"github.com/thiremani/icc/token"
)

// ErrorList collects every parse diagnostic for one source file.
type ErrorList []*token.CompileError

func (el ErrorList) Error() string {
	msgs := make([]string, 0, len(el))
	for _, e := range el {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}

// Parse strips comments from src, parses it, and returns the program with the
// identifier table it was interned against. On failure the error is an
// ErrorList.
func Parse(fileName, src string) (*ast.Program, *ident.Env, error) {
	l := lexer.New(fileName, lexer.StripComments(src))
	p := New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, nil, ErrorList(errs)
	}
	return program, p.Env(), nil
}

// Incomplete reports whether parsing failed only because the input ended
// early, e.g. inside an open block. Feeding more text may fix it.
func (el ErrorList) Incomplete() bool {
	if len(el) == 0 {
		return false
	}
	for _, e := range el {
		if e.Token.Type != token.EOF && e.Msg != unterminatedBlock {
			return false
		}
	}
	return true
}
