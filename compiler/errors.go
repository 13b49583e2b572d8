package compiler

import (
	"fmt"

	"github.com/thiremani/icc/ident"
	"github.com/thiremani/icc/token"
)

type ErrorKind int

const (
	DuplicateDeclaration ErrorKind = iota
	UndefinedVariable
	BreakOutsideLoop
	ContinueOutsideLoop
	ReturnOutsideFunction
	FunctionCallInConstant
	IndexInConstant
	UndefinedOrNonConstInConstant
	NotCallable
	NotIndexable
	NotAssignable
	NotAValue
	ArityMismatch
	InvalidArraySize
)

var errorKindNames = [...]string{
	DuplicateDeclaration:          "DuplicateDeclaration",
	UndefinedVariable:             "UndefinedVariable",
	BreakOutsideLoop:              "BreakOutsideLoop",
	ContinueOutsideLoop:           "ContinueOutsideLoop",
	ReturnOutsideFunction:         "ReturnOutsideFunction",
	FunctionCallInConstant:        "FunctionCallInConstant",
	IndexInConstant:               "IndexInConstant",
	UndefinedOrNonConstInConstant: "UndefinedOrNonConstInConstant",
	NotCallable:                   "NotCallable",
	NotIndexable:                  "NotIndexable",
	NotAssignable:                 "NotAssignable",
	NotAValue:                     "NotAValue",
	ArityMismatch:                 "ArityMismatch",
	InvalidArraySize:              "InvalidArraySize",
}

func (k ErrorKind) String() string {
	if 0 <= k && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// CarriesIdent reports whether errors of this kind name an identifier.
func (k ErrorKind) CarriesIdent() bool {
	switch k {
	case BreakOutsideLoop, ContinueOutsideLoop, ReturnOutsideFunction,
		FunctionCallInConstant, IndexInConstant:
		return false
	}
	return true
}

// CompileError is the single diagnosis of a failed Generate. It stays
// structural: Ident is a handle, and mapping it back to a name is left to
// whoever holds the ident.Env.
type CompileError struct {
	Kind  ErrorKind
	Ident ident.Handle // valid when Kind.CarriesIdent()
	Token token.Token  // where the violation was found
	Want  int          // ArityMismatch only
	Got   int          // ArityMismatch only
}

func (e *CompileError) Error() string {
	msg := e.Kind.String()
	if e.Kind.CarriesIdent() {
		msg += fmt.Sprintf("(ident#%d)", e.Ident)
	}
	if e.Kind == ArityMismatch {
		msg += fmt.Sprintf(": want %d arguments, got %d", e.Want, e.Got)
	}
	if e.Token.Line > 0 {
		return e.Token.Pos() + ": " + msg
	}
	return msg
}

func newError(kind ErrorKind, tok token.Token) *CompileError {
	return &CompileError{Kind: kind, Token: tok}
}

func identError(kind ErrorKind, id ident.Handle, tok token.Token) *CompileError {
	return &CompileError{Kind: kind, Ident: id, Token: tok}
}
