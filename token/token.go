package token

import (
	"fmt"
	"strconv"
)

type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF

	literal_beg
	// Identifiers + literals
	IDENT // add, foobar, x, y, ...
	INT   // 1343456
	literal_end

	operator_beg
	// Operators and delimiters
	ASSIGN // =
	NOT    // !

	ADD // +
	SUB // -
	MUL // *

	LAND // &&
	LOR  // ||

	ADD_ASSIGN // +=
	SUB_ASSIGN // -=
	MUL_ASSIGN // *=

	LPAREN    // (
	LBRACK    // [
	LBRACE    // {
	COMMA     // ,
	SEMICOLON // ;

	RPAREN // )
	RBRACK // ]
	RBRACE // }
	operator_end

	comparison_beg
	EQL // ==
	LSS // <
	GTR // >

	NEQ // !=
	LEQ // <=
	GEQ // >=
	comparison_end

	keyword_beg
	CONST
	LET
	FN
	IF
	ELSE
	WHILE
	LOOP
	BREAK
	CONTINUE
	RETURN
	PRINT
	INPUT
	TRUE
	FALSE
	keyword_end
)

var tokens = [...]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	IDENT: "IDENT",
	INT:   "INT",

	ASSIGN: "=",
	NOT:    "!",

	ADD: "+",
	SUB: "-",
	MUL: "*",

	LAND: "&&",
	LOR:  "||",

	ADD_ASSIGN: "+=",
	SUB_ASSIGN: "-=",
	MUL_ASSIGN: "*=",

	LPAREN:    "(",
	LBRACK:    "[",
	LBRACE:    "{",
	COMMA:     ",",
	SEMICOLON: ";",

	RPAREN: ")",
	RBRACK: "]",
	RBRACE: "}",

	EQL: "==",
	LSS: "<",
	GTR: ">",

	NEQ: "!=",
	LEQ: "<=",
	GEQ: ">=",

	CONST:    "const",
	LET:      "let",
	FN:       "fn",
	IF:       "if",
	ELSE:     "else",
	WHILE:    "while",
	LOOP:     "loop",
	BREAK:    "break",
	CONTINUE: "continue",
	RETURN:   "return",
	PRINT:    "print",
	INPUT:    "input",
	TRUE:     "true",
	FALSE:    "false",
}

var keywords = func() map[string]TokenType {
	m := make(map[string]TokenType, keyword_end-keyword_beg)
	for i := keyword_beg + 1; i < keyword_end; i++ {
		m[tokens[i]] = i
	}
	return m
}()

// LookupIdent maps an identifier to its keyword token type, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

type Token struct {
	FileName string
	Type     TokenType
	Literal  string
	Line     int
	Column   int
}

func (t Token) IsComparison() bool {
	return comparison_beg < t.Type && comparison_end > t.Type
}

func (t Token) IsKeyword() bool {
	return keyword_beg < t.Type && keyword_end > t.Type
}

// Pos renders the token position as file:line:col.
func (t Token) Pos() string {
	if t.FileName == "" {
		return fmt.Sprintf("%d:%d", t.Line, t.Column)
	}
	return fmt.Sprintf("%s:%d:%d", t.FileName, t.Line, t.Column)
}

func (t Token) String() string {
	return t.Type.String()
}

func (tokenType TokenType) String() string {
	s := ""
	if 0 <= tokenType && tokenType < TokenType(len(tokens)) {
		s = tokens[tokenType]
	}

	if s == "" {
		s = "token(" + strconv.Itoa(int(tokenType)) + ")"
	}

	return s
}

// CompileError is a positioned diagnostic produced while lexing or parsing.
type CompileError struct {
	Token Token
	Msg   string
}

func (ce *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", ce.Token.Pos(), ce.Msg)
}
