package lexer

import "github.com/thiremani/icc/token"

type Lexer struct {
	FileName     string
	input        []rune
	position     int  // current position in input (points to current rune)
	readPosition int  // current reading position in input (after current rune)
	curr         rune // current rune under examination
	line         int
	column       int
}

func New(fileName, input string) *Lexer {
	l := &Lexer{FileName: fileName, input: []rune(input), line: 1}
	l.readRune()
	return l
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	tok := token.Token{FileName: l.FileName, Line: l.line, Column: l.column}

	switch l.curr {
	case '=':
		tok = l.either(tok, '=', token.EQL, token.ASSIGN)
	case '!':
		tok = l.either(tok, '=', token.NEQ, token.NOT)
	case '<':
		tok = l.either(tok, '=', token.LEQ, token.LSS)
	case '>':
		tok = l.either(tok, '=', token.GEQ, token.GTR)
	case '+':
		tok = l.either(tok, '=', token.ADD_ASSIGN, token.ADD)
	case '-':
		tok = l.either(tok, '=', token.SUB_ASSIGN, token.SUB)
	case '*':
		tok = l.either(tok, '=', token.MUL_ASSIGN, token.MUL)
	case '&':
		tok = l.either(tok, '&', token.LAND, token.ILLEGAL)
	case '|':
		tok = l.either(tok, '|', token.LOR, token.ILLEGAL)
	case ',':
		tok = l.single(tok, token.COMMA)
	case ';':
		tok = l.single(tok, token.SEMICOLON)
	case '(':
		tok = l.single(tok, token.LPAREN)
	case ')':
		tok = l.single(tok, token.RPAREN)
	case '[':
		tok = l.single(tok, token.LBRACK)
	case ']':
		tok = l.single(tok, token.RBRACK)
	case '{':
		tok = l.single(tok, token.LBRACE)
	case '}':
		tok = l.single(tok, token.RBRACE)
	case 0:
		tok.Literal = ""
		tok.Type = token.EOF
		return tok
	default:
		if isLetter(l.curr) {
			tok.Literal = l.readIdentifier()
			tok.Type = token.LookupIdent(tok.Literal)
			return tok
		} else if isDigit(l.curr) {
			tok.Type = token.INT
			tok.Literal = l.readNumber()
			return tok
		}
		tok = l.single(tok, token.ILLEGAL)
		return tok
	}

	return tok
}

// single consumes the current rune as a one-rune token.
func (l *Lexer) single(tok token.Token, tokenType token.TokenType) token.Token {
	tok.Type = tokenType
	tok.Literal = string(l.curr)
	l.readRune()
	return tok
}

// either consumes a two-rune token when the next rune is second, and a
// one-rune token otherwise.
func (l *Lexer) either(tok token.Token, second rune, two, one token.TokenType) token.Token {
	if l.peekRune() == second {
		first := l.curr
		l.readRune()
		tok.Type = two
		tok.Literal = string(first) + string(l.curr)
		l.readRune()
		return tok
	}
	return l.single(tok, one)
}

func (l *Lexer) skipWhitespace() {
	for l.curr == ' ' || l.curr == '\t' || l.curr == '\n' || l.curr == '\r' {
		l.readRune()
	}
}

func (l *Lexer) readRune() {
	if l.curr == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.curr = 0
	} else {
		l.curr = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekRune() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.curr) || isDigit(l.curr) {
		l.readRune()
	}
	return string(l.input[position:l.position])
}

func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.curr) {
		l.readRune()
	}
	return string(l.input[position:l.position])
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
