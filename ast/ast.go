package ast

import (
	"bytes"
	"strings"

	"github.com/thiremani/icc/ident"
	"github.com/thiremani/icc/token"
)

// The base Node interface
type Node interface {
	Tok() token.Token
	String() string
}

// All statement nodes implement this
type Statement interface {
	Node
	statementNode()
}

// All expression nodes implement this
type Expression interface {
	Node
	expressionNode()
}

type Program struct {
	Statements []Statement
}

func (p *Program) Tok() token.Token {
	if len(p.Statements) > 0 {
		return p.Statements[0].Tok()
	}
	return token.Token{
		Type:    token.EOF,
		Literal: "",
	}
}

func (p *Program) String() string {
	var out bytes.Buffer

	for _, s := range p.Statements {
		out.WriteString(s.String())
	}

	return out.String()
}

func printVec(a []Expression) string {
	parts := make([]string, 0, len(a))
	for _, e := range a {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}

// Statements
type ConstStatement struct {
	Token token.Token // the const token
	Name  *Identifier
	Value Expression
}

func (cs *ConstStatement) statementNode()   {}
func (cs *ConstStatement) Tok() token.Token { return cs.Token }
func (cs *ConstStatement) String() string {
	return "const " + cs.Name.String() + " = " + cs.Value.String() + ";"
}

// LetStatement declares a scalar (Size == nil) or an array.
type LetStatement struct {
	Token token.Token // the let token
	Name  *Identifier
	Size  Expression // array length, nil for scalars
	Value Expression // optional initializer, scalars only
}

func (ls *LetStatement) statementNode()   {}
func (ls *LetStatement) Tok() token.Token { return ls.Token }
func (ls *LetStatement) String() string {
	var out bytes.Buffer

	out.WriteString("let ")
	out.WriteString(ls.Name.String())
	if ls.Size != nil {
		out.WriteString("[" + ls.Size.String() + "]")
	}
	if ls.Value != nil {
		out.WriteString(" = " + ls.Value.String())
	}
	out.WriteString(";")

	return out.String()
}

func (ls *LetStatement) IsArray() bool {
	return ls.Size != nil
}

type FuncStatement struct {
	Token      token.Token // the fn token
	Name       *Identifier
	Parameters []*Identifier
	Body       *BlockStatement
}

func (fs *FuncStatement) statementNode()   {}
func (fs *FuncStatement) Tok() token.Token { return fs.Token }
func (fs *FuncStatement) String() string {
	var out bytes.Buffer

	params := []string{}
	for _, p := range fs.Parameters {
		params = append(params, p.String())
	}

	out.WriteString("fn ")
	out.WriteString(fs.Name.String())
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") ")
	out.WriteString(fs.Body.String())

	return out.String()
}

type BlockStatement struct {
	Token      token.Token // the { token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()   {}
func (bs *BlockStatement) Tok() token.Token { return bs.Token }
func (bs *BlockStatement) String() string {
	var out bytes.Buffer

	out.WriteString("{ ")
	for _, s := range bs.Statements {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")

	return out.String()
}

type IfStatement struct {
	Token       token.Token // the if token
	Condition   Expression
	Consequence *BlockStatement
	Alternative Statement // *BlockStatement, *IfStatement or nil
}

func (is *IfStatement) statementNode()   {}
func (is *IfStatement) Tok() token.Token { return is.Token }
func (is *IfStatement) String() string {
	var out bytes.Buffer

	out.WriteString("if ")
	out.WriteString(is.Condition.String())
	out.WriteString(" ")
	out.WriteString(is.Consequence.String())
	if is.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(is.Alternative.String())
	}

	return out.String()
}

type WhileStatement struct {
	Token     token.Token // the while token
	Condition Expression
	Body      *BlockStatement
}

func (ws *WhileStatement) statementNode()   {}
func (ws *WhileStatement) Tok() token.Token { return ws.Token }
func (ws *WhileStatement) String() string {
	return "while " + ws.Condition.String() + " " + ws.Body.String()
}

// LoopStatement repeats its body until a break.
type LoopStatement struct {
	Token token.Token // the loop token
	Body  *BlockStatement
}

func (ls *LoopStatement) statementNode()   {}
func (ls *LoopStatement) Tok() token.Token { return ls.Token }
func (ls *LoopStatement) String() string   { return "loop " + ls.Body.String() }

type BreakStatement struct {
	Token token.Token
}

func (bs *BreakStatement) statementNode()   {}
func (bs *BreakStatement) Tok() token.Token { return bs.Token }
func (bs *BreakStatement) String() string   { return "break;" }

type ContinueStatement struct {
	Token token.Token
}

func (cs *ContinueStatement) statementNode()   {}
func (cs *ContinueStatement) Tok() token.Token { return cs.Token }
func (cs *ContinueStatement) String() string   { return "continue;" }

type ReturnStatement struct {
	Token token.Token
	Value Expression // nil for a bare return
}

func (rs *ReturnStatement) statementNode()   {}
func (rs *ReturnStatement) Tok() token.Token { return rs.Token }
func (rs *ReturnStatement) String() string {
	if rs.Value == nil {
		return "return;"
	}
	return "return " + rs.Value.String() + ";"
}

type PrintStatement struct {
	Token       token.Token // the print token
	Expressions []Expression
}

func (ps *PrintStatement) statementNode()   {}
func (ps *PrintStatement) Tok() token.Token { return ps.Token }
func (ps *PrintStatement) String() string {
	return "print " + printVec(ps.Expressions) + ";"
}

// AssignStatement stores Value into Target, an *Identifier or *IndexExpression.
// Compound operators (+=, -=, *=) keep their token in Token.
type AssignStatement struct {
	Token  token.Token // the assignment operator
	Target Expression
	Value  Expression
}

func (as *AssignStatement) statementNode()   {}
func (as *AssignStatement) Tok() token.Token { return as.Token }
func (as *AssignStatement) String() string {
	return as.Target.String() + " " + as.Token.Literal + " " + as.Value.String() + ";"
}

type ExpressionStatement struct {
	Token      token.Token // the first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()   {}
func (es *ExpressionStatement) Tok() token.Token { return es.Token }
func (es *ExpressionStatement) String() string   { return es.Expression.String() + ";" }

// Expressions
type Identifier struct {
	Token token.Token // the token.IDENT token
	Name  ident.Handle
}

func (i *Identifier) expressionNode()  {}
func (i *Identifier) Tok() token.Token { return i.Token }
func (i *Identifier) String() string   { return i.Token.Literal }

type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()  {}
func (il *IntegerLiteral) Tok() token.Token { return il.Token }
func (il *IntegerLiteral) String() string   { return il.Token.Literal }

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()  {}
func (bl *BooleanLiteral) Tok() token.Token { return bl.Token }
func (bl *BooleanLiteral) String() string   { return bl.Token.Literal }

type PrefixExpression struct {
	Token    token.Token // The prefix token, e.g. !
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()  {}
func (pe *PrefixExpression) Tok() token.Token { return pe.Token }
func (pe *PrefixExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(pe.Operator)
	out.WriteString(pe.Right.String())
	out.WriteString(")")

	return out.String()
}

type InfixExpression struct {
	Token    token.Token // The operator token, e.g. +
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()  {}
func (ie *InfixExpression) Tok() token.Token { return ie.Token }
func (ie *InfixExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(ie.Left.String())
	out.WriteString(" " + ie.Operator + " ")
	out.WriteString(ie.Right.String())
	out.WriteString(")")

	return out.String()
}

type CallExpression struct {
	Token     token.Token // The '(' token
	Function  *Identifier
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()  {}
func (ce *CallExpression) Tok() token.Token { return ce.Token }
func (ce *CallExpression) String() string {
	return ce.Function.String() + "(" + printVec(ce.Arguments) + ")"
}

type IndexExpression struct {
	Token token.Token // The '[' token
	Array *Identifier
	Index Expression
}

func (ie *IndexExpression) expressionNode()  {}
func (ie *IndexExpression) Tok() token.Token { return ie.Token }
func (ie *IndexExpression) String() string {
	return ie.Array.String() + "[" + ie.Index.String() + "]"
}

// InputExpression reads the next value from the machine's input.
type InputExpression struct {
	Token token.Token // the input token
}

func (ie *InputExpression) expressionNode()  {}
func (ie *InputExpression) Tok() token.Token { return ie.Token }
func (ie *InputExpression) String() string   { return "input()" }
