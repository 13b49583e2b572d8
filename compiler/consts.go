package compiler

import (
	"fmt"

	"github.com/thiremani/icc/ast"
)

// evalConst folds e without emitting anything. Only literals, constants
// already in scope and operators on them are allowed.
func (c *Compiler) evalConst(e ast.Expression) (int64, error) {
	switch e := e.(type) {
	case *ast.IntegerLiteral:
		return e.Value, nil
	case *ast.BooleanLiteral:
		return b2i(e.Value), nil
	case *ast.Identifier:
		sym, ok := Get(c.scopes, e.Name, visibleFromNested)
		if !ok || sym.Kind != Constant {
			return 0, identError(UndefinedOrNonConstInConstant, e.Name, e.Token)
		}
		return sym.Value, nil
	case *ast.PrefixExpression:
		v, err := c.evalConst(e.Right)
		if err != nil {
			return 0, err
		}
		return foldPrefix(e.Operator, v), nil
	case *ast.InfixExpression:
		l, err := c.evalConst(e.Left)
		if err != nil {
			return 0, err
		}
		r, err := c.evalConst(e.Right)
		if err != nil {
			return 0, err
		}
		return foldInfix(e.Operator, l, r), nil
	case *ast.CallExpression:
		return 0, newError(FunctionCallInConstant, e.Token)
	case *ast.InputExpression:
		return 0, newError(FunctionCallInConstant, e.Token)
	case *ast.IndexExpression:
		return 0, newError(IndexInConstant, e.Token)
	default:
		panic(fmt.Sprintf("unexpected expression %T in constant", e))
	}
}

func foldPrefix(op string, v int64) int64 {
	switch op {
	case "-":
		return -v
	case "!":
		return b2i(v == 0)
	default:
		panic("unknown prefix operator " + op)
	}
}

func foldInfix(op string, l, r int64) int64 {
	switch op {
	case "+":
		return l + r
	case "-":
		return l - r
	case "*":
		return l * r
	case "<":
		return b2i(l < r)
	case ">":
		return b2i(l > r)
	case "<=":
		return b2i(l <= r)
	case ">=":
		return b2i(l >= r)
	case "==":
		return b2i(l == r)
	case "!=":
		return b2i(l != r)
	case "&&":
		return b2i(l != 0 && r != 0)
	case "||":
		return b2i(l != 0 || r != 0)
	default:
		panic("unknown infix operator " + op)
	}
}

func b2i(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
