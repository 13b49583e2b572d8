package ast

// Walk visits e and its subexpressions depth-first, left to right. Returning
// false from fn stops descent below the current node.
func Walk(e Expression, fn func(Expression) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch n := e.(type) {
	case *PrefixExpression:
		Walk(n.Right, fn)
	case *InfixExpression:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *CallExpression:
		for _, arg := range n.Arguments {
			Walk(arg, fn)
		}
	case *IndexExpression:
		Walk(n.Index, fn)
	}
}

// HasEffects reports whether evaluating e may run a call or consume input.
func HasEffects(e Expression) bool {
	found := false
	Walk(e, func(n Expression) bool {
		switch n.(type) {
		case *CallExpression, *InputExpression:
			found = true
		}
		return !found
	})
	return found
}
