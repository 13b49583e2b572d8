package compiler

import "github.com/thiremani/icc/ident"

type ScopeKind int

const (
	GlobalScope ScopeKind = iota
	FuncScope
	BlockScope
)

type Scope[T any] struct {
	Elems     map[ident.Handle]T
	ScopeKind ScopeKind
	// Base is the frame slot watermark when the scope was pushed; popping
	// the scope frees every slot allocated inside it.
	Base int64
}

func NewScope[T any](sk ScopeKind, base int64) Scope[T] {
	return Scope[T]{
		Elems:     make(map[ident.Handle]T),
		ScopeKind: sk,
		Base:      base,
	}
}

func PushScope[T any](scopes *[]Scope[T], sk ScopeKind, base int64) {
	*scopes = append(*scopes, NewScope[T](sk, base))
}

// PopScope drops the innermost scope and returns it.
func PopScope[T any](scopes *[]Scope[T]) Scope[T] {
	if len(*scopes) == 1 {
		panic("cannot pop global scope")
	}
	top := (*scopes)[len(*scopes)-1]
	*scopes = (*scopes)[:len(*scopes)-1]
	return top
}

func Put[T any](scopes []Scope[T], name ident.Handle, elem T) {
	scopes[len(scopes)-1].Elems[name] = elem
}

// Declared reports whether name is bound in the innermost scope only.
func Declared[T any](scopes []Scope[T], name ident.Handle) bool {
	_, ok := scopes[len(scopes)-1].Elems[name]
	return ok
}

// Get searches from the innermost scope outward. Once the search has left
// a function scope, only elements accepted by outer are returned; others
// are skipped and the search goes on.
func Get[T any](scopes []Scope[T], name ident.Handle, outer func(T) bool) (T, bool) {
	crossed := false
	for i := len(scopes) - 1; i >= 0; i-- {
		if e, ok := scopes[i].Elems[name]; ok && (!crossed || outer(e)) {
			return e, true
		}
		if scopes[i].ScopeKind == FuncScope {
			crossed = true
		}
	}

	var zero T
	return zero, false
}
