// Package types holds the language's only type distinction: scalar cells,
// fixed-length arrays of cells, and functions.
package types

type Kind int

const (
	Scalar Kind = iota
	Array
	Func
)

var kindNames = [...]string{
	Scalar: "scalar",
	Array:  "array",
	Func:   "function",
}

func (k Kind) String() string {
	if 0 <= k && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsValue reports whether a name of this kind can appear as an operand.
func (k Kind) IsValue() bool {
	return k == Scalar
}

// Indexable reports whether a name of this kind can be subscripted.
func (k Kind) Indexable() bool {
	return k == Array
}

// Callable reports whether a name of this kind can be called.
func (k Kind) Callable() bool {
	return k == Func
}
