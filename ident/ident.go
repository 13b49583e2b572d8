// Package ident interns identifier spellings to small comparable handles.
package ident

import "strconv"

// Handle is an interned identifier. Two occurrences of the same spelling
// interned in the same Env yield the same Handle.
type Handle uint32

// Env is the interning table for one parse. It is filled by the parser and
// only read afterwards.
type Env struct {
	names   []string
	handles map[string]Handle
}

func NewEnv() *Env {
	return &Env{
		names:   []string{},
		handles: make(map[string]Handle),
	}
}

// Intern returns the handle for name, allocating one on first sight.
func (e *Env) Intern(name string) Handle {
	if h, ok := e.handles[name]; ok {
		return h
	}
	h := Handle(len(e.names))
	e.names = append(e.names, name)
	e.handles[name] = h
	return h
}

// Lookup returns the handle for name without interning it.
func (e *Env) Lookup(name string) (Handle, bool) {
	h, ok := e.handles[name]
	return h, ok
}

// Name maps a handle back to its source spelling. Handles not produced by
// this Env render as <ident#N>.
func (e *Env) Name(h Handle) string {
	if int(h) < len(e.names) {
		return e.names[h]
	}
	return "<ident#" + strconv.Itoa(int(h)) + ">"
}

// Len reports how many distinct identifiers have been interned.
func (e *Env) Len() int {
	return len(e.names)
}
