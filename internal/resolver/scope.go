// Scope management for the semantic checker.
// The scope stack mirrors block nesting while the parser runs; the global
// scope is pushed first and is the only one left when parsing finishes.

package resolver

import "github.com/orizon-lang/goanalyzer/internal/types"

// ScopeKind represents the kind of scope.
type ScopeKind int

const (
	ScopeKindGlobal ScopeKind = iota
	ScopeKindFunction
	ScopeKindBlock
	ScopeKindLoop
	ScopeKindConditional
	ScopeKindCase
)

// String returns the string representation of ScopeKind.
func (sk ScopeKind) String() string {
	switch sk {
	case ScopeKindGlobal:
		return "global"
	case ScopeKindFunction:
		return "function"
	case ScopeKindBlock:
		return "block"
	case ScopeKindLoop:
		return "loop"
	case ScopeKindConditional:
		return "conditional"
	case ScopeKindCase:
		return "case"
	default:
		return "unknown"
	}
}

// Scope represents a lexical scope. Consts, Functions and Types are only
// populated in the global scope.
type Scope struct {
	Variables map[string]types.Tag
	Consts    map[string]bool
	Functions map[string]bool
	Types     map[string]bool
	Kind      ScopeKind
}

// NewScope creates an empty scope of the given kind.
func NewScope(kind ScopeKind) *Scope {
	s := &Scope{
		Kind:      kind,
		Variables: make(map[string]types.Tag),
	}
	if kind == ScopeKindGlobal {
		s.Consts = make(map[string]bool)
		s.Functions = make(map[string]bool)
		s.Types = make(map[string]bool)
	}
	return s
}

// ScopeStack is the ordered stack of open scopes, innermost last.
type ScopeStack struct {
	scopes []*Scope
}

// NewScopeStack creates a stack holding only a fresh global scope.
func NewScopeStack() *ScopeStack {
	return &ScopeStack{scopes: []*Scope{NewScope(ScopeKindGlobal)}}
}

// Push opens a new innermost scope.
func (ss *ScopeStack) Push(kind ScopeKind) *Scope {
	s := NewScope(kind)
	ss.scopes = append(ss.scopes, s)
	return s
}

// Pop closes the innermost scope. The global scope is never popped.
func (ss *ScopeStack) Pop() {
	if len(ss.scopes) > 1 {
		ss.scopes[len(ss.scopes)-1] = nil
		ss.scopes = ss.scopes[:len(ss.scopes)-1]
	}
}

// Current returns the innermost scope.
func (ss *ScopeStack) Current() *Scope {
	return ss.scopes[len(ss.scopes)-1]
}

// Global returns the outermost scope.
func (ss *ScopeStack) Global() *Scope {
	return ss.scopes[0]
}

// Depth returns the number of open scopes, including the global one.
func (ss *ScopeStack) Depth() int {
	return len(ss.scopes)
}

// Lookup searches innermost to global for a variable binding.
func (ss *ScopeStack) Lookup(name string) (types.Tag, *Scope, bool) {
	for i := len(ss.scopes) - 1; i >= 0; i-- {
		if tag, ok := ss.scopes[i].Variables[name]; ok {
			return tag, ss.scopes[i], true
		}
	}
	return types.Unknown, nil, false
}
