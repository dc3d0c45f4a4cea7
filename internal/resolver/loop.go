package resolver

// LoopContext marks a construct that break or continue may target.
type LoopContext int

const (
	LoopContextLoop LoopContext = iota
	LoopContextSwitch
)

func (lc LoopContext) String() string {
	if lc == LoopContextSwitch {
		return "switch"
	}
	return "loop"
}

// LoopStack tracks the breakable constructs enclosing the current statement.
type LoopStack struct {
	contexts []LoopContext
}

// Push enters a loop or switch body.
func (ls *LoopStack) Push(ctx LoopContext) {
	ls.contexts = append(ls.contexts, ctx)
}

// Pop leaves the innermost loop or switch body.
func (ls *LoopStack) Pop() {
	if len(ls.contexts) > 0 {
		ls.contexts = ls.contexts[:len(ls.contexts)-1]
	}
}

// Depth returns the number of enclosing contexts.
func (ls *LoopStack) Depth() int {
	return len(ls.contexts)
}

// CanBreak reports whether a break statement has a target.
func (ls *LoopStack) CanBreak() bool {
	return len(ls.contexts) > 0
}

// CanContinue reports whether any enclosing context is a loop.
func (ls *LoopStack) CanContinue() bool {
	for _, ctx := range ls.contexts {
		if ctx == LoopContextLoop {
			return true
		}
	}
	return false
}
