package resolver

import (
	"github.com/orizon-lang/goanalyzer/internal/diagnostic"
	"github.com/orizon-lang/goanalyzer/internal/types"
)

// builtins resolve silently wherever an identifier is expected.
var builtins = map[string]bool{
	"len":     true,
	"cap":     true,
	"append":  true,
	"make":    true,
	"new":     true,
	"print":   true,
	"println": true,
	"panic":   true,
	"copy":    true,
	"delete":  true,
	"close":   true,
	"clear":   true,
	"min":     true,
	"max":     true,
	"recover": true,
	"nil":     true,
	"iota":    true,
}

// IsBuiltin reports whether name is a predeclared function or value.
func IsBuiltin(name string) bool {
	return builtins[name]
}

// Field is a struct field collected while parsing a struct type.
type Field struct {
	Name string
	Tag  types.Tag
	Line int
}

type switchState struct {
	tag        types.Tag
	hasDefault bool
}

// Checker executes the semantic actions triggered by the parser. It owns
// the scope stack and the loop stack for a single analysis run and reports
// every violation to the collector.
type Checker struct {
	scopes *ScopeStack
	loops  LoopStack
	diags  *diagnostic.Collector

	results       map[string]types.Tag // function name -> single result type
	methodResults map[string]types.Tag // "Recv.name" -> single result type
	typeDefs      map[string]types.Tag // type name -> underlying type
	fields        map[string]map[string]types.Tag
	switches      []switchState
}

// NewChecker creates a checker with a fresh global scope.
func NewChecker(diags *diagnostic.Collector) *Checker {
	if diags == nil {
		diags = diagnostic.NewCollector()
	}
	return &Checker{
		scopes:        NewScopeStack(),
		diags:         diags,
		results:       make(map[string]types.Tag),
		methodResults: make(map[string]types.Tag),
		typeDefs:      make(map[string]types.Tag),
		fields:        make(map[string]map[string]types.Tag),
	}
}

// Scopes exposes the scope stack.
func (c *Checker) Scopes() *ScopeStack { return c.scopes }

// Loops exposes the loop stack.
func (c *Checker) Loops() *LoopStack { return &c.loops }

// EnterScope pushes a scope; every call must be paired with ExitScope.
func (c *Checker) EnterScope(kind ScopeKind) {
	c.scopes.Push(kind)
}

// ExitScope pops the innermost scope.
func (c *Checker) ExitScope() {
	c.scopes.Pop()
}

// EnterLoop marks the start of a loop or switch body.
func (c *Checker) EnterLoop(ctx LoopContext) {
	c.loops.Push(ctx)
}

// ExitLoop marks the end of a loop or switch body.
func (c *Checker) ExitLoop() {
	c.loops.Pop()
}

// Balanced reports whether every scope, loop and switch opened during the
// run has been closed again.
func (c *Checker) Balanced() bool {
	return c.scopes.Depth() == 1 && c.loops.Depth() == 0 && len(c.switches) == 0
}

// DeclareVar binds name in the current scope.
func (c *Checker) DeclareVar(name string, tag types.Tag, line int) bool {
	if name == "_" {
		return true
	}
	current := c.scopes.Current()
	if _, exists := current.Variables[name]; exists {
		c.diags.Semanticf(line, "Variable '%s' already declared in this scope", name)
		return false
	}
	current.Variables[name] = tag
	return true
}

// DeclareShort handles the left side of a short variable declaration.
// Names already bound in the current scope are reused; at least one name
// must be new.
func (c *Checker) DeclareShort(names []string, tags []types.Tag, line int) {
	current := c.scopes.Current()
	fresh := 0
	for _, name := range names {
		if name == "_" {
			continue
		}
		if _, exists := current.Variables[name]; !exists {
			fresh++
		}
	}
	if fresh == 0 {
		for _, name := range names {
			if name != "_" {
				c.diags.Semanticf(line, "Variable '%s' already declared in this scope", name)
				return
			}
		}
		return
	}

	for i, name := range names {
		if name == "_" {
			continue
		}
		if _, exists := current.Variables[name]; exists {
			c.CheckAssignable(name, line)
			continue
		}
		tag := types.Unknown
		if i < len(tags) {
			tag = tags[i]
		}
		current.Variables[name] = tag
	}
}

// DeclareConst registers a constant. Constant names share one namespace
// for the whole run regardless of the scope they are declared in.
func (c *Checker) DeclareConst(name string, tag types.Tag, line int) bool {
	if name == "_" {
		return true
	}
	global := c.scopes.Global()
	if global.Consts[name] {
		c.diags.Semanticf(line, "Constant '%s' already declared", name)
		return false
	}
	current := c.scopes.Current()
	if _, exists := current.Variables[name]; exists {
		c.diags.Semanticf(line, "Variable '%s' already declared in this scope", name)
		return false
	}
	global.Consts[name] = true
	current.Variables[name] = tag
	return true
}

// DeclareFunc registers a top-level function and its single result type.
func (c *Checker) DeclareFunc(name string, result types.Tag, line int) bool {
	if name == "_" {
		return true
	}
	global := c.scopes.Global()
	if global.Functions[name] && name != "init" {
		c.diags.Semanticf(line, "Function '%s' already declared", name)
		return false
	}
	global.Functions[name] = true
	c.results[name] = result
	return true
}

// DeclareMethod registers a method on the named receiver type.
func (c *Checker) DeclareMethod(receiver, name string, result types.Tag, line int) bool {
	key := receiver + "." + name
	if _, exists := c.methodResults[key]; exists {
		c.diags.Semanticf(line, "Method '%s' already declared", key)
		return false
	}
	c.methodResults[key] = result
	return true
}

// DeclareType registers a named type with its underlying type and, for
// struct types, its fields.
func (c *Checker) DeclareType(name string, underlying types.Tag, fields []Field, line int) bool {
	global := c.scopes.Global()
	if global.Types[name] {
		c.diags.Semanticf(line, "Type '%s' already declared", name)
		return false
	}
	global.Types[name] = true
	c.typeDefs[name] = underlying
	if underlying.Kind == types.KindStruct {
		c.fields[name] = c.CheckFields(name, fields)
	}
	return true
}

// CheckFields reports duplicate field names and returns the field table.
func (c *Checker) CheckFields(owner string, fields []Field) map[string]types.Tag {
	table := make(map[string]types.Tag, len(fields))
	for _, f := range fields {
		if f.Name == "_" {
			continue
		}
		if _, exists := table[f.Name]; exists {
			c.diags.Semanticf(f.Line, "Field '%s' already declared in struct '%s'", f.Name, owner)
			continue
		}
		table[f.Name] = f.Tag
	}
	return table
}

// Lookup resolves name without reporting anything.
func (c *Checker) Lookup(name string) (types.Tag, bool) {
	if name == "_" {
		return types.Unknown, true
	}
	if tag, _, ok := c.scopes.Lookup(name); ok {
		return tag, true
	}
	global := c.scopes.Global()
	switch {
	case global.Functions[name]:
		return types.Unknown, true
	case global.Types[name]:
		return types.Named(name), true
	case builtins[name]:
		return types.Unknown, true
	}
	return types.Unknown, false
}

// Resolve looks name up innermost to global and reports it when missing.
func (c *Checker) Resolve(name string, line int) types.Tag {
	tag, ok := c.Lookup(name)
	if !ok {
		c.diags.Semanticf(line, "Variable '%s' is not defined", name)
	}
	return tag
}

// CheckAssignable reports an assignment to a constant.
func (c *Checker) CheckAssignable(name string, line int) {
	if c.scopes.Global().Consts[name] {
		c.diags.Semanticf(line, "Constant '%s' cannot be modified", name)
	}
}

// Break validates a break statement.
func (c *Checker) Break(line int) {
	if !c.loops.CanBreak() {
		c.diags.Semanticf(line, "Break statement outside of loop or switch")
	}
}

// Continue validates a continue statement.
func (c *Checker) Continue(line int) {
	if !c.loops.CanContinue() {
		c.diags.Semanticf(line, "Continue statement outside of loop")
	}
}

// Assignable reports whether a value tagged value may be stored in a
// location tagged target. Named types accept values of their underlying
// primitive type.
func (c *Checker) Assignable(value, target types.Tag) bool {
	if c.opaque(value) || c.opaque(target) {
		return true
	}
	if value.AssignableTo(target) {
		return true
	}
	if target.Kind == types.KindNamed && value.Kind != types.KindNamed {
		if u := c.Underlying(target); u.Kind != types.KindNamed {
			return value.AssignableTo(u)
		}
	}
	return false
}

// opaque reports named types declared outside the analyzed source, such
// as error, byte or package-qualified types.
func (c *Checker) opaque(tag types.Tag) bool {
	if tag.Kind != types.KindNamed {
		return false
	}
	_, declared := c.typeDefs[tag.Name]
	return !declared
}

// IsType reports whether name refers to a declared type rather than a
// variable.
func (c *Checker) IsType(name string) bool {
	if _, _, ok := c.scopes.Lookup(name); ok {
		return false
	}
	return c.scopes.Global().Types[name]
}

// SuspendLoops hides the enclosing loop and switch contexts, as a function
// literal body cannot break out of them. The returned func restores them.
func (c *Checker) SuspendLoops() func() {
	saved := c.loops
	c.loops = LoopStack{}
	return func() { c.loops = saved }
}

// CheckInit compares a declared type against its initializer. what is
// "variable" or "constant".
func (c *Checker) CheckInit(what, name string, declared, init types.Tag, line int) {
	if !declared.IsKnown() || !init.IsKnown() {
		return
	}
	if !c.Assignable(init, declared) {
		c.diags.Semanticf(line, "Type mismatch: %s '%s' declared as %s but initialized with %s",
			what, name, declared, init)
	}
}

// CheckArrayLiteral validates the elements of a composite array or slice
// literal. A negative size means the literal has no declared length.
func (c *Checker) CheckArrayLiteral(size int, elem types.Tag, elems []types.Tag, line int) {
	for _, tag := range elems {
		if !c.Assignable(tag, elem) {
			c.diags.Semanticf(line, "Array element type mismatch: expected %s, got %s", elem, tag)
			break
		}
	}
	if size >= 0 && size != len(elems) {
		c.diags.Semanticf(line, "Array size mismatch: declared %d, got %d elements", size, len(elems))
	}
}

// BeginSwitch opens a switch whose case expressions must match tag. A
// switch without a tag expression switches on bool.
func (c *Checker) BeginSwitch(tag types.Tag) {
	c.switches = append(c.switches, switchState{tag: tag})
}

// CheckCase validates one case expression against the open switch.
func (c *Checker) CheckCase(tag types.Tag, line int) {
	if len(c.switches) == 0 {
		return
	}
	expected := c.switches[len(c.switches)-1].tag
	if !expected.IsKnown() || !tag.IsKnown() {
		return
	}
	if !c.caseMatches(tag, expected) {
		c.diags.Semanticf(line, "Switch case type mismatch: expected %s, got %s", expected, tag)
	}
}

// caseMatches reports whether a case tag equals the switch tag. Unlike
// assignment there is no int to float64 widening; a literal of the
// underlying type still matches a declared named type.
func (c *Checker) caseMatches(tag, expected types.Tag) bool {
	if c.opaque(tag) || c.opaque(expected) || tag.Equal(expected) {
		return true
	}
	if expected.Kind == types.KindNamed && tag.Kind != types.KindNamed {
		return c.Underlying(expected).Equal(tag)
	}
	return false
}

// DefaultClause records a default clause in the open switch.
func (c *Checker) DefaultClause(line int) {
	if len(c.switches) == 0 {
		return
	}
	s := &c.switches[len(c.switches)-1]
	if s.hasDefault {
		c.diags.Semanticf(line, "Multiple default clauses in switch")
		return
	}
	s.hasDefault = true
}

// EndSwitch closes the innermost switch.
func (c *Checker) EndSwitch() {
	if len(c.switches) > 0 {
		c.switches = c.switches[:len(c.switches)-1]
	}
}

// FuncResult returns the declared single result of a function.
func (c *Checker) FuncResult(name string) (types.Tag, bool) {
	tag, ok := c.results[name]
	return tag, ok
}

// MethodResult returns the declared single result of a method on recv.
func (c *Checker) MethodResult(recv types.Tag, name string) (types.Tag, bool) {
	if recv.Kind != types.KindNamed {
		return types.Unknown, false
	}
	tag, ok := c.methodResults[recv.Name+"."+name]
	return tag, ok
}

// Underlying follows named types to their definition.
func (c *Checker) Underlying(tag types.Tag) types.Tag {
	for range 16 {
		if tag.Kind != types.KindNamed {
			return tag
		}
		next, ok := c.typeDefs[tag.Name]
		if !ok {
			return tag
		}
		tag = next
	}
	return tag
}

// FieldType returns the type of field on a value tagged tag, or unknown.
func (c *Checker) FieldType(tag types.Tag, field string) types.Tag {
	for range 16 {
		if tag.Kind != types.KindNamed {
			return types.Unknown
		}
		if table, ok := c.fields[tag.Name]; ok {
			return table[field]
		}
		next, ok := c.typeDefs[tag.Name]
		if !ok {
			return types.Unknown
		}
		tag = next
	}
	return types.Unknown
}
