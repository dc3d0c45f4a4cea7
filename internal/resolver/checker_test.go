package resolver

import (
	"reflect"
	"testing"

	"github.com/orizon-lang/goanalyzer/internal/diagnostic"
	"github.com/orizon-lang/goanalyzer/internal/types"
)

func newTestChecker() (*Checker, *diagnostic.Collector) {
	diags := diagnostic.NewCollector()
	return NewChecker(diags), diags
}

func expectMessages(t *testing.T, diags *diagnostic.Collector, expected ...string) {
	t.Helper()
	got := diags.Semantic()
	if len(got) != len(expected) {
		t.Fatalf("expected %d semantic diagnostics, got %d: %v", len(expected), len(got), got)
	}
	for i, msg := range expected {
		if got[i].Message != msg {
			t.Errorf("diagnostics[%d] - message wrong. expected=%q, got=%q", i, msg, got[i].Message)
		}
	}
}

func TestScopeStack(t *testing.T) {
	ss := NewScopeStack()
	if ss.Depth() != 1 || ss.Current().Kind != ScopeKindGlobal {
		t.Fatalf("new stack should hold only the global scope")
	}

	ss.Global().Variables["g"] = types.Int
	inner := ss.Push(ScopeKindBlock)
	inner.Variables["x"] = types.String

	if tag, scope, ok := ss.Lookup("g"); !ok || !tag.Equal(types.Int) || scope != ss.Global() {
		t.Errorf("lookup of global from inner scope failed: %v %v", tag, ok)
	}
	if _, _, ok := ss.Lookup("x"); !ok {
		t.Errorf("lookup of innermost binding failed")
	}

	ss.Pop()
	if _, _, ok := ss.Lookup("x"); ok {
		t.Errorf("binding should disappear with its scope")
	}

	ss.Pop()
	if ss.Depth() != 1 {
		t.Errorf("global scope must never be popped, depth=%d", ss.Depth())
	}
}

func TestRedeclaration(t *testing.T) {
	c, diags := newTestChecker()

	c.DeclareVar("x", types.Int, 1)
	c.DeclareVar("x", types.Int, 2)

	c.EnterScope(ScopeKindBlock)
	c.DeclareVar("x", types.String, 3) // shadowing is fine
	c.ExitScope()

	c.DeclareVar("_", types.Int, 4)
	c.DeclareVar("_", types.Int, 5)

	expectMessages(t, diags, "Variable 'x' already declared in this scope")
	if got := diags.Semantic()[0].Line; got != 2 {
		t.Errorf("line wrong. expected=2, got=%d", got)
	}
}

func TestShortDeclaration(t *testing.T) {
	c, diags := newTestChecker()

	c.DeclareShort([]string{"a", "err"}, []types.Tag{types.Int, types.Unknown}, 1)
	c.DeclareShort([]string{"b", "err"}, []types.Tag{types.String, types.Unknown}, 2)
	c.DeclareShort([]string{"a", "b"}, []types.Tag{types.Int, types.String}, 3)

	expectMessages(t, diags, "Variable 'a' already declared in this scope")
	if tag, _ := c.Lookup("b"); !tag.Equal(types.String) {
		t.Errorf("b should be string, got %s", tag)
	}
}

func TestConstants(t *testing.T) {
	c, diags := newTestChecker()

	c.DeclareConst("Y", types.Int, 1)
	c.DeclareConst("Y", types.Int, 2)
	c.CheckAssignable("Y", 3)
	c.CheckAssignable("x", 4)

	c.EnterScope(ScopeKindFunction)
	c.DeclareConst("Z", types.String, 5)
	c.ExitScope()
	c.DeclareConst("Z", types.String, 6)

	expectMessages(t, diags,
		"Constant 'Y' already declared",
		"Constant 'Y' cannot be modified",
		"Constant 'Z' already declared",
	)

	if _, ok := c.Lookup("Y"); !ok {
		t.Errorf("constant should resolve like a variable")
	}
}

func TestConstClashesWithVariable(t *testing.T) {
	c, diags := newTestChecker()
	c.DeclareVar("n", types.Int, 1)
	c.DeclareConst("n", types.Int, 2)
	expectMessages(t, diags, "Variable 'n' already declared in this scope")
}

func TestResolve(t *testing.T) {
	c, diags := newTestChecker()

	c.DeclareVar("x", types.Float64, 1)
	c.DeclareFunc("helper", types.Int, 1)
	c.DeclareType("Point", types.Struct, nil, 1)

	tests := []struct {
		name     string
		expected types.Tag
	}{
		{"x", types.Float64},
		{"helper", types.Unknown},
		{"Point", types.Named("Point")},
		{"len", types.Unknown},
		{"nil", types.Unknown},
		{"_", types.Unknown},
	}
	for _, tt := range tests {
		if got := c.Resolve(tt.name, 2); !got.Equal(tt.expected) {
			t.Errorf("Resolve(%q) = %s, want %s", tt.name, got, tt.expected)
		}
	}

	c.Resolve("missing", 7)
	expectMessages(t, diags, "Variable 'missing' is not defined")
	if diags.Semantic()[0].Line != 7 {
		t.Errorf("line wrong. expected=7, got=%d", diags.Semantic()[0].Line)
	}
}

func TestBreakContinue(t *testing.T) {
	c, diags := newTestChecker()

	c.Break(1)
	c.Continue(2)

	c.EnterLoop(LoopContextSwitch)
	c.Break(3)
	c.Continue(4)
	c.ExitLoop()

	c.EnterLoop(LoopContextLoop)
	c.EnterLoop(LoopContextSwitch)
	c.Break(5)
	c.Continue(6)
	c.ExitLoop()
	c.ExitLoop()

	expectMessages(t, diags,
		"Break statement outside of loop or switch",
		"Continue statement outside of loop",
		"Continue statement outside of loop",
	)
	if !c.Balanced() {
		t.Errorf("checker should be balanced")
	}
}

func TestCheckInit(t *testing.T) {
	c, diags := newTestChecker()
	c.DeclareType("Celsius", types.Float64, nil, 1)

	c.CheckInit("variable", "x", types.Int, types.String, 2)
	c.CheckInit("variable", "f", types.Float64, types.Int, 3)
	c.CheckInit("variable", "u", types.Int, types.Unknown, 4)
	c.CheckInit("constant", "C", types.Bool, types.Int, 5)
	c.CheckInit("variable", "t", types.Named("Celsius"), types.Float64, 6)
	c.CheckInit("variable", "s", types.SliceOf(types.Int), types.SliceOf(types.String), 7)

	expectMessages(t, diags,
		"Type mismatch: variable 'x' declared as int but initialized with string",
		"Type mismatch: constant 'C' declared as bool but initialized with int",
		"Type mismatch: variable 's' declared as []int but initialized with []string",
	)
}

func TestCheckArrayLiteral(t *testing.T) {
	c, diags := newTestChecker()

	c.CheckArrayLiteral(3, types.Int, []types.Tag{types.Int, types.Int, types.Int}, 1)
	c.CheckArrayLiteral(3, types.Int, []types.Tag{types.Int, types.String, types.Bool}, 2)
	c.CheckArrayLiteral(2, types.Int, []types.Tag{types.Int, types.Int, types.Int}, 3)
	c.CheckArrayLiteral(-1, types.String, []types.Tag{types.Int}, 4)
	c.CheckArrayLiteral(-1, types.Float64, []types.Tag{types.Int, types.Float64}, 5)

	expectMessages(t, diags,
		"Array element type mismatch: expected int, got string",
		"Array size mismatch: declared 2, got 3 elements",
		"Array element type mismatch: expected string, got int",
	)
}

func TestSwitchChecks(t *testing.T) {
	c, diags := newTestChecker()

	c.BeginSwitch(types.Int)
	c.CheckCase(types.Int, 2)
	c.CheckCase(types.String, 3)
	c.CheckCase(types.Unknown, 4)
	c.DefaultClause(5)

	c.BeginSwitch(types.Bool)
	c.DefaultClause(7)
	c.CheckCase(types.Int, 8)
	c.EndSwitch()

	c.DefaultClause(9)
	c.EndSwitch()

	expectMessages(t, diags,
		"Switch case type mismatch: expected int, got string",
		"Switch case type mismatch: expected bool, got int",
		"Multiple default clauses in switch",
	)
	if !c.Balanced() {
		t.Errorf("checker should be balanced")
	}
}

func TestFunctionsAndMethods(t *testing.T) {
	c, diags := newTestChecker()

	c.DeclareFunc("main", types.Unknown, 1)
	c.DeclareFunc("main", types.Unknown, 2)
	c.DeclareFunc("init", types.Unknown, 3)
	c.DeclareFunc("init", types.Unknown, 4)
	c.DeclareFunc("area", types.Float64, 5)

	c.DeclareMethod("Point", "Len", types.Int, 6)
	c.DeclareMethod("Point", "Len", types.Int, 7)
	c.DeclareMethod("Line", "Len", types.Int, 8)

	expectMessages(t, diags,
		"Function 'main' already declared",
		"Method 'Point.Len' already declared",
	)

	if tag, ok := c.FuncResult("area"); !ok || !tag.Equal(types.Float64) {
		t.Errorf("FuncResult(area) = %s, %v", tag, ok)
	}
	if tag, ok := c.MethodResult(types.Named("Point"), "Len"); !ok || !tag.Equal(types.Int) {
		t.Errorf("MethodResult(Point.Len) = %s, %v", tag, ok)
	}
}

func TestTypesAndFields(t *testing.T) {
	c, diags := newTestChecker()

	fields := []Field{
		{Name: "X", Tag: types.Int, Line: 2},
		{Name: "Y", Tag: types.Float64, Line: 3},
		{Name: "X", Tag: types.String, Line: 4},
	}
	c.DeclareType("Point", types.Struct, fields, 1)
	c.DeclareType("Point", types.Int, nil, 5)
	c.DeclareType("Alias", types.Named("Point"), nil, 6)

	expectMessages(t, diags,
		"Field 'X' already declared in struct 'Point'",
		"Type 'Point' already declared",
	)

	if got := c.FieldType(types.Named("Point"), "Y"); !got.Equal(types.Float64) {
		t.Errorf("FieldType(Point.Y) = %s", got)
	}
	if got := c.FieldType(types.Named("Alias"), "X"); !got.Equal(types.Int) {
		t.Errorf("FieldType(Alias.X) = %s", got)
	}
	if got := c.FieldType(types.Named("Point"), "Z"); got.IsKnown() {
		t.Errorf("FieldType(Point.Z) = %s, want unknown", got)
	}
	if got := c.Underlying(types.Named("Alias")); got.Kind != types.KindStruct {
		t.Errorf("Underlying(Alias) = %s", got)
	}
}

func TestSnapshot(t *testing.T) {
	c, _ := newTestChecker()

	c.DeclareVar("x", types.SliceOf(types.Int), 1)
	c.DeclareConst("B", types.String, 2)
	c.DeclareConst("A", types.Int, 3)
	c.DeclareFunc("main", types.Unknown, 4)
	c.EnterScope(ScopeKindFunction)
	c.DeclareVar("local", types.Int, 5)
	c.ExitScope()

	got := c.Snapshot()
	want := Snapshot{
		Variables: map[string]string{"x": "[]int", "A": "int", "B": "string"},
		Consts:    []string{"A", "B"},
		Functions: []string{"main"},
		Types:     []string{},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("snapshot wrong.\nexpected=%+v\ngot=%+v", want, got)
	}
}

func TestBalanced(t *testing.T) {
	c, _ := newTestChecker()
	c.EnterScope(ScopeKindFunction)
	if c.Balanced() {
		t.Errorf("open scope should unbalance the checker")
	}
	c.ExitScope()
	c.BeginSwitch(types.Bool)
	if c.Balanced() {
		t.Errorf("open switch should unbalance the checker")
	}
	c.EndSwitch()
	if !c.Balanced() {
		t.Errorf("checker should be balanced")
	}
}
