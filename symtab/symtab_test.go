package symtab

import (
	"testing"

	"github.com/wordlang/wordc/ast"
	"github.com/wordlang/wordc/types"
)

func TestDeclareAndLookup(t *testing.T) {
	tab := New()
	loc := ast.Pos{Line: 1, Column: 1}

	if !tab.DeclareVariable("x", types.T(types.Number), true, loc) {
		t.Fatal("expected first declaration of x to succeed")
	}
	if tab.DeclareVariable("x", types.T(types.Number), true, loc) {
		t.Fatal("expected redeclaration of x in same scope to fail")
	}
	if !tab.HasErrors() {
		t.Fatal("expected redeclaration to record an error")
	}

	sym, ok := tab.Lookup("x")
	if !ok || sym.Kind != VariableSym {
		t.Fatalf("expected to find variable x, got %v %v", sym, ok)
	}
}

func TestLookupWalksParentScopes(t *testing.T) {
	tab := New()
	loc := ast.Pos{}
	tab.DeclareVariable("outer", types.T(types.Text), true, loc)

	tab.EnterScope()
	if _, ok := tab.Lookup("outer"); !ok {
		t.Fatal("expected lookup to find symbol in enclosing scope")
	}
	if _, ok := tab.LookupCurrentScope("outer"); ok {
		t.Fatal("LookupCurrentScope must not escape the current scope")
	}
	tab.ExitScope()
}

func TestExitScopeDestroysSymbols(t *testing.T) {
	tab := New()
	loc := ast.Pos{}
	tab.EnterScope()
	tab.DeclareVariable("local", types.T(types.Number), true, loc)
	tab.ExitScope()

	if _, ok := tab.Lookup("local"); ok {
		t.Fatal("expected symbol to not outlive its scope")
	}
}

func TestExitScopeAtGlobalIsNoop(t *testing.T) {
	tab := New()
	tab.DeclareVariable("g", types.T(types.Number), true, ast.Pos{})
	tab.ExitScope()
	if _, ok := tab.Lookup("g"); !ok {
		t.Fatal("exiting the global scope must be a no-op")
	}
}

func TestLoopAndSecureZoneFlagsAreContagious(t *testing.T) {
	tab := New()
	tab.EnterLoopScope()
	tab.EnterScope()
	if !tab.InLoop() {
		t.Fatal("expected is_loop_scope to propagate into nested block scope")
	}
	tab.EnterSecureScope()
	if !tab.InSecureZone() || !tab.InLoop() {
		t.Fatal("expected both loop and secure-zone flags to still hold")
	}
}

func TestFunctionScopeResetsInheritedFlags(t *testing.T) {
	tab := New()
	tab.EnterLoopScope()
	tab.EnterSecureScope()
	tab.EnterFunctionScope(types.T(types.Number))

	if tab.InLoop() || tab.InSecureZone() {
		t.Fatal("expected entering a function scope to reset loop/secure-zone flags")
	}
	if !tab.InFunction() {
		t.Fatal("expected InFunction to hold inside a function scope")
	}
	rt, ok := tab.ReturnType()
	if !ok || rt.Kind != types.Number {
		t.Fatalf("expected return type number, got %v %v", rt, ok)
	}
}

func TestInFunctionSeesThroughNestedBlocks(t *testing.T) {
	tab := New()
	tab.EnterFunctionScope(types.T(types.Nothing))
	tab.EnterScope()
	tab.EnterScope()
	if !tab.InFunction() {
		t.Fatal("expected InFunction to hold several block scopes deep inside a function")
	}
}

func TestLookupFunctionRejectsNonFunctionSymbols(t *testing.T) {
	tab := New()
	tab.DeclareVariable("notAFunction", types.T(types.Number), true, ast.Pos{})
	if _, ok := tab.LookupFunction("notAFunction"); ok {
		t.Fatal("expected LookupFunction to reject a variable symbol")
	}

	tab.DeclareFunction("add", &FunctionInfo{
		ParamNames: []string{"a", "b"},
		ParamTypes: []types.Type{types.T(types.Number), types.T(types.Number)},
		ReturnType: types.T(types.Number),
	}, ast.Pos{})
	sym, ok := tab.LookupFunction("add")
	if !ok || sym.Kind != FunctionSym || !sym.IsInitialized {
		t.Fatalf("expected an initialized function symbol, got %v %v", sym, ok)
	}
}

func TestScopeLevelIncreasesWithNesting(t *testing.T) {
	tab := New()
	if tab.ScopeLevel() != 0 {
		t.Fatalf("expected global scope level 0, got %d", tab.ScopeLevel())
	}
	tab.EnterScope()
	tab.EnterScope()
	if tab.ScopeLevel() != 2 {
		t.Fatalf("expected scope level 2, got %d", tab.ScopeLevel())
	}
}
