// Package symtab implements Word's scoped symbol table.
//
// The table is an ordered stack of Scopes, each a parent-linked list of
// Symbols (spec.md §3 "Symbol Table"). It is populated top-down by the
// Semantic Analyzer and then consumed read-only by IR lowering and the C
// emitter. The shape mirrors the teacher's compiler.SymbolTable (outer
// pointer, per-scope store map) but is extended with the scope-flag stack,
// function-return-type tracking, and diagnostic accumulation the original
// Monkey compiler never needed.
package symtab

import (
	"fmt"

	"github.com/wordlang/wordc/ast"
	"github.com/wordlang/wordc/types"
)

// Kind distinguishes what a Symbol names.
type Kind int

//nolint:revive
const (
	VariableSym Kind = iota
	ConstantSym
	FunctionSym
	ParameterSym
)

func (k Kind) String() string {
	switch k {
	case VariableSym:
		return "variable"
	case ConstantSym:
		return "constant"
	case FunctionSym:
		return "function"
	case ParameterSym:
		return "parameter"
	default:
		return "unknown"
	}
}

// FunctionInfo holds the extra bookkeeping a function symbol carries:
// its parameter types (in declaration order) and declared return type.
type FunctionInfo struct {
	ParamNames []string
	ParamTypes []types.Type
	ReturnType types.Type
}

// Symbol is a single named entity declared in some scope.
type Symbol struct {
	Name          string
	Kind          Kind
	Type          types.Type
	ScopeLevel    int
	IsInitialized bool
	DeclLoc       ast.Pos
	Function      *FunctionInfo // non-nil only when Kind == FunctionSym
}

// scope is one level of the scope stack.
type scope struct {
	level         int
	parent        *scope
	symbols       map[string]*Symbol
	order         []*Symbol // declaration order, for deterministic iteration
	isFunction    bool
	isLoop        bool
	isSecureZone  bool
	returnType    types.Type
	hasReturnType bool
}

func newScope(parent *scope) *scope {
	s := &scope{parent: parent, symbols: make(map[string]*Symbol)}
	if parent != nil {
		s.level = parent.level + 1
		// Loop and secure-zone flags are contagious across scope entry.
		s.isLoop = parent.isLoop
		s.isSecureZone = parent.isSecureZone
		s.returnType = parent.returnType
		s.hasReturnType = parent.hasReturnType
	}
	return s
}

// Table is Word's scoped symbol table.
type Table struct {
	current *scope

	errors   []string
	warnings []string
}

// New creates a Table with a single, empty global scope.
func New() *Table {
	return &Table{current: newScope(nil)}
}

// EnterScope pushes a plain lexical scope (block, if/while/repeat body)
// that inherits the enclosing loop/secure-zone flags.
func (t *Table) EnterScope() { t.current = newScope(t.current) }

// EnterFunctionScope pushes a function-body scope. Per spec.md §3, entering
// a function scope resets the inherited loop and secure-zone flags.
func (t *Table) EnterFunctionScope(returnType types.Type) {
	s := newScope(t.current)
	s.isFunction = true
	s.isLoop = false
	s.isSecureZone = false
	s.returnType = returnType
	s.hasReturnType = true
	t.current = s
}

// EnterLoopScope pushes a scope with is_loop_scope set.
func (t *Table) EnterLoopScope() {
	s := newScope(t.current)
	s.isLoop = true
	t.current = s
}

// EnterSecureScope pushes a scope with is_secure_zone set.
func (t *Table) EnterSecureScope() {
	s := newScope(t.current)
	s.isSecureZone = true
	t.current = s
}

// ExitScope pops the current scope. A no-op at the global scope: global
// symbols must outlive the analysis pass that declared them.
func (t *Table) ExitScope() {
	if t.current.parent != nil {
		t.current = t.current.parent
	}
}

func (t *Table) declare(name string, sym *Symbol) bool {
	if _, exists := t.current.symbols[name]; exists {
		return false
	}
	sym.ScopeLevel = t.current.level
	t.current.symbols[name] = sym
	t.current.order = append(t.current.order, sym)
	return true
}

// DeclareVariable adds a mutable variable to the current scope. It returns
// false (and records an error) if name is already declared in this scope.
func (t *Table) DeclareVariable(name string, typ types.Type, initialized bool, loc ast.Pos) bool {
	ok := t.declare(name, &Symbol{Name: name, Kind: VariableSym, Type: typ, IsInitialized: initialized, DeclLoc: loc})
	if !ok {
		t.Error(loc, "variable %q is already declared in this scope", name)
	}
	return ok
}

// DeclareConstant adds an always-initialized constant to the current scope.
func (t *Table) DeclareConstant(name string, typ types.Type, loc ast.Pos) bool {
	ok := t.declare(name, &Symbol{Name: name, Kind: ConstantSym, Type: typ, IsInitialized: true, DeclLoc: loc})
	if !ok {
		t.Error(loc, "constant %q is already declared in this scope", name)
	}
	return ok
}

// DeclareParameter adds a function parameter to the current (function) scope.
func (t *Table) DeclareParameter(name string, typ types.Type, loc ast.Pos) bool {
	ok := t.declare(name, &Symbol{Name: name, Kind: ParameterSym, Type: typ, IsInitialized: true, DeclLoc: loc})
	if !ok {
		t.Error(loc, "parameter %q is already declared in this scope", name)
	}
	return ok
}

// DeclareFunction adds a function symbol, always marked initialized.
func (t *Table) DeclareFunction(name string, info *FunctionInfo, loc ast.Pos) bool {
	ok := t.declare(name, &Symbol{
		Name: name, Kind: FunctionSym, Type: types.T(types.Function),
		IsInitialized: true, DeclLoc: loc, Function: info,
	})
	if !ok {
		t.Error(loc, "function %q is already declared in this scope", name)
	}
	return ok
}

// Lookup searches the current scope and every enclosing scope, innermost
// first, returning the nearest match.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	for s := t.current; s != nil; s = s.parent {
		if sym, ok := s.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupCurrentScope never escapes the current scope.
func (t *Table) LookupCurrentScope(name string) (*Symbol, bool) {
	sym, ok := t.current.symbols[name]
	return sym, ok
}

// LookupFunction returns a symbol only if it exists and is a function.
func (t *Table) LookupFunction(name string) (*Symbol, bool) {
	sym, ok := t.Lookup(name)
	if !ok || sym.Kind != FunctionSym {
		return nil, false
	}
	return sym, true
}

// InLoop reports whether the current scope (or an ancestor) is a loop scope.
func (t *Table) InLoop() bool { return t.current.isLoop }

// InFunction reports whether some ancestor scope of the current scope is a
// function scope (symtab_in_function in spec.md §3).
func (t *Table) InFunction() bool {
	for s := t.current; s != nil; s = s.parent {
		if s.isFunction {
			return true
		}
	}
	return false
}

// InSecureZone reports whether the current scope is within a secure zone.
func (t *Table) InSecureZone() bool { return t.current.isSecureZone }

// ReturnType returns the nearest enclosing function's declared return type.
func (t *Table) ReturnType() (types.Type, bool) {
	if !t.current.hasReturnType {
		return types.Type{}, false
	}
	return t.current.returnType, true
}

// ScopeLevel returns the current scope's nesting depth (0 at global).
func (t *Table) ScopeLevel() int { return t.current.level }

// Error records a diagnostic at loc and increments the error count.
func (t *Table) Error(loc ast.Pos, format string, args ...any) {
	t.errors = append(t.errors, fmt.Sprintf("%s: error: %s", loc, fmt.Sprintf(format, args...)))
}

// Warning records a diagnostic at loc and increments the warning count.
func (t *Table) Warning(loc ast.Pos, format string, args ...any) {
	t.warnings = append(t.warnings, fmt.Sprintf("%s: warning: %s", loc, fmt.Sprintf(format, args...)))
}

// Errors returns every error recorded so far.
func (t *Table) Errors() []string { return t.errors }

// Warnings returns every warning recorded so far.
func (t *Table) Warnings() []string { return t.warnings }

// HasErrors reports whether any error was recorded.
func (t *Table) HasErrors() bool { return len(t.errors) > 0 }
