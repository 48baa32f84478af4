package semantic

import (
	"strings"
	"testing"

	"github.com/wordlang/wordc/lexer"
	"github.com/wordlang/wordc/parser"
)

func analyzeSource(t *testing.T, src string) *Result {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parser errors: %s", strings.Join(errs, "; "))
	}
	return New().Analyze(prog)
}

func TestValidProgramsSucceed(t *testing.T) {
	tests := []string{
		`set x to 5
display x`,
		`define add(a, b) returns number:
    give back a + b
end
set result to add(1, 2)`,
		`set total to 0
for each item in [1, 2, 3]:
    change total to total + item
end`,
		`make constant greeting be "hello"
display greeting + " world"`,
		`set n to 5
while n > 0:
    change n to n - 1
    if n = 2:
        stop
    else:
        skip
    end
end`,
	}
	for i, src := range tests {
		res := analyzeSource(t, src)
		if !res.Success {
			t.Errorf("case %d: expected success, got %d errors", i, res.Errors)
		}
	}
}

func TestUndeclaredIdentifierIsAnError(t *testing.T) {
	res := analyzeSource(t, `display missing`)
	if res.Success || res.Errors == 0 {
		t.Fatal("expected an error for undeclared identifier")
	}
}

func TestRedeclarationInSameScopeIsAnError(t *testing.T) {
	res := analyzeSource(t, `set x to 1
set x to 2`)
	if res.Success {
		t.Fatal("expected redeclaration to fail")
	}
}

func TestAssignToConstantIsAnError(t *testing.T) {
	res := analyzeSource(t, `make constant pi be 3.14
change pi to 3`)
	if res.Success {
		t.Fatal("expected assignment to constant to fail")
	}
}

func TestBreakOutsideLoopIsAnError(t *testing.T) {
	res := analyzeSource(t, `stop`)
	if res.Success {
		t.Fatal("expected `stop` outside a loop to fail")
	}
}

func TestContinueOutsideLoopIsAnError(t *testing.T) {
	res := analyzeSource(t, `skip`)
	if res.Success {
		t.Fatal("expected `skip` outside a loop to fail")
	}
}

func TestReturnOutsideFunctionIsAnError(t *testing.T) {
	res := analyzeSource(t, `give back 5`)
	if res.Success {
		t.Fatal("expected `give back` outside a function to fail")
	}
}

func TestReturnTypeMismatchIsAnError(t *testing.T) {
	res := analyzeSource(t, `define f() returns number:
    give back "not a number"
end`)
	if res.Success {
		t.Fatal("expected return type mismatch to fail")
	}
}

func TestMissingReturnValueForNonNothingFunctionIsAnError(t *testing.T) {
	res := analyzeSource(t, `define f() returns number:
    give back
end`)
	if res.Success {
		t.Fatal("expected missing return value to fail")
	}
}

func TestCallArityMismatchIsAnError(t *testing.T) {
	res := analyzeSource(t, `define add(a, b) returns number:
    give back a + b
end
set x to add(1)`)
	if res.Success {
		t.Fatal("expected arity mismatch to fail")
	}
}

func TestIndexingNonIndexableIsAnError(t *testing.T) {
	res := analyzeSource(t, `set x to 5
display x[0]`)
	if res.Success {
		t.Fatal("expected indexing a number to fail")
	}
}

func TestUseBeforeInitializationWarns(t *testing.T) {
	res := analyzeSource(t, `set x
display x`)
	if !res.Success {
		t.Fatalf("expected use-before-init to be only a warning, got %d errors", res.Errors)
	}
	if res.Warnings == 0 {
		t.Fatal("expected a use-before-initialization warning")
	}
}

func TestNumericConditionWarns(t *testing.T) {
	res := analyzeSource(t, `if 1:
    display "truthy"
end`)
	if !res.Success {
		t.Fatalf("expected numeric condition to only warn, got %d errors", res.Errors)
	}
	if res.Warnings == 0 {
		t.Fatal("expected a numeric-condition-as-truthiness warning")
	}
}

func TestLogicalAndOnNonFlagOperandsIsAnError(t *testing.T) {
	res := analyzeSource(t, `display 1 and 2`)
	if res.Success || res.Errors == 0 {
		t.Fatal("expected `and` on non-flag operands to fail")
	}
}

func TestLogicalOrOnNonFlagOperandsIsAnError(t *testing.T) {
	res := analyzeSource(t, `display "x" or 0`)
	if res.Success || res.Errors == 0 {
		t.Fatal("expected `or` on non-flag operands to fail")
	}
}

func TestLogicalAndOnFlagOperandsSucceeds(t *testing.T) {
	res := analyzeSource(t, `display true and false`)
	if !res.Success {
		t.Fatalf("expected flag operands to `and` successfully, got %d errors", res.Errors)
	}
}

func TestStringConcatenationYieldsText(t *testing.T) {
	p := parser.New(lexer.New(`set greeting to "hi " + "there"
display greeting`))
	prog := p.ParseProgram()
	an := New()
	res := an.Analyze(prog)
	if !res.Success {
		t.Fatalf("expected success, got %d errors", res.Errors)
	}
	sym, ok := an.SymbolTable().Lookup("greeting")
	if !ok || sym.Type.Kind.String() != "text" {
		t.Fatalf("expected greeting to be text, got %v", sym)
	}
}
