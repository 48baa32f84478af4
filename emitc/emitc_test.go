package emitc

import (
	"strings"
	"testing"

	"github.com/wordlang/wordc/ir"
	"github.com/wordlang/wordc/lexer"
	"github.com/wordlang/wordc/lowering"
	"github.com/wordlang/wordc/optimize"
	"github.com/wordlang/wordc/parser"
	"github.com/wordlang/wordc/semantic"
)

func compile(t *testing.T, src string, level optimize.Level) (string, *ir.Program) {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parser errors: %v", errs)
	}
	res := semantic.New().Analyze(prog)
	if !res.Success {
		t.Fatalf("semantic analysis failed with %d errors", res.Errors)
	}
	irProg := lowering.New().Lower(prog)
	optimize.NewPipeline(level).Run(irProg)
	out, err := Emit(irProg, Options{})
	if err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	return out, irProg
}

func TestEmitArithmeticFoldProducesLoadConstant(t *testing.T) {
	out, irProg := compile(t, `set x to 3 + 4 * 5
display x`, optimize.Level2)

	for _, op := range irProg.TopLevel.Instrs.Slice() {
		if op.Op == ir.OpMul || op.Op == ir.OpAdd {
			t.Fatalf("expected the arithmetic to be fully folded, found %v", op.Op)
		}
	}
	if !strings.Contains(out, "= 23;") {
		t.Fatalf("expected the folded value 23 assigned somewhere, got:\n%s", out)
	}
	if !strings.Contains(out, `printf("%lld\n", x);`) {
		t.Fatalf("expected a %%lld display of x, got:\n%s", out)
	}
}

func TestEmitStringConcatCallsRuntimeHelper(t *testing.T) {
	out, _ := compile(t, `set greeting to "hi " + "there"
display greeting`, optimize.Level1)
	if !strings.Contains(out, "word_str_concat(") {
		t.Fatalf("expected a call to the concat runtime helper, got:\n%s", out)
	}
	if !strings.Contains(out, `printf("%s\n", greeting);`) {
		t.Fatalf("expected a %%s display of greeting, got:\n%s", out)
	}
}

func TestEmitWhileLoopKeepsDisplayInsideLoop(t *testing.T) {
	out, _ := compile(t, `set i to 1
while i < 3:
    display i
    change i to i + 1
end`, optimize.Level2)
	if strings.Count(out, "printf(") != 1 {
		t.Fatalf("expected exactly one printf call site (the loop body), got:\n%s", out)
	}
	if !strings.Contains(out, "goto L") {
		t.Fatal("expected the while loop's back-edge goto to survive optimization")
	}
}

func TestEmitForEachUsesListRuntimeHelpers(t *testing.T) {
	out, _ := compile(t, `for each item in [10, 20, 30]:
    display item
end`, optimize.Level1)
	for _, want := range []string{"word_list_new()", "word_list_append(", "word_list_length(", "word_list_get("} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in generated C, got:\n%s", want, out)
		}
	}
}

func TestEmitFunctionCallHasForwardDeclarationAndCallSite(t *testing.T) {
	out, _ := compile(t, `define add(a, b) returns number:
    give back a + b
end
display add(2, 40)`, optimize.Level2)

	declIdx := strings.Index(out, "long long add(long long a, long long b);")
	defIdx := strings.Index(out, "long long add(long long a, long long b) {")
	if declIdx == -1 {
		t.Fatalf("expected a forward declaration for add, got:\n%s", out)
	}
	if defIdx == -1 || defIdx < declIdx {
		t.Fatalf("expected add's definition to follow its forward declaration, got:\n%s", out)
	}
	if !strings.Contains(out, "add(2, 40)") {
		t.Fatalf("expected the call site to pass arguments in source order, got:\n%s", out)
	}
}

func TestEmitSecureZoneBecomesComments(t *testing.T) {
	out, _ := compile(t, `secure zone:
    set secret to 1
end`, optimize.Level0)
	if !strings.Contains(out, "// secure zone begin") || !strings.Contains(out, "// secure zone end") {
		t.Fatalf("expected secure zone markers as comments, got:\n%s", out)
	}
}

func TestEmitPreambleIncludesMathOnlyWhenPowSurvives(t *testing.T) {
	withPow, _ := compile(t, `define cube(x) returns number:
    give back x ^ 3
end
display cube(2)`, optimize.Level1)
	if !strings.Contains(withPow, "#include <math.h>") {
		t.Fatalf("expected math.h when a non-square pow survives, got:\n%s", withPow)
	}

	withoutPow, _ := compile(t, `display 1 + 2`, optimize.Level1)
	if strings.Contains(withoutPow, "#include <math.h>") {
		t.Fatalf("expected no math.h when no pow survives, got:\n%s", withoutPow)
	}
}

func TestEmitPowOnDecimalOperandDoesNotTruncate(t *testing.T) {
	out, _ := compile(t, `define f(x as decimal) returns decimal:
    give back x ^ 3
end
display f(2.5)`, optimize.Level1)
	if strings.Contains(out, "(long long)pow(") {
		t.Fatalf("expected a decimal-operand pow to stay a double, not truncate to long long, got:\n%s", out)
	}
	if !strings.Contains(out, "= pow((double)") {
		t.Fatalf("expected a plain double-valued pow call, got:\n%s", out)
	}
}

func TestEmitAlwaysIncludesCoreHeaders(t *testing.T) {
	out, _ := compile(t, `display 1`, optimize.Level0)
	for _, want := range []string{"#include <stdio.h>", "#include <stdlib.h>", "#include <string.h>", "#include <stdbool.h>", `#include "word_runtime.h"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in preamble, got:\n%s", want, out)
		}
	}
}

func TestEmitAskDeclaresStaticInputBuffer(t *testing.T) {
	out, _ := compile(t, `set name to "placeholder"
ask "your name: " into name`, optimize.Level0)
	if !strings.Contains(out, "static char word_input_buf[4096];") {
		t.Fatalf("expected the static input buffer when ask is present, got:\n%s", out)
	}
	if !strings.Contains(out, "fgets(word_input_buf") {
		t.Fatalf("expected fgets into the static buffer, got:\n%s", out)
	}
}

func TestEmitBoolDisplayUsesYesNo(t *testing.T) {
	out, _ := compile(t, `set flag to true
display flag`, optimize.Level0)
	if !strings.Contains(out, `? "yes" : "no"`) {
		t.Fatalf("expected a flag display to render yes/no, got:\n%s", out)
	}
}
