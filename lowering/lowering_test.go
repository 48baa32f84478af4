package lowering

import (
	"testing"

	"github.com/wordlang/wordc/ir"
	"github.com/wordlang/wordc/lexer"
	"github.com/wordlang/wordc/parser"
	"github.com/wordlang/wordc/semantic"
)

func lowerSource(t *testing.T, src string) *ir.Program {
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
	return New().Lower(prog)
}

func opcodes(fn *ir.Function) []ir.Opcode {
	var ops []ir.Opcode
	for i := fn.Instrs.Head(); i != nil; i = i.Next() {
		ops = append(ops, i.Op)
	}
	return ops
}

func containsOp(ops []ir.Opcode, want ir.Opcode) bool {
	for _, op := range ops {
		if op == want {
			return true
		}
	}
	return false
}

func countOp(ops []ir.Opcode, want ir.Opcode) int {
	n := 0
	for _, op := range ops {
		if op == want {
			n++
		}
	}
	return n
}

func TestLowerArithmeticExpression(t *testing.T) {
	p := lowerSource(t, `set x to 3 + 4 * 5
display x`)
	ops := opcodes(p.TopLevel)
	if !containsOp(ops, ir.OpAdd) || !containsOp(ops, ir.OpMul) {
		t.Fatalf("expected add and mul opcodes, got %v", ops)
	}
	if !containsOp(ops, ir.OpDisplay) {
		t.Fatal("expected a display instruction")
	}
}

func TestLowerStringConcatUsesConcatOpcode(t *testing.T) {
	p := lowerSource(t, `set greeting to "hi " + "there"
display greeting`)
	ops := opcodes(p.TopLevel)
	if !containsOp(ops, ir.OpConcat) {
		t.Fatalf("expected concat opcode for text +, got %v", ops)
	}
	if containsOp(ops, ir.OpAdd) {
		t.Fatal("text concatenation must not lower to add")
	}
}

func TestLowerIfWithoutElse(t *testing.T) {
	p := lowerSource(t, `set x to 1
if x = 1:
    display x
end`)
	ops := opcodes(p.TopLevel)
	if !containsOp(ops, ir.OpIfFalseGoto) {
		t.Fatalf("expected if_false_goto, got %v", ops)
	}
	if countOp(ops, ir.OpLabel) != 1 {
		t.Fatalf("expected exactly one label for if-without-else, got %v", ops)
	}
}

func TestLowerIfWithElse(t *testing.T) {
	p := lowerSource(t, `set x to 1
if x = 1:
    display x
else:
    display 0
end`)
	ops := opcodes(p.TopLevel)
	if countOp(ops, ir.OpLabel) != 2 {
		t.Fatalf("expected two labels (else, end), got %v", ops)
	}
	if countOp(ops, ir.OpGoto) != 1 {
		t.Fatalf("expected one unconditional goto past the else branch, got %v", ops)
	}
}

func TestLowerWhileLoopStructure(t *testing.T) {
	p := lowerSource(t, `set i to 0
while i < 3:
    display i
    change i to i + 1
end`)
	ops := opcodes(p.TopLevel)
	if countOp(ops, ir.OpLabel) != 2 {
		t.Fatalf("expected start/end labels, got %v", ops)
	}
	if countOp(ops, ir.OpGoto) != 1 {
		t.Fatalf("expected exactly one back-edge goto, got %v", ops)
	}
}

func TestLowerForEachEmitsListLengthCall(t *testing.T) {
	p := lowerSource(t, `for each item in [10, 20, 30]:
    display item
end`)
	ops := opcodes(p.TopLevel)
	if countOp(ops, ir.OpListCreate) != 1 || countOp(ops, ir.OpListAppend) != 3 {
		t.Fatalf("expected one list_create and three list_appends, got %v", ops)
	}
	if countOp(ops, ir.OpCall) != 1 {
		t.Fatalf("expected one call (to __list_length), got %v", ops)
	}
	if countOp(ops, ir.OpListGet) != 1 {
		t.Fatalf("expected one list_get for the iterator fetch, got %v", ops)
	}
}

func TestLowerRepeatStatement(t *testing.T) {
	p := lowerSource(t, `repeat 3 times:
    display 1
end`)
	ops := opcodes(p.TopLevel)
	if !containsOp(ops, ir.OpLt) {
		t.Fatalf("expected a less-than guard for the repeat loop, got %v", ops)
	}
}

func TestLowerFunctionDeclCreatesSeparateFunction(t *testing.T) {
	p := lowerSource(t, `define add(a, b) returns number:
    give back a + b
end
display add(2, 40)`)
	if len(p.Functions) != 1 || p.Functions[0].Name != "add" {
		t.Fatalf("expected exactly one user function named add, got %v", p.Functions)
	}
	fnOps := opcodes(p.Functions[0])
	if fnOps[0] != ir.OpFuncBegin || fnOps[len(fnOps)-1] != ir.OpFuncEnd {
		t.Fatalf("expected func_begin...func_end bracketing, got %v", fnOps)
	}
	if !containsOp(fnOps, ir.OpReturn) {
		t.Fatal("expected a return instruction in add's body")
	}

	topOps := opcodes(p.TopLevel)
	if countOp(topOps, ir.OpParam) != 2 {
		t.Fatalf("expected two param instructions at the call site, got %v", topOps)
	}
	if !containsOp(topOps, ir.OpCall) {
		t.Fatal("expected a call instruction at the top level")
	}
}

func TestLowerBreakAndContinueEmitGotos(t *testing.T) {
	p := lowerSource(t, `while true:
    stop
    skip
end`)
	ops := opcodes(p.TopLevel)
	if countOp(ops, ir.OpGoto) != 3 { // break, continue, back-edge
		t.Fatalf("expected three gotos (break, continue, back-edge), got %v", ops)
	}
}

func TestLowerSecureZoneBracketing(t *testing.T) {
	p := lowerSource(t, `secure zone:
    set secret to 1
end`)
	ops := opcodes(p.TopLevel)
	if ops[0] != ir.OpSecureBegin {
		t.Fatalf("expected secure_begin first, got %v", ops)
	}
	if !containsOp(ops, ir.OpSecureEnd) {
		t.Fatal("expected a matching secure_end")
	}
}

func TestNewTempsAreNeverReused(t *testing.T) {
	p := lowerSource(t, `set a to 1 + 2
set b to 3 + 4`)
	seen := make(map[int]bool)
	for i := p.TopLevel.Instrs.Head(); i != nil; i = i.Next() {
		if i.Result.Kind == ir.OperandTemp {
			if seen[i.Result.TempID] {
				t.Fatalf("temp t%d produced more than once", i.Result.TempID)
			}
			seen[i.Result.TempID] = true
		}
	}
}
