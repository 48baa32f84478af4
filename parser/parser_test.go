package parser

import (
	"testing"

	"github.com/wordlang/wordc/ast"
	"github.com/wordlang/wordc/lexer"
	"github.com/wordlang/wordc/types"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.New(input))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parser errors for %q: %v", input, errs)
	}
	return program
}

func TestParseVariableDecl(t *testing.T) {
	program := parseProgram(t, `set x to 3 + 4`)
	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Statements))
	}
	decl, ok := program.Statements[0].(*ast.VariableDecl)
	if !ok {
		t.Fatalf("expected *ast.VariableDecl, got %T", program.Statements[0])
	}
	if decl.Name != "x" || decl.IsConst {
		t.Fatalf("expected non-const declaration of x, got %+v", decl)
	}
	bin, ok := decl.Initializer.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("expected initializer to be a binary expression, got %T", decl.Initializer)
	}
	if bin.Operator != types.Add {
		t.Fatalf("expected Add operator, got %v", bin.Operator)
	}
}

func TestParseConstantDecl(t *testing.T) {
	program := parseProgram(t, `make constant pi be 3.14159`)
	decl, ok := program.Statements[0].(*ast.VariableDecl)
	if !ok || !decl.IsConst || decl.Name != "pi" {
		t.Fatalf("expected a constant decl of pi, got %+v", program.Statements[0])
	}
}

func TestParseFunctionDeclWithAnnotatedParams(t *testing.T) {
	program := parseProgram(t, `define add(a as number, b as number) returns number:
    give back a + b
end`)
	fn, ok := program.Statements[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("expected *ast.FunctionDecl, got %T", program.Statements[0])
	}
	if fn.Name != "add" || len(fn.Parameters) != 2 {
		t.Fatalf("expected add/2, got %+v", fn)
	}
	for _, p := range fn.Parameters {
		if p.Type.Kind != types.Number {
			t.Fatalf("expected annotated param type Number, got %v", p.Type.Kind)
		}
	}
	if fn.ReturnType.Kind != types.Number {
		t.Fatalf("expected return type Number, got %v", fn.ReturnType.Kind)
	}
	if len(fn.Body.Statements) != 1 {
		t.Fatalf("expected one statement in body, got %d", len(fn.Body.Statements))
	}
}

func TestParseFunctionDeclUnannotatedParamIsUnknown(t *testing.T) {
	program := parseProgram(t, `define identity(x) returns number:
    give back x
end`)
	fn := program.Statements[0].(*ast.FunctionDecl)
	if fn.Parameters[0].Type.Kind != types.Unknown {
		t.Fatalf("expected unannotated parameter to be Unknown, got %v", fn.Parameters[0].Type.Kind)
	}
}

func TestParseIfElse(t *testing.T) {
	program := parseProgram(t, `if x > 10:
    display "big"
else:
    display "small"
end`)
	stmt, ok := program.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected *ast.IfStatement, got %T", program.Statements[0])
	}
	if stmt.Alternative == nil {
		t.Fatal("expected an else block")
	}
	if len(stmt.Consequence.Statements) != 1 || len(stmt.Alternative.Statements) != 1 {
		t.Fatalf("expected one statement in each branch, got %+v", stmt)
	}
}

func TestParseWhileLoop(t *testing.T) {
	program := parseProgram(t, `while i < 3:
    display i
    change i to i + 1
end`)
	stmt, ok := program.Statements[0].(*ast.WhileStatement)
	if !ok {
		t.Fatalf("expected *ast.WhileStatement, got %T", program.Statements[0])
	}
	if len(stmt.Body.Statements) != 2 {
		t.Fatalf("expected 2 statements in while body, got %d", len(stmt.Body.Statements))
	}
	if _, ok := stmt.Body.Statements[1].(*ast.AssignStatement); !ok {
		t.Fatalf("expected the second statement to be an assignment, got %T", stmt.Body.Statements[1])
	}
}

func TestParseRepeatLoop(t *testing.T) {
	program := parseProgram(t, `repeat 5 times:
    display "hi"
end`)
	stmt, ok := program.Statements[0].(*ast.RepeatStatement)
	if !ok {
		t.Fatalf("expected *ast.RepeatStatement, got %T", program.Statements[0])
	}
	count, ok := stmt.Count.(*ast.IntegerLiteral)
	if !ok || count.Value != 5 {
		t.Fatalf("expected repeat count literal 5, got %+v", stmt.Count)
	}
}

func TestParseForEachOverListLiteral(t *testing.T) {
	program := parseProgram(t, `for each item in [10, 20, 30]:
    display item
end`)
	stmt, ok := program.Statements[0].(*ast.ForEachStatement)
	if !ok {
		t.Fatalf("expected *ast.ForEachStatement, got %T", program.Statements[0])
	}
	if stmt.IteratorName != "item" {
		t.Fatalf("expected iterator name item, got %q", stmt.IteratorName)
	}
	list, ok := stmt.Iterable.(*ast.ListLiteral)
	if !ok || len(list.Elements) != 3 {
		t.Fatalf("expected a 3-element list literal, got %+v", stmt.Iterable)
	}
}

func TestParseAskAndReadStatements(t *testing.T) {
	program := parseProgram(t, `set name to "placeholder"
ask "your name: " into name
read into line`)
	ask, ok := program.Statements[1].(*ast.AskStatement)
	if !ok || ask.Target.Name != "name" {
		t.Fatalf("expected ask...into name, got %+v", program.Statements[1])
	}
	read, ok := program.Statements[2].(*ast.ReadStatement)
	if !ok || read.Target.Name != "line" {
		t.Fatalf("expected read into line, got %+v", program.Statements[2])
	}
}

func TestParseSecureZone(t *testing.T) {
	program := parseProgram(t, `secure zone:
    set secret to 0
    ask "password: " into secret
end`)
	zone, ok := program.Statements[0].(*ast.SecureZoneStatement)
	if !ok {
		t.Fatalf("expected *ast.SecureZoneStatement, got %T", program.Statements[0])
	}
	if len(zone.Body.Statements) != 2 {
		t.Fatalf("expected 2 statements in the secure zone, got %d", len(zone.Body.Statements))
	}
}

func TestParseCallExpression(t *testing.T) {
	program := parseProgram(t, `display add(2, 40)`)
	disp, ok := program.Statements[0].(*ast.DisplayStatement)
	if !ok {
		t.Fatalf("expected *ast.DisplayStatement, got %T", program.Statements[0])
	}
	call, ok := disp.Value.(*ast.CallExpression)
	if !ok || call.Function != "add" || len(call.Arguments) != 2 {
		t.Fatalf("expected add(2, 40), got %+v", disp.Value)
	}
}

func TestParseBetweenExpression(t *testing.T) {
	program := parseProgram(t, `display between(x, 0, 100)`)
	disp := program.Statements[0].(*ast.DisplayStatement)
	if _, ok := disp.Value.(*ast.TernaryBetween); !ok {
		t.Fatalf("expected *ast.TernaryBetween, got %T", disp.Value)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		wantRoot types.Operator
	}{
		{`display 1 + 2 * 3`, types.Add},
		{`display (1 + 2) * 3`, types.Mul},
		{`display 1 < 2 and 3 > 4`, types.And},
		{`display 2 ^ 3 ^ 2`, types.Pow},
	}
	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		disp := program.Statements[0].(*ast.DisplayStatement)
		bin, ok := disp.Value.(*ast.BinaryExpression)
		if !ok {
			t.Fatalf("%s: expected a binary expression at the root, got %T", tt.input, disp.Value)
		}
		if bin.Operator != tt.wantRoot {
			t.Fatalf("%s: expected root operator %v, got %v", tt.input, tt.wantRoot, bin.Operator)
		}
	}
}

func TestParseIndexAssignment(t *testing.T) {
	program := parseProgram(t, `change items at 0 to 99`)
	assign, ok := program.Statements[0].(*ast.AssignStatement)
	if !ok {
		t.Fatalf("expected *ast.AssignStatement, got %T", program.Statements[0])
	}
	if _, ok := assign.Target.(*ast.IndexExpression); !ok {
		t.Fatalf("expected an index expression target, got %T", assign.Target)
	}
}

func TestParseErrorOnMissingEnd(t *testing.T) {
	p := New(lexer.New(`if x > 1:
    display x`))
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatal("expected a parse error for a missing `end`")
	}
}
