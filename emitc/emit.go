package emitc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wordlang/wordc/ir"
	"github.com/wordlang/wordc/types"
)

// listLengthHelper names the pseudo-function the lowerer emits as a
// param/call pair for a for-each loop's length fetch; the emitter
// recognizes the name here and rewrites it to the runtime's direct
// length accessor rather than emitting a call to a function that was
// never declared (spec.md §9 "__list_length pseudo-function").
const listLengthHelper = "__list_length"

// Options configures one Emit invocation.
type Options struct {
	Comments bool   // emit a build-id comment in the output; no per-pass annotations are emitted
	BuildID  string // stamped into the preamble when Comments is set
}

// Emit lowers an optimized TAC program into C11 source text implementing
// spec.md §4.5's two-subpass strategy: reification, then emission.
func Emit(prog *ir.Program, opts Options) (string, error) {
	funcReturns := functionReturnTypes(prog)
	tables := make(map[*ir.Function]*typeTable, len(prog.Functions)+1)
	for _, fn := range prog.AllFunctions() {
		tables[fn] = reify(fn, funcReturns)
	}

	var b strings.Builder
	emitPreamble(&b, prog, opts)

	for _, fn := range prog.Functions {
		fmt.Fprintf(&b, "%s;\n", signature(fn))
	}
	if len(prog.Functions) > 0 {
		b.WriteString("\n")
	}

	for _, fn := range prog.Functions {
		if err := emitFunction(&b, fn, tables[fn]); err != nil {
			return "", err
		}
		b.WriteString("\n")
	}

	if err := emitMain(&b, prog.TopLevel, tables[prog.TopLevel]); err != nil {
		return "", err
	}
	return b.String(), nil
}

func emitPreamble(b *strings.Builder, prog *ir.Program, opts Options) {
	if opts.Comments && opts.BuildID != "" {
		fmt.Fprintf(b, "// build %s\n", opts.BuildID)
	}
	b.WriteString("#include <stdio.h>\n")
	b.WriteString("#include <stdlib.h>\n")
	b.WriteString("#include <string.h>\n")
	b.WriteString("#include <stdbool.h>\n")
	if usesOpcode(prog, ir.OpPow) {
		b.WriteString("#include <math.h>\n")
	}
	b.WriteString("#include \"word_runtime.h\"\n")
	if usesOpcode(prog, ir.OpAsk) || usesOpcode(prog, ir.OpRead) {
		b.WriteString("\nstatic char word_input_buf[4096];\n")
	}
	b.WriteString("\n")
}

func usesOpcode(prog *ir.Program, want ir.Opcode) bool {
	for _, fn := range prog.AllFunctions() {
		for i := fn.Instrs.Head(); i != nil; i = i.Next() {
			if i.Op == want {
				return true
			}
		}
	}
	return false
}

func signature(fn *ir.Function) string {
	params := make([]string, len(fn.ParamNames))
	for i, name := range fn.ParamNames {
		params[i] = fmt.Sprintf("%s %s", cType(fn.ParamTypes[i]), cIdent(name))
	}
	paramList := "void"
	if len(params) > 0 {
		paramList = strings.Join(params, ", ")
	}
	return fmt.Sprintf("%s %s(%s)", cType(fn.ReturnType), cIdent(fn.Name), paramList)
}

func emitFunction(b *strings.Builder, fn *ir.Function, tt *typeTable) error {
	fmt.Fprintf(b, "%s {\n", signature(fn))
	declareTemps(b, fn, tt)
	if err := emitBody(b, fn, tt); err != nil {
		return err
	}
	b.WriteString("}\n")
	return nil
}

func emitMain(b *strings.Builder, top *ir.Function, tt *typeTable) error {
	b.WriteString("int main(void) {\n")
	declareTemps(b, top, tt)
	if err := emitBody(b, top, tt); err != nil {
		return err
	}
	b.WriteString("    return 0;\n")
	b.WriteString("}\n")
	return nil
}

// declareTemps emits one declaration per distinct temp referenced in fn,
// in ascending id order, zero-initialized per its reified type.
func declareTemps(b *strings.Builder, fn *ir.Function, tt *typeTable) {
	ids := make(map[int]bool)
	for i := fn.Instrs.Head(); i != nil; i = i.Next() {
		for _, op := range [...]ir.Operand{i.Result, i.Arg1, i.Arg2, i.Arg3} {
			if op.Kind == ir.OperandTemp {
				ids[op.TempID] = true
			}
		}
	}
	sorted := make([]int, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Ints(sorted)
	for _, id := range sorted {
		t := tt.temps[id]
		fmt.Fprintf(b, "    %s t%d = %s;\n", cType(t), id, zeroValue(t))
	}
}

type emitCtx struct {
	indent int
}

func (ctx *emitCtx) writeRaw(b *strings.Builder, line string) {
	b.WriteString(strings.Repeat("    ", ctx.indent))
	b.WriteString(line)
	b.WriteString("\n")
}

func (ctx *emitCtx) write(b *strings.Builder, format string, args ...any) {
	ctx.writeRaw(b, fmt.Sprintf(format, args...))
}

// emitBody translates fn's instructions (skipping the func_begin/func_end
// brackets, which are structural only) into C statements.
func emitBody(b *strings.Builder, fn *ir.Function, tt *typeTable) error {
	ctx := &emitCtx{indent: 1}
	var pendingParams []ir.Operand

	start := fn.Instrs.Head()
	stop := fn.Instrs.Tail()
	if start != nil && start.Op == ir.OpFuncBegin {
		start = start.Next()
	}
	if stop != nil && stop.Op == ir.OpFuncEnd {
		stop = stop.Prev()
	}

	for i := start; i != nil; i = i.Next() {
		translate(ctx, b, i, tt, &pendingParams)
		if i == stop {
			break
		}
	}
	return nil
}

func translate(ctx *emitCtx, b *strings.Builder, i *ir.Instruction, tt *typeTable, pendingParams *[]ir.Operand) {
	switch i.Op {
	case ir.OpFuncBegin, ir.OpFuncEnd, ir.OpNop, ir.OpBreak, ir.OpContinue:
		// structural markers / already lowered to goto: no output

	case ir.OpParam:
		*pendingParams = append(*pendingParams, i.Arg1)

	case ir.OpLabel:
		fmt.Fprintf(b, "L%d:;\n", i.Result.IntVal)

	case ir.OpGoto:
		ctx.write(b, "goto L%d;", i.Arg1.IntVal)
	case ir.OpIfGoto:
		ctx.write(b, "if (%s) goto L%d;", renderOperand(i.Arg1), i.Arg2.IntVal)
	case ir.OpIfFalseGoto:
		ctx.write(b, "if (!(%s)) goto L%d;", renderOperand(i.Arg1), i.Arg2.IntVal)

	case ir.OpScopeBegin:
		ctx.write(b, "{")
		ctx.indent++
	case ir.OpScopeEnd:
		ctx.indent--
		ctx.write(b, "}")

	case ir.OpSecureBegin:
		ctx.write(b, "// secure zone begin")
	case ir.OpSecureEnd:
		ctx.write(b, "// secure zone end")

	case ir.OpDecl:
		t := tt.vars[i.Result.Name]
		ctx.write(b, "%s %s = %s;", cType(t), cIdent(i.Result.Name), zeroValue(t))

	case ir.OpAssign, ir.OpLoadInt, ir.OpLoadFloat, ir.OpLoadString, ir.OpLoadBool:
		ctx.write(b, "%s = %s;", renderOperand(i.Result), renderOperand(i.Arg1))

	case ir.OpNeg:
		ctx.write(b, "%s = -%s;", renderOperand(i.Result), renderOperand(i.Arg1))
	case ir.OpNot:
		ctx.write(b, "%s = !%s;", renderOperand(i.Result), renderOperand(i.Arg1))

	case ir.OpPow:
		if tt.typeOf(i.Result).Kind == types.Number {
			ctx.write(b, "%s = (long long)pow((double)%s, (double)%s);",
				renderOperand(i.Result), renderOperand(i.Arg1), renderOperand(i.Arg2))
		} else {
			ctx.write(b, "%s = pow((double)%s, (double)%s);",
				renderOperand(i.Result), renderOperand(i.Arg1), renderOperand(i.Arg2))
		}

	case ir.OpConcat:
		ctx.write(b, "%s = word_str_concat(%s, %s);",
			renderOperand(i.Result), renderOperand(i.Arg1), renderOperand(i.Arg2))

	case ir.OpBetween:
		ctx.write(b, "%s = ((%s >= %s) && (%s <= %s));",
			renderOperand(i.Result), renderOperand(i.Arg1), renderOperand(i.Arg2),
			renderOperand(i.Arg1), renderOperand(i.Arg3))

	case ir.OpDisplay:
		emitDisplay(ctx, b, i, tt)
	case ir.OpAsk:
		emitAsk(ctx, b, i)
	case ir.OpRead:
		emitRead(ctx, b, i)

	case ir.OpCall:
		emitCall(ctx, b, i, *pendingParams, tt)
		*pendingParams = nil

	case ir.OpReturn:
		if i.Arg1.Kind == ir.OperandNone {
			ctx.write(b, "return;")
		} else {
			ctx.write(b, "return %s;", renderOperand(i.Arg1))
		}

	case ir.OpListCreate:
		ctx.write(b, "%s = word_list_new();", renderOperand(i.Result))
	case ir.OpListAppend:
		ctx.write(b, "word_list_append(%s, (long long)(%s));", renderOperand(i.Arg1), renderOperand(i.Arg2))
	case ir.OpListGet:
		ctx.write(b, "%s = word_list_get(%s, %s);", renderOperand(i.Result), renderOperand(i.Arg1), renderOperand(i.Arg2))
	case ir.OpListSet:
		ctx.write(b, "word_list_set(%s, %s, (long long)(%s));", renderOperand(i.Arg1), renderOperand(i.Arg2), renderOperand(i.Arg3))

	default:
		if op, ok := binaryCOp[i.Op]; ok {
			ctx.write(b, "%s = (%s %s %s);", renderOperand(i.Result), renderOperand(i.Arg1), op, renderOperand(i.Arg2))
		}
	}
}

var binaryCOp = map[ir.Opcode]string{
	ir.OpAdd: "+", ir.OpSub: "-", ir.OpMul: "*", ir.OpDiv: "/", ir.OpMod: "%",
	ir.OpEq: "==", ir.OpNeq: "!=", ir.OpLt: "<", ir.OpGt: ">", ir.OpLte: "<=", ir.OpGte: ">=",
	ir.OpAnd: "&&", ir.OpOr: "||",
}

func emitDisplay(ctx *emitCtx, b *strings.Builder, i *ir.Instruction, tt *typeTable) {
	t := tt.typeOf(i.Arg1)
	if t.Kind == types.Flag {
		ctx.write(b, `printf("%s\n", (%s) ? "yes" : "no");`, "%s", renderOperand(i.Arg1))
		return
	}
	ctx.write(b, `printf("%s\n", %s);`, displayFormat(t), renderOperand(i.Arg1))
}

func emitAsk(ctx *emitCtx, b *strings.Builder, i *ir.Instruction) {
	ctx.write(b, `printf("%s", %s);`, "%s", renderOperand(i.Arg1))
	emitReadLine(ctx, b, i.Result)
}

func emitRead(ctx *emitCtx, b *strings.Builder, i *ir.Instruction) {
	emitReadLine(ctx, b, i.Result)
}

func emitReadLine(ctx *emitCtx, b *strings.Builder, dest ir.Operand) {
	ctx.write(b, "fgets(word_input_buf, sizeof(word_input_buf), stdin);")
	ctx.write(b, `word_input_buf[strcspn(word_input_buf, "\n")] = '\0';`)
	ctx.write(b, "%s = strdup(word_input_buf);", renderOperand(dest))
}

func emitCall(ctx *emitCtx, b *strings.Builder, i *ir.Instruction, params []ir.Operand, tt *typeTable) {
	n := int(i.Arg2.IntVal)
	if n > len(params) {
		n = len(params)
	}
	args := params[len(params)-n:]
	argStrs := make([]string, len(args))
	for idx, a := range args {
		argStrs[idx] = renderOperand(a)
	}

	callee := i.Arg1.Name
	if callee == listLengthHelper {
		ctx.write(b, "%s = word_list_length(%s);", renderOperand(i.Result), strings.Join(argStrs, ", "))
		return
	}

	call := fmt.Sprintf("%s(%s)", cIdent(callee), strings.Join(argStrs, ", "))
	if i.Result.Kind == ir.OperandNone {
		ctx.write(b, "%s;", call)
		return
	}
	ctx.write(b, "%s = %s;", renderOperand(i.Result), call)
}

// renderOperand produces the C expression text for one operand. Unlike
// typeTable.typeOf this needs no type context: a Var/Temp becomes its C
// name, every literal becomes its C spelling.
func renderOperand(op ir.Operand) string {
	switch op.Kind {
	case ir.OperandTemp:
		return fmt.Sprintf("t%d", op.TempID)
	case ir.OperandVar:
		return cIdent(op.Name)
	case ir.OperandInt:
		return fmt.Sprintf("%d", op.IntVal)
	case ir.OperandFloat:
		return fmt.Sprintf("%g", op.FltVal)
	case ir.OperandString:
		return fmt.Sprintf(`"%s"`, escapeString(op.Str))
	case ir.OperandBool:
		if op.Bool {
			return "true"
		}
		return "false"
	case ir.OperandFunc:
		return cIdent(op.Name)
	default:
		return ""
	}
}

// cIdent replaces the spaces legal in a source identifier with underscores
// so it is a valid C identifier.
func cIdent(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

// escapeString escapes the characters spec.md §4.5 requires for a string
// operand emitted as a C string literal body.
func escapeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
