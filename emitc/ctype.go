// Package emitc translates an optimized TAC ir.Program into portable C
// source text (spec.md §4.5 "C Emitter"): a type reification pre-pass
// followed by a per-function emission pass.
//
// This mirrors the teacher's code.Instructions decode idiom (code/code.go
// reads a byte stream back into operands by opcode width) in reverse: here
// each TAC Instruction is translated forward into a line of C text, driven
// by the same per-opcode dispatch shape.
package emitc

import "github.com/wordlang/wordc/types"

// cType maps a Word static type to the C type used to hold it.
func cType(t types.Type) string {
	switch t.Kind {
	case types.Number:
		return "long long"
	case types.Decimal:
		return "double"
	case types.Text:
		return "char*"
	case types.Flag:
		return "bool"
	case types.List:
		return "WordList*"
	default:
		// Nothing and Unknown (e.g. a function's return type or an
		// unannotated parameter) fall back to Number rather than emit
		// invalid C.
		return "long long"
	}
}

// zeroValue is the C literal used to initialize a declared temp/variable
// of type t before it is ever assigned (spec.md §4.5: "Text temps
// initialized to NULL, numerics to 0").
func zeroValue(t types.Type) string {
	switch t.Kind {
	case types.Text:
		return "NULL"
	case types.Flag:
		return "false"
	case types.List:
		return "NULL"
	case types.Decimal:
		return "0.0"
	default:
		return "0"
	}
}

// displayFormat picks the printf conversion for displaying a value of
// type t; Flag values are printed as the literal yes/no (handled by the
// caller, not by a conversion specifier).
func displayFormat(t types.Type) string {
	switch t.Kind {
	case types.Decimal:
		return "%g"
	case types.Text:
		return "%s"
	default:
		return "%lld"
	}
}
