// Package ir defines Word's three-address-code (TAC) intermediate
// representation: the Operand tagged union, the doubly linked Instruction
// list, and the Function/Program containers (spec.md §3 "TAC IR").
//
// This is a compile-time analog of the teacher's code.Instructions byte
// stream (code/code.go): instead of a flat byte buffer decoded by opcode
// width tables, each TAC Instruction is a small fixed-shape struct linked
// into its neighbors, so the optimizer's dead-code sweep can unlink a dead
// instruction in O(1) without rebuilding an encoded buffer.
package ir

import (
	"fmt"

	"github.com/wordlang/wordc/types"
)

// OperandKind tags the variant carried by an Operand.
type OperandKind int

//nolint:revive
const (
	OperandNone OperandKind = iota
	OperandTemp
	OperandVar
	OperandInt
	OperandFloat
	OperandString
	OperandBool
	OperandLabel
	OperandFunc
)

// Operand is a tagged union over a TAC instruction's result/argument slots.
// Only the field matching Kind is meaningful.
type Operand struct {
	Kind OperandKind

	TempID int    // OperandTemp
	Name   string // OperandVar, OperandFunc: owned name string
	IntVal int64  // OperandInt, OperandLabel (label id)
	FltVal float64
	Str    string // OperandString: owned text
	Bool   bool
}

// None is the empty operand, used for unused result/argument slots.
var None = Operand{Kind: OperandNone}

// Temp builds a temporary-register operand.
func Temp(id int) Operand { return Operand{Kind: OperandTemp, TempID: id} }

// Var builds a named-variable operand.
func Var(name string) Operand { return Operand{Kind: OperandVar, Name: name} }

// Int builds an integer-literal operand.
func Int(v int64) Operand { return Operand{Kind: OperandInt, IntVal: v} }

// Float builds a floating-point-literal operand.
func Float(v float64) Operand { return Operand{Kind: OperandFloat, FltVal: v} }

// Str builds a string-literal operand.
func Str(s string) Operand { return Operand{Kind: OperandString, Str: s} }

// Bool builds a boolean-literal operand.
func Bool(b bool) Operand { return Operand{Kind: OperandBool, Bool: b} }

// Label builds a label-reference operand.
func Label(id int) Operand { return Operand{Kind: OperandLabel, IntVal: int64(id)} }

// Func builds a function-name operand.
func Func(name string) Operand { return Operand{Kind: OperandFunc, Name: name} }

// IsConst reports whether the operand is an Int, Float, or Bool literal.
func (o Operand) IsConst() bool {
	return o.Kind == OperandInt || o.Kind == OperandFloat || o.Kind == OperandBool
}

// Equal reports whether two operands denote the same value.
func (o Operand) Equal(other Operand) bool {
	if o.Kind != other.Kind {
		return false
	}
	switch o.Kind {
	case OperandTemp:
		return o.TempID == other.TempID
	case OperandVar, OperandFunc:
		return o.Name == other.Name
	case OperandInt, OperandLabel:
		return o.IntVal == other.IntVal
	case OperandFloat:
		return o.FltVal == other.FltVal
	case OperandString:
		return o.Str == other.Str
	case OperandBool:
		return o.Bool == other.Bool
	default:
		return true // both None
	}
}

func (o Operand) String() string {
	switch o.Kind {
	case OperandNone:
		return "-"
	case OperandTemp:
		return fmt.Sprintf("t%d", o.TempID)
	case OperandVar:
		return o.Name
	case OperandInt:
		return fmt.Sprintf("%d", o.IntVal)
	case OperandFloat:
		return fmt.Sprintf("%g", o.FltVal)
	case OperandString:
		return fmt.Sprintf("%q", o.Str)
	case OperandBool:
		return fmt.Sprintf("%t", o.Bool)
	case OperandLabel:
		return fmt.Sprintf("L%d", o.IntVal)
	case OperandFunc:
		return o.Name + "()"
	default:
		return "?"
	}
}

// Opcode is the closed set of TAC operations.
type Opcode int

//nolint:revive
const (
	OpNop Opcode = iota

	// binary arithmetic
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow

	// unary
	OpNeg

	// comparison
	OpEq
	OpNeq
	OpLt
	OpGt
	OpLte
	OpGte

	// logical
	OpAnd
	OpOr
	OpNot

	// data movement
	OpAssign
	OpLoadInt
	OpLoadFloat
	OpLoadString
	OpLoadBool

	// control flow
	OpLabel
	OpGoto
	OpIfGoto
	OpIfFalseGoto

	// function machinery
	OpFuncBegin
	OpFuncEnd
	OpParam
	OpCall
	OpReturn

	// I/O
	OpDisplay
	OpRead
	OpAsk

	// declaration
	OpDecl

	// ternary
	OpBetween

	// string
	OpConcat

	// scope / secure-zone markers
	OpScopeBegin
	OpScopeEnd
	OpSecureBegin
	OpSecureEnd

	// list ops
	OpListCreate
	OpListAppend
	OpListGet
	OpListSet

	// loop control (lowered to goto before reaching the optimizer, kept
	// for completeness of the opcode enumeration per spec.md §3)
	OpBreak
	OpContinue
)

var opcodeNames = map[Opcode]string{
	OpNop: "nop", OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div",
	OpMod: "mod", OpPow: "pow", OpNeg: "neg", OpEq: "eq", OpNeq: "neq",
	OpLt: "lt", OpGt: "gt", OpLte: "lte", OpGte: "gte", OpAnd: "and",
	OpOr: "or", OpNot: "not", OpAssign: "assign", OpLoadInt: "load_int",
	OpLoadFloat: "load_float", OpLoadString: "load_string", OpLoadBool: "load_bool",
	OpLabel: "label", OpGoto: "goto", OpIfGoto: "if_goto", OpIfFalseGoto: "if_false_goto",
	OpFuncBegin: "func_begin", OpFuncEnd: "func_end", OpParam: "param",
	OpCall: "call", OpReturn: "return", OpDisplay: "display", OpRead: "read",
	OpAsk: "ask", OpDecl: "decl", OpBetween: "between", OpConcat: "concat",
	OpScopeBegin: "scope_begin", OpScopeEnd: "scope_end",
	OpSecureBegin: "secure_begin", OpSecureEnd: "secure_end",
	OpListCreate: "list_create", OpListAppend: "list_append",
	OpListGet: "list_get", OpListSet: "list_set",
	OpBreak: "break", OpContinue: "continue",
}

func (op Opcode) String() string {
	if n, ok := opcodeNames[op]; ok {
		return n
	}
	return "?"
}

// SideEffecting reports whether op must never be removed by dead code
// elimination, regardless of whether its result is used (spec.md §4.4).
func (op Opcode) SideEffecting() bool {
	switch op {
	case OpDisplay, OpRead, OpAsk, OpCall, OpParam, OpReturn, OpGoto, OpIfGoto,
		OpIfFalseGoto, OpLabel, OpFuncBegin, OpFuncEnd, OpScopeBegin, OpScopeEnd,
		OpSecureBegin, OpSecureEnd, OpDecl, OpBreak, OpContinue, OpListAppend, OpListSet:
		return true
	default:
		return false
	}
}

// Instruction is one TAC instruction, linked into its function's doubly
// linked instruction list.
type Instruction struct {
	Op     Opcode
	Result Operand
	Arg1   Operand
	Arg2   Operand
	Arg3   Operand
	Line   int
	IsDead bool

	prev, next *Instruction
}

// Next returns the following instruction, or nil at the list's tail.
func (i *Instruction) Next() *Instruction { return i.next }

// Prev returns the preceding instruction, or nil at the list's head.
func (i *Instruction) Prev() *Instruction { return i.prev }

func (i *Instruction) String() string {
	return fmt.Sprintf("%-14s %-8s %-8s %-8s %-8s", i.Op, i.Result, i.Arg1, i.Arg2, i.Arg3)
}

// InstructionList is a doubly linked list of Instructions supporting O(1)
// append and O(1) unlink — needed by the DCE sweep pass (spec.md §5).
type InstructionList struct {
	head, tail *Instruction
	length     int
}

// Append adds inst at the tail of the list.
func (l *InstructionList) Append(inst *Instruction) {
	inst.prev = l.tail
	inst.next = nil
	if l.tail != nil {
		l.tail.next = inst
	} else {
		l.head = inst
	}
	l.tail = inst
	l.length++
}

// Unlink removes inst from the list in O(1).
func (l *InstructionList) Unlink(inst *Instruction) {
	if inst.prev != nil {
		inst.prev.next = inst.next
	} else {
		l.head = inst.next
	}
	if inst.next != nil {
		inst.next.prev = inst.prev
	} else {
		l.tail = inst.prev
	}
	inst.prev, inst.next = nil, nil
	l.length--
}

// Head returns the first instruction, or nil if the list is empty.
func (l *InstructionList) Head() *Instruction { return l.head }

// Tail returns the last instruction, or nil if the list is empty.
func (l *InstructionList) Tail() *Instruction { return l.tail }

// Len returns the number of instructions currently in the list.
func (l *InstructionList) Len() int { return l.length }

// Slice materializes the list into a slice, in order, for callers that
// find it easier to index than to walk pointers.
func (l *InstructionList) Slice() []*Instruction {
	out := make([]*Instruction, 0, l.length)
	for i := l.head; i != nil; i = i.next {
		out = append(out, i)
	}
	return out
}

// Function is one TAC function: a name (empty for the implicit top-level
// function), a return type marker, parallel parameter name/type arrays,
// and its instruction list.
type Function struct {
	Name       string
	ReturnType types.Type
	ParamNames []string
	ParamTypes []types.Type
	Instrs     InstructionList
}

// Program owns the implicit top-level function plus every user-defined
// function, and the program-wide monotonic temp/label counters.
type Program struct {
	TopLevel  *Function
	Functions []*Function

	nextTemp  int
	nextLabel int
}

// NewProgram creates an empty Program with an (unnamed) top-level function.
func NewProgram() *Program {
	return &Program{TopLevel: &Function{Name: ""}}
}

// NewTemp allocates a fresh, never-reused temporary id.
func (p *Program) NewTemp() int {
	id := p.nextTemp
	p.nextTemp++
	return id
}

// NewLabel allocates a fresh, never-reused label id.
func (p *Program) NewLabel() int {
	id := p.nextLabel
	p.nextLabel++
	return id
}

// AddFunction registers a user-defined function with the program.
func (p *Program) AddFunction(fn *Function) { p.Functions = append(p.Functions, fn) }

// AllFunctions returns the top-level function followed by every
// user-defined function, the iteration order the optimizer and emitter use.
func (p *Program) AllFunctions() []*Function {
	return append([]*Function{p.TopLevel}, p.Functions...)
}
