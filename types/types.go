// Package types defines the closed value-type algebra of the Word language
// (spec.md §3 "Types") and the compatibility rules the Semantic Analyzer
// uses to type-check the program.
//
// This is a compile-time analog of the teacher's object package
// (object/object.go): instead of one struct per runtime value kind, this
// package has one constant per static type, plus the Type struct that
// carries the extra data some types need (List's element type).
package types

import "fmt"

// Kind is a tag for one of the closed set of Word value types.
type Kind int

//nolint:revive
const (
	Number Kind = iota
	Decimal
	Text
	Flag
	List
	Nothing
	Function
	Unknown
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Decimal:
		return "decimal"
	case Text:
		return "text"
	case Flag:
		return "flag"
	case List:
		return "list"
	case Nothing:
		return "nothing"
	case Function:
		return "function"
	case Unknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// Type is the full static type of a value: a Kind plus, for List, the
// element type inferred at first use (spec.md §9 open question: mixed
// element types are permitted — Elem only records the first element's
// type; the analyzer uses it to type for-each iterators and index
// results, and the C emitter does not read it).
type Type struct {
	Kind Kind
	Elem *Type // non-nil only when Kind == List
}

// T is a convenience constructor for a non-List type.
func T(k Kind) Type { return Type{Kind: k} }

// ListOf constructs a List type with the given element type.
func ListOf(elem Type) Type { return Type{Kind: List, Elem: &elem} }

func (t Type) String() string {
	if t.Kind == List {
		if t.Elem != nil {
			return fmt.Sprintf("list of %s", t.Elem)
		}
		return "list"
	}
	return t.Kind.String()
}

// IsNumeric reports whether t is Number or Decimal.
func (t Type) IsNumeric() bool {
	return t.Kind == Number || t.Kind == Decimal
}

// Compatible implements spec.md §4.2's types_compatible(target, source):
// reflexive, Number<->Decimal compatible both ways, Unknown a universal
// absorber.
func Compatible(target, source Type) bool {
	if target.Kind == Unknown || source.Kind == Unknown {
		return true
	}
	if target.Kind == source.Kind {
		return true
	}
	if target.IsNumeric() && source.IsNumeric() {
		return true
	}
	return false
}

// Promote implements the arithmetic-result promotion rule from spec.md
// §4.2: Decimal iff either side is Decimal, else Number.
func Promote(a, b Type) Type {
	if a.Kind == Decimal || b.Kind == Decimal {
		return T(Decimal)
	}
	return T(Number)
}

// Operator is the closed set of operators from spec.md §3.
type Operator int

//nolint:revive
const (
	Add Operator = iota
	Sub
	Mul
	Div
	Mod
	Pow
	Eq
	Neq
	Lt
	Gt
	Lte
	Gte
	And
	Or
	Not
	Neg
	Between
)

func (o Operator) String() string {
	switch o {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Mod:
		return "mod"
	case Pow:
		return "^"
	case Eq:
		return "="
	case Neq:
		return "!="
	case Lt:
		return "<"
	case Gt:
		return ">"
	case Lte:
		return "<="
	case Gte:
		return ">="
	case And:
		return "and"
	case Or:
		return "or"
	case Not:
		return "not"
	case Neg:
		return "neg"
	case Between:
		return "between"
	default:
		return "?"
	}
}

// IsComparison reports whether o is one of the six comparison operators.
func (o Operator) IsComparison() bool {
	switch o {
	case Eq, Neq, Lt, Gt, Lte, Gte:
		return true
	default:
		return false
	}
}

// IsLogical reports whether o is and/or/not.
func (o Operator) IsLogical() bool {
	switch o {
	case And, Or, Not:
		return true
	default:
		return false
	}
}
