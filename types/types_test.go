package types

import "testing"

func TestCompatible(t *testing.T) {
	tests := []struct {
		target, source Type
		want           bool
	}{
		{T(Number), T(Number), true},
		{T(Number), T(Decimal), true},
		{T(Decimal), T(Number), true},
		{T(Text), T(Text), true},
		{T(Text), T(Number), false},
		{T(Flag), T(Number), false},
		{T(Unknown), T(Text), true},
		{T(Number), T(Unknown), true},
		{ListOf(T(Number)), ListOf(T(Text)), true},
	}
	for _, tt := range tests {
		if got := Compatible(tt.target, tt.source); got != tt.want {
			t.Errorf("Compatible(%s, %s) = %v, want %v", tt.target, tt.source, got, tt.want)
		}
	}
}

func TestPromote(t *testing.T) {
	tests := []struct {
		a, b Type
		want Kind
	}{
		{T(Number), T(Number), Number},
		{T(Number), T(Decimal), Decimal},
		{T(Decimal), T(Number), Decimal},
		{T(Decimal), T(Decimal), Decimal},
	}
	for _, tt := range tests {
		if got := Promote(tt.a, tt.b).Kind; got != tt.want {
			t.Errorf("Promote(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	for _, k := range []Kind{Number, Decimal} {
		if !T(k).IsNumeric() {
			t.Errorf("expected %s to be numeric", k)
		}
	}
	for _, k := range []Kind{Text, Flag, List, Nothing, Function, Unknown} {
		if T(k).IsNumeric() {
			t.Errorf("expected %s not to be numeric", k)
		}
	}
}

func TestOperatorClassification(t *testing.T) {
	comparisons := []Operator{Eq, Neq, Lt, Gt, Lte, Gte}
	for _, op := range comparisons {
		if !op.IsComparison() {
			t.Errorf("expected %s to be a comparison operator", op)
		}
		if op.IsLogical() {
			t.Errorf("expected %s not to be a logical operator", op)
		}
	}
	logicals := []Operator{And, Or, Not}
	for _, op := range logicals {
		if !op.IsLogical() {
			t.Errorf("expected %s to be a logical operator", op)
		}
		if op.IsComparison() {
			t.Errorf("expected %s not to be a comparison operator", op)
		}
	}
}

func TestListOfString(t *testing.T) {
	lt := ListOf(T(Number))
	if got, want := lt.String(), "list of number"; got != want {
		t.Errorf("ListOf(Number).String() = %q, want %q", got, want)
	}
}
