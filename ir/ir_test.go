package ir

import "testing"

func TestInstructionListAppendOrder(t *testing.T) {
	var l InstructionList
	a := &Instruction{Op: OpLoadInt, Result: Temp(0), Arg1: Int(1)}
	b := &Instruction{Op: OpLoadInt, Result: Temp(1), Arg1: Int(2)}
	l.Append(a)
	l.Append(b)

	if l.Len() != 2 {
		t.Fatalf("expected length 2, got %d", l.Len())
	}
	if l.Head() != a || l.Tail() != b {
		t.Fatal("expected head=a, tail=b")
	}
	if a.Next() != b || b.Prev() != a {
		t.Fatal("expected a<->b links")
	}
}

func TestInstructionListUnlinkMiddle(t *testing.T) {
	var l InstructionList
	a := &Instruction{Op: OpNop}
	b := &Instruction{Op: OpNop}
	c := &Instruction{Op: OpNop}
	l.Append(a)
	l.Append(b)
	l.Append(c)

	l.Unlink(b)

	if l.Len() != 2 {
		t.Fatalf("expected length 2 after unlink, got %d", l.Len())
	}
	if a.Next() != c || c.Prev() != a {
		t.Fatal("expected a<->c after removing b")
	}
	if b.Next() != nil || b.Prev() != nil {
		t.Fatal("expected unlinked node to have nil neighbors")
	}
}

func TestInstructionListUnlinkHeadAndTail(t *testing.T) {
	var l InstructionList
	a := &Instruction{Op: OpNop}
	b := &Instruction{Op: OpNop}
	l.Append(a)
	l.Append(b)

	l.Unlink(a)
	if l.Head() != b {
		t.Fatal("expected head to become b after unlinking a")
	}

	l.Unlink(b)
	if l.Head() != nil || l.Tail() != nil || l.Len() != 0 {
		t.Fatal("expected empty list after unlinking all nodes")
	}
}

func TestProgramCountersAreMonotonicAndNeverReused(t *testing.T) {
	p := NewProgram()
	seen := make(map[int]bool)
	for i := 0; i < 10; i++ {
		id := p.NewTemp()
		if seen[id] {
			t.Fatalf("temp id %d reused", id)
		}
		seen[id] = true
	}
	l1 := p.NewLabel()
	l2 := p.NewLabel()
	if l2 <= l1 {
		t.Fatalf("expected label ids to increase, got %d then %d", l1, l2)
	}
}

func TestOperandEqual(t *testing.T) {
	if !Temp(3).Equal(Temp(3)) {
		t.Fatal("expected equal temps to compare equal")
	}
	if Temp(3).Equal(Temp(4)) {
		t.Fatal("expected different temps to compare unequal")
	}
	if !Int(5).Equal(Int(5)) {
		t.Fatal("expected equal int operands to compare equal")
	}
	if Int(5).Equal(Float(5)) {
		t.Fatal("expected operands of different kinds to compare unequal")
	}
}

func TestSideEffectingOpcodes(t *testing.T) {
	mustBeSideEffecting := []Opcode{OpDisplay, OpCall, OpReturn, OpGoto, OpListAppend, OpListSet}
	for _, op := range mustBeSideEffecting {
		if !op.SideEffecting() {
			t.Errorf("expected %s to be side-effecting", op)
		}
	}
	mustNotBeSideEffecting := []Opcode{OpAdd, OpLoadInt, OpAssign, OpEq}
	for _, op := range mustNotBeSideEffecting {
		if op.SideEffecting() {
			t.Errorf("expected %s to not be side-effecting", op)
		}
	}
}

func TestAllFunctionsIncludesTopLevelFirst(t *testing.T) {
	p := NewProgram()
	fn := &Function{Name: "add"}
	p.AddFunction(fn)

	all := p.AllFunctions()
	if len(all) != 2 || all[0] != p.TopLevel || all[1] != fn {
		t.Fatalf("expected [top-level, add], got %v", all)
	}
}
