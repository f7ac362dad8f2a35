package precompiler

import "testing"

func TestNameSetDeclareAssignsIncreasingIndices(t *testing.T) {
	ns := NewNameSet()
	a := ns.Declare("x")
	b := ns.Declare("x")
	if a.Index != 0 || b.Index != 1 {
		t.Fatalf("expected indices 0,1, got %d,%d", a.Index, b.Index)
	}
	if a.Base != "x" || b.Base != "x" {
		t.Fatalf("expected base name x, got %s,%s", a.Base, b.Base)
	}
}

func TestNameSetLookupReturnsMostRecentActive(t *testing.T) {
	ns := NewNameSet()
	ns.Declare("x")
	outer := ns.Mark()
	inner := ns.Declare("x")

	got, ok := ns.Lookup("x")
	if !ok || got != inner {
		t.Fatalf("expected lookup to return innermost declaration %+v, got %+v (ok=%v)", inner, got, ok)
	}

	ns.PopTo(outer)
	got, ok = ns.Lookup("x")
	if !ok || got.Index != 0 {
		t.Fatalf("expected lookup to fall back to outer declaration after pop, got %+v (ok=%v)", got, ok)
	}
}

func TestNameSetPopToReturnsReverseInsertionOrder(t *testing.T) {
	ns := NewNameSet()
	mark := ns.Mark()
	ns.Declare("a")
	ns.Declare("b")
	ns.Declare("c")

	popped := ns.PopTo(mark)
	want := []string{"c", "b", "a"}
	if len(popped) != len(want) {
		t.Fatalf("expected %d popped names, got %d", len(want), len(popped))
	}
	for i, name := range want {
		if popped[i].Base != name {
			t.Errorf("popped[%d] = %s, want %s", i, popped[i].Base, name)
		}
	}
	if ns.Has("a") || ns.Has("b") || ns.Has("c") {
		t.Fatalf("expected no names visible after popping to mark")
	}
}

func TestNameSetIndicesNeverReusedAfterScopeExit(t *testing.T) {
	ns := NewNameSet()
	mark := ns.Mark()
	first := ns.Declare("x")
	ns.PopTo(mark)
	second := ns.Declare("x")
	if second.Index == first.Index {
		t.Fatalf("expected a fresh index after scope exit, got %d twice", first.Index)
	}
}

func TestNameSetDeclaredSinceDistinguishesSameScopeFromShadowing(t *testing.T) {
	ns := NewNameSet()
	ns.Declare("x") // outer scope

	innerMark := ns.Mark()
	if ns.DeclaredSince("x", innerMark) {
		t.Fatalf("expected outer declaration not to count as declared-since a later mark")
	}

	ns.Declare("x") // shadowing redeclaration, same name, inner scope
	if !ns.DeclaredSince("x", innerMark) {
		t.Fatalf("expected inner declaration to count as declared-since its own scope's mark")
	}

	ns.PopTo(innerMark)
	if ns.DeclaredSince("x", innerMark) {
		t.Fatalf("expected no active declaration since mark after popping back to it")
	}
}

func TestNameSetSeeding(t *testing.T) {
	ns := NewNameSet("print", "assert")
	if !ns.Has("print") || !ns.Has("assert") {
		t.Fatalf("expected seeded names to be visible")
	}
	name, ok := ns.Lookup("print")
	if !ok || name.Index != 0 {
		t.Fatalf("expected seeded name at index 0, got %+v", name)
	}
}
