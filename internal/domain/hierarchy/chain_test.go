package hierarchy

import "testing"

func testChain() []ChainEntry {
	return []ChainEntry{
		{Level: 1, ManagerID: "m1"},
		{Level: 2, ManagerID: "m2"},
		{Level: 3, ManagerID: "m3"},
	}
}

func TestFirstManager(t *testing.T) {
	first, ok := FirstManager(testChain())
	if !ok || first != "m1" {
		t.Fatalf("expected m1, got %s (%v)", first, ok)
	}

	if _, ok := FirstManager(nil); ok {
		t.Fatal("expected no first manager for empty chain")
	}
}

func TestFirstManagerUnorderedInput(t *testing.T) {
	chain := []ChainEntry{
		{Level: 3, ManagerID: "m3"},
		{Level: 1, ManagerID: "m1"},
		{Level: 2, ManagerID: "m2"},
	}
	first, ok := FirstManager(chain)
	if !ok || first != "m1" {
		t.Fatalf("expected lowest level to win, got %s", first)
	}
}

func TestNextAfterResolvesByIdentity(t *testing.T) {
	next, ok := NextAfter(testChain(), "m1")
	if !ok || next != "m2" {
		t.Fatalf("expected m2 after m1, got %s (%v)", next, ok)
	}

	next, ok = NextAfter(testChain(), "m2")
	if !ok || next != "m3" {
		t.Fatalf("expected m3 after m2, got %s (%v)", next, ok)
	}
}

func TestNextAfterLastOrUnknown(t *testing.T) {
	if _, ok := NextAfter(testChain(), "m3"); ok {
		t.Fatal("expected no routing past the last level")
	}
	// Unknown manager means no further routing, not an error.
	if _, ok := NextAfter(testChain(), "stranger"); ok {
		t.Fatal("expected no routing for unknown manager")
	}
}

func TestContains(t *testing.T) {
	if !Contains(testChain(), "m2") {
		t.Fatal("expected m2 in chain")
	}
	if Contains(testChain(), "m9") {
		t.Fatal("did not expect m9 in chain")
	}
	if Contains(nil, "m1") {
		t.Fatal("empty chain contains nobody")
	}
}

func TestMissingLevels(t *testing.T) {
	if missing := MissingLevels(testChain()); missing != nil {
		t.Fatalf("expected contiguous chain, got gaps %v", missing)
	}

	broken := []ChainEntry{
		{Level: 2, ManagerID: "m2"},
		{Level: 5, ManagerID: "m5"},
	}
	missing := MissingLevels(broken)
	if len(missing) != 3 || missing[0] != 1 || missing[1] != 3 || missing[2] != 4 {
		t.Fatalf("expected gaps [1 3 4], got %v", missing)
	}

	if missing := MissingLevels(nil); missing != nil {
		t.Fatalf("expected no gaps for empty chain, got %v", missing)
	}
}
