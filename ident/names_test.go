package ident

import "testing"

func TestFreshNeverCollidesWithReserved(t *testing.T) {
	n := NewNames()
	n.Reserve("console")
	n.Reserve("Math")

	for i := 0; i < 200; i++ {
		name := n.Fresh("vm")
		if name == "console" || name == "Math" {
			t.Fatalf("Fresh issued a reserved name: %s", name)
		}
	}
}

func TestFreshNeverRepeats(t *testing.T) {
	n := NewNames()
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		name := n.Fresh("x")
		if seen[name] {
			t.Fatalf("Fresh issued a duplicate name: %s", name)
		}
		seen[name] = true
	}
}

func TestFreshStartsWithValidIdentifierChar(t *testing.T) {
	n := NewNames()
	name := n.Fresh("role")
	if len(name) == 0 {
		t.Fatal("Fresh returned an empty name")
	}
	c := name[0]
	valid := 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '$' || c == '_'
	if !valid {
		t.Errorf("first character %q is not a valid identifier-start character", c)
	}
}
