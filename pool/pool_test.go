package pool

import "testing"

func TestAddNumberDeduplicates(t *testing.T) {
	p := New()
	a := p.AddNumber(3.14)
	b := p.AddNumber(3.14)
	c := p.AddNumber(2.71)

	if a != b {
		t.Errorf("identical numbers should share a slot: %d != %d", a, b)
	}
	if a == c {
		t.Errorf("distinct numbers should not share a slot")
	}
	if p.Len() != 2 {
		t.Errorf("want 2 entries, got %d", p.Len())
	}
}

func TestAddStringAndIdentifierDoNotCollide(t *testing.T) {
	p := New()
	s := p.AddString("x")
	id := p.AddIdentifier("x")

	if s == id {
		t.Errorf("a string and an identifier with the same text must not share a slot")
	}
	if p.Get(s).Tag != TagString {
		t.Errorf("want TagString, got %v", p.Get(s).Tag)
	}
	if p.Get(id).Tag != TagIdentifier {
		t.Errorf("want TagIdentifier, got %v", p.Get(id).Tag)
	}
}

func TestOffsetsAndFunctionsAreNeverDeduplicated(t *testing.T) {
	p := New()
	o1 := p.AddOffset(5)
	o2 := p.AddOffset(5)
	if o1 == o2 {
		t.Errorf("two offset entries with the same displacement must still get distinct slots")
	}

	fn := &Function{Instructions: []byte{1, 2, 3}, NumLocals: 1}
	f1 := p.AddFunction(fn)
	f2 := p.AddFunction(fn)
	if f1 == f2 {
		t.Errorf("two function entries must still get distinct slots even when identical")
	}
}

func TestSetOffsetPatchesInPlace(t *testing.T) {
	p := New()
	idx := p.AddOffset(-1)
	p.SetOffset(idx, 17)

	if got := p.Get(idx).Offset; got != 17 {
		t.Errorf("want patched offset 17, got %d", got)
	}
}

func TestAddStringListDeduplicatesBySequence(t *testing.T) {
	p := New()
	a := p.AddStringList([]string{"a", "b"})
	b := p.AddStringList([]string{"a", "b"})
	c := p.AddStringList([]string{"b", "a"})

	if a != b {
		t.Errorf("identical name lists should share a slot")
	}
	if a == c {
		t.Errorf("name lists in a different order must not share a slot")
	}
}
