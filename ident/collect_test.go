package ident

import (
	"testing"

	"github.com/dr8co/vmask/ast"
	"github.com/dr8co/vmask/lexer"
	"github.com/dr8co/vmask/parser"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	program := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parser errors: %v", p.Errors())
	}
	return program
}

func TestCollectReservesDeclaredAndReferencedNames(t *testing.T) {
	program := parseProgram(t, `
		var total = 0;
		function add(a, b) {
			return a + b;
		}
		total = add(total, 1);
	`)

	n := Collect(program)

	for _, want := range []string{"total", "add", "a", "b"} {
		if !n.issued[want] {
			t.Errorf("Collect did not reserve %q", want)
		}
	}
}

func TestCollectReservesBuiltins(t *testing.T) {
	program := parseProgram(t, `var x = 1;`)
	n := Collect(program)

	if !n.issued["Math"] || !n.issued["console"] {
		t.Error("Collect did not reserve the host-intrinsic names")
	}
}

func TestFreshAfterCollectAvoidsSourceIdentifiers(t *testing.T) {
	program := parseProgram(t, `var total = 0;`)
	n := Collect(program)

	for i := 0; i < 50; i++ {
		if name := n.Fresh("v"); name == "total" {
			t.Fatalf("Fresh issued a name already used by the source program")
		}
	}
}
