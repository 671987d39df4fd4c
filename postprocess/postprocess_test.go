package postprocess

import (
	"strings"
	"testing"
)

func TestRewritePropertiesBasic(t *testing.T) {
	got := RewriteProperties(`obj.name = obj.value;`)
	want := `obj["name"] = obj["value"];`
	if got != want {
		t.Errorf("want %q, got %q", want, got)
	}
}

func TestRewritePropertiesSkipsStringsAndComments(t *testing.T) {
	src := `var s = "a.b.c"; // obj.field
/* obj.other */
x.y;`
	got := RewriteProperties(src)

	if got == src {
		t.Fatal("expected x.y to be rewritten")
	}
	want := `var s = "a.b.c"; // obj.field
/* obj.other */
x["y"];`
	if got != want {
		t.Errorf("want %q, got %q", want, got)
	}
}

func TestRewritePropertiesIgnoresNumericLiterals(t *testing.T) {
	got := RewriteProperties(`var f = 3.14;`)
	if got != `var f = 3.14;` {
		t.Errorf("a decimal point in a number literal must not be rewritten, got %q", got)
	}
}

func TestRewritePropertiesIsIdempotent(t *testing.T) {
	once := RewriteProperties(`a.b.c;`)
	twice := RewriteProperties(once)
	if once != twice {
		t.Errorf("applying RewriteProperties twice should be a no-op: %q != %q", once, twice)
	}
}

func TestInjectDecoyCommentsIsIdempotent(t *testing.T) {
	src := "a;b;c;d;e;f;g;"
	once := InjectDecoyComments(src, 2, func(n int) int { return 0 })
	twice := InjectDecoyComments(once, 2, func(n int) int { return 0 })
	if once != twice {
		t.Errorf("a second pass over already-decorated source must be a no-op")
	}
}

func TestInjectDecoyCommentsInsertsAtInterval(t *testing.T) {
	src := "a;b;c;d;"
	got := InjectDecoyComments(src, 2, func(n int) int { return 1 })
	if got == src {
		t.Fatal("expected at least one decoy comment to be inserted")
	}
	want := "a;b; " + decoySentinel + " // " + decoyLines[1] + "\nc;d; " + decoySentinel + " // " + decoyLines[1] + "\n"
	if got != want {
		t.Errorf("want %q, got %q", want, got)
	}
}

func TestFlattenIsIdempotent(t *testing.T) {
	src := "/*vmask:flatten*/a();b();c();/*vmask:flatten*/"
	once := Flatten(src, "")
	twice := Flatten(once, "")
	if once != twice {
		t.Errorf("a second pass over an already-flattened region must be a no-op")
	}
}

func TestFlattenProducesStateMachine(t *testing.T) {
	src := "/*vmask:flatten*/a();b();/*vmask:flatten*/"
	got := Flatten(src, "__s")

	for _, want := range []string{"var __s = 0;", "while (true)", "case 0:", "case 1:", "a();", "b();"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got %q", want, got)
		}
	}
}

func TestFlattenLeavesUnbracketedSourceAlone(t *testing.T) {
	src := "a(); b(); c();"
	got := Flatten(src, "")
	if got != src {
		t.Errorf("source with no flatten sentinel should pass through unchanged, got %q", got)
	}
}
