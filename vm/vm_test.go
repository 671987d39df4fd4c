package vm

import (
	"testing"

	"github.com/dr8co/vmask/cipher"
	"github.com/dr8co/vmask/code"
	"github.com/dr8co/vmask/compiler"
	"github.com/dr8co/vmask/lexer"
	"github.com/dr8co/vmask/parser"
	"github.com/dr8co/vmask/runtime"
)

func run(t *testing.T, src string) runtime.Value {
	t.Helper()

	l := lexer.New(src)
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parser errors: %v", errs)
	}

	c := compiler.New()
	if err := c.Compile(program); err != nil {
		t.Fatalf("compile error: %v", err)
	}

	machine := New(c.Bytecode())
	if err := machine.Run(); err != nil {
		t.Fatalf("vm error: %v", err)
	}
	return machine.LastPoppedStackElem()
}

func expectNumber(t *testing.T, v runtime.Value, want float64) {
	t.Helper()
	n, ok := v.(*runtime.Number)
	if !ok {
		t.Fatalf("expected *runtime.Number, got %T (%s)", v, v.Inspect())
	}
	if n.Value != want {
		t.Errorf("want %v, got %v", want, n.Value)
	}
}

func expectString(t *testing.T, v runtime.Value, want string) {
	t.Helper()
	s, ok := v.(*runtime.String)
	if !ok {
		t.Fatalf("expected *runtime.String, got %T (%s)", v, v.Inspect())
	}
	if s.Value != want {
		t.Errorf("want %q, got %q", want, s.Value)
	}
}

func expectBool(t *testing.T, v runtime.Value, want bool) {
	t.Helper()
	b, ok := v.(*runtime.Bool)
	if !ok {
		t.Fatalf("expected *runtime.Bool, got %T (%s)", v, v.Inspect())
	}
	if b.Value != want {
		t.Errorf("want %v, got %v", want, b.Value)
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"1 + 2;", 3},
		{"10 - 4 * 2;", 2},
		{"(5 + 5) / 2;", 5},
		{"2 * (3 + 4) - 1;", 13},
	}

	for _, tt := range tests {
		expectNumber(t, run(t, tt.src), tt.want)
	}
}

func TestGlobalVariables(t *testing.T) {
	v := run(t, `
		var a = 1;
		var b = a + 2;
		b;
	`)
	expectNumber(t, v, 3)
}

func TestIfElse(t *testing.T) {
	v := run(t, `
		var x = 10;
		var y;
		if (x > 5) {
			y = "big";
		} else {
			y = "small";
		}
		y;
	`)
	expectString(t, v, "big")
}

func TestWhileLoop(t *testing.T) {
	v := run(t, `
		var i = 0;
		var total = 0;
		while (i < 5) {
			total = total + i;
			i = i + 1;
		}
		total;
	`)
	expectNumber(t, v, 10)
}

func TestForLoopWithBreakAndContinue(t *testing.T) {
	v := run(t, `
		var total = 0;
		for (var i = 0; i < 10; i = i + 1) {
			if (i == 5) {
				break;
			}
			if (i % 2 == 0) {
				continue;
			}
			total = total + i;
		}
		total;
	`)
	expectNumber(t, v, 1+3)
}

func TestSwitchStatement(t *testing.T) {
	v := run(t, `
		var x = 2;
		var result;
		switch (x) {
			case 1:
				result = "one";
				break;
			case 2:
				result = "two";
				break;
			default:
				result = "other";
		}
		result;
	`)
	expectString(t, v, "two")
}

func TestClosures(t *testing.T) {
	v := run(t, `
		function makeAdder(a) {
			return function(b) {
				return a + b;
			};
		}
		var addFive = makeAdder(5);
		addFive(7);
	`)
	expectNumber(t, v, 12)
}

func TestRecursiveFunction(t *testing.T) {
	v := run(t, `
		function fib(n) {
			if (n < 2) {
				return n;
			}
			return fib(n - 1) + fib(n - 2);
		}
		fib(10);
	`)
	expectNumber(t, v, 55)
}

func TestTryCatchFinally(t *testing.T) {
	v := run(t, `
		var log = "";
		try {
			throw "boom";
		} catch (e) {
			log = log + "caught:" + e;
		} finally {
			log = log + ":done";
		}
		log;
	`)
	expectString(t, v, "caught:boom:done")
}

func TestTryFinallyWithoutCatchStillRuns(t *testing.T) {
	v := run(t, `
		var log = "";
		function f() {
			try {
				return "a";
			} finally {
				log = log + "finally";
			}
		}
		var result = f();
		log + ":" + result;
	`)
	expectString(t, v, "finally:a")
}

func TestArraysAndObjects(t *testing.T) {
	v := run(t, `
		var arr = [1, 2, 3];
		var obj = { x: 1, y: 2 };
		obj.x + arr[2];
	`)
	expectNumber(t, v, 4)
}

func TestNullishCoalescing(t *testing.T) {
	v := run(t, `
		var a;
		var b = a ?? "fallback";
		b;
	`)
	expectString(t, v, "fallback")
}

func TestDynamicSourceToCallable(t *testing.T) {
	v := run(t, `
		function makeMultiplier(factor) {
			return function(x) {
				return x * factor;
			};
		}
		var triple = makeMultiplier(3);
		var quadruple = makeMultiplier(4);
		triple(2) + quadruple(2);
	`)
	expectNumber(t, v, 14)
}

func TestLogicalOperators(t *testing.T) {
	v := run(t, `(1 < 2) && (3 < 4);`)
	expectBool(t, v, true)
}

// TestVMRunsCipherEncodedBranchingProgram compiles a program with an if, a
// loop, and a logical operator, seals its instructions with dead-code
// injection on (the NOP-splice path that must repatch every jump
// displacement it crosses), decodes it back, and runs the decoded stream
// through the vm — proving the splice leaves every branch pointing at the
// right instruction rather than only the plaintext bytecode.
func TestVMRunsCipherEncodedBranchingProgram(t *testing.T) {
	src := `
		var total = 0;
		var i = 0;
		while (i < 8) {
			if (i % 2 == 0 && i > 0) {
				total = total + i;
			}
			i = i + 1;
		}
		total;
	`

	for _, entropy := range []float64{0.3, 0.9} {
		// Recompiled per entropy level: Encode repatches jump offsets in the
		// pool it is given in place, so a fresh Bytecode keeps each splice
		// pass working from the untouched, compile-time displacements.
		l := lexer.New(src)
		p := parser.New(l)
		program := p.ParseProgram()
		if errs := p.Errors(); len(errs) != 0 {
			t.Fatalf("parser errors: %v", errs)
		}

		c := compiler.New()
		if err := c.Compile(program); err != nil {
			t.Fatalf("compile error: %v", err)
		}
		bc := c.Bytecode()

		sealed, err := cipher.Encode([]byte(bc.Instructions), bc.Pool, true, entropy, byte(code.Nop))
		if err != nil {
			t.Fatalf("entropy %v: Encode returned an error: %v", entropy, err)
		}

		decoded, err := cipher.Decode(sealed)
		if err != nil {
			t.Fatalf("entropy %v: Decode returned an error: %v", entropy, err)
		}

		decodedBC := &compiler.Bytecode{
			Instructions: code.Instructions(decoded),
			Pool:         bc.Pool,
		}

		machine := New(decodedBC)
		if err := machine.Run(); err != nil {
			t.Fatalf("entropy %v: vm error running spliced bytecode: %v", entropy, err)
		}
		expectNumber(t, machine.LastPoppedStackElem(), 2+4+6)
	}
}
