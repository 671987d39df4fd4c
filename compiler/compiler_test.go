package compiler

import (
	"testing"

	"github.com/dr8co/vmask/code"
	"github.com/dr8co/vmask/lexer"
	"github.com/dr8co/vmask/parser"
	"github.com/dr8co/vmask/pool"
)

func compileSource(t *testing.T, src string) *Bytecode {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parser errors: %v", errs)
	}

	c := New()
	if err := c.Compile(program); err != nil {
		t.Fatalf("compile error: %v", err)
	}
	return c.Bytecode()
}

func opcodesOf(t *testing.T, ins code.Instructions) []code.Opcode {
	t.Helper()
	var ops []code.Opcode
	for i := 0; i < len(ins); {
		def, err := code.Lookup(ins[i])
		if err != nil {
			t.Fatalf("unknown opcode at %d: %v", i, err)
		}
		ops = append(ops, code.Opcode(ins[i]))
		width := 0
		for _, w := range def.OperandWidths {
			width += w
		}
		i += 1 + width
	}
	return ops
}

func containsOp(ops []code.Opcode, want code.Opcode) bool {
	for _, op := range ops {
		if op == want {
			return true
		}
	}
	return false
}

func TestCompileArithmeticEmitsBinaryOp(t *testing.T) {
	bc := compileSource(t, "1 + 2 * 3;")
	ops := opcodesOf(t, bc.Instructions)

	if !containsOp(ops, code.LoadConst) {
		t.Error("expected at least one LOAD_CONST")
	}
	if !containsOp(ops, code.BinaryOp) {
		t.Error("expected a BINARY_OP")
	}
	if !containsOp(ops, code.Pop) {
		t.Error("expected the expression statement's trailing POP")
	}
}

func TestCompileGlobalVarEmitsStoreAndLoad(t *testing.T) {
	bc := compileSource(t, "var x = 5; x;")
	ops := opcodesOf(t, bc.Instructions)

	if !containsOp(ops, code.StoreVar) {
		t.Error("expected a STORE_VAR for the declaration")
	}
	if !containsOp(ops, code.LoadVar) {
		t.Error("expected a LOAD_VAR for the reference")
	}
}

func TestCompileIfEmitsConditionalAndUnconditionalJumps(t *testing.T) {
	bc := compileSource(t, `
		if (1 < 2) {
			3;
		} else {
			4;
		}
	`)
	ops := opcodesOf(t, bc.Instructions)

	if !containsOp(ops, code.JumpIfFalse) {
		t.Error("expected a JUMP_IF_FALSE guarding the consequence")
	}
	if !containsOp(ops, code.Jump) {
		t.Error("expected an unconditional JUMP over the alternative")
	}
}

func TestJumpTargetsAreWithinBounds(t *testing.T) {
	bc := compileSource(t, `
		var i = 0;
		while (i < 3) {
			i = i + 1;
		}
	`)

	// Offset entries hold signed displacements from the end of the jump
	// instruction, so each target is resolved from its jump site.
	ins := bc.Instructions
	for i := 0; i < len(ins); {
		def, err := code.Lookup(ins[i])
		if err != nil {
			t.Fatalf("unknown opcode at %d: %v", i, err)
		}
		width := 1
		for _, w := range def.OperandWidths {
			width += w
		}
		switch code.Opcode(ins[i]) {
		case code.Jump, code.JumpIfTrue, code.JumpIfFalse:
			entry := bc.Pool.Get(int(code.ReadUint16(ins[i+1:])))
			if entry.Tag != pool.TagOffset {
				t.Fatalf("jump at %d addresses a non-offset constant", i)
			}
			target := i + width + entry.Offset
			if target < 0 || target > len(ins) {
				t.Errorf("jump at %d targets %d, outside the instruction bounds (len=%d)", i, target, len(ins))
			}
		}
		i += width
	}
}

func TestCompileFunctionLiteralStoresFunctionConstant(t *testing.T) {
	bc := compileSource(t, `
		function add(a, b) {
			return a + b;
		}
	`)

	var found bool
	for _, entry := range bc.Pool.Entries() {
		if entry.Tag == pool.TagFunction {
			found = true
			if entry.Function.NumParameters != 2 {
				t.Errorf("want 2 parameters recorded, got %d", entry.Function.NumParameters)
			}
		}
	}
	if !found {
		t.Error("expected a TagFunction entry in the constant pool")
	}
}

func TestCompileTryEmitsTryBeginAndTryEnd(t *testing.T) {
	bc := compileSource(t, `
		try {
			throw "x";
		} catch (e) {
			e;
		}
	`)
	ops := opcodesOf(t, bc.Instructions)

	if !containsOp(ops, code.TryBegin) {
		t.Error("expected a TRY_BEGIN")
	}
	if !containsOp(ops, code.TryEnd) {
		t.Error("expected a TRY_END")
	}
	if !containsOp(ops, code.Throw) {
		t.Error("expected a THROW")
	}
}

func TestCompileDuplicateStringConstantsAreInterned(t *testing.T) {
	bc := compileSource(t, `"same" + "same";`)

	var stringEntries int
	for _, entry := range bc.Pool.Entries() {
		if entry.Tag == pool.TagString && entry.Str == "same" {
			stringEntries++
		}
	}
	if stringEntries != 1 {
		t.Errorf("want the duplicate string literal deduplicated to 1 entry, got %d", stringEntries)
	}
}
