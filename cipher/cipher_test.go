package cipher

import (
	"bytes"
	"testing"

	"github.com/dr8co/vmask/code"
	"github.com/dr8co/vmask/pool"
)

func TestEncodeDecodeAESRoundTrip(t *testing.T) {
	instructions := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	prog, err := Encode(instructions, nil, false, 0, 0)
	if err != nil {
		t.Fatalf("Encode returned an error: %v", err)
	}
	if prog.Cipher != IDAES {
		t.Fatalf("want IDAES, got %v", prog.Cipher)
	}

	got, err := Decode(prog)
	if err != nil {
		t.Fatalf("Decode returned an error: %v", err)
	}
	got = got[:prog.Original]
	if !bytes.Equal(got, instructions) {
		t.Errorf("round trip mismatch: want %v, got %v", instructions, got)
	}
}

func TestEncodeDecodeXORFallback(t *testing.T) {
	instructions := []byte{9, 8, 7, 6, 5}
	key := []byte{0xAA, 0x55, 0x10}

	prog := &Program{
		Cipher:     IDXOR,
		Ciphertext: xorStream(instructions, key),
		Key:        key,
		Original:   len(instructions),
	}

	got, err := Decode(prog)
	if err != nil {
		t.Fatalf("Decode returned an error: %v", err)
	}
	if !bytes.Equal(got, instructions) {
		t.Errorf("XOR round trip mismatch: want %v, got %v", instructions, got)
	}
}

// branchingInstructions builds a small instruction stream with both a
// conditional and an unconditional jump, mirroring what the compiler emits
// for an if/else: LOAD_CONST, JUMP_IF_FALSE past the then-branch, a
// then-branch LOAD_CONST, JUMP past the else-branch, and an else-branch
// LOAD_CONST followed by POP. Returns the instructions and the pool their
// jump operands index into.
func branchingInstructions() ([]byte, *pool.Pool, int, int) {
	p := pool.New()
	p.AddNumber(0)
	p.AddNumber(1)
	p.AddNumber(2)

	var ins []byte
	ins = append(ins, code.Make(code.LoadConst, 0)...)   // pos 0, width 3
	jumpIfFalseAt := len(ins)                            // pos 3
	ins = append(ins, code.Make(code.JumpIfFalse, 0)...) // pos 3, width 3, pcAfterJump = 6
	ins = append(ins, code.Make(code.LoadConst, 1)...)   // pos 6, width 3
	jumpAt := len(ins)                                   // pos 9
	ins = append(ins, code.Make(code.Jump, 0)...)        // pos 9, width 3, pcAfterJump = 12
	elseBranchPos := len(ins)                            // pos 12, the JUMP_IF_FALSE target
	ins = append(ins, code.Make(code.LoadConst, 2)...)   // pos 12, width 3
	ins = append(ins, code.Make(code.Pop)...)            // pos 15, width 1

	condIdx := p.AddOffset(elseBranchPos - 6)
	endIdx := p.AddOffset(len(ins) - 12)
	ins[jumpIfFalseAt+1] = byte(condIdx >> 8)
	ins[jumpIfFalseAt+2] = byte(condIdx)
	ins[jumpAt+1] = byte(endIdx >> 8)
	ins[jumpAt+2] = byte(endIdx)

	return ins, p, condIdx, endIdx
}

func TestSpliceNopsScalesWithEntropy(t *testing.T) {
	instructions, p, _, _ := branchingInstructions()
	const nopOp = byte(code.Nop)

	out := spliceNops(instructions, p, 0.9, nopOp)

	want := int(0.9 * 0.3 * float64(len(instructions)))
	got := len(out) - len(instructions)
	if got != want {
		t.Errorf("want %d NOPs inserted, got %d", want, got)
	}

	var nopCount int
	for _, b := range out {
		if b == nopOp {
			nopCount++
		}
	}
	if nopCount != want {
		t.Errorf("want %d NOP bytes present, found %d", want, nopCount)
	}
}

func TestSpliceNopsZeroEntropyIsNoop(t *testing.T) {
	instructions := []byte{1, 2, 3}
	out := spliceNops(instructions, nil, 0, 0xFE)
	if !bytes.Equal(out, instructions) {
		t.Errorf("zero entropy should leave instructions untouched, got %v", out)
	}
}

// TestSpliceNopsRepatchesJumpsAcrossInsertions is the core regression test
// for the NOP-splice/jump-displacement bug: every inserted NOP must shift
// jump displacements so each jump still lands exactly on the start of its
// original target instruction, however many NOPs fall within its span.
func TestSpliceNopsRepatchesJumpsAcrossInsertions(t *testing.T) {
	for _, entropy := range []float64{0.3, 0.6, 0.9, 1.0} {
		instructions, p, condIdx, endIdx := branchingInstructions()
		out := spliceNops(instructions, p, entropy, byte(code.Nop))

		if len(out) == len(instructions) {
			continue // entropy too low at this length to insert anything
		}

		boundaries, jumps := scanInstructions(out)
		isBoundary := make(map[int]bool, len(boundaries))
		for _, b := range boundaries {
			isBoundary[b] = true
		}

		if len(jumps) != 2 {
			t.Fatalf("entropy %v: want 2 jump sites in the spliced stream, got %d", entropy, len(jumps))
		}
		for _, j := range jumps {
			entry := p.Get(j.poolIndex)
			target := j.pcAfterJump + entry.Offset
			if !isBoundary[target] {
				t.Errorf("entropy %v: jump at poolIndex %d targets %d, not an instruction boundary", entropy, j.poolIndex, target)
			}
			if target >= len(out) {
				continue // the unconditional jump's target is legitimately end-of-stream
			}
			if op := code.Opcode(out[target]); op != code.LoadConst && op != code.Pop {
				t.Errorf("entropy %v: jump at poolIndex %d lands on opcode %v, not a branch target", entropy, j.poolIndex, op)
			}
		}

		condEntry := p.Get(condIdx)
		endEntry := p.Get(endIdx)
		if condEntry.Offset == 0 && endEntry.Offset == 0 {
			t.Errorf("entropy %v: expected at least one displacement to have shifted", entropy)
		}
	}
}

func TestEncodePoolMasksOnlyStringsAndIdentifiers(t *testing.T) {
	p := pool.New()
	numIdx := p.AddNumber(42)
	strIdx := p.AddString("secret")
	idIdx := p.AddIdentifier("total")

	masked, err := EncodePool(p)
	if err != nil {
		t.Fatalf("EncodePool returned an error: %v", err)
	}

	byIndex := make(map[int]EncodedString)
	for _, m := range masked {
		byIndex[m.PoolIndex] = m
	}

	if _, ok := byIndex[numIdx]; ok {
		t.Errorf("a numeric entry should not be masked")
	}
	strEntry, ok := byIndex[strIdx]
	if !ok {
		t.Fatalf("expected the string entry to be masked")
	}
	if DecodeString(strEntry) != "secret" {
		t.Errorf("want %q after decode, got %q", "secret", DecodeString(strEntry))
	}
	idEntry, ok := byIndex[idIdx]
	if !ok {
		t.Fatalf("expected the identifier entry to be masked")
	}
	if DecodeString(idEntry) != "total" {
		t.Errorf("want %q after decode, got %q", "total", DecodeString(idEntry))
	}
}
