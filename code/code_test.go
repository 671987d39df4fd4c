package code

import "testing"

func TestMake(t *testing.T) {
	tests := []struct {
		op       Opcode
		operands []int
		expected []byte
	}{
		{LoadConst, []int{65534}, []byte{byte(LoadConst), 255, 254}},
		{LoadVar, []int{1, 2}, []byte{byte(LoadVar), 1, 0, 2}},
		{CallFunction, []int{3}, []byte{byte(CallFunction), 3}},
		{Return, []int{}, []byte{byte(Return)}},
		{CreateFunction, []int{1, 2}, []byte{byte(CreateFunction), 0, 1, 2}},
		{TryBegin, []int{1, 2}, []byte{byte(TryBegin), 0, 1, 0, 2}},
	}

	for _, tt := range tests {
		instruction := Make(tt.op, tt.operands...)
		if len(instruction) != len(tt.expected) {
			t.Fatalf("instruction has wrong length. want=%d, got=%d", len(tt.expected), len(instruction))
		}
		for i, b := range tt.expected {
			if instruction[i] != b {
				t.Errorf("wrong byte at %d. want=%d, got=%d", i, b, instruction[i])
			}
		}
	}
}

func TestReadOperands(t *testing.T) {
	tests := []struct {
		op        Opcode
		operands  []int
		bytesRead int
	}{
		{LoadConst, []int{65535}, 2},
		{LoadVar, []int{3, 42}, 3},
		{CreateFunction, []int{7, 2}, 3},
		{TryBegin, []int{5, 9}, 4},
	}

	for _, tt := range tests {
		instruction := Make(tt.op, tt.operands...)

		def, err := Lookup(byte(tt.op))
		if err != nil {
			t.Fatalf("definition not found: %s", err)
		}

		operandsRead, n := ReadOperands(def, instruction[1:])
		if n != tt.bytesRead {
			t.Fatalf("n wrong. want=%d, got=%d", tt.bytesRead, n)
		}

		for i, want := range tt.operands {
			if operandsRead[i] != want {
				t.Errorf("operand wrong. want=%d, got=%d", want, operandsRead[i])
			}
		}
	}
}

func TestLookupUnknownOpcode(t *testing.T) {
	if _, err := Lookup(255); err == nil {
		t.Fatal("expected an error for an undefined opcode")
	}
}

func TestInstructionsString(t *testing.T) {
	instructions := []Instructions{
		Make(LoadConst, 1),
		Make(LoadVar, 0, 2),
		Make(Pop),
	}

	var concatted Instructions
	for _, ins := range instructions {
		concatted = append(concatted, ins...)
	}

	expected := "0000 LOAD_CONST 1\n0003 LOAD_VAR 0 2\n0007 POP\n"
	if concatted.String() != expected {
		t.Errorf("instructions wrongly formatted.\nwant=%q\ngot=%q", expected, concatted.String())
	}
}
