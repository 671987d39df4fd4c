// Package code provides bytecode instruction definitions and utilities for the compiler and virtual machine.
//
// This package defines the bytecode instruction set used by the compiler to generate executable code
// and by the virtual machine to execute programs.
//
// It includes opcode definitions, instruction encoding
// and decoding functions, and utilities for working with bytecode instructions.
package code

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Instructions is a slice of bytes representing a sequence of instructions.
type Instructions []byte

// Opcode represents a single bytecode instruction used by the compiler and virtual machine.
type Opcode byte

// VarScope distinguishes which variable store a LOAD_VAR/STORE_VAR operand
// addresses. It is encoded as the first operand byte of both opcodes.
type VarScope byte

const (
	ScopeGlobal VarScope = iota
	ScopeLocal
	ScopeFree
	ScopeBuiltin
	ScopeFunction
)

// Bytecode instruction opcodes.
//
// Each opcode represents a specific operation that the virtual machine can
// execute. The set is fixed: operators and jump targets are threaded through
// constant-pool indices and variable scopes through LOAD_VAR/STORE_VAR's
// scope operand byte, rather than grown into new opcodes.
const (
	// LOAD_CONST pushes a constant pool entry onto the stack.
	//
	// Operands: [pool_index:2]
	LoadConst Opcode = iota

	// LOAD_VAR reads a variable and pushes its value onto the stack.
	//
	// Operands: [scope:1][index:2]
	LoadVar

	// STORE_VAR pops a value from the stack and stores it in a variable.
	//
	// Operands: [scope:1][index:2]
	//
	// Stack: [value] -> []
	StoreVar

	// BINARY_OP pops two operands, applies the binary operator named by the
	// pool entry, and pushes the result.
	//
	// Operands: [pool_index:2] - index of an identifier-name constant holding
	// the operator's token text ("+", "-", "<", "===", ...).
	//
	// Stack: [a, b] -> [a op b]
	BinaryOp

	// CALL_FUNCTION calls a function value with the given argument count.
	//
	// Operands: [num_args:1]
	//
	// Stack: [func, arg1, ..., argN] -> [return_value]
	CallFunction

	// RETURN returns from the current function with the top of the stack as
	// the return value.
	//
	// Stack: [value] -> []
	Return

	// JUMP unconditionally transfers control.
	//
	// Operands: [pool_index:2] - index of a numeric-offset constant; the
	// target is pc_after_instruction + offset.
	Jump

	// JUMP_IF_TRUE pops a value and jumps if it is truthy.
	//
	// Operands: [pool_index:2] - as JUMP.
	//
	// Stack: [value] -> []
	JumpIfTrue

	// JUMP_IF_FALSE pops a value and jumps if it is not truthy.
	//
	// Operands: [pool_index:2] - as JUMP.
	//
	// Stack: [value] -> []
	JumpIfFalse

	// CREATE_FUNCTION builds a closure from a compiled-function constant,
	// capturing the given number of free variables from the stack.
	//
	// Operands: [pool_index:2][num_free:1]
	//
	// Stack: [free1, ..., freeN] -> [closure]
	CreateFunction

	// CREATE_OBJECT pops the given number of key/value pairs and builds an
	// object from them.
	//
	// Operands: [pair_count:2]
	//
	// Stack: [key1, value1, ..., keyN, valueN] -> [object]
	CreateObject

	// LOAD_PROPERTY pops an object, reads the named property, and pushes it.
	//
	// Operands: [pool_index:2] - identifier-name constant.
	//
	// Stack: [object] -> [object.property]
	LoadProperty

	// STORE_PROPERTY pops an object and a value, assigns the named property,
	// and pushes the assigned value back (the result of a JS assignment
	// expression is the assigned value, not the receiver).
	//
	// Operands: [pool_index:2] - identifier-name constant.
	//
	// Stack: [object, value] -> [value]
	StoreProperty

	// POP discards the top of the stack.
	//
	// Stack: [value] -> []
	Pop

	// DUPLICATE pushes a copy of the top of the stack.
	//
	// Stack: [value] -> [value, value]
	Duplicate

	// UNARY_OP pops one operand, applies the unary operator named by the
	// pool entry, and pushes the result.
	//
	// Operands: [pool_index:2] - identifier-name constant ("-", "!", "~",
	// "typeof", "void", "delete").
	//
	// Stack: [value] -> [op value]
	UnaryOp

	// CREATE_ARRAY pops the given number of elements and builds an array.
	//
	// Operands: [element_count:2]
	//
	// Stack: [elem1, ..., elemN] -> [array]
	CreateArray

	// ARRAY_PUSH appends a value to an array in place and pushes the array
	// back. The compiler does not emit it (array literals lower to
	// CREATE_ARRAY); the vm and the emitted interpreter execute it.
	//
	// Stack: [array, value] -> [array]
	ArrayPush

	// LOAD_INDEX pops a collection and an index and pushes the element.
	//
	// Stack: [collection, index] -> [collection[index]]
	LoadIndex

	// STORE_INDEX pops a collection, an index, and a value, assigns the
	// element, and pushes the assigned value back.
	//
	// Stack: [collection, index, value] -> [value]
	StoreIndex

	// NEW_INSTANCE calls a function as a constructor with the given argument
	// count and pushes the resulting instance.
	//
	// Operands: [num_args:1]
	//
	// Stack: [ctor, arg1, ..., argN] -> [instance]
	NewInstance

	// LOGICAL_OP pops two operands and pushes the boolean `&&` or `||` of
	// their truthiness; any other operator name is rejected. The compiler
	// does not emit it: logical expressions lower to DUPLICATE,
	// JUMP_IF_TRUE/JUMP_IF_FALSE and POP around the right operand, so the
	// right side is evaluated only when needed.
	//
	// Operands: [pool_index:2] - identifier-name constant ("&&", "||").
	//
	// Stack: [a, b] -> [bool]
	LogicalOp

	// TRY_BEGIN opens a protected region.
	//
	// Operands: [catch_pool_index:2][finally_pool_index:2] - numeric-offset
	// constants giving the catch and finally entry points, each pc-relative
	// to the instruction immediately following TRY_BEGIN. An absent clause is
	// encoded as offset -1.
	TryBegin

	// TRY_END closes the protected region opened by the matching TRY_BEGIN.
	TryEnd

	// CATCH marks a catch-block entry point and pushes the caught value.
	//
	// Stack: [] -> [exception]
	Catch

	// THROW pops a value and raises it as an exception.
	//
	// Stack: [value] -> []
	Throw

	// UNDEFINED pushes the undefined value.
	Undefined

	// NULL pushes the null value.
	Null

	// THIS pushes the current `this` binding.
	This

	// NOP performs no operation. Used as dead-code injection filler.
	Nop
)

// Definition represents an instruction definition with its name and operand widths.
type Definition struct {
	// The name of the instruction.
	Name string

	// OperandWidths specifies the number of bytes each operand of an instruction occupies.
	OperandWidths []int
}

// definitions is a map of opcodes to their definitions.
var definitions = map[Opcode]*Definition{
	LoadConst:      {"LOAD_CONST", []int{2}},
	LoadVar:        {"LOAD_VAR", []int{1, 2}},
	StoreVar:       {"STORE_VAR", []int{1, 2}},
	BinaryOp:       {"BINARY_OP", []int{2}},
	CallFunction:   {"CALL_FUNCTION", []int{1}},
	Return:         {"RETURN", []int{}},
	Jump:           {"JUMP", []int{2}},
	JumpIfTrue:     {"JUMP_IF_TRUE", []int{2}},
	JumpIfFalse:    {"JUMP_IF_FALSE", []int{2}},
	CreateFunction: {"CREATE_FUNCTION", []int{2, 1}},
	CreateObject:   {"CREATE_OBJECT", []int{2}},
	LoadProperty:   {"LOAD_PROPERTY", []int{2}},
	StoreProperty:  {"STORE_PROPERTY", []int{2}},
	Pop:            {"POP", []int{}},
	Duplicate:      {"DUPLICATE", []int{}},
	UnaryOp:        {"UNARY_OP", []int{2}},
	CreateArray:    {"CREATE_ARRAY", []int{2}},
	ArrayPush:      {"ARRAY_PUSH", []int{}},
	LoadIndex:      {"LOAD_INDEX", []int{}},
	StoreIndex:     {"STORE_INDEX", []int{}},
	NewInstance:    {"NEW_INSTANCE", []int{1}},
	LogicalOp:      {"LOGICAL_OP", []int{2}},
	TryBegin:       {"TRY_BEGIN", []int{2, 2}},
	TryEnd:         {"TRY_END", []int{}},
	Catch:          {"CATCH", []int{}},
	Throw:          {"THROW", []int{}},
	Undefined:      {"UNDEFINED", []int{}},
	Null:           {"NULL", []int{}},
	This:           {"THIS", []int{}},
	Nop:            {"NOP", []int{}},
}

// Lookup returns the [Definition] for the given [Opcode].
func Lookup(op byte) (*Definition, error) {
	def, ok := definitions[Opcode(op)]
	if !ok {
		return nil, fmt.Errorf("opcode %d undefined", op)
	}
	return def, nil
}

// Make creates a byte slice representing an instruction using the provided opcode and operands.
func Make(op Opcode, operands ...int) []byte {
	def, ok := definitions[op]
	if !ok {
		return []byte{}
	}
	instructionLen := 1
	for _, w := range def.OperandWidths {
		instructionLen += w
	}
	instruction := make([]byte, instructionLen)
	instruction[0] = byte(op)
	offset := 1
	for i, operand := range operands {
		width := def.OperandWidths[i]
		switch width {
		case 1:
			instruction[offset] = byte(operand)
		case 2:
			binary.BigEndian.PutUint16(instruction[offset:], uint16(operand))
		}
		offset += width
	}
	return instruction
}

// String provides a human-readable string representation of the [Instructions], formatted with opcodes and operands.
func (ins Instructions) String() string {
	var out strings.Builder

	i := 0
	for i < len(ins) {
		def, err := Lookup(ins[i])
		if err != nil {
			_, _ = fmt.Fprintf(&out, "ERROR: %s\n", err)
			continue
		}
		operands, read := ReadOperands(def, ins[i+1:])
		_, _ = fmt.Fprintf(&out, "%04d %s\n", i, ins.fmtInstruction(def, operands))
		i += read + 1
	}

	return out.String()
}

// fmtInstruction formats an instruction with its operands into a human-readable string representation.
func (ins Instructions) fmtInstruction(def *Definition, operands []int) string {
	operandCount := len(def.OperandWidths)

	if len(operands) != operandCount {
		return fmt.Sprintf("ERROR: operand len %d does not match defined %d\n", len(operands), operandCount)
	}

	switch operandCount {
	case 0:
		return def.Name
	case 1:
		return fmt.Sprintf("%s %d", def.Name, operands[0])
	case 2:
		return fmt.Sprintf("%s %d %d", def.Name, operands[0], operands[1])
	}
	return fmt.Sprintf("ERROR: unhandled operandCount for %s\n", def.Name)
}

// ReadOperands decodes operands from the specified instructions based
// on the definition and returns them with the total bytes read.
func ReadOperands(def *Definition, ins Instructions) ([]int, int) {
	operands := make([]int, len(def.OperandWidths))
	offset := 0

	for i, width := range def.OperandWidths {
		switch width {
		case 1:
			operands[i] = int(ReadUint8(ins[offset:]))
		case 2:
			operands[i] = int(ReadUint16(ins[offset:]))
		}
		offset += width
	}
	return operands, offset
}

// ReadUint16 decodes the first two bytes of the provided [Instructions] as uint16 in big-endian format.
func ReadUint16(ins Instructions) uint16 {
	return binary.BigEndian.Uint16(ins)
}

// ReadUint8 extracts the first byte from the provided [Instructions] slice and returns it as uint8.
func ReadUint8(ins Instructions) uint8 { return ins[0] }
