package vm

import (
	"github.com/dr8co/vmask/code"
	"github.com/dr8co/vmask/runtime"
)

// Frame represents an execution frame used to track the state of function calls in the virtual machine.
type Frame struct {
	// cl is a reference to a runtime.Closure,
	// representing a compiled function and its free variables in the execution frame.
	cl *runtime.Closure

	// ip is the instruction pointer that tracks the current instruction being executed within the frame.
	ip int

	// basePointer is the index in the VM's stack, marking the beginning of the current frame's execution context.
	basePointer int

	// this is the `this` binding active for this frame. Regular calls bind
	// Undefined; NEW_INSTANCE binds the newly created instance.
	this runtime.Value

	// handlers is the stack of active exception handlers opened by TRY_BEGIN
	// within this frame, innermost last.
	handlers []handler
}

// handler records one active protected region: the stack depth to restore
// to when unwinding, and the catch/finally entry points as absolute
// instruction offsets (-1 if absent).
type handler struct {
	stackPointer int
	catchPC      int
	finallyPC    int
}

// NewFrame creates a new execution frame for a given closure and base pointer in the virtual machine's stack.
func NewFrame(cl *runtime.Closure, basePointer int) *Frame {
	return &Frame{cl: cl, ip: -1, basePointer: basePointer, this: runtime.UndefinedValue}
}

// Instructions retrieves the bytecode instructions of the compiled function associated with the current frame.
func (f *Frame) Instructions() code.Instructions {
	return f.cl.Fn.Instructions
}
