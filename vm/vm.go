// Package vm implements the reference virtual machine for the fixed
// bytecode instruction set defined by package code.
//
// The vm exists to validate programs before they are handed to the cipher
// encoders and rendered by the interpreter emitter: any program this vm
// runs correctly is, instruction for instruction, what the emitted
// target-language interpreter will execute. It is a stack machine with a
// call stack of frames, closures over free variables, and a simplified
// exception-unwinding model driven by TRY_BEGIN/TRY_END/CATCH/THROW.
package vm

import (
	"fmt"

	"github.com/dr8co/vmask/code"
	"github.com/dr8co/vmask/compiler"
	"github.com/dr8co/vmask/pool"
	"github.com/dr8co/vmask/runtime"
)

const (
	// StackSize is the fixed capacity of the value stack.
	StackSize = 2048

	// GlobalsSize is the fixed capacity of global variable storage.
	GlobalsSize = 65536

	// MaxFrames is the fixed capacity of the call stack.
	MaxFrames = 1024
)

// VM executes compiled bytecode against a constant pool.
type VM struct {
	pool *pool.Pool

	stack []runtime.Value
	sp    int // always points to the next free slot; top of stack is stack[sp-1]

	globals []runtime.Value

	frames      []*Frame
	framesIndex int

	// pendingException holds the value most recently delivered to a CATCH
	// instruction by unwindToHandler, cleared once CATCH consumes it.
	pendingException runtime.Value
}

// New creates a VM ready to run the given bytecode with fresh global storage.
func New(bc *compiler.Bytecode) *VM {
	mainFn := &runtime.CompiledFunction{Instructions: bc.Instructions}
	mainClosure := &runtime.Closure{Fn: mainFn}
	mainFrame := NewFrame(mainClosure, 0)

	frames := make([]*Frame, MaxFrames)
	frames[0] = mainFrame

	return &VM{
		pool:        bc.Pool,
		stack:       make([]runtime.Value, StackSize),
		sp:          0,
		globals:     make([]runtime.Value, GlobalsSize),
		frames:      frames,
		framesIndex: 1,
	}
}

// NewWithGlobalsStore creates a VM that uses the given global storage, such
// as the globals slice of a prior run, in place of a fresh one.
func NewWithGlobalsStore(bc *compiler.Bytecode, globals []runtime.Value) *VM {
	v := New(bc)
	v.globals = globals
	return v
}

func (vm *VM) currentFrame() *Frame {
	return vm.frames[vm.framesIndex-1]
}

func (vm *VM) pushFrame(f *Frame) error {
	if vm.framesIndex >= MaxFrames {
		return &StackOverflowError{Limit: MaxFrames}
	}
	vm.frames[vm.framesIndex] = f
	vm.framesIndex++
	return nil
}

func (vm *VM) popFrame() *Frame {
	vm.framesIndex--
	return vm.frames[vm.framesIndex]
}

// LastPoppedStackElem returns the value most recently popped off the stack,
// the result of the last top-level expression statement (POP leaves sp
// pointing just past it).
func (vm *VM) LastPoppedStackElem() runtime.Value {
	return vm.stack[vm.sp]
}

func (vm *VM) push(v runtime.Value) error {
	if vm.sp >= StackSize {
		return &StackOverflowError{Limit: StackSize}
	}
	vm.stack[vm.sp] = v
	vm.sp++
	return nil
}

func (vm *VM) pop() runtime.Value {
	v := vm.stack[vm.sp-1]
	vm.sp--
	return v
}

// Run executes the vm's bytecode to completion.
func (vm *VM) Run() error {
	for vm.currentFrame().ip < len(vm.currentFrame().Instructions())-1 {
		frame := vm.currentFrame()
		frame.ip++
		ip := frame.ip
		ins := frame.Instructions()
		op := code.Opcode(ins[ip])

		switch op {
		case code.LoadConst:
			idx := int(code.ReadUint16(ins[ip+1:]))
			frame.ip += 2
			v, err := vm.constantValue(idx)
			if err != nil {
				return err
			}
			if err := vm.push(v); err != nil {
				return err
			}

		case code.Pop:
			vm.pop()

		case code.Duplicate:
			if err := vm.push(vm.stack[vm.sp-1]); err != nil {
				return err
			}

		case code.LoadVar:
			scope := code.VarScope(ins[ip+1])
			idx := int(code.ReadUint16(ins[ip+2:]))
			frame.ip += 3
			v, err := vm.loadVar(frame, scope, idx)
			if err != nil {
				return err
			}
			if err := vm.push(v); err != nil {
				return err
			}

		case code.StoreVar:
			scope := code.VarScope(ins[ip+1])
			idx := int(code.ReadUint16(ins[ip+2:]))
			frame.ip += 3
			vm.storeVar(frame, scope, idx, vm.pop())

		case code.BinaryOp:
			idx := int(code.ReadUint16(ins[ip+1:]))
			frame.ip += 2
			operator, err := vm.identifierAt(idx)
			if err != nil {
				return err
			}
			right := vm.pop()
			left := vm.pop()
			result, err := executeBinaryOp(operator, left, right)
			if err != nil {
				return err
			}
			if err := vm.push(result); err != nil {
				return err
			}

		case code.UnaryOp:
			idx := int(code.ReadUint16(ins[ip+1:]))
			frame.ip += 2
			operator, err := vm.identifierAt(idx)
			if err != nil {
				return err
			}
			operand := vm.pop()
			result, err := executeUnaryOp(operator, operand)
			if err != nil {
				return err
			}
			if err := vm.push(result); err != nil {
				return err
			}

		case code.LogicalOp:
			// Never emitted by the compiler (see compileLogical); kept
			// executable for bytecode produced by other front ends.
			idx := int(code.ReadUint16(ins[ip+1:]))
			frame.ip += 2
			operator, err := vm.identifierAt(idx)
			if err != nil {
				return err
			}
			right := vm.pop()
			left := vm.pop()
			switch operator {
			case "&&":
				if err := vm.push(boolFor(runtime.Truthy(left) && runtime.Truthy(right))); err != nil {
					return err
				}
			case "||":
				if err := vm.push(boolFor(runtime.Truthy(left) || runtime.Truthy(right))); err != nil {
					return err
				}
			default:
				return &BadOperatorError{Operator: operator, Types: "logical"}
			}

		case code.Jump:
			target, err := vm.jumpTarget(int(code.ReadUint16(ins[ip+1:])), ip+3)
			if err != nil {
				return err
			}
			frame.ip = target - 1

		case code.JumpIfTrue:
			target, err := vm.jumpTarget(int(code.ReadUint16(ins[ip+1:])), ip+3)
			if err != nil {
				return err
			}
			frame.ip += 2
			if runtime.Truthy(vm.pop()) {
				frame.ip = target - 1
			}

		case code.JumpIfFalse:
			target, err := vm.jumpTarget(int(code.ReadUint16(ins[ip+1:])), ip+3)
			if err != nil {
				return err
			}
			frame.ip += 2
			if !runtime.Truthy(vm.pop()) {
				frame.ip = target - 1
			}

		case code.Undefined:
			if err := vm.push(runtime.UndefinedValue); err != nil {
				return err
			}

		case code.Null:
			if err := vm.push(runtime.NullValue); err != nil {
				return err
			}

		case code.This:
			if err := vm.push(frame.this); err != nil {
				return err
			}

		case code.CreateArray:
			count := int(code.ReadUint16(ins[ip+1:]))
			frame.ip += 2
			elems := make([]runtime.Value, count)
			copy(elems, vm.stack[vm.sp-count:vm.sp])
			vm.sp -= count
			if err := vm.push(&runtime.Array{Elements: elems}); err != nil {
				return err
			}

		case code.ArrayPush:
			value := vm.pop()
			arr, ok := vm.pop().(*runtime.Array)
			if !ok {
				return &TypeMismatchError{Op: "ARRAY_PUSH", Want: "array", Got: string(valueType(arr))}
			}
			arr.Elements = append(arr.Elements, value)
			if err := vm.push(arr); err != nil {
				return err
			}

		case code.CreateObject:
			count := int(code.ReadUint16(ins[ip+1:]))
			frame.ip += 2
			obj := runtime.NewObject()
			start := vm.sp - count*2
			for i := start; i < vm.sp; i += 2 {
				key, ok := vm.stack[i].(*runtime.String)
				if !ok {
					return &TypeMismatchError{Op: "CREATE_OBJECT", Want: "string key", Got: string(valueType(vm.stack[i]))}
				}
				obj.Set(key.Value, vm.stack[i+1])
			}
			vm.sp = start
			if err := vm.push(obj); err != nil {
				return err
			}

		case code.LoadProperty:
			idx := int(code.ReadUint16(ins[ip+1:]))
			frame.ip += 2
			name, err := vm.identifierAt(idx)
			if err != nil {
				return err
			}
			receiver := vm.pop()
			v, err := loadProperty(receiver, name)
			if err != nil {
				return err
			}
			if err := vm.push(v); err != nil {
				return err
			}

		case code.StoreProperty:
			idx := int(code.ReadUint16(ins[ip+1:]))
			frame.ip += 2
			name, err := vm.identifierAt(idx)
			if err != nil {
				return err
			}
			value := vm.pop()
			receiver := vm.pop()
			obj, ok := receiver.(*runtime.Object)
			if !ok {
				return &TypeMismatchError{Op: "STORE_PROPERTY", Want: "object", Got: string(valueType(receiver))}
			}
			obj.Set(name, value)
			if err := vm.push(value); err != nil {
				return err
			}

		case code.LoadIndex:
			index := vm.pop()
			collection := vm.pop()
			v, err := loadIndex(collection, index)
			if err != nil {
				return err
			}
			if err := vm.push(v); err != nil {
				return err
			}

		case code.StoreIndex:
			value := vm.pop()
			index := vm.pop()
			collection := vm.pop()
			if err := storeIndex(collection, index, value); err != nil {
				return err
			}
			if err := vm.push(value); err != nil {
				return err
			}

		case code.CreateFunction:
			fnIndex := int(code.ReadUint16(ins[ip+1:]))
			numFree := int(ins[ip+3])
			frame.ip += 3
			entry := vm.pool.Get(fnIndex)
			if entry.Tag != pool.TagFunction {
				return fmt.Errorf("constant %d is not a function", fnIndex)
			}
			free := make([]runtime.Value, numFree)
			copy(free, vm.stack[vm.sp-numFree:vm.sp])
			vm.sp -= numFree
			cl := &runtime.Closure{
				Fn: &runtime.CompiledFunction{
					Instructions:  entry.Function.Instructions,
					NumLocals:     entry.Function.NumLocals,
					NumParameters: entry.Function.NumParameters,
					Name:          entry.Function.Name,
				},
				Free: free,
			}
			if err := vm.push(cl); err != nil {
				return err
			}

		case code.CallFunction:
			numArgs := int(ins[ip+1])
			frame.ip += 1
			if err := vm.executeCall(numArgs, runtime.UndefinedValue); err != nil {
				return err
			}

		case code.NewInstance:
			numArgs := int(ins[ip+1])
			frame.ip += 1
			instance := runtime.NewObject()
			if err := vm.executeCall(numArgs, instance); err != nil {
				return err
			}

		case code.Return:
			returnValue := vm.pop()
			f := vm.popFrame()
			vm.sp = f.basePointer - 1
			// A frame entered through NEW_INSTANCE has the fresh instance as
			// its receiver; unless the constructor returned an object or
			// array, the instance is the result.
			if inst, ok := f.this.(*runtime.Object); ok {
				switch returnValue.(type) {
				case *runtime.Object, *runtime.Array:
				default:
					returnValue = inst
				}
			}
			if err := vm.push(returnValue); err != nil {
				return err
			}

		case code.TryBegin:
			catchOff := int(code.ReadUint16(ins[ip+1:]))
			finallyOff := int(code.ReadUint16(ins[ip+3:]))
			frame.ip += 4
			pcAfter := frame.ip + 1
			h := handler{stackPointer: vm.sp, catchPC: -1, finallyPC: -1}
			if off, err := vm.offsetAt(catchOff); err == nil && off != -1 {
				h.catchPC = pcAfter + off
			}
			if off, err := vm.offsetAt(finallyOff); err == nil && off != -1 {
				h.finallyPC = pcAfter + off
			}
			frame.handlers = append(frame.handlers, h)

		case code.TryEnd:
			if len(frame.handlers) > 0 {
				frame.handlers = frame.handlers[:len(frame.handlers)-1]
			}

		case code.Catch:
			if err := vm.push(vm.pendingException); err != nil {
				return err
			}
			vm.pendingException = nil

		case code.Throw:
			exc := vm.pop()
			if !vm.unwindToHandler(exc) {
				return &runtime.Thrown{Value: exc}
			}

		case code.Nop:
			// no-op, used as dead-code filler.

		default:
			return &BadOpcodeError{Opcode: byte(op), IP: ip}
		}
	}
	return nil
}
