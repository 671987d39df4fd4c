package vm

import (
	"fmt"
	"math"

	"github.com/dr8co/vmask/code"
	"github.com/dr8co/vmask/pool"
	"github.com/dr8co/vmask/runtime"
)

// constantValue materializes the runtime value for a LOAD_CONST operand.
func (vm *VM) constantValue(idx int) (runtime.Value, error) {
	entry := vm.pool.Get(idx)
	switch entry.Tag {
	case pool.TagPrimitive:
		if entry.IsBool {
			return boolFor(entry.Bool), nil
		}
		return &runtime.Number{Value: entry.Number}, nil
	case pool.TagString:
		return &runtime.String{Value: entry.Str}, nil
	default:
		return nil, fmt.Errorf("constant %d is not loadable", idx)
	}
}

// identifierAt reads a TagIdentifier pool entry's name, used for operator
// tokens and property names.
func (vm *VM) identifierAt(idx int) (string, error) {
	entry := vm.pool.Get(idx)
	if entry.Tag != pool.TagIdentifier {
		return "", fmt.Errorf("constant %d is not an identifier", idx)
	}
	return entry.Str, nil
}

// offsetAt reads a TagOffset pool entry's displacement.
func (vm *VM) offsetAt(idx int) (int, error) {
	entry := vm.pool.Get(idx)
	if entry.Tag != pool.TagOffset {
		return 0, fmt.Errorf("constant %d is not an offset", idx)
	}
	return entry.Offset, nil
}

// jumpTarget resolves a JUMP-family pool-index operand to an absolute
// instruction position, given the program counter immediately after the
// jump instruction.
func (vm *VM) jumpTarget(poolIndex, pcAfterJump int) (int, error) {
	off, err := vm.offsetAt(poolIndex)
	if err != nil {
		return 0, err
	}
	return pcAfterJump + off, nil
}

func boolFor(b bool) runtime.Value {
	if b {
		return runtime.TrueValue
	}
	return runtime.FalseValue
}

func valueType(v runtime.Value) runtime.Type {
	if v == nil {
		return "NIL"
	}
	return v.Type()
}

func (vm *VM) loadVar(frame *Frame, scope code.VarScope, idx int) (runtime.Value, error) {
	switch scope {
	case code.ScopeGlobal:
		return vm.globals[idx], nil
	case code.ScopeLocal:
		return vm.stack[frame.basePointer+idx], nil
	case code.ScopeFree:
		return frame.cl.Free[idx], nil
	case code.ScopeBuiltin:
		if idx < 0 || idx >= len(runtime.Builtins) {
			return nil, fmt.Errorf("undefined builtin %d", idx)
		}
		return runtime.Builtins[idx].Value, nil
	case code.ScopeFunction:
		return frame.cl, nil
	default:
		return nil, fmt.Errorf("unknown variable scope %d", scope)
	}
}

func (vm *VM) storeVar(frame *Frame, scope code.VarScope, idx int, v runtime.Value) {
	switch scope {
	case code.ScopeGlobal:
		vm.globals[idx] = v
	case code.ScopeLocal:
		vm.stack[frame.basePointer+idx] = v
	case code.ScopeFree:
		frame.cl.Free[idx] = v
	}
}

// unwindToHandler searches for the innermost handler with an active catch
// clause, starting at the current frame and working outward through the
// call stack. Handlers opened with only a finally clause do not catch: they
// are popped as the search passes them, leaving their finally body to run
// only on the normal-completion path already wired by the compiler. This is
// a deliberate simplification; see the compiler's try/catch/finally lowering.
func (vm *VM) unwindToHandler(exc runtime.Value) bool {
	for vm.framesIndex >= 1 {
		frame := vm.currentFrame()
		for len(frame.handlers) > 0 {
			h := frame.handlers[len(frame.handlers)-1]
			frame.handlers = frame.handlers[:len(frame.handlers)-1]
			if h.catchPC == -1 {
				continue
			}
			vm.sp = h.stackPointer
			vm.pendingException = exc
			frame.ip = h.catchPC - 1
			return true
		}
		if vm.framesIndex == 1 {
			return false
		}
		vm.popFrame()
	}
	return false
}

func loadProperty(receiver runtime.Value, name string) (runtime.Value, error) {
	switch r := receiver.(type) {
	case *runtime.Object:
		return r.Get(name), nil
	case *runtime.Array:
		if name == "length" {
			return &runtime.Number{Value: float64(len(r.Elements))}, nil
		}
		return runtime.UndefinedValue, nil
	case *runtime.String:
		if name == "length" {
			return &runtime.Number{Value: float64(len(r.Value))}, nil
		}
		return runtime.UndefinedValue, nil
	default:
		return nil, &TypeMismatchError{Op: "LOAD_PROPERTY", Want: "object", Got: string(valueType(receiver))}
	}
}

func loadIndex(collection, index runtime.Value) (runtime.Value, error) {
	switch c := collection.(type) {
	case *runtime.Array:
		n, ok := index.(*runtime.Number)
		if !ok {
			return nil, &TypeMismatchError{Op: "LOAD_INDEX", Want: "number index", Got: string(valueType(index))}
		}
		i := int(n.Value)
		if i < 0 || i >= len(c.Elements) {
			return runtime.UndefinedValue, nil
		}
		return c.Elements[i], nil
	case *runtime.Object:
		s, ok := index.(*runtime.String)
		if !ok {
			return nil, &TypeMismatchError{Op: "LOAD_INDEX", Want: "string index", Got: string(valueType(index))}
		}
		return c.Get(s.Value), nil
	case *runtime.String:
		n, ok := index.(*runtime.Number)
		if !ok {
			return nil, &TypeMismatchError{Op: "LOAD_INDEX", Want: "number index", Got: string(valueType(index))}
		}
		i := int(n.Value)
		if i < 0 || i >= len(c.Value) {
			return runtime.UndefinedValue, nil
		}
		return &runtime.String{Value: string(c.Value[i])}, nil
	default:
		return nil, &TypeMismatchError{Op: "LOAD_INDEX", Want: "array, object, or string", Got: string(valueType(collection))}
	}
}

func storeIndex(collection, index, value runtime.Value) error {
	switch c := collection.(type) {
	case *runtime.Array:
		n, ok := index.(*runtime.Number)
		if !ok {
			return &TypeMismatchError{Op: "STORE_INDEX", Want: "number index", Got: string(valueType(index))}
		}
		i := int(n.Value)
		if i < 0 {
			return fmt.Errorf("negative array index %d", i)
		}
		for i >= len(c.Elements) {
			c.Elements = append(c.Elements, runtime.UndefinedValue)
		}
		c.Elements[i] = value
		return nil
	case *runtime.Object:
		s, ok := index.(*runtime.String)
		if !ok {
			return &TypeMismatchError{Op: "STORE_INDEX", Want: "string index", Got: string(valueType(index))}
		}
		c.Set(s.Value, value)
		return nil
	default:
		return &TypeMismatchError{Op: "STORE_INDEX", Want: "array or object", Got: string(valueType(collection))}
	}
}

// executeCall dispatches CALL_FUNCTION/NEW_INSTANCE to a closure or builtin.
// thisValue is Undefined for a regular call and the freshly created instance
// for NEW_INSTANCE; see the vm's documented simplification of `this` binding.
func (vm *VM) executeCall(numArgs int, thisValue runtime.Value) error {
	callee := vm.stack[vm.sp-1-numArgs]
	switch fn := callee.(type) {
	case *runtime.Closure:
		return vm.callClosure(fn, numArgs, thisValue)
	case *runtime.Builtin:
		args := make([]runtime.Value, numArgs)
		copy(args, vm.stack[vm.sp-numArgs:vm.sp])
		result, err := fn.Fn(thisValue, args)
		if err != nil {
			return err
		}
		vm.sp = vm.sp - numArgs - 1
		return vm.push(result)
	default:
		return &TypeMismatchError{Op: "CALL_FUNCTION", Want: "function", Got: string(valueType(callee))}
	}
}

func (vm *VM) callClosure(cl *runtime.Closure, numArgs int, thisValue runtime.Value) error {
	if numArgs != cl.Fn.NumParameters {
		return fmt.Errorf("wrong number of arguments: want %d, got %d", cl.Fn.NumParameters, numArgs)
	}
	basePointer := vm.sp - numArgs
	frame := NewFrame(cl, basePointer)
	frame.this = thisValue
	if err := vm.pushFrame(frame); err != nil {
		return err
	}
	vm.sp = basePointer + cl.Fn.NumLocals
	return nil
}

func executeBinaryOp(operator string, left, right runtime.Value) (runtime.Value, error) {
	ln, lIsNum := left.(*runtime.Number)
	rn, rIsNum := right.(*runtime.Number)

	if lIsNum && rIsNum {
		return executeNumberBinaryOp(operator, ln.Value, rn.Value)
	}

	ls, lIsStr := left.(*runtime.String)
	rs, rIsStr := right.(*runtime.String)
	if operator == "+" && (lIsStr || rIsStr) {
		return &runtime.String{Value: inspectFor(left, ls, lIsStr) + inspectFor(right, rs, rIsStr)}, nil
	}

	switch operator {
	case "===", "==":
		return boolFor(runtime.Equals(left, right)), nil
	case "!==", "!=":
		return boolFor(!runtime.Equals(left, right)), nil
	default:
		return nil, &BadOperatorError{Operator: operator, Types: string(valueType(left)) + ", " + string(valueType(right))}
	}
}

func inspectFor(v runtime.Value, s *runtime.String, isStr bool) string {
	if isStr {
		return s.Value
	}
	return v.Inspect()
}

func executeNumberBinaryOp(operator string, left, right float64) (runtime.Value, error) {
	switch operator {
	case "+":
		return &runtime.Number{Value: left + right}, nil
	case "-":
		return &runtime.Number{Value: left - right}, nil
	case "*":
		return &runtime.Number{Value: left * right}, nil
	case "/":
		return &runtime.Number{Value: left / right}, nil
	case "%":
		return &runtime.Number{Value: math.Mod(left, right)}, nil
	case "**":
		return &runtime.Number{Value: math.Pow(left, right)}, nil
	case "<":
		return boolFor(left < right), nil
	case ">":
		return boolFor(left > right), nil
	case "<=":
		return boolFor(left <= right), nil
	case ">=":
		return boolFor(left >= right), nil
	case "==", "===":
		return boolFor(left == right), nil
	case "!=", "!==":
		return boolFor(left != right), nil
	case "&":
		return &runtime.Number{Value: float64(int64(left) & int64(right))}, nil
	case "|":
		return &runtime.Number{Value: float64(int64(left) | int64(right))}, nil
	case "^":
		return &runtime.Number{Value: float64(int64(left) ^ int64(right))}, nil
	case "<<":
		return &runtime.Number{Value: float64(int64(left) << uint(int64(right)))}, nil
	case ">>":
		return &runtime.Number{Value: float64(int64(left) >> uint(int64(right)))}, nil
	default:
		return nil, &BadOperatorError{Operator: operator, Types: "number, number"}
	}
}

func executeUnaryOp(operator string, operand runtime.Value) (runtime.Value, error) {
	switch operator {
	case "!":
		return boolFor(!runtime.Truthy(operand)), nil
	case "-":
		n, ok := operand.(*runtime.Number)
		if !ok {
			return nil, &TypeMismatchError{Op: "UNARY_OP -", Want: "number", Got: string(valueType(operand))}
		}
		return &runtime.Number{Value: -n.Value}, nil
	case "+":
		n, ok := operand.(*runtime.Number)
		if !ok {
			return nil, &TypeMismatchError{Op: "UNARY_OP +", Want: "number", Got: string(valueType(operand))}
		}
		return &runtime.Number{Value: n.Value}, nil
	case "~":
		n, ok := operand.(*runtime.Number)
		if !ok {
			return nil, &TypeMismatchError{Op: "UNARY_OP ~", Want: "number", Got: string(valueType(operand))}
		}
		return &runtime.Number{Value: float64(^int64(n.Value))}, nil
	case "typeof":
		return &runtime.String{Value: typeofString(operand)}, nil
	case "void":
		return runtime.UndefinedValue, nil
	case "delete":
		return runtime.TrueValue, nil
	case "??defined":
		_, isNull := operand.(*runtime.Null)
		_, isUndef := operand.(*runtime.Undefined)
		return boolFor(isNull || isUndef), nil
	default:
		return nil, &BadOperatorError{Operator: operator, Types: string(valueType(operand))}
	}
}

func typeofString(v runtime.Value) string {
	switch v.(type) {
	case *runtime.Number:
		return "number"
	case *runtime.String:
		return "string"
	case *runtime.Bool:
		return "boolean"
	case *runtime.Undefined:
		return "undefined"
	case *runtime.Null:
		return "object"
	case *runtime.Array, *runtime.Object:
		return "object"
	case *runtime.Closure, *runtime.Builtin:
		return "function"
	default:
		return "undefined"
	}
}
