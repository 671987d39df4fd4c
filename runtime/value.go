// Package runtime defines the value system executed by the Go-native
// reference virtual machine (package vm) and rendered, in equivalent form,
// by the target-language interpreter emitter (package emitter).
//
// Key components:
//   - [Value] interface: the base type of every runtime value
//   - Concrete value types ([Number], [String], [Bool], [Null], [Undefined],
//     [Array], [Object], [CompiledFunction], [Closure], [Builtin])
//   - [Builtins]: the host intrinsics available to compiled programs
package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dr8co/vmask/code"
)

//nolint:revive
const (
	NUMBER_OBJ   = "NUMBER"
	STRING_OBJ   = "STRING"
	BOOL_OBJ     = "BOOL"
	NULL_OBJ     = "NULL"
	UNDEF_OBJ    = "UNDEFINED"
	ARRAY_OBJ    = "ARRAY"
	OBJECT_OBJ   = "OBJECT"
	FUNCTION_OBJ = "COMPILED_FUNCTION"
	CLOSURE_OBJ  = "CLOSURE"
	BUILTIN_OBJ  = "BUILTIN"
)

// Type identifies the runtime category of a [Value].
type Type string

// Value is the interface implemented by every runtime value.
type Value interface {
	Type() Type
	Inspect() string
}

// Number is a JS-like double-precision number.
type Number struct{ Value float64 }

func (n *Number) Type() Type { return NUMBER_OBJ }
func (n *Number) Inspect() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// String is a JS-like string value.
type String struct{ Value string }

func (s *String) Type() Type      { return STRING_OBJ }
func (s *String) Inspect() string { return s.Value }

// Bool is a boolean value.
type Bool struct{ Value bool }

func (b *Bool) Type() Type      { return BOOL_OBJ }
func (b *Bool) Inspect() string { return strconv.FormatBool(b.Value) }

// Null is the singleton `null` value.
type Null struct{}

func (n *Null) Type() Type      { return NULL_OBJ }
func (n *Null) Inspect() string { return "null" }

// Undefined is the singleton `undefined` value.
type Undefined struct{}

func (u *Undefined) Type() Type      { return UNDEF_OBJ }
func (u *Undefined) Inspect() string { return "undefined" }

// Singleton instances shared by the vm and the compiler's folded constants.
var (
	NullValue      = &Null{}
	UndefinedValue = &Undefined{}
	TrueValue      = &Bool{Value: true}
	FalseValue     = &Bool{Value: false}
)

// Array is a JS-like dense array.
type Array struct{ Elements []Value }

func (a *Array) Type() Type { return ARRAY_OBJ }
func (a *Array) Inspect() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Object is a JS-like property bag with insertion-ordered keys.
type Object struct {
	Properties map[string]Value
	Keys       []string
}

// NewObject creates an empty Object.
func NewObject() *Object {
	return &Object{Properties: make(map[string]Value)}
}

// Get reads a property, returning [UndefinedValue] if absent.
func (o *Object) Get(name string) Value {
	if v, ok := o.Properties[name]; ok {
		return v
	}
	return UndefinedValue
}

// Set assigns a property, recording insertion order for new keys.
func (o *Object) Set(name string, v Value) {
	if _, exists := o.Properties[name]; !exists {
		o.Keys = append(o.Keys, name)
	}
	o.Properties[name] = v
}

func (o *Object) Type() Type { return OBJECT_OBJ }
func (o *Object) Inspect() string {
	parts := make([]string, 0, len(o.Keys))
	for _, k := range o.Keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, o.Properties[k].Inspect()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// CompiledFunction is the bytecode body produced by the compiler for a
// function literal, stored as a [pool.Function]-shaped constant.
type CompiledFunction struct {
	Instructions  code.Instructions
	NumLocals     int
	NumParameters int
	Name          string
}

func (c *CompiledFunction) Type() Type      { return FUNCTION_OBJ }
func (c *CompiledFunction) Inspect() string { return fmt.Sprintf("function[%p]", c) }

// Closure pairs a CompiledFunction with the free variables captured from its
// defining scope.
type Closure struct {
	Fn   *CompiledFunction
	Free []Value
}

func (c *Closure) Type() Type      { return CLOSURE_OBJ }
func (c *Closure) Inspect() string { return fmt.Sprintf("closure[%p]", c) }

// BuiltinFunction is a host function's Go implementation. this is the fresh
// instance when the builtin is invoked through NEW_INSTANCE and
// [UndefinedValue] for every other call.
type BuiltinFunction func(this Value, args []Value) (Value, error)

// Builtin wraps a host intrinsic so it can be passed around as a [Value].
type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (b *Builtin) Type() Type      { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string { return "builtin function " + b.Name }

// Truthy implements JS-like truthiness coercion.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case *Bool:
		return v.Value
	case *Null:
		return false
	case *Undefined:
		return false
	case *Number:
		return v.Value != 0
	case *String:
		return v.Value != ""
	default:
		return true
	}
}

// Equals implements JS-like strict equality (===) for the value kinds this
// runtime supports; loose equality is not modeled.
func Equals(a, b Value) bool {
	switch a := a.(type) {
	case *Number:
		bv, ok := b.(*Number)
		return ok && a.Value == bv.Value
	case *String:
		bv, ok := b.(*String)
		return ok && a.Value == bv.Value
	case *Bool:
		bv, ok := b.(*Bool)
		return ok && a.Value == bv.Value
	case *Null:
		_, ok := b.(*Null)
		return ok
	case *Undefined:
		_, ok := b.(*Undefined)
		return ok
	default:
		return a == b
	}
}
