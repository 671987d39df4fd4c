package runtime

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"strconv"
)

// Builtins is the fixed table of host intrinsics available to every
// compiled program, in the order the compiler's symbol table binds them
// (see compiler.New). A top-level entry may itself be an [*Object]
// namespace (Math, JSON, console) holding further [*Builtin] properties.
var Builtins = []struct {
	Name  string
	Value Value
}{
	{"NaN", &Number{Value: math.NaN()}},
	{"Infinity", &Number{Value: math.Inf(1)}},
	{"undefined", UndefinedValue},
	{"parseInt", &Builtin{Name: "parseInt", Fn: builtinParseInt}},
	{"parseFloat", &Builtin{Name: "parseFloat", Fn: builtinParseFloat}},
	{"isNaN", &Builtin{Name: "isNaN", Fn: builtinIsNaN}},
	{"String", &Builtin{Name: "String", Fn: builtinString}},
	{"Number", &Builtin{Name: "Number", Fn: builtinNumber}},
	{"Boolean", &Builtin{Name: "Boolean", Fn: builtinBoolean}},
	{"Math", mathNamespace()},
	{"JSON", jsonNamespace()},
	{"console", consoleNamespace()},
	{"Array", arrayNamespace()},
	{"Object", objectNamespace()},
}

// GetBuiltinByName retrieves a host intrinsic by its top-level binding name.
func GetBuiltinByName(name string) (Value, bool) {
	for _, b := range Builtins {
		if b.Name == name {
			return b.Value, true
		}
	}
	return nil, false
}

func argError(name string, got, want int) error {
	return &Thrown{Value: NewError("%s: expected %d argument(s), got %d", name, want, got)}
}

func typeError(name string) error {
	return &Thrown{Value: NewError("%s: unsupported argument type", name)}
}

func toFloat(v Value) (float64, bool) {
	n, ok := v.(*Number)
	if !ok {
		return 0, false
	}
	return n.Value, true
}

func builtinParseInt(_ Value, args []Value) (Value, error) {
	if len(args) < 1 {
		return nil, argError("parseInt", len(args), 1)
	}
	s, ok := args[0].(*String)
	if !ok {
		return nil, typeError("parseInt")
	}
	n, err := strconv.ParseInt(s.Value, 10, 64)
	if err != nil {
		return &Number{Value: math.NaN()}, nil
	}
	return &Number{Value: float64(n)}, nil
}

func builtinParseFloat(_ Value, args []Value) (Value, error) {
	if len(args) < 1 {
		return nil, argError("parseFloat", len(args), 1)
	}
	s, ok := args[0].(*String)
	if !ok {
		return nil, typeError("parseFloat")
	}
	n, err := strconv.ParseFloat(s.Value, 64)
	if err != nil {
		return &Number{Value: math.NaN()}, nil
	}
	return &Number{Value: n}, nil
}

func builtinIsNaN(_ Value, args []Value) (Value, error) {
	if len(args) < 1 {
		return nil, argError("isNaN", len(args), 1)
	}
	n, ok := toFloat(args[0])
	return &Bool{Value: !ok || math.IsNaN(n)}, nil
}

func builtinString(_ Value, args []Value) (Value, error) {
	if len(args) < 1 {
		return &String{Value: "undefined"}, nil
	}
	return &String{Value: args[0].Inspect()}, nil
}

func builtinNumber(_ Value, args []Value) (Value, error) {
	if len(args) < 1 {
		return &Number{Value: 0}, nil
	}
	switch v := args[0].(type) {
	case *Number:
		return v, nil
	case *Bool:
		if v.Value {
			return &Number{Value: 1}, nil
		}
		return &Number{Value: 0}, nil
	case *String:
		n, err := strconv.ParseFloat(v.Value, 64)
		if err != nil {
			return &Number{Value: math.NaN()}, nil
		}
		return &Number{Value: n}, nil
	default:
		return &Number{Value: math.NaN()}, nil
	}
}

func builtinBoolean(_ Value, args []Value) (Value, error) {
	if len(args) < 1 {
		return &Bool{Value: false}, nil
	}
	return &Bool{Value: Truthy(args[0])}, nil
}

func mathNamespace() *Object {
	ns := NewObject()
	ns.Set("PI", &Number{Value: math.Pi})
	ns.Set("E", &Number{Value: math.E})
	unary := func(name string, fn func(float64) float64) {
		ns.Set(name, &Builtin{Name: "Math." + name, Fn: func(_ Value, args []Value) (Value, error) {
			if len(args) < 1 {
				return nil, argError("Math."+name, len(args), 1)
			}
			n, ok := toFloat(args[0])
			if !ok {
				return nil, typeError("Math." + name)
			}
			return &Number{Value: fn(n)}, nil
		}})
	}
	unary("abs", math.Abs)
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("round", math.Round)
	unary("sqrt", math.Sqrt)
	ns.Set("pow", &Builtin{Name: "Math.pow", Fn: func(_ Value, args []Value) (Value, error) {
		if len(args) < 2 {
			return nil, argError("Math.pow", len(args), 2)
		}
		base, ok1 := toFloat(args[0])
		exp, ok2 := toFloat(args[1])
		if !ok1 || !ok2 {
			return nil, typeError("Math.pow")
		}
		return &Number{Value: math.Pow(base, exp)}, nil
	}})
	ns.Set("max", &Builtin{Name: "Math.max", Fn: func(_ Value, args []Value) (Value, error) {
		best := math.Inf(-1)
		for _, a := range args {
			n, ok := toFloat(a)
			if !ok {
				return nil, typeError("Math.max")
			}
			best = math.Max(best, n)
		}
		return &Number{Value: best}, nil
	}})
	ns.Set("min", &Builtin{Name: "Math.min", Fn: func(_ Value, args []Value) (Value, error) {
		best := math.Inf(1)
		for _, a := range args {
			n, ok := toFloat(a)
			if !ok {
				return nil, typeError("Math.min")
			}
			best = math.Min(best, n)
		}
		return &Number{Value: best}, nil
	}})
	ns.Set("random", &Builtin{Name: "Math.random", Fn: func(_ Value, _ []Value) (Value, error) {
		return &Number{Value: rand.Float64()}, nil
	}})
	return ns
}

// toPlain converts a runtime Value into a plain Go value suitable for
// encoding/json, for JSON.stringify.
func toPlain(v Value) any {
	switch v := v.(type) {
	case *Number:
		return v.Value
	case *String:
		return v.Value
	case *Bool:
		return v.Value
	case *Null:
		return nil
	case *Undefined:
		return nil
	case *Array:
		out := make([]any, len(v.Elements))
		for i, e := range v.Elements {
			out[i] = toPlain(e)
		}
		return out
	case *Object:
		out := make(map[string]any, len(v.Keys))
		for _, k := range v.Keys {
			out[k] = toPlain(v.Properties[k])
		}
		return out
	default:
		return v.Inspect()
	}
}

func jsonNamespace() *Object {
	ns := NewObject()
	ns.Set("stringify", &Builtin{Name: "JSON.stringify", Fn: func(_ Value, args []Value) (Value, error) {
		if len(args) < 1 {
			return nil, argError("JSON.stringify", len(args), 1)
		}
		b, err := json.Marshal(toPlain(args[0]))
		if err != nil {
			return nil, &Thrown{Value: NewError("JSON.stringify: %s", err)}
		}
		return &String{Value: string(b)}, nil
	}})
	return ns
}

func consoleNamespace() *Object {
	ns := NewObject()
	ns.Set("log", &Builtin{Name: "console.log", Fn: func(_ Value, args []Value) (Value, error) {
		parts := make([]any, len(args))
		for i, a := range args {
			parts[i] = a.Inspect()
		}
		fmt.Println(parts...)
		return UndefinedValue, nil
	}})
	return ns
}

func arrayNamespace() *Object {
	ns := NewObject()
	ns.Set("isArray", &Builtin{Name: "Array.isArray", Fn: func(_ Value, args []Value) (Value, error) {
		if len(args) < 1 {
			return nil, argError("Array.isArray", len(args), 1)
		}
		_, ok := args[0].(*Array)
		return &Bool{Value: ok}, nil
	}})
	return ns
}

func objectNamespace() *Object {
	ns := NewObject()
	ns.Set("keys", &Builtin{Name: "Object.keys", Fn: func(_ Value, args []Value) (Value, error) {
		obj, ok := args[0].(*Object)
		if len(args) < 1 || !ok {
			return nil, typeError("Object.keys")
		}
		elems := make([]Value, len(obj.Keys))
		for i, k := range obj.Keys {
			elems[i] = &String{Value: k}
		}
		return &Array{Elements: elems}, nil
	}})
	ns.Set("values", &Builtin{Name: "Object.values", Fn: func(_ Value, args []Value) (Value, error) {
		obj, ok := args[0].(*Object)
		if len(args) < 1 || !ok {
			return nil, typeError("Object.values")
		}
		elems := make([]Value, len(obj.Keys))
		for i, k := range obj.Keys {
			elems[i] = obj.Properties[k]
		}
		return &Array{Elements: elems}, nil
	}})
	ns.Set("assign", &Builtin{Name: "Object.assign", Fn: func(_ Value, args []Value) (Value, error) {
		if len(args) < 1 {
			return nil, argError("Object.assign", len(args), 1)
		}
		target, ok := args[0].(*Object)
		if !ok {
			return nil, typeError("Object.assign")
		}
		for _, src := range args[1:] {
			so, ok := src.(*Object)
			if !ok {
				continue
			}
			for _, k := range so.Keys {
				target.Set(k, so.Properties[k])
			}
		}
		return target, nil
	}})
	return ns
}
