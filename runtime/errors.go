package runtime

import "fmt"

// Thrown wraps a value raised by a THROW instruction so it can travel as a
// Go error when it escapes every TRY_BEGIN/CATCH frame in the program.
type Thrown struct {
	Value Value
}

func (t *Thrown) Error() string { return "uncaught exception: " + t.Value.Inspect() }

// NewError builds a JS-like Error object carrying message, the shape THROW
// typically raises for host-detected failures (type mismatches, bad arity).
func NewError(format string, a ...any) *Object {
	obj := NewObject()
	obj.Set("name", &String{Value: "Error"})
	obj.Set("message", &String{Value: fmt.Sprintf(format, a...)})
	return obj
}
