package runtime

import "testing"

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"true bool", TrueValue, true},
		{"false bool", FalseValue, false},
		{"null", NullValue, false},
		{"undefined", UndefinedValue, false},
		{"zero number", &Number{Value: 0}, false},
		{"nonzero number", &Number{Value: -1}, true},
		{"empty string", &String{Value: ""}, false},
		{"nonempty string", &String{Value: "x"}, true},
		{"array", &Array{}, true},
		{"object", NewObject(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truthy(tt.v); got != tt.want {
				t.Errorf("Truthy(%v) = %v, want %v", tt.v.Inspect(), got, tt.want)
			}
		})
	}
}

func TestEquals(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"equal numbers", &Number{Value: 1}, &Number{Value: 1}, true},
		{"different numbers", &Number{Value: 1}, &Number{Value: 2}, false},
		{"equal strings", &String{Value: "a"}, &String{Value: "a"}, true},
		{"different strings", &String{Value: "a"}, &String{Value: "b"}, false},
		{"number vs string", &Number{Value: 1}, &String{Value: "1"}, false},
		{"null vs null", NullValue, NullValue, true},
		{"null vs undefined", NullValue, UndefinedValue, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equals(tt.a, tt.b); got != tt.want {
				t.Errorf("Equals(%v, %v) = %v, want %v", tt.a.Inspect(), tt.b.Inspect(), got, tt.want)
			}
		})
	}
}

func TestEqualsObjectIdentity(t *testing.T) {
	o1 := NewObject()
	o2 := NewObject()

	if !Equals(o1, o1) {
		t.Error("an object must equal itself")
	}
	if Equals(o1, o2) {
		t.Error("two distinct objects with the same contents must not be equal")
	}
}

func TestObjectPreservesInsertionOrder(t *testing.T) {
	o := NewObject()
	o.Set("b", &Number{Value: 2})
	o.Set("a", &Number{Value: 1})
	o.Set("b", &Number{Value: 20})

	want := []string{"b", "a"}
	if len(o.Keys) != len(want) {
		t.Fatalf("want %d keys, got %d", len(want), len(o.Keys))
	}
	for i, k := range want {
		if o.Keys[i] != k {
			t.Errorf("key %d: want %q, got %q", i, k, o.Keys[i])
		}
	}
	if o.Get("b").(*Number).Value != 20 {
		t.Errorf("re-setting an existing key should overwrite its value without adding a new slot")
	}
}

func TestObjectGetMissingReturnsUndefined(t *testing.T) {
	o := NewObject()
	if o.Get("missing") != UndefinedValue {
		t.Error("Get on a missing key should return UndefinedValue")
	}
}
