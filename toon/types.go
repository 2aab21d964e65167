package toon

import "fmt"

// Type represents TOON value types.
type Type uint8

const (
	TypeNull Type = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeString
	TypeArray
	TypeObject
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value represents a TOON value: a scalar, an array, or an object with
// insertion-ordered fields.
type Value struct {
	typ Type

	// Scalar values (only one valid based on typ)
	boolVal  bool
	intVal   int64
	floatVal float64
	strVal   string

	// Container values
	arrVal []*Value
	objVal []Field
}

// Field represents a key-value pair in an object.
type Field struct {
	Key   string
	Value *Value
}

// ============================================================
// Constructors
// ============================================================

// Null creates a null value.
func Null() *Value {
	return &Value{typ: TypeNull}
}

// Bool creates a boolean value.
func Bool(v bool) *Value {
	return &Value{typ: TypeBool, boolVal: v}
}

// Int creates an integer value.
func Int(v int64) *Value {
	return &Value{typ: TypeInt, intVal: v}
}

// Float creates a float value.
func Float(v float64) *Value {
	return &Value{typ: TypeFloat, floatVal: v}
}

// Str creates a string value.
func Str(v string) *Value {
	return &Value{typ: TypeString, strVal: v}
}

// Arr creates an array value.
func Arr(elems ...*Value) *Value {
	return &Value{typ: TypeArray, arrVal: elems}
}

// Obj creates an object value from fields. Duplicate keys collapse to the
// last occurrence, preserving the position of the first.
func Obj(fields ...Field) *Value {
	v := &Value{typ: TypeObject}
	for _, f := range fields {
		v.Set(f.Key, f.Value)
	}
	return v
}

// F creates a Field for use in Obj construction.
func F(key string, value *Value) Field {
	return Field{Key: key, Value: value}
}

// ============================================================
// Accessors
// ============================================================

// Type returns the value type.
func (v *Value) Type() Type {
	if v == nil {
		return TypeNull
	}
	return v.typ
}

// IsNull returns true if this is a null value.
func (v *Value) IsNull() bool {
	return v == nil || v.typ == TypeNull
}

// IsPrimitive returns true for null, bool, int, float and string values.
func (v *Value) IsPrimitive() bool {
	return v == nil || v.typ < TypeArray
}

// IsNumber returns true for int and float values.
func (v *Value) IsNumber() bool {
	return v != nil && (v.typ == TypeInt || v.typ == TypeFloat)
}

// AsBool returns the boolean value.
func (v *Value) AsBool() (bool, error) {
	if v == nil {
		return false, fmt.Errorf("toon: nil value")
	}
	if v.typ != TypeBool {
		return false, fmt.Errorf("toon: expected bool, got %s", v.typ)
	}
	return v.boolVal, nil
}

// AsInt returns the integer value.
func (v *Value) AsInt() (int64, error) {
	if v == nil {
		return 0, fmt.Errorf("toon: nil value")
	}
	if v.typ != TypeInt {
		return 0, fmt.Errorf("toon: expected int, got %s", v.typ)
	}
	return v.intVal, nil
}

// AsFloat returns the float value.
func (v *Value) AsFloat() (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("toon: nil value")
	}
	if v.typ != TypeFloat {
		return 0, fmt.Errorf("toon: expected float, got %s", v.typ)
	}
	return v.floatVal, nil
}

// AsStr returns the string value.
func (v *Value) AsStr() (string, error) {
	if v == nil {
		return "", fmt.Errorf("toon: nil value")
	}
	if v.typ != TypeString {
		return "", fmt.Errorf("toon: expected string, got %s", v.typ)
	}
	return v.strVal, nil
}

// AsArray returns the array elements.
func (v *Value) AsArray() ([]*Value, error) {
	if v == nil {
		return nil, fmt.Errorf("toon: nil value")
	}
	if v.typ != TypeArray {
		return nil, fmt.Errorf("toon: expected array, got %s", v.typ)
	}
	return v.arrVal, nil
}

// AsObject returns the object fields in insertion order.
func (v *Value) AsObject() ([]Field, error) {
	if v == nil {
		return nil, fmt.Errorf("toon: nil value")
	}
	if v.typ != TypeObject {
		return nil, fmt.Errorf("toon: expected object, got %s", v.typ)
	}
	return v.objVal, nil
}

// Number returns a numeric value as float64 if int or float.
func (v *Value) Number() (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch v.typ {
	case TypeInt:
		return float64(v.intVal), true
	case TypeFloat:
		return v.floatVal, true
	default:
		return 0, false
	}
}

// Len returns the length of an array or object.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.typ {
	case TypeArray:
		return len(v.arrVal)
	case TypeObject:
		return len(v.objVal)
	default:
		return 0
	}
}

// Get returns a field value by key from an object, or nil.
func (v *Value) Get(key string) *Value {
	if v == nil || v.typ != TypeObject {
		return nil
	}
	for _, f := range v.objVal {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

// Index returns the i-th element of an array.
func (v *Value) Index(i int) (*Value, error) {
	if v == nil || v.typ != TypeArray {
		return nil, fmt.Errorf("toon: not an array")
	}
	if i < 0 || i >= len(v.arrVal) {
		return nil, fmt.Errorf("toon: index %d out of bounds (len=%d)", i, len(v.arrVal))
	}
	return v.arrVal[i], nil
}

// ============================================================
// Mutators
// ============================================================

// Set sets a field on an object. An existing key keeps its position and
// takes the new value; a new key is appended.
func (v *Value) Set(key string, val *Value) {
	if v.typ != TypeObject {
		panic("toon: cannot set field on non-object")
	}
	for i := range v.objVal {
		if v.objVal[i].Key == key {
			v.objVal[i].Value = val
			return
		}
	}
	v.objVal = append(v.objVal, Field{Key: key, Value: val})
}

// Append adds an element to an array.
func (v *Value) Append(val *Value) {
	if v.typ != TypeArray {
		panic("toon: cannot append to non-array")
	}
	v.arrVal = append(v.arrVal, val)
}

// ============================================================
// Equality
// ============================================================

// Equal reports deep value equality. Object field order is significant;
// int and float never compare equal even when numerically identical.
func (v *Value) Equal(o *Value) bool {
	if v.IsNull() || o.IsNull() {
		return v.IsNull() && o.IsNull()
	}
	if v.typ != o.typ {
		return false
	}
	switch v.typ {
	case TypeBool:
		return v.boolVal == o.boolVal
	case TypeInt:
		return v.intVal == o.intVal
	case TypeFloat:
		return v.floatVal == o.floatVal
	case TypeString:
		return v.strVal == o.strVal
	case TypeArray:
		if len(v.arrVal) != len(o.arrVal) {
			return false
		}
		for i := range v.arrVal {
			if !v.arrVal[i].Equal(o.arrVal[i]) {
				return false
			}
		}
		return true
	case TypeObject:
		if len(v.objVal) != len(o.objVal) {
			return false
		}
		for i := range v.objVal {
			if v.objVal[i].Key != o.objVal[i].Key {
				return false
			}
			if !v.objVal[i].Value.Equal(o.objVal[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}
