// Package field reads nested exported fields of host objects by name.
//
//	id := field.From(handle).Get("ActiveContainer").Get("WindowID").Value()
//
// The first failing hop is kept, later hops are skipped.
package field

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNoField occurs when a struct has no field with the name.
	ErrNoField = errors.New("no such field")
	// ErrNotStruct occurs when the value holding the field is not a struct.
	ErrNotStruct = errors.New("not a struct")
	// ErrNil occurs when a hop dereferences nil.
	ErrNil = errors.New("nil value")
	// ErrUnexported occurs when the field can not be read from another package.
	ErrUnexported = errors.New("unexported field")
)

// Field is a handle to a value reached by a chain of field names.
type Field struct {
	v    reflect.Value
	path string
	err  error
}

// From starts a chain at obj.
func From(obj any) *Field {
	v := reflect.ValueOf(obj)
	f := &Field{v: v, path: fmt.Sprintf("%T", obj)}
	if !v.IsValid() {
		f.err = ErrNil
	}
	return f
}

// Get moves to the field name of the current value.
func (f *Field) Get(name string) *Field {
	n := &Field{path: f.path + "." + name}
	if f.err != nil {
		n.err = f.err
		return n
	}
	v := f.v
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			n.err = fmt.Errorf("%s: %w", f.path, ErrNil)
			return n
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		n.err = fmt.Errorf("%s: %w", f.path, ErrNotStruct)
		return n
	}
	x := v.FieldByName(name)
	switch {
	case !x.IsValid():
		n.err = fmt.Errorf("%s: %w", n.path, ErrNoField)
	case !x.CanInterface():
		n.err = fmt.Errorf("%s: %w", n.path, ErrUnexported)
	default:
		n.v = x
	}
	return n
}

// Value unwraps the current value, nil after a failed hop.
func (f *Field) Value() any {
	if f.err != nil || !f.v.IsValid() {
		return nil
	}
	return f.v.Interface()
}

// Err returns the first failure of the chain.
func (f *Field) Err() error { return f.err }

func (f *Field) Path() string { return f.path }
