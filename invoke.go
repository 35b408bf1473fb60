package vsupport

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

type (
	// Executable is a resolved constructor, method or static function.
	//
	// Handles are cheap and should not be kept beyond the operation that resolved them.
	Executable struct {
		path   string
		name   string
		fn     reflect.Value
		method bool //first parameter is the receiver
	}
	// StaticField is a resolved static field.
	StaticField struct {
		path string
		ptr  reflect.Value
	}
)

// TypeOf returns the reflect.Type of T, it works for interface types too.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// As narrows a dynamic result to T.
func As[T any](v any) (t T, ok bool) {
	t, ok = v.(T)
	return
}

// ArgTypes maps each argument to its run-time type, in order.
// A nil argument carries no type and fails with ErrBinding.
func ArgTypes(args ...any) ([]reflect.Type, error) {
	v := make([]reflect.Type, len(args))
	for i, a := range args {
		if a == nil {
			return nil, dispatchErr("types", fmt.Sprintf("arg[%d]", i), KindBinding, errors.New("nil argument has no run-time type"))
		}
		v[i] = reflect.TypeOf(a)
	}
	return v, nil
}

func signature(name string, types []reflect.Type) string {
	b := new(strings.Builder)
	b.WriteString(name)
	b.WriteByte('(')
	for i, t := range types {
		if i > 0 {
			b.WriteString(", ")
		}
		if t == nil {
			b.WriteString("<nil>")
			continue
		}
		b.WriteString(t.String())
	}
	b.WriteByte(')')
	return b.String()
}

// matches reports exact equality of parameter types, skipping skip leading parameters.
// A nil parameter type never matches.
func matches(ft reflect.Type, skip int, params []reflect.Type) bool {
	if ft.NumIn()-skip != len(params) {
		return false
	}
	for i, p := range params {
		if p == nil || ft.In(i+skip) != p {
			return false
		}
	}
	return true
}

// Constructor finds the constructor whose parameter types are exactly params.
func (c *Class) Constructor(params ...reflect.Type) (*Executable, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, f := range c.ctors {
		if matches(f.Type(), 0, params) {
			return &Executable{path: signature(c.name+".<init>", params), fn: f}, nil
		}
	}
	return nil, dispatchErr("constructor", signature(c.name+".<init>", params), KindSymbol, nil)
}

// Method finds a method of the class instances, or else a static function, with exactly params.
func (c *Class) Method(name string, params ...reflect.Type) (*Executable, error) {
	path := signature(c.name+"."+name, params)
	if c.typ != nil {
		if e, ok := lookupMethod(c.typ, name, params); ok {
			e.path = path
			return e, nil
		}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, f := range c.funcs[name] {
		if matches(f.fn.Type(), 0, params) {
			return &Executable{path: path, fn: f.fn}, nil
		}
	}
	return nil, dispatchErr("method", path, KindSymbol, nil)
}

// Field finds a static field of the class.
func (c *Class) Field(name string) (*StaticField, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.statics[name]
	if !ok {
		return nil, dispatchErr("field", c.name+"."+name, KindSymbol, nil)
	}
	return &StaticField{path: c.name + "." + name, ptr: p}, nil
}

// InstanceType returns the type of the class instances, failing with ErrSymbolNotFound
// for holders of static members only.
func (c *Class) InstanceType() (reflect.Type, error) {
	if c.typ == nil {
		return nil, dispatchErr("type", c.name, KindSymbol, errors.New("class has no instance type"))
	}
	return c.typ, nil
}

// Cast checks v is an instance of the class and returns it unchanged.
func (c *Class) Cast(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	t, err := c.InstanceType()
	if err != nil {
		return nil, err
	}
	if !reflect.TypeOf(v).AssignableTo(t) {
		return nil, dispatchErr("cast", c.name, KindBinding, fmt.Errorf("%T is not an instance", v))
	}
	return v, nil
}

// IsInstance reports whether v can be used where the class is expected.
func (c *Class) IsInstance(v any) bool {
	return v != nil && c.typ != nil && reflect.TypeOf(v).AssignableTo(c.typ)
}

func lookupMethod(t reflect.Type, name string, params []reflect.Type) (*Executable, bool) {
	m, ok := t.MethodByName(name)
	if !ok {
		return nil, false
	}
	if t.Kind() == reflect.Interface {
		// interface methods carry no receiver and must be bound to a value at call time
		if !matches(m.Type, 0, params) {
			return nil, false
		}
		return &Executable{name: name, method: true}, true
	}
	if !matches(m.Type, 1, params) {
		return nil, false
	}
	return &Executable{name: name, fn: m.Func, method: true}, true
}

// MethodOf finds method name on the run-time type of target with exactly params.
func MethodOf(target any, name string, params ...reflect.Type) (*Executable, error) {
	if target == nil {
		return nil, dispatchErr("method", signature(name, params), KindBinding, errors.New("nil target"))
	}
	t := reflect.TypeOf(target)
	path := signature(t.String()+"."+name, params)
	e, ok := lookupMethod(t, name, params)
	if !ok {
		return nil, dispatchErr("method", path, KindSymbol, nil)
	}
	e.path = path
	return e, nil
}

// FieldOf reads exported field name of obj, following pointers and interfaces.
func FieldOf(obj any, name string) (any, error) {
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, dispatchErr("field", name, KindBinding, errors.New("nil receiver"))
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, dispatchErr("field", fmt.Sprintf("%T.%s", obj, name), KindBinding, errors.New("not a struct"))
	}
	f := v.FieldByName(name)
	path := v.Type().String() + "." + name
	if !f.IsValid() {
		return nil, dispatchErr("field", path, KindSymbol, nil)
	}
	if !f.CanInterface() {
		return nil, dispatchErr("field", path, KindBinding, errors.New("field not accessible"))
	}
	return f.Interface(), nil
}

func (e *Executable) String() string { return e.path }

// Static reports whether the executable takes no receiver.
func (e *Executable) Static() bool { return !e.method }

// Invoke calls the executable. recv is ignored for constructors and static functions.
//
// A panic of the callee or a non nil trailing error result is returned as ErrInvocation.
func (e *Executable) Invoke(recv any, args ...any) (any, error) {
	fv := e.fn
	var in []reflect.Value
	if e.method {
		if recv == nil {
			return nil, dispatchErr("invoke", e.path, KindBinding, errors.New("nil receiver"))
		}
		if !fv.IsValid() {
			// interface method, bind to the value
			fv = reflect.ValueOf(recv).MethodByName(e.name)
			if !fv.IsValid() {
				return nil, dispatchErr("invoke", e.path, KindSymbol, nil)
			}
		} else {
			in = append(in, reflect.ValueOf(recv))
		}
	}
	ft := fv.Type()
	skip := len(in)
	if ft.NumIn()-skip != len(args) {
		return nil, dispatchErr("invoke", e.path, KindBinding, fmt.Errorf("want %d arguments, got %d", ft.NumIn()-skip, len(args)))
	}
	if skip == 1 && !in[0].Type().AssignableTo(ft.In(0)) {
		return nil, dispatchErr("invoke", e.path, KindBinding, fmt.Errorf("receiver %s is not %s", in[0].Type(), ft.In(0)))
	}
	for i, a := range args {
		pt := ft.In(i + skip)
		if a == nil {
			switch pt.Kind() {
			case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
				in = append(in, reflect.Zero(pt))
				continue
			}
			return nil, dispatchErr("invoke", e.path, KindBinding, fmt.Errorf("nil argument %d for %s", i, pt))
		}
		av := reflect.ValueOf(a)
		if !av.Type().AssignableTo(pt) {
			return nil, dispatchErr("invoke", e.path, KindBinding, fmt.Errorf("argument %d: %s is not %s", i, av.Type(), pt))
		}
		in = append(in, av)
	}
	return call(e.path, fv, in)
}

// NewInstance invokes a constructor.
func (e *Executable) NewInstance(args ...any) (any, error) {
	return e.Invoke(nil, args...)
}

func call(path string, fv reflect.Value, in []reflect.Value) (v any, err error) {
	defer func() {
		switch x := recover().(type) {
		case nil:
		case error:
			v, err = nil, dispatchErr("invoke", path, KindInvocation, x)
		default:
			v, err = nil, dispatchErr("invoke", path, KindInvocation, fmt.Errorf("%v", x))
		}
	}()
	var out []reflect.Value
	if fv.Type().IsVariadic() {
		out = fv.CallSlice(in)
	} else {
		out = fv.Call(in)
	}
	return results(path, out)
}

func results(path string, out []reflect.Value) (any, error) {
	n := len(out)
	if n > 0 && out[n-1].Type() == errorType {
		if e := out[n-1]; !e.IsNil() {
			return nil, dispatchErr("invoke", path, KindInvocation, e.Interface().(error))
		}
		out = out[:n-1]
		n--
	}
	switch n {
	case 0:
		return nil, nil
	case 1:
		return unwrapNil(out[0]), nil
	default:
		v := make([]any, n)
		for i, o := range out {
			v[i] = unwrapNil(o)
		}
		return v, nil
	}
}

// unwrapNil turns typed nil pointers into an untyped nil so callers can test absence with == nil.
func unwrapNil(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return nil
		}
	}
	return v.Interface()
}

func (f *StaticField) String() string { return f.path }

// Get reads the current value of the field.
func (f *StaticField) Get() any {
	return unwrapNil(f.ptr.Elem())
}
