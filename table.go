package vsupport

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/ZenLiuCN/fn"
)

type (
	// Host is the running application this layer is attached to.
	Host interface {
		Server() any          //the running server object, its class name carries the version
		Classes() ClassLoader //internal class table of the host
	}
	// ClassLoader resolves fully qualified class names of the host.
	//
	// Implementations must be safe for concurrent reads.
	ClassLoader interface {
		ForName(name string) (*Class, bool)   //find a class by its fully qualified name
		NameOf(t reflect.Type) (string, bool) //reverse lookup of the class owning an instance type
	}
	// Class describes one host type: the Go type of its instances plus its constructors,
	// static fields and static functions.
	Class struct {
		name    string
		typ     reflect.Type
		mu      sync.RWMutex
		ctors   []reflect.Value
		statics map[string]reflect.Value
		funcs   map[string][]*staticFunc
	}
	staticFunc struct {
		fn reflect.Value
	}
	// Table is a concurrent ClassLoader filled by the host at startup.
	Table struct {
		mu      sync.RWMutex
		classes map[string]*Class
		types   map[reflect.Type]string
	}
)

// NewClass creates a class named name whose instances have type typ.
// typ may be nil for holders of static members only.
func NewClass(name string, typ reflect.Type) *Class {
	return &Class{
		name:    name,
		typ:     typ,
		statics: make(map[string]reflect.Value),
		funcs:   make(map[string][]*staticFunc),
	}
}

func (c *Class) Name() string       { return c.name }
func (c *Class) Type() reflect.Type { return c.typ }
func (c *Class) String() string     { return c.name }

// WithConstructor registers a constructor function, it must return exactly one value of the class type.
func (c *Class) WithConstructor(f any) *Class {
	v := reflect.ValueOf(f)
	if v.Kind() != reflect.Func || v.Type().NumOut() == 0 {
		panic(fmt.Errorf("constructor of %s must be a function with result, got %T", c.name, f))
	}
	c.mu.Lock()
	c.ctors = append(c.ctors, v)
	c.mu.Unlock()
	return c
}

// WithStatic registers a static field, ptr must point to the variable holding the value.
func (c *Class) WithStatic(name string, ptr any) *Class {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		panic(fmt.Errorf("static %s.%s must be a non nil pointer, got %T", c.name, name, ptr))
	}
	c.mu.Lock()
	c.statics[name] = v
	c.mu.Unlock()
	return c
}

// WithFunc registers a static function, overloads are allowed when signatures differ.
func (c *Class) WithFunc(name string, f any) *Class {
	c.AddFunc(name, f)
	return c
}

// AddFunc registers a static function like WithFunc.
// The returned remove drops this registration only, other overloads of name stay.
func (c *Class) AddFunc(name string, f any) (remove func()) {
	v := reflect.ValueOf(f)
	if v.Kind() != reflect.Func {
		panic(fmt.Errorf("function %s.%s must be a func, got %T", c.name, name, f))
	}
	e := &staticFunc{fn: v}
	c.mu.Lock()
	c.funcs[name] = append(c.funcs[name], e)
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		v := slices.DeleteFunc(c.funcs[name], func(x *staticFunc) bool { return x == e })
		if len(v) == 0 {
			delete(c.funcs, name)
		} else {
			c.funcs[name] = v
		}
	}
}

// WithoutFunc drops every overload of static function name.
func (c *Class) WithoutFunc(name string) *Class {
	c.mu.Lock()
	delete(c.funcs, name)
	c.mu.Unlock()
	return c
}

// NewTable creates an empty class table.
func NewTable() *Table {
	return &Table{
		classes: make(map[string]*Class),
		types:   make(map[reflect.Type]string),
	}
}

// Register adds classes to the table, replacing any class with the same name.
func (t *Table) Register(classes ...*Class) *Table {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range classes {
		if old, ok := t.classes[c.name]; ok {
			t.untype(old)
		}
		t.classes[c.name] = c
		if c.typ != nil {
			t.types[c.typ] = c.name
		}
	}
	return t
}

// Remove drops a class from the table.
func (t *Table) Remove(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.classes[name]; ok {
		t.untype(c)
		delete(t.classes, name)
	}
}

// untype drops the reverse entry of c unless another class owns the type now.
func (t *Table) untype(c *Class) {
	if c.typ != nil && t.types[c.typ] == c.name {
		delete(t.types, c.typ)
	}
}

func (t *Table) ForName(name string) (*Class, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.classes[name]
	return c, ok
}

func (t *Table) NameOf(typ reflect.Type) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.types[typ]
	return n, ok
}

// Names dump the sorted class names inside the table.
func (t *Table) Names() []string {
	t.mu.RLock()
	v := fn.MapKeys(t.classes)
	t.mu.RUnlock()
	slices.Sort(v)
	return v
}
