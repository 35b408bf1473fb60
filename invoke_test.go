package vsupport

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type counter struct {
	N     int
	label string
}

func newCounter(n int) *counter { return &counter{N: n} }

func (c *counter) Add(d int) int    { c.N += d; return c.N }
func (c *counter) Fail() error      { return errors.New("boom") }
func (c *counter) Panic()           { panic("kaboom") }
func (c *counter) Pair() (int, int) { return c.N, -c.N }
func (c *counter) Join(sep string, parts ...any) string {
	v := make([]string, len(parts))
	for i, p := range parts {
		v[i] = fmt.Sprint(p)
	}
	return strings.Join(v, sep)
}
func (c *counter) Nothing() *counter { return nil }

type stringer interface{ String() string }

func TestArgTypes(t *testing.T) {
	v, err := ArgTypes()
	if err != nil || len(v) != 0 {
		t.Fatalf("ArgTypes() = %v, %v", v, err)
	}
	v, err = ArgTypes("a", 1, []any{})
	if err != nil {
		t.Fatal(err)
	}
	want := []reflect.Type{reflect.TypeOf(""), reflect.TypeOf(0), reflect.TypeOf([]any{})}
	if !cmp.Equal(v, want, cmp.Comparer(func(a, b reflect.Type) bool { return a == b })) {
		t.Errorf("ArgTypes() = %v, want %v", v, want)
	}
	if _, err = ArgTypes("a", nil); !errors.Is(err, ErrBinding) {
		t.Errorf("nil argument: %v", err)
	}
}

func TestTypeOf(t *testing.T) {
	if k := TypeOf[stringer]().Kind(); k != reflect.Interface {
		t.Errorf("TypeOf[stringer]() kind = %s", k)
	}
	if TypeOf[int]() != reflect.TypeOf(0) {
		t.Error("TypeOf[int]()")
	}
}

func TestMethodOf(t *testing.T) {
	c := newCounter(1)
	m, err := MethodOf(c, "Add", TypeOf[int]())
	if err != nil {
		t.Fatal(err)
	}
	v, err := m.Invoke(c, 2)
	if err != nil || v != 3 {
		t.Fatalf("Add(2) = %v, %v", v, err)
	}
	if _, err = MethodOf(c, "Add", TypeOf[int64]()); !Absent(err) {
		t.Errorf("no widening: %v", err)
	}
	if _, err = MethodOf(c, "Missing"); !Absent(err) {
		t.Errorf("missing method: %v", err)
	}
	if _, err = MethodOf(nil, "Add"); !errors.Is(err, ErrBinding) {
		t.Errorf("nil target: %v", err)
	}
}

func TestExecutableResults(t *testing.T) {
	c := newCounter(4)
	call := func(name string, args ...any) (any, error) {
		types, err := ArgTypes(args...)
		if err != nil {
			return nil, err
		}
		m, err := MethodOf(c, name, types...)
		if err != nil {
			return nil, err
		}
		return m.Invoke(c, args...)
	}
	if _, err := call("Fail"); !errors.Is(err, ErrInvocation) || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Fail() = %v", err)
	}
	if _, err := call("Panic"); !errors.Is(err, ErrInvocation) || !strings.Contains(err.Error(), "kaboom") {
		t.Errorf("Panic() = %v", err)
	}
	v, err := call("Pair")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]any{4, -4}, v); diff != "" {
		t.Errorf("Pair() (-want +got):\n%s", diff)
	}
	v, err = call("Join", "-", []any{1, "b"})
	if err != nil || v != "1-b" {
		t.Errorf("Join() = %v, %v", v, err)
	}
	v, err = call("Nothing")
	if err != nil || v != nil {
		t.Errorf("Nothing() = %#v, %v", v, err)
	}
}

func TestExecutableBinding(t *testing.T) {
	c := newCounter(0)
	m, err := MethodOf(c, "Add", TypeOf[int]())
	if err != nil {
		t.Fatal(err)
	}
	for name, args := range map[string][]any{
		"arity":   {},
		"type":    {"x"},
		"nil int": {nil},
	} {
		if _, err = m.Invoke(c, args...); !errors.Is(err, ErrBinding) {
			t.Errorf("%s: %v", name, err)
		}
	}
	if _, err = m.Invoke(nil, 1); !errors.Is(err, ErrBinding) {
		t.Errorf("nil receiver: %v", err)
	}
	if _, err = m.Invoke("other", 1); !errors.Is(err, ErrBinding) {
		t.Errorf("foreign receiver: %v", err)
	}
}

func TestClassMembers(t *testing.T) {
	var shared = newCounter(7)
	c := NewClass("test.Counter", reflect.TypeOf(shared)).
		WithConstructor(newCounter).
		WithStatic("Shared", &shared).
		WithFunc("Double", func(n int) int { return n * 2 }).
		WithFunc("Double", func(s string) string { return s + s })

	ctor, err := c.Constructor(TypeOf[int]())
	if err != nil {
		t.Fatal(err)
	}
	v, err := ctor.NewInstance(5)
	if err != nil {
		t.Fatal(err)
	}
	if v.(*counter).N != 5 {
		t.Errorf("constructed %+v", v)
	}
	if _, err = c.Constructor(); !Absent(err) {
		t.Errorf("no default constructor: %v", err)
	}

	f, err := c.Field("Shared")
	if err != nil {
		t.Fatal(err)
	}
	if f.Get() != shared {
		t.Errorf("static = %v", f.Get())
	}
	shared = nil
	if f.Get() != nil {
		t.Errorf("static after reset = %v", f.Get())
	}
	if _, err = c.Field("Other"); !Absent(err) {
		t.Errorf("missing static: %v", err)
	}

	d, err := c.Method("Double", TypeOf[string]())
	if err != nil {
		t.Fatal(err)
	}
	if !d.Static() {
		t.Error("Double should be static")
	}
	if v, err = d.Invoke(nil, "ab"); err != nil || v != "abab" {
		t.Errorf("Double(ab) = %v, %v", v, err)
	}
	add, err := c.Method("Add", TypeOf[int]())
	if err != nil || add.Static() {
		t.Fatalf("Add = %v, %v", add, err)
	}
	remove := c.AddFunc("Double", func(n int) int { return n * 2 })
	if _, err = c.Method("Double", TypeOf[int]()); err != nil {
		t.Fatalf("overload: %v", err)
	}
	remove()
	remove()
	if _, err = c.Method("Double", TypeOf[int]()); !Absent(err) {
		t.Errorf("removed overload: %v", err)
	}
	if _, err = c.Method("Double", TypeOf[string]()); err != nil {
		t.Errorf("overload removal dropped the other overloads: %v", err)
	}
	c.WithoutFunc("Double")
	if _, err = c.Method("Double", TypeOf[string]()); !Absent(err) {
		t.Errorf("removed func: %v", err)
	}
}

func TestTypelessClass(t *testing.T) {
	c := NewClass("a.Holder", nil)
	if _, err := c.InstanceType(); !Absent(err) {
		t.Errorf("InstanceType() = %v", err)
	}
	if _, err := c.Cast(1); !Absent(err) {
		t.Errorf("Cast() = %v", err)
	}
	_, err := MethodOf(&counter{}, "Add", nil)
	if !Absent(err) {
		t.Fatalf("MethodOf(nil type) = %v", err)
	}
	var de *DispatchError
	if !errors.As(err, &de) || !strings.HasSuffix(de.Path, ".Add(<nil>)") {
		t.Errorf("path = %v", err)
	}
	if _, err = NewClass("a.B", nil).Constructor(nil, TypeOf[int]()); !Absent(err) {
		t.Errorf("Constructor(nil type) = %v", err)
	}
}

func TestInterfaceClass(t *testing.T) {
	c := NewClass("test.Stringer", TypeOf[stringer]())
	m, err := c.Method("String")
	if err != nil {
		t.Fatal(err)
	}
	v, err := m.Invoke(NewClass("x.Y", nil))
	if err != nil || v != "x.Y" {
		t.Errorf("String() = %v, %v", v, err)
	}
	if !c.IsInstance(NewClass("a.B", nil)) || c.IsInstance(1) {
		t.Error("IsInstance")
	}
	if _, err = c.Cast(1); !errors.Is(err, ErrBinding) {
		t.Errorf("Cast(1) = %v", err)
	}
}

func TestFieldOf(t *testing.T) {
	c := &counter{N: 3, label: "x"}
	v, err := FieldOf(c, "N")
	if err != nil || v != 3 {
		t.Errorf("N = %v, %v", v, err)
	}
	if _, err = FieldOf(c, "label"); !errors.Is(err, ErrBinding) {
		t.Errorf("unexported: %v", err)
	}
	if _, err = FieldOf(c, "Missing"); !Absent(err) {
		t.Errorf("missing: %v", err)
	}
	if _, err = FieldOf((*counter)(nil), "N"); !errors.Is(err, ErrBinding) {
		t.Errorf("nil: %v", err)
	}
}

func TestTable(t *testing.T) {
	tb := NewTable()
	typ := reflect.TypeOf((*counter)(nil))
	tb.Register(NewClass("b.Counter", typ), NewClass("a.Holder", nil))
	if n, ok := tb.NameOf(typ); !ok || n != "b.Counter" {
		t.Errorf("NameOf = %s, %t", n, ok)
	}
	if diff := cmp.Diff([]string{"a.Holder", "b.Counter"}, tb.Names()); diff != "" {
		t.Error(diff)
	}
	tb.Remove("b.Counter")
	if _, ok := tb.ForName("b.Counter"); ok {
		t.Error("removed class still found")
	}
	if _, ok := tb.NameOf(typ); ok {
		t.Error("removed type still named")
	}

	tb.Register(NewClass("b.Counter", typ), NewClass("c.Alias", typ))
	tb.Remove("b.Counter")
	if n, ok := tb.NameOf(typ); !ok || n != "c.Alias" {
		t.Errorf("NameOf after removing the former owner = %s, %t", n, ok)
	}
	tb.Register(NewClass("b.Counter", typ))
	tb.Register(NewClass("c.Alias", typ))
	if n, ok := tb.NameOf(typ); !ok || n != "c.Alias" {
		t.Errorf("NameOf after replacing = %s, %t", n, ok)
	}
}
