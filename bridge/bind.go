package bridge

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/ZenLiuCN/vsupport"
)

type binder func(m *Module, c *vsupport.Class, name, sym string) (func(), error)

var (
	signatures   = map[string]binder{}
	signaturesMu sync.RWMutex
)

// Bind fetches sym from m as a function of type T and publishes it as static function name of c.
//
// remove withdraws this function only, overloads the host or other bridges registered stay.
func Bind[T any](m *Module, c *vsupport.Class, name, sym string) (remove func(), err error) {
	if reflect.TypeOf((*T)(nil)).Elem().Kind() != reflect.Func {
		return nil, fmt.Errorf("bind %s: %T is not a function type", sym, *new(T))
	}
	p, ok := m.Fetch(sym)
	if !ok {
		return nil, fmt.Errorf("bind %s: %w", m.qualify(sym), ErrMissingSymbol)
	}
	return c.AddFunc(name, As[T](p)), nil
}

// Signature registers function type T under name, so configured bindings can refer to it.
//
//	bridge.Signature[func(*simhost.Item) *simhost.CraftItemStack]("item->craft")
func Signature[T any](name string) {
	signaturesMu.Lock()
	defer signaturesMu.Unlock()
	signatures[name] = Bind[T]
}

func lookupSignature(name string) (binder, bool) {
	signaturesMu.RLock()
	defer signaturesMu.RUnlock()
	b, ok := signatures[name]
	return b, ok
}
