package bridge

import (
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/ZenLiuCN/fn"
	"github.com/pkujhd/goloader"
)

// Symbols contains resolved symbols a module links against.
//
// Modules sharing one Symbols may depend on each other once registered into it.
type Symbols map[string]uintptr

var (
	// ErrMissingSymbol occurs when can't found a symbol.
	ErrMissingSymbol = errors.New("missing symbol")
	// ErrAlreadyInitialized occurs when a Module reinitializing.
	ErrAlreadyInitialized = errors.New("already initialized module")
	// ErrLinked occurs when a Module relinking.
	ErrLinked = errors.New("already linked")
	// ErrUninitialized occurs use or link a Module before initialized.
	ErrUninitialized = errors.New("module not initialized")
	// ErrAlreadyLoaded occurs when a bridge file is loaded twice.
	ErrAlreadyLoaded = errors.New("bridge already loaded")
)

var hostSymbols = sync.OnceValues(func() (Symbols, error) {
	s := make(Symbols)
	if err := goloader.RegSymbol(s); err != nil {
		return nil, err
	}
	return s, nil
})

// NewSymbols create a Symbols with the symbols of the running executable.
func NewSymbols() (Symbols, error) {
	s, err := hostSymbols()
	if err != nil {
		return nil, err
	}
	return maps.Clone(s), nil
}

// Names dump sorted symbol names.
func (s Symbols) Names() []string {
	v := fn.MapKeys(s)
	slices.Sort(v)
	return v
}

// RegisterTypes makes the types known to modules linking against s.
func (s Symbols) RegisterTypes(types ...any) {
	goloader.RegTypes(s, types...)
}

func (s Symbols) register(m *Module) {
	for n, u := range m.module.Syms {
		if _, ok := s[n]; !ok {
			s[n] = u
		}
	}
}

func (s Symbols) unregister(m *Module) {
	if m.module == nil {
		return
	}
	for n, u := range m.module.Syms {
		if x, ok := s[n]; ok && x == u {
			delete(s, n)
		}
	}
}

// Inspect display symbols inside an object file
func Inspect(file, pkg string) ([]string, error) {
	return goloader.Parse(file, pkg)
}
