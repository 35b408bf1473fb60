package bridge

import (
	"io"
	"os"
	"strings"
	"unsafe"

	"github.com/pkujhd/goloader"
	"github.com/rs/zerolog"
)

type (
	//Sym is a simple alias of uintptr.
	Sym uintptr
	//Module is a bridge object file linked into the running host.
	//
	//Use Steps:
	//
	//	1. Initialize or InitializeSerialized to read the object.
	//	2. [Module.Link] to link the code against the host symbols.
	//	3. Fetch symbols, usually through [Bind].
	//	4. Call [Module.Free] to release the resources.
	//
	//A Module can be shared between goroutines once linked, it is not safe to link or free concurrently.
	Module struct {
		file    string
		pkg     string
		version string
		symbols map[string]uintptr
		linker  *goloader.Linker
		module  *goloader.CodeModule
		log     zerolog.Logger
	}
)

// NewModule creates a module for host version that links against symbols.
func NewModule(symbols Symbols, version string, log zerolog.Logger) *Module {
	return &Module{symbols: symbols, version: version, log: log}
}

func (m *Module) Version() string { return m.version }
func (m *Module) File() string    { return m.file }
func (m *Module) Package() string { return m.pkg }

// Initialize reads an object file or go archive, types are registered for the linker.
func (m *Module) Initialize(file, pkg string, types ...any) (err error) {
	if m.linker != nil {
		return ErrAlreadyInitialized
	}
	if pkg == "" {
		pkg = "main"
	}
	if len(types) > 0 {
		m.log.Debug().Int("types", len(types)).Msg("register types")
		goloader.RegTypes(m.symbols, types...)
	}
	if m.linker, err = goloader.ReadObj(file, pkg); err != nil {
		return
	}
	m.file, m.pkg = file, pkg
	m.log.Debug().Str("file", file).Str("pkg", pkg).Msg("create linker")
	return
}

// InitializeSerialized reads a linker written by [Module.Serialize].
func (m *Module) InitializeSerialized(in io.Reader, types ...any) (err error) {
	if m.linker != nil {
		return ErrAlreadyInitialized
	}
	if len(types) > 0 {
		goloader.RegTypes(m.symbols, types...)
	}
	if m.linker, err = goloader.UnSerialize(in); err != nil {
		return
	}
	for _, pkg := range m.linker.Packages {
		m.pkg = pkg.PkgPath
		break
	}
	m.log.Debug().Str("pkg", m.pkg).Msg("loaded linker")
	return
}

// Link creates the code module.
func (m *Module) Link() (err error) {
	if m.linker == nil {
		return ErrUninitialized
	}
	if m.module != nil {
		return ErrLinked
	}
	if m.module, err = goloader.Load(m.linker, m.symbols); err != nil {
		return
	}
	m.log.Debug().Str("pkg", m.pkg).Int("symbols", len(m.module.Syms)).Msg("linked")
	return
}

// Fetch a symbol, a name without package is looked up in the module package.
func (m *Module) Fetch(sym string) (u Sym, ok bool) {
	if m.module == nil {
		return
	}
	var p uintptr
	p, ok = m.module.Syms[m.qualify(sym)]
	if !ok {
		return
	}
	return Sym(unsafe.Pointer(&p)), true
}

func (m *Module) qualify(sym string) string {
	if strings.IndexByte(sym, '.') < 0 {
		return m.pkg + "." + sym
	}
	return sym
}

// Exports lists the symbols the module provides.
func (m *Module) Exports() []string {
	if m.module == nil {
		return nil
	}
	v := make([]string, 0, len(m.module.Syms))
	for s := range m.module.Syms {
		v = append(v, s)
	}
	return v
}

// MissingSymbols lists symbols the object needs and the host does not provide.
func (m *Module) MissingSymbols() []string {
	if m.linker == nil {
		return nil
	}
	return goloader.UnresolvedSymbols(m.linker, m.symbols)
}

// Serialize writes the linker so it can be loaded by InitializeSerialized.
func (m *Module) Serialize(out io.Writer) error {
	if m.linker == nil {
		return ErrUninitialized
	}
	return goloader.Serialize(m.linker, out)
}

// Free unloads the module code, sync flushes stdout first.
func (m *Module) Free(sync bool) {
	if m.linker == nil {
		return
	}
	m.log.Debug().Str("pkg", m.pkg).Msg("free module")
	if m.module != nil {
		if sync {
			_ = os.Stdout.Sync()
		}
		m.module.Unload()
		m.module = nil
	}
	m.linker = nil
}

// As convert fetched Sym to contract type
func As[T any](ptr Sym) (x T) {
	px := (*T)(unsafe.Pointer(&ptr))
	x = *px
	return
}
