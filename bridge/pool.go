package bridge

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/ZenLiuCN/vsupport"
	"github.com/rs/zerolog"
)

var (
	ErrVersionMismatch  = errors.New("bridge built for another host version")
	ErrNotLoaded        = errors.New("bridge not loaded")
	ErrUnknownClass     = errors.New("bridge binds unknown class")
	ErrUnknownSignature = errors.New("bridge binding has unknown signature")
)

type (
	// Pool holds the bridges linked for the attached host version.
	Pool struct {
		sync.RWMutex
		symbols  Symbols
		version  string
		classes  vsupport.ClassLoader
		modules  map[string]*Module
		loaded   []*Module
		bindings map[*Module][]func()
		log      zerolog.Logger
	}
)

// NewPool creates a pool for the version and classes of s.
func NewPool(s *vsupport.Support) (p *Pool, err error) {
	p = &Pool{
		version:  s.Version(),
		classes:  s.Host().Classes(),
		modules:  make(map[string]*Module),
		bindings: make(map[*Module][]func()),
		log:      s.Logger().With().Str("component", "bridge").Logger(),
	}
	if p.symbols, err = NewSymbols(); err != nil {
		return nil, err
	}
	return
}

// Version of the host the pool links for.
func (p *Pool) Version() string { return p.version }

// LoadAll loads every bridge configured for the pool version.
func (p *Pool) LoadAll(cfg vsupport.Config) error {
	for _, b := range cfg.BridgesFor(p.version) {
		if err := p.Load(b); err != nil {
			return err
		}
	}
	return nil
}

// Load links one bridge and publishes its bindings.
func (p *Pool) Load(cfg vsupport.BridgeConfig, types ...any) (err error) {
	if cfg.Version != p.version {
		return fmt.Errorf("%s (%s): %w", cfg.File, cfg.Version, ErrVersionMismatch)
	}
	p.Lock()
	defer p.Unlock()
	if _, ok := p.modules[cfg.File]; ok {
		return ErrAlreadyLoaded
	}
	m := NewModule(p.symbols, p.version, p.log)
	if err = m.Initialize(cfg.File, cfg.Package, types...); err != nil {
		return
	}
	if err = m.Link(); err != nil {
		m.Free(false)
		return
	}
	var done []func()
	for _, b := range cfg.Bindings {
		var remove func()
		if remove, err = p.bind(m, b); err != nil {
			for _, r := range done {
				r()
			}
			m.Free(false)
			return
		}
		done = append(done, remove)
	}
	p.modules[cfg.File] = m
	p.loaded = append(p.loaded, m)
	p.bindings[m] = done
	p.symbols.register(m)
	p.log.Info().Str("file", cfg.File).Int("bindings", len(done)).Msg("bridge loaded")
	return
}

func (p *Pool) bind(m *Module, b vsupport.Binding) (func(), error) {
	c, ok := p.classes.ForName(b.Class)
	if !ok {
		t, isTable := p.classes.(*vsupport.Table)
		if !isTable {
			return nil, fmt.Errorf("%s: %w", b.Class, ErrUnknownClass)
		}
		c = vsupport.NewClass(b.Class, nil)
		t.Register(c)
	}
	f, ok := lookupSignature(b.Signature)
	if !ok {
		return nil, fmt.Errorf("%s.%s %q: %w", b.Class, b.Name, b.Signature, ErrUnknownSignature)
	}
	return f(m, c, b.Name, b.Symbol)
}

// Unload frees the bridge of file and every bridge loaded after it, they may depend on it.
func (p *Pool) Unload(file string) error {
	p.Lock()
	defer p.Unlock()
	m, ok := p.modules[file]
	if !ok {
		return ErrNotLoaded
	}
	i := slices.Index(p.loaded, m)
	for j := len(p.loaded) - 1; j >= i; j-- {
		p.free(p.loaded[j])
	}
	p.loaded = p.loaded[:i]
	return nil
}

func (p *Pool) free(m *Module) {
	for _, remove := range p.bindings[m] {
		remove()
	}
	delete(p.bindings, m)
	delete(p.modules, m.File())
	p.symbols.unregister(m)
	m.Free(false)
}

// Loaded lists the loaded bridge files in load order.
func (p *Pool) Loaded() []string {
	p.RLock()
	defer p.RUnlock()
	v := make([]string, len(p.loaded))
	for i, m := range p.loaded {
		v[i] = m.File()
	}
	return v
}

// Close frees every bridge.
func (p *Pool) Close() {
	p.Lock()
	defer p.Unlock()
	for j := len(p.loaded) - 1; j >= 0; j-- {
		p.free(p.loaded[j])
	}
	p.loaded = nil
}
