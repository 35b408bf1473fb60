package vsupport

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

type (
	// Support is the version aware entry of the host internals.
	//
	// It is immutable after construction and safe for concurrent use.
	Support struct {
		host    Host
		version string
		cfg     Config
		log     zerolog.Logger
	}
	// Option customizes a Support before version detection.
	Option func(*Support)

	attachment struct {
		host Host
		opts []Option
	}
	published struct {
		s   *Support
		err error
	}
)

// WithConfig replaces the default Config.
func WithConfig(cfg Config) Option {
	return func(s *Support) {
		s.cfg = cfg
		s.log = NewLogger(cfg)
	}
}

// WithLogger replaces the logger built from Config. Apply it after WithConfig.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Support) {
		s.log = l
	}
}

// New detects the version of host and returns a Support bound to it.
//
// The returned error is always a *DetectionError: without a version nothing else can be resolved.
func New(host Host, opts ...Option) (*Support, error) {
	cfg := DefaultConfig()
	s := &Support{host: host, cfg: cfg, log: NewLogger(cfg)}
	for _, o := range opts {
		o(s)
	}
	if host == nil {
		return nil, &DetectionError{Reason: "no host"}
	}
	v, err := detectVersion(host, s.cfg.VersionSegment)
	if err != nil {
		s.log.Error().Err(err).Msg("version detection")
		return nil, err
	}
	s.version = v
	s.log = s.log.With().Str("version", v).Logger()
	s.log.Debug().Msg("host attached")
	return s, nil
}

func detectVersion(host Host, segment int) (string, error) {
	server := host.Server()
	if server == nil {
		return "", &DetectionError{Reason: "host has no running server"}
	}
	classes := host.Classes()
	if classes == nil {
		return "", &DetectionError{Reason: "host has no class table"}
	}
	name, ok := classes.NameOf(reflect.TypeOf(server))
	if !ok {
		return "", &DetectionError{Identity: fmt.Sprintf("%T", server), Reason: "server type is not a host class"}
	}
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return "", &DetectionError{Identity: name, Reason: "server class has no package"}
	}
	seg := strings.Split(name[:i], ".")
	if segment < 0 || segment >= len(seg) || seg[segment] == "" {
		return "", &DetectionError{Identity: name[:i], Reason: fmt.Sprintf("package has no segment %d", segment)}
	}
	return seg[segment], nil
}

func (s *Support) Version() string        { return s.version }
func (s *Support) Host() Host             { return s.host }
func (s *Support) Config() Config         { return s.cfg }
func (s *Support) Logger() zerolog.Logger { return s.log }

var (
	attached atomic.Pointer[attachment]
	instance atomic.Pointer[published]
	guard    sync.Mutex
)

// Attach records the host of this process. It can be called once.
func Attach(host Host, opts ...Option) error {
	if host == nil {
		return errors.New("nil host")
	}
	if !attached.CompareAndSwap(nil, &attachment{host: host, opts: opts}) {
		return ErrAlreadyAttached
	}
	return nil
}

// Instance returns the process wide Support, detecting the version on first use.
//
// A detection failure is kept: every later call returns the same error.
func Instance() (*Support, error) {
	if p := instance.Load(); p != nil {
		return p.s, p.err
	}
	guard.Lock()
	defer guard.Unlock()
	if p := instance.Load(); p != nil {
		return p.s, p.err
	}
	a := attached.Load()
	if a == nil {
		// nothing published, a host may still attach
		return nil, &DetectionError{Reason: "no host attached"}
	}
	s, err := New(a.host, a.opts...)
	instance.Store(&published{s: s, err: err})
	return s, err
}

// MustInstance is Instance that panics on detection failure.
func MustInstance() *Support {
	s, err := Instance()
	if err != nil {
		panic(err)
	}
	return s
}

func validPath(p string) error {
	if p == "" {
		return errors.New("empty path")
	}
	if strings.TrimSpace(p) != p || strings.ContainsAny(p, " \t\r\n/") {
		return errors.New("path contains blanks or slashes")
	}
	for _, seg := range strings.Split(p, ".") {
		if seg == "" {
			return errors.New("empty path segment")
		}
	}
	return nil
}

// Path builds the fully qualified name of a version stable symbol.
func (s *Support) Path(ns Namespace, path string) (string, error) {
	if !ns.Valid() {
		return "", dispatchErr("resolve", ns.String()+"."+path, KindMalformed, errors.New("unknown namespace"))
	}
	if err := validPath(path); err != nil {
		return "", dispatchErr("resolve", ns.Prefix()+"."+path, KindMalformed, err)
	}
	return ns.Prefix() + "." + path, nil
}

// VersionedPath builds the fully qualified name of a symbol nested under the version package.
func (s *Support) VersionedPath(ns Namespace, path string) (string, error) {
	if !ns.Valid() {
		return "", dispatchErr("resolve", ns.String()+"."+path, KindMalformed, errors.New("unknown namespace"))
	}
	if err := validPath(path); err != nil {
		return "", dispatchErr("resolve", ns.Prefix()+"."+s.version+"."+path, KindMalformed, err)
	}
	return ns.Prefix() + "." + s.version + "." + path, nil
}

// Class resolves a version stable class, for example Class(MinecraftCore, "IRegistry").
func (s *Support) Class(ns Namespace, path string) (*Class, error) {
	name, err := s.Path(ns, path)
	if err != nil {
		return nil, err
	}
	return s.forName(name)
}

// VersionedClass resolves a class under the detected version,
// for example VersionedClass(Bukkit, "inventory.CraftItemStack").
func (s *Support) VersionedClass(ns Namespace, path string) (*Class, error) {
	name, err := s.VersionedPath(ns, path)
	if err != nil {
		return nil, err
	}
	return s.forName(name)
}

func (s *Support) forName(name string) (*Class, error) {
	c, ok := s.host.Classes().ForName(name)
	if !ok {
		return nil, dispatchErr("resolve", name, KindSymbol, nil)
	}
	return c, nil
}

// Invoke calls method name of target, selected by the exact run-time types of args.
func (s *Support) Invoke(target any, name string, args ...any) (any, error) {
	types, err := ArgTypes(args...)
	if err != nil {
		return nil, err
	}
	m, err := MethodOf(target, name, types...)
	if err != nil {
		return nil, err
	}
	return m.Invoke(target, args...)
}

// Construct creates an instance of a version stable class, selecting the constructor
// by the exact run-time types of args.
func (s *Support) Construct(ns Namespace, path string, args ...any) (any, error) {
	c, err := s.Class(ns, path)
	if err != nil {
		return nil, err
	}
	types, err := ArgTypes(args...)
	if err != nil {
		return nil, err
	}
	ctor, err := c.Constructor(types...)
	if err != nil {
		return nil, err
	}
	return ctor.NewInstance(args...)
}

// Static reads a static field of a version stable class.
func (s *Support) Static(ns Namespace, path, field string) (any, error) {
	c, err := s.Class(ns, path)
	if err != nil {
		return nil, err
	}
	f, err := c.Field(field)
	if err != nil {
		return nil, err
	}
	return f.Get(), nil
}

// failed logs a dispatch failure of a public operation.
func (s *Support) failed(op string, err error) {
	e := s.log.Warn()
	var de *DispatchError
	if errors.As(err, &de) {
		e = e.Str("path", de.Path).Stringer("kind", de.Kind)
	}
	e.Err(err).Str("op", op).Msg("dispatch failed")
}
