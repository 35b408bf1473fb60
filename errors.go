package vsupport

import (
	"errors"
	"fmt"
)

// Kind classifies a recoverable dispatch failure.
type Kind int

const (
	KindMalformed  Kind = iota + 1 //path can not name a symbol
	KindSymbol                     //symbol absent on this host version
	KindBinding                    //arguments can not be bound to the member
	KindInvocation                 //member was called and failed
)

func (k Kind) String() string {
	switch k {
	case KindMalformed:
		return "malformed"
	case KindSymbol:
		return "symbol"
	case KindBinding:
		return "binding"
	case KindInvocation:
		return "invocation"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

var (
	// ErrDispatch matches every *DispatchError.
	ErrDispatch = errors.New("dispatch failure")
	// ErrMalformedPath occurs when a namespace or relative path can not form a symbol name.
	ErrMalformedPath = errors.New("malformed symbol path")
	// ErrSymbolNotFound occurs when a class or member does not exist on the attached host version.
	ErrSymbolNotFound = errors.New("symbol not found")
	// ErrBinding occurs when arguments can not be bound to a resolved member.
	ErrBinding = errors.New("argument binding failed")
	// ErrInvocation occurs when a resolved member panics or returns an error.
	ErrInvocation = errors.New("invocation failed")
	// ErrDetection occurs when the host version can not be established. It is fatal for the layer.
	ErrDetection = errors.New("host version detection failed")
	// ErrAlreadyAttached occurs when attaching a second host to the process.
	ErrAlreadyAttached = errors.New("host already attached")
)

// DispatchError is the single recoverable failure of resolution and invocation.
type DispatchError struct {
	Op   string
	Path string
	Kind Kind
	Err  error
}

func (e *DispatchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.sentinel())
	}
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Path, e.sentinel(), e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

func (e *DispatchError) Is(target error) bool {
	return target == ErrDispatch || target == e.sentinel()
}

func (e *DispatchError) sentinel() error {
	switch e.Kind {
	case KindMalformed:
		return ErrMalformedPath
	case KindSymbol:
		return ErrSymbolNotFound
	case KindBinding:
		return ErrBinding
	default:
		return ErrInvocation
	}
}

func dispatchErr(op, path string, kind Kind, err error) error {
	return &DispatchError{Op: op, Path: path, Kind: kind, Err: err}
}

// DetectionError reports why the host version could not be read.
type DetectionError struct {
	Identity string
	Reason   string
}

func (e *DetectionError) Error() string {
	if e.Identity == "" {
		return fmt.Sprintf("%s: %s", ErrDetection, e.Reason)
	}
	return fmt.Sprintf("%s: %s (%q)", ErrDetection, e.Reason, e.Identity)
}

func (e *DetectionError) Is(target error) bool { return target == ErrDetection }

// Absent reports whether err only says the symbol is missing on this host version.
func Absent(err error) bool {
	return errors.Is(err, ErrSymbolNotFound)
}
