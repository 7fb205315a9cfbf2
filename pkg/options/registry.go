package options

import (
	"plugin"
	"regexp"
	"sync"
)

// Factory constructs a fresh Customizable instance for a registry
// identifier. Most factories ignore ctx; it is threaded through so a
// constructor can reach the invocation's registry, logger, or host
// environment handle.
type Factory func(ctx Context, id string) (Customizable, error)

type patternFactory struct {
	re      *regexp.Regexp
	factory Factory
}

// Registry resolves a Customizable identifier to a Factory, the
// object-registry pattern of spec.md §4.6, Go-shaped after the
// teacher's dependency-injection Container (internal/container): a
// plain map of exact names, a secondary list of regexp patterns for
// family matching (e.g. "zstd.*" compression variants), and a Clone
// method for the "sibling configurations never interfere" ownership
// rule in the Design Notes.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	patterns  []patternFactory
}

// NewRegistry returns an empty Registry with no factories registered.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// defaultGlobalRegistry is the Registry a bare Context{} falls back
// to. Nothing registers into it automatically: it holds factories only
// after a caller adds them (bootstrap.DefaultRegistry adds the
// built-in subsystems).
var defaultGlobalRegistry = NewRegistry()

// DefaultRegistry returns the process-wide default Registry.
func DefaultRegistry() *Registry { return defaultGlobalRegistry }

// Register binds id to factory by exact match.
func (r *Registry) Register(id string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[id] = factory
}

// RegisterPattern binds every identifier matching pattern (a Go
// regexp) to factory, checked only after an exact match fails.
func (r *Registry) RegisterPattern(pattern string, factory Factory) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return InvalidArgument("invalid registry pattern %q: %v", pattern, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patterns = append(r.patterns, patternFactory{re: re, factory: factory})
	return nil
}

// NewObject constructs a Customizable for id, trying an exact-name
// factory first and falling back to the first matching pattern
// factory. It returns NotFound if nothing resolves.
func (r *Registry) NewObject(ctx Context, id string) (Customizable, error) {
	r.mu.RLock()
	factory, ok := r.factories[id]
	if !ok {
		for _, p := range r.patterns {
			if p.re.MatchString(id) {
				factory = p.factory
				ok = true
				break
			}
		}
	}
	r.mu.RUnlock()
	if !ok {
		return nil, NotFound("no registered factory for identifier %q", id)
	}
	return factory(ctx, id)
}

// Clone returns a Registry with its own copy of the factory map, so
// registering an additional library on the clone never affects
// callers still holding the original -- the "never installed in
// shared/global storage" guarantee a Context carries forward when it
// is cloned.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := NewRegistry()
	for id, f := range r.factories {
		c.factories[id] = f
	}
	c.patterns = append([]patternFactory(nil), r.patterns...)
	return c
}

// LibraryRegisterFunc is the signature a library's registration entry
// point implements, whether invoked directly (AddLocalLibrary) or
// resolved from a loaded plugin (AddDynamicLibrary).
type LibraryRegisterFunc func(*Registry) error

// AddLocalLibrary runs register against r directly, in process. Use
// this for a library that ships as ordinary Go source compiled into
// the binary.
func (r *Registry) AddLocalLibrary(register LibraryRegisterFunc) error {
	if register == nil {
		return InvalidArgument("nil library register function")
	}
	return register(r)
}

// AddDynamicLibrary opens the shared object at path with the standard
// library's plugin package, looks up symbolName, and calls it as a
// LibraryRegisterFunc. This is the Go-native answer to resolving and
// invoking a registration entry point built outside the binary and
// loaded into the running process; like the
// plugin package itself, it only works on platforms plugin.Open
// supports (Linux, matching the teacher's own deployment target).
func (r *Registry) AddDynamicLibrary(path, symbolName string) error {
	p, err := plugin.Open(path)
	if err != nil {
		return Wrap(KindIOError, err, "opening dynamic library %q", path)
	}
	sym, err := p.Lookup(symbolName)
	if err != nil {
		return Wrap(KindNotFound, err, "symbol %q not found in %q", symbolName, path)
	}
	register, ok := sym.(func(*Registry) error)
	if !ok {
		return InvalidArgument("symbol %q in %q has unexpected type %T", symbolName, path, sym)
	}
	return register(r)
}
