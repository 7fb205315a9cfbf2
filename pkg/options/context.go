package options

// SanityLevel controls how strict Matches is willing to be about a
// mismatch. The zero value, SanityNone, disables comparison entirely.
type SanityLevel int

const (
	SanityNone SanityLevel = iota
	SanityLooselyCompatible
	SanityExactMatch
)

// InfoLogger is the diagnostic sink threaded through a Context. It is
// deliberately narrow: the engine only ever wants to emit a line, not
// manage a logger's lifecycle.
type InfoLogger interface {
	Logf(level, format string, args ...any)
}

// noopLogger discards everything; it is the default when a Context is
// constructed without an explicit logger.
type noopLogger struct{}

func (noopLogger) Logf(string, string, ...any) {}

// Context is the value-typed bundle threaded through every engine
// operation (spec: "Invocation Context"). It is cheap to clone --
// every field is either a scalar or a pointer to shared, read-mostly
// state -- and child operations clone and override fields rather than
// mutating a shared instance.
type Context struct {
	// Delimiter separates option pairs at the top level of a string.
	// Embedded contexts force this to ";".
	Delimiter string

	// InputStringsEscaped, when true, causes string values to be
	// unescaped before parsing.
	InputStringsEscaped bool

	// IgnoreUnknownOptions silently drops unknown keys instead of
	// rejecting them.
	IgnoreUnknownOptions bool

	// IgnoreUnknownObjects causes an unresolved polymorphic identifier
	// to produce a nil child instead of failing.
	IgnoreUnknownObjects bool

	// SanityLevel is the maximum comparison strictness Matches is
	// willing to apply.
	SanityLevel SanityLevel

	// InvokePrepareOptions controls whether PrepareOptions runs
	// implicitly after a successful ConfigureFromMap.
	InvokePrepareOptions bool

	// Registry resolves polymorphic (Customizable) identifiers to
	// factories.
	Registry *Registry

	// Env is an opaque platform/host handle passed through to
	// factories; the engine never inspects it.
	Env any

	// InfoLog is an opaque diagnostic sink.
	InfoLog InfoLogger

	// disallowImmutable is set internally once a Configurable has been
	// prepared, so that subsequent ConfigureOption calls reject
	// non-mutable descriptors instead of silently re-applying them.
	disallowImmutable bool
}

// Default returns a Context with the engine's baseline defaults: ";"
// delimiter, prepare-on-configure enabled, exact-match sanity, and a
// fresh, empty Registry (not the process-wide DefaultRegistry).
func Default() Context {
	return Context{
		Delimiter:            ";",
		InvokePrepareOptions: true,
		SanityLevel:          SanityExactMatch,
		Registry:             NewRegistry(),
		InfoLog:              noopLogger{},
	}
}

// Embedded returns the clone of ctx used whenever an operation
// recurses into a nested value: the delimiter is forced to ";" and
// prepare hooks are suspended (the outer call will invoke
// PrepareOptions itself, once, over the whole tree).
func (c Context) Embedded() Context {
	e := c
	e.Delimiter = ";"
	e.InvokePrepareOptions = false
	return e
}

// logger returns a non-nil InfoLogger, defaulting to a no-op sink.
func (c Context) logger() InfoLogger {
	if c.InfoLog == nil {
		return noopLogger{}
	}
	return c.InfoLog
}

// checkEnabled reports whether a comparison guarded by level should
// run at all under this context's SanityLevel.
func (c Context) checkEnabled(level SanityLevel) bool {
	return level <= c.SanityLevel
}

// registry returns ctx.Registry, defaulting to the global default
// registry when unset so that callers who build a bare Context{}
// still get sensible NewObject behavior.
func (c Context) registry() *Registry {
	if c.Registry == nil {
		return defaultGlobalRegistry
	}
	return c.Registry
}
