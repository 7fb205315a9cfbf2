package options

import "strings"

// OptionGroup names one descriptor table a Configurable owns, bound
// to the live record (almost always the Configurable itself, or a
// struct field of it) the table's accessors read and write. A
// Configurable with several independently-versioned option sets (e.g.
// immutable vs. mutable groups) registers one OptionGroup per set.
type OptionGroup struct {
	Prefix string
	Table  *Table
	Record any
}

// Configurable is the embeddable unit of reflective configuration:
// anything with one or more descriptor tables bound to live fields.
// Concrete types get the full Configure*/GetOption*/Matches/Prepare/
// Validate surface by embedding Base and calling Base.Init with their
// groups in their constructor.
type Configurable interface {
	OptionGroups() []OptionGroup
	ConfigureFromMap(ctx Context, kvs []KV) error
	ConfigureFromString(ctx Context, s string) error
	ConfigureOption(ctx Context, name, value string) error
	GetOptionString(ctx Context) (string, error)
	GetOption(ctx Context, name string) (string, error)
	OptionNames() []string
	Matches(ctx Context, other Configurable) (bool, string)
	PrepareOptions(ctx Context) error
	ValidateOptions(ctx Context) error
}

// Base implements the Configurable machinery described in spec.md §4:
// parsing, serialization, comparison, and the two-phase lifecycle. It
// is meant to be embedded by value in a concrete option struct.
type Base struct {
	groups     []OptionGroup
	lastStatus *Status
	prepared   bool
}

// Init registers the option groups a concrete Configurable owns. It
// must run before any Configure/Get/Matches/Prepare/Validate call,
// typically from the concrete type's constructor.
func (b *Base) Init(groups ...OptionGroup) { b.groups = groups }

func (b *Base) OptionGroups() []OptionGroup { return b.groups }

// ConfigureFromString parses a ";"-delimited option string and applies
// it via ConfigureFromMap.
func (b *Base) ConfigureFromString(ctx Context, self Configurable, s string) error {
	kvs, err := StringToMap(s, delimiterByte(ctx))
	if err != nil {
		return err
	}
	return b.ConfigureFromMap(ctx, self, kvs)
}

// ConfigureFromMap applies an ordered set of key/value pairs across
// self's option groups. It retries unresolved keys across groups until
// a pass makes no further progress (the multi-pass loop from
// Configurable::DoConfigureOptions in configurable.cc). When
// ctx.IgnoreUnknownOptions is false, a terminal failure restores the
// pre-call state by re-applying the snapshot serialized before the
// first mutation -- the reset-on-failure behavior of
// Configurable::ConfigureFromMap; with IgnoreUnknownOptions set, no
// snapshot is taken and a failure leaves any partial changes in place.
func (b *Base) ConfigureFromMap(ctx Context, self Configurable, kvs []KV) error {
	if len(kvs) == 0 {
		return nil
	}

	var snapshot string
	haveSnapshot := false
	if !ctx.IgnoreUnknownOptions {
		s, err := b.GetOptionString(ctx, self)
		if err == nil {
			snapshot = s
			haveSnapshot = true
		}
	}

	if err := b.applyMap(ctx, self, kvs); err != nil {
		if haveSnapshot {
			resetCtx := ctx
			resetCtx.IgnoreUnknownOptions = true
			resetCtx.InvokePrepareOptions = true
			resetKVs, parseErr := StringToMap(snapshot, delimiterByte(ctx))
			if parseErr == nil {
				_ = b.applyMap(resetCtx, self, resetKVs)
			}
		}
		return err
	}

	if ctx.InvokePrepareOptions {
		return b.PrepareOptions(ctx, self)
	}
	return nil
}

// applyMap is the multi-pass core: each pass attempts every
// still-unresolved key against every group; a key resolved by
// NotFound in all groups this pass is retried next pass only if some
// other key made progress, matching the "while found > 0" loop in
// configurable.cc's DoConfigureOptions.
func (b *Base) applyMap(ctx Context, self Configurable, kvs []KV) error {
	pending := make([]KV, len(kvs))
	copy(pending, kvs)

	for len(pending) > 0 {
		var remaining []KV
		progress := 0
		var firstErr error

		for _, kv := range pending {
			err := b.configureOneAcrossGroups(ctx, self, kv.Key, kv.Value)
			switch {
			case err == nil:
				progress++
			case IsNotFound(err):
				remaining = append(remaining, kv)
			default:
				if firstErr == nil {
					firstErr = err
				}
			}
		}

		if firstErr != nil {
			return firstErr
		}
		if progress == 0 {
			if ctx.IgnoreUnknownOptions {
				return nil
			}
			return NotFound("unrecognized option(s): %s", joinKeys(remaining))
		}
		pending = remaining
	}
	return nil
}

func (b *Base) configureOneAcrossGroups(ctx Context, self Configurable, name, value string) error {
	for _, g := range self.OptionGroups() {
		d, rest, ok := g.Table.Find(name)
		if !ok {
			continue
		}
		return parseEntry(d, ctx, g.Record, rest, value)
	}
	return NotFound("%s: no such option", name)
}

// ConfigureOption applies a single name/value pair, the programmatic
// surface's single-option entry point.
func (b *Base) ConfigureOption(ctx Context, self Configurable, name, value string) error {
	if b.prepared {
		ctx.disallowImmutable = true
	}
	err := b.configureOneAcrossGroups(ctx, self, name, value)
	if err != nil {
		return err
	}
	if ctx.InvokePrepareOptions {
		return b.PrepareOptions(ctx, self)
	}
	return nil
}

// GetOptionString serializes every non-deprecated, non-alias,
// non-StringNone entry across all of self's groups back into the
// ";"-delimited textual form. FlagStringNone marks a descriptor as
// never participating in serialization at all (spec.md §4.4), the
// same way deprecated/alias entries never do.
func (b *Base) GetOptionString(ctx Context, self Configurable) (string, error) {
	var parts []string
	for _, g := range self.OptionGroups() {
		for _, d := range g.Table.Entries() {
			if d.deprecatedOrAlias() || d.Flags.has(FlagStringNone) {
				continue
			}
			s, err := serializeEntry(d, ctx.Embedded(), g.Record)
			if err != nil {
				return "", err
			}
			parts = append(parts, d.Name+"="+s)
		}
	}
	return strings.Join(parts, ctx.delimiterOrDefault()), nil
}

// String renders self with the package's default Context, for logs
// and diagnostics. It takes self as an argument, so Base does not by
// itself satisfy fmt.Stringer.
func (b *Base) String(self Configurable) string {
	s, err := b.GetOptionString(Default(), self)
	if err != nil {
		return "<error: " + err.Error() + ">"
	}
	return s
}

// GetOption looks up and serializes a single named option.
func (b *Base) GetOption(ctx Context, self Configurable, name string) (string, error) {
	for _, g := range self.OptionGroups() {
		d, rest, ok := g.Table.Find(name)
		if !ok {
			continue
		}
		return getOptionField(d, ctx, g.Record, rest, name)
	}
	return "", NotFound("%s: no such option", name)
}

// getOptionField serializes d's value for a GetOption lookup, where
// rest is the dotted-path remainder Table.Find reported (equal to
// name, or "", when d itself is the match). For a dotted match into a
// TagStruct or TagConfigurable/TagCustomizable descriptor, it fetches
// the live nested record/child first and recurses, rather than
// serializing d directly against the outer record it does not belong
// to.
func getOptionField(d *Descriptor, ctx Context, record any, rest, name string) (string, error) {
	if rest == "" || rest == name {
		return serializeEntry(d, ctx.Embedded(), record)
	}
	switch d.Tag {
	case TagStruct:
		if d.Struct == nil {
			return "", NotSupported("%s: struct descriptor missing nested table", d.Name)
		}
		nested := d.Accessor.Get(record)
		fd, fdRest, ok := d.Struct.Find(rest)
		if !ok {
			return "", NotFound("%s: no such field", name)
		}
		return getOptionField(fd, ctx, nested, fdRest, rest)
	case TagConfigurable, TagCustomizable:
		child, _ := d.Accessor.Get(record).(Configurable)
		if child == nil {
			return "", NotFound("%s: no instance configured", name)
		}
		return child.GetOption(ctx.Embedded(), rest)
	default:
		return serializeEntry(d, ctx.Embedded(), record)
	}
}

// OptionNames lists every descriptor name across self's groups,
// including deprecated/alias entries (callers filter as needed).
func (b *Base) OptionNames(self Configurable) []string {
	var names []string
	for _, g := range self.OptionGroups() {
		for _, d := range g.Table.Entries() {
			names = append(names, d.Name)
		}
	}
	return names
}

// Matches compares self against other group-by-group, honoring each
// descriptor's compare-strictness flag against ctx.SanityLevel, and
// returns the dotted mismatch path on the first difference found.
func (b *Base) Matches(ctx Context, self, other Configurable) (bool, string) {
	groups := self.OptionGroups()
	otherGroups := other.OptionGroups()
	if len(groups) != len(otherGroups) {
		return false, "<option group count mismatch>"
	}
	for i, g := range groups {
		og := otherGroups[i]
		for _, d := range g.Table.Entries() {
			if !ctx.checkEnabled(d.sanity()) {
				continue
			}
			ok, mismatch := equalsEntry(d, ctx.Embedded(), g.Record, og.Record)
			if !ok {
				return false, mismatch
			}
		}
	}
	return true, ""
}

// PrepareOptions runs any resource-acquiring setup a Configurable's
// fields require, depth-first over owned Configurable/Customizable
// children, short-circuiting on the first failure and remembering it
// so a re-entrant call returns the same Status rather than redoing
// (possibly side-effecting) work. Fields flagged FlagDontPrepare are
// skipped, matching Configurable::PrepareOptions in configurable.cc.
func (b *Base) PrepareOptions(ctx Context, self Configurable) error {
	if b.prepared && b.lastStatus != nil {
		return b.lastStatus
	}
	if b.prepared {
		return nil
	}

	for _, g := range self.OptionGroups() {
		for _, d := range g.Table.Entries() {
			if d.Flags.has(FlagDontPrepare) || d.deprecatedOrAlias() {
				continue
			}
			if err := prepareChild(d, ctx, g.Record); err != nil {
				b.lastStatus = toStatus(err)
				b.prepared = true
				return err
			}
		}
	}
	b.prepared = true
	b.lastStatus = nil
	return nil
}

// ValidateOptions performs the same depth-first walk as PrepareOptions
// but never mutates state, matching Configurable::ValidateOptions. A
// Configurable whose PrepareOptions has already failed surfaces that
// stored failure instead of re-running the walk, per spec.
func (b *Base) ValidateOptions(ctx Context, self Configurable) error {
	if b.prepared && b.lastStatus != nil {
		return b.lastStatus
	}
	for _, g := range self.OptionGroups() {
		for _, d := range g.Table.Entries() {
			if d.deprecatedOrAlias() {
				continue
			}
			if err := validateChild(d, ctx, g.Record); err != nil {
				return err
			}
		}
	}
	return nil
}

func toStatus(err error) *Status {
	if s, ok := err.(*Status); ok {
		return s
	}
	return Wrap(KindIOError, err, "prepare failed")
}

func delimiterByte(ctx Context) byte {
	if ctx.Delimiter == "" {
		return ';'
	}
	return ctx.Delimiter[0]
}

func (c Context) delimiterOrDefault() string {
	if c.Delimiter == "" {
		return ";"
	}
	return c.Delimiter
}

func joinKeys(kvs []KV) string {
	names := make([]string, len(kvs))
	for i, kv := range kvs {
		names[i] = kv.Key
	}
	return strings.Join(names, ", ")
}
