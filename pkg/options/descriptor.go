package options

import "reflect"

// FieldFunc reads or writes one typed field of a record in place of a
// raw memory offset: record is always a pointer to the struct the
// Descriptor was registered against. This is the Design Note's typed
// accessor -- the Go replacement for OptionTypeInfo's byte-offset
// member pointer.
type FieldFunc struct {
	Get func(record any) any
	Set func(record any, value any) error
}

// Field builds a FieldFunc bound to one field of *T via a plain Go
// field-pointer closure, e.g.:
//
//	Field(func(o *Options) *int { return &o.Level })
//
// T is the owning struct type, F the field's Go type. The returned
// accessor boxes/unboxes F through interface{} so a single Descriptor
// table can hold fields of differing concrete types.
func Field[T any, F any](ptr func(*T) *F) FieldFunc {
	return FieldFunc{
		Get: func(record any) any {
			t := record.(*T)
			return *ptr(t)
		},
		Set: func(record any, value any) error {
			t := record.(*T)
			v, ok := value.(F)
			if !ok {
				return InvalidArgument("cannot assign %T to field of type %T", value, *new(F))
			}
			*ptr(t) = v
			return nil
		},
	}
}

// StructField builds a FieldFunc for a TagStruct descriptor. Unlike
// Field, Get returns a pointer to the nested struct itself (*S) rather
// than a copy, so the struct codec can recurse into it as a live
// record; Set replaces the whole nested value in one assignment
// (used only when a struct option is configured as a single "{...}"
// blob rather than field-by-field).
func StructField[T any, S any](ptr func(*T) *S) FieldFunc {
	return FieldFunc{
		Get: func(record any) any {
			t := record.(*T)
			return ptr(t)
		},
		Set: func(record any, value any) error {
			t := record.(*T)
			v, ok := value.(S)
			if !ok {
				return InvalidArgument("cannot assign %T to struct field of type %T", value, *new(S))
			}
			*ptr(t) = v
			return nil
		},
	}
}

// EnumMap is a bidirectional string<->int mapping used by TagEnum (and
// the fixed domain enum tags, whose maps are built in enums.go).
type EnumMap struct {
	byName  map[string]int64
	byValue map[int64]string
}

func NewEnumMap(pairs map[string]int64) *EnumMap {
	e := &EnumMap{byName: map[string]int64{}, byValue: map[int64]string{}}
	for name, val := range pairs {
		e.byName[name] = val
		e.byValue[val] = name
	}
	return e
}

func (e *EnumMap) ToName(v int64) (string, bool) {
	s, ok := e.byValue[v]
	return s, ok
}

func (e *EnumMap) ToValue(name string) (int64, bool) {
	v, ok := e.byName[name]
	return v, ok
}

// Descriptor is one named, typed entry in a Table: the Go analogue of
// OptionTypeInfo. It binds a field accessor to a Tag-driven codec and
// the verification/flag behavior spec.md requires of every option.
type Descriptor struct {
	Name         string
	Tag          Tag
	Verification Verification
	Flags        Flag

	Accessor FieldFunc

	// Enum is required when Tag is TagEnum. For the fixed domain enum
	// tags it may be left nil: parseEnum/serializeEnum fill it from
	// enums.go's table on first use (bindFixedEnum).
	Enum *EnumMap

	// Struct is required when Tag is TagStruct: the nested table
	// describing the struct's own fields.
	Struct *Table

	// Elem describes a TagVector's element: its Tag and Enum (if an
	// enum element). Only primitive and enum element tags are accepted;
	// parseVector rejects struct, vector, and configurable elements.
	// Accessor/Flags/Name are unused on an Elem descriptor.
	Elem *Descriptor

	// Sep is the vector element separator; it defaults to ':' when
	// zero. Restricted to a single byte -- see DESIGN.md.
	Sep byte

	// NewConfigurable/NewCustomizable construct a zero-value child when
	// Tag is TagConfigurable/TagCustomizable and the field is nil at
	// parse time. NewCustomizable additionally takes the registry
	// identifier to resolve the concrete factory.
	NewConfigurable func() Configurable
	NewCustomizable func(ctx Context, id string) (Customizable, error)

	// ParseFunc/SerializeFunc/EqualsFunc, when set, fully override the
	// Tag's codec for this Descriptor -- the custom closures of spec.md
	// §3/§4.4 step 4, for fields whose wire representation the built-in
	// primitive/struct/vector codecs cannot express (e.g. a derived
	// value computed from other fields). Per the invariant in spec.md
	// §3, either all three are set or none are; hasCustomCodec checks
	// ParseFunc as the representative of the triple.
	ParseFunc     func(ctx Context, record any, value string) error
	SerializeFunc func(ctx Context, record any) (string, error)
	EqualsFunc    func(ctx Context, a, b any) (bool, string)
}

func (d *Descriptor) hasCustomCodec() bool { return d.ParseFunc != nil }

func (d *Descriptor) sanity() SanityLevel { return d.Flags.sanityLevel() }

func (d *Descriptor) deprecatedOrAlias() bool {
	return d.Verification == VerifyDeprecated || d.Verification == VerifyAlias
}

// Table is an ordered set of Descriptors, keyed by Name, describing
// one record type (a struct or a Configurable's own option group).
type Table struct {
	entries []*Descriptor
	byName  map[string]*Descriptor
}

// NewTable builds a Table from entries, keyed by Name. It panics on a
// descriptor whose Shared/Unique/Pointer flags are not mutually
// exclusive, the Descriptor invariant of spec.md §3 -- caught here,
// at table-construction time, rather than silently picking one axis
// and ignoring the others at every later parse/serialize/compare call.
func NewTable(entries ...*Descriptor) *Table {
	t := &Table{byName: map[string]*Descriptor{}}
	for _, e := range entries {
		if n := e.Flags.ownershipAxisCount(); n > 1 {
			panic("options: descriptor " + e.Name + " sets more than one of Shared/Unique/Pointer")
		}
		t.entries = append(t.entries, e)
		t.byName[e.Name] = e
	}
	return t
}

func (t *Table) Entries() []*Descriptor { return t.entries }

func (t *Table) Lookup(name string) (*Descriptor, bool) {
	d, ok := t.byName[name]
	return d, ok
}

// Find resolves a dotted-path name against the table: an exact match
// wins first; otherwise the name is split on its first '.' and the
// lookup recurses into the parent descriptor's nested Table, but only
// when that parent is itself a struct or configurable/customizable
// field (mirroring FindOption in options_helper.cc).
func (t *Table) Find(name string) (*Descriptor, string, bool) {
	if d, ok := t.byName[name]; ok {
		return d, name, true
	}
	dot := indexByte(name, '.')
	if dot < 0 {
		return nil, "", false
	}
	parentName, rest := name[:dot], name[dot+1:]
	parent, ok := t.byName[parentName]
	if !ok {
		return nil, "", false
	}
	switch parent.Tag {
	case TagStruct:
		if parent.Struct == nil {
			return nil, "", false
		}
		// Report the struct descriptor itself, not the resolved leaf:
		// the leaf's Accessor is bound to the nested struct type, not
		// the record this Table's entries are bound to, so it must be
		// applied via parent's own TagStruct dispatch (which fetches
		// the live nested record first) rather than returned directly.
		return parent, rest, true
	case TagConfigurable, TagCustomizable:
		// Field-level resolution into a nested Configurable's own
		// table happens dynamically in configurable.go, since the
		// nested table depends on the live child instance, not a
		// static Struct pointer. Report the parent match and let the
		// caller descend.
		return parent, rest, true
	default:
		return nil, "", false
	}
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// kindOf reports the reflect.Kind backing a Descriptor's Go field,
// used by the primitive codec to dispatch without an exhaustive
// per-tag type switch (so named types like `type CompressionType int`
// reuse the int codec transparently).
func kindOf(v any) reflect.Kind {
	return reflect.ValueOf(v).Kind()
}
