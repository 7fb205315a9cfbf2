package options

import (
	"strings"
	"testing"
)

// leaf is the innermost nesting level a deep-struct test builds against,
// exercising arbitrary brace nesting (spec.md §8 property 4).
type leaf struct {
	V int32
}

func leafTable() *Table {
	return NewTable(&Descriptor{
		Name:     "v",
		Tag:      TagInt32,
		Flags:    FlagMutable,
		Accessor: Field(func(l *leaf) *int32 { return &l.V }),
	})
}

type mid struct {
	Leaf leaf
}

func midTable() *Table {
	return NewTable(&Descriptor{
		Name:     "leaf",
		Tag:      TagStruct,
		Flags:    FlagMutable,
		Struct:   leafTable(),
		Accessor: StructField(func(m *mid) *leaf { return &m.Leaf }),
	})
}

// demo is a minimal Configurable used across this file's tests: a plain
// int, a loosely-comparable int, and a nested two-level struct.
type demo struct {
	Base

	A      int32
	Loose  int32
	Mid    mid
	Label  string
	Custom string
}

func newDemo() *demo {
	d := &demo{}
	d.Init(OptionGroup{Table: demoTable(d), Record: d})
	return d
}

func demoTable(d *demo) *Table {
	return NewTable(
		&Descriptor{
			Name:     "a",
			Tag:      TagInt32,
			Flags:    FlagMutable,
			Accessor: Field(func(d *demo) *int32 { return &d.A }),
		},
		&Descriptor{
			Name:     "loose",
			Tag:      TagInt32,
			Flags:    FlagMutable | FlagCompareLoose,
			Accessor: Field(func(d *demo) *int32 { return &d.Loose }),
		},
		&Descriptor{
			Name:     "mid",
			Tag:      TagStruct,
			Flags:    FlagMutable,
			Struct:   midTable(),
			Accessor: StructField(func(d *demo) *mid { return &d.Mid }),
		},
		&Descriptor{
			Name:     "label",
			Tag:      TagString,
			Flags:    FlagMutable,
			Accessor: Field(func(d *demo) *string { return &d.Label }),
		},
		&Descriptor{
			Name:  "custom",
			Tag:   TagString,
			Flags: FlagMutable,
			// A custom codec overriding the tag's own primitive
			// string handling (spec.md §3/§4.4 step 4): parsing
			// upper-cases the stored value, serializing adds a
			// "custom:" prefix, and equality is case-insensitive --
			// none of which the plain string codec would do, so a
			// test observing these exercises the override path, not
			// just an equivalent fallback.
			Accessor: Field(func(d *demo) *string { return &d.Custom }),
			ParseFunc: func(_ Context, record any, value string) error {
				// Strip the "custom:" prefix SerializeFunc below adds,
				// so GetOptionString's output remains parseable by
				// this same ParseFunc (the round-trip property).
				value = strings.TrimPrefix(value, "custom:")
				record.(*demo).Custom = strings.ToUpper(value)
				return nil
			},
			SerializeFunc: func(_ Context, record any) (string, error) {
				return "custom:" + record.(*demo).Custom, nil
			},
			EqualsFunc: func(_ Context, a, b any) (bool, string) {
				if strings.EqualFold(a.(*demo).Custom, b.(*demo).Custom) {
					return true, ""
				}
				return false, "custom"
			},
		},
	)
}

// handleHolder is a minimal Configurable carrying a single
// VerifyByNameAllowNull descriptor, kept separate from demo so that
// demo's own round-trip tests don't have to account for a field that
// GetOptionString serializes but ConfigureFromString can never accept
// back (spec.md §4.4's "deserializing by-name is not supported").
type handleHolder struct {
	Base
	Handle string
}

func newHandleHolder() *handleHolder {
	h := &handleHolder{}
	h.Init(OptionGroup{Table: NewTable(&Descriptor{
		// Handle stands in for an opaque native pointer (spec.md's
		// ByName rationale): there is no grammar that can construct
		// one from a string, only compare/serialize its identifier, so
		// it is set directly on the struct (as Prepare would) rather
		// than through ConfigureOption.
		Name:         "handle",
		Tag:          TagString,
		Verification: VerifyByNameAllowNull,
		Accessor:     Field(func(h *handleHolder) *string { return &h.Handle }),
	}), Record: h})
	return h
}

func (h *handleHolder) ConfigureFromMap(ctx Context, kvs []KV) error {
	return h.Base.ConfigureFromMap(ctx, h, kvs)
}
func (h *handleHolder) ConfigureFromString(ctx Context, s string) error {
	return h.Base.ConfigureFromString(ctx, h, s)
}
func (h *handleHolder) ConfigureOption(ctx Context, name, value string) error {
	return h.Base.ConfigureOption(ctx, h, name, value)
}
func (h *handleHolder) GetOptionString(ctx Context) (string, error) {
	return h.Base.GetOptionString(ctx, h)
}
func (h *handleHolder) GetOption(ctx Context, name string) (string, error) {
	return h.Base.GetOption(ctx, h, name)
}
func (h *handleHolder) OptionNames() []string { return h.Base.OptionNames(h) }
func (h *handleHolder) Matches(ctx Context, other Configurable) (bool, string) {
	return h.Base.Matches(ctx, h, other)
}
func (h *handleHolder) PrepareOptions(ctx Context) error  { return h.Base.PrepareOptions(ctx, h) }
func (h *handleHolder) ValidateOptions(ctx Context) error { return h.Base.ValidateOptions(ctx, h) }

func (d *demo) ConfigureFromMap(ctx Context, kvs []KV) error {
	return d.Base.ConfigureFromMap(ctx, d, kvs)
}
func (d *demo) ConfigureFromString(ctx Context, s string) error {
	return d.Base.ConfigureFromString(ctx, d, s)
}
func (d *demo) ConfigureOption(ctx Context, name, value string) error {
	return d.Base.ConfigureOption(ctx, d, name, value)
}
func (d *demo) GetOptionString(ctx Context) (string, error) {
	return d.Base.GetOptionString(ctx, d)
}
func (d *demo) GetOption(ctx Context, name string) (string, error) {
	return d.Base.GetOption(ctx, d, name)
}
func (d *demo) OptionNames() []string { return d.Base.OptionNames(d) }
func (d *demo) Matches(ctx Context, other Configurable) (bool, string) {
	return d.Base.Matches(ctx, d, other)
}
func (d *demo) PrepareOptions(ctx Context) error { return d.Base.PrepareOptions(ctx, d) }
func (d *demo) ValidateOptions(ctx Context) error { return d.Base.ValidateOptions(ctx, d) }

func TestDeepNestedStructRoundTrips(t *testing.T) {
	d := newDemo()
	ctx := Default()
	if err := d.ConfigureFromString(ctx, "mid={leaf={v=9}}"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Mid.Leaf.V != 9 {
		t.Fatalf("got Mid.Leaf.V = %d, want 9", d.Mid.Leaf.V)
	}

	out, err := d.GetOptionString(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d2 := newDemo()
	if err := d2.ConfigureFromString(ctx, out); err != nil {
		t.Fatalf("round-trip reconfigure failed: %v", err)
	}
	if ok, mismatch := d.Matches(ctx, d2); !ok {
		t.Fatalf("round-tripped value does not match original, mismatch at %q", mismatch)
	}
}

func TestConfigureFromMapIsIdempotent(t *testing.T) {
	ctx := Default()
	kvs := []KV{{Key: "a", Value: "7"}, {Key: "mid.leaf.v", Value: "3"}}

	d1 := newDemo()
	if err := d1.ConfigureFromMap(ctx, kvs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d1.ConfigureFromMap(ctx, kvs); err != nil {
		t.Fatalf("second application should not error: %v", err)
	}

	d2 := newDemo()
	if err := d2.ConfigureFromMap(ctx, kvs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ok, mismatch := d1.Matches(ctx, d2); !ok {
		t.Fatalf("re-applying the same map twice changed observable state, mismatch at %q", mismatch)
	}
}

func TestSanityLevelGatesCompareLooseField(t *testing.T) {
	d1 := newDemo()
	d2 := newDemo()
	ctx := Default()
	if err := d1.ConfigureFromMap(ctx, []KV{{Key: "a", Value: "1"}, {Key: "loose", Value: "1"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d2.ConfigureFromMap(ctx, []KV{{Key: "a", Value: "1"}, {Key: "loose", Value: "2"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	looseCtx := ctx
	looseCtx.SanityLevel = SanityLooselyCompatible
	if ok, mismatch := d1.Matches(looseCtx, d2); !ok {
		t.Fatalf("CompareLoose field should not fail a match at SanityLooselyCompatible, got mismatch %q", mismatch)
	}

	exactCtx := ctx
	exactCtx.SanityLevel = SanityExactMatch
	if ok, _ := d1.Matches(exactCtx, d2); ok {
		t.Fatal("CompareLoose field should still differ under SanityExactMatch")
	}
}

func TestDottedPathSetsNestedFieldWithoutDisturbingSiblings(t *testing.T) {
	d := newDemo()
	ctx := Default()
	if err := d.ConfigureFromString(ctx, "a=3;mid={leaf={v=4}}"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.ConfigureOption(ctx, "mid.leaf.v", "7"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Mid.Leaf.V != 7 {
		t.Fatalf("got Mid.Leaf.V = %d, want 7", d.Mid.Leaf.V)
	}
	if d.A != 3 {
		t.Fatalf("sibling a changed: got A = %d, want 3", d.A)
	}
}

func TestUnknownOptionRejectedUnlessIgnored(t *testing.T) {
	d := newDemo()
	ctx := Default()
	if err := d.ConfigureFromString(ctx, "bogus=1"); err == nil {
		t.Fatal("expected an error for an unknown option")
	}

	ignoring := ctx
	ignoring.IgnoreUnknownOptions = true
	d2 := newDemo()
	if err := d2.ConfigureFromString(ignoring, "bogus=1"); err != nil {
		t.Fatalf("expected bogus=1 to be silently dropped, got: %v", err)
	}
}

func TestCustomCodecOverridesPrimitiveCodec(t *testing.T) {
	d := newDemo()
	ctx := Default()
	if err := d.ConfigureFromString(ctx, "custom=hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Custom != "HELLO" {
		t.Fatalf("ParseFunc override did not run: got Custom=%q, want %q", d.Custom, "HELLO")
	}

	got, err := d.GetOption(ctx, "custom")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "custom:HELLO" {
		t.Fatalf("SerializeFunc override did not run: got %q, want %q", got, "custom:HELLO")
	}

	other := newDemo()
	if err := other.ConfigureFromString(ctx, "custom=hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	other.Custom = "hello"
	if ok, mismatch := d.Matches(ctx, other); !ok {
		t.Fatalf("EqualsFunc override should treat case-insensitive values as equal, mismatch at %q", mismatch)
	}
}

func TestInputStringsEscapedUnescapesLeafValue(t *testing.T) {
	ctx := Default()
	ctx.InputStringsEscaped = true

	d := newDemo()
	if err := d.ConfigureFromMap(ctx, []KV{{Key: "label", Value: EscapeOptionString("a;b=c")}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Label != "a;b=c" {
		t.Fatalf("got Label = %q, want %q", d.Label, "a;b=c")
	}
}

func TestInputStringsEscapedDoesNotCorruptStructBlob(t *testing.T) {
	ctx := Default()
	ctx.InputStringsEscaped = true

	d := newDemo()
	if err := d.ConfigureFromString(ctx, "mid={leaf={v=5}}"); err != nil {
		t.Fatalf("unexpected error under InputStringsEscaped: %v", err)
	}
	if d.Mid.Leaf.V != 5 {
		t.Fatalf("got Mid.Leaf.V = %d, want 5", d.Mid.Leaf.V)
	}
}

func TestNewTableRejectsNonExclusiveOwnershipFlags(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected NewTable to panic on a descriptor with both FlagShared and FlagUnique set")
		}
	}()
	NewTable(&Descriptor{
		Name:  "bad",
		Tag:   TagCustomizable,
		Flags: FlagShared | FlagUnique,
	})
}

func TestValidateOptionsSurfacesStoredPrepareFailure(t *testing.T) {
	d := newDemo()
	ctx := Default()
	d.lastStatus = InvalidArgument("forced failure")
	d.prepared = true

	if err := d.ValidateOptions(ctx); err == nil {
		t.Fatal("expected ValidateOptions to surface the stored PrepareOptions failure")
	}
}

// TestStringValueRoundTripsThroughConfigureFromString exercises the
// exact scenario the "a;b" bug in serializePrimitive's String branch
// broke: a plain string field whose value contains a raw delimiter
// must survive GetOptionString followed by ConfigureFromString on a
// fresh peer under the same default context (spec.md §8 Property 1).
func TestStringValueRoundTripsThroughConfigureFromString(t *testing.T) {
	ctx := Default()

	d := newDemo()
	d.Label = "a;b=c{d}e#f"

	s, err := d.GetOptionString(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d2 := newDemo()
	if err := d2.ConfigureFromString(ctx, s); err != nil {
		t.Fatalf("ConfigureFromString(%q) failed: %v", s, err)
	}
	if d2.Label != d.Label {
		t.Fatalf("got Label = %q, want %q", d2.Label, d.Label)
	}
	if ok, mismatch := d.Matches(ctx, d2); !ok {
		t.Fatalf("round-tripped peer should match, mismatch at %q", mismatch)
	}
}

func TestStringOptionNeedingEscapeIsWrappedInBraces(t *testing.T) {
	d := newDemo()
	d.Label = "a;b"
	got, err := d.GetOption(Default(), "label")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "{a;b}" {
		t.Fatalf("got %q, want %q", got, "{a;b}")
	}
}

func TestGetOptionStringSkipsStringNoneDescriptor(t *testing.T) {
	d := newDemo()
	for _, table := range []*Table{d.OptionGroups()[0].Table} {
		fd, _, ok := table.Find("label")
		if !ok {
			t.Fatal("expected to find label descriptor")
		}
		fd.Flags |= FlagStringNone
	}
	d.Label = "should-not-appear"

	s, err := d.GetOptionString(Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(s, "label=") {
		t.Fatalf("GetOptionString emitted a StringNone descriptor: %q", s)
	}
}

func TestByNameVerificationComparesSerializedSurrogate(t *testing.T) {
	ctx := Default()

	h1 := newHandleHolder()
	h1.Handle = "native:0xdead"
	h2 := newHandleHolder()
	h2.Handle = "native:0xdead"
	if ok, mismatch := h1.Matches(ctx, h2); !ok {
		t.Fatalf("expected matching handles to match, mismatch at %q", mismatch)
	}

	h2.Handle = "native:0xbeef"
	if ok, mismatch := h1.Matches(ctx, h2); ok {
		t.Fatalf("expected differing handles to mismatch, got match (mismatch=%q)", mismatch)
	}

	h2.Handle = nullSentinel
	if ok, mismatch := h1.Matches(ctx, h2); !ok {
		t.Fatalf("expected VerifyByNameAllowNull to treat the null sentinel as matching, mismatch at %q", mismatch)
	}
}

func TestByNameVerificationRejectsWrites(t *testing.T) {
	h := newHandleHolder()
	err := h.ConfigureOption(Default(), "handle", "native:0xdead")
	if !IsNotSupported(err) {
		t.Fatalf("expected NotSupported writing a by-name field, got %v", err)
	}
}
