package options

import "testing"

func TestParseSizeMultipliers(t *testing.T) {
	cases := map[string]int64{
		"1024":  1024,
		"64K":   64 << 10,
		"4M":    4 << 20,
		"2G":    2 << 30,
		"1T":    1 << 40,
		"3k":    3 << 10,
	}
	for in, want := range cases {
		got, err := parseSize(in)
		if err != nil {
			t.Fatalf("parseSize(%q): unexpected error: %v", in, err)
		}
		if got != want {
			t.Errorf("parseSize(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParseSizeRejectsGarbage(t *testing.T) {
	if _, err := parseSize("not-a-size"); err == nil {
		t.Fatal("expected an error for an unparsable size")
	}
}

func TestParseBoolAcceptsCommonSpellings(t *testing.T) {
	for _, s := range []string{"true", "TRUE", "1", "yes", "on"} {
		v, err := parseBool(s)
		if err != nil || !v {
			t.Errorf("parseBool(%q) = %v, %v; want true, nil", s, v, err)
		}
	}
	for _, s := range []string{"false", "0", "no", "off"} {
		v, err := parseBool(s)
		if err != nil || v {
			t.Errorf("parseBool(%q) = %v, %v; want false, nil", s, v, err)
		}
	}
}

func TestEnumMapRoundTrip(t *testing.T) {
	em := NewEnumMap(map[string]int64{"a": 1, "b": 2})
	v, ok := em.ToValue("a")
	if !ok || v != 1 {
		t.Fatalf("ToValue(a) = %d, %v", v, ok)
	}
	name, ok := em.ToName(2)
	if !ok || name != "b" {
		t.Fatalf("ToName(2) = %q, %v", name, ok)
	}
	if _, ok := em.ToValue("missing"); ok {
		t.Fatal("expected ToValue to fail for an unregistered name")
	}
}

func TestPrefixTransformRoundTrip(t *testing.T) {
	cases := []string{"fixed:8", "capped:16", "nullptr", ""}
	for _, s := range cases {
		pt, err := parsePrefixTransform(s)
		if err != nil {
			t.Fatalf("parsePrefixTransform(%q): %v", s, err)
		}
		back := serializePrefixTransform(pt)
		pt2, err := parsePrefixTransform(back)
		if err != nil {
			t.Fatalf("re-parsing %q: %v", back, err)
		}
		if !equalsPrefixTransform(pt, pt2) {
			t.Errorf("round trip mismatch for %q: %+v != %+v", s, pt, pt2)
		}
	}
}

func TestPrefixTransformRejectsUnknownKind(t *testing.T) {
	if _, err := parsePrefixTransform("weird:4"); err == nil {
		t.Fatal("expected an error for an unrecognized prefix transform kind")
	}
}

func TestPrefixTransformAcceptsLegacyForms(t *testing.T) {
	cases := map[string]PrefixTransform{
		"rocksdb.Noop":            {},
		"rocksdb.FixedPrefix.8":   {Kind: "fixed", Length: 8},
		"rocksdb.CappedPrefix.16": {Kind: "capped", Length: 16},
	}
	for in, want := range cases {
		got, err := parsePrefixTransform(in)
		if err != nil {
			t.Fatalf("parsePrefixTransform(%q): unexpected error: %v", in, err)
		}
		if got != want {
			t.Errorf("parsePrefixTransform(%q) = %+v, want %+v", in, got, want)
		}
	}
}

func TestParseEnumCoercesToNarrowFieldType(t *testing.T) {
	d := &Descriptor{Name: "policy", Tag: TagEnum, Enum: NewEnumMap(map[string]int64{"lru": 0, "lfu": 1})}
	got, err := parsePrimitive(d, int(0), "lfu")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := got.(int); !ok {
		t.Fatalf("parsePrimitive on an enum field should coerce to the sample's type, got %T", got)
	}
	if got.(int) != 1 {
		t.Fatalf("got %v, want 1", got)
	}
}

func TestFixedDomainEnumBindsLazily(t *testing.T) {
	d := &Descriptor{Name: "compaction_style", Tag: TagEnumCompactionStyle}
	v, err := parseEnum(d, "universal")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 1 {
		t.Fatalf("got %d, want 1", v)
	}
	name, err := serializeEnum(d, int64(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "level" {
		t.Fatalf("got %q, want %q", name, "level")
	}
}

func TestDoubleEqualityUsesAbsoluteTolerance(t *testing.T) {
	d := &Descriptor{Tag: TagDouble}
	if !equalsPrimitive(d, 1.0, 1.0+5e-6) {
		t.Fatal("expected values within 1e-5 to compare equal")
	}
	if equalsPrimitive(d, 1.0, 1.0+1e-4) {
		t.Fatal("expected values beyond 1e-5 to compare unequal")
	}
}
