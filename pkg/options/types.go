package options

// Tag is the closed set of semantic types a Descriptor can describe.
type Tag int

const (
	TagBoolean Tag = iota
	TagInt8
	TagInt16
	TagInt32
	TagInt64
	TagUInt8
	TagUInt16
	TagUInt32
	TagUInt64
	TagSize
	TagDouble
	TagString

	// Domain enums. Each has a fixed string<->value table in enums.go,
	// bound to the Descriptor's Enum on first parse/serialize.
	TagEnumCompression
	TagEnumCompactionStyle
	TagEnumCompactionPri
	TagEnumChecksumType
	TagEnumEncodingType
	TagEnumCompactionStopStyle
	TagEnum // user-supplied mapping

	// Composite tags.
	TagStruct
	TagVector
	TagConfigurable
	TagCustomizable

	// Legacy string-encoded pointer type.
	TagPrefixTransform
)

func (t Tag) isIntegerish() bool {
	switch t {
	case TagInt8, TagInt16, TagInt32, TagInt64,
		TagUInt8, TagUInt16, TagUInt32, TagUInt64, TagSize:
		return true
	}
	return false
}

func (t Tag) isEnum() bool {
	switch t {
	case TagEnumCompression, TagEnumCompactionStyle, TagEnumCompactionPri,
		TagEnumChecksumType, TagEnumEncodingType, TagEnumCompactionStopStyle, TagEnum:
		return true
	}
	return false
}

// Verification governs how a Descriptor participates in
// parse/serialize/compare.
type Verification int

const (
	VerifyNormal Verification = iota
	VerifyByName
	VerifyByNameAllowNull
	VerifyByNameAllowFromNull
	VerifyDeprecated
	VerifyAlias
)

func (v Verification) isByNameFamily() bool {
	switch v {
	case VerifyByName, VerifyByNameAllowNull, VerifyByNameAllowFromNull:
		return true
	}
	return false
}

// Flag is a bitset of per-descriptor behavior toggles.
type Flag uint32

const (
	FlagNone Flag = 0

	FlagMutable Flag = 1 << iota
	FlagPointer
	FlagShared
	FlagUnique
	FlagAllowNull
	FlagStringNone
	FlagStringShallow
	FlagDontPrepare
	FlagCompareNever
	FlagCompareLoose
	FlagCompareExact
)

func (f Flag) has(bit Flag) bool { return f&bit != 0 }

// sanityLevel derives, from a descriptor's compare flags, the lowest
// Context.SanityLevel at which the descriptor is compared:
// CompareNever maps to SanityNone (never compared), CompareLoose to
// SanityExactMatch (tolerated to differ under SanityLooselyCompatible),
// everything else (including CompareExact, the default) to
// SanityLooselyCompatible (compared whenever comparison is enabled).
func (f Flag) sanityLevel() SanityLevel {
	switch {
	case f.has(FlagCompareNever):
		return SanityNone
	case f.has(FlagCompareLoose):
		return SanityExactMatch
	default:
		return SanityLooselyCompatible
	}
}

// ownershipAxisCount reports how many of Shared/Unique/Pointer are set
// on f, so a caller can reject anything above 1 per the Descriptor
// invariant in spec.md §3.
func (f Flag) ownershipAxisCount() int {
	n := 0
	if f.has(FlagShared) {
		n++
	}
	if f.has(FlagUnique) {
		n++
	}
	if f.has(FlagPointer) {
		n++
	}
	return n
}
