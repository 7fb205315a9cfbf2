package options

// parseEntry applies a single token's value to one Descriptor on
// record, dispatching on Tag. fieldPath is the remainder Table.Find
// reported: d.Name itself on an exact match, or the dotted-path suffix
// after the descriptor's own name when Tag is TagStruct/
// TagConfigurable/TagCustomizable and the original name was
// "descriptor.sub.path". This is the Go shape of
// OptionTypeInfo::ParseOption's per-tag dispatch in
// options_helper.cc.
func parseEntry(d *Descriptor, ctx Context, record any, fieldPath, value string) error {
	if d.Verification == VerifyDeprecated {
		return nil
	}

	// Unescaping (spec.md §4.4 step 3) only applies to a leaf value that
	// is used as-is: a Struct/Vector/Configurable/Customizable value is
	// about to be re-tokenized by its own nested grammar (StringToMap,
	// the vector separator, a recursive ConfigureFromString), and
	// unescaping it here first would consume the very backslashes that
	// protect its inner delimiters. Composite tags instead unescape
	// each of their own leaf tokens when they in turn reach this
	// function.
	unescapeLeaf := d.hasCustomCodec() ||
		(d.Tag != TagStruct && d.Tag != TagVector && d.Tag != TagConfigurable && d.Tag != TagCustomizable)
	if unescapeLeaf && ctx.InputStringsEscaped {
		unescaped, err := UnescapeOptionString(value)
		if err != nil {
			return InvalidArgument("%s: %v", d.Name, err)
		}
		value = unescaped
	}

	if d.hasCustomCodec() {
		parseCtx := ctx
		if d.Flags.has(FlagDontPrepare) {
			parseCtx.InvokePrepareOptions = false
		}
		if err := d.ParseFunc(parseCtx, record, value); err != nil {
			return InvalidArgument("%s: %v", d.Name, err)
		}
		return nil
	}

	if d.Verification.isByNameFamily() {
		// By-name descriptors are compared, not parsed, from a plain
		// option string -- RocksDB's VerifyByName family exists so a
		// Configurable can expose derived/read-only state through
		// GetOptionString/Matches without accepting it back in.
		return NotSupported("%s: option is verify-by-name only and cannot be set from a string", d.Name)
	}

	if !d.Flags.has(FlagMutable) && ctx.disallowImmutable {
		return InvalidArgument("%s: option is immutable after initial configuration", d.Name)
	}

	switch d.Tag {
	case TagStruct:
		nested := d.Accessor.Get(record)
		return parseStructValue(d, ctx, nested, fieldPath, value)

	case TagVector:
		sample := d.Accessor.Get(record)
		parsed, err := parseVector(d, sample, value)
		if err != nil {
			return err
		}
		return d.Accessor.Set(record, parsed)

	case TagPrefixTransform:
		pt, err := parsePrefixTransform(value)
		if err != nil {
			return err
		}
		return d.Accessor.Set(record, pt)

	case TagConfigurable:
		return parseConfigurableField(d, ctx, record, fieldPath, value)

	case TagCustomizable:
		return parseCustomizableField(d, ctx, record, fieldPath, value)

	default:
		sample := d.Accessor.Get(record)
		parsed, err := parsePrimitive(d, sample, value)
		if err != nil {
			return err
		}
		return d.Accessor.Set(record, parsed)
	}
}

// serializeEntry renders one Descriptor's current value back to its
// textual form. Skipping deprecated/alias and StringNone entries is the
// caller's concern (configurable.go's GetOptionString loop); this
// function always renders what it is asked to (a StringShallow
// customizable renders as its id only, in serializeCustomizableField).
func serializeEntry(d *Descriptor, ctx Context, record any) (string, error) {
	if d.hasCustomCodec() {
		return d.SerializeFunc(ctx, record)
	}
	switch d.Tag {
	case TagStruct:
		nested := d.Accessor.Get(record)
		return serializeStructValue(d, ctx, nested)

	case TagVector:
		value := d.Accessor.Get(record)
		return serializeVector(d, value)

	case TagPrefixTransform:
		value := d.Accessor.Get(record)
		return serializePrefixTransform(value.(PrefixTransform)), nil

	case TagConfigurable:
		return serializeConfigurableField(d, ctx, record)

	case TagCustomizable:
		return serializeCustomizableField(d, ctx, record)

	default:
		value := d.Accessor.Get(record)
		return serializePrimitive(d, value)
	}
}

// equalsEntry compares one Descriptor's value on two records,
// returning (true, "") on match or (false, mismatchPath) otherwise.
func equalsEntry(d *Descriptor, ctx Context, a, b any) (bool, string) {
	if d.Flags.sanityLevel() == SanityNone {
		return true, ""
	}
	if d.hasCustomCodec() {
		return d.EqualsFunc(ctx, a, b)
	}
	if d.Verification.isByNameFamily() {
		return equalsByName(d, ctx, a, b)
	}
	switch d.Tag {
	case TagStruct:
		na, nb := d.Accessor.Get(a), d.Accessor.Get(b)
		return equalsStructValue(d, ctx, na, nb)

	case TagVector:
		va, vb := d.Accessor.Get(a), d.Accessor.Get(b)
		if equalsVector(d, va, vb) {
			return true, ""
		}
		return false, d.Name

	case TagPrefixTransform:
		va, vb := d.Accessor.Get(a), d.Accessor.Get(b)
		if equalsPrefixTransform(va.(PrefixTransform), vb.(PrefixTransform)) {
			return true, ""
		}
		return false, d.Name

	case TagConfigurable, TagCustomizable:
		return equalsConfigurableField(d, ctx, a, b)

	default:
		va, vb := d.Accessor.Get(a), d.Accessor.Get(b)
		if equalsPrimitive(d, va, vb) {
			return true, ""
		}
		return false, d.Name
	}
}

// equalsByName implements the VerifyByName/VerifyByNameAllowNull/
// VerifyByNameAllowFromNull comparison contract (spec.md §4.4): the
// descriptor's value has no stable byte-wise comparison (it stands in
// for an opaque native pointer), so Matches falls back to comparing
// each side's serialized form instead, the one projection such a
// value is guaranteed to have. For the AllowNull/AllowFromNull
// variants, either side serializing to the null sentinel is treated
// as matching regardless of the other side, since an unset/native-null
// value is expected to differ textually from a configured one without
// that being a real mismatch.
func equalsByName(d *Descriptor, ctx Context, a, b any) (bool, string) {
	sa, err := serializeEntry(d, ctx.Embedded(), a)
	if err != nil {
		return false, d.Name
	}
	sb, err := serializeEntry(d, ctx.Embedded(), b)
	if err != nil {
		return false, d.Name
	}
	if d.Verification != VerifyByName && (sa == nullSentinel || sb == nullSentinel) {
		return true, ""
	}
	if sa == sb {
		return true, ""
	}
	return false, d.Name
}
