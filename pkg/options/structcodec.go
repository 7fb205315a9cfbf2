package options

import "strings"

// parseStructValue applies value to nestedRecord (a pointer to the
// nested struct, as returned by a TagStruct descriptor's
// Accessor.Get). When fieldPath names a field of the struct (the
// dotted-path case, "struct.field=value"), value is that one field's
// value; when fieldPath is empty or d.Name, value is a whole
// "f1=v1;f2=v2" blob (optionally brace-wrapped). This mirrors
// ParseStruct in options_helper.cc; the choice is made from fieldPath
// alone, not from the shape of value.
func parseStructValue(d *Descriptor, ctx Context, nestedRecord any, fieldPath, value string) error {
	if d.Struct == nil {
		return NotSupported("%s: struct descriptor missing nested table", d.Name)
	}
	// fieldPath == d.Name is Table.Find's exact-match sentinel (it
	// returns the queried name as rest even on a direct hit, so that
	// GetOption's "rest == name" check can tell the two cases apart);
	// here it means "whole struct blob", same as fieldPath == "".
	if fieldPath != "" && fieldPath != d.Name {
		fd, rest, ok := d.Struct.Find(fieldPath)
		if !ok {
			return NotFound("%s.%s: no such field", d.Name, fieldPath)
		}
		return parseEntry(fd, ctx, nestedRecord, rest, value)
	}

	pairs, err := StringToMap(value, ';')
	if err != nil {
		return err
	}
	for _, kv := range pairs {
		fd, rest, ok := d.Struct.Find(kv.Key)
		if !ok {
			if ctx.IgnoreUnknownOptions {
				continue
			}
			return NotFound("%s.%s: no such field", d.Name, kv.Key)
		}
		if err := parseEntry(fd, ctx.Embedded(), nestedRecord, rest, kv.Value); err != nil {
			return err
		}
	}
	return nil
}

// serializeStructValue renders every entry of the nested table as
// "name=value" pairs joined by ';' and wrapped in "{...}", the
// struct's whole-value serialized form.
func serializeStructValue(d *Descriptor, ctx Context, nestedRecord any) (string, error) {
	if d.Struct == nil {
		return "", NotSupported("%s: struct descriptor missing nested table", d.Name)
	}
	var parts []string
	for _, fd := range d.Struct.Entries() {
		if fd.deprecatedOrAlias() {
			continue
		}
		s, err := serializeEntry(fd, ctx.Embedded(), nestedRecord)
		if err != nil {
			return "", err
		}
		parts = append(parts, fd.Name+"="+s)
	}
	return "{" + strings.Join(parts, ";") + "}", nil
}

func equalsStructValue(d *Descriptor, ctx Context, a, b any) (bool, string) {
	if d.Struct == nil {
		return false, d.Name
	}
	for _, fd := range d.Struct.Entries() {
		if fd.Flags.sanityLevel() == SanityNone || !ctx.checkEnabled(fd.sanity()) {
			continue
		}
		ok, mismatch := equalsEntry(fd, ctx.Embedded(), a, b)
		if !ok {
			return false, d.Name + "." + mismatch
		}
	}
	return true, ""
}
