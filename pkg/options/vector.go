package options

import (
	"reflect"
	"strings"
)

const defaultVectorSep byte = ':'

// parseVector splits value on the descriptor's element separator
// (brace-aware, via NextToken) and parses each element with the
// element descriptor's own codec, building a slice of sample's
// element type. Only primitive and enum element types are supported
// -- see DESIGN.md's Open Question resolution on vector-of-struct.
func parseVector(d *Descriptor, sample any, value string) (any, error) {
	if d.Elem == nil {
		return nil, NotSupported("%s: vector descriptor missing element descriptor", d.Name)
	}
	switch d.Elem.Tag {
	case TagStruct, TagVector, TagConfigurable, TagCustomizable:
		return nil, NotSupported("%s: vector elements of tag %v are not supported", d.Name, d.Elem.Tag)
	}
	sep := d.Sep
	if sep == 0 {
		sep = defaultVectorSep
	}

	v := strings.TrimSpace(value)
	v = strings.TrimPrefix(v, "{")
	v = strings.TrimSuffix(v, "}")

	rv := reflect.ValueOf(sample)
	elemType := rv.Type().Elem()
	out := reflect.MakeSlice(rv.Type(), 0, 4)

	if v == "" {
		return out.Interface(), nil
	}

	pos := 0
	elemSample := reflect.Zero(elemType).Interface()
	for pos < len(v) {
		token, next, err := NextToken(v, sep, pos)
		if err != nil {
			return nil, err
		}
		pos = next
		parsed, err := parsePrimitive(d.Elem, elemSample, token)
		if err != nil {
			return nil, Wrap(KindInvalidArgument, err, "%s: invalid vector element %q", d.Name, token)
		}
		out = reflect.Append(out, reflect.ValueOf(parsed))
	}
	return out.Interface(), nil
}

// serializeVector renders a slice back to its textual form, joining
// elements with the separator and wrapping the whole value in "{...}"
// whenever any element's serialized form itself contains '=' (the
// ambiguity the brace wrapping exists to resolve, per spec.md's vector
// grammar).
func serializeVector(d *Descriptor, value any) (string, error) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice {
		return "", InvalidArgument("%s: expected slice value, got %T", d.Name, value)
	}
	sep := d.Sep
	if sep == 0 {
		sep = defaultVectorSep
	}
	parts := make([]string, 0, rv.Len())
	needsWrap := false
	for i := 0; i < rv.Len(); i++ {
		s, err := serializePrimitive(d.Elem, rv.Index(i).Interface())
		if err != nil {
			return "", err
		}
		if strings.ContainsRune(s, '=') {
			needsWrap = true
		}
		parts = append(parts, s)
	}
	joined := strings.Join(parts, string(sep))
	if needsWrap {
		return "{" + joined + "}", nil
	}
	return joined, nil
}

func equalsVector(d *Descriptor, a, b any) bool {
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Len() != rb.Len() {
		return false
	}
	for i := 0; i < ra.Len(); i++ {
		if !equalsPrimitive(d.Elem, ra.Index(i).Interface(), rb.Index(i).Interface()) {
			return false
		}
	}
	return true
}
