package options

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// parsePrimitive converts value's textual form into the Go value a
// Descriptor's Accessor.Set expects, dispatching on reflect.Kind of
// the field's current zero/sample value rather than on a per-tag type
// switch -- this is what lets an enum such as `type CompressionType
// int` share the plain-int codec path.
func parsePrimitive(d *Descriptor, sample any, value string) (any, error) {
	if d.Tag.isEnum() {
		v, err := parseEnum(d, value)
		if err != nil {
			return nil, err
		}
		return coerceInt(sample, v)
	}
	if d.Tag == TagSize {
		n, err := parseSize(value)
		if err != nil {
			return nil, err
		}
		return coerceInt(sample, n)
	}
	switch kindOf(sample) {
	case reflect.Bool:
		return parseBool(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, InvalidArgument("%s: invalid integer %q", d.Name, value)
		}
		return coerceInt(sample, n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, InvalidArgument("%s: invalid unsigned integer %q", d.Name, value)
		}
		return coerceUint(sample, n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, InvalidArgument("%s: invalid float %q", d.Name, value)
		}
		return coerceFloat(sample, f)
	case reflect.String:
		return value, nil
	default:
		return nil, NotSupported("%s: unsupported primitive kind %s", d.Name, kindOf(sample))
	}
}

func serializePrimitive(d *Descriptor, value any) (string, error) {
	if d.Tag.isEnum() {
		return serializeEnum(d, value)
	}
	if d.Tag == TagSize {
		return fmt.Sprintf("%d", toInt64(value)), nil
	}
	switch kindOf(value) {
	case reflect.Bool:
		if value.(bool) {
			return "true", nil
		}
		return "false", nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%d", toInt64(value)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("%d", toUint64(value)), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(toFloat64(value), 'g', -1, 64), nil
	case reflect.String:
		s := value.(string)
		if needsEscaping(s) {
			// Wrapping in "{...}" routes the value through NextToken's
			// brace-aware branch (lexer.go) instead of its raw
			// delimiter scan, so a value containing ';', '=', '#', or
			// ':' survives being re-tokenized verbatim -- the same
			// protection structcodec.go's whole-struct blob, vector.go's
			// '=' wrap, and customizable.go's wrapIfDelimited already
			// give their own composite forms. Backslash-escaping alone
			// doesn't help here: NextToken never unescapes before
			// scanning, so an escaped delimiter still splits the string
			// under the default context, where InputStringsEscaped is
			// false.
			return "{" + s + "}", nil
		}
		return s, nil
	default:
		return "", NotSupported("%s: unsupported primitive kind %s", d.Name, kindOf(value))
	}
}

func equalsPrimitive(d *Descriptor, a, b any) bool {
	if d.Tag.isEnum() {
		return toInt64(a) == toInt64(b)
	}
	switch kindOf(a) {
	case reflect.Bool:
		return a.(bool) == b.(bool)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return toInt64(a) == toInt64(b)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return toUint64(a) == toUint64(b)
	case reflect.Float32, reflect.Float64:
		diff := toFloat64(a) - toFloat64(b)
		return diff > -doubleTolerance && diff < doubleTolerance
	case reflect.String:
		return a.(string) == b.(string)
	default:
		return reflect.DeepEqual(a, b)
	}
}

// doubleTolerance is the absolute tolerance Double-tagged fields are
// compared within, per spec.
const doubleTolerance = 1e-5

func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	}
	return false, InvalidArgument("invalid boolean %q", value)
}

func parseEnum(d *Descriptor, value string) (int64, error) {
	bindFixedEnum(d)
	if d.Enum == nil {
		return 0, NotSupported("%s: no enum mapping registered", d.Name)
	}
	v, ok := d.Enum.ToValue(strings.TrimSpace(value))
	if !ok {
		return 0, InvalidArgument("%s: unrecognized enum value %q", d.Name, value)
	}
	return v, nil
}

func serializeEnum(d *Descriptor, value any) (string, error) {
	bindFixedEnum(d)
	if d.Enum == nil {
		return "", NotSupported("%s: no enum mapping registered", d.Name)
	}
	name, ok := d.Enum.ToName(toInt64(value))
	if !ok {
		return "", InvalidArgument("%s: enum value %v has no registered name", d.Name, value)
	}
	return name, nil
}

// parseSize parses an integer optionally suffixed with a K/M/G/T
// (base-1024) multiplier, e.g. "64K", "4M", "1G". Restricted to
// TagSize fields only -- see DESIGN.md for why this is not applied to
// every integer tag.
func parseSize(value string) (int64, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, InvalidArgument("empty size value")
	}
	mult := int64(1)
	last := s[len(s)-1]
	switch last {
	case 'k', 'K':
		mult = 1 << 10
	case 'm', 'M':
		mult = 1 << 20
	case 'g', 'G':
		mult = 1 << 30
	case 't', 'T':
		mult = 1 << 40
	}
	numPart := s
	if mult != 1 {
		numPart = s[:len(s)-1]
	}
	n, err := strconv.ParseInt(strings.TrimSpace(numPart), 10, 64)
	if err != nil {
		return 0, InvalidArgument("invalid size %q", value)
	}
	return n * mult, nil
}

func coerceInt(sample any, n int64) (any, error) {
	switch sample.(type) {
	case int:
		return int(n), nil
	case int8:
		return int8(n), nil
	case int16:
		return int16(n), nil
	case int32:
		return int32(n), nil
	case int64:
		return n, nil
	}
	rv := reflect.ValueOf(sample)
	out := reflect.New(rv.Type()).Elem()
	out.SetInt(n)
	return out.Interface(), nil
}

func coerceUint(sample any, n uint64) (any, error) {
	switch sample.(type) {
	case uint:
		return uint(n), nil
	case uint8:
		return uint8(n), nil
	case uint16:
		return uint16(n), nil
	case uint32:
		return uint32(n), nil
	case uint64:
		return n, nil
	}
	rv := reflect.ValueOf(sample)
	out := reflect.New(rv.Type()).Elem()
	out.SetUint(n)
	return out.Interface(), nil
}

func coerceFloat(sample any, f float64) (any, error) {
	if _, ok := sample.(float32); ok {
		return float32(f), nil
	}
	return f, nil
}

func toInt64(v any) int64 {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	}
	return 0
}

func toUint64(v any) uint64 {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return uint64(rv.Int())
	}
	return 0
}

func toFloat64(v any) float64 {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Float32 || rv.Kind() == reflect.Float64 {
		return rv.Float()
	}
	return 0
}
