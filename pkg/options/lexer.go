package options

import "strings"

// NextToken scans the option string opts starting at pos for the next
// value, delimited by delimiter, honoring brace nesting ("{" ... "}")
// so that a composite value containing the delimiter itself is not
// split early. It returns the token's text with surrounding
// whitespace trimmed and the position immediately following the
// delimiter (or len(opts) at end of input).
//
// This mirrors OptionTypeInfo::NextToken from options_helper.cc: skip
// leading whitespace; if the next character is '{', read to its
// matching '}' and require the delimiter or end-of-input immediately
// after (anything else is "Unexpected chars after nested options");
// otherwise scan forward to the next delimiter, tracking brace depth
// so an already-open nested value (reached via a call that started
// mid-token, e.g. on a whole "key=value" pair) isn't split early
// either.
func NextToken(opts string, delimiter byte, start int) (token string, next int, err error) {
	pos := start
	for pos < len(opts) && isSpace(opts[pos]) {
		pos++
	}
	if pos >= len(opts) {
		return "", pos, nil
	}

	if opts[pos] == '{' {
		depth := 1
		contentStart := pos + 1
		p := contentStart
		for p < len(opts) && depth > 0 {
			switch opts[p] {
			case '{':
				depth++
			case '}':
				depth--
			}
			p++
		}
		if depth != 0 {
			return "", 0, InvalidArgument("Mismatched curly braces")
		}
		token = strings.TrimSpace(opts[contentStart : p-1])
		tail := p
		for tail < len(opts) && isSpace(opts[tail]) {
			tail++
		}
		switch {
		case tail >= len(opts):
			return token, tail, nil
		case opts[tail] == delimiter:
			return token, tail + 1, nil
		default:
			return "", 0, InvalidArgument("Unexpected chars after nested options")
		}
	}

	begin := pos
	depth := 0
	for pos < len(opts) {
		c := opts[pos]
		switch {
		case c == '{':
			depth++
		case c == '}':
			if depth == 0 {
				return "", 0, InvalidArgument("unbalanced '}' in option string at position %d", pos)
			}
			depth--
		case c == delimiter && depth == 0:
			token = strings.TrimSpace(opts[begin:pos])
			return token, pos + 1, nil
		}
		pos++
	}
	if depth != 0 {
		return "", 0, InvalidArgument("unbalanced '{' in option string")
	}
	token = strings.TrimSpace(opts[begin:pos])
	return token, pos, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// StringToMap parses a textual option string of the form
// "k1=v1;k2=v2;..." (optionally wrapped in any number of "{" "}"
// layers) into an ordered key/value slice, matching StringToMap in
// options_helper.cc: strip every matched pair of enclosing braces,
// then repeatedly take a key up to its "=" and its value via
// NextToken, so a brace-nested value's grammar (nothing but the
// delimiter or end-of-input may follow its closing '}') is enforced
// on the value alone rather than smeared across the whole pair.
func StringToMap(opts string, delimiter byte) ([]KV, error) {
	s := strings.TrimSpace(opts)
	for strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		inner := s[1 : len(s)-1]
		if !bracesBalanced(inner) {
			break
		}
		s = strings.TrimSpace(inner)
	}
	if s == "" {
		return nil, nil
	}
	var out []KV
	pos := 0
	for pos < len(s) {
		for pos < len(s) && isSpace(s[pos]) {
			pos++
		}
		if pos >= len(s) {
			break
		}
		keyStart := pos
		eq := -1
		for pos < len(s) {
			c := s[pos]
			if c == '=' {
				eq = pos
				break
			}
			if c == delimiter {
				break
			}
			pos++
		}
		if eq < 0 {
			token := strings.TrimSpace(s[keyStart:pos])
			if token == "" {
				if pos < len(s) {
					pos++
				}
				continue
			}
			return nil, InvalidArgument("option %q is missing '='", token)
		}
		key := strings.TrimSpace(s[keyStart:eq])
		if key == "" {
			return nil, InvalidArgument("empty option key")
		}
		value, next, err := NextToken(s, delimiter, eq+1)
		if err != nil {
			return nil, err
		}
		out = append(out, KV{Key: key, Value: value})
		pos = next
	}
	return out, nil
}

// KV is an ordered key/value pair, preserving the input order that
// StringToMap encountered (descriptor resolution order matters for the
// multi-pass unknown-option loop in configurable.go).
type KV struct {
	Key   string
	Value string
}

func bracesBalanced(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// EscapeOptionString doubles backslashes and escapes the characters
// that are otherwise significant to the grammar ('{', '}', ';', '=',
// ':', '#') so the result can be safely embedded as a single token
// value.
func EscapeOptionString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '{', '}', ';', '=', ':', '#':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// UnescapeOptionString reverses EscapeOptionString.
func UnescapeOptionString(s string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			if i+1 >= len(s) {
				return "", InvalidArgument("dangling escape at end of string")
			}
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String(), nil
}

// needsEscaping reports whether s must be wrapped/escaped when
// serialized as a value, because it contains a grammar-significant
// character.
func needsEscaping(s string) bool {
	return strings.ContainsAny(s, "{};=:#")
}
