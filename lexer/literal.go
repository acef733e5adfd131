package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joy-lang/joy/textcodec"
)

// DecodeStringLiteral decodes a quoted STRING token (grammar:
// `"( [^"\\] | \\X )*"`) into its code points, resolving backslash
// escapes and then running the result through the UTF-8 text codec.
func DecodeStringLiteral(quoted string) ([]rune, error) {
	inner, err := unquote(quoted)
	if err != nil {
		return nil, err
	}

	unescaped, err := unescape(inner)
	if err != nil {
		return nil, err
	}

	codepoints, errored := textcodec.DecodeAll([]byte(unescaped))
	if errored {
		return nil, fmt.Errorf("malformed UTF-8 in string literal: %q", quoted)
	}
	return codepoints, nil
}

// unescape resolves backslash escapes in a string literal's interior.
// Recognized single-character escapes are 0 a b e f n r t v " ' \ ; any
// other single character following a backslash passes through as itself
// (an unrecognized escape like `\1` is the escaped character unchanged).
// `\uHHHH` and `\UHHHHHHHH` encode a code point by 4 or 8 hex digits.
func unescape(s string) (string, error) {
	var out strings.Builder
	r := []rune(s)
	for i := 0; i < len(r); i++ {
		if r[i] != '\\' {
			out.WriteRune(r[i])
			continue
		}
		i++
		if i >= len(r) {
			return "", fmt.Errorf("trailing backslash in string literal")
		}
		switch r[i] {
		case '0':
			out.WriteByte(0)
		case 'a':
			out.WriteByte('\a')
		case 'b':
			out.WriteByte('\b')
		case 'e':
			out.WriteByte(0x1b)
		case 'f':
			out.WriteByte('\f')
		case 'n':
			out.WriteByte('\n')
		case 'r':
			out.WriteByte('\r')
		case 't':
			out.WriteByte('\t')
		case 'v':
			out.WriteByte('\v')
		case '"':
			out.WriteByte('"')
		case '\'':
			out.WriteByte('\'')
		case '\\':
			out.WriteByte('\\')
		case ';':
			out.WriteByte(';')
		case 'u':
			cp, n, err := hexRune(r, i+1, 4)
			if err != nil {
				return "", err
			}
			out.WriteRune(cp)
			i += n
		case 'U':
			cp, n, err := hexRune(r, i+1, 8)
			if err != nil {
				return "", err
			}
			out.WriteRune(cp)
			i += n
		default:
			out.WriteRune(r[i])
		}
	}
	return out.String(), nil
}

func hexRune(r []rune, start, digits int) (rune, int, error) {
	if start+digits > len(r) {
		return 0, 0, fmt.Errorf("truncated \\u/\\U escape")
	}
	hex := string(r[start : start+digits])
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid hex escape %q: %w", hex, err)
	}
	return rune(v), digits, nil
}

// ParseCharLiteral interprets a `'...'` token of length >= 2 as a string
// literal of exactly one code point: the interior is re-quoted with `"`
// and decoded the same way as a string literal.
func ParseCharLiteral(tok string) (rune, error) {
	if len(tok) < 2 || tok[0] != '\'' || tok[len(tok)-1] != '\'' {
		return 0, fmt.Errorf("malformed char literal: %q", tok)
	}
	inner := tok[1 : len(tok)-1]
	codepoints, err := DecodeStringLiteral(`"` + inner + `"`)
	if err != nil {
		return 0, err
	}
	if len(codepoints) != 1 {
		return 0, fmt.Errorf("char literal %q does not decode to exactly one code point", tok)
	}
	return codepoints[0], nil
}

// ParseIntegerLiteral parses a 32-bit integer literal in hex (0x/0X),
// binary (0b/0B), or decimal, with an optional leading +/-, and stores
// the result modulo 2^32. The magnitude bound below is checked the same
// way for both signs, so a negative literal is accepted up to
// -(2^32-1), wider than the nominal -2^31 floor; the wraparound makes
// any value in range harmless to store.
func ParseIntegerLiteral(tok string) (uint32, error) {
	s := tok
	negative := false
	if strings.HasPrefix(s, "+") {
		s = s[1:]
	} else if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	var v uint64
	var err error
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		v, err = strconv.ParseUint(s[2:], 16, 64)
	case strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B"):
		v, err = strconv.ParseUint(s[2:], 2, 64)
	default:
		v, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid integer literal %q: %w", tok, err)
	}
	if v > 1<<32-1 {
		return 0, fmt.Errorf("integer literal %q out of range", tok)
	}

	result := uint32(v)
	if negative {
		result = -result
	}
	return result, nil
}
