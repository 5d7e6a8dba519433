package adapter

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
)

// The wire line matches what Python's json.dumps prints with default
// settings: ", " and ": " separators, ASCII-only strings with \uXXXX
// escapes, and repr-style floats. Consumers compare it byte for byte.

type field struct {
	key   string
	value string // already encoded
}

// encodeObject renders fields in order as one newline-terminated object.
func encodeObject(fields ...field) []byte {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(quote(f.key))
		buf.WriteString(": ")
		buf.WriteString(f.value)
	}
	buf.WriteString("}\n")
	return buf.Bytes()
}

// quote encodes s as an ASCII-only JSON string. Runes outside the BMP are
// written as surrogate pairs; invalid UTF-8 becomes \ufffd.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			switch {
			case r >= 0x20 && r <= 0x7e:
				b.WriteRune(r)
			case r > 0xffff:
				r1, r2 := utf16.EncodeRune(r)
				fmt.Fprintf(&b, `\u%04x\u%04x`, r1, r2)
			default:
				fmt.Fprintf(&b, `\u%04x`, r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// formatFloat renders v like Python's float repr: the shortest round-trip
// digits, positional with at least one fractional digit, switching to
// exponent form (1e-05, 1e+16) below 1e-4 or from 1e16 up.
func formatFloat(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("unsupported confidence value %v", v)
	}

	sci := strconv.FormatFloat(v, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err != nil {
		return "", fmt.Errorf("formatting %v: %w", v, err)
	}
	// decimal point position relative to the first significant digit
	if decpt := exp + 1; v != 0 && (decpt <= -4 || decpt > 16) {
		return sci, nil
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s, nil
}
