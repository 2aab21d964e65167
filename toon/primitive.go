package toon

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	errUnterminatedString = errors.New("unterminated string: missing closing quote")
	errTrailingAfterQuote = errors.New("unexpected characters after closing quote")
)

// Delimiter separates values in inline arrays, tabular rows and header
// field lists.
type Delimiter byte

const (
	DelimComma Delimiter = ','
	DelimTab   Delimiter = '\t'
	DelimPipe  Delimiter = '|'
)

// String returns the delimiter name.
func (d Delimiter) String() string {
	switch d {
	case DelimComma:
		return "comma"
	case DelimTab:
		return "tab"
	case DelimPipe:
		return "pipe"
	default:
		return "unknown"
	}
}

const (
	nullLiteral  = "null"
	trueLiteral  = "true"
	falseLiteral = "false"
)

// ============================================================
// String Scanning Helpers
// ============================================================

// findClosingQuote returns the index of the closing double quote for the
// quote at start, or -1. A quote preceded by a backslash does not close.
func findClosingQuote(s string, start int) int {
	if start >= len(s) || s[start] != '"' {
		return -1
	}
	for i := start + 1; i < len(s); i++ {
		if s[i] == '"' && s[i-1] != '\\' {
			return i
		}
	}
	return -1
}

// findUnquotedChar returns the index of the first target byte outside any
// double-quoted segment, or -1.
func findUnquotedChar(s string, target byte) int {
	inQuotes := false
	for i := 0; i < len(s); i++ {
		if s[i] == '"' && (i == 0 || s[i-1] != '\\') {
			inQuotes = !inQuotes
		} else if !inQuotes && s[i] == target {
			return i
		}
	}
	return -1
}

// unescapeString resolves backslash escapes in quoted-string content.
func unescapeString(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case '/':
				b.WriteByte('/')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(s[i+1])
			}
			i++
		} else {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// escapeString escapes a string for quoted output.
func escapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// splitDelimited splits s on the delimiter, respecting quoted segments.
// Each piece is returned trimmed of surrounding spaces and tabs.
func splitDelimited(s string, delim Delimiter) []string {
	var values []string
	var current strings.Builder
	inQuotes := false
	d := byte(delim)

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && inQuotes && i+1 < len(s) {
			current.WriteByte(c)
			current.WriteByte(s[i+1])
			i++
			continue
		}
		if c == '"' {
			inQuotes = !inQuotes
			current.WriteByte(c)
			continue
		}
		if c == d && !inQuotes {
			values = append(values, strings.Trim(current.String(), " \t"))
			current.Reset()
			continue
		}
		current.WriteByte(c)
	}

	if current.Len() > 0 || len(values) > 0 {
		values = append(values, strings.Trim(current.String(), " \t"))
	}
	return values
}

// ============================================================
// Literal Recognition
// ============================================================

func isBooleanOrNullLiteral(s string) bool {
	return s == trueLiteral || s == falseLiteral || s == nullLiteral
}

// isNumericLiteral reports whether s matches the numeric grammar: optional
// leading minus, digits, at most one decimal point, and an optional
// exponent part. The exponent form is accepted on input so that every
// number the encoder emits reads back as a number.
func isNumericLiteral(s string) bool {
	if s == "" || s == "-" {
		return false
	}
	i := 0
	if s[i] == '-' {
		i++
	}
	digits := 0
	hasDecimal := false
	for ; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			if hasDecimal {
				return false
			}
			hasDecimal = true
		case c == 'e' || c == 'E':
			return digits > 0 && isExponentPart(s[i+1:])
		default:
			return false
		}
	}
	return digits > 0
}

func isExponentPart(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[i] == '+' || s[i] == '-' {
		i++
	}
	if i == len(s) {
		return false
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isFloatLiteral reports whether a numeric literal denotes a float. A
// decimal point or an exponent marks a float; plain digits are an int.
func isFloatLiteral(s string) bool {
	return strings.ContainsAny(s, ".eE")
}

// ============================================================
// Token Parsing (decode direction)
// ============================================================

// parsePrimitiveToken converts one literal token into a primitive Value.
// The token is trimmed first; quoting errors are reported to the caller.
func parsePrimitiveToken(token string) (*Value, error) {
	trimmed := strings.Trim(token, " \t")

	if trimmed == "" {
		return Str(""), nil
	}

	if trimmed[0] == '"' {
		closing := findClosingQuote(trimmed, 0)
		if closing == -1 {
			return nil, errUnterminatedString
		}
		if closing != len(trimmed)-1 {
			return nil, errTrailingAfterQuote
		}
		return Str(unescapeString(trimmed[1:closing])), nil
	}

	switch trimmed {
	case trueLiteral:
		return Bool(true), nil
	case falseLiteral:
		return Bool(false), nil
	case nullLiteral:
		return Null(), nil
	}

	if isNumericLiteral(trimmed) {
		if isFloatLiteral(trimmed) {
			if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
				return Float(f), nil
			}
		} else {
			if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
				return Int(n), nil
			}
			// Out of int64 range: keep the magnitude as a float.
			if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
				return Float(f), nil
			}
		}
	}

	return Str(trimmed), nil
}

// ============================================================
// Rendering (encode direction)
// ============================================================

// formatInt renders an integer without decimal point or exponent.
func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}

// formatFloat renders a float in minimal decimal form. A float with an
// integral value keeps a trailing ".0" so it decodes back as a float.
// Extreme magnitudes use exponent form; non-finite values have no TOON
// representation and render as null.
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nullLiteral
	}
	abs := math.Abs(f)
	if f != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// stringNeedsQuoting reports whether s must be quoted when rendered with
// the given delimiter active. Quoting protects empty strings, surrounding
// whitespace, literal collisions (true/false/null and numeric-looking
// text), structural characters and control characters.
func stringNeedsQuoting(s string, delim Delimiter) bool {
	if s == "" {
		return true
	}
	if s[0] == ' ' || s[len(s)-1] == ' ' {
		return true
	}
	if isBooleanOrNullLiteral(s) || isNumericLiteral(s) {
		return true
	}
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == byte(delim), c == ':', c == '"', c == '\\':
			return true
		case c < 0x20:
			return true
		}
	}
	return false
}

// encodePrimitive renders a primitive Value as a literal token, applying
// the quoting policy for the active delimiter. Non-primitive values render
// as null; the encoder's array paths rely on that for tabular cells.
func encodePrimitive(v *Value, delim Delimiter) string {
	if v.IsNull() {
		return nullLiteral
	}
	switch v.typ {
	case TypeBool:
		if v.boolVal {
			return trueLiteral
		}
		return falseLiteral
	case TypeInt:
		return formatInt(v.intVal)
	case TypeFloat:
		return formatFloat(v.floatVal)
	case TypeString:
		if stringNeedsQuoting(v.strVal, delim) {
			return `"` + escapeString(v.strVal) + `"`
		}
		return v.strVal
	default:
		return nullLiteral
	}
}

// encodeJoinedPrimitives renders values delimiter-joined on one line.
func encodeJoinedPrimitives(values []*Value, delim Delimiter) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteByte(byte(delim))
		}
		b.WriteString(encodePrimitive(v, delim))
	}
	return b.String()
}
