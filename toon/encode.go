package toon

import (
	"strconv"
	"strings"
)

// EncodeOptions configures the encoder.
type EncodeOptions struct {
	// Indent is the number of spaces per nesting level (default 2).
	Indent int

	// Delimiter joins inline array values, tabular rows and header field
	// lists (default comma).
	Delimiter Delimiter

	// LengthMarker writes array lengths as [#N] instead of [N], asking
	// strict decoders to validate the element count explicitly.
	LengthMarker bool
}

// DefaultEncodeOptions returns two-space indentation with the comma
// delimiter and no length marker.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{Indent: 2, Delimiter: DelimComma}
}

// Encode renders a Value tree as TOON text. It never fails on a finite
// tree; cyclic graphs are the caller's responsibility and the input is
// never mutated.
func Encode(v *Value, opts EncodeOptions) string {
	if opts.Indent < 0 {
		opts.Indent = 0
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = DelimComma
	}

	e := &encoder{opts: opts}
	switch {
	case v.IsPrimitive():
		return encodePrimitive(v, opts.Delimiter)
	case v.Type() == TypeArray:
		e.writeArray("", v, 0)
	default:
		e.writeObjectFields(v, 0)
	}
	return e.sb.String()
}

type encoder struct {
	sb   strings.Builder
	opts EncodeOptions
}

func (e *encoder) writeIndent(depth int) {
	for i := 0; i < depth*e.opts.Indent; i++ {
		e.sb.WriteByte(' ')
	}
}

// writeObjectFields writes one "key: value" line per field at depth.
func (e *encoder) writeObjectFields(obj *Value, depth int) {
	for i, f := range obj.objVal {
		if i > 0 {
			e.sb.WriteByte('\n')
		}
		e.writeIndent(depth)
		e.writeField(f.Key, f.Value, depth)
	}
}

// writeField writes a single field (key plus value) without the leading
// indent, which the caller has already written.
func (e *encoder) writeField(key string, v *Value, depth int) {
	rendered := e.renderKey(key)

	if v.IsPrimitive() {
		e.sb.WriteString(rendered)
		e.sb.WriteString(": ")
		e.sb.WriteString(encodePrimitive(v, e.opts.Delimiter))
		return
	}

	if v.Type() == TypeArray {
		e.writeArray(rendered, v, depth)
		return
	}

	// Object value: fields on deeper lines, nothing inline after the colon.
	e.sb.WriteString(rendered)
	e.sb.WriteByte(':')
	if v.Len() > 0 {
		e.sb.WriteByte('\n')
		e.writeObjectFields(v, depth+1)
	}
}

// writeArray selects the array form: inline primitives, tabular rows for a
// uniform object array, hyphen blocks for mixed or non-uniform elements,
// and keyless nested headers for arrays of arrays. key is pre-rendered and
// empty for keyless (root or nested) arrays.
func (e *encoder) writeArray(key string, arr *Value, depth int) {
	elems := arr.arrVal

	if len(elems) == 0 {
		e.sb.WriteString(key)
		e.writeBracket(0)
		e.sb.WriteString("{}:")
		return
	}

	allPrimitive := true
	allObject := true
	allArray := true
	for _, el := range elems {
		switch el.Type() {
		case TypeArray:
			allPrimitive = false
			allObject = false
		case TypeObject:
			allPrimitive = false
			allArray = false
		default:
			allObject = false
			allArray = false
		}
	}

	switch {
	case allPrimitive:
		e.sb.WriteString(key)
		e.writeBracket(len(elems))
		e.sb.WriteString(": ")
		e.sb.WriteString(encodeJoinedPrimitives(elems, e.opts.Delimiter))

	case allObject:
		if fields, uniform := uniformObjectFields(elems); uniform {
			e.writeTabularArray(key, elems, fields, depth)
		} else {
			e.writeHyphenArray(key, elems, depth)
		}

	case allArray:
		// Generic nesting: each element is a keyless array one level deeper.
		e.sb.WriteString(key)
		e.writeBracket(len(elems))
		e.sb.WriteByte(':')
		for _, el := range elems {
			e.sb.WriteByte('\n')
			e.writeIndent(depth + 1)
			e.writeArray("", el, depth+1)
		}

	default:
		e.writeHyphenArray(key, elems, depth)
	}
}

// writeTabularArray writes the uniform object-array form: the field list
// once in the header, then one delimiter-joined row per element.
func (e *encoder) writeTabularArray(key string, elems []*Value, fields []string, depth int) {
	e.sb.WriteString(key)
	e.writeBracket(len(elems))
	e.sb.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			e.sb.WriteByte(byte(e.opts.Delimiter))
		}
		e.sb.WriteString(e.renderKey(f))
	}
	e.sb.WriteString("}:")

	row := make([]*Value, len(fields))
	for _, el := range elems {
		for i, f := range fields {
			cell := el.Get(f)
			if cell == nil || !cell.IsPrimitive() {
				cell = Null()
			}
			row[i] = cell
		}
		e.sb.WriteByte('\n')
		e.writeIndent(depth + 1)
		e.sb.WriteString(encodeJoinedPrimitives(row, e.opts.Delimiter))
	}
}

// writeHyphenArray writes one hyphen block per element: "- value" for
// primitives, "- key: value" with deeper follow-up lines for objects, and
// a keyless header after the hyphen for array elements.
func (e *encoder) writeHyphenArray(key string, elems []*Value, depth int) {
	e.sb.WriteString(key)
	e.writeBracket(len(elems))
	e.sb.WriteByte(':')

	itemDepth := depth + 1
	for _, el := range elems {
		e.sb.WriteByte('\n')
		e.writeIndent(itemDepth)
		e.sb.WriteByte('-')

		switch el.Type() {
		case TypeObject:
			for i, f := range el.objVal {
				if i == 0 && f.Value.IsPrimitive() {
					e.sb.WriteByte(' ')
					e.writeField(f.Key, f.Value, itemDepth)
					continue
				}
				e.sb.WriteByte('\n')
				e.writeIndent(itemDepth + 1)
				e.writeField(f.Key, f.Value, itemDepth+1)
			}

		case TypeArray:
			e.sb.WriteByte(' ')
			e.writeArray("", el, itemDepth)

		default:
			e.sb.WriteByte(' ')
			e.sb.WriteString(encodePrimitive(el, e.opts.Delimiter))
		}
	}
}

// writeBracket writes the [N] length segment, with the marker when enabled.
func (e *encoder) writeBracket(n int) {
	e.sb.WriteByte('[')
	if e.opts.LengthMarker {
		e.sb.WriteByte('#')
	}
	e.sb.WriteString(strconv.Itoa(n))
	e.sb.WriteByte(']')
}

// renderKey writes a key bare when possible, quoted when it would collide
// with the line grammar.
func (e *encoder) renderKey(key string) string {
	if keyNeedsQuoting(key, e.opts.Delimiter) {
		return `"` + escapeString(key) + `"`
	}
	return key
}

// keyNeedsQuoting reports whether a key must be quoted: empty keys,
// surrounding whitespace, and characters that terminate or restructure the
// key token (colon, brackets, braces, quote, backslash, the delimiter,
// controls). Braces matter because keys double as tabular field names,
// where a bare brace would end the field list early.
func keyNeedsQuoting(key string, delim Delimiter) bool {
	if key == "" {
		return true
	}
	if key[0] == ' ' || key[len(key)-1] == ' ' {
		return true
	}
	for i := 0; i < len(key); i++ {
		switch c := key[i]; {
		case c == ':', c == '[', c == '{', c == '}', c == '"', c == '\\', c == byte(delim):
			return true
		case c < 0x20:
			return true
		}
	}
	return false
}

// uniformObjectFields returns the first element's field names when every
// element has exactly that field set (same size, same names, any order)
// and every value is primitive. Non-primitive cells have no tabular row
// representation, and zero-field elements would produce blank rows the
// scanner drops, so both fall back to the hyphen form.
func uniformObjectFields(elems []*Value) ([]string, bool) {
	if elems[0].Len() == 0 {
		return nil, false
	}
	fields := make([]string, 0, elems[0].Len())
	for _, f := range elems[0].objVal {
		if !f.Value.IsPrimitive() {
			return nil, false
		}
		fields = append(fields, f.Key)
	}

	for _, el := range elems[1:] {
		if el.Len() != len(fields) {
			return nil, false
		}
		for _, name := range fields {
			cell := el.Get(name)
			if cell == nil || !cell.IsPrimitive() {
				return nil, false
			}
		}
	}
	return fields, true
}
