package toon

import (
	"fmt"
	"strings"
)

// DecodeOptions configures the decoder behavior.
type DecodeOptions struct {
	// Strict rejects tab indentation and array length mismatches.
	Strict bool

	// IndentSize is the number of spaces per indent unit (default 2).
	IndentSize int

	// Delimiter applies to array headers without an explicit delimiter
	// suffix (default comma). Decoding text produced with a non-comma
	// delimiter requires passing the same delimiter here.
	Delimiter Delimiter
}

// DefaultDecodeOptions returns strict decoding with two-space indentation
// and the comma delimiter.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{Strict: true, IndentSize: 2, Delimiter: DelimComma}
}

// DecodeError represents a decoding error with the offending line.
type DecodeError struct {
	Line    int
	Message string
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("toon: line %d: %s", e.Line, e.Message)
	}
	return "toon: " + e.Message
}

func decodeErrorf(line int, format string, args ...interface{}) *DecodeError {
	return &DecodeError{Line: line, Message: fmt.Sprintf(format, args...)}
}

// Decode parses TOON text into a Value tree. Structural errors (missing
// colons, unterminated quotes, misplaced indentation, an empty document)
// fail in both modes; length mismatches and tab indentation fail only in
// strict mode.
func Decode(input string, opts DecodeOptions) (*Value, error) {
	if opts.IndentSize < 1 {
		opts.IndentSize = 2
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = DelimComma
	}

	lines, _, err := scanLines(input, opts.IndentSize, opts.Strict)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, decodeErrorf(0, "empty document")
	}

	d := &decoder{cursor: newLineCursor(lines), opts: opts}
	v, err := d.decodeDocument()
	if err != nil {
		return nil, err
	}
	return v, nil
}

// decoder is a recursive-descent parser over scanned lines. The cursor is
// the only mutable state.
type decoder struct {
	cursor *lineCursor
	opts   DecodeOptions
}

// decodeDocument dispatches on the document root: a keyless array header,
// a single primitive line, or an object.
func (d *decoder) decodeDocument() (*Value, error) {
	first := d.cursor.peek()

	// Root-level array: the first line is a header with no key.
	if strings.HasPrefix(strings.TrimLeft(first.content, " \t"), "[") {
		if h, ok := parseArrayHeader(first.content, d.opts.Delimiter); ok && !h.hasKey {
			d.cursor.advance()
			return d.decodeArrayBody(h, first)
		}
	}

	// Single primitive document.
	if d.cursor.length() == 1 && !isKeyValueLine(first.content) {
		v, err := parsePrimitiveToken(first.content)
		if err != nil {
			return nil, decodeErrorf(first.lineNum, "%v", err)
		}
		return v, nil
	}

	return d.decodeObject(first.depth)
}

// decodeObject decodes key-value lines at exactly baseDepth until the
// input ends or the depth drops below baseDepth.
func (d *decoder) decodeObject(baseDepth int) (*Value, error) {
	obj := Obj()

	for {
		l := d.cursor.peek()
		if l == nil || l.depth < baseDepth {
			break
		}
		if l.depth > baseDepth {
			return nil, decodeErrorf(l.lineNum, "unexpected indentation (depth %d, expected %d)", l.depth, baseDepth)
		}

		d.cursor.advance()
		key, val, err := d.decodeKeyValuePair(l, baseDepth)
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)
	}

	return obj, nil
}

// decodeKeyValuePair decodes one already-consumed line at baseDepth,
// together with any nested lines belonging to its value.
func (d *decoder) decodeKeyValuePair(l *line, baseDepth int) (string, *Value, error) {
	// Array headers take precedence over plain key-value parsing.
	if h, ok := parseArrayHeader(l.content, d.opts.Delimiter); ok && h.hasKey {
		v, err := d.decodeArrayBody(h, l)
		if err != nil {
			return "", nil, err
		}
		return h.key, v, nil
	}

	key, end, err := parseKeyToken(l.content)
	if err != nil {
		return "", nil, decodeErrorf(l.lineNum, "%v", err)
	}
	rest := strings.Trim(l.content[end:], " \t")

	// No inline value: a nested object follows, or the value is empty.
	if rest == "" {
		if next := d.cursor.peek(); next != nil && next.depth > baseDepth {
			v, err := d.decodeObject(baseDepth + 1)
			if err != nil {
				return "", nil, err
			}
			return key, v, nil
		}
		return key, Obj(), nil
	}

	v, err := parsePrimitiveToken(rest)
	if err != nil {
		return "", nil, decodeErrorf(l.lineNum, "%v", err)
	}
	return key, v, nil
}

// decodeArrayBody decodes the array introduced by h, whose header line is
// headerLine (already consumed). Elements live one level deeper.
func (d *decoder) decodeArrayBody(h arrayHeader, headerLine *line) (*Value, error) {
	baseDepth := headerLine.depth

	// Tabular form: one delimiter-joined row per element.
	if h.hasFields {
		if len(h.fields) == 0 {
			// key[0]{}: the canonical empty array.
			if err := d.checkCount(headerLine, 0, h.length); err != nil {
				return nil, err
			}
			return Arr(), nil
		}
		return d.decodeTabularRows(h, headerLine, baseDepth)
	}

	// Inline form: primitives joined on the header line itself.
	if h.inline != "" {
		arr := Arr()
		for _, tok := range splitDelimited(h.inline, h.delimiter) {
			v, err := parsePrimitiveToken(tok)
			if err != nil {
				return nil, decodeErrorf(headerLine.lineNum, "%v", err)
			}
			arr.Append(v)
		}
		if err := d.checkCount(headerLine, arr.Len(), h.length); err != nil {
			return nil, err
		}
		return arr, nil
	}

	// Block form: hyphen-introduced elements, or keyless nested arrays.
	return d.decodeBlockElements(h, headerLine, baseDepth)
}

// decodeTabularRows reads rows at baseDepth+1 and zips each into an object
// keyed by the header's field list.
func (d *decoder) decodeTabularRows(h arrayHeader, headerLine *line, baseDepth int) (*Value, error) {
	arr := Arr()

	for {
		l := d.cursor.peek()
		if l == nil || l.depth != baseDepth+1 {
			break
		}
		d.cursor.advance()

		values := splitDelimited(l.content, h.delimiter)
		if d.opts.Strict && len(values) != len(h.fields) {
			return nil, decodeErrorf(l.lineNum, "expected %d fields, got %d", len(h.fields), len(values))
		}

		elem := Obj()
		for i, field := range h.fields {
			if i >= len(values) {
				break
			}
			v, err := parsePrimitiveToken(values[i])
			if err != nil {
				return nil, decodeErrorf(l.lineNum, "%v", err)
			}
			elem.Set(field, v)
		}
		arr.Append(elem)
	}

	if err := d.checkCount(headerLine, arr.Len(), h.length); err != nil {
		return nil, err
	}
	return arr, nil
}

// decodeBlockElements reads array elements at baseDepth+1. Each element is
// either a hyphen block (primitive, object, or nested array after the
// hyphen) or a keyless array header from the generic nesting form.
func (d *decoder) decodeBlockElements(h arrayHeader, headerLine *line, baseDepth int) (*Value, error) {
	arr := Arr()
	elemDepth := baseDepth + 1

	for {
		l := d.cursor.peek()
		if l == nil || l.depth != elemDepth {
			break
		}

		if strings.HasPrefix(l.content, "-") {
			d.cursor.advance()
			elem, err := d.decodeHyphenElement(l, elemDepth)
			if err != nil {
				return nil, err
			}
			arr.Append(elem)
			continue
		}

		// Keyless nested array: "[N]: ..." on its own line.
		if strings.HasPrefix(l.content, "[") {
			if nested, ok := parseArrayHeader(l.content, d.opts.Delimiter); ok && !nested.hasKey {
				d.cursor.advance()
				elem, err := d.decodeArrayBody(nested, l)
				if err != nil {
					return nil, err
				}
				arr.Append(elem)
				continue
			}
		}

		break
	}

	if err := d.checkCount(headerLine, arr.Len(), h.length); err != nil {
		return nil, err
	}
	return arr, nil
}

// decodeHyphenElement decodes one "- ..." element whose hyphen line l has
// been consumed. Nested content of the element sits at elemDepth+1.
func (d *decoder) decodeHyphenElement(l *line, elemDepth int) (*Value, error) {
	rest := strings.Trim(l.content[1:], " \t")

	// Bare hyphen: the element's fields follow on deeper lines.
	if rest == "" {
		if next := d.cursor.peek(); next != nil && next.depth > elemDepth {
			return d.decodeObject(elemDepth + 1)
		}
		return Obj(), nil
	}

	// Nested array element: "- [N]: ...".
	if strings.HasPrefix(rest, "[") {
		if nested, ok := parseArrayHeader(rest, d.opts.Delimiter); ok && !nested.hasKey {
			return d.decodeArrayBody(nested, l)
		}
	}

	// Object element: the first field is inline after the hyphen and the
	// remaining fields follow one level deeper.
	if findUnquotedChar(rest, ':') != -1 {
		inline := line{content: rest, depth: elemDepth, lineNum: l.lineNum}
		key, val, err := d.decodeKeyValuePair(&inline, elemDepth)
		if err != nil {
			return nil, err
		}
		elem := Obj(F(key, val))

		if next := d.cursor.peek(); next != nil && next.depth == elemDepth+1 {
			tail, err := d.decodeObject(elemDepth + 1)
			if err != nil {
				return nil, err
			}
			fields, _ := tail.AsObject()
			for _, f := range fields {
				elem.Set(f.Key, f.Value)
			}
		}
		return elem, nil
	}

	// Primitive element.
	v, err := parsePrimitiveToken(rest)
	if err != nil {
		return nil, decodeErrorf(l.lineNum, "%v", err)
	}
	return v, nil
}

// checkCount enforces the declared array length in strict mode. Lenient
// decoding keeps the actual count.
func (d *decoder) checkCount(headerLine *line, actual, declared int) error {
	if d.opts.Strict && actual != declared {
		return decodeErrorf(headerLine.lineNum, "expected %d elements, got %d", declared, actual)
	}
	return nil
}

// parseKeyToken extracts a quoted or bare key starting at the beginning of
// content and returns the index just past the terminating colon.
func parseKeyToken(content string) (string, int, error) {
	if content == "" {
		return "", 0, fmt.Errorf("unexpected end of content while parsing key")
	}

	if content[0] == '"' {
		closing := findClosingQuote(content, 0)
		if closing == -1 {
			return "", 0, fmt.Errorf("unterminated quoted key")
		}
		key := unescapeString(content[1:closing])
		end := closing + 1
		if end >= len(content) || content[end] != ':' {
			return "", 0, fmt.Errorf("missing colon after key")
		}
		return key, end + 1, nil
	}

	end := strings.IndexByte(content, ':')
	if end == -1 {
		return "", 0, fmt.Errorf("missing colon after key")
	}
	return strings.Trim(content[:end], " \t"), end + 1, nil
}

// isKeyValueLine reports whether content contains a key terminated by an
// unquoted colon.
func isKeyValueLine(content string) bool {
	if content == "" {
		return false
	}
	if content[0] == '"' {
		closing := findClosingQuote(content, 0)
		if closing == -1 {
			return false
		}
		return strings.IndexByte(content[closing+1:], ':') != -1
	}
	return findUnquotedChar(content, ':') != -1
}
