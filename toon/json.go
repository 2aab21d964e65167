package toon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ============================================================
// JSON Bridge
// ============================================================
//
// Converts between JSON text and the Value model. The bridge is lossless
// for the model's distinctions: object field order is preserved (a Go map
// would destroy the order the tabular encoder depends on) and numbers stay
// int or float according to their textual form.

// FromJSON parses JSON bytes into a Value tree.
func FromJSON(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := readJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("toon: invalid JSON: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("toon: invalid JSON: trailing data after value")
	}
	return v, nil
}

func readJSONValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := Obj()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, got %v", keyTok)
				}
				val, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // closing }
				return nil, err
			}
			return obj, nil

		case '[':
			arr := Arr()
			for dec.More() {
				val, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				arr.Append(val)
			}
			if _, err := dec.Token(); err != nil { // closing ]
				return nil, err
			}
			return arr, nil

		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}

	case bool:
		return Bool(t), nil

	case json.Number:
		if strings.ContainsAny(t.String(), ".eE") {
			f, err := t.Float64()
			if err != nil {
				return nil, err
			}
			return Float(f), nil
		}
		n, err := t.Int64()
		if err != nil {
			// Out of int64 range: keep the magnitude as a float.
			f, ferr := t.Float64()
			if ferr != nil {
				return nil, err
			}
			return Float(f), nil
		}
		return Int(n), nil

	case string:
		return Str(t), nil

	case nil:
		return Null(), nil

	default:
		return nil, fmt.Errorf("unsupported JSON token %T", tok)
	}
}

// ToJSON renders a Value tree as JSON bytes, preserving object field
// order. indent > 0 pretty-prints with that many spaces per level;
// indent <= 0 produces compact output.
func ToJSON(v *Value, indent int) ([]byte, error) {
	w := &jsonWriter{indent: indent}
	if err := w.write(v, 0); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

type jsonWriter struct {
	buf    bytes.Buffer
	indent int
}

func (w *jsonWriter) newline(depth int) {
	if w.indent <= 0 {
		return
	}
	w.buf.WriteByte('\n')
	for i := 0; i < depth*w.indent; i++ {
		w.buf.WriteByte(' ')
	}
}

func (w *jsonWriter) writeString(s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	w.buf.Write(b)
	return nil
}

func (w *jsonWriter) write(v *Value, depth int) error {
	switch v.Type() {
	case TypeNull:
		w.buf.WriteString("null")

	case TypeBool:
		if v.boolVal {
			w.buf.WriteString("true")
		} else {
			w.buf.WriteString("false")
		}

	case TypeInt:
		w.buf.WriteString(formatInt(v.intVal))

	case TypeFloat:
		w.buf.WriteString(formatFloat(v.floatVal))

	case TypeString:
		return w.writeString(v.strVal)

	case TypeArray:
		if len(v.arrVal) == 0 {
			w.buf.WriteString("[]")
			return nil
		}
		w.buf.WriteByte('[')
		for i, el := range v.arrVal {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			w.newline(depth + 1)
			if err := w.write(el, depth+1); err != nil {
				return err
			}
		}
		w.newline(depth)
		w.buf.WriteByte(']')

	case TypeObject:
		if len(v.objVal) == 0 {
			w.buf.WriteString("{}")
			return nil
		}
		w.buf.WriteByte('{')
		for i, f := range v.objVal {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			w.newline(depth + 1)
			if err := w.writeString(f.Key); err != nil {
				return err
			}
			w.buf.WriteByte(':')
			if w.indent > 0 {
				w.buf.WriteByte(' ')
			}
			if err := w.write(f.Value, depth+1); err != nil {
				return err
			}
		}
		w.newline(depth)
		w.buf.WriteByte('}')
	}
	return nil
}
