package toon

import "testing"

// Canonical documents survive decode-then-encode byte for byte.
func TestRoundTrip_CanonicalText(t *testing.T) {
	docs := []struct {
		name string
		text string
	}{
		{
			name: "flat_object",
			text: "name: Alice\nage: 30\nactive: true",
		},
		{
			name: "nested_object",
			text: "server:\n  host: localhost\n  port: 8080\ndebug: false",
		},
		{
			name: "inline_array",
			text: "tags[3]: red,green,blue",
		},
		{
			name: "empty_array",
			text: "tags[0]{}:",
		},
		{
			name: "tabular",
			text: "users[2]{id,name,role}:\n  1,Alice,admin\n  2,Bob,user",
		},
		{
			name: "hyphen_non_uniform",
			text: "records[2]:\n  - id: 1\n    name: Ana\n  - id: 2",
		},
		{
			name: "mixed_array",
			text: "items[3]:\n  - 42\n  - note\n  - done: true",
		},
		{
			name: "array_of_arrays",
			text: "matrix[2]:\n  [2]: 1,2\n  [2]: 3,4",
		},
		{
			name: "quoting",
			text: "note: \"has, comma\"\ncount: \"123\"\nlit: \"null\"",
		},
		{
			name: "floats",
			text: "ratio: 0.5\nwhole: 3.0\nbig: -12.25",
		},
		{
			name: "root_array",
			text: "[2]: a,b",
		},
		{
			name: "scalar",
			text: "42.5",
		},
	}

	for _, tt := range docs {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Decode(tt.text, DefaultDecodeOptions())
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			got := Encode(v, DefaultEncodeOptions())
			if got != tt.text {
				t.Errorf("round trip changed text:\nin:  %q\nout: %q", tt.text, got)
			}
		})
	}
}

// Value trees survive encode-then-decode with full fidelity, including
// the int/float distinction and object field order.
func TestRoundTrip_Values(t *testing.T) {
	values := []struct {
		name string
		v    *Value
	}{
		{
			name: "primitives",
			v: Obj(
				F("s", Str("plain")),
				F("i", Int(-7)),
				F("f", Float(2.5)),
				F("whole", Float(10)),
				F("b", Bool(false)),
				F("n", Null()),
			),
		},
		{
			name: "awkward_strings",
			v: Obj(
				F("empty", Str("")),
				F("spaces", Str("  padded  ")),
				F("newline", Str("a\nb")),
				F("tab", Str("a\tb")),
				F("quoted", Str(`say "hi"`)),
				F("backslash", Str(`a\b`)),
				F("looks_true", Str("true")),
				F("looks_num", Str("-3.5")),
				F("looks_header", Str("[2]: a,b")),
				F("dash", Str("- item")),
			),
		},
		{
			name: "awkward_keys",
			v: Obj(
				F("with:colon", Int(1)),
				F("with,comma", Int(2)),
				F("with[bracket", Int(3)),
				F("", Int(4)),
				F(" padded ", Int(5)),
			),
		},
		{
			name: "deep_nesting",
			v: Obj(F("a", Obj(F("b", Obj(F("c", Arr(
				Obj(F("d", Int(1)), F("e", Arr(Str("x")))),
			))))))),
		},
		{
			name: "empty_object_elements",
			v: Obj(
				F("rows", Arr(Obj(), Obj())),
				F("one", Arr(Obj())),
			),
		},
		{
			name: "braced_field_names",
			v: Obj(F("rows", Arr(
				Obj(F("a}b", Int(1)), F("c{d", Str("x"))),
				Obj(F("a}b", Int(2)), F("c{d", Str("y"))),
			))),
		},
		{
			name: "uniform_then_sparse",
			v: Obj(F("rows", Arr(
				Obj(F("a", Int(1)), F("b", Str("x"))),
				Obj(F("a", Int(2)), F("b", Str("y"))),
				Obj(F("a", Int(3))),
			))),
		},
		{
			name: "arrays_of_arrays",
			v: Obj(F("m", Arr(
				Arr(Int(1), Int(2)),
				Arr(),
				Arr(Arr(Str("deep"))),
			))),
		},
		{
			name: "mixed_array",
			v:    Arr(Int(1), Str("two"), Bool(true), Null(), Arr(Int(3)), Obj(F("k", Str("v")))),
		},
	}

	optVariants := []struct {
		name string
		enc  EncodeOptions
		dec  DecodeOptions
	}{
		{
			name: "default",
			enc:  DefaultEncodeOptions(),
			dec:  DefaultDecodeOptions(),
		},
		{
			name: "pipe",
			enc:  EncodeOptions{Indent: 2, Delimiter: DelimPipe},
			dec:  DecodeOptions{Strict: true, IndentSize: 2, Delimiter: DelimPipe},
		},
		{
			name: "indent_four",
			enc:  EncodeOptions{Indent: 4, Delimiter: DelimComma},
			dec:  DecodeOptions{Strict: true, IndentSize: 4, Delimiter: DelimComma},
		},
		{
			name: "length_marker",
			enc:  EncodeOptions{Indent: 2, Delimiter: DelimComma, LengthMarker: true},
			dec:  DefaultDecodeOptions(),
		},
	}

	for _, ov := range optVariants {
		for _, tt := range values {
			t.Run(ov.name+"/"+tt.name, func(t *testing.T) {
				text := Encode(tt.v, ov.enc)
				got, err := Decode(text, ov.dec)
				if err != nil {
					t.Fatalf("Decode() error: %v\nencoded:\n%s", err, text)
				}
				if !got.Equal(tt.v) {
					t.Errorf("round trip changed value\nencoded:\n%s\nre-encoded:\n%s", text, Encode(got, ov.enc))
				}
			})
		}
	}
}

func TestRoundTrip_EncodeIdempotent(t *testing.T) {
	v := Obj(
		F("users", Arr(
			Obj(F("id", Int(1)), F("name", Str("Ana"))),
			Obj(F("id", Int(2)), F("name", Str("Bo"))),
		)),
		F("tags", Arr(Str("x"), Str("y"))),
	)

	first := Encode(v, DefaultEncodeOptions())
	decoded, err := Decode(first, DefaultDecodeOptions())
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	second := Encode(decoded, DefaultEncodeOptions())
	if first != second {
		t.Errorf("encode not stable:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}
