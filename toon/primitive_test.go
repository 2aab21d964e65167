package toon

import (
	"math"
	"testing"
)

func TestParsePrimitiveToken(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    *Value
		wantErr bool
	}{
		{name: "int", token: "42", want: Int(42)},
		{name: "negative_int", token: "-7", want: Int(-7)},
		{name: "float", token: "42.5", want: Float(42.5)},
		{name: "exponent", token: "1e3", want: Float(1000)},
		{name: "negative_exponent", token: "2.5e-2", want: Float(0.025)},
		{name: "true", token: "true", want: Bool(true)},
		{name: "false", token: "false", want: Bool(false)},
		{name: "null", token: "null", want: Null()},
		{name: "bare_string", token: "hello", want: Str("hello")},
		{name: "trimmed", token: "  hello  ", want: Str("hello")},
		{name: "empty", token: "", want: Str("")},
		{name: "quoted", token: `"hello world"`, want: Str("hello world")},
		{name: "quoted_empty", token: `""`, want: Str("")},
		{name: "quoted_literal", token: `"true"`, want: Str("true")},
		{name: "quoted_numeric", token: `"123"`, want: Str("123")},
		{name: "quoted_escapes", token: `"a\"b\\c\nd"`, want: Str("a\"b\\c\nd")},
		{name: "not_a_number", token: "1.2.3", want: Str("1.2.3")},
		{name: "lone_minus", token: "-", want: Str("-")},
		{name: "leading_dash_word", token: "-foo", want: Str("-foo")},
		{name: "big_int_overflow", token: "9223372036854775808", want: Float(9223372036854775808)},
		{name: "unterminated_quote", token: `"abc`, wantErr: true},
		{name: "trailing_after_quote", token: `"abc" extra`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePrimitiveToken(tt.token)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parsePrimitiveToken(%q): expected error, got %v", tt.token, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parsePrimitiveToken(%q) error: %v", tt.token, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parsePrimitiveToken(%q) = %v (%s), want %s", tt.token, got, got.Type(), tt.want.Type())
			}
		})
	}
}

func TestPrimitiveStringRoundTrip(t *testing.T) {
	strs := []string{
		"plain",
		"",
		"  padded  ",
		"true",
		"null",
		"123",
		"-1.5e3",
		"a,b",
		"a:b",
		`say "hi"`,
		`back\slash`,
		"line\nbreak",
		"tab\there",
		"[3]: x,y,z",
		"- item",
	}

	for _, s := range strs {
		rendered := encodePrimitive(Str(s), DelimComma)
		got, err := parsePrimitiveToken(rendered)
		if err != nil {
			t.Errorf("parsePrimitiveToken(%q) error: %v", rendered, err)
			continue
		}
		if !got.Equal(Str(s)) {
			t.Errorf("string %q rendered as %q, decoded differently", s, rendered)
		}
	}
}

func TestIsNumericLiteral(t *testing.T) {
	valid := []string{"0", "42", "-42", "3.14", "-0.5", "1e3", "1E3", "1e+3", "2.5e-2"}
	for _, s := range valid {
		if !isNumericLiteral(s) {
			t.Errorf("isNumericLiteral(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "-", ".", "1.2.3", "1e", "e3", "1ee3", "abc", "1a", "--1", "1e+"}
	for _, s := range invalid {
		if isNumericLiteral(s) {
			t.Errorf("isNumericLiteral(%q) = true, want false", s)
		}
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name string
		f    float64
		want string
	}{
		{name: "fractional", f: 42.5, want: "42.5"},
		{name: "integral_keeps_point", f: 3, want: "3.0"},
		{name: "zero", f: 0, want: "0.0"},
		{name: "negative", f: -1.25, want: "-1.25"},
		{name: "tiny_exponent", f: 1e-7, want: "1e-07"},
		{name: "huge_exponent", f: 1e21, want: "1e+21"},
		{name: "nan", f: math.NaN(), want: "null"},
		{name: "inf", f: math.Inf(1), want: "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatFloat(tt.f); got != tt.want {
				t.Errorf("formatFloat(%v) = %q, want %q", tt.f, got, tt.want)
			}
		})
	}
}

func TestStringNeedsQuoting(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		delim Delimiter
		want  bool
	}{
		{name: "plain", s: "hello", delim: DelimComma, want: false},
		{name: "inner_space", s: "hello world", delim: DelimComma, want: false},
		{name: "empty", s: "", delim: DelimComma, want: true},
		{name: "leading_space", s: " x", delim: DelimComma, want: true},
		{name: "trailing_space", s: "x ", delim: DelimComma, want: true},
		{name: "true_literal", s: "true", delim: DelimComma, want: true},
		{name: "null_literal", s: "null", delim: DelimComma, want: true},
		{name: "numeric_lookalike", s: "123", delim: DelimComma, want: true},
		{name: "float_lookalike", s: "-1.5", delim: DelimComma, want: true},
		{name: "contains_delimiter", s: "a,b", delim: DelimComma, want: true},
		{name: "comma_with_pipe_delim", s: "a,b", delim: DelimPipe, want: false},
		{name: "pipe_with_pipe_delim", s: "a|b", delim: DelimPipe, want: true},
		{name: "colon", s: "a:b", delim: DelimComma, want: true},
		{name: "quote", s: `a"b`, delim: DelimComma, want: true},
		{name: "backslash", s: `a\b`, delim: DelimComma, want: true},
		{name: "newline", s: "a\nb", delim: DelimComma, want: true},
		{name: "bracket_ok", s: "[2]", delim: DelimComma, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stringNeedsQuoting(tt.s, tt.delim); got != tt.want {
				t.Errorf("stringNeedsQuoting(%q, %s) = %v, want %v", tt.s, tt.delim, got, tt.want)
			}
		})
	}
}

func TestEscapeUnescapeString(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		escaped string
	}{
		{name: "plain", raw: "abc", escaped: "abc"},
		{name: "quote", raw: `say "hi"`, escaped: `say \"hi\"`},
		{name: "backslash", raw: `a\b`, escaped: `a\\b`},
		{name: "newline_tab", raw: "a\nb\tc", escaped: `a\nb\tc`},
		{name: "control_pair", raw: "\b\f", escaped: `\b\f`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeString(tt.raw); got != tt.escaped {
				t.Errorf("escapeString(%q) = %q, want %q", tt.raw, got, tt.escaped)
			}
			if got := unescapeString(tt.escaped); got != tt.raw {
				t.Errorf("unescapeString(%q) = %q, want %q", tt.escaped, got, tt.raw)
			}
		})
	}
}

func TestSplitDelimited(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		delim Delimiter
		want  []string
	}{
		{name: "simple", s: "a,b,c", delim: DelimComma, want: []string{"a", "b", "c"}},
		{name: "trims_spaces", s: "a , b ,c", delim: DelimComma, want: []string{"a", "b", "c"}},
		{name: "quoted_delimiter", s: `"a,b",c`, delim: DelimComma, want: []string{`"a,b"`, "c"}},
		{name: "escaped_quote", s: `"a\"b",c`, delim: DelimComma, want: []string{`"a\"b"`, "c"}},
		{name: "empty_fields", s: "a,,b", delim: DelimComma, want: []string{"a", "", "b"}},
		{name: "trailing_empty", s: "a,", delim: DelimComma, want: []string{"a", ""}},
		{name: "pipe", s: "x|y", delim: DelimPipe, want: []string{"x", "y"}},
		{name: "empty_input", s: "", delim: DelimComma, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitDelimited(tt.s, tt.delim)
			if len(got) != len(tt.want) {
				t.Fatalf("splitDelimited(%q) = %v, want %v", tt.s, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("piece %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFindClosingQuote(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		start int
		want  int
	}{
		{name: "simple", s: `"ab"`, start: 0, want: 3},
		{name: "escaped_inner", s: `"a\"b"`, start: 0, want: 5},
		{name: "unterminated", s: `"ab`, start: 0, want: -1},
		{name: "not_a_quote", s: `ab`, start: 0, want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := findClosingQuote(tt.s, tt.start); got != tt.want {
				t.Errorf("findClosingQuote(%q, %d) = %d, want %d", tt.s, tt.start, got, tt.want)
			}
		})
	}
}

func TestFindUnquotedChar(t *testing.T) {
	if got := findUnquotedChar(`"a:b":c`, ':'); got != 5 {
		t.Errorf(`findUnquotedChar("\"a:b\":c", ':') = %d, want 5`, got)
	}
	if got := findUnquotedChar(`"a:b"`, ':'); got != -1 {
		t.Errorf(`findUnquotedChar("\"a:b\"", ':') = %d, want -1`, got)
	}
}
