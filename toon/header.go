package toon

import (
	"strconv"
	"strings"
)

// arrayHeader is the parsed form of an array header line:
//
//	key[#Nδ]{f1,f2}: inline
//
// where # is the optional length-validation marker, N the declared element
// count, δ an optional one-character delimiter suffix (tab or pipe), the
// brace segment an optional field list, and inline the remainder after the
// colon (present only for single-line primitive arrays).
type arrayHeader struct {
	key          string
	hasKey       bool
	length       int
	delimiter    Delimiter
	fields       []string
	hasFields    bool
	lengthMarker bool
	inline       string
}

// parseArrayHeader recognizes an array header in content. A non-match
// (no balanced brackets, no colon, or a non-numeric length) returns
// ok=false so the caller can fall back to key-value parsing.
func parseArrayHeader(content string, defaultDelim Delimiter) (arrayHeader, bool) {
	var h arrayHeader
	trimmed := strings.TrimLeft(content, " \t")

	// Locate the bracket segment. A quoted key may contain brackets, so
	// skip past the closing quote first.
	bracketStart := -1
	if strings.HasPrefix(trimmed, `"`) {
		closing := findClosingQuote(trimmed, 0)
		if closing == -1 {
			return h, false
		}
		if closing+1 >= len(trimmed) || trimmed[closing+1] != '[' {
			return h, false
		}
		lead := len(content) - len(trimmed)
		bracketStart = lead + closing + 1
	} else {
		bracketStart = strings.IndexByte(content, '[')
		// A colon before the bracket means the bracket belongs to the
		// value, not to an array header.
		if bracketStart != -1 && findUnquotedChar(content[:bracketStart], ':') != -1 {
			return h, false
		}
	}
	if bracketStart == -1 {
		return h, false
	}

	bracketEnd := strings.IndexByte(content[bracketStart:], ']')
	if bracketEnd == -1 {
		return h, false
	}
	bracketEnd += bracketStart

	// Optional field list between the brackets and the colon.
	braceStart := -1
	braceEnd := -1
	rest := content[bracketEnd+1:]
	if strings.HasPrefix(strings.TrimLeft(rest, " \t"), "{") {
		braceStart = bracketEnd + 1 + strings.IndexByte(rest, '{')
		// Quoted field names may contain a closing brace.
		be := findUnquotedChar(content[braceStart+1:], '}')
		if be == -1 {
			return h, false
		}
		braceEnd = braceStart + 1 + be
	}

	colonFrom := bracketEnd + 1
	if braceEnd != -1 {
		colonFrom = braceEnd + 1
	}
	colonIdx := strings.IndexByte(content[colonFrom:], ':')
	if colonIdx == -1 {
		return h, false
	}
	colonIdx += colonFrom

	// Bracket segment: [#Nδ]
	seg := content[bracketStart+1 : bracketEnd]
	h.delimiter = defaultDelim
	if strings.HasPrefix(seg, "#") {
		h.lengthMarker = true
		seg = seg[1:]
	}
	if n := len(seg); n > 0 {
		switch seg[n-1] {
		case '\t':
			h.delimiter = DelimTab
			seg = seg[:n-1]
		case '|':
			h.delimiter = DelimPipe
			seg = seg[:n-1]
		}
	}
	length, err := strconv.Atoi(seg)
	if err != nil || length < 0 {
		return h, false
	}
	h.length = length

	// Key segment before the bracket.
	if bracketStart > 0 {
		rawKey := strings.Trim(content[:bracketStart], " \t")
		if rawKey != "" {
			if rawKey[0] == '"' {
				closing := findClosingQuote(rawKey, 0)
				if closing == -1 {
					return h, false
				}
				h.key = unescapeString(rawKey[1:closing])
			} else {
				h.key = rawKey
			}
			h.hasKey = true
		}
	}

	// Field list, split on the active delimiter.
	if braceStart != -1 {
		h.hasFields = true
		inner := content[braceStart+1 : braceEnd]
		if strings.Trim(inner, " \t") != "" {
			for _, f := range splitDelimited(inner, h.delimiter) {
				if f != "" && f[0] == '"' {
					if closing := findClosingQuote(f, 0); closing != -1 {
						f = unescapeString(f[1:closing])
					}
				}
				h.fields = append(h.fields, f)
			}
		}
	}

	h.inline = strings.Trim(content[colonIdx+1:], " \t")
	return h, true
}
