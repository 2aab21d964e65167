package toon

import "strings"

// line is one structural line of input: its content with indentation
// stripped, its depth in indent units, and its 1-based source line number.
type line struct {
	content string
	depth   int
	lineNum int
}

// scanLines splits src into structural lines and blank line numbers.
// Each leading space counts as one depth unit; a tab counts as four units
// in lenient mode and is an error in strict mode. The unit total is divided
// by indentSize (truncating) to produce the line depth.
func scanLines(src string, indentSize int, strict bool) ([]line, []int, error) {
	if src == "" {
		return nil, nil, nil
	}
	if indentSize < 1 {
		indentSize = 1
	}

	var lines []line
	var blanks []int

	raw := strings.Split(src, "\n")
	for i, l := range raw {
		lineNum := i + 1
		l = strings.TrimSuffix(l, "\r")

		if strings.TrimSpace(l) == "" {
			// The final fragment after a trailing newline is not a line.
			if i == len(raw)-1 && l == "" {
				continue
			}
			blanks = append(blanks, lineNum)
			continue
		}

		units := 0
		pos := 0
		for pos < len(l) {
			c := l[pos]
			if c == ' ' {
				units++
			} else if c == '\t' {
				if strict {
					return nil, nil, &DecodeError{
						Line:    lineNum,
						Message: "tabs are not allowed in indentation in strict mode",
					}
				}
				units += 4
			} else {
				break
			}
			pos++
		}

		lines = append(lines, line{
			content: l[pos:],
			depth:   units / indentSize,
			lineNum: lineNum,
		})
	}

	return lines, blanks, nil
}

// lineCursor is a read position over a scanned line slice. Advancing is the
// only mutation; the underlying lines are never modified.
type lineCursor struct {
	lines []line
	pos   int
}

func newLineCursor(lines []line) *lineCursor {
	return &lineCursor{lines: lines}
}

func (c *lineCursor) atEnd() bool {
	return c.pos >= len(c.lines)
}

func (c *lineCursor) length() int {
	return len(c.lines)
}

// peek returns the next line without consuming it, or nil at end of input.
func (c *lineCursor) peek() *line {
	if c.atEnd() {
		return nil
	}
	return &c.lines[c.pos]
}

// next consumes and returns the next line, or nil at end of input.
func (c *lineCursor) next() *line {
	if c.atEnd() {
		return nil
	}
	l := &c.lines[c.pos]
	c.pos++
	return l
}

func (c *lineCursor) advance() {
	if !c.atEnd() {
		c.pos++
	}
}
