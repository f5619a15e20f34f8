package dump

import (
	"fmt"
	"strings"
)

// DefaultWidth is the number of bytes shown per hex row.
const DefaultWidth = 8

const ruleWidth = 78

// Render formats accumulated annotation lines into the final report:
// a title banner, then one row per line pairing the offset/hex columns
// with the label column, with a closing rule at the end. Spans wider
// than width bytes wrap onto continuation rows; the label appears only
// on the first row.
func Render(path string, data []byte, lines []Line, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}

	addrw := 1
	if len(data) > 1 {
		addrw = len(fmt.Sprintf("%x", len(data)-1))
	}
	if addrw < 2 {
		addrw = 2
	}
	leftw := addrw + 2 + width*3 - 1
	blank := strings.Repeat(" ", leftw)
	rule := strings.Repeat("-", ruleWidth)

	var b strings.Builder
	b.WriteString(rule)
	b.WriteByte('\n')
	b.WriteString("Path: " + path)
	b.WriteByte('\n')
	b.WriteString(rule)
	b.WriteByte('\n')

	for _, line := range lines {
		if line.IsRule {
			b.WriteString(rule)
			b.WriteByte('\n')
			continue
		}

		var left []string
		if line.Span != nil {
			span := *line.Span
			raw := data[span.Start:span.End]
			for p := 0; p < len(raw); p += width {
				end := p + width
				if end > len(raw) {
					end = len(raw)
				}
				row := fmt.Sprintf("%0*x: %s", addrw, span.Start+p, hexBytes(raw[p:end]))
				if len(row) < leftw {
					row += blank[:leftw-len(row)]
				}
				left = append(left, row[:leftw])
			}
		}

		indent := strings.Repeat("  ", line.Depth)
		right := make([]string, len(line.Labels))
		for i, label := range line.Labels {
			right[i] = indent + label
		}

		for len(left) < len(right) {
			left = append(left, blank)
		}
		for len(right) < len(left) {
			right = append(right, "")
		}
		for i := range left {
			b.WriteString(left[i])
			b.WriteString(" | ")
			b.WriteString(right[i])
			b.WriteByte('\n')
		}
	}

	b.WriteString(rule)
	b.WriteByte('\n')
	return b.String()
}

func hexBytes(data []byte) string {
	var b strings.Builder
	for i, c := range data {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02x", c)
	}
	return b.String()
}

// asciiRows renders data as quoted printable-ASCII rows of width bytes,
// one row per hex row so the columns stay aligned.
func asciiRows(data []byte, width int) []string {
	if width <= 0 {
		width = DefaultWidth
	}
	var rows []string
	for p := 0; p < len(data); p += width {
		end := p + width
		if end > len(data) {
			end = len(data)
		}
		var b strings.Builder
		b.WriteByte('"')
		for _, c := range data[p:end] {
			if c >= 0x20 && c < 0x7F {
				b.WriteByte(c)
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('"')
		rows = append(rows, b.String())
	}
	return rows
}
