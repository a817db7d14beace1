package dataprocessing

import "strings"

const (
	fieldSeparator = ','
	quoteChar      = '"'
)

// SplitLine splits one line of CSV text into its fields.
//
// Commas inside double quotes are literal and a doubled quote inside a quoted
// field yields one literal quote. Every field is trimmed of surrounding
// whitespace, quoted ones included. An unterminated quote is accepted and the
// remaining text becomes the last field. The result always holds at least one
// field.
//
// The scan works on bytes: the separator and quote are ASCII, so multi-byte
// UTF-8 sequences pass through untouched.
func SplitLine(line string) []string {
	fields := make([]string, 0, strings.Count(line, string(fieldSeparator))+1)

	var buf strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == quoteChar:
			if inQuotes && i+1 < len(line) && line[i+1] == quoteChar {
				buf.WriteByte(quoteChar)
				i++
				continue
			}
			inQuotes = !inQuotes
		case c == fieldSeparator && !inQuotes:
			fields = append(fields, strings.TrimSpace(buf.String()))
			buf.Reset()
		default:
			buf.WriteByte(c)
		}
	}

	return append(fields, strings.TrimSpace(buf.String()))
}
