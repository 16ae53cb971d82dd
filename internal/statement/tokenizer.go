package statement

import "strings"

// SplitLine splits one delimited line into fields. A separator inside double
// quotes is not a field boundary, a doubled quote inside a quoted field is a
// literal quote, and quotes are stripped from the returned fields.
func SplitLine(line string, sep rune) []string {
	var (
		fields []string
		b      strings.Builder
		quoted bool
	)

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if quoted && i+1 < len(runes) && runes[i+1] == '"' {
				b.WriteRune('"')
				i++
				continue
			}
			quoted = !quoted
		case r == sep && !quoted:
			fields = append(fields, strings.TrimSpace(b.String()))
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(b.String()))

	return fields
}

// splitLines returns the file content as lines without line terminators.
// A UTF-8 byte order mark on the first line is dropped.
func splitLines(content string) []string {
	content = strings.TrimPrefix(content, "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.Split(content, "\n")
}

// field returns fields[i] or "" when the line is too short.
func field(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}
