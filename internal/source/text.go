package source

import "strings"

// Физические строки: каждая хранит свой собственный терминатор.
// SplitLines/Join — точные обратные операции, байт в байт.

// SplitLines splits src into physical lines. Every line keeps its trailing
// "\n" (a "\r\n" terminator stays inside the line); a final line without a
// terminator is returned as-is. Join(SplitLines(s)) == s for any s.
func SplitLines(src string) []string {
	if src == "" {
		return nil
	}
	lines := make([]string, 0, strings.Count(src, "\n")+1)
	start := 0
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			lines = append(lines, src[start:i+1])
			start = i + 1
		}
	}
	if start < len(src) {
		lines = append(lines, src[start:])
	}
	return lines
}

// Join concatenates physical lines back into a single buffer.
func Join(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	total := 0
	for _, line := range lines {
		total += len(line)
	}
	b.Grow(total)
	for _, line := range lines {
		b.WriteString(line)
	}
	return b.String()
}

const whitespace = " \t\n\r\v\f"

// Indentation returns the leading whitespace of line, or "" when the line is
// blank (whitespace only).
func Indentation(line string) string {
	if strings.TrimSpace(line) == "" {
		return ""
	}
	return line[:len(line)-len(strings.TrimLeft(line, whitespace))]
}

// LineEnding returns the trailing whitespace of line, including the line
// terminator. Empty for a final unterminated line with no trailing blanks.
func LineEnding(line string) string {
	return line[len(strings.TrimRight(line, whitespace)):]
}

// HasTerminator reports whether the physical line ends with "\n".
func HasTerminator(line string) bool {
	return strings.HasSuffix(line, "\n")
}
