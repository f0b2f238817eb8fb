package rewrite

import (
	"strings"

	"sweep/internal/source"
)

// RewriteVariable applies the deletion/blanking policy to one flagged
// assignment or except-binding line.
//
// The only shapes it touches are an exception binding ("except E as name:",
// whose binding clause is stripped) and a single non-destructuring
// assignment. For the latter the right-hand side decides: a literal, a bare
// name or an empty-container constructor carries no observable effect and
// the whole line becomes a placeholder; any other expression survives as a
// standalone statement so its side effects are preserved. Every other shape
// is returned unchanged.
func RewriteVariable(line, previous string) string {
	if isExceptBinding(line) {
		hadNL := strings.HasSuffix(line, "\n")
		body := asClauseRE.ReplaceAllString(strings.TrimSuffix(line, "\n"), ":")
		if hadNL {
			body += "\n"
		}
		return body
	}

	if multilineStatement(line, previous) {
		return line
	}

	if strings.Count(line, "=") != 1 {
		// Chained assignment or no assignment at all: guessing is unsafe.
		return line
	}

	parts := strings.SplitN(line, "=", 2)
	if strings.Contains(parts[0], ",") {
		// Destructuring target.
		return line
	}
	if !bareNameRE.MatchString(strings.TrimLeft(parts[0], " \t\f\v")) {
		// Augmented assignment or a non-name target.
		return line
	}

	value := strings.TrimLeft(parts[1], " \t\n\r\f\v")
	if isLiteralOrName(value) {
		value = Placeholder + source.LineEnding(line)
	}
	return source.Indentation(line) + value
}

// isLiteralOrName reports whether the right-hand side of an assignment can
// be discarded without losing an observable effect: a literal expression, an
// empty-container constructor, or a bare identifier. value retains the line
// terminator.
func isLiteralOrName(value string) bool {
	if isPythonLiteral(value) {
		return true
	}
	switch strings.TrimSpace(value) {
	case "dict()", "list()", "set()":
		return true
	}
	return bareNameRE.MatchString(value)
}
