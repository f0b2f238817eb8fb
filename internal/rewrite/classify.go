// Package rewrite is the core of sweep: line classification, the per-kind
// rewrite policies for flagged import and assignment lines, and removal of
// placeholder statements that later became redundant. Everything here works
// on line-local information only; a rewrite that would need cross-line
// knowledge returns the line unchanged instead.
package rewrite

import (
	"regexp"
	"strings"

	"sweep/internal/pytoken"
)

// Role of a physical line, derived on demand and never persisted.
type Role uint8

const (
	RoleOther Role = iota
	RoleComment
	RoleContinuation
	RolePlainImport
	RoleFromImport
	RoleAssignment
	RoleExceptBinding
)

func (r Role) String() string {
	switch r {
	case RoleComment:
		return "comment"
	case RoleContinuation:
		return "continuation"
	case RolePlainImport:
		return "plain-import"
	case RoleFromImport:
		return "from-import"
	case RoleAssignment:
		return "assignment"
	case RoleExceptBinding:
		return "except-binding"
	}
	return "other"
}

var (
	fromImportRE    = regexp.MustCompile(`^\s*from\s`)
	plainImportRE   = regexp.MustCompile(`^\s*import\b`)
	exceptBindingRE = regexp.MustCompile(`^[ \t\f]*except [\s,()\w]+ as \w+:$`)
	asClauseRE      = regexp.MustCompile(` as \w+:$`)
	importWordRE    = regexp.MustCompile(`\bimport\b`)
	fromModuleRE    = regexp.MustCompile(`\bfrom\s+([^ ]+)`)
	bareNameRE      = regexp.MustCompile(`^\w+\s*$`)
)

// Classify determines the role of line given its predecessor. Pure function
// of the two lines.
func Classify(line, previous string) Role {
	switch {
	case strings.Contains(line, "#"):
		return RoleComment
	case isExceptBinding(line):
		return RoleExceptBinding
	case fromImportRE.MatchString(line):
		if multilineImport(line, previous) {
			return RoleContinuation
		}
		return RoleFromImport
	case plainImportRE.MatchString(line):
		if multilineImport(line, previous) {
			return RoleContinuation
		}
		return RolePlainImport
	case multilineStatement(line, previous):
		return RoleContinuation
	case strings.Count(line, "=") == 1:
		return RoleAssignment
	}
	return RoleOther
}

// multilineImport reports whether an import line cannot be rewritten in
// isolation: grouping parentheses, a doctest prompt, or any of the general
// multi-line statement markers.
func multilineImport(line, previous string) bool {
	if strings.ContainsAny(line, "()") {
		return true
	}
	// Ignore doctests.
	if strings.HasPrefix(strings.TrimLeft(line, " \t\f\v"), ">") {
		return true
	}
	return multilineStatement(line, previous)
}

// multilineStatement reports whether line is part of a multi-line statement:
// it carries a continuation or separator symbol, fails to tokenize on its
// own, or follows an explicit backslash continuation.
func multilineStatement(line, previous string) bool {
	if strings.ContainsAny(line, `\:;`) {
		return true
	}
	if !pytoken.StandaloneTokenizes(line) {
		return true
	}
	return strings.HasSuffix(strings.TrimRight(previous, " \t\r\n\f\v"), `\`)
}

func isExceptBinding(line string) bool {
	// Matched without the final "\n"; a "\r" before it defeats the :$ anchor
	// and such a line stays untouched.
	return exceptBindingRE.MatchString(strings.TrimSuffix(line, "\n"))
}
