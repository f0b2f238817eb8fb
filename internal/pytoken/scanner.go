// Package pytoken is a deliberately small line scanner for Python source.
// It tracks just enough lexical state (brackets, strings, continuations,
// indentation) to answer line-local questions; it never builds a tree.
package pytoken

import (
	"errors"
	"strings"
)

// ErrTokenize is returned by Scan when the source cannot be tokenized to the
// end: an unterminated string, an open bracket, a dangling backslash
// continuation, or an inconsistent dedent.
var ErrTokenize = errors.New("pytoken: source does not tokenize")

// Class of the first token starting on a physical line.
type Class uint8

const (
	// ClassNone means no token starts on the line (blank, or fully inside a
	// string started earlier).
	ClassNone Class = iota
	ClassName
	ClassNumber
	ClassString
	ClassOp
	ClassComment
)

// Atom reports whether the class is an atomic token: identifier, number or
// string.
func (c Class) Atom() bool {
	return c == ClassName || c == ClassNumber || c == ClassString
}

// LineInfo describes one physical line of a scanned buffer.
type LineInfo struct {
	Row           int    // 1-based physical line number
	StartsLogical bool   // begins a new logical line (not a continuation)
	Blank         bool   // whitespace only
	First         Class  // first token starting on this line
	HasAtom       bool   // some atomic token (name/number/string) starts here
	IsPass        bool   // stripped content is exactly "pass"
	Indent        string // leading whitespace of the raw line
	OpensBlock    bool   // logical line that increases the indentation level
	EndsBackslash bool   // raw content ends with a backslash continuation
}

type scanState struct {
	depth  int  // open bracket depth
	inStr  bool // inside a string literal
	triple bool // the open string is triple-quoted
	quote  byte // the open string's quote character
	cont   bool // previous line ended with a backslash continuation
}

// Scan produces per-line records for src. Lines are numbered from 1 and
// correspond one-to-one to source.SplitLines(src).
func Scan(src string) ([]LineInfo, error) {
	lines := splitPhysical(src)
	infos := make([]LineInfo, 0, len(lines))
	var st scanState
	// Indentation stack mirrors the tokenizer's INDENT/DEDENT bookkeeping.
	indents := []int{0}

	for i, line := range lines {
		info := LineInfo{
			Row:           i + 1,
			StartsLogical: st.depth == 0 && !st.inStr && !st.cont,
			Blank:         strings.TrimSpace(line) == "",
			IsPass:        strings.TrimSpace(line) == "pass",
			Indent:        leadingWhitespace(line),
		}
		st.cont = false
		info.First, info.HasAtom, info.EndsBackslash = scanLine(line, &st)

		if info.StartsLogical && !info.Blank && info.First != ClassComment && info.First != ClassNone {
			w := indentWidth(info.Indent)
			top := indents[len(indents)-1]
			switch {
			case w > top:
				indents = append(indents, w)
				info.OpensBlock = true
			case w < top:
				for len(indents) > 1 && indents[len(indents)-1] > w {
					indents = indents[:len(indents)-1]
				}
				if indents[len(indents)-1] != w {
					return nil, ErrTokenize
				}
			}
		}
		infos = append(infos, info)
	}

	if st.inStr || st.depth > 0 || st.cont {
		return nil, ErrTokenize
	}
	return infos, nil
}

// StandaloneTokenizes reports whether a single physical line tokenizes on its
// own, i.e. it leaves no bracket or string open. Mirrors feeding one line to
// the tokenizer and checking that it does not demand more input.
func StandaloneTokenizes(line string) bool {
	var st scanState
	scanLine(line, &st)
	return !st.inStr && st.depth == 0
}

// scanLine advances the lexical state across one physical line and reports
// the class of the first token starting on it, whether any atomic token
// starts on it, and whether the line ends in a backslash continuation
// (outside any string).
func scanLine(line string, st *scanState) (first Class, hasAtom bool, endsBackslash bool) {
	content := strings.TrimRight(line, "\r\n")
	i := 0

	if st.inStr {
		i = consumeString(content, 0, st)
		if st.inStr {
			return ClassNone, false, false
		}
	}

	for i < len(content) {
		c := content[i]
		switch {
		case c == ' ' || c == '\t' || c == '\f' || c == '\v':
			i++
		case c == '#':
			if first == ClassNone {
				first = ClassComment
			}
			return first, hasAtom, false
		case c == '\\' && i == len(content)-1:
			// Explicit line continuation.
			st.cont = true
			return first, hasAtom, true
		case c == '\'' || c == '"':
			if first == ClassNone {
				first = ClassString
			}
			hasAtom = true
			i = openString(content, i, st)
			if st.inStr {
				return first, hasAtom, false
			}
		case isIdentStart(c):
			start := i
			for i < len(content) && isIdentPart(content[i]) {
				i++
			}
			word := content[start:i]
			if i < len(content) && (content[i] == '\'' || content[i] == '"') && isStringPrefix(word) {
				if first == ClassNone {
					first = ClassString
				}
				hasAtom = true
				i = openString(content, i, st)
				if st.inStr {
					return first, hasAtom, false
				}
				continue
			}
			if first == ClassNone {
				first = ClassName
			}
			hasAtom = true
		case c >= '0' && c <= '9':
			if first == ClassNone {
				first = ClassNumber
			}
			hasAtom = true
			for i < len(content) && isNumberPart(content[i]) {
				i++
			}
		case c == '.' && i+1 < len(content) && content[i+1] >= '0' && content[i+1] <= '9':
			if first == ClassNone {
				first = ClassNumber
			}
			hasAtom = true
			i++
			for i < len(content) && isNumberPart(content[i]) {
				i++
			}
		default:
			if first == ClassNone {
				first = ClassOp
			}
			switch c {
			case '(', '[', '{':
				st.depth++
			case ')', ']', '}':
				if st.depth > 0 {
					st.depth--
				}
			}
			i++
		}
	}
	return first, hasAtom, false
}

// openString records a string opening at content[i] (a quote character) and
// consumes as much of it as fits on the line. Returns the index after the
// consumed part.
func openString(content string, i int, st *scanState) int {
	q := content[i]
	if i+2 < len(content) && content[i+1] == q && content[i+2] == q {
		st.inStr = true
		st.triple = true
		st.quote = q
		return consumeString(content, i+3, st)
	}
	st.inStr = true
	st.triple = false
	st.quote = q
	return consumeString(content, i+1, st)
}

// consumeString scans the body of the currently open string starting at
// position i. Clears st.inStr when the string terminates on this line. A
// single-quoted string that hits end of line without a closing quote is
// dropped the way the tokenizer drops it: as an error token that does not
// span lines (unless the line ends with a backslash escape).
func consumeString(content string, i int, st *scanState) int {
	for i < len(content) {
		c := content[i]
		if c == '\\' {
			if i == len(content)-1 {
				// Escaped newline: the string continues on the next line.
				return len(content)
			}
			i += 2
			continue
		}
		if c == st.quote {
			if !st.triple {
				st.inStr = false
				return i + 1
			}
			if i+2 < len(content) && content[i+1] == st.quote && content[i+2] == st.quote {
				st.inStr = false
				return i + 3
			}
			if i+2 == len(content) && content[i+1] == st.quote {
				// Closing pair split across the line end stays open.
				return len(content)
			}
		}
		i++
	}
	if !st.triple {
		// Unterminated single-quoted string: error-token semantics, it does
		// not continue onto the next line.
		st.inStr = false
	}
	return i
}

func splitPhysical(src string) []string {
	if src == "" {
		return nil
	}
	var lines []string
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

func leadingWhitespace(line string) string {
	if strings.TrimSpace(line) == "" {
		return ""
	}
	return line[:len(line)-len(strings.TrimLeft(line, " \t\f\v"))]
}

// indentWidth expands tabs to the next multiple of 8, matching the
// tokenizer's column arithmetic.
func indentWidth(indent string) int {
	w := 0
	for i := 0; i < len(indent); i++ {
		if indent[i] == '\t' {
			w = (w/8 + 1) * 8
		} else {
			w++
		}
	}
	return w
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isNumberPart(c byte) bool {
	return (c >= '0' && c <= '9') || c == '_' || c == '.' ||
		(c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') ||
		c == 'x' || c == 'X' || c == 'o' || c == 'O' || c == 'j' || c == 'J'
}

var stringPrefixes = map[string]bool{
	"r": true, "b": true, "u": true, "f": true,
	"br": true, "rb": true, "fr": true, "rf": true,
}

func isStringPrefix(word string) bool {
	return stringPrefixes[strings.ToLower(word)]
}
