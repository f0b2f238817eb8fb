package rewrite

import "strings"

// isPythonLiteral reports whether s is a literal expression: a string or
// number (with optional sign), True/False/None/Ellipsis, or a tuple, list,
// set or dict built from literals. It recognizes a conservative subset of
// what the interpreter's literal evaluation accepts; anything it does not
// recognize is treated as a live expression and preserved, so a false
// negative only keeps extra code around.
func isPythonLiteral(s string) bool {
	p := literalParser{src: s}
	p.skipSpace()
	if !p.literal() {
		return false
	}
	p.skipSpace()
	return p.pos == len(p.src)
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			p.pos++
		default:
			return
		}
	}
}

func (p *literalParser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

// literal parses one literal value.
func (p *literalParser) literal() bool {
	switch c := p.peek(); {
	case c == '+' || c == '-':
		p.pos++
		p.skipSpace()
		return p.number()
	case c >= '0' && c <= '9', c == '.' && p.digitAt(p.pos+1):
		return p.number()
	case c == '\'' || c == '"':
		return p.stringSeq()
	case c == '(':
		return p.sequence('(', ')')
	case c == '[':
		return p.sequence('[', ']')
	case c == '{':
		return p.mapping()
	case isIdentByte(c):
		return p.keywordOrPrefix()
	}
	return false
}

func (p *literalParser) digitAt(i int) bool {
	return i < len(p.src) && p.src[i] >= '0' && p.src[i] <= '9'
}

func (p *literalParser) number() bool {
	start := p.pos
	if c := p.peek(); !(c >= '0' && c <= '9') && !(c == '.' && p.digitAt(p.pos+1)) {
		return false
	}
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			c == '_' || c == '.' {
			p.pos++
			continue
		}
		if (c == '+' || c == '-') && p.pos > start {
			// Exponent sign.
			prev := p.src[p.pos-1]
			if prev == 'e' || prev == 'E' {
				p.pos++
				continue
			}
		}
		break
	}
	return p.pos > start
}

// stringSeq parses one or more adjacent, possibly prefixed string literals
// (implicit concatenation folds them into a single value).
func (p *literalParser) stringSeq() bool {
	if !p.stringLitWithPrefix() {
		return false
	}
	for {
		p.skipSpace()
		save := p.pos
		if !p.stringLitWithPrefix() {
			p.pos = save
			return true
		}
	}
}

func (p *literalParser) stringLitWithPrefix() bool {
	start := p.pos
	for p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
		p.pos++
	}
	prefix := p.src[start:p.pos]
	if prefix != "" && !isStringPrefixWord(prefix) {
		p.pos = start
		return false
	}
	if !p.stringLit() {
		p.pos = start
		return false
	}
	return true
}

func (p *literalParser) stringLit() bool {
	q := p.peek()
	if q != '\'' && q != '"' {
		return false
	}
	triple := strings.HasPrefix(p.src[p.pos:], strings.Repeat(string(q), 3))
	if triple {
		p.pos += 3
		end := strings.Index(p.src[p.pos:], strings.Repeat(string(q), 3))
		if end < 0 {
			return false
		}
		p.pos += end + 3
		return true
	}
	p.pos++
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '\\':
			p.pos += 2
		case q:
			p.pos++
			return true
		case '\n':
			return false
		default:
			p.pos++
		}
	}
	return false
}

// sequence parses a tuple or list of literals, trailing comma allowed.
func (p *literalParser) sequence(open, close byte) bool {
	p.pos++ // consume open
	p.skipSpace()
	if p.peek() == close {
		p.pos++
		return true
	}
	for {
		if !p.literal() {
			return false
		}
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			p.skipSpace()
			if p.peek() == close {
				p.pos++
				return true
			}
		case close:
			p.pos++
			return true
		default:
			return false
		}
	}
}

// mapping parses a dict of literal keys/values or a set of literals.
func (p *literalParser) mapping() bool {
	p.pos++ // consume '{'
	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		return true
	}
	isDict := false
	first := true
	for {
		if !p.literal() {
			return false
		}
		p.skipSpace()
		if first {
			isDict = p.peek() == ':'
			first = false
		}
		if isDict {
			if p.peek() != ':' {
				return false
			}
			p.pos++
			p.skipSpace()
			if !p.literal() {
				return false
			}
			p.skipSpace()
		}
		switch p.peek() {
		case ',':
			p.pos++
			p.skipSpace()
			if p.peek() == '}' {
				p.pos++
				return true
			}
		case '}':
			p.pos++
			return true
		default:
			return false
		}
	}
}

func (p *literalParser) keywordOrPrefix() bool {
	start := p.pos
	for p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
		p.pos++
	}
	word := p.src[start:p.pos]
	switch word {
	case "True", "False", "None":
		return true
	}
	if isStringPrefixWord(word) && (p.peek() == '\'' || p.peek() == '"') {
		// Rewind so stringSeq sees the whole prefixed literal.
		p.pos = start
		return p.stringSeq()
	}
	p.pos = start
	return false
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// isStringPrefixWord accepts only the prefixes of constant strings. An
// f-prefix interpolates arbitrary expressions, so an f-string is a live
// value, not a literal.
func isStringPrefixWord(w string) bool {
	switch strings.ToLower(w) {
	case "r", "b", "u", "rb", "br":
		return true
	}
	return false
}
