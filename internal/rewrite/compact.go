package rewrite

import (
	"strings"

	"sweep/internal/pytoken"
	"sweep/internal/source"
)

// CompactPasses deletes placeholder statements that are no longer
// structurally required: a "pass" with a sibling statement following it at
// the same indentation (trailing), and a "pass" immediately followed one
// line later by an atomic token at the same indentation (leading). A
// placeholder that is the sole statement of its suite is always kept. When
// src does not tokenize the function is a no-op.
func CompactPasses(src string) string {
	infos, err := pytoken.Scan(src)
	if err != nil {
		return src
	}

	marked := make(map[int]bool)
	lastPassRow := -2
	lastPassIndent := ""
	prevRaw := ""

	lines := source.SplitLines(src)
	for i, info := range infos {
		raw := lines[i]
		if info.First == pytoken.ClassNone && !info.Blank {
			// Interior of a multi-line string: no token starts here.
			prevRaw = raw
			continue
		}
		if info.Blank || info.First == pytoken.ClassComment {
			prevRaw = raw
			continue
		}

		isPass := info.IsPass && info.StartsLogical

		// Leading placeholder: the line after it carries a real atomic token
		// at the same indentation, so the pass no longer guards an empty body.
		if info.Row-1 == lastPassRow &&
			source.Indentation(raw) == lastPassIndent &&
			info.HasAtom &&
			!isPass {
			marked[lastPassRow] = true
		}

		if isPass {
			lastPassRow = info.Row
			lastPassIndent = source.Indentation(raw)
		}

		// Trailing placeholder: not the first statement of its suite and not
		// glued to the previous line by a continuation.
		if isPass && !info.OpensBlock && !endsWithBackslash(prevRaw) {
			marked[info.Row] = true
		}

		prevRaw = raw
	}

	if len(marked) == 0 {
		return src
	}

	kept := make([]string, 0, len(lines))
	for i, line := range lines {
		if !marked[i+1] {
			kept = append(kept, line)
		}
	}
	return source.Join(kept)
}

func endsWithBackslash(line string) bool {
	return strings.HasSuffix(strings.TrimRight(line, " \t\r\n\f\v"), `\`)
}
