package rewrite

import (
	"fmt"
	"sort"
	"strings"

	"sweep/internal/source"
)

// Placeholder is the statement substituted for a fully removed line so a
// suite is never left without a body.
const Placeholder = "pass"

// NameSet is the read-only view of the Safe-Symbol Registry the import
// rewriter consults.
type NameSet interface {
	Contains(name string) bool
}

// RewriteImport applies the deletion/splitting policy to one flagged import
// line. unused holds the dotted module names the analyzer reported for this
// line. The result is one or more physical lines (splitting a multi-module
// plain import is the only 1->N case); everything unsafe to touch comes back
// unchanged.
func RewriteImport(line string, unused []string, removeAll bool, eligible NameSet, previous string) string {
	if multilineImport(line, previous) {
		return line
	}

	isFrom := fromImportRE.MatchString(line)

	if strings.Contains(line, ",") && !isFrom {
		// Каждая из строк будет продиагностирована заново на следующей
		// итерации; здесь имена не фильтруются.
		return breakUpImport(line)
	}

	pkg := extractPackageName(line)
	if !removeAll && (eligible == nil || !eligible.Contains(pkg)) {
		// Third-party and application imports may have import-time side
		// effects; outside the registry the line is kept.
		return line
	}

	if strings.Contains(line, ",") {
		if !isFrom {
			panic(fmt.Sprintf("rewrite: comma import escaped splitting: %q", line))
		}
		return filterFromImport(line, unused)
	}

	return source.Indentation(line) + Placeholder + source.LineEnding(line)
}

// breakUpImport splits "import a, c, b" into one sorted import per line,
// indentation preserved. The classifier must have excluded grouping symbols,
// separators and comments before this point; finding one here is a bug.
func breakUpImport(line string) string {
	for _, forbidden := range []string{`\`, "(", ")", ";", "#"} {
		if strings.Contains(line, forbidden) {
			panic(fmt.Sprintf("rewrite: %q in line given to import splitter: %q", forbidden, line))
		}
	}
	if fromImportRE.MatchString(line) {
		panic(fmt.Sprintf("rewrite: from-import given to import splitter: %q", line))
	}

	newline := source.LineEnding(line)
	if newline == "" {
		// Последняя строка файла без терминатора: делить нечем.
		return line
	}

	loc := importWordRE.FindStringIndex(line)
	head := line[:loc[0]] + "import "
	parts := strings.Split(line[loc[1]:], ",")
	sort.Strings(parts)

	var b strings.Builder
	for _, p := range parts {
		b.WriteString(head)
		b.WriteString(strings.TrimSpace(p))
		b.WriteString(newline)
	}
	return b.String()
}

// filterFromImport removes exactly the reported names from a
// "from X import a, b, c" line. Names are compared by their full dotted path
// so they match the analyzer's reports precisely. An emptied import becomes
// a placeholder.
func filterFromImport(line string, unused []string) string {
	loc := importWordRE.FindStringIndex(line)
	head := line[:loc[0]]
	baseModule := fromModuleRE.FindStringSubmatch(head)[1]

	unusedSet := make(map[string]struct{}, len(unused))
	for _, u := range unused {
		unusedSet[u] = struct{}{}
	}

	var kept []string
	for _, part := range strings.Split(strings.TrimSpace(line[loc[1]:]), ",") {
		full := baseModule + "." + strings.TrimSpace(part)
		if _, drop := unusedSet[full]; !drop {
			kept = append(kept, strings.ReplaceAll(full, baseModule+".", ""))
		}
	}

	if len(kept) == 0 {
		return source.Indentation(line) + Placeholder + source.LineEnding(line)
	}

	sort.Strings(kept)
	return head + "import " + strings.Join(kept, ", ") + source.LineEnding(line)
}

// extractPackageName returns the top-level module name of an import line, or
// "" for lines that only look like imports (doctests and the like).
func extractPackageName(line string) string {
	for _, forbidden := range []string{`\`, "(", ")", ";"} {
		if strings.Contains(line, forbidden) {
			panic(fmt.Sprintf("rewrite: %q in line given to package extraction: %q", forbidden, line))
		}
	}

	trimmed := strings.TrimLeft(line, " \t\f\v")
	if !strings.HasPrefix(trimmed, "import") && !strings.HasPrefix(trimmed, "from") {
		return ""
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return ""
	}
	return strings.SplitN(fields[1], ".", 2)[0]
}
