package diag

import "sort"

// Bag accumulates diagnostics for reporting.
type Bag struct {
	items []Diagnostic
}

func NewBag() *Bag {
	return &Bag{items: make([]Diagnostic, 0, 16)}
}

func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

func (b *Bag) AddAll(ds []Diagnostic) {
	b.items = append(b.items, ds...)
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// Не модифицируйте возвращаемый срез: он указывает на внутренний массив Bag.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Sort orders diagnostics by line, then kind, then symbol for stable output.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Kind != dj.Kind {
			return di.Kind < dj.Kind
		}
		return di.Symbol < dj.Symbol
	})
}

// ByLine partitions diagnostics of the given kind by their line number.
func ByLine(items []Diagnostic, kind Kind) map[int][]Diagnostic {
	out := make(map[int][]Diagnostic)
	for _, d := range items {
		if d.Kind == kind {
			out[d.Line] = append(out[d.Line], d)
		}
	}
	return out
}
