package observ

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("fix")
	tm.End(idx, "2 rounds")

	report := tm.Report()
	if len(report.Phases) != 1 {
		t.Fatalf("expected 1 phase, got %d", len(report.Phases))
	}
	if report.Phases[0].Name != "fix" || report.Phases[0].Note != "2 rounds" {
		t.Fatalf("got %+v", report.Phases[0])
	}
	if !strings.Contains(tm.Summary(), "fix") {
		t.Fatalf("summary missing phase: %q", tm.Summary())
	}
}

func TestTimerNilSafe(t *testing.T) {
	var tm *Timer
	idx := tm.Begin("noop")
	tm.End(idx, "")
	if got := tm.Report(); len(got.Phases) != 0 {
		t.Fatalf("got %+v", got)
	}
}

// Один таймер делят все воркеры параллельного прогона.
func TestTimerConcurrentUse(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := range 50 {
				idx := tm.Begin("fix")
				tm.End(idx, fmt.Sprintf("worker %d round %d", i, j))
			}
		}(i)
	}
	wg.Wait()

	report := tm.Report()
	if len(report.Phases) != 8*50 {
		t.Fatalf("expected %d phases, got %d", 8*50, len(report.Phases))
	}
	for _, p := range report.Phases {
		if p.Note == "" {
			t.Fatal("phase left unfinished")
		}
	}
}
