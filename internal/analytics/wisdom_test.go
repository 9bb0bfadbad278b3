package analytics

import (
	"testing"

	"artha/internal/core"
)

// fixedRand always returns the last index.
type fixedRand struct{ calls int }

func (f *fixedRand) IntN(n int) int {
	f.calls++
	return n - 1
}

func TestCatalogContexts(t *testing.T) {
	counts := map[core.WisdomContext]int{}
	for _, w := range Catalog() {
		counts[w.Context]++
	}
	want := map[core.WisdomContext]int{
		core.ContextSavingsHigh:  2,
		core.ContextGeneral:      2,
		core.ContextSmallSavings: 1,
		core.ContextOverspending: 3,
		core.ContextBalanced:     1,
		core.ContextCharitable:   1,
	}
	for ctx, n := range want {
		if counts[ctx] != n {
			t.Errorf("%s: expected %d records, got %d", ctx, n, counts[ctx])
		}
	}
}

func TestForContextPicksFromMatchingSet(t *testing.T) {
	p := NewWisdomPicker(nil)
	for _, ctx := range core.Contexts {
		for i := 0; i < 20; i++ {
			if got := p.ForContext(ctx); got.Context != ctx {
				t.Fatalf("context %s: got record tagged %s", ctx, got.Context)
			}
		}
	}
}

func TestForContextFallsBackToGeneral(t *testing.T) {
	rnd := &fixedRand{}
	p := NewWisdomPicker(rnd)
	got := p.ForContext("unknown")
	if got.Context != core.ContextGeneral {
		t.Fatalf("expected general fallback, got %s", got.Context)
	}
	if got.Source != "Cāṇakya Nīti 5.3" {
		t.Fatalf("expected last general record, got %s", got.Source)
	}
	if rnd.calls != 1 {
		t.Fatalf("expected one draw, got %d", rnd.calls)
	}
}

func TestAnyUsesWholeCatalog(t *testing.T) {
	p := NewWisdomPicker(&fixedRand{})
	if got := p.Any(); got.Context != core.ContextCharitable {
		t.Fatalf("expected last catalog record, got %+v", got)
	}
}
