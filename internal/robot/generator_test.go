package robot

import (
	"math/rand"
	"testing"
	"time"

	"etp/internal/catalog"
	"etp/internal/core"
)

func fixedClock(t *testing.T) func() time.Time {
	t.Helper()
	at := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestGenerateBatchProperties(t *testing.T) {
	cat := catalog.New(nil, nil)
	clock := fixedClock(t)
	today := core.DateOf(clock())
	oldest := core.DateOf(clock().AddDate(0, 0, -6))

	for seed := int64(0); seed < 50; seed++ {
		g := NewGenerator(cat, rand.New(rand.NewSource(seed)), clock)
		batch := g.Generate("expenses.xlsx")

		if len(batch) < 3 || len(batch) > 5 {
			t.Fatalf("seed %d: batch size %d out of [3,5]", seed, len(batch))
		}
		seen := map[string]bool{}
		for _, r := range batch {
			if err := r.Validate(); err != nil {
				t.Fatalf("seed %d: invalid record: %v", seed, err)
			}
			if r.Amount.Cents < 10_00 || r.Amount.Cents >= 160_00 {
				t.Fatalf("seed %d: amount %d out of [1000,16000)", seed, r.Amount.Cents)
			}
			if r.Date.Before(oldest.Time) || r.Date.After(today.Time) {
				t.Fatalf("seed %d: date %v outside trailing week", seed, r.Date)
			}
			if _, ok := cat.Lookup(r.Owner); !ok {
				t.Fatalf("seed %d: unknown owner %q", seed, r.Owner)
			}
			if seen[r.ID] {
				t.Fatalf("seed %d: duplicate id %q within batch", seed, r.ID)
			}
			seen[r.ID] = true
		}
	}
}

func TestGenerateDeterministicGivenSource(t *testing.T) {
	cat := catalog.New(nil, nil)
	clock := fixedClock(t)

	a := NewGenerator(cat, rand.New(rand.NewSource(7)), clock).Generate("a.csv")
	b := NewGenerator(cat, rand.New(rand.NewSource(7)), clock).Generate("b.csv")

	if len(a) != len(b) {
		t.Fatalf("same seed produced different sizes: %d vs %d", len(a), len(b))
	}
	for i := range a {
		// IDs are random, everything else must match.
		if a[i].Owner != b[i].Owner || a[i].Category != b[i].Category ||
			a[i].Description != b[i].Description || a[i].Amount != b[i].Amount ||
			!a[i].Date.Equal(b[i].Date.Time) {
			t.Fatalf("record %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGenerateDescriptionsComeFromCategoryPool(t *testing.T) {
	cat := catalog.New(nil, nil)
	g := NewGenerator(cat, rand.New(rand.NewSource(3)), fixedClock(t))
	for _, r := range g.Generate("report.xls") {
		pool := cat.Descriptions(r.Category)
		ok := false
		for _, d := range pool {
			if d == r.Description {
				ok = true
				break
			}
		}
		if !ok {
			t.Fatalf("description %q not in %s pool", r.Description, r.Category)
		}
	}
}
