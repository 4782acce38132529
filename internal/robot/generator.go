// Package robot implements the data transformations of the automation
// simulation: synthetic record generation, per-user aggregation, and
// notification composition. Everything here is pure given its inputs; the
// random source and the clock are injected so callers can make runs
// deterministic.
package robot

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"etp/internal/catalog"
	"etp/internal/core"
)

const (
	minBatchSize = 3
	maxBatchSize = 5

	// Amounts are uniform in [$10.00, $160.00).
	minAmountCents  = 10_00
	amountSpanCents = 150_00

	// Dates are uniform over the trailing week, today included.
	dateWindowDays = 7
)

// Generator produces pseudo-random expense batches from catalog data.
type Generator struct {
	catalog *catalog.Catalog
	rng     *rand.Rand
	clock   func() time.Time
}

// NewGenerator creates a generator backed by the given random source. A nil
// rng falls back to a time-seeded source; a nil clock falls back to
// time.Now.
func NewGenerator(cat *catalog.Catalog, rng *rand.Rand, clock func() time.Time) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if clock == nil {
		clock = time.Now
	}
	return &Generator{catalog: cat, rng: rng, clock: clock}
}

// Generate produces a batch of 3 to 5 expense records. The triggering file
// name is accepted as a signal only; its content is never read.
func (g *Generator) Generate(fileName string) []core.ExpenseRecord {
	_ = fileName

	users := g.catalog.Users()
	today := g.clock()

	n := minBatchSize + g.rng.Intn(maxBatchSize-minBatchSize+1)
	records := make([]core.ExpenseRecord, 0, n)
	for i := 0; i < n; i++ {
		user := users[g.rng.Intn(len(users))]
		cat := core.Categories[g.rng.Intn(len(core.Categories))]
		pool := g.catalog.Descriptions(cat)

		records = append(records, core.ExpenseRecord{
			ID:          uuid.NewString(),
			Date:        core.DateOf(today.AddDate(0, 0, -g.rng.Intn(dateWindowDays))),
			Category:    cat,
			Description: pool[g.rng.Intn(len(pool))],
			Amount:      core.Money{Cents: minAmountCents + g.rng.Int63n(amountSpanCents)},
			Owner:       user.Name,
		})
	}
	return records
}
