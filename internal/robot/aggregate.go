package robot

import "etp/internal/core"

// Aggregate groups a batch by owner and, within each owner, by category.
// Users appear in first-appearance order of their records; each user's
// breakdown lists categories in first-appearance order among that user's
// records. This ordering is a contract, not an accident: the composer and
// the dispatch loop inherit it, which keeps the simulated log deterministic
// for a fixed input.
func Aggregate(records []core.ExpenseRecord) []core.UserSummary {
	index := make(map[string]int)
	summaries := make([]core.UserSummary, 0)

	for _, r := range records {
		i, ok := index[r.Owner]
		if !ok {
			i = len(summaries)
			index[r.Owner] = i
			summaries = append(summaries, core.UserSummary{Name: r.Owner})
		}

		s := &summaries[i]
		s.Total.Cents += r.Amount.Cents

		found := false
		for j := range s.Breakdown {
			if s.Breakdown[j].Category == r.Category {
				s.Breakdown[j].Subtotal.Cents += r.Amount.Cents
				found = true
				break
			}
		}
		if !found {
			s.Breakdown = append(s.Breakdown, core.CategoryBreakdown{
				Category: r.Category,
				Subtotal: r.Amount,
			})
		}
	}
	return summaries
}
