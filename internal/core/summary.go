package core

// CategoryBreakdown is a per-category subtotal inside one user's summary.
type CategoryBreakdown struct {
	Category Category
	Subtotal Money
}

// UserSummary is one user's aggregate for a single batch: the total of all
// their records plus per-category subtotals in first-appearance order.
type UserSummary struct {
	Name      string
	Total     Money
	Breakdown []CategoryBreakdown
}
