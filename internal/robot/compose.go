package robot

import (
	"time"

	"github.com/google/uuid"

	"etp/internal/catalog"
	"etp/internal/core"
)

// Compose converts per-user aggregates into notifications, one per summary,
// in the order the aggregation produced them. A summary whose name has no
// catalog entry is silently skipped; delivery always succeeds in this
// simulation, so the status is sent at composition time.
func Compose(summaries []core.UserSummary, cat *catalog.Catalog, now time.Time) []core.Notification {
	notifications := make([]core.Notification, 0, len(summaries))
	for _, s := range summaries {
		user, ok := cat.Lookup(s.Name)
		if !ok {
			continue
		}
		notifications = append(notifications, core.Notification{
			ID:            uuid.NewString(),
			Recipient:     user.Email,
			RecipientName: user.Name,
			Total:         s.Total,
			Breakdown:     append([]core.CategoryBreakdown(nil), s.Breakdown...),
			ComposedAt:    now,
			Status:        core.StatusSent,
		})
	}
	return notifications
}
