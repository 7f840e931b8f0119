// Package detect holds the quick-close rule and the selection of logins
// that trip it.
package detect

import (
	"sort"
	"time"

	"quickclose-report/internal/models"
)

// DefaultThreshold is the longest a trade may stay open and still count as
// a quick close.
const DefaultThreshold = 30 * time.Second

// Duration returns how long a trade stayed open. It is negative when the
// feed reports a close before the open.
func Duration(open, close time.Time) time.Duration {
	return close.Sub(open)
}

// Classifier decides whether a trade closed quickly enough to be flagged.
type Classifier struct {
	Threshold time.Duration
}

// NewClassifier returns a Classifier for threshold.
func NewClassifier(threshold time.Duration) Classifier {
	return Classifier{Threshold: threshold}
}

// IsQuickClose reports whether 0 <= d <= Threshold.
func (c Classifier) IsQuickClose(d time.Duration) bool {
	return d >= 0 && d <= c.Threshold
}

// IsQuickCloseSeconds is IsQuickClose for a duration held in seconds.
func (c Classifier) IsQuickCloseSeconds(seconds float64) bool {
	return seconds >= 0 && seconds <= c.Threshold.Seconds()
}

// Classify reports whether a trade opened at open and closed at close is a quick close.
func (c Classifier) Classify(open, close time.Time) bool {
	return c.IsQuickClose(Duration(open, close))
}

// TradeQuickClose classifies a raw trade.
func (c Classifier) TradeQuickClose(t models.Trade) bool {
	return c.Classify(t.OpenedAt(), t.ClosedAt())
}

// SelectLogins returns the distinct logins, ascending, that own at least one
// quick-close trade.
func SelectLogins(trades []models.Trade, c Classifier) []int64 {
	seen := make(map[int64]struct{})
	for _, t := range trades {
		if c.TradeQuickClose(t) {
			seen[t.Login] = struct{}{}
		}
	}

	logins := make([]int64, 0, len(seen))
	for login := range seen {
		logins = append(logins, login)
	}
	sort.Slice(logins, func(i, j int) bool { return logins[i] < logins[j] })
	return logins
}

// RestrictToLogins keeps every trade owned by one of logins, in input order.
func RestrictToLogins(trades []models.Trade, logins []int64) []models.Trade {
	keep := make(map[int64]struct{}, len(logins))
	for _, l := range logins {
		keep[l] = struct{}{}
	}

	out := make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		if _, ok := keep[t.Login]; ok {
			out = append(out, t)
		}
	}
	return out
}
