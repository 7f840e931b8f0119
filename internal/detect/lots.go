package detect

import (
	"strconv"
	"strings"

	"quickclose-report/internal/models"
)

// LotRule normalises a trade's size to lots. Some login ranges already
// report lots; the rest report volume in hundredths of a lot.
type LotRule struct {
	RawPrefixes []string
	Divisor     float64
}

// DefaultLotRule returns the rule used by the trading servers in production.
func DefaultLotRule() LotRule {
	return LotRule{RawPrefixes: []string{"70", "3"}, Divisor: 100}
}

// UsesRawLots reports whether login belongs to a range that reports lots directly.
func (r LotRule) UsesRawLots(login int64) bool {
	s := strconv.FormatInt(login, 10)
	for _, p := range r.RawPrefixes {
		if p != "" && strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// FinalLot returns the normalised lot size for t.
func (r LotRule) FinalLot(t models.Trade) float64 {
	if r.UsesRawLots(t.Login) {
		return t.Lots
	}
	return t.Volume / r.Divisor
}
