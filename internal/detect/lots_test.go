package detect

import (
	"testing"

	"quickclose-report/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestLotRule_FinalLot(t *testing.T) {
	rule := DefaultLotRule()

	testCases := []struct {
		name     string
		login    int64
		expected float64
	}{
		{name: "70 prefix uses lots", login: 7012345, expected: 0.5},
		{name: "3 prefix uses lots", login: 3123, expected: 0.5},
		{name: "7 without 0 divides volume", login: 7112345, expected: 2.5},
		{name: "other login divides volume", login: 13406179, expected: 2.5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tr := models.Trade{Login: tc.login, Lots: 0.5, Volume: 250}
			assert.InDelta(t, tc.expected, rule.FinalLot(tr), 1e-9)
		})
	}
}

func TestLotRule_Configurable(t *testing.T) {
	rule := LotRule{RawPrefixes: []string{"9", ""}, Divisor: 10000}

	assert.True(t, rule.UsesRawLots(9001))
	assert.False(t, rule.UsesRawLots(7001), "empty prefix must not match everything")
	assert.InDelta(t, 0.025, rule.FinalLot(models.Trade{Login: 7001, Volume: 250}), 1e-12)
}
