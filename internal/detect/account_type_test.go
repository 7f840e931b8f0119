package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesAccountType(t *testing.T) {
	testCases := []struct {
		accountType string
		expected    bool
	}{
		{"real", true},
		{"MT5 real USD", true},
		{"p2 funded", true},
		{"Stellar 1-Step Demo 10k", true},
		{"Real", false},
		{"demo", false},
		{"Stellar 2-Step Demo", false},
		{"", false},
	}

	for _, tc := range testCases {
		t.Run(tc.accountType, func(t *testing.T) {
			assert.Equal(t, tc.expected, MatchesAccountType(tc.accountType, DefaultAccountTypes))
		})
	}
}
