package detect

import "strings"

// DefaultAccountTypes are the account type fragments in scope for the report.
var DefaultAccountTypes = []string{"real", "p2", "Stellar 1-Step Demo"}

// MatchesAccountType reports whether accountType contains one of allow.
// Matching is case-sensitive.
func MatchesAccountType(accountType string, allow []string) bool {
	for _, a := range allow {
		if a != "" && strings.Contains(accountType, a) {
			return true
		}
	}
	return false
}
