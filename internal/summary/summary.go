// Package summary folds enriched trades into one row per login.
package summary

import (
	"sort"

	"quickclose-report/internal/detect"
	"quickclose-report/internal/models"
)

// key groups rows by login, account type, email and country.
type key struct {
	login       int64
	accountType string
	email       string
	countryName string
}

func (k key) less(o key) bool {
	if k.login != o.login {
		return k.login < o.login
	}
	if k.accountType != o.accountType {
		return k.accountType < o.accountType
	}
	if k.email != o.email {
		return k.email < o.email
	}
	return k.countryName < o.countryName
}

// Aggregate returns one LoginSummary per (login, account type, email,
// country) group, ordered by that key. PnL is taken from the first row of
// each group in input order. Rows without an email or country name belong
// to no group and are left out.
func Aggregate(rows []models.EnrichedTrade, c detect.Classifier) []models.LoginSummary {
	groups := make(map[key]*models.LoginSummary)
	keys := make([]key, 0)

	for _, r := range rows {
		if r.Email == "" || r.CountryName == "" {
			continue
		}
		k := key{login: r.Login, accountType: r.AccountType, email: r.Email, countryName: r.CountryName}
		s, ok := groups[k]
		if !ok {
			s = &models.LoginSummary{
				Login:       r.Login,
				AccountType: r.AccountType,
				Email:       r.Email,
				CountryName: r.CountryName,
				PnL:         r.PnL,
			}
			groups[k] = s
			keys = append(keys, k)
		}
		add(s, r, c)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	out := make([]models.LoginSummary, 0, len(keys))
	for _, k := range keys {
		s := groups[k]
		finish(s)
		out = append(out, *s)
	}
	return out
}

func add(s *models.LoginSummary, r models.EnrichedTrade, c detect.Classifier) {
	s.TotalTradesCount++
	s.TotalProfit += r.Profit

	if !c.IsQuickCloseSeconds(r.TradeDuration) {
		return
	}
	s.QuickCloseTradesCount++
	s.QuickCloseTotalProfit += r.Profit
	switch {
	case r.Profit > 0:
		s.QuickClosePositiveProfit += r.Profit
	case r.Profit < 0:
		s.QuickCloseNegativeProfit += r.Profit
	}
}

// finish derives the percentage columns once all rows are counted.
func finish(s *models.LoginSummary) {
	s.QuickCloseTradePercentage = float64(s.QuickCloseTradesCount) / float64(s.TotalTradesCount) * 100
	if s.TotalProfit != 0 {
		s.QuickCloseProfitPercentage = s.QuickCloseTotalProfit / s.TotalProfit * 100
	}
}
