// Package enrich attaches account, customer and country context to trades.
package enrich

import (
	"context"
	"errors"
	"sort"

	"quickclose-report/internal/detect"
	"quickclose-report/internal/models"
	"quickclose-report/internal/source"

	"go.uber.org/zap"
)

// ErrNoAccounts is returned when none of the trades' logins has an account
// of an allowed type. It ends a run without output, it is not a failure.
var ErrNoAccounts = errors.New("no matching accounts")

// Enricher joins trades to accounts, customers and countries. Every join is
// an inner join: rows without a match are dropped.
type Enricher struct {
	src          source.Source
	lots         detect.LotRule
	accountTypes []string
	logger       *zap.Logger
}

// NewEnricher creates an Enricher reading from src.
func NewEnricher(src source.Source, lots detect.LotRule, accountTypes []string, logger *zap.Logger) *Enricher {
	return &Enricher{
		src:          src,
		lots:         lots,
		accountTypes: accountTypes,
		logger:       logger.Named("enricher"),
	}
}

// Enrich runs the three joins over trades, keeping the order of trades.
func (e *Enricher) Enrich(ctx context.Context, trades []models.Trade) ([]models.EnrichedTrade, error) {
	logins := distinct(trades, func(t models.Trade) int64 { return t.Login })

	accounts, err := e.src.Accounts(ctx, logins, e.accountTypes)
	if err != nil {
		return nil, err
	}
	accounts = FilterAccountTypes(accounts, e.accountTypes)
	e.logger.Info("Fetched accounts with specified account types", zap.Int("count", len(accounts)))
	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}

	rows := JoinAccounts(trades, accounts, e.lots)
	e.logger.Debug("Joined accounts", zap.Int("trades", len(trades)), zap.Int("rows", len(rows)))

	customerIDs := distinct(rows, func(r models.EnrichedTrade) int64 { return r.CustomerID })
	customers, err := e.src.Customers(ctx, customerIDs)
	if err != nil {
		return nil, err
	}
	e.logger.Info("Fetched customers", zap.Int("count", len(customers)))
	before := len(rows)
	rows = JoinCustomers(rows, customers)
	e.logger.Debug("Joined customers", zap.Int("dropped", before-len(rows)))

	countryIDs := distinct(customers, func(c models.Customer) int64 { return c.CountryID })
	var countries []models.Country
	if len(countryIDs) > 0 {
		if countries, err = e.src.Countries(ctx, countryIDs); err != nil {
			return nil, err
		}
	}
	e.logger.Info("Fetched countries", zap.Int("count", len(countries)))
	before = len(rows)
	rows = JoinCountries(rows, countries)
	e.logger.Debug("Joined countries", zap.Int("dropped", before-len(rows)))

	return rows, nil
}

// FilterAccountTypes keeps accounts whose type contains one of allow,
// compared case-sensitively. Sources may match more loosely.
func FilterAccountTypes(accounts []models.Account, allow []string) []models.Account {
	out := accounts[:0:0]
	for _, a := range accounts {
		if detect.MatchesAccountType(a.Type, allow) {
			out = append(out, a)
		}
	}
	return out
}

// JoinAccounts inner-joins trades to accounts on login and fills the
// derived trade columns and PnL. A login with several accounts yields one
// row per account.
func JoinAccounts(trades []models.Trade, accounts []models.Account, lots detect.LotRule) []models.EnrichedTrade {
	byLogin := make(map[int64][]models.Account)
	for _, a := range accounts {
		byLogin[a.Login] = append(byLogin[a.Login], a)
	}

	rows := make([]models.EnrichedTrade, 0, len(trades))
	for _, t := range trades {
		for _, a := range byLogin[t.Login] {
			rows = append(rows, models.EnrichedTrade{
				Trade:           t,
				FinalLot:        lots.FinalLot(t),
				TradeDuration:   detect.Duration(t.OpenedAt(), t.ClosedAt()).Seconds(),
				AccountID:       a.ID,
				AccountType:     a.Type,
				Equity:          a.Equity,
				BreachedBy:      a.BreachedBy,
				CustomerID:      a.CustomerID,
				StartingBalance: a.StartingBalance,
				PnL:             a.PnL(),
			})
		}
	}
	return rows
}

// JoinCustomers inner-joins rows to customers on customer id.
func JoinCustomers(rows []models.EnrichedTrade, customers []models.Customer) []models.EnrichedTrade {
	byID := make(map[int64]models.Customer, len(customers))
	for _, c := range customers {
		byID[c.ID] = c
	}

	out := make([]models.EnrichedTrade, 0, len(rows))
	for _, r := range rows {
		c, ok := byID[r.CustomerID]
		if !ok {
			continue
		}
		r.Email = c.Email
		r.Name = c.Name
		r.CountryID = c.CountryID
		out = append(out, r)
	}
	return out
}

// JoinCountries inner-joins rows to countries on country id.
func JoinCountries(rows []models.EnrichedTrade, countries []models.Country) []models.EnrichedTrade {
	byID := make(map[int64]string, len(countries))
	for _, c := range countries {
		byID[c.ID] = c.Name
	}

	out := make([]models.EnrichedTrade, 0, len(rows))
	for _, r := range rows {
		name, ok := byID[r.CountryID]
		if !ok {
			continue
		}
		r.CountryName = name
		out = append(out, r)
	}
	return out
}

// distinct returns the distinct keys of items in ascending order.
func distinct[T any](items []T, key func(T) int64) []int64 {
	seen := make(map[int64]struct{}, len(items))
	keys := make([]int64, 0)
	for _, it := range items {
		k := key(it)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

