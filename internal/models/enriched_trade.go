package models

// EnrichedTrade is one row of the "Filtered Trades" sheet: a trade joined
// with its account, customer and country.
type EnrichedTrade struct {
	Trade

	FinalLot      float64
	TradeDuration float64 // seconds, close minus open; negative is possible

	AccountID       int64
	AccountType     string
	Equity          float64
	BreachedBy      string
	CustomerID      int64
	StartingBalance float64

	Email     string
	Name      string
	CountryID int64

	CountryName string

	PnL float64
}
