package models

// LoginSummary is one row of the "Login Summary" sheet.
type LoginSummary struct {
	Login       int64
	AccountType string
	Email       string
	CountryName string

	TotalTradesCount          int
	QuickCloseTradesCount     int
	QuickCloseTradePercentage float64

	TotalProfit                float64
	QuickCloseTotalProfit      float64
	QuickClosePositiveProfit   float64
	QuickCloseNegativeProfit   float64
	QuickCloseProfitPercentage float64

	PnL float64
}
