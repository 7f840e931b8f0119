package report

import (
	"fmt"
	"strconv"
	"time"

	"quickclose-report/internal/models"

	"github.com/xuri/excelize/v2"
)

// Column binds a sheet header to a field of models.EnrichedTrade. Value
// produces the cell written for a row; Parse reads a raw cell back.
type Column struct {
	Name  string
	Value func(r *models.EnrichedTrade) interface{}
	Parse func(r *models.EnrichedTrade, raw string) error
}

func int64Col(name string, field func(r *models.EnrichedTrade) *int64) Column {
	return Column{
		Name:  name,
		Value: func(r *models.EnrichedTrade) interface{} { return *field(r) },
		Parse: func(r *models.EnrichedTrade, raw string) error {
			if raw == "" {
				return nil
			}
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				// Integers typed in by hand may come back as "1.0E7" and the like.
				f, ferr := strconv.ParseFloat(raw, 64)
				if ferr != nil {
					return err
				}
				v = int64(f)
			}
			*field(r) = v
			return nil
		},
	}
}

func intCol(name string, field func(r *models.EnrichedTrade) *int) Column {
	return Column{
		Name:  name,
		Value: func(r *models.EnrichedTrade) interface{} { return *field(r) },
		Parse: func(r *models.EnrichedTrade, raw string) error {
			if raw == "" {
				return nil
			}
			v, err := strconv.Atoi(raw)
			if err != nil {
				return err
			}
			*field(r) = v
			return nil
		},
	}
}

func floatCol(name string, field func(r *models.EnrichedTrade) *float64) Column {
	return Column{
		Name:  name,
		Value: func(r *models.EnrichedTrade) interface{} { return *field(r) },
		Parse: func(r *models.EnrichedTrade, raw string) error {
			if raw == "" {
				return nil
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return err
			}
			*field(r) = v
			return nil
		},
	}
}

func stringCol(name string, field func(r *models.EnrichedTrade) *string) Column {
	return Column{
		Name:  name,
		Value: func(r *models.EnrichedTrade) interface{} { return *field(r) },
		Parse: func(r *models.EnrichedTrade, raw string) error {
			*field(r) = raw
			return nil
		},
	}
}

// unixTimeCol renders unix seconds as a spreadsheet date.
func unixTimeCol(name string, field func(r *models.EnrichedTrade) *int64) Column {
	return Column{
		Name:  name,
		Value: func(r *models.EnrichedTrade) interface{} { return time.Unix(*field(r), 0).UTC() },
		Parse: func(r *models.EnrichedTrade, raw string) error {
			t, err := parseExcelTime(raw)
			if err != nil || t.IsZero() {
				return err
			}
			*field(r) = t.Unix()
			return nil
		},
	}
}

func timeCol(name string, field func(r *models.EnrichedTrade) *time.Time) Column {
	return Column{
		Name: name,
		Value: func(r *models.EnrichedTrade) interface{} {
			if field(r).IsZero() {
				return nil
			}
			return field(r).UTC()
		},
		Parse: func(r *models.EnrichedTrade, raw string) error {
			t, err := parseExcelTime(raw)
			if err != nil {
				return err
			}
			*field(r) = t
			return nil
		},
	}
}

func parseExcelTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return time.Time{}, err
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, err
	}
	return t.Round(time.Second).UTC(), nil
}

// TradeColumns is the layout of the "Filtered Trades" sheet.
var TradeColumns = []Column{
	int64Col("id", func(r *models.EnrichedTrade) *int64 { return &r.ID }),
	unixTimeCol("open_time", func(r *models.EnrichedTrade) *int64 { return &r.OpenTime }),
	unixTimeCol("close_time", func(r *models.EnrichedTrade) *int64 { return &r.CloseTime }),
	stringCol("symbol", func(r *models.EnrichedTrade) *string { return &r.Symbol }),
	floatCol("open_price", func(r *models.EnrichedTrade) *float64 { return &r.OpenPrice }),
	floatCol("close_price", func(r *models.EnrichedTrade) *float64 { return &r.ClosePrice }),
	int64Col("login", func(r *models.EnrichedTrade) *int64 { return &r.Login }),
	floatCol("volume", func(r *models.EnrichedTrade) *float64 { return &r.Volume }),
	stringCol("close_time_str", func(r *models.EnrichedTrade) *string { return &r.CloseTimeStr }),
	floatCol("commission", func(r *models.EnrichedTrade) *float64 { return &r.Commission }),
	intCol("digits", func(r *models.EnrichedTrade) *int { return &r.Digits }),
	stringCol("open_time_str", func(r *models.EnrichedTrade) *string { return &r.OpenTimeStr }),
	floatCol("profit", func(r *models.EnrichedTrade) *float64 { return &r.Profit }),
	intCol("reason", func(r *models.EnrichedTrade) *int { return &r.Reason }),
	floatCol("sl", func(r *models.EnrichedTrade) *float64 { return &r.SL }),
	floatCol("swap", func(r *models.EnrichedTrade) *float64 { return &r.Swap }),
	int64Col("ticket", func(r *models.EnrichedTrade) *int64 { return &r.Ticket }),
	floatCol("tp", func(r *models.EnrichedTrade) *float64 { return &r.TP }),
	stringCol("type_str", func(r *models.EnrichedTrade) *string { return &r.TypeStr }),
	timeCol("created_at", func(r *models.EnrichedTrade) *time.Time { return &r.CreatedAt }),
	floatCol("FinalLot", func(r *models.EnrichedTrade) *float64 { return &r.FinalLot }),
	floatCol("trade_duration", func(r *models.EnrichedTrade) *float64 { return &r.TradeDuration }),
	int64Col("account_id", func(r *models.EnrichedTrade) *int64 { return &r.AccountID }),
	stringCol("type_account", func(r *models.EnrichedTrade) *string { return &r.AccountType }),
	floatCol("equity", func(r *models.EnrichedTrade) *float64 { return &r.Equity }),
	stringCol("breachedby", func(r *models.EnrichedTrade) *string { return &r.BreachedBy }),
	int64Col("customer_id", func(r *models.EnrichedTrade) *int64 { return &r.CustomerID }),
	floatCol("starting_balance", func(r *models.EnrichedTrade) *float64 { return &r.StartingBalance }),
	stringCol("email", func(r *models.EnrichedTrade) *string { return &r.Email }),
	stringCol("name", func(r *models.EnrichedTrade) *string { return &r.Name }),
	int64Col("country_id", func(r *models.EnrichedTrade) *int64 { return &r.CountryID }),
	stringCol("country_name", func(r *models.EnrichedTrade) *string { return &r.CountryName }),
	floatCol("PnL", func(r *models.EnrichedTrade) *float64 { return &r.PnL }),
}

// SummaryHeader is the layout of the "Login Summary" sheet.
var SummaryHeader = []string{
	"login", "type_account", "email", "country_name",
	"total_trades_count", "quick_close_trades_count", "quick_close_trade_percentage",
	"total_profit", "quick_close_total_profit", "quick_close_positive_profit",
	"quick_close_negative_profit", "quick_close_profit_percentage", "PnL",
}

func summaryRow(s models.LoginSummary) []interface{} {
	return []interface{}{
		s.Login, s.AccountType, s.Email, s.CountryName,
		s.TotalTradesCount, s.QuickCloseTradesCount, s.QuickCloseTradePercentage,
		s.TotalProfit, s.QuickCloseTotalProfit, s.QuickClosePositiveProfit,
		s.QuickCloseNegativeProfit, s.QuickCloseProfitPercentage, s.PnL,
	}
}

// columnByName looks up a trade column.
func columnByName(name string) (Column, error) {
	for _, c := range TradeColumns {
		if c.Name == name {
			return c, nil
		}
	}
	return Column{}, fmt.Errorf("unknown trade column %q", name)
}
