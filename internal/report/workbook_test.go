package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"quickclose-report/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRows() []models.EnrichedTrade {
	open := time.Date(2025, 2, 10, 9, 30, 0, 0, time.UTC)
	mk := func(id, login int64, dur int64, profit float64) models.EnrichedTrade {
		return models.EnrichedTrade{
			Trade: models.Trade{
				ID: id, Ticket: 5000 + id, Login: login,
				OpenTime: open.Unix(), CloseTime: open.Unix() + dur,
				OpenTimeStr: "2025.02.10 09:30:00", CloseTimeStr: "2025.02.10 09:30:15",
				Symbol: "XAUUSD", TypeStr: "buy",
				OpenPrice: 2861.35, ClosePrice: 2862.1, Volume: 150, Lots: 1.5,
				Commission: -3.5, Swap: 0, Profit: profit, SL: 2850.0, TP: 0.1 + 0.2,
				Digits: 2, Reason: 1, CreatedAt: open,
			},
			FinalLot:        1.5,
			TradeDuration:   float64(dur),
			AccountID:       900 + id,
			AccountType:     "Stellar 1-Step Demo",
			Equity:          10250.75,
			BreachedBy:      "",
			CustomerID:      77,
			StartingBalance: 10000,
			Email:           "trader@example.com",
			Name:            "Trader",
			CountryID:       3,
			CountryName:     "Japan",
			PnL:             250.75,
		}
	}
	return []models.EnrichedTrade{
		mk(1, 13406179, 15, 100),
		mk(2, 13406179, 600, -20),
		mk(3, 22216627, -5, 7.25),
		mk(4, 13438586, 30, -1.5),
	}
}

func TestWriteWorkbook_TwoSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	summary := []models.LoginSummary{{Login: 13406179, AccountType: "real", TotalTradesCount: 2, QuickCloseTradesCount: 1, QuickCloseTradePercentage: 50}}

	err := WriteWorkbook(path,
		TradesSheet("Filtered Trades", sampleRows()),
		SummarySheet("Login Summary", summary),
	)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Filtered Trades", "Login Summary"}, f.GetSheetList())

	rows, err := f.GetRows("Login Summary")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, SummaryHeader, rows[0])
	assert.Equal(t, "13406179", rows[1][0])
	assert.Equal(t, "50", rows[1][6])

	rows, err = f.GetRows("Filtered Trades")
	require.NoError(t, err)
	assert.Len(t, rows, 5)
	assert.Equal(t, "id", rows[0][0])
	assert.Equal(t, "PnL", rows[0][len(rows[0])-1])
}

func TestReadTrades_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	want := sampleRows()
	require.NoError(t, WriteWorkbook(path, TradesSheet("Filtered Trades", want)))

	got, err := ReadTrades(path, "Filtered Trades", "login", "trade_duration")

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadTrades_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteWorkbook(path, Sheet{Name: "Other", Header: []string{"symbol"}, Rows: [][]interface{}{{"EURUSD"}}}))

	_, err := ReadTrades(path, "Filtered Trades")
	assert.ErrorContains(t, err, "not found")

	_, err = ReadTrades(path, "Other", "login")
	assert.ErrorContains(t, err, `no "login" column`)

	_, err = ReadTrades(filepath.Join(t.TempDir(), "missing.xlsx"), "Other")
	assert.Error(t, err)
}

func TestWriteWorkbook_NoPartialOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.xlsx")

	// Sheet names may not contain ':' so the second sheet fails.
	err := WriteWorkbook(path,
		TradesSheet("Filtered Trades", sampleRows()),
		Sheet{Name: "bad:name", Header: []string{"x"}},
	)
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no temp files left behind")
}

func TestWriteWorkbook_NoSheets(t *testing.T) {
	assert.Error(t, WriteWorkbook(filepath.Join(t.TempDir(), "x.xlsx")))
}
