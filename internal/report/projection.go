package report

import (
	"fmt"

	"quickclose-report/internal/detect"
	"quickclose-report/internal/models"
)

// Rename maps a trade column to the label shown in a presentation sheet.
type Rename struct {
	From string
	To   string
}

// ProofColumns is the column set of the per-login quick-close proof sheet.
var ProofColumns = []Rename{
	{From: "login", To: "Login"},
	{From: "open_time_str", To: "Open Time"},
	{From: "ticket", To: "Ticket"},
	{From: "symbol", To: "Symbol"},
	{From: "type_str", To: "Type"},
	{From: "FinalLot", To: "Final Lot"},
	{From: "open_price", To: "Open Price"},
	{From: "sl", To: "SL"},
	{From: "tp", To: "TP"},
	{From: "close_time_str", To: "Close Time"},
	{From: "close_price", To: "Close Price"},
	{From: "commission", To: "Commission"},
	{From: "swap", To: "Swap"},
	{From: "profit", To: "Profit"},
}

// Projection re-presents a "Filtered Trades" sheet: it keeps quick-close
// trades of selected logins, selects and orders columns, and relabels them.
// Values are copied unchanged.
type Projection struct {
	Logins     []int64 // empty keeps nothing
	Classifier detect.Classifier
	Columns    []Rename
}

// NewProofProjection returns the projection behind the proof report.
func NewProofProjection(logins []int64, c detect.Classifier) Projection {
	return Projection{Logins: logins, Classifier: c, Columns: ProofColumns}
}

// Filter keeps quick-close rows owned by one of p.Logins, in input order.
func (p Projection) Filter(rows []models.EnrichedTrade) []models.EnrichedTrade {
	allowed := make(map[int64]struct{}, len(p.Logins))
	for _, l := range p.Logins {
		allowed[l] = struct{}{}
	}

	out := make([]models.EnrichedTrade, 0, len(rows))
	for _, r := range rows {
		if _, ok := allowed[r.Login]; !ok {
			continue
		}
		if p.Classifier.IsQuickCloseSeconds(r.TradeDuration) {
			out = append(out, r)
		}
	}
	return out
}

// Sheet projects rows onto p.Columns under their new labels.
func (p Projection) Sheet(name string, rows []models.EnrichedTrade) (Sheet, error) {
	cols := make([]Column, len(p.Columns))
	header := make([]string, len(p.Columns))
	for i, rn := range p.Columns {
		c, err := columnByName(rn.From)
		if err != nil {
			return Sheet{}, err
		}
		cols[i] = c
		header[i] = rn.To
	}

	out := make([][]interface{}, len(rows))
	for i := range rows {
		cells := make([]interface{}, len(cols))
		for j, c := range cols {
			cells[j] = c.Value(&rows[i])
		}
		out[i] = cells
	}
	return Sheet{Name: name, Header: header, Rows: out}, nil
}

// required lists the input columns p reads.
func (p Projection) required() []string {
	names := []string{"login", "trade_duration"}
	for _, rn := range p.Columns {
		names = append(names, rn.From)
	}
	return names
}

// Run reads inSheet of in, filters and projects it and writes the result
// as outSheet of out. It returns the number of rows written.
func (p Projection) Run(in, inSheet, out, outSheet string) (int, error) {
	rows, err := ReadTrades(in, inSheet, p.required()...)
	if err != nil {
		return 0, err
	}

	kept := p.Filter(rows)
	sheet, err := p.Sheet(outSheet, kept)
	if err != nil {
		return 0, err
	}
	if err := WriteWorkbook(out, sheet); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", out, err)
	}
	return len(kept), nil
}
