package models

import "time"

// Trade is a closed or open position as recorded by the trading server.
// Times are unix seconds; the *_str columns are the server's own rendering.
type Trade struct {
	ID           int64     `gorm:"column:id;primaryKey" json:"id"`
	Ticket       int64     `gorm:"column:ticket" json:"ticket"`
	Login        int64     `gorm:"column:login;index" json:"login"`
	OpenTime     int64     `gorm:"column:open_time;index" json:"open_time"`
	CloseTime    int64     `gorm:"column:close_time;index" json:"close_time"`
	OpenTimeStr  string    `gorm:"column:open_time_str" json:"open_time_str"`
	CloseTimeStr string    `gorm:"column:close_time_str" json:"close_time_str"`
	Symbol       string    `gorm:"column:symbol" json:"symbol"`
	TypeStr      string    `gorm:"column:type_str" json:"type_str"` // "buy" or "sell"
	OpenPrice    float64   `gorm:"column:open_price" json:"open_price"`
	ClosePrice   float64   `gorm:"column:close_price" json:"close_price"`
	Volume       float64   `gorm:"column:volume" json:"volume"`
	Lots         float64   `gorm:"column:lots" json:"lots"`
	Commission   float64   `gorm:"column:commission" json:"commission"`
	Swap         float64   `gorm:"column:swap" json:"swap"`
	Profit       float64   `gorm:"column:profit" json:"profit"`
	SL           float64   `gorm:"column:sl" json:"sl"`
	TP           float64   `gorm:"column:tp" json:"tp"`
	Digits       int       `gorm:"column:digits" json:"digits"`
	Reason       int       `gorm:"column:reason" json:"reason"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName pins the table name used by the trading server.
func (Trade) TableName() string { return "trades" }

// OpenedAt returns the open time as a UTC time.Time.
func (t Trade) OpenedAt() time.Time { return time.Unix(t.OpenTime, 0).UTC() }

// ClosedAt returns the close time as a UTC time.Time.
func (t Trade) ClosedAt() time.Time { return time.Unix(t.CloseTime, 0).UTC() }
