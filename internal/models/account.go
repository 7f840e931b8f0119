package models

// Account is a trading account attached to a login.
type Account struct {
	ID              int64   `gorm:"column:id;primaryKey" json:"id"`
	Login           int64   `gorm:"column:login;index" json:"login"`
	Type            string  `gorm:"column:type" json:"type"`
	Equity          float64 `gorm:"column:equity" json:"equity"`
	StartingBalance float64 `gorm:"column:starting_balance" json:"starting_balance"`
	CustomerID      int64   `gorm:"column:customer_id;index" json:"customer_id"`
	BreachedBy      string  `gorm:"column:breachedby" json:"breachedby"`
}

func (Account) TableName() string { return "accounts" }

// PnL is the account's equity above its starting balance.
func (a Account) PnL() float64 {
	return a.Equity - a.StartingBalance
}
