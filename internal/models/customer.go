package models

// Customer owns one or more accounts.
type Customer struct {
	ID        int64  `gorm:"column:id;primaryKey" json:"id"`
	Email     string `gorm:"column:email" json:"email"`
	Name      string `gorm:"column:name" json:"name"`
	CountryID int64  `gorm:"column:country_id" json:"country_id"`
}

func (Customer) TableName() string { return "customers" }
