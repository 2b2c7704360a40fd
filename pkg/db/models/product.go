package models

import "github.com/shopspring/decimal"

// Product is a stocked item; quantity and price are not range-checked.
type Product struct {
	ID       int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Name     string          `gorm:"column:product_name;not null"`
	Quantity int             `gorm:"column:quantity;not null"`
	Price    decimal.Decimal `gorm:"column:price;not null"`
}

func (Product) TableName() string {
	return "products"
}

// StockValue returns quantity × price.
func (p Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}
