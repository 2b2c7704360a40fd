package models

// Vendor supplies products through purchase orders.
type Vendor struct {
	ID      int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Name    string  `gorm:"column:vendor_name;not null"`
	Contact *string `gorm:"column:contact"`
}

func (Vendor) TableName() string {
	return "vendors"
}
