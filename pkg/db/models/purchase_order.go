package models

import "github.com/angelmondragon/stockkeeper/pkg/enums"

// PurchaseOrder requests Quantity units of a product from a vendor.
// ProductID and VendorID become nil when the referenced row is deleted.
type PurchaseOrder struct {
	ID        int64                     `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID *int64                    `gorm:"column:product_id"`
	VendorID  *int64                    `gorm:"column:vendor_id"`
	Quantity  int                       `gorm:"column:quantity"`
	Date      string                    `gorm:"column:date"`
	Status    enums.PurchaseOrderStatus `gorm:"column:status;default:Pending"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// PurchaseOrderHistoryRow is a purchase order joined with its product and
// vendor names; names are nil when the referenced row no longer exists.
type PurchaseOrderHistoryRow struct {
	ID          int64                     `gorm:"column:po_id"`
	Quantity    int                       `gorm:"column:quantity"`
	Date        string                    `gorm:"column:date"`
	Status      enums.PurchaseOrderStatus `gorm:"column:status"`
	ProductName *string                   `gorm:"column:product_name"`
	VendorName  *string                   `gorm:"column:vendor_name"`
}
