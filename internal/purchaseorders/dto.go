package purchaseorders

import (
	"github.com/angelmondragon/stockkeeper/pkg/db/models"
	"github.com/angelmondragon/stockkeeper/pkg/enums"
)

// UnknownName is shown in place of a product or vendor that no longer exists.
const UnknownName = "Unknown"

// CreateInput carries the fields of a new purchase order.
type CreateInput struct {
	ProductID int64 `json:"product_id" validate:"required"`
	VendorID  int64 `json:"vendor_id" validate:"required"`
	Quantity  int   `json:"quantity"`
}

// CreateRequest is the JSON body of a purchase order create.
type CreateRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	VendorID  int64 `json:"vendor_id" validate:"required"`
	Quantity  *int  `json:"quantity" validate:"required"`
}

// Input converts a validated request into service input.
func (r CreateRequest) Input() CreateInput {
	in := CreateInput{ProductID: r.ProductID, VendorID: r.VendorID}
	if r.Quantity != nil {
		in.Quantity = *r.Quantity
	}
	return in
}

// OrderDTO is the read model of a single purchase order.
type OrderDTO struct {
	ID        int64                     `json:"id"`
	ProductID *int64                    `json:"product_id"`
	VendorID  *int64                    `json:"vendor_id"`
	Quantity  int                       `json:"quantity"`
	Date      string                    `json:"date"`
	Status    enums.PurchaseOrderStatus `json:"status"`
}

// HistoryEntry is a purchase order with the names it references; names are
// nil when the product or vendor was deleted.
type HistoryEntry struct {
	ID          int64                     `json:"id"`
	ProductName *string                   `json:"product_name"`
	VendorName  *string                   `json:"vendor_name"`
	Quantity    int                       `json:"quantity"`
	Date        string                    `json:"date"`
	Status      enums.PurchaseOrderStatus `json:"status"`
}

// ProductLabel returns the product name or UnknownName.
func (h HistoryEntry) ProductLabel() string {
	return labelOrUnknown(h.ProductName)
}

// VendorLabel returns the vendor name or UnknownName.
func (h HistoryEntry) VendorLabel() string {
	return labelOrUnknown(h.VendorName)
}

// IsPending reports whether the order can still be received.
func (h HistoryEntry) IsPending() bool {
	return h.Status == enums.PurchaseOrderStatusPending
}

// ReceiveResult reports whether a receive call moved the order to Received.
type ReceiveResult struct {
	Received bool `json:"received"`
}

func labelOrUnknown(name *string) string {
	if name == nil {
		return UnknownName
	}
	return *name
}

func toOrderDTO(o models.PurchaseOrder) OrderDTO {
	return OrderDTO{
		ID:        o.ID,
		ProductID: o.ProductID,
		VendorID:  o.VendorID,
		Quantity:  o.Quantity,
		Date:      o.Date,
		Status:    o.Status,
	}
}

func toHistoryEntry(row models.PurchaseOrderHistoryRow) HistoryEntry {
	return HistoryEntry{
		ID:          row.ID,
		ProductName: row.ProductName,
		VendorName:  row.VendorName,
		Quantity:    row.Quantity,
		Date:        row.Date,
		Status:      row.Status,
	}
}
