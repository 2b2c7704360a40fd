package purchaseorders

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/stockkeeper/pkg/db/models"
	"github.com/angelmondragon/stockkeeper/pkg/enums"
)

// Repository exposes persistence helpers for purchase orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.PurchaseOrder) error
	History(ctx context.Context) ([]models.PurchaseOrderHistoryRow, error)
	MarkReceived(ctx context.Context, id int64) (bool, error)
	FindByID(ctx context.Context, id int64) (*models.PurchaseOrder, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a purchase-order repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// Rows written by older schemas may hold NULLs; reads coalesce them.
const historyQuery = `
SELECT po.id AS po_id,
       COALESCE(po.quantity, 0) AS quantity,
       COALESCE(po.date, '') AS date,
       COALESCE(po.status, 'Pending') AS status,
       p.product_name,
       v.vendor_name
FROM purchase_orders po
LEFT JOIN products p ON p.id = po.product_id
LEFT JOIN vendors v ON v.id = po.vendor_id
ORDER BY po.id DESC
`

const findByIDQuery = `
SELECT id,
       product_id,
       vendor_id,
       COALESCE(quantity, 0) AS quantity,
       COALESCE(date, '') AS date,
       COALESCE(status, 'Pending') AS status
FROM purchase_orders
WHERE id = ?
`

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, order *models.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repositoryImpl) History(ctx context.Context) ([]models.PurchaseOrderHistoryRow, error) {
	var rows []models.PurchaseOrderHistoryRow
	if err := r.db.WithContext(ctx).Raw(historyQuery).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkReceived flips a Pending order to Received and reports whether this call
// performed the transition.
func (r *repositoryImpl) MarkReceived(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Where("id = ? AND status = ?", id, enums.PurchaseOrderStatusPending).
		UpdateColumn("status", enums.PurchaseOrderStatusReceived)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repositoryImpl) FindByID(ctx context.Context, id int64) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	result := r.db.WithContext(ctx).Raw(findByIDQuery, id).Scan(&order)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &order, nil
}
