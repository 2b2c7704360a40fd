package vendors

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/stockkeeper/pkg/db/models"
)

// Repository exposes persistence helpers for vendors.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, vendor *models.Vendor) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]models.Vendor, error)
	ListByName(ctx context.Context) ([]models.Vendor, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a vendors repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, vendor *models.Vendor) error {
	return r.db.WithContext(ctx).Create(vendor).Error
}

// Delete detaches referencing purchase orders before removing the row, so
// databases whose foreign keys lack ON DELETE SET NULL behave the same.
func (r *repositoryImpl) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("purchase_orders").
			Where("vendor_id = ?", id).
			UpdateColumn("vendor_id", gorm.Expr("NULL")).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Vendor{}).Error
	})
}

func (r *repositoryImpl) List(ctx context.Context) ([]models.Vendor, error) {
	var rows []models.Vendor
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) ListByName(ctx context.Context) ([]models.Vendor, error) {
	var rows []models.Vendor
	err := r.db.WithContext(ctx).
		Select("id", "vendor_name").
		Order("vendor_name ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
