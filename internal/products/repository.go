package products

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/stockkeeper/pkg/db/models"
)

// Repository exposes persistence helpers for products.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int64) error
	UpdateQuantity(ctx context.Context, id int64, quantity int) error
	IncrementQuantity(ctx context.Context, id int64, delta int) (bool, error)
	List(ctx context.Context) ([]models.Product, error)
	ListByName(ctx context.Context) ([]models.Product, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a products repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Delete detaches referencing purchase orders before removing the row, so
// databases whose foreign keys lack ON DELETE SET NULL behave the same.
func (r *repositoryImpl) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("purchase_orders").
			Where("product_id = ?", id).
			UpdateColumn("product_id", gorm.Expr("NULL")).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Product{}).Error
	})
}

func (r *repositoryImpl) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("quantity", quantity).Error
}

// IncrementQuantity adds delta to the stored quantity in a single statement and
// reports whether a row was touched.
func (r *repositoryImpl) IncrementQuantity(ctx context.Context, id int64, delta int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) List(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) ListByName(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Select("id", "product_name").
		Order("product_name ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
