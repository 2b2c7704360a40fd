package products

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/stockkeeper/pkg/db/models"
)

// CreateInput carries the fields of a new product.
type CreateInput struct {
	Name     string          `json:"name" validate:"required"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// CreateRequest is the JSON body of a product create; every field must be
// present, zero values included.
type CreateRequest struct {
	Name     string           `json:"name" validate:"required"`
	Quantity *int             `json:"quantity" validate:"required"`
	Price    *decimal.Decimal `json:"price" validate:"required"`
}

// Input converts a validated request into service input.
func (r CreateRequest) Input() CreateInput {
	in := CreateInput{Name: r.Name}
	if r.Quantity != nil {
		in.Quantity = *r.Quantity
	}
	if r.Price != nil {
		in.Price = *r.Price
	}
	return in
}

// UpdateQuantityInput sets a product's stock level.
type UpdateQuantityInput struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// ProductDTO is the read model returned by List.
type ProductDTO struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Value    decimal.Decimal `json:"value"`
}

// ListResult pairs the products with their combined stock value.
type ListResult struct {
	Items      []ProductDTO    `json:"items"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// Option is an id/name pair for selection lists.
type Option struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func toDTO(p models.Product) ProductDTO {
	return ProductDTO{
		ID:       p.ID,
		Name:     p.Name,
		Quantity: p.Quantity,
		Price:    p.Price,
		Value:    p.StockValue(),
	}
}
