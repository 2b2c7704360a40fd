package products

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/stockkeeper/pkg/db/models"
	pkgerrors "github.com/angelmondragon/stockkeeper/pkg/errors"
)

// Service defines product inventory operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*ProductDTO, error)
	Delete(ctx context.Context, id int64) error
	UpdateQuantity(ctx context.Context, id int64, quantity int) error
	List(ctx context.Context) (*ListResult, error)
	ListByName(ctx context.Context) ([]Option, error)
}

type service struct {
	repo Repository
}

// NewService wires product dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "products repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}

	product := &models.Product{
		Name:     name,
		Quantity: input.Quantity,
		Price:    input.Price,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	dto := toDTO(*product)
	return &dto, nil
}

// Delete removes the product; unknown ids are a no-op.
func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}

// UpdateQuantity replaces the stored quantity; unknown ids are a no-op.
func (s *service) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	if err := s.repo.UpdateQuantity(ctx, id, quantity); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product quantity")
	}
	return nil
}

func (s *service) List(ctx context.Context) (*ListResult, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	result := &ListResult{
		Items:      make([]ProductDTO, 0, len(rows)),
		TotalValue: decimal.Zero,
	}
	for _, row := range rows {
		dto := toDTO(row)
		result.Items = append(result.Items, dto)
		result.TotalValue = result.TotalValue.Add(dto.Value)
	}
	return result, nil
}

func (s *service) ListByName(ctx context.Context) ([]Option, error) {
	rows, err := s.repo.ListByName(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list product names")
	}
	options := make([]Option, 0, len(rows))
	for _, row := range rows {
		options = append(options, Option{ID: row.ID, Name: row.Name})
	}
	return options, nil
}
