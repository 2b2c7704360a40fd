package vendors

import (
	"context"
	"strings"

	"github.com/angelmondragon/stockkeeper/pkg/db/models"
	pkgerrors "github.com/angelmondragon/stockkeeper/pkg/errors"
)

// Service defines vendor directory operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*VendorDTO, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]VendorDTO, error)
	ListByName(ctx context.Context) ([]Option, error)
}

type service struct {
	repo Repository
}

// NewService wires vendor dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "vendors repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*VendorDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor name is required")
	}

	vendor := &models.Vendor{Name: name}
	if contact := strings.TrimSpace(input.Contact); contact != "" {
		vendor.Contact = &contact
	}
	if err := s.repo.Create(ctx, vendor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create vendor")
	}
	dto := toDTO(*vendor)
	return &dto, nil
}

// Delete removes the vendor; unknown ids are a no-op. Purchase orders keep
// their row with the vendor reference cleared.
func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete vendor")
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]VendorDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list vendors")
	}
	out := make([]VendorDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return out, nil
}

func (s *service) ListByName(ctx context.Context) ([]Option, error) {
	rows, err := s.repo.ListByName(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list vendor names")
	}
	options := make([]Option, 0, len(rows))
	for _, row := range rows {
		options = append(options, Option{ID: row.ID, Name: row.Name})
	}
	return options, nil
}
