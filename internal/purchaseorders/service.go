package purchaseorders

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/stockkeeper/internal/products"
	"github.com/angelmondragon/stockkeeper/pkg/db"
	"github.com/angelmondragon/stockkeeper/pkg/db/models"
	"github.com/angelmondragon/stockkeeper/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockkeeper/pkg/errors"
	"github.com/angelmondragon/stockkeeper/pkg/logger"
	"github.com/angelmondragon/stockkeeper/pkg/metrics"
)

// DateLayout is the calendar-date format stored on purchase orders.
const DateLayout = "2006-01-02"

// Service defines purchase-order operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*OrderDTO, error)
	History(ctx context.Context) ([]HistoryEntry, error)
	Receive(ctx context.Context, id int64) (ReceiveResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups the dependencies of NewService. Metrics and Clock are
// optional.
type ServiceParams struct {
	Repo     Repository
	Products products.Repository
	Tx       txRunner
	Logger   *logger.Logger
	Metrics  *metrics.InventoryMetrics
	Clock    func() time.Time
}

type service struct {
	repo     Repository
	products products.Repository
	tx       txRunner
	logg     *logger.Logger
	metrics  *metrics.InventoryMetrics
	now      func() time.Time
}

// NewService wires purchase-order dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "purchase orders repository required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "products repository required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	now := params.Clock
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     params.Repo,
		products: params.Products,
		tx:       params.Tx,
		logg:     params.Logger,
		metrics:  params.Metrics,
		now:      now,
	}, nil
}

// Create records a Pending order dated today in server local time. Product and
// vendor ids are not checked here; a dangling reference fails at the store.
func (s *service) Create(ctx context.Context, input CreateInput) (*OrderDTO, error) {
	productID, vendorID := input.ProductID, input.VendorID
	order := &models.PurchaseOrder{
		ProductID: &productID,
		VendorID:  &vendorID,
		Quantity:  input.Quantity,
		Date:      s.now().Format(DateLayout),
		Status:    enums.PurchaseOrderStatusPending,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		if db.IsForeignKeyViolation(err) {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"product_id": productID,
				"vendor_id":  vendorID,
			}), "purchase order references a missing product or vendor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create purchase order")
	}

	s.metrics.IncCreated()
	dto := toOrderDTO(*order)
	return &dto, nil
}

func (s *service) History(ctx context.Context) ([]HistoryEntry, error) {
	rows, err := s.repo.History(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list purchase orders")
	}
	out := make([]HistoryEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, toHistoryEntry(row))
	}
	return out, nil
}

// Receive moves a Pending order to Received and adds its quantity to the
// product's stock in the same transaction. Unknown or already received orders
// are a no-op reported as Received=false.
func (s *service) Receive(ctx context.Context, id int64) (ReceiveResult, error) {
	var (
		received bool
		order    *models.PurchaseOrder
	)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		ok, err := repo.MarkReceived(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		order, err = repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		received = true

		if order.ProductID == nil {
			return nil
		}
		_, err = s.products.WithTx(tx).IncrementQuantity(ctx, *order.ProductID, order.Quantity)
		return err
	})
	if err != nil {
		return ReceiveResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "receive purchase order")
	}

	logCtx := s.logg.WithField(ctx, "order_id", id)
	if !received {
		s.metrics.IncReceiveNoop()
		s.logg.Info(logCtx, "purchase_order.receive_noop")
		return ReceiveResult{}, nil
	}

	fields := map[string]any{"quantity": order.Quantity}
	if order.ProductID != nil {
		fields["product_id"] = *order.ProductID
	}
	s.metrics.IncReceived()
	s.logg.Info(s.logg.WithFields(logCtx, fields), "purchase_order.received")
	return ReceiveResult{Received: true}, nil
}
