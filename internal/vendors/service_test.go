package vendors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/stockkeeper/pkg/db/dbtest"
	"github.com/angelmondragon/stockkeeper/pkg/db/models"
	pkgerrors "github.com/angelmondragon/stockkeeper/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	client := dbtest.NewClient(t)
	svc, err := NewService(NewRepository(client.DB()))
	require.NoError(t, err)
	return svc
}

func TestCreateStoresContactOrNull(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	acme, err := svc.Create(ctx, CreateInput{Name: "Acme", Contact: "acme@example.com"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Name: "Globex", Contact: "  "})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "Globex", list[0].Name)
	assert.Nil(t, list[0].Contact)
	assert.Equal(t, acme.ID, list[1].ID)
	require.NotNil(t, list[1].Contact)
	assert.Equal(t, "acme@example.com", *list[1].Contact)
}

func TestCreateRejectsBlankName(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), CreateInput{Name: ""})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestDeleteIsUnconditional(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	v, err := svc.Create(ctx, CreateInput{Name: "Acme"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, v.ID+7))
	require.NoError(t, svc.Delete(ctx, v.ID))
	require.NoError(t, svc.Delete(ctx, v.ID))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListByName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Initech", "Acme", "Globex"} {
		_, err := svc.Create(ctx, CreateInput{Name: name})
		require.NoError(t, err)
	}

	options, err := svc.ListByName(ctx)
	require.NoError(t, err)
	require.Len(t, options, 3)
	assert.Equal(t, "Acme", options[0].Name)
	assert.Equal(t, "Globex", options[1].Name)
	assert.Equal(t, "Initech", options[2].Name)
}

type failingRepository struct{ err error }

func (f *failingRepository) WithTx(*gorm.DB) Repository                   { return f }
func (f *failingRepository) Create(context.Context, *models.Vendor) error { return f.err }
func (f *failingRepository) Delete(context.Context, int64) error          { return f.err }
func (f *failingRepository) List(context.Context) ([]models.Vendor, error) {
	return nil, f.err
}
func (f *failingRepository) ListByName(context.Context) ([]models.Vendor, error) {
	return nil, f.err
}

func TestStorageFailuresMapToInternal(t *testing.T) {
	svc, err := NewService(&failingRepository{err: errors.New("database is locked")})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Create(ctx, CreateInput{Name: "Acme"})
	assert.Equal(t, pkgerrors.CodeInternal, pkgerrors.CodeOf(err))
	assert.Equal(t, pkgerrors.CodeInternal, pkgerrors.CodeOf(svc.Delete(ctx, 1)))
	_, err = svc.List(ctx)
	assert.Equal(t, pkgerrors.CodeInternal, pkgerrors.CodeOf(err))
}

func TestDeleteReferencedVendorOnLegacySchema(t *testing.T) {
	client := dbtest.NewLegacyClient(t)
	svc, err := NewService(NewRepository(client.DB()))
	require.NoError(t, err)
	ctx := context.Background()

	acme, err := svc.Create(ctx, CreateInput{Name: "Acme"})
	require.NoError(t, err)
	require.NoError(t, client.DB().Exec(
		`INSERT INTO purchase_orders (vendor_id, quantity, date, status) VALUES (?, 5, '2024-03-09', 'Received')`,
		acme.ID,
	).Error)

	require.NoError(t, svc.Delete(ctx, acme.ID))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	var remaining, dangling int64
	require.NoError(t, client.DB().Raw(`SELECT COUNT(*) FROM purchase_orders`).Scan(&remaining).Error)
	require.NoError(t, client.DB().Raw(`SELECT COUNT(*) FROM purchase_orders WHERE vendor_id IS NOT NULL`).Scan(&dangling).Error)
	assert.Equal(t, int64(1), remaining)
	assert.Zero(t, dangling)
}
