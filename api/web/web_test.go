package web

import (
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/stockkeeper/internal/export"
	"github.com/angelmondragon/stockkeeper/internal/products"
	"github.com/angelmondragon/stockkeeper/internal/purchaseorders"
	"github.com/angelmondragon/stockkeeper/internal/vendors"
	"github.com/angelmondragon/stockkeeper/pkg/db/dbtest"
	"github.com/angelmondragon/stockkeeper/pkg/logger"
)

type testApp struct {
	router   http.Handler
	products products.Service
	vendors  vendors.Service
	orders   purchaseorders.Service
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	client := dbtest.NewClient(t)
	logg := logger.Nop()

	productRepo := products.NewRepository(client.DB())
	productSvc, err := products.NewService(productRepo)
	require.NoError(t, err)
	vendorSvc, err := vendors.NewService(vendors.NewRepository(client.DB()))
	require.NoError(t, err)
	orderSvc, err := purchaseorders.NewService(purchaseorders.ServiceParams{
		Repo:     purchaseorders.NewRepository(client.DB()),
		Products: productRepo,
		Tx:       client,
		Logger:   logg,
	})
	require.NoError(t, err)
	exporter, err := export.NewExporter(client.DB(), filepath.Join(t.TempDir(), export.FileName), logg, nil)
	require.NoError(t, err)
	views, err := NewViews(logg)
	require.NoError(t, err)

	r := chi.NewRouter()
	Register(r, Deps{
		Views:    views,
		Products: productSvc,
		Vendors:  vendorSvc,
		Orders:   orderSvc,
		Exporter: exporter,
	})
	return &testApp{router: r, products: productSvc, vendors: vendorSvc, orders: orderSvc}
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	a.router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
	return resp
}

func (a *testApp) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	a.router.ServeHTTP(resp, req)
	return resp
}

func TestWelcomePages(t *testing.T) {
	app := newTestApp(t)
	for _, path := range []string{"/", "/welcome"} {
		resp := app.get(path)
		assert.Equal(t, http.StatusOK, resp.Code, path)
		assert.Contains(t, resp.Body.String(), "Inventory Manager")
	}
}

func TestAddProductRedirectsAndShowsOnDashboard(t *testing.T) {
	app := newTestApp(t)

	resp := app.post("/add", url.Values{"product_name": {"Widget"}, "quantity": {"10"}, "rate": {"2.5"}})
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/dashboard", resp.Header().Get("Location"))

	resp = app.get("/dashboard")
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, "Widget")
	assert.Contains(t, body, "25.00")
}

func TestAddProductRejectsMalformedInput(t *testing.T) {
	app := newTestApp(t)

	cases := []url.Values{
		{"product_name": {"Widget"}, "quantity": {"ten"}, "rate": {"2.5"}},
		{"product_name": {"Widget"}, "quantity": {"1"}, "rate": {"cheap"}},
		{"product_name": {""}, "quantity": {"1"}, "rate": {"1"}},
		{"quantity": {"1"}, "rate": {"1"}},
	}
	for _, form := range cases {
		resp := app.post("/add", form)
		assert.Equal(t, http.StatusBadRequest, resp.Code, form.Encode())
	}

	list, err := app.products.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	app := newTestApp(t)
	created, err := app.products.Create(context.Background(), products.CreateInput{Name: "Widget", Quantity: 10, Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	id := strconvID(created.ID)

	resp := app.post("/update/"+id, url.Values{"quantity": {"5"}})
	require.Equal(t, http.StatusSeeOther, resp.Code)
	list, err := app.products.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, list.Items[0].Quantity)

	assert.Equal(t, http.StatusBadRequest, app.post("/update/"+id, url.Values{"quantity": {"x"}}).Code)
	assert.Equal(t, http.StatusBadRequest, app.get("/delete/abc").Code)

	assert.Equal(t, http.StatusSeeOther, app.get("/delete/999").Code)
	resp = app.get("/delete/" + id)
	require.Equal(t, http.StatusSeeOther, resp.Code)
	list, err = app.products.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestVendorPages(t *testing.T) {
	app := newTestApp(t)

	resp := app.post("/add_vendor", url.Values{"vendor_name": {"Acme"}, "contact": {"555-0100"}})
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/vendors", resp.Header().Get("Location"))

	resp = app.get("/vendors")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Acme")
	assert.Contains(t, resp.Body.String(), "555-0100")

	assert.Equal(t, http.StatusBadRequest, app.post("/add_vendor", url.Values{"contact": {"x"}}).Code)

	list, err := app.vendors.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, http.StatusSeeOther, app.get("/delete_vendor/"+strconvID(list[0].ID)).Code)
	list, err = app.vendors.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPurchaseOrderFlow(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	p, err := app.products.Create(ctx, products.CreateInput{Name: "Widget", Quantity: 10, Price: decimal.NewFromInt(2)})
	require.NoError(t, err)
	v, err := app.vendors.Create(ctx, vendors.CreateInput{Name: "Acme"})
	require.NoError(t, err)

	form := app.get("/po")
	require.Equal(t, http.StatusOK, form.Code)
	assert.Contains(t, form.Body.String(), `<option value="`+strconvID(p.ID)+`">Widget</option>`)
	assert.Contains(t, form.Body.String(), "Acme")

	resp := app.post("/create_po", url.Values{
		"product_id": {strconvID(p.ID)},
		"vendor_id":  {strconvID(v.ID)},
		"quantity":   {"5"},
	})
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/po_history", resp.Header().Get("Location"))

	history, err := app.orders.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	orderID := strconvID(history[0].ID)

	page := app.get("/po_history")
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Pending")
	assert.Contains(t, page.Body.String(), "/receive_po/"+orderID)

	for i := 0; i < 2; i++ {
		resp = app.get("/receive_po/" + orderID)
		require.Equal(t, http.StatusSeeOther, resp.Code)
	}
	list, err := app.products.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15, list.Items[0].Quantity)

	page = app.get("/po_history")
	assert.Contains(t, page.Body.String(), "Received")
	assert.NotContains(t, page.Body.String(), "/receive_po/"+orderID)

	assert.Equal(t, http.StatusSeeOther, app.get("/receive_po/9999").Code)
	assert.Equal(t, http.StatusBadRequest, app.get("/receive_po/nope").Code)
}

func TestCreatePurchaseOrderWithMissingProductIsServerError(t *testing.T) {
	app := newTestApp(t)
	v, err := app.vendors.Create(context.Background(), vendors.CreateInput{Name: "Acme"})
	require.NoError(t, err)

	resp := app.post("/create_po", url.Values{"product_id": {"42"}, "vendor_id": {strconvID(v.ID)}, "quantity": {"1"}})
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "internal server error")
}

func TestExportDownloadsCSV(t *testing.T) {
	app := newTestApp(t)
	_, err := app.products.Create(context.Background(), products.CreateInput{Name: "Widget", Quantity: 10, Price: decimal.RequireFromString("2.5")})
	require.NoError(t, err)

	resp := app.get("/export")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, `attachment; filename="inventory.csv"`, resp.Header().Get("Content-Disposition"))

	records, err := csv.NewReader(resp.Body).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"ID", "Product", "Quantity", "Price"}, {"1", "Widget", "10", "2.5"}}, records)
}

func strconvID(id int64) string {
	return strconv.FormatInt(id, 10)
}
