package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/stockkeeper/internal/export"
	"github.com/angelmondragon/stockkeeper/internal/products"
	"github.com/angelmondragon/stockkeeper/internal/purchaseorders"
	"github.com/angelmondragon/stockkeeper/internal/vendors"
)

// Deps are the services behind the HTML pages.
type Deps struct {
	Views    *Views
	Products products.Service
	Vendors  vendors.Service
	Orders   purchaseorders.Service
	Exporter *export.Exporter
}

// Register mounts the page and form routes on r.
func Register(r chi.Router, d Deps) {
	v := d.Views

	r.Get("/", Welcome(v))
	r.Get("/welcome", Welcome(v))
	r.Get("/dashboard", Dashboard(v, d.Products, d.Vendors))

	r.Post("/add", AddProduct(v, d.Products))
	r.Get("/delete/{id}", DeleteProduct(v, d.Products))
	r.Post("/update/{id}", UpdateQuantity(v, d.Products))
	r.Get("/export", Export(v, d.Exporter))

	r.Get("/po", PurchaseOrderForm(v, d.Products, d.Vendors))
	r.Post("/create_po", CreatePurchaseOrder(v, d.Orders))
	r.Get("/po_history", PurchaseOrderHistory(v, d.Orders))
	r.Get("/receive_po/{id}", ReceivePurchaseOrder(v, d.Orders))

	r.Get("/vendors", Vendors(v, d.Vendors))
	r.Post("/add_vendor", AddVendor(v, d.Vendors))
	r.Get("/delete_vendor/{id}", DeleteVendor(v, d.Vendors))
}
