package web

import (
	"net/http"

	"github.com/angelmondragon/stockkeeper/api/validators"
	"github.com/angelmondragon/stockkeeper/internal/export"
	"github.com/angelmondragon/stockkeeper/internal/products"
	"github.com/angelmondragon/stockkeeper/internal/purchaseorders"
	"github.com/angelmondragon/stockkeeper/internal/vendors"
	pkgerrors "github.com/angelmondragon/stockkeeper/pkg/errors"
)

type welcomePage struct {
	Title string
}

type dashboardPage struct {
	Title    string
	Products *products.ListResult
	Vendors  []vendors.VendorDTO
}

type purchaseOrderFormPage struct {
	Title    string
	Products []products.Option
	Vendors  []vendors.Option
}

type historyPage struct {
	Title  string
	Orders []purchaseorders.HistoryEntry
}

type vendorsPage struct {
	Title   string
	Vendors []vendors.VendorDTO
}

// Welcome renders the landing page.
func Welcome(v *Views) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v.Render(w, r, http.StatusOK, "welcome", welcomePage{Title: "Inventory Manager"})
	}
}

// Dashboard lists products with their total value, and vendors.
func Dashboard(v *Views, productSvc products.Service, vendorSvc vendors.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := productSvc.List(r.Context())
		if err != nil {
			v.RenderError(w, r, err)
			return
		}
		vendorList, err := vendorSvc.List(r.Context())
		if err != nil {
			v.RenderError(w, r, err)
			return
		}
		v.Render(w, r, http.StatusOK, "dashboard", dashboardPage{
			Title:    "Dashboard",
			Products: list,
			Vendors:  vendorList,
		})
	}
}

// AddProduct handles the dashboard's add form.
func AddProduct(v *Views, svc products.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quantity, err := validators.FormInt(r, "quantity")
		if err != nil {
			v.RenderError(w, r, err)
			return
		}
		price, err := validators.FormDecimal(r, "rate")
		if err != nil {
			v.RenderError(w, r, err)
			return
		}
		input := products.CreateInput{
			Name:     validators.FormString(r, "product_name"),
			Quantity: quantity,
			Price:    price,
		}
		if err := validators.ValidateStruct(input); err != nil {
			v.RenderError(w, r, err)
			return
		}
		if _, err := svc.Create(r.Context(), input); err != nil {
			v.RenderError(w, r, err)
			return
		}
		redirect(w, r, "/dashboard")
	}
}

// DeleteProduct removes a product and returns to the dashboard.
func DeleteProduct(v *Views, svc products.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			v.RenderError(w, r, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			v.RenderError(w, r, err)
			return
		}
		redirect(w, r, "/dashboard")
	}
}

// UpdateQuantity sets a product's quantity from the dashboard row form.
func UpdateQuantity(v *Views, svc products.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			v.RenderError(w, r, err)
			return
		}
		quantity, err := validators.FormInt(r, "quantity")
		if err != nil {
			v.RenderError(w, r, err)
			return
		}
		if err := svc.UpdateQuantity(r.Context(), id, quantity); err != nil {
			v.RenderError(w, r, err)
			return
		}
		redirect(w, r, "/dashboard")
	}
}

// Export rewrites the export file and sends it as a download.
func Export(v *Views, exporter *export.Exporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if exporter == nil {
			v.RenderError(w, r, pkgerrors.New(pkgerrors.CodeDependency, "export unavailable"))
			return
		}
		path, err := exporter.WriteFile(r.Context())
		if err != nil {
			v.RenderError(w, r, err)
			return
		}
		w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName+`"`)
		http.ServeFile(w, r, path)
	}
}

// PurchaseOrderForm lists products and vendors by name for the order form.
func PurchaseOrderForm(v *Views, productSvc products.Service, vendorSvc vendors.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productOptions, err := productSvc.ListByName(r.Context())
		if err != nil {
			v.RenderError(w, r, err)
			return
		}
		vendorOptions, err := vendorSvc.ListByName(r.Context())
		if err != nil {
			v.RenderError(w, r, err)
			return
		}
		v.Render(w, r, http.StatusOK, "po", purchaseOrderFormPage{
			Title:    "New purchase order",
			Products: productOptions,
			Vendors:  vendorOptions,
		})
	}
}

// CreatePurchaseOrder handles the order form post.
func CreatePurchaseOrder(v *Views, svc purchaseorders.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.FormInt64(r, "product_id")
		if err != nil {
			v.RenderError(w, r, err)
			return
		}
		vendorID, err := validators.FormInt64(r, "vendor_id")
		if err != nil {
			v.RenderError(w, r, err)
			return
		}
		quantity, err := validators.FormInt(r, "quantity")
		if err != nil {
			v.RenderError(w, r, err)
			return
		}
		input := purchaseorders.CreateInput{ProductID: productID, VendorID: vendorID, Quantity: quantity}
		if err := validators.ValidateStruct(input); err != nil {
			v.RenderError(w, r, err)
			return
		}
		if _, err := svc.Create(r.Context(), input); err != nil {
			v.RenderError(w, r, err)
			return
		}
		redirect(w, r, "/po_history")
	}
}

// PurchaseOrderHistory renders every order, newest first.
func PurchaseOrderHistory(v *Views, svc purchaseorders.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := svc.History(r.Context())
		if err != nil {
			v.RenderError(w, r, err)
			return
		}
		v.Render(w, r, http.StatusOK, "po_history", historyPage{Title: "Purchase orders", Orders: orders})
	}
}

// ReceivePurchaseOrder receives the order; repeats are harmless.
func ReceivePurchaseOrder(v *Views, svc purchaseorders.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			v.RenderError(w, r, err)
			return
		}
		if _, err := svc.Receive(r.Context(), id); err != nil {
			v.RenderError(w, r, err)
			return
		}
		redirect(w, r, "/po_history")
	}
}

// Vendors renders the vendor directory.
func Vendors(v *Views, svc vendors.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			v.RenderError(w, r, err)
			return
		}
		v.Render(w, r, http.StatusOK, "vendors", vendorsPage{Title: "Vendors", Vendors: list})
	}
}

// AddVendor handles the vendor form post.
func AddVendor(v *Views, svc vendors.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			v.RenderError(w, r, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form body"))
			return
		}
		input := vendors.CreateInput{
			Name:    validators.FormString(r, "vendor_name"),
			Contact: validators.FormString(r, "contact"),
		}
		if err := validators.ValidateStruct(input); err != nil {
			v.RenderError(w, r, err)
			return
		}
		if _, err := svc.Create(r.Context(), input); err != nil {
			v.RenderError(w, r, err)
			return
		}
		redirect(w, r, "/vendors")
	}
}

// DeleteVendor removes a vendor and returns to the directory.
func DeleteVendor(v *Views, svc vendors.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "id")
		if err != nil {
			v.RenderError(w, r, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			v.RenderError(w, r, err)
			return
		}
		redirect(w, r, "/vendors")
	}
}
