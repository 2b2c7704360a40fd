package controllers

import (
	"net/http"

	"github.com/angelmondragon/stockkeeper/api/responses"
	"github.com/angelmondragon/stockkeeper/api/validators"
	"github.com/angelmondragon/stockkeeper/internal/purchaseorders"
	pkgerrors "github.com/angelmondragon/stockkeeper/pkg/errors"
	"github.com/angelmondragon/stockkeeper/pkg/logger"
)

func ListPurchaseOrders(svc purchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase orders service unavailable"))
			return
		}
		history, err := svc.History(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}

func CreatePurchaseOrder(svc purchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase orders service unavailable"))
			return
		}
		var req purchaseorders.CreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Create(r.Context(), req.Input())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// ReceivePurchaseOrder reports whether this call moved the order to Received.
// Unknown and already received orders answer 200 with received=false.
func ReceivePurchaseOrder(svc purchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase orders service unavailable"))
			return
		}
		id, err := validators.ParsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Receive(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
