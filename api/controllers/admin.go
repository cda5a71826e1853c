package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/brandcorner-backend/api/responses"
	"github.com/angelmondragon/brandcorner-backend/api/validators"
	"github.com/angelmondragon/brandcorner-backend/internal/orders"
	"github.com/angelmondragon/brandcorner-backend/internal/products"
	pkgerrors "github.com/angelmondragon/brandcorner-backend/pkg/errors"
	"github.com/angelmondragon/brandcorner-backend/pkg/logger"
)

// AdminUpsertProduct creates or replaces the catalog entry at productId.
func AdminUpsertProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload products.UpsertInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Upsert(r.Context(), strings.TrimSpace(chi.URLParam(r, "productId")), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AdminPatchOrder applies payment, status, tracking or notes updates.
func AdminPatchOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload orders.PaymentUpdate
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID := strings.TrimSpace(chi.URLParam(r, "orderId"))
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderID(ctx, orderID)
		}
		order, err := svc.UpdateOrderPayment(ctx, orderID, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
