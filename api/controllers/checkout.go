package controllers

import (
	"net/http"

	"github.com/angelmondragon/brandcorner-backend/api/middleware"
	"github.com/angelmondragon/brandcorner-backend/api/responses"
	"github.com/angelmondragon/brandcorner-backend/api/validators"
	"github.com/angelmondragon/brandcorner-backend/internal/checkout"
	pkgerrors "github.com/angelmondragon/brandcorner-backend/pkg/errors"
	"github.com/angelmondragon/brandcorner-backend/pkg/logger"
)

// CheckoutPreview renders the checkout view for the selected payment method.
func CheckoutPreview(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		method, err := paymentMethodQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Preview(r.Context(), middleware.SessionIDFromContext(r.Context()), method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CheckoutSubmit places the order for the session cart.
func CheckoutSubmit(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkout.SubmitInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		result, err := svc.Submit(ctx, middleware.SessionIDFromContext(ctx), payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
