package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/brandcorner-backend/api/middleware"
	"github.com/angelmondragon/brandcorner-backend/api/responses"
	"github.com/angelmondragon/brandcorner-backend/api/validators"
	"github.com/angelmondragon/brandcorner-backend/internal/cart"
	"github.com/angelmondragon/brandcorner-backend/internal/pricing"
	"github.com/angelmondragon/brandcorner-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/brandcorner-backend/pkg/errors"
	"github.com/angelmondragon/brandcorner-backend/pkg/logger"
)

// CartView is the cart page payload.
type CartView struct {
	Items        []cart.Item     `json:"items"`
	CartQuantity int             `json:"cart_quantity"`
	Summary      pricing.Summary `json:"summary"`
	Empty        bool            `json:"empty"`
	Redirect     string          `json:"redirect,omitempty"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func newCartView(items []cart.Item, method enums.PaymentMethod, catalogPath string) CartView {
	if items == nil {
		items = []cart.Item{}
	}
	view := CartView{
		Items:        items,
		CartQuantity: pricing.Quantity(items),
		Summary:      pricing.Summarize(items, method),
		Empty:        len(items) == 0,
	}
	if view.Empty {
		view.Redirect = catalogPath
	}
	return view
}

// paymentMethodQuery reads the optional payment_method query parameter.
func paymentMethodQuery(r *http.Request) (enums.PaymentMethod, error) {
	return validators.ParseQueryPaymentMethod(r, "payment_method", enums.PaymentMethodOnline)
}

func CartGet(svc cart.Service, catalogPath string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		method, err := paymentMethodQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.List(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(items, method, catalogPath))
	}
}

func CartAddItem(svc cart.Service, catalogPath string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload cart.AddInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Add(r.Context(), middleware.SessionIDFromContext(r.Context()), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartView(items, enums.PaymentMethodOnline, catalogPath))
	}
}

// CartUpdateItem sets a line quantity. Quantities below one leave the cart as is.
func CartUpdateItem(svc cart.Service, catalogPath string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		items, err := svc.UpdateQuantity(r.Context(), middleware.SessionIDFromContext(r.Context()), productID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(items, enums.PaymentMethodOnline, catalogPath))
	}
}

func CartRemoveItem(svc cart.Service, catalogPath string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		items, err := svc.Remove(r.Context(), middleware.SessionIDFromContext(r.Context()), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(items, enums.PaymentMethodOnline, catalogPath))
	}
}

func CartClear(svc cart.Service, catalogPath string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		if err := svc.Clear(r.Context(), middleware.SessionIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(nil, enums.PaymentMethodOnline, catalogPath))
	}
}
