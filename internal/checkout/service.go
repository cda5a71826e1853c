package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/brandcorner-backend/internal/cart"
	"github.com/angelmondragon/brandcorner-backend/internal/pricing"
	"github.com/angelmondragon/brandcorner-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/brandcorner-backend/pkg/errors"
	"github.com/angelmondragon/brandcorner-backend/pkg/logger"
	"github.com/angelmondragon/brandcorner-backend/pkg/metrics"
)

type cartReader interface {
	List(ctx context.Context, sessionID string) ([]cart.Item, error)
}

// Service drives checkout sessions for guest carts.
type Service interface {
	Open(ctx context.Context, sessionID string) (*Session, error)
	Preview(ctx context.Context, sessionID string, method enums.PaymentMethod) (View, error)
	Submit(ctx context.Context, sessionID string, input SubmitInput) (*Result, error)
}

// SubmitInput is the checkout form submission.
type SubmitInput struct {
	Customer      CustomerDetails     `json:"customer"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	TransactionID string              `json:"transaction_id"`
}

// ServiceParams groups the checkout dependencies.
type ServiceParams struct {
	Cart          cartReader
	Orders        orderPlacer
	Guard         Guard
	Navigator     Navigator
	CatalogPath   string
	SubmitTimeout time.Duration
	Metrics       *metrics.CheckoutMetrics
	Logger        *logger.Logger
	Clock         func() time.Time
}

type service struct {
	cart        cartReader
	orders      orderPlacer
	guard       Guard
	nav         Navigator
	catalogPath string
	timeout     time.Duration
	metrics     *metrics.CheckoutMetrics
	logg        *logger.Logger
	now         func() time.Time
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Cart == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order placer required")
	}
	if params.Guard == nil {
		return nil, fmt.Errorf("checkout guard required")
	}
	if params.Navigator == nil {
		return nil, fmt.Errorf("navigator required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	s := &service{
		cart:        params.Cart,
		orders:      params.Orders,
		guard:       params.Guard,
		nav:         params.Navigator,
		catalogPath: params.CatalogPath,
		timeout:     params.SubmitTimeout,
		metrics:     params.Metrics,
		logg:        params.Logger,
		now:         params.Clock,
	}
	if s.catalogPath == "" {
		s.catalogPath = "/products"
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Open snapshots the session cart into an idle checkout on online payment.
func (s *service) Open(ctx context.Context, sessionID string) (*Session, error) {
	items, err := s.cart.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &Session{
		id:             sessionID,
		items:          items,
		method:         enums.PaymentMethodOnline,
		shippingCharge: pricing.ShippingCharge(enums.PaymentMethodOnline),
		state:          StateIdle,
		placer:         s.orders,
		nav:            s.nav,
		catalogPath:    s.catalogPath,
		timeout:        s.timeout,
		logg:           s.logg,
		now:            s.now,
	}, nil
}

func (s *service) Preview(ctx context.Context, sessionID string, method enums.PaymentMethod) (View, error) {
	session, err := s.Open(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	if method != "" {
		session.SelectPaymentMethod(method)
	}
	return session.View(), nil
}

// Submit runs one submission under the per-session guard. A concurrent submit
// for the same session is rejected with a conflict.
func (s *service) Submit(ctx context.Context, sessionID string, input SubmitInput) (*Result, error) {
	started := s.now()
	method := input.PaymentMethod
	if method == "" {
		method = enums.PaymentMethodOnline
	}
	if !method.IsValid() {
		s.metrics.ObserveSubmit(string(method), metrics.OutcomeValidation, s.now().Sub(started))
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	ctx = s.logg.WithSessionID(ctx, sessionID)

	token, ok, err := s.guard.Acquire(ctx, sessionID)
	if err != nil {
		s.metrics.ObserveSubmit(method.String(), metrics.OutcomeFailure, s.now().Sub(started))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire checkout guard")
	}
	if !ok {
		s.metrics.ObserveSubmit(method.String(), metrics.OutcomeConflict, s.now().Sub(started))
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "checkout already in progress")
	}
	defer func() {
		if err := s.guard.Release(context.WithoutCancel(ctx), sessionID, token); err != nil {
			s.logg.Error(ctx, "checkout.guard_release_failed", err)
		}
	}()

	session, err := s.Open(ctx, sessionID)
	if err != nil {
		s.metrics.ObserveSubmit(method.String(), metrics.OutcomeFailure, s.now().Sub(started))
		return nil, err
	}
	session.SelectPaymentMethod(method)
	session.SetCustomer(input.Customer)

	result, err := session.Submit(ctx, strings.TrimSpace(input.TransactionID))
	s.metrics.ObserveSubmit(method.String(), outcomeFor(err), s.now().Sub(started))
	return result, err
}

func outcomeFor(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case pkgerrors.IsCode(err, pkgerrors.CodeValidation):
		return metrics.OutcomeValidation
	case pkgerrors.IsCode(err, pkgerrors.CodeConflict):
		return metrics.OutcomeConflict
	default:
		return metrics.OutcomeFailure
	}
}
