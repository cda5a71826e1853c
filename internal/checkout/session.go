package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/brandcorner-backend/internal/cart"
	"github.com/angelmondragon/brandcorner-backend/internal/orders"
	"github.com/angelmondragon/brandcorner-backend/internal/pricing"
	"github.com/angelmondragon/brandcorner-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/brandcorner-backend/pkg/errors"
	"github.com/angelmondragon/brandcorner-backend/pkg/logger"
)

const (
	MsgTransactionRequired = "Please enter your transaction ID"
	MsgSubmissionFailed    = "There was an error processing your order. Please try again."
)

// State is the checkout page state. A failed submission returns to StateIdle
// with the failure message set.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
)

type orderPlacer interface {
	CreateOrder(ctx context.Context, input orders.CreateOrderInput) (*orders.Order, error)
	UpdateOrderPayment(ctx context.Context, id string, update orders.PaymentUpdate) (*orders.Order, error)
}

// Navigator builds the redirect targets.
type Navigator interface {
	OrderURL(orderID string) string
}

// Session is one checkout attempt over a snapshot of the cart.
type Session struct {
	id             string
	items          []cart.Item
	customer       CustomerDetails
	method         enums.PaymentMethod
	shippingCharge int
	state          State
	failure        string
	order          *orders.Order
	redirect       string

	placer      orderPlacer
	nav         Navigator
	catalogPath string
	timeout     time.Duration
	logg        *logger.Logger
	now         func() time.Time
}

// View is the renderable checkout state.
type View struct {
	State         State               `json:"state"`
	Empty         bool                `json:"empty"`
	Message       string              `json:"message,omitempty"`
	Failed        bool                `json:"failed"`
	Redirect      string              `json:"redirect,omitempty"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	Customer      CustomerDetails     `json:"customer"`
	Items         []cart.Item         `json:"items"`
	Summary       pricing.Summary     `json:"summary"`
	OrderID       string              `json:"order_id,omitempty"`
}

// Result describes a placed order.
type Result struct {
	Order    *orders.Order `json:"order"`
	Redirect string        `json:"redirect"`
}

// Empty reports whether the cart snapshot has no lines.
func (s *Session) Empty() bool {
	return len(s.items) == 0
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// SelectPaymentMethod switches the payment method and resets the shipping
// charge to that method's preset. Unknown methods are ignored.
func (s *Session) SelectPaymentMethod(method enums.PaymentMethod) {
	if !method.IsValid() || s.state != StateIdle {
		return
	}
	s.method = method
	s.shippingCharge = pricing.ShippingCharge(method)
}

// SetCustomer replaces the contact details.
func (s *Session) SetCustomer(details CustomerDetails) {
	if s.state != StateIdle {
		return
	}
	s.customer = details
}

// View renders the session. An empty cart renders the empty state with the
// catalog as its only exit.
func (s *Session) View() View {
	view := View{
		State:         s.state,
		Empty:         s.Empty(),
		PaymentMethod: s.method,
		Customer:      s.customer,
		Items:         s.items,
		Summary:       s.summary(),
	}
	switch {
	case s.state == StateSucceeded:
		view.Redirect = s.redirect
		view.OrderID = s.order.ID.String()
	case view.Empty:
		view.Message = MsgEmptyCart
		view.Redirect = s.catalogPath
	case s.failure != "":
		view.Failed = true
		view.Message = s.failure
	}
	return view
}

func (s *Session) summary() pricing.Summary {
	summary := pricing.Summarize(s.items, s.method)
	summary.ShippingCharge = s.shippingCharge
	summary.Total = pricing.Total(summary.Subtotal, s.shippingCharge, s.method)
	return summary
}

// Submit places the order. Validation failures leave the session idle without
// touching the store. Any failure while placing the order returns the session
// to idle with MsgSubmissionFailed; the order is only considered placed when
// creation returned a record.
func (s *Session) Submit(ctx context.Context, transactionID string) (*Result, error) {
	switch s.state {
	case StateSubmitting:
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "checkout already in progress")
	case StateSucceeded:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order already placed")
	}
	if err := ValidateDetails(s.customer, s.items); err != nil {
		return nil, err
	}
	transactionID = strings.TrimSpace(transactionID)
	if s.method == enums.PaymentMethodOnline && transactionID == "" {
		return nil, formError(MsgTransactionRequired, "transaction_id")
	}

	s.state = StateSubmitting
	s.failure = ""

	submitCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		submitCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	order, err := s.placer.CreateOrder(submitCtx, s.orderInput(transactionID))
	if err == nil && order == nil {
		err = pkgerrors.New(pkgerrors.CodeInternal, "order store returned no order")
	}
	if err != nil {
		s.state = StateIdle
		s.failure = MsgSubmissionFailed
		s.logg.Error(s.logg.WithField(ctx, "error_dump", pkgerrors.Dump(err)), "checkout.submit_failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeSubmissionFailed, err, MsgSubmissionFailed)
	}

	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	if s.method == enums.PaymentMethodOnline {
		paidAt := s.now().UTC()
		patched, err := s.placer.UpdateOrderPayment(submitCtx, order.ID.String(), orders.PaymentUpdate{
			PaymentID:   &transactionID,
			PaymentDate: &paidAt,
		})
		if err != nil || patched == nil {
			s.logg.Error(ctx, "checkout.payment_patch_failed", err)
		} else {
			order = patched
		}
	}

	s.state = StateSucceeded
	s.order = order
	s.redirect = s.nav.OrderURL(order.ID.String())
	s.logg.Info(ctx, "checkout.order_placed")
	return &Result{Order: order, Redirect: s.redirect}, nil
}

func (s *Session) orderInput(transactionID string) orders.CreateOrderInput {
	lines := make([]orders.ProductLineInput, 0, len(s.items))
	for _, item := range s.items {
		lines = append(lines, orders.ProductLineInput{
			ProductID: item.ID,
			Name:      item.Name,
			Brand:     item.Brand,
			Quantity:  item.Qty(),
			Price:     item.UnitPrice(),
			Image:     item.FirstImage(),
			Size:      item.SelectedSize,
		})
	}
	subtotal := pricing.Subtotal(s.items)
	return orders.CreateOrderInput{
		Customer: orders.CustomerInput{
			Name:  strings.TrimSpace(s.customer.Name),
			Email: strings.TrimSpace(s.customer.Email),
			Phone: s.customer.Contact1,
			Address: orders.AddressInput{
				Street:   strings.TrimSpace(s.customer.Address),
				District: strings.TrimSpace(s.customer.District),
				State:    strings.TrimSpace(s.customer.State),
				Pincode:  s.customer.Pincode,
			},
		},
		Products: lines,
		Payment: orders.PaymentInput{
			Method:        s.method,
			Status:        enums.InitialPaymentStatus(s.method),
			Amount:        pricing.Total(subtotal, s.shippingCharge, s.method),
			TransactionID: transactionID,
		},
		Shipping: orders.ShippingInput{
			Charge: s.shippingCharge,
			Status: enums.ShippingStatusPending,
		},
		Status:        enums.OrderStatusProcessing,
		CartSessionID: s.id,
	}
}
