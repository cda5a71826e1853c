package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/brandcorner-backend/api/middleware"
	"github.com/angelmondragon/brandcorner-backend/internal/cart"
	"github.com/angelmondragon/brandcorner-backend/internal/orders"
	"github.com/angelmondragon/brandcorner-backend/pkg/config"
	"github.com/angelmondragon/brandcorner-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/brandcorner-backend/pkg/errors"
	"github.com/angelmondragon/brandcorner-backend/pkg/logger"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthReadyReportsFailingDependency(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}

	rec := httptest.NewRecorder()
	HealthReady(cfg, logger.Nop(), map[string]Pinger{"db": stubPinger{}, "redis": nil})(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dev", rec.Header().Get(envHeader))

	rec = httptest.NewRecorder()
	HealthReady(cfg, logger.Nop(), map[string]Pinger{"db": stubPinger{err: errors.New("down")}})(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

type stubCart struct {
	cart.Service
	items []cart.Item
	err   error
	seen  string
}

func (s *stubCart) List(_ context.Context, sessionID string) ([]cart.Item, error) {
	s.seen = sessionID
	return s.items, s.err
}

func (s *stubCart) Subscribe(context.Context, string) (<-chan struct{}, error) {
	return make(chan struct{}), s.err
}

func TestCartEventsEndsOnShutdown(t *testing.T) {
	shutdown := make(chan struct{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/events", nil)
	req = req.WithContext(middleware.WithSessionID(req.Context(), "sess-1"))
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		CartEvents(&stubCart{}, shutdown, logger.Nop())(rec, req)
	}()

	close(shutdown)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("event stream kept running after shutdown")
	}
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), ": connected")
}

func TestCartGetBuildsView(t *testing.T) {
	svc := &stubCart{items: []cart.Item{{ID: "case", Name: "Case", Price: 450, Quantity: 2}}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart?payment_method=cod", nil)
	req = req.WithContext(middleware.WithSessionID(req.Context(), "sess-1"))
	rec := httptest.NewRecorder()

	CartGet(svc, "/products", logger.Nop())(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sess-1", svc.seen)
	assert.Contains(t, rec.Body.String(), `"cart_quantity":2`)
	assert.Contains(t, rec.Body.String(), `"total":1000`)
}

func TestCartGetRejectsUnknownPaymentMethod(t *testing.T) {
	rec := httptest.NewRecorder()
	CartGet(&stubCart{}, "/products", nil)(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart?payment_method=upi", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewCartViewEmptyRedirects(t *testing.T) {
	view := newCartView(nil, enums.PaymentMethodOnline, "/products")
	assert.True(t, view.Empty)
	assert.Equal(t, "/products", view.Redirect)
	assert.NotNil(t, view.Items)
	assert.Equal(t, 0, view.CartQuantity)
}

type stubOrders struct {
	orders.Service
	err error
}

func (s stubOrders) GetOrdersByPhone(context.Context, string) ([]orders.Order, error) {
	return nil, s.err
}

func TestOrdersByPhone(t *testing.T) {
	rec := httptest.NewRecorder()
	OrdersByPhone(stubOrders{}, nil)(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders?phone=9876543210", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"orders":[]`)

	rec = httptest.NewRecorder()
	OrdersByPhone(stubOrders{err: pkgerrors.New(pkgerrors.CodeValidation, "phone required")}, nil)(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServicesUnavailable(t *testing.T) {
	rec := httptest.NewRecorder()
	CheckoutSubmit(nil, nil)(rec, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
