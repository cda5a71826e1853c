package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/brandcorner-backend/internal/products"
	"github.com/angelmondragon/brandcorner-backend/pkg/db"
	"github.com/angelmondragon/brandcorner-backend/pkg/db/models"
	"github.com/angelmondragon/brandcorner-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/brandcorner-backend/pkg/errors"
	"github.com/angelmondragon/brandcorner-backend/pkg/events"
	"github.com/angelmondragon/brandcorner-backend/pkg/logger"
	"github.com/angelmondragon/brandcorner-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLookup interface {
	Lookup(ctx context.Context, ids []string) (map[string]products.Product, error)
}

type cartClearer interface {
	Clear(ctx context.Context, sessionID string) error
}

// Service places orders and serves the order read projections.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*Order, error)
	UpdateOrderPayment(ctx context.Context, id string, update PaymentUpdate) (*Order, error)
	GetOrderByID(ctx context.Context, id string) (*Order, error)
	GetOrdersByPhone(ctx context.Context, phone string) ([]Order, error)
}

// ServiceParams groups the service dependencies.
type ServiceParams struct {
	Repo      Repository
	Tx        txRunner
	Catalog   productLookup
	Cart      cartClearer
	Publisher events.Publisher
	Topic     string
	Metrics   *metrics.CheckoutMetrics
	Logger    *logger.Logger
	Clock     func() time.Time
	NewKey    KeyFunc
}

type service struct {
	repo      Repository
	tx        txRunner
	catalog   productLookup
	cart      cartClearer
	publisher events.Publisher
	topic     string
	metrics   *metrics.CheckoutMetrics
	logg      *logger.Logger
	now       func() time.Time
	newKey    KeyFunc
	validate  *validator.Validate
}

// NewService builds the order submission service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart clearer required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	s := &service{
		repo:      params.Repo,
		tx:        params.Tx,
		catalog:   params.Catalog,
		cart:      params.Cart,
		publisher: params.Publisher,
		topic:     params.Topic,
		metrics:   params.Metrics,
		logg:      params.Logger,
		now:       params.Clock,
		newKey:    params.NewKey,
		validate:  validator.New(),
	}
	if s.publisher == nil {
		s.publisher = events.Nop{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newKey == nil {
		s.newKey = NewLineKey
	}
	return s, nil
}

// CreateOrder persists the order and its lines in one transaction. After the
// commit the session cart is cleared and an order.placed event is published;
// neither affects the outcome.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*Order, error) {
	if err := s.validateCreate(input); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	status := input.Status
	if status == "" {
		status = enums.OrderStatusPending
	}
	shippingStatus := input.Shipping.Status
	if shippingStatus == "" {
		shippingStatus = enums.ShippingStatusPending
	}

	order := &models.Order{
		ID:             uuid.New(),
		CartSessionID:  optional(strings.TrimSpace(input.CartSessionID)),
		Name:           input.Customer.Name,
		Email:          input.Customer.Email,
		Phone:          input.Customer.Phone,
		Address:        input.Customer.Address.Street,
		District:       input.Customer.Address.District,
		State:          input.Customer.Address.State,
		Pincode:        input.Customer.Address.Pincode,
		PaymentMethod:  input.Payment.Method,
		PaymentStatus:  input.Payment.Status,
		PaymentAmount:  input.Payment.Amount,
		TransactionID:  optional(strings.TrimSpace(input.Payment.TransactionID)),
		ShippingCharge: input.Shipping.Charge,
		ShippingStatus: shippingStatus,
		Status:         status,
		Notes:          optional(input.Notes),
		OrderDate:      now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	order.ProductDetails = s.buildLines(order.ID, input.Products)

	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, order); err != nil {
			return err
		}
		return repo.CreateLines(ctx, order.ProductDetails)
	})
	if err != nil {
		s.logg.Error(s.logg.WithField(ctx, "error_dump", pkgerrors.Dump(err)), "orders.create_failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	s.logg.Info(ctx, "orders.created")
	s.metrics.AddRevenue(order.PaymentMethod.String(), order.PaymentAmount)

	// post-commit work outlives the caller's deadline
	post := context.WithoutCancel(ctx)
	if order.CartSessionID != nil {
		if err := s.cart.Clear(post, *order.CartSessionID); err != nil {
			s.logg.Error(post, "orders.cart_clear_failed", err)
		}
	}
	s.publishPlaced(post, order)

	out := FromModel(*order)
	return &out, nil
}

func (s *service) validateCreate(input CreateOrderInput) error {
	if err := s.validate.Struct(input); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order")
	}
	if !input.Payment.Method.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if !input.Payment.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}
	if input.Shipping.Status != "" && !input.Shipping.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid shipping status")
	}
	if input.Status != "" && !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	return nil
}

func (s *service) buildLines(orderID uuid.UUID, inputs []ProductLineInput) []models.OrderProductDetail {
	lines := make([]models.OrderProductDetail, 0, len(inputs))
	used := make(map[string]struct{}, len(inputs))
	for i, in := range inputs {
		key := s.newKey()
		for {
			if _, dup := used[key]; !dup {
				break
			}
			key = s.newKey()
		}
		used[key] = struct{}{}
		lines = append(lines, models.OrderProductDetail{
			OrderID:   orderID,
			Key:       key,
			Position:  i,
			ProductID: in.ProductID,
			Name:      in.Name,
			Brand:     optional(in.Brand),
			Quantity:  in.Quantity,
			Price:     in.Price,
			Image:     optional(in.Image),
			Size:      in.Size,
		})
	}
	return lines
}

func (s *service) publishPlaced(ctx context.Context, order *models.Order) {
	env, err := events.NewEnvelope(events.EventOrderPlaced, order.ID.String(), events.OrderPlaced{
		OrderID:        order.ID.String(),
		Phone:          order.Phone,
		Email:          order.Email,
		PaymentMethod:  order.PaymentMethod.String(),
		PaymentStatus:  order.PaymentStatus.String(),
		PaymentAmount:  order.PaymentAmount,
		ShippingCharge: order.ShippingCharge,
		ItemCount:      len(order.ProductDetails),
		OrderDate:      order.OrderDate,
	}, order.CreatedAt)
	if err == nil {
		err = s.publisher.Publish(ctx, s.topic, env)
	}
	s.metrics.IncEvent(err == nil)
	if err != nil {
		s.logg.Error(ctx, "orders.event_publish_failed", err)
	}
}

// UpdateOrderPayment applies the present fields of update. An update with no
// present fields returns the stored order unchanged.
func (s *service) UpdateOrderPayment(ctx context.Context, id string, update PaymentUpdate) (*Order, error) {
	orderID, err := parseOrderID(id)
	if err != nil {
		return nil, err
	}
	fields, err := patchFields(update)
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithOrderID(ctx, orderID.String())
	if err := s.repo.UpdateFields(ctx, orderID, fields); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		s.logg.Error(s.logg.WithField(ctx, "error_dump", pkgerrors.Dump(err)), "orders.update_failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
	}
	return s.GetOrderByID(ctx, orderID.String())
}

func patchFields(update PaymentUpdate) (map[string]any, error) {
	fields := map[string]any{}
	if update.PaymentID != nil && strings.TrimSpace(*update.PaymentID) != "" {
		fields["payment_id"] = strings.TrimSpace(*update.PaymentID)
	}
	if update.PaymentStatus != nil && *update.PaymentStatus != "" {
		if !update.PaymentStatus.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
		}
		fields["payment_status"] = *update.PaymentStatus
	}
	if update.PaymentDate != nil && !update.PaymentDate.IsZero() {
		fields["payment_date"] = update.PaymentDate.UTC()
	}
	if update.Status != nil && *update.Status != "" {
		if !update.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
		}
		fields["status"] = *update.Status
	}
	if update.TrackingID != nil && strings.TrimSpace(*update.TrackingID) != "" {
		fields["tracking_id"] = strings.TrimSpace(*update.TrackingID)
	}
	if update.Notes != nil && *update.Notes != "" {
		fields["notes"] = *update.Notes
	}
	return fields, nil
}

func (s *service) GetOrderByID(ctx context.Context, id string) (*Order, error) {
	orderID, err := parseOrderID(id)
	if err != nil {
		return nil, err
	}
	row, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	out, err := s.project(ctx, []models.Order{*row})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// GetOrdersByPhone lists a customer's orders, newest first.
func (s *service) GetOrdersByPhone(ctx context.Context, phone string) ([]Order, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone required")
	}
	rows, err := s.repo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return s.project(ctx, rows)
}

// project maps rows and joins every line to the live catalog entry.
func (s *service) project(ctx context.Context, rows []models.Order) ([]Order, error) {
	ids := make([]string, 0)
	for _, row := range rows {
		for _, line := range row.ProductDetails {
			ids = append(ids, line.ProductID)
		}
	}
	live, err := s.catalog.Lookup(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]Order, 0, len(rows))
	for _, row := range rows {
		order := FromModel(row)
		for i, line := range row.ProductDetails {
			ref := &ProductRef{ID: line.ProductID}
			if p, ok := live[line.ProductID]; ok {
				ref.Name = p.Name
				ref.Brand = p.Brand
				ref.Image = p.FirstImage()
				ref.Price = p.Price
			}
			order.ProductDetails[i].ProductID = ref
		}
		out = append(out, order)
	}
	return out, nil
}

func parseOrderID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return parsed, nil
}
