package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/junkeats-app/events"
	"github.com/yeremiapane/junkeats-app/live"
	"github.com/yeremiapane/junkeats-app/metrics"
	"github.com/yeremiapane/junkeats-app/models"
	"github.com/yeremiapane/junkeats-app/utils"
	"gorm.io/gorm"
)

const defaultCustomerName = "Valued Customer"

var zipPattern = regexp.MustCompile(`^\d{5,6}$`)

// CheckoutRequest is the checkout form.
type CheckoutRequest struct {
	OrderType       string `json:"order_type" validate:"required,oneof=delivery dine-in"`
	PaymentMethod   string `json:"payment_method" validate:"required,oneof=card upi cod"`
	Name            string `json:"name" validate:"omitempty,min=2"`
	Address         string `json:"address" validate:"omitempty,min=5"`
	City            string `json:"city" validate:"omitempty,min=2"`
	Zip             string `json:"zip" validate:"omitempty,zipcode"`
	TableNumber     string `json:"table_number"`
	SpecialRequests string `json:"special_requests" validate:"max=500"`
}

// PlacedOrder is the result of a successful checkout.
type PlacedOrder struct {
	Order *models.Order `json:"order"`
	Quote Quote         `json:"quote"`
	Next  string        `json:"next"`
}

var fieldMessages = map[string]string{
	"order_type.required":               "Please select an order type.",
	"order_type.oneof":                  "Please select an order type.",
	"payment_method.required":           "You need to select a payment method.",
	"payment_method.oneof":              "You need to select a payment method.",
	"name.min":                          "Name must be at least 2 characters.",
	"name.required_for_delivery":        "Name is required for delivery.",
	"address.min":                       "Address must be at least 5 characters.",
	"address.required_for_delivery":     "Address is required for delivery.",
	"city.min":                          "City must be at least 2 characters.",
	"city.required_for_delivery":        "City is required for delivery.",
	"zip.zipcode":                       "Must be a valid zip code.",
	"zip.required_for_delivery":         "Zip code is required for delivery.",
	"table_number.required_for_dine_in": "Please select a table for your reservation.",
	"special_requests.max":              "Special requests must be at most 500 characters.",
}

func newCheckoutValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("zipcode", func(fl validator.FieldLevel) bool {
		return zipPattern.MatchString(fl.Field().String())
	})
	v.RegisterStructValidation(checkoutStructLevel, CheckoutRequest{})
	return v
}

func checkoutStructLevel(sl validator.StructLevel) {
	req := sl.Current().Interface().(CheckoutRequest)
	switch req.OrderType {
	case models.OrderTypeDelivery:
		required := []struct {
			value, field, name string
		}{
			{req.Name, "name", "Name"},
			{req.Address, "address", "Address"},
			{req.City, "city", "City"},
			{req.Zip, "zip", "Zip"},
		}
		for _, r := range required {
			if strings.TrimSpace(r.value) == "" {
				sl.ReportError(r.value, r.field, r.name, "required_for_delivery", "")
			}
		}
	case models.OrderTypeDineIn:
		if strings.TrimSpace(req.TableNumber) == "" {
			sl.ReportError(req.TableNumber, "table_number", "TableNumber", "required_for_dine_in", "")
		}
	}
}

// CheckoutService turns a session cart into a placed order.
type CheckoutService struct {
	DB        *gorm.DB
	Carts     *CartStore
	Sessions  *SessionStore
	Pricing   Pricing
	Publisher events.Publisher
	Metrics   *metrics.Metrics
	Hub       *live.Hub
	Now       func() time.Time

	validate *validator.Validate
}

func NewCheckoutService(db *gorm.DB, carts *CartStore, sessions *SessionStore, pricing Pricing) *CheckoutService {
	return &CheckoutService{
		DB:        db,
		Carts:     carts,
		Sessions:  sessions,
		Pricing:   pricing,
		Publisher: events.NopPublisher{},
		Now:       time.Now,
		validate:  newCheckoutValidator(),
	}
}

// Validate reports every invalid field at once.
func (s *CheckoutService) Validate(req CheckoutRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid.", fe.Field())
		}
		fields[fe.Field()] = msg
	}
	return &ValidationError{Fields: fields}
}

// Quote prices the current cart without placing anything.
func (s *CheckoutService) Quote(sessionID, orderType string) (Quote, error) {
	if orderType == "" {
		orderType = models.OrderTypeDelivery
	}
	if orderType != models.OrderTypeDelivery && orderType != models.OrderTypeDineIn {
		return Quote{}, &ValidationError{Fields: map[string]string{"order_type": fieldMessages["order_type.oneof"]}}
	}
	items := s.Carts.Items(sessionID)
	if len(items) == 0 {
		return Quote{}, ErrEmptyCart
	}
	return s.Pricing.Quote(items, orderType), nil
}

// PlaceOrder validates req, persists the order and clears the cart.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sessionID string, req CheckoutRequest) (*PlacedOrder, error) {
	if err := s.Validate(req); err != nil {
		return nil, err
	}

	items := s.Carts.Items(sessionID)
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	quote := s.Pricing.Quote(items, req.OrderType)

	order := buildOrder(sessionID, req, items, quote, s.Now())

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if order.IsDineIn() {
			res := tx.Model(&models.Table{}).
				Where("table_number = ? AND status = ?", order.TableNumber, models.TableAvailable).
				Update("status", models.TableReserved)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return &ValidationError{Fields: map[string]string{
					"table_number": fmt.Sprintf("Table %s is not available.", order.TableNumber),
				}}
			}
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return s.Sessions.WithTx(tx).Put(sessionID, models.EntryLatestOrder, LatestOrderRef{
			OrderID:   order.ID,
			OrderType: order.OrderType,
		})
	})
	if err != nil {
		return nil, err
	}

	s.Carts.Clear(sessionID, true)

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id":   order.ID,
		"order_type": order.OrderType,
		"total":      order.Total.StringFixed(2),
	}).Info("order placed")

	s.Metrics.OrderPlaced(order.OrderType, order.PaymentMethod)
	s.Hub.SendToSession(sessionID, live.Message{Event: live.EventOrderUpdate, Data: order})
	if order.IsDineIn() {
		s.Hub.Broadcast(live.Message{Event: live.EventTableUpdate, Data: map[string]string{
			"table_number": order.TableNumber,
			"status":       models.TableReserved,
		}})
	}
	publish(ctx, s.Publisher, events.OrderPlaced, order)

	next := "/order-confirmation?type=delivery"
	if order.IsDineIn() {
		next = "/reservation-confirmed"
	}
	return &PlacedOrder{Order: order, Quote: quote, Next: next}, nil
}

func buildOrder(sessionID string, req CheckoutRequest, items []models.CartItem, q Quote, now time.Time) *models.Order {
	order := &models.Order{
		ID:              uuid.NewString(),
		SessionID:       sessionID,
		Subtotal:        q.Subtotal,
		Shipping:        q.Shipping,
		Tax:             q.Tax,
		Total:           q.Total,
		AdvancePaid:     q.Advance,
		RemainingDue:    q.RemainingDue,
		CustomerName:    strings.TrimSpace(req.Name),
		OrderType:       req.OrderType,
		PaymentMethod:   req.PaymentMethod,
		SpecialRequests: strings.TrimSpace(req.SpecialRequests),
		PlacementTime:   now.UTC(),
		Status:          models.StatusOrderPlaced,
	}
	if order.CustomerName == "" {
		order.CustomerName = defaultCustomerName
	}
	if order.IsDelivery() {
		order.Address = fmt.Sprintf("%s, %s, %s", strings.TrimSpace(req.Address), strings.TrimSpace(req.City), req.Zip)
	} else {
		order.Address = "Dine-in"
		order.TableNumber = strings.TrimSpace(req.TableNumber)
	}

	order.Items = make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: it.ID,
			Name:      it.Name,
			Category:  it.Category,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Image:     it.Image,
		})
	}
	return order
}

func publish(ctx context.Context, p events.Publisher, eventType string, order *models.Order) {
	if p == nil {
		return
	}
	ev := events.Event{
		Type:       eventType,
		OrderID:    order.ID,
		SessionID:  order.SessionID,
		OrderType:  order.OrderType,
		Status:     order.Status,
		Total:      order.Total.StringFixed(2),
		OccurredAt: time.Now().UTC(),
	}
	if err := p.Publish(ctx, ev); err != nil {
		utils.ErrorLogger.Printf("Failed to publish %s for order %s: %v", eventType, order.ID, err)
	}
}
