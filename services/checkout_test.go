package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/junkeats-app/events"
	"github.com/yeremiapane/junkeats-app/models"
)

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr.Fields
}

func TestCheckoutValidateDeliveryRequiresAddress(t *testing.T) {
	svc := NewCheckoutService(nil, nil, nil, DefaultPricing())

	fields := validationFields(t, svc.Validate(CheckoutRequest{
		OrderType:     models.OrderTypeDelivery,
		PaymentMethod: models.PaymentCOD,
	}))

	assert.Equal(t, map[string]string{
		"name":    "Name is required for delivery.",
		"address": "Address is required for delivery.",
		"city":    "City is required for delivery.",
		"zip":     "Zip code is required for delivery.",
	}, fields)
}

func TestCheckoutValidateFieldRules(t *testing.T) {
	svc := NewCheckoutService(nil, nil, nil, DefaultPricing())

	fields := validationFields(t, svc.Validate(CheckoutRequest{
		OrderType:     models.OrderTypeDelivery,
		PaymentMethod: "bitcoin",
		Name:          "A",
		Address:       "12",
		City:          "P",
		Zip:           "12ab",
	}))

	assert.Equal(t, "You need to select a payment method.", fields["payment_method"])
	assert.Equal(t, "Name must be at least 2 characters.", fields["name"])
	assert.Equal(t, "Address must be at least 5 characters.", fields["address"])
	assert.Equal(t, "City must be at least 2 characters.", fields["city"])
	assert.Equal(t, "Must be a valid zip code.", fields["zip"])
}

func TestCheckoutValidateDineIn(t *testing.T) {
	svc := NewCheckoutService(nil, nil, nil, DefaultPricing())

	fields := validationFields(t, svc.Validate(CheckoutRequest{
		OrderType:     models.OrderTypeDineIn,
		PaymentMethod: models.PaymentUPI,
	}))
	assert.Equal(t, map[string]string{"table_number": "Please select a table for your reservation."}, fields)

	assert.NoError(t, svc.Validate(dineInRequest("T1")))
	assert.NoError(t, svc.Validate(deliveryRequest()))

	fields = validationFields(t, svc.Validate(CheckoutRequest{PaymentMethod: models.PaymentCard}))
	assert.Equal(t, "Please select an order type.", fields["order_type"])
}

func TestPlaceDeliveryOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	burger := mustProduct(t, f.db, "Cheeseburger Deluxe")
	fries := mustProduct(t, f.db, "Crispy French Fries")
	f.carts.Add("s1", burger, 2)
	f.carts.Add("s1", fries, 1)

	placed, err := f.checkout.PlaceOrder(ctx, "s1", deliveryRequest())
	require.NoError(t, err)

	order := placed.Order
	assert.Equal(t, "/order-confirmation?type=delivery", placed.Next)
	assert.Equal(t, models.StatusOrderPlaced, order.Status)
	assert.Equal(t, "Asha Rao", order.CustomerName)
	assert.Equal(t, "12 MG Road, Pune, 411001", order.Address)
	assert.Equal(t, "23.97", order.Subtotal.StringFixed(2))
	assert.Equal(t, "5.00", order.Shipping.StringFixed(2))
	assert.Equal(t, "1.20", order.Tax.StringFixed(2))
	assert.Equal(t, "30.17", order.Total.StringFixed(2))
	assert.True(t, f.clock.Now().Equal(order.PlacementTime))

	// cart emptied without a "Cart cleared" toast
	assert.Equal(t, 0, f.carts.Count("s1"))
	assert.NotContains(t, f.toasts.Titles(), "Cart cleared")

	stored, err := f.orders.Get(ctx, "s1", order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, 2, stored.Items[0].Quantity)
	assert.Equal(t, "30.17", stored.Total.StringFixed(2))

	latest, err := f.orders.Latest(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, order.ID, latest.ID)

	assert.Equal(t, []string{events.OrderPlaced + ":" + models.StatusOrderPlaced}, f.events.Types())
}

func TestPlaceOrderDefaultsCustomerName(t *testing.T) {
	f := newFixture(t)
	order := f.place(t, "s1", dineInRequest("T1"))
	assert.Equal(t, "Valued Customer", order.CustomerName)
	assert.Equal(t, "Dine-in", order.Address)
}

func TestPlaceDineInReservesTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.carts.Add("s1", mustProduct(t, f.db, "Pepperoni Pizza"), 1)

	placed, err := f.checkout.PlaceOrder(ctx, "s1", dineInRequest("T1"))
	require.NoError(t, err)

	assert.Equal(t, "/reservation-confirmed", placed.Next)
	assert.True(t, placed.Order.Shipping.IsZero())
	assert.Equal(t, "100.00", placed.Order.AdvancePaid.StringFixed(2))
	assert.True(t, placed.Order.RemainingDue.IsZero())

	var table models.Table
	require.NoError(t, f.db.Where("table_number = ?", "T1").First(&table).Error)
	assert.Equal(t, models.TableReserved, table.Status)

	// the same table cannot be booked twice
	f.carts.Add("s2", mustProduct(t, f.db, "Cola"), 1)
	_, err = f.checkout.PlaceOrder(ctx, "s2", dineInRequest("T1"))
	fields := validationFields(t, err)
	assert.Contains(t, fields["table_number"], "not available")
	assert.Equal(t, 1, f.carts.Count("s2"), "failed checkout keeps the cart")

	var orders int64
	f.db.Model(&models.Order{}).Where("session_id = ?", "s2").Count(&orders)
	assert.Zero(t, orders)
}

func TestPlaceOrderWithEmptyCart(t *testing.T) {
	f := newFixture(t)
	_, err := f.checkout.PlaceOrder(context.Background(), "s1", deliveryRequest())
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = f.checkout.Quote("s1", "")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutQuote(t *testing.T) {
	f := newFixture(t)
	f.carts.Add("s1", mustProduct(t, f.db, "Cola"), 2)

	q, err := f.checkout.Quote("s1", "")
	require.NoError(t, err)
	assert.Equal(t, models.OrderTypeDelivery, q.OrderType)
	assert.Equal(t, "3.98", q.Subtotal.StringFixed(2))
	assert.Equal(t, "9.18", q.Total.StringFixed(2))

	_, err = f.checkout.Quote("s1", "takeaway")
	validationFields(t, err)
}
