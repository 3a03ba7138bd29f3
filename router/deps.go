package router

import (
	"github.com/tmc/langchaingo/llms"
	"github.com/yeremiapane/junkeats-app/config"
	"github.com/yeremiapane/junkeats-app/events"
	"github.com/yeremiapane/junkeats-app/live"
	"github.com/yeremiapane/junkeats-app/metrics"
	"github.com/yeremiapane/junkeats-app/services"
	"gorm.io/gorm"
)

// Deps is everything the HTTP layer talks to.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Metrics *metrics.Metrics
	Hub     *live.Hub

	Catalog       *services.Catalog
	Carts         *services.CartStore
	Sessions      *services.SessionStore
	Auth          *services.AuthService
	Checkout      *services.CheckoutService
	Orders        *services.OrderService
	Reservations  *services.ReservationService
	Suggester     *services.ComboSuggester
	Notifications *services.NotificationService
}

// Wire builds the services on top of db. model may be nil, which disables
// combo suggestions.
func Wire(cfg *config.Config, db *gorm.DB, model llms.Model, publisher events.Publisher, m *metrics.Metrics, hub *live.Hub) *Deps {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	d := &Deps{Config: cfg, DB: db, Metrics: m, Hub: hub}
	d.Notifications = services.NewNotificationService(db, hub)
	d.Catalog = services.NewCatalog(db)
	d.Sessions = services.NewSessionStore(db)
	d.Carts = services.NewCartStore(d.Notifications, m)
	d.Carts.Hub = hub
	d.Auth = services.NewAuthService(db, d.Sessions)

	d.Checkout = services.NewCheckoutService(db, d.Carts, d.Sessions, services.NewPricing(cfg.Pricing))
	d.Checkout.Publisher = publisher
	d.Checkout.Metrics = m
	d.Checkout.Hub = hub

	d.Orders = services.NewOrderService(db, d.Sessions, services.DeliveryTimeline{Total: cfg.Orders.DeliveryDuration})
	d.Orders.Publisher = publisher
	d.Orders.Metrics = m
	d.Orders.Hub = hub

	d.Reservations = services.NewReservationService(db, d.Orders, d.Sessions, cfg.Orders.ReservationDuration)
	d.Reservations.Notifier = d.Notifications
	d.Reservations.Publisher = publisher
	d.Reservations.Metrics = m
	d.Reservations.Hub = hub

	d.Suggester = services.NewComboSuggester(model, d.Catalog, cfg.AI.Timeout)
	d.Suggester.Metrics = m
	return d
}
