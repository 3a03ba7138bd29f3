package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/junkeats-app/controllers"
	"github.com/yeremiapane/junkeats-app/middlewares"
	"github.com/yeremiapane/junkeats-app/utils"
)

func SetupRouter(d *Deps) *gin.Engine {
	cfg := d.Config
	r := gin.New()
	r.Use(gin.Recovery())

	if len(cfg.Server.TrustedProxies) > 0 {
		if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
			utils.ErrorLogger.Printf("Ignoring trusted proxies: %v", err)
		}
	}

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.Server.AllowedOrigins))
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.Metrics(d.Metrics))
	if n := cfg.RateLimit.RequestsPerSecond; n > 0 {
		r.Use(middlewares.NewRateLimiter(n, 1).RateLimit())
	}

	userCtrl := controllers.NewUserController(d.Auth, d.Carts)
	menuCtrl := controllers.NewMenuController(d.Catalog)
	cartCtrl := controllers.NewCartController(d.Carts, d.Catalog)
	checkoutCtrl := controllers.NewCheckoutController(d.Checkout)
	orderCtrl := controllers.NewOrderController(d.Orders)
	receiptCtrl := controllers.NewReceiptController(d.Orders)
	reservationCtrl := controllers.NewReservationController(d.Reservations)
	suggestionCtrl := controllers.NewSuggestionController(d.Suggester)
	tableCtrl := controllers.NewTableController(d.DB)
	notificationCtrl := controllers.NewNotificationController(d.Notifications)
	liveCtrl := controllers.NewLiveController(d.Hub, d.Orders, cfg.Orders.TrackingInterval)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "time": time.Now().UTC()})
	})
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	public := r.Group("/")
	public.Use(middlewares.PerMinute(cfg.RateLimit.LoginPerMinute).Middleware())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	r.GET("/categories", menuCtrl.GetCategories)
	r.GET("/products", menuCtrl.GetAllProducts)
	r.GET("/products/bestsellers", menuCtrl.GetBestsellers)
	r.GET("/products/:id", menuCtrl.GetProductByID)
	r.GET("/tables", tableCtrl.GetAllTables)

	// ----------------------------------------------------------------
	//                      WEBSOCKETS
	// ----------------------------------------------------------------
	ws := r.Group("/ws")
	ws.Use(middlewares.WebSocketAuthMiddleware(d.Sessions))
	{
		ws.GET("", liveCtrl.Connect)
		ws.GET("/orders/:id/track", liveCtrl.TrackOrder)
	}

	// ----------------------------------------------------------------
	//                      SESSION ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.SessionAuth(d.Sessions))

	auth.POST("/logout", userCtrl.Logout)
	auth.GET("/profile", userCtrl.GetProfile)

	// CART
	auth.GET("/cart", cartCtrl.GetCart)
	auth.POST("/cart/items", cartCtrl.AddItem)
	auth.POST("/cart/items/bulk", cartCtrl.AddItems)
	auth.PATCH("/cart/items/:product_id", cartCtrl.UpdateQuantity)
	auth.DELETE("/cart/items/:product_id", cartCtrl.RemoveItem)
	auth.DELETE("/cart", cartCtrl.ClearCart)

	// CHECKOUT
	auth.GET("/checkout/quote", checkoutCtrl.GetQuote)
	auth.POST("/checkout", checkoutCtrl.PlaceOrder)

	// ORDERS
	auth.GET("/orders", orderCtrl.GetOrderHistory)
	auth.GET("/orders/latest", orderCtrl.GetLatestOrder)
	auth.GET("/orders/latest/track", orderCtrl.TrackLatestOrder)
	auth.GET("/orders/:id", orderCtrl.GetOrderByID)
	auth.GET("/orders/:id/track", orderCtrl.TrackOrder)
	auth.GET("/orders/:id/receipt", middlewares.ReceiptLoggerMiddleware(), receiptCtrl.DownloadReceipt)

	// RESERVATIONS
	auth.GET("/reservations/latest", reservationCtrl.GetLatestReservation)
	auth.POST("/reservations/:id/check-in", reservationCtrl.CheckIn)
	auth.POST("/reservations/:id/cancel", reservationCtrl.Cancel)

	// SUGGESTIONS
	suggest := auth.Group("/suggestions")
	suggest.Use(middlewares.PerMinute(cfg.RateLimit.SuggestPerMinute).Middleware())
	{
		suggest.POST("/combo", suggestionCtrl.SuggestCombo)
	}

	// NOTIFICATIONS
	auth.GET("/notifications", notificationCtrl.GetNotifications)
	auth.DELETE("/notifications", notificationCtrl.ClearNotifications)

	return r
}
