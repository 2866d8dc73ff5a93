package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/docelar/docelar/internal/server/handlers"
)

// Handlers bundles the HTTP adapters the router wires up.
type Handlers struct {
	Session *handlers.SessionHandler
	Catalog *handlers.CatalogHandler
	POS     *handlers.POSHandler
	Agenda  *handlers.AgendaHandler
	Finance *handlers.FinanceHandler
	Team    *handlers.TeamHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.POST("/login", h.Session.Login)
	r.POST("/logout", h.Session.Logout)
	r.GET("/sync/status", h.Session.Status)
	r.POST("/sync/retry", h.Session.Retry)

	r.GET("/products", h.Catalog.ListProducts)
	r.POST("/products", h.Catalog.CreateProduct)
	r.PUT("/products/:id", h.Catalog.UpdateProduct)
	r.DELETE("/products/:id", h.Catalog.DeleteProduct)
	r.GET("/products/:id/price-suggestion", h.Catalog.SuggestPrice)

	r.GET("/stock", h.Catalog.ListStock)
	r.GET("/stock/alerts", h.Catalog.StockAlerts)
	r.POST("/stock", h.Catalog.CreateStockItem)
	r.PUT("/stock/:id", h.Catalog.UpdateStockItem)
	r.DELETE("/stock/:id", h.Catalog.DeleteStockItem)

	r.POST("/sales", h.POS.Checkout)
	r.GET("/sales", h.POS.ListSales)
	r.POST("/productions", h.POS.Produce)
	r.GET("/productions", h.POS.ListProductions)

	r.GET("/orders", h.Agenda.ListOrders)
	r.POST("/orders", h.Agenda.CreateOrder)
	r.POST("/orders/:id/toggle", h.Agenda.ToggleOrder)
	r.DELETE("/orders/:id", h.Agenda.DeleteOrder)
	r.GET("/orders/upcoming", h.Agenda.UpcomingOrders)

	r.GET("/customers", h.Agenda.ListCustomers)
	r.POST("/customers", h.Agenda.CreateCustomer)
	r.PUT("/customers/:id", h.Agenda.UpdateCustomer)
	r.DELETE("/customers/:id", h.Agenda.DeleteCustomer)

	r.GET("/expenses", h.Finance.ListExpenses)
	r.POST("/expenses", h.Finance.CreateExpense)
	r.DELETE("/expenses/:id", h.Finance.DeleteExpense)
	r.GET("/reports/dashboard", h.Finance.Dashboard)
	r.GET("/reports/sellers", h.Finance.SellerPerformance)
	r.GET("/reports/vips", h.Finance.VIPCustomers)

	r.GET("/team", h.Team.List)
	r.POST("/team", h.Team.Add)
	r.PUT("/team/:id", h.Team.Update)
	r.DELETE("/team/:id", h.Team.Remove)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
