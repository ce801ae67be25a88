package api

import (
	"errors"
	"net/http"
	"time"

	"grocery-api/config"
	"grocery-api/internal/service"
	"grocery-api/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const sellerSessionTTL = 7 * 24 * time.Hour

// Handler contains HTTP handlers
type Handler struct {
	orders  *service.OrderService
	catalog *service.CatalogClient
	auth    config.AuthConfig
	env     string
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(orders *service.OrderService, catalog *service.CatalogClient, auth config.AuthConfig, env string) *Handler {
	return &Handler{
		orders:  orders,
		catalog: catalog,
		auth:    auth,
		env:     env,
		logger:  util.Named("api"),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	order := router.Group("/api/order")
	{
		order.POST("/cod", h.placeOrderCOD)
		order.GET("/:id", h.getOrder)
	}

	seller := router.Group("/api/seller")
	{
		seller.POST("/login", h.sellerLogin)
		seller.GET("/is-auth", h.isSellerAuth)

		authed := seller.Group("", SellerAuth(h.auth.JWTSecret))
		authed.GET("/orders", h.getAllOrders)
		authed.PATCH("/orders/:orderId/status", h.updateOrderStatus)
		authed.PATCH("/orders/:orderId/payment-status", h.updatePaymentStatus)
	}

	product := router.Group("/api/product")
	{
		product.GET("/list", h.productList)
		product.POST("/id", h.productByID)
		product.POST("/stock", SellerAuth(h.auth.JWTSecret), h.changeStock)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// placeOrderCOD handles cash-on-delivery checkout
func (h *Handler) placeOrderCOD(c *gin.Context) {
	var req service.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request body",
		})
		return
	}

	orderID, err := h.orders.PlaceOrder(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order Placed Successfully",
		"orderId": orderID,
	})
}

// getOrder handles get order by ID
func (h *Handler) getOrder(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   order,
	})
}

// getAllOrders lists every order for the seller panel
func (h *Handler) getAllOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"orders":  orders,
	})
}

// updateOrderStatus moves an order to a new status
func (h *Handler) updateOrderStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request body",
		})
		return
	}

	order, err := h.orders.UpdateOrderStatus(c.Request.Context(), c.Param("orderId"), req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   order,
	})
}

// updatePaymentStatus updates an order's payment state
func (h *Handler) updatePaymentStatus(c *gin.Context) {
	var req struct {
		PaymentStatus string `json:"paymentStatus"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request body",
		})
		return
	}

	order, err := h.orders.UpdatePaymentStatus(c.Request.Context(), c.Param("orderId"), req.PaymentStatus)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   order,
	})
}

// sellerLogin issues a seller session token
func (h *Handler) sellerLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request body",
		})
		return
	}

	if req.Email != h.auth.SellerEmail || req.Password != h.auth.SellerPassword {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Invalid credentials",
		})
		return
	}

	token, err := signSellerToken(req.Email, h.auth.JWTSecret, sellerSessionTTL)
	if err != nil {
		h.logger.Error("Failed to sign seller token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Internal server error",
		})
		return
	}

	secure := h.env == "production"
	if secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteStrictMode)
	}
	c.SetCookie(sellerCookie, token, int(sellerSessionTTL.Seconds()), "/", "", secure, true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged in successfully",
	})
}

// isSellerAuth verifies the seller session cookie
func (h *Handler) isSellerAuth(c *gin.Context) {
	token, err := c.Cookie(sellerCookie)
	if err != nil || token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false})
		return
	}

	if _, err := verifySellerToken(token, h.auth.JWTSecret); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Not authenticated",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// productList returns the whole catalog
func (h *Handler) productList(c *gin.Context) {
	products, err := h.catalog.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"products": products,
	})
}

// productByID returns one product
func (h *Handler) productByID(c *gin.Context) {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Missing id",
		})
		return
	}

	product, err := h.catalog.Resolve(c.Request.Context(), req.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"product": product,
	})
}

// changeStock flips a product's in-stock flag
func (h *Handler) changeStock(c *gin.Context) {
	var req struct {
		ID      string `json:"id"`
		InStock bool   `json:"inStock"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Missing id",
		})
		return
	}

	if err := h.catalog.SetStock(c.Request.Context(), req.ID, req.InStock); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Stock Updated",
	})
}

// respondError maps service errors onto the HTTP error taxonomy. Validation
// failures are client errors, unknown references are 404s, everything else is
// a server error.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrMissingAddress),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrBelowMinimum),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidPaymentStatus):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": err.Error(),
		})
	case errors.Is(err, service.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Order not found",
		})
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Product not found",
		})
	default:
		h.logger.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Internal server error",
		})
	}
}
