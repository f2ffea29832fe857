package api

import (
	"net/http"
	"strconv"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/service"
	"storefront-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/webhook"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	orders        *service.OrderService
	reconciler    *service.Reconciler
	carts         service.CartStore
	webhookSecret string
	logger        *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	orders *service.OrderService,
	reconciler *service.Reconciler,
	carts service.CartStore,
	webhookSecret string,
) *Handler {
	return &Handler{
		orders:        orders,
		reconciler:    reconciler,
		carts:         carts,
		webhookSecret: webhookSecret,
		logger:        util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine, userAuth, sellerAuth Authenticator) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/cart/update", AuthRequired(userAuth), h.updateCart)

		order := api.Group("/order")
		{
			order.POST("/cod", AuthRequired(userAuth), h.placeOrderCOD)
			order.POST("/gateway", AuthRequired(userAuth), h.placeOrderGateway)
			order.GET("/user", AuthRequired(userAuth), h.userOrders)
			order.GET("/seller", AuthRequired(sellerAuth), h.sellerOrders)
		}

		api.POST("/payment/webhook", h.paymentWebhook)
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

type updateCartRequest struct {
	CartItems map[string]int `json:"cartItems"`
}

// updateCart replaces the persisted cart wholesale with the client's
// snapshot. No merge: concurrent clients resolve to last write wins.
func (h *Handler) updateCart(c *gin.Context) {
	var req updateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	items := make(map[string]int, len(req.CartItems))
	for productID, quantity := range req.CartItems {
		if quantity > 0 {
			items[productID] = quantity
		}
	}

	if err := h.carts.ReplaceCart(c.Request.Context(), principal(c), items); err != nil {
		h.logger.Error("Failed to replace cart", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Failed to update cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type placeOrderRequest struct {
	Items   []service.OrderItemRequest `json:"items"`
	Address string                     `json:"address"`
}

// placeOrderCOD handles cash-on-delivery order placement
func (h *Handler) placeOrderCOD(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	_, err := h.orders.PlaceOrder(c.Request.Context(), &service.PlaceOrderRequest{
		UserID:      principal(c),
		AddressID:   req.Address,
		Items:       req.Items,
		PaymentMode: models.PaymentModeCOD,
	})
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order Placed Successfully"})
}

// placeOrderGateway creates the order and returns the hosted checkout URL
func (h *Handler) placeOrderGateway(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	resp, err := h.orders.PlaceOrder(c.Request.Context(), &service.PlaceOrderRequest{
		UserID:      principal(c),
		AddressID:   req.Address,
		Items:       req.Items,
		PaymentMode: models.PaymentModeGateway,
	})
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "url": resp.CheckoutURL})
}

// userOrders returns the buyer's order history
func (h *Handler) userOrders(c *gin.Context) {
	orders, err := h.orders.OrdersForUser(c.Request.Context(), principal(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

// sellerOrders returns the fulfillment queue
func (h *Handler) sellerOrders(c *gin.Context) {
	orders, err := h.orders.OrdersForSeller(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

// paymentWebhook verifies and reconciles gateway payment events. The
// signature is computed over the raw body, so the bytes go to the verifier
// unparsed.
func (h *Handler) paymentWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read body"})
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		util.WebhookSignatureFailuresTotal.Inc()
		h.logger.Warn("Webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	util.WebhookEventsTotal.WithLabelValues(string(event.Type)).Inc()

	kind, paymentRef := decodeEvent(event)
	if err := h.reconciler.HandleEvent(c.Request.Context(), kind, paymentRef); err != nil {
		// handlers are idempotent, so a 500 here just makes the gateway
		// redeliver until state is applied
		h.logger.Error("Webhook reconciliation failed",
			zap.String("type", string(event.Type)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reconciliation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// decodeEvent maps the gateway envelope onto the reconciler's event kinds.
// Unknown types fall through with an empty kind, which the reconciler acks
// without action.
func decodeEvent(event stripe.Event) (service.PaymentEventKind, string) {
	var kind service.PaymentEventKind
	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		kind = service.PaymentSucceeded
	case stripe.EventTypePaymentIntentPaymentFailed:
		kind = service.PaymentFailed
	}

	paymentRef, _ := event.Data.Object["id"].(string)
	return kind, paymentRef
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
