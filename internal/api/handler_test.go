package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"grocery-api/config"
	"grocery-api/internal/models"
	"grocery-api/internal/notify"
	"grocery-api/internal/service"
	"grocery-api/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

// memoryStore backs the handler tests without a database. It satisfies both
// the order and product store surfaces of the service layer.
type memoryStore struct {
	products map[string]models.Product
	orders   map[string]*models.Order
	items    map[string][]models.OrderItem
}

func newMemoryStore() *memoryStore {
	m := &memoryStore{
		products: make(map[string]models.Product),
		orders:   make(map[string]*models.Order),
		items:    make(map[string][]models.OrderItem),
	}
	m.products["p-apples"] = models.Product{
		ID: "p-apples", Name: "Apples", Category: "Fruits",
		Price: 450, OfferPrice: 400, InStock: true,
	}
	m.products["p-milk"] = models.Product{
		ID: "p-milk", Name: "Milk 1L", Category: "Dairy",
		Price: 220, OfferPrice: 200, InStock: true,
	}
	return m
}

func (m *memoryStore) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, store.ErrNotFound)
	}
	return &p, nil
}

func (m *memoryStore) GetProducts(ctx context.Context) ([]models.Product, error) {
	products := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		products = append(products, p)
	}
	return products, nil
}

func (m *memoryStore) SetProductStock(ctx context.Context, id string, inStock bool) error {
	p, ok := m.products[id]
	if !ok {
		return fmt.Errorf("product %s: %w", id, store.ErrNotFound)
	}
	p.InStock = inStock
	m.products[id] = p
	return nil
}

func (m *memoryStore) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	saved := *order
	m.orders[order.ID] = &saved
	for i := range items {
		items[i].OrderID = order.ID
	}
	m.items[order.ID] = items
	return nil
}

func (m *memoryStore) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, store.ErrNotFound)
	}
	copied := *order
	return &copied, nil
}

func (m *memoryStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders := make([]models.Order, 0, len(m.orders))
	for _, o := range m.orders {
		orders = append(orders, *o)
	}
	return orders, nil
}

func (m *memoryStore) GetOrderItemsByOrderID(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	return m.items[orderID], nil
}

func (m *memoryStore) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	order, ok := m.orders[orderID]
	if !ok {
		return fmt.Errorf("order %s: %w", orderID, store.ErrNotFound)
	}
	order.Status = status
	return nil
}

func (m *memoryStore) UpdatePaymentStatus(ctx context.Context, orderID, paymentStatus string) error {
	order, ok := m.orders[orderID]
	if !ok {
		return fmt.Errorf("order %s: %w", orderID, store.ErrNotFound)
	}
	order.PaymentStatus = paymentStatus
	order.IsPaid = paymentStatus == models.PaymentStatusVerified
	return nil
}

func (m *memoryStore) GetProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

type noopNotifier struct{}

func (noopNotifier) Enqueue(job *notify.Job) {}

type noopPublisher struct{}

func (noopPublisher) PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	return nil
}

func (noopPublisher) PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	return nil
}

func (noopPublisher) PublishPaymentStatusChanged(ctx context.Context, event *models.PaymentStatusChangedEvent) error {
	return nil
}

func setupTestRouter(t *testing.T) (*gin.Engine, *memoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := newMemoryStore()
	catalog := service.NewCatalogClient(st, nil)
	orders := service.NewOrderService(st, catalog, noopNotifier{}, noopPublisher{}, service.Pricing{
		MinOrderAmount:        700,
		FreeDeliveryThreshold: 1000,
		DeliveryFee:           50,
	})

	handler := NewHandler(orders, catalog, config.AuthConfig{
		JWTSecret:      testJWTSecret,
		SellerEmail:    "seller@example.com",
		SellerPassword: "hunter2",
	}, "test")

	router := gin.New()
	handler.SetupRoutes(router)
	return router, st
}

func doJSON(router *gin.Engine, method, path string, body interface{}, opts ...func(*http.Request)) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(req)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func withSellerToken(t *testing.T) func(*http.Request) {
	t.Helper()
	token, err := signSellerToken("seller@example.com", testJWTSecret, time.Hour)
	require.NoError(t, err)
	return func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: sellerCookie, Value: token})
	}
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func validOrderPayload() map[string]interface{} {
	return map[string]interface{}{
		"items": []map[string]interface{}{
			{"product": "p-apples", "quantity": 2},
		},
		"address": map[string]string{
			"firstName":     "Ayesha",
			"lastName":      "Khan",
			"phone":         "03001234567",
			"street":        "12 Canal Road",
			"town":          "Gulberg",
			"paymentMethod": "COD",
		},
	}
}

func placeOrder(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/order/cod", validOrderPayload())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := parseBody(t, w)
	orderID, _ := body["orderId"].(string)
	require.NotEmpty(t, orderID)
	return orderID
}

func TestPlaceOrderEndpoint(t *testing.T) {
	router, st := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/order/cod", validOrderPayload())
	require.Equal(t, http.StatusOK, w.Code)

	body := parseBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Order Placed Successfully", body["message"])

	orderID := body["orderId"].(string)
	saved := st.orders[orderID]
	require.NotNil(t, saved)
	assert.Equal(t, int64(850), saved.Amount)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	router, _ := setupTestRouter(t)

	payload := validOrderPayload()
	payload["items"] = []map[string]interface{}{}

	w := doJSON(router, http.MethodPost, "/api/order/cod", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := parseBody(t, w)
	assert.Equal(t, false, body["success"])
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	router, _ := setupTestRouter(t)

	payload := validOrderPayload()
	payload["items"] = []map[string]interface{}{
		{"product": "p-ghost", "quantity": 1},
	}

	w := doJSON(router, http.MethodPost, "/api/order/cod", payload)
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := parseBody(t, w)
	assert.Equal(t, "Product not found", body["message"])
}

func TestPlaceOrderBelowMinimum(t *testing.T) {
	router, _ := setupTestRouter(t)

	payload := validOrderPayload()
	payload["items"] = []map[string]interface{}{
		{"product": "p-milk", "quantity": 1},
	}

	w := doJSON(router, http.MethodPost, "/api/order/cod", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOrderEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)
	orderID := placeOrder(t, router)

	w := doJSON(router, http.MethodGet, "/api/order/"+orderID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := parseBody(t, w)
	order := body["order"].(map[string]interface{})
	assert.Equal(t, orderID, order["id"])
	assert.Equal(t, models.OrderStatusPlaced, order["status"])

	items := order["items"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	product := item["product"].(map[string]interface{})
	assert.Equal(t, "Apples", product["name"])
}

func TestGetOrderNotFound(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/order/no-such-order", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := parseBody(t, w)
	assert.Equal(t, "Order not found", body["message"])
}

func TestSellerOrdersRequiresAuth(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/seller/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := parseBody(t, w)
	assert.Equal(t, "No authentication token provided", body["message"])
}

func TestSellerOrdersRejectsExpiredToken(t *testing.T) {
	router, _ := setupTestRouter(t)

	token, err := signSellerToken("seller@example.com", testJWTSecret, -time.Hour)
	require.NoError(t, err)

	w := doJSON(router, http.MethodGet, "/api/seller/orders", nil, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := parseBody(t, w)
	assert.Equal(t, "Session expired. Please login again.", body["message"])
}

func TestSellerOrdersWithBearerToken(t *testing.T) {
	router, _ := setupTestRouter(t)
	placeOrder(t, router)

	token, err := signSellerToken("seller@example.com", testJWTSecret, time.Hour)
	require.NoError(t, err)

	w := doJSON(router, http.MethodGet, "/api/seller/orders", nil, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := parseBody(t, w)
	orders := body["orders"].([]interface{})
	assert.Len(t, orders, 1)
}

func TestSellerLogin(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/seller/login", map[string]string{
		"email":    "seller@example.com",
		"password": "hunter2",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := parseBody(t, w)
	assert.Equal(t, "Logged in successfully", body["message"])

	var sessionCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == sellerCookie {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)
	assert.NotEmpty(t, sessionCookie.Value)
	assert.True(t, sessionCookie.HttpOnly)
}

func TestSellerLoginBadCredentials(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/seller/login", map[string]string{
		"email":    "seller@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := parseBody(t, w)
	assert.Equal(t, "Invalid credentials", body["message"])
}

func TestUpdateOrderStatusEndpoint(t *testing.T) {
	router, st := setupTestRouter(t)
	orderID := placeOrder(t, router)

	w := doJSON(router, http.MethodPatch, "/api/seller/orders/"+orderID+"/status",
		map[string]string{"status": models.OrderStatusShipped}, withSellerToken(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := parseBody(t, w)
	order := body["order"].(map[string]interface{})
	assert.Equal(t, models.OrderStatusShipped, order["status"])
	assert.Equal(t, models.OrderStatusShipped, st.orders[orderID].Status)
}

func TestUpdateOrderStatusInvalidValue(t *testing.T) {
	router, _ := setupTestRouter(t)
	orderID := placeOrder(t, router)

	w := doJSON(router, http.MethodPatch, "/api/seller/orders/"+orderID+"/status",
		map[string]string{"status": "Dispatched"}, withSellerToken(t))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdatePaymentStatusEndpoint(t *testing.T) {
	router, st := setupTestRouter(t)
	orderID := placeOrder(t, router)

	w := doJSON(router, http.MethodPatch, "/api/seller/orders/"+orderID+"/payment-status",
		map[string]string{"paymentStatus": models.PaymentStatusVerified}, withSellerToken(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := parseBody(t, w)
	order := body["order"].(map[string]interface{})
	assert.Equal(t, true, order["isPaid"])
	assert.True(t, st.orders[orderID].IsPaid)
}

func TestProductListEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/product/list", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := parseBody(t, w)
	products := body["products"].([]interface{})
	assert.Len(t, products, 2)
}

func TestChangeStockEndpoint(t *testing.T) {
	router, st := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/product/stock",
		map[string]interface{}{"id": "p-apples", "inStock": false}, withSellerToken(t))
	require.Equal(t, http.StatusOK, w.Code)

	body := parseBody(t, w)
	assert.Equal(t, "Stock Updated", body["message"])
	assert.False(t, st.products["p-apples"].InStock)
}

func TestChangeStockRequiresAuth(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/product/stock",
		map[string]interface{}{"id": "p-apples", "inStock": false})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
