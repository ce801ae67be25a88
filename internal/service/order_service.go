package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"grocery-api/internal/models"
	"grocery-api/internal/notify"
	"grocery-api/internal/store"
	"grocery-api/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderStore is the order persistence surface used by OrderService.
// *store.Store satisfies it.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrderItemsByOrderID(ctx context.Context, orderID string) ([]models.OrderItem, error)
	UpdateOrderStatus(ctx context.Context, orderID, status string) error
	UpdatePaymentStatus(ctx context.Context, orderID, paymentStatus string) error
	GetProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error)
}

// Catalog resolves product references at placement time.
type Catalog interface {
	Resolve(ctx context.Context, id string) (*models.Product, error)
}

// Notifier accepts notification jobs. Enqueue must never block or fail.
type Notifier interface {
	Enqueue(job *notify.Job)
}

// Publisher emits order lifecycle events. Failures are logged, never
// propagated.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
	PublishPaymentStatusChanged(ctx context.Context, event *models.PaymentStatusChangedEvent) error
}

// OrderService handles order placement, transitions and retrieval.
type OrderService struct {
	store   OrderStore
	catalog Catalog
	queue   Notifier
	events  Publisher
	pricing Pricing
	logger  *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store OrderStore, catalog Catalog, queue Notifier, events Publisher, pricing Pricing) *OrderService {
	return &OrderService{
		store:   store,
		catalog: catalog,
		queue:   queue,
		events:  events,
		pricing: pricing,
		logger:  util.Named("orders"),
	}
}

// PlaceOrderRequest is a cart snapshot plus shipping address. Client-submitted
// prices are never part of it; pricing is recomputed from the live catalog.
type PlaceOrderRequest struct {
	Items   []OrderItemRequest `json:"items"`
	Address models.Address     `json:"address"`
}

// OrderItemRequest references a catalog product and a quantity.
type OrderItemRequest struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

// PlaceOrder validates the cart, recomputes the amount server-side, persists
// the order and hands a notification job to the queue. It returns the new
// order id without waiting for the email.
func (s *OrderService) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (string, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.PlaceOrder")
	defer span.End()

	if len(req.Items) == 0 {
		util.OrdersRejectedTotal.WithLabelValues("empty_cart").Inc()
		return "", ErrEmptyCart
	}
	if !req.Address.Complete() {
		util.OrdersRejectedTotal.WithLabelValues("missing_address").Inc()
		return "", ErrMissingAddress
	}

	products, err := s.resolveCart(ctx, req.Items)
	if err != nil {
		util.OrdersRejectedTotal.WithLabelValues("invalid_items").Inc()
		return "", err
	}

	var subtotal int64
	for _, item := range req.Items {
		subtotal += products[item.Product].OfferPrice * int64(item.Quantity)
	}

	charges, err := s.pricing.Quote(subtotal)
	if err != nil {
		util.OrdersRejectedTotal.WithLabelValues("below_minimum").Inc()
		return "", err
	}

	order := &models.Order{
		ID:            uuid.New().String(),
		Amount:        charges.Total,
		Address:       req.Address,
		Status:        models.OrderStatusPlaced,
		PaymentType:   models.PaymentTypeCOD,
		IsPaid:        false,
		PaymentStatus: models.PaymentStatusPending,
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.OrderItem{
			ProductID: item.Product,
			Quantity:  item.Quantity,
			UnitPrice: products[item.Product].OfferPrice,
		})
	}

	if err := s.store.CreateOrder(ctx, order, items); err != nil {
		return "", fmt.Errorf("failed to create order: %w", err)
	}

	util.OrdersPlacedTotal.Inc()
	s.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.Int64("amount", order.Amount))

	s.queue.Enqueue(s.buildNotification(order, req.Items, products, charges))

	event := &models.OrderPlacedEvent{
		BaseEvent:   newBaseEvent(models.EventTypeOrderPlaced),
		OrderID:     order.ID,
		Amount:      order.Amount,
		PaymentType: order.PaymentType,
		Items:       eventItems(items),
	}
	if err := s.events.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event", zap.Error(err))
	}

	return order.ID, nil
}

// resolveCart resolves every product reference through the catalog. Any miss
// or bad quantity fails the whole cart; no partial orders.
func (s *OrderService) resolveCart(ctx context.Context, items []OrderItemRequest) (map[string]*models.Product, error) {
	products := make(map[string]*models.Product, len(items))
	for _, item := range items {
		if item.Product == "" || item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if _, ok := products[item.Product]; ok {
			continue
		}
		product, err := s.catalog.Resolve(ctx, item.Product)
		if err != nil {
			return nil, err
		}
		products[item.Product] = product
	}
	return products, nil
}

func (s *OrderService) buildNotification(order *models.Order, items []OrderItemRequest, products map[string]*models.Product, charges Charges) *notify.Job {
	lines := make([]notify.LineItem, 0, len(items))
	for _, item := range items {
		product := products[item.Product]
		lines = append(lines, notify.LineItem{
			Name:      product.Name,
			Quantity:  item.Quantity,
			UnitPrice: product.OfferPrice,
			LineTotal: product.OfferPrice * int64(item.Quantity),
		})
	}

	return &notify.Job{
		OrderID:        order.ID,
		OrderDate:      notify.FormatOrderDate(order.CreatedAt),
		Address:        order.Address,
		Items:          lines,
		Subtotal:       charges.Subtotal,
		DeliveryCharge: charges.DeliveryCharge,
		Tax:            charges.Tax,
		Total:          charges.Total,
		Status:         order.Status,
	}
}

// UpdateOrderStatus overwrites an order's status. Any enumerated status is
// reachable from any other. Returns the updated order with resolved items.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateOrderStatus")
	defer span.End()

	if !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	if err := s.store.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return nil, mapNotFound(err)
	}

	util.OrderStatusUpdatesTotal.WithLabelValues(status).Inc()

	event := &models.OrderStatusChangedEvent{
		BaseEvent: newBaseEvent(models.EventTypeOrderStatusChanged),
		OrderID:   orderID,
		Status:    status,
	}
	if err := s.events.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
	}

	return s.GetOrder(ctx, orderID)
}

// UpdatePaymentStatus sets an order's payment status; isPaid is derived from
// it in the same update. Returns the updated order with resolved items.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID, paymentStatus string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdatePaymentStatus")
	defer span.End()

	if !models.ValidPaymentStatus(paymentStatus) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, paymentStatus)
	}

	if err := s.store.UpdatePaymentStatus(ctx, orderID, paymentStatus); err != nil {
		return nil, mapNotFound(err)
	}

	util.PaymentStatusUpdatesTotal.WithLabelValues(paymentStatus).Inc()

	event := &models.PaymentStatusChangedEvent{
		BaseEvent:     newBaseEvent(models.EventTypePaymentStatusChanged),
		OrderID:       orderID,
		PaymentStatus: paymentStatus,
		IsPaid:        paymentStatus == models.PaymentStatusVerified,
	}
	if err := s.events.PublishPaymentStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish PaymentStatusChanged event", zap.Error(err))
	}

	return s.GetOrder(ctx, orderID)
}

// GetOrder retrieves one order with items resolved to full product records.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if err := s.resolveOrderItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrders returns every order with resolved items in seller triage order.
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ListOrders")
	defer span.End()

	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		if err := s.resolveOrderItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (s *OrderService) resolveOrderItems(ctx context.Context, order *models.Order) error {
	items, err := s.store.GetOrderItemsByOrderID(ctx, order.ID)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.store.GetProductsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	order.Items = make([]models.ResolvedItem, 0, len(items))
	for _, item := range items {
		order.Items = append(order.Items, models.ResolvedItem{
			Product:   byID[item.ProductID],
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.UnitPrice * int64(item.Quantity),
		})
	}
	return nil
}

func mapNotFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrOrderNotFound, err)
	}
	return err
}

func eventItems(items []models.OrderItem) []models.OrderItemData {
	data := make([]models.OrderItemData, 0, len(items))
	for _, item := range items {
		data = append(data, models.OrderItemData{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return data
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
