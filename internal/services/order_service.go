// internal/services/order_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/shop-backend/internal/metrics"
	"github.com/javajoker/shop-backend/internal/models"
	"github.com/javajoker/shop-backend/internal/utils"
)

const maxOrderNumberAttempts = 3

type OrderService struct {
	db             *gorm.DB
	notifications  *NotificationService
	newOrderNumber OrderNumberGenerator
	now            func() time.Time
}

type OrderItemRequest struct {
	ProductID uint `json:"product_id" validate:"required,min=1"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
}

type ShippingInfo struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Address string `json:"address" validate:"required,max=500"`
	City    string `json:"city" validate:"required,max=100"`
	Zip     string `json:"zip" validate:"required,max=20"`
	Country string `json:"country" validate:"required,max=100"`
}

type CreateOrderRequest struct {
	Items        []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingInfo ShippingInfo       `json:"shipping_info"`
	ShippingCost *decimal.Decimal   `json:"shipping_cost,omitempty" validate:"omitempty,gte=0"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required,oneof=PENDING PROCESSING SHIPPED DELIVERED CANCELLED"`
}

// OrderFilter narrows ListOrders. A zero Limit returns every matching order.
type OrderFilter struct {
	UserID *uint
	Status *models.OrderStatus
	Page   int
	Limit  int
}

type OrderStats struct {
	TotalOrders      int64           `json:"total_orders"`
	PendingOrders    int64           `json:"pending_orders"`
	ProcessingOrders int64           `json:"processing_orders"`
	ShippedOrders    int64           `json:"shipped_orders"`
	DeliveredOrders  int64           `json:"delivered_orders"`
	CancelledOrders  int64           `json:"cancelled_orders"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
}

func NewOrderService(db *gorm.DB, notifications *NotificationService) *OrderService {
	return &OrderService{
		db:             db,
		notifications:  notifications,
		newOrderNumber: GenerateOrderNumber,
		now:            time.Now,
	}
}

// WithOrderNumberGenerator swaps the order number source.
func (s *OrderService) WithOrderNumberGenerator(gen OrderNumberGenerator) *OrderService {
	s.newOrderNumber = gen
	return s
}

func (r *CreateOrderRequest) normalize() {
	info := &r.ShippingInfo
	info.Name = strings.TrimSpace(info.Name)
	info.Email = strings.TrimSpace(info.Email)
	info.Address = strings.TrimSpace(info.Address)
	info.City = strings.TrimSpace(info.City)
	info.Zip = strings.TrimSpace(info.Zip)
	info.Country = strings.TrimSpace(info.Country)
}

// CreateOrder prices the cart from current catalog prices and persists the order
// and its items in one transaction. Any missing or unavailable product aborts the
// whole order before anything is written.
func (s *OrderService) CreateOrder(ctx context.Context, userID uint, req *CreateOrderRequest) (*models.Order, error) {
	req.normalize()
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.InvalidInput(err)
	}

	var userCount int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&userCount).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if userCount == 0 {
		return nil, utils.NotFound("User %d not found", userID)
	}

	shipping := decimal.Zero
	if req.ShippingCost != nil {
		shipping = req.ShippingCost.Round(2)
	}

	var order *models.Order
	var err error
	for attempt := 1; attempt <= maxOrderNumberAttempts; attempt++ {
		order, err = s.createOrderTx(ctx, userID, req, shipping)
		if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
		logrus.WithField("attempt", attempt).Warn("Order number collision, regenerating")
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.Conflict("could not allocate a unique order number")
		}
		return nil, err
	}

	metrics.RecordOrderCreated(order.Total)
	logrus.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      userID,
		"items":        len(order.Items),
		"total":        order.Total.StringFixed(2),
	}).Info("Order created")

	created, err := s.GetOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	if s.notifications != nil {
		if err := s.notifications.SendOrderConfirmation(created); err != nil {
			logrus.WithError(err).WithField("order_id", created.ID).Warn("Failed to send order confirmation")
		}
	}

	return created, nil
}

func (s *OrderService) createOrderTx(ctx context.Context, userID uint, req *CreateOrderRequest, shipping decimal.Decimal) (*models.Order, error) {
	orderNumber, err := s.newOrderNumber(s.now())
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderNumber:     orderNumber,
		UserID:          userID,
		ShippingName:    req.ShippingInfo.Name,
		ShippingEmail:   req.ShippingInfo.Email,
		ShippingAddress: req.ShippingInfo.Address,
		ShippingCity:    req.ShippingInfo.City,
		ShippingZip:     req.ShippingInfo.Zip,
		ShippingCountry: req.ShippingInfo.Country,
		Shipping:        shipping,
		Status:          models.OrderStatusPending,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subtotal := decimal.Zero
		items := make([]models.OrderItem, 0, len(req.Items))

		for _, line := range req.Items {
			var product models.Product
			if err := tx.First(&product, line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return utils.NotFound("Product %d not found", line.ProductID)
				}
				return fmt.Errorf("database error: %w", err)
			}

			if !product.InStock {
				return utils.InvalidState("Product %s not available", product.Name)
			}

			item := models.OrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				Price:     product.Price,
			}
			subtotal = subtotal.Add(item.LineTotal())
			items = append(items, item)
		}

		order.Subtotal = subtotal
		order.Total = subtotal.Add(shipping)
		order.Items = items

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (s *OrderService) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		Preload("Items.Product").
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select(models.UserPublicFields) })
}

func (s *OrderService) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, 0, utils.InvalidState("invalid order status %q", *filter.Status)
	}

	query := s.db.WithContext(ctx).Model(&models.Order{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query = s.withDetails(query).Order("orders.created_at DESC, orders.id DESC")
	if filter.Limit > 0 {
		params := utils.NormalizePagination(utils.PaginationParams{Page: filter.Page, Limit: filter.Limit})
		query = utils.ApplyPagination(query, params)
	}

	orders := []models.Order{}
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	orders, _, err := s.ListOrders(ctx, OrderFilter{UserID: &userID})
	return orders, err
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := s.withDetails(s.db.WithContext(ctx)).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Order %d not found", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

func (s *OrderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	if err := s.withDetails(s.db.WithContext(ctx)).Where("order_number = ?", orderNumber).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Order %s not found", orderNumber)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

// UpdateStatus sets any of the five statuses regardless of the current one.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, utils.InvalidState("invalid order status %q", status)
	}

	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Order %d not found", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	previous := order.Status
	if err := s.db.WithContext(ctx).Model(&order).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	metrics.RecordOrderStatusChange(string(status))
	logrus.WithFields(logrus.Fields{
		"order_id": id,
		"from":     previous,
		"to":       status,
	}).Info("Order status updated")

	updated, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if previous != status && s.notifications != nil {
		if err := s.notifications.SendOrderStatusUpdate(updated, previous); err != nil {
			logrus.WithError(err).WithField("order_id", id).Warn("Failed to send status update email")
		}
	}

	return updated, nil
}

// SetPaymentReference records the payment provider's id for the order.
func (s *OrderService) SetPaymentReference(ctx context.Context, id uint, reference string) error {
	result := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("payment_reference", reference)
	if result.Error != nil {
		return fmt.Errorf("failed to store payment reference: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.NotFound("Order %d not found", id)
	}
	return nil
}

// RemoveOrder deletes the order together with its items.
func (s *OrderService) RemoveOrder(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Select("id").First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("Order %d not found", id)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
		if err := tx.Delete(&models.Order{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		return nil
	})
}

// GetOrderStats counts orders per status. Revenue only includes orders that are
// processing, shipped or delivered.
func (s *OrderService) GetOrderStats(ctx context.Context) (*OrderStats, error) {
	var counts []struct {
		Status models.OrderStatus
		Count  int64
	}
	if err := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	stats := &OrderStats{TotalRevenue: decimal.Zero}
	for _, c := range counts {
		stats.TotalOrders += c.Count
		switch c.Status {
		case models.OrderStatusPending:
			stats.PendingOrders = c.Count
		case models.OrderStatusProcessing:
			stats.ProcessingOrders = c.Count
		case models.OrderStatusShipped:
			stats.ShippedOrders = c.Count
		case models.OrderStatusDelivered:
			stats.DeliveredOrders = c.Count
		case models.OrderStatusCancelled:
			stats.CancelledOrders = c.Count
		}
	}

	revenue, err := sumOrderTotals(s.db.WithContext(ctx).Model(&models.Order{}).Where("status IN ?", models.RevenueStatuses))
	if err != nil {
		return nil, err
	}
	stats.TotalRevenue = revenue

	return stats, nil
}

func sumOrderTotals(query *gorm.DB) (decimal.Decimal, error) {
	var revenue decimal.Decimal
	if err := query.Select("COALESCE(SUM(total), 0)").Row().Scan(&revenue); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return revenue.Round(2), nil
}
