// internal/services/payment_service.go
package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"

	"github.com/javajoker/shop-backend/internal/config"
	"github.com/javajoker/shop-backend/internal/models"
	"github.com/javajoker/shop-backend/internal/utils"
)

// PaymentIntentAPI is the subset of the Stripe PaymentIntents client in use.
type PaymentIntentAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type PaymentService struct {
	orders  *OrderService
	intents PaymentIntentAPI
	config  *config.Config
}

type PaymentIntentResponse struct {
	OrderID        uint   `json:"order_id"`
	ClientSecret   string `json:"client_secret"`
	PaymentID      string `json:"payment_id"`
	Status         string `json:"status"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	PublishableKey string `json:"publishable_key,omitempty"`
}

func NewPaymentService(orders *OrderService, config *config.Config) *PaymentService {
	var intents PaymentIntentAPI
	if config.Payment.StripeSecretKey != "" {
		intents = &paymentintent.Client{
			B:   stripe.GetBackend(stripe.APIBackend),
			Key: config.Payment.StripeSecretKey,
		}
	}
	return NewPaymentServiceWithClient(orders, config, intents)
}

func NewPaymentServiceWithClient(orders *OrderService, config *config.Config, intents PaymentIntentAPI) *PaymentService {
	return &PaymentService{
		orders:  orders,
		intents: intents,
		config:  config,
	}
}

func (s *PaymentService) payableOrder(ctx context.Context, orderID, userID uint) (*models.Order, error) {
	if s.intents == nil {
		return nil, utils.InvalidState("payments are not configured")
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, utils.Forbidden("order %d does not belong to user %d", orderID, userID)
	}
	return order, nil
}

// CreatePaymentIntent opens a Stripe PaymentIntent for the order total and
// remembers its id on the order.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, orderID, userID uint) (*PaymentIntentResponse, error) {
	order, err := s.payableOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending {
		return nil, utils.InvalidState("order %s is %s and cannot be paid", order.OrderNumber, order.Status)
	}

	currency := s.config.Payment.Currency
	if currency == "" {
		currency = "usd"
	}
	amount := order.Total.Shift(2).Round(0).IntPart()

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
	}
	params.AddMetadata("order_id", strconv.FormatUint(uint64(order.ID), 10))
	params.AddMetadata("order_number", order.OrderNumber)
	params.AddMetadata("user_id", strconv.FormatUint(uint64(userID), 10))

	pi, err := s.intents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	if err := s.orders.SetPaymentReference(ctx, order.ID, pi.ID); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"order_id":   order.ID,
		"payment_id": pi.ID,
		"amount":     amount,
	}).Info("Payment intent created")

	return &PaymentIntentResponse{
		OrderID:        order.ID,
		ClientSecret:   pi.ClientSecret,
		PaymentID:      pi.ID,
		Status:         string(pi.Status),
		Amount:         amount,
		Currency:       currency,
		PublishableKey: s.config.Payment.StripePublishableKey,
	}, nil
}

// ConfirmPayment checks the order's PaymentIntent with Stripe and moves the
// order to PROCESSING once the payment has succeeded.
func (s *PaymentService) ConfirmPayment(ctx context.Context, orderID, userID uint) (*models.Order, error) {
	order, err := s.payableOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.PaymentReference == "" {
		return nil, utils.InvalidState("order %s has no payment in progress", order.OrderNumber)
	}

	pi, err := s.intents.Get(order.PaymentReference, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		if order.Status != models.OrderStatusPending {
			return order, nil
		}
		return s.orders.UpdateStatus(ctx, order.ID, models.OrderStatusProcessing)
	case stripe.PaymentIntentStatusCanceled:
		return nil, utils.InvalidState("payment for order %s was cancelled", order.OrderNumber)
	default:
		return nil, utils.InvalidState("payment for order %s is %s", order.OrderNumber, pi.Status)
	}
}
