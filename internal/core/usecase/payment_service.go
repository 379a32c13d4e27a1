package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/atvirokodosprendimai/menuapi/internal/core/domain"
	"github.com/atvirokodosprendimai/menuapi/internal/core/ports"
)

// PaymentService creates checkout sessions with the restaurant's own provider
// key, decrypted per call and passed explicitly to the provider. Provider
// credentials are never held as process-wide state.
type PaymentService struct {
	restaurants ports.RestaurantRepository
	orders      *OrderService
	provider    ports.CheckoutProvider
	cipher      *SecretCipher
	successURL  string
	cancelURL   string
}

func NewPaymentService(restaurants ports.RestaurantRepository, orders *OrderService, provider ports.CheckoutProvider, cipher *SecretCipher, successURL, cancelURL string) *PaymentService {
	return &PaymentService{
		restaurants: restaurants,
		orders:      orders,
		provider:    provider,
		cipher:      cipher,
		successURL:  successURL,
		cancelURL:   cancelURL,
	}
}

func (s *PaymentService) providerSecret(ctx context.Context, restaurantID int64) (string, error) {
	restaurant, err := s.restaurants.Get(ctx, restaurantID)
	if err != nil {
		return "", err
	}
	if restaurant.PaymentSecret == "" {
		return "", domain.Invalid("restaurant has no payment secret configured")
	}
	// A decrypt failure here means the stored secret is unusable (tampered
	// row or rotated key). It blocks all payment flows for the restaurant
	// until the secret is re-entered, so it surfaces as a hard error.
	secret, err := s.cipher.Decrypt(restaurant.PaymentSecret)
	if err != nil {
		return "", err
	}
	return secret, nil
}

// CreateCheckout builds a session from the order's line items. The order must
// belong to the caller's restaurant and not already be paid.
func (s *PaymentService) CreateCheckout(ctx context.Context, restaurantID, orderID int64) (ports.CheckoutSession, error) {
	order, err := s.orders.Get(ctx, restaurantID, orderID)
	if err != nil {
		return ports.CheckoutSession{}, err
	}
	if order.IsPaid {
		return ports.CheckoutSession{}, domain.Invalid("order is already paid")
	}

	secret, err := s.providerSecret(ctx, restaurantID)
	if err != nil {
		return ports.CheckoutSession{}, err
	}

	items, err := s.orders.ListItems(ctx, restaurantID, orderID)
	if err != nil {
		return ports.CheckoutSession{}, err
	}
	lines := make([]ports.CheckoutLineItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, ports.CheckoutLineItem{Name: item.Name, UnitPrice: item.UnitPrice, Quantity: 1})
	}

	session, err := s.provider.CreateCheckout(ctx, secret, lines, s.successURL, s.cancelURL, map[string]string{
		"order_id":      strconv.FormatInt(orderID, 10),
		"restaurant_id": strconv.FormatInt(restaurantID, 10),
	})
	if err != nil {
		return ports.CheckoutSession{}, fmt.Errorf("%w: create checkout: %v", domain.ErrDependency, err)
	}
	return session, nil
}

// SessionStatus fetches the provider-side session state and marks the order
// paid on completion. Not retried automatically; the caller may poll.
func (s *PaymentService) SessionStatus(ctx context.Context, restaurantID, orderID int64, sessionID string) (ports.CheckoutSession, error) {
	secret, err := s.providerSecret(ctx, restaurantID)
	if err != nil {
		return ports.CheckoutSession{}, err
	}

	session, err := s.provider.RetrieveSession(ctx, secret, sessionID)
	if err != nil {
		return ports.CheckoutSession{}, fmt.Errorf("%w: retrieve session: %v", domain.ErrDependency, err)
	}

	if session.Status == "complete" {
		if err := s.orders.MarkPaid(ctx, restaurantID, orderID); err != nil {
			return ports.CheckoutSession{}, err
		}
	}
	return session, nil
}
