package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/atvirokodosprendimai/menuapi/internal/core/domain"
	"github.com/atvirokodosprendimai/menuapi/internal/core/ports"
	"github.com/google/uuid"
)

// OrderService handles the API-key-scoped order lifecycle. Every operation
// takes the restaurant ID resolved from the caller's key; a restaurant ID in
// the payload never widens that scope.
type OrderService struct {
	orders ports.OrderRepository
	menus  ports.MenuRepository
	tables ports.TableRepository
}

func NewOrderService(orders ports.OrderRepository, menus ports.MenuRepository, tables ports.TableRepository) *OrderService {
	return &OrderService{orders: orders, menus: menus, tables: tables}
}

// Create prices each menu item at creation time and writes the header, line
// items and the order.created outbox event in one transaction. A failure on
// any line rolls the whole order back.
func (s *OrderService) Create(ctx context.Context, restaurantID int64, req domain.NewOrder) (domain.Order, error) {
	if err := req.Validate(); err != nil {
		return domain.Order{}, err
	}

	table, err := s.tables.Get(ctx, req.TableID)
	if err != nil {
		return domain.Order{}, err
	}
	if table.RestaurantID != restaurantID {
		return domain.Order{}, domain.Invalid("table does not belong to this restaurant")
	}

	items := make([]domain.OrderItem, 0, len(req.MenuItemIDs))
	total := 0.0
	for _, itemID := range req.MenuItemIDs {
		menuItem, err := s.menus.GetItem(ctx, itemID)
		if err != nil {
			return domain.Order{}, err
		}
		items = append(items, domain.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			UnitPrice:  menuItem.Price,
		})
		total += menuItem.Price
	}

	now := time.Now().UTC()
	order := domain.Order{
		RestaurantID: restaurantID,
		TableID:      req.TableID,
		Total:        total,
		Comment:      req.Comment,
		CreatedAt:    now,
		Items:        items,
	}

	envelope := orderEnvelope(domain.EventOrderCreated, restaurantID, 0, now, map[string]any{
		"table_id": req.TableID,
		"total":    total,
		"items":    len(items),
	})
	return s.orders.CreateWithItems(ctx, order, envelope)
}

func (s *OrderService) ListOpen(ctx context.Context, restaurantID int64) ([]domain.Order, error) {
	return s.orders.ListOpenByRestaurant(ctx, restaurantID)
}

// Get returns the order only when it belongs to the caller's restaurant.
func (s *OrderService) Get(ctx context.Context, restaurantID, orderID int64) (domain.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if order.RestaurantID != restaurantID {
		return domain.Order{}, domain.ErrNotFound
	}
	return order, nil
}

func (s *OrderService) ListItems(ctx context.Context, restaurantID, orderID int64) ([]domain.OrderItem, error) {
	if _, err := s.Get(ctx, restaurantID, orderID); err != nil {
		return nil, err
	}
	return s.orders.ListItems(ctx, orderID)
}

func (s *OrderService) MarkComplete(ctx context.Context, restaurantID, orderID int64) error {
	order, err := s.Get(ctx, restaurantID, orderID)
	if err != nil {
		return err
	}
	if order.IsComplete {
		return nil
	}

	envelope := orderEnvelope(domain.EventOrderCompleted, restaurantID, orderID, time.Now().UTC(), map[string]any{
		"total": order.Total,
	})
	updated, err := s.orders.MarkComplete(ctx, orderID, envelope)
	if err != nil {
		return err
	}
	if !updated {
		return domain.ErrNotFound
	}
	return nil
}

// MarkPaid flips the paid flag and enqueues a receipt event for downstream
// mail delivery.
func (s *OrderService) MarkPaid(ctx context.Context, restaurantID, orderID int64) error {
	order, err := s.Get(ctx, restaurantID, orderID)
	if err != nil {
		return err
	}
	if order.IsPaid {
		return nil
	}

	envelope := orderEnvelope(domain.EventOrderReceipt, restaurantID, orderID, time.Now().UTC(), map[string]any{
		"total": order.Total,
	})
	updated, err := s.orders.MarkPaid(ctx, orderID, envelope)
	if err != nil {
		return err
	}
	if !updated {
		return domain.ErrNotFound
	}
	return nil
}

func orderEnvelope(eventType string, restaurantID, orderID int64, at time.Time, payload map[string]any) domain.EventEnvelope {
	encoded, _ := json.Marshal(payload)
	return domain.EventEnvelope{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		RestaurantID: restaurantID,
		OrderID:      orderID,
		OccurredAt:   at,
		Payload:      encoded,
	}
}
