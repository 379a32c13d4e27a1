package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/atvirokodosprendimai/menuapi/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/menuapi/internal/core/domain"
)

// OrderEventStore writes orders and their outbox events in one transaction.
// An order mutation either lands together with its event row or not at all,
// so the dispatcher can never observe a half-written order.
type OrderEventStore struct {
	db *gormsqlite.DB
}

func NewOrderEventStore(db *gormsqlite.DB) *OrderEventStore {
	return &OrderEventStore{db: db}
}

func (s *OrderEventStore) CreateWithItems(ctx context.Context, order domain.Order, envelope domain.EventEnvelope) (domain.Order, error) {
	var result domain.Order

	err := s.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		now := time.Now().UTC()
		model := orderModel{
			RestaurantID: order.RestaurantID,
			TableID:      order.TableID,
			Total:        order.Total,
			Comment:      order.Comment,
			CreatedAt:    now,
		}
		if err := tx.Create(&model).Error; err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		items := make([]orderItemModel, 0, len(order.Items))
		for _, item := range order.Items {
			items = append(items, orderItemModel{
				OrderID:    model.ID,
				MenuItemID: item.MenuItemID,
				Name:       item.Name,
				UnitPrice:  item.UnitPrice,
			})
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return fmt.Errorf("insert order items: %w", err)
			}
		}

		envelope.OrderID = model.ID
		if err := insertOutbox(tx, envelope); err != nil {
			return err
		}

		result = orderToDomain(model)
		for _, item := range items {
			result.Items = append(result.Items, domain.OrderItem{
				OrderID:    item.OrderID,
				MenuItemID: item.MenuItemID,
				Name:       item.Name,
				UnitPrice:  item.UnitPrice,
			})
		}
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	return result, nil
}

func (s *OrderEventStore) Get(ctx context.Context, id int64) (domain.Order, error) {
	var model orderModel
	err := s.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("id = ?", id).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Order{}, domain.ErrNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	return orderToDomain(model), nil
}

func (s *OrderEventStore) ListOpenByRestaurant(ctx context.Context, restaurantID int64) ([]domain.Order, error) {
	var models []orderModel
	err := s.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("restaurant_id = ? AND is_complete = ?", restaurantID, false).
			Order("id ASC").
			Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list open orders: %w", err)
	}

	result := make([]domain.Order, 0, len(models))
	for _, model := range models {
		result = append(result, orderToDomain(model))
	}
	return result, nil
}

func (s *OrderEventStore) ListItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	var models []orderItemModel
	err := s.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("order_id = ?", orderID).Order("id ASC").Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}

	result := make([]domain.OrderItem, 0, len(models))
	for _, model := range models {
		result = append(result, domain.OrderItem{
			OrderID:    model.OrderID,
			MenuItemID: model.MenuItemID,
			Name:       model.Name,
			UnitPrice:  model.UnitPrice,
		})
	}
	return result, nil
}

func (s *OrderEventStore) MarkComplete(ctx context.Context, id int64, envelope domain.EventEnvelope) (bool, error) {
	return s.flagWithEvent(ctx, id, "is_complete", envelope)
}

func (s *OrderEventStore) MarkPaid(ctx context.Context, id int64, envelope domain.EventEnvelope) (bool, error) {
	return s.flagWithEvent(ctx, id, "is_paid", envelope)
}

// flagWithEvent flips one boolean column and enqueues the envelope in the
// same transaction. The flag guard in the WHERE clause makes a second call a
// no-op that enqueues nothing.
func (s *OrderEventStore) flagWithEvent(ctx context.Context, id int64, column string, envelope domain.EventEnvelope) (bool, error) {
	updated := false
	err := s.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		res := tx.Model(&orderModel{}).
			Where("id = ? AND "+column+" = ?", id, false).
			Update(column, true)
		if res.Error != nil {
			return fmt.Errorf("update order %s: %w", column, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		updated = true
		return insertOutbox(tx, envelope)
	})
	if err != nil {
		return false, err
	}
	return updated, nil
}

func insertOutbox(tx *gormsqlite.Tx, envelope domain.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal outbox payload: %w", err)
	}

	occurred := envelope.OccurredAt.UTC()
	outbox := outboxEventModel{
		EventID:       envelope.EventID,
		RestaurantID:  envelope.RestaurantID,
		Topic:         domain.OrdersTopic,
		PayloadJSON:   string(payload),
		Status:        "pending",
		Attempts:      0,
		NextAttemptAt: occurred,
		LastError:     "",
		CreatedAt:     occurred,
	}
	if err := tx.Create(&outbox).Error; err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}
	return nil
}

func orderToDomain(model orderModel) domain.Order {
	return domain.Order{
		ID:           model.ID,
		RestaurantID: model.RestaurantID,
		TableID:      model.TableID,
		Total:        model.Total,
		IsComplete:   model.IsComplete,
		IsPaid:       model.IsPaid,
		Comment:      model.Comment,
		CreatedAt:    model.CreatedAt,
	}
}
