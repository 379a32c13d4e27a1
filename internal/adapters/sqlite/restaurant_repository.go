package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/atvirokodosprendimai/menuapi/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/menuapi/internal/core/domain"
)

type RestaurantRepository struct {
	db *gormsqlite.DB
}

func NewRestaurantRepository(db *gormsqlite.DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

func (r *RestaurantRepository) Create(ctx context.Context, restaurant domain.Restaurant) (domain.Restaurant, error) {
	now := time.Now().UTC()
	model := restaurantModel{
		Name:          restaurant.Name,
		OwnerID:       restaurant.OwnerID,
		Latitude:      restaurant.Location.Latitude,
		Longitude:     restaurant.Location.Longitude,
		OpeningHour:   restaurant.OpeningHour,
		ClosingHour:   restaurant.ClosingHour,
		TableCount:    restaurant.TableCount,
		PaymentSecret: restaurant.PaymentSecret,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		return domain.Restaurant{}, fmt.Errorf("create restaurant: %w", err)
	}
	return restaurantToDomain(model), nil
}

func (r *RestaurantRepository) Get(ctx context.Context, id int64) (domain.Restaurant, error) {
	var model restaurantModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("id = ? AND is_deleted = ?", id, false).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Restaurant{}, domain.ErrNotFound
		}
		return domain.Restaurant{}, fmt.Errorf("get restaurant: %w", err)
	}
	return restaurantToDomain(model), nil
}

func (r *RestaurantRepository) Update(ctx context.Context, restaurant domain.Restaurant) (domain.Restaurant, error) {
	var model restaurantModel
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		res := tx.Model(&restaurantModel{}).
			Where("id = ? AND is_deleted = ?", restaurant.ID, false).
			Updates(map[string]any{
				"name":         restaurant.Name,
				"latitude":     restaurant.Location.Latitude,
				"longitude":    restaurant.Location.Longitude,
				"opening_hour": restaurant.OpeningHour,
				"closing_hour": restaurant.ClosingHour,
				"table_count":  restaurant.TableCount,
				"updated_at":   time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return tx.Where("id = ?", restaurant.ID).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Restaurant{}, err
		}
		return domain.Restaurant{}, fmt.Errorf("update restaurant: %w", err)
	}
	return restaurantToDomain(model), nil
}

func (r *RestaurantRepository) SetPaymentSecret(ctx context.Context, id int64, ciphertext string) error {
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		res := tx.Model(&restaurantModel{}).
			Where("id = ? AND is_deleted = ?", id, false).
			Updates(map[string]any{"payment_secret": ciphertext, "updated_at": time.Now().UTC()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("set payment secret: %w", err)
	}
	return nil
}

func (r *RestaurantRepository) SoftDelete(ctx context.Context, id int64) (bool, error) {
	var affected int64
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		res := tx.Model(&restaurantModel{}).
			Where("id = ? AND is_deleted = ?", id, false).
			Updates(map[string]any{"is_deleted": true, "updated_at": time.Now().UTC()})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, fmt.Errorf("soft delete restaurant: %w", err)
	}
	return affected > 0, nil
}

// FindInBoundingBox filters on the indexed coordinate columns only. Exact
// distance ranking happens in the service layer.
func (r *RestaurantRepository) FindInBoundingBox(ctx context.Context, box domain.BoundingBox) ([]domain.Restaurant, error) {
	var models []restaurantModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where(
			"latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ? AND is_deleted = ?",
			box.MinLat, box.MaxLat, box.MinLon, box.MaxLon, false,
		).Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("find restaurants in box: %w", err)
	}

	result := make([]domain.Restaurant, 0, len(models))
	for _, model := range models {
		result = append(result, restaurantToDomain(model))
	}
	return result, nil
}

func restaurantToDomain(model restaurantModel) domain.Restaurant {
	return domain.Restaurant{
		ID:      model.ID,
		Name:    model.Name,
		OwnerID: model.OwnerID,
		Location: domain.Coordinate{
			Latitude:  model.Latitude,
			Longitude: model.Longitude,
		},
		OpeningHour:   model.OpeningHour,
		ClosingHour:   model.ClosingHour,
		TableCount:    model.TableCount,
		PaymentSecret: model.PaymentSecret,
		IsDeleted:     model.IsDeleted,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}
