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

type TableRepository struct {
	db *gormsqlite.DB
}

func NewTableRepository(db *gormsqlite.DB) *TableRepository {
	return &TableRepository{db: db}
}

func (r *TableRepository) Create(ctx context.Context, t domain.RestaurantTable) (domain.RestaurantTable, error) {
	model := tableModel{
		RestaurantID: t.RestaurantID,
		TableNumber:  t.TableNumber,
		Name:         t.Name,
		CreatedAt:    time.Now().UTC(),
	}
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		return domain.RestaurantTable{}, fmt.Errorf("create table: %w", err)
	}
	return tableToDomain(model), nil
}

func (r *TableRepository) Get(ctx context.Context, id int64) (domain.RestaurantTable, error) {
	var model tableModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("id = ? AND is_deleted = ?", id, false).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RestaurantTable{}, domain.ErrNotFound
		}
		return domain.RestaurantTable{}, fmt.Errorf("get table: %w", err)
	}
	return tableToDomain(model), nil
}

func (r *TableRepository) ListByRestaurant(ctx context.Context, restaurantID int64) ([]domain.RestaurantTable, error) {
	var models []tableModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("restaurant_id = ? AND is_deleted = ?", restaurantID, false).
			Order("table_number ASC").
			Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	result := make([]domain.RestaurantTable, 0, len(models))
	for _, model := range models {
		result = append(result, tableToDomain(model))
	}
	return result, nil
}

func (r *TableRepository) Update(ctx context.Context, t domain.RestaurantTable) (domain.RestaurantTable, error) {
	var model tableModel
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		res := tx.Model(&tableModel{}).
			Where("id = ? AND is_deleted = ?", t.ID, false).
			Updates(map[string]any{"table_number": t.TableNumber, "name": t.Name})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return tx.Where("id = ?", t.ID).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.RestaurantTable{}, err
		}
		return domain.RestaurantTable{}, fmt.Errorf("update table: %w", err)
	}
	return tableToDomain(model), nil
}

func (r *TableRepository) SoftDelete(ctx context.Context, id int64) (bool, error) {
	var affected int64
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		res := tx.Model(&tableModel{}).
			Where("id = ? AND is_deleted = ?", id, false).
			Update("is_deleted", true)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, fmt.Errorf("soft delete table: %w", err)
	}
	return affected > 0, nil
}

func tableToDomain(model tableModel) domain.RestaurantTable {
	return domain.RestaurantTable{
		ID:           model.ID,
		RestaurantID: model.RestaurantID,
		TableNumber:  model.TableNumber,
		Name:         model.Name,
		IsDeleted:    model.IsDeleted,
		CreatedAt:    model.CreatedAt,
	}
}
