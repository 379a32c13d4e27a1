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

type AdminUserRepository struct {
	db *gormsqlite.DB
}

func NewAdminUserRepository(db *gormsqlite.DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

func (r *AdminUserRepository) Create(ctx context.Context, u domain.AdminUser) (domain.AdminUser, error) {
	now := time.Now().UTC()
	model := adminUserModel{
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		// The unique index on email turns duplicate registration into a
		// validation failure rather than a 500.
		if isUniqueViolation(err) {
			return domain.AdminUser{}, domain.Invalid("email is already registered")
		}
		return domain.AdminUser{}, fmt.Errorf("create admin user: %w", err)
	}
	return adminUserToDomain(model), nil
}

func (r *AdminUserRepository) Get(ctx context.Context, id int64) (domain.AdminUser, error) {
	var model adminUserModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("id = ?", id).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AdminUser{}, domain.ErrNotFound
		}
		return domain.AdminUser{}, fmt.Errorf("get admin user: %w", err)
	}
	return adminUserToDomain(model), nil
}

func (r *AdminUserRepository) FindByEmail(ctx context.Context, email string) (domain.AdminUser, error) {
	var model adminUserModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("email = ?", email).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AdminUser{}, domain.ErrNotFound
		}
		return domain.AdminUser{}, fmt.Errorf("find admin user by email: %w", err)
	}
	return adminUserToDomain(model), nil
}

func adminUserToDomain(model adminUserModel) domain.AdminUser {
	return domain.AdminUser{
		ID:           model.ID,
		Name:         model.Name,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

type APIKeyRepository struct {
	db *gormsqlite.DB
}

func NewAPIKeyRepository(db *gormsqlite.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

func (r *APIKeyRepository) Create(ctx context.Context, key domain.APIKey) error {
	model := apiKeyModel{
		ID:           key.ID,
		RestaurantID: key.RestaurantID,
		KeyHash:      key.KeyHash,
		CreatedAt:    key.CreatedAt.UTC(),
	}
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		return fmt.Errorf("create api key: %w", err)
	}
	return nil
}

func (r *APIKeyRepository) FindActive(ctx context.Context, restaurantID int64) ([]domain.APIKey, error) {
	var models []apiKeyModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		query := tx.Where("is_deleted = ?", false)
		if restaurantID > 0 {
			query = query.Where("restaurant_id = ?", restaurantID)
		}
		return query.Order("created_at DESC").Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("find active api keys: %w", err)
	}

	result := make([]domain.APIKey, 0, len(models))
	for _, model := range models {
		result = append(result, domain.APIKey{
			ID:           model.ID,
			RestaurantID: model.RestaurantID,
			KeyHash:      model.KeyHash,
			IsDeleted:    model.IsDeleted,
			CreatedAt:    model.CreatedAt,
		})
	}
	return result, nil
}

func (r *APIKeyRepository) SoftDelete(ctx context.Context, id string) (bool, error) {
	var affected int64
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		res := tx.Model(&apiKeyModel{}).
			Where("id = ? AND is_deleted = ?", id, false).
			Update("is_deleted", true)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, fmt.Errorf("soft delete api key: %w", err)
	}
	return affected > 0, nil
}
