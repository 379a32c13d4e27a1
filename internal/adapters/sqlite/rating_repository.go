package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/atvirokodosprendimai/menuapi/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/menuapi/internal/core/domain"
)

type RatingRepository struct {
	db *gormsqlite.DB
}

func NewRatingRepository(db *gormsqlite.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) Create(ctx context.Context, rating domain.Rating) (domain.Rating, error) {
	model := ratingModel{
		RestaurantID: rating.RestaurantID,
		Rating:       rating.Rating,
		Text:         rating.Text,
		CreatedAt:    time.Now().UTC(),
	}
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		return domain.Rating{}, fmt.Errorf("create rating: %w", err)
	}
	return ratingToDomain(model), nil
}

func (r *RatingRepository) List(ctx context.Context) ([]domain.Rating, error) {
	var models []ratingModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Order("id DESC").Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}

	result := make([]domain.Rating, 0, len(models))
	for _, model := range models {
		result = append(result, ratingToDomain(model))
	}
	return result, nil
}

func ratingToDomain(model ratingModel) domain.Rating {
	return domain.Rating{
		ID:           model.ID,
		RestaurantID: model.RestaurantID,
		Rating:       model.Rating,
		Text:         model.Text,
		CreatedAt:    model.CreatedAt,
	}
}
