package usecase

import (
	"context"

	"github.com/atvirokodosprendimai/menuapi/internal/core/domain"
	"github.com/atvirokodosprendimai/menuapi/internal/core/ports"
)

// RatingService accepts anonymous diner feedback. Ratings reference a
// restaurant but are write-once and never scoped to a caller.
type RatingService struct {
	ratings     ports.RatingRepository
	restaurants ports.RestaurantRepository
}

func NewRatingService(ratings ports.RatingRepository, restaurants ports.RestaurantRepository) *RatingService {
	return &RatingService{ratings: ratings, restaurants: restaurants}
}

func (s *RatingService) Create(ctx context.Context, r domain.Rating) (domain.Rating, error) {
	if err := r.Validate(); err != nil {
		return domain.Rating{}, err
	}
	// Rejects ratings for unknown or soft-deleted restaurants.
	if _, err := s.restaurants.Get(ctx, r.RestaurantID); err != nil {
		return domain.Rating{}, err
	}
	return s.ratings.Create(ctx, r)
}

func (s *RatingService) List(ctx context.Context) ([]domain.Rating, error) {
	return s.ratings.List(ctx)
}
