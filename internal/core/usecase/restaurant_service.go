package usecase

import (
	"context"
	"strings"

	"github.com/atvirokodosprendimai/menuapi/internal/core/domain"
	"github.com/atvirokodosprendimai/menuapi/internal/core/ports"
)

const (
	DefaultSearchRadiusKM = 10.0
	closestResultLimit    = 10
)

type RestaurantService struct {
	repo   ports.RestaurantRepository
	cipher *SecretCipher
}

func NewRestaurantService(repo ports.RestaurantRepository, cipher *SecretCipher) *RestaurantService {
	return &RestaurantService{repo: repo, cipher: cipher}
}

// Create stores a restaurant owned by the calling admin. Ownership is fixed
// at creation and never transfers implicitly.
func (s *RestaurantService) Create(ctx context.Context, ownerID int64, r domain.Restaurant) (domain.Restaurant, error) {
	r.OwnerID = ownerID
	r.PaymentSecret = ""
	if err := r.Validate(); err != nil {
		return domain.Restaurant{}, err
	}
	return s.repo.Create(ctx, r)
}

func (s *RestaurantService) Get(ctx context.Context, id int64) (domain.Restaurant, error) {
	return s.repo.Get(ctx, id)
}

// Update applies owner-authorized mutations. A caller who is not the owner is
// rejected with ErrForbidden regardless of payload validity.
func (s *RestaurantService) Update(ctx context.Context, callerID, id int64, r domain.Restaurant) (domain.Restaurant, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Restaurant{}, err
	}
	if existing.OwnerID != callerID {
		return domain.Restaurant{}, domain.ErrForbidden
	}

	r.ID = id
	r.OwnerID = existing.OwnerID
	r.PaymentSecret = existing.PaymentSecret
	if err := r.Validate(); err != nil {
		return domain.Restaurant{}, err
	}
	return s.repo.Update(ctx, r)
}

// SetPaymentSecret encrypts the provider key with the process-wide cipher
// before it touches storage. The plaintext is never persisted.
func (s *RestaurantService) SetPaymentSecret(ctx context.Context, callerID, id int64, secret string) error {
	if strings.TrimSpace(secret) == "" {
		return domain.Invalid("payment secret is required")
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.OwnerID != callerID {
		return domain.ErrForbidden
	}

	ciphertext, err := s.cipher.Encrypt(secret)
	if err != nil {
		return err
	}
	return s.repo.SetPaymentSecret(ctx, id, ciphertext)
}

// Delete soft-deletes so order history referencing the restaurant survives.
func (s *RestaurantService) Delete(ctx context.Context, callerID, id int64) (bool, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if existing.OwnerID != callerID {
		return false, domain.ErrForbidden
	}
	return s.repo.SoftDelete(ctx, id)
}

// Closest returns up to 10 active restaurants nearest to center. The bounding
// box is a pre-filter: restaurants just outside the true radius may appear if
// the box admits them, and closer ones beyond the box edge are cut off. That
// boundary truncation is accepted, not corrected.
func (s *RestaurantService) Closest(ctx context.Context, center domain.Coordinate, radiusKM float64) ([]domain.Restaurant, error) {
	if radiusKM == 0 {
		radiusKM = DefaultSearchRadiusKM
	}
	box, err := BoundingBox(center, radiusKM)
	if err != nil {
		return nil, err
	}

	candidates, err := s.repo.FindInBoundingBox(ctx, box)
	if err != nil {
		return nil, err
	}

	ranked := RankByDistance(center, candidates)
	if len(ranked) > closestResultLimit {
		ranked = ranked[:closestResultLimit]
	}
	return ranked, nil
}
