package domain

import "time"

// APIKey authorizes restaurant-scoped service calls. The plaintext key is
// returned to the caller exactly once at creation; only its bcrypt digest is
// stored. Keys are soft-deleted so revocation history survives.
type APIKey struct {
	ID           string
	RestaurantID int64
	KeyHash      string
	IsDeleted    bool
	CreatedAt    time.Time
}
