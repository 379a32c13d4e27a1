package domain

import (
	"strings"
	"time"
)

type Restaurant struct {
	ID          int64
	Name        string
	OwnerID     int64
	Location    Coordinate
	OpeningHour int
	ClosingHour int
	TableCount  int
	// PaymentSecret holds the restaurant's payment-provider key as
	// base64(nonce||AES-GCM ciphertext). Empty when no secret is configured.
	PaymentSecret string
	IsDeleted     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (r Restaurant) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return Invalid("name is required")
	}
	if r.OwnerID <= 0 {
		return Invalid("owner id is required")
	}
	if err := r.Location.Validate(); err != nil {
		return err
	}
	if r.OpeningHour < 0 || r.OpeningHour > 23 || r.ClosingHour < 0 || r.ClosingHour > 23 {
		return Invalid("opening hours must be in [0, 23]")
	}
	if r.TableCount < 0 {
		return Invalid("table count must not be negative")
	}
	return nil
}

type RestaurantTable struct {
	ID           int64
	RestaurantID int64
	TableNumber  int
	Name         string
	IsDeleted    bool
	CreatedAt    time.Time
}

func (t RestaurantTable) Validate() error {
	if t.RestaurantID <= 0 {
		return Invalid("restaurant id is required")
	}
	if t.TableNumber <= 0 {
		return Invalid("table number must be positive")
	}
	return nil
}
