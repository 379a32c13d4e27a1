package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/atvirokodosprendimai/menuapi/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/menuapi/internal/core/domain"
)

func seedOwner(t *testing.T, db *gormsqlite.DB, email string) int64 {
	t.Helper()
	owner, err := NewAdminUserRepository(db).Create(context.Background(), domain.AdminUser{
		Name:         "Owner",
		Email:        email,
		PasswordHash: "digest",
	})
	if err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	return owner.ID
}

func TestFindInBoundingBoxFiltersCoordinatesAndDeleted(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	repo := NewRestaurantRepository(db)
	ownerID := seedOwner(t, db, "owner@example.com")

	create := func(name string, lat, lon float64) domain.Restaurant {
		r, err := repo.Create(ctx, domain.Restaurant{
			Name:        name,
			OwnerID:     ownerID,
			Location:    domain.Coordinate{Latitude: lat, Longitude: lon},
			OpeningHour: 10,
			ClosingHour: 22,
		})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		return r
	}

	inside := create("inside", 55.68, 12.57)
	deleted := create("deleted", 55.68, 12.57)
	create("north of box", 55.90, 12.57)
	create("west of box", 55.68, 12.00)

	if ok, err := repo.SoftDelete(ctx, deleted.ID); err != nil || !ok {
		t.Fatalf("soft delete: ok=%v err=%v", ok, err)
	}

	box := domain.BoundingBox{MinLat: 55.60, MaxLat: 55.75, MinLon: 12.50, MaxLon: 12.65}
	found, err := repo.FindInBoundingBox(ctx, box)
	if err != nil {
		t.Fatalf("find in box: %v", err)
	}
	if len(found) != 1 || found[0].ID != inside.ID {
		t.Fatalf("expected only the live in-box restaurant, got %+v", found)
	}
}

func TestRestaurantSoftDeleteHidesFromGet(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	repo := NewRestaurantRepository(db)
	ownerID := seedOwner(t, db, "owner@example.com")

	r, err := repo.Create(ctx, domain.Restaurant{
		Name:        "Noma",
		OwnerID:     ownerID,
		Location:    domain.Coordinate{Latitude: 55.68, Longitude: 12.57},
		OpeningHour: 10,
		ClosingHour: 22,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if ok, err := repo.SoftDelete(ctx, r.ID); err != nil || !ok {
		t.Fatalf("soft delete: ok=%v err=%v", ok, err)
	}
	if _, err := repo.Get(ctx, r.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after soft delete, got %v", err)
	}
	if ok, err := repo.SoftDelete(ctx, r.ID); err != nil || ok {
		t.Fatalf("second delete must be a no-op: ok=%v err=%v", ok, err)
	}
	if _, err := repo.Update(ctx, domain.Restaurant{ID: r.ID, Name: "Renamed"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on update of deleted row, got %v", err)
	}
}

func TestAdminUserDuplicateEmailIsValidationError(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	repo := NewAdminUserRepository(db)

	u := domain.AdminUser{Name: "A", Email: "dup@example.com", PasswordHash: "digest"}
	if _, err := repo.Create(ctx, u); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := repo.Create(ctx, u); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for duplicate email, got %v", err)
	}
}

func TestMenuHierarchyOwnershipWalk(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	fx := seedRestaurant(t, db)
	menus := NewMenuRepository(db)

	restaurantID, err := menus.RestaurantForItem(ctx, fx.menuItemID)
	if err != nil {
		t.Fatalf("restaurant for item: %v", err)
	}
	if restaurantID != fx.restaurantID {
		t.Fatalf("expected restaurant %d, got %d", fx.restaurantID, restaurantID)
	}

	if _, err := menus.RestaurantForItem(ctx, 9999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for unknown item, got %v", err)
	}

	// Soft-deleting the item breaks the walk even though parents survive.
	if ok, err := menus.SoftDeleteItem(ctx, fx.menuItemID); err != nil || !ok {
		t.Fatalf("soft delete item: ok=%v err=%v", ok, err)
	}
	if _, err := menus.RestaurantForItem(ctx, fx.menuItemID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after soft delete, got %v", err)
	}
}
