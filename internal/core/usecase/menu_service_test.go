package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/atvirokodosprendimai/menuapi/internal/core/domain"
)

func ownedRestaurant(ownerID int64) *stubRestaurantRepo {
	return &stubRestaurantRepo{getFn: func(_ context.Context, id int64) (domain.Restaurant, error) {
		r := validRestaurant()
		r.ID = id
		r.OwnerID = ownerID
		return r, nil
	}}
}

func TestCreateMenuRequiresRestaurantOwner(t *testing.T) {
	svc := NewMenuService(&stubMenuRepo{}, &stubTableRepo{}, ownedRestaurant(1))

	if _, err := svc.CreateMenu(context.Background(), 1, domain.Menu{RestaurantID: 5, Description: "lunch"}); err != nil {
		t.Fatalf("owner create: %v", err)
	}
	if _, err := svc.CreateMenu(context.Background(), 2, domain.Menu{RestaurantID: 5, Description: "lunch"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}
}

func TestUpdateItemWalksHierarchyToOwner(t *testing.T) {
	menus := &stubMenuRepo{forItemFn: func(_ context.Context, itemID int64) (int64, error) {
		return 5, nil
	}}
	svc := NewMenuService(menus, &stubTableRepo{}, ownedRestaurant(1))

	item := domain.MenuItem{ID: 3, SectionID: 2, Name: "Burger", Price: 9.5}
	if _, err := svc.UpdateItem(context.Background(), 1, item); err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if _, err := svc.UpdateItem(context.Background(), 2, item); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}
}

func TestDeleteMenuUnknownMenuIsNotFound(t *testing.T) {
	svc := NewMenuService(&stubMenuRepo{}, &stubTableRepo{}, ownedRestaurant(1))
	if _, err := svc.DeleteMenu(context.Background(), 1, 99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteMenuChecksOwnerBeforeDeleting(t *testing.T) {
	deleted := false
	menus := &stubMenuRepo{
		forMenuFn:        func(context.Context, int64) (int64, error) { return 5, nil },
		softDeleteMenuFn: func(context.Context, int64) (bool, error) { deleted = true; return true, nil },
	}
	svc := NewMenuService(menus, &stubTableRepo{}, ownedRestaurant(1))

	if _, err := svc.DeleteMenu(context.Background(), 2, 5); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if deleted {
		t.Fatal("nothing may be deleted when the caller is not the owner")
	}
}

func TestUpdateTableKeepsRestaurantBinding(t *testing.T) {
	tables := &stubTableRepo{getFn: func(_ context.Context, id int64) (domain.RestaurantTable, error) {
		return domain.RestaurantTable{ID: id, RestaurantID: 5, TableNumber: 1}, nil
	}}
	svc := NewMenuService(&stubMenuRepo{}, tables, ownedRestaurant(1))

	updated, err := svc.UpdateTable(context.Background(), 1, domain.RestaurantTable{
		ID:           3,
		RestaurantID: 99, // must be ignored
		TableNumber:  4,
	})
	if err != nil {
		t.Fatalf("update table: %v", err)
	}
	if updated.RestaurantID != 5 {
		t.Fatalf("table must stay bound to its restaurant, got %d", updated.RestaurantID)
	}
}
