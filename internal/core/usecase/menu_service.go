package usecase

import (
	"context"

	"github.com/atvirokodosprendimai/menuapi/internal/core/domain"
	"github.com/atvirokodosprendimai/menuapi/internal/core/ports"
)

// MenuService owns the menu hierarchy (menu → section → item) and restaurant
// tables. Reads are public; mutations require the caller to own the
// restaurant the entity hangs off.
type MenuService struct {
	menus       ports.MenuRepository
	tables      ports.TableRepository
	restaurants ports.RestaurantRepository
}

func NewMenuService(menus ports.MenuRepository, tables ports.TableRepository, restaurants ports.RestaurantRepository) *MenuService {
	return &MenuService{menus: menus, tables: tables, restaurants: restaurants}
}

func (s *MenuService) requireOwner(ctx context.Context, callerID, restaurantID int64) error {
	restaurant, err := s.restaurants.Get(ctx, restaurantID)
	if err != nil {
		return err
	}
	if restaurant.OwnerID != callerID {
		return domain.ErrForbidden
	}
	return nil
}

func (s *MenuService) CreateMenu(ctx context.Context, callerID int64, m domain.Menu) (domain.Menu, error) {
	if err := m.Validate(); err != nil {
		return domain.Menu{}, err
	}
	if err := s.requireOwner(ctx, callerID, m.RestaurantID); err != nil {
		return domain.Menu{}, err
	}
	return s.menus.CreateMenu(ctx, m)
}

func (s *MenuService) GetMenu(ctx context.Context, id int64) (domain.Menu, error) {
	return s.menus.GetMenu(ctx, id)
}

func (s *MenuService) UpdateMenu(ctx context.Context, callerID int64, m domain.Menu) (domain.Menu, error) {
	if err := m.Validate(); err != nil {
		return domain.Menu{}, err
	}
	restaurantID, err := s.menus.RestaurantForMenu(ctx, m.ID)
	if err != nil {
		return domain.Menu{}, err
	}
	if err := s.requireOwner(ctx, callerID, restaurantID); err != nil {
		return domain.Menu{}, err
	}
	m.RestaurantID = restaurantID
	return s.menus.UpdateMenu(ctx, m)
}

func (s *MenuService) DeleteMenu(ctx context.Context, callerID, id int64) (bool, error) {
	restaurantID, err := s.menus.RestaurantForMenu(ctx, id)
	if err != nil {
		return false, err
	}
	if err := s.requireOwner(ctx, callerID, restaurantID); err != nil {
		return false, err
	}
	return s.menus.SoftDeleteMenu(ctx, id)
}

func (s *MenuService) CreateSection(ctx context.Context, callerID int64, sec domain.MenuSection) (domain.MenuSection, error) {
	if err := sec.Validate(); err != nil {
		return domain.MenuSection{}, err
	}
	restaurantID, err := s.menus.RestaurantForMenu(ctx, sec.MenuID)
	if err != nil {
		return domain.MenuSection{}, err
	}
	if err := s.requireOwner(ctx, callerID, restaurantID); err != nil {
		return domain.MenuSection{}, err
	}
	return s.menus.CreateSection(ctx, sec)
}

func (s *MenuService) GetSection(ctx context.Context, id int64) (domain.MenuSection, error) {
	return s.menus.GetSection(ctx, id)
}

func (s *MenuService) UpdateSection(ctx context.Context, callerID int64, sec domain.MenuSection) (domain.MenuSection, error) {
	if err := sec.Validate(); err != nil {
		return domain.MenuSection{}, err
	}
	restaurantID, err := s.menus.RestaurantForSection(ctx, sec.ID)
	if err != nil {
		return domain.MenuSection{}, err
	}
	if err := s.requireOwner(ctx, callerID, restaurantID); err != nil {
		return domain.MenuSection{}, err
	}
	return s.menus.UpdateSection(ctx, sec)
}

func (s *MenuService) DeleteSection(ctx context.Context, callerID, id int64) (bool, error) {
	restaurantID, err := s.menus.RestaurantForSection(ctx, id)
	if err != nil {
		return false, err
	}
	if err := s.requireOwner(ctx, callerID, restaurantID); err != nil {
		return false, err
	}
	return s.menus.SoftDeleteSection(ctx, id)
}

func (s *MenuService) CreateItem(ctx context.Context, callerID int64, item domain.MenuItem) (domain.MenuItem, error) {
	if err := item.Validate(); err != nil {
		return domain.MenuItem{}, err
	}
	restaurantID, err := s.menus.RestaurantForSection(ctx, item.SectionID)
	if err != nil {
		return domain.MenuItem{}, err
	}
	if err := s.requireOwner(ctx, callerID, restaurantID); err != nil {
		return domain.MenuItem{}, err
	}
	return s.menus.CreateItem(ctx, item)
}

func (s *MenuService) GetItem(ctx context.Context, id int64) (domain.MenuItem, error) {
	return s.menus.GetItem(ctx, id)
}

func (s *MenuService) UpdateItem(ctx context.Context, callerID int64, item domain.MenuItem) (domain.MenuItem, error) {
	if err := item.Validate(); err != nil {
		return domain.MenuItem{}, err
	}
	restaurantID, err := s.menus.RestaurantForItem(ctx, item.ID)
	if err != nil {
		return domain.MenuItem{}, err
	}
	if err := s.requireOwner(ctx, callerID, restaurantID); err != nil {
		return domain.MenuItem{}, err
	}
	return s.menus.UpdateItem(ctx, item)
}

func (s *MenuService) DeleteItem(ctx context.Context, callerID, id int64) (bool, error) {
	restaurantID, err := s.menus.RestaurantForItem(ctx, id)
	if err != nil {
		return false, err
	}
	if err := s.requireOwner(ctx, callerID, restaurantID); err != nil {
		return false, err
	}
	return s.menus.SoftDeleteItem(ctx, id)
}

func (s *MenuService) CreateTable(ctx context.Context, callerID int64, t domain.RestaurantTable) (domain.RestaurantTable, error) {
	if err := t.Validate(); err != nil {
		return domain.RestaurantTable{}, err
	}
	if err := s.requireOwner(ctx, callerID, t.RestaurantID); err != nil {
		return domain.RestaurantTable{}, err
	}
	return s.tables.Create(ctx, t)
}

func (s *MenuService) GetTable(ctx context.Context, id int64) (domain.RestaurantTable, error) {
	return s.tables.Get(ctx, id)
}

func (s *MenuService) ListTables(ctx context.Context, restaurantID int64) ([]domain.RestaurantTable, error) {
	return s.tables.ListByRestaurant(ctx, restaurantID)
}

func (s *MenuService) UpdateTable(ctx context.Context, callerID int64, t domain.RestaurantTable) (domain.RestaurantTable, error) {
	if err := t.Validate(); err != nil {
		return domain.RestaurantTable{}, err
	}
	existing, err := s.tables.Get(ctx, t.ID)
	if err != nil {
		return domain.RestaurantTable{}, err
	}
	if err := s.requireOwner(ctx, callerID, existing.RestaurantID); err != nil {
		return domain.RestaurantTable{}, err
	}
	t.RestaurantID = existing.RestaurantID
	return s.tables.Update(ctx, t)
}

func (s *MenuService) DeleteTable(ctx context.Context, callerID, id int64) (bool, error) {
	existing, err := s.tables.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if err := s.requireOwner(ctx, callerID, existing.RestaurantID); err != nil {
		return false, err
	}
	return s.tables.SoftDelete(ctx, id)
}
