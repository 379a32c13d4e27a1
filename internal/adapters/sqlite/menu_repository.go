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

// MenuRepository persists the menu -> section -> item hierarchy. The
// RestaurantFor* lookups exist so authorization checks can resolve ownership
// without loading whole menus.
type MenuRepository struct {
	db *gormsqlite.DB
}

func NewMenuRepository(db *gormsqlite.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

func (r *MenuRepository) CreateMenu(ctx context.Context, m domain.Menu) (domain.Menu, error) {
	now := time.Now().UTC()
	model := menuModel{
		RestaurantID: m.RestaurantID,
		Description:  m.Description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		return domain.Menu{}, fmt.Errorf("create menu: %w", err)
	}
	return menuToDomain(model), nil
}

func (r *MenuRepository) GetMenu(ctx context.Context, id int64) (domain.Menu, error) {
	var model menuModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("id = ? AND is_deleted = ?", id, false).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Menu{}, domain.ErrNotFound
		}
		return domain.Menu{}, fmt.Errorf("get menu: %w", err)
	}
	return menuToDomain(model), nil
}

func (r *MenuRepository) UpdateMenu(ctx context.Context, m domain.Menu) (domain.Menu, error) {
	var model menuModel
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		res := tx.Model(&menuModel{}).
			Where("id = ? AND is_deleted = ?", m.ID, false).
			Updates(map[string]any{"description": m.Description, "updated_at": time.Now().UTC()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return tx.Where("id = ?", m.ID).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Menu{}, err
		}
		return domain.Menu{}, fmt.Errorf("update menu: %w", err)
	}
	return menuToDomain(model), nil
}

func (r *MenuRepository) SoftDeleteMenu(ctx context.Context, id int64) (bool, error) {
	return r.softDelete(ctx, &menuModel{}, id, "soft delete menu")
}

func (r *MenuRepository) CreateSection(ctx context.Context, s domain.MenuSection) (domain.MenuSection, error) {
	now := time.Now().UTC()
	model := menuSectionModel{
		MenuID:    s.MenuID,
		Name:      s.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		return domain.MenuSection{}, fmt.Errorf("create section: %w", err)
	}
	return sectionToDomain(model), nil
}

func (r *MenuRepository) GetSection(ctx context.Context, id int64) (domain.MenuSection, error) {
	var model menuSectionModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("id = ? AND is_deleted = ?", id, false).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.MenuSection{}, domain.ErrNotFound
		}
		return domain.MenuSection{}, fmt.Errorf("get section: %w", err)
	}
	return sectionToDomain(model), nil
}

func (r *MenuRepository) UpdateSection(ctx context.Context, s domain.MenuSection) (domain.MenuSection, error) {
	var model menuSectionModel
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		res := tx.Model(&menuSectionModel{}).
			Where("id = ? AND is_deleted = ?", s.ID, false).
			Updates(map[string]any{"name": s.Name, "updated_at": time.Now().UTC()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return tx.Where("id = ?", s.ID).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.MenuSection{}, err
		}
		return domain.MenuSection{}, fmt.Errorf("update section: %w", err)
	}
	return sectionToDomain(model), nil
}

func (r *MenuRepository) SoftDeleteSection(ctx context.Context, id int64) (bool, error) {
	return r.softDelete(ctx, &menuSectionModel{}, id, "soft delete section")
}

func (r *MenuRepository) CreateItem(ctx context.Context, i domain.MenuItem) (domain.MenuItem, error) {
	now := time.Now().UTC()
	model := menuItemModel{
		SectionID:   i.SectionID,
		Name:        i.Name,
		Description: i.Description,
		PhotoLink:   i.PhotoLink,
		Price:       i.Price,
		Type:        i.Type,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("create item: %w", err)
	}
	return itemToDomain(model), nil
}

func (r *MenuRepository) GetItem(ctx context.Context, id int64) (domain.MenuItem, error) {
	var model menuItemModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("id = ? AND is_deleted = ?", id, false).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.MenuItem{}, domain.ErrNotFound
		}
		return domain.MenuItem{}, fmt.Errorf("get item: %w", err)
	}
	return itemToDomain(model), nil
}

func (r *MenuRepository) UpdateItem(ctx context.Context, i domain.MenuItem) (domain.MenuItem, error) {
	var model menuItemModel
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		res := tx.Model(&menuItemModel{}).
			Where("id = ? AND is_deleted = ?", i.ID, false).
			Updates(map[string]any{
				"name":        i.Name,
				"description": i.Description,
				"photo_link":  i.PhotoLink,
				"price":       i.Price,
				"type":        i.Type,
				"updated_at":  time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return tx.Where("id = ?", i.ID).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.MenuItem{}, err
		}
		return domain.MenuItem{}, fmt.Errorf("update item: %w", err)
	}
	return itemToDomain(model), nil
}

func (r *MenuRepository) SoftDeleteItem(ctx context.Context, id int64) (bool, error) {
	return r.softDelete(ctx, &menuItemModel{}, id, "soft delete item")
}

func (r *MenuRepository) RestaurantForMenu(ctx context.Context, menuID int64) (int64, error) {
	var restaurantID int64
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Model(&menuModel{}).
			Where("id = ? AND is_deleted = ?", menuID, false).
			Select("restaurant_id").
			Scan(&restaurantID).Error
	})
	if err != nil {
		return 0, fmt.Errorf("restaurant for menu: %w", err)
	}
	if restaurantID == 0 {
		return 0, domain.ErrNotFound
	}
	return restaurantID, nil
}

func (r *MenuRepository) RestaurantForSection(ctx context.Context, sectionID int64) (int64, error) {
	var restaurantID int64
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Model(&menuSectionModel{}).
			Select("menus.restaurant_id").
			Joins("JOIN menus ON menus.id = menu_sections.menu_id AND menus.is_deleted = ?", false).
			Where("menu_sections.id = ? AND menu_sections.is_deleted = ?", sectionID, false).
			Scan(&restaurantID).Error
	})
	if err != nil {
		return 0, fmt.Errorf("restaurant for section: %w", err)
	}
	if restaurantID == 0 {
		return 0, domain.ErrNotFound
	}
	return restaurantID, nil
}

func (r *MenuRepository) RestaurantForItem(ctx context.Context, itemID int64) (int64, error) {
	var restaurantID int64
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Model(&menuItemModel{}).
			Select("menus.restaurant_id").
			Joins("JOIN menu_sections ON menu_sections.id = menu_items.section_id AND menu_sections.is_deleted = ?", false).
			Joins("JOIN menus ON menus.id = menu_sections.menu_id AND menus.is_deleted = ?", false).
			Where("menu_items.id = ? AND menu_items.is_deleted = ?", itemID, false).
			Scan(&restaurantID).Error
	})
	if err != nil {
		return 0, fmt.Errorf("restaurant for item: %w", err)
	}
	if restaurantID == 0 {
		return 0, domain.ErrNotFound
	}
	return restaurantID, nil
}

func (r *MenuRepository) softDelete(ctx context.Context, model any, id int64, op string) (bool, error) {
	var affected int64
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		res := tx.Model(model).
			Where("id = ? AND is_deleted = ?", id, false).
			Updates(map[string]any{"is_deleted": true, "updated_at": time.Now().UTC()})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected > 0, nil
}

func menuToDomain(model menuModel) domain.Menu {
	return domain.Menu{
		ID:           model.ID,
		RestaurantID: model.RestaurantID,
		Description:  model.Description,
		IsDeleted:    model.IsDeleted,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func sectionToDomain(model menuSectionModel) domain.MenuSection {
	return domain.MenuSection{
		ID:        model.ID,
		MenuID:    model.MenuID,
		Name:      model.Name,
		IsDeleted: model.IsDeleted,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func itemToDomain(model menuItemModel) domain.MenuItem {
	return domain.MenuItem{
		ID:          model.ID,
		SectionID:   model.SectionID,
		Name:        model.Name,
		Description: model.Description,
		PhotoLink:   model.PhotoLink,
		Price:       model.Price,
		Type:        model.Type,
		IsDeleted:   model.IsDeleted,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
