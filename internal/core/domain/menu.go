package domain

import (
	"strings"
	"time"
)

type Menu struct {
	ID           int64
	RestaurantID int64
	Description  string
	IsDeleted    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (m Menu) Validate() error {
	if m.RestaurantID <= 0 {
		return Invalid("restaurant id is required")
	}
	if strings.TrimSpace(m.Description) == "" {
		return Invalid("description is required")
	}
	return nil
}

type MenuSection struct {
	ID        int64
	MenuID    int64
	Name      string
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s MenuSection) Validate() error {
	if s.MenuID <= 0 {
		return Invalid("menu id is required")
	}
	if strings.TrimSpace(s.Name) == "" {
		return Invalid("name is required")
	}
	return nil
}

type MenuItem struct {
	ID          int64
	SectionID   int64
	Name        string
	Description string
	PhotoLink   string
	Price       float64
	Type        string
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (i MenuItem) Validate() error {
	if i.SectionID <= 0 {
		return Invalid("section id is required")
	}
	if strings.TrimSpace(i.Name) == "" {
		return Invalid("name is required")
	}
	if i.Price < 0 {
		return Invalid("price must not be negative")
	}
	return nil
}
