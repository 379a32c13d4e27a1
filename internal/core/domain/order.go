package domain

import "time"

// Order is always scoped to one restaurant. Total is the sum of the line
// items' unit prices captured at creation time; later menu price changes do
// not alter it.
type Order struct {
	ID           int64
	RestaurantID int64
	TableID      int64
	Total        float64
	IsComplete   bool
	IsPaid       bool
	Comment      string
	CreatedAt    time.Time
	Items        []OrderItem
}

// OrderItem is one line of an order. UnitPrice is the menu item price at the
// moment the order was created.
type OrderItem struct {
	OrderID    int64
	MenuItemID int64
	Name       string
	UnitPrice  float64
}

type NewOrder struct {
	TableID     int64
	MenuItemIDs []int64
	Comment     string
}

func (o NewOrder) Validate() error {
	if o.TableID <= 0 {
		return Invalid("table id is required")
	}
	if len(o.MenuItemIDs) == 0 {
		return Invalid("at least one menu item is required")
	}
	for _, id := range o.MenuItemIDs {
		if id <= 0 {
			return Invalid("menu item ids must be positive")
		}
	}
	return nil
}

type Rating struct {
	ID           int64
	RestaurantID int64
	Rating       int
	Text         string
	CreatedAt    time.Time
}

func (r Rating) Validate() error {
	if r.RestaurantID <= 0 {
		return Invalid("restaurant id is required")
	}
	if r.Rating < 1 || r.Rating > 5 {
		return Invalid("rating must be in [1, 5]")
	}
	return nil
}
