package ports

import (
	"context"

	"github.com/atvirokodosprendimai/menuapi/internal/core/domain"
)

type RestaurantRepository interface {
	Create(ctx context.Context, r domain.Restaurant) (domain.Restaurant, error)
	Get(ctx context.Context, id int64) (domain.Restaurant, error)
	Update(ctx context.Context, r domain.Restaurant) (domain.Restaurant, error)
	SetPaymentSecret(ctx context.Context, id int64, ciphertext string) error
	SoftDelete(ctx context.Context, id int64) (bool, error)
	// FindInBoundingBox returns active restaurants whose coordinates fall
	// inside box, in no particular order.
	FindInBoundingBox(ctx context.Context, box domain.BoundingBox) ([]domain.Restaurant, error)
}

type AdminUserRepository interface {
	Create(ctx context.Context, u domain.AdminUser) (domain.AdminUser, error)
	Get(ctx context.Context, id int64) (domain.AdminUser, error)
	FindByEmail(ctx context.Context, email string) (domain.AdminUser, error)
}

type APIKeyRepository interface {
	Create(ctx context.Context, key domain.APIKey) error
	// FindActive returns non-deleted keys, scoped to restaurantID when it is
	// positive, across all restaurants otherwise.
	FindActive(ctx context.Context, restaurantID int64) ([]domain.APIKey, error)
	SoftDelete(ctx context.Context, id string) (bool, error)
}

type TableRepository interface {
	Create(ctx context.Context, t domain.RestaurantTable) (domain.RestaurantTable, error)
	Get(ctx context.Context, id int64) (domain.RestaurantTable, error)
	ListByRestaurant(ctx context.Context, restaurantID int64) ([]domain.RestaurantTable, error)
	Update(ctx context.Context, t domain.RestaurantTable) (domain.RestaurantTable, error)
	SoftDelete(ctx context.Context, id int64) (bool, error)
}

type MenuRepository interface {
	CreateMenu(ctx context.Context, m domain.Menu) (domain.Menu, error)
	GetMenu(ctx context.Context, id int64) (domain.Menu, error)
	UpdateMenu(ctx context.Context, m domain.Menu) (domain.Menu, error)
	SoftDeleteMenu(ctx context.Context, id int64) (bool, error)

	CreateSection(ctx context.Context, s domain.MenuSection) (domain.MenuSection, error)
	GetSection(ctx context.Context, id int64) (domain.MenuSection, error)
	UpdateSection(ctx context.Context, s domain.MenuSection) (domain.MenuSection, error)
	SoftDeleteSection(ctx context.Context, id int64) (bool, error)

	CreateItem(ctx context.Context, i domain.MenuItem) (domain.MenuItem, error)
	GetItem(ctx context.Context, id int64) (domain.MenuItem, error)
	UpdateItem(ctx context.Context, i domain.MenuItem) (domain.MenuItem, error)
	SoftDeleteItem(ctx context.Context, id int64) (bool, error)

	// RestaurantForMenu / RestaurantForSection / RestaurantForItem walk the
	// menu hierarchy up to the owning restaurant for authorization checks.
	RestaurantForMenu(ctx context.Context, menuID int64) (int64, error)
	RestaurantForSection(ctx context.Context, sectionID int64) (int64, error)
	RestaurantForItem(ctx context.Context, itemID int64) (int64, error)
}

type OrderRepository interface {
	// CreateWithItems inserts the order header, its line items and the
	// order.created outbox event in one write transaction.
	CreateWithItems(ctx context.Context, order domain.Order, envelope domain.EventEnvelope) (domain.Order, error)
	Get(ctx context.Context, id int64) (domain.Order, error)
	ListOpenByRestaurant(ctx context.Context, restaurantID int64) ([]domain.Order, error)
	ListItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	// MarkComplete / MarkPaid flip the flag and enqueue envelope atomically.
	MarkComplete(ctx context.Context, id int64, envelope domain.EventEnvelope) (bool, error)
	MarkPaid(ctx context.Context, id int64, envelope domain.EventEnvelope) (bool, error)
}

type RatingRepository interface {
	Create(ctx context.Context, r domain.Rating) (domain.Rating, error)
	List(ctx context.Context) ([]domain.Rating, error)
}

type OutboxRepository interface {
	FetchPending(ctx context.Context, limit int) ([]domain.OutboxEvent, error)
	MarkDispatched(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, attempts int, nextAttemptAt string, errMsg string) error
	MarkDead(ctx context.Context, id int64, attempts int, errMsg string) error
}
