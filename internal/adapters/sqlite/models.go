package sqlite

import "time"

type adminUserModel struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string    `gorm:"column:name;not null"`
	Email        string    `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null"`
}

func (adminUserModel) TableName() string { return "admin_users" }

type restaurantModel struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name          string    `gorm:"column:name;not null"`
	OwnerID       int64     `gorm:"column:owner_id;not null"`
	Latitude      float64   `gorm:"column:latitude;not null"`
	Longitude     float64   `gorm:"column:longitude;not null"`
	OpeningHour   int       `gorm:"column:opening_hour;not null"`
	ClosingHour   int       `gorm:"column:closing_hour;not null"`
	TableCount    int       `gorm:"column:table_count;not null"`
	PaymentSecret string    `gorm:"column:payment_secret;not null"`
	IsDeleted     bool      `gorm:"column:is_deleted;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;not null"`
	UpdatedAt     time.Time `gorm:"column:updated_at;not null"`
}

func (restaurantModel) TableName() string { return "restaurants" }

type apiKeyModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	RestaurantID int64     `gorm:"column:restaurant_id;not null"`
	KeyHash      string    `gorm:"column:key_hash;not null"`
	IsDeleted    bool      `gorm:"column:is_deleted;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
}

func (apiKeyModel) TableName() string { return "api_keys" }

type tableModel struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	RestaurantID int64     `gorm:"column:restaurant_id;not null"`
	TableNumber  int       `gorm:"column:table_number;not null"`
	Name         string    `gorm:"column:name;not null"`
	IsDeleted    bool      `gorm:"column:is_deleted;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
}

func (tableModel) TableName() string { return "restaurant_tables" }

type menuModel struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	RestaurantID int64     `gorm:"column:restaurant_id;not null"`
	Description  string    `gorm:"column:description;not null"`
	IsDeleted    bool      `gorm:"column:is_deleted;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null"`
}

func (menuModel) TableName() string { return "menus" }

type menuSectionModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	MenuID    int64     `gorm:"column:menu_id;not null"`
	Name      string    `gorm:"column:name;not null"`
	IsDeleted bool      `gorm:"column:is_deleted;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (menuSectionModel) TableName() string { return "menu_sections" }

type menuItemModel struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	SectionID   int64     `gorm:"column:section_id;not null"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description;not null"`
	PhotoLink   string    `gorm:"column:photo_link;not null"`
	Price       float64   `gorm:"column:price;not null"`
	Type        string    `gorm:"column:type;not null"`
	IsDeleted   bool      `gorm:"column:is_deleted;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null"`
}

func (menuItemModel) TableName() string { return "menu_items" }

type orderModel struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	RestaurantID int64     `gorm:"column:restaurant_id;not null"`
	TableID      int64     `gorm:"column:table_id;not null"`
	Total        float64   `gorm:"column:total;not null"`
	IsComplete   bool      `gorm:"column:is_complete;not null"`
	IsPaid       bool      `gorm:"column:is_paid;not null"`
	Comment      string    `gorm:"column:comment;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
}

func (orderModel) TableName() string { return "orders" }

type orderItemModel struct {
	ID         int64   `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID    int64   `gorm:"column:order_id;not null"`
	MenuItemID int64   `gorm:"column:menu_item_id;not null"`
	Name       string  `gorm:"column:name;not null"`
	UnitPrice  float64 `gorm:"column:unit_price;not null"`
}

func (orderItemModel) TableName() string { return "order_items" }

type ratingModel struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	RestaurantID int64     `gorm:"column:restaurant_id;not null"`
	Rating       int       `gorm:"column:rating;not null"`
	Text         string    `gorm:"column:text;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
}

func (ratingModel) TableName() string { return "ratings" }

type outboxEventModel struct {
	ID            int64      `gorm:"column:id;primaryKey;autoIncrement"`
	EventID       string     `gorm:"column:event_id;not null"`
	RestaurantID  int64      `gorm:"column:restaurant_id;not null"`
	Topic         string     `gorm:"column:topic;not null"`
	PayloadJSON   string     `gorm:"column:payload_json;not null"`
	Status        string     `gorm:"column:status;not null"`
	Attempts      int        `gorm:"column:attempts;not null"`
	NextAttemptAt time.Time  `gorm:"column:next_attempt_at;not null"`
	LastError     string     `gorm:"column:last_error;not null"`
	CreatedAt     time.Time  `gorm:"column:created_at;not null"`
	DispatchedAt  *time.Time `gorm:"column:dispatched_at"`
}

func (outboxEventModel) TableName() string { return "outbox_events" }
