package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CashLog struct {
	ID            uuid.UUID      `json:"id"`
	Type          string         `json:"type"`
	Amount        pgtype.Numeric `json:"amount"`
	OrderID       pgtype.UUID    `json:"order_id"`
	PaymentMethod pgtype.Text    `json:"payment_method"`
	Description   pgtype.Text    `json:"description"`
	UserID        pgtype.UUID    `json:"user_id"`
	BusinessDate  pgtype.Date    `json:"business_date"`
	CreatedAt     time.Time      `json:"created_at"`
}

type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SortOrder int32     `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Combo struct {
	ID                 uuid.UUID      `json:"id"`
	CategoryID         uuid.UUID      `json:"category_id"`
	Name               string         `json:"name"`
	Description        pgtype.Text    `json:"description"`
	Price              pgtype.Numeric `json:"price"`
	ImageUrl           pgtype.Text    `json:"image_url"`
	IsPizza            bool           `json:"is_pizza"`
	PizzaQuantity      int32          `json:"pizza_quantity"`
	AllowCustomization bool           `json:"allow_customization"`
	IsActive           bool           `json:"is_active"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

type DeliveryArea struct {
	ID           uuid.UUID      `json:"id"`
	Neighborhood string         `json:"neighborhood"`
	Fee          pgtype.Numeric `json:"fee"`
	IsActive     bool           `json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type ExtraItem struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Category  string         `json:"category"`
	Price     pgtype.Numeric `json:"price"`
	SizeName  pgtype.Text    `json:"size_name"`
	IsActive  bool           `json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type Order struct {
	ID              uuid.UUID          `json:"id"`
	OrderNumber     string             `json:"order_number"`
	UserID          pgtype.UUID        `json:"user_id"`
	CustomerName    string             `json:"customer_name"`
	CustomerPhone   pgtype.Text        `json:"customer_phone"`
	DeliveryType    string             `json:"delivery_type"`
	DeliveryAreaID  pgtype.UUID        `json:"delivery_area_id"`
	DeliveryAddress pgtype.Text        `json:"delivery_address"`
	DeliveryFee     pgtype.Numeric     `json:"delivery_fee"`
	PaymentMethod   string             `json:"payment_method"`
	ChangeFor       pgtype.Numeric     `json:"change_for"`
	Subtotal        pgtype.Numeric     `json:"subtotal"`
	Total           pgtype.Numeric     `json:"total"`
	Status          string             `json:"status"`
	Source          string             `json:"source"`
	IfoodOrderID    pgtype.Text        `json:"ifood_order_id"`
	Notes           pgtype.Text        `json:"notes"`
	ConfirmedAt     pgtype.Timestamptz `json:"confirmed_at"`
	ConfirmedBy     pgtype.UUID        `json:"confirmed_by"`
	DeliveredAt     pgtype.Timestamptz `json:"delivered_at"`
	DeliveredBy     pgtype.UUID        `json:"delivered_by"`
	DeliveryPerson  pgtype.Text        `json:"delivery_person"`
	CancelledAt     pgtype.Timestamptz `json:"cancelled_at"`
	CancelledBy     pgtype.UUID        `json:"cancelled_by"`
	CancelReason    pgtype.Text        `json:"cancel_reason"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

type OrderItem struct {
	ID            uuid.UUID      `json:"id"`
	OrderID       uuid.UUID      `json:"order_id"`
	ComboID       uuid.UUID      `json:"combo_id"`
	ComboName     string         `json:"combo_name"`
	SizeName      pgtype.Text    `json:"size_name"`
	Flavors       []string       `json:"flavors"`
	SecondFlavors []string       `json:"second_flavors"`
	Extras        []string       `json:"extras"`
	StuffedCrust  bool           `json:"stuffed_crust"`
	Observations  pgtype.Text    `json:"observations"`
	Quantity      int32          `json:"quantity"`
	UnitPrice     pgtype.Numeric `json:"unit_price"`
	TotalPrice    pgtype.Numeric `json:"total_price"`
	CreatedAt     time.Time      `json:"created_at"`
}

type OrderStatusLog struct {
	ID        uuid.UUID   `json:"id"`
	OrderID   uuid.UUID   `json:"order_id"`
	Status    string      `json:"status"`
	ChangedBy pgtype.UUID `json:"changed_by"`
	Note      pgtype.Text `json:"note"`
	CreatedAt time.Time   `json:"created_at"`
}

type PizzaFlavor struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description pgtype.Text `json:"description"`
	Type        string      `json:"type"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type PizzaSize struct {
	ID         uuid.UUID      `json:"id"`
	ComboID    uuid.UUID      `json:"combo_id"`
	Name       string         `json:"name"`
	Slices     int32          `json:"slices"`
	MaxFlavors int32          `json:"max_flavors"`
	BasePrice  pgtype.Numeric `json:"base_price"`
	SortOrder  int32          `json:"sort_order"`
	CreatedAt  time.Time      `json:"created_at"`
}

type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

type User struct {
	ID             uuid.UUID   `json:"id"`
	Email          string      `json:"email"`
	HashedPassword string      `json:"hashed_password"`
	FullName       string      `json:"full_name"`
	Phone          pgtype.Text `json:"phone"`
	Role           string      `json:"role"`
	IsActive       bool        `json:"is_active"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}
