package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product.Stock is the authoritative available-to-sell count. Every mutation
// of it goes through repo.AdjustStock; nothing else writes the column.
type Product struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"       json:"id"`
	VendorID          uuid.UUID `gorm:"type:uuid;index;not null"   json:"vendor_id"`
	Name              string    `gorm:"not null"                   json:"name"`
	Description       string    `json:"description"`
	Price             float64   `gorm:"not null"                   json:"price"`
	Quantity          int       `json:"quantity"`
	Stock             int       `gorm:"not null;check:stock>=0"    json:"stock"`
	LowStockThreshold int       `gorm:"default:0"                  json:"low_stock_threshold"`
	IsActive          bool      `gorm:"default:false"              json:"is_active"`
	CategoryIDs       []string  `gorm:"serializer:json"            json:"category_ids"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// CartItem is one cart line; a user's cart is the set of their lines.
// Price is snapshotted at add-time and kept while the line exists.
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                              json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_product;not null"   json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_product;not null"   json:"product_id"`
	Quantity  int       `gorm:"not null;check:quantity>0"                         json:"quantity"`
	Price     float64   `gorm:"not null"                                          json:"price"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

type Cart struct {
	UserID      uuid.UUID  `json:"user_id"`
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"total_amount"`
}

const (
	OrderStatusProcessing            = "Processing"
	OrderStatusPartiallyDelivered    = "Partially Delivered"
	OrderStatusDelivered             = "Delivered"
	OrderStatusCancellationRequested = "Cancellation Requested"
	OrderStatusCanceled              = "Canceled"
)

const (
	OrderItemStatusPending   = "Pending"
	OrderItemStatusReady     = "Ready"
	OrderItemStatusDelivered = "Delivered"
)

// Order membership is immutable after creation; only the status fields and
// CancellationNote change.
type Order struct {
	ID               uuid.UUID   `gorm:"type:uuid;primaryKey"     json:"id"`
	UserID           uuid.UUID   `gorm:"type:uuid;index;not null" json:"user_id"`
	OrderDate        time.Time   `gorm:"not null"                 json:"order_date"`
	Status           string      `gorm:"not null"                 json:"status"`
	Total            float64     `gorm:"not null"                 json:"total"`
	CancellationNote string      `json:"cancellation_note,omitempty"`
	Items            []OrderItem `gorm:"foreignKey:OrderID"       json:"items"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (o *Order) IsFullyDelivered() bool {
	for _, item := range o.Items {
		if item.Status != OrderItemStatusDelivered {
			return false
		}
	}
	return len(o.Items) > 0
}

// OrderItem.VendorID is copied from the product at creation and scopes
// vendor delivery actions. Restocked marks lines whose stock has already been
// returned during cancellation, so ApproveCancelOrder can be retried without
// restoring the same line twice.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"       json:"product_id"`
	VendorID  uuid.UUID `gorm:"type:uuid;index;not null" json:"vendor_id"`
	Quantity  int       `gorm:"not null"                 json:"quantity"`
	Price     float64   `gorm:"not null"                 json:"price"`
	Status    string    `gorm:"not null"                 json:"status"`
	Restocked bool      `gorm:"default:false"            json:"-"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

const (
	RoleCustomer      = "Customer"
	RoleVendor        = "Vendor"
	RoleCSR           = "CSR"
	RoleAdministrator = "Administrator"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null"      json:"username"`
	PasswordHash string    `gorm:"not null"             json:"-"`
	Role         string    `gorm:"not null"             json:"role"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Message   string    `gorm:"not null"                 json:"message"`
	CreatedAt time.Time `json:"created_at"`
	IsRead    bool      `gorm:"default:false"            json:"is_read"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
