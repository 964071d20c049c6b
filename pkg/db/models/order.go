package models

import (
	"time"

	"github.com/floracare/storefront/pkg/enums"
	"github.com/floracare/storefront/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is the submitted snapshot of a cart plus the customer form. The
// storefront inserts it once with status "new" and never touches it again;
// the remaining statuses belong to fulfillment.
type Order struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerName    string            `gorm:"not null" json:"customer_name"`
	CustomerEmail   string            `gorm:"not null" json:"customer_email"`
	CustomerPhone   string            `json:"customer_phone,omitempty"`
	DeliveryAddress string            `gorm:"not null" json:"delivery_address"`
	Items           types.OrderItems  `gorm:"type:text;not null" json:"items"`
	TotalAmount     decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	Status          enums.OrderStatus `gorm:"type:varchar(16);not null;default:'new'" json:"status"`
	Notes           string            `json:"notes,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// BeforeCreate assigns the primary key and default status.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Status == "" {
		o.Status = enums.OrderStatusNew
	}
	return nil
}
