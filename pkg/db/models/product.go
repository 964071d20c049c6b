package models

import (
	"time"

	"github.com/floracare/storefront/pkg/enums"
	"github.com/floracare/storefront/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog row. The storefront treats it as read-only; rows are
// seeded by the shop owners through migrations or the admin tooling.
type Product struct {
	ID               uuid.UUID             `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string                `gorm:"not null" json:"name"`
	Description      string                `json:"description"`
	ShortDescription string                `json:"short_description"`
	Price            decimal.Decimal       `gorm:"type:numeric(12,2);not null" json:"price"`
	Category         enums.ProductCategory `gorm:"type:varchar(32);not null;index" json:"category"`
	Gender           *enums.ProductGender  `gorm:"type:varchar(16)" json:"gender,omitempty"`
	Scent            string                `json:"scent"`
	ImageURL         string                `json:"image_url"`
	Ingredients      string                `json:"ingredients"`
	Benefits         types.StringList      `gorm:"type:text" json:"benefits"`
	Size             string                `json:"size"`
	Stock            int                   `gorm:"not null;default:0" json:"stock"`
	Featured         bool                  `gorm:"not null;default:false" json:"featured"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// BeforeCreate assigns the primary key when the caller left it empty.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
