package models

import "time"

// Category groups products for catalog browsing.
type Category struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Slug        string `json:"slug" gorm:"uniqueIndex;type:varchar(120)" validate:"required,max=120"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

// Product represents a catalog product. Stock is informational only:
// nothing in the cart or checkout path reserves or decrements it.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string    `json:"name" validate:"required,min=3,max=100"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;type:varchar(120)" validate:"required,max=120"`
	Description string    `json:"description" validate:"omitempty,max=500"`
	Price       float64   `json:"price" validate:"gte=0"`
	Stock       int       `json:"stock" validate:"gte=0"`
	IsActive    bool      `json:"is_active"`
	CategoryID  string    `json:"category_id" gorm:"type:varchar(36);index"`
	Category    *Category `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// InStock reports whether the product currently has stock available.
func (p *Product) InStock() bool {
	return p.Stock > 0
}
