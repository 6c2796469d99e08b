package repositories

import (
	"shopapi/internal/models"
)

// ProductFilter narrows catalog listings. Zero value means "all active
// products". Search matches name and description, Category matches a
// category slug.
type ProductFilter struct {
	Search   string
	Category string
}

// ProductRepository defines the interface for catalog data access.
// Listings only ever return active products; inactive products are
// invisible outside admin tooling, which is out of scope here.
type ProductRepository interface {
	GetAll(filter ProductFilter) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	GetCategories() ([]models.Category, error)
	Create(product *models.Product) error
	CreateCategory(category *models.Category) error
}
