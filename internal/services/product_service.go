package services

import (
	"errors"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
)

// ProductService handles catalog browsing.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves active products, filtered by an optional
// free-text search over name+description and an optional category slug.
func (s *ProductService) GetAllProducts(search, categorySlug string) ([]models.Product, error) {
	return s.repo.GetAll(repositories.ProductFilter{
		Search:   search,
		Category: categorySlug,
	})
}

// GetProductBySlug retrieves a single active product by its slug.
func (s *ProductService) GetProductBySlug(slug string) (*models.Product, error) {
	product, err := s.repo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// GetCategories retrieves all catalog categories.
func (s *ProductService) GetCategories() ([]models.Category, error) {
	return s.repo.GetCategories()
}
