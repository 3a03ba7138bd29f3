package services

import (
	"errors"

	"github.com/yeremiapane/junkeats-app/models"
	"gorm.io/gorm"
)

// Catalog reads the seeded, read-only menu.
type Catalog struct {
	DB *gorm.DB
}

func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{DB: db}
}

// List returns all products, or those of one category when category is set.
func (c *Catalog) List(category string) ([]models.Product, error) {
	q := c.DB.Order("id")
	if category != "" {
		if !models.IsValidCategory(category) {
			return nil, ErrInvalidCategory
		}
		q = q.Where("category = ?", category)
	}
	var products []models.Product
	err := q.Find(&products).Error
	return products, err
}

func (c *Catalog) Bestsellers() ([]models.Product, error) {
	var products []models.Product
	err := c.DB.Where("bestseller = ?", true).Order("rating DESC").Order("id").Find(&products).Error
	return products, err
}

func (c *Catalog) Get(id uint) (*models.Product, error) {
	var p models.Product
	if err := c.DB.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetMany resolves ids in order. Any unknown id fails the whole lookup.
func (c *Catalog) GetMany(ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []models.Product
	if err := c.DB.Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, ErrProductNotFound
		}
		out = append(out, p)
	}
	return out, nil
}

func (c *Catalog) Categories() []string {
	return models.Categories
}
