// internal/services/product_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/shop-backend/internal/models"
	"github.com/javajoker/shop-backend/internal/utils"
)

const (
	SortNewest    = "newest"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortRating    = "rating"
)

var productSortOptions = utils.SortOptions{
	SortNewest:    "products.created_at DESC, products.id DESC",
	SortPriceAsc:  "products.price ASC, products.id ASC",
	SortPriceDesc: "products.price DESC, products.id DESC",
	SortRating:    "products.rating DESC, products.reviews DESC, products.id DESC",
}

type ProductService struct {
	db          *gorm.DB
	redisClient *redis.Client
	cacheTTL    time.Duration
}

type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Description string           `json:"description" validate:"max=5000"`
	Price       decimal.Decimal  `json:"price" validate:"gte=0"`
	CategoryID  *uint            `json:"category_id,omitempty" validate:"omitempty,min=1"`
	BrandID     *uint            `json:"brand_id,omitempty" validate:"omitempty,min=1"`
	Image       string           `json:"image,omitempty" validate:"omitempty,max=500"`
	BgColor     string           `json:"bg_color,omitempty" validate:"omitempty,max=20"`
	Featured    bool             `json:"featured"`
	InStock     *bool            `json:"in_stock,omitempty"`
	Rating      *decimal.Decimal `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Reviews     *int             `json:"reviews,omitempty" validate:"omitempty,gte=0"`
}

// UpdateProductRequest is a partial update. A category_id or brand_id of 0 clears the reference.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=5000"`
	Price       *decimal.Decimal `json:"price,omitempty" validate:"omitempty,gte=0"`
	CategoryID  *uint            `json:"category_id,omitempty"`
	BrandID     *uint            `json:"brand_id,omitempty"`
	Image       *string          `json:"image,omitempty" validate:"omitempty,max=500"`
	BgColor     *string          `json:"bg_color,omitempty" validate:"omitempty,max=20"`
	Featured    *bool            `json:"featured,omitempty"`
	InStock     *bool            `json:"in_stock,omitempty"`
	Rating      *decimal.Decimal `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Reviews     *int             `json:"reviews,omitempty" validate:"omitempty,gte=0"`
}

// ProductFilter holds independently optional filters; every set field narrows the result.
type ProductFilter struct {
	utils.PaginationParams
	CategoryID   *uint
	CategorySlug string
	BrandID      *uint
	BrandSlug    string
	Featured     *bool
	InStock      *bool
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
}

func NewProductService(db *gorm.DB, redisClient *redis.Client, cacheTTL time.Duration) *ProductService {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &ProductService{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

func (s *ProductService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.InvalidInput(err)
	}

	if err := s.checkReferences(req.CategoryID, req.BrandID); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price.Round(2),
		CategoryID:  req.CategoryID,
		BrandID:     req.BrandID,
		Image:       req.Image,
		BgColor:     req.BgColor,
		Featured:    req.Featured,
		InStock:     true,
	}
	if req.InStock != nil {
		product.InStock = *req.InStock
	}
	if req.Rating != nil {
		product.Rating = req.Rating.Round(2)
	}
	if req.Reviews != nil {
		product.Reviews = *req.Reviews
	}

	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return s.loadProduct(ctx, product.ID)
}

func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	cacheKey := productCacheKey(id)

	// Try cache
	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var product models.Product
			if json.Unmarshal([]byte(cached), &product) == nil {
				return &product, nil
			}
		}
	}

	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	// Write to cache
	if s.redisClient != nil {
		if data, err := json.Marshal(product); err == nil {
			if err := s.redisClient.Set(ctx, cacheKey, data, s.cacheTTL).Err(); err != nil {
				logrus.WithError(err).WithField("product_id", id).Warn("Failed to cache product")
			}
		}
	}

	return product, nil
}

func (s *ProductService) loadProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Preload("Category").Preload("Brand").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Product %d not found", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id uint, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.InvalidInput(err)
	}

	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	// Prepare updates
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = req.Price.Round(2)
	}
	if req.CategoryID != nil {
		if *req.CategoryID == 0 {
			updates["category_id"] = nil
		} else {
			if err := s.checkReferences(req.CategoryID, nil); err != nil {
				return nil, err
			}
			updates["category_id"] = *req.CategoryID
		}
	}
	if req.BrandID != nil {
		if *req.BrandID == 0 {
			updates["brand_id"] = nil
		} else {
			if err := s.checkReferences(nil, req.BrandID); err != nil {
				return nil, err
			}
			updates["brand_id"] = *req.BrandID
		}
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.BgColor != nil {
		updates["bg_color"] = *req.BgColor
	}
	if req.Featured != nil {
		updates["featured"] = *req.Featured
	}
	if req.InStock != nil {
		updates["in_stock"] = *req.InStock
	}
	if req.Rating != nil {
		updates["rating"] = req.Rating.Round(2)
	}
	if req.Reviews != nil {
		updates["reviews"] = *req.Reviews
	}

	if len(updates) > 0 {
		// Bare model: the preloaded Category/Brand would otherwise overwrite the new foreign keys.
		if err := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", product.ID).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
		s.invalidateCache(ctx, id)
	}

	return s.loadProduct(ctx, id)
}

// DeleteProduct refuses to remove products that appear on any order.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return err
	}

	var itemCount int64
	if err := s.db.WithContext(ctx).Model(&models.OrderItem{}).Where("product_id = ?", id).Count(&itemCount).Error; err != nil {
		return fmt.Errorf("failed to check order items: %w", err)
	}
	if itemCount > 0 {
		return utils.Conflict("cannot delete product %q: it is referenced by %d order item(s)", product.Name, itemCount)
	}

	if err := s.db.WithContext(ctx).Delete(&models.Product{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.invalidateCache(ctx, id)
	return nil
}

func (s *ProductService) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	filter.PaginationParams = utils.NormalizePagination(filter.PaginationParams)

	// Get total count
	var total int64
	if err := s.filteredQuery(ctx, filter).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := s.filteredQuery(ctx, filter).Preload("Category").Preload("Brand")
	query = utils.ApplySort(query, filter.PaginationParams, productSortOptions, SortNewest)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	products := []models.Product{}
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

func (s *ProductService) filteredQuery(ctx context.Context, filter ProductFilter) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Product{})

	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.CategorySlug != "" {
		query = query.Where("products.category_id IN (?)",
			s.db.Model(&models.Category{}).Select("id").Where("slug = ?", filter.CategorySlug))
	}
	if filter.BrandID != nil {
		query = query.Where("products.brand_id = ?", *filter.BrandID)
	}
	if filter.BrandSlug != "" {
		query = query.Where("products.brand_id IN (?)",
			s.db.Model(&models.Brand{}).Select("id").Where("slug = ?", filter.BrandSlug))
	}
	if filter.Featured != nil {
		query = query.Where("products.featured = ?", *filter.Featured)
	}
	if filter.InStock != nil {
		query = query.Where("products.in_stock = ?", *filter.InStock)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		searchTerm := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?)", searchTerm, searchTerm)
	}
	if filter.MinPrice != nil {
		query = query.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}

	return query
}

func (s *ProductService) GetFeaturedProducts(ctx context.Context, limit int) ([]models.Product, error) {
	if limit < 1 || limit > utils.MaxPageLimit {
		limit = 8
	}

	products := []models.Product{}
	if err := s.db.WithContext(ctx).Preload("Category").Preload("Brand").
		Where("featured = ?", true).
		Order("rating DESC, created_at DESC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch featured products: %w", err)
	}

	return products, nil
}

func (s *ProductService) checkReferences(categoryID, brandID *uint) error {
	if categoryID != nil {
		var count int64
		if err := s.db.Model(&models.Category{}).Where("id = ?", *categoryID).Count(&count).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if count == 0 {
			return utils.NotFound("Category %d not found", *categoryID)
		}
	}
	if brandID != nil {
		var count int64
		if err := s.db.Model(&models.Brand{}).Where("id = ?", *brandID).Count(&count).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if count == 0 {
			return utils.NotFound("Brand %d not found", *brandID)
		}
	}
	return nil
}

func (s *ProductService) invalidateCache(ctx context.Context, id uint) {
	if s.redisClient != nil {
		s.redisClient.Del(ctx, productCacheKey(id))
	}
}

func productCacheKey(id uint) string {
	return "product:" + strconv.FormatUint(uint64(id), 10)
}
