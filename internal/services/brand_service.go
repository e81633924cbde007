// internal/services/brand_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/javajoker/shop-backend/internal/models"
	"github.com/javajoker/shop-backend/internal/utils"
)

type BrandService struct {
	db *gorm.DB
}

func NewBrandService(db *gorm.DB) *BrandService {
	return &BrandService{db: db}
}

func (s *BrandService) ListBrands(ctx context.Context) ([]models.Brand, error) {
	brands := []models.Brand{}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&brands).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch brands: %w", err)
	}
	return brands, nil
}

func (s *BrandService) GetBrandBySlug(ctx context.Context, slug string) (*models.Brand, error) {
	var brand models.Brand
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Brand %s not found", slug)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &brand, nil
}

func (s *BrandService) GetBrand(ctx context.Context, id uint) (*models.Brand, error) {
	var brand models.Brand
	if err := s.db.WithContext(ctx).First(&brand, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Brand %d not found", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &brand, nil
}

func (s *BrandService) CreateBrand(ctx context.Context, req *TaxonomyRequest) (*models.Brand, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.InvalidInput(err)
	}

	slug, err := resolveSlug(req.Slug, req.Name)
	if err != nil {
		return nil, err
	}
	if err := ensureSlugFree(s.db.WithContext(ctx), &models.Brand{}, slug, 0); err != nil {
		return nil, err
	}

	brand := &models.Brand{
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug,
		Description: req.Description,
		Image:       req.Image,
	}
	if err := s.db.WithContext(ctx).Create(brand).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.Conflict("slug %q is already in use", slug)
		}
		return nil, fmt.Errorf("failed to create brand: %w", err)
	}

	return brand, nil
}

func (s *BrandService) UpdateBrand(ctx context.Context, id uint, req *UpdateTaxonomyRequest) (*models.Brand, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.InvalidInput(err)
	}

	brand, err := s.GetBrand(ctx, id)
	if err != nil {
		return nil, err
	}

	updates, err := taxonomyUpdates(s.db.WithContext(ctx), &models.Brand{}, id, req)
	if err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(brand).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, utils.Conflict("slug is already in use")
			}
			return nil, fmt.Errorf("failed to update brand: %w", err)
		}
	}

	return s.GetBrand(ctx, id)
}

// DeleteBrand is refused while any product still references the brand.
func (s *BrandService) DeleteBrand(ctx context.Context, id uint) error {
	brand, err := s.GetBrand(ctx, id)
	if err != nil {
		return err
	}

	var productCount int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Where("brand_id = ?", id).Count(&productCount).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if productCount > 0 {
		return utils.Conflict("cannot delete brand %q: %d product(s) still reference it", brand.Name, productCount)
	}

	if err := s.db.WithContext(ctx).Delete(&models.Brand{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete brand: %w", err)
	}
	return nil
}
