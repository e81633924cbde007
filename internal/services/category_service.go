// internal/services/category_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/shop-backend/internal/models"
	"github.com/javajoker/shop-backend/internal/utils"
)

type CategoryService struct {
	db *gorm.DB
}

// TaxonomyRequest creates a category or brand. The slug is derived from the name when empty.
type TaxonomyRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Slug        string `json:"slug,omitempty" validate:"omitempty,max=120,slug"`
	Description string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Image       string `json:"image,omitempty" validate:"omitempty,max=500"`
}

type UpdateTaxonomyRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Slug        *string `json:"slug,omitempty" validate:"omitempty,max=120,slug"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Image       *string `json:"image,omitempty" validate:"omitempty,max=500"`
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Category %s not found", slug)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &category, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Category %d not found", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &category, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, req *TaxonomyRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.InvalidInput(err)
	}

	slug, err := resolveSlug(req.Slug, req.Name)
	if err != nil {
		return nil, err
	}
	if err := ensureSlugFree(s.db.WithContext(ctx), &models.Category{}, slug, 0); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug,
		Description: req.Description,
		Image:       req.Image,
	}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.Conflict("slug %q is already in use", slug)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id uint, req *UpdateTaxonomyRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.InvalidInput(err)
	}

	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	updates, err := taxonomyUpdates(s.db.WithContext(ctx), &models.Category{}, id, req)
	if err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(category).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, utils.Conflict("slug is already in use")
			}
			return nil, fmt.Errorf("failed to update category: %w", err)
		}
	}

	return s.GetCategory(ctx, id)
}

// DeleteCategory removes the category and clears it from any product that referenced it.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}

	var detached int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Product{}).Where("category_id = ?", id).Update("category_id", nil)
		if result.Error != nil {
			return fmt.Errorf("failed to detach products: %w", result.Error)
		}
		detached = result.RowsAffected

		if err := tx.Delete(&models.Category{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"category_id":       id,
		"slug":              category.Slug,
		"products_detached": detached,
	}).Info("Category deleted")
	return nil
}

func resolveSlug(slug, name string) (string, error) {
	if slug == "" {
		slug = utils.Slugify(name)
	}
	if slug == "" {
		return "", utils.InvalidState("a slug could not be derived from name %q", name)
	}
	return slug, nil
}

// ensureSlugFree reports a conflict when another row of model already uses slug.
func ensureSlugFree(db *gorm.DB, model interface{}, slug string, exceptID uint) error {
	var count int64
	query := db.Model(model).Where("slug = ?", slug)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return utils.Conflict("slug %q is already in use", slug)
	}
	return nil
}

func taxonomyUpdates(db *gorm.DB, model interface{}, id uint, req *UpdateTaxonomyRequest) (map[string]interface{}, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		if err := ensureSlugFree(db, model, *req.Slug, id); err != nil {
			return nil, err
		}
		updates["slug"] = *req.Slug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	return updates, nil
}
