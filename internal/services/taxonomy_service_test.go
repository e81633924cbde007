// internal/services/taxonomy_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/shop-backend/internal/models"
	"github.com/javajoker/shop-backend/internal/testutil"
	"github.com/javajoker/shop-backend/internal/utils"
)

func strPtr(s string) *string { return &s }

func TestCategoryService(t *testing.T) {
	db := testutil.NewTestDB(t)
	service := NewCategoryService(db)
	ctx := context.Background()

	t.Run("slug derived from name", func(t *testing.T) {
		category, err := service.CreateCategory(ctx, &TaxonomyRequest{Name: " Home & Garden "})
		require.NoError(t, err)
		assert.Equal(t, "Home & Garden", category.Name)
		assert.Equal(t, "home-garden", category.Slug)

		found, err := service.GetCategoryBySlug(ctx, "home-garden")
		require.NoError(t, err)
		assert.Equal(t, category.ID, found.ID)
	})

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		_, err := service.CreateCategory(ctx, &TaxonomyRequest{Name: "Home and Garden", Slug: "home-garden"})
		assert.True(t, utils.IsConflict(err))
	})

	t.Run("invalid slug rejected", func(t *testing.T) {
		_, err := service.CreateCategory(ctx, &TaxonomyRequest{Name: "Toys", Slug: "Toys & Games"})
		assert.True(t, utils.IsInvalidState(err))

		_, err = service.CreateCategory(ctx, &TaxonomyRequest{Name: "!!!"})
		assert.True(t, utils.IsInvalidState(err))
	})

	t.Run("list is ordered by name", func(t *testing.T) {
		_, err := service.CreateCategory(ctx, &TaxonomyRequest{Name: "Audio"})
		require.NoError(t, err)

		categories, err := service.ListCategories(ctx)
		require.NoError(t, err)
		require.Len(t, categories, 2)
		assert.Equal(t, "Audio", categories[0].Name)
	})

	t.Run("update", func(t *testing.T) {
		audio, err := service.GetCategoryBySlug(ctx, "audio")
		require.NoError(t, err)

		updated, err := service.UpdateCategory(ctx, audio.ID, &UpdateTaxonomyRequest{
			Name: strPtr("Audio & Hi-Fi"),
			Slug: strPtr("audio-hifi"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Audio & Hi-Fi", updated.Name)
		assert.Equal(t, "audio-hifi", updated.Slug)

		_, err = service.UpdateCategory(ctx, audio.ID, &UpdateTaxonomyRequest{Slug: strPtr("home-garden")})
		assert.True(t, utils.IsConflict(err))

		_, err = service.GetCategoryBySlug(ctx, "audio")
		assert.True(t, utils.IsNotFound(err))
	})

	t.Run("delete detaches products", func(t *testing.T) {
		category := testutil.CreateCategory(t, db, "Clearance", "clearance")
		product := testutil.CreateProduct(t, db, "Old Radio", "5.00", testutil.WithCategory(category.ID))

		require.NoError(t, service.DeleteCategory(ctx, category.ID))

		var reloaded models.Product
		require.NoError(t, db.First(&reloaded, product.ID).Error)
		assert.Nil(t, reloaded.CategoryID)

		err := service.DeleteCategory(ctx, category.ID)
		assert.True(t, utils.IsNotFound(err))
	})
}

func TestBrandService(t *testing.T) {
	db := testutil.NewTestDB(t)
	service := NewBrandService(db)
	ctx := context.Background()

	brand, err := service.CreateBrand(ctx, &TaxonomyRequest{Name: "Acme Audio", Description: "Speakers"})
	require.NoError(t, err)
	assert.Equal(t, "acme-audio", brand.Slug)

	_, err = service.CreateBrand(ctx, &TaxonomyRequest{Name: "ACME audio"})
	assert.True(t, utils.IsConflict(err))

	found, err := service.GetBrandBySlug(ctx, "acme-audio")
	require.NoError(t, err)
	assert.Equal(t, "Speakers", found.Description)

	updated, err := service.UpdateBrand(ctx, brand.ID, &UpdateTaxonomyRequest{Description: strPtr("Speakers and amps")})
	require.NoError(t, err)
	assert.Equal(t, "Speakers and amps", updated.Description)
	assert.Equal(t, "acme-audio", updated.Slug)

	product := testutil.CreateProduct(t, db, "Amp", "80.00", testutil.WithBrand(brand.ID))

	err = service.DeleteBrand(ctx, brand.ID)
	assert.True(t, utils.IsConflict(err))

	require.NoError(t, db.Delete(&models.Product{}, product.ID).Error)
	require.NoError(t, service.DeleteBrand(ctx, brand.ID))

	brands, err := service.ListBrands(ctx)
	require.NoError(t, err)
	assert.Empty(t, brands)

	_, err = service.GetBrand(ctx, brand.ID)
	assert.True(t, utils.IsNotFound(err))
}
