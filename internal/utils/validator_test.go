// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Home & Garden":      "home-garden",
		"  Audio  ":          "audio",
		"Hi-Fi / Stereo 2.0": "hi-fi-stereo-2-0",
		"!!!":                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestValidateStruct_CustomRules(t *testing.T) {
	type taxonomy struct {
		Slug string `json:"slug" validate:"omitempty,slug"`
	}
	assert.NoError(t, ValidateStruct(&taxonomy{Slug: "audio-hifi"}))
	assert.NoError(t, ValidateStruct(&taxonomy{}))
	assert.Error(t, ValidateStruct(&taxonomy{Slug: "Audio"}))
	assert.Error(t, ValidateStruct(&taxonomy{Slug: "audio--hifi"}))

	type priced struct {
		Price  decimal.Decimal  `json:"price" validate:"gte=0"`
		Rating *decimal.Decimal `json:"rating" validate:"omitempty,gte=0,lte=5"`
	}
	five, six := decimal.NewFromInt(5), decimal.NewFromInt(6)
	assert.NoError(t, ValidateStruct(&priced{Price: decimal.RequireFromString("0.01"), Rating: &five}))
	assert.Error(t, ValidateStruct(&priced{Price: decimal.RequireFromString("-0.01")}))
	assert.Error(t, ValidateStruct(&priced{Rating: &six}))
}

func TestGetValidationErrors_Messages(t *testing.T) {
	type signup struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}

	errs := GetValidationErrors(ValidateStruct(&signup{Email: "jane@example.com", Password: "123"}))
	if assert.Len(t, errs, 1) {
		assert.Equal(t, "password", errs[0].Field)
		assert.Equal(t, "min", errs[0].Tag)
		assert.Equal(t, "password must be at least 6 characters", errs[0].Message)
	}

	assert.Nil(t, GetValidationErrors(nil))
}

func TestNormalizePagination(t *testing.T) {
	assert.Equal(t, PaginationParams{Page: 1, Limit: DefaultPageLimit}, NormalizePagination(PaginationParams{}))
	assert.Equal(t, PaginationParams{Page: 1, Limit: DefaultPageLimit}, NormalizePagination(PaginationParams{Page: -3, Limit: MaxPageLimit + 1}))
	assert.Equal(t, PaginationParams{Page: 4, Limit: 50}, NormalizePagination(PaginationParams{Page: 4, Limit: 50}))

	result := CreatePaginationResult(nil, 0, NormalizePagination(PaginationParams{}))
	assert.Equal(t, 0, result.TotalPages)
}

func TestErrorKinds(t *testing.T) {
	err := NotFound("Order %d not found", 9)
	assert.Equal(t, "Order 9 not found", err.Error())
	assert.True(t, IsNotFound(err))
	assert.False(t, IsConflict(err))
	assert.Equal(t, ErrorKind(""), KindOf(assert.AnError))

	wrapped := InvalidInput(assert.AnError)
	assert.True(t, IsInvalidState(wrapped))
	assert.ErrorIs(t, wrapped, assert.AnError)
}
