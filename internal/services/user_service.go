// internal/services/user_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/javajoker/shop-backend/internal/models"
	"github.com/javajoker/shop-backend/internal/utils"
)

type UserService struct {
	db *gorm.DB
}

type UpdateUserProfileRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=1,max=255"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=50"`
}

type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (r *UpdateUserProfileRequest) normalize() {
	if r.Email != nil {
		email := normalizeEmail(*r.Email)
		r.Email = &email
	}
	if r.FullName != nil {
		name := strings.TrimSpace(*r.FullName)
		r.FullName = &name
	}
	if r.Phone != nil {
		phone := strings.TrimSpace(*r.Phone)
		r.Phone = &phone
	}
}

func (s *UserService) UpdateProfile(userID uint, req *UpdateUserProfileRequest) (*models.User, error) {
	req.normalize()
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.InvalidInput(err)
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	// Check email uniqueness if updating
	if req.Email != nil {
		email := *req.Email
		if email != user.Email {
			var count int64
			if err := s.db.Model(&models.User{}).Where("email = ? AND id <> ?", email, userID).Count(&count).Error; err != nil {
				return nil, fmt.Errorf("database error: %w", err)
			}
			if count > 0 {
				return nil, utils.Conflict("email is already in use")
			}
			updates["email"] = email
		}
	}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, utils.Conflict("email is already in use")
			}
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	return s.GetUserByID(userID)
}

// DeleteAccount removes the caller's account after re-checking the password.
func (s *UserService) DeleteAccount(userID uint, req *DeleteAccountRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return utils.InvalidInput(err)
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return utils.Unauthorized("invalid password")
	}

	return deleteUser(s.db, user)
}

// deleteUser refuses to remove users who still own orders.
func deleteUser(db *gorm.DB, user *models.User) error {
	var orderCount int64
	if err := db.Model(&models.Order{}).Where("user_id = ?", user.ID).Count(&orderCount).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if orderCount > 0 {
		return utils.Conflict("cannot delete a user with %d order(s)", orderCount)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.PasswordResetToken{}).Error; err != nil {
			return fmt.Errorf("failed to delete reset tokens: %w", err)
		}
		if err := tx.Delete(user).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}
