// internal/services/admin_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/shop-backend/internal/models"
	"github.com/javajoker/shop-backend/internal/utils"
)

type AdminService struct {
	db     *gorm.DB
	orders *OrderService
	now    func() time.Time
}

type AdminDashboardStats struct {
	TotalUsers        int64           `json:"total_users"`
	NewUsersThisMonth int64           `json:"new_users_this_month"`
	TotalProducts     int64           `json:"total_products"`
	InStockProducts   int64           `json:"in_stock_products"`
	TotalCategories   int64           `json:"total_categories"`
	TotalBrands       int64           `json:"total_brands"`
	Orders            *OrderStats     `json:"orders"`
	MonthlyRevenue    decimal.Decimal `json:"monthly_revenue"`
	RevenueGrowth     float64         `json:"revenue_growth"`
	RecentOrders      []models.Order  `json:"recent_orders"`
}

type AdminUserFilter struct {
	utils.PaginationParams
	Role *models.Role `json:"role,omitempty"`
}

type AuditLogFilter struct {
	utils.PaginationParams
	UserID       *uint  `json:"user_id,omitempty"`
	ResourceType string `json:"resource_type,omitempty"`
}

type UpdateUserRoleRequest struct {
	Role models.Role `json:"role" validate:"required,oneof=CUSTOMER ADMIN"`
}

var adminUserSortOptions = utils.SortOptions{
	"newest": "users.created_at DESC, users.id DESC",
	"oldest": "users.created_at ASC, users.id ASC",
	"email":  "users.email ASC",
	"name":   "users.full_name ASC, users.id ASC",
}

func NewAdminService(db *gorm.DB, orders *OrderService) *AdminService {
	return &AdminService{
		db:     db,
		orders: orders,
		now:    time.Now,
	}
}

// Dashboard Statistics
func (s *AdminService) GetDashboardStats(ctx context.Context) (*AdminDashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &AdminDashboardStats{}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	counts := []struct {
		query *gorm.DB
		dest  *int64
	}{
		{db.Model(&models.User{}), &stats.TotalUsers},
		{db.Model(&models.User{}).Where("created_at >= ?", monthStart), &stats.NewUsersThisMonth},
		{db.Model(&models.Product{}), &stats.TotalProducts},
		{db.Model(&models.Product{}).Where("in_stock = ?", true), &stats.InStockProducts},
		{db.Model(&models.Category{}), &stats.TotalCategories},
		{db.Model(&models.Brand{}), &stats.TotalBrands},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
		}
	}

	orderStats, err := s.orders.GetOrderStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.Orders = orderStats

	revenueOrders := db.Model(&models.Order{}).Where("status IN ?", models.RevenueStatuses)
	stats.MonthlyRevenue, err = sumOrderTotals(revenueOrders.Session(&gorm.Session{}).Where("created_at >= ?", monthStart))
	if err != nil {
		return nil, err
	}
	lastMonthRevenue, err := sumOrderTotals(revenueOrders.Session(&gorm.Session{}).
		Where("created_at >= ? AND created_at < ?", lastMonthStart, monthStart))
	if err != nil {
		return nil, err
	}
	if lastMonthRevenue.IsPositive() {
		growth := stats.MonthlyRevenue.Sub(lastMonthRevenue).Div(lastMonthRevenue).Mul(decimal.NewFromInt(100))
		stats.RevenueGrowth = growth.Round(2).InexactFloat64()
	}

	recent, _, err := s.orders.ListOrders(ctx, OrderFilter{Page: 1, Limit: 5})
	if err != nil {
		return nil, err
	}
	stats.RecentOrders = recent

	return stats, nil
}

// User Management
func (s *AdminService) ListUsers(ctx context.Context, filter AdminUserFilter) ([]models.User, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.User{})

	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		searchTerm := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(email) LIKE ? OR LOWER(full_name) LIKE ?)", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	params := utils.NormalizePagination(filter.PaginationParams)
	query = utils.ApplySort(query, params, adminUserSortOptions, "newest")
	query = utils.ApplyPagination(query, params)

	users := []models.User{}
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	return users, total, nil
}

func (s *AdminService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("User %d not found", userID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

// UpdateUserRole promotes or demotes a user. Admins cannot change their own role.
func (s *AdminService) UpdateUserRole(ctx context.Context, userID uint, role models.Role, adminID uint) (*models.User, error) {
	if !role.Valid() {
		return nil, utils.InvalidState("invalid role %q", role)
	}
	if userID == adminID {
		return nil, utils.Forbidden("administrators cannot change their own role")
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	oldRole := user.Role
	if oldRole == role {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Update("role", role).Error; err != nil {
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}
	user.Role = role

	logrus.WithFields(logrus.Fields{
		"admin_id": adminID,
		"user_id":  userID,
		"old_role": oldRole,
		"role":     role,
	}).Info("User role updated")

	return user, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, userID, adminID uint) error {
	if userID == adminID {
		return utils.Forbidden("administrators cannot delete their own account here")
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := deleteUser(s.db.WithContext(ctx), user); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"admin_id": adminID,
		"user_id":  userID,
	}).Info("User deleted")
	return nil
}

func (s *AdminService) ListAuditLogs(ctx context.Context, filter AuditLogFilter) ([]models.AuditLog, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.AuditLog{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.ResourceType != "" {
		query = query.Where("resource_type = ?", filter.ResourceType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	params := utils.NormalizePagination(filter.PaginationParams)
	logs := []models.AuditLog{}
	if err := utils.ApplyPagination(query.Order("created_at DESC, id DESC"), params).Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	return logs, total, nil
}
