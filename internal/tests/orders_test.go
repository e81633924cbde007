// internal/tests/orders_test.go
package tests

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/javajoker/shop-backend/internal/models"
	"github.com/javajoker/shop-backend/internal/services"
	"github.com/javajoker/shop-backend/internal/testutil"
)

func shippingInfo() map[string]string {
	return map[string]string{
		"name":    "Jane Doe",
		"email":   "jane@example.com",
		"address": "1 Main Street",
		"city":    "Springfield",
		"zip":     "12345",
		"country": "US",
	}
}

func orderBody(items ...[2]int) map[string]interface{} {
	lines := make([]map[string]int, 0, len(items))
	for _, item := range items {
		lines = append(lines, map[string]int{"product_id": item[0], "quantity": item[1]})
	}
	return map[string]interface{}{"items": lines, "shipping_info": shippingInfo()}
}

func (suite *APITestSuite) placeOrder(token string, items ...[2]int) models.Order {
	w, env := suite.request(http.MethodPost, "/api/v1/orders", token, orderBody(items...))
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		Order models.Order `json:"order"`
	}
	suite.decode(env, &data)
	return data.Order
}

func (suite *APITestSuite) TestCatalogBrowsing() {
	audio := testutil.CreateCategory(suite.T(), suite.db, "Audio", "audio")
	acme := testutil.CreateBrand(suite.T(), suite.db, "Acme", "acme")
	testutil.CreateProduct(suite.T(), suite.db, "Headphones", "59.99", testutil.WithCategory(audio.ID), testutil.WithBrand(acme.ID), testutil.Featured())
	testutil.CreateProduct(suite.T(), suite.db, "Speaker", "199.00", testutil.WithCategory(audio.ID))
	testutil.CreateProduct(suite.T(), suite.db, "Earbuds", "19.99", testutil.WithCategory(audio.ID), testutil.OutOfStock())
	testutil.CreateProduct(suite.T(), suite.db, "Gift Card", "25.00")

	w, env := suite.request(http.MethodGet, "/api/v1/products?category=audio&in_stock=true&sort=price-desc&limit=1", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal("2", w.Header().Get("X-Total-Count"))

	var products []models.Product
	suite.decode(env, &products)
	suite.Require().Len(products, 1)
	suite.Equal("Speaker", products[0].Name)
	suite.Require().NotNil(env.Meta)
	suite.Equal(int64(2), env.Meta.Pagination.Total)
	suite.Equal(2, env.Meta.Pagination.TotalPages)

	w, env = suite.request(http.MethodGet, fmt.Sprintf("/api/v1/products?brand_id=%d&min_price=50&max_price=60", acme.ID), "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.decode(env, &products)
	suite.Require().Len(products, 1)
	suite.Equal("Headphones", products[0].Name)

	w, _ = suite.request(http.MethodGet, "/api/v1/products?min_price=cheap", "", nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w, env = suite.request(http.MethodGet, "/api/v1/products/featured", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	var featured struct {
		Products []models.Product `json:"products"`
	}
	suite.decode(env, &featured)
	suite.Len(featured.Products, 1)

	w, env = suite.request(http.MethodGet, "/api/v1/categories/audio", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(string(env.Data), `"slug":"audio"`)

	w, env = suite.request(http.MethodGet, "/api/v1/products/999", "", nil)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("NOT_FOUND", env.Error.Code)
}

func (suite *APITestSuite) TestCatalogAdminOnly() {
	customer := suite.loginAs("customer@example.com", models.RoleCustomer)
	admin := suite.loginAs("admin@example.com", models.RoleAdmin)
	product := map[string]interface{}{"name": "Turntable", "price": 349.99}

	w, _ := suite.request(http.MethodPost, "/api/v1/products", "", product)
	suite.Equal(http.StatusUnauthorized, w.Code)

	w, env := suite.request(http.MethodPost, "/api/v1/products", customer.Token, product)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("FORBIDDEN", env.Error.Code)

	w, env = suite.request(http.MethodPost, "/api/v1/products", admin.Token, product)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Product models.Product `json:"product"`
	}
	suite.decode(env, &created)
	suite.True(created.Product.Price.Equal(decimal.RequireFromString("349.99")))
	suite.True(created.Product.InStock)

	w, _ = suite.request(http.MethodPost, "/api/v1/categories", admin.Token, map[string]string{"name": "Hi-Fi"})
	suite.Equal(http.StatusCreated, w.Code)
	w, _ = suite.request(http.MethodPost, "/api/v1/categories", admin.Token, map[string]string{"name": "Hi Fi"})
	suite.Equal(http.StatusConflict, w.Code)

	w, _ = suite.request(http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", created.Product.ID), customer.Token, nil)
	suite.Equal(http.StatusForbidden, w.Code)
	w, _ = suite.request(http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", created.Product.ID), admin.Token, nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *APITestSuite) TestPlaceOrder() {
	for i := 0; i < 4; i++ {
		testutil.CreateProduct(suite.T(), suite.db, fmt.Sprintf("Filler %d", i), "1.00")
	}
	testutil.CreateProduct(suite.T(), suite.db, "Headphones", "59.99")
	customer := suite.loginAs("customer@example.com", models.RoleCustomer)

	order := suite.placeOrder(customer.Token, [2]int{5, 2})
	suite.Regexp(services.OrderNumberPattern, order.OrderNumber)
	suite.Equal(models.OrderStatusPending, order.Status)
	suite.True(order.Subtotal.Equal(decimal.RequireFromString("119.98")))
	suite.True(order.Shipping.IsZero())
	suite.True(order.Total.Equal(decimal.RequireFromString("119.98")))
	suite.Require().Len(order.Items, 1)
	suite.True(order.Items[0].Price.Equal(decimal.RequireFromString("59.99")))
	suite.Equal(2, order.Items[0].Quantity)
	suite.Equal(customer.User.ID, order.UserID)

	w, env := suite.request(http.MethodGet, "/api/v1/orders/my", customer.Token, nil)
	suite.Equal(http.StatusOK, w.Code)
	var mine struct {
		Orders []models.Order `json:"orders"`
	}
	suite.decode(env, &mine)
	suite.Len(mine.Orders, 1)

	w, _ = suite.request(http.MethodGet, "/api/v1/orders/number/"+order.OrderNumber, customer.Token, nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *APITestSuite) TestPlaceOrderFailuresPersistNothing() {
	available := testutil.CreateProduct(suite.T(), suite.db, "Lamp", "10.00")
	soldOut := testutil.CreateProduct(suite.T(), suite.db, "Vase", "15.00", testutil.OutOfStock())
	customer := suite.loginAs("customer@example.com", models.RoleCustomer)

	w, env := suite.request(http.MethodPost, "/api/v1/orders", customer.Token,
		orderBody([2]int{int(available.ID), 1}, [2]int{int(soldOut.ID), 1}))
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("INVALID_STATE", env.Error.Code)
	suite.Contains(env.Error.Message, "Vase")

	w, env = suite.request(http.MethodPost, "/api/v1/orders", customer.Token,
		orderBody([2]int{int(available.ID), 1}, [2]int{404, 1}))
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("NOT_FOUND", env.Error.Code)

	w, env = suite.request(http.MethodPost, "/api/v1/orders", customer.Token, orderBody())
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("VALIDATION_ERROR", env.Error.Code)

	var orders, items int64
	suite.Require().NoError(suite.db.Model(&models.Order{}).Count(&orders).Error)
	suite.Require().NoError(suite.db.Model(&models.OrderItem{}).Count(&items).Error)
	suite.Zero(orders)
	suite.Zero(items)
}

func (suite *APITestSuite) TestOrderVisibility() {
	product := testutil.CreateProduct(suite.T(), suite.db, "Lamp", "10.00")
	owner := suite.loginAs("owner@example.com", models.RoleCustomer)
	stranger := suite.loginAs("stranger@example.com", models.RoleCustomer)
	admin := suite.loginAs("admin@example.com", models.RoleAdmin)

	order := suite.placeOrder(owner.Token, [2]int{int(product.ID), 1})
	path := fmt.Sprintf("/api/v1/orders/%d", order.ID)

	w, _ := suite.request(http.MethodGet, path, owner.Token, nil)
	suite.Equal(http.StatusOK, w.Code)
	w, _ = suite.request(http.MethodGet, path, stranger.Token, nil)
	suite.Equal(http.StatusForbidden, w.Code)
	w, _ = suite.request(http.MethodGet, "/api/v1/orders/number/"+order.OrderNumber, stranger.Token, nil)
	suite.Equal(http.StatusForbidden, w.Code)
	w, _ = suite.request(http.MethodGet, path, admin.Token, nil)
	suite.Equal(http.StatusOK, w.Code)

	w, _ = suite.request(http.MethodGet, "/api/v1/orders", owner.Token, nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *APITestSuite) TestAdminOrderManagement() {
	product := testutil.CreateProduct(suite.T(), suite.db, "Lamp", "10.00")
	customer := suite.loginAs("customer@example.com", models.RoleCustomer)
	admin := suite.loginAs("admin@example.com", models.RoleAdmin)

	first := suite.placeOrder(customer.Token, [2]int{int(product.ID), 2})
	second := suite.placeOrder(customer.Token, [2]int{int(product.ID), 5})
	statusPath := fmt.Sprintf("/api/v1/orders/%d/status", first.ID)

	w, _ := suite.request(http.MethodPatch, statusPath, customer.Token, map[string]string{"status": "SHIPPED"})
	suite.Equal(http.StatusForbidden, w.Code)

	w, env := suite.request(http.MethodPatch, statusPath, admin.Token, map[string]string{"status": "LOST"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("INVALID_STATE", env.Error.Code)

	for _, status := range []string{"DELIVERED", "PENDING", "SHIPPED"} {
		w, env = suite.request(http.MethodPatch, statusPath, admin.Token, map[string]string{"status": status})
		suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
		var data struct {
			Order models.Order `json:"order"`
		}
		suite.decode(env, &data)
		suite.Equal(models.OrderStatus(status), data.Order.Status)
	}

	w, env = suite.request(http.MethodGet, "/api/v1/orders?status=SHIPPED", admin.Token, nil)
	suite.Equal(http.StatusOK, w.Code)
	var listed []models.Order
	suite.decode(env, &listed)
	suite.Require().Len(listed, 1)
	suite.Equal(first.ID, listed[0].ID)

	w, env = suite.request(http.MethodGet, "/api/v1/orders/stats", admin.Token, nil)
	suite.Equal(http.StatusOK, w.Code)
	var stats services.OrderStats
	suite.decode(env, &stats)
	suite.Equal(int64(2), stats.TotalOrders)
	suite.Equal(int64(1), stats.PendingOrders)
	suite.Equal(int64(1), stats.ShippedOrders)
	suite.True(stats.TotalRevenue.Equal(decimal.NewFromInt(20)), stats.TotalRevenue.String())

	w, _ = suite.request(http.MethodDelete, fmt.Sprintf("/api/v1/orders/%d", second.ID), admin.Token, nil)
	suite.Equal(http.StatusOK, w.Code)
	w, _ = suite.request(http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", second.ID), admin.Token, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	var logs int64
	suite.Require().NoError(suite.db.Model(&models.AuditLog{}).Where("resource_type = ?", "orders").Count(&logs).Error)
	suite.Positive(logs)
}

func (suite *APITestSuite) TestAdminUsers() {
	customer := suite.loginAs("customer@example.com", models.RoleCustomer)
	admin := suite.loginAs("admin@example.com", models.RoleAdmin)

	w, _ := suite.request(http.MethodGet, "/api/v1/admin/users", customer.Token, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w, env := suite.request(http.MethodGet, "/api/v1/admin/users?role=CUSTOMER", admin.Token, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(int64(1), env.Meta.Pagination.Total)

	rolePath := fmt.Sprintf("/api/v1/admin/users/%d/role", customer.User.ID)
	w, _ = suite.request(http.MethodPatch, rolePath, admin.Token, map[string]string{"role": "ADMIN"})
	suite.Equal(http.StatusOK, w.Code, w.Body.String())

	w, _ = suite.request(http.MethodPatch, fmt.Sprintf("/api/v1/admin/users/%d/role", admin.User.ID), admin.Token, map[string]string{"role": "CUSTOMER"})
	suite.Equal(http.StatusForbidden, w.Code)

	var roleLogs []models.AuditLog
	suite.Require().NoError(suite.db.Where("resource_type = ? AND resource_id = ?", "users", customer.User.ID).Find(&roleLogs).Error)
	suite.Require().Len(roleLogs, 1)
	suite.Equal("PATCH /api/v1/admin/users/:id/role", roleLogs[0].Action)
	suite.Equal(admin.User.ID, *roleLogs[0].UserID)

	w, env = suite.request(http.MethodGet, "/api/v1/admin/dashboard/stats", admin.Token, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(string(env.Data), `"total_users":2`)
}

func (suite *APITestSuite) TestAuditScope() {
	product := testutil.CreateProduct(suite.T(), suite.db, "Lamp", "10.00")
	customer := suite.loginAs("customer@example.com", models.RoleCustomer)
	suite.placeOrder(customer.Token, [2]int{int(product.ID), 1})

	var customerLogs int64
	suite.Require().NoError(suite.db.Model(&models.AuditLog{}).Count(&customerLogs).Error)
	suite.Zero(customerLogs)

	leaving := suite.register("leaving@example.com", "TestPass123!")
	w, _ := suite.request(http.MethodDelete, "/api/v1/users/account", leaving.Token, map[string]string{
		"password": "TestPass123!",
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var logs []models.AuditLog
	suite.Require().NoError(suite.db.Find(&logs).Error)
	suite.Require().Len(logs, 1)
	suite.Equal("DELETE /api/v1/users/account", logs[0].Action)
	suite.Require().NotNil(logs[0].UserID)
	suite.Equal(leaving.User.ID, *logs[0].UserID)
	suite.Equal("[REDACTED]", logs[0].NewValues["password"])
}
