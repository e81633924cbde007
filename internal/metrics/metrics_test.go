// internal/metrics/metrics_test.go
package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRecordOrderCreated(t *testing.T) {
	beforeCount := testutil.ToFloat64(ordersCreated)
	beforeRevenue := testutil.ToFloat64(orderRevenue)

	RecordOrderCreated(decimal.RequireFromString("119.98"))

	assert.Equal(t, beforeCount+1, testutil.ToFloat64(ordersCreated))
	assert.InDelta(t, beforeRevenue+119.98, testutil.ToFloat64(orderRevenue), 0.001)
}

func TestRecordOrderStatusChange(t *testing.T) {
	before := testutil.ToFloat64(orderStatusChanges.WithLabelValues("SHIPPED"))

	RecordOrderStatusChange("SHIPPED")

	assert.Equal(t, before+1, testutil.ToFloat64(orderStatusChanges.WithLabelValues("SHIPPED")))
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/orders/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/42", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	counter := httpRequests.WithLabelValues(http.MethodGet, "/orders/:id", "204")
	assert.GreaterOrEqual(t, testutil.ToFloat64(counter), float64(1))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "shop_http_requests_total")
}
