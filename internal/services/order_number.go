// internal/services/order_number.go
package services

import (
	"fmt"
	"regexp"
	"time"

	"github.com/javajoker/shop-backend/internal/utils"
)

const orderNumberSuffixLength = 9

// OrderNumberPattern matches every number produced by GenerateOrderNumber.
var OrderNumberPattern = regexp.MustCompile(`^ORD-\d+-[0-9A-Z]{9}$`)

// OrderNumberGenerator returns a fresh order number for the given instant.
type OrderNumberGenerator func(now time.Time) (string, error)

// GenerateOrderNumber formats ORD-<unix millis>-<9 random uppercase base36 chars>.
func GenerateOrderNumber(now time.Time) (string, error) {
	suffix, err := utils.GenerateBase36(orderNumberSuffixLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate order number: %w", err)
	}
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), suffix), nil
}
