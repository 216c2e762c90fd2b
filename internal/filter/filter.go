package filter

import (
	"math"

	"mspro-labs/coin-filter/internal/apperr"
	"mspro-labs/coin-filter/internal/models"
)

const conflictMsg = "Not allowed to specify both the following options together: %s and %s"

// Validate rejects criteria with both bounds of an axis set, or with a non-finite bound.
// The price axis is checked before the supply axis.
func Validate(c models.Criteria) error {
	if c.PriceMax != nil && c.PriceMin != nil {
		return apperr.Configf(conflictMsg, "--le-price", "--ge-price")
	}
	if c.SupplyMax != nil && c.SupplyMin != nil {
		return apperr.Configf(conflictMsg, "--le-circulating-supply", "--ge-circulating-supply")
	}

	bounds := []struct {
		flag  string
		value *float64
	}{
		{"--le-price", c.PriceMax},
		{"--ge-price", c.PriceMin},
		{"--le-circulating-supply", c.SupplyMax},
		{"--ge-circulating-supply", c.SupplyMin},
	}
	for _, b := range bounds {
		if b.value != nil && (math.IsNaN(*b.value) || math.IsInf(*b.value, 0)) {
			return apperr.Configf("invalid value for %s: must be a finite number", b.flag)
		}
	}
	return nil
}

// Match reports whether coin satisfies every active bound.
// An unknown value never satisfies an active bound.
func Match(c models.Criteria, coin models.Coin) bool {
	return axisMatch(coin.Price, c.PriceMax, c.PriceMin) &&
		axisMatch(coin.CirculatingSupply, c.SupplyMax, c.SupplyMin)
}

func axisMatch(v models.Number, upper, lower *float64) bool {
	if upper != nil && (!v.Valid || v.Value > *upper) {
		return false
	}
	if lower != nil && (!v.Valid || v.Value < *lower) {
		return false
	}
	return true
}

// Apply returns the coins that match c, preserving their order.
func Apply(c models.Criteria, coins []models.Coin) []models.Coin {
	out := make([]models.Coin, 0, len(coins))
	for _, coin := range coins {
		if Match(c, coin) {
			out = append(out, coin)
		}
	}
	return out
}
