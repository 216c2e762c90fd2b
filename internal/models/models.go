package models

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Number is a market value that may be unknown. An unknown value is never zero.
type Number struct {
	Value float64
	Valid bool
}

// Known wraps a parsed value.
func Known(v float64) Number {
	return Number{Value: v, Valid: true}
}

// String renders the value in plain decimal notation, or "" when unknown.
func (n Number) String() string {
	if !n.Valid {
		return ""
	}
	if math.IsNaN(n.Value) || math.IsInf(n.Value, 0) {
		return strconv.FormatFloat(n.Value, 'f', -1, 64)
	}
	return decimal.NewFromFloat(n.Value).String()
}

// Coin holds one listing entry as received from the market-data source.
type Coin struct {
	Name              string
	Price             Number
	CirculatingSupply Number
}

// Criteria holds the optional inclusive bounds applied to each coin.
// A nil bound is inactive.
type Criteria struct {
	PriceMax  *float64
	PriceMin  *float64
	SupplyMax *float64
	SupplyMin *float64
}

// Float returns a pointer to v, for building Criteria literals.
func Float(v float64) *float64 {
	return &v
}

// IsEmpty reports whether no bound is active.
func (c Criteria) IsEmpty() bool {
	return c.PriceMax == nil && c.PriceMin == nil && c.SupplyMax == nil && c.SupplyMin == nil
}

// String lists the active bounds using their flag names.
func (c Criteria) String() string {
	var parts []string
	add := func(name string, v *float64) {
		if v != nil {
			parts = append(parts, name+"="+strconv.FormatFloat(*v, 'g', -1, 64))
		}
	}
	add("le-price", c.PriceMax)
	add("ge-price", c.PriceMin)
	add("le-circulating-supply", c.SupplyMax)
	add("ge-circulating-supply", c.SupplyMin)
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

// Run describes one export invocation.
type Run struct {
	ID        string
	StartedAt time.Time
	SourceURL string
	Criteria  Criteria
	Fetched   int
}
