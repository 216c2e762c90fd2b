package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mspro-labs/coin-filter/internal/apperr"
	"mspro-labs/coin-filter/internal/models"
)

func coin(name string, price, supply models.Number) models.Coin {
	return models.Coin{Name: name, Price: price, CirculatingSupply: supply}
}

func names(coins []models.Coin) []string {
	out := make([]string, 0, len(coins))
	for _, c := range coins {
		out = append(out, c.Name)
	}
	return out
}

func TestValidateConflicts(t *testing.T) {
	err := Validate(models.Criteria{PriceMax: models.Float(1), PriceMin: models.Float(2)})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Configuration))
	assert.Equal(t, "Not allowed to specify both the following options together: --le-price and --ge-price", err.Error())

	err = Validate(models.Criteria{SupplyMax: models.Float(1), SupplyMin: models.Float(2)})
	require.Error(t, err)
	assert.Equal(t, "Not allowed to specify both the following options together: --le-circulating-supply and --ge-circulating-supply", err.Error())
}

func TestValidateZeroBoundsCountAsSet(t *testing.T) {
	err := Validate(models.Criteria{PriceMax: models.Float(0), PriceMin: models.Float(0)})
	assert.True(t, apperr.Is(err, apperr.Configuration))
}

func TestValidateNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		err := Validate(models.Criteria{SupplyMin: models.Float(v)})
		require.Error(t, err, "value %v", v)
		assert.Contains(t, err.Error(), "--ge-circulating-supply")
	}
}

func TestValidateAllowsOneBoundPerAxis(t *testing.T) {
	assert.NoError(t, Validate(models.Criteria{}))
	assert.NoError(t, Validate(models.Criteria{PriceMax: models.Float(0.05), SupplyMin: models.Float(6.7e9)}))
	assert.NoError(t, Validate(models.Criteria{PriceMin: models.Float(50), SupplyMax: models.Float(1)}))
}

func TestApplyNoBoundsKeepsEverythingInOrder(t *testing.T) {
	coins := []models.Coin{
		coin("B", models.Number{}, models.Number{}),
		coin("A", models.Known(1), models.Known(2)),
		coin("C", models.Known(0), models.Number{}),
	}

	assert.Equal(t, coins, Apply(models.Criteria{}, coins))
}

func TestApplyUnknownFailsActiveBound(t *testing.T) {
	unknown := coin("U", models.Number{}, models.Number{})
	criteria := []models.Criteria{
		{PriceMax: models.Float(10)},
		{PriceMin: models.Float(10)},
		{SupplyMax: models.Float(10)},
		{SupplyMin: models.Float(10)},
	}
	for _, c := range criteria {
		assert.False(t, Match(c, unknown), "criteria %s", c)
	}
}

func TestApplyUnknownPassesInactiveAxis(t *testing.T) {
	c := coin("X", models.Known(5), models.Number{})

	assert.True(t, Match(models.Criteria{PriceMax: models.Float(10)}, c))
	assert.False(t, Match(models.Criteria{PriceMax: models.Float(10), SupplyMin: models.Float(1)}, c))
}

func TestApplyBoundsAreInclusive(t *testing.T) {
	c := coin("E", models.Known(50), models.Known(1000))

	assert.True(t, Match(models.Criteria{PriceMax: models.Float(50)}, c))
	assert.True(t, Match(models.Criteria{PriceMin: models.Float(50)}, c))
	assert.True(t, Match(models.Criteria{SupplyMax: models.Float(1000)}, c))
	assert.True(t, Match(models.Criteria{SupplyMin: models.Float(1000)}, c))
	assert.False(t, Match(models.Criteria{PriceMax: models.Float(49.99)}, c))
	assert.False(t, Match(models.Criteria{SupplyMin: models.Float(1000.5)}, c))
}

func TestApplyScenarios(t *testing.T) {
	ab := []models.Coin{
		coin("A", models.Known(100), models.Known(5000)),
		coin("B", models.Number{}, models.Known(9000)),
	}
	assert.Equal(t, []string{"A"}, names(Apply(models.Criteria{PriceMin: models.Float(50)}, ab)))

	c := []models.Coin{coin("C", models.Known(0.01), models.Known(8000000000))}
	got := Apply(models.Criteria{PriceMax: models.Float(0.05), SupplyMin: models.Float(6700000000)}, c)
	assert.Equal(t, []string{"C"}, names(got))
}

func TestApplyZeroPriceIsKnown(t *testing.T) {
	coins := []models.Coin{
		coin("zero", models.Known(0), models.Known(1)),
		coin("unknown", models.Number{}, models.Known(1)),
	}

	assert.Equal(t, []string{"zero"}, names(Apply(models.Criteria{PriceMax: models.Float(0)}, coins)))
}
