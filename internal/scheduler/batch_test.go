package scheduler

import (
	"math"
	"math/rand"
	"testing"

	"github.com/alexanderramin/shopfloor/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_RaisesToMinimum(t *testing.T) {
	assert.Equal(t, domain.Quantity(10), Normalize(7, 10, 5))
}

func TestNormalize_RoundsUpToInterval(t *testing.T) {
	assert.Equal(t, domain.Quantity(15), Normalize(12, 10, 5))
}

func TestNormalize_MinimumThenInterval(t *testing.T) {
	// 7 is raised to 8, which is then rounded up to a multiple of 5.
	assert.Equal(t, domain.Quantity(10), Normalize(7, 8, 5))
}

func TestNormalize_NoConstraintsIsIdentity(t *testing.T) {
	for _, q := range []domain.Quantity{0, 1, 13, 1000} {
		assert.Equal(t, q, Normalize(q, 0, 0))
	}
}

func TestNormalize_ExactMultipleUnchanged(t *testing.T) {
	assert.Equal(t, domain.Quantity(20), Normalize(20, 0, 5))
}

func TestNormalize_ZeroQuantity(t *testing.T) {
	assert.Equal(t, domain.Quantity(0), Normalize(0, 0, 5))
	assert.Equal(t, domain.Quantity(4), Normalize(0, 4, 0))
}

func TestNormalize_NegativeConstraintsIgnored(t *testing.T) {
	assert.Equal(t, domain.Quantity(7), Normalize(7, -10, -5))
}

func TestNormalize_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 500; trial++ {
		q := domain.Quantity(rng.Intn(1000))
		minBatch := domain.Quantity(rng.Intn(200))
		interval := domain.Quantity(rng.Intn(50))

		once := Normalize(q, minBatch, interval)
		twice := Normalize(once, minBatch, interval)

		assert.Equal(t, once, twice, "trial %d: normalize(%d, %d, %d)", trial, q, minBatch, interval)
		assert.GreaterOrEqual(t, once, q, "trial %d: never lowers the quantity", trial)
		assert.GreaterOrEqual(t, once, minBatch, "trial %d: meets the minimum", trial)
		if interval > 0 {
			assert.Zero(t, once%interval, "trial %d: whole multiple of interval", trial)
			assert.Less(t, once-max(q, minBatch), interval, "trial %d: rounds to the next multiple only", trial)
		}
	}
}

func TestLotRuleOf(t *testing.T) {
	tests := []struct {
		min, interval domain.Quantity
		want          LotRule
		name          string
	}{
		{0, 0, LotForLot, "LotForLot"},
		{10, 0, MinimumQty, "MinimumQty"},
		{0, 5, StandardPack, "StandardPack"},
		{10, 5, MinimumStandardPack, "MinimumStandardPack"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LotRuleOf(tt.min, tt.interval)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.name, got.String())
		})
	}
}

func TestNormalizeRequest(t *testing.T) {
	r := &domain.ProductionRequest{Quantity: 12, MinBatch: 10, IntervalBatch: 5}
	q, err := NormalizeRequest(r)
	require.NoError(t, err)
	assert.Equal(t, domain.Quantity(15), q)
	assert.Equal(t, domain.Quantity(12), r.Quantity, "request is not mutated")
}

func TestNormalizeRequest_RoundUpOverflow(t *testing.T) {
	r := &domain.ProductionRequest{Quantity: math.MaxInt64 - 1, IntervalBatch: 10}
	_, err := NormalizeRequest(r)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Equal(t, domain.Quantity(math.MaxInt64), Normalize(r.Quantity, 0, 10), "Normalize saturates")

	// An exact multiple needs no round-up and stays valid.
	r.Quantity = math.MaxInt64 - math.MaxInt64%10
	q, err := NormalizeRequest(r)
	require.NoError(t, err)
	assert.Equal(t, r.Quantity, q)
}
