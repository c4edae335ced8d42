package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(n int) time.Time {
	return time.Date(2024, time.January, n, 0, 0, 0, 0, time.UTC)
}

// twoLotPosition holds 10 @ 100 (fee 1) bought on day 1 and 10 @ 200 bought on day 2
func twoLotPosition() *Position {
	p := NewPosition("acc1", "X", "USD", day(1))
	p.AddLot(Lot{ID: "a1", AcquisitionDate: day(1), Quantity: d("10"), AcquisitionPrice: d("100"), AcquisitionFees: d("1"), CostBasis: d("1001")})
	p.AddLot(Lot{ID: "a2", AcquisitionDate: day(2), Quantity: d("10"), AcquisitionPrice: d("200"), CostBasis: d("2000")})
	return p
}

func lotQuantity(p *Position) decimal.Decimal {
	total := decimal.Zero
	for _, lot := range p.Lots {
		total = total.Add(lot.Quantity)
	}
	return total
}

func TestPosition_AddLot(t *testing.T) {
	p := twoLotPosition()

	assert.True(t, p.Quantity.Equal(d("20")))
	assert.True(t, p.TotalCostBasis.Equal(d("3001")))
	assert.True(t, p.AverageCost.Equal(d("150.05")))
	assert.Equal(t, day(2), p.LastUpdated)
	assert.Equal(t, day(1), p.InceptionDate)
}

func TestPosition_ReduceLots_FIFO(t *testing.T) {
	p := twoLotPosition()

	released := p.ReduceLots(d("15"), FIFO, day(3))

	// whole first lot (1001) + half of the second (1000)
	assert.True(t, released.Equal(d("2001")), released.String())
	require.Len(t, p.Lots, 1)
	assert.Equal(t, "a2", p.Lots[0].ID)
	assert.True(t, p.Quantity.Equal(d("5")))
	assert.True(t, p.TotalCostBasis.Equal(d("1000")))
	assert.True(t, p.AverageCost.Equal(d("200")))
	assert.True(t, lotQuantity(p).Equal(p.Quantity))
	assert.Equal(t, day(3), p.LastUpdated)
}

func TestPosition_ReduceLots_AverageCost(t *testing.T) {
	p := twoLotPosition()

	released := p.ReduceLots(d("15"), AverageCost, day(3))

	// three quarters of 3001
	assert.True(t, released.Equal(d("2250.75")), released.String())
	require.Len(t, p.Lots, 2)
	assert.True(t, p.Quantity.Equal(d("5")))
	assert.True(t, p.TotalCostBasis.Equal(d("750.25")))
	assert.True(t, p.AverageCost.Equal(d("150.05")), "average cost is unchanged by a disposal")
	assert.True(t, lotQuantity(p).Equal(p.Quantity))
}

func TestPosition_ReduceLots_ClampsOversell(t *testing.T) {
	for _, method := range []CostBasisMethod{FIFO, AverageCost} {
		t.Run(method.String(), func(t *testing.T) {
			p := twoLotPosition()

			released := p.ReduceLots(d("25"), method, day(3))

			assert.True(t, released.Equal(d("3001")))
			assert.True(t, p.IsClosed())
			assert.Empty(t, p.Lots)
			assert.True(t, p.AverageCost.IsZero())
		})
	}
}

func TestPosition_SplitRoundTrip(t *testing.T) {
	tolerance := d("0.00000001")
	for _, ratio := range []string{"2", "3", "0.25", "7"} {
		t.Run(ratio, func(t *testing.T) {
			p := twoLotPosition()
			before := p.Clone()
			r := d(ratio)

			require.NoError(t, p.Split(r, day(3)))
			assert.True(t, p.TotalCostBasis.Equal(before.TotalCostBasis))
			assert.True(t, p.Quantity.Sub(before.Quantity.Mul(r)).Abs().LessThan(tolerance))

			require.NoError(t, p.Split(decimal.NewFromInt(1).Div(r), day(3)))
			assert.True(t, p.TotalCostBasis.Equal(before.TotalCostBasis))
			assert.True(t, p.Quantity.Sub(before.Quantity).Abs().LessThan(tolerance), p.Quantity.String())
			require.Len(t, p.Lots, len(before.Lots))
			for i := range p.Lots {
				assert.True(t, p.Lots[i].Quantity.Sub(before.Lots[i].Quantity).Abs().LessThan(tolerance))
				assert.True(t, p.Lots[i].AcquisitionPrice.Sub(before.Lots[i].AcquisitionPrice).Abs().LessThan(tolerance))
				assert.True(t, p.Lots[i].CostBasis.Equal(before.Lots[i].CostBasis))
			}
		})
	}
}

func TestPosition_SplitRejectsNonPositiveRatio(t *testing.T) {
	p := twoLotPosition()

	assert.Error(t, p.Split(decimal.Zero, day(3)))
	assert.Error(t, p.Split(d("-2"), day(3)))
	assert.True(t, p.Quantity.Equal(d("20")))
}

func TestPosition_Clone(t *testing.T) {
	p := twoLotPosition()
	c := p.Clone()

	p.Lots[0].Quantity = d("1")
	assert.True(t, c.Lots[0].Quantity.Equal(d("10")))
}

func TestParseCostBasisMethod(t *testing.T) {
	m, err := ParseCostBasisMethod("average")
	require.NoError(t, err)
	assert.Equal(t, AverageCost, m)

	m, err = ParseCostBasisMethod("fifo")
	require.NoError(t, err)
	assert.Equal(t, FIFO, m)

	_, err = ParseCostBasisMethod("lifo")
	assert.Error(t, err)
}
