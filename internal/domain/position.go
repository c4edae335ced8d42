package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// QuantityTolerance is the magnitude below which a quantity counts as zero
var QuantityTolerance = decimal.New(1, -8)

// IsNegligible reports whether q is zero within QuantityTolerance
func IsNegligible(q decimal.Decimal) bool {
	return q.Abs().LessThan(QuantityTolerance)
}

// Lot represents one acquisition retained for cost-basis tracking
type Lot struct {
	ID               string          `json:"id"` // id of the activity that opened the lot
	AcquisitionDate  time.Time       `json:"acquisition_date"`
	Quantity         decimal.Decimal `json:"quantity"`
	CostBasis        decimal.Decimal `json:"cost_basis"` // Quantity x AcquisitionPrice + AcquisitionFees
	AcquisitionPrice decimal.Decimal `json:"acquisition_price"`
	AcquisitionFees  decimal.Decimal `json:"acquisition_fees"`
}

// Position represents an account's holding in one asset, aggregating its lots
type Position struct {
	ID             string          `json:"id"`
	AccountID      string          `json:"account_id"`
	AssetID        string          `json:"asset_id"`
	Currency       string          `json:"currency"`
	Quantity       decimal.Decimal `json:"quantity"`
	AverageCost    decimal.Decimal `json:"average_cost"`
	TotalCostBasis decimal.Decimal `json:"total_cost_basis"`
	Lots           []Lot           `json:"lots"` // ordered by acquisition
	InceptionDate  time.Time       `json:"inception_date"`
	LastUpdated    time.Time       `json:"last_updated"`
}

// NewPosition creates an empty position opened on the given date
func NewPosition(accountID, assetID, currency string, inception time.Time) *Position {
	return &Position{
		ID:            accountID + "_" + assetID,
		AccountID:     accountID,
		AssetID:       assetID,
		Currency:      currency,
		InceptionDate: inception,
		LastUpdated:   inception,
	}
}

// IsClosed reports whether the position no longer holds any quantity
func (p *Position) IsClosed() bool {
	return IsNegligible(p.Quantity)
}

// AddLot appends a lot and recomputes the aggregates
func (p *Position) AddLot(lot Lot) {
	p.Lots = append(p.Lots, lot)
	p.LastUpdated = lot.AcquisitionDate
	p.recalculate()
}

// ReduceLots removes quantity from the lots according to method and returns the
// cost basis released by the disposal. Quantities above the held amount are clamped.
func (p *Position) ReduceLots(quantity decimal.Decimal, method CostBasisMethod, on time.Time) decimal.Decimal {
	if quantity.GreaterThan(p.Quantity) {
		quantity = p.Quantity
	}

	var released decimal.Decimal
	switch method {
	case AverageCost:
		released = p.reduceProportionally(quantity)
	default:
		released = p.reduceFIFO(quantity)
	}

	p.LastUpdated = on
	p.recalculate()
	return released
}

// reduceFIFO consumes lots front to back, splitting the boundary lot
func (p *Position) reduceFIFO(quantity decimal.Decimal) decimal.Decimal {
	released := decimal.Zero
	remaining := make([]Lot, 0, len(p.Lots))

	for _, lot := range p.Lots {
		if IsNegligible(quantity) {
			remaining = append(remaining, lot)
			continue
		}

		if lot.Quantity.GreaterThan(quantity) {
			fraction := quantity.Div(lot.Quantity)
			soldCost := lot.CostBasis.Mul(fraction)
			soldFees := lot.AcquisitionFees.Mul(fraction)
			lot.Quantity = lot.Quantity.Sub(quantity)
			lot.CostBasis = lot.CostBasis.Sub(soldCost)
			lot.AcquisitionFees = lot.AcquisitionFees.Sub(soldFees)
			released = released.Add(soldCost)
			quantity = decimal.Zero
			remaining = append(remaining, lot)
			continue
		}

		released = released.Add(lot.CostBasis)
		quantity = quantity.Sub(lot.Quantity)
	}

	p.Lots = remaining
	return released
}

// reduceProportionally shrinks every lot by quantity / held
func (p *Position) reduceProportionally(quantity decimal.Decimal) decimal.Decimal {
	if p.Quantity.IsZero() {
		return decimal.Zero
	}
	if quantity.Equal(p.Quantity) {
		released := p.TotalCostBasis
		p.Lots = nil
		return released
	}

	keep := decimal.NewFromInt(1).Sub(quantity.Div(p.Quantity))
	released := decimal.Zero
	for i := range p.Lots {
		lot := &p.Lots[i]
		newCost := lot.CostBasis.Mul(keep)
		released = released.Add(lot.CostBasis.Sub(newCost))
		lot.Quantity = lot.Quantity.Mul(keep)
		lot.CostBasis = newCost
		lot.AcquisitionFees = lot.AcquisitionFees.Mul(keep)
	}
	return released
}

// Split rescales quantity by ratio and every lot's acquisition price by 1/ratio.
// Cost basis is unchanged.
func (p *Position) Split(ratio decimal.Decimal, on time.Time) error {
	if !ratio.IsPositive() {
		return errors.New("split ratio must be positive")
	}
	for i := range p.Lots {
		lot := &p.Lots[i]
		lot.Quantity = lot.Quantity.Mul(ratio)
		lot.AcquisitionPrice = lot.AcquisitionPrice.Div(ratio)
	}
	p.LastUpdated = on
	p.recalculate()
	return nil
}

// recalculate derives quantity, total cost basis and average cost from the lots
func (p *Position) recalculate() {
	quantity := decimal.Zero
	cost := decimal.Zero
	live := p.Lots[:0]
	for _, lot := range p.Lots {
		if IsNegligible(lot.Quantity) {
			continue
		}
		live = append(live, lot)
		quantity = quantity.Add(lot.Quantity)
		cost = cost.Add(lot.CostBasis)
	}
	p.Lots = live
	p.Quantity = quantity
	p.TotalCostBasis = cost
	if quantity.IsZero() {
		p.AverageCost = decimal.Zero
		return
	}
	p.AverageCost = cost.Div(quantity)
}

// Clone returns a deep copy of the position
func (p *Position) Clone() Position {
	c := *p
	c.Lots = append([]Lot(nil), p.Lots...)
	return c
}
