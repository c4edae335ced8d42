package holdings

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-engine/internal/domain"
)

// Each handler either applies the activity completely or returns an error before
// touching the state; the error becomes a Warning and replay continues.

// applyAcquire handles BUY, ADD_HOLDING and instrument TRANSFER_IN / CONVERSION_IN
// Logic:
//  1. Append a lot costing quantity x unit price + fee
//  2. BUY debits quantity x unit price + fee from cash; ADD_HOLDING models an opening
//     balance and leaves cash alone; other acquisitions only debit the fee
//  3. An external TRANSFER_IN adds quantity x unit price to net contribution
func applyAcquire(s *accountState, a *domain.Activity, t domain.ActivityType, currency string) error {
	if !a.Quantity.IsPositive() {
		return fmt.Errorf("%s quantity must be positive, got %s", t, a.Quantity)
	}
	if a.UnitPrice.IsNegative() || a.Fee.IsNegative() {
		return fmt.Errorf("%s unit price and fee cannot be negative", t)
	}

	p, ok := s.positions[a.AssetID]
	if ok && p.Currency != currency {
		return fmt.Errorf("%s in %s does not match position currency %s", t, currency, p.Currency)
	}

	var contribution decimal.Decimal
	if t == domain.ActivityTypeTransferIn && a.IsExternal {
		delta, err := s.contributionDelta(a, currency, a.TradeValue())
		if err != nil {
			return err
		}
		contribution = delta
	}

	date := domain.DateOf(a.ActivityDate)
	if !ok {
		p = domain.NewPosition(s.accountID, a.AssetID, currency, date)
		s.positions[a.AssetID] = p
	}
	p.AddLot(domain.Lot{
		ID:               a.ID,
		AcquisitionDate:  date,
		Quantity:         a.Quantity,
		CostBasis:        a.TradeValue().Add(a.Fee),
		AcquisitionPrice: a.UnitPrice,
		AcquisitionFees:  a.Fee,
	})

	switch {
	case t.IsTrade():
		s.addCash(currency, a.TradeValue().Add(a.Fee).Neg())
	case t == domain.ActivityTypeAddHolding:
		// opening balance, no cash leg
	case a.Fee.IsPositive():
		s.addCash(currency, a.Fee.Neg())
	}
	s.netContribution = s.netContribution.Add(contribution)
	return nil
}

// applyDispose handles SELL, REMOVE_HOLDING and instrument TRANSFER_OUT / CONVERSION_OUT
// Logic:
//  1. Clamp the quantity at the held quantity (with a warning) and consume lots per the
//     cost basis method
//  2. SELL credits clamped quantity x unit price - fee to cash; other disposals only debit the fee
//  3. An external TRANSFER_OUT removes quantity x unit price from net contribution,
//     or the released cost basis when no unit price is given
//  4. A position left empty is closed and dropped
func applyDispose(s *accountState, a *domain.Activity, t domain.ActivityType, currency string, method domain.CostBasisMethod) error {
	if !a.Quantity.IsPositive() {
		return fmt.Errorf("%s quantity must be positive, got %s", t, a.Quantity)
	}
	if a.UnitPrice.IsNegative() || a.Fee.IsNegative() {
		return fmt.Errorf("%s unit price and fee cannot be negative", t)
	}

	p, ok := s.positions[a.AssetID]
	if !ok || p.IsClosed() {
		return fmt.Errorf("%s of %s without an open position", t, a.AssetID)
	}
	if p.Currency != currency {
		return fmt.Errorf("%s in %s does not match position currency %s", t, currency, p.Currency)
	}

	external := t == domain.ActivityTypeTransferOut && a.IsExternal
	if external && currency != s.currency && !a.FxRate.IsPositive() {
		return fmt.Errorf("contribution in %s needs an fx rate to %s", currency, s.currency)
	}

	quantity := a.Quantity
	if quantity.GreaterThan(p.Quantity) {
		s.warn(a, "%s of %s %s exceeds held quantity %s, clamped", t, a.Quantity, a.AssetID, p.Quantity)
		quantity = p.Quantity
	}
	proceeds := quantity.Mul(a.UnitPrice)
	released := p.ReduceLots(quantity, method, domain.DateOf(a.ActivityDate))

	if t.IsTrade() {
		s.addCash(currency, proceeds.Sub(a.Fee))
	} else if a.Fee.IsPositive() {
		s.addCash(currency, a.Fee.Neg())
	}

	if external {
		outflow := proceeds
		if outflow.IsZero() {
			outflow = released
		}
		delta, _ := s.contributionDelta(a, currency, outflow)
		s.netContribution = s.netContribution.Sub(delta)
	}

	if p.IsClosed() {
		delete(s.positions, a.AssetID)
	}
	return nil
}

// applyCash handles activities that only move a cash balance
func applyCash(s *accountState, a *domain.Activity, t domain.ActivityType, currency string) error {
	amount := a.CashAmount()
	if t != domain.ActivityTypeAdjustment && (amount.IsNegative() || a.Fee.IsNegative()) {
		return fmt.Errorf("%s amount and fee cannot be negative", t)
	}

	var cash, contribution decimal.Decimal
	switch t {
	case domain.ActivityTypeDeposit:
		cash, contribution = amount.Sub(a.Fee), amount
	case domain.ActivityTypeWithdrawal:
		cash, contribution = amount.Add(a.Fee).Neg(), amount.Neg()
	case domain.ActivityTypeDividend, domain.ActivityTypeInterest, domain.ActivityTypeConversionIn:
		cash = amount.Sub(a.Fee)
	case domain.ActivityTypeTransferIn, domain.ActivityTypeCredit:
		cash = amount.Sub(a.Fee)
		if a.IsExternal {
			contribution = amount
		}
	case domain.ActivityTypeConversionOut:
		cash = amount.Add(a.Fee).Neg()
	case domain.ActivityTypeTransferOut:
		cash = amount.Add(a.Fee).Neg()
		if a.IsExternal {
			contribution = amount.Neg()
		}
	case domain.ActivityTypeFee:
		charge := a.Fee
		if charge.IsZero() {
			charge = amount
		}
		cash = charge.Neg()
	case domain.ActivityTypeTax:
		charge := amount
		if charge.IsZero() {
			charge = a.Fee
		}
		cash = charge.Neg()
	case domain.ActivityTypeAdjustment:
		if !domain.IsCashAsset(a.AssetID) {
			return fmt.Errorf("%s of instrument %s is not supported", t, a.AssetID)
		}
		cash = a.Amount
	default:
		return fmt.Errorf("%s is not a cash activity", t)
	}

	if !contribution.IsZero() {
		delta, err := s.contributionDelta(a, currency, contribution)
		if err != nil {
			return err
		}
		contribution = delta
	}

	s.addCash(currency, cash)
	s.netContribution = s.netContribution.Add(contribution)
	return nil
}

// applySplit rescales the position by the ratio carried in Amount
func applySplit(s *accountState, a *domain.Activity) error {
	p, ok := s.positions[a.AssetID]
	if !ok || p.IsClosed() {
		return fmt.Errorf("split of %s without an open position", a.AssetID)
	}
	if !a.Amount.IsPositive() {
		return errors.New("split ratio must be positive")
	}
	return p.Split(a.Amount, domain.DateOf(a.ActivityDate))
}
