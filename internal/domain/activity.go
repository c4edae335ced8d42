package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ActivityType represents one entry of the closed activity taxonomy
type ActivityType string

const (
	ActivityTypeBuy           ActivityType = "BUY"
	ActivityTypeSell          ActivityType = "SELL"
	ActivityTypeAddHolding    ActivityType = "ADD_HOLDING"
	ActivityTypeRemoveHolding ActivityType = "REMOVE_HOLDING"
	ActivityTypeDividend      ActivityType = "DIVIDEND"
	ActivityTypeInterest      ActivityType = "INTEREST"
	ActivityTypeDeposit       ActivityType = "DEPOSIT"
	ActivityTypeWithdrawal    ActivityType = "WITHDRAWAL"
	ActivityTypeTransferIn    ActivityType = "TRANSFER_IN"
	ActivityTypeTransferOut   ActivityType = "TRANSFER_OUT"
	ActivityTypeConversionIn  ActivityType = "CONVERSION_IN"
	ActivityTypeConversionOut ActivityType = "CONVERSION_OUT"
	ActivityTypeFee           ActivityType = "FEE"
	ActivityTypeTax           ActivityType = "TAX"
	ActivityTypeSplit         ActivityType = "SPLIT"
	ActivityTypeCredit        ActivityType = "CREDIT"
	ActivityTypeAdjustment    ActivityType = "ADJUSTMENT"
	ActivityTypeUnknown       ActivityType = "UNKNOWN"
)

var activityTypes = map[ActivityType]struct{}{
	ActivityTypeBuy:           {},
	ActivityTypeSell:          {},
	ActivityTypeAddHolding:    {},
	ActivityTypeRemoveHolding: {},
	ActivityTypeDividend:      {},
	ActivityTypeInterest:      {},
	ActivityTypeDeposit:       {},
	ActivityTypeWithdrawal:    {},
	ActivityTypeTransferIn:    {},
	ActivityTypeTransferOut:   {},
	ActivityTypeConversionIn:  {},
	ActivityTypeConversionOut: {},
	ActivityTypeFee:           {},
	ActivityTypeTax:           {},
	ActivityTypeSplit:         {},
	ActivityTypeCredit:        {},
	ActivityTypeAdjustment:    {},
	ActivityTypeUnknown:       {},
}

// ParseActivityType parses a raw activity type against the closed taxonomy.
// Matching ignores surrounding whitespace and case.
func ParseActivityType(raw string) (ActivityType, error) {
	t := ActivityType(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := activityTypes[t]; !ok {
		return "", &UnsupportedActivityTypeError{Type: raw}
	}
	return t, nil
}

// HandlerClass groups activity types by the way they change holdings state
type HandlerClass int

const (
	HandlerAcquire HandlerClass = iota + 1
	HandlerDispose
	HandlerCash
	HandlerSplit
	HandlerIgnore
)

// String returns the handler class name
func (c HandlerClass) String() string {
	switch c {
	case HandlerAcquire:
		return "acquire"
	case HandlerDispose:
		return "dispose"
	case HandlerCash:
		return "cash"
	case HandlerSplit:
		return "split"
	case HandlerIgnore:
		return "ignore"
	default:
		return "unknown"
	}
}

// Classify returns the handler class for an activity type applied to an asset.
// Transfers and conversions move a position when the asset is an instrument and move
// cash when the asset is a cash sentinel.
func (t ActivityType) Classify(assetID string) HandlerClass {
	cash := IsCashAsset(assetID)
	switch t {
	case ActivityTypeBuy, ActivityTypeAddHolding:
		return HandlerAcquire
	case ActivityTypeSell, ActivityTypeRemoveHolding:
		return HandlerDispose
	case ActivityTypeTransferIn, ActivityTypeConversionIn:
		if cash {
			return HandlerCash
		}
		return HandlerAcquire
	case ActivityTypeTransferOut, ActivityTypeConversionOut:
		if cash {
			return HandlerCash
		}
		return HandlerDispose
	case ActivityTypeDeposit, ActivityTypeWithdrawal, ActivityTypeInterest, ActivityTypeDividend,
		ActivityTypeFee, ActivityTypeTax, ActivityTypeCredit, ActivityTypeAdjustment:
		return HandlerCash
	case ActivityTypeSplit:
		return HandlerSplit
	case ActivityTypeUnknown:
		return HandlerIgnore
	}
	panic("unhandled activity type " + string(t))
}

// IsTrade reports whether the activity exchanges the instrument against cash
func (t ActivityType) IsTrade() bool {
	return t == ActivityTypeBuy || t == ActivityTypeSell
}

// Activity represents one immutable ledger fact consumed by the replay engine
type Activity struct {
	ID           string
	AccountID    string
	AssetID      string // "$CASH-<currency>" for currency-only activities
	ActivityType string // raw value, parsed with ParseActivityType
	ActivityDate time.Time
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	Amount       decimal.Decimal // cash amount; split ratio for SPLIT
	Fee          decimal.Decimal
	Currency     string
	FxRate       decimal.Decimal // activity currency to account currency, zero when unknown
	IsExternal   bool            // transfer or credit crossing the boundary of tracked accounts
}

// CashAmount returns the cash magnitude of a currency-only activity:
// Amount when set, otherwise Quantity x UnitPrice
func (a *Activity) CashAmount() decimal.Decimal {
	if !a.Amount.IsZero() {
		return a.Amount
	}
	return a.Quantity.Mul(a.UnitPrice)
}

// TradeValue returns Quantity x UnitPrice
func (a *Activity) TradeValue() decimal.Decimal {
	return a.Quantity.Mul(a.UnitPrice)
}

const cashAssetPrefix = "$CASH-"

// CashAssetID returns the cash sentinel asset id for a currency
func CashAssetID(currency string) string {
	return cashAssetPrefix + strings.ToUpper(currency)
}

// IsCashAsset reports whether the asset id is a cash sentinel
func IsCashAsset(assetID string) bool {
	return strings.HasPrefix(assetID, cashAssetPrefix)
}
