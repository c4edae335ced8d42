package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseActivityType(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    ActivityType
		wantErr bool
	}{
		{name: "Exact match", raw: "BUY", want: ActivityTypeBuy},
		{name: "Lower case with spaces", raw: "  transfer_out ", want: ActivityTypeTransferOut},
		{name: "UNKNOWN is part of the taxonomy", raw: "UNKNOWN", want: ActivityTypeUnknown},
		{name: "Outside the taxonomy", raw: "STAKE", wantErr: true},
		{name: "Empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseActivityType(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnsupportedActivityType))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActivityType_Classify(t *testing.T) {
	cash := CashAssetID("usd")
	tests := []struct {
		activityType ActivityType
		assetID      string
		want         HandlerClass
	}{
		{ActivityTypeBuy, "AAPL", HandlerAcquire},
		{ActivityTypeAddHolding, "AAPL", HandlerAcquire},
		{ActivityTypeTransferIn, "AAPL", HandlerAcquire},
		{ActivityTypeConversionIn, "AAPL", HandlerAcquire},
		{ActivityTypeTransferIn, cash, HandlerCash},
		{ActivityTypeConversionIn, cash, HandlerCash},
		{ActivityTypeSell, "AAPL", HandlerDispose},
		{ActivityTypeRemoveHolding, "AAPL", HandlerDispose},
		{ActivityTypeTransferOut, "AAPL", HandlerDispose},
		{ActivityTypeConversionOut, "AAPL", HandlerDispose},
		{ActivityTypeTransferOut, cash, HandlerCash},
		{ActivityTypeConversionOut, cash, HandlerCash},
		{ActivityTypeDeposit, cash, HandlerCash},
		{ActivityTypeWithdrawal, cash, HandlerCash},
		{ActivityTypeDividend, "AAPL", HandlerCash},
		{ActivityTypeInterest, cash, HandlerCash},
		{ActivityTypeFee, cash, HandlerCash},
		{ActivityTypeTax, cash, HandlerCash},
		{ActivityTypeCredit, cash, HandlerCash},
		{ActivityTypeAdjustment, cash, HandlerCash},
		{ActivityTypeSplit, "AAPL", HandlerSplit},
		{ActivityTypeUnknown, "AAPL", HandlerIgnore},
	}

	for _, tt := range tests {
		t.Run(string(tt.activityType)+" "+tt.assetID, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.activityType.Classify(tt.assetID))
		})
	}
}

func TestActivityType_ClassifyCoversTaxonomy(t *testing.T) {
	for activityType := range activityTypes {
		assert.NotPanics(t, func() { activityType.Classify("X") }, string(activityType))
	}
}

func TestCashAssetID(t *testing.T) {
	assert.Equal(t, "$CASH-EUR", CashAssetID("eur"))
	assert.True(t, IsCashAsset("$CASH-EUR"))
	assert.False(t, IsCashAsset("EUR"))
}

func TestActivity_CashAmount(t *testing.T) {
	withAmount := Activity{Amount: decimal.NewFromInt(50), Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(10)}
	assert.True(t, withAmount.CashAmount().Equal(decimal.NewFromInt(50)))

	withoutAmount := Activity{Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(10)}
	assert.True(t, withoutAmount.CashAmount().Equal(decimal.NewFromInt(20)))
}
