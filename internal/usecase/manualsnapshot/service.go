package manualsnapshot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-engine/internal/domain"
	"go.uber.org/zap"
)

// Service turns externally sourced holdings into persisted account snapshots
type Service struct {
	AssetRepo    domain.AssetRepository
	FxRegistry   domain.FxPairRegistry
	SnapshotRepo domain.SnapshotRepository
	Events       domain.EventSink
	Logger       *zap.Logger
	Now          func() time.Time
}

// NewService creates a new Service instance
func NewService(
	assetRepo domain.AssetRepository,
	fxRegistry domain.FxPairRegistry,
	snapshotRepo domain.SnapshotRepository,
	events domain.EventSink,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		AssetRepo:    assetRepo,
		FxRegistry:   fxRegistry,
		SnapshotRepo: snapshotRepo,
		Events:       events,
		Logger:       logger,
		Now:          time.Now,
	}
}

// HoldingInput is one caller-supplied position line
type HoldingInput struct {
	Symbol      string
	Quantity    decimal.Decimal
	AverageCost decimal.Decimal
	Currency    string // defaults to the account currency
}

// SaveInput carries a snapshot assembled outside the activity stream
type SaveInput struct {
	AccountID       string
	AccountCurrency string
	SnapshotDate    time.Time
	Source          domain.SnapshotSource // defaults to MANUAL_ENTRY
	Holdings        []HoldingInput
	CashBalances    map[string]decimal.Decimal
}

// SaveResult reports the stored snapshot and whether an equal one was already there
type SaveResult struct {
	Snapshot  *domain.AccountSnapshot
	Unchanged bool
}

// Save ingests a manual snapshot.
// Logic:
//  1. Validate the request and resolve or create an asset per holding
//  2. Register every foreign currency against the account currency
//  3. Cost basis = sum of quantity x average cost; net contribution stays zero
//  4. Skip the write when the stored snapshot of that date is content-equal
//  5. Persist and signal ManualSnapshotSaved; a failed signal is only logged
func (s *Service) Save(ctx context.Context, in SaveInput) (*SaveResult, error) {
	source, err := validate(&in)
	if err != nil {
		return nil, err
	}
	date := domain.DateOf(in.SnapshotDate)
	accountCurrency := domain.NormalizeCurrency(in.AccountCurrency)

	positions := make(map[string]domain.Position)
	costBasis := decimal.Zero
	currencies := make(map[string]struct{})
	for _, h := range in.Holdings {
		if h.Quantity.IsZero() {
			continue
		}
		currency := domain.NormalizeCurrency(h.Currency)
		if currency == "" {
			currency = accountCurrency
		}

		asset, err := s.resolveAsset(ctx, h.Symbol, currency)
		if err != nil {
			return nil, err
		}

		lotCost := h.Quantity.Mul(h.AverageCost)
		position, ok := positions[asset.ID]
		if !ok {
			position = *domain.NewPosition(in.AccountID, asset.ID, currency, date)
		} else if position.Currency != currency {
			return nil, fmt.Errorf("holding %s listed in both %s and %s", h.Symbol, position.Currency, currency)
		}
		position.AddLot(domain.Lot{
			ID:               fmt.Sprintf("%s_%s_%d", domain.RecordID(in.AccountID, date), asset.ID, len(position.Lots)),
			AcquisitionDate:  date,
			Quantity:         h.Quantity,
			CostBasis:        lotCost,
			AcquisitionPrice: h.AverageCost,
		})
		positions[asset.ID] = position

		costBasis = costBasis.Add(lotCost)
		currencies[currency] = struct{}{}
	}

	cash := make(map[string]decimal.Decimal)
	for currency, amount := range in.CashBalances {
		if amount.IsZero() {
			continue
		}
		currency = domain.NormalizeCurrency(currency)
		cash[currency] = cash[currency].Add(amount)
		currencies[currency] = struct{}{}
	}

	registered, err := s.registerPairs(ctx, currencies, accountCurrency)
	if err != nil {
		return nil, err
	}

	snapshot := &domain.AccountSnapshot{
		ID:              domain.RecordID(in.AccountID, date),
		AccountID:       in.AccountID,
		SnapshotDate:    date,
		Currency:        accountCurrency,
		Positions:       positions,
		CashBalances:    cash,
		CostBasis:       costBasis,
		NetContribution: decimal.Zero,
		CalculatedAt:    s.Now(),
		Source:          source,
	}

	existing, err := s.SnapshotRepo.GetByAccountAndDate(ctx, in.AccountID, date)
	if err != nil && !errors.Is(err, domain.ErrSnapshotNotFound) {
		return nil, err
	}
	if existing != nil && existing.ContentEqual(snapshot) {
		s.Logger.Info("manual snapshot unchanged, write skipped",
			zap.String("account_id", in.AccountID),
			zap.String("date", domain.FormatDate(date)))
		return &SaveResult{Snapshot: existing, Unchanged: true}, nil
	}

	if err := s.SnapshotRepo.Save(ctx, snapshot); err != nil {
		return nil, err
	}

	event := domain.ManualSnapshotSaved{
		EventID:      uuid.NewString(),
		AccountID:    in.AccountID,
		SnapshotID:   snapshot.ID,
		SnapshotDate: domain.FormatDate(date),
		Source:       source,
		Currencies:   registered,
	}
	if err := s.Events.ManualSnapshotSaved(ctx, event); err != nil {
		s.Logger.Warn("failed to signal manual snapshot",
			zap.String("account_id", in.AccountID),
			zap.String("snapshot_id", snapshot.ID),
			zap.Error(err))
	}

	return &SaveResult{Snapshot: snapshot}, nil
}

// resolveAsset returns the asset of symbol, creating a minimal one when none exists
func (s *Service) resolveAsset(ctx context.Context, symbol, currency string) (*domain.Asset, error) {
	asset, err := s.AssetRepo.GetBySymbol(ctx, symbol)
	if err == nil {
		return asset, nil
	}
	if !errors.Is(err, domain.ErrAssetNotFound) {
		return nil, err
	}

	asset = &domain.Asset{
		ID:       uuid.NewString(),
		Symbol:   symbol,
		Currency: currency,
	}
	if err := asset.Validate(); err != nil {
		return nil, err
	}
	if err := s.AssetRepo.Create(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// registerPairs registers currency -> account currency once per foreign currency
// and returns the registered currencies, sorted
func (s *Service) registerPairs(ctx context.Context, currencies map[string]struct{}, accountCurrency string) ([]string, error) {
	foreign := make([]string, 0, len(currencies))
	for currency := range currencies {
		if currency != accountCurrency {
			foreign = append(foreign, currency)
		}
	}
	sort.Strings(foreign)

	for _, currency := range foreign {
		pair := domain.CurrencyPair{From: currency, To: accountCurrency}
		if err := s.FxRegistry.Register(ctx, pair); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", pair, err)
		}
	}
	return foreign, nil
}

func validate(in *SaveInput) (domain.SnapshotSource, error) {
	if in.AccountID == "" {
		return "", errors.New("account id cannot be empty")
	}
	if in.SnapshotDate.IsZero() {
		return "", errors.New("snapshot date cannot be empty")
	}
	if err := domain.ValidateCurrency(domain.NormalizeCurrency(in.AccountCurrency)); err != nil {
		return "", err
	}

	source := in.Source
	if source == "" {
		source = domain.SnapshotSourceManualEntry
	}
	if !source.Valid() || source == domain.SnapshotSourceCalculated {
		return "", fmt.Errorf("invalid manual snapshot source %q", source)
	}

	for _, h := range in.Holdings {
		if h.Symbol == "" {
			return "", errors.New("holding symbol cannot be empty")
		}
		if h.Quantity.IsNegative() {
			return "", fmt.Errorf("holding %s quantity cannot be negative", h.Symbol)
		}
		if h.AverageCost.IsNegative() {
			return "", fmt.Errorf("holding %s average cost cannot be negative", h.Symbol)
		}
		if h.Currency != "" {
			if err := domain.ValidateCurrency(domain.NormalizeCurrency(h.Currency)); err != nil {
				return "", err
			}
		}
	}
	for currency := range in.CashBalances {
		if err := domain.ValidateCurrency(domain.NormalizeCurrency(currency)); err != nil {
			return "", err
		}
	}
	return source, nil
}
