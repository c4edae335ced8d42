package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnsupportedActivityType is matched by errors.Is for every UnsupportedActivityTypeError
	ErrUnsupportedActivityType = errors.New("unsupported activity type")

	// ErrRateNotFound is matched by errors.Is for every RateNotFoundError
	ErrRateNotFound = errors.New("fx rate not found")

	// ErrSnapshotNotFound is returned by snapshot stores when no row matches
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrAssetNotFound is returned by asset stores when no asset matches
	ErrAssetNotFound = errors.New("asset not found")
)

// UnsupportedActivityTypeError reports an activity whose type is outside the taxonomy.
// It aborts a whole holdings calculation.
type UnsupportedActivityTypeError struct {
	ActivityID string
	Type       string
}

func (e *UnsupportedActivityTypeError) Error() string {
	if e.ActivityID == "" {
		return fmt.Sprintf("unsupported activity type %q", e.Type)
	}
	return fmt.Sprintf("unsupported activity type %q on activity %s", e.Type, e.ActivityID)
}

// Is matches ErrUnsupportedActivityType
func (e *UnsupportedActivityTypeError) Is(target error) bool {
	return target == ErrUnsupportedActivityType
}

// RateNotFoundError reports a currency pair that cannot be resolved from a daily rate cache
type RateNotFoundError struct {
	From string
	To   string
	Date time.Time
}

func (e *RateNotFoundError) Error() string {
	return fmt.Sprintf("fx rate %s/%s not found for %s", e.From, e.To, FormatDate(e.Date))
}

// Is matches ErrRateNotFound
func (e *RateNotFoundError) Is(target error) bool {
	return target == ErrRateNotFound
}
