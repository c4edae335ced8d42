package domain

import "fmt"

// CostBasisMethod selects which lots a disposal consumes
type CostBasisMethod int

const (
	// FIFO consumes the oldest lots first
	FIFO CostBasisMethod = iota
	// AverageCost reduces every lot by the same fraction, keeping the average cost unchanged
	AverageCost
)

func (m CostBasisMethod) String() string {
	switch m {
	case FIFO:
		return "fifo"
	case AverageCost:
		return "average"
	default:
		return "unknown"
	}
}

// ParseCostBasisMethod parses "fifo" or "average"
func ParseCostBasisMethod(s string) (CostBasisMethod, error) {
	switch s {
	case "fifo", "":
		return FIFO, nil
	case "average":
		return AverageCost, nil
	default:
		return 0, fmt.Errorf("unknown cost basis method: %q", s)
	}
}
