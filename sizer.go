package sutra

import (
	"math"

	"github.com/sutralabs/sutra/models"
)

// Sizer converts target cash allocations into share quantities. Every
// quantity-producing path in the engine routes through one Sizer so
// fractional and whole-share runs can never disagree on rounding.
type Sizer struct {
	Fractional     bool
	CommissionRate float64
	SlippageRate   float64
}

func NewSizer(config models.AnalysisConfig) Sizer {
	return Sizer{
		Fractional:     config.FractionalShares,
		CommissionRate: config.CommissionRate,
		SlippageRate:   config.SlippageRate,
	}
}

// Size returns the quantity purchasable with targetCash at price and the
// cash left over. Fractional sizing consumes the target exactly; whole-share
// sizing floors the quantity and returns the residual.
func (s Sizer) Size(targetCash float64, price float64) (float64, float64, error) {
	if price <= 0 {
		return 0, 0, &models.SizingError{Quantity: 0, Reason: "price must be positive"}
	}
	if targetCash < 0 {
		return 0, 0, &models.SizingError{Quantity: 0, Reason: "target cash must not be negative"}
	}
	if s.Fractional {
		return targetCash / price, 0, nil
	}
	quantity := math.Floor(targetCash / price)
	return quantity, targetCash - quantity*price, nil
}

// ValidateQuantity rejects quantities produced outside the sizer contract: a
// whole-share run must never see a fractional quantity.
func (s Sizer) ValidateQuantity(quantity float64) error {
	if quantity < 0 {
		return &models.SizingError{Quantity: quantity, Reason: "quantity must not be negative"}
	}
	if !s.Fractional && quantity != math.Floor(quantity) {
		return &models.SizingError{Quantity: quantity, Reason: "fractional quantity in a whole-share run"}
	}
	return nil
}

// TransactionCost returns the commission and slippage charged for executing
// a quantity at price. Costs are deducted from cash at trade time, never
// folded into the position's cost basis.
func (s Sizer) TransactionCost(quantity float64, price float64) (float64, float64) {
	notional := quantity * price
	return notional * s.CommissionRate, notional * s.SlippageRate
}
