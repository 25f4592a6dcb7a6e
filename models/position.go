package models

// Position is an open holding in one symbol.
type Position struct {
	Symbol      string
	Quantity    float64
	AverageCost float64
}

// PortfolioState tracks cash and open positions for a single backtest run.
// Equity is maintained incrementally by the simulator and cross-checked
// against cash plus marked-to-market position value every step.
type PortfolioState struct {
	Cash      float64
	Positions map[string]Position
	Equity    float64
}

// NewPortfolioState returns a portfolio holding only cash.
func NewPortfolioState(startingCash float64) PortfolioState {
	return PortfolioState{
		Cash:      startingCash,
		Positions: make(map[string]Position),
		Equity:    startingCash,
	}
}

// MarkToMarket computes cash plus position value at the given prices.
func (p PortfolioState) MarkToMarket(prices map[string]float64) float64 {
	value := p.Cash
	for symbol, pos := range p.Positions {
		value += pos.Quantity * prices[symbol]
	}
	return value
}

// Quantity returns the held quantity for a symbol, zero when flat.
func (p PortfolioState) Quantity(symbol string) float64 {
	return p.Positions[symbol].Quantity
}
