package sim

import "github.com/shopspring/decimal"

// shouldExecute is the matching rule. Buys fire at or below the target,
// sells at or above it.
func shouldExecute(o *Order, price decimal.Decimal) bool {
	switch o.Side {
	case Buy:
		return price.LessThanOrEqual(o.TargetPrice)
	case Sell:
		return price.GreaterThanOrEqual(o.TargetPrice)
	}
	return false
}
