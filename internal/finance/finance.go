// Package finance derives contract balances, progress and savings from
// realized (validated NF) values.
package finance

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Balance is what remains of the contract value after realized spending.
// It goes negative when the contract is overrun.
func Balance(original, realized decimal.Decimal) decimal.Decimal {
	return original.Sub(realized)
}

// Percent returns part/whole*100 rounded to two places, 0 when whole is 0.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}

// PercentRealized is the share of the original value already realized.
func PercentRealized(realized, original decimal.Decimal) decimal.Decimal {
	return Percent(realized, original)
}

// Savings is how far realized stays under the forecast, never negative.
func Savings(forecast, realized decimal.Decimal) decimal.Decimal {
	if forecast.IsZero() {
		return decimal.Zero
	}
	return decimal.Max(decimal.Zero, forecast.Sub(realized))
}

// SavingsPercent is savings as a share of the forecast.
func SavingsPercent(savings, forecast decimal.Decimal) decimal.Decimal {
	return Percent(savings, forecast)
}

// Display converts a decimal for rendering in documents.
func Display(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
