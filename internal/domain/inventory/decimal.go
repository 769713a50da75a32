package inventory

import "github.com/shopspring/decimal"

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

// LineValue valor de una línea: quantity * unitPrice.
func LineValue(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimalFromInt(quantity))
}
