package models

import "github.com/shopspring/decimal"

// Milliunits represents 1/1000 of a currency unit, the unit YNAB uses for
// every amount.
type Milliunits int64

func (m Milliunits) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -3)
}

func (m Milliunits) String() string {
	return m.Decimal().StringFixed(2)
}

func (m Milliunits) Negative() bool {
	return m < 0
}

// Sum adds amounts in decimal to avoid float drift.
func Sum(amounts ...Milliunits) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.Decimal())
	}
	return total
}
