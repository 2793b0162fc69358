package costing

import "github.com/shopspring/decimal"

// scale is the number of fractional digits every stored monetary value keeps.
const scale = 4

var hundred = decimal.NewFromInt(100)

// Totals is the computed totals block of a budget.
type Totals struct {
	Gross    decimal.Decimal
	Discount decimal.Decimal
	Net      decimal.Decimal
}

// ItemSubtotals computes the UST and gross subtotals for a single budget item.
// Each product is rounded to four decimal places half away from zero. The gross
// multiplication starts from the rounded UST value, because that is the value
// that gets stored; no further rounding is chained beyond that.
func ItemSubtotals(hours, complexity, unitPrice decimal.Decimal) (subtotalUst, subtotalGross decimal.Decimal) {
	subtotalUst = complexity.Mul(hours).Round(scale)
	subtotalGross = subtotalUst.Mul(unitPrice).Round(scale)

	return subtotalUst, subtotalGross
}

// BudgetTotals sums the stored, already-rounded item gross subtotals and
// applies the discount percentage. Gross, discount and net are each rounded
// once.
func BudgetTotals(grossSubtotals []decimal.Decimal, discountPercent decimal.Decimal) Totals {
	gross := decimal.Zero
	for _, g := range grossSubtotals {
		gross = gross.Add(g)
	}

	gross = gross.Round(scale)
	discount := gross.Mul(discountPercent).Div(hundred).Round(scale)
	net := gross.Sub(discount).Round(scale)

	return Totals{Gross: gross, Discount: discount, Net: net}
}
