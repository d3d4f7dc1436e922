package domain

import "github.com/shopspring/decimal"

// statutoryRates holds the flat liability rate applied per tax type when
// computing the indicative tax due from schedule taxable amounts. Rates are
// fractions (0.15 = 15%).
var statutoryRates = map[TaxType]decimal.Decimal{
	TaxTypeGST:                decimal.NewFromFloat(0.15),
	TaxTypeIncomeTax:          decimal.NewFromFloat(0.25),
	TaxTypePAYE:               decimal.NewFromFloat(0.30),
	TaxTypeWithholdingTax:     decimal.NewFromFloat(0.10),
	TaxTypeCorporateIncomeTax: decimal.NewFromFloat(0.28),
	TaxTypeExciseDuty:         decimal.NewFromFloat(0.20),
}

// RateFor returns the statutory rate for the tax type, or zero when the type
// has no flat rate configured.
func RateFor(taxType TaxType) decimal.Decimal {
	if rate, ok := statutoryRates[taxType]; ok {
		return rate
	}
	return decimal.Zero
}

// ComputeLiability returns the indicative tax due for the given taxable total:
// taxable * rate, rounded to 2 decimal places.
func ComputeLiability(taxType TaxType, taxable decimal.Decimal) decimal.Decimal {
	return taxable.Mul(RateFor(taxType)).Round(2)
}
