package statements

import (
	"fjacquet/fin-statements/internal/models"

	"github.com/shopspring/decimal"
)

var (
	currentAssets      = models.LineItemsIn(models.SectionCurrentAsset)
	currentLiabilities = models.LineItemsIn(models.SectionCurrentLiability)
)

var balanceLayout = func() []lineSpec {
	var layout []lineSpec
	for _, li := range currentAssets {
		layout = append(layout, item(li))
	}
	layout = append(layout,
		total(models.LineTotalCurrentAssets, "Total Current Assets"),
		item(models.LineItemPPE),
		lineSpec{key: string(models.LineItemAccumulatedDepreciation), label: "Less: Accumulated Depreciation"},
		item(models.LineItemOtherNonCurrentAssets),
		total(models.LineTotalAssets, "Total Assets"),
	)
	for _, li := range currentLiabilities {
		layout = append(layout, item(li))
	}
	return append(layout,
		total(models.LineTotalCurrentLiabilities, "Total Current Liabilities"),
		item(models.LineItemLongTermDebt),
		total(models.LineTotalLiabilities, "Total Liabilities"),
		item(models.LineItemCommonStock),
		item(models.LineItemRetainedEarnings),
		lineSpec{key: string(models.LineItemDividends), label: "Less: Dividends"},
		lineSpec{key: models.LineCurrentPeriodEarnings, label: "Current Period Earnings"},
		total(models.LineTotalEquity, "Total Equity"),
		total(models.LineTotalLiabilitiesEquity, "Total Liabilities and Equity"),
		lineSpec{key: models.LineBalanceCheck, label: "Balance Check (Assets - Liabilities - Equity)"},
	)
}()

// balanceValues computes the balance sheet of one period from positions.
// Contra accounts are shown negative so that totals are plain sums.
// Income statement balances still open in the position are reported as
// current period earnings.
func balanceValues(b Balances) values {
	v := values{}
	for _, li := range models.LineItems() {
		if li.IsBalanceSheet() {
			v[string(li)] = b.Get(li)
		}
	}
	v[string(models.LineItemAccumulatedDepreciation)] = b.Get(models.LineItemAccumulatedDepreciation).Neg()
	v[string(models.LineItemDividends)] = b.Get(models.LineItemDividends).Neg()

	tca := sum(b, currentAssets)
	totalAssets := tca.
		Add(b.Get(models.LineItemPPE)).
		Sub(b.Get(models.LineItemAccumulatedDepreciation)).
		Add(b.Get(models.LineItemOtherNonCurrentAssets))

	tcl := sum(b, currentLiabilities)
	totalLiabilities := tcl.Add(b.Get(models.LineItemLongTermDebt))

	earnings := incomeValues(b).get(models.LineNetIncome)
	equity := retainedTotal(b).Add(b.Get(models.LineItemCommonStock))
	tle := totalLiabilities.Add(equity)

	v[models.LineTotalCurrentAssets] = tca
	v[models.LineTotalAssets] = totalAssets
	v[models.LineTotalCurrentLiabilities] = tcl
	v[models.LineTotalLiabilities] = totalLiabilities
	v[models.LineCurrentPeriodEarnings] = earnings
	v[models.LineTotalEquity] = equity
	v[models.LineTotalLiabilitiesEquity] = tle
	v[models.LineBalanceCheck] = totalAssets.Sub(tle)
	return v
}

// retainedTotal is retained earnings plus unclosed earnings less dividends.
func retainedTotal(b Balances) decimal.Decimal {
	return b.Get(models.LineItemRetainedEarnings).
		Add(incomeValues(b).get(models.LineNetIncome)).
		Sub(b.Get(models.LineItemDividends))
}
