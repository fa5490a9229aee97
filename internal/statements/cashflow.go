package statements

import (
	"fjacquet/fin-statements/internal/models"

	"github.com/shopspring/decimal"
)

// workingCapital lists the items whose change adjusts operating cash flow.
var workingCapital = []models.LineItem{
	models.LineItemAccountsReceivable,
	models.LineItemInventory,
	models.LineItemPrepaidExpenses,
	models.LineItemOtherCurrentAssets,
	models.LineItemAccountsPayable,
	models.LineItemAccruedPayroll,
	models.LineItemDeferredRevenue,
	models.LineItemInterestPayable,
	models.LineItemOtherCurrentLiabilities,
	models.LineItemIncomeTaxesPayable,
}

var cashFlowLayout = func() []lineSpec {
	layout := []lineSpec{
		{key: models.LineNetIncome, label: "Net Income"},
		{key: models.LineDepreciation, label: "Depreciation and Amortization"},
	}
	for _, li := range workingCapital {
		layout = append(layout, lineSpec{key: models.ChangeLine(li), label: "Change in " + li.Label()})
	}
	return append(layout,
		total(models.LineCashFromOperations, "Cash from Operating Activities"),
		lineSpec{key: models.LineCapitalExpenditure, label: "Capital Expenditure"},
		lineSpec{key: models.LineOtherInvesting, label: "Other Investing Activities"},
		total(models.LineCashFromInvesting, "Cash from Investing Activities"),
		lineSpec{key: models.LineChangeInDebt, label: "Change in Long-Term Debt"},
		lineSpec{key: models.LineStockIssuance, label: "Stock Issuance"},
		lineSpec{key: models.LineDividendsPaid, label: "Dividends Paid"},
		total(models.LineCashFromFinancing, "Cash from Financing Activities"),
		total(models.LineNetChangeInCash, "Net Change in Cash"),
		lineSpec{key: models.LineChangeInCashBalanceSheet, label: "Change in Cash per Balance Sheet"},
		lineSpec{key: models.LineCashReconciliation, label: "Reconciliation Difference"},
	)
}()

// cashFlowValues derives the indirect cash flow of cur against the prior
// period prev.
func cashFlowValues(prev, cur PeriodAggregate) values {
	v := values{}
	delta := func(li models.LineItem) decimal.Decimal {
		return cur.Position.Get(li).Sub(prev.Position.Get(li))
	}

	netIncome := incomeValues(cur.Activity).get(models.LineNetIncome)

	depreciation := cur.Activity.Get(models.LineItemDepreciationExpense)
	if depreciation.IsZero() {
		depreciation = delta(models.LineItemAccumulatedDepreciation)
	}

	operating := netIncome.Add(depreciation)
	for _, li := range workingCapital {
		change := delta(li)
		if li.Normal() == models.NormalDebit {
			change = change.Neg()
		}
		v[models.ChangeLine(li)] = change
		operating = operating.Add(change)
	}

	capex := delta(models.LineItemPPE).Neg()
	otherInvesting := delta(models.LineItemOtherNonCurrentAssets).Neg()
	investing := capex.Add(otherInvesting)

	dividends := cur.Activity.Get(models.LineItemDividends)
	if dividends.IsZero() {
		// roll forward: prior retained + earnings - current retained
		dividends = decimal.Max(decimal.Zero,
			retainedTotal(prev.Position).Add(netIncome).Sub(retainedTotal(cur.Position)))
	}
	debt := delta(models.LineItemLongTermDebt)
	stock := delta(models.LineItemCommonStock)
	financing := debt.Add(stock).Sub(dividends)

	netChange := operating.Add(investing).Add(financing)
	cashChange := delta(models.LineItemCash)

	v[models.LineNetIncome] = netIncome
	v[models.LineDepreciation] = depreciation
	v[models.LineCashFromOperations] = operating
	v[models.LineCapitalExpenditure] = capex
	v[models.LineOtherInvesting] = otherInvesting
	v[models.LineCashFromInvesting] = investing
	v[models.LineChangeInDebt] = debt
	v[models.LineStockIssuance] = stock
	v[models.LineDividendsPaid] = dividends.Neg()
	v[models.LineCashFromFinancing] = financing
	v[models.LineNetChangeInCash] = netChange
	v[models.LineChangeInCashBalanceSheet] = cashChange
	v[models.LineCashReconciliation] = netChange.Sub(cashChange)
	return v
}
