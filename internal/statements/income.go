package statements

import (
	"fjacquet/fin-statements/internal/models"
)

var operatingExpenses = models.LineItemsIn(models.SectionOperatingExpense)

var incomeLayout = func() []lineSpec {
	layout := []lineSpec{
		item(models.LineItemRevenue),
		item(models.LineItemCOGS),
		total(models.LineGrossProfit, "Gross Profit"),
	}
	for _, li := range operatingExpenses {
		layout = append(layout, item(li))
	}
	return append(layout,
		total(models.LineTotalOperatingExpenses, "Total Operating Expenses"),
		total(models.LineOperatingIncome, "Operating Income"),
		item(models.LineItemInterestExpense),
		total(models.LinePreTaxIncome, "Income Before Taxes"),
		item(models.LineItemTaxExpense),
		total(models.LineNetIncome, "Net Income"),
	)
}()

// incomeValues computes the income statement of one period from activity.
func incomeValues(b Balances) values {
	v := values{}
	for _, li := range models.LineItems() {
		if li.IsIncomeStatement() {
			v[string(li)] = b.Get(li)
		}
	}
	gross := b.Get(models.LineItemRevenue).Sub(b.Get(models.LineItemCOGS))
	opex := sum(b, operatingExpenses)
	operating := gross.Sub(opex)
	pretax := operating.Sub(b.Get(models.LineItemInterestExpense))

	v[models.LineGrossProfit] = gross
	v[models.LineTotalOperatingExpenses] = opex
	v[models.LineOperatingIncome] = operating
	v[models.LinePreTaxIncome] = pretax
	v[models.LineNetIncome] = pretax.Sub(b.Get(models.LineItemTaxExpense))
	return v
}
