package classifier

import "fjacquet/fin-statements/internal/models"

var payrollKeywords = []string{"payroll", "wage", "salar", "bonus", "compensation"}

// DefaultRules returns the built-in chart of accounts, aliases and detectors.
func DefaultRules() *models.ClassificationRules {
	return &models.ClassificationRules{
		Precedence: append([]string(nil), models.DefaultPrecedence...),
		Detectors: []models.DetectorRule{
			{
				Name:     "accrued_payroll",
				LineItem: models.LineItemAccruedPayroll,
				AllOf:    [][]string{payrollKeywords, {"accrued", "accrual", "payable", "liabilit"}},
			},
			{
				Name:     "accrued_interest",
				LineItem: models.LineItemInterestPayable,
				AllOf:    [][]string{{"accrued", "accrual"}, {"interest"}},
			},
			{
				Name:     "accrued_income_tax",
				LineItem: models.LineItemIncomeTaxesPayable,
				AllOf:    [][]string{{"accrued", "accrual"}, {"income tax"}},
			},
			{
				Name:     "accrued_other",
				LineItem: models.LineItemOtherCurrentLiabilities,
				AllOf:    [][]string{{"accrued"}},
				NoneOf:   payrollKeywords,
			},
		},
		Aliases: []models.AliasRule{
			{LineItem: models.LineItemCash, Aliases: []string{"cash", "cash and cash equivalents", "cash equivalents", "bank", "petty cash", "cash on hand"}},
			{LineItem: models.LineItemAccountsReceivable, Aliases: []string{"accounts receivable", "a/r", "ar", "trade receivable", "trade and other receivables", "receivables", "debtors"}},
			{LineItem: models.LineItemInventory, Aliases: []string{"inventory", "inventories", "stock", "merchandise", "finished goods", "raw materials", "work in process", "wip"}},
			{LineItem: models.LineItemPrepaidExpenses, Aliases: []string{"prepaid", "prepaid expenses", "prepayments", "deferred expenses"}},
			{LineItem: models.LineItemOtherCurrentAssets, Aliases: []string{"other current assets", "deposits", "advances"}},
			{LineItem: models.LineItemPPE, Aliases: []string{"property plant and equipment", "ppe", "pp&e", "fixed assets", "capital assets", "plant and equipment", "property and equipment", "equipment", "machinery", "buildings", "land and buildings", "furniture", "fixtures", "vehicles"}},
			{LineItem: models.LineItemAccumulatedDepreciation, Aliases: []string{"accumulated depreciation", "accumulated depr", "acc depreciation", "accumulated amortization"}},
			{LineItem: models.LineItemOtherNonCurrentAssets, Aliases: []string{"other non-current assets", "other noncurrent assets", "intangible assets", "goodwill", "long-term investments"}},
			{LineItem: models.LineItemAccountsPayable, Aliases: []string{"accounts payable", "a/p", "ap", "trade payable", "trade payables", "payables", "creditors"}},
			{LineItem: models.LineItemAccruedPayroll, Aliases: []string{"accrued payroll", "accrued wages", "accrued salaries", "payroll payable", "wages payable", "salaries payable", "employee compensation", "accrued compensation", "bonus accrual"}},
			{LineItem: models.LineItemDeferredRevenue, Aliases: []string{"deferred revenue", "unearned revenue", "deferred income", "contract liabilities", "customer deposits", "advance payments", "prepayments from customers"}},
			{LineItem: models.LineItemInterestPayable, Aliases: []string{"interest payable", "accrued interest", "interest accrual"}},
			{LineItem: models.LineItemOtherCurrentLiabilities, Aliases: []string{"other current liabilities", "accrued liabilities", "accrued expenses", "other accruals"}},
			{LineItem: models.LineItemIncomeTaxesPayable, Aliases: []string{"income taxes payable", "income tax payable", "tax payable", "taxes payable", "current tax liability", "accrued income taxes"}},
			{LineItem: models.LineItemLongTermDebt, Aliases: []string{"long-term debt", "long term debt", "notes payable", "term loan", "revolver", "loan payable", "borrowings", "bank loan", "debt"}},
			{LineItem: models.LineItemCommonStock, Aliases: []string{"common stock", "share capital", "paid-in capital", "additional paid-in capital", "apic", "contributed capital"}},
			{LineItem: models.LineItemRetainedEarnings, Aliases: []string{"retained earnings", "accumulated earnings", "accumulated profits", "earnings retained"}},
			{LineItem: models.LineItemDividends, Aliases: []string{"dividends", "dividends declared", "common dividends"}},
			{LineItem: models.LineItemRevenue, Aliases: []string{"revenue", "revenues", "sales", "income", "turnover", "product revenue", "service revenue", "net sales"}},
			{LineItem: models.LineItemCOGS, Aliases: []string{"cost of goods sold", "cogs", "cost of sales", "cost of revenue", "direct costs"}},
			{LineItem: models.LineItemDistributionExpenses, Aliases: []string{"distribution", "distribution expenses", "shipping", "freight", "delivery", "logistics"}},
			{LineItem: models.LineItemMarketingAndAdmin, Aliases: []string{"marketing", "marketing and administration", "sg&a", "selling general and administrative", "admin", "administrative", "general and administrative", "overhead", "salaries expense", "wages expense"}},
			{LineItem: models.LineItemResearchAndDevelopment, Aliases: []string{"research and development", "r&d", "research", "development"}},
			{LineItem: models.LineItemDepreciationExpense, Aliases: []string{"depreciation expense", "depreciation", "amortization", "amortization expense", "depr expense", "amort expense"}},
			{LineItem: models.LineItemOtherOperatingExpenses, Aliases: []string{"other operating expenses", "rent expense", "rent", "utilities", "insurance expense", "office expense"}},
			{LineItem: models.LineItemInterestExpense, Aliases: []string{"interest expense", "interest", "finance charges", "interest on debt", "borrowing costs"}},
			{LineItem: models.LineItemTaxExpense, Aliases: []string{"income tax expense", "tax expense", "taxes", "provision for income taxes", "current tax", "income taxes"}},
		},
		Ranges: []models.RangeRule{
			{LineItem: models.LineItemCash, Min: 1000, Max: 1099},
			{LineItem: models.LineItemAccountsReceivable, Min: 1100, Max: 1199},
			{LineItem: models.LineItemInventory, Min: 1200, Max: 1299},
			{LineItem: models.LineItemPrepaidExpenses, Min: 1300, Max: 1349},
			{LineItem: models.LineItemOtherCurrentAssets, Min: 1350, Max: 1499},
			{LineItem: models.LineItemPPE, Min: 1500, Max: 1589},
			{LineItem: models.LineItemAccumulatedDepreciation, Min: 1590, Max: 1599},
			{LineItem: models.LineItemOtherNonCurrentAssets, Min: 1600, Max: 1999},
			{LineItem: models.LineItemAccountsPayable, Min: 2000, Max: 2099},
			{LineItem: models.LineItemAccruedPayroll, Min: 2100, Max: 2149},
			{LineItem: models.LineItemDeferredRevenue, Min: 2150, Max: 2249},
			{LineItem: models.LineItemInterestPayable, Min: 2250, Max: 2299},
			{LineItem: models.LineItemOtherCurrentLiabilities, Min: 2300, Max: 2449},
			{LineItem: models.LineItemIncomeTaxesPayable, Min: 2450, Max: 2499},
			{LineItem: models.LineItemLongTermDebt, Min: 2500, Max: 2999},
			{LineItem: models.LineItemCommonStock, Min: 3000, Max: 3099},
			{LineItem: models.LineItemRetainedEarnings, Min: 3100, Max: 3199},
			{LineItem: models.LineItemDividends, Min: 3200, Max: 3999},
			{LineItem: models.LineItemRevenue, Min: 4000, Max: 4999},
			{LineItem: models.LineItemCOGS, Min: 5000, Max: 5099},
			{LineItem: models.LineItemDistributionExpenses, Min: 5100, Max: 5199},
			{LineItem: models.LineItemMarketingAndAdmin, Min: 5200, Max: 5299},
			{LineItem: models.LineItemResearchAndDevelopment, Min: 5300, Max: 5349},
			{LineItem: models.LineItemDepreciationExpense, Min: 5350, Max: 5399},
			{LineItem: models.LineItemOtherOperatingExpenses, Min: 5400, Max: 5999},
			{LineItem: models.LineItemInterestExpense, Min: 6000, Max: 6099},
			{LineItem: models.LineItemTaxExpense, Min: 6100, Max: 6999},
		},
	}
}
