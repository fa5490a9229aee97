package models

import (
	"fmt"
	"strings"
)

// LineItem is one classified bucket of a financial statement.
type LineItem string

// Balance sheet line items
const (
	LineItemCash                    LineItem = "cash"
	LineItemAccountsReceivable      LineItem = "accounts_receivable"
	LineItemInventory               LineItem = "inventory"
	LineItemPrepaidExpenses         LineItem = "prepaid_expenses"
	LineItemOtherCurrentAssets      LineItem = "other_current_assets"
	LineItemPPE                     LineItem = "ppe"
	LineItemAccumulatedDepreciation LineItem = "accumulated_depreciation"
	LineItemOtherNonCurrentAssets   LineItem = "other_noncurrent_assets"
	LineItemAccountsPayable         LineItem = "accounts_payable"
	LineItemAccruedPayroll          LineItem = "accrued_payroll"
	LineItemDeferredRevenue         LineItem = "deferred_revenue"
	LineItemInterestPayable         LineItem = "interest_payable"
	LineItemOtherCurrentLiabilities LineItem = "other_current_liabilities"
	LineItemIncomeTaxesPayable      LineItem = "income_taxes_payable"
	LineItemLongTermDebt            LineItem = "long_term_debt"
	LineItemCommonStock             LineItem = "common_stock"
	LineItemRetainedEarnings        LineItem = "retained_earnings"
	LineItemDividends               LineItem = "dividends"
)

// Income statement line items
const (
	LineItemRevenue                LineItem = "revenue"
	LineItemCOGS                   LineItem = "cogs"
	LineItemDistributionExpenses   LineItem = "distribution_expenses"
	LineItemMarketingAndAdmin      LineItem = "marketing_admin"
	LineItemResearchAndDevelopment LineItem = "research_development"
	LineItemDepreciationExpense    LineItem = "depreciation_expense"
	LineItemOtherOperatingExpenses LineItem = "other_operating_expenses"
	LineItemInterestExpense        LineItem = "interest_expense"
	LineItemTaxExpense             LineItem = "tax_expense"
)

// LineItemUnmapped marks rows no rule matched. They are excluded from every
// statement.
const LineItemUnmapped LineItem = "unmapped"

// Section groups line items by their place in the statements.
type Section int

const (
	SectionNone Section = iota
	SectionCurrentAsset
	SectionNonCurrentAsset
	SectionContraAsset
	SectionCurrentLiability
	SectionNonCurrentLiability
	SectionEquity
	SectionContraEquity
	SectionRevenue
	SectionCostOfSales
	SectionOperatingExpense
	SectionInterestExpense
	SectionTaxExpense
)

// NormalBalance is the side on which a line item naturally accumulates.
type NormalBalance int

const (
	NormalDebit NormalBalance = iota
	NormalCredit
)

// LineItemInfo describes a line item.
type LineItemInfo struct {
	Item    LineItem
	Label   string
	Section Section
}

// lineItemInfos is ordered the way line items are presented.
var lineItemInfos = []LineItemInfo{
	{LineItemCash, "Cash and Cash Equivalents", SectionCurrentAsset},
	{LineItemAccountsReceivable, "Accounts Receivable", SectionCurrentAsset},
	{LineItemInventory, "Inventory", SectionCurrentAsset},
	{LineItemPrepaidExpenses, "Prepaid Expenses", SectionCurrentAsset},
	{LineItemOtherCurrentAssets, "Other Current Assets", SectionCurrentAsset},
	{LineItemPPE, "Property, Plant and Equipment", SectionNonCurrentAsset},
	{LineItemAccumulatedDepreciation, "Accumulated Depreciation", SectionContraAsset},
	{LineItemOtherNonCurrentAssets, "Other Non-Current Assets", SectionNonCurrentAsset},
	{LineItemAccountsPayable, "Accounts Payable", SectionCurrentLiability},
	{LineItemAccruedPayroll, "Accrued Payroll", SectionCurrentLiability},
	{LineItemDeferredRevenue, "Deferred Revenue", SectionCurrentLiability},
	{LineItemInterestPayable, "Interest Payable", SectionCurrentLiability},
	{LineItemOtherCurrentLiabilities, "Other Current Liabilities", SectionCurrentLiability},
	{LineItemIncomeTaxesPayable, "Income Taxes Payable", SectionCurrentLiability},
	{LineItemLongTermDebt, "Long-Term Debt", SectionNonCurrentLiability},
	{LineItemCommonStock, "Common Stock", SectionEquity},
	{LineItemRetainedEarnings, "Retained Earnings", SectionEquity},
	{LineItemDividends, "Dividends", SectionContraEquity},
	{LineItemRevenue, "Revenue", SectionRevenue},
	{LineItemCOGS, "Cost of Goods Sold", SectionCostOfSales},
	{LineItemDistributionExpenses, "Distribution Expenses", SectionOperatingExpense},
	{LineItemMarketingAndAdmin, "Marketing and Administration", SectionOperatingExpense},
	{LineItemResearchAndDevelopment, "Research and Development", SectionOperatingExpense},
	{LineItemDepreciationExpense, "Depreciation Expense", SectionOperatingExpense},
	{LineItemOtherOperatingExpenses, "Other Operating Expenses", SectionOperatingExpense},
	{LineItemInterestExpense, "Interest Expense", SectionInterestExpense},
	{LineItemTaxExpense, "Income Tax Expense", SectionTaxExpense},
}

var lineItemIndex = func() map[LineItem]LineItemInfo {
	m := make(map[LineItem]LineItemInfo, len(lineItemInfos)+1)
	for _, info := range lineItemInfos {
		m[info.Item] = info
	}
	m[LineItemUnmapped] = LineItemInfo{LineItemUnmapped, "Unmapped", SectionNone}
	return m
}()

// LineItems returns every mapped line item in presentation order.
func LineItems() []LineItem {
	out := make([]LineItem, len(lineItemInfos))
	for i, info := range lineItemInfos {
		out[i] = info.Item
	}
	return out
}

// LineItemsIn returns the line items of a section in presentation order.
func LineItemsIn(sections ...Section) []LineItem {
	var out []LineItem
	for _, info := range lineItemInfos {
		for _, s := range sections {
			if info.Section == s {
				out = append(out, info.Item)
				break
			}
		}
	}
	return out
}

// ParseLineItem resolves a line item name, accepting the label as well.
func ParseLineItem(name string) (LineItem, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if _, ok := lineItemIndex[LineItem(key)]; ok {
		return LineItem(key), nil
	}
	for _, info := range lineItemInfos {
		if strings.EqualFold(info.Label, name) {
			return info.Item, nil
		}
	}
	return LineItemUnmapped, fmt.Errorf("unknown line item %q", name)
}

// UnmarshalText implements encoding.TextUnmarshaler so rule files may name a
// line item by key or label. Unknown names are kept verbatim for the
// classifier to reject.
func (li *LineItem) UnmarshalText(text []byte) error {
	parsed, err := ParseLineItem(string(text))
	if err != nil {
		*li = LineItem(text)
		return nil
	}
	*li = parsed
	return nil
}

// Valid reports whether li is part of the closed enumeration.
func (li LineItem) Valid() bool {
	_, ok := lineItemIndex[li]
	return ok
}

// Label returns the display label.
func (li LineItem) Label() string {
	if info, ok := lineItemIndex[li]; ok {
		return info.Label
	}
	return string(li)
}

// Section returns the statement section of the line item.
func (li LineItem) Section() Section {
	return lineItemIndex[li].Section
}

// IsBalanceSheet reports whether the line item is a balance sheet account.
func (li LineItem) IsBalanceSheet() bool {
	switch li.Section() {
	case SectionCurrentAsset, SectionNonCurrentAsset, SectionContraAsset,
		SectionCurrentLiability, SectionNonCurrentLiability,
		SectionEquity, SectionContraEquity:
		return true
	}
	return false
}

// IsIncomeStatement reports whether the line item is a profit and loss account.
func (li LineItem) IsIncomeStatement() bool {
	switch li.Section() {
	case SectionRevenue, SectionCostOfSales, SectionOperatingExpense,
		SectionInterestExpense, SectionTaxExpense:
		return true
	}
	return false
}

// Normal returns the natural balance side. Assets, expenses and dividends are
// debit-normal; liabilities, equity, revenue and contra assets credit-normal.
func (li LineItem) Normal() NormalBalance {
	switch li.Section() {
	case SectionContraAsset, SectionCurrentLiability, SectionNonCurrentLiability,
		SectionEquity, SectionRevenue:
		return NormalCredit
	}
	return NormalDebit
}
