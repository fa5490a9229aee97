package statements

import (
	"fjacquet/fin-statements/internal/currencyutils"
	"fjacquet/fin-statements/internal/models"

	"github.com/shopspring/decimal"
)

// lineSpec is one row of a statement layout.
type lineSpec struct {
	key      string
	label    string
	subtotal bool
}

func item(li models.LineItem) lineSpec {
	return lineSpec{key: string(li), label: li.Label()}
}

func total(key, label string) lineSpec {
	return lineSpec{key: key, label: label, subtotal: true}
}

// values holds one period's amounts by line key.
type values map[string]decimal.Decimal

func (v values) get(key string) decimal.Decimal {
	if d, ok := v[key]; ok {
		return d
	}
	return decimal.Zero
}

// assemble lays out per-period values and applies the unit scale once.
func assemble(layout []lineSpec, periods []values, scale decimal.Decimal) []models.StatementLine {
	lines := make([]models.StatementLine, 0, len(layout))
	for _, spec := range layout {
		line := models.StatementLine{
			Key:      spec.key,
			Label:    spec.label,
			Subtotal: spec.subtotal,
			Values:   make([]decimal.Decimal, len(periods)),
		}
		for i, v := range periods {
			line.Values[i] = currencyutils.Scale(v.get(spec.key), scale)
		}
		lines = append(lines, line)
	}
	return lines
}

func sum(b Balances, items []models.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, li := range items {
		total = total.Add(b.Get(li))
	}
	return total
}
