package statements

import (
	"sort"
	"time"

	"fjacquet/fin-statements/internal/dateutils"
	"fjacquet/fin-statements/internal/models"

	"github.com/shopspring/decimal"
)

// Balances holds a signed natural-balance amount per line item.
type Balances map[models.LineItem]decimal.Decimal

// Get returns the balance of li, zero when absent.
func (b Balances) Get(li models.LineItem) decimal.Decimal {
	if v, ok := b[li]; ok {
		return v
	}
	return decimal.Zero
}

func (b Balances) add(li models.LineItem, v decimal.Decimal) {
	b[li] = b.Get(li).Add(v)
}

// PeriodAggregate is the per-period input of the statement builders.
// Activity feeds the income statement and Position the balance sheet.
type PeriodAggregate struct {
	Key      string
	Activity Balances
	Position Balances
}

// naturalAmount signs a row by the normal balance of its line item: debit
// minus credit for debit-normal items, credit minus debit otherwise.
func naturalAmount(r models.ClassifiedRow) decimal.Decimal {
	if r.LineItem.Normal() == models.NormalCredit {
		return r.Credit.Sub(r.Debit)
	}
	return r.Debit.Sub(r.Credit)
}

func usable(r models.ClassifiedRow) bool {
	return r.HasDate() && r.LineItem != models.LineItemUnmapped && r.LineItem.Valid()
}

// aggregateTrialBalance uses, for each period, the snapshot at the latest
// period date inside it. Snapshots are balances, so they are not summed
// across dates. Profit and loss balances and dividends accumulate year to
// date, so the activity of a period is its snapshot less the previous
// snapshot of the same fiscal year.
func aggregateTrialBalance(rows []models.ClassifiedRow, g dateutils.Granularity) []PeriodAggregate {
	latest := map[string]time.Time{}
	for _, r := range rows {
		if !usable(r) {
			continue
		}
		key := dateutils.PeriodKey(r.PeriodDate, g)
		if day := dateutils.Day(r.PeriodDate); day.After(latest[key]) {
			latest[key] = day
		}
	}

	snapshots := map[string]Balances{}
	for _, r := range rows {
		if !usable(r) {
			continue
		}
		key := dateutils.PeriodKey(r.PeriodDate, g)
		if !dateutils.Day(r.PeriodDate).Equal(latest[key]) {
			continue
		}
		b, ok := snapshots[key]
		if !ok {
			b = Balances{}
			snapshots[key] = b
		}
		b.add(r.LineItem, naturalAmount(r))
	}

	out := make([]PeriodAggregate, 0, len(snapshots))
	var prevKey string
	for _, key := range sortedKeys(snapshots) {
		activity := snapshots[key]
		if prevKey != "" && latest[prevKey].Year() == latest[key].Year() {
			activity = yearToDateActivity(snapshots[prevKey], snapshots[key])
		}
		out = append(out, PeriodAggregate{Key: key, Activity: activity, Position: snapshots[key]})
		prevKey = key
	}
	return out
}

// yearToDateActivity returns cur with flow items reduced by their balance in
// prev, which must be an earlier snapshot of the same fiscal year.
func yearToDateActivity(prev, cur Balances) Balances {
	activity := Balances{}
	for li, v := range cur {
		activity[li] = v
	}
	for li, v := range prev {
		if isFlow(li) {
			activity[li] = activity.Get(li).Sub(v)
		}
	}
	return activity
}

func isFlow(li models.LineItem) bool {
	return li.IsIncomeStatement() || li == models.LineItemDividends
}

// aggregateLedger sums journal lines within each period; positions are the
// cumulative sums through the end of the period.
func aggregateLedger(rows []models.ClassifiedRow, g dateutils.Granularity) []PeriodAggregate {
	activity := map[string]Balances{}
	for _, r := range rows {
		if !usable(r) {
			continue
		}
		key := dateutils.PeriodKey(r.PeriodDate, g)
		b, ok := activity[key]
		if !ok {
			b = Balances{}
			activity[key] = b
		}
		b.add(r.LineItem, naturalAmount(r))
	}

	out := make([]PeriodAggregate, 0, len(activity))
	running := Balances{}
	for _, key := range sortedKeys(activity) {
		position := Balances{}
		for li, v := range activity[key] {
			running.add(li, v)
		}
		for li, v := range running {
			position[li] = v
		}
		out = append(out, PeriodAggregate{Key: key, Activity: activity[key], Position: position})
	}
	return out
}

func sortedKeys(m map[string]Balances) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
