package validator

import (
	"fmt"

	"fjacquet/fin-statements/internal/models"

	"gonum.org/v1/gonum/stat"
)

const minOutlierSample = 3

// checkOutliers flags posted amounts far above the table's mean.
func checkOutliers(table *models.LedgerTable, opts Options) []models.Finding {
	if opts.OutlierSigma <= 0 || table.Len() < minOutlierSample {
		return nil
	}
	amounts := make([]float64, 0, table.Len())
	indices := make([]int, 0, table.Len())
	for i, r := range table.Rows {
		if r.IsZero() {
			continue
		}
		amounts = append(amounts, r.PostedAmount().InexactFloat64())
		indices = append(indices, i)
	}
	if len(amounts) < minOutlierSample {
		return nil
	}

	mean, std := stat.MeanStdDev(amounts, nil)
	if std == 0 {
		return nil
	}
	limit := mean + opts.OutlierSigma*std

	var rows []int
	for k, amount := range amounts {
		if amount > limit {
			rows = append(rows, indices[k])
		}
	}
	if len(rows) == 0 {
		return nil
	}
	return []models.Finding{newFinding(table, opts, models.KindAmountOutlier, models.SeverityInfo, rows, models.RemedyNone,
		fmt.Sprintf("%d row(s) exceed %.2f (mean %.2f + %.1f sigma); review for keying errors (%s)",
			len(rows), limit, mean, opts.OutlierSigma, describeLines(table, rows)))}
}
