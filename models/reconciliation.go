package models

import (
	"fmt"

	"github.com/rentaspace/rentals_backend/utils"
	"github.com/shopspring/decimal"
)

// StatementCell is one month's value for one charge row.
type StatementCell struct {
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	Base       decimal.Decimal `json:"base"`
	Value      decimal.Decimal `json:"value"`
	Overridden bool            `json:"overridden"`
	// Excluded marks a NULL override: the cell shows zero and the month is
	// skipped when accumulating the charged total.
	Excluded bool   `json:"excluded"`
	Note     string `json:"note,omitempty"`
}

// StatementRow is the reconciliation of one charge type across the range.
type StatementRow struct {
	ChargeId string          `json:"charge_id"`
	Name     string          `json:"name"`
	Cells    []StatementCell `json:"cells"`
	// Total sums effective cell values; ChargedTotal additionally skips
	// explicitly excluded months and is the baseline for the balance.
	Total        decimal.Decimal `json:"total"`
	ChargedTotal decimal.Decimal `json:"charged_total"`
	Actual       decimal.Decimal `json:"actual"`
	Diff         decimal.Decimal `json:"diff"`
}

// StatementData is the persisted month × charge matrix.
type StatementData struct {
	Months []utils.YearMonth `json:"months"`
	Rows   []*StatementRow   `json:"rows"`
}

type AnnualSummaryItem struct {
	ChargeId string          `json:"charge_id"`
	Name     string          `json:"name"`
	Charged  decimal.Decimal `json:"charged"`
	Actual   decimal.Decimal `json:"actual"`
	Diff     decimal.Decimal `json:"diff"`
}

// AnnualSummary compares charged totals with declared actual consumption.
// Balance = total_actual - total_costs; positive means the tenant owes more.
type AnnualSummary struct {
	TotalCosts  decimal.Decimal     `json:"total_costs"`
	TotalActual decimal.Decimal     `json:"total_actual"`
	Balance     decimal.Decimal     `json:"balance"`
	Status      StatementStatus     `json:"status"`
	TotalDue    decimal.Decimal     `json:"total_due"`
	Items       []AnnualSummaryItem `json:"items"`
}

type overrideKey struct {
	Year     int
	Month    int
	ChargeId string
}

// Reconcile builds the month × charge matrix for the given range and applies
// override precedence and declared actuals. Pure: callers load obligations
// and overrides first.
//
// Precedence per cell: an override with a value replaces the base amount; a
// NULL override zeroes the cell AND excludes the month from the charged
// baseline; no override means the snapshot's flag-gated amount.
func Reconcile(months []utils.YearMonth, obligations []*MonthlyObligation, overrides []*StatementOverride, actuals map[string]decimal.Decimal) (*StatementData, *AnnualSummary) {

	byPeriod := make(map[utils.YearMonth]*MonthlyObligation, len(obligations))
	for _, obligation := range obligations {
		byPeriod[utils.YearMonth{Year: obligation.Year, Month: obligation.Month}] = obligation
	}

	overrideCells := make(map[overrideKey]*StatementOverride, len(overrides))
	for _, override := range overrides {
		overrideCells[overrideKey{Year: override.Year, Month: override.Month, ChargeId: override.ChargeId}] = override
	}

	// six standard rows, then custom rows in order of first appearance
	type rowSpec struct {
		chargeId string
		name     string
		base     func(o *MonthlyObligation) decimal.Decimal
	}
	specs := make([]rowSpec, 0, len(StandardChargeKeys))
	for _, key := range StandardChargeKeys {
		key := key
		specs = append(specs, rowSpec{
			chargeId: string(key),
			name:     ChargeName[key],
			base: func(o *MonthlyObligation) decimal.Decimal {
				return o.ChargeAmount(key)
			},
		})
	}
	seenCustom := make(map[string]bool)
	for _, ym := range months {
		obligation := byPeriod[ym]
		if obligation == nil {
			continue
		}
		for _, charge := range obligation.CustomCharges {
			if !charge.Enabled || seenCustom[charge.Name] {
				continue
			}
			seenCustom[charge.Name] = true
			name := charge.Name
			specs = append(specs, rowSpec{
				chargeId: name,
				name:     name,
				base: func(o *MonthlyObligation) decimal.Decimal {
					for _, c := range o.CustomCharges {
						if c.Enabled && c.Name == name {
							return c.Amount
						}
					}
					return decimal.Zero
				},
			})
		}
	}

	data := &StatementData{Months: months}
	summary := &AnnualSummary{
		TotalCosts:  decimal.Zero,
		TotalActual: decimal.Zero,
	}

	for _, spec := range specs {
		row := &StatementRow{
			ChargeId:     spec.chargeId,
			Name:         spec.name,
			Cells:        make([]StatementCell, 0, len(months)),
			Total:        decimal.Zero,
			ChargedTotal: decimal.Zero,
		}
		for _, ym := range months {
			cell := StatementCell{Year: ym.Year, Month: ym.Month, Base: decimal.Zero, Value: decimal.Zero}
			if obligation := byPeriod[ym]; obligation != nil {
				cell.Base = spec.base(obligation)
				cell.Value = cell.Base
			}
			if override, ok := overrideCells[overrideKey{Year: ym.Year, Month: ym.Month, ChargeId: spec.chargeId}]; ok {
				cell.Overridden = true
				cell.Note = override.Note
				if override.OverrideVal == nil {
					cell.Excluded = true
					cell.Value = decimal.Zero
				} else {
					cell.Value = *override.OverrideVal
				}
			}

			row.Total = row.Total.Add(cell.Value)
			if !cell.Excluded {
				row.ChargedTotal = row.ChargedTotal.Add(cell.Value)
			}
			row.Cells = append(row.Cells, cell)
		}

		// no declared actual means the row settles at the charged total
		row.Actual = row.ChargedTotal
		if actual, ok := actuals[spec.chargeId]; ok {
			row.Actual = actual
		}
		row.Diff = row.Actual.Sub(row.ChargedTotal)

		summary.TotalCosts = summary.TotalCosts.Add(row.ChargedTotal)
		summary.TotalActual = summary.TotalActual.Add(row.Actual)
		summary.Items = append(summary.Items, AnnualSummaryItem{
			ChargeId: row.ChargeId,
			Name:     row.Name,
			Charged:  row.ChargedTotal,
			Actual:   row.Actual,
			Diff:     row.Diff,
		})
		data.Rows = append(data.Rows, row)
	}

	summary.Balance = summary.TotalActual.Sub(summary.TotalCosts)
	summary.Status, summary.TotalDue = StatusForBalance(summary.Balance)
	return data, summary
}

// StatusForBalance maps a balance to the settlement status and the amount
// displayed with it: the balance for an underpayment, its absolute value for
// an overpayment, zero when settled.
func StatusForBalance(balance decimal.Decimal) (StatementStatus, decimal.Decimal) {
	switch {
	case balance.IsPositive():
		return StatementStatusUnderpaid, balance
	case balance.IsNegative():
		return StatementStatusOverpaid, balance.Abs()
	}
	return StatementStatusSettled, decimal.Zero
}

// StatementTitle names a statement: a full calendar year collapses to
// "Statement <year>", any other range spells out both endpoints.
func StatementTitle(from utils.YearMonth, to utils.YearMonth) string {
	if from.Year == to.Year && from.Month == 1 && to.Month == 12 {
		return fmt.Sprintf("Statement %d", from.Year)
	}
	return fmt.Sprintf("Statement %d/%d–%d/%d", from.Month, from.Year, to.Month, to.Year)
}
