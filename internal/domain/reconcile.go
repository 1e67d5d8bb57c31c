package domain

import (
	"fuelops/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultMinorUnits is the number of decimal places money is compared at (kobo).
const DefaultMinorUnits int32 = 2

// Reconciliation is the derived money position of a daily record.
type Reconciliation struct {
	Gross         decimal.Decimal
	TotalPayments decimal.Decimal
	TotalExpenses decimal.Decimal
	NetAmount     decimal.Decimal
	Delta         decimal.Decimal
	Balanced      bool
}

// GrossAmount is quantity x rate rounded to minor units.
func GrossAmount(quantity, rate decimal.Decimal, minorUnits int32) decimal.Decimal {
	return quantity.Mul(rate).Round(minorUnits)
}

// Reconcile compares expected sales against collected payments.
// Every amount is rounded to minor units first so Balanced is exact.
func Reconcile(gross decimal.Decimal, payments model.PaymentBreakdown, expenses model.ExpenseBreakdown, minorUnits int32) Reconciliation {
	g := gross.Round(minorUnits)
	tp := payments.Total().Round(minorUnits)
	te := expenses.Total().Round(minorUnits)
	delta := g.Sub(tp)
	return Reconciliation{
		Gross:         g,
		TotalPayments: tp,
		TotalExpenses: te,
		NetAmount:     tp.Sub(te),
		Delta:         delta,
		Balanced:      delta.IsZero(),
	}
}

// ApplyReconciliation recomputes the derived totals stored on entry.
func ApplyReconciliation(entry *model.DailyEntry, minorUnits int32) Reconciliation {
	entry.Amount = GrossAmount(entry.QuantitySold, entry.Rate, minorUnits)
	r := Reconcile(entry.Amount, entry.Payments, entry.Expenses, minorUnits)
	entry.TotalPayments = r.TotalPayments
	entry.TotalExpenses = r.TotalExpenses
	entry.NetAmount = r.NetAmount
	entry.ReconciliationDelta = r.Delta
	return r
}
