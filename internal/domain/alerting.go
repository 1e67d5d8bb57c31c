package domain

import (
	"fmt"
	"sort"
	"time"

	"fuelops/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AlertPolicy tunes alert derivation.
type AlertPolicy struct {
	// UnusualExpenseRatio flags entries whose expenses exceed this share of sales. Zero disables.
	UnusualExpenseRatio decimal.Decimal
	Severity            map[string]string
}

// DefaultAlertPolicy is the stock severity mapping.
func DefaultAlertPolicy() AlertPolicy {
	return AlertPolicy{
		UnusualExpenseRatio: decimal.NewFromFloat(0.10),
		Severity: map[string]string{
			model.AlertLowStock:         model.SeverityError,
			model.AlertMismatch:         model.SeverityWarning,
			model.AlertStockDiscrepancy: model.SeverityWarning,
			model.AlertUnusualExpense:   model.SeverityWarning,
			model.AlertTruckArrival:     model.SeverityInfo,
		},
	}
}

func (p AlertPolicy) severity(alertType string) string {
	if s, ok := p.Severity[alertType]; ok {
		return s
	}
	return model.SeverityWarning
}

func LowStockKey(stationID uuid.UUID, fuelType string) string {
	return fmt.Sprintf("low:%s:%s", stationID, fuelType)
}

func MismatchKey(stationID uuid.UUID, date string) string {
	return fmt.Sprintf("mismatch:%s:%s", stationID, date)
}

func UnusualExpenseKey(entryID uuid.UUID) string {
	return fmt.Sprintf("expense:%s", entryID)
}

func litres(d decimal.Decimal) string { return d.StringFixed(0) }

// Evaluate derives the condition alerts implied by current data and returns
// only the ones that must be inserted. A key with an unresolved alert is
// skipped, and so is a key whose resolved alert fired on the same observed
// value. Running it twice over unchanged data yields nothing the second time.
func Evaluate(stations []model.Station, entries []model.DailyEntry, existing []model.Alert, policy AlertPolicy, now time.Time) []model.Alert {
	open := make(map[string]bool)
	acked := make(map[string]bool)
	for _, a := range existing {
		if a.Resolved {
			acked[a.Key+"|"+a.Observed] = true
		} else {
			open[a.Key] = true
		}
	}

	var out []model.Alert
	raise := func(a model.Alert) {
		if open[a.Key] || acked[a.Key+"|"+a.Observed] {
			return
		}
		open[a.Key] = true
		a.Severity = policy.severity(a.Type)
		a.Timestamp = now
		out = append(out, a)
	}

	for _, s := range stations {
		for _, line := range s.Inventory {
			if !line.IsLow() {
				continue
			}
			raise(model.Alert{
				Key:         LowStockKey(s.ID, line.FuelType),
				Type:        model.AlertLowStock,
				StationID:   s.ID,
				StationName: s.Name,
				FuelType:    line.FuelType,
				Observed:    line.CurrentStock.StringFixed(2),
				Message: fmt.Sprintf("Station %s is below threshold: %sL left of %s.",
					s.Name, litres(line.CurrentStock), line.FuelType),
			})
		}
	}

	type dayKey struct {
		station uuid.UUID
		date    string
	}
	type dayAgg struct {
		name  string
		delta decimal.Decimal
	}
	days := make(map[dayKey]*dayAgg)
	var order []dayKey
	for _, e := range entries {
		if !e.ReconciliationDelta.IsZero() {
			k := dayKey{e.StationID, e.EntryDate}
			agg, ok := days[k]
			if !ok {
				agg = &dayAgg{name: e.StationName}
				days[k] = agg
				order = append(order, k)
			}
			agg.delta = agg.delta.Add(e.ReconciliationDelta.Abs())
		}

		if policy.UnusualExpenseRatio.IsPositive() && e.Amount.IsPositive() {
			limit := e.Amount.Mul(policy.UnusualExpenseRatio)
			if e.TotalExpenses.GreaterThan(limit) {
				raise(model.Alert{
					Key:         UnusualExpenseKey(e.ID),
					Type:        model.AlertUnusualExpense,
					StationID:   e.StationID,
					StationName: e.StationName,
					FuelType:    e.FuelType,
					RecordDate:  e.EntryDate,
					Observed:    e.TotalExpenses.StringFixed(2),
					Message: fmt.Sprintf("Expenses of %s on %s at %s exceed %s%% of sales.",
						e.TotalExpenses.StringFixed(2), e.EntryDate, e.StationName,
						policy.UnusualExpenseRatio.Mul(decimal.NewFromInt(100)).String()),
				})
			}
		}
	}

	sort.SliceStable(order, func(i, j int) bool { return order[i].date > order[j].date })
	for _, k := range order {
		agg := days[k]
		raise(model.Alert{
			Key:         MismatchKey(k.station, k.date),
			Type:        model.AlertMismatch,
			StationID:   k.station,
			StationName: agg.name,
			RecordDate:  k.date,
			Observed:    agg.delta.StringFixed(2),
			Message: fmt.Sprintf("Reconciliation mismatch for %s at %s. Delta: %s",
				k.date, agg.name, agg.delta.StringFixed(2)),
		})
	}

	return out
}

// DiscrepancyAlert reports a clamped stock mutation. ref identifies the
// entry or purchase that caused it, so every event gets its own key.
func DiscrepancyAlert(station *model.Station, fuelType string, direction string, ref uuid.UUID, adj Adjustment, policy AlertPolicy, now time.Time) model.Alert {
	var msg string
	if direction == model.MovementOut {
		msg = fmt.Sprintf("Stock deduction at %s for %s was clamped: requested %sL, applied %sL. Recorded sales exceed book stock by %sL.",
			station.Name, fuelType, litres(adj.Requested), litres(adj.Applied), litres(adj.Unapplied()))
	} else {
		msg = fmt.Sprintf("Delivery to %s for %s exceeds tank capacity: requested %sL, accepted %sL. %sL could not be stored.",
			station.Name, fuelType, litres(adj.Requested), litres(adj.Applied), litres(adj.Unapplied()))
	}
	return model.Alert{
		Key:         fmt.Sprintf("discrepancy:%s", ref),
		Type:        model.AlertStockDiscrepancy,
		StationID:   station.ID,
		StationName: station.Name,
		FuelType:    fuelType,
		Observed:    adj.Unapplied().StringFixed(2),
		Message:     msg,
		Severity:    policy.severity(model.AlertStockDiscrepancy),
		Timestamp:   now,
	}
}

// TruckArrivalAlert announces a delivery that came with truck details.
func TruckArrivalAlert(station *model.Station, p *model.StockPurchase, policy AlertPolicy, now time.Time) model.Alert {
	depot := p.DepotSource
	if depot == "" {
		depot = "unknown depot"
	}
	return model.Alert{
		Key:         fmt.Sprintf("truck:%s", p.ID),
		Type:        model.AlertTruckArrival,
		StationID:   station.ID,
		StationName: station.Name,
		FuelType:    p.FuelType,
		RecordDate:  p.PurchaseDate,
		Observed:    p.Applied.StringFixed(2),
		Message: fmt.Sprintf("Truck %s (waybill %s) delivered %sL of %s to %s from %s.",
			p.TruckPlate, p.WaybillNumber, litres(p.Applied), p.FuelType, station.Name, depot),
		Severity:  policy.severity(model.AlertTruckArrival),
		Timestamp: now,
	}
}

// Resolve marks the alert resolved. It returns false when it already was.
func Resolve(a *model.Alert, actor Actor, now time.Time) bool {
	if a.Resolved {
		return false
	}
	by := actor.ID
	at := now
	a.Resolved = true
	a.ResolvedBy = &by
	a.ResolvedAt = &at
	return true
}

// CountActive counts unresolved alerts.
func CountActive(alerts []model.Alert) int {
	n := 0
	for _, a := range alerts {
		if !a.Resolved {
			n++
		}
	}
	return n
}
