package service

import (
	"bytes"
	"context"
	"testing"

	"fuelops/internal/domain"
	"fuelops/internal/model"
	"fuelops/internal/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// seedReportEntries stores three entries: two today at Lagos and Abuja, one
// at Lagos three weeks back.
func seedReportEntries(t *testing.T, h *harness) {
	t.Helper()
	ctx := context.Background()

	_, err := h.entry.Submit(ctx, lagosMgr, balancedRequest("s1", 100))
	require.NoError(t, err)

	abuja := balancedRequest("s2", 200)
	abuja.Expenses = model.ExpenseBreakdown{GridPowerCost: dec("5000")}
	e, err := h.entry.Submit(ctx, abujaMgr, abuja)
	require.NoError(t, err)
	_, err = h.approval.Approve(ctx, accountant, e.ID.String(), "")
	require.NoError(t, err)

	old := balancedRequest("s1", 50)
	old.Date = "2026-02-17"
	_, err = h.entry.Submit(ctx, lagosMgr, old)
	require.NoError(t, err)
}

func TestDashboardAggregates(t *testing.T) {
	h := newHarness(t)
	seedReportEntries(t, h)

	dash, err := h.reports.Dashboard(context.Background(), ceo)
	require.NoError(t, err)

	// 350 L sold at 650 across all entries, pending and approved alike.
	assertDecimal(t, "227500", dash.TotalSales)
	assertDecimal(t, "350", dash.TotalVolume)
	assertDecimal(t, "5000", dash.TotalExpenses)
	assertDecimal(t, "222500", dash.NetIncome)
	assert.EqualValues(t, 2, dash.PendingCount)
	assert.EqualValues(t, 1, dash.ActiveAlerts, "Port Harcourt is low")

	require.Len(t, dash.Series, 7)
	assert.Equal(t, "2026-03-04", dash.Series[0].Date)
	assert.Equal(t, testDate, dash.Series[6].Date)
	assertDecimal(t, "195000", dash.Series[6].Sales)
	assertDecimal(t, "5000", dash.Series[6].Expenses)
	assert.True(t, dash.Series[0].Sales.IsZero())

	require.Len(t, dash.Stations, 3)
	assert.True(t, dash.Stations[2].Lines[0].NeedsRefill)
	assertDecimal(t, "16", dash.Stations[2].Lines[0].StockPercent)
}

func TestDashboardScopedToManager(t *testing.T) {
	h := newHarness(t)
	seedReportEntries(t, h)

	dash, err := h.reports.Dashboard(context.Background(), lagosMgr)
	require.NoError(t, err)
	assertDecimal(t, "150", dash.TotalVolume)
	assert.EqualValues(t, 2, dash.PendingCount)
	assert.Zero(t, dash.ActiveAlerts)
	require.Len(t, dash.Stations, 1)
	assert.Equal(t, "s1", dash.Stations[0].Code)
}

func TestSummaryRanges(t *testing.T) {
	h := newHarness(t)
	seedReportEntries(t, h)
	ctx := context.Background()

	tests := []struct {
		name    string
		filter  ReportFilter
		entries int
		volume  string
	}{
		{"default is last seven days", ReportFilter{}, 2, "300"},
		{"last thirty days", ReportFilter{Range: RangeLast30}, 3, "350"},
		{"all time", ReportFilter{Range: RangeAll}, 3, "350"},
		{"explicit window", ReportFilter{From: "2026-02-01", To: "2026-02-28"}, 1, "50"},
		{"single station", ReportFilter{StationID: seed.StationID("s2").String(), Range: RangeAll}, 1, "200"},
		{"ALL stations", ReportFilter{StationID: RangeAll, Range: RangeAll}, 3, "350"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum, err := h.reports.Summary(ctx, accountant, tt.filter)
			require.NoError(t, err)
			assert.Len(t, sum.Entries, tt.entries)
			assert.Equal(t, tt.entries, sum.Totals.Entries)
			assertDecimal(t, tt.volume, sum.Totals.Volume)
		})
	}
}

func TestSummaryValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.reports.Summary(ctx, admin, ReportFilter{Range: "LAST_YEAR"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = h.reports.Summary(ctx, admin, ReportFilter{From: "2026-03-10", To: "2026-03-01"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = h.reports.Summary(ctx, lagosMgr, ReportFilter{StationID: seed.StationID("s2").String()})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestExportXLSX(t *testing.T) {
	h := newHarness(t)
	seedReportEntries(t, h)

	data, name, err := h.reports.ExportXLSX(context.Background(), admin, ReportFilter{Range: RangeAll})
	require.NoError(t, err)
	assert.Equal(t, "fuel-report-all-20260310.xlsx", name)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(reportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 5, "headings, three entries, totals")
	assert.Equal(t, reportHeadings, rows[0])
	assert.Equal(t, "TOTAL", rows[4][0])
	assert.Equal(t, "350", rows[4][3])
	assert.Equal(t, "227500", rows[4][6])
}
