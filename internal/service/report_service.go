package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"fuelops/internal/domain"
	"fuelops/internal/model"
	"fuelops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Report ranges
const (
	RangeLast7  = "LAST_7"
	RangeLast30 = "LAST_30"
	RangeAll    = "ALL"
)

const reportSheet = "Report"

type ReportFilter struct {
	StationID string `form:"station_id"`
	Range     string `form:"range"`
	From      string `form:"from"`
	To        string `form:"to"`
}

type ReportTotals struct {
	Entries  int             `json:"entries"`
	Sales    decimal.Decimal `json:"sales"`
	Volume   decimal.Decimal `json:"volume"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
}

type ReportSummary struct {
	From    string             `json:"from,omitempty"`
	To      string             `json:"to,omitempty"`
	Entries []model.DailyEntry `json:"entries"`
	Totals  ReportTotals       `json:"totals"`
}

type DailyPoint struct {
	Date     string          `json:"date"`
	Sales    decimal.Decimal `json:"sales"`
	Expenses decimal.Decimal `json:"expenses"`
}

type LineStatus struct {
	FuelType     string          `json:"fuel_type"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	Capacity     decimal.Decimal `json:"capacity"`
	StockPercent decimal.Decimal `json:"stock_percent"`
	NeedsRefill  bool            `json:"needs_refill"`
}

type StationStatus struct {
	StationID   uuid.UUID    `json:"station_id"`
	Code        string       `json:"code"`
	Name        string       `json:"name"`
	HealthScore int          `json:"health_score"`
	Lines       []LineStatus `json:"lines"`
}

type Dashboard struct {
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalVolume   decimal.Decimal `json:"total_volume"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetIncome     decimal.Decimal `json:"net_income"`
	PendingCount  int64           `json:"pending_count"`
	ActiveAlerts  int64           `json:"active_alerts"`
	Series        []DailyPoint    `json:"series"`
	Stations      []StationStatus `json:"stations"`
}

type ReportService interface {
	Dashboard(ctx context.Context, actor domain.Actor) (*Dashboard, error)
	Summary(ctx context.Context, actor domain.Actor, filter ReportFilter) (*ReportSummary, error)
	// ExportXLSX renders the summary as a workbook and returns its bytes and a file name.
	ExportXLSX(ctx context.Context, actor domain.Actor, filter ReportFilter) ([]byte, string, error)
}

type reportService struct {
	entryRepo   repository.EntryRepository
	stationRepo repository.StationRepository
	alertRepo   repository.AlertRepository
	now         func() time.Time
}

func NewReportService(
	entryRepo repository.EntryRepository,
	stationRepo repository.StationRepository,
	alertRepo repository.AlertRepository,
	now func() time.Time,
) ReportService {
	if now == nil {
		now = time.Now
	}
	return &reportService{entryRepo: entryRepo, stationRepo: stationRepo, alertRepo: alertRepo, now: now}
}

func totalsOf(entries []model.DailyEntry) ReportTotals {
	t := ReportTotals{Entries: len(entries)}
	for _, e := range entries {
		t.Sales = t.Sales.Add(e.TotalPayments)
		t.Volume = t.Volume.Add(e.QuantitySold)
		t.Expenses = t.Expenses.Add(e.TotalExpenses)
		t.Profit = t.Profit.Add(e.NetAmount)
	}
	return t
}

// Dashboard aggregates every entry in the actor's scope. The series covers
// the last seven calendar days, oldest first, with empty days as zero.
func (s *reportService) Dashboard(ctx context.Context, actor domain.Actor) (*Dashboard, error) {
	if err := domain.Authorize(actor, domain.CapViewDashboard, nil); err != nil {
		return nil, err
	}
	scope := actor.StationScope()

	entries, err := s.entryRepo.ListAll(ctx, repository.EntryFilter{StationID: scope})
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}
	stations, err := s.stationRepo.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to load stations: %w", err)
	}
	activeAlerts, err := s.alertRepo.CountActive(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to count alerts: %w", err)
	}

	totals := totalsOf(entries)
	dash := &Dashboard{
		TotalSales:    totals.Sales,
		TotalVolume:   totals.Volume,
		TotalExpenses: totals.Expenses,
		NetIncome:     totals.Profit,
		ActiveAlerts:  activeAlerts,
	}

	byDate := make(map[string]*DailyPoint, 7)
	today := s.now()
	for i := 6; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(model.DateLayout)
		dash.Series = append(dash.Series, DailyPoint{Date: date})
	}
	for i := range dash.Series {
		byDate[dash.Series[i].Date] = &dash.Series[i]
	}
	for _, e := range entries {
		if e.Status == model.EntryPending {
			dash.PendingCount++
		}
		if p, ok := byDate[e.EntryDate]; ok {
			p.Sales = p.Sales.Add(e.TotalPayments)
			p.Expenses = p.Expenses.Add(e.TotalExpenses)
		}
	}

	for _, st := range stations {
		status := StationStatus{StationID: st.ID, Code: st.Code, Name: st.Name, HealthScore: st.HealthScore}
		for _, l := range st.Inventory {
			status.Lines = append(status.Lines, LineStatus{
				FuelType:     l.FuelType,
				CurrentStock: l.CurrentStock,
				Capacity:     l.Capacity,
				StockPercent: l.StockPercent(),
				NeedsRefill:  l.IsLow(),
			})
		}
		dash.Stations = append(dash.Stations, status)
	}
	return dash, nil
}

// resolveRange turns a named range or explicit bounds into inclusive dates.
func (s *reportService) resolveRange(f ReportFilter) (string, string, error) {
	if f.From != "" || f.To != "" {
		for _, v := range []string{f.From, f.To} {
			if v == "" {
				continue
			}
			if _, err := time.Parse(model.DateLayout, v); err != nil {
				return "", "", validationf("dates must be YYYY-MM-DD")
			}
		}
		if f.From != "" && f.To != "" && f.From > f.To {
			return "", "", validationf("from must not be after to")
		}
		return f.From, f.To, nil
	}

	today := s.now()
	switch f.Range {
	case "", RangeLast7:
		return today.AddDate(0, 0, -6).Format(model.DateLayout), today.Format(model.DateLayout), nil
	case RangeLast30:
		return today.AddDate(0, 0, -29).Format(model.DateLayout), today.Format(model.DateLayout), nil
	case RangeAll:
		return "", "", nil
	default:
		return "", "", validationf("range must be LAST_7, LAST_30 or ALL")
	}
}

func (s *reportService) Summary(ctx context.Context, actor domain.Actor, filter ReportFilter) (*ReportSummary, error) {
	var stationID *uuid.UUID
	if filter.StationID != "" && filter.StationID != RangeAll {
		sid, err := parseID(filter.StationID, "station")
		if err != nil {
			return nil, err
		}
		stationID = &sid
	}
	if err := domain.Authorize(actor, domain.CapViewReports, stationID); err != nil {
		return nil, err
	}
	if stationID == nil {
		stationID = actor.StationScope()
	}

	from, to, err := s.resolveRange(filter)
	if err != nil {
		return nil, err
	}
	entries, err := s.entryRepo.ListAll(ctx, repository.EntryFilter{StationID: stationID, FromDate: from, ToDate: to})
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}
	if entries == nil {
		entries = []model.DailyEntry{}
	}
	return &ReportSummary{From: from, To: to, Entries: entries, Totals: totalsOf(entries)}, nil
}

var reportHeadings = []string{
	"Date", "Station", "Fuel", "Volume (L)", "Rate", "Amount",
	"Payments", "Expenses", "Net", "Delta", "Status",
}

func (s *reportService) ExportXLSX(ctx context.Context, actor domain.Actor, filter ReportFilter) ([]byte, string, error) {
	summary, err := s.Summary(ctx, actor, filter)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, "", fmt.Errorf("failed to prepare workbook: %w", err)
	}

	setRow := func(row int, values []interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		return f.SetSheetRow(reportSheet, cell, &values)
	}

	headings := make([]interface{}, len(reportHeadings))
	for i, h := range reportHeadings {
		headings[i] = h
	}
	if err := setRow(1, headings); err != nil {
		return nil, "", fmt.Errorf("failed to write headings: %w", err)
	}

	row := 2
	for _, e := range summary.Entries {
		values := []interface{}{
			e.EntryDate, e.StationName, e.FuelType,
			e.QuantitySold.InexactFloat64(), e.Rate.InexactFloat64(), e.Amount.InexactFloat64(),
			e.TotalPayments.InexactFloat64(), e.TotalExpenses.InexactFloat64(), e.NetAmount.InexactFloat64(),
			e.ReconciliationDelta.InexactFloat64(), e.Status,
		}
		if err := setRow(row, values); err != nil {
			return nil, "", fmt.Errorf("failed to write row %d: %w", row, err)
		}
		row++
	}

	t := summary.Totals
	totalsRow := []interface{}{
		"TOTAL", "", "", t.Volume.InexactFloat64(), "", "",
		t.Sales.InexactFloat64(), t.Expenses.InexactFloat64(), t.Profit.InexactFloat64(), "", "",
	}
	if err := setRow(row, totalsRow); err != nil {
		return nil, "", fmt.Errorf("failed to write totals: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render workbook: %w", err)
	}

	scope := "all"
	if filter.StationID != "" && filter.StationID != RangeAll {
		scope = filter.StationID
	}
	name := fmt.Sprintf("fuel-report-%s-%s.xlsx", scope, s.now().Format("20060102"))
	return buf.Bytes(), name, nil
}
