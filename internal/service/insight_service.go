package service

import (
	"context"
	"fmt"
	"strings"

	"fuelops/internal/domain"
)

// Advisor is the external text and image provider. It never fails; it
// returns fallback values instead.
type Advisor interface {
	Insight(ctx context.Context, summary string) string
	StationImage(ctx context.Context, prompt string) string
}

type InsightResponse struct {
	Summary string `json:"summary"`
	Insight string `json:"insight"`
}

type InsightService interface {
	Advise(ctx context.Context, actor domain.Actor) (*InsightResponse, error)
	StationImage(ctx context.Context, actor domain.Actor, prompt string) (string, error)
}

type insightService struct {
	reports ReportService
	advisor Advisor
}

func NewInsightService(reports ReportService, advisor Advisor) InsightService {
	return &insightService{reports: reports, advisor: advisor}
}

// Advise summarises the actor's dashboard and asks the provider for recommendations.
func (s *insightService) Advise(ctx context.Context, actor domain.Actor) (*InsightResponse, error) {
	dash, err := s.reports.Dashboard(ctx, actor)
	if err != nil {
		return nil, err
	}
	summary := summarize(dash)
	return &InsightResponse{Summary: summary, Insight: s.advisor.Insight(ctx, summary)}, nil
}

func summarize(d *Dashboard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total sales: %s. Volume: %s L. Expenses: %s. Net: %s.\n",
		d.TotalSales.StringFixed(2), d.TotalVolume.StringFixed(2), d.TotalExpenses.StringFixed(2), d.NetIncome.StringFixed(2))
	fmt.Fprintf(&b, "Pending reconciliations: %d. Active alerts: %d.\n", d.PendingCount, d.ActiveAlerts)
	for _, st := range d.Stations {
		for _, l := range st.Lines {
			fmt.Fprintf(&b, "%s %s stock %s%%", st.Name, l.FuelType, l.StockPercent.String())
			if l.NeedsRefill {
				b.WriteString(" (needs refill)")
			}
			b.WriteString(".\n")
		}
	}
	return b.String()
}

func (s *insightService) StationImage(ctx context.Context, actor domain.Actor, prompt string) (string, error) {
	if err := domain.Authorize(actor, domain.CapViewDashboard, nil); err != nil {
		return "", err
	}
	return s.advisor.StationImage(ctx, prompt), nil
}
