package service

import (
	"context"

	"github.com/youssefsiam38/admindash"
	"github.com/youssefsiam38/admindash/chart"
)

// RecentActivityLimit is the number of events shown on the dashboard.
const RecentActivityLimit = 8

// Dashboard returns the KPI cards, the six-month series and recent activity.
func (s *Service[TTx]) Dashboard(ctx context.Context) (*DashboardView, error) {
	kpis, err := s.client.KPIs(ctx)
	if err != nil {
		return nil, err
	}
	analytics, err := s.client.Analytics(ctx)
	if err != nil {
		return nil, err
	}
	activity, err := s.client.RecentActivity(ctx, RecentActivityLimit)
	if err != nil {
		return nil, err
	}

	users := KPICard{Title: "Total Users", Value: FormatCount(float64(kpis.TotalUsers)), Icon: "👥", Color: "primary"}
	setTrend(&users, analytics.UserGrowth)
	revenue := KPICard{Title: "Total Revenue", Value: FormatWholeMoney(float64(kpis.TotalRevenue)), Icon: "💰", Color: "warning"}
	setTrend(&revenue, analytics.Revenue)

	return &DashboardView{
		KPIs: kpis,
		Cards: []KPICard{
			users,
			{Title: "Active Users", Value: FormatCount(float64(kpis.ActiveUsers)), Icon: "✅", Color: "success"},
			revenue,
			{Title: "System Status", Value: kpis.SystemStatus, Icon: "🔄", Color: "info"},
		},
		Revenue:        analytics.Revenue,
		UserGrowth:     analytics.UserGrowth,
		RecentActivity: activity,
		GeneratedAt:    s.client.Now().UTC(),
	}, nil
}

func setTrend(card *KPICard, series []chart.Point) {
	ratio, ok := admindash.Trend(series)
	if !ok {
		return
	}
	card.Trend = "up"
	if ratio < 0 {
		card.Trend = "down"
	}
	card.TrendValue = FormatPercent(ratio)
}

// Analytics returns the analytics page data with formatted summary figures.
func (s *Service[TTx]) Analytics(ctx context.Context) (*AnalyticsView, error) {
	a, err := s.client.Analytics(ctx)
	if err != nil {
		return nil, err
	}
	return &AnalyticsView{
		Analytics:             a,
		TotalRevenue:          FormatWholeMoney(a.Summary.TotalRevenue),
		AverageMonthlyRevenue: FormatWholeMoney(a.Summary.AverageMonthlyRevenue),
		TotalUserGrowth:       FormatCount(a.Summary.TotalUserGrowth),
	}, nil
}

// Settings returns the settings page data.
func (s *Service[TTx]) Settings(ctx context.Context) (*SettingsView, error) {
	role, err := s.client.Role(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.client.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.client.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	activity, err := s.client.RecentActivity(ctx, 1000)
	if err != nil {
		return nil, err
	}
	return &SettingsView{
		Role:          role,
		IsAdmin:       role.IsAdmin(),
		UserCount:     len(users),
		ProductCount:  len(products),
		ActivityCount: len(activity),
		Version:       admindash.Version,
		Maintenance:   s.client.IsLeader(),
	}, nil
}
