package admindash

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/youssefsiam38/admindash/chart"
	"github.com/youssefsiam38/admindash/storage"
)

// SystemOperational is the only system status reported today.
const SystemOperational = "Operational"

// AnalyticsMonths is the length of the analytics series.
const AnalyticsMonths = 6

// revenueStockCap limits how many units of each product count toward revenue.
const revenueStockCap = 10

// KPIs are the dashboard headline figures.
type KPIs struct {
	TotalUsers   int    `json:"total_users" yaml:"total_users"`
	ActiveUsers  int    `json:"active_users" yaml:"active_users"`
	TotalRevenue int64  `json:"total_revenue" yaml:"total_revenue"`
	SystemStatus string `json:"system_status" yaml:"system_status"`
}

// ComputeKPIs derives the headline figures. Revenue counts at most ten
// units of stock per product and is rounded down.
func ComputeKPIs(users []*User, products []*Product) KPIs {
	k := KPIs{TotalUsers: len(users), SystemStatus: SystemOperational}
	for _, u := range users {
		if u.Status == UserStatusActive {
			k.ActiveUsers++
		}
	}
	var revenue float64
	for _, p := range products {
		revenue += p.Price * float64(min(p.Stock, revenueStockCap))
	}
	k.TotalRevenue = int64(math.Floor(revenue))
	return k
}

// KPIs returns the current headline figures.
func (c *Client[TTx]) KPIs(ctx context.Context) (KPIs, error) {
	users, err := c.ListUsers(ctx)
	if err != nil {
		return KPIs{}, err
	}
	products, err := c.ListProducts(ctx)
	if err != nil {
		return KPIs{}, err
	}
	return ComputeKPIs(users, products), nil
}

// CategoryCount is the number of products in one category.
type CategoryCount struct {
	Category string `json:"category" yaml:"category"`
	Count    int    `json:"count" yaml:"count"`
}

// CountCategories groups products by category in order of first appearance.
func CountCategories(products []*Product) []CategoryCount {
	out := []CategoryCount{}
	index := make(map[string]int)
	for _, p := range products {
		i, ok := index[p.Category]
		if !ok {
			i = len(out)
			index[p.Category] = i
			out = append(out, CategoryCount{Category: p.Category})
		}
		out[i].Count++
	}
	return out
}

// CategoryPoints converts category counts into a chart series.
func CategoryPoints(counts []CategoryCount) []chart.Point {
	out := make([]chart.Point, len(counts))
	for i, c := range counts {
		out[i] = chart.Point{Label: c.Category, Value: float64(c.Count)}
	}
	return out
}

// CategoryDistribution returns the product count per category.
func (c *Client[TTx]) CategoryDistribution(ctx context.Context) ([]CategoryCount, error) {
	products, err := c.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return CountCategories(products), nil
}

// Analytics holds the analytics page data.
type Analytics struct {
	Revenue    []chart.Point    `json:"revenue" yaml:"revenue"`
	UserGrowth []chart.Point    `json:"user_growth" yaml:"user_growth"`
	Categories []CategoryCount  `json:"category_distribution" yaml:"category_distribution"`
	Summary    AnalyticsSummary `json:"summary" yaml:"summary"`
}

// AnalyticsSummary aggregates the analytics series.
type AnalyticsSummary struct {
	TotalRevenue          float64 `json:"total_revenue" yaml:"total_revenue"`
	AverageMonthlyRevenue float64 `json:"average_monthly_revenue" yaml:"average_monthly_revenue"`
	TotalUserGrowth       float64 `json:"total_user_growth" yaml:"total_user_growth"`
	CategoryCount         int     `json:"category_count" yaml:"category_count"`
}

// Analytics returns the revenue and user growth series for the last six
// months, labeled with short month names. Months without a stored metric
// point are zero.
func (c *Client[TTx]) Analytics(ctx context.Context) (*Analytics, error) {
	now := c.config.Now()
	revenue, err := c.monthlySeries(ctx, storage.MetricRevenue, now)
	if err != nil {
		return nil, err
	}
	growth, err := c.monthlySeries(ctx, storage.MetricUserGrowth, now)
	if err != nil {
		return nil, err
	}
	categories, err := c.CategoryDistribution(ctx)
	if err != nil {
		return nil, err
	}

	a := &Analytics{Revenue: revenue, UserGrowth: growth, Categories: categories}
	for _, p := range revenue {
		a.Summary.TotalRevenue += p.Value
	}
	for _, p := range growth {
		a.Summary.TotalUserGrowth += p.Value
	}
	if len(revenue) > 0 {
		a.Summary.AverageMonthlyRevenue = math.Floor(a.Summary.TotalRevenue / float64(len(revenue)))
	}
	a.Summary.CategoryCount = len(categories)
	return a, nil
}

func (c *Client[TTx]) monthlySeries(ctx context.Context, metric string, now time.Time) ([]chart.Point, error) {
	points, err := c.store.ListMetrics(ctx, metric, 0)
	if err != nil {
		return nil, newError("list metrics", metric, 0, err)
	}
	byPeriod := make(map[string]float64, len(points))
	for _, p := range points {
		byPeriod[p.Period] = p.Value
	}

	months := lastMonths(now, AnalyticsMonths)
	series := make([]chart.Point, len(months))
	for i, m := range months {
		series[i] = chart.Point{Label: m.Format("Jan"), Value: byPeriod[storage.Period(m)]}
	}
	return series, nil
}

// Trend returns the relative change between the last two values of a
// series, or false when it cannot be computed.
func Trend(series []chart.Point) (float64, bool) {
	if len(series) < 2 {
		return 0, false
	}
	prev, last := series[len(series)-2].Value, series[len(series)-1].Value
	if prev == 0 {
		return 0, false
	}
	return (last - prev) / prev, true
}

// computeSnapshot is the snapshotter's compute function: the current
// revenue KPI and the number of users registered in the month of now.
func (c *Client[TTx]) computeSnapshot(ctx context.Context, now time.Time) ([]*storage.MetricPoint, error) {
	users, err := c.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	products, err := c.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	period := storage.Period(now)
	var joined int
	for _, u := range users {
		if storage.Period(u.RegistrationDate) == period {
			joined++
		}
	}
	return []*storage.MetricPoint{
		{Metric: storage.MetricRevenue, Period: period, Value: float64(ComputeKPIs(users, products).TotalRevenue)},
		{Metric: storage.MetricUserGrowth, Period: period, Value: float64(joined)},
	}, nil
}

// ExportFormat selects the analytics export encoding.
type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportYAML ExportFormat = "yaml"
)

// ParseExportFormat parses "json", "yaml" or "yml". Empty means JSON.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return ExportJSON, nil
	case "yaml", "yml":
		return ExportYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ContentType returns the MIME type of the format.
func (f ExportFormat) ContentType() string {
	if f == ExportYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Filename returns the download name of an export taken at t.
func (f ExportFormat) Filename(t time.Time) string {
	return fmt.Sprintf("analytics-export-%d.%s", t.UnixMilli(), f)
}

// AnalyticsExport is the document written by ExportAnalytics.
type AnalyticsExport struct {
	Revenue              []chart.Point   `json:"revenue" yaml:"revenue"`
	UserGrowth           []chart.Point   `json:"userGrowth" yaml:"userGrowth"`
	CategoryDistribution []CategoryCount `json:"categoryDistribution" yaml:"categoryDistribution"`
	ExportDate           string          `json:"exportDate" yaml:"exportDate"`
}

// ExportAnalytics writes the analytics series and category distribution
// to w in the given format.
func (c *Client[TTx]) ExportAnalytics(ctx context.Context, w io.Writer, format ExportFormat) error {
	a, err := c.Analytics(ctx)
	if err != nil {
		return err
	}
	doc := AnalyticsExport{
		Revenue:              a.Revenue,
		UserGrowth:           a.UserGrowth,
		CategoryDistribution: a.Categories,
		ExportDate:           c.config.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}

	switch format {
	case ExportJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case ExportYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// RecentActivity returns the newest activity events. A non-positive limit
// uses DefaultActivityLimit.
func (c *Client[TTx]) RecentActivity(ctx context.Context, limit int) ([]*ActivityEvent, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	events, err := c.store.ListActivity(ctx, limit)
	if err != nil {
		return nil, newError("list activity", "", 0, err)
	}
	return events, nil
}
