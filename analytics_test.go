package admindash

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/youssefsiam38/admindash/chart"
	"github.com/youssefsiam38/admindash/storage"
)

func TestComputeKPIs(t *testing.T) {
	users := []*User{
		{Status: UserStatusActive},
		{Status: UserStatusPending},
		{Status: UserStatusActive},
	}
	products := []*Product{
		{Price: 19.99, Stock: 3},  // 59.97
		{Price: 100.5, Stock: 50}, // capped at 10 units: 1005
		{Price: 7, Stock: 0},
	}

	k := ComputeKPIs(users, products)
	assert.Equal(t, KPIs{TotalUsers: 3, ActiveUsers: 2, TotalRevenue: 1064, SystemStatus: SystemOperational}, k)

	assert.Equal(t, KPIs{SystemStatus: SystemOperational}, ComputeKPIs(nil, nil))
}

func TestCountCategories(t *testing.T) {
	products := []*Product{
		{Category: CategoryAudio},
		{Category: CategoryOffice},
		{Category: CategoryAudio},
		{Category: CategoryMobile},
	}
	counts := CountCategories(products)
	assert.Equal(t, []CategoryCount{
		{Category: CategoryAudio, Count: 2},
		{Category: CategoryOffice, Count: 1},
		{Category: CategoryMobile, Count: 1},
	}, counts)
	assert.Equal(t, chart.Point{Label: CategoryAudio, Value: 2}, CategoryPoints(counts)[0])
	assert.Empty(t, CountCategories(nil))
}

func TestAnalytics(t *testing.T) {
	c, store := newTestClient(t, nil)
	ctx := context.Background()

	require.NoError(t, store.UpsertMetric(ctx, &storage.MetricPoint{Metric: storage.MetricRevenue, Period: "2024-03", Value: 60000}))
	require.NoError(t, store.UpsertMetric(ctx, &storage.MetricPoint{Metric: storage.MetricRevenue, Period: "2023-12", Value: 30001}))
	require.NoError(t, store.UpsertMetric(ctx, &storage.MetricPoint{Metric: storage.MetricRevenue, Period: "2023-01", Value: 99999}))
	require.NoError(t, store.UpsertMetric(ctx, &storage.MetricPoint{Metric: storage.MetricUserGrowth, Period: "2024-02", Value: 250}))

	a, err := c.Analytics(ctx)
	require.NoError(t, err)

	assert.Equal(t, []chart.Point{
		{Label: "Oct", Value: 0},
		{Label: "Nov", Value: 0},
		{Label: "Dec", Value: 30001},
		{Label: "Jan", Value: 0},
		{Label: "Feb", Value: 0},
		{Label: "Mar", Value: 60000},
	}, a.Revenue)
	assert.Equal(t, 250.0, a.UserGrowth[4].Value)

	assert.Equal(t, 90001.0, a.Summary.TotalRevenue)
	assert.Equal(t, 15000.0, a.Summary.AverageMonthlyRevenue)
	assert.Equal(t, 250.0, a.Summary.TotalUserGrowth)
	assert.Equal(t, 0, a.Summary.CategoryCount)
}

func TestTrend(t *testing.T) {
	tr, ok := Trend([]chart.Point{{Value: 80}, {Value: 100}})
	require.True(t, ok)
	assert.InDelta(t, 0.25, tr, 1e-9)

	_, ok = Trend([]chart.Point{{Value: 0}, {Value: 100}})
	assert.False(t, ok)
	_, ok = Trend([]chart.Point{{Value: 5}})
	assert.False(t, ok)
}

func TestComputeSnapshot(t *testing.T) {
	c, _ := newTestClient(t, nil)
	ctx := context.Background()
	require.NoError(t, c.ResetData(ctx))
	_, err := c.CreateUser(ctx, UserInput{Name: "March Joiner", Email: "march@example.com", Role: UserRoleEditor, Status: UserStatusActive})
	require.NoError(t, err)

	kpis, err := c.KPIs(ctx)
	require.NoError(t, err)

	points, err := c.computeSnapshot(ctx, testNow)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, storage.MetricRevenue, points[0].Metric)
	assert.Equal(t, float64(kpis.TotalRevenue), points[0].Value)
	assert.Equal(t, "2024-03", points[0].Period)
	assert.Equal(t, 1.0, points[1].Value)
}

func TestExportAnalytics(t *testing.T) {
	c, _ := newTestClient(t, nil)
	ctx := context.Background()
	require.NoError(t, c.ResetData(ctx))

	var buf bytes.Buffer
	require.NoError(t, c.ExportAnalytics(ctx, &buf, ExportJSON))

	var doc AnalyticsExport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Len(t, doc.Revenue, 6)
	assert.Equal(t, "Mar", doc.Revenue[5].Label)
	assert.Equal(t, fixtureRevenue[5], doc.Revenue[5].Value)
	assert.Equal(t, "2024-03-15T10:30:00.000Z", doc.ExportDate)
	assert.Contains(t, buf.String(), "\n  \"userGrowth\"")

	buf.Reset()
	require.NoError(t, c.ExportAnalytics(ctx, &buf, ExportYAML))
	var ydoc AnalyticsExport
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &ydoc))
	assert.Equal(t, doc, ydoc)

	assert.ErrorIs(t, c.ExportAnalytics(ctx, &buf, "csv"), ErrUnsupportedFormat)
}

func TestParseExportFormat(t *testing.T) {
	for in, want := range map[string]ExportFormat{"": ExportJSON, "JSON": ExportJSON, "yml": ExportYAML, " yaml ": ExportYAML} {
		got, err := ParseExportFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseExportFormat("xml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	assert.Equal(t, "analytics-export-1710498600000.json", ExportJSON.Filename(testNow))
	assert.Equal(t, "application/yaml", ExportYAML.ContentType())
}
