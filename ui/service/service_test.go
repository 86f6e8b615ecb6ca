package service

import (
	"bytes"
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youssefsiam38/admindash"
	"github.com/youssefsiam38/admindash/driver/memory"
)

var testNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service[memory.Tx] {
	t.Helper()
	client, err := admindash.NewClient(memory.New(nil), &admindash.ClientConfig{
		DisableMaintenance: true,
		Now:                func() time.Time { return testNow },
	})
	require.NoError(t, err)
	require.NoError(t, client.ResetData(context.Background()))
	return New(client, nil)
}

func TestParseListParams(t *testing.T) {
	p := ParseListParams(url.Values{
		"q":    {"  watch "},
		"sort": {"price"},
		"dir":  {"sideways"},
		"page": {"-3"},
	})
	assert.Equal(t, ListParams{Search: "watch", Sort: "price", Page: 1}, p)
	assert.Equal(t, "q=watch&sort=price", p.Query())

	p = ParseListParams(url.Values{"page": {"9999999"}})
	assert.Equal(t, MaxPage, p.Page)
}

func TestUsersTable(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	view, err := s.Users(ctx, ListParams{Page: 1})
	require.NoError(t, err)
	assert.Len(t, view.Rows, DefaultPageSize)
	assert.Equal(t, 2, view.Paging.TotalPages)
	assert.Equal(t, 20, view.Paging.TotalCount)
	assert.True(t, view.IsAdmin)
	assert.True(t, view.Actions.Edit)
	assert.True(t, view.Actions.Delete)
	assert.Equal(t, "dir=asc&sort=name", view.SortQuery("name"))
	assert.Equal(t, "page=2", view.PageQuery(5))

	view, err = s.Users(ctx, ListParams{Sort: "id", Dir: "desc", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(20), view.Rows[0].ID)
	assert.Equal(t, "dir=asc&sort=id", view.SortQuery("id"))

	view, err = s.Users(ctx, ListParams{Search: "john.davis1@example.com", Page: 1})
	require.NoError(t, err)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, int64(1), view.Rows[0].ID)
	assert.Equal(t, "q=john.davis1%40example.com", view.Query())

	view, err = s.Users(ctx, ListParams{Search: "no such person", Page: 1})
	require.NoError(t, err)
	assert.True(t, view.Empty)
}

func TestTables_ViewerHasNoActions(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	require.NoError(t, s.Client().SetRole(ctx, admindash.RoleViewer))

	view, err := s.Products(ctx, ListParams{Page: 1})
	require.NoError(t, err)
	assert.False(t, view.IsAdmin)
	assert.False(t, view.Actions.ShowColumn())
	assert.Len(t, view.Rows, DefaultPageSize)
}

func TestDashboard(t *testing.T) {
	s := newTestService(t)

	d, err := s.Dashboard(context.Background())
	require.NoError(t, err)
	require.Len(t, d.Cards, 4)
	assert.Equal(t, "20", d.Cards[0].Value)
	assert.Equal(t, admindash.SystemOperational, d.Cards[3].Value)
	assert.Len(t, d.Revenue, admindash.AnalyticsMonths)
	// 71280 against 58610.
	assert.Equal(t, "up", d.Cards[2].Trend)
	assert.Equal(t, "+22%", d.Cards[2].TrendValue)
	assert.NotEmpty(t, d.RecentActivity)
}

func TestAnalyticsAndSettings(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	a, err := s.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, "$335,170", a.TotalRevenue)
	assert.Equal(t, "$55,861", a.AverageMonthlyRevenue)
	assert.Equal(t, "2,710", a.TotalUserGrowth)

	st, err := s.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, admindash.RoleAdmin, st.Role)
	assert.Equal(t, 20, st.UserCount)
	assert.Equal(t, 25, st.ProductCount)
	assert.Equal(t, admindash.Version, st.Version)
}

func TestChartPNG(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{ChartRevenue, ChartUserGrowth, ChartCategories} {
		data, err := s.ChartPNG(ctx, name, ChartOptions{Theme: "dark", Width: 10000})
		require.NoError(t, err, name)
		assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), name)
	}

	_, err := s.ChartPNG(ctx, "pie", ChartOptions{})
	assert.ErrorIs(t, err, ErrUnknownChart)

	size := ChartOptions{Width: 1, PixelRatio: 9}.size()
	assert.Equal(t, float64(MinChartSide), size.Width)
	assert.Equal(t, float64(DefaultChartHeight), size.Height)
	assert.Equal(t, float64(MaxPixelRatio), size.PixelRatio)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "$1,234.50", FormatMoney(1234.5))
	assert.Equal(t, "$1,234", FormatWholeMoney(1234.99))
	assert.Equal(t, "12,345", FormatCount(12345))
	assert.Equal(t, "+12%", FormatPercent(0.12))
	assert.Equal(t, "-5%", FormatPercent(-0.05))

	assert.Equal(t, "success", Tone(admindash.StockIn))
	assert.Equal(t, "error", Tone(admindash.StockOut))
	assert.Equal(t, "neutral", Tone("whatever"))
	assert.Equal(t, `<span class="badge badge-info">&lt;b&gt;</span>`, string(Badge("<b>", "info")))
}

func TestMarkdown(t *testing.T) {
	s := New[memory.Tx](nil, nil)

	html := string(s.Markdown("**Smart** watch <script>alert(1)</script>"))
	assert.Contains(t, html, "<strong>Smart</strong>")
	assert.NotContains(t, html, "<script>")
	assert.Empty(t, s.Markdown("   "))
}
