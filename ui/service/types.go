package service

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/youssefsiam38/admindash"
	"github.com/youssefsiam38/admindash/chart"
	"github.com/youssefsiam38/admindash/datatable"
)

// Validation constants for query parameters
const (
	// MaxSearchLength bounds the search term to keep filtering cheap
	MaxSearchLength = 200
	// MaxPage is the highest page number accepted before clamping
	MaxPage = 100000
)

// AllowedDir is the whitelist of valid sort directions
var AllowedDir = map[string]bool{
	"":     true, // empty means ascending
	"asc":  true,
	"desc": true,
}

// ValidateDir validates a sort direction.
// Returns the validated value or an empty string if invalid.
func ValidateDir(value string) string {
	if AllowedDir[value] {
		return value
	}
	return ""
}

// ValidatePage ensures page is within acceptable bounds.
func ValidatePage(page int) int {
	if page < 1 {
		return 1
	}
	if page > MaxPage {
		return MaxPage
	}
	return page
}

// ValidateSearch trims and truncates a search term.
func ValidateSearch(term string) string {
	term = strings.TrimSpace(term)
	if len(term) > MaxSearchLength {
		term = term[:MaxSearchLength]
	}
	return term
}

// ListParams is the table state carried in the URL.
type ListParams struct {
	Search string `json:"search,omitempty"`
	Sort   string `json:"sort,omitempty"`
	Dir    string `json:"dir,omitempty"`
	Page   int    `json:"page,omitempty"`
}

// ParseListParams reads q, sort, dir and page from a query string.
func ParseListParams(q url.Values) ListParams {
	page, _ := strconv.Atoi(q.Get("page"))
	return ListParams{
		Search: ValidateSearch(q.Get("q")),
		Sort:   q.Get("sort"),
		Dir:    ValidateDir(q.Get("dir")),
		Page:   ValidatePage(page),
	}
}

// ViewState converts the params into a table state.
func (p ListParams) ViewState() datatable.ViewState {
	return datatable.ViewState{
		SearchTerm:  p.Search,
		CurrentPage: ValidatePage(p.Page),
		Sort:        datatable.SortState{Key: p.Sort, Direction: datatable.ParseDirection(p.Dir)},
	}
}

// paramsFromState is the inverse of ViewState.
func paramsFromState(st datatable.ViewState) ListParams {
	p := ListParams{Search: st.SearchTerm, Page: st.CurrentPage}
	if st.Sort.IsSorted() {
		p.Sort = st.Sort.Key
		p.Dir = st.Sort.Direction.String()
	}
	return p
}

// Query encodes the params as a query string without the leading "?".
func (p ListParams) Query() string {
	q := url.Values{}
	if p.Search != "" {
		q.Set("q", p.Search)
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
		if p.Dir != "" {
			q.Set("dir", p.Dir)
		}
	}
	if p.Page > 1 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	return q.Encode()
}

// TableView is one rendered page of a table.
type TableView struct {
	*datatable.View
	Entity  string
	Params  ListParams
	IsAdmin bool
}

// SortQuery returns the query string that toggles sorting on key.
func (v *TableView) SortQuery(key string) string {
	return paramsFromState(v.State.ToggleSort(key)).Query()
}

// PageQuery returns the query string for page, clamped to the page range.
func (v *TableView) PageQuery(page int) string {
	return paramsFromState(v.State.GoTo(page, v.Paging.TotalPages)).Query()
}

// Query returns the query string of the current state.
func (v *TableView) Query() string {
	return paramsFromState(v.State).Query()
}

// KPICard is one headline figure on the dashboard.
type KPICard struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
	// Trend is "up", "down" or empty when unknown.
	Trend      string `json:"trend,omitempty"`
	TrendValue string `json:"trend_value,omitempty"`
}

// DashboardView contains the dashboard page data.
type DashboardView struct {
	KPIs           admindash.KPIs             `json:"kpis"`
	Cards          []KPICard                  `json:"cards"`
	Revenue        []chart.Point              `json:"revenue"`
	UserGrowth     []chart.Point              `json:"user_growth"`
	RecentActivity []*admindash.ActivityEvent `json:"recent_activity"`
	GeneratedAt    time.Time                  `json:"generated_at"`
}

// AnalyticsView contains the analytics page data.
type AnalyticsView struct {
	*admindash.Analytics
	TotalRevenue          string `json:"-"`
	AverageMonthlyRevenue string `json:"-"`
	TotalUserGrowth       string `json:"-"`
}

// SettingsView contains the settings page data.
type SettingsView struct {
	Role          admindash.Role `json:"role"`
	IsAdmin       bool           `json:"is_admin"`
	UserCount     int            `json:"user_count"`
	ProductCount  int            `json:"product_count"`
	ActivityCount int            `json:"activity_count"`
	Version       string         `json:"version"`
	// Maintenance is true when this instance runs snapshots and pruning.
	Maintenance bool `json:"maintenance"`
}

// ChartOptions select the size and palette of a chart image.
type ChartOptions struct {
	Theme      string
	Width      float64
	Height     float64
	PixelRatio float64
}

// Chart sizes.
const (
	DefaultChartWidth  = 560
	DefaultChartHeight = 300
	MinChartSide       = 120
	MaxChartSide       = 2000
	MaxPixelRatio      = 3
)
