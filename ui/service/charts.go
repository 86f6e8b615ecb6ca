package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/youssefsiam38/admindash"
	"github.com/youssefsiam38/admindash/chart"
)

// Chart names served as images.
const (
	ChartRevenue    = "revenue"
	ChartUserGrowth = "user-growth"
	ChartCategories = "categories"
)

// ChartKind returns the chart kind drawn for name.
func ChartKind(name string) (chart.Kind, bool) {
	switch name {
	case ChartRevenue, ChartCategories:
		return chart.Bar, true
	case ChartUserGrowth:
		return chart.Line, true
	}
	return "", false
}

// Series returns the data of a named chart.
func (s *Service[TTx]) Series(ctx context.Context, name string) ([]chart.Point, error) {
	switch name {
	case ChartRevenue, ChartUserGrowth:
		a, err := s.client.Analytics(ctx)
		if err != nil {
			return nil, err
		}
		if name == ChartRevenue {
			return a.Revenue, nil
		}
		return a.UserGrowth, nil
	case ChartCategories:
		counts, err := s.client.CategoryDistribution(ctx)
		if err != nil {
			return nil, err
		}
		return admindash.CategoryPoints(counts), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownChart, name)
}

// ChartPNG renders a named chart as PNG. Series that cannot be drawn yield
// a blank image.
func (s *Service[TTx]) ChartPNG(ctx context.Context, name string, opts ChartOptions) ([]byte, error) {
	kind, ok := ChartKind(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
	series, err := s.Series(ctx, name)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := chart.RenderPNG(&buf, series, kind, opts.size(), chart.ThemeByName(opts.Theme)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (o ChartOptions) size() chart.Size {
	clamp := func(v, def, hi float64) float64 {
		if v <= 0 {
			return def
		}
		return min(v, hi)
	}
	side := func(v, def float64) float64 {
		return max(clamp(v, def, MaxChartSide), MinChartSide)
	}
	return chart.Size{
		Width:      side(o.Width, DefaultChartWidth),
		Height:     side(o.Height, DefaultChartHeight),
		PixelRatio: clamp(o.PixelRatio, 1, MaxPixelRatio),
	}
}
