package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/youssefsiam38/admindash"
	"github.com/youssefsiam38/admindash/datatable"
	"github.com/youssefsiam38/admindash/ui/service"
)

// maxCellWidth truncates long product names.
const maxCellWidth = 32

type alignment int

const (
	alignLeft alignment = iota
	alignRight
)

// reportColumn is one column of the product table.
type reportColumn struct {
	key   string
	label string
	align alignment
	text  func(v any) string
}

var reportColumns = []reportColumn{
	{key: admindash.FieldID, label: "ID", align: alignRight, text: plain},
	{key: admindash.FieldName, label: "Name", text: plain},
	{key: admindash.FieldCategory, label: "Category", text: plain},
	{key: admindash.FieldPrice, label: "Price", align: alignRight, text: func(v any) string {
		f, _ := v.(float64)
		return service.FormatMoney(f)
	}},
	{key: admindash.FieldStock, label: "Stock", align: alignRight, text: plain},
	{key: admindash.FieldStatus, label: "Status", text: plain},
}

func plain(v any) string { return fmt.Sprint(v) }

func writeReport[TTx any](ctx context.Context, w io.Writer, client *admindash.Client[TTx]) error {
	kpis, err := client.KPIs(ctx)
	if err != nil {
		return err
	}
	products, err := client.ListProducts(ctx)
	if err != nil {
		return err
	}
	return printReport(w, kpis, products)
}

// printReport writes the KPI summary followed by the products, most
// expensive first.
func printReport(w io.Writer, kpis admindash.KPIs, products []*admindash.Product) error {
	summary := [][]string{
		{"Total users", service.FormatCount(float64(kpis.TotalUsers))},
		{"Active users", service.FormatCount(float64(kpis.ActiveUsers))},
		{"Total revenue", service.FormatWholeMoney(float64(kpis.TotalRevenue))},
		{"System status", kpis.SystemStatus},
	}
	labelWidth := 0
	for _, line := range summary {
		labelWidth = max(labelWidth, runewidth.StringWidth(line[0]))
	}
	for _, line := range summary {
		if _, err := fmt.Fprintf(w, "%s  %s\n", alignCell(line[0], labelWidth, alignLeft), line[1]); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	if len(products) == 0 {
		_, err := fmt.Fprintln(w, "No products.")
		return err
	}

	records := datatable.Sort(admindash.ProductRecords(products), datatable.SortState{
		Key:       admindash.FieldPrice,
		Direction: datatable.Descending,
	})

	header := make([]string, len(reportColumns))
	for i, col := range reportColumns {
		header[i] = col.label
	}
	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(reportColumns))
		for j, col := range reportColumns {
			row[j] = runewidth.Truncate(col.text(rec[col.key]), maxCellWidth, "...")
		}
		rows[i] = row
	}

	widths := computeWidths(header, rows)
	if err := writeRow(w, header, widths); err != nil {
		return err
	}
	rule := make([]string, len(widths))
	for i, width := range widths {
		rule[i] = strings.Repeat("-", width)
	}
	if err := writeRow(w, rule, widths); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writeRow(w, row, widths); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%d products\n", len(rows))
	return err
}

func computeWidths(header []string, rows [][]string) []int {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func writeRow(w io.Writer, cells []string, widths []int) error {
	var sb strings.Builder
	for i, cell := range cells {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(alignCell(cell, widths[i], reportColumns[i].align))
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(sb.String(), " "))
	return err
}

func alignCell(s string, width int, align alignment) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	if align == alignRight {
		return strings.Repeat(" ", pad) + s
	}
	return s + strings.Repeat(" ", pad)
}
