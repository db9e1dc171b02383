// Package chart renders the report pie charts and keeps the latest PNG for
// each chart name in an in-memory artifact store, so handlers serve images
// without any filesystem coupling.
package chart

import (
	"fmt"
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"

	"paisa/internal/core"
	"paisa/internal/docstore"
)

const (
	chartWidth  = 800
	chartHeight = 600
)

// RenderPie writes a pie chart PNG for the grouped totals. Each slice label
// carries the group name, the absolute total and its share of the grand
// total; the title carries the grand total. An empty input renders the
// "No Data" placeholder instead of a zero-slice pie.
func RenderPie(groups []docstore.GroupTotal, w io.Writer) error {
	if len(groups) == 0 {
		return renderPlaceholder(w)
	}

	values, title := sliceValues(groups)
	pie := gochart.PieChart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		Values: values,
	}
	if err := pie.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render pie chart: %w", err)
	}
	return nil
}

// sliceValues converts grouped totals into chart slices. Percentages are
// computed from cents so they sum to 100% within rounding tolerance.
func sliceValues(groups []docstore.GroupTotal) ([]gochart.Value, string) {
	var total int64
	for _, g := range groups {
		total += g.Cents
	}

	values := make([]gochart.Value, 0, len(groups))
	for _, g := range groups {
		pct := 0.0
		if total > 0 {
			pct = float64(g.Cents) / float64(total) * 100
		}
		values = append(values, gochart.Value{
			Value: float64(g.Cents),
			Label: fmt.Sprintf("%s - %s (%.1f%%)", g.Key, core.Money{Cents: g.Cents}.Display(), pct),
		})
	}
	return values, fmt.Sprintf("Total: %s", core.Money{Cents: total}.Display())
}

// renderPlaceholder paints a blank canvas with a centered "No Data" caption.
func renderPlaceholder(w io.Writer) error {
	r, err := gochart.PNG(chartWidth, chartHeight)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	font, err := gochart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("load font: %w", err)
	}

	const caption = "No Data"
	r.SetFont(font)
	r.SetFontSize(32)
	r.SetFontColor(gochart.ColorBlack)
	box := r.MeasureText(caption)
	r.Text(caption, (chartWidth-box.Width())/2, (chartHeight+box.Height())/2)

	if err := r.Save(w); err != nil {
		return fmt.Errorf("save placeholder: %w", err)
	}
	return nil
}
