package services

import (
	"bytes"
	"time"

	"github.com/crusher0311/maddenco-dvi-dashboard/internal/constants"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/dto"
	"github.com/wcharczuk/go-chart/v2"
)

// renderAdvisorChart draws the top-N advisors by hours sold as a PNG bar
// chart. Returns nil when there is nothing meaningful to draw; the PDF
// simply omits the image then.
func renderAdvisorChart(advisors []dto.AdvisorStats) []byte {
	if len(advisors) > constants.ChartAdvisorLimit {
		advisors = advisors[:constants.ChartAdvisorLimit]
	}

	bars := make([]chart.Value, 0, len(advisors))
	var max float64
	for _, a := range advisors {
		bars = append(bars, chart.Value{Label: a.Advisor, Value: a.HoursSold})
		if a.HoursSold > max {
			max = a.HoursSold
		}
	}
	if len(bars) == 0 || max == 0 {
		return nil
	}

	graph := chart.BarChart{
		Title:    "Hours sold by advisor",
		Width:    960,
		Height:   480,
		BarWidth: 20,
		Bars:     bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil
	}
	return buf.Bytes()
}

// renderWeeklyChart draws the weekly presented/sold trend as a PNG line
// chart. A single week cannot span an axis, so it needs at least two.
func renderWeeklyChart(weekly []dto.WeeklyStats) []byte {
	if len(weekly) < 2 {
		return nil
	}

	xs := make([]time.Time, len(weekly))
	presented := make([]float64, len(weekly))
	sold := make([]float64, len(weekly))
	for i, w := range weekly {
		xs[i] = w.WeekStart
		presented[i] = w.HoursPresented
		sold[i] = w.HoursSold
	}

	graph := chart.Chart{
		Title:  "Weekly trend",
		Width:  960,
		Height: 480,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{Name: "Hours Presented", XValues: xs, YValues: presented},
			chart.TimeSeries{Name: "Hours Sold", XValues: xs, YValues: sold},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil
	}
	return buf.Bytes()
}
