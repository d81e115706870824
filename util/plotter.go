package util

import (
	"io"
	"math"

	"bike-dashboard/models"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const DAILY_LINE_COLOR = "#90CAF9"

// echarts draws "-" as a gap, NaN cannot be encoded into the chart options.
const missingValue = "-"

func chartInitOpts(title string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		PageTitle: title,
		Width:     "100%",
		Height:    "480px",
	})
}

// PlotDailyRentals renders the daily rentals trend line into w.
func PlotDailyRentals(w io.Writer, daily []models.DailyRentals) error {
	xAxis := make([]string, len(daily))
	points := make([]opts.LineData, len(daily))
	for i, d := range daily {
		xAxis[i] = d.Date
		points[i] = opts.LineData{Value: d.Count}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		chartInitOpts("Daily Rentals"),
		charts.WithTitleOpts(opts.Title{Title: "Daily Rentals"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)

	line.SetXAxis(xAxis).AddSeries("cnt", points,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}),
		charts.WithLineStyleOpts(opts.LineStyle{Width: 2, Color: DAILY_LINE_COLOR}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: DAILY_LINE_COLOR}),
	)

	return line.Render(w)
}

// PlotWeekdayRentals renders the weekday bar chart, keeping the given order.
func PlotWeekdayRentals(w io.Writer, weekday []models.CategoryRentals) error {
	return plotCategoryBars(w, "Average Rents by Day", weekday)
}

// PlotSeasonRentals renders the season bar chart. Callers sort the rows.
func PlotSeasonRentals(w io.Writer, season []models.CategoryRentals) error {
	return plotCategoryBars(w, "Rents by Season", season)
}

// PlotWeatherRentals renders the weather bar chart. Callers sort the rows.
func PlotWeatherRentals(w io.Writer, weather []models.CategoryRentals) error {
	return plotCategoryBars(w, "Rents by Weather", weather)
}

func plotCategoryBars(w io.Writer, title string, rows []models.CategoryRentals) error {
	xAxis := make([]string, len(rows))
	bars := make([]opts.BarData, len(rows))
	for i, c := range rows {
		xAxis[i] = c.Key
		if math.IsNaN(c.Mean) {
			bars[i] = opts.BarData{Value: missingValue}
			continue
		}
		bars[i] = opts.BarData{Value: math.Round(c.Mean*100) / 100}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		chartInitOpts(title),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)

	bar.SetXAxis(xAxis).AddSeries("cnt", bars)

	return bar.Render(w)
}
