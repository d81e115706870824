package analytics

import (
	"fmt"
	"math"

	"bike-dashboard/models"

	"github.com/go-gota/gota/dataframe"
)

// BuildDashboardView filters table to rng and derives every aggregate and
// metric of one dashboard render. An empty selection yields empty tables, zero
// totals and a NaN daily average.
func BuildDashboardView(table dataframe.DataFrame, rng, bounds models.DateRange) (*models.DashboardView, error) {
	filtered := FilterByDateRange(table, rng)
	if filtered.Err != nil {
		return nil, fmt.Errorf("failed to filter rentals: %w", filtered.Err)
	}

	daily, err := DailyRentals(filtered)
	if err != nil {
		return nil, fmt.Errorf("daily rentals: %w", err)
	}
	season, err := SeasonRentals(filtered)
	if err != nil {
		return nil, fmt.Errorf("season rentals: %w", err)
	}
	weather, err := WeatherRentals(filtered)
	if err != nil {
		return nil, fmt.Errorf("weather rentals: %w", err)
	}
	hourly, err := HourlyRentals(filtered)
	if err != nil {
		return nil, fmt.Errorf("hourly rentals: %w", err)
	}
	weekday, err := WeekdayRentals(filtered)
	if err != nil {
		return nil, fmt.Errorf("weekday rentals: %w", err)
	}

	total := 0
	for _, d := range daily {
		total += d.Count
	}
	average := math.NaN()
	if len(daily) > 0 {
		average = float64(total) / float64(len(daily))
	}

	return &models.DashboardView{
		Range:                rng,
		Bounds:               bounds,
		TotalDays:            len(daily),
		TotalRentals:         total,
		AverageRentalsPerDay: average,
		Daily:                daily,
		Season:               SortByMeanDesc(season),
		Weather:              SortByMeanDesc(weather),
		Hourly:               hourly,
		Weekday:              weekday,
	}, nil
}
