package models

// DashboardView holds everything rendered for one date range selection.
type DashboardView struct {
	Range  DateRange
	Bounds DateRange

	TotalDays            int
	TotalRentals         int
	AverageRentalsPerDay float64 // NaN when the range holds no rows

	Daily   []DailyRentals
	Season  []CategoryRentals // sorted by mean, descending
	Weather []CategoryRentals // sorted by mean, descending
	Hourly  []HourlyRentals
	Weekday []CategoryRentals // Monday first
}
