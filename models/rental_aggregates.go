package models

// DailyRentals is the total rental count of one calendar day.
type DailyRentals struct {
	Date  string `json:"dteday"`
	Count int    `json:"cnt"`
}

// CategoryRentals is the mean hourly rental count for one categorical key
// (season, weather situation or weekday). Mean is NaN when Rows is 0.
type CategoryRentals struct {
	Key  string  `json:"key"`
	Mean float64 `json:"cnt"`
	Rows int     `json:"rows"`
}

// HourlyRentals is the mean rental count for one hour of the day.
type HourlyRentals struct {
	Hour int     `json:"hr"`
	Mean float64 `json:"cnt"`
	Rows int     `json:"rows"`
}
