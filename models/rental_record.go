package models

import "fmt"

// RentalRecord is one hourly observation of the bike sharing dataset.
type RentalRecord struct {
	Date       string `json:"dteday"` // normalized to DATE_LAYOUT
	Hour       int    `json:"hr"`
	Season     string `json:"season"`
	WeatherSit string `json:"weathersit"`
	Weekday    string `json:"weekday"`
	Count      int    `json:"cnt"`
}

func (r *RentalRecord) ToString() string {
	return fmt.Sprintf("RentalRecord(date=%s, hr=%d, season=%s, weather=%s, weekday=%s, cnt=%d)",
		r.Date, r.Hour, r.Season, r.WeatherSit, r.Weekday, r.Count)
}
