package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"bike-dashboard/models"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// Column names of the cleaned hourly dataset.
const (
	COL_DATE    = "dteday"
	COL_SEASON  = "season"
	COL_WEATHER = "weathersit"
	COL_HOUR    = "hr"
	COL_WEEKDAY = "weekday"
	COL_COUNT   = "cnt"
)

var requiredColumns = []string{COL_DATE, COL_SEASON, COL_WEATHER, COL_HOUR, COL_WEEKDAY, COL_COUNT}

// Categorical columns are forced to strings so numeric codes are kept as labels.
var rentalColumnTypes = map[string]series.Type{
	COL_DATE:    series.String,
	COL_SEASON:  series.String,
	COL_WEATHER: series.String,
	COL_WEEKDAY: series.String,
	COL_HOUR:    series.Int,
	COL_COUNT:   series.Int,
}

var dateLayouts = []string{
	models.DATE_LAYOUT,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"1/2/2006",
	"01/02/2006",
}

// ReadRentalsTable loads the dataset at filePath, picking the reader by extension.
func ReadRentalsTable(filePath, sheet string) (dataframe.DataFrame, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx":
		return ReadRentalsFromXLSX(filePath, sheet)
	default:
		return ReadRentalsFromCSV(filePath)
	}
}

// ReadRentalsFromCSV loads a comma-separated rentals table from disk.
func ReadRentalsFromCSV(filePath string) (dataframe.DataFrame, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open file %q: %w", filePath, err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f, dataframe.WithTypes(rentalColumnTypes))
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to parse csv %q: %w", filePath, df.Err)
	}
	return NormalizeRentalsTable(df)
}

// ReadRentalsFromXLSX loads the rentals table from a workbook sheet. An empty
// sheet name selects the first sheet.
func ReadRentalsFromXLSX(filePath, sheet string) (dataframe.DataFrame, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open xlsx file %q: %w", filePath, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("sheet %q of %q is empty", sheet, filePath)
	}

	df := dataframe.LoadRecords(padRows(rows), dataframe.WithTypes(rentalColumnTypes))
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to load sheet %q: %w", sheet, df.Err)
	}
	return NormalizeRentalsTable(df)
}

// excelize trims trailing empty cells, LoadRecords needs rectangular input.
func padRows(rows [][]string) [][]string {
	width := len(rows[0])
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row[:width]
	}
	return rows
}

// NormalizeRentalsTable checks the required columns and rewrites dteday as DATE_LAYOUT.
func NormalizeRentalsTable(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	names := make(map[string]struct{}, len(df.Names()))
	for _, n := range df.Names() {
		names[n] = struct{}{}
	}
	for _, c := range requiredColumns {
		if _, ok := names[c]; !ok {
			return dataframe.DataFrame{}, fmt.Errorf("missing required column %q", c)
		}
	}

	raw := df.Col(COL_DATE).Records()
	dates := make([]string, len(raw))
	for i, v := range raw {
		day, err := ParseDate(v)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("row %d: %w", i+1, err)
		}
		dates[i] = day.Format(models.DATE_LAYOUT)
	}

	df = df.Mutate(series.New(dates, series.String, COL_DATE))
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to normalize %s: %w", COL_DATE, df.Err)
	}
	return df, nil
}

// ParseDate parses a dteday value in any of the accepted layouts.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return models.TruncateToDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable %s value %q", COL_DATE, value)
}

// RecordsToDataFrame builds a rentals table from records.
func RecordsToDataFrame(records []models.RentalRecord) dataframe.DataFrame {
	dates := make([]string, len(records))
	seasons := make([]string, len(records))
	weathers := make([]string, len(records))
	hours := make([]int, len(records))
	weekdays := make([]string, len(records))
	counts := make([]int, len(records))
	for i, r := range records {
		dates[i] = r.Date
		seasons[i] = r.Season
		weathers[i] = r.WeatherSit
		hours[i] = r.Hour
		weekdays[i] = r.Weekday
		counts[i] = r.Count
	}

	return dataframe.New(
		series.New(dates, series.String, COL_DATE),
		series.New(seasons, series.String, COL_SEASON),
		series.New(weathers, series.String, COL_WEATHER),
		series.New(hours, series.Int, COL_HOUR),
		series.New(weekdays, series.String, COL_WEEKDAY),
		series.New(counts, series.Int, COL_COUNT),
	)
}

// DataFrameToRecords converts a normalized rentals table back into records.
func DataFrameToRecords(df dataframe.DataFrame) ([]models.RentalRecord, error) {
	hours, err := df.Col(COL_HOUR).Int()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s column: %w", COL_HOUR, err)
	}
	counts, err := df.Col(COL_COUNT).Int()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s column: %w", COL_COUNT, err)
	}
	dates := df.Col(COL_DATE).Records()
	seasons := df.Col(COL_SEASON).Records()
	weathers := df.Col(COL_WEATHER).Records()
	weekdays := df.Col(COL_WEEKDAY).Records()

	records := make([]models.RentalRecord, df.Nrow())
	for i := range records {
		records[i] = models.RentalRecord{
			Date:       dates[i],
			Hour:       hours[i],
			Season:     seasons[i],
			WeatherSit: weathers[i],
			Weekday:    weekdays[i],
			Count:      counts[i],
		}
	}
	return records, nil
}

// ParseIntKey converts a grouped key such as hr back into an int.
func ParseIntKey(value string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(value))
}
