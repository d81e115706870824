// Package analytics derives the dashboard aggregates from a rentals table.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"bike-dashboard/models"
	"bike-dashboard/util"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// WeekdayOrder is the fixed calendar order of the weekday chart.
var WeekdayOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DateBounds returns the first and last dteday of the table.
func DateBounds(df dataframe.DataFrame) (models.DateRange, error) {
	if df.Nrow() == 0 {
		return models.DateRange{}, fmt.Errorf("cannot compute date bounds of an empty table")
	}
	var min, max time.Time
	for i, v := range df.Col(util.COL_DATE).Records() {
		day, err := util.ParseDate(v)
		if err != nil {
			return models.DateRange{}, err
		}
		if i == 0 || day.Before(min) {
			min = day
		}
		if i == 0 || day.After(max) {
			max = day
		}
	}
	return models.NewDateRange(min, max), nil
}

// FilterByDateRange keeps the rows whose dteday lies within rng, bounds included.
// dteday is normalized to DATE_LAYOUT so the string comparison follows calendar order.
func FilterByDateRange(df dataframe.DataFrame, rng models.DateRange) dataframe.DataFrame {
	start, end := rng.StartString(), rng.EndString()
	return df.Filter(
		dataframe.F{
			Colname:    util.COL_DATE,
			Comparator: series.CompFunc,
			Comparando: func(el series.Element) bool {
				return el.String() >= start
			},
		},
	).Filter(
		dataframe.F{
			Colname:    util.COL_DATE,
			Comparator: series.CompFunc,
			Comparando: func(el series.Element) bool {
				return el.String() <= end
			},
		},
	)
}

// DailyRentals sums cnt per calendar day. Like a daily resample, every day between
// the first and last observed date is present, days without rows count 0.
func DailyRentals(df dataframe.DataFrame) ([]models.DailyRentals, error) {
	if df.Nrow() == 0 {
		return []models.DailyRentals{}, nil
	}

	groups, err := groupBy(df, util.COL_DATE)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]int, len(groups))
	for _, g := range groups {
		sums[g.Col(util.COL_DATE).Elem(0).String()] = int(g.Col(util.COL_COUNT).Sum())
	}

	bounds, err := DateBounds(df)
	if err != nil {
		return nil, err
	}

	var out []models.DailyRentals
	for day := bounds.Start; !day.After(bounds.End); day = day.AddDate(0, 0, 1) {
		key := day.Format(models.DATE_LAYOUT)
		out = append(out, models.DailyRentals{Date: key, Count: sums[key]})
	}
	return out, nil
}

// SeasonRentals averages cnt per season, in key order.
func SeasonRentals(df dataframe.DataFrame) ([]models.CategoryRentals, error) {
	return meanByKey(df, util.COL_SEASON)
}

// WeatherRentals averages cnt per weather situation, in key order.
func WeatherRentals(df dataframe.DataFrame) ([]models.CategoryRentals, error) {
	return meanByKey(df, util.COL_WEATHER)
}

// HourlyRentals averages cnt per hour of the day, ascending.
func HourlyRentals(df dataframe.DataFrame) ([]models.HourlyRentals, error) {
	byKey, err := meanByKey(df, util.COL_HOUR)
	if err != nil {
		return nil, err
	}

	out := make([]models.HourlyRentals, 0, len(byKey))
	for _, c := range byKey {
		hr, err := util.ParseIntKey(c.Key)
		if err != nil {
			return nil, fmt.Errorf("invalid %s key %q: %w", util.COL_HOUR, c.Key, err)
		}
		out = append(out, models.HourlyRentals{Hour: hr, Mean: c.Mean, Rows: c.Rows})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out, nil
}

// WeekdayRentals averages cnt per weekday and lays the result out Monday to
// Sunday. All seven days are always present; days without rows have a NaN mean.
// Weekday labels outside WeekdayOrder are dropped.
func WeekdayRentals(df dataframe.DataFrame) ([]models.CategoryRentals, error) {
	byKey, err := meanByKey(df, util.COL_WEEKDAY)
	if err != nil {
		return nil, err
	}
	return ReorderWeekdays(byKey), nil
}

// ReorderWeekdays maps weekday aggregates onto WeekdayOrder.
func ReorderWeekdays(in []models.CategoryRentals) []models.CategoryRentals {
	found := make(map[string]models.CategoryRentals, len(in))
	for _, c := range in {
		found[c.Key] = c
	}

	out := make([]models.CategoryRentals, len(WeekdayOrder))
	for i, day := range WeekdayOrder {
		if c, ok := found[day]; ok {
			out[i] = c
			continue
		}
		out[i] = models.CategoryRentals{Key: day, Mean: math.NaN()}
	}
	return out
}

// SortByMeanDesc returns a copy of in ordered by mean, highest first.
func SortByMeanDesc(in []models.CategoryRentals) []models.CategoryRentals {
	out := make([]models.CategoryRentals, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Mean > out[j].Mean })
	return out
}

func meanByKey(df dataframe.DataFrame, key string) ([]models.CategoryRentals, error) {
	if df.Nrow() == 0 {
		return []models.CategoryRentals{}, nil
	}

	groups, err := groupBy(df, key)
	if err != nil {
		return nil, err
	}

	out := make([]models.CategoryRentals, 0, len(groups))
	for _, g := range groups {
		out = append(out, models.CategoryRentals{
			Key:  g.Col(key).Elem(0).String(),
			Mean: g.Col(util.COL_COUNT).Mean(),
			Rows: g.Nrow(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return keyLess(out[i].Key, out[j].Key) })
	return out, nil
}

func groupBy(df dataframe.DataFrame, key string) (map[string]dataframe.DataFrame, error) {
	groups := df.GroupBy(key)
	if groups == nil {
		return nil, fmt.Errorf("group by %s: no groups", key)
	}
	if groups.Err != nil {
		return nil, fmt.Errorf("group by %s: %w", key, groups.Err)
	}
	return groups.GetGroups(), nil
}

// keyLess orders numeric codes numerically and labels alphabetically.
func keyLess(a, b string) bool {
	na, errA := util.ParseIntKey(a)
	nb, errB := util.ParseIntKey(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
