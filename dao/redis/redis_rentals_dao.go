package redis

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"bike-dashboard/db"
	"bike-dashboard/models"
)

// RENTALS_DAY_KEY_FORMAT holds the JSON records of one calendar day.
const RENTALS_DAY_KEY_FORMAT = "rentals_day_v1:%s"

// ErrDayNotFound is returned when no records are stored for a date.
var ErrDayNotFound = errors.New("no rentals stored for day")

// RedisRentalsDAO stores rental records in Redis, one key per day.
type RedisRentalsDAO struct {
	client db.RedisClient
}

// NewRedisRentalsDAO initializes a RedisRentalsDAO with the Redis client.
func NewRedisRentalsDAO(client db.RedisClient) *RedisRentalsDAO {
	return &RedisRentalsDAO{client: client}
}

// UpsertDay replaces the records stored for date.
func (dao *RedisRentalsDAO) UpsertDay(date string, records []models.RentalRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal rentals for %s: %w", date, err)
	}
	if err := dao.client.Set(fmt.Sprintf(RENTALS_DAY_KEY_FORMAT, date), string(data)); err != nil {
		return fmt.Errorf("failed to set rentals for %s in redis: %w", date, err)
	}
	return nil
}

// ImportRecords groups records by day and upserts every day. Returns the number of days written.
func (dao *RedisRentalsDAO) ImportRecords(records []models.RentalRecord) (int, error) {
	byDay := make(map[string][]models.RentalRecord)
	for _, r := range records {
		byDay[r.Date] = append(byDay[r.Date], r)
	}

	for date, dayRecords := range byDay {
		if err := dao.UpsertDay(date, dayRecords); err != nil {
			return 0, err
		}
	}
	log.Printf("[RedisRentalsDAO] Imported %d records over %d days", len(records), len(byDay))
	return len(byDay), nil
}

// GetDay retrieves the records stored for date.
func (dao *RedisRentalsDAO) GetDay(date string) ([]models.RentalRecord, error) {
	str, err := dao.client.Get(fmt.Sprintf(RENTALS_DAY_KEY_FORMAT, date))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrDayNotFound, date)
		}
		return nil, fmt.Errorf("failed to get rentals for %s from redis: %w", date, err)
	}
	var records []models.RentalRecord
	if err := json.Unmarshal([]byte(str), &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rentals JSON for %s: %w", date, err)
	}
	return records, nil
}

// ListDates returns every stored date, ascending.
func (dao *RedisRentalsDAO) ListDates() ([]string, error) {
	keys, err := dao.client.Keys(fmt.Sprintf(RENTALS_DAY_KEY_FORMAT, "*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list rentals keys: %w", err)
	}
	prefix := fmt.Sprintf(RENTALS_DAY_KEY_FORMAT, "")
	dates := make([]string, 0, len(keys))
	for _, k := range keys {
		dates = append(dates, strings.TrimPrefix(k, prefix))
	}
	sort.Strings(dates)
	return dates, nil
}

// GetRecordsInRange returns the records of every stored day within rng.
func (dao *RedisRentalsDAO) GetRecordsInRange(rng models.DateRange) ([]models.RentalRecord, error) {
	dates, err := dao.ListDates()
	if err != nil {
		return nil, err
	}
	start, end := rng.StartString(), rng.EndString()

	var out []models.RentalRecord
	for _, date := range dates {
		if date < start || date > end {
			continue
		}
		records, err := dao.GetDay(date)
		if err != nil {
			return nil, err
		}
		out = append(out, records...)
	}
	return out, nil
}

// GetAllRecords returns every stored record ordered by day.
func (dao *RedisRentalsDAO) GetAllRecords() ([]models.RentalRecord, error) {
	dates, err := dao.ListDates()
	if err != nil {
		return nil, err
	}
	var out []models.RentalRecord
	for _, date := range dates {
		records, err := dao.GetDay(date)
		if err != nil {
			return nil, err
		}
		out = append(out, records...)
	}
	return out, nil
}

func (dao *RedisRentalsDAO) DeleteDay(date string) error {
	key := fmt.Sprintf(RENTALS_DAY_KEY_FORMAT, date)
	if err := dao.client.Del(key); err != nil {
		return fmt.Errorf("failed to delete rentals key %s: %w", key, err)
	}
	log.Printf("[RedisRentalsDAO] Deleted rentals for %s", date)
	return nil
}
