package services

import (
	"fmt"
	"log"

	"bike-dashboard/dao/redis"
	"bike-dashboard/util"

	"github.com/go-gota/gota/dataframe"
)

// RentalsSource loads the full rentals table.
type RentalsSource interface {
	Name() string
	Load() (dataframe.DataFrame, error)
}

// FileRentalsSource reads the dataset from a CSV or XLSX file.
type FileRentalsSource struct {
	Path  string
	Sheet string
}

func NewFileRentalsSource(path, sheet string) *FileRentalsSource {
	return &FileRentalsSource{Path: path, Sheet: sheet}
}

func (s *FileRentalsSource) Name() string { return "file:" + s.Path }

func (s *FileRentalsSource) Load() (dataframe.DataFrame, error) {
	return util.ReadRentalsTable(s.Path, s.Sheet)
}

// RedisRentalsSource reads the dataset from the Redis rentals store.
type RedisRentalsSource struct {
	rentalsDao *redis.RedisRentalsDAO
}

func NewRedisRentalsSource(rentalsDao *redis.RedisRentalsDAO) *RedisRentalsSource {
	return &RedisRentalsSource{rentalsDao: rentalsDao}
}

func (s *RedisRentalsSource) Name() string { return "redis" }

func (s *RedisRentalsSource) Load() (dataframe.DataFrame, error) {
	records, err := s.rentalsDao.GetAllRecords()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to read rentals from redis: %w", err)
	}
	if len(records) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("redis rentals store is empty")
	}
	return util.RecordsToDataFrame(records), nil
}

// SeedRentalsStore imports the file dataset into Redis when the store holds no days yet.
func SeedRentalsStore(rentalsDao *redis.RedisRentalsDAO, file *FileRentalsSource) error {
	dates, err := rentalsDao.ListDates()
	if err != nil {
		return err
	}
	if len(dates) > 0 {
		log.Printf("[RentalsSource] Redis store already holds %d days, skipping seed", len(dates))
		return nil
	}

	df, err := file.Load()
	if err != nil {
		return fmt.Errorf("failed to load seed dataset: %w", err)
	}
	records, err := util.DataFrameToRecords(df)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("seed dataset %s has no rows", file.Path)
	}
	days, err := rentalsDao.ImportRecords(records)
	if err != nil {
		return fmt.Errorf("failed to seed redis store: %w", err)
	}
	log.Printf("[RentalsSource] Seeded redis store from %s with %d days, first record %s",
		file.Path, days, records[0].ToString())
	return nil
}
