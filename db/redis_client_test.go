package db_test

import (
	"context"
	"testing"

	"bike-dashboard/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test the Set and Get methods for both MockRedisClient and GoRedisClient
func TestRedisClient_SetAndGet(t *testing.T) {
	tests := []struct {
		name   string
		client db.RedisClient
	}{
		{"MockRedisClient", db.NewMockRedisClient(context.Background())},
		// Replace with a real Redis client configuration for integration testing
		// {"GoRedisClient", db.NewGoRedisClient(context.Background(), realRedisClient)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.NoError(t, test.client.Set("test-key", "test-value"))

			retrieved, err := test.client.Get("test-key")
			require.NoError(t, err)
			assert.Equal(t, "test-value", retrieved)
		})
	}
}

func TestRedisClient_GetMissingKey(t *testing.T) {
	client := db.NewMockRedisClient(context.Background())

	_, err := client.Get("absent")

	assert.ErrorIs(t, err, db.ErrKeyNotFound)
}

func TestRedisClient_KeysAndDel(t *testing.T) {
	client := db.NewMockRedisClient(context.Background())
	require.NoError(t, client.Set("rentals_day_v1:2011-01-02", "[]"))
	require.NoError(t, client.Set("rentals_day_v1:2011-01-01", "[]"))
	require.NoError(t, client.Set("other:1", "x"))

	keys, err := client.Keys("rentals_day_v1:*")
	require.NoError(t, err)
	assert.Equal(t, []string{"rentals_day_v1:2011-01-01", "rentals_day_v1:2011-01-02"}, keys)

	require.NoError(t, client.Del("rentals_day_v1:2011-01-01"))
	keys, err = client.Keys("rentals_day_v1:*")
	require.NoError(t, err)
	assert.Equal(t, []string{"rentals_day_v1:2011-01-02"}, keys)
}

// Test Ping for both MockRedisClient and GoRedisClient
func TestRedisClient_Ping(t *testing.T) {
	tests := []struct {
		name   string
		client db.RedisClient
	}{
		{"MockRedisClient", db.NewMockRedisClient(context.Background())},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.NoError(t, test.client.Ping())
		})
	}
}
