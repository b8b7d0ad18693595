package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvery(t *testing.T) {
	s := Every(30 * time.Minute)
	from := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, from.Add(30*time.Minute), s.Next(from))
}

func TestDaily_SameDay(t *testing.T) {
	s := Daily(9, 30)
	from := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), s.Next(from))
}

func TestDaily_NextDay(t *testing.T) {
	s := Daily(9, 30)
	from := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC), s.Next(from))
}

func TestWeekly_LaterThisWeek(t *testing.T) {
	s := Weekly(time.Saturday, 9, 0)
	// March 1st 2024 is a Friday.
	from := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC), s.Next(from))
}

func TestWeekly_WrapsToNextWeek(t *testing.T) {
	s := Weekly(time.Thursday, 9, 0)
	from := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 3, 7, 9, 0, 0, 0, time.UTC), s.Next(from))
}

func TestWeekly_SameDayTimePassed(t *testing.T) {
	s := Weekly(time.Friday, 9, 0)
	from := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC), s.Next(from))
}

func TestCron(t *testing.T) {
	s, err := Cron("0 3 * * *")
	require.NoError(t, err)

	from := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 2, 3, 0, 0, 0, time.UTC), s.Next(from))
}

func TestCron_Invalid(t *testing.T) {
	_, err := Cron("not a cron expression")
	assert.Error(t, err)
}
