package dateutil

import (
	"testing"
	"time"

	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/stretchr/testify/require"
)

func Test_BucketByTimeframe(t *testing.T) {
	at := time.Date(2024, time.March, 6, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		timeframe entity.Timeframe
		at        time.Time
		expected  string
	}{
		{
			name:      "hourly",
			timeframe: entity.TimeframeHourly,
			at:        at,
			expected:  "2024-03-06T14",
		},
		{
			name:      "daily",
			timeframe: entity.TimeframeDaily,
			at:        at,
			expected:  "2024-03-06",
		},
		{
			name:      "weekly",
			timeframe: entity.TimeframeWeekly,
			at:        at,
			expected:  "2024-W10",
		},
		{
			name:      "monthly",
			timeframe: entity.TimeframeMonthly,
			at:        at,
			expected:  "2024-03",
		},
		{
			name:      "weekly across the year boundary",
			timeframe: entity.TimeframeWeekly,
			at:        time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
			expected:  "2025-W01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, err := BucketByTimeframe(tt.at, tt.timeframe)
			require.NoError(t, err)
			require.Equal(t, tt.expected, bucket)
		})
	}
}

func Test_BucketByTimeframe_sameBucket(t *testing.T) {
	morning := time.Date(2024, time.March, 6, 0, 1, 0, 0, time.UTC)
	night := time.Date(2024, time.March, 6, 23, 59, 0, 0, time.UTC)
	nextDay := time.Date(2024, time.March, 7, 0, 1, 0, 0, time.UTC)

	b1, err := BucketByTimeframe(morning, entity.TimeframeDaily)
	require.NoError(t, err)
	b2, err := BucketByTimeframe(night, entity.TimeframeDaily)
	require.NoError(t, err)
	b3, err := BucketByTimeframe(nextDay, entity.TimeframeDaily)
	require.NoError(t, err)

	require.Equal(t, b1, b2)
	require.NotEqual(t, b1, b3)
}

func Test_BucketByTimeframe_invalid(t *testing.T) {
	_, err := BucketByTimeframe(time.Now(), entity.Timeframe("quarterly"))
	require.Error(t, err)

	_, err = BucketByTimeframe(time.Now(), entity.TimeframeNone)
	require.Error(t, err)
}

func Test_NextTimeOfDay(t *testing.T) {
	now := time.Date(2024, time.March, 6, 14, 30, 0, 0, time.UTC)

	next := NextTimeOfDay(now, 18, 0)
	require.Equal(t, time.Date(2024, time.March, 6, 18, 0, 0, 0, time.UTC), next)

	next = NextTimeOfDay(now, 6, 0)
	require.Equal(t, time.Date(2024, time.March, 7, 6, 0, 0, 0, time.UTC), next)
}
