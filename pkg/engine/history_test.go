package engine

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liyu1981.xyz/battery-fleet-service/pkg/models"
)

func TestSynthesize_YearOfMonthlyReadings(t *testing.T) {
	profile := Profile{InitialCapacity: 10000, DegradationRate: 0.4, InstalledAt: baseTime}
	now := daysAfter(baseTime, 365)

	seq, err := Synthesize(profile, now, 30, 730)
	require.NoError(t, err)

	entries := slices.Collect(seq)
	require.Len(t, entries, 13)

	assert.Equal(t, baseTime, entries[0].Timestamp)
	assert.Equal(t, 100.0, entries[0].HealthPercentage)
	assert.Equal(t, 10000.0, entries[0].Capacity)
	assert.Equal(t, 0, entries[0].CycleCount)

	last := entries[len(entries)-1]
	assert.Equal(t, daysAfter(baseTime, 360), last.Timestamp)
	assert.Equal(t, 720, last.CycleCount)
	assert.InDelta(t, 100-0.4/30*360, last.HealthPercentage, 1e-9)

	for i := 1; i < len(entries); i++ {
		assert.True(t, entries[i].Timestamp.After(entries[i-1].Timestamp), "timestamps strictly increase at %d", i)
		assert.LessOrEqual(t, entries[i].HealthPercentage, entries[i-1].HealthPercentage)
		assert.GreaterOrEqual(t, entries[i].CycleCount, entries[i-1].CycleCount)
	}
}

func TestSynthesize_AlignedEndpointIncluded(t *testing.T) {
	profile := Profile{InitialCapacity: 1200, DegradationRate: 1, InstalledAt: baseTime}

	seq, err := Synthesize(profile, daysAfter(baseTime, 90), 30, 300)
	require.NoError(t, err)

	entries := slices.Collect(seq)
	require.Len(t, entries, 4)
	assert.Equal(t, daysAfter(baseTime, 90), entries[3].Timestamp)
	assert.Equal(t, 300, entries[3].CycleCount)
	assert.Equal(t, 100, entries[1].CycleCount)
}

func TestSynthesize_InstallEqualsNow(t *testing.T) {
	profile := Profile{InitialCapacity: 4200, DegradationRate: 5, InstalledAt: baseTime}

	for _, now := range []time.Time{baseTime, daysAfter(baseTime, -3)} {
		seq, err := Synthesize(profile, now, 30, 50)
		require.NoError(t, err)

		entries := slices.Collect(seq)
		require.Len(t, entries, 1)
		assert.Equal(t, baseTime, entries[0].Timestamp)
		assert.Equal(t, 100.0, entries[0].HealthPercentage)
		assert.Equal(t, 4200.0, entries[0].Capacity)
		assert.Equal(t, 0, entries[0].CycleCount)
	}
}

func TestSynthesize_Restartable(t *testing.T) {
	profile := Profile{InitialCapacity: 8000, DegradationRate: 0.8, InstalledAt: baseTime}

	seq, err := Synthesize(profile, daysAfter(baseTime, 200), 7, 120)
	require.NoError(t, err)

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)
	assert.Len(t, first, 29)
}

func TestSynthesize_StopsEarly(t *testing.T) {
	profile := Profile{InitialCapacity: 8000, DegradationRate: 0.8, InstalledAt: baseTime}

	seq, err := Synthesize(profile, daysAfter(baseTime, 3650), 1, 1000)
	require.NoError(t, err)

	var taken []models.BatteryHistoryEntry
	for entry := range seq {
		taken = append(taken, entry)
		if len(taken) == 3 {
			break
		}
	}
	assert.Len(t, taken, 3)
	assert.Equal(t, daysAfter(baseTime, 2), taken[2].Timestamp)
}

func TestSynthesize_InvalidInput(t *testing.T) {
	valid := Profile{InitialCapacity: 1000, DegradationRate: 1, InstalledAt: baseTime}
	now := daysAfter(baseTime, 100)

	_, err := Synthesize(valid, now, 0, 10)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Synthesize(valid, now, -7, 10)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Synthesize(valid, now, maxIntervalDays+1, 10)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Synthesize(valid, now, 30, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Synthesize(Profile{InitialCapacity: 0, InstalledAt: baseTime}, now, 30, 10)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
