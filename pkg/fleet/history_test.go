package fleet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"liyu1981.xyz/battery-fleet-service/pkg/common"
	"liyu1981.xyz/battery-fleet-service/pkg/models"
	_ "liyu1981.xyz/battery-fleet-service/pkg/testing"
)

func TestAppendHistory(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, fleetObj, mockIRecommendation := GetMockFleetWithMemorySqliteDialector(t, true)
	defer ctrl.Finish()

	install := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	battery := createTestBattery(t, fleetObj, install, 1)

	// Expect recommendations to be evaluated for the battery
	mockIRecommendation.
		EXPECT().
		EvaluateAndStore(gomock.Eq(battery.ID), gomock.Any()).
		Return([]models.Recommendation{}, nil).
		Times(1)

	entry, err := fleetObj.History.AppendHistory(battery.ID, &models.BatteryHistoryEntry{
		Timestamp:        install.AddDate(0, 2, 0),
		Capacity:         8500,
		HealthPercentage: 85,
		CycleCount:       120,
	})
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)
	assert.Equal(t, battery.ID, entry.BatteryID)

	saved, err := fleetObj.Battery.GetBattery(battery.ID)
	require.NoError(t, err)
	assert.Equal(t, 85.0, saved.HealthPercentage)
	assert.Equal(t, 8500.0, saved.CurrentCapacity)
	assert.Equal(t, 120, saved.CycleCount)
	assert.Equal(t, models.BatteryStatusGood, saved.Status)
}

func TestAppendHistory_ClampsHealth(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, fleetObj, mockIRecommendation := GetMockFleetWithMemorySqliteDialector(t, true)
	defer ctrl.Finish()

	battery := createTestBattery(t, fleetObj, time.Now(), 1)

	mockIRecommendation.EXPECT().EvaluateAndStore(battery.ID, gomock.Any()).Return(nil, nil).Times(1)

	entry, err := fleetObj.History.AppendHistory(battery.ID, &models.BatteryHistoryEntry{
		Timestamp:        time.Now().UTC(),
		Capacity:         10000,
		HealthPercentage: 140,
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, entry.HealthPercentage)
}

func TestAppendHistory_Monotonic(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, fleetObj, mockIRecommendation := GetMockFleetWithMemorySqliteDialector(t, true)
	defer ctrl.Finish()

	install := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	battery := createTestBattery(t, fleetObj, install, 1)

	// Only the newest reading triggers an evaluation
	mockIRecommendation.EXPECT().EvaluateAndStore(battery.ID, gomock.Any()).Return(nil, nil).Times(1)

	_, err := fleetObj.History.AppendHistory(battery.ID, &models.BatteryHistoryEntry{
		Timestamp: install.AddDate(0, 6, 0), Capacity: 9000, HealthPercentage: 90, CycleCount: 200,
	})
	require.NoError(t, err)

	// health may not recover later on
	_, err = fleetObj.History.AppendHistory(battery.ID, &models.BatteryHistoryEntry{
		Timestamp: install.AddDate(0, 7, 0), Capacity: 9500, HealthPercentage: 95, CycleCount: 220,
	})
	assert.ErrorIs(t, err, ErrNonMonotonic)

	// cycles may not go backwards
	_, err = fleetObj.History.AppendHistory(battery.ID, &models.BatteryHistoryEntry{
		Timestamp: install.AddDate(0, 7, 0), Capacity: 8900, HealthPercentage: 89, CycleCount: 150,
	})
	assert.ErrorIs(t, err, ErrNonMonotonic)

	// an earlier reading must not be worse than a later one
	_, err = fleetObj.History.AppendHistory(battery.ID, &models.BatteryHistoryEntry{
		Timestamp: install.AddDate(0, 3, 0), Capacity: 8000, HealthPercentage: 80, CycleCount: 100,
	})
	assert.ErrorIs(t, err, ErrNonMonotonic)

	// a consistent backfill is accepted and leaves the battery alone
	_, err = fleetObj.History.AppendHistory(battery.ID, &models.BatteryHistoryEntry{
		Timestamp: install.AddDate(0, 3, 0), Capacity: 9500, HealthPercentage: 95, CycleCount: 100,
	})
	require.NoError(t, err)

	saved, err := fleetObj.Battery.GetBattery(battery.ID)
	require.NoError(t, err)
	assert.Equal(t, 90.0, saved.HealthPercentage)
	assert.Equal(t, 200, saved.CycleCount)

	entries, err := fleetObj.History.ListHistory(battery.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 95.0, entries[0].HealthPercentage)
	assert.Equal(t, 90.0, entries[1].HealthPercentage)
}

func TestAppendHistory_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, fleetObj, _ := GetMockFleetWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	input := &models.BatteryHistoryEntry{
		Timestamp:        time.Now().UTC(),
		Capacity:         9000,
		HealthPercentage: 90,
		CycleCount:       10,
	}

	_, err := fleetObj.History.AppendHistory(999999, input)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = fleetObj.History.AppendHistory(999999, &models.BatteryHistoryEntry{Capacity: -1, CycleCount: -1})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Problems, 2)

	battery := createTestBattery(t, fleetObj, time.Now().AddDate(0, -1, 0), 1)

	// force the recommendation service to be nil to cause it not being available
	fleetObj.Recommendation = nil

	entry, err := fleetObj.History.AppendHistory(battery.ID, input)
	require.EqualError(t, err, "recommendation service not available")
	require.NotNil(t, entry)
	assert.NotZero(t, entry.ID)
}

func TestAppendHistory_StoresRecommendations(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, fleetObj, _ := GetMockFleetWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	battery := createTestBattery(t, fleetObj, time.Now().AddDate(-3, 0, 0), 1)

	_, err := fleetObj.History.AppendHistory(battery.ID, &models.BatteryHistoryEntry{
		Timestamp: time.Now().UTC().Add(-time.Hour), Capacity: 4500, HealthPercentage: 45, CycleCount: 800,
	})
	require.NoError(t, err)

	_, err = fleetObj.History.AppendHistory(battery.ID, &models.BatteryHistoryEntry{
		Timestamp: time.Now().UTC(), Capacity: 4400, HealthPercentage: 44, CycleCount: 810,
	})
	require.NoError(t, err)

	recommendations, err := fleetObj.Recommendation.ListRecommendations(battery.ID)
	require.NoError(t, err)
	require.Len(t, recommendations, 2)

	types := map[models.RecommendationType]bool{}
	for _, r := range recommendations {
		types[r.Type] = true
		assert.False(t, r.Resolved)
	}
	assert.True(t, types[models.RecommendationTypeReplacement])
	assert.True(t, types[models.RecommendationTypeMaintenance])

	saved, err := fleetObj.Battery.GetBattery(battery.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BatteryStatusPoor, saved.Status)
}

func TestListHistoryInRange(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, fleetObj, _ := GetMockFleetWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	install := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	battery := createTestBattery(t, fleetObj, install, 1)

	entries, err := fleetObj.History.SynthesizeHistory(battery.ID, install.AddDate(0, 0, 70), 7)
	require.NoError(t, err)
	require.Len(t, entries, 11)

	inRange, err := fleetObj.History.ListHistoryInRange(battery.ID, install.AddDate(0, 0, 14), install.AddDate(0, 0, 28))
	require.NoError(t, err)
	require.Len(t, inRange, 3)
	assert.True(t, install.AddDate(0, 0, 14).Equal(inRange[0].Timestamp))
	assert.True(t, install.AddDate(0, 0, 28).Equal(inRange[2].Timestamp))

	openEnded, err := fleetObj.History.ListHistoryInRange(battery.ID, install.AddDate(0, 0, 60), time.Time{})
	require.NoError(t, err)
	assert.Len(t, openEnded, 2)

	all, err := fleetObj.History.ListHistory(battery.ID)
	require.NoError(t, err)
	assert.Len(t, all, 11)
	for i := 1; i < len(all); i++ {
		assert.True(t, all[i-1].Timestamp.Before(all[i].Timestamp))
	}

	_, err = fleetObj.History.ListHistory(999999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSynthesizeHistory(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, fleetObj, _ := GetMockFleetWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	install := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	battery := createTestBattery(t, fleetObj, install, 2)

	cycles := 600
	_, err := fleetObj.Battery.UpdateBattery(battery.ID, &models.BatteryPatch{CycleCount: &cycles})
	require.NoError(t, err)

	entries, err := fleetObj.History.SynthesizeHistory(battery.ID, now, 30)
	require.NoError(t, err)
	require.Len(t, entries, 13)

	first, last := entries[0], entries[len(entries)-1]
	assert.Equal(t, 100.0, first.HealthPercentage)
	assert.Equal(t, 0, first.CycleCount)
	assert.InDelta(t, 76.0, last.HealthPercentage, 1e-9)
	assert.Equal(t, 7600.0, last.Capacity)

	saved, err := fleetObj.Battery.GetBattery(battery.ID)
	require.NoError(t, err)
	assert.InDelta(t, 76.0, saved.HealthPercentage, 1e-9)
	assert.Equal(t, models.BatteryStatusFair, saved.Status)
	assert.Equal(t, 600, saved.CycleCount)

	_, err = fleetObj.History.SynthesizeHistory(battery.ID, now, 30)
	assert.ErrorIs(t, err, ErrHistoryExists)

	_, err = fleetObj.History.SynthesizeHistory(999999, now, 30)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppendHistory_CapacityAboveInitial(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, fleetObj, mockIRecommendation := GetMockFleetWithMemorySqliteDialector(t, true)
	defer ctrl.Finish()

	battery := createTestBattery(t, fleetObj, time.Now().AddDate(0, -1, 0), 1)

	mockIRecommendation.EXPECT().EvaluateAndStore(gomock.Any(), gomock.Any()).Times(0)

	_, err := fleetObj.History.AppendHistory(battery.ID, &models.BatteryHistoryEntry{
		Timestamp:        time.Now().UTC(),
		Capacity:         50000,
		HealthPercentage: 99,
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "capacity", verr.Problems[0].Field)

	saved, err := fleetObj.Battery.GetBattery(battery.ID)
	require.NoError(t, err)
	assert.Equal(t, 10000.0, saved.CurrentCapacity)

	entries, err := fleetObj.History.ListHistory(battery.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSynthesizeHistory_KeepsDegradedBattery(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, fleetObj, _ := GetMockFleetWithMemorySqliteDialector(t, false)
	defer ctrl.Finish()

	install := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	battery := createTestBattery(t, fleetObj, install, 0)

	health := 40.0
	patched, err := fleetObj.Battery.UpdateBattery(battery.ID, &models.BatteryPatch{HealthPercentage: &health})
	require.NoError(t, err)
	require.Equal(t, models.BatteryStatusPoor, patched.Status)

	entries, err := fleetObj.History.SynthesizeHistory(battery.ID, now, 30)
	require.NoError(t, err)
	require.Len(t, entries, 13)
	assert.Equal(t, 100.0, entries[0].HealthPercentage)
	assert.Equal(t, 40.0, entries[len(entries)-1].HealthPercentage)

	saved, err := fleetObj.Battery.GetBattery(battery.ID)
	require.NoError(t, err)
	assert.Equal(t, 40.0, saved.HealthPercentage)
	assert.Equal(t, models.BatteryStatusPoor, saved.Status)

	recommendations, err := fleetObj.Recommendation.ListRecommendations(battery.ID)
	require.NoError(t, err)
	require.Len(t, recommendations, 1)
	assert.Equal(t, models.RecommendationTypeReplacement, recommendations[0].Type)
	assert.False(t, recommendations[0].Resolved)
}
