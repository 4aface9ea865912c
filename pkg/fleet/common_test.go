package fleet

import (
	"bufio"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"liyu1981.xyz/battery-fleet-service/pkg/db"
	"liyu1981.xyz/battery-fleet-service/pkg/fleet/mocks"
	"liyu1981.xyz/battery-fleet-service/pkg/models"
)

func GetMockFleetWithMemorySqliteDialector(t *testing.T, useMockRecommendation bool) (
	*gomock.Controller,
	*Fleet,
	*mocks.MockIRecommendation,
) {
	ctrl := gomock.NewController(t)

	mockIRecommendation := mocks.NewMockIRecommendation(ctrl)
	dialector := db.UseMemorySqliteDialector()
	dbInstance := db.GetInstance(dialector) // ensure migrations
	fleetInstance := (&Fleet{Db: *dbInstance}).WithDefaultServices()

	if useMockRecommendation {
		fleetInstance.WithServices(ServiceOpts{
			Recommendation: mockIRecommendation,
		})
	}

	return ctrl, fleetInstance, mockIRecommendation
}

// fixedClock pins the fleet clock to t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// createTestBattery stores a battery with a unique serial number.
func createTestBattery(t *testing.T, f *Fleet, installDate time.Time, rate float64) *models.Battery {
	t.Helper()

	battery, err := f.Battery.CreateBattery(&models.Battery{
		Name:            "Pack " + uuid.NewString()[:8],
		SerialNumber:    uuid.NewString(),
		Manufacturer:    "Acme",
		Chemistry:       "LFP",
		NominalVoltage:  48,
		InitialCapacity: 10000,
		ExpectedCycles:  1000,
		InstallDate:     installDate,
		DegradationRate: rate,
	})
	require.NoError(t, err)
	return battery
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
