package db

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"liyu1981.xyz/battery-fleet-service/pkg/common"
	constant "liyu1981.xyz/battery-fleet-service/pkg/common"
	"liyu1981.xyz/battery-fleet-service/pkg/models"
)

// TestFileDatabaseRoundTrip stores a battery with its owned records in a sqlite
// file picked through FLEET_DB_PATH and reads them back.
func TestFileDatabaseRoundTrip(t *testing.T) {
	common.SetTestLoggerNop()

	if os.Getenv(constant.EnvKeyRunIntegrationTests) != "true" {
		t.Skip("Skipping integration test: RUN_INTEGRATION_TESTS environment variable not set")
	}

	testPath := filepath.Join(t.TempDir(), "fleet-test.db")
	t.Setenv(constant.EnvKeyFleetDbPath, testPath)

	conn, err := Open(UseSqliteDialector(), io.Discard)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	defer sqlDB.Close()

	if err := Migrate(conn); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	if _, err := os.Stat(testPath); os.IsNotExist(err) {
		t.Fatalf("Expected database file to be created at %s", testPath)
	}

	for _, table := range []any{&models.Battery{}, &models.BatteryHistoryEntry{}, &models.UsagePattern{}, &models.Recommendation{}} {
		if !conn.Migrator().HasTable(table) {
			t.Errorf("Expected table for %T to exist", table)
		}
	}

	installed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	battery := models.Battery{
		Name:             "Pack",
		SerialNumber:     "INT-0001",
		InitialCapacity:  10000,
		ExpectedCycles:   1000,
		InstallDate:      installed,
		CurrentCapacity:  9000,
		HealthPercentage: 90,
		Status:           models.BatteryStatusExcellent,
	}
	if err := conn.Create(&battery).Error; err != nil {
		t.Fatalf("Failed to create battery: %v", err)
	}

	if err := conn.Create(&models.BatteryHistoryEntry{
		BatteryID: battery.ID, Timestamp: installed.AddDate(0, 6, 0), Capacity: 9000, HealthPercentage: 90, CycleCount: 150,
	}).Error; err != nil {
		t.Fatalf("Failed to create history entry: %v", err)
	}
	if err := conn.Create(&models.UsagePattern{BatteryID: battery.ID, UsageType: models.UsageTypeHeavy}).Error; err != nil {
		t.Fatalf("Failed to create usage pattern: %v", err)
	}
	if err := conn.Create(&models.Recommendation{
		BatteryID: battery.ID, Type: models.RecommendationTypeUsage, Message: "Reduce fast charging",
	}).Error; err != nil {
		t.Fatalf("Failed to create recommendation: %v", err)
	}

	var loaded models.Battery
	err = conn.Preload("History").Preload("Usage").Preload("Recommendations").First(&loaded, battery.ID).Error
	if err != nil {
		t.Fatalf("Failed to load battery: %v", err)
	}
	if loaded.SerialNumber != "INT-0001" || !loaded.InstallDate.Equal(installed) {
		t.Errorf("Unexpected battery after round trip: %+v", loaded)
	}
	if len(loaded.History) != 1 || loaded.History[0].CycleCount != 150 {
		t.Errorf("Expected one history entry with 150 cycles, got %+v", loaded.History)
	}
	if loaded.Usage == nil || loaded.Usage.UsageType != models.UsageTypeHeavy {
		t.Errorf("Expected heavy usage pattern, got %+v", loaded.Usage)
	}
	if len(loaded.Recommendations) != 1 || loaded.Recommendations[0].Resolved {
		t.Errorf("Expected one open recommendation, got %+v", loaded.Recommendations)
	}

	// the status column only accepts the four tiers
	bad := battery
	bad.ID = 0
	bad.SerialNumber = "INT-0002"
	bad.Status = "optimal"
	if err := conn.Create(&bad).Error; err == nil {
		t.Error("Expected the status check constraint to reject an unknown tier")
	}
}
