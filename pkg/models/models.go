package models

import "time"

type BatteryStatus string

const (
	BatteryStatusExcellent BatteryStatus = "excellent"
	BatteryStatusGood      BatteryStatus = "good"
	BatteryStatusFair      BatteryStatus = "fair"
	BatteryStatusPoor      BatteryStatus = "poor"
)

type UsageType string

const (
	UsageTypeLight    UsageType = "light"
	UsageTypeModerate UsageType = "moderate"
	UsageTypeHeavy    UsageType = "heavy"
)

func (u UsageType) Valid() bool {
	switch u {
	case UsageTypeLight, UsageTypeModerate, UsageTypeHeavy:
		return true
	}
	return false
}

type RecommendationType string

const (
	RecommendationTypeReplacement RecommendationType = "replacement"
	RecommendationTypeMaintenance RecommendationType = "maintenance"
	RecommendationTypeUsage       RecommendationType = "usage"
)

func (r RecommendationType) Valid() bool {
	switch r {
	case RecommendationTypeReplacement, RecommendationTypeMaintenance, RecommendationTypeUsage:
		return true
	}
	return false
}

// Battery is a tracked cell or pack. Static attributes are set on creation,
// the derived ones are revised by history readings, manual updates and ticks.
type Battery struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `json:"name"`
	SerialNumber    string    `gorm:"uniqueIndex" json:"serialNumber"`
	Manufacturer    string    `json:"manufacturer"`
	Model           string    `json:"model"`
	Chemistry       string    `json:"chemistry"`
	NominalVoltage  float64   `json:"nominalVoltage"`
	Location        string    `json:"location"`
	InitialCapacity float64   `json:"initialCapacity"`
	ExpectedCycles  int       `json:"expectedCycles"`
	InstallDate     time.Time `json:"installDate"`

	CurrentCapacity  float64       `json:"currentCapacity"`
	HealthPercentage float64       `json:"healthPercentage"`
	CycleCount       int           `json:"cycleCount"`
	DegradationRate  float64       `json:"degradationRate"`
	Status           BatteryStatus `gorm:"type:varchar(20);check:status IN ('excellent','good','fair','poor')" json:"status"`
	LastUpdated      time.Time     `json:"lastUpdated"`

	History         []BatteryHistoryEntry `gorm:"foreignKey:BatteryID" json:"-"`
	Usage           *UsagePattern         `gorm:"foreignKey:BatteryID" json:"-"`
	Recommendations []Recommendation      `gorm:"foreignKey:BatteryID" json:"-"`
}

// BatteryPatch carries a partial update; nil fields are left untouched.
type BatteryPatch struct {
	Name             *string  `json:"name"`
	Manufacturer     *string  `json:"manufacturer"`
	Model            *string  `json:"model"`
	Chemistry        *string  `json:"chemistry"`
	NominalVoltage   *float64 `json:"nominalVoltage"`
	Location         *string  `json:"location"`
	ExpectedCycles   *int     `json:"expectedCycles"`
	CurrentCapacity  *float64 `json:"currentCapacity"`
	HealthPercentage *float64 `json:"healthPercentage"`
	CycleCount       *int     `json:"cycleCount"`
	DegradationRate  *float64 `json:"degradationRate"`
}

type BatteryHistoryEntry struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	BatteryID        uint      `gorm:"index" json:"batteryId"`
	Timestamp        time.Time `gorm:"index" json:"timestamp"`
	Capacity         float64   `json:"capacity"`
	HealthPercentage float64   `json:"healthPercentage"`
	CycleCount       int       `json:"cycleCount"`
}

type UsagePattern struct {
	BatteryID               uint      `gorm:"primaryKey;autoIncrement:false" json:"batteryId"`
	ChargingFrequency       float64   `json:"chargingFrequency"`
	DischargeDepth          float64   `json:"dischargeDepth"`
	TemperatureExposure     float64   `json:"temperatureExposure"`
	UsageType               UsageType `gorm:"type:varchar(20);check:usage_type IN ('light','moderate','heavy')" json:"usageType"`
	EnvironmentalConditions string    `json:"environmentalConditions"`
	FastChargingPercentage  float64   `json:"fastChargingPercentage"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

type Recommendation struct {
	ID        uint               `gorm:"primaryKey" json:"id"`
	BatteryID uint               `gorm:"index" json:"batteryId"`
	Type      RecommendationType `gorm:"type:varchar(20);check:type IN ('replacement','maintenance','usage')" json:"type"`
	Message   string             `json:"message"`
	CreatedAt time.Time          `json:"createdAt"`
	Resolved  bool               `json:"resolved"`
}
