package engine

import (
	"fmt"
	"math"
	"time"

	"liyu1981.xyz/battery-fleet-service/pkg/common"
	"liyu1981.xyz/battery-fleet-service/pkg/models"
)

const (
	daysPerMonth = 30.0
	day          = 24 * time.Hour
)

// Profile is the static input of the degradation model.
type Profile struct {
	InitialCapacity float64
	// DegradationRate is the linear health loss in percentage points per month.
	DegradationRate float64
	InstalledAt     time.Time
}

type Reading struct {
	Capacity         float64
	HealthPercentage float64
}

func ProfileOf(b models.Battery) Profile {
	return Profile{
		InitialCapacity: b.InitialCapacity,
		DegradationRate: b.DegradationRate,
		InstalledAt:     b.InstallDate,
	}
}

func (p Profile) validate() error {
	if !common.IsFinite(p.InitialCapacity, p.DegradationRate) {
		return fmt.Errorf("%w: non-finite profile (capacity=%v, rate=%v)", ErrInvalidInput, p.InitialCapacity, p.DegradationRate)
	}
	if p.InitialCapacity <= 0 {
		return fmt.Errorf("%w: initial capacity must be positive, got %v", ErrInvalidInput, p.InitialCapacity)
	}
	if p.DegradationRate < 0 {
		return fmt.Errorf("%w: degradation rate must not be negative, got %v", ErrInvalidInput, p.DegradationRate)
	}
	return nil
}

// ElapsedDays counts whole days between from and to, never negative.
func ElapsedDays(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	return int(to.Sub(from) / day)
}

// CapacityAt extrapolates the linear degradation of p up to at.
func CapacityAt(p Profile, at time.Time) (Reading, error) {
	if err := p.validate(); err != nil {
		return Reading{}, err
	}

	days := float64(ElapsedDays(p.InstalledAt, at))
	health := math.Max(0, 100-p.DegradationRate/daysPerMonth*days)

	return Reading{
		Capacity:         math.Round(p.InitialCapacity * health / 100),
		HealthPercentage: health,
	}, nil
}

// Projection is a reading together with the tier it classifies to.
type Projection struct {
	At               time.Time            `json:"at"`
	Capacity         float64              `json:"capacity"`
	HealthPercentage float64              `json:"healthPercentage"`
	Status           models.BatteryStatus `json:"status"`
}

func Project(b models.Battery, at time.Time) (Projection, error) {
	reading, err := CapacityAt(ProfileOf(b), at)
	if err != nil {
		return Projection{}, err
	}

	status, err := Classify(reading.HealthPercentage)
	if err != nil {
		return Projection{}, err
	}

	return Projection{
		At:               at,
		Capacity:         reading.Capacity,
		HealthPercentage: reading.HealthPercentage,
		Status:           status,
	}, nil
}
