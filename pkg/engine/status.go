// Package engine holds the battery degradation and recommendation computations.
// Everything here is pure: no I/O, no logging, no shared state.
package engine

import (
	"errors"
	"fmt"
	"math"

	"liyu1981.xyz/battery-fleet-service/pkg/common"
	"liyu1981.xyz/battery-fleet-service/pkg/models"
)

var ErrInvalidInput = errors.New("invalid input")

// Inclusive lower bounds of each status tier, best first.
const (
	ExcellentThreshold = 90.0
	GoodThreshold      = 80.0
	FairThreshold      = 60.0
)

// Classify maps a health percentage in [0,100] to its status tier.
// It does not clamp: out of range or non-finite values are rejected.
func Classify(health float64) (models.BatteryStatus, error) {
	if !common.IsFinite(health) || health < 0 || health > 100 {
		return "", fmt.Errorf("%w: health percentage %v outside [0,100]", ErrInvalidInput, health)
	}

	switch {
	case health >= ExcellentThreshold:
		return models.BatteryStatusExcellent, nil
	case health >= GoodThreshold:
		return models.BatteryStatusGood, nil
	case health >= FairThreshold:
		return models.BatteryStatusFair, nil
	default:
		return models.BatteryStatusPoor, nil
	}
}

// ClampHealth brings a health value into [0,100]; NaN becomes 0.
func ClampHealth(health float64) float64 {
	switch {
	case math.IsNaN(health), health < 0:
		return 0
	case health > 100:
		return 100
	}
	return health
}
