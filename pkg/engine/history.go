package engine

import (
	"fmt"
	"iter"
	"math"
	"time"

	"liyu1981.xyz/battery-fleet-service/pkg/models"
)

// A century of days keeps interval*24h well inside time.Duration.
const maxIntervalDays = 36500

// Synthesize backfills readings every intervalDays from install up to now.
// Both endpoints are included when they align with the interval; an unaligned
// now is not appended. Cycle counts grow linearly from 0 at install to
// observedCycles at now.
//
// The returned sequence holds no state: ranging over it again regenerates the
// same entries.
func Synthesize(p Profile, now time.Time, intervalDays int, observedCycles int) (iter.Seq[models.BatteryHistoryEntry], error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if intervalDays <= 0 || intervalDays > maxIntervalDays {
		return nil, fmt.Errorf("%w: interval must be within 1..%d days, got %d", ErrInvalidInput, maxIntervalDays, intervalDays)
	}
	if observedCycles < 0 {
		return nil, fmt.Errorf("%w: observed cycle count must not be negative, got %d", ErrInvalidInput, observedCycles)
	}

	if !now.After(p.InstalledAt) {
		return func(yield func(models.BatteryHistoryEntry) bool) {
			yield(models.BatteryHistoryEntry{
				Timestamp:        p.InstalledAt,
				Capacity:         p.InitialCapacity,
				HealthPercentage: 100,
				CycleCount:       0,
			})
		}, nil
	}

	total := float64(now.Sub(p.InstalledAt))
	step := time.Duration(intervalDays) * day

	return func(yield func(models.BatteryHistoryEntry) bool) {
		for at := p.InstalledAt; !at.After(now); at = at.Add(step) {
			// p was validated above, CapacityAt cannot fail
			reading, _ := CapacityAt(p, at)
			fraction := float64(at.Sub(p.InstalledAt)) / total

			entry := models.BatteryHistoryEntry{
				Timestamp:        at,
				Capacity:         reading.Capacity,
				HealthPercentage: reading.HealthPercentage,
				CycleCount:       int(math.Round(fraction * float64(observedCycles))),
			}
			if !yield(entry) {
				return
			}
		}
	}, nil
}
