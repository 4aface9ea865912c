package engine

import (
	"liyu1981.xyz/battery-fleet-service/pkg/common"
	"liyu1981.xyz/battery-fleet-service/pkg/models"
)

type Summary struct {
	Total                int                          `json:"total"`
	ByStatus             map[models.BatteryStatus]int `json:"byStatus"`
	AverageHealth        float64                      `json:"averageHealth"`
	TotalCurrentCapacity float64                      `json:"totalCurrentCapacity"`
	NeedsAttention       []uint                       `json:"needsAttention"`
}

// Summarize aggregates the dashboard overview figures of a fleet.
func Summarize(batteries []models.Battery) Summary {
	summary := Summary{
		ByStatus: map[models.BatteryStatus]int{
			models.BatteryStatusExcellent: 0,
			models.BatteryStatusGood:      0,
			models.BatteryStatusFair:      0,
			models.BatteryStatusPoor:      0,
		},
		NeedsAttention: []uint{},
	}

	var healthSum float64
	for _, b := range batteries {
		summary.Total++
		summary.ByStatus[b.Status]++
		summary.TotalCurrentCapacity += b.CurrentCapacity
		healthSum += b.HealthPercentage

		if b.Status == models.BatteryStatusPoor || b.HealthPercentage < ReplacementHealthThreshold {
			summary.NeedsAttention = append(summary.NeedsAttention, b.ID)
		}
	}

	if summary.Total > 0 {
		summary.AverageHealth = common.Round2(healthSum / float64(summary.Total))
	}
	return summary
}
