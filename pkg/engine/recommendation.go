package engine

import (
	"fmt"
	"time"

	"liyu1981.xyz/battery-fleet-service/pkg/models"
)

const (
	ReplacementHealthThreshold   = 50.0
	MaintenanceCycleRatio        = 0.7
	UsageDischargeDepthThreshold = 70.0
	UsageFastChargingThreshold   = 50.0
	replacementMessageTemplate   = "Battery health at %.1f%% is below %.0f%%. Schedule a replacement."
	maintenanceMessageTemplate   = "Cycle count %d exceeds %.0f%% of the expected %d cycles. Plan maintenance, end of life is approaching."
	usageAdvisoryMessageTemplate = "Heavy use with %.0f%% discharge depth and %.0f%% fast charging accelerates wear. Reduce discharge depth and fast charging."
)

type evaluateOptions struct {
	createdAt *time.Time
	resolved  bool
}

type EvaluateOption func(*evaluateOptions)

// WithCreatedAt stamps drafts with t instead of the evaluation time.
func WithCreatedAt(t time.Time) EvaluateOption {
	return func(o *evaluateOptions) {
		o.createdAt = &t
	}
}

func WithResolved(resolved bool) EvaluateOption {
	return func(o *evaluateOptions) {
		o.resolved = resolved
	}
}

type rule struct {
	kind  models.RecommendationType
	check func(b models.Battery, usage *models.UsagePattern) (string, bool)
}

// Declaration order is output order.
var rules = []rule{
	{
		kind: models.RecommendationTypeReplacement,
		check: func(b models.Battery, _ *models.UsagePattern) (string, bool) {
			if b.HealthPercentage >= ReplacementHealthThreshold {
				return "", false
			}
			return fmt.Sprintf(replacementMessageTemplate, b.HealthPercentage, ReplacementHealthThreshold), true
		},
	},
	{
		kind: models.RecommendationTypeMaintenance,
		check: func(b models.Battery, _ *models.UsagePattern) (string, bool) {
			if float64(b.CycleCount) <= MaintenanceCycleRatio*float64(b.ExpectedCycles) {
				return "", false
			}
			return fmt.Sprintf(maintenanceMessageTemplate, b.CycleCount, MaintenanceCycleRatio*100, b.ExpectedCycles), true
		},
	},
	{
		kind: models.RecommendationTypeUsage,
		check: func(_ models.Battery, usage *models.UsagePattern) (string, bool) {
			if usage == nil ||
				usage.DischargeDepth <= UsageDischargeDepthThreshold ||
				usage.UsageType != models.UsageTypeHeavy ||
				usage.FastChargingPercentage <= UsageFastChargingThreshold {
				return "", false
			}
			return fmt.Sprintf(usageAdvisoryMessageTemplate, usage.DischargeDepth, usage.FastChargingPercentage), true
		},
	},
}

// Evaluate runs every rule against b and its usage pattern (which may be nil)
// and returns one unsaved recommendation per rule that fires.
func Evaluate(b models.Battery, usage *models.UsagePattern, now time.Time, opts ...EvaluateOption) []models.Recommendation {
	o := evaluateOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	createdAt := now
	if o.createdAt != nil {
		createdAt = *o.createdAt
	}

	drafts := []models.Recommendation{}
	for _, r := range rules {
		message, fired := r.check(b, usage)
		if !fired {
			continue
		}
		drafts = append(drafts, models.Recommendation{
			BatteryID: b.ID,
			Type:      r.kind,
			Message:   message,
			CreatedAt: createdAt,
			Resolved:  o.resolved,
		})
	}
	return drafts
}
