package fleet

import (
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/battery-fleet-service/pkg/common"
	"liyu1981.xyz/battery-fleet-service/pkg/engine"
	"liyu1981.xyz/battery-fleet-service/pkg/events"
	"liyu1981.xyz/battery-fleet-service/pkg/models"
)

// tickBattery projects one battery at now and records the projection as its
// newest reading. A reading never improves on the previous one. It reports
// false when the battery has readings later than now and was left alone.
func (f *Fleet) tickBattery(id uint, now time.Time) (*models.Battery, bool, error) {
	unlock := f.lockBattery(id)
	defer unlock()

	var ticked *models.Battery
	err := f.Db.Conn.Transaction(func(tx *gorm.DB) error {
		battery, err := f.getBattery(tx, id)
		if err != nil {
			return err
		}

		projection, err := engine.Project(*battery, now)
		if err != nil {
			return err
		}

		prev, next, err := neighbours(tx, id, now)
		if err != nil {
			return err
		}
		if next != nil {
			return nil
		}

		entry := models.BatteryHistoryEntry{
			BatteryID:        id,
			Timestamp:        now,
			Capacity:         math.Min(projection.Capacity, battery.CurrentCapacity),
			HealthPercentage: math.Min(projection.HealthPercentage, battery.HealthPercentage),
			CycleCount:       battery.CycleCount,
		}
		if prev != nil {
			entry.Capacity = math.Min(entry.Capacity, prev.Capacity)
			entry.HealthPercentage = math.Min(entry.HealthPercentage, prev.HealthPercentage)
			entry.CycleCount = max(entry.CycleCount, prev.CycleCount)
		}

		if _, err := f.appendEntry(tx, battery, &entry); err != nil {
			return err
		}
		ticked = battery
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return ticked, ticked != nil, nil
}

// tick advances every battery to now. Batteries whose profile cannot be
// projected are logged and skipped, any other failure aborts the tick.
func (f *Fleet) tick(now time.Time) ([]models.Battery, error) {
	logger := f.logger(common.LoggerCategoryFleetSimulation)
	now = now.UTC()

	var ids []uint
	if err := f.Db.Conn.Model(&models.Battery{}).Order("id asc").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}

	logger.Info("Received tick", zap.Time("now", now), zap.Int("batteries", len(ids)))

	updated := []models.Battery{}
	for _, id := range ids {
		battery, ok, err := f.tickBattery(id, now)
		switch {
		case errors.Is(err, engine.ErrInvalidInput), errors.Is(err, ErrNotFound):
			logger.Warn("Skipped battery in tick", zap.Uint("battery_id", id), zap.Error(err))
			continue
		case err != nil:
			return updated, err
		case !ok:
			logger.Info("Battery has later readings, skipped", zap.Uint("battery_id", id))
			continue
		}

		updated = append(updated, *battery)
		f.publish(events.TypeBatteryUpdated, id, battery)

		if f.Recommendation != nil {
			if _, err := f.Recommendation.EvaluateAndStore(id, now); err != nil {
				return updated, err
			}
		}
	}

	logger.Info("Finished tick", zap.Int("updated", len(updated)))
	f.publish(events.TypeSimulationTick, 0, map[string]any{"at": now, "updated": len(updated)})

	return updated, nil
}

type ISimulationImpl struct {
	fleet *Fleet
}

func (is *ISimulationImpl) Tick(now time.Time) ([]models.Battery, error) {
	return is.fleet.tick(now)
}

func (f *Fleet) GetISimulation() ISimulation {
	return &ISimulationImpl{fleet: f}
}
