package fleet

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/battery-fleet-service/pkg/common"
	"liyu1981.xyz/battery-fleet-service/pkg/engine"
	"liyu1981.xyz/battery-fleet-service/pkg/events"
	"liyu1981.xyz/battery-fleet-service/pkg/models"
)

const synthesizeBatchSize = 100

func (f *Fleet) listHistory(batteryID uint) ([]models.BatteryHistoryEntry, error) {
	return f.listHistoryInRange(batteryID, time.Time{}, time.Time{})
}

// listHistoryInRange returns entries oldest first; a zero start or end leaves
// that side of the range open.
func (f *Fleet) listHistoryInRange(batteryID uint, start, end time.Time) ([]models.BatteryHistoryEntry, error) {
	if _, err := f.getBattery(f.Db.Conn, batteryID); err != nil {
		return nil, err
	}

	query := f.Db.Conn.Where("battery_id = ?", batteryID)
	if !start.IsZero() {
		query = query.Where("timestamp >= ?", start.UTC())
	}
	if !end.IsZero() {
		query = query.Where("timestamp <= ?", end.UTC())
	}

	entries := []models.BatteryHistoryEntry{}
	err := query.Order("timestamp asc").Order("id asc").Find(&entries).Error
	return entries, err
}

// neighbours finds the newest entry at or before at and the oldest one after it.
func neighbours(tx *gorm.DB, batteryID uint, at time.Time) (prev, next *models.BatteryHistoryEntry, err error) {
	var before models.BatteryHistoryEntry
	err = tx.Where("battery_id = ? AND timestamp <= ?", batteryID, at).
		Order("timestamp desc").Order("id desc").
		First(&before).Error
	switch {
	case err == nil:
		prev = &before
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil, err
	}

	var after models.BatteryHistoryEntry
	err = tx.Where("battery_id = ? AND timestamp > ?", batteryID, at).
		Order("timestamp asc").Order("id asc").
		First(&after).Error
	switch {
	case err == nil:
		next = &after
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil, err
	}

	return prev, next, nil
}

func checkOrder(entry, prev, next *models.BatteryHistoryEntry) error {
	if prev != nil && (entry.HealthPercentage > prev.HealthPercentage || entry.CycleCount < prev.CycleCount) {
		return fmt.Errorf("%w: reading at %s has health %.2f and %d cycles, earlier reading has %.2f and %d",
			ErrNonMonotonic, entry.Timestamp.Format(time.RFC3339), entry.HealthPercentage, entry.CycleCount,
			prev.HealthPercentage, prev.CycleCount)
	}
	if next != nil && (entry.HealthPercentage < next.HealthPercentage || entry.CycleCount > next.CycleCount) {
		return fmt.Errorf("%w: reading at %s has health %.2f and %d cycles, later reading has %.2f and %d",
			ErrNonMonotonic, entry.Timestamp.Format(time.RFC3339), entry.HealthPercentage, entry.CycleCount,
			next.HealthPercentage, next.CycleCount)
	}
	return nil
}

// appendEntry stores entry for battery and, when it is the newest reading,
// folds it into the battery's derived fields. Callers hold the battery lock.
func (f *Fleet) appendEntry(tx *gorm.DB, battery *models.Battery, entry *models.BatteryHistoryEntry) (bool, error) {
	if entry.Capacity > battery.InitialCapacity {
		return false, &ValidationError{Problems: []FieldProblem{
			{Field: "capacity", Problem: "must be within [0,initialCapacity]"},
		}}
	}

	prev, next, err := neighbours(tx, battery.ID, entry.Timestamp)
	if err != nil {
		return false, err
	}
	if err := checkOrder(entry, prev, next); err != nil {
		return false, err
	}

	if err := tx.Create(entry).Error; err != nil {
		return false, err
	}

	if next != nil {
		return false, nil
	}

	status, err := engine.Classify(entry.HealthPercentage)
	if err != nil {
		return false, err
	}

	battery.CurrentCapacity = entry.Capacity
	battery.HealthPercentage = entry.HealthPercentage
	battery.CycleCount = entry.CycleCount
	battery.Status = status
	battery.LastUpdated = f.now()

	return true, tx.Save(battery).Error
}

func validateEntry(input *models.BatteryHistoryEntry) error {
	v := &ValidationError{}
	v.check(common.IsFinite(input.HealthPercentage), "healthPercentage", "must be a finite number")
	v.check(common.IsFinite(input.Capacity) && input.Capacity >= 0, "capacity", "must not be negative")
	v.check(input.CycleCount >= 0, "cycleCount", "must not be negative")
	return v.orNil()
}

func (f *Fleet) appendHistory(batteryID uint, input *models.BatteryHistoryEntry) (*models.BatteryHistoryEntry, error) {
	logger := f.logger(common.LoggerCategoryFleetHistory)

	if err := validateEntry(input); err != nil {
		return nil, err
	}

	timestamp := input.Timestamp
	if timestamp.IsZero() {
		timestamp = f.now()
	}

	entry := models.BatteryHistoryEntry{
		BatteryID:        batteryID,
		Timestamp:        timestamp.UTC(),
		Capacity:         input.Capacity,
		HealthPercentage: engine.ClampHealth(input.HealthPercentage),
		CycleCount:       input.CycleCount,
	}

	logger.Info("Received history entry for battery", zap.Reflect("entry", entry))

	newest, err := func() (bool, error) {
		unlock := f.lockBattery(batteryID)
		defer unlock()

		var newest bool
		err := f.Db.Conn.Transaction(func(tx *gorm.DB) error {
			battery, err := f.getBattery(tx, batteryID)
			if err != nil {
				return err
			}
			newest, err = f.appendEntry(tx, battery, &entry)
			return err
		})
		return newest, err
	}()
	if err != nil {
		return nil, err
	}

	logger.Info("Appended history entry for battery", zap.Reflect("entry", entry), zap.Bool("newest", newest))
	f.publish(events.TypeHistoryAppended, batteryID, entry)

	if !newest {
		return &entry, nil
	}

	if f.Recommendation == nil {
		return &entry, fmt.Errorf("recommendation service not available")
	}

	if _, err := f.Recommendation.EvaluateAndStore(batteryID, f.now()); err != nil {
		return &entry, err
	}

	return &entry, nil
}

// synthesizeHistory backfills a battery that has no readings yet from the
// degradation model, aligns the battery with the newest synthesized reading
// and evaluates its recommendations.
func (f *Fleet) synthesizeHistory(batteryID uint, now time.Time, intervalDays int) ([]models.BatteryHistoryEntry, error) {
	logger := f.logger(common.LoggerCategoryFleetHistory)

	unlock := f.lockBattery(batteryID)
	defer unlock()

	var entries []models.BatteryHistoryEntry
	err := f.Db.Conn.Transaction(func(tx *gorm.DB) error {
		battery, err := f.getBattery(tx, batteryID)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.BatteryHistoryEntry{}).Where("battery_id = ?", batteryID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrHistoryExists
		}

		seq, err := engine.Synthesize(engine.ProfileOf(*battery), now.UTC(), intervalDays, battery.CycleCount)
		if err != nil {
			return err
		}

		for entry := range seq {
			entry.BatteryID = batteryID
			entry.Timestamp = entry.Timestamp.UTC()
			entries = append(entries, entry)
		}

		// the newest reading never reports a healthier battery than the stored one
		last := &entries[len(entries)-1]
		last.Capacity = math.Min(last.Capacity, battery.CurrentCapacity)
		last.HealthPercentage = math.Min(last.HealthPercentage, battery.HealthPercentage)

		if err := tx.CreateInBatches(&entries, synthesizeBatchSize).Error; err != nil {
			return err
		}

		status, err := engine.Classify(last.HealthPercentage)
		if err != nil {
			return err
		}

		battery.CurrentCapacity = last.Capacity
		battery.HealthPercentage = last.HealthPercentage
		battery.Status = status
		battery.LastUpdated = f.now()
		return tx.Save(battery).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Synthesized history for battery",
		zap.Uint("battery_id", batteryID),
		zap.Int("entries", len(entries)),
		zap.Int("interval_days", intervalDays))
	f.publish(events.TypeBatteryUpdated, batteryID, map[string]any{"synthesizedEntries": len(entries)})

	if f.Recommendation == nil {
		return entries, fmt.Errorf("recommendation service not available")
	}

	if _, err := f.Recommendation.EvaluateAndStore(batteryID, now.UTC()); err != nil {
		return entries, err
	}

	return entries, nil
}

type IHistoryImpl struct {
	fleet *Fleet
}

func (ih *IHistoryImpl) ListHistory(batteryID uint) ([]models.BatteryHistoryEntry, error) {
	return ih.fleet.listHistory(batteryID)
}

func (ih *IHistoryImpl) ListHistoryInRange(batteryID uint, start, end time.Time) ([]models.BatteryHistoryEntry, error) {
	return ih.fleet.listHistoryInRange(batteryID, start, end)
}

func (ih *IHistoryImpl) AppendHistory(batteryID uint, input *models.BatteryHistoryEntry) (*models.BatteryHistoryEntry, error) {
	return ih.fleet.appendHistory(batteryID, input)
}

func (ih *IHistoryImpl) SynthesizeHistory(batteryID uint, now time.Time, intervalDays int) ([]models.BatteryHistoryEntry, error) {
	return ih.fleet.synthesizeHistory(batteryID, now, intervalDays)
}

func (f *Fleet) GetIHistory() IHistory {
	return &IHistoryImpl{fleet: f}
}
