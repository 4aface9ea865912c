package fleet

import (
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/battery-fleet-service/pkg/common"
	"liyu1981.xyz/battery-fleet-service/pkg/engine"
	"liyu1981.xyz/battery-fleet-service/pkg/events"
	"liyu1981.xyz/battery-fleet-service/pkg/models"
)

func validateNewBattery(input *models.Battery) error {
	v := &ValidationError{}
	v.check(strings.TrimSpace(input.Name) != "", "name", "is required")
	v.check(strings.TrimSpace(input.SerialNumber) != "", "serialNumber", "is required")
	v.check(common.IsFinite(input.InitialCapacity) && input.InitialCapacity > 0, "initialCapacity", "must be a positive number")
	v.check(input.ExpectedCycles > 0, "expectedCycles", "must be positive")
	v.check(common.IsFinite(input.DegradationRate) && input.DegradationRate >= 0, "degradationRate", "must not be negative")
	v.check(common.IsFinite(input.NominalVoltage) && input.NominalVoltage >= 0, "nominalVoltage", "must not be negative")
	return v.orNil()
}

func (f *Fleet) createBattery(input *models.Battery) (*models.Battery, error) {
	logger := f.logger(common.LoggerCategoryFleetBattery)

	if err := validateNewBattery(input); err != nil {
		return nil, err
	}

	now := f.now()
	installDate := input.InstallDate
	if installDate.IsZero() {
		installDate = now
	}

	battery := models.Battery{
		Name:            strings.TrimSpace(input.Name),
		SerialNumber:    strings.TrimSpace(input.SerialNumber),
		Manufacturer:    input.Manufacturer,
		Model:           input.Model,
		Chemistry:       input.Chemistry,
		NominalVoltage:  input.NominalVoltage,
		Location:        input.Location,
		InitialCapacity: input.InitialCapacity,
		ExpectedCycles:  input.ExpectedCycles,
		InstallDate:     installDate.UTC(),
		DegradationRate: input.DegradationRate,

		CurrentCapacity:  input.InitialCapacity,
		HealthPercentage: 100,
		CycleCount:       0,
		Status:           models.BatteryStatusExcellent,
		LastUpdated:      now,
	}

	logger.Info("Received battery", zap.Reflect("battery", battery))

	err := f.Db.Conn.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Battery{}).Where("serial_number = ?", battery.SerialNumber).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &ValidationError{Problems: []FieldProblem{{Field: "serialNumber", Problem: "already exists"}}}
		}
		return tx.Create(&battery).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Created battery", zap.Reflect("battery", battery))
	f.publish(events.TypeBatteryCreated, battery.ID, battery)

	return &battery, nil
}

func (f *Fleet) getBatteryByID(id uint) (*models.Battery, error) {
	return f.getBattery(f.Db.Conn, id)
}

func (f *Fleet) listBatteries() ([]models.Battery, error) {
	batteries := []models.Battery{}
	err := f.Db.Conn.Order("id asc").Find(&batteries).Error
	return batteries, err
}

func applyPatch(battery *models.Battery, patch *models.BatteryPatch) error {
	v := &ValidationError{}

	if patch.Name != nil {
		v.check(strings.TrimSpace(*patch.Name) != "", "name", "must not be empty")
		battery.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Manufacturer != nil {
		battery.Manufacturer = *patch.Manufacturer
	}
	if patch.Model != nil {
		battery.Model = *patch.Model
	}
	if patch.Chemistry != nil {
		battery.Chemistry = *patch.Chemistry
	}
	if patch.Location != nil {
		battery.Location = *patch.Location
	}
	if patch.NominalVoltage != nil {
		v.check(common.IsFinite(*patch.NominalVoltage) && *patch.NominalVoltage >= 0, "nominalVoltage", "must not be negative")
		battery.NominalVoltage = *patch.NominalVoltage
	}
	if patch.ExpectedCycles != nil {
		v.check(*patch.ExpectedCycles > 0, "expectedCycles", "must be positive")
		battery.ExpectedCycles = *patch.ExpectedCycles
	}
	if patch.DegradationRate != nil {
		v.check(common.IsFinite(*patch.DegradationRate) && *patch.DegradationRate >= 0, "degradationRate", "must not be negative")
		battery.DegradationRate = *patch.DegradationRate
	}
	if patch.HealthPercentage != nil {
		h := *patch.HealthPercentage
		v.check(common.IsFinite(h) && h >= 0 && h <= 100, "healthPercentage", "must be within [0,100]")
		battery.HealthPercentage = h
	}
	if patch.CurrentCapacity != nil {
		c := *patch.CurrentCapacity
		v.check(common.IsFinite(c) && c >= 0 && c <= battery.InitialCapacity, "currentCapacity", "must be within [0,initialCapacity]")
		battery.CurrentCapacity = c
	}
	if patch.CycleCount != nil {
		v.check(*patch.CycleCount >= 0, "cycleCount", "must not be negative")
		battery.CycleCount = *patch.CycleCount
	}

	return v.orNil()
}

func (f *Fleet) updateBattery(id uint, patch *models.BatteryPatch) (*models.Battery, error) {
	logger := f.logger(common.LoggerCategoryFleetBattery)

	unlock := f.lockBattery(id)
	defer unlock()

	var updated *models.Battery
	err := f.Db.Conn.Transaction(func(tx *gorm.DB) error {
		battery, err := f.getBattery(tx, id)
		if err != nil {
			return err
		}

		if err := applyPatch(battery, patch); err != nil {
			return err
		}

		status, err := engine.Classify(battery.HealthPercentage)
		if err != nil {
			return err
		}
		battery.Status = status
		battery.LastUpdated = f.now()

		if err := tx.Save(battery).Error; err != nil {
			return err
		}
		updated = battery
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Updated battery", zap.Reflect("battery", updated))
	f.publish(events.TypeBatteryUpdated, updated.ID, updated)

	return updated, nil
}

// deleteBattery removes the battery and everything it owns. It reports false
// when there was nothing to delete.
func (f *Fleet) deleteBattery(id uint) (bool, error) {
	logger := f.logger(common.LoggerCategoryFleetBattery)

	unlock := f.lockBattery(id)
	defer unlock()

	err := f.Db.Conn.Transaction(func(tx *gorm.DB) error {
		if _, err := f.getBattery(tx, id); err != nil {
			return err
		}
		if err := tx.Where("battery_id = ?", id).Delete(&models.BatteryHistoryEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("battery_id = ?", id).Delete(&models.UsagePattern{}).Error; err != nil {
			return err
		}
		if err := tx.Where("battery_id = ?", id).Delete(&models.Recommendation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Battery{}, id).Error
	})
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	// waiters still holding this mutex will find the battery gone
	f.locks.Delete(id)

	logger.Info("Deleted battery", zap.Uint("battery_id", id))
	f.publish(events.TypeBatteryDeleted, id, nil)

	return true, nil
}

type IBatteryImpl struct {
	fleet *Fleet
}

func (ib *IBatteryImpl) GetBattery(id uint) (*models.Battery, error) {
	return ib.fleet.getBatteryByID(id)
}

func (ib *IBatteryImpl) ListBatteries() ([]models.Battery, error) {
	return ib.fleet.listBatteries()
}

func (ib *IBatteryImpl) CreateBattery(input *models.Battery) (*models.Battery, error) {
	return ib.fleet.createBattery(input)
}

func (ib *IBatteryImpl) UpdateBattery(id uint, patch *models.BatteryPatch) (*models.Battery, error) {
	return ib.fleet.updateBattery(id, patch)
}

func (ib *IBatteryImpl) DeleteBattery(id uint) (bool, error) {
	return ib.fleet.deleteBattery(id)
}

func (f *Fleet) GetIBattery() IBattery {
	return &IBatteryImpl{fleet: f}
}
