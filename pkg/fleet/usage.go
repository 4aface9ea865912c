package fleet

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"liyu1981.xyz/battery-fleet-service/pkg/common"
	"liyu1981.xyz/battery-fleet-service/pkg/events"
	"liyu1981.xyz/battery-fleet-service/pkg/models"
)

func validateUsage(input *models.UsagePattern) error {
	v := &ValidationError{}
	v.check(input.UsageType.Valid(), "usageType", "must be one of light, moderate, heavy")
	v.check(common.IsFinite(input.ChargingFrequency) && input.ChargingFrequency >= 0, "chargingFrequency", "must not be negative")
	v.check(common.IsFinite(input.DischargeDepth) && input.DischargeDepth >= 0 && input.DischargeDepth <= 100,
		"dischargeDepth", "must be between 0 and 100")
	v.check(common.IsFinite(input.FastChargingPercentage) && input.FastChargingPercentage >= 0 && input.FastChargingPercentage <= 100,
		"fastChargingPercentage", "must be between 0 and 100")
	v.check(common.IsFinite(input.TemperatureExposure), "temperatureExposure", "must be a finite number")
	return v.orNil()
}

func (f *Fleet) upsertUsagePattern(batteryID uint, input *models.UsagePattern) (*models.UsagePattern, error) {
	logger := f.logger(common.LoggerCategoryFleetUsage)

	if err := validateUsage(input); err != nil {
		return nil, err
	}

	usage := models.UsagePattern{
		BatteryID:               batteryID,
		ChargingFrequency:       input.ChargingFrequency,
		DischargeDepth:          input.DischargeDepth,
		TemperatureExposure:     input.TemperatureExposure,
		UsageType:               input.UsageType,
		EnvironmentalConditions: input.EnvironmentalConditions,
		FastChargingPercentage:  input.FastChargingPercentage,
		UpdatedAt:               f.now(),
	}

	logger.Info("Received usage pattern for battery", zap.Reflect("usage", usage))

	err := f.Db.Conn.Transaction(func(tx *gorm.DB) error {
		if _, err := f.getBattery(tx, batteryID); err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "battery_id"}},
			UpdateAll: true,
		}).Create(&usage).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Upserted usage pattern for battery", zap.Reflect("usage", usage))
	f.publish(events.TypeBatteryUpdated, batteryID, map[string]any{"usage": usage})

	return &usage, nil
}

func (f *Fleet) getUsagePattern(batteryID uint) (*models.UsagePattern, error) {
	var usage models.UsagePattern
	if err := f.Db.Conn.First(&usage, "battery_id = ?", batteryID).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &usage, nil
}

type IUsageImpl struct {
	fleet *Fleet
}

func (iu *IUsageImpl) GetUsagePattern(batteryID uint) (*models.UsagePattern, error) {
	return iu.fleet.getUsagePattern(batteryID)
}

func (iu *IUsageImpl) UpsertUsagePattern(batteryID uint, input *models.UsagePattern) (*models.UsagePattern, error) {
	return iu.fleet.upsertUsagePattern(batteryID, input)
}

func (f *Fleet) GetIUsage() IUsage {
	return &IUsageImpl{fleet: f}
}
