package fleet

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/battery-fleet-service/pkg/common"
	"liyu1981.xyz/battery-fleet-service/pkg/engine"
	"liyu1981.xyz/battery-fleet-service/pkg/events"
	"liyu1981.xyz/battery-fleet-service/pkg/models"
)

// evaluateAndStore runs the rule engine for one battery and saves the drafts
// whose type has no unresolved recommendation open yet.
func (f *Fleet) evaluateAndStore(batteryID uint, now time.Time) ([]models.Recommendation, error) {
	logger := f.logger(common.LoggerCategoryFleetRecommendation)

	saved := []models.Recommendation{}
	err := f.Db.Conn.Transaction(func(tx *gorm.DB) error {
		battery, err := f.getBattery(tx, batteryID)
		if err != nil {
			return err
		}

		var usage *models.UsagePattern
		var found models.UsagePattern
		err = tx.First(&found, "battery_id = ?", batteryID).Error
		switch {
		case err == nil:
			usage = &found
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		var openTypes []models.RecommendationType
		if err := tx.Model(&models.Recommendation{}).
			Where("battery_id = ? AND resolved = ?", batteryID, false).
			Distinct().
			Pluck("type", &openTypes).Error; err != nil {
			return err
		}
		open := make(map[models.RecommendationType]bool, len(openTypes))
		for _, t := range openTypes {
			open[t] = true
		}

		for _, draft := range engine.Evaluate(*battery, usage, now.UTC()) {
			logger.Info("Recommendation found", zap.Reflect("recommendation", draft))

			if open[draft.Type] {
				logger.Info("Recommendation already open", zap.String("type", string(draft.Type)))
				continue
			}

			if err := tx.Create(&draft).Error; err != nil {
				return err
			}

			logger.Info("Recommendation saved", zap.Reflect("recommendation", draft))
			saved = append(saved, draft)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, r := range saved {
		f.publish(events.TypeRecommendationCreated, batteryID, r)
	}

	return saved, nil
}

func (f *Fleet) listRecommendations(batteryID uint) ([]models.Recommendation, error) {
	if _, err := f.getBattery(f.Db.Conn, batteryID); err != nil {
		return nil, err
	}

	recommendations := []models.Recommendation{}
	err := f.Db.Conn.
		Where("battery_id = ?", batteryID).
		Order("created_at desc").Order("id desc").
		Find(&recommendations).Error
	return recommendations, err
}

func (f *Fleet) createRecommendation(batteryID uint, input *models.Recommendation) (*models.Recommendation, error) {
	logger := f.logger(common.LoggerCategoryFleetRecommendation)

	v := &ValidationError{}
	v.check(input.Type.Valid(), "type", "must be one of replacement, maintenance, usage")
	v.check(strings.TrimSpace(input.Message) != "", "message", "is required")
	if err := v.orNil(); err != nil {
		return nil, err
	}

	createdAt := input.CreatedAt
	if createdAt.IsZero() {
		createdAt = f.now()
	}

	recommendation := models.Recommendation{
		BatteryID: batteryID,
		Type:      input.Type,
		Message:   strings.TrimSpace(input.Message),
		CreatedAt: createdAt.UTC(),
		Resolved:  input.Resolved,
	}

	logger.Info("Received recommendation", zap.Reflect("recommendation", recommendation))

	err := f.Db.Conn.Transaction(func(tx *gorm.DB) error {
		if _, err := f.getBattery(tx, batteryID); err != nil {
			return err
		}
		return tx.Create(&recommendation).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Recommendation saved", zap.Reflect("recommendation", recommendation))
	f.publish(events.TypeRecommendationCreated, batteryID, recommendation)

	return &recommendation, nil
}

// setResolved only ever touches the resolved flag.
func (f *Fleet) setResolved(id uint, resolved bool) (*models.Recommendation, error) {
	logger := f.logger(common.LoggerCategoryFleetRecommendation)

	var recommendation models.Recommendation
	err := f.Db.Conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&recommendation, id).Error; err != nil {
			return notFoundOr(err)
		}
		if err := tx.Model(&recommendation).Update("resolved", resolved).Error; err != nil {
			return err
		}
		recommendation.Resolved = resolved
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Updated recommendation", zap.Uint("id", id), zap.Bool("resolved", resolved))
	f.publish(events.TypeRecommendationResolved, recommendation.BatteryID, recommendation)

	return &recommendation, nil
}

type IRecommendationImpl struct {
	fleet *Fleet
}

func (ir *IRecommendationImpl) ListRecommendations(batteryID uint) ([]models.Recommendation, error) {
	return ir.fleet.listRecommendations(batteryID)
}

func (ir *IRecommendationImpl) CreateRecommendation(batteryID uint, input *models.Recommendation) (*models.Recommendation, error) {
	return ir.fleet.createRecommendation(batteryID, input)
}

func (ir *IRecommendationImpl) SetResolved(id uint, resolved bool) (*models.Recommendation, error) {
	return ir.fleet.setResolved(id, resolved)
}

func (ir *IRecommendationImpl) EvaluateAndStore(batteryID uint, now time.Time) ([]models.Recommendation, error) {
	return ir.fleet.evaluateAndStore(batteryID, now)
}

func (f *Fleet) GetIRecommendation() IRecommendation {
	return &IRecommendationImpl{fleet: f}
}
