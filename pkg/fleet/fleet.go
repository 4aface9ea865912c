package fleet

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/battery-fleet-service/pkg/common"
	"liyu1981.xyz/battery-fleet-service/pkg/db"
	"liyu1981.xyz/battery-fleet-service/pkg/events"
	"liyu1981.xyz/battery-fleet-service/pkg/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrNonMonotonic  = errors.New("history entry would break degradation order")
	ErrHistoryExists = errors.New("battery already has history")
)

//go:generate mockgen -source=fleet.go -destination=mocks/mocks.go -package=mocks

type IBattery interface {
	GetBattery(id uint) (*models.Battery, error)
	ListBatteries() ([]models.Battery, error)
	CreateBattery(input *models.Battery) (*models.Battery, error)
	UpdateBattery(id uint, patch *models.BatteryPatch) (*models.Battery, error)
	DeleteBattery(id uint) (bool, error)
}

type IHistory interface {
	ListHistory(batteryID uint) ([]models.BatteryHistoryEntry, error)
	ListHistoryInRange(batteryID uint, start, end time.Time) ([]models.BatteryHistoryEntry, error)
	AppendHistory(batteryID uint, input *models.BatteryHistoryEntry) (*models.BatteryHistoryEntry, error)
	SynthesizeHistory(batteryID uint, now time.Time, intervalDays int) ([]models.BatteryHistoryEntry, error)
}

type IUsage interface {
	GetUsagePattern(batteryID uint) (*models.UsagePattern, error)
	UpsertUsagePattern(batteryID uint, input *models.UsagePattern) (*models.UsagePattern, error)
}

type IRecommendation interface {
	ListRecommendations(batteryID uint) ([]models.Recommendation, error)
	CreateRecommendation(batteryID uint, input *models.Recommendation) (*models.Recommendation, error)
	SetResolved(id uint, resolved bool) (*models.Recommendation, error)
	EvaluateAndStore(batteryID uint, now time.Time) ([]models.Recommendation, error)
}

type ISimulation interface {
	Tick(now time.Time) ([]models.Battery, error)
}

// Fleet is the collaborator layer around the engine: repositories over the
// database plus the operations that apply engine results to stored records.
// Use it through a pointer, it carries the per-battery locks.
type Fleet struct {
	Db             db.DB
	Battery        IBattery
	History        IHistory
	Usage          IUsage
	Recommendation IRecommendation
	Simulation     ISimulation
	Events         events.Publisher
	// Clock defaults to time.Now when nil.
	Clock func() time.Time

	locks sync.Map // battery id -> *sync.Mutex
}

type ServiceOpts struct {
	Battery        IBattery
	History        IHistory
	Usage          IUsage
	Recommendation IRecommendation
	Simulation     ISimulation
	Events         events.Publisher
}

func (f *Fleet) WithServices(opts ServiceOpts) *Fleet {
	if opts.Battery != nil {
		f.Battery = opts.Battery
	}
	if opts.History != nil {
		f.History = opts.History
	}
	if opts.Usage != nil {
		f.Usage = opts.Usage
	}
	if opts.Recommendation != nil {
		f.Recommendation = opts.Recommendation
	}
	if opts.Simulation != nil {
		f.Simulation = opts.Simulation
	}
	if opts.Events != nil {
		f.Events = opts.Events
	}
	return f
}

// WithDefaultServices wires every service to its database backed implementation.
func (f *Fleet) WithDefaultServices() *Fleet {
	return f.WithServices(ServiceOpts{
		Battery:        f.GetIBattery(),
		History:        f.GetIHistory(),
		Usage:          f.GetIUsage(),
		Recommendation: f.GetIRecommendation(),
		Simulation:     f.GetISimulation(),
	})
}

func (f *Fleet) now() time.Time {
	if f.Clock != nil {
		return f.Clock().UTC()
	}
	return time.Now().UTC()
}

// lockBattery serializes read-modify-write cycles on one battery.
func (f *Fleet) lockBattery(id uint) func() {
	value, _ := f.locks.LoadOrStore(id, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (f *Fleet) logger(category string) *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameFleetCore,
		zap.String(common.LoggerFieldFleetCategory, category),
	)
}

// publish never fails the caller, sink errors are only logged.
func (f *Fleet) publish(eventType events.Type, batteryID uint, data any) {
	if f.Events == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := events.New(eventType, batteryID, data)
	if err := f.Events.Publish(ctx, event); err != nil {
		common.GetLoggerWith(common.LoggerNameEvents).
			Warn("Failed to publish event", zap.String("type", string(eventType)), zap.Error(err))
	}
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (f *Fleet) getBattery(tx *gorm.DB, id uint) (*models.Battery, error) {
	var battery models.Battery
	if err := tx.First(&battery, id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &battery, nil
}
