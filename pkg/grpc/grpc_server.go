package grpc

import (
	"time"

	"golang.org/x/time/rate"

	"liyu1981.xyz/battery-fleet-service/pkg/fleet"
)

type BatteryFleetServer struct {
	Fleet            *fleet.Fleet
	RateLimiterStore *fleet.RateLimiterStore
	// Now defaults to time.Now when nil.
	Now func() time.Time
}

func (s *BatteryFleetServer) GetLimiter(key string) *rate.Limiter {
	if s.RateLimiterStore == nil {
		return nil
	} else {
		return s.RateLimiterStore.GetLimiter(key)
	}
}

func (s *BatteryFleetServer) CheckBatteryLimiter(batteryID uint) bool {
	limiter := s.GetLimiter(fleet.LimiterKey(batteryID))
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (s *BatteryFleetServer) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
