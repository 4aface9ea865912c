package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"liyu1981.xyz/battery-fleet-service/pkg/common"
	"liyu1981.xyz/battery-fleet-service/pkg/engine"
	"liyu1981.xyz/battery-fleet-service/pkg/events"
	"liyu1981.xyz/battery-fleet-service/pkg/fleet"
)

type RestfulServer struct {
	Server           *gin.Engine
	Fleet            *fleet.Fleet
	RateLimiterStore *fleet.RateLimiterStore
	// Hub serves /ws when set.
	Hub *events.Hub
	// Now defaults to time.Now when nil.
	Now func() time.Time
}

func (rs *RestfulServer) GetLimiter(key string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	} else {
		return rs.RateLimiterStore.GetLimiter(key)
	}
}

func (rs *RestfulServer) CheckBatteryLimiter(batteryID uint) bool {
	limiter := rs.GetLimiter(fleet.LimiterKey(batteryID))
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) SetLimiter(batteryID uint, batteryRate float64, batteryBurst int) {
	if rs.RateLimiterStore == nil {
		return
	}
	rs.RateLimiterStore.SetLimiter(fleet.LimiterKey(batteryID), rate.Limit(batteryRate), batteryBurst)
}

func (rs *RestfulServer) now() time.Time {
	if rs.Now != nil {
		return rs.Now().UTC()
	}
	return time.Now().UTC()
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s %q", name, c.Param(name))})
		return 0, false
	}
	return uint(id), true
}

// batteryID reads the :id param and spends one token of the battery's limiter.
// It writes the error response itself and reports false when the handler must stop.
func (rs *RestfulServer) batteryID(c *gin.Context) (uint, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return 0, false
	}
	if !rs.CheckBatteryLimiter(id) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return 0, false
	}
	return id, true
}

func statusOf(err error) int {
	var verr *fleet.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, engine.ErrInvalidInput),
		errors.Is(err, fleet.ErrNonMonotonic):
		return http.StatusBadRequest
	case errors.Is(err, fleet.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, fleet.ErrHistoryExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (rs *RestfulServer) abortWithError(c *gin.Context, err error) {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		common.GetLoggerWith(common.LoggerNameRestfulServer).
			Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

func schemaError(c *gin.Context, issues any) {
	c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%v", issues)})
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)

	batteries := rs.Server.Group("/batteries")
	{
		batteries.GET("", rs.ListBatteries)
		batteries.POST("", rs.PostBattery)
		batteries.GET("/:id", rs.GetBattery)
		batteries.PATCH("/:id", rs.PatchBattery)
		batteries.DELETE("/:id", rs.DeleteBattery)

		batteries.GET("/:id/history", rs.GetHistory)
		batteries.POST("/:id/history", rs.PostHistory)
		batteries.POST("/:id/history/synthesize", rs.PostSynthesize)
		batteries.GET("/:id/projection", rs.GetProjection)

		batteries.GET("/:id/usage", rs.GetUsage)
		batteries.POST("/:id/usage", rs.PostUsage)

		batteries.GET("/:id/recommendations", rs.GetRecommendations)
		batteries.POST("/:id/recommendations", rs.PostRecommendation)
		batteries.POST("/:id/recommendations/evaluate", rs.PostEvaluate)

		batteries.POST("/:id/limiter", rs.PostLimiter)
	}

	rs.Server.PATCH("/recommendations/:id", rs.PatchRecommendation)
	rs.Server.GET("/fleet/summary", rs.GetSummary)
	rs.Server.POST("/simulation/tick", rs.PostTick)

	if rs.Hub != nil {
		rs.Server.GET("/ws", rs.ServeEvents)
	}
}
