package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"liyu1981.xyz/battery-fleet-service/pkg/engine"
	"liyu1981.xyz/battery-fleet-service/pkg/models"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

const dateLayout = "2006-01-02"

// parseTimeQuery accepts RFC3339 timestamps or plain dates. A date used as
// the end of a range covers that whole day.
func parseTimeQuery(c *gin.Context, name string, endOfDay bool) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q, expected RFC3339 or YYYY-MM-DD", name, raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

type HistoryRequest struct {
	Timestamp        time.Time `json:"timestamp"`
	Capacity         *float64  `json:"capacity"`
	HealthPercentage *float64  `json:"healthPercentage"`
	CycleCount       int       `json:"cycleCount"`
}

var historyRequestSchema = z.Struct(z.Shape{
	"timestamp":        z.Time(),
	"capacity":         z.Ptr(z.Float64().GTE(0)).NotNil(),
	"healthPercentage": z.Ptr(z.Float64()).NotNil(),
	"cycleCount":       z.Int().GTE(0),
})

func (rs *RestfulServer) GetHistory(c *gin.Context) {
	batteryID, ok := rs.batteryID(c)
	if !ok {
		return
	}

	start, err := parseTimeQuery(c, "startDate", false)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, err := parseTimeQuery(c, "endDate", true)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endDate is before startDate"})
		return
	}

	entries, err := rs.Fleet.History.ListHistoryInRange(batteryID, start, end)
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (rs *RestfulServer) PostHistory(c *gin.Context) {
	batteryID, ok := rs.batteryID(c)
	if !ok {
		return
	}

	var req HistoryRequest
	if err := historyRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		schemaError(c, err)
		return
	}
	if req.Capacity == nil || req.HealthPercentage == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "capacity and healthPercentage are required"})
		return
	}

	entry, err := rs.Fleet.History.AppendHistory(batteryID, &models.BatteryHistoryEntry{
		Timestamp:        req.Timestamp,
		Capacity:         *req.Capacity,
		HealthPercentage: *req.HealthPercentage,
		CycleCount:       req.CycleCount,
	})
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

type SynthesizeRequest struct {
	IntervalDays int `json:"intervalDays"`
}

var synthesizeRequestSchema = z.Struct(z.Shape{
	"intervalDays": z.Int().Required().GT(0),
})

func (rs *RestfulServer) PostSynthesize(c *gin.Context) {
	batteryID, ok := rs.batteryID(c)
	if !ok {
		return
	}

	var req SynthesizeRequest
	if err := synthesizeRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		schemaError(c, err)
		return
	}

	entries, err := rs.Fleet.History.SynthesizeHistory(batteryID, rs.now(), req.IntervalDays)
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entries)
}

func (rs *RestfulServer) GetProjection(c *gin.Context) {
	batteryID, ok := rs.batteryID(c)
	if !ok {
		return
	}

	at, err := parseTimeQuery(c, "at", false)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if at.IsZero() {
		at = rs.now()
	}

	battery, err := rs.Fleet.Battery.GetBattery(batteryID)
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	projection, err := engine.Project(*battery, at)
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, projection)
}
