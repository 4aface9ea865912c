package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"liyu1981.xyz/battery-fleet-service/pkg/fleet"
	"liyu1981.xyz/battery-fleet-service/pkg/models"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

type BatteryRequest struct {
	Name            string    `json:"name"`
	SerialNumber    string    `json:"serialNumber"`
	Manufacturer    string    `json:"manufacturer"`
	Model           string    `json:"model"`
	Chemistry       string    `json:"chemistry"`
	NominalVoltage  float64   `json:"nominalVoltage"`
	Location        string    `json:"location"`
	InitialCapacity float64   `json:"initialCapacity"`
	ExpectedCycles  int       `json:"expectedCycles"`
	InstallDate     time.Time `json:"installDate"`
	DegradationRate float64   `json:"degradationRate"`
}

var batteryRequestSchema = z.Struct(z.Shape{
	"name":            z.String().Required(),
	"serialNumber":    z.String().Required(),
	"manufacturer":    z.String(),
	"model":           z.String(),
	"chemistry":       z.String(),
	"nominalVoltage":  z.Float64().GTE(0),
	"location":        z.String(),
	"initialCapacity": z.Float64().Required().GT(0),
	"expectedCycles":  z.Int().Required().GT(0),
	"installDate":     z.Time(),
	"degradationRate": z.Float64().GTE(0),
})

// batteryPatchSchema leaves absent keys nil, the fleet only touches the fields
// that were sent.
var batteryPatchSchema = z.Struct(z.Shape{
	"name":             z.Ptr(z.String()),
	"manufacturer":     z.Ptr(z.String()),
	"model":            z.Ptr(z.String()),
	"chemistry":        z.Ptr(z.String()),
	"nominalVoltage":   z.Ptr(z.Float64().GTE(0)),
	"location":         z.Ptr(z.String()),
	"expectedCycles":   z.Ptr(z.Int().GT(0)),
	"currentCapacity":  z.Ptr(z.Float64().GTE(0)),
	"healthPercentage": z.Ptr(z.Float64().GTE(0).LTE(100)),
	"cycleCount":       z.Ptr(z.Int().GTE(0)),
	"degradationRate":  z.Ptr(z.Float64().GTE(0)),
})

func (rs *RestfulServer) ListBatteries(c *gin.Context) {
	batteries, err := rs.Fleet.Battery.ListBatteries()
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, batteries)
}

func (rs *RestfulServer) PostBattery(c *gin.Context) {
	var req BatteryRequest
	if err := batteryRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		schemaError(c, err)
		return
	}

	battery, err := rs.Fleet.Battery.CreateBattery(&models.Battery{
		Name:            req.Name,
		SerialNumber:    req.SerialNumber,
		Manufacturer:    req.Manufacturer,
		Model:           req.Model,
		Chemistry:       req.Chemistry,
		NominalVoltage:  req.NominalVoltage,
		Location:        req.Location,
		InitialCapacity: req.InitialCapacity,
		ExpectedCycles:  req.ExpectedCycles,
		InstallDate:     req.InstallDate,
		DegradationRate: req.DegradationRate,
	})
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, battery)
}

func (rs *RestfulServer) GetBattery(c *gin.Context) {
	batteryID, ok := rs.batteryID(c)
	if !ok {
		return
	}

	battery, err := rs.Fleet.Battery.GetBattery(batteryID)
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, battery)
}

func (rs *RestfulServer) PatchBattery(c *gin.Context) {
	batteryID, ok := rs.batteryID(c)
	if !ok {
		return
	}

	var patch models.BatteryPatch
	if err := batteryPatchSchema.Parse(zhttp.Request(c.Request), &patch); err != nil {
		schemaError(c, err)
		return
	}

	battery, err := rs.Fleet.Battery.UpdateBattery(batteryID, &patch)
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, battery)
}

func (rs *RestfulServer) DeleteBattery(c *gin.Context) {
	batteryID, ok := rs.batteryID(c)
	if !ok {
		return
	}

	deleted, err := rs.Fleet.Battery.DeleteBattery(batteryID)
	if err != nil {
		rs.abortWithError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "battery not found"})
		return
	}

	if rs.RateLimiterStore != nil {
		rs.RateLimiterStore.Forget(fleet.LimiterKey(batteryID))
	}

	c.Status(http.StatusNoContent)
}
