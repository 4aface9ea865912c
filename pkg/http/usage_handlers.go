package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"liyu1981.xyz/battery-fleet-service/pkg/models"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

type UsageRequest struct {
	ChargingFrequency       float64 `json:"chargingFrequency"`
	DischargeDepth          float64 `json:"dischargeDepth"`
	TemperatureExposure     float64 `json:"temperatureExposure"`
	UsageType               string  `json:"usageType"`
	EnvironmentalConditions string  `json:"environmentalConditions"`
	FastChargingPercentage  float64 `json:"fastChargingPercentage"`
}

var usageRequestSchema = z.Struct(z.Shape{
	"chargingFrequency":       z.Float64().GTE(0),
	"dischargeDepth":          z.Float64().GTE(0).LTE(100),
	"temperatureExposure":     z.Float64(),
	"usageType":               z.String().Required().OneOf([]string{"light", "moderate", "heavy"}),
	"environmentalConditions": z.String(),
	"fastChargingPercentage":  z.Float64().GTE(0).LTE(100),
})

func (rs *RestfulServer) GetUsage(c *gin.Context) {
	batteryID, ok := rs.batteryID(c)
	if !ok {
		return
	}

	usage, err := rs.Fleet.Usage.GetUsagePattern(batteryID)
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, usage)
}

func (rs *RestfulServer) PostUsage(c *gin.Context) {
	batteryID, ok := rs.batteryID(c)
	if !ok {
		return
	}

	var req UsageRequest
	if err := usageRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		schemaError(c, err)
		return
	}

	usage, err := rs.Fleet.Usage.UpsertUsagePattern(batteryID, &models.UsagePattern{
		ChargingFrequency:       req.ChargingFrequency,
		DischargeDepth:          req.DischargeDepth,
		TemperatureExposure:     req.TemperatureExposure,
		UsageType:               models.UsageType(req.UsageType),
		EnvironmentalConditions: req.EnvironmentalConditions,
		FastChargingPercentage:  req.FastChargingPercentage,
	})
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, usage)
}
