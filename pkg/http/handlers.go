package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"liyu1981.xyz/battery-fleet-service/pkg/engine"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"rate":  z.Float64().Required().GT(0),
	"burst": z.Int().Required().GT(0),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	batteryID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		schemaError(c, err)
		return
	}

	rs.SetLimiter(batteryID, req.Rate, req.Burst)

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) GetSummary(c *gin.Context) {
	batteries, err := rs.Fleet.Battery.ListBatteries()
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, engine.Summarize(batteries))
}

func (rs *RestfulServer) PostTick(c *gin.Context) {
	updated, err := rs.Fleet.Simulation.Tick(rs.now())
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": len(updated), "batteries": updated})
}

func (rs *RestfulServer) ServeEvents(c *gin.Context) {
	rs.Hub.ServeWS(c.Writer, c.Request)
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
