package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"liyu1981.xyz/battery-fleet-service/pkg/models"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

type RecommendationRequest struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Resolved bool   `json:"resolved"`
}

var recommendationRequestSchema = z.Struct(z.Shape{
	"type":     z.String().Required().OneOf([]string{"replacement", "maintenance", "usage"}),
	"message":  z.String().Required(),
	"resolved": z.Bool(),
})

type ResolveRequest struct {
	Resolved *bool `json:"resolved" binding:"required"`
}

func (rs *RestfulServer) GetRecommendations(c *gin.Context) {
	batteryID, ok := rs.batteryID(c)
	if !ok {
		return
	}

	recommendations, err := rs.Fleet.Recommendation.ListRecommendations(batteryID)
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, recommendations)
}

func (rs *RestfulServer) PostRecommendation(c *gin.Context) {
	batteryID, ok := rs.batteryID(c)
	if !ok {
		return
	}

	var req RecommendationRequest
	if err := recommendationRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		schemaError(c, err)
		return
	}

	recommendation, err := rs.Fleet.Recommendation.CreateRecommendation(batteryID, &models.Recommendation{
		Type:     models.RecommendationType(req.Type),
		Message:  req.Message,
		Resolved: req.Resolved,
	})
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recommendation)
}

func (rs *RestfulServer) PostEvaluate(c *gin.Context) {
	batteryID, ok := rs.batteryID(c)
	if !ok {
		return
	}

	saved, err := rs.Fleet.Recommendation.EvaluateAndStore(batteryID, rs.now())
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, saved)
}

// PatchRecommendation flips the resolved flag, nothing else is mutable.
func (rs *RestfulServer) PatchRecommendation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recommendation, err := rs.Fleet.Recommendation.SetResolved(id, *req.Resolved)
	if err != nil {
		rs.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, recommendation)
}
