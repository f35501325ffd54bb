package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"grana/internal/services"
)

// InsightHandler handles AI-generated advice requests.
type InsightHandler struct {
	insightService services.InsightServicer
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(insightService services.InsightServicer) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// GetAdvice handles retrieving financial advice for the user.
// @Summary     Get financial advice
// @Description Get AI-generated advice based on recent transactions, budgets, and goals
// @Tags        insights
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]services.AdviceItem "Advice items"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /insights/advice [get]
func (h *InsightHandler) GetAdvice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	advice, err := h.insightService.GetAdvice(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"advice": advice})
}
