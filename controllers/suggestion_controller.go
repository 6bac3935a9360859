package controllers

import (
	"net/http"

	"github.com/iamkhush/weekly-meals/services"

	"github.com/gin-gonic/gin"
)

type SuggestionController struct {
	Svc *services.SuggestionService
}

func NewSuggestionController(svc *services.SuggestionService) *SuggestionController {
	return &SuggestionController{Svc: svc}
}

// Suggest always answers 200: the result body carries either the
// suggestion text or an inline error message, so the page keeps
// rendering when the AI integration is down.
func (h *SuggestionController) Suggest(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body struct {
		Prompt string `json:"prompt"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := h.Svc.SuggestPlan(c.Request.Context(), userID, body.Prompt)
	c.JSON(http.StatusOK, res)
}
