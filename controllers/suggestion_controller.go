package controllers

import (
	"net/http"

	"loaf-backend/services"

	"github.com/gin-gonic/gin"
)

type SuggestionController struct {
	Svc *services.SuggestionService
}

func NewSuggestionController(svc *services.SuggestionService) *SuggestionController {
	return &SuggestionController{Svc: svc}
}

func (sc *SuggestionController) GetSuggestions(c *gin.Context) {
	uid := c.GetUint("userID")

	recs, err := sc.Svc.GetSuggestions(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": recs})
}

// GetSuggestionContext exposes the prompt inputs so the app can show what
// the advice was based on.
func (sc *SuggestionController) GetSuggestionContext(c *gin.Context) {
	uid := c.GetUint("userID")

	sctx, err := sc.Svc.BuildContext(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sctx)
}
