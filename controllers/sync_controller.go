package controllers

import (
	"net/http"
	"time"

	"loaf-backend/services"
	"loaf-backend/utils"

	"github.com/gin-gonic/gin"
)

type SyncController struct {
	Svc *services.SyncService
}

func NewSyncController(svc *services.SyncService) *SyncController {
	return &SyncController{Svc: svc}
}

// Push backs up the last 90 days unless the caller narrows the window.
func (sc *SyncController) Push(c *gin.Context) {
	uid := c.GetUint("userID")

	to := c.DefaultQuery("to", utils.TodayDate())
	from := c.DefaultQuery("from", utils.FormatDate(time.Now().AddDate(0, 0, -90)))
	if _, err := utils.ParseDate(from); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
		return
	}
	if _, err := utils.ParseDate(to); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}

	res, err := sc.Svc.PushAll(c.Request.Context(), uid, from, to)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (sc *SyncController) Pull(c *gin.Context) {
	uid := c.GetUint("userID")

	res, err := sc.Svc.PullAll(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}
