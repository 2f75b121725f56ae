package handler

import (
	"time"

	"keepnotes/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HealthHandler struct {
	Environment string
	StoreDriver string
	Logger      *zap.Logger
}

// Health always answers 200 while the process can serve; host readings are
// best effort.
func (h *HealthHandler) Health(c *gin.Context) {
	stats, err := utils.ReadSystemStats(c.Request.Context())
	if err != nil {
		h.Logger.Debug("system stats unavailable", zap.Error(err))
	}

	utils.Success(c, "Server is running", gin.H{
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"environment":    h.Environment,
		"store":          h.StoreDriver,
		"cpuPercent":     stats.CPUPercent,
		"memUsedPercent": stats.MemUsedPercent,
	})
}
