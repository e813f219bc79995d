package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/ruei-yu/activity-checkin-points/config"
	"github.com/ruei-yu/activity-checkin-points/points"
	"github.com/ruei-yu/activity-checkin-points/utils"
)

// ConfigController exposes the read-only category and reward tables so the
// check-in UI can render selectors and threshold hints.
type ConfigController struct {
	catalog *points.Catalog
}

func NewConfigController(catalog *points.Catalog) *ConfigController {
	return &ConfigController{catalog: catalog}
}

// GetCategories returns the category table in configuration order.
func (c *ConfigController) GetCategories(ctx *gin.Context) {
	utils.Success(ctx, c.catalog.Defs())
}

// GetRewards returns the reward threshold table.
func (c *ConfigController) GetRewards(ctx *gin.Context) {
	utils.Success(ctx, config.Get().Rewards)
}
