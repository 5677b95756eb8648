package controller

import (
	"fmt"
	"net/http"

	"skillkart_backend/internal/service"
	"skillkart_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// Stats godoc
// @Summary 管理员统计面板
// @Description 仅统计当前管理员创建的路线
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.AdminStats}
// @Router /api/admin/stats [get]
func (c *AnalyticsController) Stats(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	stats, err := c.AnalyticsService.AdminStats(claims.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// RoadmapLearners godoc
// @Summary 路线学员进度列表
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "路线ID"
// @Success 200 {object} util.Response{data=[]model.LearnerProgress}
// @Router /api/admin/roadmaps/{id}/progress [get]
func (c *AnalyticsController) RoadmapLearners(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	learners, err := c.AnalyticsService.RoadmapLearners(claims.UserID, id)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, learners)
}

// UserCount godoc
// @Summary 路线学员数
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "路线ID"
// @Success 200 {object} util.Response
// @Router /api/admin/roadmaps/{id}/usercount [get]
func (c *AnalyticsController) UserCount(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	count, err := c.AnalyticsService.RoadmapUserCount(claims.UserID, id)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"count": count})
}

// Export godoc
// @Summary 导出路线学员进度（XLSX）
// @Tags 管理
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security ApiKeyAuth
// @Param id path int true "路线ID"
// @Success 200 {file} file
// @Router /api/admin/roadmaps/{id}/export [get]
func (c *AnalyticsController) Export(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	buf, err := c.AnalyticsService.ExportRoadmapLearners(claims.UserID, id)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="roadmap-%d-learners.xlsx"`, id))
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
