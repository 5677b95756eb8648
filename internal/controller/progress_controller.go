package controller

import (
	"skillkart_backend/internal/service"
	"skillkart_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// Complete godoc
// @Summary 标记主题已完成
// @Description 首次完成时发放 XP、更新连续学习天数并检查徽章；重复完成不会重复计分
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "路线ID"
// @Param weekIndex path int true "周下标"
// @Param topicIndex path int true "主题下标"
// @Success 200 {object} util.Response{data=service.CompletionResult}
// @Failure 404 {object} util.Response
// @Router /api/roadmaps/{id}/topics/{weekIndex}/{topicIndex}/complete [put]
func (c *ProgressController) Complete(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	roadmapID, weekIndex, topicIndex, ok := topicPath(ctx)
	if !ok {
		return
	}
	result, err := c.ProgressService.CompleteTopic(ctx.Request.Context(), claims.UserID, roadmapID, weekIndex, topicIndex)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// InProgress godoc
// @Summary 标记主题学习中
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "路线ID"
// @Param weekIndex path int true "周下标"
// @Param topicIndex path int true "主题下标"
// @Success 200 {object} util.Response{data=service.ProgressResult}
// @Router /api/roadmaps/{id}/topics/{weekIndex}/{topicIndex}/inprogress [put]
func (c *ProgressController) InProgress(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	roadmapID, weekIndex, topicIndex, ok := topicPath(ctx)
	if !ok {
		return
	}
	result, err := c.ProgressService.MarkInProgress(ctx.Request.Context(), claims.UserID, roadmapID, weekIndex, topicIndex)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Reset godoc
// @Summary 重置主题状态
// @Description 已获得的 XP 与徽章不会被收回
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "路线ID"
// @Param weekIndex path int true "周下标"
// @Param topicIndex path int true "主题下标"
// @Success 200 {object} util.Response{data=service.ProgressResult}
// @Failure 404 {object} util.Response "尚无学习记录"
// @Router /api/roadmaps/{id}/topics/{weekIndex}/{topicIndex}/reset [put]
func (c *ProgressController) Reset(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	roadmapID, weekIndex, topicIndex, ok := topicPath(ctx)
	if !ok {
		return
	}
	result, err := c.ProgressService.ResetTopic(ctx.Request.Context(), claims.UserID, roadmapID, weekIndex, topicIndex)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GetProgress godoc
// @Summary 获取当前用户在路线上的进度
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "路线ID"
// @Success 200 {object} util.Response{data=model.RoadmapProgressView}
// @Router /api/roadmaps/{id}/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	roadmapID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	view, err := c.ProgressService.GetProgress(ctx.Request.Context(), claims.UserID, roadmapID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// MyRoadmaps godoc
// @Summary 当前用户参与的路线及完成度
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.MyRoadmap}
// @Router /api/users/me/roadmaps [get]
func (c *ProgressController) MyRoadmaps(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	list, err := c.ProgressService.ListMyRoadmaps(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, list)
}
