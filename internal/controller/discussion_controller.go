package controller

import (
	"skillkart_backend/internal/repository"
	"skillkart_backend/internal/service"
	"skillkart_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DiscussionController struct {
	DiscussionService *service.DiscussionService
}

func NewDiscussionController(discussionService *service.DiscussionService) *DiscussionController {
	return &DiscussionController{DiscussionService: discussionService}
}

// optionalIndex 读取可选的下标查询参数，未提供时返回 nil
func optionalIndex(ctx *gin.Context, name string) (*int, bool) {
	raw, exists := ctx.GetQuery(name)
	if !exists || raw == "" {
		return nil, true
	}
	idx, ok := util.ParseIndex(raw)
	if !ok {
		util.BadRequest(ctx, "invalid "+name)
		return nil, false
	}
	return &idx, true
}

// List godoc
// @Summary 路线讨论列表
// @Description 可按 weekIndex/topicIndex 过滤到单个主题
// @Tags 讨论
// @Produce json
// @Param id path int true "路线ID"
// @Param weekIndex query int false "周下标"
// @Param topicIndex query int false "主题下标"
// @Success 200 {object} util.Response{data=[]model.Discussion}
// @Router /api/roadmaps/{id}/discussions [get]
func (c *DiscussionController) List(ctx *gin.Context) {
	roadmapID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	filter := repository.DiscussionFilter{RoadmapID: roadmapID}
	if filter.WeekIndex, ok = optionalIndex(ctx, "weekIndex"); !ok {
		return
	}
	if filter.TopicIndex, ok = optionalIndex(ctx, "topicIndex"); !ok {
		return
	}
	list, err := c.DiscussionService.List(filter)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// Get godoc
// @Summary 讨论详情（含评论）
// @Tags 讨论
// @Produce json
// @Param id path string true "讨论ID"
// @Success 200 {object} util.Response{data=model.Discussion}
// @Router /api/discussions/{id} [get]
func (c *DiscussionController) Get(ctx *gin.Context) {
	d, err := c.DiscussionService.Get(ctx.Param("id"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, d)
}

// Create godoc
// @Summary 发起讨论
// @Tags 讨论
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "路线ID"
// @Param body body service.DiscussionRequest true "讨论内容"
// @Success 201 {object} util.Response{data=model.Discussion}
// @Router /api/roadmaps/{id}/discussions [post]
func (c *DiscussionController) Create(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	roadmapID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.DiscussionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	d, err := c.DiscussionService.Create(claims.UserID, roadmapID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, d)
}

// Update godoc
// @Summary 编辑讨论（仅作者）
// @Tags 讨论
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "讨论ID"
// @Param body body service.DiscussionRequest true "讨论内容"
// @Success 200 {object} util.Response{data=model.Discussion}
// @Failure 403 {object} util.Response
// @Router /api/discussions/{id} [put]
func (c *DiscussionController) Update(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req service.DiscussionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	d, err := c.DiscussionService.Update(claims.UserID, ctx.Param("id"), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, d)
}

// Delete godoc
// @Summary 删除讨论（仅作者）
// @Tags 讨论
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "讨论ID"
// @Success 200 {object} util.Response
// @Router /api/discussions/{id} [delete]
func (c *DiscussionController) Delete(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	if err := c.DiscussionService.Delete(claims.UserID, ctx.Param("id")); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Discussion deleted"})
}

// ToggleLike godoc
// @Summary 点赞/取消点赞讨论
// @Tags 讨论
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "讨论ID"
// @Success 200 {object} util.Response{data=service.LikeResult}
// @Router /api/discussions/{id}/like [put]
func (c *DiscussionController) ToggleLike(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	result, err := c.DiscussionService.ToggleDiscussionLike(claims.UserID, ctx.Param("id"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// AddComment godoc
// @Summary 发表评论
// @Tags 讨论
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "讨论ID"
// @Param body body service.CommentRequest true "评论内容"
// @Success 201 {object} util.Response{data=model.DiscussionComment}
// @Router /api/discussions/{id}/comments [post]
func (c *DiscussionController) AddComment(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req service.CommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	comment, err := c.DiscussionService.AddComment(claims.UserID, ctx.Param("id"), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, comment)
}

// UpdateComment godoc
// @Summary 编辑评论（仅作者）
// @Tags 讨论
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "讨论ID"
// @Param commentId path string true "评论ID"
// @Param body body service.CommentRequest true "评论内容"
// @Success 200 {object} util.Response{data=model.DiscussionComment}
// @Router /api/discussions/{id}/comments/{commentId} [put]
func (c *DiscussionController) UpdateComment(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req service.CommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	comment, err := c.DiscussionService.UpdateComment(claims.UserID, ctx.Param("commentId"), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, comment)
}

// DeleteComment godoc
// @Summary 删除评论（仅作者）
// @Tags 讨论
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "讨论ID"
// @Param commentId path string true "评论ID"
// @Success 200 {object} util.Response
// @Router /api/discussions/{id}/comments/{commentId} [delete]
func (c *DiscussionController) DeleteComment(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	if err := c.DiscussionService.DeleteComment(claims.UserID, ctx.Param("commentId")); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Comment deleted"})
}

// ToggleCommentLike godoc
// @Summary 点赞/取消点赞评论
// @Tags 讨论
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "讨论ID"
// @Param commentId path string true "评论ID"
// @Success 200 {object} util.Response{data=service.LikeResult}
// @Router /api/discussions/{id}/comments/{commentId}/like [put]
func (c *DiscussionController) ToggleCommentLike(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	result, err := c.DiscussionService.ToggleCommentLike(claims.UserID, ctx.Param("commentId"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
