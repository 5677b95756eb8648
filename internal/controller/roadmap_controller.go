package controller

import (
	"io"
	"net/http"

	"skillkart_backend/internal/model"
	"skillkart_backend/internal/service"
	"skillkart_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// 导入文件上限 2MB
const maxImportSize = 2 << 20

type RoadmapController struct {
	RoadmapService *service.RoadmapService
}

func NewRoadmapController(roadmapService *service.RoadmapService) *RoadmapController {
	return &RoadmapController{RoadmapService: roadmapService}
}

// List godoc
// @Summary 路线目录
// @Description 列表不包含资源明细
// @Tags 路线
// @Produce json
// @Success 200 {object} util.Response{data=[]model.RoadmapSummary}
// @Router /api/roadmaps [get]
func (c *RoadmapController) List(ctx *gin.Context) {
	list, err := c.RoadmapService.List(ctx.Request.Context())
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// Get godoc
// @Summary 路线详情
// @Tags 路线
// @Produce json
// @Param id path int true "路线ID"
// @Success 200 {object} util.Response{data=model.Roadmap}
// @Failure 404 {object} util.Response
// @Router /api/roadmaps/{id} [get]
func (c *RoadmapController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	roadmap, err := c.RoadmapService.Get(id)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, roadmap)
}

// ListByCategory godoc
// @Summary 按分类查询路线
// @Tags 路线
// @Produce json
// @Param category path string true "分类"
// @Success 200 {object} util.Response{data=[]model.RoadmapSummary}
// @Router /api/roadmaps/category/{category} [get]
func (c *RoadmapController) ListByCategory(ctx *gin.Context) {
	list, err := c.RoadmapService.ListByCategory(ctx.Request.Context(), ctx.Param("category"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// ListByDifficulty godoc
// @Summary 按难度查询路线
// @Tags 路线
// @Produce json
// @Param difficulty path string true "beginner/intermediate/advanced"
// @Success 200 {object} util.Response{data=[]model.RoadmapSummary}
// @Failure 400 {object} util.Response
// @Router /api/roadmaps/difficulty/{difficulty} [get]
func (c *RoadmapController) ListByDifficulty(ctx *gin.Context) {
	difficulty := model.Difficulty(ctx.Param("difficulty"))
	if !difficulty.Valid() {
		util.BadRequest(ctx, "invalid difficulty")
		return
	}
	list, err := c.RoadmapService.ListByDifficulty(ctx.Request.Context(), difficulty)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// ---------- 管理员 ----------

// ListMine godoc
// @Summary 当前管理员创建的路线
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Roadmap}
// @Router /api/admin/roadmaps [get]
func (c *RoadmapController) ListMine(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	list, err := c.RoadmapService.ListMine(claims.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// Create godoc
// @Summary 创建路线
// @Description wizard=true 时使用向导规则（每个主题至少若干个资源）
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.RoadmapRequest true "路线内容"
// @Success 201 {object} util.Response{data=model.Roadmap}
// @Failure 400 {object} util.Response "校验失败，data.issues 列出具体字段"
// @Router /api/admin/roadmaps [post]
func (c *RoadmapController) Create(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req service.RoadmapRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	roadmap, err := c.RoadmapService.Create(ctx.Request.Context(), claims.UserID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, roadmap)
}

// Update godoc
// @Summary 更新路线（仅作者）
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "路线ID"
// @Param body body service.RoadmapRequest true "路线内容"
// @Success 200 {object} util.Response{data=model.Roadmap}
// @Failure 403 {object} util.Response
// @Router /api/admin/roadmaps/{id} [put]
func (c *RoadmapController) Update(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.RoadmapRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	roadmap, err := c.RoadmapService.Update(ctx.Request.Context(), claims.UserID, id, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, roadmap)
}

// Delete godoc
// @Summary 删除路线（仅作者），同时删除学员进度与讨论
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "路线ID"
// @Success 200 {object} util.Response
// @Router /api/admin/roadmaps/{id} [delete]
func (c *RoadmapController) Delete(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	removed, err := c.RoadmapService.Delete(ctx.Request.Context(), claims.UserID, id)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"message":                "Roadmap deleted",
		"deletedProgressRecords": removed,
	})
}

// AddTopic godoc
// @Summary 向指定周添加主题
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "路线ID"
// @Param weekIndex path int true "周下标"
// @Param body body service.TopicRequest true "主题"
// @Success 201 {object} util.Response{data=model.Roadmap}
// @Router /api/admin/roadmaps/{id}/weeks/{weekIndex}/topics [post]
func (c *RoadmapController) AddTopic(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	weekIndex, ok := pathIndex(ctx, "weekIndex")
	if !ok {
		return
	}
	var req service.TopicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	roadmap, err := c.RoadmapService.AddTopic(ctx.Request.Context(), claims.UserID, id, weekIndex, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, roadmap)
}

// UpdateTopic godoc
// @Summary 修改主题，未提供的字段保持不变
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "路线ID"
// @Param weekIndex path int true "周下标"
// @Param topicIndex path int true "主题下标"
// @Param body body service.TopicRequest true "主题"
// @Success 200 {object} util.Response{data=model.Roadmap}
// @Router /api/admin/roadmaps/{id}/weeks/{weekIndex}/topics/{topicIndex} [put]
func (c *RoadmapController) UpdateTopic(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, weekIndex, topicIndex, ok := topicPath(ctx)
	if !ok {
		return
	}
	var req service.TopicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	roadmap, err := c.RoadmapService.UpdateTopic(ctx.Request.Context(), claims.UserID, id, weekIndex, topicIndex, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, roadmap)
}

// DeleteTopic godoc
// @Summary 删除主题
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "路线ID"
// @Param weekIndex path int true "周下标"
// @Param topicIndex path int true "主题下标"
// @Success 200 {object} util.Response
// @Router /api/admin/roadmaps/{id}/weeks/{weekIndex}/topics/{topicIndex} [delete]
func (c *RoadmapController) DeleteTopic(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, weekIndex, topicIndex, ok := topicPath(ctx)
	if !ok {
		return
	}
	if err := c.RoadmapService.DeleteTopic(ctx.Request.Context(), claims.UserID, id, weekIndex, topicIndex); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Topic deleted"})
}

// AddResource godoc
// @Summary 向主题追加资源
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "路线ID"
// @Param weekIndex path int true "周下标"
// @Param topicIndex path int true "主题下标"
// @Param body body model.Resource true "资源"
// @Success 201 {object} util.Response{data=model.Roadmap}
// @Router /api/admin/roadmaps/{id}/weeks/{weekIndex}/topics/{topicIndex}/resources [post]
func (c *RoadmapController) AddResource(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, weekIndex, topicIndex, ok := topicPath(ctx)
	if !ok {
		return
	}
	var res model.Resource
	if err := ctx.ShouldBindJSON(&res); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	roadmap, err := c.RoadmapService.AddResource(ctx.Request.Context(), claims.UserID, id, weekIndex, topicIndex, res)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, roadmap)
}

// Import godoc
// @Summary 从 YAML 文件批量导入路线
// @Description 任意一条校验失败则整体不导入
// @Tags 管理
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "roadmaps.yaml"
// @Success 201 {object} util.Response{data=[]model.Roadmap}
// @Failure 400 {object} util.Response
// @Router /api/admin/roadmaps/import [post]
func (c *RoadmapController) Import(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	if fileHeader.Size > maxImportSize {
		util.Error(ctx, http.StatusRequestEntityTooLarge, "file too large")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	roadmaps, err := c.RoadmapService.ImportYAML(ctx.Request.Context(), claims.UserID, data)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, roadmaps)
}
