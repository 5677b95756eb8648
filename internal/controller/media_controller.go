package controller

import (
	"net/http"
	"strconv"

	"skillkart_backend/internal/service"
	"skillkart_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// 上传上限 200MB
const maxUploadSize = 200 << 20

type MediaController struct {
	MediaService   *service.MediaService
	ArticleService *service.ArticleService
}

func NewMediaController(mediaService *service.MediaService, articleService *service.ArticleService) *MediaController {
	return &MediaController{
		MediaService:   mediaService,
		ArticleService: articleService,
	}
}

// Upload godoc
// @Summary 上传资源文件
// @Description 支持视频与图片，视频会探测时长（分钟）
// @Tags 管理
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "文件"
// @Success 201 {object} util.Response{data=service.MediaUploadResult}
// @Failure 400 {object} util.Response
// @Failure 413 {object} util.Response
// @Router /api/admin/resources/upload [post]
func (c *MediaController) Upload(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	if fileHeader.Size > maxUploadSize {
		util.Error(ctx, http.StatusRequestEntityTooLarge, "file too large")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	result, err := c.MediaService.Upload(ctx.Request.Context(), fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// CreateArticle godoc
// @Summary 保存站内编写的文章
// @Description 返回的 url 可直接作为文章资源的地址
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ArticleRequest true "文章"
// @Success 201 {object} util.Response{data=model.Article}
// @Router /api/admin/articles [post]
func (c *MediaController) CreateArticle(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req service.ArticleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	article, err := c.ArticleService.Create(claims.UserID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{
		"article": article,
		"url":     util.CustomArticlePrefix + strconv.FormatUint(uint64(article.ID), 10),
	})
}

// ListArticles godoc
// @Summary 当前管理员编写的文章
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Article}
// @Router /api/admin/articles [get]
func (c *MediaController) ListArticles(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	list, err := c.ArticleService.ListMine(claims.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// GetArticle godoc
// @Summary 文章详情
// @Tags 文章
// @Produce json
// @Param id path int true "文章ID"
// @Success 200 {object} util.Response{data=model.Article}
// @Router /api/articles/{id} [get]
func (c *MediaController) GetArticle(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	article, err := c.ArticleService.Get(id)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, article)
}
