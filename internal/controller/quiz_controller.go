package controller

import (
	"skillkart_backend/internal/service"
	"skillkart_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// Submit godoc
// @Summary 提交测验答案
// @Description answers 与题目一一对应，null 表示未作答；得分过半视为通过
// @Tags 测验
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "路线ID"
// @Param body body service.QuizSubmission true "作答"
// @Success 200 {object} util.Response{data=service.QuizResult}
// @Failure 400 {object} util.Response
// @Router /api/roadmaps/{id}/quiz [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	roadmapID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.QuizSubmission
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	result, err := c.QuizService.Submit(ctx.Request.Context(), claims.UserID, roadmapID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// History godoc
// @Summary 测验作答记录
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "路线ID"
// @Success 200 {object} util.Response{data=[]model.QuizAttempt}
// @Router /api/roadmaps/{id}/quiz/attempts [get]
func (c *QuizController) History(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	roadmapID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	attempts, err := c.QuizService.History(claims.UserID, roadmapID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}
