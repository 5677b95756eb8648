package controller

import (
	"skillkart_backend/internal/service"
	"skillkart_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	Hub *service.NotificationHub
}

func NewNotificationController(hub *service.NotificationHub) *NotificationController {
	return &NotificationController{Hub: hub}
}

// HandleWS godoc
// @Summary 成就通知 WebSocket
// @Description 推送 topic_completed、badge_unlocked 事件；浏览器无法设置请求头，token 可通过查询参数传递
// @Tags 通知
// @Param token query string false "JWT"
// @Success 101 {string} string "Switching Protocols"
// @Router /api/ws [get]
func (ctrl *NotificationController) HandleWS(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}
	service.ServeWs(ctrl.Hub, c.Writer, c.Request, claims.UserID)
}
