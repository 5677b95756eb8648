package controller

import (
	"strconv"

	"skillkart_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// pathID 解析路径中的数字 ID，失败时直接写入 400 响应
func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// pathIndex 解析周/主题下标；越界（含负数）由服务层返回 404
func pathIndex(ctx *gin.Context, name string) (int, bool) {
	idx, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return idx, true
}

// topicPath 解析 /:id/topics/:weekIndex/:topicIndex
func topicPath(ctx *gin.Context) (roadmapID uint, weekIndex, topicIndex int, ok bool) {
	if roadmapID, ok = pathID(ctx, "id"); !ok {
		return
	}
	if weekIndex, ok = pathIndex(ctx, "weekIndex"); !ok {
		return
	}
	topicIndex, ok = pathIndex(ctx, "topicIndex")
	return
}

func currentUser(ctx *gin.Context) (*util.Claims, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return nil, false
	}
	return claims, true
}
