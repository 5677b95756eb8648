package util

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrRoadmapNotFound    = errors.New("roadmap not found")
	ErrProgressNotFound   = errors.New("progress not found")
	ErrTopicNotFound      = errors.New("topic not found")
	ErrResourceNotFound   = errors.New("resource not found")
	ErrNotAQuiz           = errors.New("resource is not a quiz")
	ErrDiscussionNotFound = errors.New("discussion not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrArticleNotFound    = errors.New("article not found")
	ErrInvalidRole        = errors.New("invalid role")
)

// ValidationIssue 单条校验问题，Week/Topic 为 0 起始下标，-1 表示不适用
type ValidationIssue struct {
	Field   string `json:"field"`
	Week    int    `json:"week"`
	Topic   int    `json:"topic"`
	Message string `json:"message"`
}

type ValidationError struct {
	Issues []ValidationIssue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, i := range e.Issues {
		msgs = append(msgs, i.Message)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Issues: []ValidationIssue{{Field: field, Week: -1, Topic: -1, Message: message}}}
}

// IsNotFound 判断是否为任一“不存在”类错误
func IsNotFound(err error) bool {
	for _, target := range []error{
		ErrUserNotFound, ErrRoadmapNotFound, ErrProgressNotFound, ErrTopicNotFound,
		ErrResourceNotFound, ErrDiscussionNotFound, ErrCommentNotFound, ErrArticleNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
