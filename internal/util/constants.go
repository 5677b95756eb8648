package util

const TimeFormat = "2006-01-02 15:04:05"

// 远端存储类型，其余取值使用本地存储
const (
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 文件上传相关常量
const (
	MimeVideo = "video/"
	MimeImage = "image/"
	MimePDF   = "application/pdf"
)

const (
	XPPerTopic          = 10
	CustomArticlePrefix = "custom-article-"
)

// 徽章名称
const (
	BadgeFirstCompletion = "First Completion"
	Badge3DayStreak      = "3-Day Streak"
	Badge7DayStreak      = "7-Day Streak"
	Badge10Topics        = "10 Topics Completed"
)

var (
	AllowedVideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".wmv", ".flv", ".webm"}
	AllowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
)
