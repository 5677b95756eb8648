package model

import (
	"time"

	"gorm.io/datatypes"
)

// QuizAttempt 存储用户对某个测验资源的一次作答
type QuizAttempt struct {
	ID            uint                     `gorm:"primaryKey" json:"id"`
	UserID        uint                     `gorm:"index:idx_attempt_user_roadmap;not null" json:"userId"`
	RoadmapID     uint                     `gorm:"index:idx_attempt_user_roadmap;not null" json:"roadmapId"`
	WeekIndex     int                      `json:"weekIndex"`
	TopicIndex    int                      `json:"topicIndex"`
	ResourceIndex int                      `json:"resourceIndex"`
	Score         int                      `gorm:"not null" json:"score"`
	Total         int                      `gorm:"not null" json:"total"`
	Answers       datatypes.JSONSlice[int] `json:"answers"` // 选项下标
	CreatedAt     time.Time                `json:"createdAt"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

func (a QuizAttempt) Passed() bool {
	return a.Total > 0 && a.Score*2 >= a.Total
}
