package model

import (
	"time"

	"gorm.io/datatypes"
)

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

func (d Difficulty) Valid() bool {
	switch d {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

// Roadmap 由管理员编写的多周学习路线，周/主题/资源整体以 JSON 文档存储
// swagger:model Roadmap
type Roadmap struct {
	BaseModel
	Title       string                    `gorm:"size:255;not null" json:"title"`
	Description string                    `gorm:"type:text" json:"description"`
	Category    string                    `gorm:"size:100;index;not null" json:"category"`
	Difficulty  Difficulty                `gorm:"size:20;index;default:'beginner'" json:"difficulty"`
	Duration    int                       `gorm:"default:0" json:"duration"`
	CreatedBy   uint                      `gorm:"index;not null" json:"createdBy"`
	Author      *User                     `gorm:"foreignKey:CreatedBy" json:"author,omitempty"`
	Weeks       datatypes.JSONSlice[Week] `json:"weeks"`
}

func (Roadmap) TableName() string {
	return "roadmaps"
}

type Week struct {
	WeekNumber  int     `json:"weekNumber" yaml:"weekNumber"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description,omitempty" yaml:"description"`
	Topics      []Topic `json:"topics" yaml:"topics"`
}

type Topic struct {
	Title         string     `json:"title" yaml:"title"`
	Description   string     `json:"description,omitempty" yaml:"description"`
	EstimatedTime float64    `json:"estimatedTime,omitempty" yaml:"estimatedTime"`
	Order         int        `json:"order,omitempty" yaml:"order"`
	Resources     []Resource `json:"resources" yaml:"resources"`
}

// TopicCount 当前路线中所有周的主题总数
func (r *Roadmap) TopicCount() int {
	total := 0
	for _, w := range r.Weeks {
		total += len(w.Topics)
	}
	return total
}

// HasTopic 判断 (weekIndex, topicIndex) 是否存在于当前路线结构中
func (r *Roadmap) HasTopic(weekIndex, topicIndex int) bool {
	if weekIndex < 0 || weekIndex >= len(r.Weeks) {
		return false
	}
	return topicIndex >= 0 && topicIndex < len(r.Weeks[weekIndex].Topics)
}

func (r *Roadmap) Topic(weekIndex, topicIndex int) (*Topic, bool) {
	if !r.HasTopic(weekIndex, topicIndex) {
		return nil, false
	}
	return &r.Weeks[weekIndex].Topics[topicIndex], true
}

// Summary 列表页使用的精简视图，不含资源明细
func (r *Roadmap) Summary() RoadmapSummary {
	weeks := make([]WeekSummary, len(r.Weeks))
	for i, w := range r.Weeks {
		topics := make([]string, len(w.Topics))
		for j, t := range w.Topics {
			topics[j] = t.Title
		}
		weeks[i] = WeekSummary{WeekNumber: w.WeekNumber, Title: w.Title, Topics: topics}
	}
	return RoadmapSummary{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Difficulty:  r.Difficulty,
		Duration:    r.Duration,
		CreatedBy:   r.CreatedBy,
		TopicCount:  r.TopicCount(),
		Weeks:       weeks,
		CreatedAt:   r.CreatedAt,
	}
}

type RoadmapSummary struct {
	ID          uint          `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Difficulty  Difficulty    `json:"difficulty"`
	Duration    int           `json:"duration"`
	CreatedBy   uint          `json:"createdBy"`
	TopicCount  int           `json:"topicCount"`
	Weeks       []WeekSummary `json:"weeks"`
	CreatedAt   time.Time     `json:"createdAt"`
}

type WeekSummary struct {
	WeekNumber int      `json:"weekNumber"`
	Title      string   `json:"title"`
	Topics     []string `json:"topics"`
}
