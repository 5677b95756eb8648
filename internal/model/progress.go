package model

import (
	"math"
	"time"
)

// UserProgress 每个 (用户, 路线) 一条记录
type UserProgress struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"uniqueIndex:idx_user_roadmap;not null" json:"userId"`
	RoadmapID uint            `gorm:"uniqueIndex:idx_user_roadmap;index;not null" json:"roadmapId"`
	Topics    []TopicProgress `gorm:"foreignKey:ProgressID;constraint:OnDelete:CASCADE" json:"progress"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}

// TopicProgress 单个主题的学习状态，completed 与 inProgress 互斥
type TopicProgress struct {
	ID         uint `gorm:"primaryKey" json:"-"`
	ProgressID uint `gorm:"uniqueIndex:idx_progress_topic;not null" json:"-"`
	WeekIndex  int  `gorm:"uniqueIndex:idx_progress_topic" json:"weekIndex"`
	TopicIndex int  `gorm:"uniqueIndex:idx_progress_topic" json:"topicIndex"`
	Completed  bool `gorm:"default:false" json:"completed"`
	InProgress bool `gorm:"default:false" json:"inProgress"`
}

func (TopicProgress) TableName() string {
	return "topic_progress"
}

// TopicStatePatch 为 nil 的字段保持不变
type TopicStatePatch struct {
	Completed  *bool
	InProgress *bool
}

func (p *UserProgress) FindTopic(weekIndex, topicIndex int) *TopicProgress {
	for i := range p.Topics {
		if p.Topics[i].WeekIndex == weekIndex && p.Topics[i].TopicIndex == topicIndex {
			return &p.Topics[i]
		}
	}
	return nil
}

// SetTopicState 找不到条目时按默认值创建，置 true 的标记会清除另一个标记
func (p *UserProgress) SetTopicState(weekIndex, topicIndex int, patch TopicStatePatch) *TopicProgress {
	tp := p.FindTopic(weekIndex, topicIndex)
	if tp == nil {
		p.Topics = append(p.Topics, TopicProgress{
			ProgressID: p.ID,
			WeekIndex:  weekIndex,
			TopicIndex: topicIndex,
		})
		tp = &p.Topics[len(p.Topics)-1]
	}

	if patch.Completed != nil {
		tp.Completed = *patch.Completed
		if tp.Completed {
			tp.InProgress = false
		}
	}
	if patch.InProgress != nil {
		tp.InProgress = *patch.InProgress
		if tp.InProgress {
			tp.Completed = false
		}
	}
	return tp
}

// Reset 清除两个标记，条目不存在时不做任何事
func (p *UserProgress) Reset(weekIndex, topicIndex int) bool {
	tp := p.FindTopic(weekIndex, topicIndex)
	if tp == nil {
		return false
	}
	tp.Completed = false
	tp.InProgress = false
	return true
}

func (p *UserProgress) CompletedCount() int {
	n := 0
	for _, tp := range p.Topics {
		if tp.Completed {
			n++
		}
	}
	return n
}

// CompletedIn 只统计仍存在于当前路线结构中的已完成主题
func (p *UserProgress) CompletedIn(r *Roadmap) int {
	n := 0
	for _, tp := range p.Topics {
		if tp.Completed && r.HasTopic(tp.WeekIndex, tp.TopicIndex) {
			n++
		}
	}
	return n
}

// Percentage round(100 * 已完成 / 主题总数)，分母按读取时的路线结构计算
func (p *UserProgress) Percentage(r *Roadmap) int {
	total := r.TopicCount()
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(p.CompletedIn(r)) / float64(total)))
}

type ProgressStatus string

const (
	StatusNotStarted ProgressStatus = "not_started"
	StatusInProgress ProgressStatus = "in_progress"
	StatusCompleted  ProgressStatus = "completed"
)

func StatusFor(percentage int, p *UserProgress) ProgressStatus {
	switch {
	case percentage >= 100:
		return StatusCompleted
	case percentage > 0:
		return StatusInProgress
	}
	for _, tp := range p.Topics {
		if tp.InProgress {
			return StatusInProgress
		}
	}
	return StatusNotStarted
}
