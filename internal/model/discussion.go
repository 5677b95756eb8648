package model

import (
	"time"

	"gorm.io/datatypes"
)

// Discussion 挂在路线（可选具体主题）下的讨论帖
type Discussion struct {
	UUIDBase
	RoadmapID  uint                        `gorm:"index;not null" json:"roadmapId"`
	WeekIndex  *int                        `json:"weekIndex,omitempty"`
	TopicIndex *int                        `json:"topicIndex,omitempty"`
	AuthorID   uint                        `gorm:"index;not null" json:"authorId"`
	Author     User                        `gorm:"foreignKey:AuthorID" json:"author"`
	Title      string                      `gorm:"size:255;not null" json:"title"`
	Content    string                      `gorm:"type:text;not null" json:"content"`
	Tags       datatypes.JSONSlice[string] `json:"tags"`
	Likes      int                         `gorm:"default:0" json:"likes"`
	Comments   []DiscussionComment         `gorm:"foreignKey:DiscussionID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

func (Discussion) TableName() string {
	return "discussions"
}

type DiscussionComment struct {
	UUIDBase
	DiscussionID string `gorm:"index;type:varchar(36)" json:"discussionId"`
	AuthorID     uint   `gorm:"index;not null" json:"authorId"`
	Author       User   `gorm:"foreignKey:AuthorID" json:"author"`
	Content      string `gorm:"type:text;not null" json:"content"`
	Likes        int    `gorm:"default:0" json:"likes"`
}

func (DiscussionComment) TableName() string {
	return "discussion_comments"
}

const (
	LikeDiscussion = "discussion"
	LikeComment    = "comment"
)

// DiscussionLike 同一用户对同一内容只能点赞一次
type DiscussionLike struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UserID      uint      `gorm:"uniqueIndex:idx_user_content" json:"userId"`
	ContentType string    `gorm:"uniqueIndex:idx_user_content;size:20" json:"contentType"` // discussion, comment
	ContentID   string    `gorm:"uniqueIndex:idx_user_content;size:36" json:"contentId"`
}

func (DiscussionLike) TableName() string {
	return "discussion_likes"
}
