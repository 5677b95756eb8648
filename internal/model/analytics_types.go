package model

import "time"

// RoadmapStats 单条路线的学习统计
type RoadmapStats struct {
	RoadmapID       uint   `json:"roadmapId"`
	Title           string `json:"title"`
	UserCount       int    `json:"userCount"`
	AverageProgress int    `json:"averageProgress"`
}

// AdminStats 管理员名下所有路线的汇总，TotalUsers 不跨路线去重
type AdminStats struct {
	ActiveRoadmaps   int            `json:"activeRoadmaps"`
	TotalUsers       int            `json:"totalUsers"`
	TotalCompletions int            `json:"totalCompletions"`
	AverageProgress  int            `json:"averageProgress"`
	Roadmaps         []RoadmapStats `json:"roadmaps"`
}

// LearnerProgress 路线学员列表中的一行
type LearnerProgress struct {
	UserID          uint           `json:"userId"`
	Email           string         `json:"email"`
	Name            string         `json:"name"`
	Interests       []string       `json:"interests"`
	LearningGoals   string         `json:"learningGoals"`
	Percentage      int            `json:"percentage"`
	CompletedTopics int            `json:"completedTopics"`
	TotalTopics     int            `json:"totalTopics"`
	Status          ProgressStatus `json:"status"`
	LastActivity    time.Time      `json:"lastActivity"`
	StartedAt       time.Time      `json:"startedAt"`
}

// RoadmapProgressView 学员查看自己在某条路线上的进度
type RoadmapProgressView struct {
	RoadmapID  uint            `json:"roadmapId"`
	Progress   []TopicProgress `json:"progress"`
	Percentage int             `json:"percentage"`
}

// MyRoadmap 学员已参与的路线及完成度
type MyRoadmap struct {
	Roadmap    RoadmapSummary `json:"roadmap"`
	Percentage int            `json:"percentage"`
	Status     ProgressStatus `json:"status"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}
