package service

import (
	"math"

	"skillkart_backend/internal/model"
)

// AggregateRoadmap 单条路线的学员数与平均完成度
func AggregateRoadmap(roadmap *model.Roadmap, progresses []model.UserProgress) model.RoadmapStats {
	stats := model.RoadmapStats{
		RoadmapID: roadmap.ID,
		Title:     roadmap.Title,
		UserCount: len(progresses),
	}
	if len(progresses) == 0 {
		return stats
	}
	sum := 0
	for i := range progresses {
		sum += progresses[i].Percentage(roadmap)
	}
	stats.AverageProgress = int(math.Round(float64(sum) / float64(len(progresses))))
	return stats
}

// AggregateAdmin 汇总管理员名下的所有路线；同一学员参与多条路线时重复计数
func AggregateAdmin(roadmaps []model.Roadmap, progressByRoadmap map[uint][]model.UserProgress) model.AdminStats {
	stats := model.AdminStats{
		ActiveRoadmaps: len(roadmaps),
		Roadmaps:       make([]model.RoadmapStats, 0, len(roadmaps)),
	}
	sum, count := 0, 0
	for i := range roadmaps {
		r := &roadmaps[i]
		progresses := progressByRoadmap[r.ID]
		stats.TotalUsers += len(progresses)
		for j := range progresses {
			pct := progresses[j].Percentage(r)
			if pct == 100 {
				stats.TotalCompletions++
			}
			sum += pct
			count++
		}
		stats.Roadmaps = append(stats.Roadmaps, AggregateRoadmap(r, progresses))
	}
	if count > 0 {
		stats.AverageProgress = int(math.Round(float64(sum) / float64(count)))
	}
	return stats
}
