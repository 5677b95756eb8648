package service

import (
	"bytes"
	"errors"
	"sort"
	"strings"

	"skillkart_backend/internal/model"
	"skillkart_backend/internal/repository"
	"skillkart_backend/internal/util"
	"skillkart_backend/pkg/logger"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AnalyticsService struct {
	RoadmapRepo  *repository.RoadmapRepository
	ProgressRepo *repository.ProgressRepository
	UserRepo     *repository.UserRepository
}

func NewAnalyticsService(
	roadmapRepo *repository.RoadmapRepository,
	progressRepo *repository.ProgressRepository,
	userRepo *repository.UserRepository,
) *AnalyticsService {
	return &AnalyticsService{
		RoadmapRepo:  roadmapRepo,
		ProgressRepo: progressRepo,
		UserRepo:     userRepo,
	}
}

func (s *AnalyticsService) AdminStats(adminID uint) (*model.AdminStats, error) {
	roadmaps, err := s.RoadmapRepo.FindAll(repository.RoadmapFilter{CreatedBy: adminID})
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(roadmaps))
	for i := range roadmaps {
		ids[i] = roadmaps[i].ID
	}
	grouped, err := s.ProgressRepo.FindAllByRoadmaps(ids)
	if err != nil {
		return nil, err
	}
	stats := AggregateAdmin(roadmaps, grouped)
	return &stats, nil
}

func (s *AnalyticsService) ownedRoadmap(adminID, roadmapID uint) (*model.Roadmap, error) {
	roadmap, err := s.RoadmapRepo.FindByID(roadmapID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrRoadmapNotFound
	} else if err != nil {
		return nil, err
	}
	if roadmap.CreatedBy != adminID {
		return nil, util.ErrPermissionDenied
	}
	return roadmap, nil
}

func (s *AnalyticsService) RoadmapUserCount(adminID, roadmapID uint) (int64, error) {
	if _, err := s.ownedRoadmap(adminID, roadmapID); err != nil {
		return 0, err
	}
	return s.ProgressRepo.CountByRoadmap(roadmapID)
}

// RoadmapLearners 按最近活动倒序
func (s *AnalyticsService) RoadmapLearners(adminID, roadmapID uint) ([]model.LearnerProgress, error) {
	roadmap, err := s.ownedRoadmap(adminID, roadmapID)
	if err != nil {
		return nil, err
	}
	progresses, err := s.ProgressRepo.FindAllByRoadmap(roadmapID)
	if err != nil {
		return nil, err
	}
	userIDs := make([]uint, len(progresses))
	for i, p := range progresses {
		userIDs[i] = p.UserID
	}
	users, err := s.UserRepo.FindByIDs(userIDs)
	if err != nil {
		return nil, err
	}

	learners := make([]model.LearnerProgress, 0, len(progresses))
	total := roadmap.TopicCount()
	for i := range progresses {
		p := &progresses[i]
		u := users[p.UserID]
		name := u.Profile.Name
		if name == "" {
			name = "Anonymous"
		}
		pct := p.Percentage(roadmap)
		learners = append(learners, model.LearnerProgress{
			UserID:          p.UserID,
			Email:           u.Email,
			Name:            name,
			Interests:       append([]string{}, u.Profile.Interests...),
			LearningGoals:   u.Profile.LearningGoals,
			Percentage:      pct,
			CompletedTopics: p.CompletedIn(roadmap),
			TotalTopics:     total,
			Status:          model.StatusFor(pct, p),
			LastActivity:    p.UpdatedAt,
			StartedAt:       p.CreatedAt,
		})
	}
	sort.SliceStable(learners, func(i, j int) bool {
		return learners[i].LastActivity.After(learners[j].LastActivity)
	})
	return learners, nil
}

// ExportRoadmapLearners 生成学员进度 XLSX
func (s *AnalyticsService) ExportRoadmapLearners(adminID, roadmapID uint) (*bytes.Buffer, error) {
	learners, err := s.RoadmapLearners(adminID, roadmapID)
	if err != nil {
		return nil, err
	}
	return buildLearnersWorkbook(learners)
}

const learnersSheet = "Learners"

func buildLearnersWorkbook(learners []model.LearnerProgress) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Log.Warn("Failed to close workbook", zap.Error(err))
		}
	}()

	if err := f.SetSheetName("Sheet1", learnersSheet); err != nil {
		return nil, err
	}
	header := []interface{}{"Email", "Name", "Interests", "Learning goals", "Progress (%)",
		"Completed topics", "Total topics", "Status", "Last activity", "Started at"}
	if err := f.SetSheetRow(learnersSheet, "A1", &header); err != nil {
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(learnersSheet, 1, 1, style); err != nil {
		return nil, err
	}

	for i, l := range learners {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			l.Email,
			l.Name,
			strings.Join(l.Interests, ", "),
			l.LearningGoals,
			l.Percentage,
			l.CompletedTopics,
			l.TotalTopics,
			string(l.Status),
			l.LastActivity.Format(util.TimeFormat),
			l.StartedAt.Format(util.TimeFormat),
		}
		if err := f.SetSheetRow(learnersSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(learnersSheet, "A", "J", 18); err != nil {
		return nil, err
	}
	return f.WriteToBuffer()
}
