package service

import (
	"errors"

	"skillkart_backend/internal/model"
	"skillkart_backend/internal/repository"
	"skillkart_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

// ProfileUpdate 入门引导与个人资料中可由用户修改的字段，nil 表示不修改；游戏化字段不可修改
type ProfileUpdate struct {
	Name                *string  `json:"name"`
	ProfilePicture      *string  `json:"profilePicture"`
	Qualifications      *string  `json:"qualifications"`
	Experience          *string  `json:"experience"`
	Expertise           *string  `json:"expertise"`
	Bio                 *string  `json:"bio"`
	Linkedin            *string  `json:"linkedin"`
	Interests           []string `json:"interests"`
	LearningGoals       *string  `json:"learningGoals"`
	WeeklyAvailableTime *float64 `json:"weeklyAvailableTime"`
}

func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

func (s *UserService) UpdateProfile(userID uint, req ProfileUpdate) (*model.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	if req.WeeklyAvailableTime != nil && *req.WeeklyAvailableTime < 0 {
		return nil, util.NewValidationError("weeklyAvailableTime", "weekly available time cannot be negative")
	}

	p := &user.Profile
	setString(&p.Name, req.Name)
	setString(&p.ProfilePicture, req.ProfilePicture)
	setString(&p.Qualifications, req.Qualifications)
	setString(&p.Experience, req.Experience)
	setString(&p.Expertise, req.Expertise)
	setString(&p.Bio, req.Bio)
	setString(&p.Linkedin, req.Linkedin)
	setString(&p.LearningGoals, req.LearningGoals)
	if req.Interests != nil {
		p.Interests = req.Interests
	}
	if req.WeeklyAvailableTime != nil {
		p.WeeklyAvailableTime = *req.WeeklyAvailableTime
	}

	if err := s.UserRepo.SaveProfile(userID, *p); err != nil {
		return nil, err
	}
	// 重新读取，返回期间可能被完成主题更新过的 XP 与徽章
	return s.GetProfile(userID)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
