package repository

import (
	"skillkart_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{DB: tx}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByIDs(ids []uint) (map[uint]model.User, error) {
	users := make(map[uint]model.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	var list []model.User
	if err := r.DB.Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	for _, u := range list {
		users[u.ID] = u
	}
	return users, nil
}

// SaveProfile 只写回用户可编辑的档案列，游戏化列由 SaveGamification 负责
func (r *UserRepository) SaveProfile(userID uint, p model.Profile) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"profile_name":                  p.Name,
			"profile_profile_picture":       p.ProfilePicture,
			"profile_qualifications":        p.Qualifications,
			"profile_experience":            p.Experience,
			"profile_expertise":             p.Expertise,
			"profile_bio":                   p.Bio,
			"profile_linkedin":              p.Linkedin,
			"profile_interests":             p.Interests,
			"profile_learning_goals":        p.LearningGoals,
			"profile_weekly_available_time": p.WeeklyAvailableTime,
		}).Error
}

// SaveGamification 只写回游戏化相关列，避免覆盖并发修改的档案字段
func (r *UserRepository) SaveGamification(userID uint, p model.Profile) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"profile_xp":                  p.XP,
			"profile_streak":              p.Streak,
			"profile_streak_longest":      p.StreakLongest,
			"profile_streak_last_updated": p.StreakLastUpdated,
			"profile_badges":              p.Badges,
		}).Error
}
