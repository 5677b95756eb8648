package model

import (
	"time"

	"gorm.io/datatypes"
)

type UserRole string

const (
	Learner UserRole = "learner"
	Admin   UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == Learner || r == Admin
}

// swagger:model User
type User struct {
	BaseModel
	Email    string   `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"size:20;default:'learner'" json:"role"`
	Profile  Profile  `gorm:"embedded;embeddedPrefix:profile_" json:"profile"`
}

func (User) TableName() string {
	return "users"
}

// Profile 用户档案，包含学习偏好与游戏化状态（XP、连续学习天数、徽章）
type Profile struct {
	Name                string                      `gorm:"size:100" json:"name"`
	ProfilePicture      string                      `gorm:"size:255" json:"profilePicture"`
	Qualifications      string                      `gorm:"size:255" json:"qualifications"`
	Experience          string                      `gorm:"size:255" json:"experience"`
	Expertise           string                      `gorm:"size:255" json:"expertise"`
	Bio                 string                      `gorm:"type:text" json:"bio"`
	Linkedin            string                      `gorm:"size:255" json:"linkedin"`
	Interests           datatypes.JSONSlice[string] `json:"interests"`
	LearningGoals       string                      `gorm:"type:text" json:"learningGoals"`
	WeeklyAvailableTime float64                     `gorm:"default:0" json:"weeklyAvailableTime"`

	XP                int                         `gorm:"default:0" json:"xp"`
	Streak            int                         `gorm:"default:0" json:"streak"`
	StreakLongest     int                         `gorm:"default:0" json:"streakLongest"`
	StreakLastUpdated *time.Time                  `json:"streakLastUpdated"`
	Badges            datatypes.JSONSlice[string] `json:"badges"`
}

func (p Profile) HasBadge(name string) bool {
	for _, b := range p.Badges {
		if b == name {
			return true
		}
	}
	return false
}

// GamificationSnapshot 完成主题后返回给前端的游戏化字段
type GamificationSnapshot struct {
	XP                int        `json:"xp"`
	Streak            int        `json:"streak"`
	StreakLongest     int        `json:"streakLongest"`
	Badges            []string   `json:"badges"`
	StreakLastUpdated *time.Time `json:"streakLastUpdated"`
}

func (p Profile) Snapshot() GamificationSnapshot {
	badges := make([]string, len(p.Badges))
	copy(badges, p.Badges)
	return GamificationSnapshot{
		XP:                p.XP,
		Streak:            p.Streak,
		StreakLongest:     p.StreakLongest,
		Badges:            badges,
		StreakLastUpdated: p.StreakLastUpdated,
	}
}
