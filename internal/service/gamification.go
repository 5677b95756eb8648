package service

import (
	"time"

	"skillkart_backend/internal/model"
	"skillkart_backend/internal/util"
)

// CompletionOutcome 完成一个主题后的游戏化结果
type CompletionOutcome struct {
	Profile   model.Profile
	NewBadge  string
	NewBadges []string
	Celebrate bool
}

// ApplyTopicCompletion 对一次“未完成 -> 已完成”的迁移结算 XP、连续天数与徽章。
// 日期按 now 所在时区比较；completedTotal 为本次完成后用户在所有路线上的已完成主题数。
func ApplyTopicCompletion(p model.Profile, completedTotal int, now time.Time) CompletionOutcome {
	badges := make([]string, len(p.Badges))
	copy(badges, p.Badges)
	p.Badges = badges

	p.XP += util.XPPerTopic

	days := -1
	if p.StreakLastUpdated != nil {
		days = daysBetween(*p.StreakLastUpdated, now)
	}
	switch {
	case days == 0 && p.Streak > 0:
		// 同一天内再次完成，连续天数不变
	case days == 1:
		p.Streak++
	default:
		p.Streak = 1
	}
	if p.Streak > p.StreakLongest {
		p.StreakLongest = p.Streak
	}
	ts := now
	p.StreakLastUpdated = &ts

	var awarded []string
	award := func(cond bool, badge string) {
		if cond && !p.HasBadge(badge) {
			p.Badges = append(p.Badges, badge)
			awarded = append(awarded, badge)
		}
	}
	award(p.XP == util.XPPerTopic, util.BadgeFirstCompletion)
	award(p.Streak == 3, util.Badge3DayStreak)
	award(p.Streak == 7, util.Badge7DayStreak)
	award(completedTotal >= 10, util.Badge10Topics)

	out := CompletionOutcome{
		Profile:   p,
		NewBadges: awarded,
		Celebrate: true,
	}
	if len(awarded) > 0 {
		out.NewBadge = awarded[len(awarded)-1]
	}
	return out
}

// daysBetween 返回 from 到 to 之间相差的日历天数，以 to 的时区为准
func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.In(to.Location()).Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
