package service

import (
	"reflect"
	"testing"
	"time"

	"skillkart_backend/internal/model"
	"skillkart_backend/internal/util"
)

func day(d, hour int) time.Time {
	return time.Date(2024, time.March, d, hour, 0, 0, 0, time.UTC)
}

func TestApplyTopicCompletionStreak(t *testing.T) {
	tests := []struct {
		name       string
		streak     int
		last       *time.Time
		now        time.Time
		wantStreak int
	}{
		{"first ever", 0, nil, day(1, 9), 1},
		{"same day keeps streak", 4, ptrTime(day(1, 8)), day(1, 23), 4},
		{"same day with zero streak starts one", 0, ptrTime(day(1, 8)), day(1, 9), 1},
		{"next day increments", 4, ptrTime(day(1, 23)), day(2, 0), 5},
		{"gap resets", 4, ptrTime(day(1, 9)), day(3, 9), 1},
		{"clock behind resets", 4, ptrTime(day(5, 9)), day(3, 9), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := model.Profile{XP: 50, Streak: tt.streak, StreakLongest: 4, StreakLastUpdated: tt.last}
			out := ApplyTopicCompletion(p, 1, tt.now)
			if out.Profile.Streak != tt.wantStreak {
				t.Fatalf("Streak = %d, want %d", out.Profile.Streak, tt.wantStreak)
			}
			if out.Profile.StreakLongest < out.Profile.Streak {
				t.Fatalf("StreakLongest %d < Streak %d", out.Profile.StreakLongest, out.Profile.Streak)
			}
			if !out.Profile.StreakLastUpdated.Equal(tt.now) {
				t.Fatalf("StreakLastUpdated = %v, want %v", out.Profile.StreakLastUpdated, tt.now)
			}
			if out.Profile.XP != 60 {
				t.Fatalf("XP = %d, want 60", out.Profile.XP)
			}
		})
	}
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestApplyTopicCompletionUsesCallerLocation(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	// 23:30 UTC 已是东八区的次日
	last := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	now := time.Date(2024, time.March, 1, 23, 30, 0, 0, time.UTC).In(loc)

	out := ApplyTopicCompletion(model.Profile{Streak: 2, StreakLastUpdated: &last}, 1, now)
	if out.Profile.Streak != 3 {
		t.Fatalf("Streak = %d, want 3", out.Profile.Streak)
	}
}

func TestApplyTopicCompletionDayScenario(t *testing.T) {
	var p model.Profile

	// 第一天：首个主题
	out := ApplyTopicCompletion(p, 1, day(1, 10))
	if out.Profile.XP != 10 || out.Profile.Streak != 1 {
		t.Fatalf("day 1: XP=%d Streak=%d", out.Profile.XP, out.Profile.Streak)
	}
	if !reflect.DeepEqual(out.NewBadges, []string{util.BadgeFirstCompletion}) || out.NewBadge != util.BadgeFirstCompletion {
		t.Fatalf("day 1: NewBadges=%v NewBadge=%q", out.NewBadges, out.NewBadge)
	}
	p = out.Profile

	// 第一天：第二个主题
	out = ApplyTopicCompletion(p, 2, day(1, 18))
	if out.Profile.XP != 20 || out.Profile.Streak != 1 || len(out.NewBadges) != 0 {
		t.Fatalf("day 1 again: XP=%d Streak=%d NewBadges=%v", out.Profile.XP, out.Profile.Streak, out.NewBadges)
	}
	if out.NewBadge != "" {
		t.Fatalf("day 1 again: NewBadge = %q, want empty", out.NewBadge)
	}
	p = out.Profile

	out = ApplyTopicCompletion(p, 3, day(2, 10))
	if out.Profile.Streak != 2 || len(out.NewBadges) != 0 {
		t.Fatalf("day 2: Streak=%d NewBadges=%v", out.Profile.Streak, out.NewBadges)
	}
	p = out.Profile

	out = ApplyTopicCompletion(p, 4, day(3, 10))
	if out.Profile.Streak != 3 || out.Profile.XP != 40 {
		t.Fatalf("day 3: Streak=%d XP=%d", out.Profile.Streak, out.Profile.XP)
	}
	if !reflect.DeepEqual(out.NewBadges, []string{util.Badge3DayStreak}) {
		t.Fatalf("day 3: NewBadges = %v", out.NewBadges)
	}
	if !reflect.DeepEqual([]string(out.Profile.Badges), []string{util.BadgeFirstCompletion, util.Badge3DayStreak}) {
		t.Fatalf("day 3: Badges = %v", out.Profile.Badges)
	}
	if !out.Celebrate {
		t.Fatal("Celebrate = false")
	}
}

func TestApplyTopicCompletionBadgesAreNeverDuplicated(t *testing.T) {
	p := model.Profile{
		XP:                0,
		Streak:            2,
		StreakLastUpdated: ptrTime(day(1, 9)),
		Badges:            []string{util.BadgeFirstCompletion, util.Badge3DayStreak},
	}
	out := ApplyTopicCompletion(p, 12, day(2, 9))
	if !reflect.DeepEqual(out.NewBadges, []string{util.Badge10Topics}) {
		t.Fatalf("NewBadges = %v, want only 10 topics", out.NewBadges)
	}
	seen := map[string]bool{}
	for _, b := range out.Profile.Badges {
		if seen[b] {
			t.Fatalf("duplicate badge %q in %v", b, out.Profile.Badges)
		}
		seen[b] = true
	}
	if len(p.Badges) != 2 {
		t.Fatalf("input badges mutated: %v", p.Badges)
	}
}

func TestApplyTopicCompletionMultipleBadgesReportsLast(t *testing.T) {
	out := ApplyTopicCompletion(model.Profile{}, 10, day(1, 9))
	want := []string{util.BadgeFirstCompletion, util.Badge10Topics}
	if !reflect.DeepEqual(out.NewBadges, want) {
		t.Fatalf("NewBadges = %v, want %v", out.NewBadges, want)
	}
	if out.NewBadge != util.Badge10Topics {
		t.Fatalf("NewBadge = %q, want %q", out.NewBadge, util.Badge10Topics)
	}
}

func TestSevenDayStreakBadge(t *testing.T) {
	var p model.Profile
	var awarded []string
	for d := 1; d <= 7; d++ {
		out := ApplyTopicCompletion(p, d, day(d, 12))
		awarded = append(awarded, out.NewBadges...)
		p = out.Profile
	}
	want := []string{util.BadgeFirstCompletion, util.Badge3DayStreak, util.Badge7DayStreak}
	if !reflect.DeepEqual(awarded, want) {
		t.Fatalf("awarded = %v, want %v", awarded, want)
	}
	if p.Streak != 7 || p.StreakLongest != 7 || p.XP != 70 {
		t.Fatalf("profile = %+v", p)
	}
}
