package practice

import (
	"sort"
	"time"

	"lexipic-backend/internal/models"
)

// dayStreak counts consecutive calendar days (UTC) with at least one recorded
// answer, ending today or yesterday. Multiple answers on one day count once.
// A user whose most recent activity is older than yesterday has no streak.
func dayStreak(rows []models.UserFlashcardStat, now time.Time) int {
	seen := make(map[time.Time]struct{}, len(rows))
	for _, row := range rows {
		if row.LastSeen.IsZero() {
			continue
		}
		seen[toUTCDate(row.LastSeen)] = struct{}{}
	}
	if len(seen) == 0 {
		return 0
	}

	days := make([]time.Time, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	today := toUTCDate(now)
	yesterday := today.AddDate(0, 0, -1)
	if !days[0].Equal(today) && !days[0].Equal(yesterday) {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if !days[i].Equal(days[i-1].AddDate(0, 0, -1)) {
			break
		}
		streak++
	}
	return streak
}

func toUTCDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
