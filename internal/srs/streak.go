package srs

import "time"

// UpdateStreak returns the day streak after studying at now. Days are compared as calendar
// dates in now's location, so 23:59 yesterday to 00:01 today counts as consecutive.
func UpdateStreak(lastStudyDate *time.Time, currentStreak int, now time.Time) int {
	if lastStudyDate == nil {
		return 1
	}
	switch CalendarDaysBetween(*lastStudyDate, now) {
	case 0:
		return currentStreak
	case 1:
		return currentStreak + 1
	default:
		return 1
	}
}

// CalendarDaysBetween counts midnights crossed from a to b, both read in b's location.
func CalendarDaysBetween(a, b time.Time) int {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	// UTC midnights keep DST transitions from shortening or stretching a day.
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
