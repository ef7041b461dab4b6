package utils

import (
	"math"
	"strings"
	"time"
)

const day = 24 * time.Hour

// DaysUntil returns the number of days left before dueDate, rounded up.
// A due date 30 hours away is 2 days away; one already passed is <= 0.
func DaysUntil(dueDate, now time.Time) int {
	return int(math.Ceil(float64(dueDate.Sub(now)) / float64(day)))
}

// IsDateOverdue checks if a date is overdue (strictly before now)
func IsDateOverdue(dueDate, now time.Time) bool {
	return dueDate.Before(now)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// NormalizePage clamps page/size query values to sane bounds and returns the
// matching SQL offset.
func NormalizePage(page, size, defaultSize, maxSize int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultSize
	}
	if size > maxSize {
		size = maxSize
	}
	return page, size, (page - 1) * size
}

// NormalizeEmail lowercases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
