package service

import (
	"fmt"
	"time"

	"hallbook/internal/models"
)

// The fixed slot grid halls are booked on. A request's start time is mapped
// to its canonical end; start times outside the grid get a one-hour range.
var canonicalSlots = [][2]string{
	{"09:00", "10:00"},
	{"10:30", "11:30"},
	{"12:00", "13:00"},
	{"14:00", "15:00"},
	{"15:30", "16:30"},
	{"17:00", "18:00"},
}

// CanonicalRange maps a start time to its [start,end) slot range.
func CanonicalRange(start string) (string, string) {
	for _, slot := range canonicalSlots {
		if slot[0] == start {
			return slot[0], slot[1]
		}
	}
	return start, addHour(start)
}

func addHour(start string) string {
	t, err := time.Parse("15:04", start)
	if err != nil {
		return start
	}
	return t.Add(time.Hour).Format("15:04")
}

// RangesOverlap is the half-open intersection test used by the store's
// overlap query: a and b overlap iff a.start < b.end && b.start < a.end.
// Zero-padded HH:MM strings compare correctly as text.
func RangesOverlap(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func validTime(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// availabilityGrid builds the Available rows written when a hall is created:
// one row per canonical slot per day, starting tomorrow.
func availabilityGrid(hallID int64, from time.Time, days int) []models.Schedule {
	grid := make([]models.Schedule, 0, days*len(canonicalSlots))
	for day := 1; day <= days; day++ {
		date := from.AddDate(0, 0, day).Format("2006-01-02")
		for _, slot := range canonicalSlots {
			grid = append(grid, models.Schedule{
				WeddingHallID: hallID,
				Date:          date,
				StartTime:     slot[0],
				EndTime:       slot[1],
				Status:        models.ScheduleAvailable,
			})
		}
	}
	return grid
}

func validateDateTime(date, timeOfDay string) error {
	if !validDate(date) {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
	}
	if !validTime(timeOfDay) {
		return fmt.Errorf("invalid time %q, want HH:MM", timeOfDay)
	}
	return nil
}
