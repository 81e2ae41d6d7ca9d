// Package progression implements the rules that decide what to train next:
// which division of a workout is due, whether today's training is done, and
// the member's streak and cumulative time. All decisions are pure functions
// over the local execution log; "today" always means the local calendar date,
// not a rolling 24-hour window.
package progression

import (
	"sort"
	"time"

	"github.com/claude/gymtrack/internal/history"
	"github.com/claude/gymtrack/internal/models"
)

// SessionMinutes is the fixed per-session duration estimate used for the
// cumulative training time. Sessions are not individually timed; this is a
// documented approximation, not a measurement.
const SessionMinutes = 45

// Weekday names as the backend schedules them (dia_semana.nome).
var weekdayNames = [7]string{
	"Domingo", "Segunda", "Terça", "Quarta", "Quinta", "Sexta", "Sábado",
}

// WeekdayName returns the backend's name for t's local weekday.
func WeekdayName(t time.Time) string {
	return weekdayNames[t.In(time.Local).Weekday()]
}

// localDay truncates t to midnight of its local calendar date. Every
// calendar-day comparison in this package goes through here, so day
// boundaries are consistently those of the device's local timezone.
func localDay(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

func sameDay(a, b time.Time) bool {
	return localDay(a).Equal(localDay(b))
}

// CompletedToday reports whether an event exists for the workout (and
// division, if non-empty) on now's local calendar date. Crossing midnight
// resets availability even if less than 24 hours have elapsed.
func CompletedToday(events []history.ExecutionEvent, workoutID int, division string, now time.Time) bool {
	for _, ev := range events {
		if ev.WorkoutID != workoutID || !ev.Completed {
			continue
		}
		if division != "" && ev.Division != division {
			continue
		}
		if sameDay(ev.CompletedAt, now) {
			return true
		}
	}
	return false
}

// DivisionsCompletedToday returns the set of division labels with a completed
// event today for the workout.
func DivisionsCompletedToday(events []history.ExecutionEvent, workoutID int, now time.Time) map[string]bool {
	done := make(map[string]bool)
	for _, ev := range events {
		if ev.WorkoutID == workoutID && ev.Completed && sameDay(ev.CompletedAt, now) {
			done[ev.Division] = true
		}
	}
	return done
}

// AllDivisionsCompletedToday reports whether every label in available has a
// completed event today. An empty available list means there is nothing to
// complete, reported as false.
func AllDivisionsCompletedToday(events []history.ExecutionEvent, workoutID int, available []string, now time.Time) bool {
	if len(available) == 0 {
		return false
	}
	done := DivisionsCompletedToday(events, workoutID, now)
	for _, label := range available {
		if !done[label] {
			return false
		}
	}
	return true
}

// NextDivision determines which division of the workout to present next,
// based on the most recently completed division on record, from any day rather
// than just today. With no prior history it is the first available division;
// after the last it wraps around to the first. A last-completed label that is
// no longer in available also wraps to the first, since the caller's division
// list may legitimately change between sessions. Returns "" only when
// available is empty.
func NextDivision(events []history.ExecutionEvent, workoutID int, available []string) string {
	if len(available) == 0 {
		return ""
	}

	last, ok := lastCompleted(events, workoutID)
	if !ok {
		return available[0]
	}

	for i, label := range available {
		if label == last.Division {
			if i+1 < len(available) {
				return available[i+1]
			}
			return available[0]
		}
	}
	return available[0]
}

// lastCompleted finds the most recent completed event for the workout.
// Ties on timestamp are broken by keeping the earlier log entry, matching a
// most-recent-first sort over the log.
func lastCompleted(events []history.ExecutionEvent, workoutID int) (history.ExecutionEvent, bool) {
	sorted := make([]history.ExecutionEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CompletedAt.After(sorted[j].CompletedAt)
	})
	for _, ev := range sorted {
		if ev.WorkoutID == workoutID && ev.Completed {
			return ev, true
		}
	}
	return history.ExecutionEvent{}, false
}

// NextAvailableWorkout picks the workout to suggest for today: among workouts
// not yet completed today, prefer one scheduled for today's weekday, else the
// first remaining one. Returns false when every workout is done for today.
func NextAvailableWorkout(events []history.ExecutionEvent, workouts []models.Workout, todayName string, now time.Time) (int, bool) {
	var remaining []models.Workout
	for _, w := range workouts {
		if !CompletedToday(events, w.ID, "", now) {
			remaining = append(remaining, w)
		}
	}
	if len(remaining) == 0 {
		return 0, false
	}

	for _, w := range remaining {
		if w.Weekday != "" && w.Weekday == todayName {
			return w.ID, true
		}
	}
	return remaining[0].ID, true
}

// Streak counts consecutive local calendar days, ending today, with at least
// one completed event. A day without training today means the streak is 0
// regardless of history.
func Streak(events []history.ExecutionEvent, now time.Time) int {
	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, ev := range events {
		if !ev.Completed {
			continue
		}
		day := localDay(ev.CompletedAt)
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	if len(days) == 0 {
		return 0
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	if !days[0].Equal(localDay(now)) {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if days[i].Equal(days[i-1].AddDate(0, 0, -1)) {
			streak++
			continue
		}
		break
	}
	return streak
}

// TotalTrainingMinutes estimates cumulative training time as the number of
// completed events times SessionMinutes.
func TotalTrainingMinutes(events []history.ExecutionEvent) int {
	count := 0
	for _, ev := range events {
		if ev.Completed {
			count++
		}
	}
	return count * SessionMinutes
}
