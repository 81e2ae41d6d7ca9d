package progression

import (
	"time"

	"github.com/claude/gymtrack/internal/history"
	"github.com/claude/gymtrack/internal/models"
)

// EventSource provides the execution log the engine decides over.
// *history.Store satisfies it.
type EventSource interface {
	ReadAll() []history.ExecutionEvent
}

// Engine binds the pure progression functions to an event source and a clock.
type Engine struct {
	events EventSource
	now    func() time.Time
}

// New creates an engine reading from src, using the wall clock.
func New(src EventSource) *Engine {
	return &Engine{events: src, now: time.Now}
}

// NewWithClock creates an engine with an explicit clock.
func NewWithClock(src EventSource, now func() time.Time) *Engine {
	return &Engine{events: src, now: now}
}

// CompletedToday reports whether the workout (and division, if non-empty) was
// completed on today's local date.
func (e *Engine) CompletedToday(workoutID int, division string) bool {
	return CompletedToday(e.events.ReadAll(), workoutID, division, e.now())
}

// DivisionsCompletedToday returns today's completed division labels for the
// workout.
func (e *Engine) DivisionsCompletedToday(workoutID int) map[string]bool {
	return DivisionsCompletedToday(e.events.ReadAll(), workoutID, e.now())
}

// NextDivision returns the division to present next for the workout.
func (e *Engine) NextDivision(workoutID int, available []string) string {
	return NextDivision(e.events.ReadAll(), workoutID, available)
}

// AllDivisionsCompletedToday reports whether every available division was
// completed today.
func (e *Engine) AllDivisionsCompletedToday(workoutID int, available []string) bool {
	return AllDivisionsCompletedToday(e.events.ReadAll(), workoutID, available, e.now())
}

// NextAvailableWorkout picks today's suggested workout.
func (e *Engine) NextAvailableWorkout(workouts []models.Workout) (int, bool) {
	now := e.now()
	return NextAvailableWorkout(e.events.ReadAll(), workouts, WeekdayName(now), now)
}

// Streak returns the current consecutive-day streak.
func (e *Engine) Streak() int {
	return Streak(e.events.ReadAll(), e.now())
}

// TotalTrainingMinutes returns the estimated cumulative training time.
func (e *Engine) TotalTrainingMinutes() int {
	return TotalTrainingMinutes(e.events.ReadAll())
}
