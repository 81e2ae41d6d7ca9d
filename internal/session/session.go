// Package session tracks one active workout screen: which exercise is being
// performed, which of its sets is current, and when the division is complete.
// Nothing here is persisted; only an explicit finish writes one event to the
// execution log. Cancelling leaves no trace.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/gymtrack/internal/history"
	"github.com/claude/gymtrack/internal/models"
)

// ExerciseStatus is the lifecycle of one exercise within the session.
type ExerciseStatus int

const (
	StatusPending ExerciseStatus = iota
	StatusActive
	StatusCompleted
)

func (s ExerciseStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	default:
		return fmt.Sprintf("ExerciseStatus(%d)", int(s))
	}
}

// Set is one set of an exercise. Weight and Reps are editable until the set
// is done.
type Set struct {
	Number int
	Weight string
	Reps   string
	Done   bool
}

// Exercise is the session-local state derived from a workout exercise.
type Exercise struct {
	models.Exercise
	SetRecords []Set
	Status     ExerciseStatus
}

// CurrentSet returns the index of the first not-yet-done set, or false when
// every set is done.
func (e *Exercise) CurrentSet() (int, bool) {
	for i := range e.SetRecords {
		if !e.SetRecords[i].Done {
			return i, true
		}
	}
	return 0, false
}

var (
	// ErrNoActiveExercise is returned when a set action arrives with no
	// exercise active (division already complete, or empty division).
	ErrNoActiveExercise = errors.New("no active exercise")
	// ErrDivisionIncomplete is returned by Finish while exercises remain.
	ErrDivisionIncomplete = errors.New("division is not complete")
	// ErrFinishInFlight is returned by Finish while a previous finish is
	// still being processed.
	ErrFinishInFlight = errors.New("finish already in progress")
	// ErrSessionClosed is returned after a finish or cancel.
	ErrSessionClosed = errors.New("session is closed")
)

// Recorder appends one event to the local execution log.
// *history.Store satisfies it.
type Recorder interface {
	Append(history.ExecutionEvent) error
}

// Notifier tells the backend a workout was finalized. The call is advisory:
// its failure never rolls back the local log write.
type Notifier interface {
	FinalizeWorkout(ctx context.Context, workoutID int) error
}

// Session is the in-memory state of one workout execution screen, restricted
// to a single division.
type Session struct {
	workout   models.Workout
	division  string
	divisions []string
	exercises []*Exercise

	recorder Recorder
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time

	startedAt time.Time
	finishing bool
	closed    bool
}

// New builds a session for one division of a workout. The first exercise of
// the division starts active; with no exercises, nothing is active and the
// session is an explicit nothing-to-do state.
func New(workout models.Workout, division string, recorder Recorder, notifier Notifier, log *slog.Logger) *Session {
	s := &Session{
		workout:   workout,
		division:  division,
		divisions: workout.Divisions(),
		recorder:  recorder,
		notifier:  notifier,
		log:       log,
		now:       time.Now,
	}
	s.startedAt = s.now()

	for _, ex := range workout.ExercisesFor(division) {
		e := &Exercise{Exercise: ex, Status: StatusPending}
		for n := 1; n <= ex.Sets; n++ {
			e.SetRecords = append(e.SetRecords, Set{Number: n, Weight: ex.Load, Reps: ex.Reps})
		}
		s.exercises = append(s.exercises, e)
	}
	if len(s.exercises) > 0 {
		s.exercises[0].Status = StatusActive
	}
	return s
}

// Workout returns the workout snapshot the session was built from.
func (s *Session) Workout() models.Workout { return s.workout }

// Division returns the division being executed.
func (s *Session) Division() string { return s.division }

// Divisions returns all division labels of the workout, in rotation order.
func (s *Session) Divisions() []string { return s.divisions }

// Exercises returns the session's exercises in execution order.
func (s *Session) Exercises() []*Exercise { return s.exercises }

// ActiveExercise returns the exercise currently being performed, or false
// when none is active.
func (s *Session) ActiveExercise() (*Exercise, bool) {
	for _, e := range s.exercises {
		if e.Status == StatusActive {
			return e, true
		}
	}
	return nil, false
}

// Progress returns completed and total exercise counts for the division.
func (s *Session) Progress() (done, total int) {
	for _, e := range s.exercises {
		if e.Status == StatusCompleted {
			done++
		}
	}
	return done, len(s.exercises)
}

// Elapsed returns time since the session started, for the screen's display
// timer.
func (s *Session) Elapsed() time.Duration {
	return s.now().Sub(s.startedAt)
}

// EditCurrentSet updates the weight and reps of the active exercise's current
// set. Empty strings leave the corresponding value unchanged.
func (s *Session) EditCurrentSet(weight, reps string) error {
	if s.closed {
		return ErrSessionClosed
	}
	active, ok := s.ActiveExercise()
	if !ok {
		return ErrNoActiveExercise
	}
	i, ok := active.CurrentSet()
	if !ok {
		return ErrNoActiveExercise
	}
	if weight != "" {
		active.SetRecords[i].Weight = weight
	}
	if reps != "" {
		active.SetRecords[i].Reps = reps
	}
	return nil
}

// CompleteCurrentSet marks the active exercise's current set done. When that
// was the exercise's last set, the exercise completes and the next pending
// exercise in the division becomes active; after the last exercise, nothing
// is active and the division is complete.
func (s *Session) CompleteCurrentSet() error {
	if s.closed {
		return ErrSessionClosed
	}
	active, ok := s.ActiveExercise()
	if !ok {
		return ErrNoActiveExercise
	}
	i, ok := active.CurrentSet()
	if !ok {
		return ErrNoActiveExercise
	}
	active.SetRecords[i].Done = true

	if _, remaining := active.CurrentSet(); remaining {
		return nil
	}
	active.Status = StatusCompleted
	for _, e := range s.exercises {
		if e.Status == StatusPending {
			e.Status = StatusActive
			break
		}
	}
	return nil
}

// DivisionComplete reports whether every exercise of the division is
// completed, which is what enables the finish action. An empty division is
// never complete: there was nothing to do.
func (s *Session) DivisionComplete() bool {
	if len(s.exercises) == 0 {
		return false
	}
	for _, e := range s.exercises {
		if e.Status != StatusCompleted {
			return false
		}
	}
	return true
}

// Finish records the division completion. The local log write comes first and
// is authoritative; the remote finalize notification is attempted afterwards
// and its failure is only logged. While a finish is in flight further Finish
// calls are rejected, mirroring the disabled finish control.
func (s *Session) Finish(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.finishing {
		return ErrFinishInFlight
	}
	if !s.DivisionComplete() {
		return ErrDivisionIncomplete
	}
	s.finishing = true
	defer func() { s.finishing = false }()

	ev := history.ExecutionEvent{
		WorkoutID:   s.workout.ID,
		Division:    s.division,
		CompletedAt: s.now(),
		Completed:   true,
	}
	if err := s.recorder.Append(ev); err != nil {
		return fmt.Errorf("recording division completion: %w", err)
	}

	if err := s.notifier.FinalizeWorkout(ctx, s.workout.ID); err != nil {
		s.log.Warn("remote finalize failed, local history kept",
			"workout_id", s.workout.ID, "division", s.division, "error", err)
	}

	s.closed = true
	return nil
}

// Cancel abandons the session. No event is written; partial progress leaves
// zero persisted evidence.
func (s *Session) Cancel() {
	s.closed = true
}

// Closed reports whether the session ended via Finish or Cancel.
func (s *Session) Closed() bool { return s.closed }
