package models

import (
	"sort"
)

// DefaultDivision is assigned to exercises whose backend record carries no
// division label. Workouts that are not split into divisions behave as a
// single-division ("A") program.
const DefaultDivision = "A"

// Workout is the canonical, normalized form of a backend treino. It is a
// read-only snapshot fetched per session and never persisted locally.
type Workout struct {
	ID          int
	Name        string
	Description string
	Type        string
	Weekday     string // scheduled weekday name ("Segunda", ...), empty if unscheduled
	Exercises   []Exercise
}

// Exercise is one exercise within a workout, already normalized: the division
// label is never empty and set/rep/load targets are resolved from whichever
// wire field carried them.
type Exercise struct {
	ID          int
	Name        string
	Description string
	Division    string
	Sets        int
	Reps        string // target rep range, e.g. "10" or "8-12"
	Load        string // target load in kg, e.g. "20"
	Order       int
}

// Divisions returns the distinct division labels of the workout's exercises,
// sorted lexically. This is the ordered list the progression engine rotates
// through.
func (w Workout) Divisions() []string {
	seen := make(map[string]bool)
	var labels []string
	for _, ex := range w.Exercises {
		if !seen[ex.Division] {
			seen[ex.Division] = true
			labels = append(labels, ex.Division)
		}
	}
	sort.Strings(labels)
	return labels
}

// ExercisesFor returns the workout's exercises belonging to one division,
// preserving normalized order.
func (w Workout) ExercisesFor(division string) []Exercise {
	var out []Exercise
	for _, ex := range w.Exercises {
		if ex.Division == division {
			out = append(out, ex)
		}
	}
	return out
}
