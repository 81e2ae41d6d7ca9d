package models

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// The backend serves loosely-typed JSON: numeric fields arrive as strings or
// numbers depending on the endpoint, and set/rep/load targets live either
// directly on the exercise or under a legacy "pivot" relation. Everything in
// this file exists to resolve those shapes exactly once, at the fetch
// boundary. Domain code only ever sees the canonical types in workout.go.

// Envelope is the standard {success, message, data} wrapper used by most
// backend endpoints.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// FlexString decodes a JSON string or number into a string.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// FlexInt decodes a JSON number or numeric string into an int.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	s := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f = FlexInt(n)
	return nil
}

// WorkoutWire is the backend's treino shape.
type WorkoutWire struct {
	ID        int    `json:"id"`
	Nome      string `json:"nome"`
	Descricao string `json:"descricao"`
	Tipo      string `json:"tipo"`
	DiaSemana *struct {
		ID   int    `json:"id"`
		Nome string `json:"nome"`
	} `json:"dia_semana"`
	Exercicios []ExerciseWire `json:"exercicios"`
}

// ExerciseWire is the backend's exercise shape, with the legacy pivot
// fallback fields.
type ExerciseWire struct {
	ID         int        `json:"id"`
	Nome       string     `json:"nome"`
	Descricao  string     `json:"descricao"`
	Divisao    string     `json:"divisao"`
	Series     FlexInt    `json:"series"`
	Repeticoes FlexString `json:"repeticoes"`
	Carga      FlexString `json:"carga"`
	Ordem      int        `json:"ordem"`
	Pivot      *struct {
		Series     FlexInt    `json:"series"`
		Repeticoes FlexString `json:"repeticoes"`
		Carga      FlexString `json:"carga"`
	} `json:"pivot"`
}

// Targets for exercises whose record carries neither direct nor pivot values.
const (
	defaultSets = 3
	defaultReps = "10"
	defaultLoad = "0"
)

// NormalizeWorkout converts a wire workout into the canonical form: pivot
// fallbacks resolved, division labels defaulted, exercises sorted by division
// label then by declared order.
func NormalizeWorkout(w WorkoutWire) Workout {
	out := Workout{
		ID:          w.ID,
		Name:        w.Nome,
		Description: w.Descricao,
		Type:        w.Tipo,
	}
	if w.DiaSemana != nil {
		out.Weekday = w.DiaSemana.Nome
	}

	for _, ex := range w.Exercicios {
		out.Exercises = append(out.Exercises, normalizeExercise(ex))
	}
	sort.SliceStable(out.Exercises, func(i, j int) bool {
		a, b := out.Exercises[i], out.Exercises[j]
		if a.Division != b.Division {
			return a.Division < b.Division
		}
		return a.Order < b.Order
	})
	return out
}

func normalizeExercise(ex ExerciseWire) Exercise {
	sets := int(ex.Series)
	reps := string(ex.Repeticoes)
	load := string(ex.Carga)
	if ex.Pivot != nil {
		if sets == 0 {
			sets = int(ex.Pivot.Series)
		}
		if reps == "" {
			reps = string(ex.Pivot.Repeticoes)
		}
		if load == "" {
			load = string(ex.Pivot.Carga)
		}
	}
	if sets == 0 {
		sets = defaultSets
	}
	if reps == "" {
		reps = defaultReps
	}
	if load == "" {
		load = defaultLoad
	}

	division := ex.Divisao
	if division == "" {
		division = DefaultDivision
	}

	return Exercise{
		ID:          ex.ID,
		Name:        ex.Nome,
		Description: ex.Descricao,
		Division:    division,
		Sets:        sets,
		Reps:        reps,
		Load:        load,
		Order:       ex.Ordem,
	}
}
