package mcp

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/claude/gymtrack/internal/history"
	"github.com/claude/gymtrack/internal/progression"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetStreak = mcp.NewTool("get_streak",
	mcp.WithDescription("Get the current consecutive-day training streak. A day counts when at least one workout division was completed; a day without training resets the streak to 0."),
)

var toolGetTrainingTime = mcp.NewTool("get_training_time",
	mcp.WithDescription("Get the estimated cumulative training time: completed sessions times a fixed 45-minute estimate. Sessions are not individually timed."),
)

var toolGetHistory = mcp.NewTool("get_history",
	mcp.WithDescription("List completed workout divisions from the local execution log, most recent first."),
	mcp.WithString("workout_id", mcp.Description("Filter to one workout id")),
	mcp.WithString("limit", mcp.Description("Maximum number of entries to return. Defaults to 50.")),
)

var toolGetNextDivision = mcp.NewTool("get_next_division",
	mcp.WithDescription("Determine which division (A/B/C...) of a workout is due next, rotating from the most recently completed division on record."),
	mcp.WithString("workout_id", mcp.Required(), mcp.Description("Workout id")),
)

var toolGetNextWorkout = mcp.NewTool("get_next_workout",
	mcp.WithDescription("Suggest today's workout: among workouts not completed today, prefer one scheduled for today's weekday, else the first remaining."),
)

var toolGetTodayStatus = mcp.NewTool("get_today_status",
	mcp.WithDescription("Report which divisions of a workout were completed today and whether the whole workout is done for today."),
	mcp.WithString("workout_id", mcp.Required(), mcp.Description("Workout id")),
)

// --- Tool handlers ---

func (h *handlers) getStreak(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	events := h.events.ReadAll()
	result, err := mcp.NewToolResultJSON(map[string]any{
		"streak_days": progression.Streak(events, h.now()),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTrainingTime(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	events := h.events.ReadAll()
	sessions := 0
	for _, ev := range events {
		if ev.Completed {
			sessions++
		}
	}
	result, err := mcp.NewToolResultJSON(map[string]any{
		"sessions":            sessions,
		"total_minutes":       progression.TotalTrainingMinutes(events),
		"minutes_per_session": progression.SessionMinutes,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workoutID, err := optionalInt(req.GetString("workout_id", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid workout_id: " + err.Error()), nil
	}
	limit, err := optionalInt(req.GetString("limit", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid limit: " + err.Error()), nil
	}
	if limit <= 0 {
		limit = 50
	}

	events := h.events.ReadAll()
	var filtered []history.ExecutionEvent
	for _, ev := range events {
		if workoutID != 0 && ev.WorkoutID != workoutID {
			continue
		}
		filtered = append(filtered, ev)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CompletedAt.After(filtered[j].CompletedAt)
	})
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	result, err := mcp.NewToolResultJSON(filtered)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getNextDivision(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("workout_id")
	if err != nil {
		return mcp.NewToolResultError("workout_id parameter is required"), nil
	}
	workoutID, err := strconv.Atoi(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid workout_id: " + err.Error()), nil
	}

	workout, err := h.workouts.Workout(ctx, workoutID)
	if err != nil {
		h.log.Error("mcp get_next_division", "error", err)
		return mcp.NewToolResultError("workout fetch failed: " + err.Error()), nil
	}

	available := workout.Divisions()
	next := progression.NextDivision(h.events.ReadAll(), workoutID, available)

	result, err := mcp.NewToolResultJSON(map[string]any{
		"workout_id":    workoutID,
		"workout_name":  workout.Name,
		"divisions":     available,
		"next_division": next,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getNextWorkout(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workouts, err := h.workouts.Workouts(ctx)
	if err != nil {
		h.log.Error("mcp get_next_workout", "error", err)
		return mcp.NewToolResultError("workout fetch failed: " + err.Error()), nil
	}

	now := h.now()
	id, ok := progression.NextAvailableWorkout(h.events.ReadAll(), workouts, progression.WeekdayName(now), now)
	if !ok {
		result, err := mcp.NewToolResultJSON(map[string]any{"all_done_today": true})
		if err != nil {
			return mcp.NewToolResultError("serialization failed"), nil
		}
		return result, nil
	}

	name := ""
	for _, w := range workouts {
		if w.ID == id {
			name = w.Name
			break
		}
	}
	result, err := mcp.NewToolResultJSON(map[string]any{
		"all_done_today": false,
		"workout_id":     id,
		"workout_name":   name,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTodayStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("workout_id")
	if err != nil {
		return mcp.NewToolResultError("workout_id parameter is required"), nil
	}
	workoutID, err := strconv.Atoi(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid workout_id: " + err.Error()), nil
	}

	workout, err := h.workouts.Workout(ctx, workoutID)
	if err != nil {
		h.log.Error("mcp get_today_status", "error", err)
		return mcp.NewToolResultError("workout fetch failed: " + err.Error()), nil
	}

	events := h.events.ReadAll()
	now := h.now()
	available := workout.Divisions()
	done := progression.DivisionsCompletedToday(events, workoutID, now)

	labels := make([]string, 0, len(done))
	for label := range done {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	result, err := mcp.NewToolResultJSON(map[string]any{
		"workout_id":                workoutID,
		"workout_name":              workout.Name,
		"divisions":                 available,
		"divisions_completed_today": labels,
		"all_done_today":            progression.AllDivisionsCompletedToday(events, workoutID, available, now),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// optionalInt parses an optional numeric string parameter; empty means 0.
func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func (h *handlers) progressSummary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	events := h.events.ReadAll()
	now := h.now()

	today := make(map[int][]string)
	for _, ev := range events {
		if _, seen := today[ev.WorkoutID]; seen {
			continue
		}
		done := progression.DivisionsCompletedToday(events, ev.WorkoutID, now)
		if len(done) == 0 {
			continue
		}
		labels := make([]string, 0, len(done))
		for label := range done {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		today[ev.WorkoutID] = labels
	}

	summary := map[string]any{
		"date":            now.Format("2006-01-02"),
		"streak_days":     progression.Streak(events, now),
		"total_minutes":   progression.TotalTrainingMinutes(events),
		"completed_today": today,
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
