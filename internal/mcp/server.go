// Package mcp exposes the local training history and progression engine as
// MCP tools, so an assistant can answer questions like "what's my streak"
// or "which division is due" from the on-device log.
package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/claude/gymtrack/internal/history"
	"github.com/claude/gymtrack/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// EventSource provides the execution log. *history.Store satisfies it.
type EventSource interface {
	ReadAll() []history.ExecutionEvent
}

// WorkoutSource fetches workouts from the backend for tools that need the
// division list or schedule. *api.Client satisfies it.
type WorkoutSource interface {
	Workouts(ctx context.Context) ([]models.Workout, error)
	Workout(ctx context.Context, id int) (models.Workout, error)
}

// New creates an MCP server with all tools and resources registered.
func New(events EventSource, workouts WorkoutSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("gymtrack", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Gym training tracker. Query the local workout execution history: streak, estimated training time, completed divisions, and which workout or division is due next. Workout definitions come from the gym backend and require a signed-in session."),
	)

	h := &handlers{events: events, workouts: workouts, log: log, now: time.Now}

	s.AddTools(
		server.ServerTool{Tool: toolGetStreak, Handler: h.getStreak},
		server.ServerTool{Tool: toolGetTrainingTime, Handler: h.getTrainingTime},
		server.ServerTool{Tool: toolGetHistory, Handler: h.getHistory},
		server.ServerTool{Tool: toolGetNextDivision, Handler: h.getNextDivision},
		server.ServerTool{Tool: toolGetNextWorkout, Handler: h.getNextWorkout},
		server.ServerTool{Tool: toolGetTodayStatus, Handler: h.getTodayStatus},
	)

	s.AddResources(
		server.ServerResource{Resource: resProgressSummary, Handler: h.progressSummary},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	events   EventSource
	workouts WorkoutSource
	log      *slog.Logger
	now      func() time.Time
}

var resProgressSummary = mcp.NewResource(
	"gymtrack://progress_summary",
	"Progress Summary",
	mcp.WithResourceDescription("Current streak, estimated total training time, and divisions completed today"),
	mcp.WithMIMEType("application/json"),
)
