package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, routines Routines, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("PushPull", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("PushPull workout log. Query completed push/pull workouts, per-exercise progression, the exercise catalog and the current routines. Weights are in the unit configured on the server."),
	)

	h := &handlers{ds: ds, routines: routines, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListWorkouts, Handler: h.listWorkouts},
		server.ServerTool{Tool: toolGetWorkout, Handler: h.getWorkout},
		server.ServerTool{Tool: toolGetLastWorkouts, Handler: h.getLastWorkouts},
		server.ServerTool{Tool: toolGetExerciseProgress, Handler: h.getExerciseProgress},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGetRoutine, Handler: h.getRoutine},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
		server.ServerResource{Resource: resRoutines, Handler: h.currentRoutines},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds       DataSource
	routines Routines
	log      *slog.Logger
}

// --- Resource definitions ---

var resRecentWorkouts = mcp.NewResource(
	"pushpull://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("Completed workouts from the last 14 days with per-exercise summaries"),
	mcp.WithMIMEType("application/json"),
)

var resExerciseCatalog = mcp.NewResource(
	"pushpull://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("Every exercise with category, muscle groups and default sets/reps/RPE/rest"),
	mcp.WithMIMEType("application/json"),
)

var resRoutines = mcp.NewResource(
	"pushpull://routines",
	"Current Routines",
	mcp.WithResourceDescription("The effective push and pull exercise lists, including customizations"),
	mcp.WithMIMEType("application/json"),
)
