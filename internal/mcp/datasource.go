package mcp

import (
	"context"

	"github.com/claude/pushpull/internal/history"
	"github.com/claude/pushpull/internal/models"
	"github.com/claude/pushpull/internal/routine"
)

// DataSource abstracts the workout history for MCP tools.
type DataSource interface {
	List(ctx context.Context) ([]models.Workout, error)
	LastDates(ctx context.Context) (*history.LastDates, error)
	Detail(ctx context.Context, id string) (*history.Detail, error)
}

// Routines resolves the effective routine for a workout type.
type Routines interface {
	Exercises(ctx context.Context, wt models.WorkoutType) (*routine.Routine, error)
}

// Compile-time checks.
var (
	_ DataSource = (*history.Service)(nil)
	_ Routines   = (*routine.Service)(nil)
)
