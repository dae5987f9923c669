package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/pushpull/internal/catalog"
	"github.com/claude/pushpull/internal/history"
	"github.com/claude/pushpull/internal/models"
	"github.com/claude/pushpull/internal/routine"
)

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	since := time.Now().AddDate(0, 0, -14)

	workouts, err := h.ds.List(ctx)
	if err != nil {
		return nil, err
	}

	details := []*history.Detail{}
	for _, w := range workouts {
		if w.Date.Before(since) {
			continue
		}
		d, err := h.ds.Detail(ctx, w.ID)
		if err != nil {
			h.log.Warn("recent_workouts: detail failed", "workout_id", w.ID, "error", err)
			continue
		}
		details = append(details, d)
	}

	return jsonContents(req.Params.URI, details)
}

func (h *handlers) exerciseCatalog(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(req.Params.URI, catalog.Library)
}

func (h *handlers) currentRoutines(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	out := make(map[models.WorkoutType]*routine.Routine, len(models.WorkoutTypes))
	for _, wt := range models.WorkoutTypes {
		rt, err := h.routines.Exercises(ctx, wt)
		if err != nil {
			return nil, err
		}
		out[wt] = rt
	}
	return jsonContents(req.Params.URI, out)
}
