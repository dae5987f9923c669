package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/pushpull/internal/apperr"
	"github.com/claude/pushpull/internal/catalog"
	"github.com/claude/pushpull/internal/models"
)

// defaultTimeRange returns start/end, defaulting to the last days days.
func defaultTimeRange(startStr, endStr string, days int) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -days)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List completed workouts, newest first. Returns id, type (push/pull), date, start/end time and duration in minutes."),
	mcp.WithString("type", mcp.Description("Filter by workout type."), mcp.Enum("push", "pull")),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 90 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of workouts. Defaults to 20.")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Get one workout with its sets grouped by exercise, per-exercise volume and total volume (weight × reps)."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout id from list_workouts")),
)

var toolGetLastWorkouts = mcp.NewTool("get_last_workouts",
	mcp.WithDescription("Date of the most recent completed push and pull workout. A type never trained is omitted."),
)

var toolGetExerciseProgress = mcp.NewTool("get_exercise_progress",
	mcp.WithDescription("Session-by-session progression for one exercise: sets, top set weight and reps, estimated 1RM (Epley) and volume, oldest first."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise id from list_exercises (e.g. 'incline-barbell-press')")),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 90 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("Exercise catalog for a workout type grouped by primary muscle group, with default sets, rep range, RPE and rest."),
	mcp.WithString("type", mcp.Required(), mcp.Description("Workout type"), mcp.Enum("push", "pull")),
)

var toolGetRoutine = mcp.NewTool("get_routine",
	mcp.WithDescription("The exercises a new workout of this type will use, in order, and whether the list has been customized."),
	mcp.WithString("type", mcp.Required(), mcp.Description("Workout type"), mcp.Enum("push", "pull")),
)

// --- Tool handlers ---

func (h *handlers) listWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var wt models.WorkoutType
	if t := req.GetString("type", ""); t != "" {
		parsed, err := models.ParseWorkoutType(t)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		wt = parsed
	}

	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""), 90)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	limit := req.GetInt("limit", 20)

	workouts, err := h.ds.List(ctx)
	if err != nil {
		h.log.Error("mcp list_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	out := []models.Workout{}
	for _, w := range workouts {
		if wt != "" && w.Type != wt {
			continue
		}
		if w.Date.Before(start) || w.Date.After(end) {
			continue
		}
		out = append(out, w)
		if limit > 0 && len(out) >= limit {
			break
		}
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	detail, err := h.ds.Detail(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError("workout not found"), nil
	}
	if err != nil {
		h.log.Error("mcp get_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(detail)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getLastWorkouts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dates, err := h.ds.LastDates(ctx)
	if err != nil {
		h.log.Error("mcp get_last_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(dates)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// progressPoint is one session of an exercise.
type progressPoint struct {
	WorkoutID string    `json:"workout_id"`
	Date      time.Time `json:"date"`
	Sets      int       `json:"sets"`
	TopWeight float64   `json:"top_weight"`
	TopReps   int       `json:"top_reps"`
	Est1RM    float64   `json:"est_1rm"`
	Volume    float64   `json:"volume"`
}

// epley estimates a one-rep max from a set.
func epley(weight float64, reps int) float64 {
	if reps <= 1 {
		return weight
	}
	return weight * (1 + float64(reps)/30)
}

func (h *handlers) getExerciseProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	if _, ok := catalog.Lookup(exercise); !ok {
		return mcp.NewToolResultError("unknown exercise " + exercise + "; use list_exercises for valid ids"), nil
	}

	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""), 90)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	workouts, err := h.ds.List(ctx)
	if err != nil {
		h.log.Error("mcp get_exercise_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	points := []progressPoint{}
	// Workouts arrive newest first; walk backwards for oldest-first output.
	for i := len(workouts) - 1; i >= 0; i-- {
		w := workouts[i]
		if w.Date.Before(start) || w.Date.After(end) {
			continue
		}
		detail, err := h.ds.Detail(ctx, w.ID)
		if err != nil {
			h.log.Error("mcp get_exercise_progress", "workout_id", w.ID, "error", err)
			return mcp.NewToolResultError("query failed: " + err.Error()), nil
		}
		for _, ex := range detail.Exercises {
			if ex.ExerciseID != exercise {
				continue
			}
			p := progressPoint{WorkoutID: w.ID, Date: w.Date, Sets: len(ex.Sets), Volume: ex.Volume}
			for _, s := range ex.Sets {
				if e := epley(s.Weight, s.Reps); e > p.Est1RM {
					p.Est1RM = e
				}
				if s.Weight > p.TopWeight || (s.Weight == p.TopWeight && s.Reps > p.TopReps) {
					p.TopWeight = s.Weight
					p.TopReps = s.Reps
				}
			}
			points = append(points, p)
		}
	}

	result, err := mcp.NewToolResultJSON(points)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listExercises(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	wt, err := models.ParseWorkoutType(req.GetString("type", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(catalog.GroupedByMuscle(wt))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRoutine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	wt, err := models.ParseWorkoutType(req.GetString("type", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rt, err := h.routines.Exercises(ctx, wt)
	if err != nil {
		h.log.Error("mcp get_routine", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(rt)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
