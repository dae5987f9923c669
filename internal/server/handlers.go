package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/claude/pushpull/internal/apperr"
	"github.com/claude/pushpull/internal/catalog"
	"github.com/claude/pushpull/internal/export"
	"github.com/claude/pushpull/internal/models"
	"github.com/claude/pushpull/internal/routine"
	"github.com/claude/pushpull/internal/session"
)

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	wt, err := models.ParseWorkoutType(r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, apperr.Validation(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, catalog.GroupedByMuscle(wt))
}

// --- routines ---

type saveRoutineRequest struct {
	Exercises []models.Exercise `json:"exercises"`
}

type addExerciseRequest struct {
	ExerciseID string `json:"exercise_id"`
	// After is the index to insert behind; omitted appends.
	After *int `json:"after,omitempty"`
}

type moveRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (s *Server) handleGetRoutine(w http.ResponseWriter, r *http.Request) {
	wt, ok := routineType(w, r)
	if !ok {
		return
	}
	rt, err := s.routines.Exercises(r.Context(), wt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (s *Server) handleSaveRoutine(w http.ResponseWriter, r *http.Request) {
	wt, ok := routineType(w, r)
	if !ok {
		return
	}
	var req saveRoutineRequest
	if !decodeBody(w, r, &req) {
		return
	}
	rt, err := s.routines.Save(r.Context(), wt, req.Exercises)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (s *Server) handleResetRoutine(w http.ResponseWriter, r *http.Request) {
	wt, ok := routineType(w, r)
	if !ok {
		return
	}
	rt, err := s.routines.Reset(r.Context(), wt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (s *Server) handleAddRoutineExercise(w http.ResponseWriter, r *http.Request) {
	wt, ok := routineType(w, r)
	if !ok {
		return
	}
	var req addExerciseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	after := -1
	if req.After != nil {
		after = *req.After
	}
	rt, err := s.routines.Add(r.Context(), wt, req.ExerciseID, after)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (s *Server) handleUpdateRoutineExercise(w http.ResponseWriter, r *http.Request) {
	wt, ok := routineType(w, r)
	if !ok {
		return
	}
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	var patch routine.Patch
	if !decodeBody(w, r, &patch) {
		return
	}
	rt, err := s.routines.Update(r.Context(), wt, index, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (s *Server) handleRemoveRoutineExercise(w http.ResponseWriter, r *http.Request) {
	wt, ok := routineType(w, r)
	if !ok {
		return
	}
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	rt, err := s.routines.Remove(r.Context(), wt, index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (s *Server) handleMoveRoutineExercise(w http.ResponseWriter, r *http.Request) {
	wt, ok := routineType(w, r)
	if !ok {
		return
	}
	var req moveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	rt, err := s.routines.Move(r.Context(), wt, req.From, req.To)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

// --- session ---

type startSessionRequest struct {
	Type string `json:"type"`
}

type inputsRequest struct {
	Weight *float64 `json:"weight,omitempty"`
	Reps   *int     `json:"reps,omitempty"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	wt, err := models.ParseWorkoutType(req.Type)
	if err != nil {
		writeError(w, apperr.Validation(err.Error()))
		return
	}
	sess, err := s.sessions.Start(r.Context(), wt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess.State())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Current()
	if err != nil {
		writeError(w, err)
		return
	}
	// A client polling after a suspend sees the rest end immediately.
	sess.Resync()
	writeJSON(w, http.StatusOK, sess.State())
}

func (s *Server) handleAbandonSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Abandon(); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) updateInputs(r *http.Request, sess *session.Session) error {
	var req inputsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperr.Validation("invalid JSON: " + err.Error())
	}
	if req.Weight != nil {
		if err := sess.SetWeight(*req.Weight); err != nil {
			return err
		}
	}
	if req.Reps != nil {
		if err := sess.SetReps(*req.Reps); err != nil {
			return err
		}
	}
	return nil
}

// sessionAction runs fn against the active session and responds with the
// resulting state.
func (s *Server) sessionAction(fn func(*http.Request, *session.Session) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Current()
		if err != nil {
			writeError(w, err)
			return
		}
		if err := fn(r, sess); err != nil {
			if apperr.IsRetryable(err) {
				s.log.Warn("session action failed", "path", r.URL.Path, "error", err)
			}
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess.State())
	}
}

// --- history ---

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	workouts, err := s.history.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if t := r.URL.Query().Get("type"); t != "" {
		wt, err := models.ParseWorkoutType(t)
		if err != nil {
			writeError(w, apperr.Validation(err.Error()))
			return
		}
		filtered := make([]models.Workout, 0, len(workouts))
		for _, wo := range workouts {
			if wo.Type == wt {
				filtered = append(filtered, wo)
			}
		}
		workouts = filtered
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleLastWorkouts(w http.ResponseWriter, r *http.Request) {
	dates, err := s.history.LastDates(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dates)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	detail, err := s.history.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if s.sessions.InProgress(id) {
		writeError(w, apperr.InvalidState("workout is in progress; abandon the session first"))
		return
	}
	if err := s.history.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportWorkout(w http.ResponseWriter, r *http.Request) {
	detail, err := s.history.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !detail.Workout.Completed {
		writeError(w, apperr.InvalidState("workout is not complete"))
		return
	}
	var sets []models.WorkoutSet
	for _, ex := range detail.Exercises {
		sets = append(sets, ex.Sets...)
	}
	data, err := export.EncodeFIT(detail.Workout, sets, s.unit)
	if err != nil {
		s.log.Error("FIT export failed", "workout_id", detail.Workout.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/vnd.ant.fit")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(detail.Workout)+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// --- helpers ---

func routineType(w http.ResponseWriter, r *http.Request) (models.WorkoutType, bool) {
	wt, err := models.ParseWorkoutType(chi.URLParam(r, "type"))
	if err != nil {
		writeError(w, apperr.Validation(err.Error()))
		return "", false
	}
	return wt, true
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, apperr.Validation("index must be an integer"))
		return 0, false
	}
	return i, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, apperr.Validation("invalid JSON: "+err.Error()))
		return false
	}
	return true
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch apperr.GetCode(err) {
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeValidation:
		return http.StatusBadRequest
	case apperr.CodeInvalidState, apperr.CodeBusy:
		return http.StatusConflict
	case apperr.CodeStorage:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	body := map[string]any{"error": err.Error()}
	var e *apperr.Error
	if errors.As(err, &e) {
		body["code"] = e.Code
		body["retryable"] = e.Retryable
	}
	writeJSON(w, statusFor(err), body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
