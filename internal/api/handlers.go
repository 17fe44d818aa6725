package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	errorvalues "github.com/avdeev/habits/internal/error_values"
	"github.com/avdeev/habits/internal/service"
	"github.com/avdeev/habits/pkg/httputil"
)

type CreateHabitRequest struct {
	Title    string `json:"title"`
	WeekDays []int  `json:"weekDays"`
	UserID   string `json:"user_id"`
}

func (s *Server) CreateHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req CreateHabitRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create habit error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	id, err := s.habitsService.CreateHabit(ctx, &service.CreateHabitRequest{
		Title:    req.Title,
		WeekDays: req.WeekDays,
		UserID:   req.UserID,
	})
	if err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			logger.Error("create habit error: validation failed", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit fields", validationErrs)
			return
		}
		logger.Error("create habit error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating habit", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, nil)
	logger.Info("habit created", slog.String("habit_id", id.String()))
}

func (s *Server) GetDay(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	date, err := parseDateParam(r.URL.Query().Get("date"))
	if err != nil {
		logger.Error("get day error: invalid date param")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid or missing date param", nil)
		return
	}
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		logger.Error("get day error: missing user_id param")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "missing user_id param", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	overview, err := s.daysService.GetDay(ctx, date, userID)
	if err != nil {
		logger.Error("get day error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting day", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, overview)
	logger.Info("day provided", slog.String("date", date.Format(time.DateOnly)))
}

func (s *Server) ToggleHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	habitID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Error("toggle habit error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	userID := chi.URLParam(r, "user_id")
	if userID == "" {
		logger.Error("toggle habit error: empty user_id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "empty user_id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	completed, err := s.daysService.ToggleCompletion(ctx, habitID, userID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrHabitNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("toggle habit error: unknown or foreign habit")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "habit doesn't exist", nil)
		default:
			logger.Error("toggle habit error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while toggling habit", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, nil)
	logger.Info("habit toggled", slog.String("habit_id", habitID.String()), slog.Bool("completed", completed))
}

func (s *Server) GetSummary(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		logger.Error("get summary error: missing user_id param")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "missing user_id param", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	summary, err := s.daysService.Summary(ctx, userID)
	if err != nil {
		logger.Error("get summary error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting summary", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, summary)
	logger.Info("summary provided")
}

// parseDateParam accepts a plain calendar date or a full RFC 3339 timestamp,
// clients send both shapes.
func parseDateParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errors.New("empty date param")
	}
	if date, err := time.ParseInLocation(time.DateOnly, raw, time.Local); err == nil {
		return date, nil
	}
	return time.Parse(time.RFC3339, raw)
}
