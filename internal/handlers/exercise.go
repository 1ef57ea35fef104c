package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/estoico/stoic-rag-backend/internal/logger"
	"github.com/estoico/stoic-rag-backend/internal/repos"
	"github.com/estoico/stoic-rag-backend/internal/requestdata"
	"github.com/estoico/stoic-rag-backend/internal/services"
	"github.com/estoico/stoic-rag-backend/internal/sse"
	"github.com/estoico/stoic-rag-backend/internal/types"
)

type ExerciseHandler struct {
	log           *logger.Logger
	generationSvc services.GenerationService
	exerciseSvc   services.ExerciseService
}

func NewExerciseHandler(log *logger.Logger, generationSvc services.GenerationService, exerciseSvc services.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{
		log:           log.With("handler", "ExerciseHandler"),
		generationSvc: generationSvc,
		exerciseSvc:   exerciseSvc,
	}
}

// GET /api/exercises/stream
// Streams generation progress as server-sent events; terminates after a
// complete or error event.
func (h *ExerciseHandler) Stream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	writer, err := sse.NewWriter(c.Writer)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "streaming_unsupported", err)
		return
	}

	h.generationSvc.StreamExercises(c.Request.Context(), rd.UserID, writer.Send)
}

// GET /api/exercises?status=pending
func (h *ExerciseHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	var status types.ExerciseStatus
	switch s := c.Query("status"); s {
	case "":
	case string(types.ExercisePending), string(types.ExerciseInProgress), string(types.ExerciseCompleted):
		status = types.ExerciseStatus(s)
	default:
		RespondError(c, http.StatusBadRequest, "invalid_status", errors.New("status must be pending, in_progress or completed"))
		return
	}

	exercises, err := h.exerciseSvc.List(c.Request.Context(), rd.UserID, status)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, gin.H{"exercises": exercises, "total": len(exercises)})
}

// POST /api/exercises/:id/complete
func (h *ExerciseHandler) Complete(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	exerciseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_exercise_id", errors.New("exercise id must be a UUID"))
		return
	}

	result, err := h.exerciseSvc.Complete(c.Request.Context(), rd.UserID, exerciseID)
	if err != nil {
		switch {
		case errors.Is(err, repos.ErrExerciseNotFound):
			RespondError(c, http.StatusNotFound, "exercise_not_found", err)
		case errors.Is(err, services.ErrAlreadyCompleted):
			RespondError(c, http.StatusConflict, "already_completed", err)
		default:
			RespondError(c, http.StatusInternalServerError, "completion_failed", err)
		}
		return
	}
	RespondOK(c, result)
}
