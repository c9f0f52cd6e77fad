package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/gridironpicks/prediction-league/internal/usecase"
)

type scoreWeekJobRequest struct {
	Week int `json:"week" validate:"omitempty,gte=0"`
}

// RunScoreWeekJob is the queue callback that settles a finished week.
// The week in the payload is advisory: the scoring service re-reads the
// live scoreboard and the marker, so a stale or replayed delivery is a
// no-op rather than a double settlement.
func (h *Handler) RunScoreWeekJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunScoreWeekJob")
	defer span.End()

	if h.scoringService == nil {
		writeError(ctx, w, fmt.Errorf("%w: scoring service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeScoreWeekJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.scoringService.EnsureWeekScored(ctx, usecase.TriggerJob); err != nil {
		h.logger.WarnContext(ctx, "run score week job failed", "week", req.Week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"week":    req.Week,
		"trigger": usecase.TriggerJob,
	})
}

func decodeScoreWeekJobRequest(r *http.Request) (scoreWeekJobRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req scoreWeekJobRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return scoreWeekJobRequest{}, nil
		}
		return scoreWeekJobRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}
