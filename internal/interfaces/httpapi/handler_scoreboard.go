package httpapi

import (
	"net/http"
)

// GetScoreboard serves the current week's games. It is the only public
// domain route; the scoreboard is league-agnostic.
func (h *Handler) GetScoreboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScoreboard")
	defer span.End()

	board, err := h.scoreboardService.Current(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get scoreboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoreboardToDTO(ctx, board))
}
