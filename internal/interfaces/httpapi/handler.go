package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gridironpicks/prediction-league/internal/platform/logging"
	"github.com/gridironpicks/prediction-league/internal/usecase"
)

type Handler struct {
	userService       *usecase.UserService
	scoreboardService *usecase.ScoreboardService
	predictionService *usecase.PredictionService
	leagueService     *usecase.LeagueService
	dashboardService  *usecase.DashboardService
	scoringService    *usecase.ScoringService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	userService *usecase.UserService,
	scoreboardService *usecase.ScoreboardService,
	predictionService *usecase.PredictionService,
	leagueService *usecase.LeagueService,
	dashboardService *usecase.DashboardService,
	scoringService *usecase.ScoringService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		userService:       userService,
		scoreboardService: scoreboardService,
		predictionService: predictionService,
		leagueService:     leagueService,
		dashboardService:  dashboardService,
		scoringService:    scoringService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}
