package espn

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/gridironpicks/prediction-league/internal/domain/matchup"
	"github.com/gridironpicks/prediction-league/internal/platform/logging"
	"github.com/gridironpicks/prediction-league/internal/platform/resilience"
	"github.com/gridironpicks/prediction-league/internal/usecase"
)

const (
	defaultBaseURL = "https://site.web.api.espn.com/apis/v2/scoreboard/header"
	defaultSport   = "football"
	defaultLeague  = "nfl"
)

var errESPNTransient = crerr.New("espn transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Sport          string
	League         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads the public scoreboard header feed. The feed needs no
// credentials; availability is its only failure mode, so requests go
// through a retry loop and a circuit breaker.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	sport          string
	league         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	sport := strings.TrimSpace(cfg.Sport)
	if sport == "" {
		sport = defaultSport
	}
	league := strings.TrimSpace(cfg.League)
	if league == "" {
		league = defaultLeague
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		sport:          sport,
		league:         league,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchScoreboard returns the current-week scoreboard. The feed always
// serves the live week; the week number is read off its first event.
func (c *Client) FetchScoreboard(ctx context.Context) (matchup.Scoreboard, error) {
	var envelope scoreboardEnvelope
	if err := c.doJSON(ctx, &envelope); err != nil {
		return matchup.Scoreboard{}, err
	}

	events, err := envelope.events()
	if err != nil {
		return matchup.Scoreboard{}, fmt.Errorf("%w: %s", usecase.ErrDependencyUnavailable, err)
	}

	board := matchup.Scoreboard{Week: events[0].Week}
	board.Matchups = make([]matchup.Matchup, 0, len(events))
	for _, event := range events {
		item, err := mapEvent(board.Week, event)
		if err != nil {
			return matchup.Scoreboard{}, fmt.Errorf("%w: %s", usecase.ErrDependencyUnavailable, err)
		}
		board.Matchups = append(board.Matchups, item)
	}

	return board, nil
}

func (c *Client) doJSON(ctx context.Context, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "espn circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: results feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	values.Set("sport", c.sport)
	values.Set("league", c.league)
	fullURL := c.baseURL + "?" + values.Encode()

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isESPNCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode scoreboard payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errESPNTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errESPNTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else {
				if isRetryableStatus(resp.StatusCode) {
					lastErr = fmt.Errorf("%w: feed status=%d body=%s", errESPNTransient, resp.StatusCode, abbreviateBody(raw))
				} else {
					return nil, fmt.Errorf("feed status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
				}
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "espn request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func mapEvent(week int, event eventItem) (matchup.Matchup, error) {
	if len(event.Competitors) < 2 {
		return matchup.Matchup{}, fmt.Errorf("event %q has %d competitors", event.ID, len(event.Competitors))
	}

	// Competitors arrive home-first; the homeAway marker wins when set.
	home, away := event.Competitors[0], event.Competitors[1]
	if strings.EqualFold(away.HomeAway, "home") || strings.EqualFold(home.HomeAway, "away") {
		home, away = away, home
	}

	homeScore, err := parseScore(home.Score)
	if err != nil {
		return matchup.Matchup{}, fmt.Errorf("event %q home score: %v", event.ID, err)
	}
	awayScore, err := parseScore(away.Score)
	if err != nil {
		return matchup.Matchup{}, fmt.Errorf("event %q away score: %v", event.ID, err)
	}

	item := matchup.Matchup{
		Week:      week,
		HomeTeam:  strings.ToUpper(strings.TrimSpace(home.Abbreviation)),
		AwayTeam:  strings.ToUpper(strings.TrimSpace(away.Abbreviation)),
		HomeScore: homeScore,
		AwayScore: awayScore,
		Status:    mapStatus(event.Status),
		Completed: event.FullStatus.Type.Completed,
	}
	if item.HomeTeam == "" || item.AwayTeam == "" {
		return matchup.Matchup{}, fmt.Errorf("event %q is missing team abbreviations", event.ID)
	}
	if item.Completed {
		item.Status = matchup.StatusFinal
	}
	return item, nil
}

func mapStatus(raw string) matchup.Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pre":
		return matchup.StatusScheduled
	case "in":
		return matchup.StatusInProgress
	case "post":
		return matchup.StatusFinal
	default:
		return matchup.StatusInProgress
	}
}

func parseScore(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse score %q: %v", raw, err)
	}
	return value, nil
}

func isESPNCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errESPNTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
