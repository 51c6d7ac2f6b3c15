// Package fitnessapi implements the FitnessAPI adapter over the fitness REST API.
package fitnessapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"

	"github.com/fitness-tracker/companion/internal/application/adapter"
	"github.com/fitness-tracker/companion/internal/domain/entity"
	domainerror "github.com/fitness-tracker/companion/internal/domain/error"
)

// IdempotencyKeyHeader carries the deterministic key of a session creation.
const IdempotencyKeyHeader = "Idempotency-Key"

// Config holds the fitness API client configuration.
type Config struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     uint64
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Client talks to the fitness REST API. Only GETs are retried.
type Client struct {
	http   *resty.Client
	cfg    Config
	logger *slog.Logger
}

// NewClient creates a new fitness API client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 200 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Second
	}

	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout)
	if cfg.Token != "" {
		c.SetAuthToken(cfg.Token)
	}

	return &Client{
		http:   c,
		cfg:    cfg,
		logger: slog.With("component", "fitness_api_client"),
	}
}

// FetchGoals retrieves every goal of the authenticated account.
func (c *Client) FetchGoals(ctx context.Context) ([]entity.Goal, error) {
	var body []goalResponse
	if err := c.getJSON(ctx, "fetch goals", "/api/goals", nil, nil, &body); err != nil {
		return nil, err
	}

	goals := make([]entity.Goal, 0, len(body))
	for _, g := range body {
		if g.ID == "" || !entity.IsValidGoalStatus(entity.Status(g.Status)) {
			return nil, domainerror.NewFetchError(domainerror.ErrCodeMalformedResponse,
				"goal with missing id or unknown status", http.StatusOK, domainerror.ErrMalformedResponse)
		}
		goals = append(goals, g.ToEntity())
	}
	return goals, nil
}

// FetchWaterIntake retrieves the cumulative intake for the given day.
func (c *Client) FetchWaterIntake(ctx context.Context, date string) (entity.WaterRecord, error) {
	var body waterIntakeResponse
	query := map[string]string{"date": date}
	if err := c.getJSON(ctx, "fetch water intake", "/api/water-intake", query, nil, &body); err != nil {
		return entity.WaterRecord{}, err
	}

	if body.Date == "" {
		body.Date = date
	}
	return entity.WaterRecord{Date: body.Date, AmountMl: body.AmountMl}, nil
}

// FetchScheduledWorkout retrieves a single scheduled workout.
func (c *Client) FetchScheduledWorkout(ctx context.Context, id string) (entity.ScheduledWorkout, error) {
	var body scheduledWorkoutResponse
	params := map[string]string{"id": id}
	if err := c.getJSON(ctx, "fetch scheduled workout", "/api/scheduled-workouts/{id}", nil, params, &body); err != nil {
		return entity.ScheduledWorkout{}, err
	}

	if body.ID == "" {
		body.ID = id
	}
	if !body.consistent() {
		return entity.ScheduledWorkout{}, domainerror.NewFetchError(domainerror.ErrCodeMalformedResponse,
			"scheduled workout status and session id disagree", http.StatusOK, domainerror.ErrMalformedResponse)
	}
	return body.ToEntity(), nil
}

// CreateWorkoutSession creates a session record and returns its id.
func (c *Client) CreateWorkoutSession(ctx context.Context, session entity.WorkoutSession) (string, error) {
	req := c.http.R().
		SetContext(ctx).
		SetBody(newCreateWorkoutSessionRequest(session))
	if session.IdempotencyKey != "" {
		req.SetHeader(IdempotencyKeyHeader, session.IdempotencyKey)
	}

	resp, err := req.Post("/api/workout-sessions")
	if err != nil {
		return "", transportError(ctx, "create workout session", err)
	}
	if resp.IsError() {
		fetchErr := statusError("create workout session", resp)
		if fetchErr.IsTransient() {
			return "", fetchErr
		}
		return "", domainerror.NewWorkoutError(domainerror.ErrCodeSessionCreationFailed,
			"workout session rejected", fmt.Errorf("%w: %w", domainerror.ErrSessionCreationFailed, fetchErr))
	}

	var body createWorkoutSessionResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil || body.ID == "" {
		return "", domainerror.NewFetchError(domainerror.ErrCodeMalformedResponse,
			"create workout session returned no id", resp.StatusCode(), domainerror.ErrMalformedResponse)
	}
	return body.ID, nil
}

// CompleteScheduledWorkout marks the scheduled workout completed and links the session.
func (c *Client) CompleteScheduledWorkout(ctx context.Context, id, workoutSessionID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetBody(completeScheduledWorkoutRequest{WorkoutSessionID: workoutSessionID}).
		Patch("/api/scheduled-workouts/{id}/complete")
	if err != nil {
		return transportError(ctx, "complete scheduled workout", err)
	}
	if !resp.IsError() {
		return nil
	}

	fetchErr := statusError("complete scheduled workout", resp)
	switch {
	case fetchErr.IsTransient():
		return fetchErr
	case fetchErr.Code == domainerror.ErrCodeFetchNotFound:
		return domainerror.NewWorkoutError(domainerror.ErrCodeScheduledWorkoutNotFound,
			"scheduled workout not found: "+id, fmt.Errorf("%w: %w", domainerror.ErrScheduledWorkoutNotFound, fetchErr))
	default:
		return domainerror.NewWorkoutError(domainerror.ErrCodeCompletionRejected,
			"completion rejected", fmt.Errorf("%w: %w", domainerror.ErrCompletionRejected, fetchErr))
	}
}

// getJSON performs an idempotent GET, retrying transient failures with
// exponential backoff, and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, op, path string, query, pathParams map[string]string, out any) error {
	attempt := 0
	operation := func() error {
		attempt++
		req := c.http.R().SetContext(ctx)
		if query != nil {
			req.SetQueryParams(query)
		}
		if pathParams != nil {
			req.SetPathParams(pathParams)
		}

		resp, err := req.Get(path)
		if err != nil {
			return transportError(ctx, op, err)
		}
		if resp.IsError() {
			fetchErr := statusError(op, resp)
			if !fetchErr.IsTransient() {
				return backoff.Permanent(fetchErr)
			}
			return fetchErr
		}

		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return backoff.Permanent(domainerror.NewFetchError(domainerror.ErrCodeMalformedResponse,
				op+": malformed response", resp.StatusCode(), fmt.Errorf("%w: %w", domainerror.ErrMalformedResponse, err)))
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("Retrying fitness API request",
			"operation", op,
			"attempt", attempt,
			"wait", wait.String(),
			"error", err)
	}

	return backoff.RetryNotify(operation, backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.cfg.MaxRetries), ctx), notify)
}

func (c *Client) newBackOff() *backoff.ExponentialBackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.cfg.InitialBackoff
	exp.Multiplier = 2
	exp.MaxInterval = c.cfg.MaxBackoff
	exp.MaxElapsedTime = 0
	exp.Reset()
	return exp
}

func transportError(ctx context.Context, op string, err error) *domainerror.FetchError {
	code := domainerror.ErrCodeTransientFetch
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		code = domainerror.ErrCodeFetchTimeout
	}
	return domainerror.NewFetchError(code, op+" failed", 0, fmt.Errorf("%w: %w", domainerror.ErrTransientFetch, err))
}

// statusError classifies a non-2xx response. Timeouts, throttling and server
// errors are transient; any other 4xx is a rejection.
func statusError(op string, resp *resty.Response) *domainerror.FetchError {
	status := resp.StatusCode()
	message := fmt.Sprintf("%s: status %d", op, status)

	var body errorResponse
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.text() != "" {
		message += ": " + body.text()
	}

	switch {
	case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests, status >= 500:
		return domainerror.NewFetchError(domainerror.ErrCodeTransientFetch, message, status, domainerror.ErrTransientFetch)
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return domainerror.NewFetchError(domainerror.ErrCodeFetchUnauthorized, message, status, domainerror.ErrFetchRejected)
	case status == http.StatusNotFound:
		return domainerror.NewFetchError(domainerror.ErrCodeFetchNotFound, message, status, domainerror.ErrFetchRejected)
	default:
		return domainerror.NewFetchError(domainerror.ErrCodeFetchRejected, message, status, domainerror.ErrFetchRejected)
	}
}

// Ensure Client implements adapter.FitnessAPI.
var _ adapter.FitnessAPI = (*Client)(nil)
