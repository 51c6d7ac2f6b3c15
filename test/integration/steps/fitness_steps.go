package steps

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cucumber/godog"

	"github.com/fitness-tracker/companion/internal/domain/entity"
	"github.com/fitness-tracker/companion/internal/integration/cache"
	"github.com/fitness-tracker/companion/internal/integration/persistence"
	"github.com/fitness-tracker/companion/test/integration/mock"
)

// recordingHandlers counts celebrations per effect.
type recordingHandlers struct {
	mu     sync.Mutex
	counts map[string]int
}

func newRecordingHandlers() *recordingHandlers {
	return &recordingHandlers{counts: map[string]int{}}
}

func (h *recordingHandlers) inc(effect string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.counts[effect]++
}

func (h *recordingHandlers) count(effect string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.counts[effect]
}

func (h *recordingHandlers) OnGoalAchieved(context.Context, entity.Goal) { h.inc("goal achieved") }

func (h *recordingHandlers) OnHydrationGoalReached(context.Context, entity.WaterRecord) {
	h.inc("hydration reached")
}

func (h *recordingHandlers) OnHydrationGoalReset(context.Context) { h.inc("hydration reset") }

func (h *recordingHandlers) OnScheduledWorkoutCompleted(context.Context, string, string) {
	h.inc("workout completed")
}

// registerFitnessAPISteps registers steps scripting the fake fitness API.
func registerFitnessAPISteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the fitness API returns goals:$`, theFitnessAPIReturnsGoals)
	ctx.Step(`^the fitness API reports (\d+) ml of water today$`, theFitnessAPIReportsWater)
	ctx.Step(`^the fitness API has scheduled workout "([^"]*)" with status "([^"]*)"$`, theFitnessAPIHasScheduledWorkout)
	ctx.Step(`^the fitness API completes scheduled workout "([^"]*)"$`, theFitnessAPICompletesScheduledWorkout)
	ctx.Step(`^the fitness API creates workout sessions with id "([^"]*)"$`, theFitnessAPICreatesWorkoutSessions)
	ctx.Step(`^the fitness API answers "([^"]*)" "([^"]*)" with status (\d+)$`, theFitnessAPIAnswersWithStatus)
	ctx.Step(`^the fitness API should have received (\d+) "([^"]*)" requests? to "([^"]*)"$`, theFitnessAPIShouldHaveReceived)
	ctx.Step(`^the last "([^"]*)" request to "([^"]*)" should carry header "([^"]*)"$`, theLastRequestShouldCarryHeader)
}

// registerCompanionSteps registers steps driving the companion itself.
func registerCompanionSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the companion uses the "([^"]*)" ledger$`, theCompanionUsesTheLedger)
	ctx.Step(`^the companion restarts$`, theCompanionRestarts)
	ctx.Step(`^I refresh "([^"]*)"$`, iRefresh)
	ctx.Step(`^I refresh "([^"]*)" (\d+) times$`, iRefreshTimes)
	ctx.Step(`^(\d+) "([^"]*)" celebrations? should have fired$`, celebrationsShouldHaveFired)
	ctx.Step(`^(\d+) ms pass$`, timePasses)
}

func theFitnessAPIReturnsGoals(ctx context.Context, table *godog.Table) error {
	tc := GetTestContext(ctx)
	if len(table.Rows) < 1 {
		return fmt.Errorf("goal table needs a header row")
	}

	header := table.Rows[0].Cells
	goals := make([]map[string]any, 0, len(table.Rows)-1)
	for _, row := range table.Rows[1:] {
		goal := map[string]any{}
		for i, cell := range row.Cells {
			goal[header[i].Value] = cell.Value
		}
		goals = append(goals, goal)
	}

	tc.api.SetResponse(-1, http.MethodGet, "/api/goals", http.StatusOK, goals)
	return nil
}

func theFitnessAPIReportsWater(ctx context.Context, amountMl int) error {
	tc := GetTestContext(ctx)
	tc.api.SetResponse(-1, http.MethodGet, "/api/water-intake", http.StatusOK, map[string]any{
		"date":     tc.clock.Now().Format("2006-01-02"),
		"amountMl": amountMl,
	})
	return nil
}

func theFitnessAPIHasScheduledWorkout(ctx context.Context, id, status string) error {
	tc := GetTestContext(ctx)
	body := map[string]any{
		"id":           id,
		"name":         "Workout " + id,
		"status":       status,
		"scheduledFor": tc.clock.Now().Format(time.RFC3339),
	}
	if status == string(entity.ScheduledWorkoutCompleted) {
		body["workoutSessionId"] = "remote-session"
	}
	tc.api.SetResponse(-1, http.MethodGet, "/api/scheduled-workouts/"+id, http.StatusOK, body)
	return nil
}

func theFitnessAPICompletesScheduledWorkout(ctx context.Context, id string) error {
	tc := GetTestContext(ctx)
	tc.api.SetResponse(-1, http.MethodPatch, "/api/scheduled-workouts/"+id+"/complete", http.StatusOK, map[string]any{"id": id})
	return nil
}

func theFitnessAPICreatesWorkoutSessions(ctx context.Context, id string) error {
	tc := GetTestContext(ctx)
	tc.api.SetResponse(-1, http.MethodPost, "/api/workout-sessions", http.StatusCreated, map[string]any{"id": id})
	return nil
}

func theFitnessAPIAnswersWithStatus(ctx context.Context, method, path string, status int) error {
	tc := GetTestContext(ctx)
	tc.api.SetResponse(-1, method, path, status, map[string]any{"error": http.StatusText(status)})
	return nil
}

func theFitnessAPIShouldHaveReceived(ctx context.Context, expected int, method, path string) error {
	tc := GetTestContext(ctx)
	if got := tc.api.RequestCount(method, path); got != expected {
		return fmt.Errorf("expected %d %s requests to %s, got %d", expected, method, path, got)
	}
	return nil
}

func theLastRequestShouldCarryHeader(ctx context.Context, method, path, header string) error {
	tc := GetTestContext(ctx)
	n := tc.api.RequestCount(method, path)
	if n == 0 {
		return fmt.Errorf("no %s request reached %s", method, path)
	}
	if tc.api.GetRequestHeaders(method, path, n-1)[header] == "" {
		return fmt.Errorf("expected header %s on last %s %s request", header, method, path)
	}
	return nil
}

func theCompanionUsesTheLedger(ctx context.Context, backend string) error {
	tc := GetTestContext(ctx)

	switch backend {
	case "memory":
		tc.ledger = persistence.NewMemoryLedger()
	case "sql":
		database := mock.NewDb()
		if err := database.ClearDB(); err != nil {
			return err
		}
		tc.ledger = persistence.NewIdempotencyLedgerRepository(database.DbConn, ledgerNamespace, tc.clock)
	case "redis":
		client := mock.NewRedis()
		if err := mock.ClearRedis(client); err != nil {
			return err
		}
		tc.ledger = cache.NewIdempotencyLedger(client, ledgerNamespace)
	default:
		return fmt.Errorf("unknown ledger backend %q", backend)
	}

	return tc.restart()
}

func theCompanionRestarts(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc.ledger == nil {
		return fmt.Errorf("a restart only keeps state with an explicit ledger")
	}
	return tc.restart()
}

func iRefresh(ctx context.Context, kind string) (context.Context, error) {
	return send(ctx, http.MethodPost, "/api/v1/refresh/"+kind, nil)
}

func iRefreshTimes(ctx context.Context, kind string, times int) (context.Context, error) {
	var err error
	for i := 0; i < times; i++ {
		ctx, err = iRefresh(ctx, kind)
		if err != nil {
			return ctx, err
		}
		if status := GetTestContext(ctx).response.StatusCode; status != http.StatusOK {
			return ctx, fmt.Errorf("refresh %d returned status %d", i+1, status)
		}
	}
	return ctx, nil
}

func celebrationsShouldHaveFired(ctx context.Context, expected int, effect string) error {
	tc := GetTestContext(ctx)
	if got := tc.handlers.count(effect); got != expected {
		return fmt.Errorf("expected %d %q celebrations, got %d", expected, effect, got)
	}
	return nil
}

func timePasses(ctx context.Context, ms string) error {
	tc := GetTestContext(ctx)
	n, err := strconv.Atoi(ms)
	if err != nil {
		return err
	}
	tc.clock.Advance(time.Duration(n) * time.Millisecond)
	return nil
}
