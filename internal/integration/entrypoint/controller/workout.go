package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitness-tracker/companion/internal/application/usecase/workout"
	"github.com/fitness-tracker/companion/internal/domain/entity"
	"github.com/fitness-tracker/companion/internal/integration/entrypoint/dto"
)

// WorkoutController handles scheduled workout endpoints.
type WorkoutController struct {
	guard         *workout.Guard
	finishUseCase *workout.FinishScheduledWorkoutUseCase
	notifier      Notifier
}

// NewWorkoutController creates a new workout controller instance.
func NewWorkoutController(guard *workout.Guard, finishUseCase *workout.FinishScheduledWorkoutUseCase, notifier Notifier) *WorkoutController {
	return &WorkoutController{
		guard:         guard,
		finishUseCase: finishUseCase,
		notifier:      notifier,
	}
}

// List handles GET /scheduled-workouts requests. It returns the tracked
// workouts as the companion currently knows them.
func (c *WorkoutController) List(ctx *gin.Context) {
	ids := c.guard.TrackedIDs()
	workouts := make([]dto.ScheduledWorkoutResponse, 0, len(ids))
	for _, id := range ids {
		w, ok := c.guard.Get(id)
		if !ok {
			workouts = append(workouts, dto.ScheduledWorkoutResponse{ID: id, Status: "unknown"})
			continue
		}
		workouts = append(workouts, dto.ToScheduledWorkoutResponse(w))
	}
	ctx.JSON(http.StatusOK, gin.H{"scheduled_workouts": workouts})
}

// Track handles POST /scheduled-workouts/:id/track requests.
func (c *WorkoutController) Track(ctx *gin.Context) {
	id := ctx.Param("id")
	c.guard.Track(id)

	ctx.JSON(http.StatusOK, dto.TrackWorkoutResponse{
		ScheduledWorkoutID: id,
		Tracked:            c.guard.TrackedIDs(),
	})
}

// Finish handles POST /scheduled-workouts/:id/finish requests.
func (c *WorkoutController) Finish(ctx *gin.Context) {
	var req dto.FinishWorkoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", err)
		return
	}
	if req.EndedAt.Before(req.StartedAt) {
		badRequest(ctx, "ended_at must not be before started_at", nil)
		return
	}

	id := ctx.Param("id")
	output, err := c.finishUseCase.Execute(ctx.Request.Context(), workout.FinishScheduledWorkoutInput{
		ScheduledWorkoutID: id,
		Name:               req.Name,
		StartedAt:          req.StartedAt,
		EndedAt:            req.EndedAt,
		Notes:              req.Notes,
	})
	if err != nil {
		writeError(ctx, "Failed to finish scheduled workout", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.FinishWorkoutResponse{
		ScheduledWorkoutID: id,
		WorkoutSessionID:   output.WorkoutSessionID,
		AlreadyCompleted:   output.AlreadyCompleted,
	})
}

// Complete handles POST /scheduled-workouts/:id/complete requests.
func (c *WorkoutController) Complete(ctx *gin.Context) {
	var req dto.CompleteWorkoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", err)
		return
	}

	id := ctx.Param("id")
	result, err := c.guard.Complete(ctx.Request.Context(), id, req.WorkoutSessionID)
	if err != nil {
		c.notifier.Show(ctx.Request.Context(), entity.SeverityError, "Failed to complete scheduled workout")
		writeError(ctx, "Failed to complete scheduled workout", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.CompleteWorkoutResponse{
		ScheduledWorkoutID: id,
		AlreadyCompleted:   result.AlreadyCompleted,
	})
}
