// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerror "github.com/fitness-tracker/companion/internal/domain/error"
	"github.com/fitness-tracker/companion/internal/integration/entrypoint/dto"
)

// writeError maps a domain error onto a status code and the error DTO.
func writeError(ctx *gin.Context, message string, err error) {
	status := http.StatusInternalServerError
	response := dto.ErrorResponse{Error: message, Details: err.Error()}

	var (
		workoutErr *domainerror.WorkoutError
		fetchErr   *domainerror.FetchError
		ledgerErr  *domainerror.LedgerError
	)
	switch {
	case errors.As(err, &workoutErr):
		response.Code = string(workoutErr.Code)
		status = workoutStatus(workoutErr.Code)
	case errors.As(err, &fetchErr):
		response.Code = string(fetchErr.Code)
		status = http.StatusBadGateway
		if fetchErr.IsTransient() {
			status = http.StatusServiceUnavailable
		}
	case errors.As(err, &ledgerErr):
		response.Code = string(ledgerErr.Code)
	default:
		response.Code = string(domainerror.ErrCodeInternal)
	}

	ctx.JSON(status, response)
}

func workoutStatus(code domainerror.WorkoutErrorCode) int {
	switch code {
	case domainerror.ErrCodeMissingScheduledWorkoutID, domainerror.ErrCodeMissingWorkoutSessionID:
		return http.StatusBadRequest
	case domainerror.ErrCodeScheduledWorkoutNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeCompletionRejected:
		return http.StatusUnprocessableEntity
	case domainerror.ErrCodeSessionCreationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(ctx *gin.Context, message string, err error) {
	response := dto.ErrorResponse{
		Error: message,
		Code:  string(domainerror.ErrCodeInvalidRequest),
	}
	if err != nil {
		response.Details = err.Error()
	}
	ctx.JSON(http.StatusBadRequest, response)
}
