package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitness-tracker/companion/internal/application/usecase/polling"
	"github.com/fitness-tracker/companion/internal/application/usecase/snapshot"
	"github.com/fitness-tracker/companion/internal/domain/entity"
	domainerror "github.com/fitness-tracker/companion/internal/domain/error"
	"github.com/fitness-tracker/companion/internal/integration/entrypoint/dto"
)

// Refresher triggers an immediate poll of one kind.
type Refresher interface {
	Refresh(ctx context.Context, kind entity.EntityKind) (*polling.PollOutput, error)
}

// SnapshotController handles on-demand refetches and snapshot reads.
type SnapshotController struct {
	refresher Refresher
	store     *snapshot.Store
}

// NewSnapshotController creates a new snapshot controller instance.
func NewSnapshotController(refresher Refresher, store *snapshot.Store) *SnapshotController {
	return &SnapshotController{
		refresher: refresher,
		store:     store,
	}
}

// Refresh handles POST /refresh/:kind requests.
func (c *SnapshotController) Refresh(ctx *gin.Context) {
	kind, ok := parseKind(ctx)
	if !ok {
		return
	}

	output, err := c.refresher.Refresh(ctx.Request.Context(), kind)
	if err != nil {
		if output != nil && output.Applied {
			// The snapshot was applied but some effects could not be recorded.
			writeError(ctx, "Failed to record effects for "+string(kind), err)
			return
		}
		writeError(ctx, "Failed to refresh "+string(kind), err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRefreshResponse(output))
}

// Get handles GET /snapshots/:kind requests.
func (c *SnapshotController) Get(ctx *gin.Context) {
	kind, ok := parseKind(ctx)
	if !ok {
		return
	}

	current := c.store.Current(kind)
	if current == nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: "No snapshot recorded yet",
			Code:  string(domainerror.ErrCodeSnapshotNotFound),
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSnapshotResponse(current))
}

func parseKind(ctx *gin.Context) (entity.EntityKind, bool) {
	kind, ok := entity.ParseEntityKind(ctx.Param("kind"))
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Unknown entity kind",
			Code:  string(domainerror.ErrCodeInvalidEntityKind),
		})
		return "", false
	}
	return kind, true
}
