package gridapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/beka-birhanu/vinom-pathfinder/api/identity"
	dmn "github.com/beka-birhanu/vinom-pathfinder/domain"
	"github.com/beka-birhanu/vinom-pathfinder/grid"
	"github.com/beka-birhanu/vinom-pathfinder/service"
	"github.com/beka-birhanu/vinom-pathfinder/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const searchTimeout = 5 * time.Second

var ErrNilManager = errors.New("grid session manager is nil")

// GridController serves grid sessions and stateless searches.
type GridController struct {
	sessions i.GridSessionManager
}

// NewGridController initializes a GridController.
func NewGridController(gsm i.GridSessionManager) (*GridController, error) {
	if gsm == nil {
		return nil, ErrNilManager
	}
	return &GridController{
		sessions: gsm,
	}, nil
}

// RegisterPublic registers public routes.
func (gc *GridController) RegisterPublic(route *gin.RouterGroup) {
	route.POST("/search", gc.evaluate)
}

// RegisterProtected registers protected routes.
func (gc *GridController) RegisterProtected(route *gin.RouterGroup) {
	grids := route.Group("/grids")
	{
		grids.POST("", gc.create)
		grids.GET("/:ID", gc.snapshot)
		grids.DELETE("/:ID", gc.delete)
		grids.POST("/:ID/obstacles", gc.toggleObstacle)
		grids.DELETE("/:ID/obstacles", gc.clearObstacles)
		grids.PUT("/:ID/start", gc.setStart)
		grids.PUT("/:ID/end", gc.setEnd)
		grids.GET("/:ID/search", gc.search)
	}
}

// evaluate searches a grid sent in full without keeping it.
func (gc *GridController) evaluate(ctx *gin.Context) {
	var request GridRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	timeoutCtx, cancel := context.WithTimeout(ctx.Request.Context(), searchTimeout)
	defer cancel()
	result, err := gc.sessions.Evaluate(timeoutCtx, request.spec())
	if err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, newSearchResponse(result))
}

func (gc *GridController) create(ctx *gin.Context) {
	owner, ok := identity.UserID(ctx)
	if !ok {
		ctx.Status(http.StatusUnauthorized)
		return
	}

	var request GridRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	timeoutCtx, cancel := context.WithTimeout(ctx.Request.Context(), searchTimeout)
	defer cancel()
	snapshot, err := gc.sessions.NewSession(timeoutCtx, owner, request.spec())
	if err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, newGridResponse(snapshot))
}

func (gc *GridController) snapshot(ctx *gin.Context) {
	gc.withSession(ctx, gc.sessions.Snapshot)
}

func (gc *GridController) search(ctx *gin.Context) {
	gc.withSession(ctx, gc.sessions.Search)
}

func (gc *GridController) clearObstacles(ctx *gin.Context) {
	gc.withSession(ctx, gc.sessions.ClearObstacles)
}

func (gc *GridController) toggleObstacle(ctx *gin.Context) {
	gc.withCoordinate(ctx, gc.sessions.ToggleObstacle)
}

func (gc *GridController) setStart(ctx *gin.Context) {
	gc.withCoordinate(ctx, gc.sessions.SetStart)
}

func (gc *GridController) setEnd(ctx *gin.Context) {
	gc.withCoordinate(ctx, gc.sessions.SetEnd)
}

func (gc *GridController) delete(ctx *gin.Context) {
	owner, id, ok := sessionRef(ctx)
	if !ok {
		return
	}

	if err := gc.sessions.DeleteSession(ctx.Request.Context(), owner, id); err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	ctx.Status(http.StatusNoContent)
}

type sessionOp func(ctx context.Context, owner, id uuid.UUID) (dmn.GridSnapshot, error)

type cellOp func(ctx context.Context, owner, id uuid.UUID, c grid.Coordinate) (dmn.GridSnapshot, error)

func (gc *GridController) withSession(ctx *gin.Context, op sessionOp) {
	owner, id, ok := sessionRef(ctx)
	if !ok {
		return
	}

	timeoutCtx, cancel := context.WithTimeout(ctx.Request.Context(), searchTimeout)
	defer cancel()
	snapshot, err := op(timeoutCtx, owner, id)
	if err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, newGridResponse(snapshot))
}

func (gc *GridController) withCoordinate(ctx *gin.Context, op cellOp) {
	var request CoordinateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gc.withSession(ctx, func(c context.Context, owner, id uuid.UUID) (dmn.GridSnapshot, error) {
		return op(c, owner, id, request.coordinate())
	})
}

// sessionRef reads the caller and the grid id, writing the error response itself.
func sessionRef(ctx *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	owner, ok := identity.UserID(ctx)
	if !ok {
		ctx.Status(http.StatusUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}

	id, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid grid id"})
		return uuid.Nil, uuid.Nil, false
	}

	return owner, id, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrTooManySessions):
		return http.StatusTooManyRequests
	case errors.Is(err, service.ErrInvalidCoordinate),
		errors.Is(err, service.ErrGridTooLarge),
		errors.Is(err, grid.ErrInvalidDimension),
		errors.Is(err, grid.ErrOutOfBounds),
		errors.Is(err, grid.ErrSameEndpoints):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
