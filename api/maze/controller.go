package mazeapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/beka-birhanu/vinom-maze/api/identity"
	dmn "github.com/beka-birhanu/vinom-maze/domain"
	"github.com/beka-birhanu/vinom-maze/service"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultLargest = 10
	maxLargest     = 100
	defaultScale   = 8

	// MaxImportBytes bounds the body of an import request.
	MaxImportBytes = 64 << 20
)

// MazeController serves the maze endpoints.
type MazeController struct {
	mazeService i.MazeService
	logger      i.Logger
}

// NewMazeController creates a MazeController.
func NewMazeController(ms i.MazeService, logger i.Logger) (*MazeController, error) {
	if ms == nil || logger == nil {
		return nil, service.ErrMissingDep
	}
	return &MazeController{
		mazeService: ms,
		logger:      logger,
	}, nil
}

// RegisterPublic registers public routes.
func (mc *MazeController) RegisterPublic(route *gin.RouterGroup) {
	route.GET("/mazes/largest", mc.largest)
}

// RegisterProtected registers protected routes.
func (mc *MazeController) RegisterProtected(route *gin.RouterGroup) {
	mazes := route.Group("/mazes")
	{
		mazes.POST("/seed", mc.seed)
		mazes.POST("/random", mc.random)
		mazes.POST("/import", mc.importRaw)
		mazes.GET("/:id", mc.get)
		mazes.POST("/:id/expand", mc.expand)
		mazes.POST("/:id/labyrinth", mc.labyrinth)
		mazes.POST("/:id/solution", mc.solution)
		mazes.GET("/:id/image", mc.image)
		mazes.GET("/:id/raw", mc.raw)
	}
}

func (mc *MazeController) seed(ctx *gin.Context) {
	owner, ok := mc.owner(ctx)
	if !ok {
		return
	}
	record, err := mc.mazeService.Seed(ctx.Request.Context(), owner)
	if err != nil {
		mc.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, newMazeResponse(record))
}

func (mc *MazeController) random(ctx *gin.Context) {
	owner, ok := mc.owner(ctx)
	if !ok {
		return
	}
	var request RandomRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := mc.mazeService.Random(ctx.Request.Context(), owner, request.Width, request.Height)
	if err != nil {
		mc.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, newMazeResponse(record))
}

func (mc *MazeController) importRaw(ctx *gin.Context) {
	owner, ok := mc.owner(ctx)
	if !ok {
		return
	}
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, MaxImportBytes)
	raw, err := ctx.GetRawData()
	if err != nil {
		ctx.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return
	}

	record, err := mc.mazeService.Import(ctx.Request.Context(), owner, raw)
	if err != nil {
		mc.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, newMazeResponse(record))
}

func (mc *MazeController) get(ctx *gin.Context) {
	id, ok := mc.mazeID(ctx)
	if !ok {
		return
	}
	record, err := mc.mazeService.Get(ctx.Request.Context(), id)
	if err != nil {
		mc.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newMazeResponse(record))
}

func (mc *MazeController) expand(ctx *gin.Context) {
	owner, ok := mc.owner(ctx)
	if !ok {
		return
	}
	id, ok := mc.mazeID(ctx)
	if !ok {
		return
	}
	var request ExpandRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := mc.mazeService.Expand(ctx.Request.Context(), owner, id, request.Factor)
	if err != nil {
		mc.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, newMazeResponse(record))
}

func (mc *MazeController) labyrinth(ctx *gin.Context) {
	owner, ok := mc.owner(ctx)
	if !ok {
		return
	}
	id, ok := mc.mazeID(ctx)
	if !ok {
		return
	}

	record, err := mc.mazeService.Labyrinth(ctx.Request.Context(), owner, id)
	if err != nil {
		mc.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, newMazeResponse(record))
}

func (mc *MazeController) solution(ctx *gin.Context) {
	owner, ok := mc.owner(ctx)
	if !ok {
		return
	}
	id, ok := mc.mazeID(ctx)
	if !ok {
		return
	}

	record, path, err := mc.mazeService.Solve(ctx.Request.Context(), owner, id)
	if err != nil {
		mc.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, &SolutionResponse{
		Maze:   newMazeResponse(record),
		Path:   path,
		Length: len(path),
	})
}

func (mc *MazeController) image(ctx *gin.Context) {
	id, ok := mc.mazeID(ctx)
	if !ok {
		return
	}
	scale, err := strconv.Atoi(ctx.DefaultQuery("scale", strconv.Itoa(defaultScale)))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "scale must be an integer"})
		return
	}

	data, err := mc.mazeService.Render(ctx.Request.Context(), id, scale)
	if err != nil {
		mc.fail(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, "image/png", data)
}

func (mc *MazeController) raw(ctx *gin.Context) {
	id, ok := mc.mazeID(ctx)
	if !ok {
		return
	}
	data, err := mc.mazeService.Raw(ctx.Request.Context(), id)
	if err != nil {
		mc.fail(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, "application/octet-stream", data)
}

func (mc *MazeController) largest(ctx *gin.Context) {
	n, err := strconv.Atoi(ctx.DefaultQuery("n", strconv.Itoa(defaultLargest)))
	if err != nil || n < 1 || n > maxLargest {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "n must be an integer in [1, 100]"})
		return
	}

	records, err := mc.mazeService.Largest(ctx.Request.Context(), int64(n))
	if err != nil {
		mc.fail(ctx, err)
		return
	}
	response := make([]MazeResponse, len(records))
	for k, r := range records {
		response[k] = newMazeResponse(r)
	}
	ctx.JSON(http.StatusOK, response)
}

func (mc *MazeController) owner(ctx *gin.Context) (uuid.UUID, bool) {
	owner, ok := identity.UserID(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
	}
	return owner, ok
}

func (mc *MazeController) mazeID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid maze id"})
		return uuid.Nil, false
	}
	return id, true
}

// fail maps service errors to HTTP statuses.
func (mc *MazeController) fail(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidArgument), errors.Is(err, service.ErrInvalidMaze):
		status = http.StatusBadRequest
	case errors.Is(err, dmn.ErrMazeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, dmn.ErrMazeBusy):
		status = http.StatusConflict
	case errors.Is(err, dmn.ErrTooLarge):
		status = http.StatusRequestEntityTooLarge
	}

	if status == http.StatusInternalServerError {
		mc.logger.Error(err.Error())
		ctx.JSON(status, gin.H{"error": "internal error"})
		return
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}
