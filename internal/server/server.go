package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"taskmanager/internal/domain/errors"
	"taskmanager/internal/service"
	"taskmanager/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
)

// Pinger is implemented by stores that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type TaskAPI struct {
	httpSrv *http.Server
	tasks   *service.TaskService
	users   *service.UserService
	health  Pinger
	log     *slog.Logger
}

// NewTaskAPI wires the services over the given stores. A nil cfg uses
// DefaultConfig. Health checks use taskRepo when it implements Pinger.
func NewTaskAPI(userRepo service.UserRepository, taskRepo service.TaskRepository, cfg *Config) *TaskAPI {
	if userRepo == nil || taskRepo == nil {
		return nil
	}
	if cfg == nil {
		c := DefaultConfig
		cfg = &c
	}
	log := slog.Default()

	api := &TaskAPI{
		httpSrv: &http.Server{
			Addr:              cfg.ListenAddr(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		tasks: service.NewTaskService(taskRepo, log),
		users: service.NewUserService(userRepo, log),
		log:   log,
	}
	if p, ok := taskRepo.(Pinger); ok {
		api.health = p
	}
	api.configRoutes()
	return api
}

func (api *TaskAPI) Start() error {
	if api.httpSrv == nil {
		return errors.ErrInternalServer
	}
	api.log.Info("server listening", slog.String("addr", api.httpSrv.Addr))
	if err := api.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (api *TaskAPI) Shutdown(ctx context.Context) error {
	return api.httpSrv.Shutdown(ctx)
}

// Handler exposes the full handler chain, compression included.
func (api *TaskAPI) Handler() http.Handler {
	return api.httpSrv.Handler
}

func (api *TaskAPI) configRoutes() {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(RequestID(), AccessLog(api.log), Recovery(api.log), GzipRequestDecompress())

	router.NoMethod(func(ctx *gin.Context) {
		ctx.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})
	router.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	router.GET("/healthz", api.healthz)

	users := router.Group("/users")
	{
		users.GET("", api.getUsers)
		users.POST("", api.createUser)
	}

	tasks := router.Group("/tasks")
	{
		tasks.GET("", api.getTasks)
		tasks.POST("", api.createTask)
		tasks.GET("/:taskID", api.getTaskByID)
		tasks.PATCH("/:taskID", api.updateTask)
		tasks.DELETE("/:taskID", api.deleteTask)
	}

	api.httpSrv.Handler = gzhttp.GzipHandler(router)
}

func (api *TaskAPI) healthz(ctx *gin.Context) {
	if api.health != nil {
		if err := api.health.Ping(ctx.Request.Context()); err != nil {
			_ = ctx.Error(err)
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (api *TaskAPI) getUsers(ctx *gin.Context) {
	users, err := api.users.List(ctx.Request.Context())
	if err != nil {
		api.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, users)
}

func (api *TaskAPI) createUser(ctx *gin.Context) {
	body, err := ctx.GetRawData()
	if err != nil {
		api.writeError(ctx, errors.ErrBadRequest)
		return
	}
	payload, typeErrs, err := validation.DecodeUserPayload(body)
	if err != nil {
		api.writeError(ctx, err)
		return
	}

	user, err := api.users.Create(ctx.Request.Context(), payload, typeErrs)
	var fe errors.FieldErrors
	if errors.As(err, &fe) {
		ctx.JSON(http.StatusBadRequest, fe.Issues())
		return
	}
	if err != nil {
		api.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, user)
}

func (api *TaskAPI) getTasks(ctx *gin.Context) {
	q := service.ParseTaskQuery(ctx.Request.URL.Query())
	page, err := api.tasks.List(ctx.Request.Context(), q)
	if err != nil {
		api.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, page)
}

func (api *TaskAPI) getTaskByID(ctx *gin.Context) {
	id, err := service.ParseID(ctx.Param("taskID"))
	if err != nil {
		api.writeError(ctx, err)
		return
	}
	task, err := api.tasks.Get(ctx.Request.Context(), id)
	if err != nil {
		api.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, task)
}

func (api *TaskAPI) createTask(ctx *gin.Context) {
	body, err := ctx.GetRawData()
	if err != nil {
		api.writeError(ctx, errors.ErrBadRequest)
		return
	}
	payload, typeErrs, err := validation.DecodeTaskPayload(body)
	if err != nil {
		api.writeError(ctx, err)
		return
	}
	task, err := api.tasks.Create(ctx.Request.Context(), payload, typeErrs)
	if err != nil {
		api.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, task)
}

// updateTask handles both the completion shortcut ({"complete": true}) and
// full replacement.
func (api *TaskAPI) updateTask(ctx *gin.Context) {
	id, err := service.ParseID(ctx.Param("taskID"))
	if err != nil {
		api.writeError(ctx, err)
		return
	}
	body, err := ctx.GetRawData()
	if err != nil {
		api.writeError(ctx, errors.ErrBadRequest)
		return
	}

	var signal struct {
		Complete bool `json:"complete"`
	}
	if json.Unmarshal(body, &signal) == nil && signal.Complete {
		task, err := api.tasks.Complete(ctx.Request.Context(), id)
		if err != nil {
			api.writeError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, task)
		return
	}

	payload, typeErrs, err := validation.DecodeTaskPayload(body)
	if err != nil {
		api.writeError(ctx, err)
		return
	}
	task, err := api.tasks.Update(ctx.Request.Context(), id, payload, typeErrs)
	if err != nil {
		api.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, task)
}

func (api *TaskAPI) deleteTask(ctx *gin.Context) {
	id, err := service.ParseID(ctx.Param("taskID"))
	if err != nil {
		api.writeError(ctx, err)
		return
	}
	if err := api.tasks.Delete(ctx.Request.Context(), id); err != nil {
		api.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// writeError maps a service error onto a status code. Store failures are
// logged and answered with a generic message.
func (api *TaskAPI) writeError(ctx *gin.Context, err error) {
	var fe errors.FieldErrors
	switch {
	case errors.As(err, &fe):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrValidationFailed.Error(), "fields": fe})
	case errors.Is(err, errors.ErrInvalidID):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrInvalidID.Error()})
	case errors.Is(err, errors.ErrInvalidUserID):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrInvalidUserID.Error()})
	case errors.Is(err, errors.ErrBadRequest):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
	case errors.Is(err, errors.ErrTaskNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": errors.ErrTaskNotFound.Error()})
	default:
		_ = ctx.Error(err)
		api.log.Error("request failed",
			slog.String("request_id", ctx.GetString(requestIDKey)),
			slog.Any("error", err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
	}
}
