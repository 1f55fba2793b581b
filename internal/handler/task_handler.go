package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"taskmanager/internal/middleware"
	"taskmanager/internal/model"
	"taskmanager/internal/repository"
	"taskmanager/internal/service"

	"github.com/gin-gonic/gin"
)

// TaskService is what the handlers need from the service layer.
type TaskService interface {
	Create(ctx context.Context, in service.CreateTaskInput) (model.Task, error)
	List(ctx context.Context, filter service.TaskFilter) []model.Task
	Get(ctx context.Context, id string) (model.Task, error)
	Update(ctx context.Context, id string, in service.UpdateTaskInput) (model.Task, error)
	Delete(ctx context.Context, id string) error
}

type TaskHandler struct {
	svc TaskService
}

func NewTaskHandler(svc TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// CreateTaskRequest представляет запрос на создание задачи
type CreateTaskRequest struct {
	Title       string          `json:"title" binding:"required,min=3,max=100"`
	Description *string         `json:"description" binding:"omitempty,max=500"`
	Status      *model.Status   `json:"status" binding:"omitempty,oneof=pending in_progress completed" swaggertype:"string" enums:"pending,in_progress,completed"`
	Priority    *model.Priority `json:"priority" binding:"omitempty,oneof=low medium high" swaggertype:"string" enums:"low,medium,high"`
	DueDate     *model.Date     `json:"due_date" swaggertype:"string" format:"date"`
}

// UpdateTaskRequest представляет частичное обновление задачи.
// Отсутствующие поля не меняются; description и due_date можно сбросить через null.
type UpdateTaskRequest struct {
	Title       *string                    `json:"title" binding:"omitempty,min=3,max=100"`
	Description model.Nullable[string]     `json:"description" binding:"omitempty,max=500" swaggertype:"string"`
	Status      *model.Status              `json:"status" binding:"omitempty,oneof=pending in_progress completed" swaggertype:"string" enums:"pending,in_progress,completed"`
	Priority    *model.Priority            `json:"priority" binding:"omitempty,oneof=low medium high" swaggertype:"string" enums:"low,medium,high"`
	DueDate     model.Nullable[model.Date] `json:"due_date" swaggertype:"string" format:"date"`
}

// ListTasksQuery holds the optional list filters
type ListTasksQuery struct {
	Status    *string `form:"status"`
	Priority  *string `form:"priority"`
	IsOverdue *bool   `form:"is_overdue"`
}

// TaskResponse представляет ответ с данными задачи
type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *string    `json:"due_date" format:"date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`
	IsOverdue   bool       `json:"is_overdue"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Create godoc
// @Summary      Create a task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        body  body      CreateTaskRequest  true  "Task"
// @Success      200   {object}  TaskResponse
// @Failure      422   {object}  ErrorResponse
// @Router       /tasks/ [post]
func (h *TaskHandler) Create(c *gin.Context) {
	// Парсим запрос
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: bindingErrorDetail(err)})
		return
	}

	task, err := h.svc.Create(c.Request.Context(), service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		// На создании дата проверяется как часть схемы
		h.respondError(c, err, http.StatusUnprocessableEntity)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// List godoc
// @Summary      List tasks
// @Tags         Tasks
// @Produce      json
// @Param        status      query     string  false  "Filter by status"    Enums(pending, in_progress, completed)
// @Param        priority    query     string  false  "Filter by priority"  Enums(low, medium, high)
// @Param        is_overdue  query     bool    false  "Filter by overdue flag"
// @Success      200         {array}   TaskResponse
// @Failure      422         {object}  ErrorResponse
// @Router       /tasks/ [get]
func (h *TaskHandler) List(c *gin.Context) {
	var q ListTasksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: bindingErrorDetail(err)})
		return
	}

	// Пустые значения фильтров игнорируем
	var filter service.TaskFilter
	if q.Status != nil && strings.TrimSpace(*q.Status) != "" {
		status := model.Status(*q.Status)
		filter.Status = &status
	}
	if q.Priority != nil && strings.TrimSpace(*q.Priority) != "" {
		priority := model.Priority(*q.Priority)
		filter.Priority = &priority
	}
	filter.IsOverdue = q.IsOverdue

	tasks := h.svc.List(c.Request.Context(), filter)

	response := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		response = append(response, toTaskResponse(task))
	}
	c.JSON(http.StatusOK, response)
}

// GetByID godoc
// @Summary      Get a task by ID
// @Tags         Tasks
// @Produce      json
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  TaskResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	task, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Update godoc
// @Summary      Partially update a task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Task ID"
// @Param        body  body      UpdateTaskRequest  true  "Fields to change"
// @Success      200   {object}  TaskResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: bindingErrorDetail(err)})
		return
	}

	task, err := h.svc.Update(c.Request.Context(), c.Param("id"), service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.respondError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete godoc
// @Summary      Delete a task
// @Description  Tasks that are in progress cannot be deleted.
// @Tags         Tasks
// @Produce      json
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Task deleted successfully"})
}

// respondError maps service errors to HTTP responses. dueDateStatus differs
// between create (422) and update (400).
func (h *TaskHandler) respondError(c *gin.Context, err error, dueDateStatus int) {
	switch {
	case errors.Is(err, repository.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Detail: "Task not found"})
	case errors.Is(err, service.ErrDueDateNotInFuture):
		c.JSON(dueDateStatus, ErrorResponse{Detail: "due_date must be a future date"})
	case errors.Is(err, service.ErrTaskInProgress):
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "Cannot delete a task that is in progress"})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: err.Error()})
	default:
		log.Printf("❌ request %s: %v", c.GetString(middleware.RequestIDKey), err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "Internal server error"})
	}
}

func toTaskResponse(task model.Task) TaskResponse {
	response := TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		CompletedAt: task.CompletedAt,
		IsOverdue:   task.IsOverdue,
	}

	if task.DueDate != nil {
		dueDate := task.DueDate.String()
		response.DueDate = &dueDate
	}

	return response
}
