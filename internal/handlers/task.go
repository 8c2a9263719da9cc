package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"taskman/internal/auth"
	dom "taskman/internal/domain"
	"taskman/internal/dto"
	"taskman/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// Create godoc
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateTaskRequest  true  "Task body"
// @Success      201   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	priority, ok := dom.ParseTaskPriority(req.Priority)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown priority: " + req.Priority})
		return
	}

	ownerID := auth.UserIDFromContext(c)
	t, err := h.svc.Create(c.Request.Context(), ownerID, service.CreateTaskInput{
		Name:        req.Name,
		Description: req.Description,
		DueDate:     req.DueDate.Ptr(),
		Priority:    priority,
		Tags:        req.Tags,
	})
	if err != nil {
		writeTaskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, taskToResponse(t))
}

// List godoc
// @Summary      Query tasks with filters, sorting and pagination
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Param        search    query     string  false  "Substring match on name or description"
// @Param        status    query     string  false  "NOT_STARTED | IN_PROGRESS | DONE"
// @Param        priority  query     string  false  "URGENT | HIGH | MEDIUM | LOW"
// @Param        tag       query     string  false  "Exact tag match"
// @Param        page      query     int     false  "Zero-based page number"  default(0)
// @Param        size      query     int     false  "Page size (1-100)"       default(20)
// @Param        sort      query     string  false  "field,direction"         default(dueDate,asc)
// @Success      200  {object}  dto.PagedTasksResponse
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	in := service.FindTasksInput{
		Search: c.Query("search"),
		Tag:    c.Query("tag"),
		Sort:   c.Query("sort"),
	}
	if raw := c.Query("status"); raw != "" {
		status, ok := dom.ParseTaskStatus(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status: " + raw})
			return
		}
		in.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority, ok := dom.ParseTaskPriority(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown priority: " + raw})
			return
		}
		in.Priority = &priority
	}
	var ok bool
	if in.Page, ok = parseIntQuery(c, "page", 0); !ok {
		return
	}
	if in.Size, ok = parseIntQuery(c, "size", 20); !ok {
		return
	}

	ownerID := auth.UserIDFromContext(c)
	page, err := h.svc.Find(c.Request.Context(), ownerID, in)
	if err != nil {
		writeTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageToResponse(page))
}

// GetByID godoc
// @Summary      Get a task by ID
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  dto.TaskResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}
	ownerID := auth.UserIDFromContext(c)
	t, err := h.svc.GetByID(c.Request.Context(), ownerID, id)
	if err != nil {
		writeTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Update godoc
// @Summary      Replace a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string  true  "Task ID"
// @Param        body  body      dto.UpdateTaskRequest  true  "Full replacement"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, ok := dom.ParseTaskStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status: " + req.Status})
		return
	}
	priority, ok := dom.ParseTaskPriority(req.Priority)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown priority: " + req.Priority})
		return
	}

	ownerID := auth.UserIDFromContext(c)
	t, err := h.svc.Update(c.Request.Context(), ownerID, id, service.UpdateTaskInput{
		Name:        req.Name,
		Description: req.Description,
		DueDate:     req.DueDate.Ptr(),
		Status:      status,
		Priority:    priority,
		Tags:        req.Tags,
	})
	if err != nil {
		writeTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Delete godoc
// @Summary      Delete a task
// @Tags         tasks
// @Security     CookieAuth
// @Param        id   path  string  true  "Task ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}
	ownerID := auth.UserIDFromContext(c)
	if err := h.svc.Delete(c.Request.Context(), ownerID, id); err != nil {
		writeTaskError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseTaskID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return uuid.Nil, false
	}
	return id, true
}

func parseIntQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return n, true
}

func writeTaskError(c *gin.Context, err error) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
		return
	}
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var se *service.StorageError
	if errors.As(err, &se) {
		log.Printf("storage error: %v", se.Unwrap())
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func taskToResponse(t dom.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		DueDate:     t.DueDate,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Tags:        t.Tags,
		OwnerID:     t.OwnerID,
	}
}

func pageToResponse(p dom.Page[dom.Task]) dto.PagedTasksResponse {
	elements := make([]dto.TaskResponse, len(p.Elements))
	for i := range p.Elements {
		elements[i] = taskToResponse(p.Elements[i])
	}
	return dto.PagedTasksResponse{
		Elements:      elements,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		PageSize:      p.PageSize,
		PageNumber:    p.PageNumber,
	}
}
