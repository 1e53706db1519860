package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"tasktracker/internal/models"
	"tasktracker/internal/storage"
)

type taskRequest struct {
	Title    *string           `json:"title"`
	Content  *string           `json:"content"`
	Deadline *models.LocalTime `json:"deadline"`
	Status   *models.Status    `json:"status"`
}

// bindTask decodes the request body into a NewTask. Status defaults to TODO when omitted.
func (s *Server) bindTask(c *gin.Context) (models.NewTask, bool) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, "Invalid task payload", err)
		return models.NewTask{}, false
	}
	if req.Title == nil {
		s.respondError(c, http.StatusBadRequest, "title is required", nil)
		return models.NewTask{}, false
	}
	if req.Content == nil {
		s.respondError(c, http.StatusBadRequest, "content is required", nil)
		return models.NewTask{}, false
	}

	task := models.NewTask{
		Title:    *req.Title,
		Content:  *req.Content,
		Deadline: req.Deadline,
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	return task, true
}

// handleListTasks returns every active task.
func (s *Server) handleListTasks(c *gin.Context) {
	conn, ok := s.acquire(c)
	if !ok {
		return
	}
	defer conn.Release()

	tasks, err := conn.ListActiveTasks(storeContext(c))
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, "Failed to get tasks", err)
		return
	}
	respondSuccess(c, http.StatusOK, tasks)
}

// handleCreateTask inserts a new task.
func (s *Server) handleCreateTask(c *gin.Context) {
	req, ok := s.bindTask(c)
	if !ok {
		return
	}

	conn, ok := s.acquire(c)
	if !ok {
		return
	}
	defer conn.Release()

	task, err := conn.CreateTask(storeContext(c), req)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, "Failed to create task", err)
		return
	}
	respondSuccess(c, http.StatusOK, task)
}

// handleGetTask fetches one active task.
func (s *Server) handleGetTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	conn, ok := s.acquire(c)
	if !ok {
		return
	}
	defer conn.Release()

	task, err := conn.GetTask(storeContext(c), id)
	if err != nil {
		s.respondStoreError(c, id, "Failed to get task", err)
		return
	}
	respondSuccess(c, http.StatusOK, task)
}

// handleUpdateTask replaces the mutable fields of an active task.
func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	req, ok := s.bindTask(c)
	if !ok {
		return
	}

	conn, ok := s.acquire(c)
	if !ok {
		return
	}
	defer conn.Release()

	task, err := conn.UpdateTask(storeContext(c), id, req)
	if err != nil {
		s.respondStoreError(c, id, "Failed to update task", err)
		return
	}
	respondSuccess(c, http.StatusOK, task)
}

// handleDeleteTask soft-deletes a task.
func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	conn, ok := s.acquire(c)
	if !ok {
		return
	}
	defer conn.Release()

	affected, err := conn.SoftDeleteTask(storeContext(c), id)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, "Failed to delete task", err)
		return
	}
	if affected == 0 {
		s.respondError(c, http.StatusNotFound, notFoundMessage(id), nil)
		return
	}
	respondSuccess(c, http.StatusOK, nil)
}

// respondStoreError maps ErrNotFound to 404 and everything else to 500.
func (s *Server) respondStoreError(c *gin.Context, id int64, msg string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(c, http.StatusNotFound, notFoundMessage(id), nil)
		return
	}
	s.respondError(c, http.StatusInternalServerError, msg, err)
}

func notFoundMessage(id int64) string {
	return fmt.Sprintf("Task with id %d not found", id)
}
