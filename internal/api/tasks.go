package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taskdeck/taskdeck-core/internal/project"
)

// createTaskRequest is the request body for POST /projects/{projectID}/tasks.
type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"` // RFC 3339, optional
}

// updateTaskRequest is the request body for PATCH /tasks/{taskID}.
type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"` // "" clears the due date
}

// handleListTasks returns a project's tasks with optional status and
// priority filters.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	filter := project.TaskFilter{
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := project.ParseTaskStatus(raw)
		if err != nil {
			writeBadRequest(w, "invalid status filter")
			return
		}
		filter.Status = status
	}
	if raw := r.URL.Query().Get("priority"); raw != "" {
		priority, err := project.ParsePriority(raw)
		if err != nil {
			writeBadRequest(w, "invalid priority filter")
			return
		}
		filter.Priority = priority
	}

	tasks, err := s.projectRepo.ListTasks(r.Context(), projectID, filter)
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			writeNotFound(w, "project not found")
			return
		}
		s.logger.Error("failed to list tasks", "project_id", projectID, "error", err)
		writeInternalError(w, "failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []project.Task{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks, "count": len(tasks)})
}

// handleCreateTask creates a task within a project.
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Title == "" {
		writeBadRequest(w, "title is required")
		return
	}

	status := project.TaskTodo
	if req.Status != "" {
		var err error
		if status, err = project.ParseTaskStatus(req.Status); err != nil {
			writeBadRequest(w, "invalid status")
			return
		}
	}
	priority := project.PriorityMedium
	if req.Priority != "" {
		var err error
		if priority, err = project.ParsePriority(req.Priority); err != nil {
			writeBadRequest(w, "invalid priority")
			return
		}
	}

	t := &project.Task{
		ID:          project.NewTaskID(),
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
	}
	if req.DueDate != "" {
		due, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			writeBadRequest(w, "due_date must be RFC 3339")
			return
		}
		t.DueDate = &due
	}

	if err := s.projectRepo.CreateTask(r.Context(), t); err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			writeNotFound(w, "project not found")
			return
		}
		s.logger.Error("failed to create task", "project_id", projectID, "error", err)
		writeInternalError(w, "failed to create task")
		return
	}

	created, err := s.projectRepo.GetTask(r.Context(), t.ID)
	if err != nil {
		s.logger.Error("failed to load created task", "task_id", t.ID, "error", err)
		writeInternalError(w, "failed to create task")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleGetTask returns a single task by ID.
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "taskID")

	t, err := s.projectRepo.GetTask(r.Context(), id)
	if err != nil {
		if errors.Is(err, project.ErrTaskNotFound) {
			writeNotFound(w, "task not found")
			return
		}
		s.logger.Error("failed to get task", "task_id", id, "error", err)
		writeInternalError(w, "failed to get task")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// handleUpdateTask applies a partial update to a task.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "taskID")

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	t, err := s.projectRepo.GetTask(r.Context(), id)
	if err != nil {
		if errors.Is(err, project.ErrTaskNotFound) {
			writeNotFound(w, "task not found")
			return
		}
		s.logger.Error("failed to get task", "task_id", id, "error", err)
		writeInternalError(w, "failed to update task")
		return
	}

	if req.Title != nil {
		if *req.Title == "" {
			writeBadRequest(w, "title cannot be empty")
			return
		}
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Status != nil {
		status, err := project.ParseTaskStatus(*req.Status)
		if err != nil {
			writeBadRequest(w, "invalid status")
			return
		}
		t.Status = status
	}
	if req.Priority != nil {
		priority, err := project.ParsePriority(*req.Priority)
		if err != nil {
			writeBadRequest(w, "invalid priority")
			return
		}
		t.Priority = priority
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			t.DueDate = nil
		} else {
			due, err := time.Parse(time.RFC3339, *req.DueDate)
			if err != nil {
				writeBadRequest(w, "due_date must be RFC 3339")
				return
			}
			t.DueDate = &due
		}
	}

	if err := s.projectRepo.UpdateTask(r.Context(), t); err != nil {
		if errors.Is(err, project.ErrTaskNotFound) {
			writeNotFound(w, "task not found")
			return
		}
		s.logger.Error("failed to update task", "task_id", id, "error", err)
		writeInternalError(w, "failed to update task")
		return
	}

	updated, err := s.projectRepo.GetTask(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to load updated task", "task_id", id, "error", err)
		writeInternalError(w, "failed to update task")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteTask removes a single task.
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "taskID")

	if err := s.projectRepo.DeleteTask(r.Context(), id); err != nil {
		if errors.Is(err, project.ErrTaskNotFound) {
			writeNotFound(w, "task not found")
			return
		}
		s.logger.Error("failed to delete task", "task_id", id, "error", err)
		writeInternalError(w, "failed to delete task")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}
