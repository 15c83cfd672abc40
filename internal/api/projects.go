package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taskdeck/taskdeck-core/internal/project"
)

// createProjectRequest is the request body for POST /projects.
type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// updateProjectRequest is the request body for PATCH /projects/{projectID}.
// Pointer fields distinguish "absent" from "set to zero value".
type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// handleListProjects returns projects, with optional status filter and
// limit/offset pagination.
func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	filter := project.ProjectFilter{
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := project.ParseStatus(raw)
		if err != nil {
			writeBadRequest(w, "invalid status filter")
			return
		}
		filter.Status = status
	}

	projects, err := s.projectRepo.ListProjects(r.Context(), filter)
	if err != nil {
		s.logger.Error("failed to list projects", "error", err)
		writeInternalError(w, "failed to list projects")
		return
	}
	if projects == nil {
		projects = []project.Project{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects, "count": len(projects)})
}

// handleCreateProject creates a new project.
func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}
	status := project.StatusActive
	if req.Status != "" {
		var err error
		if status, err = project.ParseStatus(req.Status); err != nil {
			writeBadRequest(w, "invalid status")
			return
		}
	}

	p := &project.Project{
		ID:          project.NewProjectID(),
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
	}
	if err := s.projectRepo.CreateProject(r.Context(), p); err != nil {
		s.logger.Error("failed to create project", "error", err)
		writeInternalError(w, "failed to create project")
		return
	}

	created, err := s.projectRepo.GetProject(r.Context(), p.ID)
	if err != nil {
		s.logger.Error("failed to load created project", "project_id", p.ID, "error", err)
		writeInternalError(w, "failed to create project")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleGetProject returns a single project by ID.
func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "projectID")

	p, err := s.projectRepo.GetProject(r.Context(), id)
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			writeNotFound(w, "project not found")
			return
		}
		s.logger.Error("failed to get project", "project_id", id, "error", err)
		writeInternalError(w, "failed to get project")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleUpdateProject applies a partial update to a project.
func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "projectID")

	var req updateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	p, err := s.projectRepo.GetProject(r.Context(), id)
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			writeNotFound(w, "project not found")
			return
		}
		s.logger.Error("failed to get project", "project_id", id, "error", err)
		writeInternalError(w, "failed to update project")
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			writeBadRequest(w, "name cannot be empty")
			return
		}
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Status != nil {
		status, err := project.ParseStatus(*req.Status)
		if err != nil {
			writeBadRequest(w, "invalid status")
			return
		}
		p.Status = status
	}

	if err := s.projectRepo.UpdateProject(r.Context(), p); err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			writeNotFound(w, "project not found")
			return
		}
		s.logger.Error("failed to update project", "project_id", id, "error", err)
		writeInternalError(w, "failed to update project")
		return
	}

	updated, err := s.projectRepo.GetProject(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to load updated project", "project_id", id, "error", err)
		writeInternalError(w, "failed to update project")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteProject removes a project and, via schema cascade, its tasks.
func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "projectID")

	if err := s.projectRepo.DeleteProject(r.Context(), id); err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			writeNotFound(w, "project not found")
			return
		}
		s.logger.Error("failed to delete project", "project_id", id, "error", err)
		writeInternalError(w, "failed to delete project")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

// queryInt parses an integer query parameter, returning 0 when absent
// or unparseable.
func queryInt(r *http.Request, key string) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
