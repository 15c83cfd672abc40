package project

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates an in-memory SQLite database with the projects
// and tasks tables.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE projects (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL DEFAULT 'active',
			created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;

		CREATE TABLE tasks (
			id          TEXT PRIMARY KEY,
			project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL DEFAULT 'todo',
			priority    TEXT NOT NULL DEFAULT 'medium',
			due_date    TEXT,
			created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func seedProject(t *testing.T, repo *SQLiteRepository, id, name string, status Status) *Project {
	t.Helper()
	p := &Project{ID: id, Name: name, Status: status}
	if err := repo.CreateProject(context.Background(), p); err != nil {
		t.Fatalf("CreateProject(%s) error = %v", id, err)
	}
	return p
}

func TestProjectCRUD(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	created := &Project{
		ID:          NewProjectID(),
		Name:        "Garden renovation",
		Description: "Back garden, spring",
		Status:      StatusActive,
	}
	if err := repo.CreateProject(ctx, created); err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}

	got, err := repo.GetProject(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetProject() error = %v", err)
	}
	if got.Name != "Garden renovation" || got.Status != StatusActive {
		t.Errorf("GetProject() = %+v, want name and status preserved", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set by the schema default")
	}

	got.Name = "Garden renovation phase 2"
	got.Status = StatusCompleted
	if err := repo.UpdateProject(ctx, got); err != nil {
		t.Fatalf("UpdateProject() error = %v", err)
	}

	updated, err := repo.GetProject(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetProject() after update error = %v", err)
	}
	if updated.Name != "Garden renovation phase 2" || updated.Status != StatusCompleted {
		t.Errorf("update not persisted, got %+v", updated)
	}

	if err := repo.DeleteProject(ctx, created.ID); err != nil {
		t.Fatalf("DeleteProject() error = %v", err)
	}
	if _, err := repo.GetProject(ctx, created.ID); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("GetProject() after delete error = %v, want ErrProjectNotFound", err)
	}
}

func TestProject_NotFound(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	if _, err := repo.GetProject(ctx, "prj-missing"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("GetProject() error = %v, want ErrProjectNotFound", err)
	}
	if err := repo.UpdateProject(ctx, &Project{ID: "prj-missing", Name: "x", Status: StatusActive}); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("UpdateProject() error = %v, want ErrProjectNotFound", err)
	}
	if err := repo.DeleteProject(ctx, "prj-missing"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("DeleteProject() error = %v, want ErrProjectNotFound", err)
	}
}

func TestListProjects_Filter(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	seedProject(t, repo, "prj-a", "Alpha", StatusActive)
	seedProject(t, repo, "prj-b", "Beta", StatusArchived)
	seedProject(t, repo, "prj-c", "Gamma", StatusActive)

	all, err := repo.ListProjects(ctx, ProjectFilter{})
	if err != nil {
		t.Fatalf("ListProjects() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListProjects() returned %d projects, want 3", len(all))
	}

	active, err := repo.ListProjects(ctx, ProjectFilter{Status: StatusActive})
	if err != nil {
		t.Fatalf("ListProjects(active) error = %v", err)
	}
	if len(active) != 2 {
		t.Errorf("ListProjects(active) returned %d, want 2", len(active))
	}
	for _, p := range active {
		if p.Status != StatusActive {
			t.Errorf("filtered listing contains status %q", p.Status)
		}
	}
}

func TestListProjects_Pagination(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	for _, id := range []string{"prj-1", "prj-2", "prj-3", "prj-4"} {
		seedProject(t, repo, id, "Project "+id, StatusActive)
	}

	page, err := repo.ListProjects(ctx, ProjectFilter{Limit: 2})
	if err != nil {
		t.Fatalf("ListProjects(limit=2) error = %v", err)
	}
	if len(page) != 2 {
		t.Errorf("limit=2 returned %d projects", len(page))
	}

	rest, err := repo.ListProjects(ctx, ProjectFilter{Limit: 10, Offset: 2})
	if err != nil {
		t.Fatalf("ListProjects(offset=2) error = %v", err)
	}
	if len(rest) != 2 {
		t.Errorf("offset=2 returned %d projects, want 2", len(rest))
	}
}

func TestTaskCRUD(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()
	seedProject(t, repo, "prj-a", "Alpha", StatusActive)

	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	task := &Task{
		ID:        NewTaskID(),
		ProjectID: "prj-a",
		Title:     "Order materials",
		Status:    TaskTodo,
		Priority:  PriorityHigh,
		DueDate:   &due,
	}
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	got, err := repo.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	if got.Title != "Order materials" || got.Priority != PriorityHigh {
		t.Errorf("GetTask() = %+v", got)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("DueDate = %v, want %v", got.DueDate, due)
	}

	got.Status = TaskDone
	got.DueDate = nil
	if err := repo.UpdateTask(ctx, got); err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}
	updated, err := repo.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask() after update error = %v", err)
	}
	if updated.Status != TaskDone {
		t.Errorf("Status = %q, want done", updated.Status)
	}
	if updated.DueDate != nil {
		t.Errorf("DueDate should clear to nil, got %v", updated.DueDate)
	}

	if err := repo.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	if _, err := repo.GetTask(ctx, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("GetTask() after delete error = %v, want ErrTaskNotFound", err)
	}
}

func TestCreateTask_UnknownProject(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	err := repo.CreateTask(context.Background(), &Task{
		ID:        NewTaskID(),
		ProjectID: "prj-missing",
		Title:     "Orphan",
		Status:    TaskTodo,
		Priority:  PriorityLow,
	})
	if !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("CreateTask() error = %v, want ErrProjectNotFound", err)
	}
}

func TestListTasks_FilterAndUnknownProject(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()
	seedProject(t, repo, "prj-a", "Alpha", StatusActive)

	for i, st := range []TaskStatus{TaskTodo, TaskTodo, TaskDone} {
		err := repo.CreateTask(ctx, &Task{
			ID:        NewTaskID(),
			ProjectID: "prj-a",
			Title:     "Task",
			Status:    st,
			Priority:  []Priority{PriorityLow, PriorityHigh, PriorityHigh}[i],
		})
		if err != nil {
			t.Fatalf("CreateTask() error = %v", err)
		}
	}

	todos, err := repo.ListTasks(ctx, "prj-a", TaskFilter{Status: TaskTodo})
	if err != nil {
		t.Fatalf("ListTasks(todo) error = %v", err)
	}
	if len(todos) != 2 {
		t.Errorf("ListTasks(todo) returned %d, want 2", len(todos))
	}

	highTodos, err := repo.ListTasks(ctx, "prj-a", TaskFilter{Status: TaskTodo, Priority: PriorityHigh})
	if err != nil {
		t.Fatalf("ListTasks(todo,high) error = %v", err)
	}
	if len(highTodos) != 1 {
		t.Errorf("ListTasks(todo,high) returned %d, want 1", len(highTodos))
	}

	if _, err := repo.ListTasks(ctx, "prj-missing", TaskFilter{}); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("ListTasks(unknown project) error = %v, want ErrProjectNotFound", err)
	}
}

func TestDeleteProject_CascadesTasks(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()
	seedProject(t, repo, "prj-a", "Alpha", StatusActive)

	task := &Task{ID: NewTaskID(), ProjectID: "prj-a", Title: "T", Status: TaskTodo, Priority: PriorityMedium}
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	if err := repo.DeleteProject(ctx, "prj-a"); err != nil {
		t.Fatalf("DeleteProject() error = %v", err)
	}
	if _, err := repo.GetTask(ctx, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("task should cascade with its project, error = %v", err)
	}
}
