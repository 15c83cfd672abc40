package project

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// defaultListLimit caps listings when the caller does not set one.
const defaultListLimit = 50

// maxListLimit is the hard ceiling on page size.
const maxListLimit = 200

// Repository defines the interface for project and task persistence.
type Repository interface {
	CreateProject(ctx context.Context, p *Project) error
	ListProjects(ctx context.Context, filter ProjectFilter) ([]Project, error)
	GetProject(ctx context.Context, id string) (*Project, error)
	UpdateProject(ctx context.Context, p *Project) error
	DeleteProject(ctx context.Context, id string) error

	CreateTask(ctx context.Context, t *Task) error
	ListTasks(ctx context.Context, projectID string, filter TaskFilter) ([]Task, error)
	GetTask(ctx context.Context, id string) (*Task, error)
	UpdateTask(ctx context.Context, t *Task) error
	DeleteTask(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed project repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// CreateProject inserts a new project.
func (r *SQLiteRepository) CreateProject(ctx context.Context, p *Project) error {
	const query = `INSERT INTO projects (id, name, description, status)
		VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Description, p.Status)
	if err != nil {
		return fmt.Errorf("inserting project %s: %w", p.ID, err)
	}
	return nil
}

// ListProjects returns projects matching the filter, newest first.
func (r *SQLiteRepository) ListProjects(ctx context.Context, filter ProjectFilter) ([]Project, error) {
	query := `SELECT id, name, description, status, created_at, updated_at
		FROM projects`
	var args []any
	if filter.Status != "" {
		query += " WHERE status = ?"
		args = append(args, filter.Status)
	}
	query += " ORDER BY created_at DESC, id LIMIT ? OFFSET ?"
	args = append(args, clampLimit(filter.Limit), max(filter.Offset, 0))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		var createdAt, updatedAt string
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Status, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		p.CreatedAt = parseTime(createdAt)
		p.UpdatedAt = parseTime(updatedAt)
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project rows: %w", err)
	}
	return projects, nil
}

// GetProject returns a single project by ID.
func (r *SQLiteRepository) GetProject(ctx context.Context, id string) (*Project, error) {
	const query = `SELECT id, name, description, status, created_at, updated_at
		FROM projects WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var p Project
	var createdAt, updatedAt string
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Status, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}

// UpdateProject updates an existing project record.
func (r *SQLiteRepository) UpdateProject(ctx context.Context, p *Project) error {
	const query = `UPDATE projects SET name = ?, description = ?, status = ?,
		updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, p.Name, p.Description, p.Status, p.ID)
	if err != nil {
		return fmt.Errorf("updating project %s: %w", p.ID, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// DeleteProject removes a project by ID. Its tasks cascade at the
// schema level.
func (r *SQLiteRepository) DeleteProject(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting project %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// CreateTask inserts a new task. The parent project must exist;
// returns ErrProjectNotFound if it does not.
func (r *SQLiteRepository) CreateTask(ctx context.Context, t *Task) error {
	var exists int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM projects WHERE id = ?", t.ProjectID).Scan(&exists); err != nil {
		return fmt.Errorf("checking project %s: %w", t.ProjectID, err)
	}
	if exists == 0 {
		return ErrProjectNotFound
	}

	const query = `INSERT INTO tasks (id, project_id, title, description, status, priority, due_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.ProjectID, t.Title, t.Description, t.Status, t.Priority, nullTime(t.DueDate))
	if err != nil {
		return fmt.Errorf("inserting task %s: %w", t.ID, err)
	}
	return nil
}

// ListTasks returns a project's tasks matching the filter, newest
// first. Returns ErrProjectNotFound for an unknown project so the
// handler can distinguish "no tasks" from "no project".
func (r *SQLiteRepository) ListTasks(ctx context.Context, projectID string, filter TaskFilter) ([]Task, error) {
	var exists int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM projects WHERE id = ?", projectID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("checking project %s: %w", projectID, err)
	}
	if exists == 0 {
		return nil, ErrProjectNotFound
	}

	query := `SELECT id, project_id, title, description, status, priority, due_date, created_at, updated_at
		FROM tasks WHERE project_id = ?`
	args := []any{projectID}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.Priority != "" {
		query += " AND priority = ?"
		args = append(args, filter.Priority)
	}
	query += " ORDER BY created_at DESC, id LIMIT ? OFFSET ?"
	args = append(args, clampLimit(filter.Limit), max(filter.Offset, 0))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task rows: %w", err)
	}
	return tasks, nil
}

// GetTask returns a single task by ID.
func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (*Task, error) {
	const query = `SELECT id, project_id, title, description, status, priority, due_date, created_at, updated_at
		FROM tasks WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var t Task
	var dueDate sql.NullString
	var createdAt, updatedAt string
	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&dueDate, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	if dueDate.Valid {
		due := parseTime(dueDate.String)
		t.DueDate = &due
	}
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return &t, nil
}

// UpdateTask updates an existing task record.
func (r *SQLiteRepository) UpdateTask(ctx context.Context, t *Task) error {
	const query = `UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?,
		due_date = ?,
		updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query,
		t.Title, t.Description, t.Status, t.Priority, nullTime(t.DueDate), t.ID)
	if err != nil {
		return fmt.Errorf("updating task %s: %w", t.ID, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// DeleteTask removes a single task by ID.
func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// scanTaskRow scans a task from a Rows cursor.
func scanTaskRow(rows *sql.Rows) (*Task, error) {
	var t Task
	var dueDate sql.NullString
	var createdAt, updatedAt string

	err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&dueDate, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if dueDate.Valid {
		due := parseTime(dueDate.String)
		t.DueDate = &due
	}
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return &t, nil
}

// clampLimit applies the default and ceiling to a caller-supplied
// page size.
func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// nullTime converts a *time.Time to sql.NullString in the schema's
// ISO 8601 format.
func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format("2006-01-02T15:04:05Z"), Valid: true}
}

// parseTime parses an ISO 8601 timestamp from SQLite.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
