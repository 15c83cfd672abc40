package project

import (
	"errors"
	"strings"
	"testing"
)

func TestStatusValidation(t *testing.T) {
	for _, s := range ValidStatuses {
		if !IsValidStatus(s) {
			t.Errorf("IsValidStatus(%q) = false", s)
		}
	}
	for _, s := range []Status{"", "paused", "Active"} {
		if IsValidStatus(s) {
			t.Errorf("IsValidStatus(%q) = true, want false", s)
		}
	}
}

func TestTaskStatusValidation(t *testing.T) {
	for _, s := range ValidTaskStatuses {
		if !IsValidTaskStatus(s) {
			t.Errorf("IsValidTaskStatus(%q) = false", s)
		}
	}
	if IsValidTaskStatus("blocked") {
		t.Error("IsValidTaskStatus(blocked) = true, want false")
	}
}

func TestPriorityValidation(t *testing.T) {
	for _, p := range ValidPriorities {
		if !IsValidPriority(p) {
			t.Errorf("IsValidPriority(%q) = false", p)
		}
	}
	if IsValidPriority("urgent") {
		t.Error("IsValidPriority(urgent) = true, want false")
	}
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("completed")
	if err != nil {
		t.Fatalf("ParseStatus(completed) error = %v", err)
	}
	if status != StatusCompleted {
		t.Errorf("ParseStatus(completed) = %q, want %q", status, StatusCompleted)
	}

	if _, err := ParseStatus("paused"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("ParseStatus(paused) error = %v, want ErrInvalidStatus", err)
	}
}

func TestParseTaskStatus(t *testing.T) {
	status, err := ParseTaskStatus("in_progress")
	if err != nil {
		t.Fatalf("ParseTaskStatus(in_progress) error = %v", err)
	}
	if status != TaskInProgress {
		t.Errorf("ParseTaskStatus(in_progress) = %q, want %q", status, TaskInProgress)
	}

	if _, err := ParseTaskStatus("blocked"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("ParseTaskStatus(blocked) error = %v, want ErrInvalidStatus", err)
	}
}

func TestParsePriority(t *testing.T) {
	priority, err := ParsePriority("high")
	if err != nil {
		t.Fatalf("ParsePriority(high) error = %v", err)
	}
	if priority != PriorityHigh {
		t.Errorf("ParsePriority(high) = %q, want %q", priority, PriorityHigh)
	}

	if _, err := ParsePriority("urgent"); !errors.Is(err, ErrInvalidPriority) {
		t.Errorf("ParsePriority(urgent) error = %v, want ErrInvalidPriority", err)
	}
}

func TestIDGeneration(t *testing.T) {
	pid := NewProjectID()
	if !strings.HasPrefix(pid, "prj-") {
		t.Errorf("NewProjectID() = %q, want prj- prefix", pid)
	}
	tid := NewTaskID()
	if !strings.HasPrefix(tid, "tsk-") {
		t.Errorf("NewTaskID() = %q, want tsk- prefix", tid)
	}
	if NewProjectID() == pid {
		t.Error("project IDs should be unique")
	}
}
