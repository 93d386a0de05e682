package domain

import "testing"

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("progress")
	if err != nil {
		t.Fatalf("ParseStatus() error = %v", err)
	}
	if s != StatusProgress {
		t.Fatalf("unexpected status %q", s)
	}
	if _, err := ParseStatus("done"); err != ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestStatusLabels(t *testing.T) {
	got := Statuses()
	if len(got) != 3 || got[0] != StatusTodo || got[2] != StatusArchive {
		t.Fatalf("unexpected status order %#v", got)
	}
	if StatusTodo.Label() != "To Do" {
		t.Fatalf("unexpected label %q", StatusTodo.Label())
	}
}

func TestNewTaskDefaults(t *testing.T) {
	task, err := NewTask(TaskInput{
		ID:         "t1",
		CategoryID: "c1",
		Position:   0,
		Title:      "  Ship feature ",
		Content:    "notes",
	})
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	if task.Status != StatusTodo {
		t.Fatalf("expected default todo, got %q", task.Status)
	}
	if task.Title != "Ship feature" {
		t.Fatalf("unexpected title %q", task.Title)
	}
}

func TestNewTaskValidation(t *testing.T) {
	if _, err := NewTask(TaskInput{CategoryID: "c1", Title: "x"}); err != ErrInvalidID {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := NewTask(TaskInput{ID: "t1", Title: "x"}); err != ErrInvalidCategoryID {
		t.Fatalf("expected ErrInvalidCategoryID, got %v", err)
	}
	if _, err := NewTask(TaskInput{ID: "t1", CategoryID: "c1", Title: "   "}); err != ErrInvalidTitle {
		t.Fatalf("expected ErrInvalidTitle, got %v", err)
	}
	if _, err := NewTask(TaskInput{ID: "t1", CategoryID: "c1", Title: "x", Position: -1}); err != ErrInvalidPosition {
		t.Fatalf("expected ErrInvalidPosition, got %v", err)
	}
	if _, err := NewTask(TaskInput{ID: "t1", CategoryID: "c1", Title: "x", Status: Status("done")}); err != ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestTaskMoveAndUpdate(t *testing.T) {
	task, err := NewTask(TaskInput{ID: "t1", CategoryID: "c1", Title: "x"})
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}

	if err := task.Move(StatusArchive, 2); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if task.Status != StatusArchive || task.Position != 2 {
		t.Fatalf("unexpected move state: %#v", task)
	}
	if err := task.Move(Status("done"), 0); err != ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	if err := task.UpdateDetails("  new ", "body", "c2"); err != nil {
		t.Fatalf("UpdateDetails() error = %v", err)
	}
	if task.Title != "new" || task.CategoryID != "c2" {
		t.Fatalf("unexpected task update state %#v", task)
	}
	if err := task.UpdateDetails("", "body", "c2"); err != ErrInvalidTitle {
		t.Fatalf("expected ErrInvalidTitle, got %v", err)
	}
}

func TestNewCategory(t *testing.T) {
	c, err := NewCategory("c1", "  Work ", 0)
	if err != nil {
		t.Fatalf("NewCategory() error = %v", err)
	}
	if c.Name != "Work" {
		t.Fatalf("unexpected name %q", c.Name)
	}
	if _, err := NewCategory("", "x", 0); err != ErrInvalidID {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := NewCategory("c1", "  ", 0); err != ErrInvalidName {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	if _, err := NewCategory("c1", "x", -1); err != ErrInvalidPosition {
		t.Fatalf("expected ErrInvalidPosition, got %v", err)
	}
}
