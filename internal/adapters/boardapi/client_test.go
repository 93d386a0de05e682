package boardapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hylla/todoban/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL, 2*time.Second, nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	client.idGen = func() string { return "test-key" }
	return client
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("   ", time.Second, nil); err != ErrEmptyBaseURL {
		t.Fatalf("expected ErrEmptyBaseURL, got %v", err)
	}
}

func TestFetchBoard(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/board" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(boardSnapshot{
			Categories: []categoryRecord{{ID: "c1", Name: "Work", SortOrder: 0}},
			TasksByCategory: map[string][]taskRecord{
				"c1": {{ID: "t1", CategoryID: "c1", Status: "todo", Title: "a"}},
			},
			TasksByStatus: map[string][]taskRecord{
				"progress": {{ID: "t2", CategoryID: "c1", Status: "progress", Title: "b"}},
			},
		})
	}))

	board, err := client.FetchBoard(context.Background())
	if err != nil {
		t.Fatalf("FetchBoard() error = %v", err)
	}
	if len(board.Categories) != 1 || board.Categories[0].Name != "Work" {
		t.Fatalf("unexpected categories %#v", board.Categories)
	}
	if got := board.TasksByStatus[domain.StatusProgress]; len(got) != 1 || got[0].ID != "t2" {
		t.Fatalf("unexpected status bucket %#v", got)
	}
}

func TestFetchBoardRejectsUnknownStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(boardSnapshot{
			TasksByStatus: map[string][]taskRecord{
				"done": {{ID: "t1", CategoryID: "c1", Status: "done", Title: "a"}},
			},
		})
	}))
	if _, err := client.FetchBoard(context.Background()); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestCreateTaskSendsIdempotencyKey(t *testing.T) {
	var gotKey string
	var gotPayload taskPayload
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/tasks" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotKey = r.Header.Get("Idempotency-Key")
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		_ = json.NewEncoder(w).Encode(taskRecord{ID: "t9", CategoryID: gotPayload.CategoryID, Status: "todo", Title: gotPayload.Title})
	}))

	task, err := client.CreateTask(context.Background(), "buy milk", "2%", "c1")
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if gotKey != "test-key" {
		t.Fatalf("missing idempotency key, got %q", gotKey)
	}
	if gotPayload.Title != "buy milk" || gotPayload.CategoryID != "c1" {
		t.Fatalf("unexpected payload %#v", gotPayload)
	}
	if task.ID != "t9" {
		t.Fatalf("unexpected task %#v", task)
	}
}

func TestDeleteTaskUsesDeleteVerb(t *testing.T) {
	called := false
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if r.Method != http.MethodDelete || r.URL.Path != "/api/tasks/t1" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	if err := client.DeleteTask(context.Background(), "t1"); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	if !called {
		t.Fatal("request never sent")
	}
}

func TestUpdateTaskOrderPayload(t *testing.T) {
	var gotPayload taskOrderPayload
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tasks/order" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
	}))
	err := client.UpdateTaskOrder(context.Background(), []TaskOrderInput{
		{ID: "t2", Position: 0, Status: domain.StatusTodo},
		{ID: "t1", Position: 1, Status: domain.StatusTodo},
	})
	if err != nil {
		t.Fatalf("UpdateTaskOrder() error = %v", err)
	}
	if len(gotPayload.Tasks) != 2 || gotPayload.Tasks[0].ID != "t2" || gotPayload.Tasks[1].SortOrder != 1 {
		t.Fatalf("unexpected payload %#v", gotPayload)
	}
}

func TestServerErrorEnvelopeDecoded(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(errorEnvelope{Error: APIError{Code: "conflict", Message: "task already deleted"}})
	}))
	err := client.DeleteTask(context.Background(), "t1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusConflict || apiErr.Code != "conflict" || apiErr.Message != "task already deleted" {
		t.Fatalf("unexpected api error %#v", apiErr)
	}
}

func TestServerErrorWithoutEnvelope(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	err := client.DeleteCategory(context.Background(), "c1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
}
