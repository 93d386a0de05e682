// Package boardapi is the HTTP client adapter for the board server. Every
// mutation uses one canonical verb and path, JSON in and out, no retries.
package boardapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	charmLog "github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/hylla/todoban/internal/domain"
)

const maxResponseBodyBytes = 1 << 20

// ErrEmptyBaseURL reports a client constructed without a server address.
var ErrEmptyBaseURL = errors.New("empty base url")

// Client talks to the board server's JSON API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *charmLog.Logger
	// idGen is swappable in tests so request headers stay deterministic.
	idGen func() string
}

// NewClient constructs a client for the given base URL. A nil logger is
// replaced with a discarding one.
func NewClient(baseURL string, timeout time.Duration, logger *charmLog.Logger) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrEmptyBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if logger == nil {
		logger = charmLog.New(io.Discard)
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
		idGen:   uuid.NewString,
	}, nil
}

// FetchBoard loads the full board snapshot.
func (c *Client) FetchBoard(ctx context.Context) (Board, error) {
	var snapshot boardSnapshot
	if err := c.do(ctx, http.MethodGet, "/api/board", nil, &snapshot); err != nil {
		return Board{}, err
	}
	return snapshot.toDomain()
}

// CreateTask posts a new task and returns the server-assigned record.
func (c *Client) CreateTask(ctx context.Context, title, content, categoryID string) (domain.Task, error) {
	var rec taskRecord
	payload := taskPayload{Title: title, Content: content, CategoryID: categoryID}
	if err := c.do(ctx, http.MethodPost, "/api/tasks", payload, &rec); err != nil {
		return domain.Task{}, err
	}
	return rec.toDomain()
}

// UpdateTask posts a full field replacement for one task.
func (c *Client) UpdateTask(ctx context.Context, taskID, title, content, categoryID string) (domain.Task, error) {
	var rec taskRecord
	payload := taskPayload{Title: title, Content: content, CategoryID: categoryID}
	if err := c.do(ctx, http.MethodPost, "/api/tasks/"+url.PathEscape(taskID), payload, &rec); err != nil {
		return domain.Task{}, err
	}
	return rec.toDomain()
}

// DeleteTask removes one task.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(taskID), nil, nil)
}

// UpdateTaskStatus moves one task to a new status column.
func (c *Client) UpdateTaskStatus(ctx context.Context, taskID string, status domain.Status) (domain.Task, error) {
	var rec taskRecord
	path := "/api/tasks/" + url.PathEscape(taskID) + "/status"
	if err := c.do(ctx, http.MethodPost, path, statusPayload{Status: string(status)}, &rec); err != nil {
		return domain.Task{}, err
	}
	return rec.toDomain()
}

// UpdateTaskOrder submits the full ordered task list for the affected columns.
func (c *Client) UpdateTaskOrder(ctx context.Context, orders []TaskOrderInput) error {
	payload := taskOrderPayload{Tasks: make([]taskOrderEntry, 0, len(orders))}
	for _, order := range orders {
		payload.Tasks = append(payload.Tasks, taskOrderEntry{
			ID:        order.ID,
			SortOrder: order.Position,
			Status:    string(order.Status),
		})
	}
	return c.do(ctx, http.MethodPost, "/api/tasks/order", payload, nil)
}

// CreateCategory posts a new category and returns the server-assigned record.
func (c *Client) CreateCategory(ctx context.Context, name string) (domain.Category, error) {
	var rec categoryRecord
	if err := c.do(ctx, http.MethodPost, "/api/categories", categoryPayload{Name: name}, &rec); err != nil {
		return domain.Category{}, err
	}
	return rec.toDomain()
}

// DeleteCategory removes one category and, server-side, its tasks.
func (c *Client) DeleteCategory(ctx context.Context, categoryID string) error {
	return c.do(ctx, http.MethodDelete, "/api/categories/"+url.PathEscape(categoryID), nil, nil)
}

// UpdateCategoryOrder submits the full category id order.
func (c *Client) UpdateCategoryOrder(ctx context.Context, categoryIDs []string) error {
	return c.do(ctx, http.MethodPost, "/api/categories/order", categoryOrderPayload{CategoryIDs: categoryIDs}, nil)
}

// TaskOrderInput names a task's target slot for an order submission.
type TaskOrderInput struct {
	ID       string
	Position int
	Status   domain.Status
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Idempotency-Key", c.idGen())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeError(method, path, resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) decodeError(method, path string, statusCode int, raw []byte) error {
	apiErr := &APIError{StatusCode: statusCode, Message: http.StatusText(statusCode)}
	var envelope errorEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.Hint = envelope.Error.Hint
	}
	c.logger.Debug("server rejected request", "method", method, "path", path, "status", statusCode, "code", apiErr.Code)
	return fmt.Errorf("%s %s: %w", method, path, apiErr)
}
