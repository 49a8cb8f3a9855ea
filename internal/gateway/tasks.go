package gateway

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gestorhub/taskdesk/internal/apierrors"
	"github.com/gestorhub/taskdesk/internal/models"
	"github.com/gestorhub/taskdesk/internal/query"
)

// TaskPage is one page of the task list together with the server-reported
// total. The contract always returns the total; "has more" is never
// guessed from page fullness.
type TaskPage struct {
	Tasks []models.Task `json:"tasks"`
	Count int           `json:"count"`
}

// CreateTaskInput carries the fields accepted by task creation.
type CreateTaskInput struct {
	Title      string             `json:"title"`
	Body       string             `json:"body,omitempty"`
	DueDate    *time.Time         `json:"due_date,omitempty"`
	Status     models.TaskStatus  `json:"status,omitempty"`
	Private    bool               `json:"private,omitempty"`
	Recurrence *models.Recurrence `json:"recurrence,omitempty"`
	Charge     *models.Charge     `json:"charge,omitempty"`
	CategoryID string             `json:"category_id,omitempty"`
	SubjectID  string             `json:"subject_id,omitempty"`
	EmployerID string             `json:"employer_id,omitempty"`
	Assignment models.Assignment  `json:"assignment"`
}

// TaskPatch is a partial update. Nil fields are left untouched by the
// server, which keeps the conflict surface of optimistic writes minimal.
type TaskPatch struct {
	Title      *string            `json:"title,omitempty"`
	Body       *string            `json:"body,omitempty"`
	DueDate    *time.Time         `json:"due_date,omitempty"`
	Status     *models.TaskStatus `json:"status,omitempty"`
	Private    *bool              `json:"private,omitempty"`
	Recurrence *models.Recurrence `json:"recurrence,omitempty"`
	Charge     *models.Charge     `json:"charge,omitempty"`
	CategoryID *string            `json:"category_id,omitempty"`
	SubjectID  *string            `json:"subject_id,omitempty"`
	EmployerID *string            `json:"employer_id,omitempty"`
	Assignment *models.Assignment `json:"assignment,omitempty"`
}

// ListTasks fetches one page of the company-wide task list.
func (c *Client) ListTasks(ctx context.Context, params query.Params, page, pageSize int) (*TaskPage, error) {
	return c.listTasks(ctx, "/task", params, page, pageSize)
}

// ListUserTasks fetches one page of the calling user's task list.
func (c *Client) ListUserTasks(ctx context.Context, params query.Params, page, pageSize int) (*TaskPage, error) {
	return c.listTasks(ctx, "/task/user", params, page, pageSize)
}

func (c *Client) listTasks(ctx context.Context, path string, params query.Params, page, pageSize int) (*TaskPage, error) {
	var result TaskPage
	if err := c.doJSON(ctx, http.MethodGet, path, params.Values(page, pageSize), nil, &result); err != nil {
		return nil, err
	}
	if result.Tasks == nil {
		result.Tasks = []models.Task{}
	}
	return &result, nil
}

// GetTask fetches a single task by ID.
func (c *Client) GetTask(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := c.doJSON(ctx, http.MethodGet, "/task/"+id, nil, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask submits a new task. Title is validated client-side before any
// request is sent.
func (c *Client) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apierrors.Validation("title is required")
	}
	var task models.Task
	if err := c.doJSON(ctx, http.MethodPost, "/task", nil, input, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies a partial update and returns the server's view of the
// task.
func (c *Client) UpdateTask(ctx context.Context, id string, patch TaskPatch) (*models.Task, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, apierrors.Validation("title cannot be empty")
	}
	var task models.Task
	if err := c.doJSON(ctx, http.MethodPut, "/task/"+id, nil, patch, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask soft-deletes a task. The task moves to the deleted view and
// remains recoverable by admins.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/task/"+id, nil, nil, nil)
}

// RestoreTask brings a soft-deleted task back. Admin only.
func (c *Client) RestoreTask(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := c.doJSON(ctx, http.MethodPut, "/task/"+id+"/restore", nil, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// StatusCounters fetches the per-tab task counts.
func (c *Client) StatusCounters(ctx context.Context) (*models.StatusCounters, error) {
	var counters models.StatusCounters
	if err := c.doJSON(ctx, http.MethodGet, "/task/status", nil, nil, &counters); err != nil {
		return nil, err
	}
	return &counters, nil
}
