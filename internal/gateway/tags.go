package gateway

import (
	"context"
	"net/http"
	"strings"

	"github.com/gestorhub/taskdesk/internal/apierrors"
	"github.com/gestorhub/taskdesk/internal/models"
)

// ListCategories fetches the tenant's task categories with usage counts.
func (c *Client) ListCategories(ctx context.Context) ([]models.TaskCategory, error) {
	var wrapper struct {
		Items []models.TaskCategory `json:"items"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/task/category", nil, nil, &wrapper); err != nil {
		return nil, err
	}
	if wrapper.Items == nil {
		wrapper.Items = []models.TaskCategory{}
	}
	return wrapper.Items, nil
}

// CreateCategory creates a named category.
func (c *Client) CreateCategory(ctx context.Context, name string) (*models.TaskCategory, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apierrors.Validation("category name is required")
	}
	var category models.TaskCategory
	body := map[string]string{"name": name}
	if err := c.doJSON(ctx, http.MethodPost, "/task/category", nil, body, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory renames a category.
func (c *Client) UpdateCategory(ctx context.Context, id, name string) (*models.TaskCategory, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apierrors.Validation("category name is required")
	}
	var category models.TaskCategory
	body := map[string]string{"name": name}
	if err := c.doJSON(ctx, http.MethodPut, "/task/category/"+id, nil, body, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory deletes a category. The server rejects the deletion while
// the usage count is non-zero.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/task/category/"+id, nil, nil, nil)
}

// ListSubjects fetches the tenant's task subjects with usage counts.
func (c *Client) ListSubjects(ctx context.Context) ([]models.TaskSubject, error) {
	var wrapper struct {
		Items []models.TaskSubject `json:"items"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/task/subject", nil, nil, &wrapper); err != nil {
		return nil, err
	}
	if wrapper.Items == nil {
		wrapper.Items = []models.TaskSubject{}
	}
	return wrapper.Items, nil
}

// CreateSubject creates a named subject.
func (c *Client) CreateSubject(ctx context.Context, name string) (*models.TaskSubject, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apierrors.Validation("subject name is required")
	}
	var subject models.TaskSubject
	body := map[string]string{"name": name}
	if err := c.doJSON(ctx, http.MethodPost, "/task/subject", nil, body, &subject); err != nil {
		return nil, err
	}
	return &subject, nil
}

// UpdateSubject renames a subject.
func (c *Client) UpdateSubject(ctx context.Context, id, name string) (*models.TaskSubject, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apierrors.Validation("subject name is required")
	}
	var subject models.TaskSubject
	body := map[string]string{"name": name}
	if err := c.doJSON(ctx, http.MethodPut, "/task/subject/"+id, nil, body, &subject); err != nil {
		return nil, err
	}
	return &subject, nil
}

// DeleteSubject deletes a subject, rejected while in use.
func (c *Client) DeleteSubject(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/task/subject/"+id, nil, nil, nil)
}
