package gateway

import (
	"context"
	"io"
	"net/http"

	"github.com/gestorhub/taskdesk/internal/models"
)

// CompanyPage is one page of the tenant administration list.
type CompanyPage struct {
	Companies []models.Company `json:"companies"`
	Count     int              `json:"count"`
}

// ListCompanies fetches the tenants with their plan information. Platform
// admin only; everyone else gets a 403.
func (c *Client) ListCompanies(ctx context.Context, page, pageSize int) (*CompanyPage, error) {
	var result CompanyPage
	if err := c.doJSON(ctx, http.MethodGet, "/companiesPlan", pageValues(page, pageSize), nil, &result); err != nil {
		return nil, err
	}
	if result.Companies == nil {
		result.Companies = []models.Company{}
	}
	return &result, nil
}

// BlockCompany suspends a tenant.
func (c *Client) BlockCompany(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodPut, "/companies/"+id+"/block", nil, nil, nil)
}

// UnblockCompany lifts a tenant suspension.
func (c *Client) UnblockCompany(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodPut, "/companies/"+id+"/unblock", nil, nil, nil)
}

// DeleteCompany removes a tenant and all its data.
func (c *Client) DeleteCompany(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/companies/"+id, nil, nil, nil)
}

// ExportCompanies streams the tenant list export into w.
func (c *Client) ExportCompanies(ctx context.Context, format ExportFormat, w io.Writer) (int64, error) {
	if _, err := exportPath(format); err != nil {
		return 0, err
	}
	return c.doRaw(ctx, http.MethodGet, "/companies/export/"+string(format), nil, w)
}
