package gateway

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gestorhub/taskdesk/internal/apierrors"
	"github.com/gestorhub/taskdesk/internal/models"
)

// ChargeReportRow is one aggregated line of the billing report.
type ChargeReportRow struct {
	TaskID      string     `json:"task_id"`
	TaskTitle   string     `json:"task_title"`
	EmployerID  string     `json:"employer_id,omitempty"`
	Value       float64    `json:"value"`
	Paid        bool       `json:"paid"`
	PaymentDate *time.Time `json:"payment_date,omitempty"`
}

// AddCharge attaches billing information to a task.
func (c *Client) AddCharge(ctx context.Context, taskID string, charge models.Charge) (*models.Task, error) {
	if charge.Value <= 0 {
		return nil, apierrors.Validation("charge value must be positive")
	}
	var task models.Task
	if err := c.doJSON(ctx, http.MethodPost, "/task/"+taskID+"/charge", nil, charge, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ChargePDF streams the charge document for a task into w.
func (c *Client) ChargePDF(ctx context.Context, taskID string, w io.Writer) (int64, error) {
	return c.doRaw(ctx, http.MethodGet, "/task/"+taskID+"/charge/pdf", nil, w)
}

// EmailCharge asks the server to send the charge document to the task's
// employer.
func (c *Client) EmailCharge(ctx context.Context, taskID string) error {
	return c.doJSON(ctx, http.MethodPost, "/task/"+taskID+"/charge/email", nil, nil, nil)
}

// RegisterPayment marks a task's charge as paid.
func (c *Client) RegisterPayment(ctx context.Context, taskID string, paymentDate time.Time, notes string) (*models.Task, error) {
	body := map[string]interface{}{
		"payment_date": paymentDate,
		"notes":        notes,
	}
	var task models.Task
	if err := c.doJSON(ctx, http.MethodPost, "/task/"+taskID+"/charge/payment", nil, body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// PendingCharges lists tasks with an unpaid charge.
func (c *Client) PendingCharges(ctx context.Context, page, pageSize int) (*TaskPage, error) {
	return c.chargeList(ctx, "/task/charges/pending", page, pageSize)
}

// PaidCharges lists tasks with a settled charge.
func (c *Client) PaidCharges(ctx context.Context, page, pageSize int) (*TaskPage, error) {
	return c.chargeList(ctx, "/task/charges/paid", page, pageSize)
}

func (c *Client) chargeList(ctx context.Context, path string, page, pageSize int) (*TaskPage, error) {
	values := pageValues(page, pageSize)
	var result TaskPage
	if err := c.doJSON(ctx, http.MethodGet, path, values, nil, &result); err != nil {
		return nil, err
	}
	if result.Tasks == nil {
		result.Tasks = []models.Task{}
	}
	return &result, nil
}

// ChargeReport fetches the billing aggregate for a date range.
func (c *Client) ChargeReport(ctx context.Context, from, to time.Time) ([]ChargeReportRow, error) {
	values := pageValues(0, 0)
	values.Set("startDate", from.UTC().Format(time.RFC3339))
	values.Set("endDate", to.UTC().Format(time.RFC3339))

	var wrapper struct {
		Items []ChargeReportRow `json:"items"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/task/charges/report", values, nil, &wrapper); err != nil {
		return nil, err
	}
	if wrapper.Items == nil {
		wrapper.Items = []ChargeReportRow{}
	}
	return wrapper.Items, nil
}
