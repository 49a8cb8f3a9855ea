package gateway

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gestorhub/taskdesk/internal/apierrors"
	"github.com/gestorhub/taskdesk/internal/query"
)

// ExportFormat selects the bulk export encoding.
type ExportFormat string

const (
	ExportPDF   ExportFormat = "pdf"
	ExportExcel ExportFormat = "excel"
)

// ImportResult summarizes a bulk task import.
type ImportResult struct {
	BatchID  string   `json:"batch_id"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportTasks uploads a spreadsheet of tasks for server-side parsing.
func (c *Client) ImportTasks(ctx context.Context, filename string, content io.Reader) (*ImportResult, error) {
	if filename == "" {
		return nil, apierrors.Validation("filename is required")
	}

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, content); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/task/import", nil), pr)
	if err != nil {
		return nil, fmt.Errorf("failed to build import request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result ImportResult
	if err := decodeBody(resp.Body, &result, "/task/import"); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExportTasks streams the export blob for the given query into w.
func (c *Client) ExportTasks(ctx context.Context, format ExportFormat, params query.Params, w io.Writer) (int64, error) {
	path, err := exportPath(format)
	if err != nil {
		return 0, err
	}
	return c.doRaw(ctx, http.MethodPost, path, params.Values(1, 0), w)
}

func exportPath(format ExportFormat) (string, error) {
	switch format {
	case ExportPDF:
		return "/task/export/pdf", nil
	case ExportExcel:
		return "/task/export/excel", nil
	default:
		return "", apierrors.Validation(fmt.Sprintf("unknown export format %q", format))
	}
}
