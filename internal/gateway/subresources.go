package gateway

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gestorhub/taskdesk/internal/apierrors"
	"github.com/gestorhub/taskdesk/internal/models"
)

// ListNotes fetches the notes of a task.
func (c *Client) ListNotes(ctx context.Context, taskID string) ([]models.Note, error) {
	var wrapper struct {
		Items []models.Note `json:"items"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/task/"+taskID+"/notes", nil, nil, &wrapper); err != nil {
		return nil, err
	}
	if wrapper.Items == nil {
		wrapper.Items = []models.Note{}
	}
	return wrapper.Items, nil
}

// AddNote appends a note to a task.
func (c *Client) AddNote(ctx context.Context, taskID, content string) (*models.Note, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apierrors.Validation("note content is required")
	}
	var note models.Note
	body := map[string]string{"content": content}
	if err := c.doJSON(ctx, http.MethodPost, "/task/"+taskID+"/notes", nil, body, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateNote edits a note. Only the author may do this; the server
// enforces it.
func (c *Client) UpdateNote(ctx context.Context, taskID, noteID, content string) (*models.Note, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apierrors.Validation("note content is required")
	}
	var note models.Note
	body := map[string]string{"content": content}
	if err := c.doJSON(ctx, http.MethodPut, "/task/"+taskID+"/notes/"+noteID, nil, body, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote removes a note.
func (c *Client) DeleteNote(ctx context.Context, taskID, noteID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/task/"+taskID+"/notes/"+noteID, nil, nil, nil)
}

// ListAttachments fetches the attachments of a task.
func (c *Client) ListAttachments(ctx context.Context, taskID string) ([]models.Attachment, error) {
	var wrapper struct {
		Items []models.Attachment `json:"items"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/task/"+taskID+"/attachments", nil, nil, &wrapper); err != nil {
		return nil, err
	}
	if wrapper.Items == nil {
		wrapper.Items = []models.Attachment{}
	}
	return wrapper.Items, nil
}

// ProgressFunc reports upload progress as bytes written out of total.
// Total is negative when unknown.
type ProgressFunc func(written, total int64)

// UploadAttachment streams a multipart upload of the given file content.
// The progress callback, when non-nil, is invoked as the body is consumed
// by the transport.
func (c *Client) UploadAttachment(ctx context.Context, taskID, filename string, content io.Reader, size int64, progress ProgressFunc) (*models.Attachment, error) {
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

	var body io.Reader = pr
	if progress != nil {
		body = &progressReader{r: pr, total: size, report: progress}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/task/"+taskID+"/attachments", nil), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var attachment models.Attachment
	if err := decodeBody(resp.Body, &attachment, "/task/:id/attachments"); err != nil {
		return nil, err
	}
	return &attachment, nil
}

// DownloadAttachment streams an attachment's bytes into w.
func (c *Client) DownloadAttachment(ctx context.Context, taskID, attachmentID string, w io.Writer) (int64, error) {
	return c.doRaw(ctx, http.MethodGet, "/task/"+taskID+"/attachments/"+attachmentID, nil, w)
}

// DeleteAttachment removes an attachment.
func (c *Client) DeleteAttachment(ctx context.Context, taskID, attachmentID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/task/"+taskID+"/attachments/"+attachmentID, nil, nil, nil)
}

// Timeline fetches the append-only event history of a task.
func (c *Client) Timeline(ctx context.Context, taskID string) ([]models.TimelineEvent, error) {
	var wrapper struct {
		Items []models.TimelineEvent `json:"items"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/task/"+taskID+"/timeline", nil, nil, &wrapper); err != nil {
		return nil, err
	}
	if wrapper.Items == nil {
		wrapper.Items = []models.TimelineEvent{}
	}
	return wrapper.Items, nil
}

type progressReader struct {
	r       io.Reader
	total   int64
	written int64
	report  ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.written += int64(n)
		p.report(p.written, p.total)
	}
	return n, err
}
