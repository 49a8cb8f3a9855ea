package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestorhub/taskdesk/internal/apierrors"
	"github.com/gestorhub/taskdesk/internal/models"
	"github.com/gestorhub/taskdesk/internal/query"
)

// recordingServer captures the last request and serves a canned response.
type recordingServer struct {
	*httptest.Server

	lastMethod string
	lastPath   string
	lastQuery  string
	lastAuth   string
	lastBody   []byte

	status int
	body   string
}

func newRecordingServer(status int, body string) *recordingServer {
	rs := &recordingServer{status: status, body: body}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.lastMethod = r.Method
		rs.lastPath = r.URL.Path
		rs.lastQuery = r.URL.RawQuery
		rs.lastAuth = r.Header.Get("Authorization")
		rs.lastBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rs.status)
		io.WriteString(w, rs.body)
	}))
	return rs
}

// TestListTasks_EncodesResolvedQuery verifies the resolved parameters and
// the page cursor reach the wire exactly as the contract defines them.
func TestListTasks_EncodesResolvedQuery(t *testing.T) {
	rs := newRecordingServer(http.StatusOK, `{"tasks":[],"count":0}`)
	defer rs.Close()
	client := NewClient(rs.URL, "tok-123", nil)

	params := query.Resolve(query.TabPending, query.Filters{UserID: "u9"}, "report")
	_, err := client.ListTasks(context.Background(), params, 2, 25)
	require.NoError(t, err)

	assert.Equal(t, "/task", rs.lastPath)
	assert.Equal(t, "Bearer tok-123", rs.lastAuth)
	values := mustParseQuery(t, rs.lastQuery)
	assert.Equal(t, "false", values.Get("status"))
	assert.Equal(t, "report", values.Get("search"))
	assert.Equal(t, "u9", values.Get("userId"))
	assert.Equal(t, "2", values.Get("pageNumber"))
	assert.Equal(t, "25", values.Get("pageSize"))
}

// TestListUserTasks_UsesUserEndpoint verifies the "my tasks" view hits its
// own path.
func TestListUserTasks_UsesUserEndpoint(t *testing.T) {
	rs := newRecordingServer(http.StatusOK, `{"tasks":[],"count":0}`)
	defer rs.Close()
	client := NewClient(rs.URL, "tok", nil)

	_, err := client.ListUserTasks(context.Background(), query.Params{}, 1, 20)
	require.NoError(t, err)

	assert.Equal(t, "/task/user", rs.lastPath)
}

// TestListTasks_NormalizesNilTasks verifies a body with a null task array
// comes back as an empty slice, never nil.
func TestListTasks_NormalizesNilTasks(t *testing.T) {
	rs := newRecordingServer(http.StatusOK, `{"tasks":null,"count":0}`)
	defer rs.Close()
	client := NewClient(rs.URL, "tok", nil)

	page, err := client.ListTasks(context.Background(), query.Params{}, 1, 20)
	require.NoError(t, err)

	assert.NotNil(t, page.Tasks)
	assert.Empty(t, page.Tasks)
}

// TestListTasks_BadPayload verifies an off-contract body is a typed parse
// error rather than silently empty data.
func TestListTasks_BadPayload(t *testing.T) {
	rs := newRecordingServer(http.StatusOK, `"not an object"`)
	defer rs.Close()
	client := NewClient(rs.URL, "tok", nil)

	_, err := client.ListTasks(context.Background(), query.Params{}, 1, 20)

	assert.ErrorIs(t, err, apierrors.ErrBadPayload)
}

// TestCreateTask_RejectsEmptyTitleClientSide verifies nothing reaches the
// wire when the title is blank.
func TestCreateTask_RejectsEmptyTitleClientSide(t *testing.T) {
	rs := newRecordingServer(http.StatusOK, `{}`)
	defer rs.Close()
	client := NewClient(rs.URL, "tok", nil)

	_, err := client.CreateTask(context.Background(), CreateTaskInput{Title: "   "})

	assert.ErrorIs(t, err, apierrors.ErrValidation)
	assert.Empty(t, rs.lastMethod)
}

// TestCreateTask_SendsJSONBody verifies the creation payload shape.
func TestCreateTask_SendsJSONBody(t *testing.T) {
	rs := newRecordingServer(http.StatusCreated, `{"id":"t1","title":"Invoice"}`)
	defer rs.Close()
	client := NewClient(rs.URL, "tok", nil)

	task, err := client.CreateTask(context.Background(), CreateTaskInput{
		Title:      "Invoice",
		Assignment: models.AssignIndividual("u1"),
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rs.lastMethod)
	assert.Equal(t, "t1", task.ID)

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal(rs.lastBody, &sent))
	assert.Equal(t, "Invoice", sent["title"])
	assignment := sent["assignment"].(map[string]interface{})
	assert.Equal(t, "individual", assignment["type"])
	assert.Equal(t, "u1", assignment["user_id"])
}

// TestUpdateTask_SendsOnlyPatchedFields verifies nil patch fields are
// omitted from the wire payload.
func TestUpdateTask_SendsOnlyPatchedFields(t *testing.T) {
	rs := newRecordingServer(http.StatusOK, `{"id":"t1"}`)
	defer rs.Close()
	client := NewClient(rs.URL, "tok", nil)

	status := models.TaskStatusCompleted
	_, err := client.UpdateTask(context.Background(), "t1", TaskPatch{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, rs.lastMethod)
	assert.Equal(t, "/task/t1", rs.lastPath)

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal(rs.lastBody, &sent))
	assert.Equal(t, map[string]interface{}{"status": "completed"}, sent)
}

// TestErrorMapping verifies non-2xx responses classify into the error
// taxonomy with the server's own message preserved.
func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		category error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"code":"UNAUTHORIZED","message":"token expired"}`, apierrors.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, `{"code":"FORBIDDEN","message":"not yours"}`, apierrors.ErrForbidden},
		{"not found", http.StatusNotFound, `{"code":"NOT_FOUND","message":"no such task"}`, apierrors.ErrNotFound},
		{"conflict", http.StatusConflict, `{"code":"CONFLICT","message":"category in use"}`, apierrors.ErrConflict},
		{"validation", http.StatusBadRequest, `{"code":"INVALID_INPUT","message":"title required"}`, apierrors.ErrValidation},
		{"server error", http.StatusInternalServerError, ``, apierrors.ErrTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := newRecordingServer(tt.status, tt.body)
			defer rs.Close()
			client := NewClient(rs.URL, "tok", nil)

			_, err := client.GetTask(context.Background(), "t1")

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.category)
		})
	}
}

// TestTransportError verifies a connection failure maps to the transport
// category.
func TestTransportError(t *testing.T) {
	rs := newRecordingServer(http.StatusOK, `{}`)
	rs.Close() // refused from here on

	client := NewClient(rs.URL, "tok", nil)
	_, err := client.GetTask(context.Background(), "t1")

	assert.ErrorIs(t, err, apierrors.ErrTransport)
}

// TestUploadAttachment_StreamsMultipart verifies the upload arrives as a
// multipart file part with the declared filename.
func TestUploadAttachment_StreamsMultipart(t *testing.T) {
	var gotFilename string
	var gotContent []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename
		gotContent, _ = io.ReadAll(file)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"a1","filename":"notes.txt"}`)
	}))
	defer server.Close()
	client := NewClient(server.URL, "tok", nil)

	content := strings.NewReader("attachment body")
	attachment, err := client.UploadAttachment(context.Background(), "t1", "notes.txt",
		content, int64(content.Len()), nil)
	require.NoError(t, err)

	assert.Equal(t, "a1", attachment.ID)
	assert.Equal(t, "notes.txt", gotFilename)
	assert.Equal(t, "attachment body", string(gotContent))
}

// TestUploadAttachment_ReportsProgress verifies the progress callback
// observes the stream up to at least the file size against the declared
// total.
func TestUploadAttachment_ReportsProgress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"a1"}`)
	}))
	defer server.Close()
	client := NewClient(server.URL, "tok", nil)

	payload := bytes.Repeat([]byte("x"), 1024)
	var lastSent, total int64
	_, err := client.UploadAttachment(context.Background(), "t1", "blob.bin",
		bytes.NewReader(payload), int64(len(payload)),
		func(sent, size int64) { lastSent, total = sent, size })
	require.NoError(t, err)

	// The multipart framing adds boundary bytes on top of the file body.
	assert.GreaterOrEqual(t, lastSent, int64(len(payload)))
	assert.Equal(t, int64(len(payload)), total)
}

// TestExportTasks_StreamsBlob verifies export bodies stream through
// untouched.
func TestExportTasks_StreamsBlob(t *testing.T) {
	rs := newRecordingServer(http.StatusOK, "id,title\nt1,Invoice\n")
	defer rs.Close()
	client := NewClient(rs.URL, "tok", nil)

	var buf bytes.Buffer
	n, err := client.ExportTasks(context.Background(), ExportExcel, query.Params{}, &buf)
	require.NoError(t, err)

	assert.Equal(t, int64(buf.Len()), n)
	assert.Contains(t, buf.String(), "t1,Invoice")
	assert.Contains(t, rs.lastPath, "/task/export/")
}

// TestExportTasks_RejectsUnknownFormat verifies the format enum is checked
// before any request.
func TestExportTasks_RejectsUnknownFormat(t *testing.T) {
	rs := newRecordingServer(http.StatusOK, "")
	defer rs.Close()
	client := NewClient(rs.URL, "tok", nil)

	_, err := client.ExportTasks(context.Background(), ExportFormat("docx"), query.Params{}, io.Discard)

	assert.ErrorIs(t, err, apierrors.ErrValidation)
	assert.Empty(t, rs.lastMethod)
}

// TestListCategories_DecodesWrapper verifies the {items} wrapper decodes
// into a plain slice.
func TestListCategories_DecodesWrapper(t *testing.T) {
	rs := newRecordingServer(http.StatusOK, `{"items":[{"id":"c1","name":"Fiscal","tasks_count":2}]}`)
	defer rs.Close()
	client := NewClient(rs.URL, "tok", nil)

	categories, err := client.ListCategories(context.Background())
	require.NoError(t, err)

	require.Len(t, categories, 1)
	assert.Equal(t, "Fiscal", categories[0].Name)
	assert.Equal(t, 2, categories[0].TasksCount)
}

func mustParseQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return values
}
