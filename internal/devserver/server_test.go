package devserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/gestorhub/taskdesk/internal/models"
	"github.com/gestorhub/taskdesk/internal/realtime"
)

// capturingPublisher records realtime events instead of touching a broker.
type capturingPublisher struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (p *capturingPublisher) Publish(ctx context.Context, event realtime.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) types() []realtime.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]realtime.EventType, len(p.events))
	for i, event := range p.events {
		types[i] = event.Type
	}
	return types
}

// ServerTestSuite drives the dev server through its HTTP surface.
type ServerTestSuite struct {
	suite.Suite
	store     *Store
	server    *Server
	pub       *capturingPublisher
	token     string
	userID    string
	companyID string
}

// SetupTest runs before each test
func (suite *ServerTestSuite) SetupTest() {
	var err error
	suite.store, err = OpenStore(":memory:")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.store.SeedDefaults())

	suite.pub = &capturingPublisher{}
	suite.server = New(suite.store, suite.pub)

	suite.token, suite.userID, suite.companyID = suite.login("admin@dev.local", "admin")
}

func (suite *ServerTestSuite) login(email, password string) (token, userID, companyID string) {
	w := suite.do(http.MethodPost, "/auth/login", gin.H{"email": email, "password": password}, "")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["token"], resp["user_id"], resp["company_id"]
}


func (suite *ServerTestSuite) do(method, target string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.server.Handler().ServeHTTP(w, req)
	return w
}

// createTask creates a task through the API and returns the decoded model.
func (suite *ServerTestSuite) createTask(body gin.H) models.Task {
	w := suite.do(http.MethodPost, "/task", body, suite.token)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var task models.Task
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &task))
	return task
}

// createUser inserts a second user in the same company and logs it in.
func (suite *ServerTestSuite) createUser(email string, admin bool) (token, userID string) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	suite.Require().NoError(err)

	user := userRecord{
		ID:           uuid.NewString(),
		Name:         "Second User",
		Email:        email,
		PasswordHash: string(hash),
		CompanyID:    suite.companyID,
		Admin:        admin,
	}
	suite.Require().NoError(suite.store.db.Create(&user).Error)

	token, userID, _ = suite.login(email, "secret")
	return token, userID
}

func (suite *ServerTestSuite) listTasks(query, token string) (tasks []models.Task, count int) {
	w := suite.do(http.MethodGet, "/task"+query, nil, token)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Tasks []models.Task `json:"tasks"`
		Count int           `json:"count"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Tasks, resp.Count
}

// TestLogin_WrongPassword tests credential rejection
func (suite *ServerTestSuite) TestLogin_WrongPassword() {
	w := suite.do(http.MethodPost, "/auth/login", gin.H{"email": "admin@dev.local", "password": "nope"}, "")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestAuth_MissingToken tests the bearer token requirement
func (suite *ServerTestSuite) TestAuth_MissingToken() {
	w := suite.do(http.MethodGet, "/task", nil, "")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	w = suite.do(http.MethodGet, "/task", nil, "bogus-token")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestCreateTask_Success tests creation, defaults and side effects
func (suite *ServerTestSuite) TestCreateTask_Success() {
	task := suite.createTask(gin.H{"title": "File the report"})

	assert.Equal(suite.T(), "File the report", task.Title)
	assert.Equal(suite.T(), models.TaskStatusPending, task.Status)
	assert.Equal(suite.T(), suite.userID, task.CreatorID)
	assert.Equal(suite.T(), models.AssignmentIndividual, task.Assignment.Type)
	assert.Contains(suite.T(), suite.pub.types(), realtime.EventTaskCreated)

	// Creation is the first timeline entry.
	w := suite.do(http.MethodGet, "/task/"+task.ID+"/timeline", nil, suite.token)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var timeline struct {
		Items []models.TimelineEvent `json:"items"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &timeline))
	suite.Require().NotEmpty(timeline.Items)
	assert.Equal(suite.T(), models.ActionCreated, timeline.Items[0].Action)
}

// TestCreateTask_MissingTitle tests input validation
func (suite *ServerTestSuite) TestCreateTask_MissingTitle() {
	w := suite.do(http.MethodPost, "/task", gin.H{"title": "   "}, suite.token)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateTask_InvalidStatus tests the status enum gate
func (suite *ServerTestSuite) TestCreateTask_InvalidStatus() {
	w := suite.do(http.MethodPost, "/task", gin.H{"title": "x", "status": "archived"}, suite.token)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestListTasks_StatusEncoding tests the contract's status query encoding
func (suite *ServerTestSuite) TestListTasks_StatusEncoding() {
	suite.createTask(gin.H{"title": "pending one"})
	suite.createTask(gin.H{"title": "active one", "status": "inProgress"})
	suite.createTask(gin.H{"title": "done one", "status": "completed"})

	_, count := suite.listTasks("", suite.token)
	assert.Equal(suite.T(), 3, count)

	tasks, count := suite.listTasks("?status=false", suite.token)
	assert.Equal(suite.T(), 1, count)
	assert.Equal(suite.T(), "pending one", tasks[0].Title)

	tasks, _ = suite.listTasks("?status=inProgress", suite.token)
	assert.Equal(suite.T(), "active one", tasks[0].Title)

	tasks, _ = suite.listTasks("?status=true", suite.token)
	assert.Equal(suite.T(), "done one", tasks[0].Title)
}

// TestListTasks_ChargeAndRecurrentFilters tests the billing and recurrence tabs
func (suite *ServerTestSuite) TestListTasks_ChargeAndRecurrentFilters() {
	suite.createTask(gin.H{"title": "plain"})
	suite.createTask(gin.H{"title": "billed", "charge": gin.H{"value": 150.0}})
	suite.createTask(gin.H{"title": "settled", "charge": gin.H{"value": 80.0, "paid": true}})
	suite.createTask(gin.H{"title": "weekly", "recurrence": gin.H{"type": "weekly"}})

	tasks, count := suite.listTasks("?chargeStatus=pending", suite.token)
	assert.Equal(suite.T(), 1, count)
	assert.Equal(suite.T(), "billed", tasks[0].Title)

	tasks, _ = suite.listTasks("?chargeStatus=paid", suite.token)
	assert.Equal(suite.T(), "settled", tasks[0].Title)

	tasks, _ = suite.listTasks("?isRecurrent=true", suite.token)
	assert.Equal(suite.T(), "weekly", tasks[0].Title)
}

// TestListTasks_SearchAndPagination tests search plus the page cursor
func (suite *ServerTestSuite) TestListTasks_SearchAndPagination() {
	for i := 0; i < 5; i++ {
		suite.createTask(gin.H{"title": fmt.Sprintf("invoice %d", i)})
	}
	suite.createTask(gin.H{"title": "unrelated"})

	tasks, count := suite.listTasks("?search=invoice&pageNumber=1&pageSize=2", suite.token)
	assert.Equal(suite.T(), 5, count)
	assert.Len(suite.T(), tasks, 2)

	tasks, count = suite.listTasks("?search=invoice&pageNumber=3&pageSize=2", suite.token)
	assert.Equal(suite.T(), 5, count)
	assert.Len(suite.T(), tasks, 1)
}

// TestListTasks_PrivateVisibility tests that private tasks stay with their
// creator and assignees
func (suite *ServerTestSuite) TestListTasks_PrivateVisibility() {
	otherToken, otherID := suite.createUser("second@dev.local", false)

	suite.createTask(gin.H{"title": "secret", "private": true})
	suite.createTask(gin.H{"title": "shared secret", "private": true,
		"assignment": gin.H{"type": "individual", "user_id": otherID}})
	suite.createTask(gin.H{"title": "public"})

	_, count := suite.listTasks("", suite.token)
	assert.Equal(suite.T(), 3, count)

	tasks, count := suite.listTasks("", otherToken)
	assert.Equal(suite.T(), 2, count)
	titles := []string{tasks[0].Title, tasks[1].Title}
	assert.NotContains(suite.T(), titles, "secret")
}

// TestListUserTasks tests the per-user listing endpoint
func (suite *ServerTestSuite) TestListUserTasks() {
	otherToken, otherID := suite.createUser("second@dev.local", false)

	suite.createTask(gin.H{"title": "mine"})
	suite.createTask(gin.H{"title": "theirs",
		"assignment": gin.H{"type": "individual", "user_id": otherID}})

	w := suite.do(http.MethodGet, "/task/user", nil, otherToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	var resp struct {
		Tasks []models.Task `json:"tasks"`
		Count int           `json:"count"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(suite.T(), 1, resp.Count)
	assert.Equal(suite.T(), "theirs", resp.Tasks[0].Title)
}

// TestStatusCounters tests the per-tab counts endpoint
func (suite *ServerTestSuite) TestStatusCounters() {
	suite.createTask(gin.H{"title": "a"})
	suite.createTask(gin.H{"title": "b", "status": "completed"})
	suite.createTask(gin.H{"title": "c", "charge": gin.H{"value": 10.0}})
	suite.createTask(gin.H{"title": "d", "recurrence": gin.H{"type": "daily"}})

	w := suite.do(http.MethodGet, "/task/status", nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)

	var counters models.StatusCounters
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &counters))
	assert.Equal(suite.T(), 4, counters.All)
	assert.Equal(suite.T(), 3, counters.Pending)
	assert.Equal(suite.T(), 1, counters.Completed)
	assert.Equal(suite.T(), 1, counters.Unpaid)
	assert.Equal(suite.T(), 0, counters.Paid)
	assert.Equal(suite.T(), 1, counters.Recurrent)
}

// TestUpdateTask_StatusChange tests the status-specific event and timeline entry
func (suite *ServerTestSuite) TestUpdateTask_StatusChange() {
	task := suite.createTask(gin.H{"title": "flip me"})

	w := suite.do(http.MethodPut, "/task/"+task.ID, gin.H{"status": "completed"}, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)

	var updated models.Task
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(suite.T(), models.TaskStatusCompleted, updated.Status)
	assert.Contains(suite.T(), suite.pub.types(), realtime.EventTaskStatusUpdated)

	// A non-status edit publishes the generic update event.
	w = suite.do(http.MethodPut, "/task/"+task.ID, gin.H{"title": "renamed"}, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Contains(suite.T(), suite.pub.types(), realtime.EventTaskUpdated)
}

// TestDeleteRestoreFlow tests soft delete, the deleted view and admin restore
func (suite *ServerTestSuite) TestDeleteRestoreFlow() {
	task := suite.createTask(gin.H{"title": "doomed"})

	w := suite.do(http.MethodDelete, "/task/"+task.ID, nil, suite.token)
	suite.Require().Equal(http.StatusNoContent, w.Code)
	assert.Contains(suite.T(), suite.pub.types(), realtime.EventTaskDeleted)

	// Gone from the default view, present in the deleted view.
	w = suite.do(http.MethodGet, "/task/"+task.ID, nil, suite.token)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
	tasks, count := suite.listTasks("?showDeleted=true", suite.token)
	suite.Require().Equal(1, count)
	assert.Equal(suite.T(), "doomed", tasks[0].Title)
	assert.NotNil(suite.T(), tasks[0].DeletedAt)

	w = suite.do(http.MethodPut, "/task/"+task.ID+"/restore", nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
	var restored models.Task
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &restored))
	assert.Nil(suite.T(), restored.DeletedAt)
	w = suite.do(http.MethodGet, "/task/"+task.ID, nil, suite.token)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

// TestRestore_NonAdminForbidden tests the restore gate
func (suite *ServerTestSuite) TestRestore_NonAdminForbidden() {
	otherToken, _ := suite.createUser("second@dev.local", false)
	task := suite.createTask(gin.H{"title": "doomed"})
	suite.do(http.MethodDelete, "/task/"+task.ID, nil, suite.token)

	w := suite.do(http.MethodPut, "/task/"+task.ID+"/restore", nil, otherToken)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestCategoryLifecycle tests tag CRUD and the in-use deletion guard
func (suite *ServerTestSuite) TestCategoryLifecycle() {
	w := suite.do(http.MethodPost, "/task/category", gin.H{"name": "Fiscal"}, suite.token)
	suite.Require().Equal(http.StatusCreated, w.Code)
	var category models.TaskCategory
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &category))

	task := suite.createTask(gin.H{"title": "taxed", "category_id": category.ID})

	// Usage count shows up in the listing.
	w = suite.do(http.MethodGet, "/task/category", nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
	var listing struct {
		Items []models.TaskCategory `json:"items"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &listing))
	suite.Require().Len(listing.Items, 1)
	assert.Equal(suite.T(), 1, listing.Items[0].TasksCount)

	// Deletion is refused while the category is referenced.
	w = suite.do(http.MethodDelete, "/task/category/"+category.ID, nil, suite.token)
	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	// Detach the task, then deletion goes through.
	w = suite.do(http.MethodPut, "/task/"+task.ID, gin.H{"category_id": ""}, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
	w = suite.do(http.MethodDelete, "/task/category/"+category.ID, nil, suite.token)
	assert.Equal(suite.T(), http.StatusNoContent, w.Code)
}

// TestNotes_AuthorOnly tests note CRUD and the author guard
func (suite *ServerTestSuite) TestNotes_AuthorOnly() {
	otherToken, _ := suite.createUser("second@dev.local", false)
	task := suite.createTask(gin.H{"title": "with notes"})

	w := suite.do(http.MethodPost, "/task/"+task.ID+"/notes", gin.H{"content": "first note"}, suite.token)
	suite.Require().Equal(http.StatusCreated, w.Code)
	var note models.Note
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &note))
	assert.Contains(suite.T(), suite.pub.types(), realtime.EventNoteAdded)

	// Another user cannot edit or delete it.
	w = suite.do(http.MethodPut, "/task/"+task.ID+"/notes/"+note.ID, gin.H{"content": "hijacked"}, otherToken)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
	w = suite.do(http.MethodDelete, "/task/"+task.ID+"/notes/"+note.ID, nil, otherToken)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	// The author can.
	w = suite.do(http.MethodPut, "/task/"+task.ID+"/notes/"+note.ID, gin.H{"content": "edited"}, suite.token)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	w = suite.do(http.MethodDelete, "/task/"+task.ID+"/notes/"+note.ID, nil, suite.token)
	assert.Equal(suite.T(), http.StatusNoContent, w.Code)
	assert.Contains(suite.T(), suite.pub.types(), realtime.EventNoteDeleted)
}

// TestAttachments_UploadDownloadDelete tests the attachment round trip
func (suite *ServerTestSuite) TestAttachments_UploadDownloadDelete() {
	task := suite.createTask(gin.H{"title": "with files"})

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "notes.txt")
	suite.Require().NoError(err)
	part.Write([]byte("file content"))
	suite.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/task/"+task.ID+"/attachments", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+suite.token)
	w := httptest.NewRecorder()
	suite.server.Handler().ServeHTTP(w, req)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var attachment models.Attachment
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &attachment))
	assert.Equal(suite.T(), "notes.txt", attachment.Filename)
	assert.Equal(suite.T(), int64(len("file content")), attachment.Size)
	assert.Contains(suite.T(), suite.pub.types(), realtime.EventAttachmentAdded)

	dl := suite.do(http.MethodGet, "/task/"+task.ID+"/attachments/"+attachment.ID, nil, suite.token)
	suite.Require().Equal(http.StatusOK, dl.Code)
	assert.Equal(suite.T(), "file content", dl.Body.String())
	assert.Contains(suite.T(), dl.Header().Get("Content-Disposition"), "notes.txt")

	del := suite.do(http.MethodDelete, "/task/"+task.ID+"/attachments/"+attachment.ID, nil, suite.token)
	assert.Equal(suite.T(), http.StatusNoContent, del.Code)
	del = suite.do(http.MethodDelete, "/task/"+task.ID+"/attachments/"+attachment.ID, nil, suite.token)
	assert.Equal(suite.T(), http.StatusNotFound, del.Code)
}

// TestCharges_Flow tests charge attach, listings, payment and report
func (suite *ServerTestSuite) TestCharges_Flow() {
	task := suite.createTask(gin.H{"title": "billable", "employer_id": "emp-1"})

	w := suite.do(http.MethodPost, "/task/"+task.ID+"/charge", gin.H{"value": 200.0}, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	// Pending listing sees it, paid listing does not.
	w = suite.do(http.MethodGet, "/task/charges/pending", nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
	var page struct {
		Tasks []models.Task `json:"tasks"`
		Count int           `json:"count"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(suite.T(), 1, page.Count)

	w = suite.do(http.MethodGet, "/task/charges/paid", nil, suite.token)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(suite.T(), 0, page.Count)

	// The charge document is downloadable and mailable.
	w = suite.do(http.MethodGet, "/task/"+task.ID+"/charge/pdf", nil, suite.token)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "%PDF")
	w = suite.do(http.MethodPost, "/task/"+task.ID+"/charge/email", nil, suite.token)
	assert.Equal(suite.T(), http.StatusAccepted, w.Code)

	w = suite.do(http.MethodPost, "/task/"+task.ID+"/charge/payment", gin.H{"notes": "wire"}, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
	var paid models.Task
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &paid))
	suite.Require().NotNil(paid.Charge)
	assert.True(suite.T(), paid.Charge.Paid)
	assert.NotNil(suite.T(), paid.Charge.PaymentDate)

	w = suite.do(http.MethodGet, "/task/charges/report", nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
	var report struct {
		Items []struct {
			TaskID string  `json:"task_id"`
			Value  float64 `json:"value"`
			Paid   bool    `json:"paid"`
		} `json:"items"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &report))
	suite.Require().Len(report.Items, 1)
	assert.Equal(suite.T(), task.ID, report.Items[0].TaskID)
	assert.True(suite.T(), report.Items[0].Paid)
}

// TestCharges_EmailRequiresEmployer tests the email precondition
func (suite *ServerTestSuite) TestCharges_EmailRequiresEmployer() {
	task := suite.createTask(gin.H{"title": "no employer", "charge": gin.H{"value": 10.0}})

	w := suite.do(http.MethodPost, "/task/"+task.ID+"/charge/email", nil, suite.token)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestImportTasks tests the CSV import with per-row error reporting
func (suite *ServerTestSuite) TestImportTasks() {
	csvBody := "title,body,due_date\nFirst task,with body,\n,missing title,\nSecond task,,\n"

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "tasks.csv")
	suite.Require().NoError(err)
	part.Write([]byte(csvBody))
	suite.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/task/import", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+suite.token)
	w := httptest.NewRecorder()
	suite.server.Handler().ServeHTTP(w, req)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var result struct {
		Imported int      `json:"imported"`
		Skipped  int      `json:"skipped"`
		Errors   []string `json:"errors"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(suite.T(), 2, result.Imported)
	assert.Equal(suite.T(), 1, result.Skipped)
	assert.Len(suite.T(), result.Errors, 1)

	_, count := suite.listTasks("", suite.token)
	assert.Equal(suite.T(), 2, count)
}

// TestExportTasks tests the spreadsheet export
func (suite *ServerTestSuite) TestExportTasks() {
	suite.createTask(gin.H{"title": "exported"})

	w := suite.do(http.MethodPost, "/task/export/excel", nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "exported")
	assert.Contains(suite.T(), w.Header().Get("Content-Type"), "vnd.ms-excel")

	w = suite.do(http.MethodPost, "/task/export/pdf", nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "%PDF")
}

// TestCompanies_AdminSurface tests the tenant administration endpoints
func (suite *ServerTestSuite) TestCompanies_AdminSurface() {
	otherToken, _ := suite.createUser("second@dev.local", false)

	// Non-admins are locked out.
	w := suite.do(http.MethodGet, "/companiesPlan", nil, otherToken)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	w = suite.do(http.MethodGet, "/companiesPlan", nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
	var listing struct {
		Companies []models.Company `json:"companies"`
		Count     int              `json:"count"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &listing))
	suite.Require().Equal(1, listing.Count)
	assert.Equal(suite.T(), 2, listing.Companies[0].UsersCount)

	// Blocking the company locks new logins out.
	w = suite.do(http.MethodPut, "/companies/"+suite.companyID+"/block", nil, suite.token)
	suite.Require().Equal(http.StatusNoContent, w.Code)
	login := suite.do(http.MethodPost, "/auth/login", gin.H{"email": "second@dev.local", "password": "secret"}, "")
	assert.Equal(suite.T(), http.StatusForbidden, login.Code)

	w = suite.do(http.MethodPut, "/companies/"+suite.companyID+"/unblock", nil, suite.token)
	suite.Require().Equal(http.StatusNoContent, w.Code)
	login = suite.do(http.MethodPost, "/auth/login", gin.H{"email": "second@dev.local", "password": "secret"}, "")
	assert.Equal(suite.T(), http.StatusOK, login.Code)

	w = suite.do(http.MethodGet, "/companies/export/excel", nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "Dev Company")
}

// TestServerTestSuite runs the test suite
func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}
