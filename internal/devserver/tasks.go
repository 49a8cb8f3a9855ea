package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestorhub/taskdesk/internal/models"
	"github.com/gestorhub/taskdesk/internal/realtime"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("pageNumber", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(defaultPageSize)))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	return page, pageSize
}

// applyListFilters translates the list query parameters onto the task
// table. The status encoding ('', 'false', 'inProgress', 'true') is the
// contract's, kept verbatim.
func (s *Server) applyListFilters(c *gin.Context, companyID string) *gorm.DB {
	db := s.store.db.Model(&taskRecord{})

	if c.Query("showDeleted") == "true" {
		db = db.Unscoped().Where("task_records.deleted_at IS NOT NULL")
	}
	db = db.Where("company_id = ?", companyID)

	switch c.Query("status") {
	case "false":
		db = db.Where("status = ?", string(models.TaskStatusPending))
	case "inProgress":
		db = db.Where("status = ?", string(models.TaskStatusInProgress))
	case "true":
		db = db.Where("status = ?", string(models.TaskStatusCompleted))
	}

	switch c.Query("chargeStatus") {
	case "paid":
		db = db.Where("has_charge = ? AND charge_paid = ?", true, true)
	case "pending":
		db = db.Where("has_charge = ? AND charge_paid = ?", true, false)
	}

	if c.Query("isRecurrent") == "true" {
		db = db.Where("recurrent = ?", true)
	}

	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		db = db.Where("title LIKE ? OR body LIKE ?", pattern, pattern)
	}

	if userID := c.Query("userId"); userID != "" {
		db = db.Where("responsible_id = ? OR group_user_ids LIKE ?", userID, `%"`+userID+`"%`)
	}
	if categoryID := c.Query("categoryId"); categoryID != "" {
		db = db.Where("category_id = ?", categoryID)
	}
	if employerID := c.Query("employerId"); employerID != "" {
		db = db.Where("employer_id = ?", employerID)
	}
	if from := c.Query("startDate"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			db = db.Where("created_at >= ?", t)
		}
	}
	if to := c.Query("endDate"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			db = db.Where("created_at < ?", t)
		}
	}
	if c.Query("hasAttachments") == "true" {
		sub := s.store.db.Model(&attachmentRecord{}).
			Select("1").
			Where("attachment_records.task_id = task_records.id")
		db = db.Where("EXISTS (?)", sub)
	}

	return db
}

func (s *Server) renderTaskPage(c *gin.Context, db *gorm.DB, userID string) {
	page, pageSize := pagination(c)

	// Private tasks are visible only to their creator or responsible.
	pattern := `%"` + userID + `"%`
	db = db.Where(
		"private = ? OR creator_id = ? OR responsible_id = ? OR group_user_ids LIKE ?",
		false, userID, userID, pattern,
	)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to count tasks")
		return
	}

	var records []taskRecord
	if err := db.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to fetch tasks")
		return
	}

	tasks := make([]models.Task, len(records))
	for i, record := range records {
		tasks[i] = record.toModel()
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "count": total})
}

func (s *Server) listTasks(c *gin.Context) {
	userID, companyID := currentUser(c)
	s.renderTaskPage(c, s.applyListFilters(c, companyID), userID)
}

func (s *Server) listUserTasks(c *gin.Context) {
	userID, companyID := currentUser(c)
	db := s.applyListFilters(c, companyID)
	pattern := `%"` + userID + `"%`
	db = db.Where(
		"creator_id = ? OR responsible_id = ? OR group_user_ids LIKE ?",
		userID, userID, pattern,
	)
	s.renderTaskPage(c, db, userID)
}

func (s *Server) statusCounters(c *gin.Context) {
	_, companyID := currentUser(c)

	count := func(conds ...interface{}) int {
		var n int64
		db := s.store.db.Model(&taskRecord{}).Where("company_id = ?", companyID)
		if len(conds) > 0 {
			db = db.Where(conds[0], conds[1:]...)
		}
		db.Count(&n)
		return int(n)
	}

	counters := models.StatusCounters{
		All:        count(),
		Pending:    count("status = ?", string(models.TaskStatusPending)),
		InProgress: count("status = ?", string(models.TaskStatusInProgress)),
		Completed:  count("status = ?", string(models.TaskStatusCompleted)),
		Paid:       count("has_charge = ? AND charge_paid = ?", true, true),
		Unpaid:     count("has_charge = ? AND charge_paid = ?", true, false),
		Recurrent:  count("recurrent = ?", true),
	}

	c.JSON(http.StatusOK, counters)
}

type taskRequest struct {
	Title      string             `json:"title"`
	Body       string             `json:"body"`
	DueDate    *time.Time         `json:"due_date"`
	Status     models.TaskStatus  `json:"status"`
	Private    *bool              `json:"private"`
	Recurrence *models.Recurrence `json:"recurrence"`
	Charge     *models.Charge     `json:"charge"`
	CategoryID *string            `json:"category_id"`
	SubjectID  *string            `json:"subject_id"`
	EmployerID *string            `json:"employer_id"`
	Assignment *models.Assignment `json:"assignment"`
}

func (s *Server) createTask(c *gin.Context) {
	userID, companyID := currentUser(c)

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", "title is required")
		return
	}

	status := req.Status
	if status == "" {
		status = models.TaskStatusPending
	}
	if !status.Valid() {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid status")
		return
	}

	record := taskRecord{
		ID:        uuid.NewString(),
		CompanyID: companyID,
		Title:     req.Title,
		Body:      req.Body,
		DueDate:   req.DueDate,
		Status:    string(status),
		CreatorID: userID,
	}
	if req.Private != nil {
		record.Private = *req.Private
	}
	if req.CategoryID != nil {
		record.CategoryID = *req.CategoryID
	}
	if req.SubjectID != nil {
		record.SubjectID = *req.SubjectID
	}
	if req.EmployerID != nil {
		record.EmployerID = *req.EmployerID
	}
	record.setRecurrence(req.Recurrence)
	record.setCharge(req.Charge)
	assignment := models.AssignIndividual(userID)
	if req.Assignment != nil && req.Assignment.Type != "" {
		assignment = *req.Assignment
	}
	record.setAssignment(assignment)

	if err := s.store.db.Create(&record).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to create task")
		return
	}

	s.recordEvent(record.ID, models.ActionCreated, nil, userID)
	if record.Recurrent {
		s.recordEvent(record.ID, models.ActionRecurrenceCreated, nil, userID)
	}
	if record.HasCharge {
		s.recordEvent(record.ID, models.ActionChargeAdded, nil, userID)
	}
	s.publish(realtime.EventTaskCreated, companyID, record.ID)

	c.JSON(http.StatusCreated, record.toModel())
}

// findTask loads a company-scoped task, including soft-deleted rows when
// unscoped is set.
func (s *Server) findTask(c *gin.Context, unscoped bool) (*taskRecord, bool) {
	_, companyID := currentUser(c)
	db := s.store.db
	if unscoped {
		db = db.Unscoped()
	}

	var record taskRecord
	err := db.Where("company_id = ?", companyID).First(&record, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "task not found")
		} else {
			respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to find task")
		}
		return nil, false
	}
	return &record, true
}

func (s *Server) getTask(c *gin.Context) {
	record, ok := s.findTask(c, false)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, record.toModel())
}

func (s *Server) updateTask(c *gin.Context) {
	userID, companyID := currentUser(c)
	record, ok := s.findTask(c, false)
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid request body")
		return
	}

	statusChanged := false
	if req.Title != "" {
		record.Title = req.Title
	}
	if req.Body != "" {
		record.Body = req.Body
	}
	if req.DueDate != nil {
		record.DueDate = req.DueDate
	}
	if req.Status != "" {
		if !req.Status.Valid() {
			respondError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid status")
			return
		}
		statusChanged = record.Status != string(req.Status)
		record.Status = string(req.Status)
	}
	if req.Private != nil {
		record.Private = *req.Private
	}
	if req.CategoryID != nil {
		record.CategoryID = *req.CategoryID
	}
	if req.SubjectID != nil {
		record.SubjectID = *req.SubjectID
	}
	if req.EmployerID != nil {
		record.EmployerID = *req.EmployerID
	}
	if req.Recurrence != nil {
		record.setRecurrence(req.Recurrence)
	}
	if req.Charge != nil {
		record.setCharge(req.Charge)
	}
	if req.Assignment != nil {
		record.setAssignment(*req.Assignment)
		s.recordEvent(record.ID, models.ActionAssigneeChanged, nil, userID)
	}

	if err := s.store.db.Save(record).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to update task")
		return
	}

	if statusChanged {
		details, _ := json.Marshal(gin.H{"status": record.Status})
		s.recordEvent(record.ID, models.ActionStatusChanged, details, userID)
		s.publish(realtime.EventTaskStatusUpdated, companyID, record.ID)
	} else {
		s.recordEvent(record.ID, models.ActionUpdated, nil, userID)
		s.publish(realtime.EventTaskUpdated, companyID, record.ID)
	}

	c.JSON(http.StatusOK, record.toModel())
}

func (s *Server) deleteTask(c *gin.Context) {
	userID, companyID := currentUser(c)
	record, ok := s.findTask(c, false)
	if !ok {
		return
	}

	if err := s.store.db.Delete(&taskRecord{}, "id = ?", record.ID).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to delete task")
		return
	}

	s.recordEvent(record.ID, models.ActionDeleted, nil, userID)
	s.publish(realtime.EventTaskDeleted, companyID, record.ID)
	c.Status(http.StatusNoContent)
}

// restoreTask brings a soft-deleted task back. Admin only.
func (s *Server) restoreTask(c *gin.Context) {
	if !c.GetBool(ctxAdmin) {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "admin access required")
		return
	}
	userID, companyID := currentUser(c)
	record, ok := s.findTask(c, true)
	if !ok {
		return
	}

	if err := s.store.db.Unscoped().Model(&taskRecord{}).
		Where("id = ?", record.ID).
		Update("deleted_at", nil).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to restore task")
		return
	}

	record.DeletedAt = gorm.DeletedAt{}
	s.recordEvent(record.ID, models.ActionRestored, nil, userID)
	s.publish(realtime.EventTaskUpdated, companyID, record.ID)
	c.JSON(http.StatusOK, record.toModel())
}

func (s *Server) recordEvent(taskID string, action models.TimelineAction, details json.RawMessage, actorID string) {
	event := timelineRecord{
		ID:      uuid.NewString(),
		TaskID:  taskID,
		Action:  string(action),
		Details: string(details),
		ActorID: actorID,
	}
	if err := s.store.db.Create(&event).Error; err != nil {
		// The timeline is advisory history; losing an entry must not fail
		// the request.
		return
	}
}
