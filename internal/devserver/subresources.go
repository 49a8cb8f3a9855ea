package devserver

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestorhub/taskdesk/internal/models"
	"github.com/gestorhub/taskdesk/internal/realtime"
)

func (s *Server) listNotes(c *gin.Context) {
	record, ok := s.findTask(c, false)
	if !ok {
		return
	}

	var records []noteRecord
	if err := s.store.db.Where("task_id = ?", record.ID).Order("created_at").Find(&records).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to fetch notes")
		return
	}

	items := make([]models.Note, len(records))
	for i, note := range records {
		items[i] = note.toModel()
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) addNote(c *gin.Context) {
	userID, companyID := currentUser(c)
	record, ok := s.findTask(c, false)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", "content is required")
		return
	}

	note := noteRecord{
		ID:       uuid.NewString(),
		TaskID:   record.ID,
		Content:  req.Content,
		AuthorID: userID,
	}
	if err := s.store.db.Create(&note).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to create note")
		return
	}

	s.recordEvent(record.ID, models.ActionNoteAdded, nil, userID)
	s.publish(realtime.EventNoteAdded, companyID, record.ID)
	c.JSON(http.StatusCreated, note.toModel())
}

// findNote loads a note belonging to the routed task and enforces that
// only its author may change it.
func (s *Server) findNote(c *gin.Context, taskID string) (*noteRecord, bool) {
	userID, _ := currentUser(c)

	var note noteRecord
	err := s.store.db.Where("task_id = ?", taskID).First(&note, "id = ?", c.Param("noteId")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "note not found")
		} else {
			respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to find note")
		}
		return nil, false
	}
	if note.AuthorID != userID {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "only the author can modify a note")
		return nil, false
	}
	return &note, true
}

func (s *Server) updateNote(c *gin.Context) {
	userID, companyID := currentUser(c)
	record, ok := s.findTask(c, false)
	if !ok {
		return
	}
	note, ok := s.findNote(c, record.ID)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", "content is required")
		return
	}

	note.Content = req.Content
	if err := s.store.db.Save(note).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to update note")
		return
	}

	s.recordEvent(record.ID, models.ActionNoteUpdated, nil, userID)
	s.publish(realtime.EventNoteUpdated, companyID, record.ID)
	c.JSON(http.StatusOK, note.toModel())
}

func (s *Server) deleteNote(c *gin.Context) {
	userID, companyID := currentUser(c)
	record, ok := s.findTask(c, false)
	if !ok {
		return
	}
	note, ok := s.findNote(c, record.ID)
	if !ok {
		return
	}

	if err := s.store.db.Delete(&noteRecord{}, "id = ?", note.ID).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to delete note")
		return
	}

	s.recordEvent(record.ID, models.ActionNoteDeleted, nil, userID)
	s.publish(realtime.EventNoteDeleted, companyID, record.ID)
	c.Status(http.StatusNoContent)
}

func (s *Server) listAttachments(c *gin.Context) {
	record, ok := s.findTask(c, false)
	if !ok {
		return
	}

	var records []attachmentRecord
	err := s.store.db.Select("id", "task_id", "filename", "mime_type", "size", "uploader_id", "created_at").
		Where("task_id = ?", record.ID).Order("created_at").Find(&records).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to fetch attachments")
		return
	}

	items := make([]models.Attachment, len(records))
	for i, attachment := range records {
		items[i] = attachment.toModel()
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) uploadAttachment(c *gin.Context) {
	userID, companyID := currentUser(c)
	record, ok := s.findTask(c, false)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", "file field is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to read upload")
		return
	}

	attachment := attachmentRecord{
		ID:         uuid.NewString(),
		TaskID:     record.ID,
		Filename:   header.Filename,
		MimeType:   header.Header.Get("Content-Type"),
		Size:       int64(len(content)),
		Content:    content,
		UploaderID: userID,
	}
	if err := s.store.db.Create(&attachment).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to store attachment")
		return
	}

	s.recordEvent(record.ID, models.ActionAttachmentAdded, nil, userID)
	s.publish(realtime.EventAttachmentAdded, companyID, record.ID)
	c.JSON(http.StatusCreated, attachment.toModel())
}

func (s *Server) downloadAttachment(c *gin.Context) {
	record, ok := s.findTask(c, false)
	if !ok {
		return
	}

	var attachment attachmentRecord
	err := s.store.db.Where("task_id = ?", record.ID).First(&attachment, "id = ?", c.Param("attachmentId")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "attachment not found")
		} else {
			respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to find attachment")
		}
		return
	}

	contentType := attachment.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", `attachment; filename="`+attachment.Filename+`"`)
	c.Data(http.StatusOK, contentType, attachment.Content)
}

func (s *Server) deleteAttachment(c *gin.Context) {
	userID, companyID := currentUser(c)
	record, ok := s.findTask(c, false)
	if !ok {
		return
	}

	result := s.store.db.Where("task_id = ?", record.ID).
		Delete(&attachmentRecord{}, "id = ?", c.Param("attachmentId"))
	if result.Error != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to delete attachment")
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "attachment not found")
		return
	}

	s.recordEvent(record.ID, models.ActionAttachmentDeleted, nil, userID)
	s.publish(realtime.EventAttachmentDeleted, companyID, record.ID)
	c.Status(http.StatusNoContent)
}

func (s *Server) timeline(c *gin.Context) {
	record, ok := s.findTask(c, true)
	if !ok {
		return
	}

	var records []timelineRecord
	if err := s.store.db.Where("task_id = ?", record.ID).Order("created_at").Find(&records).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to fetch timeline")
		return
	}

	items := make([]models.TimelineEvent, len(records))
	for i, event := range records {
		items[i] = event.toModel()
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
