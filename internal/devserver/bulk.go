package devserver

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gestorhub/taskdesk/internal/models"
	"github.com/gestorhub/taskdesk/internal/realtime"
)

// importTasks accepts a CSV upload with a title,body,due_date header and
// creates one task per row.
func (s *Server) importTasks(c *gin.Context) {
	userID, companyID := currentUser(c)

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", "file field is required")
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", "file is not valid CSV")
		return
	}

	batchID := uuid.NewString()
	imported, skipped := 0, 0
	var importErrors []string

	for i, row := range rows {
		if i == 0 && len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "title") {
			continue // header
		}
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			skipped++
			importErrors = append(importErrors, fmt.Sprintf("row %d: title is required", i+1))
			continue
		}

		record := taskRecord{
			ID:        uuid.NewString(),
			CompanyID: companyID,
			Title:     strings.TrimSpace(row[0]),
			Status:    string(models.TaskStatusPending),
			CreatorID: userID,
		}
		if len(row) > 1 {
			record.Body = row[1]
		}
		if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
			due, err := time.Parse(time.RFC3339, strings.TrimSpace(row[2]))
			if err != nil {
				skipped++
				importErrors = append(importErrors, fmt.Sprintf("row %d: bad due date %q", i+1, row[2]))
				continue
			}
			record.DueDate = &due
		}
		record.setAssignment(models.AssignIndividual(userID))

		if err := s.store.db.Create(&record).Error; err != nil {
			skipped++
			importErrors = append(importErrors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		s.recordEvent(record.ID, models.ActionCreated, nil, userID)
		imported++
	}

	if imported > 0 {
		s.publish(realtime.EventTaskCreated, companyID, "")
	}

	c.JSON(http.StatusOK, gin.H{
		"batch_id": batchID,
		"imported": imported,
		"skipped":  skipped,
		"errors":   importErrors,
	})
}

func (s *Server) exportRecords(c *gin.Context) ([]taskRecord, bool) {
	userID, companyID := currentUser(c)
	db := s.applyListFilters(c, companyID)
	pattern := `%"` + userID + `"%`
	db = db.Where(
		"private = ? OR creator_id = ? OR responsible_id = ? OR group_user_ids LIKE ?",
		false, userID, userID, pattern,
	)

	var records []taskRecord
	if err := db.Order("created_at DESC").Find(&records).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to fetch tasks")
		return nil, false
	}
	return records, true
}

func (s *Server) exportTasksPDF(c *gin.Context) {
	records, ok := s.exportRecords(c)
	if !ok {
		return
	}

	var b strings.Builder
	b.WriteString("%PDF-1.4\n% task export\n")
	for _, record := range records {
		fmt.Fprintf(&b, "%% %s | %s | %s\n", record.ID, record.Title, record.Status)
	}
	b.WriteString("%%EOF\n")
	c.Data(http.StatusOK, "application/pdf", []byte(b.String()))
}

func (s *Server) exportTasksExcel(c *gin.Context) {
	records, ok := s.exportRecords(c)
	if !ok {
		return
	}

	var b strings.Builder
	w := csv.NewWriter(&b)
	w.Write([]string{"id", "title", "status", "due_date", "charge_value", "charge_paid"})
	for _, record := range records {
		due := ""
		if record.DueDate != nil {
			due = record.DueDate.UTC().Format(time.RFC3339)
		}
		w.Write([]string{
			record.ID,
			record.Title,
			record.Status,
			due,
			fmt.Sprintf("%.2f", record.ChargeValue),
			fmt.Sprintf("%t", record.ChargePaid),
		})
	}
	w.Flush()

	c.Header("Content-Disposition", `attachment; filename="tasks.csv"`)
	c.Data(http.StatusOK, "application/vnd.ms-excel", []byte(b.String()))
}
