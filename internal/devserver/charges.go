package devserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gestorhub/taskdesk/internal/models"
	"github.com/gestorhub/taskdesk/internal/realtime"
)

func (s *Server) addCharge(c *gin.Context) {
	userID, companyID := currentUser(c)
	record, ok := s.findTask(c, false)
	if !ok {
		return
	}

	var charge models.Charge
	if err := c.ShouldBindJSON(&charge); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid request body")
		return
	}
	if charge.Value <= 0 {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", "charge value must be positive")
		return
	}

	record.setCharge(&charge)
	if err := s.store.db.Save(record).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to save charge")
		return
	}

	details, _ := json.Marshal(gin.H{"value": charge.Value})
	s.recordEvent(record.ID, models.ActionChargeAdded, details, userID)
	s.publish(realtime.EventTaskUpdated, companyID, record.ID)
	c.JSON(http.StatusOK, record.toModel())
}

func (s *Server) chargePDF(c *gin.Context) {
	record, ok := s.findTask(c, false)
	if !ok {
		return
	}
	if !record.HasCharge {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "task has no charge")
		return
	}

	// Placeholder document; good enough for a dev backend.
	body := fmt.Sprintf("%%PDF-1.4\n%% charge %s\n%% %s: %.2f\n%%%%EOF\n",
		record.ID, record.Title, record.ChargeValue)
	c.Data(http.StatusOK, "application/pdf", []byte(body))
}

func (s *Server) emailCharge(c *gin.Context) {
	userID, _ := currentUser(c)
	record, ok := s.findTask(c, false)
	if !ok {
		return
	}
	if !record.HasCharge {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", "task has no charge")
		return
	}
	if record.EmployerID == "" {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", "task has no employer to email")
		return
	}

	s.recordEvent(record.ID, models.ActionChargeEmailed, nil, userID)
	c.Status(http.StatusAccepted)
}

func (s *Server) registerPayment(c *gin.Context) {
	userID, companyID := currentUser(c)
	record, ok := s.findTask(c, false)
	if !ok {
		return
	}
	if !record.HasCharge {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", "task has no charge")
		return
	}

	var req struct {
		PaymentDate *time.Time `json:"payment_date"`
		Notes       string     `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid request body")
		return
	}

	paymentDate := time.Now()
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}

	record.ChargePaid = true
	record.PaymentDate = &paymentDate
	if req.Notes != "" {
		record.ChargeNotes = req.Notes
	}
	if err := s.store.db.Save(record).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to register payment")
		return
	}

	details, _ := json.Marshal(gin.H{"payment_date": paymentDate})
	s.recordEvent(record.ID, models.ActionPaymentRegistered, details, userID)
	s.publish(realtime.EventTaskUpdated, companyID, record.ID)
	c.JSON(http.StatusOK, record.toModel())
}

func (s *Server) chargeListing(c *gin.Context, paid bool) {
	_, companyID := currentUser(c)
	page, pageSize := pagination(c)

	db := s.store.db.Model(&taskRecord{}).
		Where("company_id = ? AND has_charge = ? AND charge_paid = ?", companyID, true, paid)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to count charges")
		return
	}

	var records []taskRecord
	if err := db.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to fetch charges")
		return
	}

	tasks := make([]models.Task, len(records))
	for i, record := range records {
		tasks[i] = record.toModel()
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "count": total})
}

func (s *Server) pendingCharges(c *gin.Context) {
	s.chargeListing(c, false)
}

func (s *Server) paidCharges(c *gin.Context) {
	s.chargeListing(c, true)
}

func (s *Server) chargeReport(c *gin.Context) {
	_, companyID := currentUser(c)

	db := s.store.db.Model(&taskRecord{}).
		Where("company_id = ? AND has_charge = ?", companyID, true)

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

	var records []taskRecord
	if err := db.Order("created_at").Find(&records).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to build report")
		return
	}

	type reportRow struct {
		TaskID      string     `json:"task_id"`
		TaskTitle   string     `json:"task_title"`
		EmployerID  string     `json:"employer_id,omitempty"`
		Value       float64    `json:"value"`
		Paid        bool       `json:"paid"`
		PaymentDate *time.Time `json:"payment_date,omitempty"`
	}

	items := make([]reportRow, len(records))
	for i, record := range records {
		items[i] = reportRow{
			TaskID:      record.ID,
			TaskTitle:   record.Title,
			EmployerID:  record.EmployerID,
			Value:       record.ChargeValue,
			Paid:        record.ChargePaid,
			PaymentDate: record.PaymentDate,
		}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
