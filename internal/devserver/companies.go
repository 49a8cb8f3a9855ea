package devserver

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gestorhub/taskdesk/internal/models"
)

func (s *Server) listCompanies(c *gin.Context) {
	page, pageSize := pagination(c)

	var total int64
	if err := s.store.db.Model(&companyRecord{}).Count(&total).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to count companies")
		return
	}

	var records []companyRecord
	if err := s.store.db.Order("name").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to fetch companies")
		return
	}

	companies := make([]models.Company, len(records))
	for i, record := range records {
		var users int64
		s.store.db.Model(&userRecord{}).Where("company_id = ?", record.ID).Count(&users)
		companies[i] = record.toModel(int(users))
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies, "count": total})
}

func (s *Server) setCompanyBlocked(c *gin.Context, blocked bool) {
	var record companyRecord
	if err := s.store.db.First(&record, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "company not found")
		} else {
			respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to find company")
		}
		return
	}

	record.Blocked = blocked
	if err := s.store.db.Save(&record).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to update company")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) blockCompany(c *gin.Context) {
	s.setCompanyBlocked(c, true)
}

func (s *Server) unblockCompany(c *gin.Context) {
	s.setCompanyBlocked(c, false)
}

func (s *Server) deleteCompany(c *gin.Context) {
	id := c.Param("id")

	// A deleted tenant takes its data with it.
	err := s.store.db.Transaction(func(tx *gorm.DB) error {
		var taskIDs []string
		if err := tx.Model(&taskRecord{}).Unscoped().
			Where("company_id = ?", id).
			Pluck("id", &taskIDs).Error; err != nil {
			return err
		}
		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&noteRecord{}).Error; err != nil {
				return err
			}
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&attachmentRecord{}).Error; err != nil {
				return err
			}
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&timelineRecord{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("company_id = ?", id).Delete(&taskRecord{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("company_id = ?", id).Delete(&categoryRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", id).Delete(&subjectRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", id).Delete(&sessionRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", id).Delete(&userRecord{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&companyRecord{}, "id = ?", id).Error
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to delete company")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) exportCompanies(c *gin.Context) {
	format := c.Param("type")
	if format != "pdf" && format != "excel" {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", fmt.Sprintf("unknown export format %q", format))
		return
	}

	var records []companyRecord
	if err := s.store.db.Order("name").Find(&records).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to fetch companies")
		return
	}

	if format == "pdf" {
		var b strings.Builder
		b.WriteString("%PDF-1.4\n% company export\n")
		for _, record := range records {
			fmt.Fprintf(&b, "%% %s | %s | blocked=%t\n", record.ID, record.Name, record.Blocked)
		}
		b.WriteString("%%EOF\n")
		c.Data(http.StatusOK, "application/pdf", []byte(b.String()))
		return
	}

	var b strings.Builder
	w := csv.NewWriter(&b)
	w.Write([]string{"id", "name", "plan", "blocked"})
	for _, record := range records {
		w.Write([]string{record.ID, record.Name, record.Plan, fmt.Sprintf("%t", record.Blocked)})
	}
	w.Flush()
	c.Header("Content-Disposition", `attachment; filename="companies.csv"`)
	c.Data(http.StatusOK, "application/vnd.ms-excel", []byte(b.String()))
}
