package devserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestorhub/taskdesk/internal/models"
)

type tagRequest struct {
	Name string `json:"name"`
}

func (s *Server) categoryUsage(id string) int {
	var n int64
	s.store.db.Model(&taskRecord{}).Where("category_id = ?", id).Count(&n)
	return int(n)
}

func (s *Server) subjectUsage(id string) int {
	var n int64
	s.store.db.Model(&taskRecord{}).Where("subject_id = ?", id).Count(&n)
	return int(n)
}

func (s *Server) listCategories(c *gin.Context) {
	_, companyID := currentUser(c)

	var records []categoryRecord
	if err := s.store.db.Where("company_id = ?", companyID).Order("name").Find(&records).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to fetch categories")
		return
	}

	items := make([]models.TaskCategory, len(records))
	for i, record := range records {
		items[i] = models.TaskCategory{
			ID:         record.ID,
			Name:       record.Name,
			TasksCount: s.categoryUsage(record.ID),
			CreatedAt:  record.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) createCategory(c *gin.Context) {
	_, companyID := currentUser(c)

	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", "name is required")
		return
	}

	record := categoryRecord{ID: uuid.NewString(), CompanyID: companyID, Name: req.Name}
	if err := s.store.db.Create(&record).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to create category")
		return
	}
	c.JSON(http.StatusCreated, models.TaskCategory{ID: record.ID, Name: record.Name, CreatedAt: record.CreatedAt})
}

func (s *Server) updateCategory(c *gin.Context) {
	_, companyID := currentUser(c)

	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", "name is required")
		return
	}

	var record categoryRecord
	err := s.store.db.Where("company_id = ?", companyID).First(&record, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "category not found")
		} else {
			respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to find category")
		}
		return
	}

	record.Name = req.Name
	if err := s.store.db.Save(&record).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to update category")
		return
	}
	c.JSON(http.StatusOK, models.TaskCategory{
		ID:         record.ID,
		Name:       record.Name,
		TasksCount: s.categoryUsage(record.ID),
		CreatedAt:  record.CreatedAt,
	})
}

func (s *Server) deleteCategory(c *gin.Context) {
	_, companyID := currentUser(c)
	id := c.Param("id")

	if s.categoryUsage(id) > 0 {
		respondError(c, http.StatusConflict, "CONFLICT", "category is in use")
		return
	}

	result := s.store.db.Where("company_id = ?", companyID).Delete(&categoryRecord{}, "id = ?", id)
	if result.Error != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to delete category")
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "category not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listSubjects(c *gin.Context) {
	_, companyID := currentUser(c)

	var records []subjectRecord
	if err := s.store.db.Where("company_id = ?", companyID).Order("name").Find(&records).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to fetch subjects")
		return
	}

	items := make([]models.TaskSubject, len(records))
	for i, record := range records {
		items[i] = models.TaskSubject{
			ID:         record.ID,
			Name:       record.Name,
			TasksCount: s.subjectUsage(record.ID),
			CreatedAt:  record.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) createSubject(c *gin.Context) {
	_, companyID := currentUser(c)

	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", "name is required")
		return
	}

	record := subjectRecord{ID: uuid.NewString(), CompanyID: companyID, Name: req.Name}
	if err := s.store.db.Create(&record).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to create subject")
		return
	}
	c.JSON(http.StatusCreated, models.TaskSubject{ID: record.ID, Name: record.Name, CreatedAt: record.CreatedAt})
}

func (s *Server) updateSubject(c *gin.Context) {
	_, companyID := currentUser(c)

	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", "name is required")
		return
	}

	var record subjectRecord
	err := s.store.db.Where("company_id = ?", companyID).First(&record, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "subject not found")
		} else {
			respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to find subject")
		}
		return
	}

	record.Name = req.Name
	if err := s.store.db.Save(&record).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to update subject")
		return
	}
	c.JSON(http.StatusOK, models.TaskSubject{
		ID:         record.ID,
		Name:       record.Name,
		TasksCount: s.subjectUsage(record.ID),
		CreatedAt:  record.CreatedAt,
	})
}

func (s *Server) deleteSubject(c *gin.Context) {
	_, companyID := currentUser(c)
	id := c.Param("id")

	if s.subjectUsage(id) > 0 {
		respondError(c, http.StatusConflict, "CONFLICT", "subject is in use")
		return
	}

	result := s.store.db.Where("company_id = ?", companyID).Delete(&subjectRecord{}, "id = ?", id)
	if result.Error != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to delete subject")
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "subject not found")
		return
	}
	c.Status(http.StatusNoContent)
}
