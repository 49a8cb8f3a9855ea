package devserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	ctxUserID    = "user_id"
	ctxCompanyID = "company_id"
	ctxAdmin     = "admin"
)

func (s *Server) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", "email and password are required")
		return
	}

	var user userRecord
	if err := s.store.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
			return
		}
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to look up user")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
		return
	}

	var company companyRecord
	if err := s.store.db.First(&company, "id = ?", user.CompanyID).Error; err == nil && company.Blocked {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "company is blocked")
		return
	}

	session := sessionRecord{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		CompanyID: user.CompanyID,
	}
	if err := s.store.db.Create(&session).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to create session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      session.Token,
		"user_id":    user.ID,
		"company_id": user.CompanyID,
	})
}

// requireAuth resolves the bearer token into the calling user and tenant.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "bearer token required")
			c.Abort()
			return
		}

		var session sessionRecord
		if err := s.store.db.First(&session, "token = ?", token).Error; err != nil {
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
			c.Abort()
			return
		}

		var user userRecord
		if err := s.store.db.First(&user, "id = ?", session.UserID).Error; err != nil {
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "unknown user")
			c.Abort()
			return
		}

		c.Set(ctxUserID, user.ID)
		c.Set(ctxCompanyID, user.CompanyID)
		c.Set(ctxAdmin, user.Admin)
		c.Next()
	}
}

// requireAdmin gates the tenant administration surface.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ctxAdmin) {
			respondError(c, http.StatusForbidden, "FORBIDDEN", "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) (userID, companyID string) {
	return c.GetString(ctxUserID), c.GetString(ctxCompanyID)
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"code": code, "message": message})
}
