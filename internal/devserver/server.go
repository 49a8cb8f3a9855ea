// Package devserver is an in-process implementation of the task API
// contract, backed by an embedded database. Integration tests run against
// it, and `taskdesk serve` serves it for local development.
package devserver

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gestorhub/taskdesk/internal/realtime"
)

// Server serves the task API contract.
type Server struct {
	store  *Store
	pub    realtime.Publisher
	engine *gin.Engine
}

// New builds a Server over the given store. A nil publisher disables
// realtime notifications.
func New(store *Store, pub realtime.Publisher) *Server {
	if pub == nil {
		pub = realtime.NopPublisher{}
	}

	s := &Server{store: store, pub: pub}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/auth/login", s.login)

	authed := r.Group("/", s.requireAuth())
	{
		authed.GET("/task", s.listTasks)
		authed.GET("/task/user", s.listUserTasks)
		authed.GET("/task/status", s.statusCounters)
		authed.POST("/task", s.createTask)
		authed.GET("/task/:id", s.getTask)
		authed.PUT("/task/:id", s.updateTask)
		authed.DELETE("/task/:id", s.deleteTask)
		authed.PUT("/task/:id/restore", s.restoreTask)

		authed.GET("/task/category", s.listCategories)
		authed.POST("/task/category", s.createCategory)
		authed.PUT("/task/category/:id", s.updateCategory)
		authed.DELETE("/task/category/:id", s.deleteCategory)
		authed.GET("/task/subject", s.listSubjects)
		authed.POST("/task/subject", s.createSubject)
		authed.PUT("/task/subject/:id", s.updateSubject)
		authed.DELETE("/task/subject/:id", s.deleteSubject)

		authed.GET("/task/:id/notes", s.listNotes)
		authed.POST("/task/:id/notes", s.addNote)
		authed.PUT("/task/:id/notes/:noteId", s.updateNote)
		authed.DELETE("/task/:id/notes/:noteId", s.deleteNote)

		authed.GET("/task/:id/attachments", s.listAttachments)
		authed.POST("/task/:id/attachments", s.uploadAttachment)
		authed.GET("/task/:id/attachments/:attachmentId", s.downloadAttachment)
		authed.DELETE("/task/:id/attachments/:attachmentId", s.deleteAttachment)

		authed.GET("/task/:id/timeline", s.timeline)

		authed.POST("/task/:id/charge", s.addCharge)
		authed.GET("/task/:id/charge/pdf", s.chargePDF)
		authed.POST("/task/:id/charge/email", s.emailCharge)
		authed.POST("/task/:id/charge/payment", s.registerPayment)
		authed.GET("/task/charges/pending", s.pendingCharges)
		authed.GET("/task/charges/paid", s.paidCharges)
		authed.GET("/task/charges/report", s.chargeReport)

		authed.POST("/task/import", s.importTasks)
		authed.POST("/task/export/pdf", s.exportTasksPDF)
		authed.POST("/task/export/excel", s.exportTasksExcel)

		admin := authed.Group("/", s.requireAdmin())
		{
			admin.GET("/companiesPlan", s.listCompanies)
			admin.PUT("/companies/:id/block", s.blockCompany)
			admin.PUT("/companies/:id/unblock", s.unblockCompany)
			admin.DELETE("/companies/:id", s.deleteCompany)
			admin.GET("/companies/export/:type", s.exportCompanies)
		}
	}

	s.engine = r
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	log.Printf("dev server listening on %s", addr)
	return s.engine.Run(addr)
}

// publish sends a realtime notification; delivery is advisory, so a
// failure only gets logged.
func (s *Server) publish(eventType realtime.EventType, companyID, taskID string) {
	event := realtime.Event{Type: eventType, TaskID: taskID, CompanyID: companyID}
	if err := s.pub.Publish(context.Background(), event); err != nil {
		log.Printf("failed to publish %s: %v", eventType, err)
	}
}
