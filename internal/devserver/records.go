package devserver

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/gestorhub/taskdesk/internal/models"
)

// Storage records. The dev server keeps its own GORM-tagged types and maps
// them to the wire model at the handler boundary.

type userRecord struct {
	ID           string `gorm:"primarykey"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CompanyID    string `gorm:"index;not null"`
	Admin        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type sessionRecord struct {
	Token     string `gorm:"primarykey"`
	UserID    string `gorm:"index;not null"`
	CompanyID string `gorm:"not null"`
	CreatedAt time.Time
}

type companyRecord struct {
	ID        string `gorm:"primarykey"`
	Name      string `gorm:"not null"`
	Email     string
	Plan      string
	Blocked   bool
	DueDate   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type taskRecord struct {
	ID        string `gorm:"primarykey"`
	CompanyID string `gorm:"index;not null"`
	Title     string `gorm:"not null"`
	Body      string `gorm:"type:text"`
	DueDate   *time.Time
	Status    string `gorm:"type:varchar(20);not null;default:'pending'"`
	Private   bool

	Recurrent       bool
	RecurrenceType  string
	RecurrenceEnd   *time.Time
	RecurrenceCount int

	HasCharge      bool
	ChargeValue    float64
	ChargePaid     bool
	PaymentDate    *time.Time
	ChargeNotes    string

	CategoryID string `gorm:"index"`
	SubjectID  string `gorm:"index"`
	EmployerID string `gorm:"index"`

	AssignmentType string
	ResponsibleID  string
	GroupUserIDs   string `gorm:"type:text"` // JSON array, group mode only

	CreatorID string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type categoryRecord struct {
	ID        string `gorm:"primarykey"`
	CompanyID string `gorm:"index;not null"`
	Name      string `gorm:"not null"`
	CreatedAt time.Time
}

type subjectRecord struct {
	ID        string `gorm:"primarykey"`
	CompanyID string `gorm:"index;not null"`
	Name      string `gorm:"not null"`
	CreatedAt time.Time
}

type noteRecord struct {
	ID        string `gorm:"primarykey"`
	TaskID    string `gorm:"index;not null"`
	Content   string `gorm:"type:text;not null"`
	AuthorID  string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type attachmentRecord struct {
	ID         string `gorm:"primarykey"`
	TaskID     string `gorm:"index;not null"`
	Filename   string `gorm:"not null"`
	MimeType   string
	Size       int64
	Content    []byte `gorm:"type:blob"`
	UploaderID string `gorm:"not null"`
	CreatedAt  time.Time
}

type timelineRecord struct {
	ID        string `gorm:"primarykey"`
	TaskID    string `gorm:"index;not null"`
	Action    string `gorm:"not null"`
	Details   string `gorm:"type:text"`
	ActorID   string
	CreatedAt time.Time
}

func (r taskRecord) toModel() models.Task {
	task := models.Task{
		ID:         r.ID,
		Title:      r.Title,
		Body:       r.Body,
		DueDate:    r.DueDate,
		Status:     models.TaskStatus(r.Status),
		Private:    r.Private,
		CategoryID: r.CategoryID,
		SubjectID:  r.SubjectID,
		EmployerID: r.EmployerID,
		CreatorID:  r.CreatorID,
		CompanyID:  r.CompanyID,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.DeletedAt.Valid {
		deletedAt := r.DeletedAt.Time
		task.DeletedAt = &deletedAt
	}
	if r.Recurrent {
		task.Recurrence = &models.Recurrence{
			Type:    models.RecurrenceType(r.RecurrenceType),
			EndDate: r.RecurrenceEnd,
			Count:   r.RecurrenceCount,
		}
	}
	if r.HasCharge {
		task.Charge = &models.Charge{
			Value:       r.ChargeValue,
			Paid:        r.ChargePaid,
			PaymentDate: r.PaymentDate,
			Notes:       r.ChargeNotes,
		}
	}
	switch models.AssignmentType(r.AssignmentType) {
	case models.AssignmentGroup:
		var userIDs []string
		_ = json.Unmarshal([]byte(r.GroupUserIDs), &userIDs)
		task.Assignment = models.AssignGroup(userIDs)
	default:
		task.Assignment = models.AssignIndividual(r.ResponsibleID)
	}
	return task
}

func (r *taskRecord) setAssignment(a models.Assignment) {
	switch a.Type {
	case models.AssignmentGroup:
		encoded, _ := json.Marshal(a.UserIDs)
		r.AssignmentType = string(models.AssignmentGroup)
		r.GroupUserIDs = string(encoded)
		r.ResponsibleID = ""
	default:
		r.AssignmentType = string(models.AssignmentIndividual)
		r.ResponsibleID = a.UserID
		r.GroupUserIDs = ""
	}
}

func (r *taskRecord) setRecurrence(rec *models.Recurrence) {
	if rec == nil {
		r.Recurrent = false
		r.RecurrenceType = ""
		r.RecurrenceEnd = nil
		r.RecurrenceCount = 0
		return
	}
	r.Recurrent = true
	r.RecurrenceType = string(rec.Type)
	r.RecurrenceEnd = rec.EndDate
	r.RecurrenceCount = rec.Count
}

func (r *taskRecord) setCharge(charge *models.Charge) {
	if charge == nil {
		r.HasCharge = false
		r.ChargeValue = 0
		r.ChargePaid = false
		r.PaymentDate = nil
		r.ChargeNotes = ""
		return
	}
	r.HasCharge = true
	r.ChargeValue = charge.Value
	r.ChargePaid = charge.Paid
	r.PaymentDate = charge.PaymentDate
	r.ChargeNotes = charge.Notes
}

func (r noteRecord) toModel() models.Note {
	return models.Note{
		ID:        r.ID,
		TaskID:    r.TaskID,
		Content:   r.Content,
		AuthorID:  r.AuthorID,
		CreatedAt: r.CreatedAt,
	}
}

func (r attachmentRecord) toModel() models.Attachment {
	return models.Attachment{
		ID:         r.ID,
		TaskID:     r.TaskID,
		Filename:   r.Filename,
		MimeType:   r.MimeType,
		Size:       r.Size,
		UploaderID: r.UploaderID,
		CreatedAt:  r.CreatedAt,
	}
}

func (r timelineRecord) toModel() models.TimelineEvent {
	return models.TimelineEvent{
		ID:        r.ID,
		TaskID:    r.TaskID,
		Action:    models.TimelineAction(r.Action),
		Details:   json.RawMessage(r.Details),
		ActorID:   r.ActorID,
		CreatedAt: r.CreatedAt,
	}
}

func (r companyRecord) toModel(usersCount int) models.Company {
	return models.Company{
		ID:         r.ID,
		Name:       r.Name,
		Email:      r.Email,
		Plan:       r.Plan,
		Blocked:    r.Blocked,
		DueDate:    r.DueDate,
		UsersCount: usersCount,
		CreatedAt:  r.CreatedAt,
	}
}
