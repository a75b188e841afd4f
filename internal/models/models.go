package models

import (
	"time"

	"github.com/samber/lo"
)

type Position string

const (
	SeniorBackendEngineer  Position = "Senior Backend Engineer"
	SeniorFrontendEngineer Position = "Senior Frontend Engineer"
	JuniorBackendEngineer  Position = "Junior Backend Engineer"
	JuniorFrontendEngineer Position = "Junior Frontend Engineer"
)

// Positions lists the open roles in the order the page shows them.
var Positions = []Position{
	SeniorBackendEngineer,
	SeniorFrontendEngineer,
	JuniorBackendEngineer,
	JuniorFrontendEngineer,
}

// ParsePosition accepts one of the open roles or the empty string (nothing selected).
func ParsePosition(raw string) (Position, bool) {
	if raw == "" {
		return "", true
	}
	p := Position(raw)
	return p, lo.Contains(Positions, p)
}

func (p Position) String() string {
	return string(p)
}

// Form field names. They double as the keys of the submitted payload.
const (
	FieldFirstName        = "firstName"
	FieldLastName         = "lastName"
	FieldEmail            = "email"
	FieldMajorGraduation  = "majorGraduation"
	FieldGrowthMetrics    = "growthMetrics"
	FieldPreviousRole     = "previousRole"
	FieldSelectedPosition = "selectedPosition"
)

// TextFields are the free-text inputs of the application form.
var TextFields = []string{
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldMajorGraduation,
	FieldGrowthMetrics,
	FieldPreviousRole,
}

// ResumeRef describes the attached resume. Only metadata is kept.
type ResumeRef struct {
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

type ApplicationForm struct {
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	Email           string     `json:"email"`
	MajorGraduation string     `json:"majorGraduation"`
	GrowthMetrics   string     `json:"growthMetrics"`
	PreviousRole    string     `json:"previousRole"`
	Resume          *ResumeRef `json:"resume"`
}

// Field returns a pointer to the named text field, or nil for unknown names.
func (f *ApplicationForm) Field(name string) *string {
	switch name {
	case FieldFirstName:
		return &f.FirstName
	case FieldLastName:
		return &f.LastName
	case FieldEmail:
		return &f.Email
	case FieldMajorGraduation:
		return &f.MajorGraduation
	case FieldGrowthMetrics:
		return &f.GrowthMetrics
	case FieldPreviousRole:
		return &f.PreviousRole
	}
	return nil
}

// Clone copies the form, including the resume reference.
func (f ApplicationForm) Clone() ApplicationForm {
	if f.Resume != nil {
		r := *f.Resume
		f.Resume = &r
	}
	return f
}

// Outcome of a submit attempt as recorded for operators.
type Outcome string

const (
	OutcomeSuccess     Outcome = "success"
	OutcomeValidation  Outcome = "validation"
	OutcomeTransport   Outcome = "transport"
	OutcomeApplication Outcome = "application"
)

type SubmissionAttempt struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	SessionID  string  `gorm:"index;not null" json:"session_id"`
	Position   string  `json:"position"`
	Email      string  `json:"email"`
	Outcome    Outcome `gorm:"type:varchar(16);not null" json:"outcome"`
	Message    string  `gorm:"type:text" json:"message"`
	StatusCode int     `json:"status_code"`
	DurationMS int64   `json:"duration_ms"`
}
