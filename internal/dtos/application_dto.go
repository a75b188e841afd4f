package dtos

import (
	"github.com/justsurfingit/careers-portal/internal/models"
	"github.com/justsurfingit/careers-portal/internal/services"
)

type FieldUpdateRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

type PositionRequest struct {
	// Empty clears the selection.
	Position string `json:"position"`
}

type ApplyNowRequest struct {
	Position string `json:"position" binding:"required"`
}

// ApplicationForm is the multipart body of the page's form post.
type ApplicationForm struct {
	FirstName        string `form:"firstName"`
	LastName         string `form:"lastName"`
	Email            string `form:"email"`
	SelectedPosition string `form:"selectedPosition"`
	MajorGraduation  string `form:"majorGraduation"`
	GrowthMetrics    string `form:"growthMetrics"`
	PreviousRole     string `form:"previousRole"`
}

// Form returns the text fields; the resume travels separately.
func (f ApplicationForm) Form() models.ApplicationForm {
	return models.ApplicationForm{
		FirstName:       f.FirstName,
		LastName:        f.LastName,
		Email:           f.Email,
		MajorGraduation: f.MajorGraduation,
		GrowthMetrics:   f.GrowthMetrics,
		PreviousRole:    f.PreviousRole,
	}
}

type StateResponse struct {
	services.State
	Viewport *services.ViewportDirective `json:"viewport,omitempty"`
}

type SubmitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	services.State
}
