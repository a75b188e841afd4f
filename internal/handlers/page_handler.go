package handlers

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/careers-portal/internal/dtos"
	"github.com/justsurfingit/careers-portal/internal/models"
	"github.com/justsurfingit/careers-portal/internal/services"
)

//go:embed templates/*.html
var templatesFS embed.FS

func parseTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))
}

// inputField describes one text input of the form.
type inputField struct {
	Name        string
	Label       string
	Type        string
	Placeholder string
	Value       string
}

type careersPage struct {
	Positions    []models.Position
	Selected     models.Position
	NameFields   []inputField
	DetailFields []inputField
	Resume       *models.ResumeRef
	Notification services.Notification
}

func newCareersPage(state services.State) careersPage {
	f := state.Form
	return careersPage{
		Positions: models.Positions,
		Selected:  state.SelectedPosition,
		NameFields: []inputField{
			{Name: models.FieldFirstName, Label: "First Name", Type: "text", Placeholder: "Enter your first name", Value: f.FirstName},
			{Name: models.FieldLastName, Label: "Last Name", Type: "text", Placeholder: "Enter your last name", Value: f.LastName},
			{Name: models.FieldEmail, Label: "Email", Type: "email", Placeholder: "Enter your email address", Value: f.Email},
		},
		DetailFields: []inputField{
			{Name: models.FieldMajorGraduation, Label: "Major & Graduation", Type: "text", Placeholder: "e.g., Computer Science, 2022", Value: f.MajorGraduation},
			{Name: models.FieldGrowthMetrics, Label: "Growth Metrics of Previous Job", Type: "text", Placeholder: "e.g., Increased user engagement by 40%", Value: f.GrowthMetrics},
			{Name: models.FieldPreviousRole, Label: "Role at Previous or Current Company", Type: "text", Placeholder: "e.g., Senior Software Engineer at Google", Value: f.PreviousRole},
		},
		Resume:       f.Resume,
		Notification: state.Notification,
	}
}

// PageHandler serves the server-rendered careers page and its form posts.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Careers is GET /
func (h *PageHandler) Careers(c *gin.Context) {
	c.HTML(http.StatusOK, "careers.html", newCareersPage(controllerFrom(c).Snapshot()))
}

// ApplyNow is POST /apply-now
func (h *PageHandler) ApplyNow(c *gin.Context) {
	p, ok := models.ParsePosition(c.PostForm("position"))
	if !ok || p == "" {
		c.String(http.StatusBadRequest, "Unknown position")
		return
	}
	viewport := controllerFrom(c).ApplyNow(p)
	c.Redirect(http.StatusSeeOther, "/#"+viewport.Target)
}

// SubmitApplication is POST /application
func (h *PageHandler) SubmitApplication(c *gin.Context) {
	var form dtos.ApplicationForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "Invalid form: "+err.Error())
		return
	}
	p, ok := models.ParsePosition(form.SelectedPosition)
	if !ok {
		c.String(http.StatusBadRequest, "Unknown position")
		return
	}

	ctrl := controllerFrom(c)
	values := form.Form()
	for _, name := range models.TextFields {
		value := values.Field(name)
		if value == nil {
			c.String(http.StatusInternalServerError, "Unknown form field "+name)
			return
		}
		if err := ctrl.SetField(name, *value); err != nil {
			_ = c.Error(err)
			c.String(http.StatusInternalServerError, err.Error())
			return
		}
	}
	ctrl.SetPosition(p)

	// A resume attached earlier stays when the file input comes back empty.
	if fh, err := c.FormFile("resume"); err == nil {
		ref, err := readResume(fh)
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		ctrl.AttachResume(ref)
	}

	if err := ctrl.Submit(context.WithoutCancel(c.Request.Context())); err != nil {
		_ = c.Error(err)
	}
	c.Redirect(http.StatusSeeOther, "/#apply-today")
}

// CloseSuccess is POST /notifications/success/close
func (h *PageHandler) CloseSuccess(c *gin.Context) {
	controllerFrom(c).DismissSuccess()
	c.Redirect(http.StatusSeeOther, "/#apply-today")
}
