package services

import (
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/samber/lo"

	"github.com/justsurfingit/careers-portal/internal/models"
)

var positionValues = lo.Map(models.Positions, func(p models.Position, _ int) interface{} {
	return string(p)
})

// ValidateApplication checks that every text field is non-blank, a position is
// selected and a resume is attached. The returned validation.Errors names every
// missing piece.
func ValidateApplication(form models.ApplicationForm, position models.Position) error {
	required := func(s string) error {
		return validation.Validate(strings.TrimSpace(s), validation.Required)
	}
	return validation.Errors{
		models.FieldFirstName:        required(form.FirstName),
		models.FieldLastName:         required(form.LastName),
		models.FieldEmail:            required(form.Email),
		models.FieldMajorGraduation:  required(form.MajorGraduation),
		models.FieldGrowthMetrics:    required(form.GrowthMetrics),
		models.FieldPreviousRole:     required(form.PreviousRole),
		models.FieldSelectedPosition: validation.Validate(string(position), validation.Required, validation.In(positionValues...)),
		"resume":                     validation.Validate(form.Resume, validation.NotNil),
	}.Filter()
}

// EncodePayload builds the form body sent to the endpoint. Values are sent as
// typed, without trimming. The resume is not part of the payload.
func EncodePayload(form models.ApplicationForm, position models.Position) url.Values {
	v := url.Values{}
	v.Set(models.FieldFirstName, form.FirstName)
	v.Set(models.FieldLastName, form.LastName)
	v.Set(models.FieldEmail, form.Email)
	v.Set(models.FieldSelectedPosition, string(position))
	v.Set(models.FieldMajorGraduation, form.MajorGraduation)
	v.Set(models.FieldGrowthMetrics, form.GrowthMetrics)
	v.Set(models.FieldPreviousRole, form.PreviousRole)
	return v
}
