package handlers

import (
	"mime/multipart"

	"github.com/pkg/errors"

	"github.com/justsurfingit/careers-portal/internal/models"
	"github.com/justsurfingit/careers-portal/internal/services"
)

func readResume(fh *multipart.FileHeader) (*models.ResumeRef, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open resume")
	}
	defer f.Close()
	return services.NewResumeRef(fh.Filename, fh.Size, f)
}
