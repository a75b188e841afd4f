package services

import (
	"io"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"

	"github.com/justsurfingit/careers-portal/internal/models"
)

// NewResumeRef describes an uploaded resume from its name, size and content.
// The content is only sniffed for its type and is not retained.
func NewResumeRef(filename string, size int64, content io.Reader) (*models.ResumeRef, error) {
	mt, err := mimetype.DetectReader(content)
	if err != nil {
		return nil, errors.Wrap(err, "detect resume type")
	}
	return &models.ResumeRef{
		Filename:    filepath.Base(filename),
		Size:        size,
		ContentType: mt.String(),
	}, nil
}
