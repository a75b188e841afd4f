package services

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/justsurfingit/careers-portal/internal/models"
)

// SubmissionLedger keeps a record of submit attempts for operators.
type SubmissionLedger interface {
	Record(ctx context.Context, attempt *models.SubmissionAttempt) error
}

type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

func (s *LedgerService) Record(ctx context.Context, attempt *models.SubmissionAttempt) error {
	if err := s.DB.WithContext(ctx).Create(attempt).Error; err != nil {
		return errors.Wrap(err, "record submission attempt")
	}
	return nil
}
