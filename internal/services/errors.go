package services

import (
	"fmt"

	"github.com/justsurfingit/careers-portal/internal/models"
)

// User-facing messages for failed submissions.
const (
	MsgIncompleteForm = "Please fill in all fields"
	MsgSubmitFailed   = "Transform is failure"
)

type ErrorKind int

const (
	// KindValidation means a required field, the position or the resume is missing.
	KindValidation ErrorKind = iota + 1
	// KindTransport covers network failures and non-2xx answers from the endpoint.
	KindTransport
	// KindApplication covers an unreadable acknowledgement or one without a truthy ok.
	KindApplication
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	case KindApplication:
		return "application"
	}
	return "unknown"
}

func (k ErrorKind) Outcome() models.Outcome {
	switch k {
	case KindValidation:
		return models.OutcomeValidation
	case KindTransport:
		return models.OutcomeTransport
	}
	return models.OutcomeApplication
}

type SubmissionError struct {
	Kind ErrorKind
	// StatusCode is set when the endpoint answered with a non-2xx status.
	StatusCode int
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s error", e.Kind)
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// Cause is the pkg/errors counterpart of Unwrap.
func (e *SubmissionError) Cause() error {
	return e.Err
}

// Message is what the visitor sees for this failure.
func (e *SubmissionError) Message() string {
	if e.Kind == KindValidation {
		return MsgIncompleteForm
	}
	return MsgSubmitFailed
}
