package services

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/justsurfingit/careers-portal/internal/models"
)

var ErrUnknownField = errors.New("unknown form field")

// ViewportDirective tells the page where to scroll after an action.
type ViewportDirective struct {
	Target   string `json:"target"`
	Behavior string `json:"behavior"`
}

var scrollToTop = ViewportDirective{Target: "top", Behavior: "smooth"}

// State is a point-in-time copy of everything the form shows.
type State struct {
	Form             models.ApplicationForm `json:"form"`
	SelectedPosition models.Position        `json:"selectedPosition"`
	Notification     Notification           `json:"notification"`
}

// FormDeps are shared by every controller.
type FormDeps struct {
	Endpoint        ApplicationEndpoint
	NotificationTTL time.Duration
	Log             *logrus.Logger

	// Optional.
	Ledger SubmissionLedger
	Mailer RecruiterNotifier
}

// FormController owns one visitor's application form: field values, the
// selected position and the success/error notification.
type FormController struct {
	SessionID string

	mu       sync.Mutex
	form     models.ApplicationForm
	position models.Position
	notifier *Notifier

	endpoint ApplicationEndpoint
	ledger   SubmissionLedger
	mailer   RecruiterNotifier
	metrics  *submitMetrics
	log      *logrus.Entry
}

func NewFormController(sessionID string, deps FormDeps) *FormController {
	return &FormController{
		SessionID: sessionID,
		notifier:  NewNotifier(deps.NotificationTTL),
		endpoint:  deps.Endpoint,
		ledger:    deps.Ledger,
		mailer:    deps.Mailer,
		metrics:   getMetrics(),
		log:       deps.Log.WithField("session", sessionID),
	}
}

func (c *FormController) SetField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	field := c.form.Field(name)
	if field == nil {
		return errors.Wrapf(ErrUnknownField, "%q", name)
	}
	*field = value
	return nil
}

func (c *FormController) SetPosition(p models.Position) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = p
}

func (c *FormController) AttachResume(ref *models.ResumeRef) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.Resume = ref
}

func (c *FormController) ClearResume() {
	c.AttachResume(nil)
}

// ApplyNow selects the position from a job listing and asks the page to
// bring the form into view. Nothing else changes.
func (c *FormController) ApplyNow(p models.Position) ViewportDirective {
	c.SetPosition(p)
	return scrollToTop
}

// DismissSuccess closes the success dialog if it is showing.
func (c *FormController) DismissSuccess() bool {
	return c.notifier.DismissSuccess()
}

func (c *FormController) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Form:             c.form.Clone(),
		SelectedPosition: c.position,
		Notification:     c.notifier.Current(),
	}
}

// Close stops the pending notification timer.
func (c *FormController) Close() {
	c.notifier.Close()
}

// Submit validates the form and relays it to the endpoint. A nil error means
// the endpoint acknowledged the application and the form was reset. Any other
// outcome returns a *SubmissionError and leaves the fields as they were.
//
// The endpoint is called without holding the lock, so concurrent submits of
// the same session race and the last one to finish decides the notification.
func (c *FormController) Submit(ctx context.Context) error {
	start := time.Now()

	c.mu.Lock()
	form := c.form.Clone()
	position := c.position
	c.mu.Unlock()

	if err := ValidateApplication(form, position); err != nil {
		serr := &SubmissionError{Kind: KindValidation, Err: err}
		c.fail(ctx, serr, form, position, start)
		return serr
	}

	ack, err := c.endpoint.Send(ctx, EncodePayload(form, position))
	if err != nil {
		var serr *SubmissionError
		if !errors.As(err, &serr) {
			serr = &SubmissionError{Kind: KindTransport, Err: err}
		}
		c.fail(ctx, serr, form, position, start)
		return serr
	}

	c.mu.Lock()
	c.form = models.ApplicationForm{}
	c.position = ""
	c.notifier.Success()
	c.mu.Unlock()

	c.log.WithFields(logrus.Fields{
		"position": position,
		"status":   ack.StatusCode,
	}).Info("application submitted")
	c.record(ctx, &models.SubmissionAttempt{
		Position:   string(position),
		Email:      form.Email,
		Outcome:    models.OutcomeSuccess,
		StatusCode: ack.StatusCode,
	}, start)

	if c.mailer != nil {
		go func() {
			if err := c.mailer.NotifyRecruiter(context.WithoutCancel(ctx), form, position); err != nil {
				c.log.WithError(err).Warn("recruiter notice failed")
			}
		}()
	}
	return nil
}

func (c *FormController) fail(ctx context.Context, serr *SubmissionError, form models.ApplicationForm, position models.Position, start time.Time) {
	c.notifier.Error(serr.Message())

	entry := c.log.WithFields(logrus.Fields{
		"kind":     serr.Kind.String(),
		"position": position,
	})
	if serr.StatusCode != 0 {
		entry = entry.WithField("status", serr.StatusCode)
	}
	if serr.Kind == KindValidation {
		entry.WithError(serr.Err).Info("application incomplete")
	} else {
		entry.WithError(serr.Err).Error("error submitting the form")
	}

	c.record(ctx, &models.SubmissionAttempt{
		Position:   string(position),
		Email:      form.Email,
		Outcome:    serr.Kind.Outcome(),
		Message:    serr.Error(),
		StatusCode: serr.StatusCode,
	}, start)
}

func (c *FormController) record(ctx context.Context, attempt *models.SubmissionAttempt, start time.Time) {
	elapsed := time.Since(start)
	c.metrics.observe(attempt.Outcome, elapsed)
	if c.ledger == nil {
		return
	}
	attempt.SessionID = c.SessionID
	attempt.DurationMS = elapsed.Milliseconds()
	if err := c.ledger.Record(context.WithoutCancel(ctx), attempt); err != nil {
		c.log.WithError(err).Warn("could not record submission attempt")
	}
}
