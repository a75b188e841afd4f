package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/gmail/v1"

	"github.com/justsurfingit/careers-portal/internal/models"
)

// RecruiterNotifier tells the hiring team about an accepted application.
type RecruiterNotifier interface {
	NotifyRecruiter(ctx context.Context, form models.ApplicationForm, position models.Position) error
}

type RecruiterMailer struct {
	GmailClient *gmail.Service
	To          string
	Log         *logrus.Entry
}

func NewRecruiterMailer(gmailService *gmail.Service, to string, log *logrus.Logger) *RecruiterMailer {
	return &RecruiterMailer{
		GmailClient: gmailService,
		To:          to,
		Log:         log.WithField("component", "recruiter_mailer"),
	}
}

func (m *RecruiterMailer) NotifyRecruiter(ctx context.Context, form models.ApplicationForm, position models.Position) error {
	raw := BuildRecruiterMessage(m.To, form, position)
	msg := &gmail.Message{Raw: base64.URLEncoding.EncodeToString(raw)}
	sent, err := m.GmailClient.Users.Messages.Send("me", msg).Context(ctx).Do()
	if err != nil {
		return errors.Wrap(err, "send recruiter notice")
	}
	m.Log.WithFields(logrus.Fields{
		"message_id": sent.Id,
		"position":   position,
	}).Info("recruiter notified")
	return nil
}

// BuildRecruiterMessage renders the plain-text notice as an RFC 5322 message.
// The resume is listed by name only since the file itself is never stored.
func BuildRecruiterMessage(to string, form models.ApplicationForm, position models.Position) []byte {
	subject := fmt.Sprintf("New application: %s - %s %s", position, form.FirstName, form.LastName)

	var b bytes.Buffer
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Position: %s\r\n", position)
	fmt.Fprintf(&b, "Name: %s %s\r\n", form.FirstName, form.LastName)
	fmt.Fprintf(&b, "Email: %s\r\n", form.Email)
	fmt.Fprintf(&b, "Major & Graduation: %s\r\n", form.MajorGraduation)
	fmt.Fprintf(&b, "Growth Metrics: %s\r\n", form.GrowthMetrics)
	fmt.Fprintf(&b, "Previous Role: %s\r\n", form.PreviousRole)
	if form.Resume != nil {
		fmt.Fprintf(&b, "Resume: %s (%s, not attached)\r\n", form.Resume.Filename, form.Resume.ContentType)
	}
	return b.Bytes()
}
